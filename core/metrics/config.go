package metrics

import "github.com/kilianp07/conflow/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks" koanf:"sinks"`
	// PrometheusAddr is where /metrics is served, e.g. ":9090". Empty disables it.
	PrometheusAddr string `json:"prometheus_addr" yaml:"prometheus_addr" koanf:"prometheus_addr"`
}
