// Package metrics defines the sinks preview runs are reported to. Sinks like
// PromSink and InfluxSink live in infra/metrics and can be combined with
// NewMultiSink. NewMetricsSink returns a MultiSink automatically when several
// sinks are configured.
package metrics
