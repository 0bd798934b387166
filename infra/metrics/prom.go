package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/conflow/core/metrics"
	"github.com/kilianp07/conflow/core/model"
)

// PromSink exposes the latest preview results as Prometheus gauges.
type PromSink struct {
	inbound  *prometheus.GaugeVec
	used     *prometheus.GaugeVec
	maximum  *prometheus.GaugeVec
	planned  *prometheus.GaugeVec
	exceeded *prometheus.GaugeVec
	flow     *prometheus.GaugeVec
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPromSink registers preview metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately, see StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors that
// are already registered are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gauge := func(name, help string, labels ...string) (*prometheus.GaugeVec, error) {
		return register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels))
	}
	s := &PromSink{}
	var err error
	if s.inbound, err = gauge("preview_inbound_capacity_teu", "Estimated inbound capacity in TEU", "vehicle_type"); err != nil {
		return nil, err
	}
	if s.used, err = gauge("preview_outbound_used_teu", "Estimated used outbound capacity in TEU", "vehicle_type"); err != nil {
		return nil, err
	}
	if s.maximum, err = gauge("preview_outbound_maximum_teu", "Maximum outbound capacity in TEU, uncapped vehicle types are not reported", "vehicle_type"); err != nil {
		return nil, err
	}
	if s.planned, err = gauge("preview_planned_teu", "TEU the estimated flow assigns to outbound vehicles", "vehicle_type"); err != nil {
		return nil, err
	}
	if s.exceeded, err = gauge("preview_capacity_exceeded", "1 if the outbound capacity of the vehicle type is exceeded", "vehicle_type"); err != nil {
		return nil, err
	}
	if s.flow, err = gauge("preview_flow_teu", "Estimated flow from inbound to outbound vehicle type in TEU", "from", "to"); err != nil {
		return nil, err
	}
	if s.runs, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "preview_runs_total",
		Help: "Number of preview runs",
	}, []string{"kind", "outcome"})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "preview_duration_seconds",
		Help:    "Time spent computing a preview",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

// RecordPreview updates the gauges of every vehicle type the event carries.
func (s *PromSink) RecordPreview(ev coremetrics.PreviewEvent) error {
	for vt, v := range ev.Inbound {
		s.inbound.WithLabelValues(vt.String()).Set(v)
	}
	for vt, v := range ev.OutboundUsed {
		s.used.WithLabelValues(vt.String()).Set(v)
	}
	for vt, c := range ev.OutboundMaximum {
		if teu, ok := c.TEU(); ok {
			s.maximum.WithLabelValues(vt.String()).Set(teu)
		}
	}
	for vt, v := range ev.Planned {
		s.planned.WithLabelValues(vt.String()).Set(v)
	}
	for vt, v := range ev.Exceeded {
		s.exceeded.WithLabelValues(vt.String()).Set(boolToFloat(v))
	}
	s.runs.WithLabelValues(ev.Kind, "ok").Inc()
	s.duration.WithLabelValues(ev.Kind).Observe(ev.Duration.Seconds())
	return nil
}

// RecordFlow sets one gauge per vehicle type pair.
func (s *PromSink) RecordFlow(ev coremetrics.FlowEvent) error {
	for _, in := range model.VehicleTypes() {
		for _, out := range model.VehicleTypes() {
			s.flow.WithLabelValues(in.String(), out.String()).Set(ev.Flow[in][out])
		}
	}
	return nil
}

func (s *PromSink) RecordPreviewFailure(ev coremetrics.PreviewFailure) error {
	s.runs.WithLabelValues(ev.Kind, "error").Inc()
	return nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
