package metrics

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPreview forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordPreview(ev PreviewEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPreview(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordFlow forwards flows to the sinks supporting them.
func (m *MultiSink) RecordFlow(ev FlowEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(FlowRecorder); ok {
			if err := rec.RecordFlow(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordPreviewFailure forwards failures to the sinks supporting them.
func (m *MultiSink) RecordPreviewFailure(ev PreviewFailure) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(FailureRecorder); ok {
			if err := rec.RecordPreviewFailure(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
