package metrics

import (
	"time"

	"github.com/kilianp07/conflow/core/model"
)

// PreviewEvent summarises one preview run. Maps that the kind of preview does
// not produce are left nil.
type PreviewEvent struct {
	RunID      string
	Kind       string
	Hypothesis bool
	// Inbound is the TEU delivered per vehicle type.
	Inbound map[model.VehicleType]float64
	// OutboundUsed and OutboundMaximum are the outbound capacities per vehicle type.
	OutboundUsed    map[model.VehicleType]float64
	OutboundMaximum map[model.VehicleType]model.Capacity
	// Planned is the TEU the flow assigns to each outbound vehicle type.
	Planned  map[model.VehicleType]float64
	Exceeded map[model.VehicleType]bool
	Duration time.Duration
	Time     time.Time
}

// ExceededCount returns how many vehicle types lack outbound capacity.
func (e PreviewEvent) ExceededCount() int {
	n := 0
	for _, v := range e.Exceeded {
		if v {
			n++
		}
	}
	return n
}

// MetricsSink records preview runs for observability purposes.
type MetricsSink interface {
	RecordPreview(ev PreviewEvent) error
}

// FlowEvent carries an estimated inbound to outbound flow in TEU.
type FlowEvent struct {
	RunID string
	Flow  map[model.VehicleType]map[model.VehicleType]float64
	Time  time.Time
}

// FlowRecorder records flow matrices.
type FlowRecorder interface {
	RecordFlow(ev FlowEvent) error
}

// PreviewFailure describes a preview that could not be computed, e.g. because
// of a malformed schedule or distribution.
type PreviewFailure struct {
	RunID  string
	Kind   string
	Reason string
	Time   time.Time
}

// FailureRecorder records failed preview runs.
type FailureRecorder interface {
	RecordPreviewFailure(ev PreviewFailure) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPreview(PreviewEvent) error          { return nil }
func (NopSink) RecordFlow(FlowEvent) error                { return nil }
func (NopSink) RecordPreviewFailure(PreviewFailure) error { return nil }

// Event is anything published on the preview event bus.
type Event interface {
	EventTime() time.Time
}

func (e PreviewEvent) EventTime() time.Time   { return e.Time }
func (e FlowEvent) EventTime() time.Time      { return e.Time }
func (e PreviewFailure) EventTime() time.Time { return e.Time }
