package mqtt

import (
	"context"
	"time"

	coremetrics "github.com/kilianp07/conflow/core/metrics"
	"github.com/kilianp07/conflow/core/model"
	coremqtt "github.com/kilianp07/conflow/core/mqtt"
	"github.com/kilianp07/conflow/infra/logger"
	"github.com/kilianp07/conflow/internal/eventbus"
)

// PreviewMessage is the JSON payload published for a finished preview run.
type PreviewMessage struct {
	RunID           string                                              `json:"run_id"`
	Kind            string                                              `json:"kind"`
	Hypothesis      bool                                                `json:"hypothesis"`
	Inbound         map[model.VehicleType]float64                       `json:"inbound,omitempty"`
	OutboundUsed    map[model.VehicleType]float64                       `json:"outbound_used,omitempty"`
	OutboundMaximum map[model.VehicleType]model.Capacity                `json:"outbound_maximum,omitempty"`
	Planned         map[model.VehicleType]float64                       `json:"planned,omitempty"`
	Exceeded        map[model.VehicleType]bool                          `json:"exceeded,omitempty"`
	Flow            map[model.VehicleType]map[model.VehicleType]float64 `json:"flow,omitempty"`
	Error           string                                              `json:"error,omitempty"`
	DurationMS      float64                                             `json:"duration_ms,omitempty"`
	Timestamp       time.Time                                           `json:"timestamp"`
}

// NewPreviewMessage converts a bus event into its MQTT payload. The second
// result is false for events that are not published.
func NewPreviewMessage(ev coremetrics.Event) (string, PreviewMessage, bool) {
	switch e := ev.(type) {
	case coremetrics.PreviewEvent:
		return e.RunID, PreviewMessage{
			RunID:           e.RunID,
			Kind:            e.Kind,
			Hypothesis:      e.Hypothesis,
			Inbound:         e.Inbound,
			OutboundUsed:    e.OutboundUsed,
			OutboundMaximum: e.OutboundMaximum,
			Planned:         e.Planned,
			Exceeded:        e.Exceeded,
			DurationMS:      float64(e.Duration) / float64(time.Millisecond),
			Timestamp:       e.Time,
		}, true
	case coremetrics.FlowEvent:
		return e.RunID, PreviewMessage{RunID: e.RunID, Kind: "flow", Flow: e.Flow, Timestamp: e.Time}, true
	case coremetrics.PreviewFailure:
		return e.RunID, PreviewMessage{RunID: e.RunID, Kind: e.Kind, Error: e.Reason, Timestamp: e.Time}, true
	default:
		return "", PreviewMessage{}, false
	}
}

// StartPreviewPublisher forwards every preview event on the bus to the
// publisher until ctx is canceled or the bus is closed. Events buffered when
// the bus closes are still published. The returned channel is closed once the
// publisher loop has stopped.
func StartPreviewPublisher(ctx context.Context, bus *eventbus.TypedBus[coremetrics.Event], pub coremqtt.Publisher, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || pub == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				runID, msg, ok := NewPreviewMessage(ev)
				if !ok {
					continue
				}
				if err := pub.Publish(ctx, pub.Topic(runID), msg); err != nil {
					log.Warnf("publish preview %s: %v", runID, err)
				}
			}
		}
	}()
	return done
}
