package metrics

import (
	"context"

	coremetrics "github.com/kilianp07/conflow/core/metrics"
	"github.com/kilianp07/conflow/infra/logger"
	"github.com/kilianp07/conflow/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and forwards preview events to
// the sink until the context is canceled or the bus is closed. Events buffered
// when the bus closes are still recorded. The returned channel is closed once
// the collector has stopped.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[coremetrics.Event], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
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
				if err := record(sink, ev); err != nil {
					log.Warnf("record %T: %v", ev, err)
				}
			}
		}
	}()
	return done
}

func record(sink coremetrics.MetricsSink, ev coremetrics.Event) error {
	switch e := ev.(type) {
	case coremetrics.PreviewEvent:
		return sink.RecordPreview(e)
	case coremetrics.FlowEvent:
		if r, ok := sink.(coremetrics.FlowRecorder); ok {
			return r.RecordFlow(e)
		}
	case coremetrics.PreviewFailure:
		if r, ok := sink.(coremetrics.FailureRecorder); ok {
			return r.RecordPreviewFailure(e)
		}
	}
	return nil
}
