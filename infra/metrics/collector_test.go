package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	coremetrics "github.com/kilianp07/conflow/core/metrics"
	"github.com/kilianp07/conflow/infra/logger"
	"github.com/kilianp07/conflow/internal/eventbus"
)

type countingSink struct {
	mu       sync.Mutex
	previews int
	flows    int
}

func (s *countingSink) RecordPreview(coremetrics.PreviewEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previews++
	return nil
}

func (s *countingSink) RecordFlow(coremetrics.FlowEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows++
	return nil
}

func (s *countingSink) RecordPreviewFailure(coremetrics.PreviewFailure) error { return nil }

func (s *countingSink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previews, s.flows
}

func TestStartEventCollector(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := eventbus.NewTyped[coremetrics.Event]()
	defer bus.Close()
	sink := &countingSink{}
	StartEventCollector(ctx, bus, sink, logger.NopLogger{})

	// Subscription happens synchronously, so published events are not lost.
	bus.Publish(coremetrics.PreviewEvent{Kind: "capacity"})
	bus.Publish(coremetrics.FlowEvent{})
	bus.Publish(coremetrics.PreviewFailure{Kind: "flow"})

	assert.Eventually(t, func() bool {
		p, f := sink.counts()
		return p == 1 && f == 1
	}, time.Second, 5*time.Millisecond)
}

func TestStartEventCollectorStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := eventbus.NewTyped[coremetrics.Event]()
	sink := &countingSink{}
	StartEventCollector(ctx, bus, sink, nil)
	cancel()
	assert.Eventually(t, func() bool { return bus.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
}

func TestEventCollectorDrainsOnBusClose(t *testing.T) {
	bus := eventbus.NewTyped[coremetrics.Event]()
	sink := &countingSink{}
	done := StartEventCollector(context.Background(), bus, sink, nil)
	for i := 0; i < 5; i++ {
		bus.Publish(coremetrics.PreviewEvent{Kind: "exceeded"})
	}
	bus.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop after the bus closed")
	}
	p, _ := sink.counts()
	assert.Equal(t, 5, p)
}
