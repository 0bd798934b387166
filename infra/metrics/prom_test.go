package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/conflow/core/metrics"
	"github.com/kilianp07/conflow/core/model"
)

func exceededEvent() coremetrics.PreviewEvent {
	return coremetrics.PreviewEvent{
		RunID: "run-1",
		Kind:  "exceeded",
		OutboundMaximum: map[model.VehicleType]model.Capacity{
			model.Feeder: model.Capped(360),
			model.Barge:  model.Capped(0),
			model.Truck:  model.Uncapped(),
		},
		Planned: map[model.VehicleType]float64{
			model.Feeder: 75,
			model.Barge:  30,
			model.Truck:  60,
		},
		Exceeded: map[model.VehicleType]bool{
			model.Feeder: false,
			model.Barge:  true,
			model.Truck:  false,
		},
		Duration: 3 * time.Millisecond,
		Time:     time.Now(),
	}
}

func TestPromSink_RecordPreview(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	if err := sink.RecordPreview(exceededEvent()); err != nil {
		t.Fatalf("record: %v", err)
	}

	expected := `
# HELP preview_capacity_exceeded 1 if the outbound capacity of the vehicle type is exceeded
# TYPE preview_capacity_exceeded gauge
preview_capacity_exceeded{vehicle_type="barge"} 1
preview_capacity_exceeded{vehicle_type="feeder"} 0
preview_capacity_exceeded{vehicle_type="truck"} 0
`
	if err := testutil.CollectAndCompare(sink.exceeded, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if c := testutil.CollectAndCount(sink.maximum); c != 2 {
		t.Errorf("expected uncapped truck to be skipped, got %d series", c)
	}
	if v := testutil.ToFloat64(sink.planned.WithLabelValues("truck")); v != 60 {
		t.Errorf("unexpected planned truck %v", v)
	}
	if v := testutil.ToFloat64(sink.runs.WithLabelValues("exceeded", "ok")); v != 1 {
		t.Errorf("unexpected run count %v", v)
	}
	if c := testutil.CollectAndCount(sink.duration); c == 0 {
		t.Errorf("duration not recorded")
	}

	if err := sink.RecordPreviewFailure(coremetrics.PreviewFailure{Kind: "flow", Reason: "bad"}); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if v := testutil.ToFloat64(sink.runs.WithLabelValues("flow", "error")); v != 1 {
		t.Errorf("unexpected failure count %v", v)
	}
}

func TestPromSink_RecordFlow(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	flow := map[model.VehicleType]map[model.VehicleType]float64{
		model.Feeder: {model.Train: 120},
	}
	if err := sink.RecordFlow(coremetrics.FlowEvent{Flow: flow}); err != nil {
		t.Fatalf("record flow: %v", err)
	}
	if c := testutil.CollectAndCount(sink.flow); c != 25 {
		t.Errorf("expected full 5x5 flow, got %d", c)
	}
	if v := testutil.ToFloat64(sink.flow.WithLabelValues("feeder", "train")); v != 120 {
		t.Errorf("unexpected flow %v", v)
	}
}

func TestPromSink_ReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("first sink: %v", err)
	}
	b, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second sink: %v", err)
	}
	if a.planned != b.planned {
		t.Fatalf("expected collectors to be shared")
	}
}
