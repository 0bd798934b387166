package preview

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/core/schedule"
)

func testDistribution() distribution.ModeOfTransport {
	toVessels := map[model.VehicleType]float64{
		model.Truck: 0, model.Train: 0, model.Barge: 0, model.Feeder: 0.5, model.DeepSeaVessel: 0.5,
	}
	fromVessels := map[model.VehicleType]float64{
		model.Truck: 0.2, model.Train: 0.4, model.Barge: 0.1, model.Feeder: 0.15, model.DeepSeaVessel: 0.15,
	}
	clone := func(m map[model.VehicleType]float64) map[model.VehicleType]float64 {
		out := make(map[model.VehicleType]float64, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out
	}
	return distribution.ModeOfTransport{
		model.Truck:         clone(toVessels),
		model.Train:         clone(toVessels),
		model.Barge:         clone(toVessels),
		model.Feeder:        clone(fromVessels),
		model.DeepSeaVessel: clone(fromVessels),
	}
}

func testProperties() Properties {
	return Properties{
		StartDate:            time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		TransportationBuffer: DefaultTransportationBuffer,
	}
}

func feederSchedule() model.Schedule {
	return model.Schedule{
		VehicleType:            model.Feeder,
		ServiceName:            "TestFeederService",
		ArrivesOn:              time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		ArrivesAt:              13*time.Hour + 20*time.Minute,
		EveryKDays:             model.SingleArrival,
		AverageVehicleCapacity: 400,
		AverageMovedCapacity:   300,
	}
}

func testInput(schedules ...model.Schedule) Input {
	return Input{Properties: testProperties(), Schedules: schedules, ModeOfTransport: testDistribution()}
}

func TestCompareWithoutSchedules(t *testing.T) {
	p, err := NewCapacityExceededPreview(testInput())
	require.NoError(t, err)
	got, err := p.Compare()
	require.NoError(t, err)
	require.Len(t, got, 5)
	for _, vt := range model.VehicleTypes() {
		c := got[vt]
		assert.Equal(t, 0.0, c.CurrentlyPlanned, vt.String())
		assert.False(t, c.Exceeded, vt.String())
		if vt == model.Truck {
			assert.True(t, c.Maximum.IsUncapped())
			assert.Equal(t, -1.0, c.Maximum.Float())
			continue
		}
		assert.Equal(t, model.Capped(0), c.Maximum, vt.String())
	}
}

func TestCompareWithSingleFeeder(t *testing.T) {
	p, err := NewCapacityExceededPreview(testInput(feederSchedule()))
	require.NoError(t, err)
	got, err := p.Compare()
	require.NoError(t, err)

	want := map[model.VehicleType]struct {
		planned, maximum float64
		exceeded         bool
	}{
		model.DeepSeaVessel: {75, 0, true},
		model.Feeder:        {75, 360, false},
		model.Barge:         {30, 0, true},
		model.Train:         {120, 0, true},
		model.Truck:         {60, -1, false},
	}
	for vt, w := range want {
		c := got[vt]
		assert.InDelta(t, w.planned, c.CurrentlyPlanned, 1e-9, vt.String())
		assert.InDelta(t, w.maximum, c.Maximum.Float(), 1e-9, vt.String())
		assert.Equal(t, w.exceeded, c.Exceeded, vt.String())
	}
	assert.InDelta(t, 120.0, got[model.Train].Difference(), 1e-9)
	assert.Equal(t, 0.0, got[model.Feeder].Difference())
	assert.Equal(t, 0.0, got[model.Truck].Difference())
}

func TestInboundAndOutboundCapacity(t *testing.T) {
	weekly := model.Schedule{
		VehicleType:            model.DeepSeaVessel,
		ServiceName:            "LoopA",
		ArrivesOn:              time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EveryKDays:             7,
		AverageVehicleCapacity: 1000,
		AverageMovedCapacity:   900,
	}
	p, err := NewCapacityPreview(testInput(weekly, feederSchedule()))
	require.NoError(t, err)

	in, err := p.InboundCapacity()
	require.NoError(t, err)
	// 1, 8 and 15 March with the end date counted.
	assert.InDelta(t, 2700.0, in[model.DeepSeaVessel], 1e-9)
	assert.InDelta(t, 300.0, in[model.Feeder], 1e-9)
	assert.Equal(t, 0.0, in[model.Barge])
	assert.InDelta(t, 0.2*2700+0.2*300, in[model.Truck], 1e-9)

	out, err := p.OutboundCapacity()
	require.NoError(t, err)
	assert.InDelta(t, 2700.0, out.Used[model.DeepSeaVessel], 1e-9)
	// min(900*1.2, 1000) per call.
	assert.Equal(t, model.Capped(3000), out.Maximum[model.DeepSeaVessel])
	assert.Equal(t, model.Capped(360), out.Maximum[model.Feeder])
	assert.InDelta(t, in[model.Truck], out.Used[model.Truck], 1e-9)
	assert.True(t, out.Maximum[model.Truck].IsUncapped())
	assert.Len(t, out.Used, 5)
	assert.Len(t, out.Maximum, 5)
}

func TestCapacityErrorRaisedBeforeComputation(t *testing.T) {
	bad := feederSchedule()
	bad.ServiceName = "Broken"
	bad.AverageMovedCapacity = 450
	in := testInput(feederSchedule(), bad)

	cp, err := NewCapacityPreview(in)
	require.NoError(t, err)
	_, err = cp.OutboundCapacity()
	var capErr *model.CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, "Broken", capErr.ServiceName)
	_, err = cp.InboundCapacity()
	assert.ErrorIs(t, err, model.ErrMovedExceedsVehicleCapacity)

	ep, err := NewCapacityExceededPreview(in)
	require.NoError(t, err)
	_, err = ep.Compare()
	assert.ErrorIs(t, err, model.ErrMovedExceedsVehicleCapacity)
}

func TestFlowConservation(t *testing.T) {
	weekly := model.Schedule{
		VehicleType: model.Barge, ServiceName: "Barge-1", ArrivesOn: time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC),
		EveryKDays: 3, AverageVehicleCapacity: 80, AverageMovedCapacity: 33.3,
	}
	in := testInput(weekly, feederSchedule())
	in.ModeOfTransport = distribution.DefaultModeOfTransport()
	p, err := NewFlowPreview(in)
	require.NoError(t, err)

	flow, err := p.InboundToOutboundFlow()
	require.NoError(t, err)
	inbound, err := p.Capacity().InboundCapacity()
	require.NoError(t, err)
	require.Len(t, flow, 5)
	for _, vt := range model.VehicleTypes() {
		require.Len(t, flow[vt], 5)
		assert.InDelta(t, inbound[vt], flow.Inbound(vt), 1e-9, vt.String())
	}
	assert.InDelta(t, 300*0.05, flow[model.Feeder][model.Barge], 1e-9)
}

func TestFlowInContainers(t *testing.T) {
	p, err := NewFlowPreview(testInput(feederSchedule()))
	require.NoError(t, err)
	lengths := distribution.ContainerLength{
		model.TwentyFeet: 0, model.FortyFeet: 1, model.FortyFiveFeet: 0, model.OtherLength: 0,
	}
	flow, err := p.InboundToOutboundFlowInContainers(lengths)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, flow[model.Feeder][model.Train], 1e-9)

	_, err = p.InboundToOutboundFlowInContainers(distribution.ContainerLength{model.FortyFeet: 1})
	assert.ErrorIs(t, err, distribution.ErrMissingCategory)
}

func TestHypothesizeIsScopedToInstance(t *testing.T) {
	ctx := context.Background()
	store := distribution.NewMemoryStore()
	require.NoError(t, store.SetModeOfTransport(ctx, testDistribution()))
	repo := schedule.NewMemoryRepository(feederSchedule())

	in, err := LoadInput(ctx, testProperties(), repo, store)
	require.NoError(t, err)
	a, err := NewCapacityExceededPreview(in)
	require.NoError(t, err)
	b, err := NewCapacityExceededPreview(in)
	require.NoError(t, err)

	allToTruck := testDistribution()
	allToTruck[model.Feeder] = map[model.VehicleType]float64{
		model.Truck: 1, model.Train: 0, model.Barge: 0, model.Feeder: 0, model.DeepSeaVessel: 0,
	}
	require.NoError(t, a.Hypothesize(allToTruck))
	allToTruck[model.Feeder][model.Truck] = 0.5

	got, err := a.Compare()
	require.NoError(t, err)
	assert.InDelta(t, 300.0, got[model.Truck].CurrentlyPlanned, 1e-9)
	assert.False(t, got[model.Truck].Exceeded)
	assert.False(t, got[model.Train].Exceeded)

	other, err := b.Compare()
	require.NoError(t, err)
	assert.InDelta(t, 60.0, other[model.Truck].CurrentlyPlanned, 1e-9)

	stored, err := store.ModeOfTransport(ctx)
	require.NoError(t, err)
	assert.Equal(t, testDistribution(), stored)
}

func TestHypothesizeRejectsInvalid(t *testing.T) {
	p, err := NewCapacityExceededPreview(testInput(feederSchedule()))
	require.NoError(t, err)

	missing := testDistribution()
	delete(missing[model.Barge], model.Train)
	assert.ErrorIs(t, p.Hypothesize(missing), distribution.ErrMissingCategory)

	unnormalized := testDistribution()
	unnormalized[model.Feeder][model.Truck] = 0.3
	assert.ErrorIs(t, p.Hypothesize(unnormalized), distribution.ErrNotNormalized)

	got, err := p.Compare()
	require.NoError(t, err)
	assert.InDelta(t, 60.0, got[model.Truck].CurrentlyPlanned, 1e-9)
}

func TestTruckNeverExceeded(t *testing.T) {
	huge := model.Schedule{
		VehicleType: model.DeepSeaVessel, ServiceName: "Huge", ArrivesOn: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EveryKDays: 1, AverageVehicleCapacity: 25000, AverageMovedCapacity: 25000,
	}
	in := testInput(huge)
	in.ModeOfTransport[model.DeepSeaVessel] = map[model.VehicleType]float64{
		model.Truck: 1, model.Train: 0, model.Barge: 0, model.Feeder: 0, model.DeepSeaVessel: 0,
	}
	p, err := NewCapacityExceededPreview(in)
	require.NoError(t, err)
	got, err := p.Compare()
	require.NoError(t, err)
	assert.Greater(t, got[model.Truck].CurrentlyPlanned, 1e5)
	assert.False(t, got[model.Truck].Exceeded)
	assert.Equal(t, -1.0, got[model.Truck].Maximum.Float())
}

func TestModalSplit(t *testing.T) {
	p, err := NewModalSplitPreview(testInput(feederSchedule()))
	require.NoError(t, err)

	ts, err := p.TransshipmentAndHinterland()
	require.NoError(t, err)
	// feeder->feeder 45, feeder->deep sea 45.
	assert.InDelta(t, 90.0, ts.TransshipmentCapacity, 1e-9)
	// feeder->hinterland 210 plus truck->vessels 60.
	assert.InDelta(t, 270.0, ts.HinterlandCapacity, 1e-9)
	share, ok := ts.TransshipmentShare().Value()
	assert.True(t, ok)
	assert.InDelta(t, 0.25, share, 1e-9)

	inbound, err := p.HinterlandModalSplit(true, false)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, inbound.TruckCapacity, 1e-9)
	assert.Equal(t, 0.0, inbound.TrainCapacity)

	outbound, err := p.HinterlandModalSplit(false, true)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, outbound.TruckCapacity, 1e-9)
	assert.InDelta(t, 120.0, outbound.TrainCapacity, 1e-9)
	assert.InDelta(t, 30.0, outbound.BargeCapacity, 1e-9)

	both, err := p.HinterlandModalSplit(true, true)
	require.NoError(t, err)
	assert.InDelta(t, 270.0, both.Total(), 1e-9)
	assert.InDelta(t, 120.0, both.Capacity(model.Truck), 1e-9)
	assert.InDelta(t, 120.0, both.Capacity(model.Train), 1e-9)
	assert.Equal(t, 0.0, both.Capacity(model.Feeder))
}

func TestModalSplitWithoutTraffic(t *testing.T) {
	p, err := NewModalSplitPreview(testInput())
	require.NoError(t, err)
	ts, err := p.TransshipmentAndHinterland()
	require.NoError(t, err)
	assert.False(t, ts.TransshipmentShare().Meaningful())
	split, err := p.HinterlandModalSplit(true, true)
	require.NoError(t, err)
	assert.False(t, split.Share(model.Truck).Meaningful())
}

func TestCompareRejectsNonFiniteCapacity(t *testing.T) {
	s := feederSchedule()
	s.AverageMovedCapacity = math.NaN()
	p, err := NewCapacityExceededPreview(testInput(s))
	require.NoError(t, err)
	_, err = p.Compare()
	assert.ErrorIs(t, err, model.ErrInvalidSchedule)
}

func TestPropertiesValidate(t *testing.T) {
	p := testProperties()
	require.NoError(t, p.Validate())

	same := p
	same.EndDate = same.StartDate.Add(5 * time.Hour)
	assert.ErrorIs(t, same.Validate(), ErrInvalidWindow)

	buf := p
	buf.TransportationBuffer = -1
	assert.ErrorIs(t, buf.Validate(), ErrInvalidBuffer)

	_, err := NewCapacityPreview(Input{Properties: buf, ModeOfTransport: testDistribution()})
	assert.ErrorIs(t, err, ErrInvalidBuffer)

	for _, v := range []float64{math.Inf(1), math.NaN()} {
		buf.TransportationBuffer = v
		assert.ErrorIs(t, buf.Validate(), ErrInvalidBuffer, "buffer %v", v)
	}

	_, err = NewFlowPreview(Input{Properties: p})
	assert.ErrorIs(t, err, distribution.ErrMissingCategory)
}

func TestReports(t *testing.T) {
	c, err := NewCapacityPreview(testInput(feederSchedule()))
	require.NoError(t, err)
	cr, err := c.Report()
	require.NoError(t, err)
	assert.Equal(t, 300.0, cr.Inbound[model.Feeder])
	assert.True(t, cr.Outbound.Maximum[model.Truck].IsUncapped())

	m, err := NewModalSplitPreview(testInput(feederSchedule()))
	require.NoError(t, err)
	mr, err := m.Report()
	require.NoError(t, err)
	assert.InDelta(t, 90.0, mr.Transshipment.TransshipmentCapacity, 1e-9)
	assert.InDelta(t, 270.0, mr.Both.Total(), 1e-9)
}

func TestIsValidationError(t *testing.T) {
	bad := feederSchedule()
	bad.AverageMovedCapacity = 500
	c, err := NewCapacityPreview(testInput(bad))
	require.NoError(t, err)
	_, err = c.Report()
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(errors.New("connection refused")))
	assert.True(t, IsValidationError(ErrInvalidWindow))
}
