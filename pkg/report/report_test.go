package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/core/preview"
)

func reportDistribution() distribution.ModeOfTransport {
	d := make(distribution.ModeOfTransport)
	for _, in := range []model.VehicleType{model.Truck, model.Train, model.Barge} {
		d[in] = map[model.VehicleType]float64{
			model.Truck: 0, model.Train: 0, model.Barge: 0, model.Feeder: 0.5, model.DeepSeaVessel: 0.5,
		}
	}
	for _, in := range model.SeasideVehicleTypes() {
		d[in] = map[model.VehicleType]float64{
			model.Truck: 0.2, model.Train: 0.4, model.Barge: 0.1, model.Feeder: 0.15, model.DeepSeaVessel: 0.15,
		}
	}
	return d
}

func reportInput(schedules ...model.Schedule) preview.Input {
	return preview.Input{
		Properties: preview.Properties{
			StartDate:            time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			EndDate:              time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			TransportationBuffer: preview.DefaultTransportationBuffer,
		},
		Schedules:       schedules,
		ModeOfTransport: reportDistribution(),
	}
}

func singleFeeder() model.Schedule {
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

func exceededReport(t *testing.T, in preview.Input) string {
	t.Helper()
	p, err := preview.NewCapacityExceededPreview(in)
	require.NoError(t, err)
	cmp, err := p.Compare()
	require.NoError(t, err)
	return Exceeded(cmp)
}

func TestExceededReportWithoutSchedules(t *testing.T) {
	want := `
vehicle type     maximum capacity (in TEU) required capacity (in TEU) exceeded difference (in TEU)
deep sea vessel                        0.0                       0.0        no                 0.0
feeder                                 0.0                       0.0        no                 0.0
barge                                  0.0                       0.0        no                 0.0
train                                  0.0                       0.0        no                 0.0
truck                                 -1.0                       0.0        no                 0.0
(rounding errors might exist)
`
	assert.Equal(t, want, exceededReport(t, reportInput()))
}

func TestExceededReportWithSingleFeeder(t *testing.T) {
	want := `
vehicle type     maximum capacity (in TEU) required capacity (in TEU) exceeded difference (in TEU)
deep sea vessel                        0.0                      75.0       yes                75.0
feeder                               360.0                      75.0        no                 0.0
barge                                  0.0                      30.0       yes                30.0
train                                  0.0                     120.0       yes               120.0
truck                                 -1.0                      60.0        no                 0.0
(rounding errors might exist)
`
	assert.Equal(t, want, exceededReport(t, reportInput(singleFeeder())))
}

func TestModalSplitReport(t *testing.T) {
	p, err := preview.NewModalSplitPreview(reportInput(singleFeeder()))
	require.NoError(t, err)
	th, err := p.TransshipmentAndHinterland()
	require.NoError(t, err)
	inbound, err := p.HinterlandModalSplit(true, false)
	require.NoError(t, err)
	outbound, err := p.HinterlandModalSplit(false, true)
	require.NoError(t, err)
	both, err := p.HinterlandModalSplit(true, true)
	require.NoError(t, err)

	want := `
Transshipment share
transshipment proportion (in TEU):      90.00 (25.00%)
hinterland proportion (in TEU):        270.00 (75.00%)

Inbound modal split
truck proportion (in TEU):       60.0 (100.00%)
barge proportion (in TEU):        0.0 (0.00%)
train proportion (in TEU):        0.0 (0.00%)

Outbound modal split
truck proportion (in TEU):       60.0 (28.57%)
barge proportion (in TEU):       30.0 (14.29%)
train proportion (in TEU):      120.0 (57.14%)

Absolute modal split (both inbound and outbound)
truck proportion (in TEU):      120.0 (44.44%)
barge proportion (in TEU):       30.0 (11.11%)
train proportion (in TEU):      120.0 (44.44%)
(rounding errors might exist)
`
	assert.Equal(t, want, ModalSplit(th, inbound, outbound, both))
}

func TestModalSplitReportWithoutTraffic(t *testing.T) {
	got := ModalSplit(preview.TransshipmentAndHinterland{}, preview.HinterlandModalSplit{},
		preview.HinterlandModalSplit{}, preview.HinterlandModalSplit{})
	assert.Contains(t, got, "transshipment proportion (in TEU):       0.00 (-%)\n")
	assert.Contains(t, got, "truck proportion (in TEU):        0.0 (-%)\n")
	assert.NotContains(t, got, "NaN")
}

func TestFlowReport(t *testing.T) {
	p, err := preview.NewFlowPreview(reportInput(singleFeeder()))
	require.NoError(t, err)
	flow, err := p.InboundToOutboundFlow()
	require.NoError(t, err)

	got := Flow(flow)
	lines := strings.Split(strings.TrimPrefix(got, "\n"), "\n")
	// header, 25 pairs, rounding note, trailing empty line
	require.Len(t, lines, 28)
	assert.Equal(t, "vehicle type (from) vehicle type (to) transported capacity (in TEU)", lines[0])
	assert.Equal(t, "feeder              train                                     120.0", lines[1+1*5+3])
	assert.Equal(t, "(rounding errors might exist)", lines[26])
}

func TestCapacityReport(t *testing.T) {
	p, err := preview.NewCapacityPreview(reportInput(singleFeeder()))
	require.NoError(t, err)
	inbound, err := p.InboundCapacity()
	require.NoError(t, err)
	outbound, err := p.OutboundCapacity()
	require.NoError(t, err)

	got := Capacity(inbound, outbound)
	assert.Contains(t, got, "feeder                     300.0                 300.0                 360.0\n")
	assert.Contains(t, got, "truck                       60.0                  60.0                  -1.0\n")
}
