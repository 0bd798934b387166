package scenarios

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/conflow/app"
	"github.com/kilianp07/conflow/core/distribution"
	coremetrics "github.com/kilianp07/conflow/core/metrics"
	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/core/schedule"
	"github.com/kilianp07/conflow/infra/logger"
	"github.com/kilianp07/conflow/infra/metrics"
	"github.com/kilianp07/conflow/internal/eventbus"
)

const tolerance = 1e-6

// RunScenario runs every preview of sc through an app.Service backed by memory
// stores and checks the expectations, including the exported gauges.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	bus := eventbus.NewTyped[coremetrics.Event]()
	defer bus.Close()
	metrics.StartEventCollector(ctx, bus, sink, logger.NopLogger{})

	props, err := sc.Properties.ToModel()
	require.NoError(t, err)
	schedules, err := sc.ScheduleModels()
	require.NoError(t, err)
	dist, err := sc.Distribution()
	require.NoError(t, err)
	hyp, err := sc.HypothesisDistribution()
	require.NoError(t, err)

	store := distribution.NewMemoryStore()
	require.NoError(t, store.SetModeOfTransport(ctx, dist))
	svc := app.NewService(schedule.NewMemoryRepository(schedules...), store, props, bus, logger.NopLogger{})

	if sc.Expected.Error != "" {
		_, err := svc.Capacity(ctx, hyp)
		assert.ErrorContains(t, err, sc.Expected.Error, "capacity")
		_, err = svc.Exceeded(ctx, hyp)
		assert.ErrorContains(t, err, sc.Expected.Error, "exceeded")
		return
	}

	if len(sc.Expected.Inbound) > 0 {
		res, err := svc.Capacity(ctx, hyp)
		require.NoError(t, err)
		for name, want := range sc.Expected.Inbound {
			vt, err := model.ParseVehicleType(name)
			require.NoError(t, err)
			assert.InDelta(t, want, res.Inbound[vt], tolerance, "inbound %s", name)
		}
	}

	if len(sc.Expected.Exceeded) > 0 {
		cmp, err := svc.Exceeded(ctx, hyp)
		require.NoError(t, err)
		exceeded := 0
		for name, want := range sc.Expected.Exceeded {
			vt, err := model.ParseVehicleType(name)
			require.NoError(t, err)
			got := cmp[vt]
			assert.InDelta(t, want.Planned, got.CurrentlyPlanned, tolerance, "planned %s", name)
			assert.InDelta(t, want.Maximum, got.Maximum.Float(), tolerance, "maximum %s", name)
			assert.Equal(t, want.Exceeded, got.Exceeded, "exceeded %s", name)
			if want.Exceeded {
				exceeded++
			}
		}
		assert.Eventually(t, func() bool {
			return exceededGauges(reg) == exceeded
		}, time.Second, 10*time.Millisecond, "exceeded gauges")
	}

	if sc.Expected.Transshipment != nil || sc.Expected.Hinterland != nil {
		split, err := svc.ModalSplit(ctx, hyp)
		require.NoError(t, err)
		if sc.Expected.Transshipment != nil {
			assert.InDelta(t, *sc.Expected.Transshipment, split.Transshipment.TransshipmentCapacity, tolerance)
		}
		if sc.Expected.Hinterland != nil {
			assert.InDelta(t, *sc.Expected.Hinterland, split.Transshipment.HinterlandCapacity, tolerance)
		}
	}
}

// exceededGauges counts the vehicle types flagged as exceeded on reg.
func exceededGauges(reg *prometheus.Registry) int {
	families, err := reg.Gather()
	if err != nil {
		return -1
	}
	n := 0
	for _, f := range families {
		if f.GetName() != "preview_capacity_exceeded" {
			continue
		}
		for _, m := range f.GetMetric() {
			if m.GetGauge().GetValue() == 1 {
				n++
			}
		}
	}
	return n
}
