package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/core/model"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		sc, err := Load(f)
		require.NoError(t, err, f)
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load("no-file.yaml")
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(":"), 0o600))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "decode scenario")

	unnamed := filepath.Join(dir, "unnamed.yaml")
	require.NoError(t, os.WriteFile(unnamed, []byte("schedules: []\n"), 0o600))
	_, err = Load(unnamed)
	assert.ErrorContains(t, err, "has no name")
}

func TestDistributionOverlay(t *testing.T) {
	sc := &Scenario{
		Name: "overlay",
		ModeOfTransport: map[string]map[string]float64{
			"barge": {"truck": 1, "train": 0, "barge": 0, "feeder": 0, "deep_sea_vessel": 0},
		},
		Hypothesis: map[string]map[string]float64{
			"train": {"truck": 0, "train": 0, "barge": 1, "feeder": 0, "deep_sea_vessel": 0},
		},
	}
	d, err := sc.Distribution()
	require.NoError(t, err)
	assert.Equal(t, 1.0, d.Fraction(model.Barge, model.Truck))
	assert.Equal(t, distribution.DefaultModeOfTransport().Fraction(model.Train, model.Feeder), d.Fraction(model.Train, model.Feeder))

	hyp, err := sc.HypothesisDistribution()
	require.NoError(t, err)
	assert.Equal(t, 1.0, hyp.Fraction(model.Barge, model.Truck))
	assert.Equal(t, 1.0, hyp.Fraction(model.Train, model.Barge))

	sc.Hypothesis = map[string]map[string]float64{"train": {"barge": 0.5}}
	_, err = sc.HypothesisDistribution()
	assert.ErrorIs(t, err, distribution.ErrMissingCategory)

	sc.Hypothesis = nil
	hyp, err = sc.HypothesisDistribution()
	require.NoError(t, err)
	assert.Nil(t, hyp)
}

func TestPropertiesDef(t *testing.T) {
	p, err := PropertiesDef{StartDate: "2025-03-01", EndDate: "2025-03-15"}.ToModel()
	require.NoError(t, err)
	assert.Equal(t, 14, model.DaysBetween(p.StartDate, p.EndDate))

	_, err = PropertiesDef{StartDate: "03/01/2025", EndDate: "2025-03-15"}.ToModel()
	assert.ErrorContains(t, err, "start_date")
}
