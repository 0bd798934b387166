package scenarios

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/core/preview"
	"github.com/kilianp07/conflow/core/schedule"
)

type PropertiesDef struct {
	StartDate            string   `yaml:"start_date"`
	EndDate              string   `yaml:"end_date"`
	TransportationBuffer *float64 `yaml:"transportation_buffer,omitempty"`
}

func (p PropertiesDef) ToModel() (preview.Properties, error) {
	start, err := model.ParseDate(p.StartDate)
	if err != nil {
		return preview.Properties{}, errors.Wrap(err, "start_date")
	}
	end, err := model.ParseDate(p.EndDate)
	if err != nil {
		return preview.Properties{}, errors.Wrap(err, "end_date")
	}
	buffer := preview.DefaultTransportationBuffer
	if p.TransportationBuffer != nil {
		buffer = *p.TransportationBuffer
	}
	return preview.Properties{StartDate: start, EndDate: end, TransportationBuffer: buffer}, nil
}

type ComparisonDef struct {
	Planned  float64 `yaml:"planned"`
	Maximum  float64 `yaml:"maximum"`
	Exceeded bool    `yaml:"exceeded"`
}

// Expected lists the results a scenario checks. Empty sections are skipped.
type Expected struct {
	Inbound       map[string]float64       `yaml:"inbound,omitempty"`
	Exceeded      map[string]ComparisonDef `yaml:"exceeded,omitempty"`
	Transshipment *float64                 `yaml:"transshipment,omitempty"`
	Hinterland    *float64                 `yaml:"hinterland,omitempty"`
	// Error is a substring of the error every preview must fail with.
	Error string `yaml:"error,omitempty"`
}

// Scenario is a terminal setup with the results its previews must produce.
// ModeOfTransport rows replace rows of the default distribution and Hypothesis
// rows replace rows of the scenario distribution.
type Scenario struct {
	Name            string                        `yaml:"name"`
	Description     string                        `yaml:"description,omitempty"`
	Properties      PropertiesDef                 `yaml:"properties"`
	Schedules       []schedule.Definition         `yaml:"schedules"`
	ModeOfTransport map[string]map[string]float64 `yaml:"mode_of_transport,omitempty"`
	Hypothesis      map[string]map[string]float64 `yaml:"hypothesis,omitempty"`
	Expected        Expected                      `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario %s", path)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrapf(err, "decode scenario %s", path)
	}
	if sc.Name == "" {
		return nil, errors.Errorf("scenario %s has no name", path)
	}
	return &sc, nil
}

// ScheduleModels converts the schedule definitions. Capacities are validated by the
// previews, not here.
func (sc *Scenario) ScheduleModels() ([]model.Schedule, error) {
	out := make([]model.Schedule, 0, len(sc.Schedules))
	for _, d := range sc.Schedules {
		s, err := d.ToModel()
		if err != nil {
			return nil, errors.Wrapf(err, "scenario %s", sc.Name)
		}
		out = append(out, s)
	}
	return out, nil
}

// Distribution returns the default distribution with the scenario rows applied.
func (sc *Scenario) Distribution() (distribution.ModeOfTransport, error) {
	return overlay(distribution.DefaultModeOfTransport(), sc.ModeOfTransport)
}

// HypothesisDistribution returns nil when the scenario has no hypothesis.
func (sc *Scenario) HypothesisDistribution() (distribution.ModeOfTransport, error) {
	if len(sc.Hypothesis) == 0 {
		return nil, nil
	}
	base, err := sc.Distribution()
	if err != nil {
		return nil, err
	}
	return overlay(base, sc.Hypothesis)
}

func overlay(base distribution.ModeOfTransport, rows map[string]map[string]float64) (distribution.ModeOfTransport, error) {
	raw := base.Raw()
	for in, row := range rows {
		raw[in] = row
	}
	d, err := distribution.ParseModeOfTransport(raw)
	if err != nil {
		return nil, errors.Wrap(err, "mode of transport")
	}
	return d, nil
}
