package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/core/preview"
)

// defaultScenarioDays is the window length used when no end date is configured.
const defaultScenarioDays = 21

// ScenarioConfig describes the time window the previews cover.
type ScenarioConfig struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	// TransportationBuffer is optional so that an explicit 0 is kept.
	TransportationBuffer *float64 `json:"transportation_buffer"`

	now func() time.Time
}

// SetDefaults starts the window today and lets it run for three weeks.
func (c *ScenarioConfig) SetDefaults() {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	if c.StartDate == "" {
		c.StartDate = model.FormatDate(model.Day(now()))
	}
	if c.EndDate == "" {
		if start, err := model.ParseDate(c.StartDate); err == nil {
			c.EndDate = model.FormatDate(start.AddDate(0, 0, defaultScenarioDays))
		}
	}
	if c.TransportationBuffer == nil {
		b := preview.DefaultTransportationBuffer
		c.TransportationBuffer = &b
	}
}

func (c ScenarioConfig) Validate() error {
	p, err := c.Properties()
	if err != nil {
		return err
	}
	return p.Validate()
}

// Properties converts the configuration into preview properties.
func (c ScenarioConfig) Properties() (preview.Properties, error) {
	start, err := model.ParseDate(c.StartDate)
	if err != nil {
		return preview.Properties{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := model.ParseDate(c.EndDate)
	if err != nil {
		return preview.Properties{}, fmt.Errorf("end_date: %w", err)
	}
	buffer := preview.DefaultTransportationBuffer
	if c.TransportationBuffer != nil {
		buffer = *c.TransportationBuffer
	}
	return preview.Properties{StartDate: start, EndDate: end, TransportationBuffer: buffer}, nil
}
