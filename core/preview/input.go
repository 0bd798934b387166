package preview

import (
	"context"
	"fmt"

	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/core/schedule"
)

// Input is everything a preview reads. It is loaded once and never re-read.
type Input struct {
	Properties      Properties
	Schedules       []model.Schedule
	ModeOfTransport distribution.ModeOfTransport
}

// LoadInput reads the schedules and the mode of transport distribution of the
// current scenario.
func LoadInput(ctx context.Context, props Properties, schedules schedule.Repository, dists distribution.Store) (Input, error) {
	if err := props.Validate(); err != nil {
		return Input{}, err
	}
	all, err := schedules.All(ctx)
	if err != nil {
		return Input{}, fmt.Errorf("load schedules: %w", err)
	}
	mot, err := dists.ModeOfTransport(ctx)
	if err != nil {
		return Input{}, fmt.Errorf("load mode of transport distribution: %w", err)
	}
	return Input{Properties: props, Schedules: all, ModeOfTransport: mot}, nil
}
