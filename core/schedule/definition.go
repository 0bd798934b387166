package schedule

import (
	"fmt"
	"time"

	"github.com/kilianp07/conflow/core/model"
)

// Definition is the file representation of a schedule. Dates use YYYY-MM-DD
// and times HH:MM or HH:MM:SS.
type Definition struct {
	VehicleType            string  `yaml:"vehicle_type" json:"vehicle_type"`
	ServiceName            string  `yaml:"service_name" json:"service_name"`
	ArrivesOn              string  `yaml:"arrives_on" json:"arrives_on"`
	ArrivesAt              string  `yaml:"arrives_at" json:"arrives_at"`
	EveryKDays             int     `yaml:"every_k_days" json:"every_k_days"`
	AverageVehicleCapacity float64 `yaml:"average_vehicle_capacity" json:"average_vehicle_capacity"`
	AverageMovedCapacity   float64 `yaml:"average_moved_capacity" json:"average_moved_capacity"`
}

// ToModel parses the definition. It does not validate the capacities.
func (d Definition) ToModel() (model.Schedule, error) {
	vt, err := model.ParseVehicleType(d.VehicleType)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("schedule %q: %w", d.ServiceName, err)
	}
	on, err := model.ParseDate(d.ArrivesOn)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("schedule %q: %w", d.ServiceName, err)
	}
	var at time.Duration
	if d.ArrivesAt != "" {
		if at, err = model.ParseTimeOfDay(d.ArrivesAt); err != nil {
			return model.Schedule{}, fmt.Errorf("schedule %q: %w", d.ServiceName, err)
		}
	}
	return model.Schedule{
		VehicleType:            vt,
		ServiceName:            d.ServiceName,
		ArrivesOn:              on,
		ArrivesAt:              at,
		EveryKDays:             d.EveryKDays,
		AverageVehicleCapacity: d.AverageVehicleCapacity,
		AverageMovedCapacity:   d.AverageMovedCapacity,
	}, nil
}

// DefinitionOf is the inverse of ToModel.
func DefinitionOf(s model.Schedule) Definition {
	return Definition{
		VehicleType:            s.VehicleType.String(),
		ServiceName:            s.ServiceName,
		ArrivesOn:              model.FormatDate(s.ArrivesOn),
		ArrivesAt:              model.FormatTimeOfDay(s.ArrivesAt),
		EveryKDays:             s.EveryKDays,
		AverageVehicleCapacity: s.AverageVehicleCapacity,
		AverageMovedCapacity:   s.AverageMovedCapacity,
	}
}
