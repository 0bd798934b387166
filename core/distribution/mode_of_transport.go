package distribution

import (
	"github.com/kilianp07/conflow/core/model"
)

// ModeOfTransport maps each inbound vehicle type to the probability distribution
// of the outbound vehicle type its containers leave the terminal with.
type ModeOfTransport map[model.VehicleType]map[model.VehicleType]float64

// Validate checks that every vehicle type has a row, and every row is a valid
// categorical distribution over all vehicle types.
func (d ModeOfTransport) Validate() error {
	types := model.VehicleTypes()
	known := make(map[model.VehicleType]struct{}, len(types))
	for _, in := range types {
		known[in] = struct{}{}
		if _, ok := d[in]; !ok {
			return &MissingCategoryError{Category: in.String()}
		}
	}
	for in := range d {
		if _, ok := known[in]; !ok {
			return &UnknownCategoryError{Category: in.String()}
		}
	}
	for _, in := range types {
		if err := validateRow(in.String(), d[in], types); err != nil {
			return err
		}
	}
	return nil
}

// Fraction returns the share of containers arriving with in that depart with out.
func (d ModeOfTransport) Fraction(in, out model.VehicleType) float64 {
	return d[in][out]
}

// Clone returns a deep copy so callers cannot alias each other's matrix.
func (d ModeOfTransport) Clone() ModeOfTransport {
	if d == nil {
		return nil
	}
	out := make(ModeOfTransport, len(d))
	for in, row := range d {
		r := make(map[model.VehicleType]float64, len(row))
		for k, v := range row {
			r[k] = v
		}
		out[in] = r
	}
	return out
}

// DefaultModeOfTransport returns the distribution a new scenario starts with.
func DefaultModeOfTransport() ModeOfTransport {
	return ModeOfTransport{
		model.Truck: {
			model.Truck:         0,
			model.Train:         0,
			model.Barge:         0,
			model.Feeder:        0.2,
			model.DeepSeaVessel: 0.8,
		},
		model.Train: {
			model.Truck:         0,
			model.Train:         0,
			model.Barge:         0,
			model.Feeder:        0.2,
			model.DeepSeaVessel: 0.8,
		},
		model.Barge: {
			model.Truck:         0,
			model.Train:         0,
			model.Barge:         0,
			model.Feeder:        0.2,
			model.DeepSeaVessel: 0.8,
		},
		model.Feeder: {
			model.Truck:         0.2,
			model.Train:         0.1,
			model.Barge:         0.05,
			model.Feeder:        0.05,
			model.DeepSeaVessel: 0.6,
		},
		model.DeepSeaVessel: {
			model.Truck:         0.3,
			model.Train:         0.15,
			model.Barge:         0.1,
			model.Feeder:        0.25,
			model.DeepSeaVessel: 0.2,
		},
	}
}
