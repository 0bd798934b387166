package distribution

import "github.com/kilianp07/conflow/core/model"

// ParseModeOfTransport converts a matrix keyed by vehicle type names, as read
// from YAML or JSON files, and validates it. Unknown names are reported as
// unknown categories.
func ParseModeOfTransport(raw map[string]map[string]float64) (ModeOfTransport, error) {
	d := make(ModeOfTransport, len(raw))
	for inName, row := range raw {
		in, err := model.ParseVehicleType(inName)
		if err != nil {
			return nil, &UnknownCategoryError{Category: inName}
		}
		r := make(map[model.VehicleType]float64, len(row))
		for outName, v := range row {
			out, err := model.ParseVehicleType(outName)
			if err != nil {
				return nil, &UnknownCategoryError{Row: in.String(), Category: outName}
			}
			r[out] = v
		}
		d[in] = r
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseContainerLength converts a distribution keyed by container length names
// and validates it.
func ParseContainerLength(raw map[string]float64) (ContainerLength, error) {
	d := make(ContainerLength, len(raw))
	for name, v := range raw {
		l, err := model.ParseContainerLength(name)
		if err != nil {
			return nil, &UnknownCategoryError{Category: name}
		}
		d[l] = v
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Raw returns d keyed by vehicle type names, the inverse of ParseModeOfTransport.
func (d ModeOfTransport) Raw() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(d))
	for in, row := range d {
		r := make(map[string]float64, len(row))
		for k, v := range row {
			r[k.String()] = v
		}
		out[in.String()] = r
	}
	return out
}

// Raw returns d keyed by container length names.
func (d ContainerLength) Raw() map[string]float64 {
	out := make(map[string]float64, len(d))
	for k, v := range d {
		out[k.String()] = v
	}
	return out
}
