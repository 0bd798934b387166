package distribution

import "github.com/kilianp07/conflow/core/model"

// ContainerLength is the share of each container length among all containers.
type ContainerLength map[model.ContainerLength]float64

func (d ContainerLength) Validate() error {
	return Validate(d, model.ContainerLengths())
}

func (d ContainerLength) Clone() ContainerLength {
	if d == nil {
		return nil
	}
	out := make(ContainerLength, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// AverageTEUFactor returns the expected TEU of a single container.
func (d ContainerLength) AverageTEUFactor() float64 {
	f := 0.0
	for l, p := range d {
		f += p * l.TEUFactor()
	}
	return f
}

// DefaultContainerLength returns the container length mix a new scenario starts with.
func DefaultContainerLength() ContainerLength {
	return ContainerLength{
		model.TwentyFeet:    0.4,
		model.FortyFeet:     0.6,
		model.FortyFiveFeet: 0,
		model.OtherLength:   0,
	}
}
