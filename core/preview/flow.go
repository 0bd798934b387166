package preview

import (
	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/core/model"
)

// FlowMatrix is the TEU moving from an inbound vehicle type (outer key) to an
// outbound vehicle type (inner key). All pairs are present.
type FlowMatrix map[model.VehicleType]map[model.VehicleType]float64

// Inbound returns the TEU delivered by in, i.e. the row sum.
func (m FlowMatrix) Inbound(in model.VehicleType) float64 {
	t := 0.0
	for _, v := range m[in] {
		t += v
	}
	return t
}

// Outbound returns the TEU picked up by out, i.e. the column sum.
func (m FlowMatrix) Outbound(out model.VehicleType) float64 {
	t := 0.0
	for _, row := range m {
		t += row[out]
	}
	return t
}

func (m FlowMatrix) Total() float64 {
	t := 0.0
	for in := range m {
		t += m.Inbound(in)
	}
	return t
}

// FlowPreview estimates how many TEU move between each pair of vehicle types.
type FlowPreview struct {
	capacity *CapacityPreview
}

func NewFlowPreview(in Input) (*FlowPreview, error) {
	c, err := NewCapacityPreview(in)
	if err != nil {
		return nil, err
	}
	return &FlowPreview{capacity: c}, nil
}

// Hypothesize replaces the distribution used by this preview.
func (p *FlowPreview) Hypothesize(d distribution.ModeOfTransport) error {
	return p.capacity.Hypothesize(d)
}

func (p *FlowPreview) Capacity() *CapacityPreview { return p.capacity }

// InboundToOutboundFlow routes the inbound capacity of each vehicle type to the
// outbound vehicle types according to the mode of transport distribution.
func (p *FlowPreview) InboundToOutboundFlow() (FlowMatrix, error) {
	dense, err := p.flow()
	if err != nil {
		return nil, err
	}
	return toFlowMatrix(dense), nil
}

// InboundToOutboundFlowInContainers converts the TEU flow into a number of
// containers using the average TEU factor of the container length mix.
func (p *FlowPreview) InboundToOutboundFlowInContainers(lengths distribution.ContainerLength) (FlowMatrix, error) {
	if err := lengths.Validate(); err != nil {
		return nil, err
	}
	dense, err := p.flow()
	if err != nil {
		return nil, err
	}
	factor := lengths.AverageTEUFactor()
	if factor > 0 {
		dense.Scale(1/factor, dense)
	}
	return toFlowMatrix(dense), nil
}

// flow computes diag(inbound)·D with rows and columns in vehicle type order.
func (p *FlowPreview) flow() (*mat.Dense, error) {
	inbound, err := p.capacity.InboundCapacity()
	if err != nil {
		return nil, err
	}
	types := model.VehicleTypes()
	n := len(types)
	capacities := make([]float64, n)
	d := mat.NewDense(n, n, nil)
	for i, in := range types {
		capacities[i] = inbound[in]
		for j, out := range types {
			d.Set(i, j, p.capacity.dist.Fraction(in, out))
		}
	}
	var f mat.Dense
	f.Mul(mat.NewDiagDense(n, capacities), d)
	return &f, nil
}

func toFlowMatrix(f *mat.Dense) FlowMatrix {
	types := model.VehicleTypes()
	m := make(FlowMatrix, len(types))
	for i, in := range types {
		row := make(map[model.VehicleType]float64, len(types))
		for j, out := range types {
			row[out] = f.At(i, j)
		}
		m[in] = row
	}
	return m
}
