package preview

import (
	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/core/model"
)

// Comparison relates the capacity required by the planned flow to the maximum
// outbound capacity of a vehicle type.
type Comparison struct {
	CurrentlyPlanned float64        `json:"currently_planned" yaml:"currently_planned"`
	Maximum          model.Capacity `json:"maximum" yaml:"maximum"`
	Exceeded         bool           `json:"exceeded" yaml:"exceeded"`
}

// Difference is the missing capacity in TEU, zero unless exceeded.
func (c Comparison) Difference() float64 {
	if !c.Exceeded {
		return 0
	}
	limit, _ := c.Maximum.TEU()
	return c.CurrentlyPlanned - limit
}

// CapacityExceededPreview checks whether the outbound vehicles can take all
// containers the planned flow assigns to them.
type CapacityExceededPreview struct {
	flow *FlowPreview
}

func NewCapacityExceededPreview(in Input) (*CapacityExceededPreview, error) {
	f, err := NewFlowPreview(in)
	if err != nil {
		return nil, err
	}
	return &CapacityExceededPreview{flow: f}, nil
}

// Hypothesize replaces the distribution used by this preview and the previews it
// is built on.
func (p *CapacityExceededPreview) Hypothesize(d distribution.ModeOfTransport) error {
	return p.flow.Hypothesize(d)
}

func (p *CapacityExceededPreview) Flow() *FlowPreview { return p.flow }

// Compare returns, per outbound vehicle type, the planned TEU (the column sum of
// the flow), the maximum capacity and whether it is exceeded. Trucks are never
// exceeded.
func (p *CapacityExceededPreview) Compare() (map[model.VehicleType]Comparison, error) {
	outbound, err := p.flow.capacity.OutboundCapacity()
	if err != nil {
		return nil, err
	}
	f, err := p.flow.flow()
	if err != nil {
		return nil, err
	}
	types := model.VehicleTypes()
	out := make(map[model.VehicleType]Comparison, len(types))
	for j, vt := range types {
		planned := mat.Sum(f.ColView(j))
		maximum := outbound.Maximum[vt]
		out[vt] = Comparison{
			CurrentlyPlanned: planned,
			Maximum:          maximum,
			Exceeded:         maximum.Exceeded(planned),
		}
	}
	return out, nil
}
