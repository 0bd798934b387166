package preview

import (
	"fmt"
	"math"

	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/core/schedule"
)

// CapacityByVehicleType holds a TEU value for every vehicle type.
type CapacityByVehicleType map[model.VehicleType]float64

func newCapacityByVehicleType() CapacityByVehicleType {
	c := make(CapacityByVehicleType, len(model.VehicleTypes()))
	for _, vt := range model.VehicleTypes() {
		c[vt] = 0
	}
	return c
}

// Total sums the capacity of all vehicle types.
func (c CapacityByVehicleType) Total() float64 {
	t := 0.0
	for _, v := range c {
		t += v
	}
	return t
}

// OutboundCapacity is what vehicles take with them on their outbound journey.
// Used assumes balanced flows while Maximum applies the transportation buffer.
type OutboundCapacity struct {
	Used    CapacityByVehicleType                `json:"used" yaml:"used"`
	Maximum map[model.VehicleType]model.Capacity `json:"maximum" yaml:"maximum"`
}

// CapacityPreview estimates how much the inbound vehicles deliver and how much
// the outbound vehicles can take, before the full generation runs.
type CapacityPreview struct {
	props     Properties
	schedules []model.Schedule
	dist      distribution.ModeOfTransport
}

// NewCapacityPreview validates the input eagerly and takes its own copy of it.
func NewCapacityPreview(in Input) (*CapacityPreview, error) {
	if err := in.Properties.Validate(); err != nil {
		return nil, err
	}
	if err := in.ModeOfTransport.Validate(); err != nil {
		return nil, fmt.Errorf("mode of transport distribution: %w", err)
	}
	return &CapacityPreview{
		props:     in.Properties,
		schedules: append([]model.Schedule(nil), in.Schedules...),
		dist:      in.ModeOfTransport.Clone(),
	}, nil
}

// Hypothesize replaces the distribution of this preview only. The stored
// distribution is left untouched.
func (p *CapacityPreview) Hypothesize(d distribution.ModeOfTransport) error {
	if err := d.Validate(); err != nil {
		return err
	}
	p.dist = d.Clone()
	return nil
}

// Distribution returns a copy of the distribution in use.
func (p *CapacityPreview) Distribution() distribution.ModeOfTransport {
	return p.dist.Clone()
}

func (p *CapacityPreview) Properties() Properties { return p.props }

// InboundCapacity returns the TEU delivered per vehicle type within the window.
// Trucks are not scheduled; their capacity follows from what the other vehicles
// deliver for pickup by truck.
func (p *CapacityPreview) InboundCapacity() (CapacityByVehicleType, error) {
	arrivals, err := p.arrivalCounts()
	if err != nil {
		return nil, err
	}
	return p.inbound(arrivals), nil
}

// OutboundCapacity returns the used and maximum outbound capacity per vehicle type.
func (p *CapacityPreview) OutboundCapacity() (OutboundCapacity, error) {
	arrivals, err := p.arrivalCounts()
	if err != nil {
		return OutboundCapacity{}, err
	}

	out := OutboundCapacity{
		Used:    newCapacityByVehicleType(),
		Maximum: make(map[model.VehicleType]model.Capacity, len(model.VehicleTypes())),
	}
	for _, vt := range model.ScheduledVehicleTypes() {
		out.Maximum[vt] = model.Capped(0)
	}
	for i, s := range p.schedules {
		n := float64(arrivals[i])
		out.Used[s.VehicleType] += n * s.AverageMovedCapacity
		perVehicle := math.Min(s.AverageMovedCapacity*(1+p.props.TransportationBuffer), s.AverageVehicleCapacity)
		out.Maximum[s.VehicleType] = out.Maximum[s.VehicleType].Add(model.Capped(n * perVehicle))
	}
	// Each import container picked up by a truck is followed by an export
	// container delivered by one, and trucks are added as required.
	out.Used[model.Truck] = p.truckCapacityForExportContainers(p.inbound(arrivals))
	out.Maximum[model.Truck] = model.Uncapped()
	return out, nil
}

func (p *CapacityPreview) inbound(arrivals []int) CapacityByVehicleType {
	in := newCapacityByVehicleType()
	for i, s := range p.schedules {
		in[s.VehicleType] += float64(arrivals[i]) * s.AverageMovedCapacity
	}
	in[model.Truck] = p.truckCapacityForExportContainers(in)
	return in
}

func (p *CapacityPreview) truckCapacityForExportContainers(inbound CapacityByVehicleType) float64 {
	total := 0.0
	for _, vt := range model.ScheduledVehicleTypes() {
		total += inbound[vt] * p.dist.Fraction(vt, model.Truck)
	}
	return total
}

// arrivalCounts validates every schedule before counting its arrivals, so a
// malformed schedule fails before anything is aggregated.
func (p *CapacityPreview) arrivalCounts() ([]int, error) {
	for _, s := range p.schedules {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	counts := make([]int, len(p.schedules))
	for i, s := range p.schedules {
		a, err := schedule.ArrivalsOf(s, p.props.StartDate, p.props.EndDate)
		if err != nil {
			return nil, fmt.Errorf("schedule %q: %w", s.ServiceName, err)
		}
		counts[i] = len(a)
	}
	return counts, nil
}
