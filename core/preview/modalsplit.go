package preview

import (
	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/core/model"
)

// TransshipmentAndHinterland splits the flow into containers that stay on the
// seaside and containers with a hinterland leg.
type TransshipmentAndHinterland struct {
	TransshipmentCapacity float64 `json:"transshipment_capacity" yaml:"transshipment_capacity"`
	HinterlandCapacity    float64 `json:"hinterland_capacity" yaml:"hinterland_capacity"`
}

func (t TransshipmentAndHinterland) TransshipmentShare() model.Share {
	return model.Ratio(t.TransshipmentCapacity, t.TransshipmentCapacity+t.HinterlandCapacity)
}

func (t TransshipmentAndHinterland) HinterlandShare() model.Share {
	return model.Ratio(t.HinterlandCapacity, t.TransshipmentCapacity+t.HinterlandCapacity)
}

// HinterlandModalSplit is the TEU carried by each hinterland mode.
type HinterlandModalSplit struct {
	TruckCapacity float64 `json:"truck_capacity" yaml:"truck_capacity"`
	BargeCapacity float64 `json:"barge_capacity" yaml:"barge_capacity"`
	TrainCapacity float64 `json:"train_capacity" yaml:"train_capacity"`
}

func (h HinterlandModalSplit) Total() float64 {
	return h.TruckCapacity + h.BargeCapacity + h.TrainCapacity
}

// Share returns the part of the hinterland traffic carried by vt.
func (h HinterlandModalSplit) Share(vt model.VehicleType) model.Share {
	return model.Ratio(h.Capacity(vt), h.Total())
}

// Capacity returns the TEU carried by vt, zero for vessels.
func (h HinterlandModalSplit) Capacity(vt model.VehicleType) float64 {
	switch vt {
	case model.Truck:
		return h.TruckCapacity
	case model.Barge:
		return h.BargeCapacity
	case model.Train:
		return h.TrainCapacity
	default:
		return 0
	}
}

func (h *HinterlandModalSplit) add(vt model.VehicleType, teu float64) {
	switch vt {
	case model.Truck:
		h.TruckCapacity += teu
	case model.Barge:
		h.BargeCapacity += teu
	case model.Train:
		h.TrainCapacity += teu
	}
}

// ModalSplitPreview derives the transshipment share and the hinterland modal
// split from the estimated flow.
type ModalSplitPreview struct {
	flow *FlowPreview
}

func NewModalSplitPreview(in Input) (*ModalSplitPreview, error) {
	f, err := NewFlowPreview(in)
	if err != nil {
		return nil, err
	}
	return &ModalSplitPreview{flow: f}, nil
}

func (p *ModalSplitPreview) Hypothesize(d distribution.ModeOfTransport) error {
	return p.flow.Hypothesize(d)
}

// TransshipmentAndHinterland counts vessel-to-vessel flows as transshipment and
// everything else as hinterland traffic.
func (p *ModalSplitPreview) TransshipmentAndHinterland() (TransshipmentAndHinterland, error) {
	flow, err := p.flow.InboundToOutboundFlow()
	if err != nil {
		return TransshipmentAndHinterland{}, err
	}
	transshipment := 0.0
	for _, in := range model.SeasideVehicleTypes() {
		for _, out := range model.SeasideVehicleTypes() {
			transshipment += flow[in][out]
		}
	}
	return TransshipmentAndHinterland{
		TransshipmentCapacity: transshipment,
		HinterlandCapacity:    flow.Total() - transshipment,
	}, nil
}

// HinterlandModalSplit sums the TEU exchanged between the hinterland modes and
// the seaside vessels. Inbound counts what the hinterland delivers for vessels,
// outbound what vessels deliver for the hinterland.
func (p *ModalSplitPreview) HinterlandModalSplit(inbound, outbound bool) (HinterlandModalSplit, error) {
	flow, err := p.flow.InboundToOutboundFlow()
	if err != nil {
		return HinterlandModalSplit{}, err
	}
	var split HinterlandModalSplit
	for _, h := range model.HinterlandVehicleTypes() {
		for _, v := range model.SeasideVehicleTypes() {
			if inbound {
				split.add(h, flow[h][v])
			}
			if outbound {
				split.add(h, flow[v][h])
			}
		}
	}
	return split, nil
}
