package preview

import (
	"errors"

	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/core/schedule"
)

// CapacityReport bundles the inbound and outbound capacity of one run.
type CapacityReport struct {
	Inbound  CapacityByVehicleType `json:"inbound" yaml:"inbound"`
	Outbound OutboundCapacity      `json:"outbound" yaml:"outbound"`
}

// ModalSplitReport bundles the transshipment share with the hinterland modal
// split in each direction.
type ModalSplitReport struct {
	Transshipment TransshipmentAndHinterland `json:"transshipment" yaml:"transshipment"`
	Inbound       HinterlandModalSplit       `json:"inbound" yaml:"inbound"`
	Outbound      HinterlandModalSplit       `json:"outbound" yaml:"outbound"`
	Both          HinterlandModalSplit       `json:"both" yaml:"both"`
}

// Report computes the capacity report.
func (p *CapacityPreview) Report() (CapacityReport, error) {
	in, err := p.InboundCapacity()
	if err != nil {
		return CapacityReport{}, err
	}
	out, err := p.OutboundCapacity()
	if err != nil {
		return CapacityReport{}, err
	}
	return CapacityReport{Inbound: in, Outbound: out}, nil
}

// Report computes the transshipment share and all three modal splits.
func (p *ModalSplitPreview) Report() (ModalSplitReport, error) {
	var r ModalSplitReport
	var err error
	if r.Transshipment, err = p.TransshipmentAndHinterland(); err != nil {
		return ModalSplitReport{}, err
	}
	if r.Inbound, err = p.HinterlandModalSplit(true, false); err != nil {
		return ModalSplitReport{}, err
	}
	if r.Outbound, err = p.HinterlandModalSplit(false, true); err != nil {
		return ModalSplitReport{}, err
	}
	if r.Both, err = p.HinterlandModalSplit(true, true); err != nil {
		return ModalSplitReport{}, err
	}
	return r, nil
}

// IsValidationError reports whether err stems from malformed input rather than
// an infrastructure failure.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var validationErrors = []error{
	ErrInvalidWindow,
	ErrInvalidBuffer,
	distribution.ErrMissingCategory,
	distribution.ErrUnknownCategory,
	distribution.ErrOutOfRange,
	distribution.ErrNotNormalized,
	model.ErrMovedExceedsVehicleCapacity,
	model.ErrInvalidSchedule,
	model.ErrUnknownVehicleType,
	model.ErrUnknownContainerLength,
	schedule.ErrInvalidRecurrence,
}
