package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/conflow/core/distribution"
	coremetrics "github.com/kilianp07/conflow/core/metrics"
	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/core/preview"
	"github.com/kilianp07/conflow/core/schedule"
	"github.com/kilianp07/conflow/infra/logger"
	"github.com/kilianp07/conflow/internal/eventbus"
)

const (
	KindCapacity   = "capacity"
	KindFlow       = "flow"
	KindExceeded   = "exceeded"
	KindModalSplit = "modal_split"
)

// Service loads the scenario, runs previews and announces every run on the
// event bus.
type Service struct {
	schedules     schedule.Repository
	distributions distribution.Store
	props         preview.Properties
	bus           *eventbus.TypedBus[coremetrics.Event]
	log           logger.Logger

	now      func() time.Time
	newRunID func() string
}

// NewService wires a Service. The bus may be nil when no one listens.
func NewService(schedules schedule.Repository, distributions distribution.Store, props preview.Properties, bus *eventbus.TypedBus[coremetrics.Event], log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		schedules:     schedules,
		distributions: distributions,
		props:         props,
		bus:           bus,
		log:           log,
		now:           time.Now,
		newRunID:      uuid.NewString,
	}
}

func (s *Service) Schedules() schedule.Repository    { return s.schedules }
func (s *Service) Distributions() distribution.Store { return s.distributions }
func (s *Service) Properties() preview.Properties    { return s.props }

type run struct {
	id    string
	kind  string
	hyp   bool
	start time.Time
}

func (s *Service) begin(kind string, hyp distribution.ModeOfTransport) run {
	return run{id: s.newRunID(), kind: kind, hyp: hyp != nil, start: s.now()}
}

func (s *Service) load(ctx context.Context) (preview.Input, error) {
	return preview.LoadInput(ctx, s.props, s.schedules, s.distributions)
}

// hypothesize applies hyp to p if one is given.
func hypothesize(p interface {
	Hypothesize(distribution.ModeOfTransport) error
}, hyp distribution.ModeOfTransport) error {
	if hyp == nil {
		return nil
	}
	return p.Hypothesize(hyp)
}

// Capacity returns the inbound and outbound capacity per vehicle type.
func (s *Service) Capacity(ctx context.Context, hyp distribution.ModeOfTransport) (preview.CapacityReport, error) {
	r := s.begin(KindCapacity, hyp)
	in, err := s.load(ctx)
	if err != nil {
		return preview.CapacityReport{}, s.fail(r, err)
	}
	p, err := preview.NewCapacityPreview(in)
	if err != nil {
		return preview.CapacityReport{}, s.fail(r, err)
	}
	if err := hypothesize(p, hyp); err != nil {
		return preview.CapacityReport{}, s.fail(r, err)
	}
	res, err := p.Report()
	if err != nil {
		return preview.CapacityReport{}, s.fail(r, err)
	}
	s.done(r, coremetrics.PreviewEvent{
		Inbound:         res.Inbound,
		OutboundUsed:    res.Outbound.Used,
		OutboundMaximum: res.Outbound.Maximum,
	})
	return res, nil
}

// Flow returns the TEU moving between each pair of vehicle types.
func (s *Service) Flow(ctx context.Context, hyp distribution.ModeOfTransport) (preview.FlowMatrix, error) {
	r := s.begin(KindFlow, hyp)
	in, err := s.load(ctx)
	if err != nil {
		return nil, s.fail(r, err)
	}
	p, err := preview.NewFlowPreview(in)
	if err != nil {
		return nil, s.fail(r, err)
	}
	if err := hypothesize(p, hyp); err != nil {
		return nil, s.fail(r, err)
	}
	flow, err := p.InboundToOutboundFlow()
	if err != nil {
		return nil, s.fail(r, err)
	}
	s.publish(coremetrics.FlowEvent{RunID: r.id, Flow: flow, Time: s.now()})
	s.done(r, coremetrics.PreviewEvent{Inbound: rowSums(flow), Planned: columnSums(flow)})
	return flow, nil
}

// FlowInContainers converts the flow into containers using the stored container
// length distribution.
func (s *Service) FlowInContainers(ctx context.Context, hyp distribution.ModeOfTransport) (preview.FlowMatrix, error) {
	r := s.begin(KindFlow, hyp)
	in, err := s.load(ctx)
	if err != nil {
		return nil, s.fail(r, err)
	}
	lengths, err := s.distributions.ContainerLength(ctx)
	if err != nil {
		return nil, s.fail(r, err)
	}
	p, err := preview.NewFlowPreview(in)
	if err != nil {
		return nil, s.fail(r, err)
	}
	if err := hypothesize(p, hyp); err != nil {
		return nil, s.fail(r, err)
	}
	flow, err := p.InboundToOutboundFlowInContainers(lengths)
	if err != nil {
		return nil, s.fail(r, err)
	}
	s.done(r, coremetrics.PreviewEvent{})
	return flow, nil
}

// Exceeded compares the planned outbound TEU with the maximum capacity.
func (s *Service) Exceeded(ctx context.Context, hyp distribution.ModeOfTransport) (map[model.VehicleType]preview.Comparison, error) {
	r := s.begin(KindExceeded, hyp)
	in, err := s.load(ctx)
	if err != nil {
		return nil, s.fail(r, err)
	}
	p, err := preview.NewCapacityExceededPreview(in)
	if err != nil {
		return nil, s.fail(r, err)
	}
	if err := hypothesize(p, hyp); err != nil {
		return nil, s.fail(r, err)
	}
	cmp, err := p.Compare()
	if err != nil {
		return nil, s.fail(r, err)
	}
	ev := coremetrics.PreviewEvent{
		OutboundMaximum: make(map[model.VehicleType]model.Capacity, len(cmp)),
		Planned:         make(map[model.VehicleType]float64, len(cmp)),
		Exceeded:        make(map[model.VehicleType]bool, len(cmp)),
	}
	for vt, c := range cmp {
		ev.OutboundMaximum[vt] = c.Maximum
		ev.Planned[vt] = c.CurrentlyPlanned
		ev.Exceeded[vt] = c.Exceeded
	}
	s.done(r, ev)
	if n := ev.ExceededCount(); n > 0 {
		s.log.Warnf("run %s: outbound capacity exceeded for %d vehicle types", r.id, n)
	}
	return cmp, nil
}

// ModalSplit returns the transshipment share and the hinterland modal split.
func (s *Service) ModalSplit(ctx context.Context, hyp distribution.ModeOfTransport) (preview.ModalSplitReport, error) {
	r := s.begin(KindModalSplit, hyp)
	in, err := s.load(ctx)
	if err != nil {
		return preview.ModalSplitReport{}, s.fail(r, err)
	}
	p, err := preview.NewModalSplitPreview(in)
	if err != nil {
		return preview.ModalSplitReport{}, s.fail(r, err)
	}
	if err := hypothesize(p, hyp); err != nil {
		return preview.ModalSplitReport{}, s.fail(r, err)
	}
	res, err := p.Report()
	if err != nil {
		return preview.ModalSplitReport{}, s.fail(r, err)
	}
	s.done(r, coremetrics.PreviewEvent{})
	return res, nil
}

func (s *Service) done(r run, ev coremetrics.PreviewEvent) {
	ev.RunID = r.id
	ev.Kind = r.kind
	ev.Hypothesis = r.hyp
	ev.Time = s.now()
	ev.Duration = ev.Time.Sub(r.start)
	s.publish(ev)
	s.log.Infow("preview computed", map[string]any{
		"run_id":     r.id,
		"kind":       r.kind,
		"hypothesis": r.hyp,
		"duration":   ev.Duration.String(),
	})
}

func (s *Service) fail(r run, err error) error {
	s.publish(coremetrics.PreviewFailure{RunID: r.id, Kind: r.kind, Reason: err.Error(), Time: s.now()})
	if preview.IsValidationError(err) {
		s.log.Warnf("run %s: %s preview rejected: %v", r.id, r.kind, err)
	} else {
		s.log.Errorf("run %s: %s preview failed: %v", r.id, r.kind, err)
	}
	return err
}

func (s *Service) publish(ev coremetrics.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func rowSums(f preview.FlowMatrix) map[model.VehicleType]float64 {
	out := make(map[model.VehicleType]float64, len(f))
	for _, vt := range model.VehicleTypes() {
		out[vt] = f.Inbound(vt)
	}
	return out
}

func columnSums(f preview.FlowMatrix) map[model.VehicleType]float64 {
	out := make(map[model.VehicleType]float64, len(f))
	for _, vt := range model.VehicleTypes() {
		out[vt] = f.Outbound(vt)
	}
	return out
}
