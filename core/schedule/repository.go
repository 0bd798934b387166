package schedule

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/kilianp07/conflow/core/model"
)

// ErrNotFound is returned when no schedule matches the requested service.
var ErrNotFound = errors.New("schedule not found")

// Repository gives access to the schedules of the current scenario.
type Repository interface {
	All(ctx context.Context) ([]model.Schedule, error)
	Get(ctx context.Context, vt model.VehicleType, serviceName string) (model.Schedule, error)
	// Save inserts s or replaces the schedule with the same vehicle type and service name.
	Save(ctx context.Context, s model.Schedule) error
	Delete(ctx context.Context, vt model.VehicleType, serviceName string) error
}

type key struct {
	vt      model.VehicleType
	service string
}

// MemoryRepository is an in-memory Repository safe for concurrent use.
type MemoryRepository struct {
	mu        sync.RWMutex
	schedules map[key]model.Schedule
}

func NewMemoryRepository(schedules ...model.Schedule) *MemoryRepository {
	r := &MemoryRepository{schedules: make(map[key]model.Schedule)}
	for _, s := range schedules {
		r.schedules[key{s.VehicleType, s.ServiceName}] = s
	}
	return r
}

// All returns the schedules ordered by vehicle type and service name.
func (r *MemoryRepository) All(context.Context) ([]model.Schedule, error) {
	r.mu.RLock()
	out := make([]model.Schedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		out = append(out, s)
	}
	r.mu.RUnlock()
	Sort(out)
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, vt model.VehicleType, serviceName string) (model.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schedules[key{vt, serviceName}]
	if !ok {
		return model.Schedule{}, ErrNotFound
	}
	return s, nil
}

func (r *MemoryRepository) Save(_ context.Context, s model.Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.ArrivesOn = model.Day(s.ArrivesOn)
	r.mu.Lock()
	r.schedules[key{s.VehicleType, s.ServiceName}] = s
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, vt model.VehicleType, serviceName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{vt, serviceName}
	if _, ok := r.schedules[k]; !ok {
		return ErrNotFound
	}
	delete(r.schedules, k)
	return nil
}

// Sort orders schedules by vehicle type, then service name.
func Sort(s []model.Schedule) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].VehicleType != s[j].VehicleType {
			return s[i].VehicleType < s[j].VehicleType
		}
		return s[i].ServiceName < s[j].ServiceName
	})
}
