package distribution

import (
	"context"
	"sync"
)

// Store persists the distributions of the current scenario.
type Store interface {
	ModeOfTransport(ctx context.Context) (ModeOfTransport, error)
	SetModeOfTransport(ctx context.Context, d ModeOfTransport) error
	ContainerLength(ctx context.Context) (ContainerLength, error)
	SetContainerLength(ctx context.Context, d ContainerLength) error
}

// MemoryStore keeps distributions in memory. It is safe for concurrent use and
// never hands out its own maps.
type MemoryStore struct {
	mu              sync.RWMutex
	modeOfTransport ModeOfTransport
	containerLength ContainerLength
}

// NewMemoryStore returns a store seeded with the default distributions.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		modeOfTransport: DefaultModeOfTransport(),
		containerLength: DefaultContainerLength(),
	}
}

func (s *MemoryStore) ModeOfTransport(context.Context) (ModeOfTransport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modeOfTransport.Clone(), nil
}

// SetModeOfTransport validates d before replacing the stored matrix.
func (s *MemoryStore) SetModeOfTransport(_ context.Context, d ModeOfTransport) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.modeOfTransport = d.Clone()
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) ContainerLength(context.Context) (ContainerLength, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.containerLength.Clone(), nil
}

func (s *MemoryStore) SetContainerLength(_ context.Context, d ContainerLength) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.containerLength = d.Clone()
	s.mu.Unlock()
	return nil
}
