package distribution

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/conflow/core/model"
)

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	d, err := s.ModeOfTransport(ctx)
	require.NoError(t, err)
	d[model.Truck][model.Truck] = 1

	again, err := s.ModeOfTransport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, again[model.Truck][model.Truck])
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	bad := DefaultModeOfTransport()
	delete(bad, model.Train)
	assert.ErrorIs(t, s.SetModeOfTransport(ctx, bad), ErrMissingCategory)

	got, err := s.ModeOfTransport(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultModeOfTransport(), got)

	assert.ErrorIs(t, s.SetContainerLength(ctx, ContainerLength{model.TwentyFeet: 1}), ErrMissingCategory)
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.SetModeOfTransport(ctx, DefaultModeOfTransport())
		}()
		go func() {
			defer wg.Done()
			d, err := s.ModeOfTransport(ctx)
			assert.NoError(t, err)
			assert.NoError(t, d.Validate())
		}()
	}
	wg.Wait()
}
