package model

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSchedule() Schedule {
	return Schedule{
		VehicleType:            Feeder,
		ServiceName:            "TestFeederService",
		ArrivesOn:              time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ArrivesAt:              13 * time.Hour,
		EveryKDays:             7,
		AverageVehicleCapacity: 400,
		AverageMovedCapacity:   300,
	}
}

func TestScheduleValidate(t *testing.T) {
	require.NoError(t, validSchedule().Validate())

	tests := []struct {
		name   string
		mutate func(*Schedule)
		target error
	}{
		{"moved exceeds capacity", func(s *Schedule) { s.AverageMovedCapacity = 401 }, ErrMovedExceedsVehicleCapacity},
		{"truck", func(s *Schedule) { s.VehicleType = Truck }, ErrInvalidSchedule},
		{"no service name", func(s *Schedule) { s.ServiceName = "" }, ErrInvalidSchedule},
		{"zero recurrence", func(s *Schedule) { s.EveryKDays = 0 }, ErrInvalidSchedule},
		{"time of day overflow", func(s *Schedule) { s.ArrivesAt = 24 * time.Hour }, ErrInvalidSchedule},
		{"moved capacity not a number", func(s *Schedule) { s.AverageMovedCapacity = math.NaN() }, ErrInvalidSchedule},
		{"vehicle capacity not a number", func(s *Schedule) { s.AverageVehicleCapacity = math.NaN() }, ErrInvalidSchedule},
		{"infinite vehicle capacity", func(s *Schedule) { s.AverageVehicleCapacity = math.Inf(1) }, ErrInvalidSchedule},
		{"negative capacity", func(s *Schedule) { s.AverageVehicleCapacity = -1; s.AverageMovedCapacity = -2 }, ErrInvalidSchedule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchedule()
			tt.mutate(&s)
			err := s.Validate()
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestCapacityErrorIdentifiesSchedule(t *testing.T) {
	s := validSchedule()
	s.AverageMovedCapacity = 500
	err := s.Validate()
	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, "TestFeederService", capErr.ServiceName)
	assert.Equal(t, Feeder, capErr.VehicleType)
	assert.Equal(t, 500.0, capErr.MovedCapacity)
	assert.Equal(t, 400.0, capErr.VehicleCapacity)
	assert.Contains(t, err.Error(), "TestFeederService")
	assert.Contains(t, err.Error(), "feeder")
}

func TestSingleArrival(t *testing.T) {
	s := validSchedule()
	assert.False(t, s.IsSingleArrival())
	s.EveryKDays = SingleArrival
	assert.True(t, s.IsSingleArrival())
	s.EveryKDays = -3
	assert.True(t, s.IsSingleArrival())
	assert.NoError(t, s.Validate())
}

func TestTimeOfDay(t *testing.T) {
	d, err := ParseTimeOfDay("06:30")
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour+30*time.Minute, d)
	d, err = ParseTimeOfDay("23:59:58")
	require.NoError(t, err)
	assert.Equal(t, "23:59:58", FormatTimeOfDay(d))
	_, err = ParseTimeOfDay("noon")
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 1, 30, 22, 0, 0, 0, time.UTC)
	b := time.Date(2025, 2, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, -3, DaysBetween(b, a))
	day, err := ParseDate("2025-02-02")
	require.NoError(t, err)
	assert.Equal(t, Day(b), day)
	assert.Equal(t, "2025-02-02", FormatDate(day))
}
