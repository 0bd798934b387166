package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// SingleArrival marks a schedule whose vehicle arrives exactly once.
// Any negative EveryKDays value is treated the same way.
const SingleArrival = -1

var (
	// ErrMovedExceedsVehicleCapacity flags a schedule that moves more TEU than its vehicle can carry.
	ErrMovedExceedsVehicleCapacity = errors.New("average moved capacity exceeds average vehicle capacity")
	// ErrInvalidSchedule is returned for malformed schedule definitions.
	ErrInvalidSchedule = errors.New("invalid schedule")
)

// Schedule describes a recurring vehicle service calling at the terminal.
type Schedule struct {
	VehicleType VehicleType
	ServiceName string
	// ArrivesOn is the date of the first arrival, normalised to UTC midnight.
	ArrivesOn time.Time
	// ArrivesAt is the time of day of every arrival.
	ArrivesAt  time.Duration
	EveryKDays int
	// AverageVehicleCapacity is the physical capacity of a vehicle in TEU.
	AverageVehicleCapacity float64
	// AverageMovedCapacity is what a vehicle discharges (and loads, if flows are balanced) in TEU.
	AverageMovedCapacity float64
}

// CapacityError identifies a schedule whose moved capacity exceeds its vehicle capacity.
type CapacityError struct {
	ServiceName     string
	VehicleType     VehicleType
	MovedCapacity   float64
	VehicleCapacity float64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf(
		"a vehicle cannot move more containers (in TEU) than its capacity: schedule %q of vehicle type %s has an average moved capacity of %g but an average vehicle capacity of %g",
		e.ServiceName, e.VehicleType, e.MovedCapacity, e.VehicleCapacity,
	)
}

func (e *CapacityError) Unwrap() error { return ErrMovedExceedsVehicleCapacity }

// IsSingleArrival reports whether the vehicle calls only once.
func (s Schedule) IsSingleArrival() bool {
	return s.EveryKDays < 0
}

// Validate checks the schedule for data-integrity problems.
func (s Schedule) Validate() error {
	if !s.VehicleType.IsScheduled() {
		return fmt.Errorf("%w: %q: vehicle type %s does not follow a schedule", ErrInvalidSchedule, s.ServiceName, s.VehicleType)
	}
	if s.ServiceName == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidSchedule)
	}
	if s.EveryKDays == 0 {
		return fmt.Errorf("%w: %q: vehicle must arrive every k>0 days or once", ErrInvalidSchedule, s.ServiceName)
	}
	if s.ArrivesAt < 0 || s.ArrivesAt >= 24*time.Hour {
		return fmt.Errorf("%w: %q: time of day %s out of range", ErrInvalidSchedule, s.ServiceName, s.ArrivesAt)
	}
	if !finite(s.AverageVehicleCapacity) || !finite(s.AverageMovedCapacity) {
		return fmt.Errorf("%w: %q: capacities must be finite numbers", ErrInvalidSchedule, s.ServiceName)
	}
	if s.AverageVehicleCapacity < 0 || s.AverageMovedCapacity < 0 {
		return fmt.Errorf("%w: %q: capacities must not be negative", ErrInvalidSchedule, s.ServiceName)
	}
	if s.AverageMovedCapacity > s.AverageVehicleCapacity {
		return &CapacityError{
			ServiceName:     s.ServiceName,
			VehicleType:     s.VehicleType,
			MovedCapacity:   s.AverageMovedCapacity,
			VehicleCapacity: s.AverageVehicleCapacity,
		}
	}
	return nil
}

// FirstArrival returns the date and time of the first call.
func (s Schedule) FirstArrival() time.Time {
	return Day(s.ArrivesOn).Add(s.ArrivesAt)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
