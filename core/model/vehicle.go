package model

import (
	"errors"
	"fmt"
	"strings"
)

// VehicleType identifies the mode of transport a container arrives or departs with.
type VehicleType int

const (
	DeepSeaVessel VehicleType = iota
	Feeder
	Barge
	Train
	Truck
)

// ErrUnknownVehicleType is returned when a vehicle type cannot be parsed.
var ErrUnknownVehicleType = errors.New("unknown vehicle type")

var vehicleTypeNames = [...]string{
	DeepSeaVessel: "deep_sea_vessel",
	Feeder:        "feeder",
	Barge:         "barge",
	Train:         "train",
	Truck:         "truck",
}

// VehicleTypes returns all vehicle types in report order.
func VehicleTypes() []VehicleType {
	return []VehicleType{DeepSeaVessel, Feeder, Barge, Train, Truck}
}

// ScheduledVehicleTypes returns the vehicle types that move according to a schedule.
func ScheduledVehicleTypes() []VehicleType {
	return []VehicleType{DeepSeaVessel, Feeder, Barge, Train}
}

// SeasideVehicleTypes returns the vessels calling at the quay side.
func SeasideVehicleTypes() []VehicleType {
	return []VehicleType{DeepSeaVessel, Feeder}
}

// HinterlandVehicleTypes returns the modes serving the landside.
func HinterlandVehicleTypes() []VehicleType {
	return []VehicleType{Truck, Barge, Train}
}

// Valid reports whether t is one of the known vehicle types.
func (t VehicleType) Valid() bool {
	return t >= DeepSeaVessel && t <= Truck
}

// IsScheduled is false for trucks, which are created on demand.
func (t VehicleType) IsScheduled() bool {
	return t.Valid() && t != Truck
}

// String returns the snake_case identifier of the vehicle type.
func (t VehicleType) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return vehicleTypeNames[t]
}

// Label returns the vehicle type as shown in reports, e.g. "deep sea vessel".
func (t VehicleType) Label() string {
	return strings.ReplaceAll(t.String(), "_", " ")
}

// ParseVehicleType converts the snake_case identifier (or its spaced label) into a VehicleType.
func ParseVehicleType(s string) (VehicleType, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	norm = strings.ReplaceAll(norm, "-", "_")
	for i, name := range vehicleTypeNames {
		if name == norm {
			return VehicleType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVehicleType, s)
}

// MarshalText implements encoding.TextMarshaler so vehicle types can be used as map keys.
func (t VehicleType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVehicleType, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *VehicleType) UnmarshalText(b []byte) error {
	v, err := ParseVehicleType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
