package model

import (
	"errors"
	"fmt"
	"strings"
)

// ContainerLength is the length category of a container.
type ContainerLength int

const (
	TwentyFeet ContainerLength = iota
	FortyFeet
	FortyFiveFeet
	OtherLength
)

// ErrUnknownContainerLength is returned when a container length cannot be parsed.
var ErrUnknownContainerLength = errors.New("unknown container length")

var containerLengthNames = [...]string{
	TwentyFeet:    "20_feet",
	FortyFeet:     "40_feet",
	FortyFiveFeet: "45_feet",
	OtherLength:   "other",
}

// teuFactors converts one container of the given length to TEU.
var teuFactors = [...]float64{
	TwentyFeet:    1,
	FortyFeet:     2,
	FortyFiveFeet: 2.25,
	OtherLength:   2.5,
}

// ContainerLengths returns all container lengths.
func ContainerLengths() []ContainerLength {
	return []ContainerLength{TwentyFeet, FortyFeet, FortyFiveFeet, OtherLength}
}

func (l ContainerLength) Valid() bool {
	return l >= TwentyFeet && l <= OtherLength
}

func (l ContainerLength) String() string {
	if !l.Valid() {
		return "unknown"
	}
	return containerLengthNames[l]
}

// TEUFactor returns how many TEU a container of this length occupies.
func (l ContainerLength) TEUFactor() float64 {
	if !l.Valid() {
		return 0
	}
	return teuFactors[l]
}

// ParseContainerLength converts "20_feet", "40_feet", "45_feet" or "other".
func ParseContainerLength(s string) (ContainerLength, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for i, name := range containerLengthNames {
		if name == norm {
			return ContainerLength(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownContainerLength, s)
}

func (l ContainerLength) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownContainerLength, int(l))
	}
	return []byte(l.String()), nil
}

func (l *ContainerLength) UnmarshalText(b []byte) error {
	v, err := ParseContainerLength(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
