package model

import (
	"encoding/json"
	"math"
)

// uncappedValue is how an uncapped capacity is rendered in reports and exports.
const uncappedValue = -1

// Capacity is an outbound capacity in TEU that is either capped or unlimited.
// Trucks are uncapped because they can always be added as required.
type Capacity struct {
	teu      float64
	uncapped bool
}

// Capped returns a capacity limited to teu.
func Capped(teu float64) Capacity { return Capacity{teu: teu} }

// Uncapped returns a capacity without an upper bound.
func Uncapped() Capacity { return Capacity{uncapped: true} }

func (c Capacity) IsUncapped() bool { return c.uncapped }

// TEU returns the capacity and false if it is uncapped.
func (c Capacity) TEU() (float64, bool) {
	if c.uncapped {
		return 0, false
	}
	return c.teu, true
}

// Exceeded reports whether planned TEU do not fit. An uncapped capacity is never exceeded.
func (c Capacity) Exceeded(planned float64) bool {
	if c.uncapped {
		return false
	}
	return planned > c.teu
}

// Add sums two capacities; the result is uncapped if either operand is.
func (c Capacity) Add(o Capacity) Capacity {
	if c.uncapped || o.uncapped {
		return Uncapped()
	}
	return Capped(c.teu + o.teu)
}

// Float returns the value used by renderers: -1 for an uncapped capacity.
func (c Capacity) Float() float64 {
	if c.uncapped {
		return uncappedValue
	}
	return c.teu
}

// CapacityFromFloat is the inverse of Float.
func CapacityFromFloat(v float64) Capacity {
	if v == uncappedValue {
		return Uncapped()
	}
	return Capped(v)
}

func (c Capacity) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Float())
}

func (c *Capacity) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = CapacityFromFloat(v)
	return nil
}

func (c Capacity) MarshalYAML() (any, error) {
	return c.Float(), nil
}

// Share is a fraction of a total. A share of an empty total is not meaningful and
// renders as "-" rather than failing with a division by zero.
type Share struct {
	value      float64
	meaningful bool
}

// Ratio returns part/total, or a not meaningful share if total is zero.
func Ratio(part, total float64) Share {
	if total == 0 || math.IsNaN(total) {
		return Share{}
	}
	return Share{value: part / total, meaningful: true}
}

func (s Share) Value() (float64, bool) { return s.value, s.meaningful }

func (s Share) Percent() (float64, bool) { return s.value * 100, s.meaningful }

func (s Share) Meaningful() bool { return s.meaningful }

// MarshalJSON renders a not meaningful share as null.
func (s Share) MarshalJSON() ([]byte, error) {
	if !s.meaningful {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}
