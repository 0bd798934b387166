package distribution

import (
	"errors"
	"fmt"
	"math"
)

// Tolerance is the maximum absolute deviation of a distribution's sum from one.
const Tolerance = 1e-9

var (
	// ErrMissingCategory is returned when a category of the enumeration has no entry.
	ErrMissingCategory = errors.New("distribution is missing a category")
	// ErrUnknownCategory is returned when a key is not part of the enumeration.
	ErrUnknownCategory = errors.New("distribution contains an unknown category")
	// ErrOutOfRange is returned when a proportion is not within [0, 1].
	ErrOutOfRange = errors.New("distribution proportion out of range")
	// ErrNotNormalized is returned when proportions do not sum to one.
	ErrNotNormalized = errors.New("distribution proportions do not sum to one")
)

// Category is an enumerated key of a categorical distribution.
type Category interface {
	comparable
	String() string
}

// MissingCategoryError names the category without an entry. Row is set when the
// error comes from a row of a matrix distribution.
type MissingCategoryError struct {
	Row      string
	Category string
}

func (e *MissingCategoryError) Error() string {
	return withRow(e.Row, fmt.Sprintf("category %s is missing", e.Category))
}

func (e *MissingCategoryError) Unwrap() error { return ErrMissingCategory }

// UnknownCategoryError names a key outside of the enumeration.
type UnknownCategoryError struct {
	Row      string
	Category string
}

func (e *UnknownCategoryError) Error() string {
	return withRow(e.Row, fmt.Sprintf("category %s is not known", e.Category))
}

func (e *UnknownCategoryError) Unwrap() error { return ErrUnknownCategory }

// OutOfRangeError reports a proportion outside of [0, 1].
type OutOfRangeError struct {
	Row      string
	Category string
	Value    float64
}

func (e *OutOfRangeError) Error() string {
	return withRow(e.Row, fmt.Sprintf("proportion %v of category %s must be within [0, 1]", e.Value, e.Category))
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// NotNormalizedError reports the sum of a distribution that does not add up to one.
type NotNormalizedError struct {
	Row string
	Sum float64
}

func (e *NotNormalizedError) Error() string {
	return withRow(e.Row, fmt.Sprintf("proportions sum up to %v instead of 1", e.Sum))
}

func (e *NotNormalizedError) Unwrap() error { return ErrNotNormalized }

func withRow(row, msg string) string {
	if row == "" {
		return msg
	}
	return fmt.Sprintf("row %s: %s", row, msg)
}

// Validate checks that dist covers exactly the given categories, that every
// proportion lies within [0, 1] and that all proportions sum to one.
func Validate[K Category](dist map[K]float64, categories []K) error {
	return validateRow("", dist, categories)
}

func validateRow[K Category](row string, dist map[K]float64, categories []K) error {
	known := make(map[K]struct{}, len(categories))
	for _, c := range categories {
		known[c] = struct{}{}
		if _, ok := dist[c]; !ok {
			return &MissingCategoryError{Row: row, Category: c.String()}
		}
	}
	for k := range dist {
		if _, ok := known[k]; !ok {
			return &UnknownCategoryError{Row: row, Category: k.String()}
		}
	}
	sum := 0.0
	for _, c := range categories {
		v := dist[c]
		if !(v >= 0 && v <= 1) {
			return &OutOfRangeError{Row: row, Category: c.String(), Value: v}
		}
		sum += v
	}
	if math.Abs(sum-1) > Tolerance {
		return &NotNormalizedError{Row: row, Sum: sum}
	}
	return nil
}
