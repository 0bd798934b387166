package schedule

import (
	"errors"
	"time"

	"github.com/kilianp07/conflow/core/model"
)

// ErrInvalidRecurrence is returned for a recurrence of zero days.
var ErrInvalidRecurrence = errors.New("recurrence must be a positive number of days or negative for a single arrival")

const day = 24 * time.Hour

// Arrivals expands a recurring service into the arrival times within the window.
// Dates are compared at day granularity and both window boundaries are inclusive.
// A negative everyKDays yields at most one arrival. Each call returns a new slice.
func Arrivals(windowStart, firstArrival, windowEnd time.Time, everyKDays int, timeOfDay time.Duration) ([]time.Time, error) {
	if everyKDays == 0 {
		return nil, ErrInvalidRecurrence
	}
	start, first, end := model.Day(windowStart), model.Day(firstArrival), model.Day(windowEnd)
	if end.Before(start) {
		return []time.Time{}, nil
	}

	if everyKDays < 0 {
		if first.Before(start) || first.After(end) {
			return []time.Time{}, nil
		}
		return []time.Time{first.Add(timeOfDay)}, nil
	}

	k := 0
	if first.Before(start) {
		behind := model.DaysBetween(first, start)
		k = (behind + everyKDays - 1) / everyKDays
	}
	out := make([]time.Time, 0, model.DaysBetween(start, end)/everyKDays+1)
	for d := first.AddDate(0, 0, k*everyKDays); !d.After(end); d = d.AddDate(0, 0, everyKDays) {
		out = append(out, d.Add(timeOfDay))
	}
	return out, nil
}

// ArrivalsOf expands s within the window.
func ArrivalsOf(s model.Schedule, windowStart, windowEnd time.Time) ([]time.Time, error) {
	return Arrivals(windowStart, s.ArrivesOn, windowEnd, s.EveryKDays, s.ArrivesAt)
}
