// Package schedule expands recurring vehicle services into concrete arrivals
// and defines how schedules are stored.
package schedule
