// Package store persists schedules and distributions in SQLite or PostgreSQL.
package store

import (
	"errors"
	"fmt"

	"github.com/kilianp07/conflow/core/schedule"
)

var (
	// ErrNotFound is returned when a schedule does not exist. It matches
	// schedule.ErrNotFound so callers can stay backend agnostic.
	ErrNotFound = schedule.ErrNotFound

	// ErrConnectionFailed is returned when the database cannot be reached.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrMigrationFailed is returned when the schema migration fails.
	ErrMigrationFailed = errors.New("database migration failed")

	// ErrInvalidData is returned when a stored row cannot be decoded.
	ErrInvalidData = errors.New("invalid stored data")
)

// Error adds the failing operation and entity to a database error.
type Error struct {
	Op     string // e.g. "SaveSchedule"
	Entity string // e.g. "schedule"
	ID     string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.ID != "":
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
	case e.Entity != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op, entity, id string, err error) *Error {
	return &Error{Op: op, Entity: entity, ID: id, Err: err}
}
