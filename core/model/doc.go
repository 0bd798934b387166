// Package model contains the terminal domain types shared by the preview
// engine: vehicle types, container lengths, schedules and capacity values.
package model
