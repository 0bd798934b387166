package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/core/schedule"
)

type scheduleRow struct {
	VehicleType            string  `db:"vehicle_type"`
	ServiceName            string  `db:"service_name"`
	ArrivesOn              string  `db:"arrives_on"`
	ArrivesAtSeconds       int64   `db:"arrives_at_seconds"`
	EveryKDays             int     `db:"every_k_days"`
	AverageVehicleCapacity float64 `db:"average_vehicle_capacity"`
	AverageMovedCapacity   float64 `db:"average_moved_capacity"`
}

func toScheduleRow(s model.Schedule) scheduleRow {
	return scheduleRow{
		VehicleType:            s.VehicleType.String(),
		ServiceName:            s.ServiceName,
		ArrivesOn:              model.FormatDate(s.ArrivesOn),
		ArrivesAtSeconds:       int64(s.ArrivesAt / time.Second),
		EveryKDays:             s.EveryKDays,
		AverageVehicleCapacity: s.AverageVehicleCapacity,
		AverageMovedCapacity:   s.AverageMovedCapacity,
	}
}

func (r scheduleRow) toModel() (model.Schedule, error) {
	vt, err := model.ParseVehicleType(r.VehicleType)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	day, err := model.ParseDate(r.ArrivesOn)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return model.Schedule{
		VehicleType:            vt,
		ServiceName:            r.ServiceName,
		ArrivesOn:              day,
		ArrivesAt:              time.Duration(r.ArrivesAtSeconds) * time.Second,
		EveryKDays:             r.EveryKDays,
		AverageVehicleCapacity: r.AverageVehicleCapacity,
		AverageMovedCapacity:   r.AverageMovedCapacity,
	}, nil
}

const scheduleColumns = `vehicle_type, service_name, arrives_on, arrives_at_seconds, every_k_days,
	average_vehicle_capacity, average_moved_capacity`

// All returns the schedules ordered by vehicle type and service name.
func (s *SQLStore) All(ctx context.Context) ([]model.Schedule, error) {
	var rows []scheduleRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+scheduleColumns+` FROM schedules`); err != nil {
		return nil, newError("ListSchedules", "schedule", "", err)
	}
	out := make([]model.Schedule, 0, len(rows))
	for _, r := range rows {
		m, err := r.toModel()
		if err != nil {
			return nil, newError("ListSchedules", "schedule", r.ServiceName, err)
		}
		out = append(out, m)
	}
	schedule.Sort(out)
	return out, nil
}

func (s *SQLStore) Get(ctx context.Context, vt model.VehicleType, serviceName string) (model.Schedule, error) {
	var row scheduleRow
	q := s.db.Rebind(`SELECT ` + scheduleColumns + ` FROM schedules WHERE vehicle_type = ? AND service_name = ?`)
	if err := s.db.GetContext(ctx, &row, q, vt.String(), serviceName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Schedule{}, newError("GetSchedule", "schedule", serviceName, ErrNotFound)
		}
		return model.Schedule{}, newError("GetSchedule", "schedule", serviceName, err)
	}
	m, err := row.toModel()
	if err != nil {
		return model.Schedule{}, newError("GetSchedule", "schedule", serviceName, err)
	}
	return m, nil
}

// Save validates sch and inserts or replaces it.
func (s *SQLStore) Save(ctx context.Context, sch model.Schedule) error {
	if err := sch.Validate(); err != nil {
		return err
	}
	r := toScheduleRow(sch)
	q := s.db.Rebind(`INSERT INTO schedules (` + scheduleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (vehicle_type, service_name) DO UPDATE SET
			arrives_on = excluded.arrives_on,
			arrives_at_seconds = excluded.arrives_at_seconds,
			every_k_days = excluded.every_k_days,
			average_vehicle_capacity = excluded.average_vehicle_capacity,
			average_moved_capacity = excluded.average_moved_capacity`)
	if _, err := s.db.ExecContext(ctx, q, r.VehicleType, r.ServiceName, r.ArrivesOn, r.ArrivesAtSeconds,
		r.EveryKDays, r.AverageVehicleCapacity, r.AverageMovedCapacity); err != nil {
		return newError("SaveSchedule", "schedule", sch.ServiceName, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, vt model.VehicleType, serviceName string) error {
	q := s.db.Rebind(`DELETE FROM schedules WHERE vehicle_type = ? AND service_name = ?`)
	res, err := s.db.ExecContext(ctx, q, vt.String(), serviceName)
	if err != nil {
		return newError("DeleteSchedule", "schedule", serviceName, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return newError("DeleteSchedule", "schedule", serviceName, err)
	}
	if n == 0 {
		return newError("DeleteSchedule", "schedule", serviceName, ErrNotFound)
	}
	return nil
}
