package store

import (
	"context"
	"fmt"

	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/core/model"
)

type modeOfTransportRow struct {
	Inbound  string  `db:"inbound"`
	Outbound string  `db:"outbound"`
	Fraction float64 `db:"fraction"`
}

type containerLengthRow struct {
	ContainerLength string  `db:"container_length"`
	Fraction        float64 `db:"fraction"`
}

// ModeOfTransport returns the stored matrix, or the default distribution if none
// has been stored yet.
func (s *SQLStore) ModeOfTransport(ctx context.Context) (distribution.ModeOfTransport, error) {
	var rows []modeOfTransportRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT inbound, outbound, fraction FROM mode_of_transport_distribution`); err != nil {
		return nil, newError("GetModeOfTransport", "distribution", "", err)
	}
	if len(rows) == 0 {
		return distribution.DefaultModeOfTransport(), nil
	}
	d := make(distribution.ModeOfTransport)
	for _, r := range rows {
		in, err := model.ParseVehicleType(r.Inbound)
		if err != nil {
			return nil, newError("GetModeOfTransport", "distribution", r.Inbound, fmt.Errorf("%w: %v", ErrInvalidData, err))
		}
		out, err := model.ParseVehicleType(r.Outbound)
		if err != nil {
			return nil, newError("GetModeOfTransport", "distribution", r.Outbound, fmt.Errorf("%w: %v", ErrInvalidData, err))
		}
		if d[in] == nil {
			d[in] = make(map[model.VehicleType]float64)
		}
		d[in][out] = r.Fraction
	}
	return d, nil
}

// SetModeOfTransport validates d and replaces the stored matrix in one transaction.
func (s *SQLStore) SetModeOfTransport(ctx context.Context, d distribution.ModeOfTransport) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return s.withTx(ctx, "SetModeOfTransport", func(tx executor) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM mode_of_transport_distribution`); err != nil {
			return newError("SetModeOfTransport", "distribution", "", err)
		}
		q := tx.Rebind(`INSERT INTO mode_of_transport_distribution (inbound, outbound, fraction) VALUES (?, ?, ?)`)
		for _, in := range model.VehicleTypes() {
			for _, out := range model.VehicleTypes() {
				if _, err := tx.ExecContext(ctx, q, in.String(), out.String(), d[in][out]); err != nil {
					return newError("SetModeOfTransport", "distribution", in.String(), err)
				}
			}
		}
		return nil
	})
}

// ContainerLength returns the stored distribution, or the default one if none
// has been stored yet.
func (s *SQLStore) ContainerLength(ctx context.Context) (distribution.ContainerLength, error) {
	var rows []containerLengthRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT container_length, fraction FROM container_length_distribution`); err != nil {
		return nil, newError("GetContainerLength", "distribution", "", err)
	}
	if len(rows) == 0 {
		return distribution.DefaultContainerLength(), nil
	}
	d := make(distribution.ContainerLength, len(rows))
	for _, r := range rows {
		l, err := model.ParseContainerLength(r.ContainerLength)
		if err != nil {
			return nil, newError("GetContainerLength", "distribution", r.ContainerLength, fmt.Errorf("%w: %v", ErrInvalidData, err))
		}
		d[l] = r.Fraction
	}
	return d, nil
}

// SetContainerLength validates d and replaces the stored distribution.
func (s *SQLStore) SetContainerLength(ctx context.Context, d distribution.ContainerLength) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return s.withTx(ctx, "SetContainerLength", func(tx executor) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM container_length_distribution`); err != nil {
			return newError("SetContainerLength", "distribution", "", err)
		}
		q := tx.Rebind(`INSERT INTO container_length_distribution (container_length, fraction) VALUES (?, ?)`)
		for _, l := range model.ContainerLengths() {
			if _, err := tx.ExecContext(ctx, q, l.String(), d[l]); err != nil {
				return newError("SetContainerLength", "distribution", l.String(), err)
			}
		}
		return nil
	})
}
