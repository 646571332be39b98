package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/saudeviva/agenda/store"
)

func (d *DB) CreateAppointment(ctx context.Context, create *store.Appointment) (*store.Appointment, error) {
	fields := []string{
		"id", "patient_name", "date", "time",
		"duration_minutes", "status", "practitioner",
	}
	placeholderValues := []any{
		create.ID, create.PatientName, create.Date, create.Time,
		create.DurationMinutes, create.Status, create.Practitioner,
	}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}

	stmt := `INSERT INTO appointment (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts, status`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.Status,
	); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	return create, nil
}

func (d *DB) ListAppointments(ctx context.Context, find *store.FindAppointment) ([]*store.Appointment, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find != nil {
		if v := find.ID; v != nil {
			where, args = append(where, "appointment.id = "+placeholder(len(args)+1)), append(args, *v)
		}
		if v := find.Date; v != nil {
			where, args = append(where, "appointment.date = "+placeholder(len(args)+1)), append(args, *v)
		}
		if v := find.Status; v != nil {
			where, args = append(where, "appointment.status = "+placeholder(len(args)+1)), append(args, *v)
		}
	}

	// Ordering (always by id ascending, which is insertion order)
	query := `
		SELECT
			id, patient_name, date, time,
			duration_minutes, status, practitioner, created_ts
		FROM appointment
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY appointment.id ASC`

	if find != nil && find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Appointment, 0)
	for rows.Next() {
		var appointment store.Appointment
		if err := rows.Scan(
			&appointment.ID,
			&appointment.PatientName,
			&appointment.Date,
			&appointment.Time,
			&appointment.DurationMinutes,
			&appointment.Status,
			&appointment.Practitioner,
			&appointment.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		list = append(list, &appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointments: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateAppointmentStatus(ctx context.Context, update *store.UpdateAppointmentStatus) (*store.Appointment, error) {
	stmt := `UPDATE appointment SET status = ` + placeholder(1) + ` WHERE id = ` + placeholder(2)
	result, err := d.db.ExecContext(ctx, stmt, update.Status, update.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, nil
	}

	list, err := d.ListAppointments(ctx, &store.FindAppointment{ID: &update.ID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) CountAppointments(ctx context.Context) (int32, error) {
	var count int32
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointment`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}
