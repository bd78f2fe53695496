package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `id, number, patient_id, dentist_id, service_id, date, start_minute,
	duration_minutes, status, type, notes, cancel_reason, created_at, updated_at`

// Helpers

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var startMinute int
	var cancelReason *string

	err := row.Scan(
		&a.ID,
		&a.Number,
		&a.PatientID,
		&a.DentistID,
		&a.ServiceID,
		&a.Date,
		&startMinute,
		&a.DurationMinutes,
		&a.Status,
		&a.Type,
		&a.Notes,
		&cancelReason,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Start = Clock(startMinute)
	a.CancelReason = cancelReason
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) exists(ctx context.Context, query string, id uuid.UUID) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Interface methods

func (r *PgRepository) PatientExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1 AND active)`, id)
}

func (r *PgRepository) DentistExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM staff_users WHERE id = $1 AND role = 'dentist' AND active)`, id)
}

func (r *PgRepository) ServiceExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM services WHERE id = $1 AND active)`, id)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) ListDaySlots(ctx context.Context, dentistID uuid.UUID, day time.Time) ([]DaySlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, start_minute, duration_minutes, status
		FROM appointments
		WHERE dentist_id = $1 AND date = $2
		ORDER BY start_minute
	`, dentistID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DaySlot
	for rows.Next() {
		var s DaySlot
		var startMinute int
		if err := rows.Scan(&s.ID, &startMinute, &s.DurationMinutes, &s.Status); err != nil {
			return nil, err
		}
		s.Start = Clock(startMinute)
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) ListByDentistDay(ctx context.Context, dentistID uuid.UUID, day time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE dentist_id = $1 AND date = $2
		ORDER BY start_minute
	`, dentistID, day)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1
		ORDER BY date DESC, start_minute DESC
		LIMIT $2 OFFSET $3
	`, patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error) {
	var seq int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('appointment_number_seq')`).Scan(&seq); err != nil {
		return nil, fmt.Errorf("next appointment number: %w", err)
	}

	id := uuid.New()
	number := fmt.Sprintf("APT-%s-%04d", a.Date.Format("20060102"), seq)

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments
			(id, number, patient_id, dentist_id, service_id, date, start_minute,
			 duration_minutes, status, type, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING `+appointmentColumns+`
	`, id, number, a.PatientID, a.DentistID, a.ServiceID, a.Date, int(a.Start),
		a.DurationMinutes, a.Status, a.Type, a.Notes)

	return scanAppointment(row)
}

func (r *PgRepository) UpdateSchedule(ctx context.Context, a *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET patient_id = $2,
		    dentist_id = $3,
		    service_id = $4,
		    date = $5,
		    start_minute = $6,
		    duration_minutes = $7,
		    type = $8,
		    notes = $9,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, a.ID, a.PatientID, a.DentistID, a.ServiceID, a.Date, int(a.Start), a.DurationMinutes, a.Type, a.Notes)

	return scanAppointment(row)
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to Status, cancelReason *string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    cancel_reason = COALESCE($4, cancel_reason),
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+appointmentColumns+`
	`, id, to, from, cancelReason)

	return scanAppointment(row)
}

func (r *PgRepository) FindOverdue(ctx context.Context, cutoff time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE status IN ('scheduled', 'confirmed')
		  AND date + (start_minute + duration_minutes) * interval '1 minute' < $1
	`, cutoff)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
