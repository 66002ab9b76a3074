package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, patient_id, doctor_id, appointment_date, appointment_time, status,
	consultation_type, reason, notes, duration_minutes, fee, cancellation_reason,
	reschedule_requested_by, reschedule_reason, original_date, original_time,
	created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.AppointmentDate, &a.AppointmentTime, &a.Status,
		&a.Type, &a.Reason, &a.Notes, &a.DurationMinutes, &a.Fee, &a.CancellationReason,
		&a.RescheduleRequestedBy, &a.RescheduleReason, &a.OriginalDate, &a.OriginalTime,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: appointment", ErrNotFound)
	}
	return &a, err
}

// slotConflict maps the active-slot partial unique index violation to the
// domain sentinel. Any other error passes through.
func slotConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: doctor already has an active appointment at that time", ErrSlotUnavailable)
	}
	return err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointments
			(id, patient_id, doctor_id, appointment_date, appointment_time, status,
			 consultation_type, reason, notes, duration_minutes, fee)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DoctorID, a.AppointmentDate, a.AppointmentTime, a.Status,
		a.Type, a.Reason, a.Notes, a.DurationMinutes, a.Fee).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	return slotConflict(err)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

// Update writes the mutable appointment fields in one statement so a status
// change and a slot move commit together or not at all.
func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE appointments SET
			appointment_date=$2, appointment_time=$3, status=$4, notes=$5,
			cancellation_reason=$6, reschedule_requested_by=$7, reschedule_reason=$8,
			original_date=$9, original_time=$10, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		a.ID, a.AppointmentDate, a.AppointmentTime, a.Status, a.Notes,
		a.CancellationReason, a.RescheduleRequestedBy, a.RescheduleReason,
		a.OriginalDate, a.OriginalTime).
		Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: appointment", ErrNotFound)
	}
	return slotConflict(err)
}

func (r *repoPG) listPaged(ctx context.Context, where, order string, id uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE `+where, id).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointments WHERE `+where+` ORDER BY `+order+` LIMIT $2 OFFSET $3`, id, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := r.collect(rows)
	return items, total, err
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Appointment, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.listPaged(ctx, `patient_id = $1`, `appointment_date DESC, appointment_time DESC`, patientID, limit, offset)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.listPaged(ctx, `doctor_id = $1`, `appointment_date DESC, appointment_time DESC`, doctorID, limit, offset)
}

func (r *repoPG) ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+` FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2
		ORDER BY appointment_time`, doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) ActiveTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	active := make([]string, len(ActiveStatuses))
	for i, s := range ActiveStatuses {
		active[i] = string(s)
	}
	rows, err := r.pool.Query(ctx, `
		SELECT appointment_time FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2
		  AND status = ANY($3)
		ORDER BY appointment_time`, doctorID, date, active)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}
