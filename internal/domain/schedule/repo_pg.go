package schedule

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const scheduleCols = `id, doctor_id, day_of_week, start_time, end_time, is_available,
	break_start, break_end, max_patients_per_day, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*WeeklySchedule, error) {
	var w WeeklySchedule
	err := row.Scan(&w.ID, &w.DoctorID, &w.DayOfWeek, &w.StartTime, &w.EndTime, &w.IsAvailable,
		&w.BreakStart, &w.BreakEnd, &w.MaxPatientsPerDay, &w.CreatedAt, &w.UpdatedAt)
	return &w, err
}

func (r *repoPG) Upsert(ctx context.Context, ws *WeeklySchedule) error {
	if ws.ID == uuid.Nil {
		ws.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO doctor_weekly_schedule
			(id, doctor_id, day_of_week, start_time, end_time, is_available,
			 break_start, break_end, max_patients_per_day)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (doctor_id, day_of_week) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			is_available = EXCLUDED.is_available,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			max_patients_per_day = EXCLUDED.max_patients_per_day,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		ws.ID, ws.DoctorID, ws.DayOfWeek, ws.StartTime, ws.EndTime, ws.IsAvailable,
		ws.BreakStart, ws.BreakEnd, ws.MaxPatientsPerDay).
		Scan(&ws.ID, &ws.CreatedAt, &ws.UpdatedAt)
}

func (r *repoPG) GetByDoctorDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*WeeklySchedule, error) {
	return r.scan(r.pool.QueryRow(ctx, `
		SELECT `+scheduleCols+` FROM doctor_weekly_schedule
		WHERE doctor_id = $1 AND day_of_week = $2`, doctorID, dayOfWeek))
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*WeeklySchedule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+scheduleCols+` FROM doctor_weekly_schedule
		WHERE doctor_id = $1 ORDER BY day_of_week`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*WeeklySchedule
	for rows.Next() {
		w, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

func (r *repoPG) Delete(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM doctor_weekly_schedule WHERE doctor_id = $1 AND day_of_week = $2`,
		doctorID, dayOfWeek)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM doctor_weekly_schedule WHERE doctor_id = $1`, doctorID).Scan(&n)
	return n, err
}
