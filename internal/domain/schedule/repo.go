package schedule

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides access to doctor weekly schedule rows. Upsert is keyed
// on (doctor_id, day_of_week): writing a day that already has a row replaces
// that row's working hours in place.
type Repository interface {
	Upsert(ctx context.Context, ws *WeeklySchedule) error
	GetByDoctorDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*WeeklySchedule, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*WeeklySchedule, error)
	Delete(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) error
	CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int, error)
}
