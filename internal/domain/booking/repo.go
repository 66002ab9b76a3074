package booking

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists appointments. Implementations must enforce at most one
// active appointment per (doctor_id, appointment_date, appointment_time) at
// write time: Create and Update return ErrSlotUnavailable when the target
// slot is already held, and the appointment row is left unchanged.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*Appointment, error)
	ActiveTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)
}
