package schedule

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SetDay creates or replaces the doctor's working hours for a single day of
// the week. Replacing is in place: the row keyed (doctor_id, day_of_week) is
// updated rather than duplicated.
func (s *Service) SetDay(ctx context.Context, ws *WeeklySchedule) error {
	if err := ws.Validate(); err != nil {
		return err
	}
	return s.repo.Upsert(ctx, ws)
}

// SetWeek replaces the given days of a doctor's weekly template in one call.
// Days absent from the input are left untouched.
func (s *Service) SetWeek(ctx context.Context, doctorID uuid.UUID, days []*WeeklySchedule) error {
	for _, ws := range days {
		ws.DoctorID = doctorID
		if err := ws.Validate(); err != nil {
			return err
		}
	}
	for _, ws := range days {
		if err := s.repo.Upsert(ctx, ws); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) GetDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*WeeklySchedule, error) {
	return s.repo.GetByDoctorDay(ctx, doctorID, dayOfWeek)
}

func (s *Service) ListWeek(ctx context.Context, doctorID uuid.UUID) ([]*WeeklySchedule, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}

func (s *Service) DeleteDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) error {
	return s.repo.Delete(ctx, doctorID, dayOfWeek)
}
