package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	doctors  DoctorRepository
	patients PatientRepository
}

func NewService(doctors DoctorRepository, patients PatientRepository) *Service {
	return &Service{doctors: doctors, patients: patients}
}

// -- Doctor --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.FirstName == "" || d.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	d.Active = true
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if d.FirstName == "" || d.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	return s.doctors.Update(ctx, d)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, limit, offset)
}

// -- Patient --

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}
