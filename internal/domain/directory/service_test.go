package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type mockDoctorRepo struct {
	rows map[uuid.UUID]*Doctor
}

func (m *mockDoctorRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	cp := *d
	m.rows[d.ID] = &cp
	return nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	if d, ok := m.rows[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, errors.New("no rows")
}

func (m *mockDoctorRepo) Update(_ context.Context, d *Doctor) error {
	if _, ok := m.rows[d.ID]; !ok {
		return errors.New("no rows")
	}
	cp := *d
	m.rows[d.ID] = &cp
	return nil
}

func (m *mockDoctorRepo) List(_ context.Context, limit, offset int) ([]*Doctor, int, error) {
	var out []*Doctor
	for _, d := range m.rows {
		cp := *d
		out = append(out, &cp)
	}
	return out, len(out), nil
}

type mockPatientRepo struct {
	rows map[uuid.UUID]*Patient
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	if p, ok := m.rows[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, errors.New("no rows")
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.rows[p.ID]; !ok {
		return errors.New("no rows")
	}
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.rows {
		cp := *p
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func newTestService() *Service {
	return NewService(
		&mockDoctorRepo{rows: make(map[uuid.UUID]*Doctor)},
		&mockPatientRepo{rows: make(map[uuid.UUID]*Patient)},
	)
}

func TestCreateDoctor(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	d := &Doctor{FirstName: "Asha", LastName: "Rao"}
	if err := svc.CreateDoctor(ctx, d); err != nil {
		t.Fatalf("CreateDoctor: %v", err)
	}
	if !d.Active {
		t.Error("new doctors should start active")
	}
	got, err := svc.GetDoctor(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetDoctor: %v", err)
	}
	if got.DisplayName() != "Dr. Asha Rao" {
		t.Errorf("DisplayName = %q, want Dr. Asha Rao", got.DisplayName())
	}
}

func TestCreateDoctorRequiresName(t *testing.T) {
	svc := newTestService()
	if err := svc.CreateDoctor(context.Background(), &Doctor{FirstName: "Asha"}); err == nil {
		t.Error("expected error without last name")
	}
	if err := svc.CreateDoctor(context.Background(), &Doctor{LastName: "Rao"}); err == nil {
		t.Error("expected error without first name")
	}
}

func TestCreatePatientAndDisplayName(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p := &Patient{FirstName: "Ben", LastName: "Okafor"}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	got, err := svc.GetPatient(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPatient: %v", err)
	}
	if got.DisplayName() != "Ben Okafor" {
		t.Errorf("DisplayName = %q, want Ben Okafor", got.DisplayName())
	}
}

func TestUpdateDoctor(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	d := &Doctor{FirstName: "Asha", LastName: "Rao"}
	if err := svc.CreateDoctor(ctx, d); err != nil {
		t.Fatalf("CreateDoctor: %v", err)
	}
	spec := "Cardiology"
	d.Specialty = &spec
	if err := svc.UpdateDoctor(ctx, d); err != nil {
		t.Fatalf("UpdateDoctor: %v", err)
	}
	got, _ := svc.GetDoctor(ctx, d.ID)
	if got.Specialty == nil || *got.Specialty != "Cardiology" {
		t.Errorf("specialty not updated: %v", got.Specialty)
	}
}
