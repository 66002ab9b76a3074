package directory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

const doctorCols = `id, first_name, last_name, specialty, email, phone,
	consultation_fee, active, created_at, updated_at`

func (r *doctorRepoPG) scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Specialty, &d.Email, &d.Phone,
		&d.ConsultationFee, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctors (id, first_name, last_name, specialty, email, phone, consultation_fee, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.ID, d.FirstName, d.LastName, d.Specialty, d.Email, d.Phone, d.ConsultationFee, d.Active)
	return err
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return r.scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE doctors SET first_name=$2, last_name=$3, specialty=$4, email=$5, phone=$6,
			consultation_fee=$7, active=$8, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.FirstName, d.LastName, d.Specialty, d.Email, d.Phone, d.ConsultationFee, d.Active)
	return err
}

func (r *doctorRepoPG) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+doctorCols+` FROM doctors ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := r.scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, nil
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

const patientCols = `id, first_name, last_name, email, phone, date_of_birth, created_at, updated_at`

func (r *patientRepoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.DateOfBirth,
		&p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patients (id, first_name, last_name, email, phone, date_of_birth)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.DateOfBirth)
	return err
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE patients SET first_name=$2, last_name=$3, email=$4, phone=$5, date_of_birth=$6, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.DateOfBirth)
	return err
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+` FROM patients ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}
