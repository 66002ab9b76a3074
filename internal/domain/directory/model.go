package directory

import (
	"time"

	"github.com/google/uuid"
)

// Doctor maps to the doctors table.
type Doctor struct {
	ID              uuid.UUID `db:"id" json:"id"`
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	Specialty       *string   `db:"specialty" json:"specialty,omitempty"`
	Email           *string   `db:"email" json:"email,omitempty"`
	Phone           *string   `db:"phone" json:"phone,omitempty"`
	ConsultationFee *float64  `db:"consultation_fee" json:"consultation_fee,omitempty"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName returns the name used in notification text.
func (d *Doctor) DisplayName() string {
	return "Dr. " + d.FirstName + " " + d.LastName
}

// Patient maps to the patients table.
type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	Email       *string    `db:"email" json:"email,omitempty"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// DisplayName returns the name used in notification text.
func (p *Patient) DisplayName() string {
	return p.FirstName + " " + p.LastName
}
