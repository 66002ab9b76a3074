package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the appointment lifecycle state. The full set of permitted
// changes lives in the transition table in status.go.
type Status string

const (
	StatusPending           Status = "pending"
	StatusConfirmed         Status = "confirmed"
	StatusInProgress        Status = "in-progress"
	StatusCompleted         Status = "completed"
	StatusCancelled         Status = "cancelled"
	StatusNoShow            Status = "no-show"
	StatusPendingReschedule Status = "pending_reschedule_confirmation"
)

// ActiveStatuses are the states that occupy a doctor-slot: at most one
// appointment in any of these states may exist per (doctor, date, time).
// The partial unique index in the appointments migration uses the same set.
var ActiveStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusPendingReschedule,
}

func (s Status) IsActive() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

type ConsultationType string

const (
	ConsultationInPerson ConsultationType = "in-person"
	ConsultationVideo    ConsultationType = "video-call"
	ConsultationPhone    ConsultationType = "phone"
)

func (t ConsultationType) Valid() bool {
	switch t {
	case ConsultationInPerson, ConsultationVideo, ConsultationPhone:
		return true
	}
	return false
}

// Appointment maps to the appointments table. Dates are clinic-local
// YYYY-MM-DD strings and times of day are HH:MM strings; both compare
// correctly as plain strings and carry no timezone.
type Appointment struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	PatientID       uuid.UUID        `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID        `db:"doctor_id" json:"doctor_id"`
	AppointmentDate string           `db:"appointment_date" json:"appointment_date"`
	AppointmentTime string           `db:"appointment_time" json:"appointment_time"`
	Status          Status           `db:"status" json:"status"`
	Type            ConsultationType `db:"consultation_type" json:"consultation_type"`
	Reason          string           `db:"reason" json:"reason"`
	Notes           *string          `db:"notes" json:"notes,omitempty"`
	DurationMinutes int              `db:"duration_minutes" json:"duration_minutes"`
	Fee             *float64         `db:"fee" json:"fee,omitempty"`

	// Audit trail. Rows are never deleted; cancellation and rescheduling
	// record their context here instead.
	CancellationReason    *string `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	RescheduleRequestedBy *string `db:"reschedule_requested_by" json:"reschedule_requested_by,omitempty"`
	RescheduleReason      *string `db:"reschedule_reason" json:"reschedule_reason,omitempty"`
	OriginalDate          *string `db:"original_date" json:"original_date,omitempty"`
	OriginalTime          *string `db:"original_time" json:"original_time,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Slot is one bookable half-hour opening on a doctor's calendar.
type Slot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// ParseDate parses a clinic-local YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidDate, s)
	}
	return d, nil
}

// FormatDate renders a date as a clinic-local YYYY-MM-DD string.
func FormatDate(d time.Time) string {
	return d.Format("2006-01-02")
}
