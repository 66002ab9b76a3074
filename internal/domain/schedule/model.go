package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WeeklySchedule maps to the doctor_weekly_schedule table: one row per
// (doctor, day-of-week) describing the doctor's recurring availability
// template. Times of day are clinic-local HH:MM strings; the system carries
// no timezone or DST handling.
type WeeklySchedule struct {
	ID                uuid.UUID `db:"id" json:"id"`
	DoctorID          uuid.UUID `db:"doctor_id" json:"doctor_id"`
	DayOfWeek         int       `db:"day_of_week" json:"day_of_week"` // 0=Sunday .. 6=Saturday
	StartTime         string    `db:"start_time" json:"start_time"`
	EndTime           string    `db:"end_time" json:"end_time"`
	IsAvailable       bool      `db:"is_available" json:"is_available"`
	BreakStart        *string   `db:"break_start" json:"break_start,omitempty"`
	BreakEnd          *string   `db:"break_end" json:"break_end,omitempty"`
	MaxPatientsPerDay int       `db:"max_patients_per_day" json:"max_patients_per_day"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Validate checks the schedule row invariants: a well-formed working window,
// and a break window strictly inside it.
func (w *WeeklySchedule) Validate() error {
	if w.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week must be between 0 and 6, got %d", w.DayOfWeek)
	}
	start, err := ParseClock(w.StartTime)
	if err != nil {
		return fmt.Errorf("start_time: %w", err)
	}
	end, err := ParseClock(w.EndTime)
	if err != nil {
		return fmt.Errorf("end_time: %w", err)
	}
	if start >= end {
		return fmt.Errorf("start_time %s must be before end_time %s", w.StartTime, w.EndTime)
	}
	if (w.BreakStart == nil) != (w.BreakEnd == nil) {
		return fmt.Errorf("break_start and break_end must be set together")
	}
	if w.BreakStart != nil {
		bs, err := ParseClock(*w.BreakStart)
		if err != nil {
			return fmt.Errorf("break_start: %w", err)
		}
		be, err := ParseClock(*w.BreakEnd)
		if err != nil {
			return fmt.Errorf("break_end: %w", err)
		}
		if bs >= be {
			return fmt.Errorf("break_start %s must be before break_end %s", *w.BreakStart, *w.BreakEnd)
		}
		if bs <= start || be >= end {
			return fmt.Errorf("break window must fall strictly within working hours")
		}
	}
	if w.MaxPatientsPerDay < 1 {
		return fmt.Errorf("max_patients_per_day must be at least 1, got %d", w.MaxPatientsPerDay)
	}
	return nil
}

// ParseClock parses a clinic-local HH:MM string into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid HH:MM value %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as an HH:MM string.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
