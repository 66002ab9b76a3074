package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/clinic/internal/domain/schedule"
)

// ScheduleSource yields a doctor's weekly recurring template.
type ScheduleSource interface {
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*schedule.WeeklySchedule, error)
}

// BookedSource yields the HH:MM times already held by active appointments
// for a doctor on a given date.
type BookedSource interface {
	ActiveTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)
}

// CalculatorConfig carries the tunables for slot generation. Zero values are
// replaced with the clinic defaults.
type CalculatorConfig struct {
	SlotMinutes     int    // slot granularity, default 30
	LookaheadDays   int    // how far ahead slots may be requested, default 90
	DefaultDayStart string // window used when a doctor has no schedule rows
	DefaultDayEnd   string
}

// Calculator computes the free slots for a (doctor, date) pair from the
// weekly template minus breaks minus active appointments. The result is
// advisory: the unique index on active appointments is the authoritative
// check at booking time.
type Calculator struct {
	schedules ScheduleSource
	booked    BookedSource

	slotMinutes   int
	lookaheadDays int
	defaultStart  int // minutes since midnight
	defaultEnd    int

	now func() time.Time
}

func NewCalculator(schedules ScheduleSource, booked BookedSource, cfg CalculatorConfig) (*Calculator, error) {
	if cfg.SlotMinutes == 0 {
		cfg.SlotMinutes = 30
	}
	if cfg.LookaheadDays == 0 {
		cfg.LookaheadDays = 90
	}
	if cfg.DefaultDayStart == "" {
		cfg.DefaultDayStart = "09:00"
	}
	if cfg.DefaultDayEnd == "" {
		cfg.DefaultDayEnd = "17:00"
	}
	start, err := schedule.ParseClock(cfg.DefaultDayStart)
	if err != nil {
		return nil, fmt.Errorf("default day start: %w", err)
	}
	end, err := schedule.ParseClock(cfg.DefaultDayEnd)
	if err != nil {
		return nil, fmt.Errorf("default day end: %w", err)
	}
	if start >= end {
		return nil, fmt.Errorf("default window %s-%s is empty", cfg.DefaultDayStart, cfg.DefaultDayEnd)
	}
	return &Calculator{
		schedules:     schedules,
		booked:        booked,
		slotMinutes:   cfg.SlotMinutes,
		lookaheadDays: cfg.LookaheadDays,
		defaultStart:  start,
		defaultEnd:    end,
		now:           time.Now,
	}, nil
}

// AvailableSlots returns the free half-hour openings for doctorID on date
// (YYYY-MM-DD), in ascending time order. Past dates and dates beyond the
// lookahead window are rejected with ErrInvalidDate. A weekday the doctor has
// explicitly marked unavailable yields an empty result; the default window
// applies only to doctors with no schedule rows at all.
func (c *Calculator) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]Slot, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	today := FormatDate(c.now())
	if date < today {
		return nil, fmt.Errorf("%w: %s is in the past", ErrInvalidDate, date)
	}
	horizon := FormatDate(c.now().AddDate(0, 0, c.lookaheadDays))
	if date > horizon {
		return nil, fmt.Errorf("%w: %s is beyond the %d-day booking window", ErrInvalidDate, date, c.lookaheadDays)
	}

	rows, err := c.schedules.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}

	start, end := c.defaultStart, c.defaultEnd
	var breakStart, breakEnd = -1, -1
	if len(rows) > 0 {
		var dayRow *schedule.WeeklySchedule
		weekday := int(day.Weekday())
		for _, row := range rows {
			if row.DayOfWeek == weekday {
				dayRow = row
				break
			}
		}
		// An explicit weekly template with this weekday missing or switched
		// off means the doctor does not work that day. No fallback.
		if dayRow == nil || !dayRow.IsAvailable {
			return []Slot{}, nil
		}
		if start, err = schedule.ParseClock(dayRow.StartTime); err != nil {
			return nil, fmt.Errorf("schedule start_time: %w", err)
		}
		if end, err = schedule.ParseClock(dayRow.EndTime); err != nil {
			return nil, fmt.Errorf("schedule end_time: %w", err)
		}
		if dayRow.BreakStart != nil && dayRow.BreakEnd != nil {
			if breakStart, err = schedule.ParseClock(*dayRow.BreakStart); err != nil {
				return nil, fmt.Errorf("schedule break_start: %w", err)
			}
			if breakEnd, err = schedule.ParseClock(*dayRow.BreakEnd); err != nil {
				return nil, fmt.Errorf("schedule break_end: %w", err)
			}
		}
	}

	bookedTimes, err := c.booked.ActiveTimes(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("load booked slots: %w", err)
	}
	taken := make(map[string]bool, len(bookedTimes))
	for _, t := range bookedTimes {
		taken[t] = true
	}

	var slots []Slot
	// Candidates step through [start, end); a slot that would run past the
	// end of the window is dropped rather than shortened.
	for t := start; t+c.slotMinutes <= end; t += c.slotMinutes {
		if breakStart >= 0 && t >= breakStart && t < breakEnd {
			continue
		}
		hhmm := schedule.FormatClock(t)
		if taken[hhmm] {
			continue
		}
		slots = append(slots, Slot{Date: date, Time: hhmm})
	}
	if slots == nil {
		slots = []Slot{}
	}
	return slots, nil
}

// SlotFree reports whether a specific (date, time) is among the doctor's
// available slots. Used by the booking and reschedule flows before writing;
// the unique index remains the final arbiter.
func (c *Calculator) SlotFree(ctx context.Context, doctorID uuid.UUID, date, hhmm string) (bool, error) {
	slots, err := c.AvailableSlots(ctx, doctorID, date)
	if err != nil {
		return false, err
	}
	for _, s := range slots {
		if s.Time == hhmm {
			return true, nil
		}
	}
	return false, nil
}
