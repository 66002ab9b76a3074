package booking

import "errors"

var (
	// ErrInvalidDate is returned for malformed dates, dates in the past, and
	// dates beyond the configured lookahead window.
	ErrInvalidDate = errors.New("invalid appointment date")

	// ErrValidation is returned when request input fails a domain rule, such
	// as a cancellation without a reason.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition is returned when a status change is not permitted
	// from the appointment's current state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrSlotUnavailable is returned when the requested (doctor, date, time)
	// slot is already held by an active appointment. It is surfaced from the
	// persistence layer's uniqueness constraint, which is authoritative.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrNotFound is returned when a referenced appointment, doctor, or
	// patient does not exist.
	ErrNotFound = errors.New("not found")
)
