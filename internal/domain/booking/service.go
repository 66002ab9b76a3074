package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicops/clinic/internal/domain/directory"
	"github.com/clinicops/clinic/internal/platform/notification"
)

// DirectorySource resolves doctor and patient identities for existence
// checks and notification text.
type DirectorySource interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*directory.Doctor, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*directory.Patient, error)
}

// Notifier is the outbound notification port. Dispatch is fire-and-forget:
// it must never block the caller on delivery or surface delivery errors.
type Notifier interface {
	Dispatch(ctx context.Context, n notification.Notification)
}

// Service implements the booking flows: slot lookup, creation, and every
// lifecycle transition. All status changes route through the transition
// table; all slot writes rely on the repository's uniqueness guarantee.
type Service struct {
	repo     Repository
	calc     *Calculator
	dir      DirectorySource
	notifier Notifier
	logger   zerolog.Logger

	// StaffRecipient, when set, receives an oversight copy of booking and
	// cancellation notifications. uuid.Nil disables it.
	StaffRecipient uuid.UUID
}

func NewService(repo Repository, calc *Calculator, dir DirectorySource, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		calc:     calc,
		dir:      dir,
		notifier: notifier,
		logger:   logger.With().Str("component", "booking").Logger(),
	}
}

// AvailableSlots exposes the calculator for the HTTP layer.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]Slot, error) {
	if _, err := s.dir.GetDoctor(ctx, doctorID); err != nil {
		return nil, fmt.Errorf("%w: doctor", ErrNotFound)
	}
	return s.calc.AvailableSlots(ctx, doctorID, date)
}

// BookRequest carries the inputs of a new booking.
type BookRequest struct {
	PatientID uuid.UUID        `json:"patient_id"`
	DoctorID  uuid.UUID        `json:"doctor_id"`
	Date      string           `json:"date"`
	Time      string           `json:"time"`
	Type      ConsultationType `json:"consultation_type"`
	Reason    string           `json:"reason"`
}

// Book creates a pending appointment at the requested slot. The calculator
// check is advisory; the insert is the authoritative conflict check and
// surfaces ErrSlotUnavailable when another active appointment holds the slot.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: consultation_type must be in-person, video-call or phone", ErrValidation)
	}
	if req.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrValidation)
	}
	patient, err := s.dir.GetPatient(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("%w: patient", ErrNotFound)
	}
	doctor, err := s.dir.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("%w: doctor", ErrNotFound)
	}

	free, err := s.calc.SlotFree(ctx, req.DoctorID, req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, fmt.Errorf("%w: %s %s is not an open slot for this doctor", ErrSlotUnavailable, req.Date, req.Time)
	}

	appt := &Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: req.Date,
		AppointmentTime: req.Time,
		Status:          StatusPending,
		Type:            req.Type,
		Reason:          req.Reason,
		DurationMinutes: s.calc.slotMinutes,
		Fee:             doctor.ConsultationFee,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("appointment_id", appt.ID.String()).
		Str("doctor_id", appt.DoctorID.String()).
		Str("date", appt.AppointmentDate).
		Str("time", appt.AppointmentTime).
		Msg("appointment booked")

	when := fmt.Sprintf("%s at %s", appt.AppointmentDate, appt.AppointmentTime)
	s.notify(ctx, appt.PatientID, "Appointment requested",
		fmt.Sprintf("Your appointment with %s on %s is awaiting confirmation.", doctor.DisplayName(), when),
		notification.TypeAppointment, notification.PriorityNormal, appt.ID)
	s.notify(ctx, appt.DoctorID, "New appointment request",
		fmt.Sprintf("%s requested an appointment on %s.", patient.DisplayName(), when),
		notification.TypeAppointment, notification.PriorityHigh, appt.ID)
	s.notifyStaff(ctx, "Appointment booked",
		fmt.Sprintf("%s booked %s on %s.", patient.DisplayName(), doctor.DisplayName(), when),
		notification.TypeAppointment, appt.ID)

	return appt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*Appointment, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, err
	}
	return s.repo.ListByDoctorDate(ctx, doctorID, date)
}

// Confirm moves a pending appointment to confirmed and tells the patient.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.transition(ctx, id, EventConfirm, nil)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, appt.PatientID, "Appointment confirmed",
		fmt.Sprintf("Your appointment on %s at %s is confirmed.", appt.AppointmentDate, appt.AppointmentTime),
		notification.TypeAppointment, notification.PriorityNormal, appt.ID)
	return appt, nil
}

// Cancel cancels a pending or confirmed appointment. A non-blank reason is
// mandatory; both parties are notified.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*Appointment, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", ErrValidation)
	}
	appt, err := s.transition(ctx, id, EventCancel, func(a *Appointment) {
		a.CancellationReason = &reason
	})
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("The appointment on %s at %s was cancelled: %s",
		appt.AppointmentDate, appt.AppointmentTime, reason)
	s.notify(ctx, appt.PatientID, "Appointment cancelled", msg,
		notification.TypeCancellation, notification.PriorityHigh, appt.ID)
	s.notify(ctx, appt.DoctorID, "Appointment cancelled", msg,
		notification.TypeCancellation, notification.PriorityNormal, appt.ID)
	s.notifyStaff(ctx, "Appointment cancelled", msg, notification.TypeCancellation, appt.ID)
	return appt, nil
}

// Start marks a confirmed appointment as in progress (patient checked in).
func (s *Service) Start(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, EventStart, nil)
}

// Complete closes out a confirmed or in-progress appointment.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, EventComplete, nil)
}

// NoShow records that the patient failed to attend. Staff action only.
func (s *Service) NoShow(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, EventNoShow, nil)
}

// RescheduleRequest carries the inputs of a reschedule.
type RescheduleRequest struct {
	Date        string `json:"new_date"`
	Time        string `json:"new_time"`
	Reason      string `json:"reason"`
	RequestedBy string `json:"requested_by"` // "patient" | "doctor" | "staff"
}

// RequestReschedule moves a confirmed appointment to the requested slot and
// parks it in pending_reschedule_confirmation. The original slot is recorded
// so a doctor rejection can restore it; the new slot is held from this point
// on, so a racing booking for it loses. If the write conflicts the
// appointment is left exactly as it was.
func (s *Service) RequestReschedule(ctx context.Context, id uuid.UUID, req RescheduleRequest) (*Appointment, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("%w: reschedule reason is required", ErrValidation)
	}
	switch req.RequestedBy {
	case "patient", "doctor", "staff":
	default:
		return nil, fmt.Errorf("%w: requested_by must be patient, doctor or staff", ErrValidation)
	}

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := NextStatus(appt.Status, EventRescheduleRequest)
	if err != nil {
		return nil, err
	}

	free, err := s.calc.SlotFree(ctx, appt.DoctorID, req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, fmt.Errorf("%w: %s %s is not an open slot for this doctor", ErrSlotUnavailable, req.Date, req.Time)
	}

	origDate, origTime := appt.AppointmentDate, appt.AppointmentTime
	appt.OriginalDate = &origDate
	appt.OriginalTime = &origTime
	appt.AppointmentDate = req.Date
	appt.AppointmentTime = req.Time
	appt.RescheduleReason = &req.Reason
	appt.RescheduleRequestedBy = &req.RequestedBy
	appt.Status = next
	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}

	s.notify(ctx, appt.DoctorID, "Reschedule requested",
		fmt.Sprintf("Appointment on %s at %s: move to %s at %s requested by %s (%s). Please confirm or reject.",
			origDate, origTime, req.Date, req.Time, req.RequestedBy, req.Reason),
		notification.TypeReschedule, notification.PriorityHigh, appt.ID)
	return appt, nil
}

// ConfirmReschedule accepts the requested slot: the appointment stays on its
// new date/time and returns to confirmed.
func (s *Service) ConfirmReschedule(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.transition(ctx, id, EventRescheduleConfirm, nil)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, appt.PatientID, "Reschedule confirmed",
		fmt.Sprintf("Your appointment now takes place on %s at %s.", appt.AppointmentDate, appt.AppointmentTime),
		notification.TypeReschedule, notification.PriorityNormal, appt.ID)
	return appt, nil
}

// RejectReschedule declines the requested slot: the appointment moves back
// to its original date/time and returns to confirmed.
func (s *Service) RejectReschedule(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.transition(ctx, id, EventRescheduleReject, func(a *Appointment) {
		if a.OriginalDate != nil && a.OriginalTime != nil {
			a.AppointmentDate = *a.OriginalDate
			a.AppointmentTime = *a.OriginalTime
		}
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, appt.PatientID, "Reschedule declined",
		fmt.Sprintf("The doctor declined the move. Your appointment remains on %s at %s.",
			appt.AppointmentDate, appt.AppointmentTime),
		notification.TypeReschedule, notification.PriorityNormal, appt.ID)
	return appt, nil
}

// transition loads the appointment, resolves the event against the table,
// applies any extra field mutation and persists in one write.
func (s *Service) transition(ctx context.Context, id uuid.UUID, event Event, mutate func(*Appointment)) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := NextStatus(appt.Status, event)
	if err != nil {
		return nil, err
	}
	appt.Status = next
	if mutate != nil {
		mutate(appt)
	}
	if err := s.repo.Update(ctx, appt); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("appointment_id", appt.ID.String()).
		Str("event", string(event)).
		Str("status", string(appt.Status)).
		Msg("appointment status changed")
	return appt, nil
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, title, message string, typ notification.Type, prio notification.Priority, apptID uuid.UUID) {
	id := apptID
	s.notifier.Dispatch(ctx, notification.Notification{
		UserID:        userID,
		Title:         title,
		Message:       message,
		Type:          typ,
		Priority:      prio,
		AppointmentID: &id,
	})
}

func (s *Service) notifyStaff(ctx context.Context, title, message string, typ notification.Type, apptID uuid.UUID) {
	if s.StaffRecipient == uuid.Nil {
		return
	}
	s.notify(ctx, s.StaffRecipient, title, message, typ, notification.PriorityNormal, apptID)
}
