package booking

import "fmt"

// Event is a requested change to an appointment's lifecycle state.
type Event string

const (
	EventConfirm           Event = "confirm"
	EventCancel            Event = "cancel"
	EventStart             Event = "start"
	EventComplete          Event = "complete"
	EventNoShow            Event = "no_show"
	EventRescheduleRequest Event = "reschedule_request"
	EventRescheduleConfirm Event = "reschedule_confirm"
	EventRescheduleReject  Event = "reschedule_reject"
)

// transitions is the single authority on permitted status changes. Every
// state mutation in the service goes through NextStatus; there are no ad-hoc
// status writes elsewhere.
var transitions = map[Status]map[Event]Status{
	StatusPending: {
		EventConfirm: StatusConfirmed,
		EventCancel:  StatusCancelled,
	},
	StatusConfirmed: {
		EventCancel:            StatusCancelled,
		EventStart:             StatusInProgress,
		EventComplete:          StatusCompleted,
		EventNoShow:            StatusNoShow,
		EventRescheduleRequest: StatusPendingReschedule,
	},
	StatusInProgress: {
		EventComplete: StatusCompleted,
	},
	StatusPendingReschedule: {
		EventRescheduleConfirm: StatusConfirmed,
		EventRescheduleReject:  StatusConfirmed,
	},
}

// NextStatus resolves the state an appointment moves to when event fires
// from the given state. Terminal states and unlisted pairs return
// ErrInvalidTransition.
func NextStatus(from Status, event Event) (Status, error) {
	if from.IsTerminal() {
		return "", fmt.Errorf("%w: %s is a terminal state", ErrInvalidTransition, from)
	}
	next, ok := transitions[from][event]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, event, from)
	}
	return next, nil
}

// CanTransition reports whether event is permitted from the given state.
func CanTransition(from Status, event Event) bool {
	_, err := NextStatus(from, event)
	return err == nil
}
