package appointment

import "github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", schederr.Format(schederr.ReasonUnknownStatus, s)
	}
	return st, nil
}

// ===============================
// Transitions
// ===============================

func CanTransition(current, requested Status) bool {
	for _, s := range transitions[current] {
		if s == requested {
			return true
		}
	}
	return false
}

// AttemptTransition returns requested when the move is in the table.
// Anything else is rejected as is, never coerced to a nearby state.
func AttemptTransition(current, requested Status) (Status, error) {
	if !CanTransition(current, requested) {
		return current, schederr.InvalidTransition(string(current), string(requested))
	}
	return requested, nil
}

func AllowedTargets(current Status) []Status {
	out := make([]Status, len(transitions[current]))
	copy(out, transitions[current])
	return out
}

// IsActive reports whether an appointment in this status occupies time.
func IsActive(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}

func IsTerminal(s Status) bool {
	targets, known := transitions[s]
	return known && len(targets) == 0
}

// InitialStatus is the status a booking-flow appointment starts in.
func InitialStatus(requiresConfirmation bool) Status {
	if requiresConfirmation {
		return StatusPending
	}
	return StatusConfirmed
}

// ===============================
// Time-shift guards
// ===============================

const (
	ActionReschedule = "reschedule"
	ActionStartEarly = "start_early"
)

func CanReschedule(current Status) error {
	if !IsActive(current) {
		return schederr.InvalidTransition(string(current), ActionReschedule)
	}
	return nil
}

func CanStartEarly(current Status) error {
	if current != StatusConfirmed {
		return schederr.InvalidTransition(string(current), ActionStartEarly)
	}
	return nil
}
