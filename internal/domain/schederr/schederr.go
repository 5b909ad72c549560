// Package schederr holds the closed set of error kinds produced by the
// scheduling engine. Presentation layers map kinds and reasons to text.
package schederr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindFormat                   Kind = "format_error"
	KindInvalidRange             Kind = "invalid_range"
	KindConflict                 Kind = "conflict"
	KindInvalidTransition        Kind = "invalid_transition"
	KindReconciliationIncomplete Kind = "reconciliation_incomplete"
)

// Reasons refine a Kind. They are stable codes, not messages.
const (
	ReasonMalformedTime   = "malformed_time"
	ReasonMalformedDate   = "malformed_date"
	ReasonUnknownStatus   = "unknown_status"
	ReasonUnknownDecision = "unknown_decision"

	ReasonStartNotBeforeEnd   = "start_not_before_end"
	ReasonInvalidInterval     = "invalid_slot_interval"
	ReasonOutsideWorkingHours = "outside_working_hours"
	ReasonDayOff              = "day_off"
	ReasonBreakOutsideHours   = "break_outside_hours"
	ReasonEndsAfterMidnight   = "ends_after_midnight"
	ReasonTooSoon             = "too_soon"
	ReasonInPast              = "in_past"
	ReasonTargetIsDayOff      = "target_is_day_off"
	ReasonNotInPlan           = "appointment_not_in_plan"
	ReasonRangeTooLong        = "range_too_long"
	ReasonOffSlotGrid         = "off_slot_grid"

	ReasonWorkingDayExists        = "working_day_exists"
	ReasonAppointmentOutsideHours = "appointment_outside_hours"
	ReasonActiveAppointments      = "active_appointments"
	ReasonBreakOverlap            = "break_overlap"
	ReasonAppointmentOverlap      = "appointment_overlap"

	ReasonMissingDecisions = "missing_decisions"
	ReasonNewAppointments  = "new_appointments"
)

const (
	OccupantAppointment = "appointment"
	OccupantBreak       = "break"
	OccupantWorkingDay  = "working_day"
)

// Occupant identifies an existing interval a candidate collided with.
// Start and End are minutes since midnight.
type Occupant struct {
	Type  string    `json:"type"`
	ID    uint      `json:"id"`
	Date  time.Time `json:"date"`
	Start int       `json:"start"`
	End   int       `json:"end"`
}

type Error struct {
	Kind    Kind
	Reason  string
	Input   string
	With    []Occupant
	Pending []uint
	From    string
	To      string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Input != "" {
		fmt.Fprintf(&b, " (%q)", e.Input)
	}
	if e.From != "" || e.To != "" {
		fmt.Fprintf(&b, " %s -> %s", e.From, e.To)
	}
	for _, o := range e.With {
		fmt.Fprintf(&b, " [%s #%d %d-%d]", o.Type, o.ID, o.Start, o.End)
	}
	if len(e.Pending) > 0 {
		fmt.Fprintf(&b, " pending=%v", e.Pending)
	}
	return b.String()
}

// Is matches another *Error with the same kind, and the same reason when
// the target carries one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Reason == "" || t.Reason == e.Reason)
}

func Format(reason, input string) error {
	return &Error{Kind: KindFormat, Reason: reason, Input: input}
}

func InvalidRange(reason string, with ...Occupant) error {
	return &Error{Kind: KindInvalidRange, Reason: reason, With: with}
}

func Conflict(reason string, with ...Occupant) error {
	return &Error{Kind: KindConflict, Reason: reason, With: with}
}

func InvalidTransition(from, to string) error {
	return &Error{Kind: KindInvalidTransition, From: from, To: to}
}

func Incomplete(reason string, pending []uint) error {
	return &Error{Kind: KindReconciliationIncomplete, Reason: reason, Pending: pending}
}

// As extracts the engine error from err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

func HasReason(err error, reason string) bool {
	e, ok := As(err)
	return ok && e.Reason == reason
}
