// Package dayoff stages per-appointment decisions for a working day the
// owner wants to remove, and resolves them into one change set once every
// affected appointment has been decided.
package dayoff

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
)

type Action string

const (
	ActionReschedule Action = "reschedule"
	ActionCancel     Action = "cancel"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionReschedule, ActionCancel:
		return a, nil
	}
	return "", schederr.Format(schederr.ReasonUnknownDecision, s)
}

// Decision is what happens to one affected appointment. Date, Start and
// End are only meaningful for a reschedule, Reason only for a cancel.
type Decision struct {
	AppointmentID uint              `json:"appointment_id"`
	Action        Action            `json:"action"`
	Date          time.Time         `json:"date,omitempty"`
	Start         clocktime.Minutes `json:"start,omitempty"`
	End           clocktime.Minutes `json:"end,omitempty"`
	Reason        string            `json:"reason,omitempty"`
}

type Plan struct {
	ID           string                    `json:"id"`
	ProviderID   uint                      `json:"provider_id"`
	WorkingDayID uint                      `json:"working_day_id"`
	Date         time.Time                 `json:"date"`
	Affected     []appointment.Appointment `json:"affected"`
	Decisions    map[uint]Decision         `json:"decisions"`
	CreatedAt    time.Time                 `json:"created_at"`
}

// NewPlan captures the active appointments of day from appointments.
func NewPlan(id string, day schedule.WorkingDay, appointments []appointment.Appointment, now time.Time) *Plan {
	p := &Plan{
		ID:           id,
		ProviderID:   day.ProviderID,
		WorkingDayID: day.ID,
		Date:         clocktime.DateOf(day.Date),
		Affected:     make([]appointment.Appointment, 0),
		Decisions:    make(map[uint]Decision),
		CreatedAt:    now,
	}

	for _, ap := range appointments {
		if !ap.IsActive() || !ap.OnDate(p.Date) {
			continue
		}
		if ap.ProviderID != 0 && ap.ProviderID != p.ProviderID {
			continue
		}
		p.Affected = append(p.Affected, ap)
	}
	sort.Slice(p.Affected, func(i, j int) bool {
		return p.Affected[i].Start < p.Affected[j].Start
	})
	return p
}

func (p *Plan) affected(id uint) (appointment.Appointment, bool) {
	for _, ap := range p.Affected {
		if ap.ID == id {
			return ap, true
		}
	}
	return appointment.Appointment{}, false
}

func (p *Plan) isAffected(id uint) bool {
	_, ok := p.affected(id)
	return ok
}

// Stage validates d and records it, replacing any earlier decision for
// the same appointment. committed holds the active appointments already
// stored on the target date; appointments of this plan among them are
// ignored because they are leaving the day.
func (p *Plan) Stage(d Decision, committed []appointment.Appointment) error {
	ap, ok := p.affected(d.AppointmentID)
	if !ok {
		return schederr.InvalidRange(schederr.ReasonNotInPlan)
	}

	switch d.Action {
	case ActionCancel:
		if !appointment.CanTransition(ap.Status, appointment.StatusCancelled) {
			return schederr.InvalidTransition(string(ap.Status), string(appointment.StatusCancelled))
		}
		d.Date, d.Start, d.End = time.Time{}, 0, 0

	case ActionReschedule:
		d.Date = clocktime.DateOf(d.Date)
		if clocktime.SameDate(d.Date, p.Date) {
			return schederr.InvalidRange(schederr.ReasonTargetIsDayOff)
		}
		occupied := append(p.remaining(committed), p.staged(d.AppointmentID)...)
		if _, err := schedule.Reschedule(ap, placementOf(d), occupied); err != nil {
			return err
		}
		d.Reason = ""

	default:
		return schederr.Format(schederr.ReasonUnknownDecision, string(d.Action))
	}

	if p.Decisions == nil {
		p.Decisions = make(map[uint]Decision)
	}
	p.Decisions[d.AppointmentID] = d
	return nil
}

func (p *Plan) Unstage(appointmentID uint) error {
	if !p.isAffected(appointmentID) {
		return schederr.InvalidRange(schederr.ReasonNotInPlan)
	}
	delete(p.Decisions, appointmentID)
	return nil
}

// Missing lists affected appointments without a decision, in start order.
func (p *Plan) Missing() []uint {
	missing := make([]uint, 0)
	for _, ap := range p.Affected {
		if _, ok := p.Decisions[ap.ID]; !ok {
			missing = append(missing, ap.ID)
		}
	}
	return missing
}

// TargetDates are the distinct dates reschedules point at, sorted.
func (p *Plan) TargetDates() []time.Time {
	seen := make(map[time.Time]bool)
	dates := make([]time.Time, 0)
	for _, d := range p.Decisions {
		if d.Action != ActionReschedule || seen[d.Date] {
			continue
		}
		seen[d.Date] = true
		dates = append(dates, d.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Resolve turns the staged decisions into the appointments to store.
// current is a fresh snapshot of the active appointments on the plan's
// date and on every target date. Affected appointments that have since
// left the day are skipped; any other appointment that appeared on the
// day refuses the commit, as does a missing decision. Every reschedule is
// checked again against the snapshot.
func (p *Plan) Resolve(current []appointment.Appointment, now time.Time) ([]appointment.Appointment, error) {
	fresh := make(map[uint]appointment.Appointment, len(current))
	var intruders []uint
	for _, ap := range current {
		fresh[ap.ID] = ap
		if ap.IsActive() && ap.OnDate(p.Date) && !p.isAffected(ap.ID) && p.sameProvider(ap) {
			intruders = append(intruders, ap.ID)
		}
	}

	var (
		pending []uint
		todo    []appointment.Appointment
	)
	for _, ap := range p.Affected {
		cur, ok := fresh[ap.ID]
		if !ok || !cur.IsActive() || !cur.OnDate(p.Date) {
			continue
		}
		if _, decided := p.Decisions[ap.ID]; !decided {
			pending = append(pending, ap.ID)
			continue
		}
		todo = append(todo, cur)
	}

	if len(pending) > 0 {
		return nil, schederr.Incomplete(schederr.ReasonMissingDecisions, pending)
	}
	if len(intruders) > 0 {
		return nil, schederr.Incomplete(schederr.ReasonNewAppointments, intruders)
	}

	occupied := p.remaining(current)
	changes := make([]appointment.Appointment, 0, len(todo))
	for _, ap := range todo {
		d := p.Decisions[ap.ID]

		switch d.Action {
		case ActionReschedule:
			moved, err := schedule.Reschedule(ap, placementOf(d), occupied)
			if err != nil {
				return nil, err
			}
			occupied = append(occupied, moved)
			changes = append(changes, moved)

		case ActionCancel:
			if err := appointment.Cancel(&ap, now, d.Reason); err != nil {
				return nil, err
			}
			changes = append(changes, ap)
		}
	}

	return changes, nil
}

// remaining drops the plan's own appointments from appointments.
func (p *Plan) remaining(appointments []appointment.Appointment) []appointment.Appointment {
	out := make([]appointment.Appointment, 0, len(appointments))
	for _, ap := range appointments {
		if !p.isAffected(ap.ID) {
			out = append(out, ap)
		}
	}
	return out
}

// staged returns the other staged reschedules as the appointments they
// will become.
func (p *Plan) staged(except uint) []appointment.Appointment {
	out := make([]appointment.Appointment, 0, len(p.Decisions))
	for id, d := range p.Decisions {
		if id == except || d.Action != ActionReschedule {
			continue
		}
		ap, ok := p.affected(id)
		if !ok {
			continue
		}
		ap.Date, ap.Start, ap.End = d.Date, d.Start, d.End
		out = append(out, ap)
	}
	return out
}

func (p *Plan) sameProvider(ap appointment.Appointment) bool {
	return ap.ProviderID == 0 || p.ProviderID == 0 || ap.ProviderID == p.ProviderID
}

func placementOf(d Decision) schedule.Placement {
	return schedule.Placement{
		AppointmentID: d.AppointmentID,
		Date:          d.Date,
		Start:         d.Start,
		End:           d.End,
	}
}
