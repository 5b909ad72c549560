// Package schedule is the availability engine: slot generation, conflict
// validation and time-shifts of appointments. It works on plain values
// fetched by the caller and never performs I/O.
package schedule

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
)

const DefaultSlotInterval = 30

// WorkingDay is one calendar date on which a provider takes bookings.
type WorkingDay struct {
	ID           uint              `json:"id"`
	ProviderID   uint              `json:"provider_id"`
	Date         time.Time         `json:"date"`
	Start        clocktime.Minutes `json:"start"`
	End          clocktime.Minutes `json:"end"`
	SlotInterval int               `json:"slot_interval"`
}

type Break struct {
	ID           uint              `json:"id"`
	WorkingDayID uint              `json:"working_day_id"`
	Start        clocktime.Minutes `json:"start"`
	End          clocktime.Minutes `json:"end"`
}

// TimeSlot is a candidate start. Duration is the length of the free gap
// the start sits in, so callers can fit services longer than one step.
type TimeSlot struct {
	Start     clocktime.Minutes `json:"start"`
	Duration  int               `json:"duration"`
	Available bool              `json:"available"`
}

// Placement is a candidate interval for an appointment. AppointmentID is
// set when the candidate moves an existing appointment, so it is not
// compared against itself.
type Placement struct {
	AppointmentID uint
	ProviderID    uint
	Date          time.Time
	Start         clocktime.Minutes
	End           clocktime.Minutes
}

func appointmentOccupant(ap appointment.Appointment) schederr.Occupant {
	return schederr.Occupant{
		Type:  schederr.OccupantAppointment,
		ID:    ap.ID,
		Date:  clocktime.DateOf(ap.Date),
		Start: int(ap.Start),
		End:   int(ap.End),
	}
}

func breakOccupant(b Break, date time.Time) schederr.Occupant {
	return schederr.Occupant{
		Type:  schederr.OccupantBreak,
		ID:    b.ID,
		Date:  clocktime.DateOf(date),
		Start: int(b.Start),
		End:   int(b.End),
	}
}

func dayOccupant(d WorkingDay) schederr.Occupant {
	return schederr.Occupant{
		Type:  schederr.OccupantWorkingDay,
		ID:    d.ID,
		Date:  clocktime.DateOf(d.Date),
		Start: int(d.Start),
		End:   int(d.End),
	}
}

// activeOn returns the active appointments of provider on date.
// A zero provider matches every provider.
func activeOn(appointments []appointment.Appointment, providerID uint, date time.Time) []appointment.Appointment {
	out := make([]appointment.Appointment, 0, len(appointments))
	for _, ap := range appointments {
		if !ap.IsActive() || !ap.OnDate(date) {
			continue
		}
		if providerID != 0 && ap.ProviderID != 0 && ap.ProviderID != providerID {
			continue
		}
		out = append(out, ap)
	}
	return out
}
