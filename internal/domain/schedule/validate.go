package schedule

import (
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
)

// ValidateWorkingDay checks a new or edited working day. siblings are the
// provider's other working days (the candidate itself may be among them),
// breaks and appointments are what currently hangs off that date.
// Shrinking the hours never strands an active appointment or a break.
func ValidateWorkingDay(
	candidate WorkingDay,
	siblings []WorkingDay,
	breaks []Break,
	appointments []appointment.Appointment,
) error {

	if err := validateBounds(candidate.Start, candidate.End); err != nil {
		return err
	}
	if candidate.SlotInterval <= 0 {
		return schederr.InvalidRange(schederr.ReasonInvalidInterval)
	}

	for _, other := range siblings {
		if candidate.ID != 0 && other.ID == candidate.ID {
			continue
		}
		if other.ProviderID == candidate.ProviderID && clocktime.SameDate(other.Date, candidate.Date) {
			return schederr.Conflict(schederr.ReasonWorkingDayExists, dayOccupant(other))
		}
	}

	if candidate.ID != 0 {
		for _, b := range breaks {
			if b.WorkingDayID != candidate.ID {
				continue
			}
			if b.Start < candidate.Start || b.End > candidate.End {
				return schederr.InvalidRange(schederr.ReasonBreakOutsideHours, breakOccupant(b, candidate.Date))
			}
		}
	}

	var stranded []schederr.Occupant
	for _, ap := range activeOn(appointments, candidate.ProviderID, candidate.Date) {
		if ap.Start < candidate.Start || ap.End > candidate.End {
			stranded = append(stranded, appointmentOccupant(ap))
		}
	}
	if len(stranded) > 0 {
		return schederr.Conflict(schederr.ReasonAppointmentOutsideHours, stranded...)
	}

	return nil
}

// DeletionReport lists what has to go together with a working day.
type DeletionReport struct {
	Breaks []Break
}

// ValidateWorkingDayDeletion refuses while active appointments remain on
// the date; those must go through the day-off reconciler first. The
// report names the breaks the caller deletes along with the day.
func ValidateWorkingDayDeletion(
	day WorkingDay,
	breaks []Break,
	appointments []appointment.Appointment,
) (DeletionReport, error) {

	var report DeletionReport
	for _, b := range breaks {
		if b.WorkingDayID == day.ID {
			report.Breaks = append(report.Breaks, b)
		}
	}

	active := activeOn(appointments, day.ProviderID, day.Date)
	if len(active) > 0 {
		occupants := make([]schederr.Occupant, 0, len(active))
		for _, ap := range active {
			occupants = append(occupants, appointmentOccupant(ap))
		}
		return report, schederr.Conflict(schederr.ReasonActiveAppointments, occupants...)
	}

	return report, nil
}

// ValidateBreak checks containment in the day and overlap with the other
// breaks of that day. candidate.ID excludes the break being edited.
func ValidateBreak(day WorkingDay, candidate Break, siblings []Break) error {
	if err := validateBounds(candidate.Start, candidate.End); err != nil {
		return err
	}

	if candidate.Start < day.Start || candidate.End > day.End {
		return schederr.InvalidRange(schederr.ReasonBreakOutsideHours, dayOccupant(day))
	}

	for _, other := range siblings {
		if candidate.ID != 0 && other.ID == candidate.ID {
			continue
		}
		if other.WorkingDayID != 0 && other.WorkingDayID != day.ID {
			continue
		}
		if clocktime.Overlaps(candidate.Start, candidate.End, other.Start, other.End) {
			return schederr.Conflict(schederr.ReasonBreakOverlap, breakOccupant(other, day.Date))
		}
	}

	return nil
}

// CheckPlacement verifies a candidate interval does not overlap another
// active appointment of the same provider on the same date. It does not
// look at working hours: owners may place bookings anywhere.
func CheckPlacement(p Placement, appointments []appointment.Appointment) error {
	if err := validateBounds(p.Start, p.End); err != nil {
		return err
	}

	for _, ap := range activeOn(appointments, p.ProviderID, p.Date) {
		if p.AppointmentID != 0 && ap.ID == p.AppointmentID {
			continue
		}
		if clocktime.Overlaps(p.Start, p.End, ap.Start, ap.End) {
			return schederr.Conflict(schederr.ReasonAppointmentOverlap, appointmentOccupant(ap))
		}
	}

	return nil
}

// CheckWithinWorkingHours is the booking-flow guard: the interval must sit
// inside the day's hours and clear every break.
func CheckWithinWorkingHours(day *WorkingDay, breaks []Break, start, end clocktime.Minutes) error {
	if day == nil {
		return schederr.InvalidRange(schederr.ReasonDayOff)
	}
	if err := validateBounds(start, end); err != nil {
		return err
	}
	if start < day.Start || end > day.End {
		return schederr.InvalidRange(schederr.ReasonOutsideWorkingHours, dayOccupant(*day))
	}

	for _, b := range breaks {
		if b.WorkingDayID != 0 && day.ID != 0 && b.WorkingDayID != day.ID {
			continue
		}
		if clocktime.Overlaps(start, end, b.Start, b.End) {
			return schederr.Conflict(schederr.ReasonBreakOverlap, breakOccupant(b, day.Date))
		}
	}
	return nil
}

// CheckOnSlotGrid refuses a start the generator would never offer. Starts
// step from the opening time by the day's slot interval.
func CheckOnSlotGrid(day WorkingDay, start clocktime.Minutes) error {
	interval := day.SlotInterval
	if interval <= 0 {
		interval = DefaultSlotInterval
	}
	if start < day.Start || int(start-day.Start)%interval != 0 {
		return schederr.InvalidRange(schederr.ReasonOffSlotGrid, dayOccupant(day))
	}
	return nil
}

func validateBounds(start, end clocktime.Minutes) error {
	if start < 0 || end > clocktime.EndOfDay {
		return schederr.InvalidRange(schederr.ReasonEndsAfterMidnight)
	}
	if start >= end {
		return schederr.InvalidRange(schederr.ReasonStartNotBeforeEnd)
	}
	return nil
}
