package schedule

import (
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// Reschedule returns ap moved to target. The status is unchanged.
func Reschedule(
	ap appointment.Appointment,
	target Placement,
	others []appointment.Appointment,
) (appointment.Appointment, error) {

	if err := appointment.CanReschedule(ap.Status); err != nil {
		return ap, err
	}

	target.AppointmentID = ap.ID
	target.ProviderID = ap.ProviderID
	target.Date = clocktime.DateOf(target.Date)

	if err := CheckPlacement(target, others); err != nil {
		return ap, err
	}

	ap.Date = target.Date
	ap.Start = target.Start
	ap.End = target.End
	ap.Duration = int(target.End - target.Start)
	return ap, nil
}

// StartEarly moves a confirmed appointment to begin now, keeping its
// duration. now is read from clock in the provider's location.
func StartEarly(
	ap appointment.Appointment,
	others []appointment.Appointment,
	clock timezone.Clock,
	loc *time.Location,
) (appointment.Appointment, error) {

	if err := appointment.CanStartEarly(ap.Status); err != nil {
		return ap, err
	}

	duration := ap.Duration
	if duration <= 0 {
		duration = int(ap.End - ap.Start)
	}

	now := clock.Now().In(loc)
	start := clocktime.OfDay(now)
	end := clocktime.AddMinutes(start, duration)
	if end > clocktime.EndOfDay {
		return ap, schederr.InvalidRange(schederr.ReasonEndsAfterMidnight)
	}

	placement := Placement{
		AppointmentID: ap.ID,
		ProviderID:    ap.ProviderID,
		Date:          clocktime.DateOf(now),
		Start:         start,
		End:           end,
	}
	if err := CheckPlacement(placement, others); err != nil {
		return ap, err
	}

	ap.Date = placement.Date
	ap.Start = start
	ap.End = end
	ap.Duration = duration
	return ap, nil
}
