package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
)

type RescheduleInput struct {
	ProviderID    uint
	UserID        uint
	AppointmentID uint

	Date string
	Time string
	// EndTime defaults to Time plus the current duration.
	EndTime string
}

type Reschedule struct {
	repo  domain.Repository
	cache cache.SlotCache
	audit *audit.Dispatcher
}

func NewReschedule(
	repo domain.Repository,
	slotCache cache.SlotCache,
	audit *audit.Dispatcher,
) *Reschedule {
	return &Reschedule{
		repo:  repo,
		cache: slotCache,
		audit: audit,
	}
}

func (uc *Reschedule) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*appointment.Appointment, error) {

	date, err := clocktime.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	start, err := clocktime.Parse(in.Time)
	if err != nil {
		return nil, err
	}

	var (
		moved   appointment.Appointment
		oldDate = date
		oldFrom clocktime.Minutes
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ap, err := tx.GetAppointment(ctx, in.ProviderID, in.AppointmentID)
		if err != nil {
			return orBusiness(err, "appointment_not_found")
		}
		oldDate, oldFrom = ap.Date, ap.Start

		duration := ap.Duration
		if duration <= 0 {
			duration = int(ap.End - ap.Start)
		}
		end := clocktime.AddMinutes(start, duration)
		if in.EndTime != "" {
			if end, err = clocktime.Parse(in.EndTime); err != nil {
				return err
			}
		}
		if end > clocktime.EndOfDay {
			return schederr.InvalidRange(schederr.ReasonEndsAfterMidnight)
		}

		others, err := tx.ListActiveAppointments(ctx, in.ProviderID, date)
		if err != nil {
			return err
		}

		moved, err = domain.Reschedule(*ap, domain.Placement{
			Date:  date,
			Start: start,
			End:   end,
		}, others)
		if err != nil {
			return err
		}

		return tx.UpdateAppointment(ctx, &moved)
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache, in.ProviderID, oldDate, moved.Date)

	uc.audit.Dispatch(audit.Event{
		ProviderID: in.ProviderID,
		UserID:     &in.UserID,
		Action:     audit.ActionAppointmentRescheduled,
		Entity:     "appointment",
		EntityID:   &moved.ID,
		Metadata: map[string]any{
			"from_date":  clocktime.FormatDate(oldDate),
			"from_start": oldFrom.String(),
			"to_date":    clocktime.FormatDate(moved.Date),
			"to_start":   moved.Start.String(),
		},
	})

	return &moved, nil
}
