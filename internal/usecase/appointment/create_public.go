package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreatePublicAppointmentInput struct {
	ProviderID uint
	ServiceID  uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// CreatePublicAppointment is the client booking flow: the start must be
// a bookable slot (working hours, breaks, notice) and must not collide
// with another active appointment.
type CreatePublicAppointment struct {
	repo  domain.Repository
	cache cache.SlotCache
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewCreatePublicAppointment(
	repo domain.Repository,
	slotCache cache.SlotCache,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *CreatePublicAppointment {
	return &CreatePublicAppointment{
		repo:  repo,
		cache: slotCache,
		audit: audit,
		clock: clock,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreatePublicAppointment) Execute(
	ctx context.Context,
	in CreatePublicAppointmentInput,
) (*appointment.Appointment, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	date, err := clocktime.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	start, err := clocktime.Parse(in.Time)
	if err != nil {
		return nil, err
	}

	provider, err := loadProvider(ctx, uc.repo, in.ProviderID)
	if err != nil {
		return nil, err
	}
	service, err := loadService(ctx, uc.repo, provider.ID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	end := clocktime.AddMinutes(start, service.DurationMin)
	if end > clocktime.EndOfDay {
		return nil, schederr.InvalidRange(schederr.ReasonEndsAfterMidnight)
	}

	// --------------------------------------------------
	// 2. Notice, in the provider's timezone
	// --------------------------------------------------
	loc := timezone.Location(provider.Timezone)
	now := uc.clock.Now().In(loc)
	at := clocktime.At(date, start, loc)

	if at.Before(now) {
		return nil, schederr.InvalidRange(schederr.ReasonInPast)
	}
	if at.Before(now.Add(time.Duration(provider.MinNoticeHours) * time.Hour)) {
		return nil, schederr.InvalidRange(schederr.ReasonTooSoon)
	}

	// --------------------------------------------------
	// 3. Check and insert under lock
	// --------------------------------------------------
	ap := &appointment.Appointment{
		ProviderID:  provider.ID,
		ServiceID:   service.ID,
		Date:        date,
		Start:       start,
		End:         end,
		Duration:    service.DurationMin,
		Status:      appointment.InitialStatus(provider.RequiresConfirmation),
		Price:       service.Price,
		Currency:    provider.Currency,
		ClientName:  strings.TrimSpace(in.ClientName),
		ClientPhone: strings.TrimSpace(in.ClientPhone),
		ClientEmail: strings.ToLower(strings.TrimSpace(in.ClientEmail)),
		Notes:       in.Notes,
	}
	if ap.Status == appointment.StatusConfirmed {
		ap.ConfirmedAt = &now
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		day, breaks, err := workingDayOrNil(ctx, tx, provider.ID, date)
		if err != nil {
			return err
		}
		if err := domain.CheckWithinWorkingHours(day, breaks, start, end); err != nil {
			return err
		}
		// Clients book what availability offers; the owner quick book
		// is free to pick any minute.
		if err := domain.CheckOnSlotGrid(*day, start); err != nil {
			return err
		}

		active, err := tx.ListActiveAppointments(ctx, provider.ID, date)
		if err != nil {
			return err
		}
		if err := domain.CheckPlacement(domain.Placement{
			ProviderID: provider.ID,
			Date:       date,
			Start:      start,
			End:        end,
		}, active); err != nil {
			return err
		}

		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache, provider.ID, date)

	// --------------------------------------------------
	// 4. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ProviderID: provider.ID,
		Action:     audit.ActionAppointmentCreated,
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata: map[string]any{
			"source": "public",
			"date":   clocktime.FormatDate(date),
			"start":  start.String(),
		},
	})

	return ap, nil
}
