package appointment

import (
	"context"
	"strings"

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

type CreatePrivateAppointmentInput struct {
	ProviderID uint
	UserID     uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	ServiceID uint

	Date string
	Time string
	// EndTime overrides the service duration when set.
	EndTime string
	Notes   string
}

// ======================================================
// USE CASE
// ======================================================

// CreatePrivateAppointment is the owner's quick booking. Owners may book
// outside working hours and without notice; only overlap with another
// active appointment is refused. The appointment starts confirmed.
type CreatePrivateAppointment struct {
	repo  domain.Repository
	cache cache.SlotCache
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewCreatePrivateAppointment(
	repo domain.Repository,
	slotCache cache.SlotCache,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *CreatePrivateAppointment {
	return &CreatePrivateAppointment{
		repo:  repo,
		cache: slotCache,
		audit: audit,
		clock: clock,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreatePrivateAppointment) Execute(
	ctx context.Context,
	in CreatePrivateAppointmentInput,
) (*appointment.Appointment, error) {

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
	if in.EndTime != "" {
		if end, err = clocktime.Parse(in.EndTime); err != nil {
			return nil, err
		}
	}
	if end > clocktime.EndOfDay {
		return nil, schederr.InvalidRange(schederr.ReasonEndsAfterMidnight)
	}

	now := timezone.NowIn(uc.clock, provider.Timezone)
	ap := &appointment.Appointment{
		ProviderID:  provider.ID,
		ServiceID:   service.ID,
		Date:        date,
		Start:       start,
		End:         end,
		Duration:    int(end - start),
		Status:      appointment.StatusConfirmed,
		Price:       service.Price,
		Currency:    provider.Currency,
		ClientName:  strings.TrimSpace(in.ClientName),
		ClientPhone: strings.TrimSpace(in.ClientPhone),
		ClientEmail: strings.ToLower(strings.TrimSpace(in.ClientEmail)),
		Notes:       in.Notes,
		ConfirmedAt: &now,
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
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

	uc.audit.Dispatch(audit.Event{
		ProviderID: provider.ID,
		UserID:     &in.UserID,
		Action:     audit.ActionAppointmentCreated,
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata: map[string]any{
			"source": "owner",
			"date":   clocktime.FormatDate(date),
			"start":  start.String(),
		},
	})

	return ap, nil
}
