package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type StartEarlyInput struct {
	ProviderID    uint
	UserID        uint
	AppointmentID uint
}

// StartEarly moves a confirmed appointment to begin right now, in the
// provider's timezone.
type StartEarly struct {
	repo  domain.Repository
	cache cache.SlotCache
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewStartEarly(
	repo domain.Repository,
	slotCache cache.SlotCache,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *StartEarly {
	return &StartEarly{
		repo:  repo,
		cache: slotCache,
		audit: audit,
		clock: clock,
	}
}

func (uc *StartEarly) Execute(
	ctx context.Context,
	in StartEarlyInput,
) (*appointment.Appointment, error) {

	provider, err := loadProvider(ctx, uc.repo, in.ProviderID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(provider.Timezone)
	today := clocktime.DateOf(uc.clock.Now().In(loc))

	var (
		moved    appointment.Appointment
		original appointment.Appointment
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ap, err := tx.GetAppointment(ctx, provider.ID, in.AppointmentID)
		if err != nil {
			return orBusiness(err, "appointment_not_found")
		}
		original = *ap

		others, err := tx.ListActiveAppointments(ctx, provider.ID, today)
		if err != nil {
			return err
		}

		moved, err = domain.StartEarly(*ap, others, uc.clock, loc)
		if err != nil {
			return err
		}

		return tx.UpdateAppointment(ctx, &moved)
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache, provider.ID, original.Date, moved.Date)

	uc.audit.Dispatch(audit.Event{
		ProviderID: provider.ID,
		UserID:     &in.UserID,
		Action:     audit.ActionAppointmentStartEarly,
		Entity:     "appointment",
		EntityID:   &moved.ID,
		Metadata: map[string]any{
			"from_date":  clocktime.FormatDate(original.Date),
			"from_start": original.Start.String(),
			"to_start":   moved.Start.String(),
		},
	})

	return &moved, nil
}
