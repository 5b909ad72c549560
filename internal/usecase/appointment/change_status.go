package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type ChangeStatusInput struct {
	ProviderID    uint
	UserID        uint
	AppointmentID uint
	Status        string
	Reason        string
}

// ChangeStatus drives the appointment lifecycle: confirm, complete,
// cancel and no-show all go through the same transition table.
type ChangeStatus struct {
	repo  domain.Repository
	cache cache.SlotCache
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewChangeStatus(
	repo domain.Repository,
	slotCache cache.SlotCache,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *ChangeStatus {
	return &ChangeStatus{
		repo:  repo,
		cache: slotCache,
		audit: audit,
		clock: clock,
	}
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	in ChangeStatusInput,
) (*appointment.Appointment, error) {

	to, err := appointment.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	var (
		ap   *appointment.Appointment
		from appointment.Status
		now  = uc.clock.Now().UTC()
	)

	// The transition is checked against the row as locked, never against
	// a copy another request may already have moved on.
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointment(ctx, in.ProviderID, in.AppointmentID)
		if err != nil {
			return orBusiness(err, "appointment_not_found")
		}

		from = ap.Status
		if err := appointment.Apply(ap, to, now, in.Reason); err != nil {
			return err
		}
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	// Leaving an active status frees the interval.
	if appointment.IsActive(from) != appointment.IsActive(to) {
		invalidate(ctx, uc.cache, ap.ProviderID, ap.Date)
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: ap.ProviderID,
		UserID:     &in.UserID,
		Action:     audit.ActionAppointmentStatus,
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata: audit.StatusChange{
			From:   string(from),
			To:     string(to),
			Reason: in.Reason,
			At:     now.Format(time.RFC3339),
		},
	})

	return ap, nil
}
