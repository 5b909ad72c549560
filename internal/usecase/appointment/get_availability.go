package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

type AvailabilityInput struct {
	ProviderID uint
	ServiceID  uint
	Date       string
}

type GetAvailability struct {
	repo  domain.Repository
	cache cache.SlotCache
	clock timezone.Clock
}

func NewGetAvailability(
	repo domain.Repository,
	slotCache cache.SlotCache,
	clock timezone.Clock,
) *GetAvailability {
	return &GetAvailability{
		repo:  repo,
		cache: slotCache,
		clock: clock,
	}
}

// noticeBucket bounds how long a cached result may ignore the moving
// notice cutoff.
const noticeBucket = 5 * time.Minute

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]domain.TimeSlot, error) {

	date, err := clocktime.ParseDate(in.Date)
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

	now := uc.clock.Now()
	variant := fmt.Sprintf("s%d:d%d:n%d:c%d",
		service.ID,
		service.DurationMin,
		provider.MinNoticeHours,
		now.Truncate(noticeBucket).Unix(),
	)
	// The version is read before the repository so an invalidation that
	// lands while we generate keeps the result out of the cache.
	version := int64(-1)
	if uc.cache != nil {
		slots, v, ok := uc.cache.Get(ctx, provider.ID, date, variant)
		if ok {
			return slots, nil
		}
		version = v
	}

	day, breaks, err := workingDayOrNil(ctx, uc.repo, provider.ID, date)
	if err != nil {
		return nil, err
	}

	var slots []domain.TimeSlot
	if day == nil {
		slots = domain.GenerateSlots(domain.SlotRequest{})
	} else {
		appointments, err := uc.repo.ListActiveAppointments(ctx, provider.ID, date)
		if err != nil {
			return nil, err
		}

		slots = domain.GenerateSlots(domain.SlotRequest{
			Day:             day,
			Breaks:          breaks,
			Appointments:    appointments,
			ServiceDuration: service.DurationMin,
			MinNoticeHours:  provider.MinNoticeHours,
			Location:        timezone.Location(provider.Timezone),
			Clock:           uc.clock,
		})
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, provider.ID, date, version, variant, slots)
	}
	return slots, nil
}
