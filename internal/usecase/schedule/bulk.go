package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
)

// MaxBulkDays caps a bulk range at roughly one year.
const MaxBulkDays = 366

type BulkWorkingDaysInput struct {
	ProviderID uint
	From       string
	To         string
	// Weekdays selects the days of the week; empty means every day.
	Weekdays     []time.Weekday
	StartTime    string
	EndTime      string
	SlotInterval int
	// SkipExisting leaves dates that already have a working day alone
	// instead of failing the whole batch.
	SkipExisting bool
}

type BulkResult struct {
	Created []domain.WorkingDay `json:"created"`
	Skipped []string            `json:"skipped"`
}

// BulkCreateWorkingDays opens the same hours on every selected weekday of
// a date range. The batch is all-or-nothing.
type BulkCreateWorkingDays struct {
	repo  domain.Repository
	cache cache.SlotCache
}

func NewBulkCreateWorkingDays(repo domain.Repository, slotCache cache.SlotCache) *BulkCreateWorkingDays {
	return &BulkCreateWorkingDays{repo: repo, cache: slotCache}
}

func (uc *BulkCreateWorkingDays) Execute(ctx context.Context, in BulkWorkingDaysInput) (*BulkResult, error) {
	first, last, err := dateRange(in.From, in.To)
	if err != nil {
		return nil, err
	}
	if int(last.Sub(first).Hours()/24)+1 > MaxBulkDays {
		return nil, schederr.InvalidRange(schederr.ReasonRangeTooLong)
	}

	start, end, err := hours(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	provider, err := uc.repo.GetProviderByID(ctx, in.ProviderID)
	if err != nil {
		return nil, orBusiness(err, "provider_not_found")
	}
	interval := slotInterval(in.SlotInterval, provider.DefaultSlotInterval)

	selected := make(map[time.Weekday]bool, len(in.Weekdays))
	for _, wd := range in.Weekdays {
		selected[wd] = true
	}

	result := &BulkResult{Created: []domain.WorkingDay{}, Skipped: []string{}}
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		existing, err := tx.ListWorkingDays(ctx, provider.ID, first, last.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		taken := make(map[string]bool, len(existing))
		for _, d := range existing {
			taken[clocktime.FormatDate(d.Date)] = true
		}

		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			if len(selected) > 0 && !selected[d.Weekday()] {
				continue
			}
			key := clocktime.FormatDate(d)
			if taken[key] && in.SkipExisting {
				result.Skipped = append(result.Skipped, key)
				continue
			}

			day := domain.WorkingDay{
				ProviderID:   provider.ID,
				Date:         d,
				Start:        start,
				End:          end,
				SlotInterval: interval,
			}
			if err := validateDay(ctx, tx, day); err != nil {
				return err
			}
			if err := tx.CreateWorkingDay(ctx, &day); err != nil {
				return err
			}
			result.Created = append(result.Created, day)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(result.Created))
	for _, d := range result.Created {
		dates = append(dates, d.Date)
	}
	invalidate(ctx, uc.cache, provider.ID, dates...)

	return result, nil
}

func dateRange(from, to string) (time.Time, time.Time, error) {
	first, err := clocktime.ParseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	last, err := clocktime.ParseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if last.Before(first) {
		return time.Time{}, time.Time{}, schederr.InvalidRange(schederr.ReasonStartNotBeforeEnd)
	}
	return first, last, nil
}
