package schedule

import (
	"context"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
)

// ======================================================
// CREATE
// ======================================================

type WorkingDayInput struct {
	ProviderID   uint
	Date         string
	StartTime    string
	EndTime      string
	SlotInterval int
}

type CreateWorkingDay struct {
	repo  domain.Repository
	cache cache.SlotCache
}

func NewCreateWorkingDay(repo domain.Repository, slotCache cache.SlotCache) *CreateWorkingDay {
	return &CreateWorkingDay{repo: repo, cache: slotCache}
}

func (uc *CreateWorkingDay) Execute(ctx context.Context, in WorkingDayInput) (*domain.WorkingDay, error) {
	date, err := clocktime.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	start, end, err := hours(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	provider, err := uc.repo.GetProviderByID(ctx, in.ProviderID)
	if err != nil {
		return nil, orBusiness(err, "provider_not_found")
	}

	day := &domain.WorkingDay{
		ProviderID:   provider.ID,
		Date:         date,
		Start:        start,
		End:          end,
		SlotInterval: slotInterval(in.SlotInterval, provider.DefaultSlotInterval),
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := validateDay(ctx, tx, *day); err != nil {
			return err
		}
		return tx.CreateWorkingDay(ctx, day)
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache, provider.ID, date)
	return day, nil
}

// ======================================================
// UPDATE
// ======================================================

type UpdateWorkingDayInput struct {
	ProviderID   uint
	WorkingDayID uint
	StartTime    string
	EndTime      string
	SlotInterval int
}

// UpdateWorkingDay changes the hours of a day. The date itself is fixed:
// moving a day is a delete plus a create.
type UpdateWorkingDay struct {
	repo  domain.Repository
	cache cache.SlotCache
}

func NewUpdateWorkingDay(repo domain.Repository, slotCache cache.SlotCache) *UpdateWorkingDay {
	return &UpdateWorkingDay{repo: repo, cache: slotCache}
}

func (uc *UpdateWorkingDay) Execute(ctx context.Context, in UpdateWorkingDayInput) (*domain.WorkingDay, error) {
	start, end, err := hours(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	var day *domain.WorkingDay
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		current, err := tx.GetWorkingDayByID(ctx, in.ProviderID, in.WorkingDayID)
		if err != nil {
			return orBusiness(err, "working_day_not_found")
		}

		candidate := *current
		candidate.Start = start
		candidate.End = end
		if in.SlotInterval > 0 {
			candidate.SlotInterval = in.SlotInterval
		}

		if err := validateDay(ctx, tx, candidate); err != nil {
			return err
		}
		if err := tx.UpdateWorkingDay(ctx, &candidate); err != nil {
			return err
		}
		day = &candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache, day.ProviderID, day.Date)
	return day, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteWorkingDayInput struct {
	ProviderID   uint
	UserID       uint
	WorkingDayID uint
}

// DeleteWorkingDay removes a day together with its breaks. A day that
// still has active appointments must be cleared through a day-off plan.
type DeleteWorkingDay struct {
	repo  domain.Repository
	cache cache.SlotCache
	audit *audit.Dispatcher
}

func NewDeleteWorkingDay(repo domain.Repository, slotCache cache.SlotCache, audit *audit.Dispatcher) *DeleteWorkingDay {
	return &DeleteWorkingDay{repo: repo, cache: slotCache, audit: audit}
}

func (uc *DeleteWorkingDay) Execute(ctx context.Context, in DeleteWorkingDayInput) (domain.DeletionReport, error) {
	var (
		report domain.DeletionReport
		day    *domain.WorkingDay
	)

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		day, err = tx.GetWorkingDayByID(ctx, in.ProviderID, in.WorkingDayID)
		if err != nil {
			return orBusiness(err, "working_day_not_found")
		}

		breaks, err := tx.ListBreaks(ctx, day.ID)
		if err != nil {
			return err
		}
		appointments, err := tx.ListActiveAppointments(ctx, day.ProviderID, day.Date)
		if err != nil {
			return err
		}

		report, err = domain.ValidateWorkingDayDeletion(*day, breaks, appointments)
		if err != nil {
			return err
		}

		if len(report.Breaks) > 0 {
			if err := tx.DeleteBreaksForDay(ctx, day.ID); err != nil {
				return err
			}
		}
		return tx.DeleteWorkingDay(ctx, day.ID)
	})
	if err != nil {
		return report, err
	}

	invalidate(ctx, uc.cache, day.ProviderID, day.Date)

	uc.audit.Dispatch(audit.Event{
		ProviderID: day.ProviderID,
		UserID:     &in.UserID,
		Action:     audit.ActionWorkingDayDeleted,
		Entity:     "working_day",
		EntityID:   &day.ID,
		Metadata: map[string]any{
			"date":           clocktime.FormatDate(day.Date),
			"breaks_removed": len(report.Breaks),
		},
	})

	return report, nil
}

// ======================================================
// LIST
// ======================================================

type WorkingDayWithBreaks struct {
	Day    domain.WorkingDay
	Breaks []domain.Break
}

type ListWorkingDays struct {
	repo domain.Repository
}

func NewListWorkingDays(repo domain.Repository) *ListWorkingDays {
	return &ListWorkingDays{repo: repo}
}

// Execute lists the days in [from, to], both inclusive.
func (uc *ListWorkingDays) Execute(ctx context.Context, providerID uint, from, to string) ([]WorkingDayWithBreaks, error) {
	first, last, err := dateRange(from, to)
	if err != nil {
		return nil, err
	}

	days, err := uc.repo.ListWorkingDays(ctx, providerID, first, last.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	out := make([]WorkingDayWithBreaks, 0, len(days))
	for _, d := range days {
		breaks, err := uc.repo.ListBreaks(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, WorkingDayWithBreaks{Day: d, Breaks: breaks})
	}
	return out, nil
}
