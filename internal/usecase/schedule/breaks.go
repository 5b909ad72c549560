package schedule

import (
	"context"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
)

type BreakInput struct {
	ProviderID   uint
	WorkingDayID uint
	// BreakID is set on updates.
	BreakID   uint
	StartTime string
	EndTime   string
}

// ------------------------------------------------------
// Save (create or update)
// ------------------------------------------------------

// SaveBreak creates a break, or edits one when BreakID is set. Breaks
// must sit inside the day and must not overlap each other. Appointments
// are not checked: a break over a booking is the owner's call.
type SaveBreak struct {
	repo  domain.Repository
	cache cache.SlotCache
}

func NewSaveBreak(repo domain.Repository, slotCache cache.SlotCache) *SaveBreak {
	return &SaveBreak{repo: repo, cache: slotCache}
}

func (uc *SaveBreak) Execute(ctx context.Context, in BreakInput) (*domain.Break, error) {
	start, end, err := hours(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	b := &domain.Break{
		ID:           in.BreakID,
		WorkingDayID: in.WorkingDayID,
		Start:        start,
		End:          end,
	}

	var day *domain.WorkingDay
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		day, err = tx.GetWorkingDayByID(ctx, in.ProviderID, in.WorkingDayID)
		if err != nil {
			return orBusiness(err, "working_day_not_found")
		}

		siblings, err := tx.ListBreaks(ctx, day.ID)
		if err != nil {
			return err
		}
		if b.ID != 0 && !containsBreak(siblings, b.ID) {
			return orBusiness(domain.ErrNotFound, "break_not_found")
		}

		if err := domain.ValidateBreak(*day, *b, siblings); err != nil {
			return err
		}

		if b.ID != 0 {
			return tx.UpdateBreak(ctx, b)
		}
		return tx.CreateBreak(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache, day.ProviderID, day.Date)
	return b, nil
}

// ------------------------------------------------------
// Delete
// ------------------------------------------------------

type DeleteBreak struct {
	repo  domain.Repository
	cache cache.SlotCache
}

func NewDeleteBreak(repo domain.Repository, slotCache cache.SlotCache) *DeleteBreak {
	return &DeleteBreak{repo: repo, cache: slotCache}
}

func (uc *DeleteBreak) Execute(ctx context.Context, providerID, workingDayID, breakID uint) error {
	day, err := uc.repo.GetWorkingDayByID(ctx, providerID, workingDayID)
	if err != nil {
		return orBusiness(err, "working_day_not_found")
	}

	breaks, err := uc.repo.ListBreaks(ctx, day.ID)
	if err != nil {
		return err
	}
	if !containsBreak(breaks, breakID) {
		return orBusiness(domain.ErrNotFound, "break_not_found")
	}

	if err := uc.repo.DeleteBreak(ctx, breakID); err != nil {
		return err
	}

	invalidate(ctx, uc.cache, day.ProviderID, day.Date)
	return nil
}

// ------------------------------------------------------
// List
// ------------------------------------------------------

type ListBreaks struct {
	repo domain.Repository
}

func NewListBreaks(repo domain.Repository) *ListBreaks {
	return &ListBreaks{repo: repo}
}

func (uc *ListBreaks) Execute(ctx context.Context, providerID, workingDayID uint) ([]domain.Break, error) {
	day, err := uc.repo.GetWorkingDayByID(ctx, providerID, workingDayID)
	if err != nil {
		return nil, orBusiness(err, "working_day_not_found")
	}
	return uc.repo.ListBreaks(ctx, day.ID)
}

func containsBreak(breaks []domain.Break, id uint) bool {
	for _, b := range breaks {
		if b.ID == id {
			return true
		}
	}
	return false
}
