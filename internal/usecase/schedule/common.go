package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
)

func orBusiness(err error, code string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(code)
	}
	return err
}

func invalidate(ctx context.Context, c cache.SlotCache, providerID uint, dates ...time.Time) {
	if c == nil {
		return
	}
	c.Invalidate(ctx, providerID, dates...)
}

// hours parses the start/end pair of a working day or break.
func hours(start, end string) (clocktime.Minutes, clocktime.Minutes, error) {
	s, err := clocktime.Parse(start)
	if err != nil {
		return 0, 0, err
	}
	e, err := clocktime.Parse(end)
	if err != nil {
		return 0, 0, err
	}
	return s, e, nil
}

// slotInterval falls back to the provider default, then to the engine default.
func slotInterval(requested, providerDefault int) int {
	if requested > 0 {
		return requested
	}
	if providerDefault > 0 {
		return providerDefault
	}
	return domain.DefaultSlotInterval
}

// validateDay loads what hangs off the candidate's date and runs the
// working day validator. Call it inside a transaction.
func validateDay(ctx context.Context, tx domain.Repository, candidate domain.WorkingDay) error {
	date := clocktime.DateOf(candidate.Date)

	siblings, err := tx.ListWorkingDays(ctx, candidate.ProviderID, date, date.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	var breaks []domain.Break
	if candidate.ID != 0 {
		if breaks, err = tx.ListBreaks(ctx, candidate.ID); err != nil {
			return err
		}
	}

	appointments, err := tx.ListActiveAppointments(ctx, candidate.ProviderID, date)
	if err != nil {
		return err
	}

	return domain.ValidateWorkingDay(candidate, siblings, breaks, appointments)
}
