package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func orBusiness(err error, code string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(code)
	}
	return err
}

func loadProvider(ctx context.Context, repo domain.Repository, id uint) (*models.Provider, error) {
	p, err := repo.GetProviderByID(ctx, id)
	if err != nil {
		return nil, orBusiness(err, "provider_not_found")
	}
	return p, nil
}

func loadService(ctx context.Context, repo domain.Repository, providerID, serviceID uint) (*models.Service, error) {
	svc, err := repo.GetService(ctx, providerID, serviceID)
	if err != nil {
		return nil, orBusiness(err, "service_not_found")
	}
	if !svc.Active || svc.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	return svc, nil
}

// workingDayOrNil maps a missing working day to nil: the provider is off.
func workingDayOrNil(ctx context.Context, repo domain.Repository, providerID uint, date time.Time) (*domain.WorkingDay, []domain.Break, error) {
	day, err := repo.GetWorkingDay(ctx, providerID, date)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	breaks, err := repo.ListBreaks(ctx, day.ID)
	if err != nil {
		return nil, nil, err
	}
	return day, breaks, nil
}

func invalidate(ctx context.Context, c cache.SlotCache, providerID uint, dates ...time.Time) {
	if c == nil {
		return
	}
	c.Invalidate(ctx, providerID, dates...)
}
