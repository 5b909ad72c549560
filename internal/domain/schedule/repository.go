package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

var ErrNotFound = errors.New("not found")

// Repository is the persistence port the application layer uses to feed
// the engine and store its results. Implementations return ErrNotFound
// for missing rows.
type Repository interface {
	// -------- Provider / Service --------
	GetProviderByID(ctx context.Context, id uint) (*models.Provider, error)
	GetProviderBySlug(ctx context.Context, slug string) (*models.Provider, error)
	GetService(ctx context.Context, providerID uint, serviceID uint) (*models.Service, error)
	ListServices(ctx context.Context, providerID uint, activeOnly bool) ([]models.Service, error)

	// -------- Working days --------
	GetWorkingDay(ctx context.Context, providerID uint, date time.Time) (*WorkingDay, error)
	// GetWorkingDayByID locks the day when called inside a transaction.
	GetWorkingDayByID(ctx context.Context, providerID uint, id uint) (*WorkingDay, error)
	ListWorkingDays(ctx context.Context, providerID uint, from time.Time, to time.Time) ([]WorkingDay, error)
	CreateWorkingDay(ctx context.Context, day *WorkingDay) error
	UpdateWorkingDay(ctx context.Context, day *WorkingDay) error
	DeleteWorkingDay(ctx context.Context, id uint) error

	// -------- Breaks --------
	ListBreaks(ctx context.Context, workingDayID uint) ([]Break, error)
	CreateBreak(ctx context.Context, b *Break) error
	UpdateBreak(ctx context.Context, b *Break) error
	DeleteBreak(ctx context.Context, id uint) error
	DeleteBreaksForDay(ctx context.Context, workingDayID uint) error

	// -------- Appointments --------

	// GetAppointment locks the row when called inside a transaction, so a
	// read-check-write on one appointment cannot interleave with another.
	GetAppointment(ctx context.Context, providerID uint, id uint) (*appointment.Appointment, error)

	// ListAppointments returns every appointment dated in [from, to).
	ListAppointments(ctx context.Context, providerID uint, from time.Time, to time.Time) ([]appointment.Appointment, error)

	// ListActiveAppointments returns pending and confirmed appointments on
	// the given dates. Inside a transaction the rows are locked.
	ListActiveAppointments(ctx context.Context, providerID uint, dates ...time.Time) ([]appointment.Appointment, error)

	CreateAppointment(ctx context.Context, ap *appointment.Appointment) error
	UpdateAppointment(ctx context.Context, ap *appointment.Appointment) error

	// Transaction runs fn as one all-or-nothing unit.
	Transaction(ctx context.Context, fn func(tx Repository) error) error
}
