package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// --------------------------------------------------
// Provider / Service
// --------------------------------------------------

func (r *GormRepository) GetProviderByID(ctx context.Context, id uint) (*models.Provider, error) {
	var p models.Provider
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, "get provider")
	}
	return &p, nil
}

func (r *GormRepository) GetProviderBySlug(ctx context.Context, slug string) (*models.Provider, error) {
	var p models.Provider
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, notFound(err, "get provider")
	}
	return &p, nil
}

func (r *GormRepository) GetService(
	ctx context.Context,
	providerID uint,
	serviceID uint,
) (*models.Service, error) {

	var s models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", serviceID, providerID).
		First(&s).Error; err != nil {
		return nil, notFound(err, "get service")
	}
	return &s, nil
}

func (r *GormRepository) ListServices(
	ctx context.Context,
	providerID uint,
	activeOnly bool,
) ([]models.Service, error) {

	q := r.db.WithContext(ctx).Where("provider_id = ?", providerID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *GormRepository) GetAppointment(
	ctx context.Context,
	providerID uint,
	id uint,
) (*appointment.Appointment, error) {

	q := r.db.WithContext(ctx).Where("id = ? AND provider_id = ?", id, providerID)
	if r.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var m models.Appointment
	if err := q.First(&m).Error; err != nil {
		return nil, notFound(err, "get appointment")
	}

	ap := appointmentFromModel(m)
	return &ap, nil
}

func (r *GormRepository) ListAppointments(
	ctx context.Context,
	providerID uint,
	from time.Time,
	to time.Time,
) ([]appointment.Appointment, error) {

	var rows []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("provider_id = ? AND date >= ? AND date < ?",
			providerID, clocktime.DateOf(from), clocktime.DateOf(to)).
		Order("date ASC, start_minute ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	out := make([]appointment.Appointment, 0, len(rows))
	for _, m := range rows {
		out = append(out, appointmentFromModel(m))
	}
	return out, nil
}

func (r *GormRepository) ListActiveAppointments(
	ctx context.Context,
	providerID uint,
	dates ...time.Time,
) ([]appointment.Appointment, error) {

	out := make([]appointment.Appointment, 0)
	if len(dates) == 0 {
		return out, nil
	}

	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		days = append(days, clocktime.DateOf(d))
	}

	q := r.db.WithContext(ctx).
		Where("provider_id = ? AND date IN ? AND status IN ?",
			providerID, days, activeStatuses())
	if r.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []models.Appointment
	if err := q.Order("date ASC, start_minute ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list active appointments: %w", err)
	}

	for _, m := range rows {
		out = append(out, appointmentFromModel(m))
	}
	return out, nil
}

func (r *GormRepository) CreateAppointment(ctx context.Context, ap *appointment.Appointment) error {
	m := appointmentToModel(*ap)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	ap.ID = m.ID
	ap.CreatedAt = m.CreatedAt
	return nil
}

func (r *GormRepository) UpdateAppointment(ctx context.Context, ap *appointment.Appointment) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND provider_id = ?", ap.ID, ap.ProviderID).
		Updates(appointmentChanges(*ap))
	if res.Error != nil {
		return fmt.Errorf("update appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update appointment %d: %w", ap.ID, schedule.ErrNotFound)
	}
	return nil
}

func activeStatuses() []string {
	return []string{
		string(appointment.StatusPending),
		string(appointment.StatusConfirmed),
	}
}
