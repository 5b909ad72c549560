package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// GormRepository implements schedule.Repository on PostgreSQL. Inside
// Transaction it carries the transaction handle and locks the active
// appointments it reads.
type GormRepository struct {
	db   *gorm.DB
	inTx bool
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, schedule.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *GormRepository) Transaction(
	ctx context.Context,
	fn func(tx schedule.Repository) error,
) error {

	if r.inTx {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx, inTx: true})
	})
}

// --------------------------------------------------
// Working days
// --------------------------------------------------

func (r *GormRepository) GetWorkingDay(
	ctx context.Context,
	providerID uint,
	date time.Time,
) (*schedule.WorkingDay, error) {

	var m models.WorkingDay
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND date = ?", providerID, clocktime.DateOf(date)).
		First(&m).Error; err != nil {
		return nil, notFound(err, "get working day")
	}

	day, err := workingDayFromModel(m)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *GormRepository) GetWorkingDayByID(
	ctx context.Context,
	providerID uint,
	id uint,
) (*schedule.WorkingDay, error) {

	// Locking the day inside a transaction serializes edits to it and to
	// its breaks.
	q := r.db.WithContext(ctx).Where("id = ? AND provider_id = ?", id, providerID)
	if r.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var m models.WorkingDay
	if err := q.First(&m).Error; err != nil {
		return nil, notFound(err, "get working day")
	}

	day, err := workingDayFromModel(m)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *GormRepository) ListWorkingDays(
	ctx context.Context,
	providerID uint,
	from time.Time,
	to time.Time,
) ([]schedule.WorkingDay, error) {

	var rows []models.WorkingDay
	if err := r.db.WithContext(ctx).
		Where("provider_id = ? AND date >= ? AND date < ?",
			providerID, clocktime.DateOf(from), clocktime.DateOf(to)).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list working days: %w", err)
	}

	out := make([]schedule.WorkingDay, 0, len(rows))
	for _, m := range rows {
		day, err := workingDayFromModel(m)
		if err != nil {
			return nil, err
		}
		out = append(out, day)
	}
	return out, nil
}

func (r *GormRepository) CreateWorkingDay(ctx context.Context, day *schedule.WorkingDay) error {
	m := workingDayToModel(*day)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("create working day: %w", err)
	}
	day.ID = m.ID
	return nil
}

func (r *GormRepository) UpdateWorkingDay(ctx context.Context, day *schedule.WorkingDay) error {
	m := workingDayToModel(*day)
	res := r.db.WithContext(ctx).
		Model(&models.WorkingDay{}).
		Where("id = ?", day.ID).
		Updates(map[string]any{
			"start_time":    m.StartTime,
			"end_time":      m.EndTime,
			"slot_interval": m.SlotInterval,
		})
	if res.Error != nil {
		return fmt.Errorf("update working day: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "update working day")
	}
	return nil
}

func (r *GormRepository) DeleteWorkingDay(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.WorkingDay{}, id).Error; err != nil {
		return fmt.Errorf("delete working day: %w", err)
	}
	return nil
}

// --------------------------------------------------
// Breaks
// --------------------------------------------------

func (r *GormRepository) ListBreaks(ctx context.Context, workingDayID uint) ([]schedule.Break, error) {
	var rows []models.Break
	if err := r.db.WithContext(ctx).
		Where("working_day_id = ?", workingDayID).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list breaks: %w", err)
	}

	out := make([]schedule.Break, 0, len(rows))
	for _, m := range rows {
		b, err := breakFromModel(m)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *GormRepository) CreateBreak(ctx context.Context, b *schedule.Break) error {
	m := breakToModel(*b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("create break: %w", err)
	}
	b.ID = m.ID
	return nil
}

func (r *GormRepository) UpdateBreak(ctx context.Context, b *schedule.Break) error {
	m := breakToModel(*b)
	res := r.db.WithContext(ctx).
		Model(&models.Break{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"start_time": m.StartTime,
			"end_time":   m.EndTime,
		})
	if res.Error != nil {
		return fmt.Errorf("update break: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "update break")
	}
	return nil
}

func (r *GormRepository) DeleteBreak(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Break{}, id).Error; err != nil {
		return fmt.Errorf("delete break: %w", err)
	}
	return nil
}

func (r *GormRepository) DeleteBreaksForDay(ctx context.Context, workingDayID uint) error {
	if err := r.db.WithContext(ctx).
		Where("working_day_id = ?", workingDayID).
		Delete(&models.Break{}).Error; err != nil {
		return fmt.Errorf("delete breaks: %w", err)
	}
	return nil
}

// Compile-time check
var _ schedule.Repository = (*GormRepository)(nil)
