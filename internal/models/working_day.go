package models

import "time"

// WorkingDay stores times as "HH:MM". One row per provider and date.
type WorkingDay struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProviderID uint      `gorm:"uniqueIndex:idx_working_days_provider_date;not null" json:"provider_id"`
	Date       time.Time `gorm:"type:date;uniqueIndex:idx_working_days_provider_date;not null" json:"date"`

	StartTime    string `gorm:"size:8;not null" json:"start_time"`
	EndTime      string `gorm:"size:8;not null" json:"end_time"`
	SlotInterval int    `gorm:"default:30" json:"slot_interval"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Break rows are removed explicitly before their working day.
type Break struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	WorkingDayID uint   `gorm:"index;not null" json:"working_day_id"`
	StartTime    string `gorm:"size:8;not null" json:"start_time"`
	EndTime      string `gorm:"size:8;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
