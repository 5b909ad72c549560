package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Appointment times are minutes since midnight so the database can
// enforce non-overlap with an int4range exclusion constraint.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProviderID uint     `gorm:"index:idx_appointments_provider_date" json:"provider_id"`
	Provider   Provider `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	Date        time.Time `gorm:"type:date;index:idx_appointments_provider_date" json:"date"`
	StartMinute int       `json:"start_minute"`
	EndMinute   int       `json:"end_minute"`
	DurationMin int       `json:"duration_min"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Price    decimal.Decimal `gorm:"type:numeric(10,2)" json:"price"`
	Currency string          `gorm:"size:3" json:"currency"`

	ClientName  string `gorm:"size:100" json:"client_name"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`
	ClientEmail string `gorm:"size:100" json:"client_email"`
	Notes       string `gorm:"size:255" json:"notes"`

	CancelReason string     `gorm:"size:255" json:"cancel_reason"`
	ConfirmedAt  *time.Time `json:"confirmed_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	NoShowAt     *time.Time `json:"no_show_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
