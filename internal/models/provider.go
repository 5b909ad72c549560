package models

import "time"

// Provider is a salon or independent specialist with a public booking page.
type Provider struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`

	Timezone             string `gorm:"size:64" json:"timezone"`
	Currency             string `gorm:"size:3" json:"currency"`
	MinNoticeHours       int    `json:"min_notice_hours"`
	RequiresConfirmation bool   `json:"requires_confirmation"`
	DefaultSlotInterval  int    `json:"default_slot_interval"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
