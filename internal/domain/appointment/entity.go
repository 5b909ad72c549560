package appointment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
)

type Appointment struct {
	ID         uint `json:"id"`
	ProviderID uint `json:"provider_id"`
	ServiceID  uint `json:"service_id"`

	// ServiceName is filled by listings only.
	ServiceName string `json:"service_name,omitempty"`

	Date     time.Time         `json:"date"`
	Start    clocktime.Minutes `json:"start"`
	End      clocktime.Minutes `json:"end"`
	Duration int               `json:"duration"`
	Status   Status            `json:"status"`

	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`

	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`
	Notes       string `json:"notes"`

	CancelReason string     `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	NoShowAt     *time.Time `json:"no_show_at,omitempty"`
}

func (a Appointment) IsActive() bool {
	return IsActive(a.Status)
}

func (a Appointment) OnDate(date time.Time) bool {
	return clocktime.SameDate(a.Date, date)
}

// ===============================
// Domain Actions
// ===============================

// Apply moves ap to the requested status and stamps the matching
// timestamp. ap is left untouched when the transition is refused.
func Apply(ap *Appointment, to Status, now time.Time, reason string) error {
	next, err := AttemptTransition(ap.Status, to)
	if err != nil {
		return err
	}

	ap.Status = next
	switch next {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
		ap.CancelReason = reason
	case StatusNoShow:
		ap.NoShowAt = &now
	}
	return nil
}

func Confirm(ap *Appointment, now time.Time) error {
	return Apply(ap, StatusConfirmed, now, "")
}

func Complete(ap *Appointment, now time.Time) error {
	return Apply(ap, StatusCompleted, now, "")
}

func Cancel(ap *Appointment, now time.Time, reason string) error {
	return Apply(ap, StatusCancelled, now, reason)
}

func MarkNoShow(ap *Appointment, now time.Time) error {
	return Apply(ap, StatusNoShow, now, "")
}
