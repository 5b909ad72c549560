package repository

import (
	"fmt"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// --------------------------------------------------
// WorkingDay / Break
// --------------------------------------------------

func workingDayFromModel(m models.WorkingDay) (schedule.WorkingDay, error) {
	start, err := clocktime.Parse(m.StartTime)
	if err != nil {
		return schedule.WorkingDay{}, fmt.Errorf("working day %d start: %w", m.ID, err)
	}
	end, err := clocktime.Parse(m.EndTime)
	if err != nil {
		return schedule.WorkingDay{}, fmt.Errorf("working day %d end: %w", m.ID, err)
	}

	return schedule.WorkingDay{
		ID:           m.ID,
		ProviderID:   m.ProviderID,
		Date:         clocktime.DateOf(m.Date),
		Start:        start,
		End:          end,
		SlotInterval: m.SlotInterval,
	}, nil
}

func workingDayToModel(d schedule.WorkingDay) models.WorkingDay {
	return models.WorkingDay{
		ID:           d.ID,
		ProviderID:   d.ProviderID,
		Date:         clocktime.DateOf(d.Date),
		StartTime:    d.Start.String(),
		EndTime:      d.End.String(),
		SlotInterval: d.SlotInterval,
	}
}

func breakFromModel(m models.Break) (schedule.Break, error) {
	start, err := clocktime.Parse(m.StartTime)
	if err != nil {
		return schedule.Break{}, fmt.Errorf("break %d start: %w", m.ID, err)
	}
	end, err := clocktime.Parse(m.EndTime)
	if err != nil {
		return schedule.Break{}, fmt.Errorf("break %d end: %w", m.ID, err)
	}

	return schedule.Break{
		ID:           m.ID,
		WorkingDayID: m.WorkingDayID,
		Start:        start,
		End:          end,
	}, nil
}

func breakToModel(b schedule.Break) models.Break {
	return models.Break{
		ID:           b.ID,
		WorkingDayID: b.WorkingDayID,
		StartTime:    b.Start.String(),
		EndTime:      b.End.String(),
	}
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func appointmentFromModel(m models.Appointment) appointment.Appointment {
	return appointment.Appointment{
		ID:           m.ID,
		ProviderID:   m.ProviderID,
		ServiceID:    m.ServiceID,
		ServiceName:  m.Service.Name,
		Date:         clocktime.DateOf(m.Date),
		Start:        clocktime.Minutes(m.StartMinute),
		End:          clocktime.Minutes(m.EndMinute),
		Duration:     m.DurationMin,
		Status:       appointment.Status(m.Status),
		Price:        m.Price,
		Currency:     m.Currency,
		ClientName:   m.ClientName,
		ClientPhone:  m.ClientPhone,
		ClientEmail:  m.ClientEmail,
		Notes:        m.Notes,
		CancelReason: m.CancelReason,
		CreatedAt:    m.CreatedAt,
		ConfirmedAt:  m.ConfirmedAt,
		CompletedAt:  m.CompletedAt,
		CancelledAt:  m.CancelledAt,
		NoShowAt:     m.NoShowAt,
	}
}

func appointmentToModel(ap appointment.Appointment) models.Appointment {
	return models.Appointment{
		ID:           ap.ID,
		ProviderID:   ap.ProviderID,
		ServiceID:    ap.ServiceID,
		Date:         clocktime.DateOf(ap.Date),
		StartMinute:  int(ap.Start),
		EndMinute:    int(ap.End),
		DurationMin:  ap.Duration,
		Status:       string(ap.Status),
		Price:        ap.Price,
		Currency:     ap.Currency,
		ClientName:   ap.ClientName,
		ClientPhone:  ap.ClientPhone,
		ClientEmail:  ap.ClientEmail,
		Notes:        ap.Notes,
		CancelReason: ap.CancelReason,
		ConfirmedAt:  ap.ConfirmedAt,
		CompletedAt:  ap.CompletedAt,
		CancelledAt:  ap.CancelledAt,
		NoShowAt:     ap.NoShowAt,
	}
}

// appointmentChanges is the column set UpdateAppointment writes: the
// mutable schedule and lifecycle fields only.
func appointmentChanges(ap appointment.Appointment) map[string]any {
	return map[string]any{
		"date":          clocktime.DateOf(ap.Date),
		"start_minute":  int(ap.Start),
		"end_minute":    int(ap.End),
		"duration_min":  ap.Duration,
		"status":        string(ap.Status),
		"notes":         ap.Notes,
		"cancel_reason": ap.CancelReason,
		"confirmed_at":  ap.ConfirmedAt,
		"completed_at":  ap.CompletedAt,
		"cancelled_at":  ap.CancelledAt,
		"no_show_at":    ap.NoShowAt,
	}
}
