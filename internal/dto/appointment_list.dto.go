package dto

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
)

type AppointmentListDTO struct {
	ID          uint            `json:"id"`
	Date        string          `json:"date"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	Duration    int             `json:"duration"`
	Status      string          `json:"status"`
	ClientName  string          `json:"client_name"`
	ClientPhone string          `json:"client_phone"`
	ServiceName string          `json:"service_name"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
}

func NewAppointmentList(aps []appointment.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, AppointmentListDTO{
			ID:          ap.ID,
			Date:        clocktime.FormatDate(ap.Date),
			StartTime:   ap.Start.String(),
			EndTime:     ap.End.String(),
			Duration:    ap.Duration,
			Status:      string(ap.Status),
			ClientName:  ap.ClientName,
			ClientPhone: ap.ClientPhone,
			ServiceName: ap.ServiceName,
			Price:       ap.Price,
			Currency:    ap.Currency,
		})
	}
	return out
}
