package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	providerID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	day, err := clocktime.ParseDate(date)
	if err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListAppointments(
		ctx,
		providerID,
		day,
		day.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, err
	}

	return dto.NewAppointmentList(appointments), nil
}
