package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the client booking page. Providers are addressed
// by slug; no authentication.
type PublicHandler struct {
	repo         schedule.Repository
	availability *appointment.GetAvailability
	create       *appointment.CreatePublicAppointment
}

func NewPublicHandler(
	repo schedule.Repository,
	availability *appointment.GetAvailability,
	create *appointment.CreatePublicAppointment,
) *PublicHandler {
	return &PublicHandler{
		repo:         repo,
		availability: availability,
		create:       create,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Notes       string `json:"notes"`
}

func (h *PublicHandler) provider(c *gin.Context) (*models.Provider, bool) {
	p, err := h.repo.GetProviderBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			httperr.NotFound(c, "provider_not_found", "Prestador não encontrado.")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return p, true
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	p, ok := h.provider(c)
	if !ok {
		return
	}

	services, err := h.repo.ListServices(c.Request.Context(), p.ID, true)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, services)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}
	serviceID, ok := uintQuery(c, "service_id")
	if !ok {
		return
	}

	p, ok := h.provider(c)
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), appointment.AvailabilityInput{
		ProviderID: p.ID,
		ServiceID:  serviceID,
		Date:       dateStr,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     dateStr,
		"timezone": p.Timezone,
		"slots":    dto.NewSlots(slots),
	})
}

////////////////////////////////////////////////////////
// BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	p, ok := h.provider(c)
	if !ok {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreatePublicAppointmentInput{
		ProviderID:  p.ID,
		ServiceID:   req.ServiceID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}
