package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *appointment.CreatePrivateAppointment
	changeStatus *appointment.ChangeStatus
	reschedule   *appointment.Reschedule
	startEarly   *appointment.StartEarly
	byDate       *appointment.ListAppointmentsByDate
	byMonth      *appointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	create *appointment.CreatePrivateAppointment,
	changeStatus *appointment.ChangeStatus,
	reschedule *appointment.Reschedule,
	startEarly *appointment.StartEarly,
	byDate *appointment.ListAppointmentsByDate,
	byMonth *appointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		changeStatus: changeStatus,
		reschedule:   reschedule,
		startEarly:   startEarly,
		byDate:       byDate,
		byMonth:      byMonth,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	EndTime     string `json:"end_time"`
	Notes       string `json:"notes"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type RescheduleRequest struct {
	Date    string `json:"date" binding:"required"`
	Time    string `json:"time" binding:"required"`
	EndTime string `json:"end_time"`
}

// ======================================================
// CREATE (owner quick book)
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreatePrivateAppointmentInput{
		ProviderID:  middleware.ProviderID(c),
		UserID:      middleware.UserID(c),
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		ServiceID:   req.ServiceID,
		Date:        req.Date,
		Time:        req.Time,
		EndTime:     req.EndTime,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	out, err := h.byDate.Execute(c.Request.Context(), middleware.ProviderID(c), dateStr)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	out, err := h.byMonth.Execute(c.Request.Context(), middleware.ProviderID(c), year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": out,
	})
}

// ======================================================
// STATUS
// ======================================================

// ChangeStatus accepts any target status in the body.
func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	h.applyStatus(c, req.Status, req.Reason)
}

// StatusAction binds a fixed target, for routes like /confirm or /cancel.
// A JSON body with a reason is optional.
func (h *AppointmentHandler) StatusAction(to domain.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Reason string `json:"reason"`
		}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
				return
			}
		}
		h.applyStatus(c, string(to), req.Reason)
	}
}

func (h *AppointmentHandler) applyStatus(c *gin.Context, status, reason string) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.changeStatus.Execute(c.Request.Context(), appointment.ChangeStatusInput{
		ProviderID:    middleware.ProviderID(c),
		UserID:        middleware.UserID(c),
		AppointmentID: id,
		Status:        status,
		Reason:        reason,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// TIME SHIFTS
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), appointment.RescheduleInput{
		ProviderID:    middleware.ProviderID(c),
		UserID:        middleware.UserID(c),
		AppointmentID: id,
		Date:          req.Date,
		Time:          req.Time,
		EndTime:       req.EndTime,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) StartEarly(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.startEarly.Execute(c.Request.Context(), appointment.StartEarlyInput{
		ProviderID:    middleware.ProviderID(c),
		UserID:        middleware.UserID(c),
		AppointmentID: id,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}
