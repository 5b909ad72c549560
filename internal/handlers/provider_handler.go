package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// ProviderHandler edits the booking policy of the authenticated provider.
type ProviderHandler struct {
	db *gorm.DB
}

func NewProviderHandler(db *gorm.DB) *ProviderHandler {
	return &ProviderHandler{db: db}
}

type UpdateProviderRequest struct {
	Name                 *string `json:"name"`
	Phone                *string `json:"phone"`
	Address              *string `json:"address"`
	Timezone             *string `json:"timezone"`
	Currency             *string `json:"currency"`
	MinNoticeHours       *int    `json:"min_notice_hours"`
	RequiresConfirmation *bool   `json:"requires_confirmation"`
	DefaultSlotInterval  *int    `json:"default_slot_interval"`
}

func (h *ProviderHandler) load(c *gin.Context) (*models.Provider, bool) {
	var p models.Provider
	if err := h.db.WithContext(c.Request.Context()).First(&p, middleware.ProviderID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "provider_not_found", "Prestador não encontrado.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_provider", "")
		return nil, false
	}
	return &p, true
}

func (h *ProviderHandler) Get(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProviderHandler) Update(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		p.Timezone = *req.Timezone
	}
	if req.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if len(cur) != 3 {
			httperr.BadRequest(c, "invalid_currency", "Moeda inválida.")
			return
		}
		p.Currency = cur
	}
	if req.MinNoticeHours != nil {
		if *req.MinNoticeHours < 0 {
			httperr.BadRequest(c, "invalid_min_notice", "Antecedência mínima deve ser zero ou positiva (em horas).")
			return
		}
		p.MinNoticeHours = *req.MinNoticeHours
	}
	if req.RequiresConfirmation != nil {
		p.RequiresConfirmation = *req.RequiresConfirmation
	}
	if req.DefaultSlotInterval != nil {
		if *req.DefaultSlotInterval <= 0 {
			httperr.BadRequest(c, "invalid_slot_interval", "Intervalo deve ser positivo (em minutos).")
			return
		}
		p.DefaultSlotInterval = *req.DefaultSlotInterval
	}

	if err := h.db.WithContext(c.Request.Context()).Save(p).Error; err != nil {
		httperr.Internal(c, "failed_to_update_provider", "")
		return
	}

	c.JSON(http.StatusOK, p)
}
