package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	var user models.User
	if err := h.db.Preload("Provider").First(&user, middleware.UserID(c)).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     userView(&user),
		"provider": user.Provider,
	})
}
