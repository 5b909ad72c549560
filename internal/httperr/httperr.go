package httperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message,omitempty"`

	Reason       string              `json:"reason,omitempty"`
	Input        string              `json:"input,omitempty"`
	ConflictWith []schederr.Occupant `json:"conflict_with,omitempty"`
	Pending      []uint              `json:"pending,omitempty"`
	From         string              `json:"from,omitempty"`
	To           string              `json:"to,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Respond writes err with the status its kind maps to. Engine errors keep
// their reason code and the occupants they collided with so the client
// can render its own message.
func Respond(c *gin.Context, err error) {
	if se, ok := schederr.As(err); ok {
		c.JSON(statusForKind(se.Kind), HTTPError{
			Code:         string(se.Kind),
			Reason:       se.Reason,
			Input:        se.Input,
			ConflictWith: se.With,
			Pending:      se.Pending,
			From:         se.From,
			To:           se.To,
		})
		return
	}

	var be BusinessError
	if errors.As(err, &be) {
		status := http.StatusBadRequest
		if strings.HasSuffix(be.Code, "_not_found") {
			status = http.StatusNotFound
		}
		Write(c, status, be.Code, "")
		return
	}

	if errors.Is(err, schedule.ErrNotFound) {
		NotFound(c, "not_found", "")
		return
	}

	if IsExclusionConflict(err) {
		Conflict(c, "time_conflict", "")
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
	Internal(c, "internal_error", "")
}

func statusForKind(k schederr.Kind) int {
	switch k {
	case schederr.KindFormat:
		return http.StatusBadRequest
	case schederr.KindInvalidRange:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusConflict
	}
}
