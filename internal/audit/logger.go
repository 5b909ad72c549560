package audit

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Logger is the GORM-backed sink writing to audit_logs.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Write(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		ProviderID: ev.ProviderID,
		UserID:     ev.UserID,
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Metadata:   metaJSON,
	}

	return l.db.WithContext(ctx).Create(&row).Error
}

// LogSink writes events to the application log. It backs the dispatcher
// when the service runs without a database.
type LogSink struct{}

func (LogSink) Write(_ context.Context, ev Event) error {
	e := log.Info().
		Str("action", ev.Action).
		Str("entity", ev.Entity).
		Uint("provider_id", ev.ProviderID)
	if ev.EntityID != nil {
		e = e.Uint("entity_id", *ev.EntityID)
	}
	if ev.UserID != nil {
		e = e.Uint("user_id", *ev.UserID)
	}
	if ev.Metadata != nil {
		e = e.Interface("metadata", ev.Metadata)
	}
	e.Msg("audit")
	return nil
}

var (
	_ Sink = (*Logger)(nil)
	_ Sink = LogSink{}
)
