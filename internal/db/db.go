package db

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// setupStatements run after AutoMigrate. They are best effort: a database
// without btree_gist still works, relying on row locks alone.
var setupStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
    ) THEN
        ALTER TABLE appointments
        ADD CONSTRAINT appointments_no_overlap
        EXCLUDE USING gist (
            provider_id WITH =,
            date WITH =,
            int4range(start_minute, end_minute) WITH &&
        ) WHERE (status IN ('pending', 'confirmed'));
    END IF;
END $$`,
	`UPDATE providers
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''`,
}

func NewDB(cfg *config.Config) *gorm.DB {
	logLevel := logger.Warn
	if cfg.IsDevelopment() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	return db
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Provider{},
		&models.User{},
		&models.Service{},
		&models.WorkingDay{},
		&models.Break{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	for _, stmt := range setupStatements {
		if err := db.Exec(stmt).Error; err != nil {
			log.Warn().Err(err).Msg("database setup statement skipped")
		}
	}
	return nil
}
