package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
)

func newMockRepo(t *testing.T) (*GormRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGormRepository(gdb), mock
}

func TestGormRepository_GetWorkingDayMapsRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "provider_id", "date", "start_time", "end_time", "slot_interval"}).
		AddRow(3, 7, day, "09:00", "18:00", 30)
	mock.ExpectQuery(`SELECT \* FROM "working_days"`).WillReturnRows(rows)

	wd, err := repo.GetWorkingDay(context.Background(), 7, day)
	require.NoError(t, err)
	assert.Equal(t, uint(3), wd.ID)
	assert.Equal(t, "09:00", wd.Start.String())
	assert.Equal(t, "18:00", wd.End.String())
	assert.Equal(t, day, wd.Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_MissingRowIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetAppointment(context.Background(), 7, 99)
	assert.ErrorIs(t, err, schedule.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_TransactionRollsBackOnFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "appointments"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "breaks"`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	ap := appointment.Appointment{ID: 1, ProviderID: 7, Date: day, Start: 600, End: 660, Duration: 60, Status: appointment.StatusConfirmed}
	require.NoError(t, appointment.Cancel(&ap, now, "closed"))

	err := repo.Transaction(ctx, func(tx schedule.Repository) error {
		if err := tx.UpdateAppointment(ctx, &ap); err != nil {
			return err
		}
		return tx.DeleteBreaksForDay(ctx, 3)
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_GetAppointmentLocksInsideTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "provider_id", "date", "start_minute", "end_minute", "duration_min", "status"}).
			AddRow(1, 7, day, 600, 660, 60, "completed"))
	mock.ExpectCommit()

	var got *appointment.Appointment
	err := repo.Transaction(ctx, func(tx schedule.Repository) error {
		var err error
		got, err = tx.GetAppointment(ctx, 7, 1)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCompleted, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_WorkingDayIsLockedInsideTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT \* FROM "working_days" WHERE .*LIMIT \S+$`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "provider_id", "date", "start_time", "end_time", "slot_interval"}).
			AddRow(3, 7, day, "09:00", "18:00", 30))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "working_days" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "provider_id", "date", "start_time", "end_time", "slot_interval"}).
			AddRow(3, 7, day, "09:00", "18:00", 30))
	mock.ExpectCommit()

	_, err := repo.GetWorkingDayByID(ctx, 7, 3)
	require.NoError(t, err)

	err = repo.Transaction(ctx, func(tx schedule.Repository) error {
		_, err := tx.GetWorkingDayByID(ctx, 7, 3)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRepository_ActiveAppointmentsAreLockedInsideTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "appointments" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "provider_id", "date", "start_minute", "end_minute", "duration_min", "status"}).
			AddRow(1, 7, day, 600, 660, 60, "confirmed"))
	mock.ExpectCommit()

	var got []appointment.Appointment
	err := repo.Transaction(ctx, func(tx schedule.Repository) error {
		var err error
		got, err = tx.ListActiveAppointments(ctx, 7, day)
		return err
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "10:00", got[0].Start.String())
	assert.True(t, got[0].IsActive())
	assert.NoError(t, mock.ExpectationsWereMet())
}
