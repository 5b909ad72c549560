package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

func TestReschedule(t *testing.T) {
	ap := newAppointment(1, "10:00", "11:00", appointment.StatusPending)
	others := []appointment.Appointment{
		ap,
		newAppointment(2, "14:00", "15:00", appointment.StatusConfirmed),
	}

	moved, err := Reschedule(ap, placement("10:30", "12:00"), others)
	require.NoError(t, err, "overlapping its own old slot is fine")
	assert.Equal(t, hm("10:30"), moved.Start)
	assert.Equal(t, hm("12:00"), moved.End)
	assert.Equal(t, 90, moved.Duration)
	assert.Equal(t, appointment.StatusPending, moved.Status)

	_, err = Reschedule(ap, placement("14:30", "15:30"), others)
	assert.True(t, schederr.Is(err, schederr.KindConflict))

	nextDay := placement("14:30", "15:30")
	nextDay.Date = testDate.AddDate(0, 0, 1)
	moved, err = Reschedule(ap, nextDay, others)
	require.NoError(t, err)
	assert.Equal(t, testDate.AddDate(0, 0, 1), moved.Date)
}

func TestReschedule_RefusedForInactive(t *testing.T) {
	ap := newAppointment(1, "10:00", "11:00", appointment.StatusCompleted)
	_, err := Reschedule(ap, placement("12:00", "13:00"), nil)
	assert.True(t, schederr.Is(err, schederr.KindInvalidTransition))
}

func TestStartEarly(t *testing.T) {
	loc := timezone.Location("America/Sao_Paulo")
	// 12:40 UTC is 09:40 in São Paulo.
	clock := timezone.FixedClock{T: time.Date(2026, 6, 10, 12, 40, 0, 0, time.UTC)}

	ap := newAppointment(1, "10:30", "11:15", appointment.StatusConfirmed)

	moved, err := StartEarly(ap, []appointment.Appointment{ap}, clock, loc)
	require.NoError(t, err)
	assert.Equal(t, "09:40", moved.Start.String())
	assert.Equal(t, "10:25", moved.End.String())
	assert.Equal(t, 45, moved.Duration)
	assert.Equal(t, testDate, moved.Date)

	blocker := newAppointment(2, "10:00", "10:30", appointment.StatusConfirmed)
	_, err = StartEarly(ap, []appointment.Appointment{ap, blocker}, clock, loc)
	assert.True(t, schederr.Is(err, schederr.KindConflict))

	pending := newAppointment(3, "10:30", "11:00", appointment.StatusPending)
	_, err = StartEarly(pending, nil, clock, loc)
	assert.True(t, schederr.Is(err, schederr.KindInvalidTransition))
}

func TestStartEarly_PastMidnight(t *testing.T) {
	clock := timezone.FixedClock{T: time.Date(2026, 6, 10, 23, 30, 0, 0, time.UTC)}
	ap := newAppointment(1, "10:00", "11:00", appointment.StatusConfirmed)
	ap.Date = testDate.AddDate(0, 0, 1)

	_, err := StartEarly(ap, nil, clock, time.UTC)
	assert.True(t, schederr.HasReason(err, schederr.ReasonEndsAfterMidnight))
}
