package dayoff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
)

var (
	dayOff   = time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	nextDay  = dayOff.AddDate(0, 0, 1)
	now      = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	hm       = clocktime.MustParse
	provider = uint(7)
)

func apt(id uint, date time.Time, start, end string, status appointment.Status) appointment.Appointment {
	return appointment.Appointment{
		ID:         id,
		ProviderID: provider,
		Date:       date,
		Start:      hm(start),
		End:        hm(end),
		Duration:   int(hm(end) - hm(start)),
		Status:     status,
	}
}

func workingDay() schedule.WorkingDay {
	return schedule.WorkingDay{ID: 3, ProviderID: provider, Date: dayOff, Start: hm("09:00"), End: hm("18:00"), SlotInterval: 30}
}

func twoAppointmentPlan() *Plan {
	return NewPlan("plan-1", workingDay(), []appointment.Appointment{
		apt(2, dayOff, "14:00", "15:00", appointment.StatusPending),
		apt(1, dayOff, "10:00", "11:00", appointment.StatusConfirmed),
		apt(3, dayOff, "16:00", "17:00", appointment.StatusCancelled),
		apt(4, nextDay, "10:00", "11:00", appointment.StatusConfirmed),
	}, now)
}

func reschedule(id uint, date time.Time, start, end string) Decision {
	return Decision{AppointmentID: id, Action: ActionReschedule, Date: date, Start: hm(start), End: hm(end)}
}

func TestNewPlan_CapturesActiveAppointmentsOfTheDay(t *testing.T) {
	p := twoAppointmentPlan()

	require.Len(t, p.Affected, 2)
	assert.Equal(t, uint(1), p.Affected[0].ID)
	assert.Equal(t, uint(2), p.Affected[1].ID)
	assert.Equal(t, []uint{1, 2}, p.Missing())
	assert.Equal(t, uint(3), p.WorkingDayID)
}

func TestStage_SecondRescheduleIntoSameSlotConflicts(t *testing.T) {
	p := twoAppointmentPlan()

	require.NoError(t, p.Stage(reschedule(1, nextDay, "12:00", "13:00"), nil))

	err := p.Stage(reschedule(2, nextDay, "12:30", "13:30"), nil)
	e, ok := schederr.As(err)
	require.True(t, ok)
	assert.Equal(t, schederr.KindConflict, e.Kind)
	require.Len(t, e.With, 1)
	assert.Equal(t, uint(1), e.With[0].ID)

	assert.Equal(t, []uint{2}, p.Missing())
}

func TestStage_ChecksCommittedAppointments(t *testing.T) {
	p := twoAppointmentPlan()
	committed := []appointment.Appointment{
		apt(4, nextDay, "10:00", "11:00", appointment.StatusConfirmed),
		apt(5, nextDay, "12:00", "13:00", appointment.StatusCancelled),
	}

	err := p.Stage(reschedule(1, nextDay, "10:30", "11:30"), committed)
	assert.True(t, schederr.Is(err, schederr.KindConflict))

	assert.NoError(t, p.Stage(reschedule(1, nextDay, "12:00", "13:00"), committed))
}

func TestStage_Refusals(t *testing.T) {
	p := twoAppointmentPlan()

	err := p.Stage(reschedule(1, dayOff, "19:00", "20:00"), nil)
	assert.True(t, schederr.HasReason(err, schederr.ReasonTargetIsDayOff))

	err = p.Stage(reschedule(3, nextDay, "12:00", "13:00"), nil)
	assert.True(t, schederr.HasReason(err, schederr.ReasonNotInPlan))

	err = p.Stage(reschedule(1, nextDay, "13:00", "12:00"), nil)
	assert.True(t, schederr.HasReason(err, schederr.ReasonStartNotBeforeEnd))

	err = p.Stage(Decision{AppointmentID: 1, Action: "postpone"}, nil)
	assert.True(t, schederr.Is(err, schederr.KindFormat))

	assert.Empty(t, p.Decisions)
}

func TestStage_ReplaceAndUnstage(t *testing.T) {
	p := twoAppointmentPlan()

	require.NoError(t, p.Stage(reschedule(1, nextDay, "12:00", "13:00"), nil))
	require.NoError(t, p.Stage(Decision{AppointmentID: 1, Action: ActionCancel, Reason: "sick"}, nil))
	assert.Equal(t, ActionCancel, p.Decisions[1].Action)
	assert.Empty(t, p.TargetDates())

	require.NoError(t, p.Unstage(1))
	assert.Equal(t, []uint{1, 2}, p.Missing())
	assert.True(t, schederr.HasReason(p.Unstage(99), schederr.ReasonNotInPlan))
}

func TestTargetDates(t *testing.T) {
	p := twoAppointmentPlan()
	later := dayOff.AddDate(0, 0, 5)

	require.NoError(t, p.Stage(reschedule(2, later, "10:00", "11:00"), nil))
	require.NoError(t, p.Stage(reschedule(1, nextDay, "10:00", "11:00"), nil))

	assert.Equal(t, []time.Time{nextDay, later}, p.TargetDates())
}

func TestResolve_RefusesMissingDecisions(t *testing.T) {
	p := twoAppointmentPlan()
	require.NoError(t, p.Stage(reschedule(1, nextDay, "12:00", "13:00"), nil))

	_, err := p.Resolve(p.Affected, now)
	e, ok := schederr.As(err)
	require.True(t, ok)
	assert.Equal(t, schederr.KindReconciliationIncomplete, e.Kind)
	assert.Equal(t, []uint{2}, e.Pending)
}

func TestResolve_RefusesNewAppointmentOnTheDay(t *testing.T) {
	p := twoAppointmentPlan()
	require.NoError(t, p.Stage(reschedule(1, nextDay, "12:00", "13:00"), nil))
	require.NoError(t, p.Stage(Decision{AppointmentID: 2, Action: ActionCancel}, nil))

	current := append([]appointment.Appointment{}, p.Affected...)
	current = append(current, apt(9, dayOff, "09:00", "09:30", appointment.StatusPending))

	_, err := p.Resolve(current, now)
	assert.True(t, schederr.HasReason(err, schederr.ReasonNewAppointments))
}

func TestResolve_ProducesChangeSet(t *testing.T) {
	p := twoAppointmentPlan()
	require.NoError(t, p.Stage(reschedule(1, nextDay, "12:00", "13:00"), nil))
	require.NoError(t, p.Stage(Decision{AppointmentID: 2, Action: ActionCancel, Reason: "closed"}, nil))

	changes, err := p.Resolve(p.Affected, now)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	moved := changes[0]
	assert.Equal(t, uint(1), moved.ID)
	assert.Equal(t, nextDay, moved.Date)
	assert.Equal(t, hm("12:00"), moved.Start)
	assert.Equal(t, appointment.StatusConfirmed, moved.Status)

	cancelled := changes[1]
	assert.Equal(t, appointment.StatusCancelled, cancelled.Status)
	assert.Equal(t, "closed", cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledAt)
}

func TestResolve_RevalidatesAgainstFreshSnapshot(t *testing.T) {
	p := twoAppointmentPlan()
	require.NoError(t, p.Stage(reschedule(1, nextDay, "12:00", "13:00"), nil))
	require.NoError(t, p.Stage(Decision{AppointmentID: 2, Action: ActionCancel}, nil))

	current := append([]appointment.Appointment{}, p.Affected...)
	current = append(current, apt(8, nextDay, "12:30", "13:00", appointment.StatusConfirmed))

	_, err := p.Resolve(current, now)
	assert.True(t, schederr.Is(err, schederr.KindConflict))
}

func TestResolve_SkipsAppointmentsThatLeftTheDay(t *testing.T) {
	p := twoAppointmentPlan()
	require.NoError(t, p.Stage(reschedule(1, nextDay, "12:00", "13:00"), nil))

	cancelledMeanwhile := apt(2, dayOff, "14:00", "15:00", appointment.StatusCancelled)
	changes, err := p.Resolve([]appointment.Appointment{p.Affected[0], cancelledMeanwhile}, now)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, uint(1), changes[0].ID)
}
