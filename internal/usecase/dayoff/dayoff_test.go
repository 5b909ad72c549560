package dayoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

var (
	dayOff  = time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	nextDay = dayOff.AddDate(0, 0, 1)
	clock   = timezone.FixedClock{T: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
)

type fixture struct {
	repo  *repository.MemoryRepository
	store *cache.MemoryPlanStore
	slots *cache.MemorySlotCache

	provider models.Provider
	day      *schedule.WorkingDay
	// a is 10-11 confirmed and b 14-15 pending on the day off, c 10-11
	// confirmed on the next day.
	a, b, c *appointment.Appointment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		repo:  repository.NewMemoryRepository(),
		store: cache.NewMemoryPlanStore(time.Hour),
		slots: cache.NewMemorySlotCache(64, time.Minute),
	}
	f.provider = f.repo.AddProvider(models.Provider{Name: "Studio Ana", Slug: "studio-ana"})

	f.day = &schedule.WorkingDay{
		ProviderID:   f.provider.ID,
		Date:         dayOff,
		Start:        clocktime.MustParse("09:00"),
		End:          clocktime.MustParse("18:00"),
		SlotInterval: 30,
	}
	require.NoError(t, f.repo.CreateWorkingDay(ctx, f.day))
	require.NoError(t, f.repo.CreateBreak(ctx, &schedule.Break{
		WorkingDayID: f.day.ID,
		Start:        clocktime.MustParse("12:00"),
		End:          clocktime.MustParse("13:00"),
	}))

	f.a = f.book(t, dayOff, "10:00", "11:00", appointment.StatusConfirmed)
	f.b = f.book(t, dayOff, "14:00", "15:00", appointment.StatusPending)
	f.c = f.book(t, nextDay, "10:00", "11:00", appointment.StatusConfirmed)
	return f
}

func (f *fixture) book(t *testing.T, date time.Time, start, end string, status appointment.Status) *appointment.Appointment {
	t.Helper()
	ap := &appointment.Appointment{
		ProviderID: f.provider.ID,
		Date:       date,
		Start:      clocktime.MustParse(start),
		End:        clocktime.MustParse(end),
		Duration:   int(clocktime.MustParse(end) - clocktime.MustParse(start)),
		Status:     status,
	}
	require.NoError(t, f.repo.CreateAppointment(context.Background(), ap))
	return ap
}

func (f *fixture) start(t *testing.T) string {
	t.Helper()
	plan, err := NewStartPlan(f.repo, f.store, clock).Execute(context.Background(), StartPlanInput{
		ProviderID:   f.provider.ID,
		WorkingDayID: f.day.ID,
	})
	require.NoError(t, err)
	return plan.ID
}

func (f *fixture) stage(planID string, in StageDecisionInput) error {
	in.ProviderID = f.provider.ID
	in.PlanID = planID
	_, err := NewStageDecision(f.repo, f.store).Execute(context.Background(), in)
	return err
}

func (f *fixture) commit(planID string) (*CommitResult, error) {
	uc := NewCommitPlan(f.repo, f.store, f.slots, nil, clock)
	return uc.Execute(context.Background(), CommitPlanInput{ProviderID: f.provider.ID, PlanID: planID})
}

// stageAll moves a to 11:00 on the next day and cancels b.
func (f *fixture) stageAll(t *testing.T, planID string) {
	t.Helper()
	require.NoError(t, f.stage(planID, StageDecisionInput{
		AppointmentID: f.a.ID, Action: "reschedule", Date: "2026-06-11", StartTime: "11:00",
	}))
	require.NoError(t, f.stage(planID, StageDecisionInput{
		AppointmentID: f.b.ID, Action: "cancel", Reason: "day off",
	}))
}

func TestStartPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.start(t)
	assert.NotEmpty(t, id)

	plan, err := NewGetPlan(f.store).Execute(ctx, f.provider.ID, id)
	require.NoError(t, err)
	require.Len(t, plan.Affected, 2)
	assert.Equal(t, f.a.ID, plan.Affected[0].ID)
	assert.Equal(t, []uint{f.a.ID, f.b.ID}, plan.Missing())

	_, err = NewGetPlan(f.store).Execute(ctx, f.provider.ID+1, id)
	assert.ErrorIs(t, err, httperr.ErrBusiness("plan_not_found"))

	_, err = NewStartPlan(f.repo, f.store, clock).Execute(ctx, StartPlanInput{ProviderID: f.provider.ID, WorkingDayID: 999})
	assert.ErrorIs(t, err, httperr.ErrBusiness("working_day_not_found"))
}

func TestStageDecision(t *testing.T) {
	f := newFixture(t)
	id := f.start(t)

	err := f.stage(id, StageDecisionInput{
		AppointmentID: f.a.ID, Action: "reschedule", Date: "2026-06-11", StartTime: "10:30",
	})
	require.True(t, schederr.Is(err, schederr.KindConflict))
	e, _ := schederr.As(err)
	assert.Equal(t, f.c.ID, e.With[0].ID)

	require.NoError(t, f.stage(id, StageDecisionInput{
		AppointmentID: f.a.ID, Action: "reschedule", Date: "2026-06-11", StartTime: "11:00",
	}))

	// b would land on the slot already promised to a.
	err = f.stage(id, StageDecisionInput{
		AppointmentID: f.b.ID, Action: "reschedule", Date: "2026-06-11", StartTime: "11:30",
	})
	require.True(t, schederr.Is(err, schederr.KindConflict))
	e, _ = schederr.As(err)
	assert.Equal(t, f.a.ID, e.With[0].ID)

	err = f.stage(id, StageDecisionInput{
		AppointmentID: f.b.ID, Action: "reschedule", Date: "2026-06-10", StartTime: "16:00",
	})
	assert.True(t, schederr.HasReason(err, schederr.ReasonTargetIsDayOff))

	err = f.stage(id, StageDecisionInput{AppointmentID: f.c.ID, Action: "cancel"})
	assert.True(t, schederr.HasReason(err, schederr.ReasonNotInPlan))

	err = f.stage(id, StageDecisionInput{AppointmentID: f.b.ID, Action: "postpone"})
	assert.True(t, schederr.Is(err, schederr.KindFormat))

	plan, err := NewGetPlan(f.store).Execute(context.Background(), f.provider.ID, id)
	require.NoError(t, err)
	require.Contains(t, plan.Decisions, f.a.ID)
	assert.Equal(t, "12:00", plan.Decisions[f.a.ID].End.String())
	assert.Equal(t, []uint{f.b.ID}, plan.Missing())

	plan, err = NewUnstageDecision(f.store).Execute(context.Background(), f.provider.ID, id, f.a.ID)
	require.NoError(t, err)
	assert.Len(t, plan.Missing(), 2)
}

func TestCommitPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.start(t)
	f.stageAll(t, id)

	res, err := f.commit(id)
	require.NoError(t, err)
	assert.Len(t, res.Changes, 2)
	assert.Len(t, res.Report.Breaks, 1)

	a, err := f.repo.GetAppointment(ctx, f.provider.ID, f.a.ID)
	require.NoError(t, err)
	assert.Equal(t, nextDay, a.Date)
	assert.Equal(t, "11:00", a.Start.String())
	assert.Equal(t, appointment.StatusConfirmed, a.Status)

	b, err := f.repo.GetAppointment(ctx, f.provider.ID, f.b.ID)
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCancelled, b.Status)
	assert.Equal(t, "day off", b.CancelReason)

	_, err = f.repo.GetWorkingDayByID(ctx, f.provider.ID, f.day.ID)
	assert.ErrorIs(t, err, schedule.ErrNotFound)

	breaks, err := f.repo.ListBreaks(ctx, f.day.ID)
	require.NoError(t, err)
	assert.Empty(t, breaks)

	_, err = NewGetPlan(f.store).Execute(ctx, f.provider.ID, id)
	assert.ErrorIs(t, err, httperr.ErrBusiness("plan_not_found"))
}

func TestCommitPlan_MissingDecision(t *testing.T) {
	f := newFixture(t)
	id := f.start(t)
	require.NoError(t, f.stage(id, StageDecisionInput{AppointmentID: f.a.ID, Action: "cancel"}))

	_, err := f.commit(id)
	require.True(t, schederr.HasReason(err, schederr.ReasonMissingDecisions))
	e, _ := schederr.As(err)
	assert.Equal(t, []uint{f.b.ID}, e.Pending)

	a, err := f.repo.GetAppointment(context.Background(), f.provider.ID, f.a.ID)
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusConfirmed, a.Status)
}

func TestCommitPlan_NewAppointmentOnTheDay(t *testing.T) {
	f := newFixture(t)
	id := f.start(t)
	f.stageAll(t, id)
	late := f.book(t, dayOff, "16:00", "17:00", appointment.StatusPending)

	_, err := f.commit(id)
	require.True(t, schederr.HasReason(err, schederr.ReasonNewAppointments))
	e, _ := schederr.As(err)
	assert.Equal(t, []uint{late.ID}, e.Pending)
}

func TestCommitPlan_TargetTakenSinceStaging(t *testing.T) {
	f := newFixture(t)
	id := f.start(t)
	f.stageAll(t, id)
	f.book(t, nextDay, "11:30", "12:30", appointment.StatusConfirmed)

	_, err := f.commit(id)
	assert.True(t, schederr.Is(err, schederr.KindConflict))

	_, err = f.repo.GetWorkingDayByID(context.Background(), f.provider.ID, f.day.ID)
	assert.NoError(t, err)
}

func TestCommitPlan_IsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.start(t)
	f.stageAll(t, id)

	boom := errors.New("disk full")
	f.repo.FailOn("DeleteWorkingDay", boom)

	_, err := f.commit(id)
	require.ErrorIs(t, err, boom)

	a, err := f.repo.GetAppointment(ctx, f.provider.ID, f.a.ID)
	require.NoError(t, err)
	assert.Equal(t, dayOff, a.Date)
	assert.Equal(t, "10:00", a.Start.String())

	b, err := f.repo.GetAppointment(ctx, f.provider.ID, f.b.ID)
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusPending, b.Status)

	breaks, err := f.repo.ListBreaks(ctx, f.day.ID)
	require.NoError(t, err)
	assert.Len(t, breaks, 1)

	_, err = NewGetPlan(f.store).Execute(ctx, f.provider.ID, id)
	require.NoError(t, err, "a failed commit keeps the plan")

	f.repo.FailOn("DeleteWorkingDay", nil)
	_, err = f.commit(id)
	assert.NoError(t, err)
}

func TestCommitPlan_EmptyDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	day := &schedule.WorkingDay{
		ProviderID: f.provider.ID, Date: nextDay.AddDate(0, 0, 1), Start: 540, End: 1080, SlotInterval: 30,
	}
	require.NoError(t, f.repo.CreateWorkingDay(ctx, day))

	plan, err := NewStartPlan(f.repo, f.store, clock).Execute(ctx, StartPlanInput{ProviderID: f.provider.ID, WorkingDayID: day.ID})
	require.NoError(t, err)
	assert.Empty(t, plan.Affected)

	res, err := f.commit(plan.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
}
