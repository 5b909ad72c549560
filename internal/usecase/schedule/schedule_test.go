package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schederr"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func setup(t *testing.T) (*repository.MemoryRepository, models.Provider) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	p := repo.AddProvider(models.Provider{
		Name:                "Studio Ana",
		Slug:                "studio-ana",
		Timezone:            "America/Sao_Paulo",
		DefaultSlotInterval: 15,
	})
	return repo, p
}

func openDay(t *testing.T, repo *repository.MemoryRepository, providerID uint, date, start, end string) *domain.WorkingDay {
	t.Helper()
	day, err := NewCreateWorkingDay(repo, nil).Execute(context.Background(), WorkingDayInput{
		ProviderID: providerID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
	})
	require.NoError(t, err)
	return day
}

func bookDirect(t *testing.T, repo *repository.MemoryRepository, providerID uint, date, start, end string) *appointment.Appointment {
	t.Helper()
	d, err := clocktime.ParseDate(date)
	require.NoError(t, err)
	ap := &appointment.Appointment{
		ProviderID: providerID,
		Date:       d,
		Start:      clocktime.MustParse(start),
		End:        clocktime.MustParse(end),
		Duration:   int(clocktime.MustParse(end) - clocktime.MustParse(start)),
		Status:     appointment.StatusConfirmed,
	}
	require.NoError(t, repo.CreateAppointment(context.Background(), ap))
	return ap
}

// ------------------------------------------------------
// Working days
// ------------------------------------------------------

func TestCreateWorkingDay(t *testing.T) {
	repo, p := setup(t)
	uc := NewCreateWorkingDay(repo, nil)
	ctx := context.Background()

	day := openDay(t, repo, p.ID, "2026-06-10", "09:00", "18:00")
	assert.NotZero(t, day.ID)
	assert.Equal(t, 15, day.SlotInterval)

	_, err := uc.Execute(ctx, WorkingDayInput{ProviderID: p.ID, Date: "2026-06-10", StartTime: "10:00", EndTime: "12:00"})
	assert.True(t, schederr.HasReason(err, schederr.ReasonWorkingDayExists))

	_, err = uc.Execute(ctx, WorkingDayInput{ProviderID: p.ID, Date: "2026-06-11", StartTime: "18:00", EndTime: "09:00"})
	assert.True(t, schederr.Is(err, schederr.KindInvalidRange))

	_, err = uc.Execute(ctx, WorkingDayInput{ProviderID: p.ID, Date: "2026-06-11", StartTime: "9h", EndTime: "18:00"})
	assert.True(t, schederr.Is(err, schederr.KindFormat))

	_, err = uc.Execute(ctx, WorkingDayInput{ProviderID: 999, Date: "2026-06-11", StartTime: "09:00", EndTime: "18:00"})
	assert.ErrorIs(t, err, httperr.ErrBusiness("provider_not_found"))
}

func TestUpdateWorkingDay(t *testing.T) {
	repo, p := setup(t)
	ctx := context.Background()
	day := openDay(t, repo, p.ID, "2026-06-10", "09:00", "18:00")
	uc := NewUpdateWorkingDay(repo, nil)

	t.Run("extends", func(t *testing.T) {
		got, err := uc.Execute(ctx, UpdateWorkingDayInput{
			ProviderID: p.ID, WorkingDayID: day.ID, StartTime: "08:00", EndTime: "19:00", SlotInterval: 30,
		})
		require.NoError(t, err)
		assert.Equal(t, "08:00", got.Start.String())
		assert.Equal(t, 30, got.SlotInterval)
	})

	t.Run("strands an appointment", func(t *testing.T) {
		ap := bookDirect(t, repo, p.ID, "2026-06-10", "17:00", "18:00")

		_, err := uc.Execute(ctx, UpdateWorkingDayInput{
			ProviderID: p.ID, WorkingDayID: day.ID, StartTime: "09:00", EndTime: "17:30",
		})
		require.True(t, schederr.HasReason(err, schederr.ReasonAppointmentOutsideHours))

		e, _ := schederr.As(err)
		require.Len(t, e.With, 1)
		assert.Equal(t, ap.ID, e.With[0].ID)
	})

	t.Run("strands a break", func(t *testing.T) {
		_, err := NewSaveBreak(repo, nil).Execute(ctx, BreakInput{
			ProviderID: p.ID, WorkingDayID: day.ID, StartTime: "08:00", EndTime: "08:30",
		})
		require.NoError(t, err)

		_, err = uc.Execute(ctx, UpdateWorkingDayInput{
			ProviderID: p.ID, WorkingDayID: day.ID, StartTime: "09:00", EndTime: "19:00",
		})
		assert.True(t, schederr.HasReason(err, schederr.ReasonBreakOutsideHours))
	})

	t.Run("other provider", func(t *testing.T) {
		_, err := uc.Execute(ctx, UpdateWorkingDayInput{
			ProviderID: p.ID + 100, WorkingDayID: day.ID, StartTime: "09:00", EndTime: "19:00",
		})
		assert.ErrorIs(t, err, httperr.ErrBusiness("working_day_not_found"))
	})
}

func TestDeleteWorkingDay(t *testing.T) {
	repo, p := setup(t)
	ctx := context.Background()
	day := openDay(t, repo, p.ID, "2026-06-10", "09:00", "18:00")

	_, err := NewSaveBreak(repo, nil).Execute(ctx, BreakInput{
		ProviderID: p.ID, WorkingDayID: day.ID, StartTime: "12:00", EndTime: "13:00",
	})
	require.NoError(t, err)
	ap := bookDirect(t, repo, p.ID, "2026-06-10", "10:00", "11:00")

	uc := NewDeleteWorkingDay(repo, nil, nil)

	_, err = uc.Execute(ctx, DeleteWorkingDayInput{ProviderID: p.ID, WorkingDayID: day.ID})
	require.True(t, schederr.HasReason(err, schederr.ReasonActiveAppointments))

	_, err = repo.GetWorkingDayByID(ctx, p.ID, day.ID)
	require.NoError(t, err, "refused deletion keeps the day")

	require.NoError(t, appointment.Cancel(ap, time.Now(), "closing"))
	require.NoError(t, repo.UpdateAppointment(ctx, ap))

	report, err := uc.Execute(ctx, DeleteWorkingDayInput{ProviderID: p.ID, WorkingDayID: day.ID})
	require.NoError(t, err)
	assert.Len(t, report.Breaks, 1)

	_, err = repo.GetWorkingDayByID(ctx, p.ID, day.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	breaks, err := repo.ListBreaks(ctx, day.ID)
	require.NoError(t, err)
	assert.Empty(t, breaks)
}

func TestListWorkingDays(t *testing.T) {
	repo, p := setup(t)
	ctx := context.Background()
	first := openDay(t, repo, p.ID, "2026-06-10", "09:00", "18:00")
	openDay(t, repo, p.ID, "2026-06-12", "09:00", "13:00")
	openDay(t, repo, p.ID, "2026-06-20", "09:00", "13:00")

	_, err := NewSaveBreak(repo, nil).Execute(ctx, BreakInput{
		ProviderID: p.ID, WorkingDayID: first.ID, StartTime: "12:00", EndTime: "13:00",
	})
	require.NoError(t, err)

	days, err := NewListWorkingDays(repo).Execute(ctx, p.ID, "2026-06-10", "2026-06-12")
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Len(t, days[0].Breaks, 1)
	assert.Empty(t, days[1].Breaks)
}

// ------------------------------------------------------
// Bulk
// ------------------------------------------------------

func TestBulkCreateWorkingDays(t *testing.T) {
	repo, p := setup(t)
	ctx := context.Background()
	openDay(t, repo, p.ID, "2026-06-03", "10:00", "12:00")

	uc := NewBulkCreateWorkingDays(repo, nil)
	in := BulkWorkingDaysInput{
		ProviderID: p.ID,
		From:       "2026-06-01",
		To:         "2026-06-14",
		Weekdays:   []time.Weekday{time.Monday, time.Wednesday},
		StartTime:  "09:00",
		EndTime:    "18:00",
	}

	_, err := uc.Execute(ctx, in)
	require.True(t, schederr.HasReason(err, schederr.ReasonWorkingDayExists))

	from, _ := clocktime.ParseDate("2026-06-01")
	days, err := repo.ListWorkingDays(ctx, p.ID, from, from.AddDate(0, 0, 14))
	require.NoError(t, err)
	assert.Len(t, days, 1, "a failed batch creates nothing")

	in.SkipExisting = true
	res, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-06-03"}, res.Skipped)
	require.Len(t, res.Created, 3)
	assert.Equal(t, "2026-06-01", clocktime.FormatDate(res.Created[0].Date))
	assert.Equal(t, "2026-06-10", clocktime.FormatDate(res.Created[2].Date))
}

func TestBulkCreateWorkingDays_Ranges(t *testing.T) {
	repo, p := setup(t)
	uc := NewBulkCreateWorkingDays(repo, nil)
	ctx := context.Background()

	_, err := uc.Execute(ctx, BulkWorkingDaysInput{
		ProviderID: p.ID, From: "2026-01-01", To: "2027-01-02", StartTime: "09:00", EndTime: "18:00",
	})
	assert.True(t, schederr.HasReason(err, schederr.ReasonRangeTooLong))

	_, err = uc.Execute(ctx, BulkWorkingDaysInput{
		ProviderID: p.ID, From: "2026-06-10", To: "2026-06-01", StartTime: "09:00", EndTime: "18:00",
	})
	assert.True(t, schederr.Is(err, schederr.KindInvalidRange))

	res, err := uc.Execute(ctx, BulkWorkingDaysInput{
		ProviderID: p.ID, From: "2026-06-01", To: "2026-06-07", StartTime: "09:00", EndTime: "18:00",
	})
	require.NoError(t, err)
	assert.Len(t, res.Created, 7)
}

// ------------------------------------------------------
// Breaks
// ------------------------------------------------------

func TestBreaks(t *testing.T) {
	repo, p := setup(t)
	ctx := context.Background()
	day := openDay(t, repo, p.ID, "2026-06-10", "09:00", "18:00")
	save := NewSaveBreak(repo, nil)

	lunch, err := save.Execute(ctx, BreakInput{ProviderID: p.ID, WorkingDayID: day.ID, StartTime: "12:00", EndTime: "13:00"})
	require.NoError(t, err)
	assert.NotZero(t, lunch.ID)

	_, err = save.Execute(ctx, BreakInput{ProviderID: p.ID, WorkingDayID: day.ID, StartTime: "12:30", EndTime: "13:30"})
	assert.True(t, schederr.HasReason(err, schederr.ReasonBreakOverlap))

	_, err = save.Execute(ctx, BreakInput{ProviderID: p.ID, WorkingDayID: day.ID, StartTime: "17:30", EndTime: "18:30"})
	assert.True(t, schederr.HasReason(err, schederr.ReasonBreakOutsideHours))

	_, err = save.Execute(ctx, BreakInput{ProviderID: p.ID, WorkingDayID: day.ID, StartTime: "13:00", EndTime: "13:15"})
	require.NoError(t, err, "touching breaks do not overlap")

	moved, err := save.Execute(ctx, BreakInput{
		ProviderID: p.ID, WorkingDayID: day.ID, BreakID: lunch.ID, StartTime: "11:30", EndTime: "12:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "11:30", moved.Start.String())

	_, err = save.Execute(ctx, BreakInput{
		ProviderID: p.ID, WorkingDayID: day.ID, BreakID: 999, StartTime: "15:00", EndTime: "15:30",
	})
	assert.ErrorIs(t, err, httperr.ErrBusiness("break_not_found"))

	list, err := NewListBreaks(repo).Execute(ctx, p.ID, day.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "11:30", list[0].Start.String())

	require.NoError(t, NewDeleteBreak(repo, nil).Execute(ctx, p.ID, day.ID, lunch.ID))
	assert.ErrorIs(t, NewDeleteBreak(repo, nil).Execute(ctx, p.ID, day.ID, lunch.ID), httperr.ErrBusiness("break_not_found"))

	list, err = NewListBreaks(repo).Execute(ctx, p.ID, day.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSaveBreak_ConcurrentOverlappingBreaksAdmitOne(t *testing.T) {
	repo, p := setup(t)
	ctx := context.Background()
	day := openDay(t, repo, p.ID, "2026-06-10", "09:00", "18:00")
	save := NewSaveBreak(repo, nil)

	windows := [][2]string{{"12:00", "13:00"}, {"12:30", "13:30"}, {"11:45", "12:45"}, {"12:00", "13:00"}, {"12:15", "14:00"}, {"11:00", "12:35"}}
	errs := make([]error, len(windows))
	var wg sync.WaitGroup
	for i, w := range windows {
		wg.Add(1)
		go func(i int, start, end string) {
			defer wg.Done()
			_, errs[i] = save.Execute(ctx, BreakInput{ProviderID: p.ID, WorkingDayID: day.ID, StartTime: start, EndTime: end})
		}(i, w[0], w[1])
	}
	wg.Wait()

	saved := 0
	for _, err := range errs {
		if err == nil {
			saved++
			continue
		}
		assert.True(t, schederr.HasReason(err, schederr.ReasonBreakOverlap), err)
	}
	assert.Equal(t, 1, saved)

	list, err := NewListBreaks(repo).Execute(ctx, p.ID, day.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
