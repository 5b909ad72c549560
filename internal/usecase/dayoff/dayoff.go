// Package dayoff turns a working day into a day off. The owner opens a
// plan, decides what happens to every booked appointment, and commits
// the decisions and the deletion as one unit.
package dayoff

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/dayoff"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

func loadPlan(ctx context.Context, store cache.PlanStore, providerID uint, id string) (*domain.Plan, error) {
	plan, err := store.Load(ctx, providerID, id)
	if errors.Is(err, cache.ErrPlanNotFound) {
		return nil, httperr.ErrBusiness("plan_not_found")
	}
	return plan, err
}

// ======================================================
// START
// ======================================================

type StartPlanInput struct {
	ProviderID   uint
	WorkingDayID uint
}

type StartPlan struct {
	repo  schedule.Repository
	store cache.PlanStore
	clock timezone.Clock
}

func NewStartPlan(repo schedule.Repository, store cache.PlanStore, clock timezone.Clock) *StartPlan {
	return &StartPlan{repo: repo, store: store, clock: clock}
}

func (uc *StartPlan) Execute(ctx context.Context, in StartPlanInput) (*domain.Plan, error) {
	day, err := uc.repo.GetWorkingDayByID(ctx, in.ProviderID, in.WorkingDayID)
	if errors.Is(err, schedule.ErrNotFound) {
		return nil, httperr.ErrBusiness("working_day_not_found")
	}
	if err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListActiveAppointments(ctx, day.ProviderID, day.Date)
	if err != nil {
		return nil, err
	}

	plan := domain.NewPlan(uuid.NewString(), *day, appointments, uc.clock.Now().UTC())
	if err := uc.store.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ======================================================
// GET
// ======================================================

type GetPlan struct {
	store cache.PlanStore
}

func NewGetPlan(store cache.PlanStore) *GetPlan {
	return &GetPlan{store: store}
}

func (uc *GetPlan) Execute(ctx context.Context, providerID uint, planID string) (*domain.Plan, error) {
	return loadPlan(ctx, uc.store, providerID, planID)
}

// ======================================================
// STAGE / UNSTAGE
// ======================================================

type StageDecisionInput struct {
	ProviderID    uint
	PlanID        string
	AppointmentID uint
	Action        string

	// Reschedule target. EndTime defaults to StartTime plus the
	// appointment's duration.
	Date      string
	StartTime string
	EndTime   string

	// Cancel reason.
	Reason string
}

type StageDecision struct {
	repo  schedule.Repository
	store cache.PlanStore
}

func NewStageDecision(repo schedule.Repository, store cache.PlanStore) *StageDecision {
	return &StageDecision{repo: repo, store: store}
}

func (uc *StageDecision) Execute(ctx context.Context, in StageDecisionInput) (*domain.Plan, error) {
	action, err := domain.ParseAction(in.Action)
	if err != nil {
		return nil, err
	}

	plan, err := loadPlan(ctx, uc.store, in.ProviderID, in.PlanID)
	if err != nil {
		return nil, err
	}

	decision := domain.Decision{
		AppointmentID: in.AppointmentID,
		Action:        action,
		Reason:        in.Reason,
	}

	var committed []appointment.Appointment
	if action == domain.ActionReschedule {
		if decision.Date, err = clocktime.ParseDate(in.Date); err != nil {
			return nil, err
		}
		if decision.Start, err = clocktime.Parse(in.StartTime); err != nil {
			return nil, err
		}

		decision.End = decision.Start
		if in.EndTime != "" {
			if decision.End, err = clocktime.Parse(in.EndTime); err != nil {
				return nil, err
			}
		} else if ap, ok := affected(plan, in.AppointmentID); ok {
			decision.End = clocktime.AddMinutes(decision.Start, durationOf(ap))
		}

		committed, err = uc.repo.ListActiveAppointments(ctx, plan.ProviderID, decision.Date)
		if err != nil {
			return nil, err
		}
	}

	if err := plan.Stage(decision, committed); err != nil {
		return nil, err
	}
	if err := uc.store.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

type UnstageDecision struct {
	store cache.PlanStore
}

func NewUnstageDecision(store cache.PlanStore) *UnstageDecision {
	return &UnstageDecision{store: store}
}

func (uc *UnstageDecision) Execute(ctx context.Context, providerID uint, planID string, appointmentID uint) (*domain.Plan, error) {
	plan, err := loadPlan(ctx, uc.store, providerID, planID)
	if err != nil {
		return nil, err
	}
	if err := plan.Unstage(appointmentID); err != nil {
		return nil, err
	}
	if err := uc.store.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ======================================================
// COMMIT
// ======================================================

type CommitPlanInput struct {
	ProviderID uint
	UserID     uint
	PlanID     string
}

type CommitResult struct {
	Changes []appointment.Appointment `json:"changes"`
	Report  schedule.DeletionReport   `json:"report"`
}

// CommitPlan applies every staged decision and deletes the working day in
// one transaction. On any failure nothing is written and the plan stays
// stored so the owner can fix it and retry.
type CommitPlan struct {
	repo  schedule.Repository
	store cache.PlanStore
	cache cache.SlotCache
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewCommitPlan(
	repo schedule.Repository,
	store cache.PlanStore,
	slotCache cache.SlotCache,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *CommitPlan {
	return &CommitPlan{
		repo:  repo,
		store: store,
		cache: slotCache,
		audit: audit,
		clock: clock,
	}
}

func (uc *CommitPlan) Execute(ctx context.Context, in CommitPlanInput) (*CommitResult, error) {
	plan, err := loadPlan(ctx, uc.store, in.ProviderID, in.PlanID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	dates := append([]time.Time{plan.Date}, plan.TargetDates()...)
	result := &CommitResult{}

	err = uc.repo.Transaction(ctx, func(tx schedule.Repository) error {
		day, err := tx.GetWorkingDayByID(ctx, plan.ProviderID, plan.WorkingDayID)
		if errors.Is(err, schedule.ErrNotFound) {
			return httperr.ErrBusiness("working_day_not_found")
		}
		if err != nil {
			return err
		}

		current, err := tx.ListActiveAppointments(ctx, plan.ProviderID, dates...)
		if err != nil {
			return err
		}

		changes, err := plan.Resolve(current, now)
		if err != nil {
			return err
		}
		for i := range changes {
			if err := tx.UpdateAppointment(ctx, &changes[i]); err != nil {
				return err
			}
		}

		breaks, err := tx.ListBreaks(ctx, day.ID)
		if err != nil {
			return err
		}
		left, err := tx.ListActiveAppointments(ctx, plan.ProviderID, day.Date)
		if err != nil {
			return err
		}
		report, err := schedule.ValidateWorkingDayDeletion(*day, breaks, left)
		if err != nil {
			return err
		}

		if err := tx.DeleteBreaksForDay(ctx, day.ID); err != nil {
			return err
		}
		if err := tx.DeleteWorkingDay(ctx, day.ID); err != nil {
			return err
		}

		result.Changes = changes
		result.Report = report
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.store.Delete(ctx, plan.ProviderID, plan.ID); err != nil {
		log.Warn().Err(err).Str("plan_id", plan.ID).Msg("committed day-off plan not removed")
	}
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, plan.ProviderID, dates...)
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: plan.ProviderID,
		UserID:     &in.UserID,
		Action:     audit.ActionDayOffCommitted,
		Entity:     "working_day",
		EntityID:   &plan.WorkingDayID,
		Metadata: map[string]any{
			"plan_id": plan.ID,
			"date":    clocktime.FormatDate(plan.Date),
			"changes": len(result.Changes),
		},
	})

	return result, nil
}

func affected(plan *domain.Plan, id uint) (appointment.Appointment, bool) {
	for _, ap := range plan.Affected {
		if ap.ID == id {
			return ap, true
		}
	}
	return appointment.Appointment{}, false
}

func durationOf(ap appointment.Appointment) int {
	if ap.Duration > 0 {
		return ap.Duration
	}
	return int(ap.End - ap.Start)
}
