package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/dayoff"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/dayoff"
)

// DayOffHandler drives the day-off flow: open a plan for a working day,
// stage a decision per appointment, commit.
type DayOffHandler struct {
	start   *dayoff.StartPlan
	get     *dayoff.GetPlan
	stage   *dayoff.StageDecision
	unstage *dayoff.UnstageDecision
	commit  *dayoff.CommitPlan
}

func NewDayOffHandler(
	start *dayoff.StartPlan,
	get *dayoff.GetPlan,
	stage *dayoff.StageDecision,
	unstage *dayoff.UnstageDecision,
	commit *dayoff.CommitPlan,
) *DayOffHandler {
	return &DayOffHandler{
		start:   start,
		get:     get,
		stage:   stage,
		unstage: unstage,
		commit:  commit,
	}
}

type StartPlanRequest struct {
	WorkingDayID uint `json:"working_day_id" binding:"required"`
}

type StageDecisionRequest struct {
	Action    string `json:"action" binding:"required"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
}

type planView struct {
	ID           string                   `json:"id"`
	WorkingDayID uint                     `json:"working_day_id"`
	Date         string                   `json:"date"`
	Affected     []dto.AppointmentListDTO `json:"affected"`
	Decisions    map[uint]domain.Decision `json:"decisions"`
	Missing      []uint                   `json:"missing"`
}

func newPlanView(p *domain.Plan) planView {
	decisions := p.Decisions
	if decisions == nil {
		decisions = map[uint]domain.Decision{}
	}
	return planView{
		ID:           p.ID,
		WorkingDayID: p.WorkingDayID,
		Date:         clocktime.FormatDate(p.Date),
		Affected:     dto.NewAppointmentList(p.Affected),
		Decisions:    decisions,
		Missing:      p.Missing(),
	}
}

func (h *DayOffHandler) Start(c *gin.Context) {
	var req StartPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	plan, err := h.start.Execute(c.Request.Context(), dayoff.StartPlanInput{
		ProviderID:   middleware.ProviderID(c),
		WorkingDayID: req.WorkingDayID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, newPlanView(plan))
}

func (h *DayOffHandler) Get(c *gin.Context) {
	plan, err := h.get.Execute(c.Request.Context(), middleware.ProviderID(c), c.Param("planId"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlanView(plan))
}

func (h *DayOffHandler) Stage(c *gin.Context) {
	appointmentID, ok := uintParam(c, "appointmentId")
	if !ok {
		return
	}

	var req StageDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	plan, err := h.stage.Execute(c.Request.Context(), dayoff.StageDecisionInput{
		ProviderID:    middleware.ProviderID(c),
		PlanID:        c.Param("planId"),
		AppointmentID: appointmentID,
		Action:        req.Action,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Reason:        req.Reason,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, newPlanView(plan))
}

func (h *DayOffHandler) Unstage(c *gin.Context) {
	appointmentID, ok := uintParam(c, "appointmentId")
	if !ok {
		return
	}

	plan, err := h.unstage.Execute(c.Request.Context(), middleware.ProviderID(c), c.Param("planId"), appointmentID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, newPlanView(plan))
}

func (h *DayOffHandler) Commit(c *gin.Context) {
	res, err := h.commit.Execute(c.Request.Context(), dayoff.CommitPlanInput{
		ProviderID: middleware.ProviderID(c),
		UserID:     middleware.UserID(c),
		PlanID:     c.Param("planId"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	removed := make([]dto.BreakDTO, 0, len(res.Report.Breaks))
	for _, b := range res.Report.Breaks {
		removed = append(removed, dto.NewBreak(b))
	}
	c.JSON(http.StatusOK, gin.H{
		"changes":        dto.NewAppointmentList(res.Changes),
		"breaks_removed": removed,
	})
}
