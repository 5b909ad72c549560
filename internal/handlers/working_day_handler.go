package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/schedule"
)

// WorkingDayHandler manages the provider's calendar: dated working days
// and the breaks inside them.
type WorkingDayHandler struct {
	create *schedule.CreateWorkingDay
	bulk   *schedule.BulkCreateWorkingDays
	update *schedule.UpdateWorkingDay
	delete *schedule.DeleteWorkingDay
	list   *schedule.ListWorkingDays

	saveBreak   *schedule.SaveBreak
	deleteBreak *schedule.DeleteBreak
	listBreaks  *schedule.ListBreaks
}

type WorkingDayUseCases struct {
	Create *schedule.CreateWorkingDay
	Bulk   *schedule.BulkCreateWorkingDays
	Update *schedule.UpdateWorkingDay
	Delete *schedule.DeleteWorkingDay
	List   *schedule.ListWorkingDays

	SaveBreak   *schedule.SaveBreak
	DeleteBreak *schedule.DeleteBreak
	ListBreaks  *schedule.ListBreaks
}

func NewWorkingDayHandler(uc WorkingDayUseCases) *WorkingDayHandler {
	return &WorkingDayHandler{
		create:      uc.Create,
		bulk:        uc.Bulk,
		update:      uc.Update,
		delete:      uc.Delete,
		list:        uc.List,
		saveBreak:   uc.SaveBreak,
		deleteBreak: uc.DeleteBreak,
		listBreaks:  uc.ListBreaks,
	}
}

// --------- Requests ---------

type WorkingDayRequest struct {
	Date         string `json:"date" binding:"required"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	SlotInterval int    `json:"slot_interval"`
}

type UpdateWorkingDayRequest struct {
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	SlotInterval int    `json:"slot_interval"`
}

// BulkWorkingDaysRequest opens the same hours on the given weekdays
// (0 = Sunday) of a date range.
type BulkWorkingDaysRequest struct {
	From         string `json:"from" binding:"required"`
	To           string `json:"to" binding:"required"`
	Weekdays     []int  `json:"weekdays"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	SlotInterval int    `json:"slot_interval"`
	SkipExisting bool   `json:"skip_existing"`
}

type BreakRequest struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// --------- Working days ---------

func (h *WorkingDayHandler) List(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		httperr.BadRequest(c, "missing_range", "Período obrigatório.")
		return
	}

	days, err := h.list.Execute(c.Request.Context(), middleware.ProviderID(c), from, to)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]dto.WorkingDayDTO, 0, len(days))
	for _, d := range days {
		out = append(out, dto.NewWorkingDay(d.Day, d.Breaks))
	}
	httpresp.List(c, out)
}

func (h *WorkingDayHandler) Create(c *gin.Context) {
	var req WorkingDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	day, err := h.create.Execute(c.Request.Context(), schedule.WorkingDayInput{
		ProviderID:   middleware.ProviderID(c),
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		SlotInterval: req.SlotInterval,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.NewWorkingDay(*day, nil))
}

func (h *WorkingDayHandler) Bulk(c *gin.Context) {
	var req BulkWorkingDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	weekdays := make([]time.Weekday, 0, len(req.Weekdays))
	for _, wd := range req.Weekdays {
		if wd < 0 || wd > 6 {
			httperr.BadRequest(c, "invalid_weekday", "Dia da semana inválido.")
			return
		}
		weekdays = append(weekdays, time.Weekday(wd))
	}

	res, err := h.bulk.Execute(c.Request.Context(), schedule.BulkWorkingDaysInput{
		ProviderID:   middleware.ProviderID(c),
		From:         req.From,
		To:           req.To,
		Weekdays:     weekdays,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		SlotInterval: req.SlotInterval,
		SkipExisting: req.SkipExisting,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	created := make([]dto.WorkingDayDTO, 0, len(res.Created))
	for _, d := range res.Created {
		created = append(created, dto.NewWorkingDay(d, nil))
	}
	c.JSON(http.StatusCreated, gin.H{
		"created": created,
		"skipped": res.Skipped,
	})
}

func (h *WorkingDayHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateWorkingDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	day, err := h.update.Execute(c.Request.Context(), schedule.UpdateWorkingDayInput{
		ProviderID:   middleware.ProviderID(c),
		WorkingDayID: id,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		SlotInterval: req.SlotInterval,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewWorkingDay(*day, nil))
}

// Delete answers 409 with the blocking appointments while any remain.
func (h *WorkingDayHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	report, err := h.delete.Execute(c.Request.Context(), schedule.DeleteWorkingDayInput{
		ProviderID:   middleware.ProviderID(c),
		UserID:       middleware.UserID(c),
		WorkingDayID: id,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	removed := make([]dto.BreakDTO, 0, len(report.Breaks))
	for _, b := range report.Breaks {
		removed = append(removed, dto.NewBreak(b))
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id, "breaks_removed": removed})
}

// --------- Breaks ---------

func (h *WorkingDayHandler) ListBreaks(c *gin.Context) {
	dayID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	breaks, err := h.listBreaks.Execute(c.Request.Context(), middleware.ProviderID(c), dayID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]dto.BreakDTO, 0, len(breaks))
	for _, b := range breaks {
		out = append(out, dto.NewBreak(b))
	}
	httpresp.List(c, out)
}

func (h *WorkingDayHandler) CreateBreak(c *gin.Context) {
	h.saveBreakFor(c, 0)
}

func (h *WorkingDayHandler) UpdateBreak(c *gin.Context) {
	breakID, ok := uintParam(c, "breakId")
	if !ok {
		return
	}
	h.saveBreakFor(c, breakID)
}

func (h *WorkingDayHandler) saveBreakFor(c *gin.Context, breakID uint) {
	dayID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req BreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	b, err := h.saveBreak.Execute(c.Request.Context(), schedule.BreakInput{
		ProviderID:   middleware.ProviderID(c),
		WorkingDayID: dayID,
		BreakID:      breakID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	status := http.StatusOK
	if breakID == 0 {
		status = http.StatusCreated
	}
	c.JSON(status, dto.NewBreak(*b))
}

func (h *WorkingDayHandler) DeleteBreak(c *gin.Context) {
	dayID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	breakID, ok := uintParam(c, "breakId")
	if !ok {
		return
	}

	if err := h.deleteBreak.Execute(c.Request.Context(), middleware.ProviderID(c), dayID, breakID); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
