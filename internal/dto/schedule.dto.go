package dto

import (
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
)

type BreakDTO struct {
	ID        uint   `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type WorkingDayDTO struct {
	ID           uint       `json:"id"`
	Date         string     `json:"date"`
	StartTime    string     `json:"start_time"`
	EndTime      string     `json:"end_time"`
	SlotInterval int        `json:"slot_interval"`
	Breaks       []BreakDTO `json:"breaks"`
}

type SlotDTO struct {
	Time      string `json:"time"`
	Duration  int    `json:"duration"`
	Available bool   `json:"available"`
}

func NewBreak(b schedule.Break) BreakDTO {
	return BreakDTO{ID: b.ID, StartTime: b.Start.String(), EndTime: b.End.String()}
}

func NewWorkingDay(d schedule.WorkingDay, breaks []schedule.Break) WorkingDayDTO {
	out := WorkingDayDTO{
		ID:           d.ID,
		Date:         clocktime.FormatDate(d.Date),
		StartTime:    d.Start.String(),
		EndTime:      d.End.String(),
		SlotInterval: d.SlotInterval,
		Breaks:       make([]BreakDTO, 0, len(breaks)),
	}
	for _, b := range breaks {
		if b.WorkingDayID == d.ID {
			out.Breaks = append(out.Breaks, NewBreak(b))
		}
	}
	return out
}

func NewSlots(slots []schedule.TimeSlot) []SlotDTO {
	out := make([]SlotDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotDTO{Time: s.Start.String(), Duration: s.Duration, Available: s.Available})
	}
	return out
}
