package schedule

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/clocktime"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// SlotRequest carries everything the generator needs for one day.
// A nil Day means the provider is off on that date.
type SlotRequest struct {
	Day             *WorkingDay
	Breaks          []Break
	Appointments    []appointment.Appointment
	ServiceDuration int
	Interval        int
	MinNoticeHours  int
	Location        *time.Location
	Clock           timezone.Clock
}

type blockedRange struct {
	start clocktime.Minutes
	end   clocktime.Minutes
}

// GenerateSlots steps through the working hours and returns one slot per
// start at which the service still fits before closing. Starts inside a
// break or an active appointment are not emitted at all.
func GenerateSlots(req SlotRequest) []TimeSlot {
	slots := make([]TimeSlot, 0)

	day := req.Day
	if day == nil || req.ServiceDuration <= 0 {
		return slots
	}

	interval := req.Interval
	if interval <= 0 {
		interval = day.SlotInterval
	}
	if interval <= 0 {
		interval = DefaultSlotInterval
	}

	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}
	clock := req.Clock
	if clock == nil {
		clock = timezone.SystemClock{}
	}

	now := clock.Now().In(loc)
	pastDate := clocktime.DateOf(day.Date).Before(clocktime.DateOf(now))
	earliest := now.Add(time.Duration(req.MinNoticeHours) * time.Hour)

	blocked := blockedRanges(day, req.Breaks, req.Appointments)
	duration := clocktime.Minutes(req.ServiceDuration)

	for t := day.Start; t+duration <= day.End; t += clocktime.Minutes(interval) {
		if insideAny(t, blocked) {
			continue
		}

		gapStart, gapEnd := freeGap(t, day, blocked)

		available := !pastDate &&
			!overlapsAny(t, t+duration, blocked) &&
			!clocktime.At(day.Date, t, loc).Before(earliest)

		slots = append(slots, TimeSlot{
			Start:     t,
			Duration:  int(gapEnd - gapStart),
			Available: available,
		})
	}

	return slots
}

// AvailableSlots filters GenerateSlots down to bookable starts.
func AvailableSlots(req SlotRequest) []TimeSlot {
	all := GenerateSlots(req)
	out := make([]TimeSlot, 0, len(all))
	for _, s := range all {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}

func blockedRanges(day *WorkingDay, breaks []Break, appointments []appointment.Appointment) []blockedRange {
	var out []blockedRange

	for _, b := range breaks {
		if b.WorkingDayID != 0 && day.ID != 0 && b.WorkingDayID != day.ID {
			continue
		}
		out = append(out, blockedRange{start: b.Start, end: b.End})
	}

	for _, ap := range activeOn(appointments, day.ProviderID, day.Date) {
		out = append(out, blockedRange{start: ap.Start, end: ap.End})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].start < out[j].start
	})
	return out
}

func insideAny(t clocktime.Minutes, blocked []blockedRange) bool {
	for _, b := range blocked {
		if b.start <= t && t < b.end {
			return true
		}
	}
	return false
}

func overlapsAny(start, end clocktime.Minutes, blocked []blockedRange) bool {
	for _, b := range blocked {
		if clocktime.Overlaps(start, end, b.start, b.end) {
			return true
		}
	}
	return false
}

// freeGap returns the bounds of the obstruction-free window around t.
// t must not be inside a blocked range.
func freeGap(t clocktime.Minutes, day *WorkingDay, blocked []blockedRange) (clocktime.Minutes, clocktime.Minutes) {
	start, end := day.Start, day.End
	for _, b := range blocked {
		if b.end <= t && b.end > start {
			start = b.end
		}
		if b.start > t && b.start < end {
			end = b.start
		}
	}
	return start, end
}
