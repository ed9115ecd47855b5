package schedule

import (
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// Slot is a bookable candidate of exactly the service duration. Buffer
// spacing is already excluded from its bounds.
type Slot struct {
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	DurationMin int       `json:"duration_min"`
}

// WeekInput feeds one ComputeWeek call. WeekStart must be a midnight in
// the clinic location; the window covers the following 7 days.
type WeekInput struct {
	Schedule    *models.DoctorSchedule
	ServiceID   uint
	DurationMin int
	WeekStart   time.Time
}

// ComputeWeek turns a doctor's schedule into the ordered candidate slots
// for a 7-day window. It is a pure function of its input: no clock reads,
// no storage access.
//
// Per day: holidays win over everything, an exception for the exact date
// wins over the weekly template, and a day with no entry or
// is_available=false yields nothing. Within each open interval, slots tile
// as [before][duration][after] blocks starting at interval start; a slot
// whose buffered block does not fit entirely inside the interval is
// dropped.
func ComputeWeek(in WeekInput) []Slot {
	sched := in.Schedule
	bufBefore, bufAfter := sched.BuffersFor(in.ServiceID)

	var out []Slot
	for d := 0; d < 7; d++ {
		day := in.WeekStart.AddDate(0, 0, d)

		if onHoliday(sched.Holidays, day) {
			continue
		}

		for _, open := range openIntervalsFor(sched, day) {
			out = append(out, tile(day, open, in.DurationMin, bufBefore, bufAfter)...)
		}
	}
	return out
}

type openInterval struct {
	start, end int // minutes since midnight
}

func openIntervalsFor(sched *models.DoctorSchedule, day time.Time) []openInterval {
	var slots []models.DaySlot

	if exc := sched.ExceptionFor(DateKey(day)); exc != nil {
		if !exc.IsAvailable {
			return nil
		}
		slots = exc.Slots
	} else if tpl := sched.TemplateFor(int(day.Weekday())); tpl != nil {
		if !tpl.IsAvailable {
			return nil
		}
		slots = tpl.Slots
	} else {
		return nil
	}

	out := make([]openInterval, 0, len(slots))
	for _, s := range slots {
		start, err := parseClock(s.StartTime)
		if err != nil {
			continue
		}
		end, err := parseClock(s.EndTime)
		if err != nil || start >= end {
			continue
		}
		out = append(out, openInterval{start: start, end: end})
	}
	return out
}

func tile(day time.Time, open openInterval, duration, bufBefore, bufAfter int) []Slot {
	if duration <= 0 {
		return nil
	}

	step := bufBefore + duration + bufAfter

	var out []Slot
	for cur := open.start + bufBefore; cur+duration+bufAfter <= open.end; cur += step {
		out = append(out, Slot{
			StartAt:     clockAt(day, cur),
			EndAt:       clockAt(day, cur+duration),
			DurationMin: duration,
		})
	}
	return out
}
