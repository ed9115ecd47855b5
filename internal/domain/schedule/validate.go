package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/httperr"
	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

// ValidateWeeklyTemplate checks the structural invariants of a weekly
// template: at most 7 entries, weekday in [0,6] with no duplicates, and
// per-day slot invariants.
func ValidateWeeklyTemplate(days []models.WeekdayTemplate) error {
	if len(days) > 7 {
		return httperr.ErrValidationDetail(
			"invalid_weekly_template",
			fmt.Sprintf("%d entries, at most 7 allowed", len(days)),
		)
	}

	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
			return httperr.ErrValidationDetail(
				"invalid_day_of_week",
				fmt.Sprintf("day %d out of range 0-6", d.DayOfWeek),
			)
		}
		if seen[d.DayOfWeek] {
			return httperr.ErrValidationDetail(
				"duplicate_day_of_week",
				fmt.Sprintf("day %d configured twice", d.DayOfWeek),
			)
		}
		seen[d.DayOfWeek] = true

		if err := ValidateDaySlots(fmt.Sprintf("day %d", d.DayOfWeek), d.Slots); err != nil {
			return err
		}
	}

	return nil
}

// ValidateDaySlots checks one day's open intervals: parseable clock times,
// start before end, sorted by start, no overlap between adjacent slots.
// The overlap check is a sort-then-scan over a copy so the caller's order
// is preserved.
func ValidateDaySlots(label string, slots []models.DaySlot) error {
	type interval struct {
		start, end int
		raw        models.DaySlot
	}

	parsed := make([]interval, 0, len(slots))
	for _, s := range slots {
		start, err := parseClock(s.StartTime)
		if err != nil {
			return httperr.ErrValidationDetail(
				"invalid_slot_time",
				fmt.Sprintf("%s: start %q", label, s.StartTime),
			)
		}
		end, err := parseClock(s.EndTime)
		if err != nil {
			return httperr.ErrValidationDetail(
				"invalid_slot_time",
				fmt.Sprintf("%s: end %q", label, s.EndTime),
			)
		}
		if start >= end {
			return httperr.ErrValidationDetail(
				"invalid_slot_range",
				fmt.Sprintf("%s: %s-%s", label, s.StartTime, s.EndTime),
			)
		}
		parsed = append(parsed, interval{start: start, end: end, raw: s})
	}

	sort.Slice(parsed, func(i, j int) bool { return parsed[i].start < parsed[j].start })

	for i := 1; i < len(parsed); i++ {
		if parsed[i].start < parsed[i-1].end {
			return httperr.ErrValidationDetail(
				"overlapping_slots",
				fmt.Sprintf(
					"%s: %s-%s overlaps %s-%s",
					label,
					parsed[i-1].raw.StartTime, parsed[i-1].raw.EndTime,
					parsed[i].raw.StartTime, parsed[i].raw.EndTime,
				),
			)
		}
	}

	return nil
}

// ValidateBuffers rejects negative buffer minutes.
func ValidateBuffers(before, after int) error {
	if before < 0 || after < 0 {
		return httperr.ErrValidation("invalid_buffer")
	}
	return nil
}

// ValidateHolidayRange checks a closed date range: parseable dates and
// start <= end (a single-day holiday has start == end).
func ValidateHolidayRange(startDate, endDate string) error {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return httperr.ErrValidationDetail("invalid_holiday_date", startDate)
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return httperr.ErrValidationDetail("invalid_holiday_date", endDate)
	}
	if start.After(end) {
		return httperr.ErrValidationDetail(
			"invalid_holiday_range",
			fmt.Sprintf("%s after %s", startDate, endDate),
		)
	}
	return nil
}

// ValidateExceptionDate checks the date key format of an exception.
func ValidateExceptionDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return httperr.ErrValidationDetail("invalid_exception_date", date)
	}
	return nil
}
