package schedule

import (
	"fmt"
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/models"
)

const (
	clockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(hm string) (int, error) {
	t, err := time.Parse(clockLayout, hm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", hm)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// clockAt anchors minutes-since-midnight onto a calendar day.
func clockAt(day time.Time, minutes int) time.Time {
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		minutes/60, minutes%60, 0, 0,
		day.Location(),
	)
}

// DateKey formats a day the way exceptions and holidays are keyed.
func DateKey(day time.Time) string {
	return day.Format(DateLayout)
}

// onHoliday reports whether day falls inside any holiday range, boundaries
// inclusive. Malformed ranges never match.
func onHoliday(holidays []models.Holiday, day time.Time) bool {
	key := DateKey(day)
	for _, h := range holidays {
		if h.StartDate <= key && key <= h.EndDate {
			return true
		}
	}
	return false
}
