package handlers

import (
	"time"

	"github.com/NovaClinicas/clinic-scheduler/internal/timezone"
)

// parseDate reads "2006-01-02" in the clinic timezone.
func parseDate(tz, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		timezone.Location(tz),
	)
}

// parseStartAt reads an RFC 3339 instant.
func parseStartAt(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}
