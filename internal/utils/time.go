package utils

import (
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// backendTimeLayouts covers the timestamp shapes the reservation backend emits.
var backendTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	layoutDate,
}

var maroc = loadMaroc()

func loadMaroc() *time.Location {
	loc, err := time.LoadLocation("Africa/Casablanca")
	if err != nil {
		return time.Local
	}
	return loc
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), maroc)
}

// ParseBackendTime parses a backend timestamp, trying the known layouts in order.
func ParseBackendTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range backendTimeLayouts {
		t, err := time.ParseInLocation(layout, s, maroc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// FormatDate formats time to DD/MM/YYYY for display.
func FormatDate(t time.Time) string {
	return t.In(maroc).Format("02/01/2006")
}

// FormatClock formats time to HH:MM for display.
func FormatClock(t time.Time) string {
	return t.In(maroc).Format("15:04")
}
