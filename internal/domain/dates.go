package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and key format for calendar days.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
}

// ParseDate accepts the date and date-time formats emitted by the backend.
// Values without an offset are read as naive local time.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// CalendarDay truncates t to midnight of its local calendar day.
func CalendarDay(t time.Time) time.Time {
	local := t.In(time.Local)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}

// DayKey formats the local calendar day of t.
func DayKey(t time.Time) string {
	return CalendarDay(t).Format(DateLayout)
}

// ParseDay reads the calendar day of raw as written, ignoring any time of
// day or offset, so "2025-06-12T00:00:00Z" is June 12 in every zone.
func ParseDay(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if len(value) >= len(DateLayout) {
		if day, err := time.ParseInLocation(DateLayout, value[:len(DateLayout)], time.Local); err == nil {
			return day, nil
		}
	}
	t, err := ParseDate(value)
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDay(t), nil
}
