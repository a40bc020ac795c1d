package availability

import (
	"time"

	"github.com/example/campus-events/internal/domain"
)

// State is the rendering state of a calendar day.
type State string

const (
	StatePast      State = "past"
	StateAvailable State = "available"
	StatePartial   State = "partially_booked"
	StateFull      State = "fully_booked"
	StateNoSlots   State = "no_slots"
	StateUnmarked  State = "unmarked"
)

// LeadTime is the number of whole days after today before a date becomes
// selectable. Zero means any day that is not in the past.
type LeadTime int

// Earliest returns the first selectable calendar day.
func (l LeadTime) Earliest(today time.Time) time.Time {
	days := int(l)
	if days < 0 {
		days = 0
	}
	return domain.CalendarDay(today).AddDate(0, 0, days)
}

// Selectable reports whether date is on or after the earliest selectable day.
func (l LeadTime) Selectable(date, today time.Time) bool {
	return !domain.CalendarDay(date).Before(l.Earliest(today))
}

// DayState classifies date for rendering. Days before the lead-time cut-off
// are past regardless of occupancy.
func (c *Calculator) DayState(date, today time.Time, lead LeadTime) State {
	if !lead.Selectable(date, today) {
		return StatePast
	}
	if c == nil {
		return StateUnmarked
	}
	class := c.ClassifyDay(date)
	switch {
	case class.HasBooked && class.HasAvailable:
		return StatePartial
	case class.HasBooked:
		return StateFull
	case class.HasAvailable:
		return StateAvailable
	default:
		return StateNoSlots
	}
}

// DayCell is one rendered calendar day.
type DayCell struct {
	Date       time.Time
	State      State
	Selectable bool
	FreeSlots  int
}

// Month renders every day of the month. A nil calculator, used when no venue
// has been chosen, yields cells with no occupancy markers.
func Month(c *Calculator, year int, month time.Month, today time.Time, lead LeadTime) []DayCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	cells := make([]DayCell, 0, 31)
	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		state := c.DayState(day, today, lead)
		cell := DayCell{Date: day, State: state}
		switch state {
		case StatePast, StateNoSlots, StateFull:
		case StateUnmarked:
			cell.Selectable = true
		default:
			cell.Selectable = true
			cell.FreeSlots = len(c.SelectableSlots(day))
		}
		cells = append(cells, cell)
	}
	return cells
}
