// Package availability classifies venue calendar days and slots as free or
// booked from the events already scheduled into the venue.
package availability

import (
	"time"

	"github.com/example/campus-events/internal/domain"
)

// DayClass summarises the occupancy of one day across the slot catalog.
// HasBooked and HasAvailable together mean the day is partially booked.
type DayClass struct {
	HasBooked    bool
	HasAvailable bool
}

type occupancyKey struct {
	day    string
	slotID string
}

// Calculator answers occupancy queries for a single venue. Occupancy is
// venue-scoped: choosing another venue means building a new Calculator.
type Calculator struct {
	venueID  string
	slots    []domain.Slot
	occupied map[occupancyKey]struct{}
	undated  []string
}

// New indexes the blocking events that fall into venueID. Events at other
// venues are ignored. Which events block is decided by the caller; see
// BlockingForCreate and BlockingForUpdate.
func New(venueID string, slots []domain.Slot, blocking []domain.Event) *Calculator {
	c := &Calculator{
		venueID:  venueID,
		slots:    append([]domain.Slot(nil), slots...),
		occupied: make(map[occupancyKey]struct{}),
	}
	for _, event := range blocking {
		if event.VenueID != venueID {
			continue
		}
		if event.EventDate.IsZero() {
			c.undated = append(c.undated, event.ID)
			continue
		}
		day := domain.DayKey(event.EventDate)
		for _, slotID := range event.SlotIDs {
			c.occupied[occupancyKey{day: day, slotID: slotID}] = struct{}{}
		}
	}
	return c
}

// Undated returns the ids of blocking events at the venue that carry no
// usable date. Their slots cannot be marked taken on any day.
func (c *Calculator) Undated() []string {
	return append([]string(nil), c.undated...)
}

// VenueID returns the venue the calculator was built for.
func (c *Calculator) VenueID() string {
	return c.venueID
}

// Slots returns the slot catalog in catalog order.
func (c *Calculator) Slots() []domain.Slot {
	return append([]domain.Slot(nil), c.slots...)
}

// IsSlotTaken reports whether slotID on the calendar day of date is held by a
// blocking event at the calculator's venue. Time of day is ignored.
func (c *Calculator) IsSlotTaken(date time.Time, slotID string) bool {
	if c == nil {
		return false
	}
	_, ok := c.occupied[occupancyKey{day: domain.DayKey(date), slotID: slotID}]
	return ok
}

// ClassifyDay evaluates every catalog slot on date. A day with no slots in
// the catalog is neither booked nor available.
func (c *Calculator) ClassifyDay(date time.Time) DayClass {
	var class DayClass
	if c == nil {
		return class
	}
	for _, slot := range c.slots {
		if c.IsSlotTaken(date, slot.ID) {
			class.HasBooked = true
		} else {
			class.HasAvailable = true
		}
		if class.HasBooked && class.HasAvailable {
			break
		}
	}
	return class
}

// SelectableSlots returns the catalog slots not taken on date, in catalog
// order.
func (c *Calculator) SelectableSlots(date time.Time) []domain.Slot {
	if c == nil {
		return nil
	}
	free := make([]domain.Slot, 0, len(c.slots))
	for _, slot := range c.slots {
		if !c.IsSlotTaken(date, slot.ID) {
			free = append(free, slot)
		}
	}
	return free
}

// Conflicts returns the requested slot ids already taken on date.
func (c *Calculator) Conflicts(date time.Time, slotIDs []string) []string {
	if c == nil {
		return nil
	}
	var taken []string
	for _, id := range slotIDs {
		if c.IsSlotTaken(date, id) {
			taken = append(taken, id)
		}
	}
	return taken
}
