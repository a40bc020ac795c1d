package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/campus-events/internal/domain"
)

var (
	slotMorning = domain.Slot{ID: "S1", Name: "Morning", Start: "09:00", End: "10:00"}
	slotLate    = domain.Slot{ID: "S2", Name: "Late morning", Start: "10:00", End: "11:00"}
	catalog     = []domain.Slot{slotMorning, slotLate}
	june1       = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local)
)

func event(id, venue string, day time.Time, status domain.EventStatus, slots ...string) domain.Event {
	return domain.Event{ID: id, VenueID: venue, EventDate: day, Status: status, SlotIDs: slots}
}

func TestCalculator_PartiallyBookedDay(t *testing.T) {
	t.Parallel()

	calc := New("V", catalog, []domain.Event{event("e1", "V", june1, domain.StatusApproved, "S1")})

	assert.True(t, calc.IsSlotTaken(june1, "S1"))
	assert.False(t, calc.IsSlotTaken(june1, "S2"))
	assert.Equal(t, DayClass{HasBooked: true, HasAvailable: true}, calc.ClassifyDay(june1))
	assert.Equal(t, []domain.Slot{slotLate}, calc.SelectableSlots(june1))
}

func TestCalculator_FullyBookedDay(t *testing.T) {
	t.Parallel()

	calc := New("V", catalog, []domain.Event{
		event("e1", "V", june1, domain.StatusApproved, "S1"),
		event("e2", "V", june1, domain.StatusApproved, "S2"),
	})

	assert.Equal(t, DayClass{HasBooked: true, HasAvailable: false}, calc.ClassifyDay(june1))
	assert.Empty(t, calc.SelectableSlots(june1))
}

func TestCalculator_IgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	evening := time.Date(2025, time.June, 1, 19, 30, 0, 0, time.Local)
	calc := New("V", catalog, []domain.Event{event("e1", "V", evening, domain.StatusApproved, "S1")})

	assert.True(t, calc.IsSlotTaken(june1.Add(8*time.Hour), "S1"))
	assert.False(t, calc.IsSlotTaken(june1.AddDate(0, 0, 1), "S1"))
}

func TestCalculator_VenueScoped(t *testing.T) {
	t.Parallel()

	events := []domain.Event{
		event("e1", "V", june1, domain.StatusApproved, "S1", "S2"),
	}
	other := New("W", catalog, events)

	for _, slot := range catalog {
		assert.False(t, other.IsSlotTaken(june1, slot.ID), "slot %s", slot.ID)
	}
	assert.Equal(t, DayClass{HasAvailable: true}, other.ClassifyDay(june1))
	assert.Equal(t, "W", other.VenueID())
}

func TestCalculator_ReportsUndatedEvents(t *testing.T) {
	t.Parallel()

	calc := New("V", catalog, []domain.Event{
		event("e1", "V", time.Time{}, domain.StatusApproved, "S1"),
		event("e2", "W", time.Time{}, domain.StatusApproved, "S1"),
		event("e3", "V", june1, domain.StatusApproved, "S2"),
	})

	assert.Equal(t, []string{"e1"}, calc.Undated())
	assert.False(t, calc.IsSlotTaken(june1, "S1"))
	assert.True(t, calc.IsSlotTaken(june1, "S2"))
}

func TestCalculator_EmptyCatalog(t *testing.T) {
	t.Parallel()

	calc := New("V", nil, []domain.Event{event("e1", "V", june1, domain.StatusApproved, "S1")})
	assert.Equal(t, DayClass{}, calc.ClassifyDay(june1))
	assert.Empty(t, calc.SelectableSlots(june1))
}

func TestCalculator_Conflicts(t *testing.T) {
	t.Parallel()

	calc := New("V", catalog, []domain.Event{event("e1", "V", june1, domain.StatusApproved, "S2")})
	assert.Equal(t, []string{"S2"}, calc.Conflicts(june1, []string{"S1", "S2"}))
	assert.Nil(t, calc.Conflicts(june1, []string{"S1"}))
}

func TestCalculator_NilIsUnmarked(t *testing.T) {
	t.Parallel()

	var calc *Calculator
	assert.False(t, calc.IsSlotTaken(june1, "S1"))
	assert.Equal(t, DayClass{}, calc.ClassifyDay(june1))
	assert.Nil(t, calc.SelectableSlots(june1))
}

func TestBlockingPolicies(t *testing.T) {
	t.Parallel()

	events := []domain.Event{
		event("approved", "V", june1, domain.StatusApproved, "S1"),
		event("pending", "V", june1, domain.StatusPending, "S2"),
		event("rejected", "V", june1, domain.StatusRejected, "S2"),
	}

	create := BlockingForCreate(events)
	require.Len(t, create, 1)
	assert.Equal(t, "approved", create[0].ID)

	update := BlockingForUpdate(events, "none")
	require.Len(t, update, 2)
	assert.Equal(t, "approved", update[0].ID)
	assert.Equal(t, "pending", update[1].ID)
}

func TestBlockingForUpdate_SelfExclusion(t *testing.T) {
	t.Parallel()

	editing := event("mine", "V", june1, domain.StatusPending, "S1")
	events := []domain.Event{editing, event("other", "V", june1, domain.StatusApproved, "S2")}

	calc := New("V", catalog, BlockingForUpdate(events, editing.ID))

	assert.False(t, calc.IsSlotTaken(june1, "S1"), "an event must not conflict with itself")
	assert.Equal(t, []domain.Slot{slotMorning}, calc.SelectableSlots(june1))
	assert.Equal(t, DayClass{HasBooked: true, HasAvailable: true}, calc.ClassifyDay(june1))
}
