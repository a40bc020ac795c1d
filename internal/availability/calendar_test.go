package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/campus-events/internal/domain"
)

func TestLeadTime(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, time.May, 30, 15, 0, 0, 0, time.Local)

	assert.True(t, LeadTime(0).Selectable(today, today))
	assert.False(t, LeadTime(0).Selectable(today.AddDate(0, 0, -1), today))
	assert.False(t, LeadTime(3).Selectable(today.AddDate(0, 0, 2), today))
	assert.True(t, LeadTime(3).Selectable(today.AddDate(0, 0, 3), today))
	assert.Equal(t, domain.CalendarDay(today), LeadTime(-2).Earliest(today))
}

func TestDayState(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, time.May, 20, 8, 0, 0, 0, time.Local)
	calc := New("V", catalog, []domain.Event{
		event("e1", "V", june1, domain.StatusApproved, "S1"),
		event("e2", "V", june1.AddDate(0, 0, 1), domain.StatusApproved, "S1", "S2"),
	})

	assert.Equal(t, StatePartial, calc.DayState(june1, today, 0))
	assert.Equal(t, StateFull, calc.DayState(june1.AddDate(0, 0, 1), today, 0))
	assert.Equal(t, StateAvailable, calc.DayState(june1.AddDate(0, 0, 2), today, 0))
	assert.Equal(t, StatePast, calc.DayState(today.AddDate(0, 0, -1), today, 0))
	assert.Equal(t, StatePast, calc.DayState(june1, june1.AddDate(0, 0, -2), 3), "lead time overrides occupancy")
	assert.Equal(t, StateNoSlots, New("V", nil, nil).DayState(june1, today, 0))
}

func TestMonth(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.Local)
	calc := New("V", catalog, []domain.Event{
		event("e1", "V", time.Date(2025, time.June, 12, 0, 0, 0, 0, time.Local), domain.StatusApproved, "S1"),
		event("e2", "V", time.Date(2025, time.June, 13, 0, 0, 0, 0, time.Local), domain.StatusApproved, "S1", "S2"),
	})

	cells := Month(calc, 2025, time.June, today, 0)
	require.Len(t, cells, 30)

	assert.Equal(t, StatePast, cells[8].State)
	assert.False(t, cells[8].Selectable)
	assert.Equal(t, StateAvailable, cells[9].State)
	assert.Equal(t, 2, cells[9].FreeSlots)
	assert.Equal(t, StatePartial, cells[11].State)
	assert.Equal(t, 1, cells[11].FreeSlots)
	assert.Equal(t, StateFull, cells[12].State)
	assert.False(t, cells[12].Selectable)
}

func TestMonth_NoVenueChosen(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, time.February, 10, 9, 0, 0, 0, time.Local)
	cells := Month(nil, 2025, time.February, today, 0)
	require.Len(t, cells, 28)

	for _, cell := range cells[9:] {
		assert.Equal(t, StateUnmarked, cell.State)
		assert.True(t, cell.Selectable)
		assert.Zero(t, cell.FreeSlots)
	}
	assert.Equal(t, StatePast, cells[0].State)
}
