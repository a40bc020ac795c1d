package application

import (
	"sort"
	"strings"
	"time"

	"github.com/example/campus-events/internal/domain"
)

// EventSort selects the listing order.
type EventSort string

const (
	SortByDate  EventSort = "date"
	SortByTitle EventSort = "title"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// EventFilter narrows, orders, and pages an event listing. Zero values mean
// "no constraint"; Page is 1-based.
type EventFilter struct {
	Status     domain.EventStatus
	VenueID    string
	Query      string
	From       time.Time
	To         time.Time
	Sort       EventSort
	Descending bool
	Page       int
	PageSize   int
}

// EventPage is one page of a filtered listing.
type EventPage struct {
	Items    []domain.Event
	Total    int
	Page     int
	PageSize int
	Pages    int
}

func (f EventFilter) matches(event domain.Event) bool {
	if f.Status != domain.StatusUnknown && event.Status != f.Status {
		return false
	}
	if f.VenueID != "" && event.VenueID != f.VenueID {
		return false
	}
	if !f.From.IsZero() && (event.EventDate.IsZero() || event.EventDate.Before(domain.CalendarDay(f.From))) {
		return false
	}
	if !f.To.IsZero() && (event.EventDate.IsZero() || event.EventDate.After(domain.CalendarDay(f.To))) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		haystack := strings.ToLower(event.Title + "\n" + event.Description)
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

func (f EventFilter) less(a, b domain.Event) bool {
	switch f.Sort {
	case SortByTitle:
		ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if ta != tb {
			return ta < tb
		}
		return a.EventDate.Before(b.EventDate)
	default:
		if !a.EventDate.Equal(b.EventDate) {
			return a.EventDate.Before(b.EventDate)
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	}
}

// Apply filters, sorts, and pages events without modifying the input.
func (f EventFilter) Apply(events []domain.Event) EventPage {
	matched := make([]domain.Event, 0, len(events))
	for _, event := range events {
		if f.matches(event) {
			matched = append(matched, event)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if f.Descending {
			return f.less(matched[j], matched[i])
		}
		return f.less(matched[i], matched[j])
	})

	size := f.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	pages := (len(matched) + size - 1) / size
	page := f.Page
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	return EventPage{
		Items:    matched[start:end],
		Total:    len(matched),
		Page:     page,
		PageSize: size,
		Pages:    pages,
	}
}
