package application

import (
	"context"
	"log/slog"

	"github.com/example/campus-events/internal/domain"
)

// CatalogBackend reads and extends the venue and slot catalogs.
type CatalogBackend interface {
	ListVenues(ctx context.Context) ([]domain.Venue, error)
	ListSlots(ctx context.Context) ([]domain.Slot, error)
	CreateVenue(ctx context.Context, venue domain.Venue) error
	CreateSlot(ctx context.Context, slot domain.Slot) error
}

// CatalogCache holds recently fetched catalogs. Cache failures are logged and
// never fail a request.
type CatalogCache interface {
	Venues(ctx context.Context) ([]domain.Venue, bool, error)
	SetVenues(ctx context.Context, venues []domain.Venue) error
	Slots(ctx context.Context) ([]domain.Slot, bool, error)
	SetSlots(ctx context.Context, slots []domain.Slot) error
	Invalidate(ctx context.Context) error
}

type catalogReader struct {
	backend CatalogBackend
	cache   CatalogCache
}

func (r catalogReader) venues(ctx context.Context, logger *slog.Logger) ([]domain.Venue, error) {
	if r.cache != nil {
		venues, ok, err := r.cache.Venues(ctx)
		if err != nil {
			logger.WarnContext(ctx, "venue cache read failed", "error", err)
		} else if ok {
			return venues, nil
		}
	}
	venues, err := r.backend.ListVenues(ctx)
	if err != nil {
		return nil, mapBackendError(err)
	}
	if r.cache != nil {
		if err := r.cache.SetVenues(ctx, venues); err != nil {
			logger.WarnContext(ctx, "venue cache write failed", "error", err)
		}
	}
	return venues, nil
}

func (r catalogReader) slots(ctx context.Context, logger *slog.Logger) ([]domain.Slot, error) {
	if r.cache != nil {
		slots, ok, err := r.cache.Slots(ctx)
		if err != nil {
			logger.WarnContext(ctx, "slot cache read failed", "error", err)
		} else if ok {
			return slots, nil
		}
	}
	slots, err := r.backend.ListSlots(ctx)
	if err != nil {
		return nil, mapBackendError(err)
	}
	if r.cache != nil {
		if err := r.cache.SetSlots(ctx, slots); err != nil {
			logger.WarnContext(ctx, "slot cache write failed", "error", err)
		}
	}
	return slots, nil
}

func (r catalogReader) invalidate(ctx context.Context, logger *slog.Logger) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx); err != nil {
		logger.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
	}
}
