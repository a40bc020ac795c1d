// Package cache keeps short-lived copies of the venue and slot catalogs so
// that calendar navigation does not refetch them on every month change.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/campus-events/internal/domain"
)

const (
	venuesKey = "catalog:venues"
	slotsKey  = "catalog:slots"
)

// Store is a byte-oriented TTL store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Catalog reads and writes the cached catalogs over a Store.
type Catalog struct {
	store  Store
	prefix string
}

// NewCatalog wraps store. prefix namespaces keys when the store is shared.
func NewCatalog(store Store, prefix string) *Catalog {
	return &Catalog{store: store, prefix: prefix}
}

func (c *Catalog) key(name string) string {
	if c.prefix == "" {
		return name
	}
	return c.prefix + ":" + name
}

// Venues returns the cached venues; ok is false on a miss.
func (c *Catalog) Venues(ctx context.Context) ([]domain.Venue, bool, error) {
	var venues []domain.Venue
	ok, err := c.get(ctx, venuesKey, &venues)
	return venues, ok, err
}

// SetVenues caches venues.
func (c *Catalog) SetVenues(ctx context.Context, venues []domain.Venue) error {
	return c.set(ctx, venuesKey, venues)
}

// Slots returns the cached slots; ok is false on a miss.
func (c *Catalog) Slots(ctx context.Context) ([]domain.Slot, bool, error) {
	var slots []domain.Slot
	ok, err := c.get(ctx, slotsKey, &slots)
	return slots, ok, err
}

// SetSlots caches slots.
func (c *Catalog) SetSlots(ctx context.Context, slots []domain.Slot) error {
	return c.set(ctx, slotsKey, slots)
}

// Invalidate drops both catalogs.
func (c *Catalog) Invalidate(ctx context.Context) error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Delete(ctx, c.key(venuesKey), c.key(slotsKey))
}

func (c *Catalog) get(ctx context.Context, name string, out any) (bool, error) {
	if c == nil || c.store == nil {
		return false, nil
	}
	data, ok, err := c.store.Get(ctx, c.key(name))
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", name, err)
	}
	return true, nil
}

func (c *Catalog) set(ctx context.Context, name string, value any) error {
	if c == nil || c.store == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", name, err)
	}
	return c.store.Set(ctx, c.key(name), payload)
}
