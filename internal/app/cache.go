package app

import (
	"context"
	"fmt"
	"sync"

	"hotel_admin/internal/adapters/observability"
	"hotel_admin/internal/domain"
)

// StateCache holds the last successfully loaded collection per section.
// A failed refresh leaves the previous value in place.
type StateCache struct {
	gw domain.Gateway

	mu       sync.RWMutex
	rooms    []domain.Room
	guests   []domain.Guest
	bookings []domain.Booking
}

func NewStateCache(gw domain.Gateway) *StateCache {
	return &StateCache{
		gw:       gw,
		rooms:    []domain.Room{},
		guests:   []domain.Guest{},
		bookings: []domain.Booking{},
	}
}

// Refresh reloads one collection from the backend and replaces it wholesale.
func (c *StateCache) Refresh(ctx context.Context, s domain.Section) error {
	var err error
	switch s {
	case domain.SectionRooms:
		var rs []domain.Room
		if rs, err = c.gw.ListRooms(ctx); err == nil {
			c.mu.Lock()
			c.rooms = rs
			c.mu.Unlock()
		}
	case domain.SectionGuests:
		var gs []domain.Guest
		if gs, err = c.gw.ListGuests(ctx); err == nil {
			c.mu.Lock()
			c.guests = gs
			c.mu.Unlock()
		}
	case domain.SectionBookings:
		var bs []domain.Booking
		if bs, err = c.gw.ListBookings(ctx, 0); err == nil {
			c.mu.Lock()
			c.bookings = bs
			c.mu.Unlock()
		}
	default:
		return fmt.Errorf("refresh: no collection for section %q", s)
	}
	observability.ObserveRefresh(string(s), err == nil)
	if err != nil {
		return fmt.Errorf("refresh %s: %w", s, err)
	}
	return nil
}

func (c *StateCache) Rooms() []domain.Room {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Room, len(c.rooms))
	copy(out, c.rooms)
	return out
}

func (c *StateCache) Guests() []domain.Guest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Guest, len(c.guests))
	copy(out, c.guests)
	return out
}

func (c *StateCache) Bookings() []domain.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Booking, len(c.bookings))
	copy(out, c.bookings)
	return out
}

// Aggregate derives the dashboard counts from the cached collections.
func (c *StateCache) Aggregate() domain.Aggregate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ComputeAggregate(c.rooms, c.guests, c.bookings)
}

func ComputeAggregate(rooms []domain.Room, guests []domain.Guest, bookings []domain.Booking) domain.Aggregate {
	a := domain.Aggregate{
		TotalRooms:    len(rooms),
		TotalGuests:   len(guests),
		TotalBookings: len(bookings),
	}
	for _, r := range rooms {
		if r.Status.IsAvailable() {
			a.AvailableRooms++
		}
	}
	return a
}

func (c *StateCache) FindRoom(id string) (domain.Room, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Room{}, false
}

func (c *StateCache) FindGuest(id string) (domain.Guest, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, g := range c.guests {
		if g.ID == id {
			return g, true
		}
	}
	return domain.Guest{}, false
}

func (c *StateCache) FindBooking(id string) (domain.Booking, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Booking{}, false
}
