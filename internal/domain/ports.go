package domain

import (
	"context"
	"time"
)

// Gateway is the hotel backend as seen by the dashboard. Every call is a
// single round trip: failures come back as *TransportError or *RejectionError.
type Gateway interface {
	ListRooms(ctx context.Context) ([]Room, error)
	ListGuests(ctx context.Context) ([]Guest, error)
	// ListBookings returns every booking when limit <= 0.
	ListBookings(ctx context.Context, limit int) ([]Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error)

	CreateRoom(ctx context.Context, in RoomInput) error
	UpdateRoom(ctx context.Context, id string, in RoomInput) error
	DeleteRoom(ctx context.Context, id string) error

	CreateGuest(ctx context.Context, in GuestInput) error
	UpdateGuest(ctx context.Context, id string, in GuestInput) error
	DeleteGuest(ctx context.Context, id string) error

	CreateBooking(ctx context.Context, in BookingInput) error
	UpdateBooking(ctx context.Context, id string, in BookingInput) error
	DeleteBooking(ctx context.Context, id string) error

	CheckAvailability(ctx context.Context, q AvailabilityQuery) (Availability, error)
}

// KV is a JSON key/value store with expiry, used for per-browser state.
type KV interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
