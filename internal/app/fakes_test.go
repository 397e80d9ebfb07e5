package app_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"hotel_admin/internal/domain"
)

// ---- fakes ----

type fakeGateway struct {
	mu sync.Mutex

	rooms    []domain.Room
	guests   []domain.Guest
	bookings []domain.Booking
	byID     map[string]domain.Booking
	// recent, when set, answers limited booking reads
	recent []domain.Booking
	avail    domain.Availability

	listErr  map[domain.Section]error
	writeErr error

	calls map[string]int
	ids   []string

	lastRoom    domain.RoomInput
	lastGuest   domain.GuestInput
	lastBooking domain.BookingInput
	lastQuery   domain.AvailabilityQuery
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: map[string]int{}, listErr: map[domain.Section]error{}, byID: map[string]domain.Booking{}}
}

func (f *fakeGateway) hit(op, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if id != "" {
		f.ids = append(f.ids, id)
	}
}

func (f *fakeGateway) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// writes counts every create, update and delete call.
func (f *fakeGateway) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for op, c := range f.calls {
		if strings.HasPrefix(op, "create") || strings.HasPrefix(op, "update") || strings.HasPrefix(op, "delete") {
			n += c
		}
	}
	return n
}

func (f *fakeGateway) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeGateway) ListRooms(ctx context.Context) ([]domain.Room, error) {
	f.hit("rooms.list", "")
	if err := f.listErr[domain.SectionRooms]; err != nil {
		return nil, err
	}
	return append([]domain.Room(nil), f.rooms...), nil
}

func (f *fakeGateway) ListGuests(ctx context.Context) ([]domain.Guest, error) {
	f.hit("guests.list", "")
	if err := f.listErr[domain.SectionGuests]; err != nil {
		return nil, err
	}
	return append([]domain.Guest(nil), f.guests...), nil
}

func (f *fakeGateway) ListBookings(ctx context.Context, limit int) ([]domain.Booking, error) {
	f.hit(fmt.Sprintf("bookings.list:%d", limit), "")
	if err := f.listErr[domain.SectionBookings]; err != nil {
		return nil, err
	}
	out := append([]domain.Booking(nil), f.bookings...)
	if limit > 0 && f.recent != nil {
		out = append([]domain.Booking(nil), f.recent...)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeGateway) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	f.hit("bookings.get", id)
	b, ok := f.byID[id]
	if !ok {
		return domain.Booking{}, &domain.TransportError{Op: "bookings.get", Status: 404, Err: domain.ErrNotFound}
	}
	return b, nil
}

func (f *fakeGateway) CreateRoom(ctx context.Context, in domain.RoomInput) error {
	f.hit("create.room", "")
	f.lastRoom = in
	return f.writeErr
}

func (f *fakeGateway) UpdateRoom(ctx context.Context, id string, in domain.RoomInput) error {
	f.hit("update.room", id)
	f.lastRoom = in
	return f.writeErr
}

func (f *fakeGateway) DeleteRoom(ctx context.Context, id string) error {
	f.hit("delete.room", id)
	return f.writeErr
}

func (f *fakeGateway) CreateGuest(ctx context.Context, in domain.GuestInput) error {
	f.hit("create.guest", "")
	f.lastGuest = in
	return f.writeErr
}

func (f *fakeGateway) UpdateGuest(ctx context.Context, id string, in domain.GuestInput) error {
	f.hit("update.guest", id)
	f.lastGuest = in
	return f.writeErr
}

func (f *fakeGateway) DeleteGuest(ctx context.Context, id string) error {
	f.hit("delete.guest", id)
	return f.writeErr
}

func (f *fakeGateway) CreateBooking(ctx context.Context, in domain.BookingInput) error {
	f.hit("create.booking", "")
	f.lastBooking = in
	return f.writeErr
}

func (f *fakeGateway) UpdateBooking(ctx context.Context, id string, in domain.BookingInput) error {
	f.hit("update.booking", id)
	f.lastBooking = in
	return f.writeErr
}

func (f *fakeGateway) DeleteBooking(ctx context.Context, id string) error {
	f.hit("delete.booking", id)
	return f.writeErr
}

func (f *fakeGateway) CheckAvailability(ctx context.Context, q domain.AvailabilityQuery) (domain.Availability, error) {
	f.hit("rooms.available", "")
	f.lastQuery = q
	if f.writeErr != nil {
		return domain.Availability{}, f.writeErr
	}
	return f.avail, nil
}

var _ domain.Gateway = (*fakeGateway)(nil)

// ---- fixtures ----

func roomsFixture() []domain.Room {
	return []domain.Room{
		{ID: "r1", Number: "101", Type: domain.RoomSingle, Price: 80, Status: "available", Capacity: 1, Amenities: []string{"WiFi"}},
		{ID: "r2", Number: "102", Type: domain.RoomDouble, Price: 120, Status: "Available", Capacity: 2},
		{ID: "r3", Number: "201", Type: domain.RoomSuite, Price: 300, Status: "occupied", Capacity: 4},
	}
}

func guestsFixture(n int) []domain.Guest {
	out := make([]domain.Guest, n)
	for i := range out {
		out[i] = domain.Guest{
			ID:    fmt.Sprintf("g%d", i+1),
			Name:  fmt.Sprintf("Guest %d", i+1),
			Email: fmt.Sprintf("guest%d@example.com", i+1),
			Phone: fmt.Sprintf("555-010%d", i),
		}
	}
	return out
}

func bookingsFixture(n int) []domain.Booking {
	out := make([]domain.Booking, n)
	for i := range out {
		out[i] = domain.Booking{
			ID:       fmt.Sprintf("b%d", i+1),
			Guest:    domain.RefTo[domain.Guest]("g1"),
			Room:     domain.RefTo[domain.Room]("r1"),
			CheckIn:  "2024-06-10T00:00:00.000Z",
			CheckOut: "2024-06-12T00:00:00.000Z",
			Status:   domain.BookingConfirmed,
		}
	}
	return out
}
