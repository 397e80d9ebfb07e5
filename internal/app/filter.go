package app

import (
	"strings"

	"hotel_admin/internal/domain"
)

// Filter is the search box plus the section's select filter (room type or
// booking status). Filtering works on the cached collection only.
type Filter struct {
	Search string
	Value  string
}

func (f Filter) Active() bool {
	return strings.TrimSpace(f.Search) != "" || strings.TrimSpace(f.Value) != ""
}

func (f Filter) term() string { return strings.ToLower(strings.TrimSpace(f.Search)) }

// FilterRooms matches the search term against number and type, and the value
// against the exact type.
func FilterRooms(rooms []domain.Room, f Filter) []domain.Room {
	term, typ := f.term(), strings.TrimSpace(f.Value)
	out := make([]domain.Room, 0, len(rooms))
	for _, r := range rooms {
		if term != "" &&
			!strings.Contains(strings.ToLower(r.Number), term) &&
			!strings.Contains(strings.ToLower(string(r.Type)), term) {
			continue
		}
		if typ != "" && string(r.Type) != typ {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterGuests matches name and email case-insensitively and phone as typed.
func FilterGuests(guests []domain.Guest, f Filter) []domain.Guest {
	term := f.term()
	out := make([]domain.Guest, 0, len(guests))
	for _, g := range guests {
		if term != "" &&
			!strings.Contains(strings.ToLower(g.Name), term) &&
			!strings.Contains(strings.ToLower(g.Email), term) &&
			!strings.Contains(g.Phone, term) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// FilterBookings matches the search term against the embedded guest name and
// room number. A reference that is only an id never matches a search term.
func FilterBookings(bookings []domain.Booking, f Filter) []domain.Booking {
	term, status := f.term(), strings.TrimSpace(f.Value)
	out := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if term != "" {
			var name, number string
			if b.Guest.Embedded != nil {
				name = strings.ToLower(b.Guest.Embedded.Name)
			}
			if b.Room.Embedded != nil {
				number = strings.ToLower(b.Room.Embedded.Number)
			}
			if !strings.Contains(name, term) && !strings.Contains(number, term) {
				continue
			}
		}
		if status != "" && string(b.Status) != status {
			continue
		}
		out = append(out, b)
	}
	return out
}
