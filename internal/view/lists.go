// Package view turns cached hotel data into plain view models. Nothing here
// touches HTTP or templates, so every rendering rule is testable directly.
package view

import (
	"strconv"
	"strings"

	"hotel_admin/internal/domain"
)

const NA = "N/A"

// Status is a badge: the raw label plus its CSS class.
type Status struct {
	Label string
	Class string
}

// StatusClass lowercases and hyphenates a status: "Checked In" -> "status-checked-in".
func StatusClass(s string) string {
	return "status-" + strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

func badge(s string) Status { return Status{Label: s, Class: StatusClass(s)} }

// Empty is the placeholder shown instead of a table.
type Empty struct {
	Icon     string
	Message  string
	CTALabel string
	CTAURL   string
}

// List is one section's table. Exactly one of Rows and Empty is populated.
type List[T any] struct {
	Section  domain.Section
	Rows     []T
	Empty    *Empty
	Filtered bool
}

func newList[T any](s domain.Section, rows []T, filtered bool, icon, noun, cta string) List[T] {
	l := List[T]{Section: s, Rows: rows, Filtered: filtered}
	if len(rows) > 0 {
		return l
	}
	if filtered {
		l.Empty = &Empty{Icon: "search", Message: "No " + noun + " match your search criteria"}
	} else {
		l.Empty = &Empty{Icon: icon, Message: "No " + noun + " found", CTALabel: cta, CTAURL: "/" + string(s) + "/new"}
	}
	return l
}

type RoomRow struct {
	ID        string
	Number    string
	Type      string
	Price     string
	Status    Status
	Capacity  string
	Amenities string
}

func NewRoomRow(r domain.Room, l Locale) RoomRow {
	amen := "None"
	if len(r.Amenities) > 0 {
		amen = strings.Join(r.Amenities, ", ")
	}
	return RoomRow{
		ID:        r.ID,
		Number:    r.Number,
		Type:      string(r.Type),
		Price:     l.Money(r.Price),
		Status:    badge(string(r.Status)),
		Capacity:  strconv.Itoa(r.Capacity),
		Amenities: amen,
	}
}

// Rooms renders the rooms table. filtered selects the search empty state.
func Rooms(rooms []domain.Room, l Locale, filtered bool) List[RoomRow] {
	rows := make([]RoomRow, 0, len(rooms))
	for _, r := range rooms {
		rows = append(rows, NewRoomRow(r, l))
	}
	return newList(domain.SectionRooms, rows, filtered, "bed", "rooms", "Add First Room")
}

type GuestRow struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Address  string
	IDNumber string
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NA
	}
	return s
}

func Guests(guests []domain.Guest, filtered bool) List[GuestRow] {
	rows := make([]GuestRow, 0, len(guests))
	for _, g := range guests {
		rows = append(rows, GuestRow{
			ID:       g.ID,
			Name:     g.Name,
			Email:    g.Email,
			Phone:    g.Phone,
			Address:  orNA(g.Address),
			IDNumber: orNA(g.IDNumber),
		})
	}
	return newList(domain.SectionGuests, rows, filtered, "users", "guests", "Add First Guest")
}

type BookingRow struct {
	ID         string
	ShortID    string
	Guest      string
	Room       string
	CheckIn    string
	CheckOut   string
	Status     Status
	TotalPrice string
}

// GuestName resolves a booking's guest through the embedded record only.
func GuestName(b domain.Booking) string {
	if b.Guest.Embedded != nil {
		return orNA(b.Guest.Embedded.Name)
	}
	return NA
}

func RoomNumber(b domain.Booking) string {
	if b.Room.Embedded != nil {
		return orNA(b.Room.Embedded.Number)
	}
	return NA
}

// ShortID is the 6-character excerpt of an object id shown on the dashboard.
func ShortID(id string) string {
	if len(id) < 24 {
		return NA
	}
	return id[18:24]
}

func NewBookingRow(b domain.Booking, l Locale) BookingRow {
	total := "$0"
	if b.TotalPrice != nil && *b.TotalPrice != 0 {
		total = l.Money(*b.TotalPrice)
	}
	return BookingRow{
		ID:         b.ID,
		ShortID:    ShortID(b.ID),
		Guest:      GuestName(b),
		Room:       RoomNumber(b),
		CheckIn:    l.Date(b.CheckIn),
		CheckOut:   l.Date(b.CheckOut),
		Status:     badge(string(b.Status)),
		TotalPrice: total,
	}
}

func Bookings(bookings []domain.Booking, l Locale, filtered bool) List[BookingRow] {
	rows := make([]BookingRow, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, NewBookingRow(b, l))
	}
	return newList(domain.SectionBookings, rows, filtered, "calendar-times", "bookings", "Create First Booking")
}

// Option is a <select> entry.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

func options[T ~string](values []T, selected string, label func(T) string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: string(v), Label: label(v), Selected: string(v) == selected})
	}
	return out
}

func titleWord(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "-")
}

// RoomTypeFilter is the rooms section select with its "All Types" entry.
func RoomTypeFilter(selected string) []Option {
	all := []Option{{Value: "", Label: "All Types", Selected: selected == ""}}
	return append(all, options(domain.RoomTypes, selected, func(t domain.RoomType) string { return titleWord(string(t)) })...)
}

func BookingStatusFilter(selected string) []Option {
	all := []Option{{Value: "", Label: "All Status", Selected: selected == ""}}
	return append(all, options(domain.BookingStatuses, selected, func(s domain.BookingStatus) string { return titleWord(string(s)) })...)
}
