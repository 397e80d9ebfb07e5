package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

type Section string

const (
	SectionDashboard Section = "dashboard"
	SectionRooms     Section = "rooms"
	SectionGuests    Section = "guests"
	SectionBookings  Section = "bookings"
)

func (s Section) Valid() bool {
	switch s {
	case SectionDashboard, SectionRooms, SectionGuests, SectionBookings:
		return true
	}
	return false
}

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomSuite  RoomType = "suite"
	RoomDeluxe RoomType = "deluxe"
)

var RoomTypes = []RoomType{RoomSingle, RoomDouble, RoomSuite, RoomDeluxe}

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

var RoomStatuses = []RoomStatus{RoomAvailable, RoomOccupied, RoomMaintenance}

// IsAvailable matches "available" regardless of casing.
func (s RoomStatus) IsAvailable() bool {
	return strings.EqualFold(string(s), string(RoomAvailable))
}

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked-in"
	BookingCheckedOut BookingStatus = "checked-out"
	BookingCancelled  BookingStatus = "cancelled"
)

var BookingStatuses = []BookingStatus{
	BookingPending, BookingConfirmed, BookingCheckedIn, BookingCheckedOut, BookingCancelled,
}

type Room struct {
	ID        string     `json:"_id"`
	Number    string     `json:"number"`
	Type      RoomType   `json:"type"`
	Price     float64    `json:"price"`
	Status    RoomStatus `json:"status"`
	Capacity  int        `json:"capacity"`
	Amenities []string   `json:"amenities"`
}

func (r Room) Identity() string { return r.ID }

type Guest struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
	IDNumber string `json:"idNumber,omitempty"`
}

func (g Guest) Identity() string { return g.ID }

// Booking dates are kept as sent by the backend (ISO on read) and parsed at
// render time so a malformed value degrades to "N/A" instead of failing the list.
type Booking struct {
	ID         string        `json:"_id"`
	Guest      Ref[Guest]    `json:"guestId"`
	Room       Ref[Room]     `json:"roomId"`
	CheckIn    string        `json:"checkIn"`
	CheckOut   string        `json:"checkOut"`
	Status     BookingStatus `json:"status"`
	TotalPrice *float64      `json:"totalPrice,omitempty"`
	Notes      string        `json:"notes,omitempty"`
}

func (b Booking) Identity() string { return b.ID }

type Identified interface {
	Identity() string
}

// Ref is a booking's reference to another record. The backend sends either a
// bare id or the populated record; both decode into the same value.
type Ref[T Identified] struct {
	ID       string
	Embedded *T
}

func RefTo[T Identified](id string) Ref[T] { return Ref[T]{ID: id} }

func Embed[T Identified](rec T) Ref[T] { return Ref[T]{ID: rec.Identity(), Embedded: &rec} }

func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}
	if b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = Ref[T]{ID: id}
		return nil
	}
	var rec T
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	*r = Embed(rec)
	return nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Embedded != nil {
		return json.Marshal(r.Embedded)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// Write payloads. Booking dates are in wire format (MM/DD/YYYY).

type RoomInput struct {
	Number    string     `json:"number"`
	Type      RoomType   `json:"type"`
	Price     float64    `json:"price"`
	Status    RoomStatus `json:"status"`
	Capacity  int        `json:"capacity"`
	Amenities []string   `json:"amenities"`
}

type GuestInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address,omitempty"`
	IDNumber string `json:"idNumber,omitempty"`
}

type BookingInput struct {
	GuestID  string        `json:"guestId"`
	RoomID   string        `json:"roomId"`
	CheckIn  string        `json:"checkIn"`
	CheckOut string        `json:"checkOut"`
	Status   BookingStatus `json:"status"`
	Notes    string        `json:"notes,omitempty"`
}

type AvailabilityQuery struct {
	CheckIn  string
	CheckOut string
	Type     RoomType
}

type Availability struct {
	Rooms []Room
	Count int
}

// Aggregate is the dashboard summary derived from the cached collections.
// Partial is set when at least one section could not be refreshed and its
// counts come from the previous load.
type Aggregate struct {
	TotalRooms     int
	TotalGuests    int
	TotalBookings  int
	AvailableRooms int
	Partial        bool
	Stale          []Section
}
