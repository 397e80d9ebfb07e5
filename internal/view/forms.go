package view

import (
	"strconv"
	"strings"

	"hotel_admin/internal/app"
	"hotel_admin/internal/domain"
)

// Form is what every modal shares. Values are keyed by input name.
type Form struct {
	Kind   app.FormKind
	Title  string
	Submit string
	Action string
	Edit   bool
	// EditID goes back with the post so a replaced form cannot write.
	EditID string
	Values map[string]string
	Errors domain.FieldErrors
}

func (f Form) Value(name string) string { return f.Values[name] }

func (f Form) Error(field string) string { return f.Errors[field] }

func newForm(kind app.FormKind, noun, editID string) Form {
	f := Form{
		Kind:   kind,
		Title:  "Add " + noun,
		Submit: "Create " + noun,
		Action: "/" + string(kind) + "s/form",
		Edit:   editID != "",
		EditID: editID,
		Values: map[string]string{},
	}
	if f.Edit {
		f.Title, f.Submit = "Edit "+noun, "Update "+noun
	}
	return f
}

type RoomForm struct {
	Form
	Types    []Option
	Statuses []Option
}

// NewRoomForm pre-fills from room when editing; a nil room gives the create
// defaults.
func NewRoomForm(room *domain.Room) RoomForm {
	if room == nil {
		return RoomFormFromInput(app.RoomForm{Capacity: "1", Status: string(domain.RoomAvailable)}, nil)
	}
	price := ""
	if room.Price != 0 {
		price = strconv.FormatFloat(room.Price, 'f', -1, 64)
	}
	capacity := "1"
	if room.Capacity > 0 {
		capacity = strconv.Itoa(room.Capacity)
	}
	return RoomFormFromInput(app.RoomForm{
		EditID:    room.ID,
		Number:    room.Number,
		Type:      string(room.Type),
		Price:     price,
		Status:    string(room.Status),
		Capacity:  capacity,
		Amenities: strings.Join(room.Amenities, ", "),
	}, nil)
}

// RoomFormFromInput re-renders posted values, e.g. after validation failed.
func RoomFormFromInput(in app.RoomForm, errs domain.FieldErrors) RoomForm {
	f := newForm(app.FormRoom, "Room", in.EditID)
	f.Errors = errs
	f.Values["number"] = in.Number
	f.Values["type"] = in.Type
	f.Values["price"] = in.Price
	f.Values["status"] = in.Status
	f.Values["capacity"] = in.Capacity
	f.Values["amenities"] = in.Amenities
	return RoomForm{
		Form:     f,
		Types:    options(domain.RoomTypes, in.Type, func(t domain.RoomType) string { return titleWord(string(t)) }),
		Statuses: options(domain.RoomStatuses, in.Status, func(s domain.RoomStatus) string { return titleWord(string(s)) }),
	}
}

type GuestForm struct{ Form }

func NewGuestForm(g *domain.Guest) GuestForm {
	if g == nil {
		return GuestFormFromInput(app.GuestForm{}, nil)
	}
	return GuestFormFromInput(app.GuestForm{
		EditID: g.ID, Name: g.Name, Email: g.Email, Phone: g.Phone, Address: g.Address, IDNumber: g.IDNumber,
	}, nil)
}

func GuestFormFromInput(in app.GuestForm, errs domain.FieldErrors) GuestForm {
	f := newForm(app.FormGuest, "Guest", in.EditID)
	f.Errors = errs
	f.Values["name"] = in.Name
	f.Values["email"] = in.Email
	f.Values["phone"] = in.Phone
	f.Values["address"] = in.Address
	f.Values["idNumber"] = in.IDNumber
	return GuestForm{Form: f}
}

type BookingForm struct {
	Form
	Guests     []Option
	Rooms      []Option
	Statuses   []Option
	CheckInMin string
}

// NewBookingForm pre-fills from b when editing. Create mode, and edit mode
// with unreadable dates, default to a one-night stay starting today.
func NewBookingForm(b *domain.Booking, guests []domain.Guest, rooms []domain.Room, today, tomorrow string, l Locale) BookingForm {
	if b == nil {
		f := BookingFormFromInput(app.BookingForm{CheckIn: today, CheckOut: tomorrow, Status: string(domain.BookingPending)}, nil, guests, rooms, l)
		f.CheckInMin = today
		return f
	}
	in := domain.ToInputDate(b.CheckIn, l.loc)
	if in == "" {
		in = today
	}
	out := domain.ToInputDate(b.CheckOut, l.loc)
	if out == "" {
		out = tomorrow
	}
	return BookingFormFromInput(app.BookingForm{
		EditID:   b.ID,
		GuestID:  b.Guest.ID,
		RoomID:   b.Room.ID,
		CheckIn:  in,
		CheckOut: out,
		Status:   string(b.Status),
		Notes:    b.Notes,
	}, nil, guests, rooms, l)
}

// BookingFormFromInput labels room options with prices in the viewer's locale.
func BookingFormFromInput(in app.BookingForm, errs domain.FieldErrors, guests []domain.Guest, rooms []domain.Room, l Locale) BookingForm {
	f := newForm(app.FormBooking, "Booking", in.EditID)
	f.Errors = errs
	f.Values["guestId"] = in.GuestID
	f.Values["roomId"] = in.RoomID
	f.Values["checkIn"] = in.CheckIn
	f.Values["checkOut"] = in.CheckOut
	f.Values["status"] = in.Status
	f.Values["notes"] = in.Notes

	gopts := make([]Option, 0, len(guests))
	for _, g := range guests {
		gopts = append(gopts, Option{Value: g.ID, Label: g.Name + " (" + g.Email + ")", Selected: g.ID == in.GuestID})
	}
	ropts := make([]Option, 0, len(rooms))
	for _, r := range rooms {
		ropts = append(ropts, Option{
			Value:    r.ID,
			Label:    r.Number + " (" + string(r.Type) + ") - " + l.Money(r.Price) + "/night",
			Selected: r.ID == in.RoomID,
		})
	}
	return BookingForm{
		Form:     f,
		Guests:   gopts,
		Rooms:    ropts,
		Statuses: options(domain.BookingStatuses, in.Status, func(s domain.BookingStatus) string { return titleWord(string(s)) }),
	}
}

type AvailabilityForm struct {
	Form
	Types   []Option
	Results *AvailabilityResults
}

type AvailabilityResults struct {
	Count int
	Rooms []RoomRow
	Empty string
	Error string
}

func NewAvailabilityForm(today, tomorrow string) AvailabilityForm {
	return AvailabilityFormFromInput(app.AvailabilityForm{CheckIn: today, CheckOut: tomorrow}, nil)
}

func AvailabilityFormFromInput(in app.AvailabilityForm, errs domain.FieldErrors) AvailabilityForm {
	f := Form{
		Kind:   app.FormAvailability,
		Title:  "Check Room Availability",
		Submit: "Check Availability",
		Action: "/availability",
		Values: map[string]string{"checkIn": in.CheckIn, "checkOut": in.CheckOut, "type": in.Type},
		Errors: errs,
	}
	types := append([]Option{{Value: "", Label: "All Types", Selected: in.Type == ""}},
		options(domain.RoomTypes, in.Type, func(t domain.RoomType) string { return titleWord(string(t)) })...)
	return AvailabilityForm{Form: f, Types: types}
}

// WithResults attaches the outcome of a check. Errors and failed requests
// leave Results nil or carry the error text.
func (f AvailabilityForm) WithResults(r app.AvailabilityResult, l Locale) AvailabilityForm {
	switch {
	case len(r.Errors) > 0:
		return f
	case r.Err != nil:
		f.Results = &AvailabilityResults{Error: "Error checking availability"}
		return f
	}
	res := &AvailabilityResults{Count: r.Count}
	for _, room := range r.Rooms {
		res.Rooms = append(res.Rooms, NewRoomRow(room, l))
	}
	if res.Count == 0 {
		res.Count = len(res.Rooms)
	}
	if len(res.Rooms) == 0 {
		res.Empty = "No rooms available for the selected dates"
	}
	f.Results = res
	return f
}

// Confirm is the delete confirmation prompt.
type Confirm struct {
	Section domain.Section
	ID      string
	Label   string
	Prompt  string
	Action  string
	Cancel  string
}

func NewConfirm(s domain.Section, id, label string) Confirm {
	noun := strings.TrimSuffix(string(s), "s")
	return Confirm{
		Section: s,
		ID:      id,
		Label:   label,
		Prompt:  "Are you sure you want to delete this " + noun + "?",
		Action:  "/" + string(s) + "/" + id + "/delete",
		Cancel:  "/" + string(s),
	}
}
