package app

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"hotel_admin/internal/domain"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail is a shape check only: something@something.something, no spaces.
func IsValidEmail(s string) bool { return emailShape.MatchString(s) }

const (
	MsgCheckoutOrder   = "Check-out date must be after check-in date"
	MsgBothDates       = "Both dates are required"
	MsgCheckinInvalid  = "Check-in date is invalid"
	MsgCheckoutInvalid = "Check-out date is invalid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("inputdate", func(fl validator.FieldLevel) bool {
		_, err := domain.InputToWire(fl.Field().String())
		return err == nil
	})
	// report errors under the form field id
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// check runs struct validation and maps each failure to its message.
// Lookup order is "field.tag", then "field".
func check(s any, messages map[string]string) domain.FieldErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return domain.FieldErrors{"form": err.Error()}
	}
	out := domain.FieldErrors{}
	for _, fe := range ves {
		name := fe.Field()
		if _, seen := out[name]; seen {
			continue
		}
		msg, ok := messages[name+"."+fe.Tag()]
		if !ok {
			msg = messages[name]
		}
		out[name] = msg
	}
	return out
}

func merge(a, b domain.FieldErrors) domain.FieldErrors {
	if len(b) == 0 {
		return a
	}
	if a == nil {
		a = domain.FieldErrors{}
	}
	for k, v := range b {
		if _, ok := a[k]; !ok {
			a[k] = v
		}
	}
	return a
}

// RoomForm is the room modal as posted.
type RoomForm struct {
	// EditID is the id the form was rendered for; empty on create.
	EditID    string
	Number    string
	Type      string
	Price     string
	Status    string
	Capacity  string
	Amenities string
}

var roomMessages = map[string]string{
	"room-number": "Room number is required",
	"room-type":   "Room type is required",
	"room-price":  "Valid price is required",
}

// Validate trims the posted values and returns the write payload, or the
// field errors to show inline.
func (f RoomForm) Validate() (domain.RoomInput, domain.FieldErrors) {
	price, perr := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	if perr != nil {
		price = 0
	}
	v := struct {
		Number string  `field:"room-number" validate:"required"`
		Type   string  `field:"room-type" validate:"required,oneof=single double suite deluxe"`
		Price  float64 `field:"room-price" validate:"gt=0"`
	}{strings.TrimSpace(f.Number), strings.TrimSpace(f.Type), price}
	if errs := check(v, roomMessages); len(errs) > 0 {
		return domain.RoomInput{}, errs
	}

	in := domain.RoomInput{
		Number:    v.Number,
		Type:      domain.RoomType(v.Type),
		Price:     price,
		Status:    domain.RoomStatus(strings.TrimSpace(f.Status)),
		Capacity:  1,
		Amenities: SplitAmenities(f.Amenities),
	}
	if in.Status == "" {
		in.Status = domain.RoomAvailable
	}
	if n, err := strconv.Atoi(strings.TrimSpace(f.Capacity)); err == nil && n > 0 {
		in.Capacity = n
	}
	return in, nil
}

// SplitAmenities turns "WiFi, TV,,Mini Bar" into its non-empty trimmed parts.
func SplitAmenities(s string) []string {
	out := []string{}
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// GuestForm is the guest modal as posted.
type GuestForm struct {
	EditID   string
	Name     string
	Email    string
	Phone    string
	Address  string
	IDNumber string
}

var guestMessages = map[string]string{
	"guest-name":  "Name is required",
	"guest-email": "Valid email is required",
	"guest-phone": "Phone is required",
}

func (f GuestForm) Validate() (domain.GuestInput, domain.FieldErrors) {
	v := struct {
		Name  string `field:"guest-name" validate:"required"`
		Email string `field:"guest-email" validate:"required,emailshape"`
		Phone string `field:"guest-phone" validate:"required"`
	}{strings.TrimSpace(f.Name), strings.TrimSpace(f.Email), strings.TrimSpace(f.Phone)}
	if errs := check(v, guestMessages); len(errs) > 0 {
		return domain.GuestInput{}, errs
	}
	return domain.GuestInput{
		Name:     v.Name,
		Email:    v.Email,
		Phone:    v.Phone,
		Address:  strings.TrimSpace(f.Address),
		IDNumber: strings.TrimSpace(f.IDNumber),
	}, nil
}

// BookingForm is the booking modal as posted. Dates are input-widget values.
type BookingForm struct {
	EditID   string
	GuestID  string
	RoomID   string
	CheckIn  string
	CheckOut string
	Status   string
	Notes    string
}

var bookingMessages = map[string]string{
	"booking-guest":              "Guest is required",
	"booking-room":               "Room is required",
	"booking-checkin":            "Check-in date is required",
	"booking-checkin.inputdate":  MsgCheckinInvalid,
	"booking-checkout":           "Check-out date is required",
	"booking-checkout.inputdate": MsgCheckoutInvalid,
}

// Validate returns the write payload with both dates already in wire form.
func (f BookingForm) Validate() (domain.BookingInput, domain.FieldErrors) {
	v := struct {
		GuestID  string `field:"booking-guest" validate:"required"`
		RoomID   string `field:"booking-room" validate:"required"`
		CheckIn  string `field:"booking-checkin" validate:"required,inputdate"`
		CheckOut string `field:"booking-checkout" validate:"required,inputdate"`
	}{strings.TrimSpace(f.GuestID), strings.TrimSpace(f.RoomID), strings.TrimSpace(f.CheckIn), strings.TrimSpace(f.CheckOut)}
	errs := check(v, bookingMessages)
	errs = merge(errs, DateOrder(v.CheckIn, v.CheckOut, "booking-checkout"))
	if len(errs) > 0 {
		return domain.BookingInput{}, errs
	}

	in := domain.BookingInput{
		GuestID: v.GuestID,
		RoomID:  v.RoomID,
		Status:  domain.BookingStatus(strings.TrimSpace(f.Status)),
		Notes:   strings.TrimSpace(f.Notes),
	}
	if in.Status == "" {
		in.Status = domain.BookingPending
	}
	// both parse: checked above
	in.CheckIn, _ = domain.InputToWire(v.CheckIn)
	in.CheckOut, _ = domain.InputToWire(v.CheckOut)
	return in, nil
}

// DateOrder reports a check-out that is not strictly after check-in under
// field. Missing dates are left to the required checks; an unreadable
// check-out is reported under field, an unreadable check-in under its own
// field check.
func DateOrder(checkIn, checkOut, field string) domain.FieldErrors {
	if strings.TrimSpace(checkIn) == "" || strings.TrimSpace(checkOut) == "" {
		return nil
	}
	if _, err := domain.ParseInputDate(checkOut); err != nil {
		return domain.FieldErrors{field: MsgCheckoutInvalid}
	}
	after, err := domain.CheckoutAfterCheckin(checkIn, checkOut)
	if err != nil {
		return nil
	}
	if !after {
		return domain.FieldErrors{field: MsgCheckoutOrder}
	}
	return nil
}

// AvailabilityForm is the availability modal as posted.
type AvailabilityForm struct {
	CheckIn  string
	CheckOut string
	Type     string
}

func (f AvailabilityForm) Validate() (domain.AvailabilityQuery, domain.FieldErrors) {
	in, out := strings.TrimSpace(f.CheckIn), strings.TrimSpace(f.CheckOut)
	if in == "" || out == "" {
		return domain.AvailabilityQuery{}, domain.FieldErrors{"availability-checkin": MsgBothDates}
	}
	win, err := domain.InputToWire(in)
	if err != nil {
		return domain.AvailabilityQuery{}, domain.FieldErrors{"availability-checkin": MsgCheckinInvalid}
	}
	wout, err := domain.InputToWire(out)
	if err != nil {
		return domain.AvailabilityQuery{}, domain.FieldErrors{"availability-checkout": MsgCheckoutInvalid}
	}
	if errs := DateOrder(in, out, "availability-checkout"); len(errs) > 0 {
		return domain.AvailabilityQuery{}, errs
	}
	return domain.AvailabilityQuery{CheckIn: win, CheckOut: wout, Type: domain.RoomType(strings.TrimSpace(f.Type))}, nil
}
