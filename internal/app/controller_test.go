package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_admin/internal/app"
	"hotel_admin/internal/domain"
)

func newController(t *testing.T) (*app.Controller, *fakeGateway) {
	t.Helper()
	gw := newFakeGateway()
	gw.rooms = roomsFixture()
	gw.guests = guestsFixture(3)
	gw.bookings = bookingsFixture(4)
	now := func() time.Time { return time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC) }
	c := app.NewController(gw, app.NewStateCache(gw), app.Options{RecentLimit: 5, Now: now})
	c.LoadDashboard(context.Background())
	return c, gw
}

func TestSubmitRoom_CreateIssuesOneWrite(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	sess := app.NewSession()

	room, err := c.OpenRoom(sess, "")
	require.NoError(t, err)
	assert.Nil(t, room)
	assert.Equal(t, "", sess.PendingEditID())
	assert.Equal(t, app.StateFormOpen, sess.ModalState())

	res := c.SubmitRoom(ctx, sess, app.RoomForm{Number: "301", Type: "suite", Price: "250"})
	assert.Equal(t, app.StateSuccess, res.State)
	assert.Equal(t, 1, gw.writes())
	assert.Equal(t, 1, gw.count("create.room"))
	assert.Equal(t, "", sess.PendingEditID())
	assert.Nil(t, sess.Modal)
	require.NotNil(t, sess.Notice)
	assert.Equal(t, "Room created successfully", sess.Notice.Text)
}

func TestSubmitRoom_EditTargetsOpenedID(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	sess := app.NewSession()

	room, err := c.OpenRoom(sess, "r2")
	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, "102", room.Number)
	assert.Equal(t, "r2", sess.PendingEditID())

	// every visible field changed, including the number
	res := c.SubmitRoom(ctx, sess, app.RoomForm{EditID: "r2", Number: "999", Type: "deluxe", Price: "1", Status: "maintenance", Capacity: "6"})
	assert.Equal(t, app.StateSuccess, res.State)
	assert.Equal(t, 1, gw.writes())
	assert.Equal(t, 1, gw.count("update.room"))
	assert.Equal(t, []string{"r2"}, gw.ids)
	assert.Equal(t, "999", gw.lastRoom.Number)
	assert.Equal(t, 6, gw.lastRoom.Capacity)
	assert.Equal(t, "Room updated successfully", sess.Notice.Text)
	assert.Equal(t, "", sess.PendingEditID())
}

func TestOpenClose_LeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	sess := app.NewSession()
	cache := c.Cache()
	rooms, guests, bookings := cache.Rooms(), cache.Guests(), cache.Bookings()
	calls := gw.total()

	_, err := c.OpenRoom(sess, "r1")
	require.NoError(t, err)
	c.CloseModal(sess)
	_, err = c.OpenGuest(sess, "g1")
	require.NoError(t, err)
	c.CloseModal(sess)
	_, err = c.OpenBooking(ctx, sess, "b1")
	require.NoError(t, err)
	c.CloseModal(sess)

	assert.Equal(t, rooms, cache.Rooms())
	assert.Equal(t, guests, cache.Guests())
	assert.Equal(t, bookings, cache.Bookings())
	assert.Equal(t, calls, gw.total())
	assert.Equal(t, app.StateIdle, sess.ModalState())
	assert.Equal(t, "", sess.PendingEditID())
}

func TestOpenRoom_UnknownID(t *testing.T) {
	c, _ := newController(t)
	sess := app.NewSession()
	_, err := c.OpenRoom(sess, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, sess.Modal)
}

func TestOpenBooking_FallsBackToFetch(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	gw.byID["b99"] = domain.Booking{ID: "b99", CheckIn: "2024-07-01T00:00:00.000Z", CheckOut: "2024-07-03T00:00:00.000Z"}
	sess := app.NewSession()

	b, err := c.OpenBooking(ctx, sess, "b99")
	require.NoError(t, err)
	assert.Equal(t, "b99", b.ID)
	assert.Equal(t, 1, gw.count("bookings.get"))
	assert.Equal(t, "b99", sess.PendingEditID())

	// cached bookings never hit the backend
	_, err = c.OpenBooking(ctx, sess, "b1")
	require.NoError(t, err)
	assert.Equal(t, 1, gw.count("bookings.get"))

	_, err = c.OpenBooking(ctx, sess, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NotNil(t, sess.Notice)
	assert.Equal(t, app.NoticeError, sess.Notice.Level)
}

func TestSubmitBooking_BadDatesNeverReachNetwork(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	sess := app.NewSession()
	_, _ = c.OpenBooking(ctx, sess, "")
	calls := gw.total()

	for _, d := range [][2]string{
		{"2024-06-10", "2024-06-09"},
		{"2024-6-10", "2024-6-9"},
		{"06/10/2024", "06/09/2024"},
		{"2024-06-10", "6/10/2024"},
	} {
		res := c.SubmitBooking(ctx, sess, app.BookingForm{GuestID: "g1", RoomID: "r1", CheckIn: d[0], CheckOut: d[1]})
		assert.Equal(t, app.StateFormOpen, res.State, d)
		assert.Equal(t, app.MsgCheckoutOrder, res.Errors["booking-checkout"], d)
	}
	assert.Equal(t, calls, gw.total())
	assert.Equal(t, app.StateFormOpen, sess.ModalState())
	assert.Nil(t, sess.Notice)
}

func TestCheckBookingDates_Immediate(t *testing.T) {
	c, _ := newController(t)
	assert.Equal(t, domain.FieldErrors{"booking-checkout": app.MsgCheckoutOrder}, c.CheckBookingDates("2024-06-10", "2024-06-10"))
	assert.Equal(t, domain.FieldErrors{"booking-checkout": app.MsgCheckoutOrder}, c.CheckBookingDates("2024-6-10", "2024-6-9"))
	assert.Equal(t, domain.FieldErrors{"booking-checkout": app.MsgCheckoutOrder}, c.CheckBookingDates("06/10/2024", "2024-06-09"))
	assert.Equal(t, domain.FieldErrors{"booking-checkout": app.MsgCheckoutInvalid}, c.CheckBookingDates("2024-06-10", "2024-06-31"))
	assert.Empty(t, c.CheckBookingDates("2024-06-10", "2024-06-11"))
	assert.Empty(t, c.CheckBookingDates("2024-6-10", "06/11/2024"))
}

func TestSubmitBooking_SendsWireDates(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	sess := app.NewSession()
	sess.Section = domain.SectionBookings
	_, _ = c.OpenBooking(ctx, sess, "")

	res := c.SubmitBooking(ctx, sess, app.BookingForm{GuestID: "g1", RoomID: "r1", CheckIn: "2024-03-05", CheckOut: "2024-03-07", Status: "confirmed"})
	require.Equal(t, app.StateSuccess, res.State)
	assert.Equal(t, "03/05/2024", gw.lastBooking.CheckIn)
	assert.Equal(t, "03/07/2024", gw.lastBooking.CheckOut)
	assert.Equal(t, domain.BookingConfirmed, gw.lastBooking.Status)
	// displayed section refreshed, then the dashboard reload
	assert.Equal(t, 1+1+1, gw.count("bookings.list:0"))
	assert.Equal(t, "Booking created successfully", sess.Notice.Text)
}

func TestSubmitBooking_RejectionRoutedToField(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	sess := app.NewSession()
	_, _ = c.OpenBooking(ctx, sess, "b1")
	gw.writeErr = &domain.RejectionError{Op: "bookings.update", Status: 400, Message: "Check-out date must be after check-in date"}

	res := c.SubmitBooking(ctx, sess, app.BookingForm{EditID: "b1", GuestID: "g1", RoomID: "r1", CheckIn: "2024-03-05", CheckOut: "2024-03-07"})
	assert.Equal(t, app.StateFieldError, res.State)
	assert.Equal(t, domain.FieldErrors{"booking-checkout": "Check-out date must be after check-in date"}, res.Errors)
	require.NotNil(t, sess.Notice)
	assert.Equal(t, "Error: Check-out date must be after check-in date", sess.Notice.Text)
	// form stays open on the same target
	assert.Equal(t, "b1", sess.PendingEditID())
	assert.Equal(t, app.StateFieldError, sess.ModalState())
}

func TestSubmitBooking_CheckInRejection(t *testing.T) {
	assert.Equal(t, "booking-checkin", app.BookingDateField("Check-in date cannot be in the past"))
	assert.Equal(t, "booking-checkout", app.BookingDateField("Check-out date must be after check-in date"))
	assert.Equal(t, "", app.BookingDateField("Room is already booked"))
}

func TestSubmitGuest_RequestFailedKeepsForm(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	sess := app.NewSession()
	_, _ = c.OpenGuest(sess, "")
	gw.writeErr = &domain.TransportError{Op: "guests.create", Status: 502, Err: errors.New("bad gateway")}

	res := c.SubmitGuest(ctx, sess, app.GuestForm{Name: "Ann", Email: "ann@x.io", Phone: "555"})
	assert.Equal(t, app.StateRequestFailed, res.State)
	assert.Empty(t, res.Errors)
	assert.Equal(t, "Error: Failed to save guest", sess.Notice.Text)
	assert.Equal(t, app.StateRequestFailed, sess.ModalState())

	// retry after the backend recovers
	gw.writeErr = nil
	res = c.SubmitGuest(ctx, sess, app.GuestForm{Name: "Ann", Email: "ann@x.io", Phone: "555"})
	assert.Equal(t, app.StateSuccess, res.State)
	assert.Equal(t, 2, gw.count("create.guest"))
}

func TestSubmitRoom_RejectionWithoutFieldMatch(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	sess := app.NewSession()
	_, _ = c.OpenRoom(sess, "")
	gw.writeErr = &domain.RejectionError{Op: "rooms.create", Status: 400, Message: "Room number already exists"}

	res := c.SubmitRoom(ctx, sess, app.RoomForm{Number: "101", Type: "single", Price: "80"})
	assert.Equal(t, app.StateRequestFailed, res.State)
	assert.Equal(t, "Error: Room number already exists", sess.Notice.Text)
}

func TestSubmit_WithoutOpenForm(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	sess := app.NewSession()
	_, _ = c.OpenGuest(sess, "")

	res := c.SubmitRoom(ctx, sess, app.RoomForm{Number: "1", Type: "single", Price: "1"})
	assert.Equal(t, app.StateIdle, res.State)
	assert.Equal(t, 0, gw.writes())
}

func TestSubmitRoom_ReplacedFormNeverWrites(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	sess := app.NewSession()

	// edit r2, then open a blank create form in the same session
	_, err := c.OpenRoom(sess, "r2")
	require.NoError(t, err)
	_, err = c.OpenRoom(sess, "")
	require.NoError(t, err)

	res := c.SubmitRoom(ctx, sess, app.RoomForm{EditID: "r2", Number: "102", Type: "double", Price: "120"})
	assert.Equal(t, app.StateIdle, res.State)
	assert.Equal(t, 0, gw.writes())
	require.NotNil(t, sess.Notice)
	assert.Equal(t, app.NoticeError, sess.Notice.Level)
	// the newer create form is still the open one
	assert.Equal(t, "", sess.PendingEditID())
	assert.Equal(t, app.StateFormOpen, sess.ModalState())

	// and the reverse: a create post while an edit is open
	_, _ = c.OpenRoom(sess, "r1")
	sess.Notice = nil
	res = c.SubmitRoom(ctx, sess, app.RoomForm{Number: "301", Type: "suite", Price: "250"})
	assert.Equal(t, app.StateIdle, res.State)
	assert.Equal(t, 0, gw.writes())
	assert.Equal(t, "r1", sess.PendingEditID())

	// the matching post goes through as one update
	res = c.SubmitRoom(ctx, sess, app.RoomForm{EditID: "r1", Number: "101", Type: "single", Price: "80"})
	assert.Equal(t, app.StateSuccess, res.State)
	assert.Equal(t, 1, gw.count("update.room"))
	assert.Equal(t, 0, gw.count("create.room"))
	assert.Equal(t, []string{"r1"}, gw.ids)
}

func TestDelete_DeclinedChangesNothing(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	sess := app.NewSession()
	sess.Section = domain.SectionRooms
	rooms := c.Cache().Rooms()
	calls := gw.total()

	res := c.Delete(ctx, sess, domain.SectionRooms, "r1", false)
	assert.Equal(t, app.StateIdle, res.State)
	assert.Equal(t, calls, gw.total())
	assert.Equal(t, rooms, c.Cache().Rooms())
	assert.Nil(t, sess.Notice)
}

func TestDelete_Confirmed(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	sess := app.NewSession()
	sess.Section = domain.SectionGuests
	gw.guests = gw.guests[1:]

	res := c.Delete(ctx, sess, domain.SectionGuests, "g1", true)
	assert.Equal(t, app.StateSuccess, res.State)
	assert.Equal(t, []string{"g1"}, gw.ids)
	assert.Equal(t, "Guest deleted successfully", sess.Notice.Text)
	_, ok := c.Cache().FindGuest("g1")
	assert.False(t, ok)

	gw.writeErr = &domain.RejectionError{Op: "bookings.delete", Message: "Booking not found"}
	res = c.Delete(ctx, sess, domain.SectionBookings, "b1", true)
	assert.Equal(t, app.StateRequestFailed, res.State)
	assert.Equal(t, "Error: Booking not found", sess.Notice.Text)
}

func TestCheckAvailability_ReadOnly(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	gw.avail = domain.Availability{Rooms: roomsFixture()[:1], Count: 1}
	sess := app.NewSession()
	rooms := c.Cache().Rooms()

	r := c.CheckAvailability(ctx, sess, app.AvailabilityForm{CheckIn: "2024-06-10", CheckOut: "2024-06-10"})
	assert.Equal(t, app.MsgCheckoutOrder, r.Errors["availability-checkout"])
	assert.Equal(t, 0, gw.count("rooms.available"))

	r = c.CheckAvailability(ctx, sess, app.AvailabilityForm{CheckIn: "2024-06-10", CheckOut: "2024-06-12", Type: "single"})
	require.Empty(t, r.Errors)
	require.NoError(t, r.Err)
	assert.Equal(t, 1, r.Count)
	assert.Equal(t, "06/10/2024", gw.lastQuery.CheckIn)
	assert.Equal(t, domain.RoomSingle, gw.lastQuery.Type)
	assert.Equal(t, rooms, c.Cache().Rooms())
}

func TestShow_FailureKeepsStaleList(t *testing.T) {
	ctx := context.Background()
	c, gw := newController(t)
	sess := app.NewSession()
	gw.listErr[domain.SectionRooms] = &domain.RejectionError{Op: "rooms.list", Message: "maintenance window"}

	err := c.Show(ctx, sess, domain.SectionRooms)
	require.Error(t, err)
	assert.Equal(t, domain.SectionRooms, sess.Section)
	assert.Len(t, c.Cache().Rooms(), 3)
	assert.Equal(t, "Error loading rooms: maintenance window", sess.Notice.Text)
}

func TestToday_UsesDisplayZone(t *testing.T) {
	c, _ := newController(t)
	today, tomorrow := c.Today()
	assert.Equal(t, "2024-06-01", today)
	assert.Equal(t, "2024-06-02", tomorrow)
}
