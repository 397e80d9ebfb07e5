package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hotel_admin/internal/adapters/observability"
	"hotel_admin/internal/domain"
)

type Options struct {
	RecentLimit int
	Location    *time.Location
	Now         func() time.Time
}

// Controller drives the dashboard: navigation, the modal submit cycle,
// deletes and availability checks. It mutates the *Session it is given;
// persisting the session is the caller's job.
type Controller struct {
	gw     domain.Gateway
	cache  *StateCache
	recent int
	loc    *time.Location
	now    func() time.Time

	// last recent-bookings read, redrawn under modals
	mu         sync.RWMutex
	lastRecent []domain.Booking
	lastErr    error
}

func NewController(gw domain.Gateway, cache *StateCache, opt Options) *Controller {
	if opt.Location == nil {
		opt.Location = time.UTC
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	return &Controller{gw: gw, cache: cache, recent: opt.RecentLimit, loc: opt.Location, now: opt.Now}
}

func (c *Controller) Cache() *StateCache { return c.cache }

func (c *Controller) Location() *time.Location { return c.loc }

// Today returns today and tomorrow as input-widget dates in the display zone.
func (c *Controller) Today() (string, string) {
	return domain.StayDefaults(c.now().In(c.loc))
}

// Result is the outcome of one submit or delete.
type Result struct {
	State  State
	Errors domain.FieldErrors
}

// Show switches the session to section and reloads its collection. A failed
// load keeps the previous collection on screen and leaves an error notice.
func (c *Controller) Show(ctx context.Context, sess *Session, s domain.Section) error {
	sess.Section = s
	if s == domain.SectionDashboard {
		return nil
	}
	if err := c.cache.Refresh(ctx, s); err != nil {
		sess.Notify(NoticeError, fmt.Sprintf("Error loading %s: %s", s, domain.UserMessage(err, "request failed")))
		return err
	}
	return nil
}

// Dashboard loads the dashboard and reports partial results as a warning.
func (c *Controller) Dashboard(ctx context.Context, sess *Session) DashboardLoad {
	sess.Section = domain.SectionDashboard
	d := c.LoadDashboard(ctx)
	if failed := d.Failed(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, s := range failed {
			names[i] = string(s)
		}
		sess.Notify(NoticeWarning, "Some dashboard data could not be loaded: "+strings.Join(names, ", "))
	}
	return d
}

func (c *Controller) open(sess *Session, kind FormKind, id string) {
	sess.Modal = &Modal{Form: kind, EditID: id, State: StateFormOpen}
}

// OpenRoom opens the room form. With an id it returns the cached room to
// pre-fill from and records it as the pending edit target.
func (c *Controller) OpenRoom(sess *Session, id string) (*domain.Room, error) {
	if id == "" {
		c.open(sess, FormRoom, "")
		return nil, nil
	}
	r, ok := c.cache.FindRoom(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.open(sess, FormRoom, id)
	return &r, nil
}

func (c *Controller) OpenGuest(sess *Session, id string) (*domain.Guest, error) {
	if id == "" {
		c.open(sess, FormGuest, "")
		return nil, nil
	}
	g, ok := c.cache.FindGuest(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.open(sess, FormGuest, id)
	return &g, nil
}

// OpenBooking falls back to a direct fetch when the booking is not cached,
// since the cached list may be limited.
func (c *Controller) OpenBooking(ctx context.Context, sess *Session, id string) (*domain.Booking, error) {
	if id == "" {
		c.open(sess, FormBooking, "")
		return nil, nil
	}
	b, ok := c.cache.FindBooking(id)
	if !ok {
		var err error
		if b, err = c.gw.GetBooking(ctx, id); err != nil {
			sess.Notify(NoticeError, "Error loading booking: "+domain.UserMessage(err, "request failed"))
			return nil, err
		}
	}
	c.open(sess, FormBooking, id)
	return &b, nil
}

func (c *Controller) OpenAvailability(sess *Session) {
	c.open(sess, FormAvailability, "")
}

// CloseModal returns to idle and drops the pending edit target.
func (c *Controller) CloseModal(sess *Session) {
	sess.Modal = nil
}

func (c *Controller) IsOpen(sess *Session, kind FormKind) bool {
	return sess.Modal != nil && sess.Modal.Form == kind
}

type submission struct {
	kind    FormKind
	section domain.Section
	noun    string
	// editID is the target posted with the form.
	editID string
	// validate runs the local checks and prepares the write.
	validate func() (send func(ctx context.Context, editID string) error, errs domain.FieldErrors)
	route    func(msg string) string
}

func (c *Controller) submit(ctx context.Context, sess *Session, s submission) Result {
	if !c.IsOpen(sess, s.kind) {
		sess.Notify(NoticeError, fmt.Sprintf("The %s form is no longer open", s.noun))
		return Result{State: StateIdle}
	}
	if s.editID != sess.Modal.EditID {
		// another form of the same kind was opened since this one was shown
		log.Ctx(ctx).Warn().Str("form", string(s.kind)).Str("posted", s.editID).Str("open", sess.Modal.EditID).Msg("stale form submitted")
		observability.ObserveSubmission(string(s.kind), "stale")
		sess.Notify(NoticeError, fmt.Sprintf("This %s form was replaced by a newer one. Reopen it to save your changes", s.noun))
		return Result{State: StateIdle}
	}
	sess.Modal.State = StateValidating
	send, errs := s.validate()
	if len(errs) > 0 {
		sess.Modal.State = StateFormOpen
		observability.ObserveSubmission(string(s.kind), "invalid")
		return Result{State: StateFormOpen, Errors: errs}
	}

	sess.Modal.State = StateSubmitting
	editID := sess.Modal.EditID
	err := send(ctx, editID)
	if err == nil {
		verb := "created"
		if editID != "" {
			verb = "updated"
		}
		c.CloseModal(sess)
		observability.ObserveSubmission(string(s.kind), "success")
		c.afterWrite(ctx, sess, s.section)
		sess.Notify(NoticeSuccess, fmt.Sprintf("%s %s successfully", capitalize(s.noun), verb))
		return Result{State: StateSuccess}
	}

	log.Ctx(ctx).Warn().Err(err).Str("form", string(s.kind)).Str("edit_id", editID).Msg("submit failed")
	msg := domain.UserMessage(err, "Failed to save "+s.noun)
	sess.Notify(NoticeError, "Error: "+msg)

	var rej *domain.RejectionError
	if errors.As(err, &rej) && s.route != nil {
		if field := s.route(rej.Message); field != "" {
			sess.Modal.State = StateFieldError
			observability.ObserveSubmission(string(s.kind), "field_error")
			return Result{State: StateFieldError, Errors: domain.FieldErrors{field: rej.Message}}
		}
	}
	sess.Modal.State = StateRequestFailed
	observability.ObserveSubmission(string(s.kind), "request_failed")
	return Result{State: StateRequestFailed}
}

// afterWrite refreshes the displayed section, then the dashboard counts.
func (c *Controller) afterWrite(ctx context.Context, sess *Session, s domain.Section) {
	if sess.Section == s {
		if err := c.cache.Refresh(ctx, s); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("section", string(s)).Msg("refresh after write failed")
		}
	}
	c.LoadDashboard(ctx)
}

func (c *Controller) SubmitRoom(ctx context.Context, sess *Session, f RoomForm) Result {
	return c.submit(ctx, sess, submission{
		kind: FormRoom, editID: strings.TrimSpace(f.EditID), section: domain.SectionRooms, noun: "room",
		validate: func() (func(context.Context, string) error, domain.FieldErrors) {
			in, errs := f.Validate()
			return func(ctx context.Context, id string) error {
				if id == "" {
					return c.gw.CreateRoom(ctx, in)
				}
				return c.gw.UpdateRoom(ctx, id, in)
			}, errs
		},
	})
}

func (c *Controller) SubmitGuest(ctx context.Context, sess *Session, f GuestForm) Result {
	return c.submit(ctx, sess, submission{
		kind: FormGuest, editID: strings.TrimSpace(f.EditID), section: domain.SectionGuests, noun: "guest",
		validate: func() (func(context.Context, string) error, domain.FieldErrors) {
			in, errs := f.Validate()
			return func(ctx context.Context, id string) error {
				if id == "" {
					return c.gw.CreateGuest(ctx, in)
				}
				return c.gw.UpdateGuest(ctx, id, in)
			}, errs
		},
	})
}

func (c *Controller) SubmitBooking(ctx context.Context, sess *Session, f BookingForm) Result {
	return c.submit(ctx, sess, submission{
		kind: FormBooking, editID: strings.TrimSpace(f.EditID), section: domain.SectionBookings, noun: "booking",
		validate: func() (func(context.Context, string) error, domain.FieldErrors) {
			in, errs := f.Validate()
			return func(ctx context.Context, id string) error {
				if id == "" {
					return c.gw.CreateBooking(ctx, in)
				}
				return c.gw.UpdateBooking(ctx, id, in)
			}, errs
		},
		route: BookingDateField,
	})
}

// BookingDateField maps a backend rejection about a booking date onto the
// form field it concerns.
func BookingDateField(msg string) string {
	switch {
	case strings.Contains(msg, "Check-out date"):
		return "booking-checkout"
	case strings.Contains(msg, "Check-in date"):
		return "booking-checkin"
	}
	return ""
}

// CheckBookingDates is the immediate check run whenever either booking date
// changes. An empty result clears the field error.
func (c *Controller) CheckBookingDates(checkIn, checkOut string) domain.FieldErrors {
	return DateOrder(checkIn, checkOut, "booking-checkout")
}

// AvailabilityResult never touches the cache.
type AvailabilityResult struct {
	Query  domain.AvailabilityQuery
	Rooms  []domain.Room
	Count  int
	Errors domain.FieldErrors
	Err    error
}

func (c *Controller) CheckAvailability(ctx context.Context, sess *Session, f AvailabilityForm) AvailabilityResult {
	q, errs := f.Validate()
	if len(errs) > 0 {
		return AvailabilityResult{Errors: errs}
	}
	a, err := c.gw.CheckAvailability(ctx, q)
	if err != nil {
		sess.Notify(NoticeError, "Error checking availability: "+domain.UserMessage(err, "request failed"))
		return AvailabilityResult{Query: q, Err: err}
	}
	return AvailabilityResult{Query: q, Rooms: a.Rooms, Count: a.Count}
}

// Delete removes an item once confirmed. Without confirmation nothing
// happens at all.
func (c *Controller) Delete(ctx context.Context, sess *Session, s domain.Section, id string, confirmed bool) Result {
	if !confirmed {
		return Result{State: StateIdle}
	}
	var (
		err  error
		noun string
	)
	switch s {
	case domain.SectionRooms:
		noun, err = "room", c.gw.DeleteRoom(ctx, id)
	case domain.SectionGuests:
		noun, err = "guest", c.gw.DeleteGuest(ctx, id)
	case domain.SectionBookings:
		noun, err = "booking", c.gw.DeleteBooking(ctx, id)
	default:
		return Result{State: StateIdle}
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("section", string(s)).Str("id", id).Msg("delete failed")
		sess.Notify(NoticeError, "Error: "+domain.UserMessage(err, "Failed to delete "+noun))
		return Result{State: StateRequestFailed}
	}
	c.afterWrite(ctx, sess, s)
	sess.Notify(NoticeSuccess, capitalize(noun)+" deleted successfully")
	return Result{State: StateSuccess}
}

var title = cases.Title(language.English)

func capitalize(s string) string { return title.String(s) }
