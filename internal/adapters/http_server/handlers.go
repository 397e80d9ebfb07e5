package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_admin/internal/app"
	"hotel_admin/internal/domain"
	"hotel_admin/internal/view"
)

const sessionCookie = "hoteladmin_session"

var listSections = []domain.Section{domain.SectionRooms, domain.SectionGuests, domain.SectionBookings}

type Handlers struct {
	C        *app.Controller
	Sessions *app.Sessions
	Views    *Renderer
	// SecureCookie marks the session cookie Secure (HTTPS deployments).
	SecureCookie bool
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/static/{file}", h.static)

	s.mux.Get("/", h.dashboard)
	for _, sec := range listSections {
		base := "/" + string(sec)
		s.mux.Get(base, h.list(sec))
		s.mux.Get(base+"/new", h.openForm(sec))
		s.mux.Get(base+"/{id}/edit", h.openForm(sec))
		s.mux.Post(base+"/form", h.submit(sec))
		s.mux.Get(base+"/{id}/delete", h.confirmDelete(sec))
		s.mux.Post(base+"/{id}/delete", h.delete(sec))
	}
	s.mux.Post("/bookings/form/dates", h.bookingDates)
	s.mux.Post("/modal/close", h.closeModal)
	s.mux.Get("/availability", h.availabilityForm)
	s.mux.Post("/availability", h.checkAvailability)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// ---- session plumbing ----

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) *app.Session {
	id := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	sess, err := h.Sessions.Load(r.Context(), id)
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("session load failed, starting fresh")
	}
	if sess.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func (h *Handlers) save(r *http.Request, sess *app.Session) {
	if err := h.Sessions.Save(r.Context(), sess); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("session", sess.ID).Msg("session save failed")
	}
}

func sectionURL(s domain.Section) string {
	if s == domain.SectionDashboard || s == "" {
		return "/"
	}
	return "/" + string(s)
}

// redirect persists the session and answers 303 so a reload never re-posts.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, sess *app.Session, to string) {
	h.save(r, sess)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// render draws the session's current section, with m on top when set. The
// pending notice is consumed here.
func (h *Handlers) locale(r *http.Request) view.Locale {
	return view.NewLocale(r.Header.Get("Accept-Language"), h.C.Location())
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, sess *app.Session, m *Modal, status int, body any) {
	loc := h.locale(r)
	if body == nil {
		body = h.body(r, sess.Section, loc, nil)
	}
	p := Page{
		Title:   "Hotel Management",
		Section: sess.Section,
		Nav:     append([]domain.Section{domain.SectionDashboard}, listSections...),
		Lang:    loc.Tag.String(),
		Notice:  view.NewNotice(sess.TakeNotice()),
		Modal:   m,
		Body:    body,
	}
	out, err := h.Views.Render(p)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("section", string(sess.Section)).Msg("render failed")
		writeProblem(w, http.StatusInternalServerError, "Render Failed", "page could not be rendered")
		return
	}
	h.save(r, sess)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", p.Lang)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write page body")
	}
}

// listPage is the body of a list section.
type listPage struct {
	List    any
	Search  string
	Filter  string
	Options []view.Option
}

// body builds a section from the cache. dash is used for the dashboard when
// the caller just loaded it.
func (h *Handlers) body(r *http.Request, s domain.Section, loc view.Locale, dash *app.DashboardLoad) any {
	cache := h.C.Cache()
	q := r.URL.Query()
	f := app.Filter{Search: q.Get("q")}
	switch s {
	case domain.SectionRooms:
		f.Value = q.Get("type")
		return listPage{List: view.Rooms(app.FilterRooms(cache.Rooms(), f), loc, f.Active()), Search: f.Search, Filter: f.Value, Options: view.RoomTypeFilter(f.Value)}
	case domain.SectionGuests:
		return listPage{List: view.Guests(app.FilterGuests(cache.Guests(), f), f.Active()), Search: f.Search}
	case domain.SectionBookings:
		f.Value = q.Get("status")
		return listPage{List: view.Bookings(app.FilterBookings(cache.Bookings(), f), loc, f.Active()), Search: f.Search, Filter: f.Value, Options: view.BookingStatusFilter(f.Value)}
	}
	if dash == nil {
		d := h.C.CachedDashboard()
		dash = &d
	}
	return view.NewDashboard(*dash, loc)
}

// ---- pages ----

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.C.CloseModal(sess)
	d := h.C.Dashboard(r.Context(), sess)
	loc := h.locale(r)
	h.render(w, r, sess, nil, http.StatusOK, h.body(r, domain.SectionDashboard, loc, &d))
}

// list shows a section. A filtered view works on the cached collection and
// does not reload it.
func (h *Handlers) list(sec domain.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.session(w, r)
		h.C.CloseModal(sess)
		q := r.URL.Query()
		f := app.Filter{Search: q.Get("q"), Value: q.Get("type") + q.Get("status")}
		if f.Active() {
			sess.Section = sec
		} else {
			_ = h.C.Show(r.Context(), sess, sec)
		}
		h.render(w, r, sess, nil, http.StatusOK, nil)
	}
}

func (h *Handlers) openForm(sec domain.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.session(w, r)
		id := chi.URLParam(r, "id")
		var (
			m   *Modal
			err error
		)
		switch sec {
		case domain.SectionRooms:
			var room *domain.Room
			if room, err = h.C.OpenRoom(sess, id); err == nil {
				f := view.NewRoomForm(room)
				m = &Modal{Kind: string(app.FormRoom), Room: &f}
			}
		case domain.SectionGuests:
			var g *domain.Guest
			if g, err = h.C.OpenGuest(sess, id); err == nil {
				f := view.NewGuestForm(g)
				m = &Modal{Kind: string(app.FormGuest), Guest: &f}
			}
		case domain.SectionBookings:
			var b *domain.Booking
			if b, err = h.C.OpenBooking(r.Context(), sess, id); err == nil {
				today, tomorrow := h.C.Today()
				m = h.bookingModal(view.NewBookingForm(b, h.C.Cache().Guests(), h.C.Cache().Rooms(), today, tomorrow, h.locale(r)))
			}
		}
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				sess.Notify(app.NoticeError, strings.TrimSuffix(sectionTitle(sec), "s")+" not found")
			}
			h.redirect(w, r, sess, sectionURL(sess.Section))
			return
		}
		h.render(w, r, sess, m, http.StatusOK, nil)
	}
}

func (h *Handlers) bookingModal(f view.BookingForm) *Modal {
	return &Modal{Kind: string(app.FormBooking), Booking: &f}
}

func (h *Handlers) submit(sec domain.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.session(w, r)
		if err := r.ParseForm(); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Form", "form body could not be parsed")
			return
		}
		v := r.PostForm.Get
		loc := h.locale(r)

		var (
			res app.Result
			m   *Modal
		)
		switch sec {
		case domain.SectionRooms:
			in := app.RoomForm{EditID: v("editId"), Number: v("number"), Type: v("type"), Price: v("price"), Status: v("status"), Capacity: v("capacity"), Amenities: v("amenities")}
			res = h.C.SubmitRoom(r.Context(), sess, in)
			f := view.RoomFormFromInput(in, res.Errors)
			m = &Modal{Kind: string(app.FormRoom), Room: &f}
		case domain.SectionGuests:
			in := app.GuestForm{EditID: v("editId"), Name: v("name"), Email: v("email"), Phone: v("phone"), Address: v("address"), IDNumber: v("idNumber")}
			res = h.C.SubmitGuest(r.Context(), sess, in)
			f := view.GuestFormFromInput(in, res.Errors)
			m = &Modal{Kind: string(app.FormGuest), Guest: &f}
		case domain.SectionBookings:
			in := app.BookingForm{EditID: v("editId"), GuestID: v("guestId"), RoomID: v("roomId"), CheckIn: v("checkIn"), CheckOut: v("checkOut"), Status: v("status"), Notes: v("notes")}
			res = h.C.SubmitBooking(r.Context(), sess, in)
			m = h.bookingModal(view.BookingFormFromInput(in, res.Errors, h.C.Cache().Guests(), h.C.Cache().Rooms(), loc))
		}

		switch res.State {
		case app.StateSuccess, app.StateIdle:
			h.redirect(w, r, sess, sectionURL(sess.Section))
		case app.StateRequestFailed:
			h.render(w, r, sess, m, http.StatusBadGateway, nil)
		default:
			h.render(w, r, sess, m, http.StatusUnprocessableEntity, nil)
		}
	}
}

// bookingDates answers the immediate date check with the checkout error
// fragment, empty when the dates are fine.
func (h *Handlers) bookingDates(w http.ResponseWriter, r *http.Request) {
	errs := h.C.CheckBookingDates(r.PostFormValue("checkIn"), r.PostFormValue("checkOut"))
	out, err := h.Views.Fragment("field-error", errs["booking-checkout"])
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("render date check failed")
		writeProblem(w, http.StatusInternalServerError, "Render Failed", "date check could not be rendered")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(out)
}

func (h *Handlers) closeModal(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.C.CloseModal(sess)
	h.redirect(w, r, sess, sectionURL(sess.Section))
}

func (h *Handlers) confirmDelete(sec domain.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.session(w, r)
		id := chi.URLParam(r, "id")
		label, ok := "", false
		switch sec {
		case domain.SectionRooms:
			var room domain.Room
			if room, ok = h.C.Cache().FindRoom(id); ok {
				label = "Room " + room.Number
			}
		case domain.SectionGuests:
			var g domain.Guest
			if g, ok = h.C.Cache().FindGuest(id); ok {
				label = g.Name
			}
		case domain.SectionBookings:
			var b domain.Booking
			if b, ok = h.C.Cache().FindBooking(id); ok {
				label = "Booking #" + view.ShortID(b.ID)
			}
		}
		if !ok {
			sess.Notify(app.NoticeError, strings.TrimSuffix(sectionTitle(sec), "s")+" not found")
			h.redirect(w, r, sess, sectionURL(sess.Section))
			return
		}
		c := view.NewConfirm(sec, id, label)
		c.Cancel = sectionURL(sess.Section)
		h.render(w, r, sess, &Modal{Kind: "confirm", Confirm: &c}, http.StatusOK, nil)
	}
}

func (h *Handlers) delete(sec domain.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.session(w, r)
		confirmed := r.PostFormValue("confirm") == "yes"
		h.C.Delete(r.Context(), sess, sec, chi.URLParam(r, "id"), confirmed)
		h.redirect(w, r, sess, sectionURL(sess.Section))
	}
}

func (h *Handlers) availabilityForm(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	h.C.OpenAvailability(sess)
	f := view.NewAvailabilityForm(h.C.Today())
	h.render(w, r, sess, &Modal{Kind: string(app.FormAvailability), Availability: &f}, http.StatusOK, nil)
}

func (h *Handlers) checkAvailability(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	in := app.AvailabilityForm{CheckIn: r.PostFormValue("checkIn"), CheckOut: r.PostFormValue("checkOut"), Type: r.PostFormValue("type")}
	res := h.C.CheckAvailability(r.Context(), sess, in)
	if !h.C.IsOpen(sess, app.FormAvailability) {
		h.C.OpenAvailability(sess)
	}
	loc := h.locale(r)
	f := view.AvailabilityFormFromInput(in, res.Errors).WithResults(res, loc)
	status := http.StatusOK
	if len(res.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	h.render(w, r, sess, &Modal{Kind: string(app.FormAvailability), Availability: &f}, status, nil)
}

func (h *Handlers) static(w http.ResponseWriter, r *http.Request) {
	a, ok := h.Views.static[chi.URLParam(r, "file")]
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "no such asset")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == a.etag {
		w.Header().Set("ETag", a.etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", a.etag)
	w.Header().Set("Content-Type", a.ctype)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.body); err != nil {
		log.Error().Err(err).Msg("failed to write static asset")
	}
}
