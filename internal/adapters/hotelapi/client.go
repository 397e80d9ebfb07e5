// internal/adapters/hotelapi/client.go
package hotelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"hotel_admin/internal/adapters/observability"
	"hotel_admin/internal/domain"
)

const maxBody = 4 << 20

type Options struct {
	RPS     int
	Timeout time.Duration
	// BreakerFailures is the number of consecutive transport failures that
	// opens the breaker. Zero disables tripping.
	BreakerFailures uint32
	BreakerCooldown time.Duration
	HTTPClient      *http.Client
}

type Client struct {
	base *url.URL
	hc   *http.Client
	rl   *rate.Limiter
	cb   *gobreaker.CircuitBreaker
}

var _ domain.Gateway = (*Client)(nil)

func New(base string, opt Options) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", base)
	}
	if opt.RPS <= 0 {
		opt.RPS = 10
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 15 * time.Second
	}
	if opt.BreakerCooldown <= 0 {
		opt.BreakerCooldown = 10 * time.Second
	}
	hc := opt.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opt.Timeout}
	}
	failures := opt.BreakerFailures
	return &Client{
		base: u,
		hc:   hc,
		rl:   rate.NewLimiter(rate.Limit(opt.RPS), opt.RPS),
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "hotelapi",
			Timeout: opt.BreakerCooldown,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return failures > 0 && c.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			},
		}),
	}, nil
}

// ---- Rooms ----

func (c *Client) ListRooms(ctx context.Context) ([]domain.Room, error) {
	var out []domain.Room
	if _, err := c.do(ctx, "rooms.list", http.MethodGet, "rooms", nil, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) CreateRoom(ctx context.Context, in domain.RoomInput) error {
	_, err := c.do(ctx, "rooms.create", http.MethodPost, "rooms", nil, in, nil)
	return err
}

func (c *Client) UpdateRoom(ctx context.Context, id string, in domain.RoomInput) error {
	return c.update(ctx, "rooms", id, in)
}

func (c *Client) DeleteRoom(ctx context.Context, id string) error {
	return c.delete(ctx, "rooms", id)
}

// ---- Guests ----

func (c *Client) ListGuests(ctx context.Context) ([]domain.Guest, error) {
	var out []domain.Guest
	if _, err := c.do(ctx, "guests.list", http.MethodGet, "guests", nil, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) CreateGuest(ctx context.Context, in domain.GuestInput) error {
	_, err := c.do(ctx, "guests.create", http.MethodPost, "guests", nil, in, nil)
	return err
}

func (c *Client) UpdateGuest(ctx context.Context, id string, in domain.GuestInput) error {
	return c.update(ctx, "guests", id, in)
}

func (c *Client) DeleteGuest(ctx context.Context, id string) error {
	return c.delete(ctx, "guests", id)
}

// ---- Bookings ----

func (c *Client) ListBookings(ctx context.Context, limit int) ([]domain.Booking, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var out []domain.Booking
	if _, err := c.do(ctx, "bookings.list", http.MethodGet, "bookings", q, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	if id == "" {
		return domain.Booking{}, fmt.Errorf("bookings.get: %w", domain.ErrMissingID)
	}
	var out domain.Booking
	if _, err := c.do(ctx, "bookings.get", http.MethodGet, "bookings/"+id, nil, nil, &out); err != nil {
		return domain.Booking{}, err
	}
	return out, nil
}

func (c *Client) CreateBooking(ctx context.Context, in domain.BookingInput) error {
	_, err := c.do(ctx, "bookings.create", http.MethodPost, "bookings", nil, in, nil)
	return err
}

func (c *Client) UpdateBooking(ctx context.Context, id string, in domain.BookingInput) error {
	return c.update(ctx, "bookings", id, in)
}

func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	return c.delete(ctx, "bookings", id)
}

// ---- Availability ----

// CheckAvailability always sends MM/DD/YYYY; YYYY-MM-DD input is converted.
func (c *Client) CheckAvailability(ctx context.Context, q domain.AvailabilityQuery) (domain.Availability, error) {
	in, err := domain.InputToWire(q.CheckIn)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("rooms.available: check-in: %w", err)
	}
	out, err := domain.InputToWire(q.CheckOut)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("rooms.available: check-out: %w", err)
	}
	params := url.Values{"checkIn": {in}, "checkOut": {out}}
	if q.Type != "" {
		params.Set("type", string(q.Type))
	}
	var rooms []domain.Room
	count, err := c.do(ctx, "rooms.available", http.MethodGet, "rooms/available", params, nil, &rooms)
	if err != nil {
		return domain.Availability{}, err
	}
	return domain.Availability{Rooms: nonNil(rooms), Count: count}, nil
}

// ---- Internals ----

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Count   *int            `json:"count,omitempty"`
}

type reply struct {
	status int
	env    envelope
}

func (c *Client) update(ctx context.Context, resource, id string, in any) error {
	op := resource + ".update"
	if id == "" {
		return fmt.Errorf("%s: %w", op, domain.ErrMissingID)
	}
	_, err := c.do(ctx, op, http.MethodPut, resource+"/"+id, nil, in, nil)
	return err
}

func (c *Client) delete(ctx context.Context, resource, id string) error {
	op := resource + ".delete"
	if id == "" {
		return fmt.Errorf("%s: %w", op, domain.ErrMissingID)
	}
	_, err := c.do(ctx, op, http.MethodDelete, resource+"/"+id, nil, nil, nil)
	return err
}

// do performs one round trip and unwraps the envelope data into out. The
// returned count is the envelope's count, or the decoded length without one.
// Only transport failures count against the breaker; a rejection is a
// healthy backend answering no.
func (c *Client) do(ctx context.Context, op, method, path string, q url.Values, body, out any) (int, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return 0, &domain.TransportError{Op: op, Err: err}
	}

	res, err := c.cb.Execute(func() (any, error) {
		return c.roundTrip(ctx, op, method, path, q, body)
	})
	if err != nil {
		var te *domain.TransportError
		if errors.As(err, &te) {
			return 0, err
		}
		// gobreaker.ErrOpenState / ErrTooManyRequests
		return 0, &domain.TransportError{Op: op, Err: err}
	}
	rp := res.(*reply)

	if !rp.env.Success {
		return 0, &domain.RejectionError{Op: op, Status: rp.status, Message: rp.env.Message}
	}
	if out != nil && len(rp.env.Data) > 0 && !bytes.Equal(rp.env.Data, []byte("null")) {
		if err := json.Unmarshal(rp.env.Data, out); err != nil {
			return 0, &domain.TransportError{Op: op, Status: rp.status, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	if rp.env.Count != nil {
		return *rp.env.Count, nil
	}
	return lenOf(out), nil
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, q url.Values, body any) (*reply, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &domain.TransportError{Op: op, Err: fmt.Errorf("encode body: %w", err)}
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, q), rdr)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-admin/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("hotelapi", op, 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, &domain.TransportError{Op: op, Err: ctx.Err()}
		}
		return nil, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("hotelapi", op, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &domain.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	okStatus := resp.StatusCode >= 200 && resp.StatusCode < 300
	var env envelope
	decErr := json.Unmarshal(raw, &env)

	switch {
	case okStatus && resp.StatusCode == http.StatusNoContent:
		return &reply{status: resp.StatusCode, env: envelope{Success: true}}, nil

	case okStatus && decErr == nil:
		return &reply{status: resp.StatusCode, env: env}, nil

	case okStatus:
		return nil, &domain.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", decErr)}

	case decErr == nil && env.Message != "":
		// the backend explained itself; surface its message
		env.Success = false
		return &reply{status: resp.StatusCode, env: env}, nil

	case resp.StatusCode == http.StatusNotFound:
		return nil, &domain.TransportError{Op: op, Status: resp.StatusCode, Err: domain.ErrNotFound}

	default:
		snippet := strings.TrimSpace(string(raw))
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, &domain.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("bad status: %s", snippet)}
	}
}

// endpoint joins path onto the base URL; url.URL escapes the segments.
func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	u.RawPath = ""
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func lenOf(out any) int {
	switch v := out.(type) {
	case *[]domain.Room:
		return len(*v)
	case *[]domain.Guest:
		return len(*v)
	case *[]domain.Booking:
		return len(*v)
	}
	return 0
}
