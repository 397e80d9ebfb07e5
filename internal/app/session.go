package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotel_admin/internal/domain"
)

type FormKind string

const (
	FormRoom         FormKind = "room"
	FormGuest        FormKind = "guest"
	FormBooking      FormKind = "booking"
	FormAvailability FormKind = "availability"
)

// State is where an open modal is in its submit cycle.
type State string

const (
	StateIdle          State = "idle"
	StateFormOpen      State = "form_open"
	StateValidating    State = "validating"
	StateSubmitting    State = "submitting"
	StateSuccess       State = "success"
	StateFieldError    State = "field_error"
	StateRequestFailed State = "request_failed"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeWarning NoticeLevel = "warning"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a one-shot message shown on the next render.
type Notice struct {
	Level NoticeLevel `json:"level"`
	Text  string      `json:"text"`
}

// Modal is the single open form. EditID is the pending edit target; empty
// means the form creates.
type Modal struct {
	Form   FormKind `json:"form"`
	EditID string   `json:"editId,omitempty"`
	State  State    `json:"state"`
}

// Session is the per-browser interaction state.
type Session struct {
	ID      string         `json:"id"`
	Section domain.Section `json:"section"`
	Modal   *Modal         `json:"modal,omitempty"`
	Notice  *Notice        `json:"notice,omitempty"`
}

func NewSession() *Session {
	return &Session{ID: uuid.NewString(), Section: domain.SectionDashboard}
}

// PendingEditID is the id the open form will update, or "".
func (s *Session) PendingEditID() string {
	if s.Modal == nil {
		return ""
	}
	return s.Modal.EditID
}

// ModalState reports StateIdle when no form is open.
func (s *Session) ModalState() State {
	if s.Modal == nil {
		return StateIdle
	}
	return s.Modal.State
}

func (s *Session) Notify(level NoticeLevel, text string) {
	s.Notice = &Notice{Level: level, Text: text}
}

// TakeNotice returns the pending notice and clears it.
func (s *Session) TakeNotice() *Notice {
	n := s.Notice
	s.Notice = nil
	return n
}

// Sessions persists Session values in a domain.KV.
type Sessions struct {
	kv  domain.KV
	ttl time.Duration
}

func NewSessions(kv domain.KV, ttl time.Duration) *Sessions {
	return &Sessions{kv: kv, ttl: ttl}
}

func sessionKey(id string) string { return "session:" + id }

// Load returns the stored session, or a fresh one when id is unknown,
// malformed or expired.
func (s *Sessions) Load(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return NewSession(), nil
	}
	var sess Session
	ok, err := s.kv.Get(ctx, sessionKey(id), &sess)
	if err != nil {
		return NewSession(), fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return NewSession(), nil
	}
	if !sess.Section.Valid() {
		sess.Section = domain.SectionDashboard
	}
	sess.ID = id
	return &sess, nil
}

func (s *Sessions) Save(ctx context.Context, sess *Session) error {
	if err := s.kv.Set(ctx, sessionKey(sess.ID), sess, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Sessions) Delete(ctx context.Context, id string) error {
	return s.kv.Del(ctx, sessionKey(id))
}
