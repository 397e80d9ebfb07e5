package httpserver

import (
	"bytes"
	"crypto/sha1"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"hotel_admin/internal/domain"
	"hotel_admin/internal/view"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Renderer holds one parsed template set per page. Every set shares the
// layout and partials.
type Renderer struct {
	pages  map[domain.Section]*template.Template
	static map[string]asset
}

type asset struct {
	body  []byte
	etag  string
	ctype string
}

var funcs = template.FuncMap{
	"title": sectionTitle,
	"url":   sectionURL,
}

func sectionTitle(s domain.Section) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	r := &Renderer{pages: map[domain.Section]*template.Template{}, static: map[string]asset{}}
	for _, s := range []domain.Section{domain.SectionDashboard, domain.SectionRooms, domain.SectionGuests, domain.SectionBookings} {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(assets, "templates/"+string(s)+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", s, err)
		}
		r.pages[s] = t
	}

	err = fs.WalkDir(assets, "static", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := assets.ReadFile(p)
		if err != nil {
			return err
		}
		r.static[path.Base(p)] = asset{body: b, etag: etagOf(b), ctype: contentType(p)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load static: %w", err)
	}
	return r, nil
}

func etagOf(b []byte) string {
	sum := sha1.Sum(b)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`
}

func contentType(p string) string {
	switch path.Ext(p) {
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "text/javascript; charset=utf-8"
	}
	return "application/octet-stream"
}

// Page is everything the layout needs.
type Page struct {
	Title   string
	Section domain.Section
	Nav     []domain.Section
	Lang    string
	Notice  *view.Notice
	Modal   *Modal
	Body    any
}

// Modal carries the one open dialog; only the field matching Kind is set.
type Modal struct {
	Kind         string
	Room         *view.RoomForm
	Guest        *view.GuestForm
	Booking      *view.BookingForm
	Availability *view.AvailabilityForm
	Confirm      *view.Confirm
}

// Render executes the page into a buffer so a template error never leaves a
// half-written response.
func (r *Renderer) Render(p Page) ([]byte, error) {
	t, ok := r.pages[p.Section]
	if !ok {
		return nil, fmt.Errorf("no page for section %q", p.Section)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Fragment executes a named partial.
func (r *Renderer) Fragment(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.pages[domain.SectionDashboard].ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
