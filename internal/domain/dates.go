package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// InputLayout is what an <input type="date"> submits.
	InputLayout = "2006-01-02"
	// WireLayout is what the backend expects on writes and availability queries.
	WireLayout = "01/02/2006"
)

// backend read formats, most specific first
var backendLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	InputLayout,
	WireLayout,
}

// InputToWire converts YYYY-MM-DD to MM/DD/YYYY. A value already in wire
// form is validated and returned zero-padded.
func InputToWire(s string) (string, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return "", fmt.Errorf("date is required")
	case strings.Contains(s, "-") && !strings.Contains(s, "T"):
		y, m, d, err := splitDate(s, "-", 0, 1, 2)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%02d/%02d/%04d", m, d, y), nil
	case strings.Contains(s, "/"):
		y, m, d, err := splitDate(s, "/", 2, 0, 1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%02d/%02d/%04d", m, d, y), nil
	}
	t, ok := ParseBackendTime(s)
	if !ok {
		return "", fmt.Errorf("invalid date %q", s)
	}
	return t.Format(WireLayout), nil
}

// WireToInput converts MM/DD/YYYY to YYYY-MM-DD.
func WireToInput(s string) (string, error) {
	y, m, d, err := splitDate(strings.TrimSpace(s), "/", 2, 0, 1)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d), nil
}

// splitDate parses three numeric parts and rejects impossible calendar dates.
func splitDate(s, sep string, yi, mi, di int) (y, m, d int, err error) {
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid date %q", s)
	}
	var n [3]int
	for i, p := range parts {
		v, perr := strconv.Atoi(strings.TrimSpace(p))
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("invalid date %q", s)
		}
		n[i] = v
	}
	y, m, d = n[yi], n[mi], n[di]
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return 0, 0, 0, fmt.Errorf("invalid date %q", s)
	}
	return y, m, d, nil
}

// ParseBackendTime accepts the ISO timestamps the backend returns on reads
// plus the two date-only forms.
func ParseBackendTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range backendLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CalendarDay returns the calendar date of a backend value as seen in loc.
// Date-only values are taken literally; timestamps are shifted into loc first.
func CalendarDay(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	for _, layout := range []string{InputLayout, WireLayout} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	t, ok := ParseBackendTime(s)
	if !ok {
		return time.Time{}, false
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
}

// ToInputDate renders a backend value for an <input type="date">, or "".
func ToInputDate(s string, loc *time.Location) string {
	t, ok := CalendarDay(s, loc)
	if !ok {
		return ""
	}
	return t.Format(InputLayout)
}

// ParseInputDate reads any date InputToWire accepts (padded or not, input or
// wire form) as a UTC calendar day.
func ParseInputDate(s string) (time.Time, error) {
	w, err := InputToWire(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(WireLayout, w)
}

// CheckoutAfterCheckin compares two form dates by calendar day.
// Time of day never takes part.
func CheckoutAfterCheckin(checkIn, checkOut string) (bool, error) {
	in, err := ParseInputDate(checkIn)
	if err != nil {
		return false, fmt.Errorf("invalid check-in date %q", checkIn)
	}
	out, err := ParseInputDate(checkOut)
	if err != nil {
		return false, fmt.Errorf("invalid check-out date %q", checkOut)
	}
	return out.After(in), nil
}

// StayDefaults returns today and tomorrow in input-widget form.
func StayDefaults(now time.Time) (today, tomorrow string) {
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return d.Format(InputLayout), d.AddDate(0, 0, 1).Format(InputLayout)
}
