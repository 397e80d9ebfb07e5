package domain_test

import (
	"testing"
	"time"

	"hotel_admin/internal/domain"
)

func TestInputToWire_RoundTripEveryDay(t *testing.T) {
	d := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	for ; !d.After(end); d = d.AddDate(0, 0, 1) {
		in := d.Format(domain.InputLayout)
		wire, err := domain.InputToWire(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if wire != d.Format(domain.WireLayout) {
			t.Fatalf("%s: wire %s", in, wire)
		}
		back, err := domain.WireToInput(wire)
		if err != nil || back != in {
			t.Fatalf("%s: round trip gave %q (%v)", in, back, err)
		}
	}
}

func TestInputToWire_Forms(t *testing.T) {
	cases := []struct {
		in, want string
		ok       bool
	}{
		{"2024-03-05", "03/05/2024", true},
		{"3/5/2024", "03/05/2024", true},
		{"2024-03-05T00:00:00.000Z", "03/05/2024", true},
		{"2024-02-30", "", false},
		{"13/01/2024", "", false},
		{"", "", false},
		{"soon", "", false},
	}
	for _, c := range cases {
		got, err := domain.InputToWire(c.in)
		if (err == nil) != c.ok || got != c.want {
			t.Fatalf("InputToWire(%q) = %q, %v", c.in, got, err)
		}
	}
}

func TestCalendarDay_DisplayZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// midnight UTC is still the previous evening in New York
	if got := domain.ToInputDate("2024-06-10T00:00:00.000Z", ny); got != "2024-06-09" {
		t.Fatalf("got %s", got)
	}
	// date-only values are never shifted
	if got := domain.ToInputDate("2024-06-10", ny); got != "2024-06-10" {
		t.Fatalf("got %s", got)
	}
	if got := domain.ToInputDate("06/10/2024", nil); got != "2024-06-10" {
		t.Fatalf("got %s", got)
	}
	if got := domain.ToInputDate("garbage", ny); got != "" {
		t.Fatalf("got %s", got)
	}
}

func TestCheckoutAfterCheckin(t *testing.T) {
	if ok, _ := domain.CheckoutAfterCheckin("2024-06-10", "2024-06-10"); ok {
		t.Fatal("same day must not pass")
	}
	if ok, _ := domain.CheckoutAfterCheckin("2024-06-10", "2024-06-09"); ok {
		t.Fatal("earlier day must not pass")
	}
	if ok, err := domain.CheckoutAfterCheckin("2024-12-31", "2025-01-01"); !ok || err != nil {
		t.Fatalf("next day: %v %v", ok, err)
	}
	if _, err := domain.CheckoutAfterCheckin("x", "2025-01-01"); err == nil {
		t.Fatal("expected parse error")
	}

	// unpadded and wire-form dates compare by calendar day too
	cases := []struct {
		in, out string
		want    bool
	}{
		{"2024-6-10", "2024-6-9", false},
		{"06/10/2024", "06/09/2024", false},
		{"2024-06-10", "6/10/2024", false},
		{"2024-6-9", "06/10/2024", true},
	}
	for _, c := range cases {
		ok, err := domain.CheckoutAfterCheckin(c.in, c.out)
		if err != nil || ok != c.want {
			t.Fatalf("%s -> %s: got %v %v, want %v", c.in, c.out, ok, err, c.want)
		}
	}
}

func TestParseInputDate(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2024-03-05", "2024-3-5", "03/05/2024", "3/5/2024"} {
		got, err := domain.ParseInputDate(s)
		if err != nil || !got.Equal(want) {
			t.Fatalf("%s: got %v %v", s, got, err)
		}
	}
	if _, err := domain.ParseInputDate("2024-02-30"); err == nil {
		t.Fatal("expected impossible date to fail")
	}
}

func TestStayDefaults(t *testing.T) {
	today, tomorrow := domain.StayDefaults(time.Date(2024, 2, 28, 23, 59, 0, 0, time.UTC))
	if today != "2024-02-28" || tomorrow != "2024-02-29" {
		t.Fatalf("got %s %s", today, tomorrow)
	}
}
