package view

import (
	"strings"

	"hotel_admin/internal/app"
	"hotel_admin/internal/domain"
)

type Card struct {
	Label string
	Value string
	Icon  string
}

type Dashboard struct {
	Cards   []Card
	Partial bool
	// Stale names the sections whose counts come from an earlier load.
	Stale  string
	Recent List[BookingRow]
	// RecentError replaces the recent table when its read failed.
	RecentError string
}

func NewDashboard(d app.DashboardLoad, l Locale) Dashboard {
	a := d.Aggregate
	out := Dashboard{
		Cards: []Card{
			{Label: "Total Rooms", Value: l.Int(a.TotalRooms), Icon: "bed"},
			{Label: "Total Guests", Value: l.Int(a.TotalGuests), Icon: "users"},
			{Label: "Total Bookings", Value: l.Int(a.TotalBookings), Icon: "calendar-check"},
			{Label: "Available Rooms", Value: l.Int(a.AvailableRooms), Icon: "door-open"},
		},
		Partial: a.Partial,
	}
	if len(a.Stale) > 0 {
		names := make([]string, len(a.Stale))
		for i, s := range a.Stale {
			names[i] = string(s)
		}
		out.Stale = strings.Join(names, ", ")
	}
	if d.RecentErr != nil {
		out.RecentError = "Failed to load recent bookings"
		return out
	}
	rows := make([]BookingRow, 0, len(d.Recent))
	for _, b := range d.Recent {
		rows = append(rows, NewBookingRow(b, l))
	}
	out.Recent = List[BookingRow]{Section: domain.SectionBookings, Rows: rows}
	if len(rows) == 0 {
		out.Recent.Empty = &Empty{Icon: "calendar-times", Message: "No recent bookings found"}
	}
	return out
}

// Notice is the toast. It hides itself after DismissMS.
type Notice struct {
	Level     string
	Text      string
	Icon      string
	DismissMS int
}

func NewNotice(n *app.Notice) *Notice {
	if n == nil {
		return nil
	}
	icon := "info-circle"
	switch n.Level {
	case app.NoticeSuccess:
		icon = "check-circle"
	case app.NoticeError:
		icon = "exclamation-circle"
	case app.NoticeWarning:
		icon = "exclamation-triangle"
	}
	return &Notice{Level: string(n.Level), Text: n.Text, Icon: icon, DismissMS: 3000}
}
