package app

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_admin/internal/domain"
)

var dashboardSources = []domain.Section{domain.SectionRooms, domain.SectionGuests, domain.SectionBookings}

// SourceResult is the outcome of one collection read during a dashboard load.
type SourceResult struct {
	Section domain.Section
	Err     error
}

type DashboardLoad struct {
	Aggregate domain.Aggregate
	Sources   []SourceResult
	Recent    []domain.Booking
	RecentErr error
}

// Failed lists the sections whose read failed, in load order.
func (d DashboardLoad) Failed() []domain.Section {
	var out []domain.Section
	for _, s := range d.Sources {
		if s.Err != nil {
			out = append(out, s.Section)
		}
	}
	return out
}

// LoadDashboard reads the three collections concurrently, then the recent
// bookings. One failed read never discards the others: the aggregate is
// computed from whatever the cache holds and flagged partial.
func (c *Controller) LoadDashboard(ctx context.Context) DashboardLoad {
	results := make([]SourceResult, len(dashboardSources))
	var g errgroup.Group
	for i, s := range dashboardSources {
		g.Go(func() error {
			results[i] = SourceResult{Section: s, Err: c.cache.Refresh(ctx, s)}
			return nil
		})
	}
	_ = g.Wait()

	out := DashboardLoad{Aggregate: c.cache.Aggregate(), Sources: results}
	for _, r := range results {
		if r.Err != nil {
			log.Ctx(ctx).Warn().Err(r.Err).Str("section", string(r.Section)).Msg("dashboard source failed")
			out.Aggregate.Partial = true
			out.Aggregate.Stale = append(out.Aggregate.Stale, r.Section)
		}
	}

	if c.recent > 0 {
		recent, err := c.gw.ListBookings(ctx, c.recent)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("recent bookings failed")
			out.RecentErr = err
		} else {
			if len(recent) > c.recent {
				recent = recent[:c.recent]
			}
			out.Recent = recent
		}
		c.mu.Lock()
		c.lastRecent, c.lastErr = out.Recent, out.RecentErr
		c.mu.Unlock()
	}
	return out
}

// CachedDashboard builds the dashboard without reloading, for pages that
// redraw it underneath a modal. Recent bookings are the ones the last load
// returned, in the backend's order.
func (c *Controller) CachedDashboard() DashboardLoad {
	out := DashboardLoad{Aggregate: c.cache.Aggregate()}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out.Recent = append([]domain.Booking(nil), c.lastRecent...)
	out.RecentErr = c.lastErr
	return out
}
