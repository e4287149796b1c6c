// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package calendar projects daily, weekly and monthly menu records onto
// calendar dates. Projections are computed on every call; nothing here is
// cached between reads.
package calendar

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"menuboard/internal/category"
	"menuboard/internal/models"
	"menuboard/internal/recurrence"
)

// MaxRangeDays bounds a single range projection.
const MaxRangeDays = 366

// DefaultFetchTimeout bounds the concurrent record fetches of one projection.
const DefaultFetchTimeout = 5 * time.Second

// StoreFinder resolves a store by UUID or slug. It returns nil, nil when the
// store does not exist.
type StoreFinder interface {
	FindStore(ctx context.Context, idOrSlug string) (*models.Store, error)
}

// DailySource lists daily menus with a date in [from, to].
type DailySource interface {
	FindByStoreAndDateRange(ctx context.Context, storeID uuid.UUID, from, to civil.Date) ([]models.DailyMenu, error)
}

// WeeklySource lists weekly menus whose week_start_date is in [from, to], in
// deterministic order.
type WeeklySource interface {
	FindByStoreAndWeekRange(ctx context.Context, storeID uuid.UUID, from, to civil.Date) ([]models.WeeklyMenu, error)
}

// MonthlySource lists monthly menus for months in [from, to].
type MonthlySource interface {
	FindByStoreAndMonthRange(ctx context.Context, storeID uuid.UUID, from, to models.YearMonth) ([]models.MonthlyMenu, error)
}

// Projector merges the three menu kinds into CalendarDay views.
type Projector struct {
	stores  StoreFinder
	daily   DailySource
	weekly  WeeklySource
	monthly MonthlySource
	timeout time.Duration
}

// NewProjector returns a Projector. A zero timeout uses DefaultFetchTimeout.
func NewProjector(stores StoreFinder, daily DailySource, weekly WeeklySource, monthly MonthlySource, timeout time.Duration) *Projector {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Projector{stores: stores, daily: daily, weekly: weekly, monthly: monthly, timeout: timeout}
}

// ProjectDate returns the menus applying to a single date.
func (p *Projector) ProjectDate(ctx context.Context, storeIDOrSlug string, date civil.Date) (*models.CalendarDay, error) {
	days, err := p.ProjectRange(ctx, storeIDOrSlug, date, date)
	if err != nil {
		return nil, err
	}
	return &days[0], nil
}

// ProjectMonth returns one CalendarDay for every day of the month.
func (p *Projector) ProjectMonth(ctx context.Context, storeIDOrSlug string, ym models.YearMonth) ([]models.CalendarDay, error) {
	if err := models.ValidateYearMonth(ym); err != nil {
		return nil, err
	}
	return p.ProjectRange(ctx, storeIDOrSlug, ym.FirstDay(), ym.LastDay())
}

// ProjectRange returns one CalendarDay per date in [start, end], inclusive.
// It fails as a whole if the store is missing or any fetch fails; it never
// returns a calendar with a kind silently left out.
func (p *Projector) ProjectRange(ctx context.Context, storeIDOrSlug string, start, end civil.Date) ([]models.CalendarDay, error) {
	if !start.IsValid() || !end.IsValid() {
		return nil, fmt.Errorf("%w: invalid date", models.ErrInvalidRange)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s is before start %s", models.ErrInvalidRange, end, start)
	}
	if n := end.DaysSince(start) + 1; n > MaxRangeDays {
		return nil, fmt.Errorf("%w: %d days exceeds the limit of %d", models.ErrInvalidRange, n, MaxRangeDays)
	}

	store, err := p.stores.FindStore(ctx, storeIDOrSlug)
	if err != nil {
		return nil, models.Persistence("find store", err)
	}
	if store == nil {
		return nil, fmt.Errorf("store %q: %w", storeIDOrSlug, models.ErrNotFound)
	}

	set, err := p.fetch(ctx, store.ID, start, end)
	if err != nil {
		slog.Warn("calendar projection failed",
			"store_id", store.ID,
			"start", start.String(),
			"end", end.String(),
			"error", err,
		)
		return nil, err
	}

	order := categoryOrder(store)
	dates := recurrence.Days(start, end)
	days := make([]models.CalendarDay, len(dates))
	var busy, menus int
	for i, d := range dates {
		days[i] = set.project(d, order)
		if !days[i].IsEmpty() {
			busy++
			menus += days[i].Count()
		}
	}
	slog.Debug("calendar projected",
		"store_id", store.ID,
		"start", start.String(),
		"end", end.String(),
		"days_with_menus", busy,
		"menus", menus,
	)
	return days, nil
}

// recordSet holds every record that may apply somewhere in a range.
type recordSet struct {
	daily   []models.DailyMenu
	weekly  []models.WeeklyMenu
	monthly []models.MonthlyMenu
}

// fetch loads the three kinds concurrently and waits for all of them. The
// first failure cancels the others and is returned.
func (p *Projector) fetch(ctx context.Context, storeID uuid.UUID, start, end civil.Date) (*recordSet, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var set recordSet
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		menus, err := p.daily.FindByStoreAndDateRange(gctx, storeID, start, end)
		if err != nil {
			return models.Persistence("fetch daily menus", err)
		}
		set.daily = menus
		return nil
	})
	g.Go(func() error {
		from, to := recurrence.WeeklyAnchorWindow(start, end)
		menus, err := p.weekly.FindByStoreAndWeekRange(gctx, storeID, from, to)
		if err != nil {
			return models.Persistence("fetch weekly menus", err)
		}
		set.weekly = menus
		return nil
	})
	g.Go(func() error {
		menus, err := p.monthly.FindByStoreAndMonthRange(gctx, storeID, models.YearMonthOf(start), models.YearMonthOf(end))
		if err != nil {
			return models.Persistence("fetch monthly menus", err)
		}
		set.monthly = menus
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &set, nil
}

// project assembles the view for one date.
func (s *recordSet) project(date civil.Date, order map[category.Key]int) models.CalendarDay {
	day := models.CalendarDay{
		Date:         date,
		DailyMenus:   []models.DailyMenu{},
		WeeklyMenus:  []models.WeeklyMenu{},
		MonthlyMenus: []models.MonthlyMenu{},
	}

	for i := range s.daily {
		if recurrence.DailyApplies(&s.daily[i], date) {
			day.DailyMenus = append(day.DailyMenus, s.daily[i])
		}
	}
	SortDaily(day.DailyMenus)

	seen := make(map[category.Key]bool)
	for i := range s.weekly {
		m := &s.weekly[i]
		if !recurrence.WeeklyApplies(m, date) {
			continue
		}
		key := category.Normalize(m.CategoryLabel())
		if seen[key] {
			continue
		}
		seen[key] = true
		day.WeeklyMenus = append(day.WeeklyMenus, *m)
	}
	sortWeekly(day.WeeklyMenus, order)

	for i := range s.monthly {
		if recurrence.MonthlyApplies(&s.monthly[i], date) {
			day.MonthlyMenus = append(day.MonthlyMenus, s.monthly[i])
		}
	}
	return day
}

// SortDaily orders daily menus pinned first, then newest first. Equal
// elements keep their input order.
func SortDaily(menus []models.DailyMenu) {
	slices.SortStableFunc(menus, func(a, b models.DailyMenu) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// categoryOrder maps each of the store's category keys to its display rank.
func categoryOrder(store *models.Store) map[category.Key]int {
	labels := store.Categories()
	order := make(map[category.Key]int, len(labels))
	for i, l := range labels {
		k := category.Normalize(l)
		if _, ok := order[k]; !ok {
			order[k] = i
		}
	}
	return order
}

// sortWeekly puts menus whose category is one of the store's labels first,
// in the store's order; the rest follow in fetch order.
func sortWeekly(menus []models.WeeklyMenu, order map[category.Key]int) {
	rank := func(m models.WeeklyMenu) int {
		if r, ok := order[category.Normalize(m.CategoryLabel())]; ok {
			return r
		}
		return len(order)
	}
	slices.SortStableFunc(menus, func(a, b models.WeeklyMenu) int {
		return cmp.Compare(rank(a), rank(b))
	})
}
