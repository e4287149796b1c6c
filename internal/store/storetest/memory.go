// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storetest provides in-memory menu record stores with the same
// method sets as the PostgreSQL stores, plus fault injection, for unit tests.
package storetest

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"menuboard/internal/models"
)

// Clock hands out strictly increasing timestamps so creation order is
// observable in tests.
type Clock struct {
	mu   sync.Mutex
	next time.Time
}

// NewClock starts a clock at a fixed instant.
func NewClock() *Clock {
	return &Clock{next: time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)}
}

// Now returns the next timestamp, one second after the previous one.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(time.Second)
	return t
}

// Memory bundles one in-memory store per record kind.
type Memory struct {
	Clock   *Clock
	Stores  *Profiles
	Daily   *DailyMenus
	Weekly  *WeeklyMenus
	Monthly *MonthlyMenus
}

// New returns empty stores sharing a clock.
func New() *Memory {
	clock := NewClock()
	return &Memory{
		Clock:   clock,
		Stores:  &Profiles{clock: clock},
		Daily:   &DailyMenus{clock: clock},
		Weekly:  &WeeklyMenus{clock: clock},
		Monthly: &MonthlyMenus{clock: clock},
	}
}

// AddStore creates a store with the given slug and settings.
func (m *Memory) AddStore(slug string, categories []string, days []time.Weekday) *models.Store {
	s, _ := m.Stores.Create(context.Background(), &models.Store{
		Slug:           slug,
		Name:           strings.ToUpper(slug),
		MenuCategories: categories,
		BusinessDays:   days,
	})
	return s
}

// Profiles is an in-memory store profile table.
type Profiles struct {
	mu     sync.Mutex
	clock  *Clock
	stores []models.Store

	// Err, when set, is returned by FindStore.
	Err error
	// Calls counts FindStore invocations.
	Calls int
}

// Create inserts a store.
func (p *Profiles) Create(_ context.Context, s *models.Store) (*models.Store, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := *s
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = p.clock.Now()
	c.UpdatedAt = c.CreatedAt
	p.stores = append(p.stores, c)
	return &c, nil
}

// FindStore looks a store up by UUID or slug. Returns nil, nil if absent.
func (p *Profiles) FindStore(_ context.Context, idOrSlug string) (*models.Store, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}
	for _, s := range p.stores {
		if s.ID.String() == idOrSlug || s.Slug == idOrSlug {
			c := s
			return &c, nil
		}
	}
	return nil, nil
}

// DailyMenus is an in-memory daily menu table.
type DailyMenus struct {
	mu    sync.Mutex
	clock *Clock
	rows  []models.DailyMenu

	// Err, when set, is returned by every read.
	Err error
	// Delay, when set, is waited out (or the context) before every read.
	Delay time.Duration
}

// Create inserts a daily menu.
func (s *DailyMenus) Create(_ context.Context, m *models.DailyMenu) (*models.DailyMenu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *m
	c.ID = uuid.New()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.clock.Now()
	}
	c.UpdatedAt = c.CreatedAt
	s.rows = append(s.rows, c)
	return &c, nil
}

// FindByID returns a store's daily menu, or nil, nil.
func (s *DailyMenus) FindByID(ctx context.Context, storeID, id uuid.UUID) (*models.DailyMenu, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.ID == id && r.StoreID == storeID {
			c := r
			return &c, nil
		}
	}
	return nil, nil
}

// FindByStoreAndDate lists daily menus posted for date.
func (s *DailyMenus) FindByStoreAndDate(ctx context.Context, storeID uuid.UUID, date civil.Date) ([]models.DailyMenu, error) {
	return s.FindByStoreAndDateRange(ctx, storeID, date, date)
}

// FindByStoreAndDateRange lists daily menus with a date in [from, to].
func (s *DailyMenus) FindByStoreAndDateRange(ctx context.Context, storeID uuid.UUID, from, to civil.Date) ([]models.DailyMenu, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.DailyMenu
	for _, r := range s.rows {
		if r.StoreID == storeID && !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindRecent lists up to limit daily menus, latest date first and pinned
// menus first within a date.
func (s *DailyMenus) FindRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]models.DailyMenu, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := owned(s.rows, func(r models.DailyMenu) bool { return r.StoreID == storeID })
	slices.SortStableFunc(out, func(a, b models.DailyMenu) int {
		if c := compareDates(b.Date, a.Date); c != 0 {
			return c
		}
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return truncate(out, limit), nil
}

// Update applies a partial update. Returns nil, nil if the menu is absent.
func (s *DailyMenus) Update(_ context.Context, storeID, id uuid.UUID, u models.DailyMenuUpdate) (*models.DailyMenu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		r := &s.rows[i]
		if r.ID != id || r.StoreID != storeID {
			continue
		}
		if u.Name != nil {
			r.Name = *u.Name
		}
		if u.Category != nil {
			r.Category = clearable(u.Category)
		}
		if u.Price != nil {
			r.Price = u.Price
		}
		if u.ClearPrice {
			r.Price = nil
		}
		if u.ImageURL != nil {
			r.ImageURL = clearable(u.ImageURL)
		}
		if u.Date != nil {
			r.Date = *u.Date
		}
		if u.Pinned != nil {
			r.Pinned = *u.Pinned
		}
		r.UpdatedAt = s.clock.Now()
		c := *r
		return &c, nil
	}
	return nil, nil
}

// Delete removes a store's daily menu, reporting whether it existed.
func (s *DailyMenus) Delete(_ context.Context, storeID, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.rows)
	s.rows = slices.DeleteFunc(s.rows, func(r models.DailyMenu) bool {
		return r.ID == id && r.StoreID == storeID
	})
	return len(s.rows) < n, nil
}

// Len returns the number of stored rows.
func (s *DailyMenus) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *DailyMenus) wait(ctx context.Context) error {
	return wait(ctx, s.Delay, s.Err)
}

// WeeklyMenus is an in-memory weekly menu table. Reads return rows in
// creation order.
type WeeklyMenus struct {
	mu    sync.Mutex
	clock *Clock
	rows  []models.WeeklyMenu

	// Err, when set, is returned by every read.
	Err error
	// FailCreate, when set, decides per record whether Create fails.
	FailCreate func(m *models.WeeklyMenu) error
	Delay      time.Duration
}

// Create inserts a weekly menu.
func (s *WeeklyMenus) Create(_ context.Context, m *models.WeeklyMenu) (*models.WeeklyMenu, error) {
	if s.FailCreate != nil {
		if err := s.FailCreate(m); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *m
	c.ID = uuid.New()
	c.CreatedAt = s.clock.Now()
	c.UpdatedAt = c.CreatedAt
	s.rows = append(s.rows, c)
	return &c, nil
}

// FindByStoreAndWeek lists weekly menus anchored exactly at weekStart.
func (s *WeeklyMenus) FindByStoreAndWeek(ctx context.Context, storeID uuid.UUID, weekStart civil.Date) ([]models.WeeklyMenu, error) {
	return s.FindByStoreAndWeekRange(ctx, storeID, weekStart, weekStart)
}

// FindByStoreAndWeekRange lists weekly menus anchored within [from, to].
func (s *WeeklyMenus) FindByStoreAndWeekRange(ctx context.Context, storeID uuid.UUID, from, to civil.Date) ([]models.WeeklyMenu, error) {
	if err := wait(ctx, s.Delay, s.Err); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WeeklyMenu
	for _, r := range s.rows {
		if r.StoreID == storeID && !r.WeekStartDate.Before(from) && !r.WeekStartDate.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindRecent lists up to limit weekly menus, latest anchor first.
func (s *WeeklyMenus) FindRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]models.WeeklyMenu, error) {
	if err := wait(ctx, s.Delay, s.Err); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := owned(s.rows, func(r models.WeeklyMenu) bool { return r.StoreID == storeID })
	slices.SortStableFunc(out, func(a, b models.WeeklyMenu) int {
		if c := compareDates(b.WeekStartDate, a.WeekStartDate); c != 0 {
			return c
		}
		return int(a.DayOfWeek) - int(b.DayOfWeek)
	})
	return truncate(out, limit), nil
}

// Delete removes a store's weekly menu, reporting whether it existed.
func (s *WeeklyMenus) Delete(_ context.Context, storeID, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.rows)
	s.rows = slices.DeleteFunc(s.rows, func(r models.WeeklyMenu) bool {
		return r.ID == id && r.StoreID == storeID
	})
	return len(s.rows) < n, nil
}

// Len returns the number of stored rows.
func (s *WeeklyMenus) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// All returns a copy of every stored row in creation order.
func (s *WeeklyMenus) All() []models.WeeklyMenu {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.rows)
}

// MonthlyMenus is an in-memory monthly menu table. Reads return rows in
// creation order.
type MonthlyMenus struct {
	mu    sync.Mutex
	clock *Clock
	rows  []models.MonthlyMenu

	// Err, when set, is returned by every read.
	Err error
	// FailCreate, when set, decides per record whether Create fails.
	FailCreate func(m *models.MonthlyMenu) error
	Delay      time.Duration
}

// Create inserts a monthly menu.
func (s *MonthlyMenus) Create(_ context.Context, m *models.MonthlyMenu) (*models.MonthlyMenu, error) {
	if s.FailCreate != nil {
		if err := s.FailCreate(m); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *m
	c.ID = uuid.New()
	c.CreatedAt = s.clock.Now()
	c.UpdatedAt = c.CreatedAt
	s.rows = append(s.rows, c)
	return &c, nil
}

// FindByStoreAndMonth lists monthly menus for one month.
func (s *MonthlyMenus) FindByStoreAndMonth(ctx context.Context, storeID uuid.UUID, ym models.YearMonth) ([]models.MonthlyMenu, error) {
	return s.FindByStoreAndMonthRange(ctx, storeID, ym, ym)
}

// FindByStoreAndMonthRange lists monthly menus for months in [from, to].
func (s *MonthlyMenus) FindByStoreAndMonthRange(ctx context.Context, storeID uuid.UUID, from, to models.YearMonth) ([]models.MonthlyMenu, error) {
	if err := wait(ctx, s.Delay, s.Err); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MonthlyMenu
	for _, r := range s.rows {
		idx := r.YearMonth().Index()
		if r.StoreID == storeID && idx >= from.Index() && idx <= to.Index() {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindRecent lists up to limit monthly menus, latest month first and by
// name within a month.
func (s *MonthlyMenus) FindRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]models.MonthlyMenu, error) {
	if err := wait(ctx, s.Delay, s.Err); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := owned(s.rows, func(r models.MonthlyMenu) bool { return r.StoreID == storeID })
	slices.SortStableFunc(out, func(a, b models.MonthlyMenu) int {
		if c := b.YearMonth().Index() - a.YearMonth().Index(); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return truncate(out, limit), nil
}

// Delete removes a store's monthly menu, reporting whether it existed.
func (s *MonthlyMenus) Delete(_ context.Context, storeID, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.rows)
	s.rows = slices.DeleteFunc(s.rows, func(r models.MonthlyMenu) bool {
		return r.ID == id && r.StoreID == storeID
	})
	return len(s.rows) < n, nil
}

// Len returns the number of stored rows.
func (s *MonthlyMenus) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func wait(ctx context.Context, delay time.Duration, err error) error {
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func owned[T any](rows []T, keep func(T) bool) []T {
	var out []T
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func truncate[T any](rows []T, limit int) []T {
	if limit >= 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// clearable maps an empty update value to a cleared (nil) column.
func clearable(s *string) *string {
	if *s == "" {
		return nil
	}
	v := *s
	return &v
}
