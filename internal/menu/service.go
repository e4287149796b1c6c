// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package menu is the entry point for everything the HTTP layer does with
// menus: calendar and grid reads, bulk import and single-record writes.
// Every call names its store explicitly.
package menu

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"menuboard/internal/calendar"
	"menuboard/internal/category"
	"menuboard/internal/csvimport"
	"menuboard/internal/models"
	"menuboard/internal/recurrence"
)

// DailyStore persists daily menus. Lookups return nil, nil when the record
// is absent or belongs to another store.
type DailyStore interface {
	calendar.DailySource
	Create(ctx context.Context, m *models.DailyMenu) (*models.DailyMenu, error)
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*models.DailyMenu, error)
	FindByStoreAndDate(ctx context.Context, storeID uuid.UUID, date civil.Date) ([]models.DailyMenu, error)
	FindRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]models.DailyMenu, error)
	Update(ctx context.Context, storeID, id uuid.UUID, u models.DailyMenuUpdate) (*models.DailyMenu, error)
	Delete(ctx context.Context, storeID, id uuid.UUID) (bool, error)
}

// WeeklyStore persists weekly menus.
type WeeklyStore interface {
	calendar.WeeklySource
	csvimport.WeeklyWriter
	FindByStoreAndWeek(ctx context.Context, storeID uuid.UUID, weekStart civil.Date) ([]models.WeeklyMenu, error)
	FindRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]models.WeeklyMenu, error)
	Delete(ctx context.Context, storeID, id uuid.UUID) (bool, error)
}

// MonthlyStore persists monthly menus.
type MonthlyStore interface {
	calendar.MonthlySource
	csvimport.MonthlyWriter
	FindByStoreAndMonth(ctx context.Context, storeID uuid.UUID, ym models.YearMonth) ([]models.MonthlyMenu, error)
	FindRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]models.MonthlyMenu, error)
	Delete(ctx context.Context, storeID, id uuid.UUID) (bool, error)
}

// Options tunes a Service. Zero values pick the package defaults.
type Options struct {
	FetchTimeout   time.Duration
	ImportMaxBytes int64
	// Location decides what "today" is for daily menus created without a
	// date. Defaults to UTC.
	Location *time.Location
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Service ties the record stores to the projector and import pipeline.
type Service struct {
	stores    calendar.StoreFinder
	daily     DailyStore
	weekly    WeeklyStore
	monthly   MonthlyStore
	projector *calendar.Projector
	importer  *csvimport.Pipeline
	loc       *time.Location
	now       func() time.Time
}

// NewService wires a Service.
func NewService(stores calendar.StoreFinder, daily DailyStore, weekly WeeklyStore, monthly MonthlyStore, opts Options) *Service {
	s := &Service{
		stores:    stores,
		daily:     daily,
		weekly:    weekly,
		monthly:   monthly,
		projector: calendar.NewProjector(stores, daily, weekly, monthly, opts.FetchTimeout),
		importer:  csvimport.NewPipeline(stores, weekly, monthly, opts.ImportMaxBytes),
		loc:       opts.Location,
		now:       opts.Now,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Today returns the current date in the service's location.
func (s *Service) Today() civil.Date {
	return civil.DateOf(s.now().In(s.loc))
}

// GetCalendarMonth projects every day of a month.
func (s *Service) GetCalendarMonth(ctx context.Context, storeIDOrSlug string, year int, month time.Month) ([]models.CalendarDay, error) {
	return s.projector.ProjectMonth(ctx, storeIDOrSlug, models.YearMonth{Year: year, Month: month})
}

// GetCalendarDay projects a single date.
func (s *Service) GetCalendarDay(ctx context.Context, storeIDOrSlug string, date civil.Date) (*models.CalendarDay, error) {
	return s.projector.ProjectDate(ctx, storeIDOrSlug, date)
}

// GetCalendarRange projects an inclusive date range.
func (s *Service) GetCalendarRange(ctx context.Context, storeIDOrSlug string, start, end civil.Date) ([]models.CalendarDay, error) {
	return s.projector.ProjectRange(ctx, storeIDOrSlug, start, end)
}

// GetWeeklyGrid builds the category by business-day grid for the week
// anchored at weekStart.
func (s *Service) GetWeeklyGrid(ctx context.Context, storeIDOrSlug string, weekStart civil.Date) (*category.Grid, error) {
	if !weekStart.IsValid() {
		return nil, models.Invalid("week_start_date", "is not a valid date")
	}
	store, err := s.store(ctx, storeIDOrSlug)
	if err != nil {
		return nil, err
	}
	menus, err := s.weekly.FindByStoreAndWeek(ctx, store.ID, weekStart)
	if err != nil {
		return nil, models.Persistence("list weekly menus", err)
	}
	return category.BuildGrid(store, weekStart, menus), nil
}

// ImportCSV bulk-loads weekly or monthly menus. req.Store names the target.
func (s *Service) ImportCSV(ctx context.Context, req csvimport.Request) (*models.ImportReport, error) {
	return s.importer.Import(ctx, req)
}

// Limits applied by ListMenus.
const (
	DefaultMenuLimit = 100
	MaxMenuLimit     = 500
)

// MenuFilter narrows ListMenus. An empty Kind lists every kind. A zero Date
// lists the most recent records; otherwise only the records that apply to
// that date are returned.
type MenuFilter struct {
	Kind  models.MenuKind
	Date  civil.Date
	Limit int
}

// ListMenus returns a flat list of a store's menus of every requested kind,
// newest first. Limit caps each kind's fetch and the merged result.
func (s *Service) ListMenus(ctx context.Context, storeIDOrSlug string, f MenuFilter) ([]models.MenuEntry, error) {
	if f.Kind != "" {
		if _, ok := models.ParseMenuKind(string(f.Kind)); !ok {
			return nil, models.Invalid("type", "must be daily, weekly or monthly")
		}
	}
	limit := f.Limit
	if limit == 0 {
		limit = DefaultMenuLimit
	}
	if limit < 1 || limit > MaxMenuLimit {
		return nil, models.Invalid("limit", "must be between 1 and %d", MaxMenuLimit)
	}
	dated := f.Date != (civil.Date{})
	if dated && !f.Date.IsValid() {
		return nil, models.Invalid("date", "is not a valid date")
	}
	store, err := s.store(ctx, storeIDOrSlug)
	if err != nil {
		return nil, err
	}
	wants := func(k models.MenuKind) bool { return f.Kind == "" || f.Kind == k }

	var entries []models.MenuEntry
	if wants(models.MenuKindDaily) {
		var menus []models.DailyMenu
		if dated {
			menus, err = s.daily.FindByStoreAndDate(ctx, store.ID, f.Date)
		} else {
			menus, err = s.daily.FindRecent(ctx, store.ID, limit)
		}
		if err != nil {
			return nil, models.Persistence("list daily menus", err)
		}
		for i := range menus {
			entries = append(entries, models.DailyEntry(&menus[i]))
		}
	}
	if wants(models.MenuKindWeekly) {
		var menus []models.WeeklyMenu
		if dated {
			from, to := recurrence.WeeklyAnchorWindow(f.Date, f.Date)
			menus, err = s.weekly.FindByStoreAndWeekRange(ctx, store.ID, from, to)
		} else {
			menus, err = s.weekly.FindRecent(ctx, store.ID, limit)
		}
		if err != nil {
			return nil, models.Persistence("list weekly menus", err)
		}
		for i := range menus {
			entries = append(entries, models.WeeklyEntry(&menus[i]))
		}
	}
	if wants(models.MenuKindMonthly) {
		var menus []models.MonthlyMenu
		if dated {
			menus, err = s.monthly.FindByStoreAndMonth(ctx, store.ID, models.YearMonthOf(f.Date))
		} else {
			menus, err = s.monthly.FindRecent(ctx, store.ID, limit)
		}
		if err != nil {
			return nil, models.Persistence("list monthly menus", err)
		}
		for i := range menus {
			entries = append(entries, models.MonthlyEntry(&menus[i]))
		}
	}

	if dated {
		// The weekly anchor window over-selects; keep only what lands on the date.
		entries = slices.DeleteFunc(entries, func(e models.MenuEntry) bool {
			return !recurrence.AppliesTo(e, f.Date)
		})
	}
	slices.SortStableFunc(entries, func(a, b models.MenuEntry) int {
		return b.Item().CreatedAt.Compare(a.Item().CreatedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []models.MenuEntry{}
	}
	return entries, nil
}

// ListDaily returns the daily menus posted for date, pinned first.
func (s *Service) ListDaily(ctx context.Context, storeIDOrSlug string, date civil.Date) ([]models.DailyMenu, error) {
	store, err := s.store(ctx, storeIDOrSlug)
	if err != nil {
		return nil, err
	}
	menus, err := s.daily.FindByStoreAndDate(ctx, store.ID, date)
	if err != nil {
		return nil, models.Persistence("list daily menus", err)
	}
	if menus == nil {
		menus = []models.DailyMenu{}
	}
	calendar.SortDaily(menus)
	return menus, nil
}

// CreateDaily posts a daily menu. A zero Date means today.
func (s *Service) CreateDaily(ctx context.Context, storeIDOrSlug string, m *models.DailyMenu) (*models.DailyMenu, error) {
	store, err := s.store(ctx, storeIDOrSlug)
	if err != nil {
		return nil, err
	}
	rec := *m
	rec.StoreID = store.ID
	if rec.Date == (civil.Date{}) {
		rec.Date = s.Today()
	}
	if !rec.Date.IsValid() {
		return nil, models.Invalid("date", "is not a valid date")
	}
	if err := models.NormalizeItem(&rec.MenuItem); err != nil {
		return nil, err
	}

	created, err := s.daily.Create(ctx, &rec)
	if err != nil {
		return nil, models.Persistence("create daily menu", err)
	}
	slog.Info("daily menu created", "store_id", store.ID, "menu_id", created.ID, "date", created.Date.String())
	return created, nil
}

// UpdateDaily applies a partial update to one of the store's daily menus.
func (s *Service) UpdateDaily(ctx context.Context, storeIDOrSlug string, id uuid.UUID, u models.DailyMenuUpdate) (*models.DailyMenu, error) {
	if u.IsEmpty() {
		return nil, models.Invalid("", "nothing to update")
	}
	store, err := s.store(ctx, storeIDOrSlug)
	if err != nil {
		return nil, err
	}
	current, err := s.daily.FindByID(ctx, store.ID, id)
	if err != nil {
		return nil, models.Persistence("find daily menu", err)
	}
	if current == nil {
		return nil, fmt.Errorf("daily menu %s: %w", id, models.ErrNotFound)
	}

	u, err = normalizeUpdate(current.MenuItem, u)
	if err != nil {
		return nil, err
	}
	updated, err := s.daily.Update(ctx, store.ID, id, u)
	if err != nil {
		return nil, models.Persistence("update daily menu", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("daily menu %s: %w", id, models.ErrNotFound)
	}
	return updated, nil
}

// normalizeUpdate validates u as it would apply on top of current. Empty
// optional strings are kept as empty so that the store clears the field.
func normalizeUpdate(current models.MenuItem, u models.DailyMenuUpdate) (models.DailyMenuUpdate, error) {
	merged := current
	if u.Name != nil {
		merged.Name = *u.Name
	}
	if u.Category != nil {
		merged.Category = u.Category
	}
	if u.Price != nil {
		merged.Price = u.Price
	}
	if u.ClearPrice {
		merged.Price = nil
	}
	if u.ImageURL != nil {
		merged.ImageURL = u.ImageURL
	}
	if err := models.NormalizeItem(&merged); err != nil {
		return u, err
	}
	if u.Date != nil && !u.Date.IsValid() {
		return u, models.Invalid("date", "is not a valid date")
	}

	if u.Name != nil {
		u.Name = &merged.Name
	}
	if u.Category != nil {
		u.Category = orEmpty(merged.Category)
	}
	if u.ImageURL != nil {
		u.ImageURL = orEmpty(merged.ImageURL)
	}
	return u, nil
}

func orEmpty(s *string) *string {
	if s == nil {
		return new(string)
	}
	return s
}

// PinDaily sets or clears the pinned flag. Several menus may be pinned on
// the same date.
func (s *Service) PinDaily(ctx context.Context, storeIDOrSlug string, id uuid.UUID, pinned bool) (*models.DailyMenu, error) {
	return s.UpdateDaily(ctx, storeIDOrSlug, id, models.DailyMenuUpdate{Pinned: &pinned})
}

// DeleteDaily removes one of the store's daily menus.
func (s *Service) DeleteDaily(ctx context.Context, storeIDOrSlug string, id uuid.UUID) error {
	return s.delete(ctx, storeIDOrSlug, id, "daily", s.daily.Delete)
}

// ListWeekly returns the weekly menus anchored at weekStart in fetch order.
func (s *Service) ListWeekly(ctx context.Context, storeIDOrSlug string, weekStart civil.Date) ([]models.WeeklyMenu, error) {
	store, err := s.store(ctx, storeIDOrSlug)
	if err != nil {
		return nil, err
	}
	menus, err := s.weekly.FindByStoreAndWeek(ctx, store.ID, weekStart)
	if err != nil {
		return nil, models.Persistence("list weekly menus", err)
	}
	if menus == nil {
		menus = []models.WeeklyMenu{}
	}
	return menus, nil
}

// CreateWeekly stores a weekly menu. Existing menus for the same cell are
// left alone; the grid shows the first one.
func (s *Service) CreateWeekly(ctx context.Context, storeIDOrSlug string, m *models.WeeklyMenu) (*models.WeeklyMenu, error) {
	store, err := s.store(ctx, storeIDOrSlug)
	if err != nil {
		return nil, err
	}
	rec := *m
	rec.StoreID = store.ID
	if rec.WeekStartDate == (civil.Date{}) || !rec.WeekStartDate.IsValid() {
		return nil, models.Invalid("week_start_date", "is required")
	}
	if err := models.ValidateDayOfWeek(rec.DayOfWeek); err != nil {
		return nil, err
	}
	if err := models.NormalizeItem(&rec.MenuItem); err != nil {
		return nil, err
	}

	created, err := s.weekly.Create(ctx, &rec)
	if err != nil {
		return nil, models.Persistence("create weekly menu", err)
	}
	return created, nil
}

// DeleteWeekly removes one of the store's weekly menus.
func (s *Service) DeleteWeekly(ctx context.Context, storeIDOrSlug string, id uuid.UUID) error {
	return s.delete(ctx, storeIDOrSlug, id, "weekly", s.weekly.Delete)
}

// ListMonthly returns the monthly menus of one month in fetch order.
func (s *Service) ListMonthly(ctx context.Context, storeIDOrSlug string, ym models.YearMonth) ([]models.MonthlyMenu, error) {
	if err := models.ValidateYearMonth(ym); err != nil {
		return nil, err
	}
	store, err := s.store(ctx, storeIDOrSlug)
	if err != nil {
		return nil, err
	}
	menus, err := s.monthly.FindByStoreAndMonth(ctx, store.ID, ym)
	if err != nil {
		return nil, models.Persistence("list monthly menus", err)
	}
	if menus == nil {
		menus = []models.MonthlyMenu{}
	}
	return menus, nil
}

// CreateMonthly stores a monthly menu.
func (s *Service) CreateMonthly(ctx context.Context, storeIDOrSlug string, m *models.MonthlyMenu) (*models.MonthlyMenu, error) {
	store, err := s.store(ctx, storeIDOrSlug)
	if err != nil {
		return nil, err
	}
	rec := *m
	rec.StoreID = store.ID
	if err := models.ValidateYearMonth(rec.YearMonth()); err != nil {
		return nil, err
	}
	if err := models.NormalizeItem(&rec.MenuItem); err != nil {
		return nil, err
	}

	created, err := s.monthly.Create(ctx, &rec)
	if err != nil {
		return nil, models.Persistence("create monthly menu", err)
	}
	return created, nil
}

// DeleteMonthly removes one of the store's monthly menus.
func (s *Service) DeleteMonthly(ctx context.Context, storeIDOrSlug string, id uuid.UUID) error {
	return s.delete(ctx, storeIDOrSlug, id, "monthly", s.monthly.Delete)
}

// FindStore resolves a store, failing with ErrNotFound when it is absent.
func (s *Service) FindStore(ctx context.Context, storeIDOrSlug string) (*models.Store, error) {
	return s.store(ctx, storeIDOrSlug)
}

func (s *Service) store(ctx context.Context, idOrSlug string) (*models.Store, error) {
	store, err := s.stores.FindStore(ctx, idOrSlug)
	if err != nil {
		return nil, models.Persistence("find store", err)
	}
	if store == nil {
		return nil, fmt.Errorf("store %q: %w", idOrSlug, models.ErrNotFound)
	}
	return store, nil
}

func (s *Service) delete(ctx context.Context, storeIDOrSlug string, id uuid.UUID, kind string,
	del func(context.Context, uuid.UUID, uuid.UUID) (bool, error)) error {
	store, err := s.store(ctx, storeIDOrSlug)
	if err != nil {
		return err
	}
	ok, err := del(ctx, store.ID, id)
	if err != nil {
		return models.Persistence("delete "+kind+" menu", err)
	}
	if !ok {
		return fmt.Errorf("%s menu %s: %w", kind, id, models.ErrNotFound)
	}
	slog.Info("menu deleted", "store_id", store.ID, "kind", kind, "menu_id", id)
	return nil
}
