// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API over the menu service. Every
// route under /api/stores/{store} accepts a store UUID or slug.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"menuboard/internal/menu"
	"menuboard/internal/models"
	"menuboard/internal/recurrence"
)

// Menus groups the store-scoped menu endpoints.
type Menus struct {
	svc *menu.Service
}

// NewMenus creates the Menus handler group.
func NewMenus(svc *menu.Service) *Menus {
	return &Menus{svc: svc}
}

func storeParam(r *http.Request) string {
	return chi.URLParam(r, "store")
}

// itemRequest carries the fields every menu kind shares.
type itemRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Category *string `json:"category"`
	Price    *int    `json:"price" validate:"omitempty,min=0"`
	ImageURL *string `json:"image_url" validate:"omitempty,max=2000"`
}

func (i itemRequest) item() models.MenuItem {
	return models.MenuItem{Name: i.Name, Category: i.Category, Price: i.Price, ImageURL: i.ImageURL}
}

type dailyMenuRequest struct {
	itemRequest
	Date   string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Pinned bool   `json:"is_pinned"`
}

type dailyMenuUpdateRequest struct {
	Name     *string       `json:"name" validate:"omitempty,max=200"`
	Category *string       `json:"category"`
	Price    nullablePrice `json:"price"`
	ImageURL *string       `json:"image_url" validate:"omitempty,max=2000"`
	Date     *string       `json:"date"`
	Pinned   *bool         `json:"is_pinned"`
}

// nullablePrice tells an absent price apart from an explicit null, which
// clears it.
type nullablePrice struct {
	set   bool
	value *int
}

func (p *nullablePrice) UnmarshalJSON(b []byte) error {
	p.set = true
	if string(b) == "null" {
		p.value = nil
		return nil
	}
	return json.Unmarshal(b, &p.value)
}

type pinRequest struct {
	Pinned *bool `json:"is_pinned" validate:"required"`
}

type weeklyMenuRequest struct {
	itemRequest
	WeekStartDate string `json:"week_start_date" validate:"required,datetime=2006-01-02"`
	DayOfWeek     *int   `json:"day_of_week" validate:"required,min=0,max=6"`
}

type monthlyMenuRequest struct {
	itemRequest
	Year  int `json:"year" validate:"required"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

// Store returns the store profile.
func (h *Menus) Store(w http.ResponseWriter, r *http.Request) {
	store, err := h.svc.FindStore(r.Context(), storeParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

// ListMenus returns a flat, newest-first list of the store's menus.
// ?type= narrows it to one kind, ?date= to the menus applying on that date,
// and ?limit= caps the result (default 100).
func (h *Menus) ListMenus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date, err := optionalDate("date", q.Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := optionalInt("limit", q.Get("limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if q.Has("limit") && limit == 0 {
		writeError(w, r, models.Invalid("limit", "must be between 1 and %d", menu.MaxMenuLimit))
		return
	}
	entries, err := h.svc.ListMenus(r.Context(), storeParam(r), menu.MenuFilter{
		Kind:  models.MenuKind(strings.TrimSpace(q.Get("type"))),
		Date:  date,
		Limit: limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type calendarMonthResponse struct {
	Year  int                  `json:"year"`
	Month time.Month           `json:"month"`
	Days  []models.CalendarDay `json:"days"`
}

type calendarRangeResponse struct {
	From civil.Date           `json:"from"`
	To   civil.Date           `json:"to"`
	Days []models.CalendarDay `json:"days"`
}

// Calendar projects a month (?year=&month=, default the current month) or
// an explicit window (?from=&to=).
func (h *Menus) Calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("from") != "" || q.Get("to") != "" {
		from, err := parseDate("from", q.Get("from"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		to, err := parseDate("to", q.Get("to"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		days, err := h.svc.GetCalendarRange(r.Context(), storeParam(r), from, to)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, calendarRangeResponse{From: from, To: to, Days: days})
		return
	}

	ym, err := yearMonthQuery(r, models.YearMonthOf(h.svc.Today()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	days, err := h.svc.GetCalendarMonth(r.Context(), storeParam(r), ym.Year, ym.Month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarMonthResponse{Year: ym.Year, Month: ym.Month, Days: days})
}

// CalendarDay projects the single date in the URL.
func (h *Menus) CalendarDay(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate("date", chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	day, err := h.svc.GetCalendarDay(r.Context(), storeParam(r), date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// WeeklyGrid returns the category by weekday grid. The week defaults to
// the one containing today.
func (h *Menus) WeeklyGrid(w http.ResponseWriter, r *http.Request) {
	weekStart, err := h.weekStartQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	grid, err := h.svc.GetWeeklyGrid(r.Context(), storeParam(r), weekStart)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}

// ListDaily returns the daily menus for ?date= (default today).
func (h *Menus) ListDaily(w http.ResponseWriter, r *http.Request) {
	date, err := optionalDate("date", r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if date == (civil.Date{}) {
		date = h.svc.Today()
	}
	menus, err := h.svc.ListDaily(r.Context(), storeParam(r), date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menus)
}

// CreateDaily posts a daily menu.
func (h *Menus) CreateDaily(w http.ResponseWriter, r *http.Request) {
	var req dailyMenuRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := optionalDate("date", req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.svc.CreateDaily(r.Context(), storeParam(r), &models.DailyMenu{
		MenuItem: req.item(),
		Date:     date,
		Pinned:   req.Pinned,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateDaily applies a partial update. An empty category or image_url
// clears the field; a null price clears the price.
func (h *Menus) UpdateDaily(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req dailyMenuUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u := models.DailyMenuUpdate{
		Name:       req.Name,
		Category:   req.Category,
		Price:      req.Price.value,
		ClearPrice: req.Price.set && req.Price.value == nil,
		ImageURL:   req.ImageURL,
		Pinned:     req.Pinned,
	}
	if req.Date != nil {
		d, err := parseDate("date", *req.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
		u.Date = &d
	}
	updated, err := h.svc.UpdateDaily(r.Context(), storeParam(r), id, u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// PinDaily sets or clears the pinned flag.
func (h *Menus) PinDaily(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req pinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := h.svc.PinDaily(r.Context(), storeParam(r), id, *req.Pinned)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteDaily removes a daily menu.
func (h *Menus) DeleteDaily(w http.ResponseWriter, r *http.Request) {
	h.deleteMenu(w, r, h.svc.DeleteDaily)
}

// ListWeekly returns the weekly menus anchored at ?week_start_date=.
func (h *Menus) ListWeekly(w http.ResponseWriter, r *http.Request) {
	weekStart, err := h.weekStartQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	menus, err := h.svc.ListWeekly(r.Context(), storeParam(r), weekStart)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menus)
}

// CreateWeekly stores a weekly menu.
func (h *Menus) CreateWeekly(w http.ResponseWriter, r *http.Request) {
	var req weeklyMenuRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	weekStart, err := parseDate("week_start_date", req.WeekStartDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.svc.CreateWeekly(r.Context(), storeParam(r), &models.WeeklyMenu{
		MenuItem:      req.item(),
		WeekStartDate: weekStart,
		DayOfWeek:     time.Weekday(*req.DayOfWeek),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteWeekly removes a weekly menu.
func (h *Menus) DeleteWeekly(w http.ResponseWriter, r *http.Request) {
	h.deleteMenu(w, r, h.svc.DeleteWeekly)
}

// ListMonthly returns the monthly menus for ?year=&month= (default the
// current month).
func (h *Menus) ListMonthly(w http.ResponseWriter, r *http.Request) {
	ym, err := yearMonthQuery(r, models.YearMonthOf(h.svc.Today()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	menus, err := h.svc.ListMonthly(r.Context(), storeParam(r), ym)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menus)
}

// CreateMonthly stores a monthly menu.
func (h *Menus) CreateMonthly(w http.ResponseWriter, r *http.Request) {
	var req monthlyMenuRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.svc.CreateMonthly(r.Context(), storeParam(r), &models.MonthlyMenu{
		MenuItem: req.item(),
		Year:     req.Year,
		Month:    time.Month(req.Month),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteMonthly removes a monthly menu.
func (h *Menus) DeleteMonthly(w http.ResponseWriter, r *http.Request) {
	h.deleteMenu(w, r, h.svc.DeleteMonthly)
}

func (h *Menus) deleteMenu(w http.ResponseWriter, r *http.Request, del func(context.Context, string, uuid.UUID) error) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := del(r.Context(), storeParam(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Menus) weekStartQuery(r *http.Request) (civil.Date, error) {
	d, err := optionalDate("week_start_date", r.URL.Query().Get("week_start_date"))
	if err != nil {
		return civil.Date{}, err
	}
	if d == (civil.Date{}) {
		d = recurrence.WeekStartOf(h.svc.Today())
	}
	return d, nil
}

// yearMonthQuery reads ?year=&month=, falling back to def when both are
// absent.
func yearMonthQuery(r *http.Request, def models.YearMonth) (models.YearMonth, error) {
	q := r.URL.Query()
	ys, ms := strings.TrimSpace(q.Get("year")), strings.TrimSpace(q.Get("month"))
	if ys == "" && ms == "" {
		return def, nil
	}
	return parseYearMonth(ys, ms)
}

func parseYearMonth(ys, ms string) (models.YearMonth, error) {
	year, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return models.YearMonth{}, models.Invalid("year", "must be a number")
	}
	month, err := strconv.Atoi(strings.TrimSpace(ms))
	if err != nil {
		return models.YearMonth{}, models.Invalid("month", "must be a number")
	}
	ym := models.YearMonth{Year: year, Month: time.Month(month)}
	if err := models.ValidateYearMonth(ym); err != nil {
		return models.YearMonth{}, err
	}
	return ym, nil
}

// optionalInt parses s, returning 0 when s is empty.
func optionalInt(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, models.Invalid(field, "must be a number")
	}
	return n, nil
}
