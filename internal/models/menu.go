// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and the derived view types assembled from them.
package models

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// MenuKind identifies one of the three recurrence shapes a menu record can take.
type MenuKind string

const (
	MenuKindDaily   MenuKind = "daily"
	MenuKindWeekly  MenuKind = "weekly"
	MenuKindMonthly MenuKind = "monthly"
)

// ParseMenuKind converts a raw string (e.g. a URL segment) into a MenuKind.
func ParseMenuKind(s string) (MenuKind, bool) {
	switch k := MenuKind(s); k {
	case MenuKindDaily, MenuKindWeekly, MenuKindMonthly:
		return k, true
	}
	return "", false
}

// MenuItem holds the fields shared by every menu record kind.
type MenuItem struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category,omitempty"`
	Price     *int      `json:"price,omitempty"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryLabel returns the free-text category, or "" when none is set.
func (m *MenuItem) CategoryLabel() string {
	if m.Category == nil {
		return ""
	}
	return *m.Category
}

// DailyMenu is a one-off posting for an exact calendar date. Several daily
// menus may share a date; Pinned ones are shown first.
type DailyMenu struct {
	MenuItem
	Date   civil.Date `json:"date"`
	Pinned bool       `json:"is_pinned"`
}

// WeeklyMenu recurs on a weekday within the week anchored at WeekStartDate.
// The anchor is not required to be a Monday.
type WeeklyMenu struct {
	MenuItem
	WeekStartDate civil.Date   `json:"week_start_date"`
	DayOfWeek     time.Weekday `json:"day_of_week"` // 0=Sunday … 6=Saturday
}

// MonthlyMenu applies to every day of a calendar month.
type MonthlyMenu struct {
	MenuItem
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// YearMonth returns the month this record covers.
func (m *MonthlyMenu) YearMonth() YearMonth {
	return YearMonth{Year: m.Year, Month: m.Month}
}

// DailyMenuUpdate carries the optional fields of a partial daily menu update.
// Nil fields are left unchanged; an empty Category or ImageURL clears it, and
// ClearPrice removes the price.
type DailyMenuUpdate struct {
	Name       *string
	Category   *string
	Price      *int
	ClearPrice bool
	ImageURL   *string
	Date       *civil.Date
	Pinned     *bool
}

// IsEmpty reports whether the update would change nothing.
func (u *DailyMenuUpdate) IsEmpty() bool {
	return u.Name == nil && u.Category == nil && u.Price == nil && !u.ClearPrice &&
		u.ImageURL == nil && u.Date == nil && u.Pinned == nil
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// YearMonthOf returns the month containing d.
func YearMonthOf(d civil.Date) YearMonth {
	return YearMonth{Year: d.Year, Month: d.Month}
}

// Index returns a monotonically increasing month number, useful for range
// comparisons across year boundaries.
func (ym YearMonth) Index() int {
	return ym.Year*12 + int(ym.Month) - 1
}

// IsValid reports whether the month is in 1..12 and the year is positive.
func (ym YearMonth) IsValid() bool {
	return ym.Year > 0 && ym.Month >= time.January && ym.Month <= time.December
}

// FirstDay returns the first date of the month.
func (ym YearMonth) FirstDay() civil.Date {
	return civil.Date{Year: ym.Year, Month: ym.Month, Day: 1}
}

// LastDay returns the last date of the month.
func (ym YearMonth) LastDay() civil.Date {
	next := YearMonth{Year: ym.Year, Month: ym.Month + 1}
	if next.Month > time.December {
		next = YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return next.FirstDay().AddDays(-1)
}
