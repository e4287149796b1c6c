// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package csvimport

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"menuboard/internal/models"
)

// Column layouts. Columns past the last one are ignored; a missing price
// column is the same as an empty price.
var (
	WeeklyColumns  = []string{"day_of_week", "category", "menu_name", "price"}
	MonthlyColumns = []string{"category", "menu_name", "price"}
)

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// blank reports whether every field of rec is empty after trimming.
func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func checkWidth(rec []string, columns []string) error {
	// The trailing price column is optional.
	if need := len(columns) - 1; len(rec) < need {
		return models.Invalid("", "expected %d columns (%s), got %d",
			len(columns), strings.Join(columns, ", "), len(rec))
	}
	for i, f := range rec {
		if i < len(columns) && !utf8.ValidString(f) {
			return models.Invalid(columns[i], "is not valid UTF-8 text")
		}
	}
	return nil
}

// parseWeeklyRow validates a weekly record: day_of_week, category,
// menu_name, price.
func parseWeeklyRow(rec []string, storeID uuid.UUID, weekStart civil.Date) (*models.WeeklyMenu, error) {
	if err := checkWidth(rec, WeeklyColumns); err != nil {
		return nil, err
	}
	day, err := parseDayOfWeek(field(rec, 0))
	if err != nil {
		return nil, err
	}
	item, err := parseItem(storeID, field(rec, 1), field(rec, 2), field(rec, 3))
	if err != nil {
		return nil, err
	}
	return &models.WeeklyMenu{MenuItem: *item, WeekStartDate: weekStart, DayOfWeek: day}, nil
}

// parseMonthlyRow validates a monthly record: category, menu_name, price.
func parseMonthlyRow(rec []string, storeID uuid.UUID, ym models.YearMonth) (*models.MonthlyMenu, error) {
	if err := checkWidth(rec, MonthlyColumns); err != nil {
		return nil, err
	}
	item, err := parseItem(storeID, field(rec, 0), field(rec, 1), field(rec, 2))
	if err != nil {
		return nil, err
	}
	return &models.MonthlyMenu{MenuItem: *item, Year: ym.Year, Month: ym.Month}, nil
}

func parseItem(storeID uuid.UUID, category, name, price string) (*models.MenuItem, error) {
	item := &models.MenuItem{StoreID: storeID, Name: name}
	if category != "" {
		item.Category = &category
	}
	if err := models.NormalizeItem(item); err != nil {
		return nil, err
	}
	p, err := parsePrice(price)
	if err != nil {
		return nil, err
	}
	item.Price = p
	return item, nil
}

func parseDayOfWeek(s string) (time.Weekday, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, models.Invalid("day_of_week", "%q is not an integer between 0 and 6", s)
	}
	day := time.Weekday(n)
	if err := models.ValidateDayOfWeek(day); err != nil {
		return 0, err
	}
	return day, nil
}

// parsePrice returns nil for an empty value. Anything else must be a plain
// non-negative integer; malformed values are rejected rather than dropped.
func parsePrice(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, models.Invalid("price", "%q is not a non-negative integer", s)
	}
	if err := models.ValidatePrice(n); err != nil {
		return nil, err
	}
	return &n, nil
}
