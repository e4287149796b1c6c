// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Validation limits for menu fields.
const (
	MaxMenuNameLen = 200
	MaxImageURLLen = 2_000
	MaxPrice       = 10_000_000
)

const minYear, maxYear = 2000, 2100

// NormalizeItem trims the text fields of m in place and checks them against
// the shared limits. Empty optional strings become nil.
func NormalizeItem(m *MenuItem) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return Invalid("menu_name", "is required")
	}
	if utf8.RuneCountInString(m.Name) > MaxMenuNameLen {
		return Invalid("menu_name", "is too long (max %d characters)", MaxMenuNameLen)
	}
	m.Category = trimOptional(m.Category)
	m.ImageURL = trimOptional(m.ImageURL)
	if m.ImageURL != nil && len(*m.ImageURL) > MaxImageURLLen {
		return Invalid("image_url", "is too long (max %d bytes)", MaxImageURLLen)
	}
	if m.Price != nil {
		if err := ValidatePrice(*m.Price); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePrice checks that p is a non-negative amount within bounds.
func ValidatePrice(p int) error {
	if p < 0 {
		return Invalid("price", "must not be negative")
	}
	if p > MaxPrice {
		return Invalid("price", "must not exceed %d", MaxPrice)
	}
	return nil
}

// ValidateDayOfWeek checks that d is 0 (Sunday) through 6 (Saturday).
func ValidateDayOfWeek(d time.Weekday) error {
	if d < time.Sunday || d > time.Saturday {
		return Invalid("day_of_week", "must be between 0 and 6")
	}
	return nil
}

// ValidateYearMonth checks a monthly anchor.
func ValidateYearMonth(ym YearMonth) error {
	if ym.Month < time.January || ym.Month > time.December {
		return Invalid("month", "must be between 1 and 12")
	}
	if ym.Year < minYear || ym.Year > maxYear {
		return Invalid("year", "must be between %d and %d", minYear, maxYear)
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
