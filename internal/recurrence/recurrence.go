// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package recurrence decides whether a menu record applies to a calendar
// date. Everything here works on civil dates, never on instants, so results
// do not depend on the server's time zone.
package recurrence

import (
	"time"

	"cloud.google.com/go/civil"

	"menuboard/internal/models"
)

// Weekday returns the day of the week of d.
func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// WeekStartOf returns the Monday on or before d. A Sunday maps to the
// Monday six days earlier.
func WeekStartOf(d civil.Date) civil.Date {
	back := (int(Weekday(d)) - int(time.Monday) + 7) % 7
	return d.AddDays(-back)
}

// DateInWeek returns the date on which day falls within the seven-day
// window starting at anchor. The anchor need not be a Monday.
func DateInWeek(anchor civil.Date, day time.Weekday) civil.Date {
	offset := (int(day) - int(Weekday(anchor)) + 7) % 7
	return anchor.AddDays(offset)
}

// EffectiveDate returns the single date a weekly record applies to.
func EffectiveDate(m *models.WeeklyMenu) civil.Date {
	return DateInWeek(m.WeekStartDate, m.DayOfWeek)
}

// DailyApplies reports whether a daily record is posted for target.
func DailyApplies(m *models.DailyMenu, target civil.Date) bool {
	return m.Date == target
}

// WeeklyApplies reports whether a weekly record's effective date is target.
func WeeklyApplies(m *models.WeeklyMenu, target civil.Date) bool {
	return EffectiveDate(m) == target
}

// MonthlyApplies reports whether target falls in the record's month. Every
// day of that month matches alike.
func MonthlyApplies(m *models.MonthlyMenu, target civil.Date) bool {
	return target.Year == m.Year && target.Month == m.Month
}

// AppliesTo dispatches on the entry's kind.
func AppliesTo(e models.MenuEntry, target civil.Date) bool {
	switch e.Kind {
	case models.MenuKindDaily:
		return DailyApplies(e.Daily, target)
	case models.MenuKindWeekly:
		return WeeklyApplies(e.Weekly, target)
	case models.MenuKindMonthly:
		return MonthlyApplies(e.Monthly, target)
	}
	return false
}

// WeeklyAnchorWindow returns the range of anchors whose seven-day window can
// reach a date in [from, to]. Any weekly record applying inside the range has
// its WeekStartDate within the returned bounds.
func WeeklyAnchorWindow(from, to civil.Date) (civil.Date, civil.Date) {
	return from.AddDays(-6), to
}

// Days returns every date in [from, to], inclusive. It returns nil when to
// precedes from.
func Days(from, to civil.Date) []civil.Date {
	if to.Before(from) {
		return nil
	}
	days := make([]civil.Date, 0, to.DaysSince(from)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}
