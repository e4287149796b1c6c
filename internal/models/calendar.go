// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "cloud.google.com/go/civil"

// MenuEntry is a tagged variant over the three record kinds. Exactly one of
// Daily, Weekly or Monthly is set, matching Kind.
type MenuEntry struct {
	Kind    MenuKind     `json:"kind"`
	Daily   *DailyMenu   `json:"daily,omitempty"`
	Weekly  *WeeklyMenu  `json:"weekly,omitempty"`
	Monthly *MonthlyMenu `json:"monthly,omitempty"`
}

// DailyEntry wraps a daily menu.
func DailyEntry(m *DailyMenu) MenuEntry { return MenuEntry{Kind: MenuKindDaily, Daily: m} }

// WeeklyEntry wraps a weekly menu.
func WeeklyEntry(m *WeeklyMenu) MenuEntry { return MenuEntry{Kind: MenuKindWeekly, Weekly: m} }

// MonthlyEntry wraps a monthly menu.
func MonthlyEntry(m *MonthlyMenu) MenuEntry { return MenuEntry{Kind: MenuKindMonthly, Monthly: m} }

// Item returns the shared fields of whichever record the entry holds.
func (e MenuEntry) Item() *MenuItem {
	switch e.Kind {
	case MenuKindDaily:
		return &e.Daily.MenuItem
	case MenuKindWeekly:
		return &e.Weekly.MenuItem
	case MenuKindMonthly:
		return &e.Monthly.MenuItem
	}
	return nil
}

// CalendarDay aggregates every menu that applies to one date. It is derived
// on each read and never stored.
type CalendarDay struct {
	Date         civil.Date    `json:"date"`
	DailyMenus   []DailyMenu   `json:"daily_menus"`
	WeeklyMenus  []WeeklyMenu  `json:"weekly_menus"`
	MonthlyMenus []MonthlyMenu `json:"monthly_menus"`
}

// IsEmpty reports whether no menu of any kind applies to the day.
func (d *CalendarDay) IsEmpty() bool {
	return len(d.DailyMenus) == 0 && len(d.WeeklyMenus) == 0 && len(d.MonthlyMenus) == 0
}

// Count returns the number of menus of all kinds on the day.
func (d *CalendarDay) Count() int {
	return len(d.DailyMenus) + len(d.WeeklyMenus) + len(d.MonthlyMenus)
}
