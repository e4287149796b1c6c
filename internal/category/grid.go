// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"time"

	"cloud.google.com/go/civil"

	"menuboard/internal/models"
	"menuboard/internal/recurrence"
)

// Cell is one (category, weekday) slot. When no weekly menu matches, Menu is
// nil and Set is false; an unset cell is a placeholder, not an error.
type Cell struct {
	Weekday time.Weekday       `json:"day_of_week"`
	Date    civil.Date         `json:"date"`
	Set     bool               `json:"set"`
	Menu    *models.WeeklyMenu `json:"menu,omitempty"`
}

// Row is a category with one cell per grid column.
type Row struct {
	Label Label  `json:"label"`
	Cells []Cell `json:"cells"`
}

// Column is a business day of the week and its date in the grid's week.
type Column struct {
	Weekday time.Weekday `json:"day_of_week"`
	Date    civil.Date   `json:"date"`
}

// Grid is the category × weekday view of one week's weekly menus.
type Grid struct {
	WeekStartDate civil.Date `json:"week_start_date"`
	Columns       []Column   `json:"columns"`
	Rows          []Row      `json:"rows"`
}

type cellKey struct {
	day time.Weekday
	key Key
}

// Matcher indexes weekly menus by (weekday, normalized category). Each
// record's key is computed once. When several records share a slot, the
// first one in input order wins.
type Matcher struct {
	cells map[cellKey]*models.WeeklyMenu
}

// NewMatcher indexes menus. The slice must be in the store's deterministic
// fetch order for collisions to resolve predictably.
func NewMatcher(menus []models.WeeklyMenu) *Matcher {
	m := &Matcher{cells: make(map[cellKey]*models.WeeklyMenu, len(menus))}
	for i := range menus {
		k := cellKey{day: menus[i].DayOfWeek, key: Normalize(menus[i].CategoryLabel())}
		if _, taken := m.cells[k]; taken {
			continue
		}
		m.cells[k] = &menus[i]
	}
	return m
}

// Lookup returns the menu for an already-normalized key, or nil.
func (m *Matcher) Lookup(key Key, day time.Weekday) *models.WeeklyMenu {
	return m.cells[cellKey{day: day, key: key}]
}

// CellFor returns the first weekly menu whose weekday is day and whose
// normalized category equals that of label, or nil when there is none.
func CellFor(label string, day time.Weekday, menus []models.WeeklyMenu) *models.WeeklyMenu {
	key := Normalize(label)
	for i := range menus {
		if menus[i].DayOfWeek == day && Normalize(menus[i].CategoryLabel()) == key {
			return &menus[i]
		}
	}
	return nil
}

// BuildGrid lays out menus for the week anchored at weekStart: rows follow the
// store's category order, columns its business days.
func BuildGrid(store *models.Store, weekStart civil.Date, menus []models.WeeklyMenu) *Grid {
	days := store.OpenDays()
	g := &Grid{
		WeekStartDate: weekStart,
		Columns:       make([]Column, len(days)),
	}
	for i, d := range days {
		g.Columns[i] = Column{Weekday: d, Date: recurrence.DateInWeek(weekStart, d)}
	}

	m := NewMatcher(menus)
	for _, raw := range store.Categories() {
		label := Parse(raw)
		row := Row{Label: label, Cells: make([]Cell, len(g.Columns))}
		for i, col := range g.Columns {
			menu := m.Lookup(label.Key, col.Weekday)
			row.Cells[i] = Cell{Weekday: col.Weekday, Date: col.Date, Set: menu != nil, Menu: menu}
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}
