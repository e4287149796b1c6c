// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"menuboard/internal/models"
)

// WeeklyMenuStore manages weekly menus.
type WeeklyMenuStore struct {
	db *sql.DB
}

// NewWeeklyMenuStore returns a new WeeklyMenuStore.
func NewWeeklyMenuStore(db *sql.DB) *WeeklyMenuStore {
	return &WeeklyMenuStore{db: db}
}

const weeklyColumns = `id, store_id, name, category, price, image_url, week_start_date, day_of_week, created_at, updated_at`

// weeklyOrder is the deterministic fetch order the grid relies on: when two
// menus claim the same cell, the older one wins.
const weeklyOrder = ` ORDER BY created_at, id`

func scanWeekly(scanner interface{ Scan(...any) error }) (*models.WeeklyMenu, error) {
	var m models.WeeklyMenu
	var anchor time.Time
	var day int
	err := scanner.Scan(
		&m.ID, &m.StoreID, &m.Name, &m.Category, &m.Price, &m.ImageURL,
		&anchor, &day, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.WeekStartDate = civil.DateOf(anchor)
	m.DayOfWeek = time.Weekday(day)
	return &m, nil
}

// Create inserts a weekly menu and returns it.
func (s *WeeklyMenuStore) Create(ctx context.Context, m *models.WeeklyMenu) (*models.WeeklyMenu, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO weekly_menus (store_id, name, category, price, image_url, week_start_date, day_of_week)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7)
		RETURNING `+weeklyColumns,
		m.StoreID, m.Name, m.Category, m.Price, m.ImageURL, m.WeekStartDate.String(), int(m.DayOfWeek),
	)
	created, err := scanWeekly(row)
	if err != nil {
		return nil, fmt.Errorf("create weekly menu: %w", err)
	}
	return created, nil
}

// FindByStoreAndWeek lists the weekly menus anchored exactly at weekStart.
func (s *WeeklyMenuStore) FindByStoreAndWeek(ctx context.Context, storeID uuid.UUID, weekStart civil.Date) ([]models.WeeklyMenu, error) {
	return s.FindByStoreAndWeekRange(ctx, storeID, weekStart, weekStart)
}

// FindByStoreAndWeekRange lists weekly menus whose anchor is in [from, to].
func (s *WeeklyMenuStore) FindByStoreAndWeekRange(ctx context.Context, storeID uuid.UUID, from, to civil.Date) ([]models.WeeklyMenu, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+weeklyColumns+` FROM weekly_menus
		WHERE store_id = $1 AND week_start_date BETWEEN $2::date AND $3::date`+weeklyOrder,
		storeID, from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list weekly menus: %w", err)
	}
	return scanWeeklyRows(rows)
}

// FindRecent lists up to limit weekly menus, latest anchor first.
func (s *WeeklyMenuStore) FindRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]models.WeeklyMenu, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+weeklyColumns+` FROM weekly_menus
		WHERE store_id = $1
		ORDER BY week_start_date DESC, day_of_week, created_at, id
		LIMIT $2`,
		storeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent weekly menus: %w", err)
	}
	return scanWeeklyRows(rows)
}

func scanWeeklyRows(rows *sql.Rows) ([]models.WeeklyMenu, error) {
	defer rows.Close()
	var items []models.WeeklyMenu
	for rows.Next() {
		m, err := scanWeekly(rows)
		if err != nil {
			return nil, fmt.Errorf("scan weekly menu: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Delete removes one of a store's weekly menus, reporting whether it existed.
func (s *WeeklyMenuStore) Delete(ctx context.Context, storeID, id uuid.UUID) (bool, error) {
	return deleteScoped(ctx, s.db, "weekly_menus", storeID, id)
}
