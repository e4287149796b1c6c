// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"menuboard/internal/models"
)

// MonthlyMenuStore manages monthly menus.
type MonthlyMenuStore struct {
	db *sql.DB
}

// NewMonthlyMenuStore returns a new MonthlyMenuStore.
func NewMonthlyMenuStore(db *sql.DB) *MonthlyMenuStore {
	return &MonthlyMenuStore{db: db}
}

const monthlyColumns = `id, store_id, name, category, price, image_url, year, month, created_at, updated_at`

func scanMonthly(scanner interface{ Scan(...any) error }) (*models.MonthlyMenu, error) {
	var m models.MonthlyMenu
	var month int
	err := scanner.Scan(
		&m.ID, &m.StoreID, &m.Name, &m.Category, &m.Price, &m.ImageURL,
		&m.Year, &month, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Month = time.Month(month)
	return &m, nil
}

// Create inserts a monthly menu and returns it.
func (s *MonthlyMenuStore) Create(ctx context.Context, m *models.MonthlyMenu) (*models.MonthlyMenu, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO monthly_menus (store_id, name, category, price, image_url, year, month)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+monthlyColumns,
		m.StoreID, m.Name, m.Category, m.Price, m.ImageURL, m.Year, int(m.Month),
	)
	created, err := scanMonthly(row)
	if err != nil {
		return nil, fmt.Errorf("create monthly menu: %w", err)
	}
	return created, nil
}

// FindByStoreAndMonth lists the monthly menus of one month.
func (s *MonthlyMenuStore) FindByStoreAndMonth(ctx context.Context, storeID uuid.UUID, ym models.YearMonth) ([]models.MonthlyMenu, error) {
	return s.FindByStoreAndMonthRange(ctx, storeID, ym, ym)
}

// FindByStoreAndMonthRange lists monthly menus for every month in [from, to].
func (s *MonthlyMenuStore) FindByStoreAndMonthRange(ctx context.Context, storeID uuid.UUID, from, to models.YearMonth) ([]models.MonthlyMenu, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+monthlyColumns+` FROM monthly_menus
		WHERE store_id = $1 AND (year * 12 + month - 1) BETWEEN $2 AND $3
		ORDER BY year, month, created_at, id`,
		storeID, from.Index(), to.Index(),
	)
	if err != nil {
		return nil, fmt.Errorf("list monthly menus: %w", err)
	}
	return scanMonthlyRows(rows)
}

// FindRecent lists up to limit monthly menus, latest month first.
func (s *MonthlyMenuStore) FindRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]models.MonthlyMenu, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+monthlyColumns+` FROM monthly_menus
		WHERE store_id = $1
		ORDER BY year DESC, month DESC, name, id
		LIMIT $2`,
		storeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent monthly menus: %w", err)
	}
	return scanMonthlyRows(rows)
}

func scanMonthlyRows(rows *sql.Rows) ([]models.MonthlyMenu, error) {
	defer rows.Close()
	var items []models.MonthlyMenu
	for rows.Next() {
		m, err := scanMonthly(rows)
		if err != nil {
			return nil, fmt.Errorf("scan monthly menu: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Delete removes one of a store's monthly menus, reporting whether it existed.
func (s *MonthlyMenuStore) Delete(ctx context.Context, storeID, id uuid.UUID) (bool, error) {
	return deleteScoped(ctx, s.db, "monthly_menus", storeID, id)
}
