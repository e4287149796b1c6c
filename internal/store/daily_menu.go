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

// DailyMenuStore manages one-off daily menus.
type DailyMenuStore struct {
	db *sql.DB
}

// NewDailyMenuStore returns a new DailyMenuStore.
func NewDailyMenuStore(db *sql.DB) *DailyMenuStore {
	return &DailyMenuStore{db: db}
}

const dailyColumns = `id, store_id, name, category, price, image_url, date, is_pinned, created_at, updated_at`

// dailyOrder lists pinned menus first, newest first within each group.
const dailyOrder = ` ORDER BY date, is_pinned DESC, created_at DESC, id`

func scanDaily(scanner interface{ Scan(...any) error }) (*models.DailyMenu, error) {
	var m models.DailyMenu
	var date time.Time
	err := scanner.Scan(
		&m.ID, &m.StoreID, &m.Name, &m.Category, &m.Price, &m.ImageURL,
		&date, &m.Pinned, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Date = civil.DateOf(date)
	return &m, nil
}

func scanDailyRows(rows *sql.Rows) ([]models.DailyMenu, error) {
	defer rows.Close()
	var items []models.DailyMenu
	for rows.Next() {
		m, err := scanDaily(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily menu: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Create inserts a daily menu and returns it.
func (s *DailyMenuStore) Create(ctx context.Context, m *models.DailyMenu) (*models.DailyMenu, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO daily_menus (store_id, name, category, price, image_url, date, is_pinned)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7)
		RETURNING `+dailyColumns,
		m.StoreID, m.Name, m.Category, m.Price, m.ImageURL, m.Date.String(), m.Pinned,
	)
	created, err := scanDaily(row)
	if err != nil {
		return nil, fmt.Errorf("create daily menu: %w", err)
	}
	return created, nil
}

// FindByID retrieves one of a store's daily menus. Returns nil if not found.
func (s *DailyMenuStore) FindByID(ctx context.Context, storeID, id uuid.UUID) (*models.DailyMenu, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+dailyColumns+` FROM daily_menus WHERE id = $1 AND store_id = $2`, id, storeID)
	m, err := scanDaily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find daily menu: %w", err)
	}
	return m, nil
}

// FindByStoreAndDate lists the daily menus posted for one date.
func (s *DailyMenuStore) FindByStoreAndDate(ctx context.Context, storeID uuid.UUID, date civil.Date) ([]models.DailyMenu, error) {
	return s.FindByStoreAndDateRange(ctx, storeID, date, date)
}

// FindByStoreAndDateRange lists daily menus dated within [from, to].
func (s *DailyMenuStore) FindByStoreAndDateRange(ctx context.Context, storeID uuid.UUID, from, to civil.Date) ([]models.DailyMenu, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+dailyColumns+` FROM daily_menus
		WHERE store_id = $1 AND date BETWEEN $2::date AND $3::date`+dailyOrder,
		storeID, from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list daily menus: %w", err)
	}
	items, err := scanDailyRows(rows)
	if err != nil {
		return nil, fmt.Errorf("list daily menus: %w", err)
	}
	return items, nil
}

// FindRecent lists up to limit daily menus, latest date first and pinned
// menus first within a date.
func (s *DailyMenuStore) FindRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]models.DailyMenu, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+dailyColumns+` FROM daily_menus
		WHERE store_id = $1
		ORDER BY date DESC, is_pinned DESC, created_at DESC, id
		LIMIT $2`,
		storeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent daily menus: %w", err)
	}
	items, err := scanDailyRows(rows)
	if err != nil {
		return nil, fmt.Errorf("list recent daily menus: %w", err)
	}
	return items, nil
}

// Update applies the non-nil fields of u. An empty category or image URL
// clears the column, as does ClearPrice for the price. Returns nil if the
// menu does not exist for this store.
func (s *DailyMenuStore) Update(ctx context.Context, storeID, id uuid.UUID, u models.DailyMenuUpdate) (*models.DailyMenu, error) {
	var date *string
	if u.Date != nil {
		v := u.Date.String()
		date = &v
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE daily_menus SET
			name       = COALESCE($3, name),
			category   = CASE WHEN $4::text IS NULL THEN category ELSE NULLIF($4::text, '') END,
			price      = CASE WHEN $9 THEN NULL ELSE COALESCE($5, price) END,
			image_url  = CASE WHEN $6::text IS NULL THEN image_url ELSE NULLIF($6::text, '') END,
			date       = COALESCE($7::date, date),
			is_pinned  = COALESCE($8, is_pinned),
			updated_at = NOW()
		WHERE id = $1 AND store_id = $2
		RETURNING `+dailyColumns,
		id, storeID, u.Name, u.Category, u.Price, u.ImageURL, date, u.Pinned, u.ClearPrice,
	)
	m, err := scanDaily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update daily menu: %w", err)
	}
	return m, nil
}

// Delete removes one of a store's daily menus, reporting whether it existed.
func (s *DailyMenuStore) Delete(ctx context.Context, storeID, id uuid.UUID) (bool, error) {
	return deleteScoped(ctx, s.db, "daily_menus", storeID, id)
}

// deleteScoped deletes a row only if it belongs to storeID.
func deleteScoped(ctx context.Context, db *sql.DB, table string, storeID, id uuid.UUID) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1 AND store_id = $2`, id, storeID)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	return n > 0, nil
}
