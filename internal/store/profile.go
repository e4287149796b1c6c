// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements menu persistence on PostgreSQL. Lookups that find
// nothing return nil, nil; every query is scoped by store.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"menuboard/internal/models"
	"menuboard/internal/slug"
)

// ErrSlugTaken is returned by ProfileStore.Create when the slug is in use.
var ErrSlugTaken = errors.New("store slug already taken")

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// ProfileStore reads store profiles: display name, categories and business days.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore returns a new ProfileStore.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileColumns = `id, slug, name, profile_image_url, menu_categories, business_days, created_at, updated_at`

func scanProfile(scanner interface{ Scan(...any) error }) (*models.Store, error) {
	var s models.Store
	var categories, days []byte
	err := scanner.Scan(
		&s.ID, &s.Slug, &s.Name, &s.ProfileImageURL,
		&categories, &days, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(categories, &s.MenuCategories); err != nil {
		return nil, fmt.Errorf("decode menu_categories: %w", err)
	}
	var raw []int
	if err := json.Unmarshal(days, &raw); err != nil {
		return nil, fmt.Errorf("decode business_days: %w", err)
	}
	for _, d := range raw {
		s.BusinessDays = append(s.BusinessDays, time.Weekday(d))
	}
	return &s, nil
}

// FindStore looks a store up by UUID or slug. Returns nil if not found.
func (s *ProfileStore) FindStore(ctx context.Context, idOrSlug string) (*models.Store, error) {
	var row *sql.Row
	if id, err := uuid.Parse(idOrSlug); err == nil {
		row = s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM stores WHERE id = $1`, id)
	} else {
		row = s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM stores WHERE slug = $1`, idOrSlug)
	}
	store, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find store: %w", err)
	}
	return store, nil
}

// Create inserts a store. An empty slug is derived from the name.
func (s *ProfileStore) Create(ctx context.Context, st *models.Store) (*models.Store, error) {
	sl := st.Slug
	if sl == "" {
		sl = slug.Generate(st.Name)
	}
	if !slug.Valid(sl) {
		return nil, models.Invalid("store_id", "%q is not a valid slug", sl)
	}

	categories, err := json.Marshal(orEmptyList(st.MenuCategories))
	if err != nil {
		return nil, fmt.Errorf("encode menu_categories: %w", err)
	}
	days := make([]int, 0, len(st.BusinessDays))
	for _, d := range st.BusinessDays {
		if err := models.ValidateDayOfWeek(d); err != nil {
			return nil, err
		}
		days = append(days, int(d))
	}
	daysJSON, err := json.Marshal(days)
	if err != nil {
		return nil, fmt.Errorf("encode business_days: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO stores (slug, name, profile_image_url, menu_categories, business_days)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+profileColumns,
		sl, st.Name, st.ProfileImageURL, string(categories), string(daysJSON),
	)
	created, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrSlugTaken, sl)
		}
		return nil, fmt.Errorf("create store: %w", err)
	}
	return created, nil
}

func orEmptyList(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
