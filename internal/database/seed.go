// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// DemoStoreSlug identifies the store created by Seed.
const DemoStoreSlug = "demo"

// Seed populates the database with development data: a demo store that
// uses the default categories and business days. It does nothing if the
// store already exists.
func Seed(db *sql.DB) error {
	var exists bool
	if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM stores WHERE slug = $1)`, DemoStoreSlug).Scan(&exists); err != nil {
		return fmt.Errorf("seed check stores: %w", err)
	}
	if exists {
		slog.Info("database already seeded, skipping")
		return nil
	}

	_, err := db.Exec(`
		INSERT INTO stores (slug, name)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO NOTHING
	`, DemoStoreSlug, "Demo Kitchen")
	if err != nil {
		return fmt.Errorf("seed insert store: %w", err)
	}

	slog.Info("database seeded with demo store", "store", DemoStoreSlug)
	return nil
}
