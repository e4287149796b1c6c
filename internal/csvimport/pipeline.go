// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package csvimport bulk-loads weekly and monthly menus from CSV or XLSX
// files. Rows are processed one at a time in file order; a bad row is
// recorded in the report and never stops or rolls back the others.
package csvimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"cloud.google.com/go/civil"

	"menuboard/internal/models"
)

// DefaultMaxBytes caps the size of one import payload.
const DefaultMaxBytes = 5 << 20

// StoreFinder resolves a store by UUID or slug; nil, nil when absent.
type StoreFinder interface {
	FindStore(ctx context.Context, idOrSlug string) (*models.Store, error)
}

// WeeklyWriter persists a weekly menu.
type WeeklyWriter interface {
	Create(ctx context.Context, m *models.WeeklyMenu) (*models.WeeklyMenu, error)
}

// MonthlyWriter persists a monthly menu.
type MonthlyWriter interface {
	Create(ctx context.Context, m *models.MonthlyMenu) (*models.MonthlyMenu, error)
}

// Request describes one import. WeekStart is the anchor for weekly imports,
// Month for monthly ones.
type Request struct {
	Store     string
	Kind      models.MenuKind
	WeekStart civil.Date
	Month     models.YearMonth
	Format    Format
	Body      io.Reader
}

// Pipeline runs imports against the record store.
type Pipeline struct {
	stores   StoreFinder
	weekly   WeeklyWriter
	monthly  MonthlyWriter
	maxBytes int64
}

// NewPipeline returns a Pipeline. A non-positive maxBytes uses
// DefaultMaxBytes.
func NewPipeline(stores StoreFinder, weekly WeeklyWriter, monthly MonthlyWriter, maxBytes int64) *Pipeline {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Pipeline{stores: stores, weekly: weekly, monthly: monthly, maxBytes: maxBytes}
}

// errSaveFailed is the row message for a write that the store rejected. The
// underlying error is logged rather than shown to the uploader.
var errSaveFailed = errors.New("failed to save menu")

// Import reads req.Body and writes each valid row immediately. It returns a
// report unless the request itself is invalid, the store does not exist, the
// payload cannot be read as a table, or ctx is cancelled mid-way. Rows
// written before a cancellation stay written.
func (p *Pipeline) Import(ctx context.Context, req Request) (*models.ImportReport, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	store, err := p.stores.FindStore(ctx, req.Store)
	if err != nil {
		return nil, models.Persistence("find store", err)
	}
	if store == nil {
		return nil, fmt.Errorf("store %q: %w", req.Store, models.ErrNotFound)
	}

	src, err := Open(req.Format, req.Body, p.maxBytes)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	headerLine, err := skipToHeader(src)
	if err != nil {
		return nil, err
	}

	report := &models.ImportReport{Kind: req.Kind, Errors: []models.RowError{}}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		// Rows are numbered by position below the header, so blank and
		// empty lines still count.
		row := src.Line() - headerLine
		if blank(rec) {
			continue
		}

		if err := p.importRow(ctx, req, store, rec); err != nil {
			slog.Debug("import row rejected",
				"store_id", store.ID,
				"kind", req.Kind,
				"row", row,
				"error", err,
			)
			if !models.IsValidation(err) {
				err = errSaveFailed
			}
			report.Failed(row, err)
			continue
		}
		report.Succeeded()
	}

	slog.Info("menu import finished",
		"store_id", store.ID,
		"kind", req.Kind,
		"format", req.Format,
		"success", report.SuccessCount,
		"failed", report.FailureCount,
		"partial", report.Partial(),
	)
	return report, nil
}

// skipToHeader consumes the first non-blank record as the header and
// returns its line.
func skipToHeader(src Source) (int, error) {
	for {
		rec, err := src.Next()
		if err == io.EOF {
			return 0, fmt.Errorf("%w: missing header row", models.ErrUnreadablePayload)
		}
		if err != nil {
			return 0, err
		}
		if !blank(rec) {
			return src.Line(), nil
		}
	}
}

func (p *Pipeline) importRow(ctx context.Context, req Request, store *models.Store, rec []string) error {
	switch req.Kind {
	case models.MenuKindWeekly:
		m, err := parseWeeklyRow(rec, store.ID, req.WeekStart)
		if err != nil {
			return err
		}
		_, err = p.weekly.Create(ctx, m)
		return models.Persistence("create weekly menu", err)
	case models.MenuKindMonthly:
		m, err := parseMonthlyRow(rec, store.ID, req.Month)
		if err != nil {
			return err
		}
		_, err = p.monthly.Create(ctx, m)
		return models.Persistence("create monthly menu", err)
	}
	return models.Invalid("kind", "unsupported import kind %q", req.Kind)
}

func validateRequest(req Request) error {
	if req.Body == nil {
		return models.Invalid("file", "is required")
	}
	switch req.Kind {
	case models.MenuKindWeekly:
		if req.WeekStart == (civil.Date{}) || !req.WeekStart.IsValid() {
			return models.Invalid("week_start_date", "is required")
		}
	case models.MenuKindMonthly:
		if err := models.ValidateYearMonth(req.Month); err != nil {
			return err
		}
	default:
		return models.Invalid("kind", "must be weekly or monthly")
	}
	return nil
}
