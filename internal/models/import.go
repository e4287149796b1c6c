// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "fmt"

// RowError describes why one import row was not persisted. Row is 1-based
// and counts data rows only (the header is not row 1).
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) String() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ImportReport summarizes a bulk import. A report with FailureCount > 0 is a
// partial result, not an error.
type ImportReport struct {
	Kind         MenuKind   `json:"kind"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	Errors       []RowError `json:"errors"`
}

// Succeeded records a persisted row.
func (r *ImportReport) Succeeded() {
	r.SuccessCount++
}

// Failed records a rejected row. Calls must arrive in row order.
func (r *ImportReport) Failed(row int, err error) {
	r.FailureCount++
	r.Errors = append(r.Errors, RowError{Row: row, Message: err.Error()})
}

// Partial reports whether at least one row failed.
func (r *ImportReport) Partial() bool {
	return r.FailureCount > 0
}
