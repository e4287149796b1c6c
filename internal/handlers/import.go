// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"menuboard/internal/csvimport"
	"menuboard/internal/menu"
	"menuboard/internal/models"
)

// multipartSlack covers the form fields and part headers around the file.
const multipartSlack = 64 << 10

// multipartMemory is how much of an upload is held in memory before
// spilling to a temp file.
const multipartMemory = 1 << 20

// Imports serves bulk import and template downloads.
type Imports struct {
	svc      *menu.Service
	maxBytes int64
}

// NewImports creates the Imports handler group. A non-positive maxBytes
// uses csvimport.DefaultMaxBytes.
func NewImports(svc *menu.Service, maxBytes int64) *Imports {
	if maxBytes <= 0 {
		maxBytes = csvimport.DefaultMaxBytes
	}
	return &Imports{svc: svc, maxBytes: maxBytes}
}

func kindParam(r *http.Request) (models.MenuKind, error) {
	raw := chi.URLParam(r, "kind")
	kind, ok := models.ParseMenuKind(raw)
	if !ok || kind == models.MenuKindDaily {
		return "", models.Invalid("kind", "must be weekly or monthly")
	}
	return kind, nil
}

// Import accepts either a multipart upload (a "file" part plus
// week_start_date or year and month fields) or a raw CSV/XLSX body with
// the anchor in the query string. Row failures are reported in the body
// of a 200 response.
func (h *Imports) Import(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req := csvimport.Request{Store: storeParam(r), Kind: kind}
	field := r.URL.Query().Get

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartSlack)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeError(w, r, err)
				return
			}
			writeError(w, r, models.Invalid("file", "malformed multipart body"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, models.Invalid("file", "is required"))
			return
		}
		defer file.Close()
		if header.Size > h.maxBytes {
			writeError(w, r, csvimport.ErrTooLarge)
			return
		}
		req.Body = file
		req.Format = csvimport.DetectFormat(header.Filename, header.Header.Get("Content-Type"))
		field = r.FormValue
	} else {
		if r.ContentLength > h.maxBytes {
			writeError(w, r, csvimport.ErrTooLarge)
			return
		}
		req.Body = r.Body
		req.Format = csvimport.DetectFormat("", mediaType)
	}
	if f := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))); f != "" {
		req.Format = csvimport.Format(f)
	}

	switch kind {
	case models.MenuKindWeekly:
		if s := field("week_start_date"); s != "" {
			if req.WeekStart, err = parseDate("week_start_date", s); err != nil {
				writeError(w, r, err)
				return
			}
		}
	case models.MenuKindMonthly:
		if ys, ms := field("year"), field("month"); ys != "" || ms != "" {
			if req.Month, err = parseYearMonth(ys, ms); err != nil {
				writeError(w, r, err)
				return
			}
		}
	}

	report, err := h.svc.ImportCSV(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Template downloads an example import file (?format=csv|xlsx).
func (h *Imports) Template(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	format := csvimport.Format(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))))
	tmpl, err := csvimport.Template(kind, format)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", tmpl.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": tmpl.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(tmpl.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(tmpl.Body)
}
