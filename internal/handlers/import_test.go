// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"menuboard/internal/models"
)

const weeklyCSV = "曜日,カテゴリー,メニュー名,価格\n" +
	"1,LUNCH,カレー,800\n" +
	"9,LUNCH,幻の定食,100\n" +
	"2,SIDE DISH,サラダ,\n"

func multipartBody(t *testing.T, filename string, file []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(file)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestImportRawCSV(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/stores/cafe/import/weekly?week_start_date=2024-03-11",
		strings.NewReader(weeklyCSV), "text/csv")
	wantStatus(t, rec, http.StatusOK)

	report := decode[models.ImportReport](t, rec)
	if report.SuccessCount != 2 || report.FailureCount != 1 {
		t.Fatalf("report = %+v, want 2 ok and 1 failed", report)
	}
	if len(report.Errors) != 1 || report.Errors[0].Row != 2 {
		t.Errorf("errors = %+v, want row 2", report.Errors)
	}
	if env.mem.Weekly.Len() != 2 {
		t.Errorf("stored %d weekly menus, want 2", env.mem.Weekly.Len())
	}
}

func TestImportMultipartMonthly(t *testing.T) {
	env := newTestEnv(t)
	csv := "カテゴリー,メニュー名,価格\nLUNCH,今月のカレー,900\n"
	body, ct := multipartBody(t, "monthly.csv", []byte(csv), map[string]string{"year": "2024", "month": "3"})

	rec := env.do(t, http.MethodPost, "/api/stores/cafe/import/monthly", body, ct)
	wantStatus(t, rec, http.StatusOK)
	if report := decode[models.ImportReport](t, rec); report.SuccessCount != 1 || report.Kind != models.MenuKindMonthly {
		t.Errorf("report = %+v", report)
	}
}

func TestImportTemplateRoundTrip(t *testing.T) {
	for _, format := range []string{"csv", "xlsx"} {
		t.Run(format, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(t, http.MethodGet, "/api/import/monthly/template?format="+format, nil, "")
			wantStatus(t, rec, http.StatusOK)
			tmpl := rec.Body.Bytes()

			body, ct := multipartBody(t, "monthly_menu_template."+format, tmpl,
				map[string]string{"year": "2024", "month": "4"})
			rec = env.do(t, http.MethodPost, "/api/stores/cafe/import/monthly", body, ct)
			wantStatus(t, rec, http.StatusOK)
			report := decode[models.ImportReport](t, rec)
			if report.SuccessCount != 2 || report.FailureCount != 0 {
				t.Errorf("report = %+v, want 2 clean rows", report)
			}
		})
	}
}

func TestImportRequestErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"missing anchor", "/api/stores/cafe/import/weekly", weeklyCSV, http.StatusBadRequest},
		{"bad anchor", "/api/stores/cafe/import/weekly?week_start_date=monday", weeklyCSV, http.StatusBadRequest},
		{"bad month", "/api/stores/cafe/import/monthly?year=2024&month=0", weeklyCSV, http.StatusBadRequest},
		{"daily kind", "/api/stores/cafe/import/daily?week_start_date=2024-03-11", weeklyCSV, http.StatusBadRequest},
		{"unknown kind", "/api/stores/cafe/import/yearly", weeklyCSV, http.StatusBadRequest},
		{"unknown store", "/api/stores/nowhere/import/weekly?week_start_date=2024-03-11", weeklyCSV, http.StatusNotFound},
		{"binary payload", "/api/stores/cafe/import/weekly?week_start_date=2024-03-11", "\x00\x01\xFF\xFE\x80", http.StatusBadRequest},
		{"empty payload", "/api/stores/cafe/import/weekly?week_start_date=2024-03-11", "", http.StatusBadRequest},
		{"too large", "/api/stores/cafe/import/weekly?week_start_date=2024-03-11",
			strings.Repeat("1,LUNCH,カレー,800\n", 4000), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(t, http.MethodPost, tt.target, strings.NewReader(tt.body), "text/csv")
			wantStatus(t, rec, tt.status)
			if env.mem.Weekly.Len() != 0 {
				t.Error("rows stored despite a rejected request")
			}
		})
	}
}

func TestImportMultipartWithoutFile(t *testing.T) {
	env := newTestEnv(t)
	body, ct := multipartBody(t, "", nil, map[string]string{"week_start_date": "2024-03-11"})
	rec := env.do(t, http.MethodPost, "/api/stores/cafe/import/weekly", body, ct)
	wantStatus(t, rec, http.StatusBadRequest)
	if got := decode[errorBody](t, rec); got.Field != "file" {
		t.Errorf("error field = %q, want file", got.Field)
	}
}

func TestTemplateDownload(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/import/weekly/template", nil, "")
	wantStatus(t, rec, http.StatusOK)

	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "weekly_menu_template.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\xEF\xBB\xBF曜日")) {
		t.Errorf("template does not start with a BOM and header: %q", rec.Body.String())
	}

	for _, target := range []string{
		"/api/import/daily/template",
		"/api/import/weekly/template?format=ods",
	} {
		rec := env.do(t, http.MethodGet, target, nil, "")
		wantStatus(t, rec, http.StatusBadRequest)
	}
}
