// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package csvimport

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/xuri/excelize/v2"

	"menuboard/internal/models"
	"menuboard/internal/store/storetest"
)

var anchor = civil.Date{Year: 2024, Month: time.January, Day: 1}

type fixture struct {
	mem   *storetest.Memory
	store *models.Store
	p     *Pipeline
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := storetest.New()
	return &fixture{
		mem:   mem,
		store: mem.AddStore("cafe", nil, nil),
		p:     NewPipeline(mem.Stores, mem.Weekly, mem.Monthly, 0),
	}
}

func (f *fixture) weekly(body string) Request {
	return Request{
		Store:     f.store.Slug,
		Kind:      models.MenuKindWeekly,
		WeekStart: anchor,
		Format:    FormatCSV,
		Body:      strings.NewReader(body),
	}
}

func (f *fixture) monthly(body string) Request {
	return Request{
		Store:  f.store.Slug,
		Kind:   models.MenuKindMonthly,
		Month:  models.YearMonth{Year: 2024, Month: time.March},
		Format: FormatCSV,
		Body:   strings.NewReader(body),
	}
}

func TestImportWeeklyPartialFailure(t *testing.T) {
	f := newFixture(t)
	body := "day_of_week,category,menu_name,price\n" +
		"1,LUNCH|ランチ,カレー,800\n" +
		"2,LUNCH|ランチ,,800\n" +
		"3,SIDE DISH|小鉢,サラダ,\n"

	report, err := f.p.Import(context.Background(), f.weekly(body))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.SuccessCount != 2 || report.FailureCount != 1 {
		t.Errorf("report = %d ok / %d failed, want 2 / 1", report.SuccessCount, report.FailureCount)
	}
	if len(report.Errors) != 1 || report.Errors[0].Row != 2 {
		t.Fatalf("errors = %+v, want one error for row 2", report.Errors)
	}
	if !strings.Contains(report.Errors[0].Message, "menu_name") {
		t.Errorf("message = %q, want it to name menu_name", report.Errors[0].Message)
	}
	if n := f.mem.Weekly.Len(); n != 2 {
		t.Errorf("persisted %d weekly menus, want 2", n)
	}
}

func TestImportWeeklyPersistsFields(t *testing.T) {
	f := newFixture(t)
	body := "h1,h2,h3,h4\n 4 , LUNCH|ランチ , カレー , 800 \n0,,味噌汁\n"

	report, err := f.p.Import(context.Background(), f.weekly(body))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.SuccessCount != 2 {
		t.Fatalf("report = %+v", report)
	}

	rows := f.mem.Weekly.All()
	first := rows[0]
	if first.StoreID != f.store.ID || first.WeekStartDate != anchor {
		t.Errorf("first = store %v anchor %v", first.StoreID, first.WeekStartDate)
	}
	if first.DayOfWeek != time.Thursday || first.Name != "カレー" {
		t.Errorf("first = day %v name %q", first.DayOfWeek, first.Name)
	}
	if first.Category == nil || *first.Category != "LUNCH|ランチ" {
		t.Errorf("first category = %v", first.Category)
	}
	if first.Price == nil || *first.Price != 800 {
		t.Errorf("first price = %v", first.Price)
	}

	second := rows[1]
	if second.DayOfWeek != time.Sunday || second.Category != nil || second.Price != nil {
		t.Errorf("second = %+v", second)
	}
}

func TestImportWeeklyRowErrors(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		wantMsg string
	}{
		{"day out of range", "7,LUNCH,カレー,800", "day_of_week"},
		{"day not a number", "mon,LUNCH,カレー,800", "day_of_week"},
		{"negative price", "1,LUNCH,カレー,-5", "price"},
		{"malformed price", "1,LUNCH,カレー,¥800", "price"},
		{"too few columns", "1,LUNCH", "expected 4 columns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			report, err := f.p.Import(context.Background(), f.weekly("header\n"+tt.row+"\n"))
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			if report.FailureCount != 1 || report.SuccessCount != 0 {
				t.Fatalf("report = %+v", report)
			}
			if msg := report.Errors[0].Message; !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", msg, tt.wantMsg)
			}
			if f.mem.Weekly.Len() != 0 {
				t.Error("invalid row was persisted")
			}
		})
	}
}

func TestImportMonthly(t *testing.T) {
	f := newFixture(t)
	body := "カテゴリー,メニュー名,価格\n" +
		"LUNCH|ランチ,今月のカレー,900\n" +
		"DESSERT / SALAD|デザート / サラダ,プリン,abc\n" +
		",おにぎり,150\n"

	report, err := f.p.Import(context.Background(), f.monthly(body))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.Kind != models.MenuKindMonthly {
		t.Errorf("kind = %q", report.Kind)
	}
	if report.SuccessCount != 2 || report.FailureCount != 1 || report.Errors[0].Row != 2 {
		t.Errorf("report = %+v", report)
	}

	got, _ := f.mem.Monthly.FindByStoreAndMonth(context.Background(), f.store.ID,
		models.YearMonth{Year: 2024, Month: time.March})
	if len(got) != 2 {
		t.Fatalf("persisted %d monthly menus, want 2", len(got))
	}
	if got[1].Name != "おにぎり" || got[1].Category != nil {
		t.Errorf("second = %+v", got[1])
	}
}

func TestImportBlankRowsKeepNumbering(t *testing.T) {
	f := newFixture(t)
	body := "header\n1,LUNCH,カレー,800\n , , , \n3,LUNCH,うどん,x\n"

	report, err := f.p.Import(context.Background(), f.weekly(body))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.SuccessCount != 1 || report.FailureCount != 1 {
		t.Fatalf("report = %+v", report)
	}
	if report.Errors[0].Row != 3 {
		t.Errorf("error row = %d, want 3", report.Errors[0].Row)
	}
}

func TestImportEmptyLinesKeepNumbering(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantRow int
	}{
		{"empty line between rows", "header\n1,LUNCH,カレー,800\n\n3,LUNCH,うどん,x\n", 3},
		{"several empty lines", "header\n\n\n1,LUNCH,うどん,x\n", 3},
		{"empty lines before header", "\n\nheader\n1,LUNCH,うどん,x\n", 1},
		{"crlf line endings", "header\r\n1,LUNCH,カレー,800\r\n\r\n3,LUNCH,うどん,x\r\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			report, err := f.p.Import(context.Background(), f.weekly(tt.body))
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			if report.FailureCount != 1 {
				t.Fatalf("report = %+v", report)
			}
			if got := report.Errors[0].Row; got != tt.wantRow {
				t.Errorf("error row = %d, want %d", got, tt.wantRow)
			}
		})
	}
}

func TestImportXLSXEmptyRowsKeepNumbering(t *testing.T) {
	f := newFixture(t)
	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)
	rows := map[string][]any{
		"A1": {"day_of_week", "category", "menu_name", "price"},
		"A2": {"1", "LUNCH", "カレー", "800"},
		"A5": {"2", "LUNCH", "うどん", "x"},
	}
	for cell, values := range rows {
		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("write %s: %v", cell, err)
		}
	}
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}

	req := f.weekly("")
	req.Format = FormatXLSX
	req.Body = bytes.NewReader(buf.Bytes())
	report, err := f.p.Import(context.Background(), req)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.SuccessCount != 1 || report.FailureCount != 1 {
		t.Fatalf("report = %+v", report)
	}
	if got := report.Errors[0].Row; got != 4 {
		t.Errorf("error row = %d, want 4", got)
	}
}

func TestImportInvalidUTF8AfterSniffedPrefix(t *testing.T) {
	f := newFixture(t)
	var b strings.Builder
	b.WriteString("header\n")
	valid := 0
	for b.Len() <= sniffLen {
		b.WriteString("1,LUNCH,カレー,800\n")
		valid++
	}
	b.WriteString("2,LUNCH,bad\xff\xfename,500\n")
	b.WriteString("3,LUNCH,そば,500\n")

	report, err := f.p.Import(context.Background(), f.weekly(b.String()))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.SuccessCount != valid+1 || report.FailureCount != 1 {
		t.Fatalf("report = %d ok / %d failed, want %d / 1", report.SuccessCount, report.FailureCount, valid+1)
	}
	if e := report.Errors[0]; e.Row != valid+1 || !strings.Contains(e.Message, "menu_name") {
		t.Errorf("error = %+v, want menu_name on row %d", e, valid+1)
	}
	for _, m := range f.mem.Weekly.All() {
		if !utf8.ValidString(m.Name) || strings.ContainsRune(m.Name, utf8.RuneError) {
			t.Errorf("stored damaged name %q", m.Name)
		}
	}
}

func TestImportKeepsLongCategory(t *testing.T) {
	f := newFixture(t)
	long := strings.Repeat("季節の特別メニュー", 30)
	report, err := f.p.Import(context.Background(), f.monthly("header\n"+long+",カレー,900\n"))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.SuccessCount != 1 {
		t.Fatalf("report = %+v", report)
	}
	got, _ := f.mem.Monthly.FindByStoreAndMonth(context.Background(), f.store.ID,
		models.YearMonth{Year: 2024, Month: time.March})
	if len(got) != 1 || got[0].Category == nil || *got[0].Category != long {
		t.Errorf("stored %+v, want the category unchanged", got)
	}
}

func TestImportPersistenceFailureIsRowError(t *testing.T) {
	f := newFixture(t)
	f.mem.Weekly.FailCreate = func(m *models.WeeklyMenu) error {
		if m.Name == "うどん" {
			return errors.New("connection reset")
		}
		return nil
	}
	body := "header\n1,LUNCH,カレー,800\n2,LUNCH,うどん,500\n3,LUNCH,そば,500\n"

	report, err := f.p.Import(context.Background(), f.weekly(body))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.SuccessCount != 2 || report.FailureCount != 1 {
		t.Fatalf("report = %+v", report)
	}
	if e := report.Errors[0]; e.Row != 2 || e.Message != "failed to save menu" {
		t.Errorf("error = %+v", e)
	}
	if f.mem.Weekly.Len() != 2 {
		t.Errorf("persisted %d, want 2", f.mem.Weekly.Len())
	}
}

func TestImportNoDataRows(t *testing.T) {
	f := newFixture(t)
	report, err := f.p.Import(context.Background(), f.weekly("day_of_week,category,menu_name,price\n"))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.SuccessCount != 0 || report.FailureCount != 0 || report.Errors == nil {
		t.Errorf("report = %+v, want empty with non-nil errors", report)
	}
}

func TestImportRequestFailures(t *testing.T) {
	f := newFixture(t)

	missingStore := f.weekly("header\n1,LUNCH,カレー,800\n")
	missingStore.Store = "nowhere"

	noAnchor := f.weekly("header\n1,LUNCH,カレー,800\n")
	noAnchor.WeekStart = civil.Date{}

	badMonth := f.monthly("header\nLUNCH,カレー,800\n")
	badMonth.Month = models.YearMonth{Year: 2024, Month: 13}

	badKind := f.weekly("header\n")
	badKind.Kind = models.MenuKindDaily

	noBody := f.weekly("")
	noBody.Body = nil

	tests := []struct {
		name  string
		req   Request
		check func(error) bool
	}{
		{"store not found", missingStore, func(err error) bool { return errors.Is(err, models.ErrNotFound) }},
		{"missing anchor", noAnchor, models.IsValidation},
		{"month out of range", badMonth, models.IsValidation},
		{"daily kind", badKind, models.IsValidation},
		{"no body", noBody, models.IsValidation},
		{"empty payload", f.weekly(""), func(err error) bool { return errors.Is(err, models.ErrUnreadablePayload) }},
		{"no header", f.weekly("\n\n"), func(err error) bool { return errors.Is(err, models.ErrUnreadablePayload) }},
		{"broken quoting", f.weekly("header\n\"1,LUNCH\n"), func(err error) bool { return errors.Is(err, models.ErrUnreadablePayload) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := f.p.Import(context.Background(), tt.req)
			if err == nil || !tt.check(err) {
				t.Errorf("Import error = %v", err)
			}
			if report != nil {
				t.Errorf("report = %+v, want nil", report)
			}
		})
	}
	if f.mem.Weekly.Len() != 0 || f.mem.Monthly.Len() != 0 {
		t.Error("failed requests persisted rows")
	}
}

func TestImportStoreLookupFailure(t *testing.T) {
	f := newFixture(t)
	f.mem.Stores.Err = errors.New("db down")

	_, err := f.p.Import(context.Background(), f.weekly("header\n1,LUNCH,カレー,800\n"))
	var pe *models.PersistenceError
	if !errors.As(err, &pe) {
		t.Errorf("Import error = %v, want PersistenceError", err)
	}
}

func TestImportCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.p.Import(ctx, f.weekly("header\n1,LUNCH,カレー,800\n"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Import error = %v, want context.Canceled", err)
	}
	if f.mem.Weekly.Len() != 0 {
		t.Error("cancelled import persisted rows")
	}
}

func TestImportTooLarge(t *testing.T) {
	mem := storetest.New()
	store := mem.AddStore("cafe", nil, nil)
	p := NewPipeline(mem.Stores, mem.Weekly, mem.Monthly, 32)

	_, err := p.Import(context.Background(), Request{
		Store:     store.Slug,
		Kind:      models.MenuKindWeekly,
		WeekStart: anchor,
		Body:      strings.NewReader(strings.Repeat("1,LUNCH,カレー,800\n", 50)),
	})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Import error = %v, want ErrTooLarge", err)
	}
}

func TestImportXLSX(t *testing.T) {
	f := newFixture(t)
	body, err := xlsxTemplate(WeeklyColumns, [][]string{
		{"1", "LUNCH|ランチ", "カレー", "800"},
		{"2", "LUNCH|ランチ", "", "800"},
		{"3", "SIDE DISH|小鉢", "サラダ", ""},
	})
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	req := f.weekly("")
	req.Format = FormatXLSX
	req.Body = bytes.NewReader(body)

	report, err := f.p.Import(context.Background(), req)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if report.SuccessCount != 2 || report.FailureCount != 1 || report.Errors[0].Row != 2 {
		t.Errorf("report = %+v", report)
	}
}

func TestTemplatesImportCleanly(t *testing.T) {
	for _, kind := range []models.MenuKind{models.MenuKindWeekly, models.MenuKindMonthly} {
		for _, format := range []Format{FormatCSV, FormatXLSX} {
			t.Run(string(kind)+"/"+string(format), func(t *testing.T) {
				tmpl, err := Template(kind, format)
				if err != nil {
					t.Fatalf("Template: %v", err)
				}
				if !strings.HasSuffix(tmpl.Filename, "."+string(format)) {
					t.Errorf("filename = %q", tmpl.Filename)
				}

				f := newFixture(t)
				req := f.weekly("")
				if kind == models.MenuKindMonthly {
					req = f.monthly("")
				}
				req.Format = format
				req.Body = bytes.NewReader(tmpl.Body)

				report, err := f.p.Import(context.Background(), req)
				if err != nil {
					t.Fatalf("Import: %v", err)
				}
				if report.FailureCount != 0 || report.SuccessCount == 0 {
					t.Errorf("report = %+v", report)
				}
			})
		}
	}
}

func TestCSVTemplateHasBOM(t *testing.T) {
	tmpl, err := Template(models.MenuKindWeekly, FormatCSV)
	if err != nil {
		t.Fatalf("Template: %v", err)
	}
	if !bytes.HasPrefix(tmpl.Body, utf8BOM) {
		t.Error("csv template does not start with a UTF-8 BOM")
	}
	if !strings.Contains(string(tmpl.Body), "曜日,カテゴリー,メニュー名,価格") {
		t.Errorf("header missing from %q", tmpl.Body)
	}
}

func TestTemplateRejectsDaily(t *testing.T) {
	if _, err := Template(models.MenuKindDaily, FormatCSV); !models.IsValidation(err) {
		t.Errorf("Template(daily) error = %v, want validation error", err)
	}
}
