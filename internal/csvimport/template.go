// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package csvimport

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"menuboard/internal/models"
)

// utf8BOM makes spreadsheet applications open the CSV template as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	weeklyHeader  = []string{"曜日", "カテゴリー", "メニュー名", "価格"}
	monthlyHeader = []string{"カテゴリー", "メニュー名", "価格"}

	weeklySample = [][]string{
		{"1", "LUNCH|ランチ", "日替わり定食", "850"},
		{"2", "BOWL / NOODLES|丼・麺", "親子丼", "780"},
		{"3", "SIDE DISH|小鉢", "ひじきの煮物", ""},
	}
	monthlySample = [][]string{
		{"LUNCH|ランチ", "今月のカレー", "900"},
		{"DESSERT / SALAD|デザート / サラダ", "季節のフルーツ", "350"},
	}
)

// TemplateFile is a downloadable import template.
type TemplateFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Template renders an example import file for kind in the given format.
func Template(kind models.MenuKind, format Format) (*TemplateFile, error) {
	var header []string
	var sample [][]string
	switch kind {
	case models.MenuKindWeekly:
		header, sample = weeklyHeader, weeklySample
	case models.MenuKindMonthly:
		header, sample = monthlyHeader, monthlySample
	default:
		return nil, models.Invalid("kind", "must be weekly or monthly")
	}

	name := fmt.Sprintf("%s_menu_template", kind)
	switch format {
	case FormatCSV, "":
		body, err := csvTemplate(header, sample)
		if err != nil {
			return nil, err
		}
		return &TemplateFile{
			Filename:    name + ".csv",
			ContentType: "text/csv; charset=utf-8",
			Body:        body,
		}, nil
	case FormatXLSX:
		body, err := xlsxTemplate(header, sample)
		if err != nil {
			return nil, err
		}
		return &TemplateFile{
			Filename:    name + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Body:        body,
		}, nil
	}
	return nil, models.Invalid("format", "unsupported format %q", format)
}

func csvTemplate(header []string, sample [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(sample); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}

func xlsxTemplate(header []string, sample [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := append([][]string{header}, sample...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write xlsx row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
