// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"menuboard/internal/models"
)

// Format is the container of an import payload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat guesses the format from a file name or content type,
// defaulting to CSV.
func DetectFormat(filename, contentType string) Format {
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") ||
		strings.Contains(contentType, "spreadsheetml") {
		return FormatXLSX
	}
	return FormatCSV
}

// ErrTooLarge is returned when a payload exceeds the configured byte limit.
var ErrTooLarge = errors.New("import payload too large")

// sniffLen is how much of a CSV payload is checked for valid UTF-8 before
// any row is processed.
const sniffLen = 4096

// Source yields the records of a tabular payload one at a time. Next
// returns io.EOF after the last record. Line is the 1-based line (CSV) or
// sheet row (XLSX) on which the record last returned by Next starts.
type Source interface {
	Next() ([]string, error)
	Line() int
	Close() error
}

// Open returns a Source for body. A payload that cannot be read as a table
// at all fails here with models.ErrUnreadablePayload.
func Open(format Format, body io.Reader, maxBytes int64) (Source, error) {
	if maxBytes > 0 {
		body = &limitReader{r: body, n: maxBytes}
	}
	switch format {
	case FormatXLSX:
		return openXLSX(body)
	case FormatCSV, "":
		return openCSV(body)
	}
	return nil, models.Invalid("format", "unsupported format %q", format)
}

// csvSource reads comma-separated records from UTF-8 text. A leading
// byte-order mark is dropped; UTF-16 text with a BOM is transcoded. UTF-8
// input is passed through undecoded so that invalid bytes past the sniffed
// prefix reach the row checks instead of being replaced.
type csvSource struct {
	r    *csv.Reader
	line int
}

func openCSV(body io.Reader) (*csvSource, error) {
	br := bufio.NewReaderSize(body, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(head) == 0 {
		return nil, fmt.Errorf("%w: file is empty", models.ErrUnreadablePayload)
	}
	if !hasUTF16BOM(head) && !validUTF8Prefix(head, err == io.EOF) {
		return nil, fmt.Errorf("%w: file is not UTF-8 text", models.ErrUnreadablePayload)
	}

	var text io.Reader = br
	switch {
	case hasUTF16BOM(head):
		text = transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
	case bytes.HasPrefix(head, utf8BOM):
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}
	r := csv.NewReader(text)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return &csvSource{r: r}, nil
}

func (s *csvSource) Next() ([]string, error) {
	rec, err := s.r.Read()
	if err == nil {
		s.line, _ = s.r.FieldPos(0)
		return rec, nil
	}
	if err == io.EOF || errors.Is(err, ErrTooLarge) {
		return nil, err
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return nil, fmt.Errorf("%w: %v", models.ErrUnreadablePayload, pe)
	}
	return nil, err
}

func (s *csvSource) Line() int { return s.line }

func (s *csvSource) Close() error { return nil }

func hasUTF16BOM(b []byte) bool {
	return bytes.HasPrefix(b, []byte{0xFE, 0xFF}) || bytes.HasPrefix(b, []byte{0xFF, 0xFE})
}

// validUTF8Prefix reports whether b is valid UTF-8. Unless complete is set,
// a rune cut off at the end of the buffer is tolerated.
func validUTF8Prefix(b []byte, complete bool) bool {
	if utf8.Valid(b) {
		return true
	}
	if complete {
		return false
	}
	for i := 1; i < utf8.UTFMax && i < len(b); i++ {
		if utf8.Valid(b[:len(b)-i]) {
			return true
		}
	}
	return false
}

// xlsxSource streams rows from the first worksheet of a workbook. Rows
// missing from the sheet come back as empty records so that row counts
// match the spreadsheet.
type xlsxSource struct {
	file *excelize.File
	rows *excelize.Rows
	row  int
}

func openXLSX(body io.Reader) (*xlsxSource, error) {
	f, err := excelize.OpenReader(body)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", models.ErrUnreadablePayload, err)
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", models.ErrUnreadablePayload)
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", models.ErrUnreadablePayload, err)
	}
	return &xlsxSource{file: f, rows: rows}, nil
}

func (s *xlsxSource) Next() ([]string, error) {
	if s.rows.Next() {
		s.row++
		cols, err := s.rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrUnreadablePayload, err)
		}
		return cols, nil
	}
	if err := s.rows.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnreadablePayload, err)
	}
	return nil, io.EOF
}

func (s *xlsxSource) Line() int { return s.row }

func (s *xlsxSource) Close() error {
	s.rows.Close()
	return s.file.Close()
}

// limitReader fails with ErrTooLarge once more than n bytes are read.
type limitReader struct {
	r io.Reader
	n int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.n < 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > l.n+1 {
		p = p[:l.n+1]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		return 0, ErrTooLarge
	}
	return n, err
}
