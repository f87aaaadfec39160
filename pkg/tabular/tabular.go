package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table holds one parsed upload: a header row plus data rows. Rows may be
// ragged; missing cells read as empty strings.
type Table struct {
	Headers []string
	Rows    [][]string

	index map[string]int
}

// Parse reads an uploaded file into a Table, choosing the decoder from the
// file extension. Supported: .csv, .xlsx.
func Parse(filename string, r io.Reader) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file format %q", filepath.Ext(filename))
	}
}

// ParseCSV decodes a CSV stream. The first record is the header row.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRecords(records)
}

// ParseXLSX decodes the first sheet of a spreadsheet workbook.
func ParseXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close() //nolint:errcheck

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	return fromRecords(records)
}

func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("table has no header row")
	}
	headers := make([]string, len(records[0]))
	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
		// first occurrence wins on duplicate headers
		if _, ok := index[headers[i]]; !ok {
			index[headers[i]] = i
		}
	}
	return &Table{Headers: headers, Rows: records[1:], index: index}, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the value at row/named column. The second return is false
// when the column does not exist; a row too short for the column reads as "".
func (t *Table) Cell(row int, name string) (string, bool) {
	col, ok := t.index[name]
	if !ok {
		return "", false
	}
	return t.at(row, col), true
}

// CellAt returns the value at row/positional column offset, or false when
// the offset is outside the header width.
func (t *Table) CellAt(row, col int) (string, bool) {
	if col < 0 || col >= len(t.Headers) {
		return "", false
	}
	return t.at(row, col), true
}

func (t *Table) at(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}
