// Package table holds tabular datasets: CSV and XLSX input, column role
// suggestions, coordinate validation and XLSX export.
package table

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported tabular format")
	// ErrNoHeader is returned when the input has no header row.
	ErrNoHeader = errors.New("missing header row")
	// ErrUnknownColumn is returned when a selected column is not in the header.
	ErrUnknownColumn = errors.New("unknown column")
)

// Table is a header plus data rows. Rows may be shorter than the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of col in the header, or -1.
func (t *Table) Index(col string) int {
	for i, h := range t.Header {
		if h == col {
			return i
		}
	}
	return -1
}

// MustIndex is Index returning ErrUnknownColumn for missing columns.
func (t *Table) MustIndex(col string) (int, error) {
	idx := t.Index(col)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	return idx, nil
}

// Cell returns the value at idx of row, empty for missing cells.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// Head returns a copy holding at most n rows.
func (t *Table) Head(n int) *Table {
	n = max(0, min(n, len(t.Rows)))
	head := &Table{Header: t.Header, Rows: t.Rows[:n]}
	return head.Clone()
}

// Read parses tabular data, choosing the format by file extension.
func Read(data []byte, filename string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt", ".tsv":
		return ReadCSV(bytes.NewReader(data))
	case ".xlsx", ".xlsm":
		return ReadXLSX(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

// fromRecords splits raw records into header and rows, dropping fully
// blank rows.
func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 || blank(records[0]) {
		return nil, ErrNoHeader
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	t := &Table{Header: header, Rows: make([][]string, 0, len(records)-1)}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}

	return t, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
