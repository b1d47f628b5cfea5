package dataprocessing

import (
	"math"
	"strconv"
	"strings"
)

// CellKind distinguishes the three states a spreadsheet cell can be in.
type CellKind int

const (
	CellMissing CellKind = iota
	CellNumber
	CellText
)

// Cell is a single spreadsheet value.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

// MissingCell returns an absent value.
func MissingCell() Cell { return Cell{Kind: CellMissing} }

// NumberCell returns a numeric value.
func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }

// TextCell returns a text value.
func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

// ParseCell classifies raw spreadsheet text: "" is missing, anything
// strconv can read as a finite float is a number, the rest is kept as text.
// Whitespace-only text stays text so the normalizer can see it.
func ParseCell(raw string) Cell {
	if raw == "" {
		return MissingCell()
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return NumberCell(v)
	}
	return TextCell(raw)
}

// IsBlank reports whether the cell is missing or holds only whitespace.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case CellMissing:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// IsZero reports whether the cell holds the number zero.
func (c Cell) IsZero() bool {
	return c.Kind == CellNumber && c.Number == 0
}

// String renders the cell the way it is written back to a sheet.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// Row is one measurement; cells are ordered like Table.Columns.
type Row []Cell

// Table is a header plus rows. Rows are never shared between tables
// returned by the engine, so callers may keep or modify them freely.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given header.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of name in the header, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col); cells past the end of a short row are missing.
func (t *Table) Cell(row, col int) Cell {
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return MissingCell()
	}
	return r[col]
}

// Append adds a row, padding or truncating it to the header width.
func (t *Table) Append(row Row) {
	out := make(Row, len(t.Columns))
	for i := range out {
		if i < len(row) {
			out[i] = row[i]
		} else {
			out[i] = MissingCell()
		}
	}
	t.Rows = append(t.Rows, out)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable(t.Columns)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = append(Row(nil), r...)
	}
	return out
}
