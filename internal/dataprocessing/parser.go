package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"loadprofile/internal/config"
)

// TableReader reads one input file as a table.
type TableReader interface {
	ReadTable(ctx context.Context, path string) (*Table, error)
}

// ExcelReader reads the first worksheet of an .xlsx workbook. The first
// non-empty row is the header; every following non-empty row is data.
// Cells are read by their stored value, not their display text; cells with
// a date number format are rendered as text in the timestamp layout.
type ExcelReader struct {
	logger     *slog.Logger
	timeLayout string
}

// ReaderOption configures an ExcelReader
type ReaderOption func(*ExcelReader)

// WithTimeLayout sets the layout native date cells are rendered in
func WithTimeLayout(layout string) ReaderOption {
	return func(r *ExcelReader) {
		if layout != "" {
			r.timeLayout = layout
		}
	}
}

// NewExcelReader creates a workbook reader.
func NewExcelReader(logger *slog.Logger, opts ...ReaderOption) *ExcelReader {
	if logger == nil {
		logger = slog.Default()
	}
	r := &ExcelReader{logger: logger, timeLayout: config.DefaultTimestampLayout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadTable implements TableReader.
func (r *ExcelReader) ReadTable(ctx context.Context, path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	dates := newDateDecoder(f, sheetName, r.timeLayout)

	headerRow := -1
	for i, row := range rows {
		if !isEmptyRow(row) {
			headerRow = i
			break
		}
	}
	if headerRow == -1 {
		return nil, fmt.Errorf("sheet %q has no header row", sheetName)
	}

	table := NewTable(headerNames(rows[headerRow]))
	for i := headerRow + 1; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		row := make(Row, len(rows[i]))
		for j, raw := range rows[i] {
			text, err := dates.decode(i, j, raw)
			if err != nil {
				return nil, err
			}
			row[j] = ParseCell(text)
		}
		table.Append(row)
	}

	r.logger.DebugContext(ctx, "workbook read",
		slog.String("path", path),
		slog.String("sheet_name", sheetName),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", table.Len()))

	return table, nil
}

// headerNames names blank header cells "Unnamed: <i>" and suffixes repeated
// names with ".1", ".2", ... so every column can be addressed by name.
func headerNames(row []string) []string {
	names := make([]string, len(row))
	seen := make(map[string]int, len(row))
	for i, raw := range row {
		name := raw
		if strings.TrimSpace(name) == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

// isEmptyRow reports rows with no content at all. Rows holding only
// whitespace are kept; the normalizer treats those cells as blanks.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

// dateDecoder turns the serial numbers of date-formatted cells back into
// timestamp text. Date detection is cached per style index.
type dateDecoder struct {
	f        *excelize.File
	sheet    string
	layout   string
	date1904 bool
	isDate   map[int]bool
}

func newDateDecoder(f *excelize.File, sheet, layout string) *dateDecoder {
	d := &dateDecoder{f: f, sheet: sheet, layout: layout, isDate: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// decode returns raw unchanged unless the cell at (row, col), both zero
// based, holds a number under a date format.
func (d *dateDecoder) decode(row, col int, raw string) (string, error) {
	if raw == "" {
		return raw, nil
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw, nil
	}

	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "", err
	}
	styleID, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil {
		return "", fmt.Errorf("failed to read style of %s: %w", cell, err)
	}
	isDate, ok := d.isDate[styleID]
	if !ok {
		style, err := d.f.GetStyle(styleID)
		if err != nil {
			return "", fmt.Errorf("failed to read style of %s: %w", cell, err)
		}
		isDate = isDateFormat(style)
		d.isDate[styleID] = isDate
	}
	if !isDate {
		return raw, nil
	}

	ts, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return "", fmt.Errorf("invalid date in %s: %w", cell, err)
	}
	return ts.Format(d.layout), nil
}

// isDateFormat reports number formats that display a date or a time:
// the built-in date ids and custom codes with date or time tokens.
func isDateFormat(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	switch id := style.NumFmt; {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode looks for y, m, d, h or s outside quoted literals,
// escapes and bracketed sections such as colours.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			inQuote = c != '"'
		case inBracket:
			inBracket = c != ']'
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\' || c == '_' || c == '*':
			i++ // skip the escaped or padding character
		default:
			switch c | 0x20 {
			case 'y', 'm', 'd', 'h', 's':
				return true
			}
		}
	}
	return false
}
