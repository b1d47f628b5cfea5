package dataprocessing

import (
	"context"
	"log/slog"

	"loadprofile/internal/errors"
)

// TableMerger concatenates the tables of several input files.
type TableMerger struct {
	reader TableReader
	logger *slog.Logger
}

// NewTableMerger creates a merger that reads files with reader.
func NewTableMerger(reader TableReader, logger *slog.Logger) *TableMerger {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableMerger{reader: reader, logger: logger}
}

// Merge reads every path in order and appends its rows to one table.
// The header of the first file is canonical; columns of later files are
// matched by name, absent ones become missing cells and extra ones are
// dropped. A single unreadable file aborts the whole merge. An empty path
// list yields an empty table together with an EMPTY_INPUT error.
func (m *TableMerger) Merge(ctx context.Context, paths []string) (*Table, error) {
	if len(paths) == 0 {
		return NewTable(nil), errors.NewEmptyInputError("no input files to merge")
	}

	var merged *Table
	for _, path := range paths {
		t, err := m.reader.ReadTable(ctx, path)
		if err != nil {
			m.logger.ErrorContext(ctx, "failed to read input file, aborting merge",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return nil, errors.NewFileReadError(path, err)
		}

		if merged == nil {
			merged = NewTable(t.Columns)
		}

		mapping := columnMapping(merged.Columns, t.Columns)
		for i := range t.Rows {
			row := make(Row, len(mapping))
			for dst, src := range mapping {
				if src < 0 {
					row[dst] = MissingCell()
					continue
				}
				row[dst] = t.Cell(i, src)
			}
			merged.Rows = append(merged.Rows, row)
		}

		m.logger.DebugContext(ctx, "input file merged",
			slog.String("path", path),
			slog.Int("rows", t.Len()),
			slog.Int("total_rows", merged.Len()))
	}

	m.logger.InfoContext(ctx, "input files merged",
		slog.Int("files", len(paths)),
		slog.Int("rows", merged.Len()),
		slog.Int("columns", len(merged.Columns)))

	return merged, nil
}

// columnMapping returns, for each canonical column, its index in header or -1.
func columnMapping(canonical, header []string) []int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	mapping := make([]int, len(canonical))
	for i, name := range canonical {
		if j, ok := index[name]; ok {
			mapping[i] = j
		} else {
			mapping[i] = -1
		}
	}
	return mapping
}
