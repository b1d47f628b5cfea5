package dataprocessing

import (
	"fmt"

	"loadprofile/internal/errors"
)

// FilterActive returns the rows of t whose power cell is not the number
// zero, in their original order. Missing and text power cells are kept.
// The table must have a power column.
func FilterActive(t *Table, powerColumn string) (*Table, error) {
	col := t.ColumnIndex(powerColumn)
	if col < 0 {
		return nil, errors.NewSchemaError(powerColumn,
			fmt.Sprintf("column %q not found in the data; check that the selected files have the expected structure", powerColumn))
	}

	out := NewTable(t.Columns)
	for i, row := range t.Rows {
		if t.Cell(i, col).IsZero() {
			continue
		}
		out.Rows = append(out.Rows, append(Row(nil), row...))
	}
	return out, nil
}
