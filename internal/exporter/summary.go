package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"loadprofile/internal/dataprocessing"
	"loadprofile/internal/errors"
)

// SummarySheet is the worksheet the summary table is written to.
const SummarySheet = "Summary"

// SummaryExporter writes a table to an .xlsx workbook: the header on the
// first row, numbers as numbers, text as text and missing cells blank.
type SummaryExporter struct {
	logger *slog.Logger
}

// NewSummaryExporter creates a workbook exporter
func NewSummaryExporter(logger *slog.Logger) *SummaryExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryExporter{logger: logger}
}

// Export writes t to path, replacing any existing file.
func (e *SummaryExporter) Export(ctx context.Context, t *dataprocessing.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return errors.NewStorageError("failed to name summary sheet", err)
	}

	sw, err := f.NewStreamWriter(SummarySheet)
	if err != nil {
		return errors.NewStorageError("failed to create sheet writer", err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, name := range t.Columns {
		header[i] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return errors.NewStorageError("failed to write summary header", err)
	}

	for i, row := range t.Rows {
		values := make([]interface{}, len(t.Columns))
		for j := range values {
			if j < len(row) {
				values[j] = excelValue(row[j])
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.NewStorageError("summary row out of range", err)
		}
		if err := sw.SetRow(cell, values); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write summary row %d", i+1), err)
		}
	}

	if err := sw.Flush(); err != nil {
		return errors.NewStorageError("failed to flush summary sheet", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create summary directory", err).WithContext("path", path)
	}
	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save summary workbook", err).WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "summary written",
		slog.String("path", path),
		slog.Int("rows", t.Len()))
	return nil
}

func excelValue(c dataprocessing.Cell) interface{} {
	switch c.Kind {
	case dataprocessing.CellNumber:
		return cellValue(c.Number)
	case dataprocessing.CellText:
		return c.Text
	default:
		return nil
	}
}
