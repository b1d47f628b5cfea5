package dataprocessing

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"loadprofile/internal/config"
)

// fakeReader serves tables from memory and records the paths it was asked for.
type fakeReader struct {
	tables map[string]*Table
	errs   map[string]error
	calls  []string
}

func newFakeReader() *fakeReader {
	return &fakeReader{tables: map[string]*Table{}, errs: map[string]error{}}
}

func (r *fakeReader) add(path string, t *Table) *fakeReader {
	r.tables[path] = t
	return r
}

func (r *fakeReader) fail(path string, err error) *fakeReader {
	r.errs[path] = err
	return r
}

func (r *fakeReader) ReadTable(_ context.Context, path string) (*Table, error) {
	r.calls = append(r.calls, path)
	if err, ok := r.errs[path]; ok {
		return nil, err
	}
	t, ok := r.tables[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", path)
	}
	return t.Clone(), nil
}

// meterTable builds a Timestamp/Power table from pairs of raw cell text.
func meterTable(pairs ...string) *Table {
	t := NewTable([]string{"Timestamp", "Power [kW]"})
	for i := 0; i+1 < len(pairs); i += 2 {
		t.Append(Row{ParseCell(pairs[i]), ParseCell(pairs[i+1])})
	}
	return t
}

// writeWorkbook saves rows to the first sheet of a new workbook under dir.
func writeWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func testPipeline() config.PipelineConfig {
	return config.Default().Pipeline
}
