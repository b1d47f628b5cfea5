package dataprocessing

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loadprofile/internal/errors"
)

func TestTableMerger_Merge(t *testing.T) {
	reader := newFakeReader().
		add("a.xlsx", meterTable("1.3.2024 08:00", "1", "1.3.2024 08:10", "2")).
		add("b.xlsx", meterTable("2.3.2024 08:00", "3")).
		add("c.xlsx", meterTable("3.3.2024 08:00", "4", "3.3.2024 08:10", "5", "3.3.2024 08:20", "6"))

	tests := []struct {
		name      string
		paths     []string
		wantRows  int
		wantPower []float64
	}{
		{
			name:      "single file",
			paths:     []string{"b.xlsx"},
			wantRows:  1,
			wantPower: []float64{3},
		},
		{
			name:      "files concatenated in order",
			paths:     []string{"a.xlsx", "b.xlsx", "c.xlsx"},
			wantRows:  6,
			wantPower: []float64{1, 2, 3, 4, 5, 6},
		},
		{
			name:      "order follows the path list",
			paths:     []string{"c.xlsx", "a.xlsx"},
			wantRows:  5,
			wantPower: []float64{4, 5, 6, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merger := NewTableMerger(reader, nil)

			merged, err := merger.Merge(context.Background(), tt.paths)
			require.NoError(t, err)

			assert.Equal(t, []string{"Timestamp", "Power [kW]"}, merged.Columns)
			require.Equal(t, tt.wantRows, merged.Len())
			for i, want := range tt.wantPower {
				assert.Equal(t, NumberCell(want), merged.Cell(i, 1), "row %d", i)
			}
		})
	}
}

func TestTableMerger_NoFiles(t *testing.T) {
	merger := NewTableMerger(newFakeReader(), nil)

	merged, err := merger.Merge(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeEmptyInput))
	require.NotNil(t, merged)
	assert.Equal(t, 0, merged.Len())
}

func TestTableMerger_ReadFailureAborts(t *testing.T) {
	cause := stderrors.New("zip: not a valid zip file")
	reader := newFakeReader().
		add("a.xlsx", meterTable("1.3.2024 08:00", "1")).
		fail("broken.xlsx", cause).
		add("c.xlsx", meterTable("3.3.2024 08:00", "4"))

	merger := NewTableMerger(reader, nil)
	merged, err := merger.Merge(context.Background(), []string{"a.xlsx", "broken.xlsx", "c.xlsx"})

	assert.Nil(t, merged)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeFileRead))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "broken.xlsx")
	assert.Equal(t, []string{"a.xlsx", "broken.xlsx"}, reader.calls, "later files are not read")
}

func TestTableMerger_AlignsColumnsByName(t *testing.T) {
	first := NewTable([]string{"Timestamp", "Power [kW]", "Voltage"})
	first.Append(Row{TextCell("1.3.2024 08:00"), NumberCell(1), NumberCell(230)})

	// reordered, missing Voltage, with an extra column
	second := NewTable([]string{"Power [kW]", "Timestamp", "Phase"})
	second.Append(Row{NumberCell(2), TextCell("2.3.2024 08:00"), TextCell("L1")})

	reader := newFakeReader().add("first.xlsx", first).add("second.xlsx", second)
	merged, err := NewTableMerger(reader, nil).Merge(context.Background(), []string{"first.xlsx", "second.xlsx"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Timestamp", "Power [kW]", "Voltage"}, merged.Columns)
	require.Equal(t, 2, merged.Len())
	assert.Equal(t, Row{TextCell("2.3.2024 08:00"), NumberCell(2), MissingCell()}, merged.Rows[1])
}

func TestColumnMapping(t *testing.T) {
	got := columnMapping([]string{"a", "b", "c"}, []string{"c", "a", "x", "a"})
	assert.Equal(t, []int{1, -1, 0}, got)
}
