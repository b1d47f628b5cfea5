package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loadprofile/internal/errors"
)

func powers(t *Table) []Cell {
	col := t.ColumnIndex("Power [kW]")
	out := make([]Cell, t.Len())
	for i := range t.Rows {
		out[i] = t.Cell(i, col)
	}
	return out
}

func TestFilterActive(t *testing.T) {
	tests := []struct {
		name  string
		input *Table
		want  []Cell
	}{
		{
			name:  "zeros dropped, order kept",
			input: meterTable("a", "5", "b", "0", "c", "-3", "d", "0", "e", "7"),
			want:  []Cell{NumberCell(5), NumberCell(-3), NumberCell(7)},
		},
		{
			name:  "missing and text power kept",
			input: meterTable("a", "", "b", "n/a", "c", "0.0"),
			want:  []Cell{MissingCell(), TextCell("n/a")},
		},
		{
			name:  "all zero",
			input: meterTable("a", "0", "b", "0"),
			want:  []Cell{},
		},
		{
			name:  "empty table",
			input: meterTable(),
			want:  []Cell{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := FilterActive(tt.input, "Power [kW]")
			require.NoError(t, err)
			assert.Equal(t, tt.input.Columns, out.Columns)
			assert.Equal(t, tt.want, powers(out))
		})
	}
}

func TestFilterActive_Idempotent(t *testing.T) {
	in := meterTable("a", "5", "b", "0", "c", "-3", "d", "0", "e", "7")

	once, err := FilterActive(in, "Power [kW]")
	require.NoError(t, err)
	twice, err := FilterActive(once, "Power [kW]")
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestFilterActive_DoesNotShareRows(t *testing.T) {
	in := meterTable("a", "5")
	out, err := FilterActive(in, "Power [kW]")
	require.NoError(t, err)

	out.Rows[0][1] = NumberCell(1)
	assert.Equal(t, NumberCell(5), in.Rows[0][1])
}

func TestFilterActive_MissingColumn(t *testing.T) {
	tbl := NewTable([]string{"Timestamp", "Energy"})

	_, err := FilterActive(tbl, "Power [kW]")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeSchema))
	assert.Contains(t, err.Error(), "Power [kW]")
}
