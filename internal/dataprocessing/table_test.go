package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Cell
	}{
		{"empty is missing", "", MissingCell()},
		{"integer", "42", NumberCell(42)},
		{"decimal", "12.5", NumberCell(12.5)},
		{"negative", "-3", NumberCell(-3)},
		{"padded number", " 7 ", NumberCell(7)},
		{"zero", "0", NumberCell(0)},
		{"timestamp stays text", "1.3.2024 08:00", TextCell("1.3.2024 08:00")},
		{"whitespace stays text", "   ", TextCell("   ")},
		{"nan stays text", "NaN", TextCell("NaN")},
		{"inf stays text", "Inf", TextCell("Inf")},
		{"label", "n/a", TextCell("n/a")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCell(tt.raw))
		})
	}
}

func TestCell_Predicates(t *testing.T) {
	assert.True(t, MissingCell().IsBlank())
	assert.True(t, TextCell(" \t").IsBlank())
	assert.False(t, TextCell("x").IsBlank())
	assert.False(t, NumberCell(0).IsBlank())

	assert.True(t, NumberCell(0).IsZero())
	assert.False(t, NumberCell(0.1).IsZero())
	assert.False(t, MissingCell().IsZero())
	assert.False(t, TextCell("0.0x").IsZero())

	assert.Equal(t, "12.5", NumberCell(12.5).String())
	assert.Equal(t, "3", NumberCell(3).String())
	assert.Equal(t, "abc", TextCell("abc").String())
	assert.Equal(t, "", MissingCell().String())
}

func TestTable_AppendPadsAndTruncates(t *testing.T) {
	tbl := NewTable([]string{"a", "b", "c"})
	tbl.Append(Row{NumberCell(1)})
	tbl.Append(Row{NumberCell(1), NumberCell(2), NumberCell(3), NumberCell(4)})

	assert.Equal(t, 2, tbl.Len())
	assert.Len(t, tbl.Rows[0], 3)
	assert.Equal(t, MissingCell(), tbl.Rows[0][2])
	assert.Len(t, tbl.Rows[1], 3)
}

func TestTable_CellOutOfRange(t *testing.T) {
	tbl := &Table{Columns: []string{"a", "b"}, Rows: []Row{{NumberCell(1)}}}

	assert.Equal(t, NumberCell(1), tbl.Cell(0, 0))
	assert.Equal(t, MissingCell(), tbl.Cell(0, 1))
	assert.Equal(t, MissingCell(), tbl.Cell(0, -1))
}

func TestTable_CloneIsDeep(t *testing.T) {
	orig := meterTable("1.3.2024 08:00", "5")
	clone := orig.Clone()

	clone.Rows[0][1] = NumberCell(99)
	clone.Columns[0] = "Renamed"

	assert.Equal(t, NumberCell(5), orig.Rows[0][1])
	assert.Equal(t, "Timestamp", orig.Columns[0])
}

func TestTable_ColumnIndexAndLen(t *testing.T) {
	tbl := meterTable()
	assert.Equal(t, 0, tbl.ColumnIndex("Timestamp"))
	assert.Equal(t, 1, tbl.ColumnIndex("Power [kW]"))
	assert.Equal(t, -1, tbl.ColumnIndex("Voltage"))

	var nilTable *Table
	assert.Equal(t, 0, nilTable.Len())
}
