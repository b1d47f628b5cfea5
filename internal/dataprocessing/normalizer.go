package dataprocessing

// Normalize returns a copy of t in which every missing or whitespace-only
// cell is the number zero. Columns and all other cells are unchanged, so a
// blank reading becomes indistinguishable from a metered zero.
func Normalize(t *Table) *Table {
	out := t.Clone()
	for _, row := range out.Rows {
		for j, cell := range row {
			if cell.IsBlank() {
				row[j] = NumberCell(0)
			}
		}
	}
	return out
}
