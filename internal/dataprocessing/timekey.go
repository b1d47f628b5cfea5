package dataprocessing

import (
	"fmt"
	"strings"
	"time"

	"loadprofile/internal/errors"
)

// SlotLayout formats a time-of-day slot.
const SlotLayout = "15:04"

// Reading is one power value keyed by calendar date and time-of-day slot.
type Reading struct {
	Date  time.Time // midnight UTC of the calendar day
	Slot  string    // "HH:MM"
	Power float64
}

type slotKey struct {
	slot string
	date time.Time
}

// TimeKeyDeriver turns normalized rows into grid-aligned readings.
type TimeKeyDeriver struct {
	TimestampColumn string
	PowerColumn     string
	Layout          string
	GridMinutes     int
}

// Derive parses every timestamp, keeps the first row seen for each
// (slot, date) pair and drops slots whose minute is off the grid. Any
// unparseable timestamp fails the whole derivation.
func (d TimeKeyDeriver) Derive(t *Table) ([]Reading, error) {
	tsCol := t.ColumnIndex(d.TimestampColumn)
	powerCol := t.ColumnIndex(d.PowerColumn)
	if tsCol < 0 || powerCol < 0 {
		missing := d.TimestampColumn
		if tsCol >= 0 {
			missing = d.PowerColumn
		}
		return nil, errors.NewSchemaError(missing,
			fmt.Sprintf("required columns (%q and %q) not found in the data", d.TimestampColumn, d.PowerColumn))
	}

	grid := d.GridMinutes
	if grid <= 0 {
		grid = 1
	}

	seen := make(map[slotKey]struct{}, t.Len())
	readings := make([]Reading, 0, t.Len())
	for i := range t.Rows {
		raw := t.Cell(i, tsCol).String()
		ts, err := time.Parse(d.Layout, strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.NewTimestampFormatError(i+1, raw, err).
				WithContext("column", d.TimestampColumn)
		}

		key := slotKey{
			slot: ts.Format(SlotLayout),
			date: time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if ts.Minute()%grid != 0 {
			continue
		}

		power := t.Cell(i, powerCol)
		if power.Kind != CellNumber {
			return nil, errors.NewSchemaError(d.PowerColumn,
				fmt.Sprintf("row %d: power value %q is not numeric", i+1, power.String()))
		}

		readings = append(readings, Reading{Date: key.date, Slot: key.slot, Power: power.Number})
	}

	return readings, nil
}
