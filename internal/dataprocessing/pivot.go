package dataprocessing

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// PivotMatrix holds one row per observed time-of-day slot and one column
// per observed date, both ascending. Present[i][j] is false for slots that
// have no reading on that date.
type PivotMatrix struct {
	Slots   []string
	Dates   []time.Time
	Cells   [][]float64
	Present [][]bool
}

// DateSeries is the unadjusted readings of a single day, for scatter display.
type DateSeries struct {
	Date   time.Time
	Slots  []string
	Values []float64
}

// Profile is the 24h statistical profile aligned to PivotMatrix.Slots.
type Profile struct {
	Slots      []string
	Average    []float64
	Maximum    []float64
	Series     []DateSeries
	LossFactor float64
}

// BuildPivot reshapes readings into a slot x date matrix. Readings must be
// unique per (slot, date); a duplicate is an error.
func BuildPivot(readings []Reading) (*PivotMatrix, error) {
	slotIndex := make(map[string]int)
	dateIndex := make(map[time.Time]int)
	for _, r := range readings {
		if _, ok := slotIndex[r.Slot]; !ok {
			slotIndex[r.Slot] = 0
		}
		if _, ok := dateIndex[r.Date]; !ok {
			dateIndex[r.Date] = 0
		}
	}

	m := &PivotMatrix{
		Slots: make([]string, 0, len(slotIndex)),
		Dates: make([]time.Time, 0, len(dateIndex)),
	}
	for s := range slotIndex {
		m.Slots = append(m.Slots, s)
	}
	for d := range dateIndex {
		m.Dates = append(m.Dates, d)
	}
	// "HH:MM" sorts chronologically as a string.
	sort.Strings(m.Slots)
	sort.Slice(m.Dates, func(i, j int) bool { return m.Dates[i].Before(m.Dates[j]) })
	for i, s := range m.Slots {
		slotIndex[s] = i
	}
	for j, d := range m.Dates {
		dateIndex[d] = j
	}

	m.Cells = make([][]float64, len(m.Slots))
	m.Present = make([][]bool, len(m.Slots))
	for i := range m.Slots {
		m.Cells[i] = make([]float64, len(m.Dates))
		m.Present[i] = make([]bool, len(m.Dates))
	}

	for _, r := range readings {
		i, j := slotIndex[r.Slot], dateIndex[r.Date]
		if m.Present[i][j] {
			return nil, fmt.Errorf("duplicate reading for slot %s on %s", r.Slot, r.Date.Format("2006-01-02"))
		}
		m.Cells[i][j] = r.Power
		m.Present[i][j] = true
	}

	return m, nil
}

// Aggregate divides every present cell by lossFactor and computes, per
// slot, the mean and the maximum across dates. Absent cells are ignored.
// The mean is floored at zero; the maximum is not. A slot with no present
// cell yields NaN for both.
func Aggregate(m *PivotMatrix, lossFactor float64) *Profile {
	p := &Profile{
		Slots:      append([]string(nil), m.Slots...),
		Average:    make([]float64, len(m.Slots)),
		Maximum:    make([]float64, len(m.Slots)),
		LossFactor: lossFactor,
	}

	values := make([]float64, 0, len(m.Dates))
	for i := range m.Slots {
		values = values[:0]
		for j := range m.Dates {
			if m.Present[i][j] {
				values = append(values, m.Cells[i][j]/lossFactor)
			}
		}
		if len(values) == 0 {
			p.Average[i] = math.NaN()
			p.Maximum[i] = math.NaN()
			continue
		}

		// Summing in sorted order keeps the mean independent of column order.
		sort.Float64s(values)
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		p.Average[i] = math.Max(sum/float64(len(values)), 0)
		p.Maximum[i] = values[len(values)-1]
	}

	p.Series = make([]DateSeries, len(m.Dates))
	for j, d := range m.Dates {
		s := DateSeries{Date: d}
		for i, slot := range m.Slots {
			if m.Present[i][j] {
				s.Slots = append(s.Slots, slot)
				s.Values = append(s.Values, m.Cells[i][j])
			}
		}
		p.Series[j] = s
	}

	return p
}
