package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loadprofile/internal/config"
)

const lossFactor = config.DefaultLossFactor

func TestBuildPivot(t *testing.T) {
	readings := []Reading{
		{Date: day(2024, 3, 2), Slot: "08:10", Power: 3},
		{Date: day(2024, 3, 1), Slot: "08:10", Power: 1},
		{Date: day(2024, 3, 1), Slot: "00:00", Power: 2},
	}

	m, err := BuildPivot(readings)
	require.NoError(t, err)

	assert.Equal(t, []string{"00:00", "08:10"}, m.Slots)
	assert.Equal(t, []time.Time{day(2024, 3, 1), day(2024, 3, 2)}, m.Dates)
	assert.Equal(t, [][]float64{{2, 0}, {1, 3}}, m.Cells)
	assert.Equal(t, [][]bool{{true, false}, {true, true}}, m.Present)
}

func TestBuildPivot_Empty(t *testing.T) {
	m, err := BuildPivot(nil)
	require.NoError(t, err)
	assert.Empty(t, m.Slots)
	assert.Empty(t, m.Dates)
}

func TestBuildPivot_Duplicate(t *testing.T) {
	_, err := BuildPivot([]Reading{
		{Date: day(2024, 3, 1), Slot: "08:00", Power: 1},
		{Date: day(2024, 3, 1), Slot: "08:00", Power: 2},
	})
	assert.Error(t, err)
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		readings []Reading
		wantAvg  float64
		wantMax  float64
	}{
		{
			name: "absent cells ignored",
			readings: []Reading{
				{Date: day(2024, 3, 1), Slot: "08:00", Power: 10},
				{Date: day(2024, 3, 2), Slot: "08:00", Power: 20},
				{Date: day(2024, 3, 3), Slot: "09:00", Power: 1},
			},
			wantAvg: (10/lossFactor + 20/lossFactor) / 2,
			wantMax: 20 / lossFactor,
		},
		{
			name: "negative mean floored at zero",
			readings: []Reading{
				{Date: day(2024, 3, 1), Slot: "08:00", Power: -4},
				{Date: day(2024, 3, 2), Slot: "08:00", Power: 2},
			},
			wantAvg: 0,
			wantMax: 2 / lossFactor,
		},
		{
			name: "negative maximum not floored",
			readings: []Reading{
				{Date: day(2024, 3, 1), Slot: "08:00", Power: -4},
				{Date: day(2024, 3, 2), Slot: "08:00", Power: -2},
			},
			wantAvg: 0,
			wantMax: -2 / lossFactor,
		},
		{
			name: "zeros count towards the mean",
			readings: []Reading{
				{Date: day(2024, 3, 1), Slot: "08:00", Power: 0},
				{Date: day(2024, 3, 2), Slot: "08:00", Power: 8.648},
			},
			wantAvg: 5,
			wantMax: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := BuildPivot(tt.readings)
			require.NoError(t, err)

			p := Aggregate(m, lossFactor)
			require.Equal(t, "08:00", p.Slots[0])
			assert.InDelta(t, tt.wantAvg, p.Average[0], 1e-9)
			assert.InDelta(t, tt.wantMax, p.Maximum[0], 1e-9)
			assert.Equal(t, lossFactor, p.LossFactor)
		})
	}
}

func TestAggregate_Invariants(t *testing.T) {
	var readings []Reading
	for d := 1; d <= 5; d++ {
		for h := 0; h < 24; h += 6 {
			readings = append(readings, Reading{
				Date:  day(2024, 3, d),
				Slot:  time.Date(2024, 3, d, h, 0, 0, 0, time.UTC).Format(SlotLayout),
				Power: float64((d*7+h)%11) - 3,
			})
		}
	}

	m, err := BuildPivot(readings)
	require.NoError(t, err)
	p := Aggregate(m, lossFactor)

	require.Len(t, p.Average, len(m.Slots))
	require.Len(t, p.Maximum, len(m.Slots))
	for i := range p.Slots {
		assert.GreaterOrEqual(t, p.Average[i], 0.0, "slot %s", p.Slots[i])
		// mean never exceeds max unless the flooring lifted it
		if p.Maximum[i] >= 0 {
			assert.LessOrEqual(t, p.Average[i], p.Maximum[i]+1e-12, "slot %s", p.Slots[i])
		}
	}
}

func TestAggregate_ColumnOrderIndependent(t *testing.T) {
	m := &PivotMatrix{
		Slots:   []string{"08:00"},
		Dates:   []time.Time{day(2024, 3, 1), day(2024, 3, 2), day(2024, 3, 3)},
		Cells:   [][]float64{{0.1, 1e16, 0.2}},
		Present: [][]bool{{true, true, true}},
	}
	swapped := &PivotMatrix{
		Slots:   m.Slots,
		Dates:   m.Dates,
		Cells:   [][]float64{{1e16, 0.2, 0.1}},
		Present: m.Present,
	}

	assert.Equal(t, Aggregate(m, lossFactor).Average, Aggregate(swapped, lossFactor).Average)
}

func TestAggregate_EmptySlotIsNaN(t *testing.T) {
	m := &PivotMatrix{
		Slots:   []string{"08:00"},
		Dates:   []time.Time{day(2024, 3, 1)},
		Cells:   [][]float64{{0}},
		Present: [][]bool{{false}},
	}

	p := Aggregate(m, lossFactor)
	assert.True(t, math.IsNaN(p.Average[0]))
	assert.True(t, math.IsNaN(p.Maximum[0]))
}

func TestAggregate_SeriesKeepsRawValues(t *testing.T) {
	m, err := BuildPivot([]Reading{
		{Date: day(2024, 3, 1), Slot: "08:00", Power: 10},
		{Date: day(2024, 3, 1), Slot: "08:10", Power: 12},
		{Date: day(2024, 3, 2), Slot: "08:10", Power: 20},
	})
	require.NoError(t, err)

	p := Aggregate(m, lossFactor)
	require.Len(t, p.Series, 2)
	assert.Equal(t, day(2024, 3, 1), p.Series[0].Date)
	assert.Equal(t, []string{"08:00", "08:10"}, p.Series[0].Slots)
	assert.Equal(t, []float64{10, 12}, p.Series[0].Values)
	assert.Equal(t, []string{"08:10"}, p.Series[1].Slots)
	assert.Equal(t, []float64{20}, p.Series[1].Values)
}
