package momentum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evdnx/goquant/indicator/core"
	"github.com/evdnx/goquant/internal/bartest"
)

func TestStochasticOscillator_Calculation(t *testing.T) {
	stoch, err := NewStochasticOscillatorWithParams(3, 2)
	if err != nil {
		t.Fatalf("constructor error: %v", err)
	}

	bars := bartest.HLC(
		[]float64{10, 12, 14, 15, 16},
		[]float64{5, 6, 5, 9, 10},
		[]float64{7, 11, 13, 10, 15},
	)
	full, err := stoch.CalculateFull(bars)
	if err != nil {
		t.Fatalf("CalculateFull returned error: %v", err)
	}

	// Raw %K: bar2 ≈ 88.8889, bar3 = 50, bar4 ≈ 90.9091.
	// %D(2): bar3 ≈ 69.4444, bar4 ≈ 70.4545.
	if len(full.KLine) != 2 || len(full.DLine) != 2 {
		t.Fatalf("unexpected lengths: %d/%d", len(full.KLine), len(full.DLine))
	}
	if !approxEqual(full.KLine[0], 50) || !approxEqual(full.KLine[1], 1000.0/11) {
		t.Fatalf("unexpected %%K: %v", full.KLine)
	}
	if !approxEqual(full.DLine[0], 69.444444) || !approxEqual(full.DLine[1], 70.454545) {
		t.Fatalf("unexpected %%D: %v", full.DLine)
	}
	if !full.Timestamps[0].Equal(bars[3].Timestamp) {
		t.Fatalf("first timestamp %v, want %v", full.Timestamps[0], bars[3].Timestamp)
	}
}

func TestStochasticOscillator_FlatRange(t *testing.T) {
	stoch, _ := NewStochasticOscillatorWithParams(2, 2)
	res, err := stoch.Calculate(bartest.FromCloses(5, 5, 5, 5))
	require.NoError(t, err)
	for _, v := range res.Values {
		assert.Equal(t, 0.0, v)
	}
}

func TestStochasticOscillator_RangeAndAlignment(t *testing.T) {
	stoch, _ := NewStochasticOscillator()
	bars := bartest.RandomWalk(120, 9)
	full, err := stoch.CalculateFull(bars)
	require.NoError(t, err)

	n := len(bars) - DefaultStochasticKPeriod - DefaultStochasticDPeriod + 2
	require.Len(t, full.KLine, n)
	require.Len(t, full.DLine, n)
	require.Len(t, full.Timestamps, n)
	for i := range full.KLine {
		assert.True(t, full.KLine[i] >= 0 && full.KLine[i] <= 100)
		assert.True(t, full.DLine[i] >= 0 && full.DLine[i] <= 100)
	}
	assert.Equal(t, bars[len(bars)-1].Timestamp, full.Timestamps[n-1])
	assert.Len(t, full.PlotData(), 2)
}

func TestStochasticOscillator_Boundary(t *testing.T) {
	stoch, _ := NewStochasticOscillatorWithParams(3, 2)
	_, err := stoch.Calculate(bartest.RandomWalk(4, 1))
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	_, err = NewStochasticOscillatorWithParams(3, 0)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}
