package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBars(closes ...float64) []Bar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]Bar, len(closes))
	for i, c := range closes {
		bars[i] = Bar{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      c, High: c + 1, Low: c - 1, Close: c, Volume: 10,
		}
	}
	return bars
}

func TestNewResult_RejectsMisalignedSeries(t *testing.T) {
	_, err := NewResult("X", []float64{1, 2}, []time.Time{time.Now()})
	assert.ErrorIs(t, err, ErrCalculation)
}

func TestResult_LastAndPlotData(t *testing.T) {
	bars := testBars(1, 2, 3)
	res, err := NewResult("SMA", []float64{2}, Timestamps(bars, 2))
	require.NoError(t, err)

	v, ts, ok := res.Last()
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
	assert.Equal(t, bars[2].Timestamp, ts)

	plots := res.PlotData()
	require.Len(t, plots, 1)
	assert.Equal(t, []int64{bars[2].Timestamp.Unix()}, plots[0].Timestamp)

	js, err := FormatPlotDataJSON(plots)
	require.NoError(t, err)
	assert.Contains(t, js, `"name":"SMA"`)

	csv, err := FormatPlotDataCSV(plots)
	require.NoError(t, err)
	assert.Contains(t, csv, "SMA,0.000000,2.000000,line,,")
}

func TestResult_EmptyLast(t *testing.T) {
	_, _, ok := Result{}.Last()
	assert.False(t, ok)
	assert.Nil(t, Result{}.PlotData())
}

func TestBarHelpers(t *testing.T) {
	bars := testBars(3, 6)
	assert.Equal(t, []float64{3, 6}, Closes(bars))
	assert.Equal(t, []float64{3, 6}, TypicalPrices(bars))
	assert.Len(t, Timestamps(bars, 1), 1)
	assert.Empty(t, Timestamps(bars, 5))
}

func TestValidateBars(t *testing.T) {
	assert.NoError(t, ValidateBars(testBars(1, 2, 3)))
	assert.ErrorIs(t, ValidateBars(nil), ErrInvalidBars)

	outOfOrder := testBars(1, 2)
	outOfOrder[0], outOfOrder[1] = outOfOrder[1], outOfOrder[0]
	assert.ErrorIs(t, ValidateBars(outOfOrder), ErrInvalidBars)

	inverted := testBars(5)
	inverted[0].High, inverted[0].Low = 1, 9
	assert.ErrorIs(t, ValidateBars(inverted), ErrInvalidBars)

	negVolume := testBars(5)
	negVolume[0].Volume = -1
	assert.ErrorIs(t, ValidateBars(negVolume), ErrInvalidBars)
}
