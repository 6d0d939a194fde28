package momentum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evdnx/goquant/indicator/core"
	"github.com/evdnx/goquant/indicator/trend"
	"github.com/evdnx/goquant/internal/bartest"
)

func TestNewMACD_Validation(t *testing.T) {
	cases := []struct {
		name               string
		fast, slow, signal int
	}{
		{"zero fast", 0, 26, 9},
		{"zero signal", 12, 26, 0},
		{"fast equals slow", 12, 12, 9},
		{"fast above slow", 26, 12, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMACDWithParams(tc.fast, tc.slow, tc.signal)
			require.ErrorIs(t, err, core.ErrInvalidParameter)
		})
	}

	m, err := NewMACD()
	require.NoError(t, err)
	assert.Equal(t, 35, m.MinDataPoints())
}

func TestMACD_LinearSeries(t *testing.T) {
	m, err := NewMACDWithParams(2, 3, 2)
	require.NoError(t, err)

	bars := bartest.FromCloses(1, 2, 3, 4, 5, 6)
	full, err := m.CalculateFull(bars)
	require.NoError(t, err)

	// On a linear series both EMAs lag by a constant, so the line is flat.
	require.Len(t, full.MACDLine, 3)
	for i := range full.MACDLine {
		assert.InDelta(t, 0.5, full.MACDLine[i], 1e-9)
		assert.InDelta(t, 0.5, full.SignalLine[i], 1e-9)
		assert.InDelta(t, 0.0, full.Histogram[i], 1e-9)
	}
	assert.Equal(t, bars[3].Timestamp, full.Timestamps[0])
	assert.Equal(t, bars[5].Timestamp, full.Timestamps[2])
}

func TestMACD_HistogramIdentityAndAlignment(t *testing.T) {
	m, _ := NewMACD()
	bars := bartest.RandomWalk(200, 5)

	full, err := m.CalculateFull(bars)
	require.NoError(t, err)

	n := len(bars) - (26 + 9 - 2)
	require.Len(t, full.MACDLine, n)
	require.Len(t, full.SignalLine, n)
	require.Len(t, full.Histogram, n)
	require.Len(t, full.Timestamps, n)
	assert.Equal(t, bars[26+9-2].Timestamp, full.Timestamps[0])

	for i := range full.Histogram {
		assert.Equal(t, full.MACDLine[i]-full.SignalLine[i], full.Histogram[i])
	}

	fast, _ := trend.NewExponentialMovingAverageWithParams(12)
	slow, _ := trend.NewExponentialMovingAverageWithParams(26)
	fr, err := fast.Calculate(bars)
	require.NoError(t, err)
	sr, err := slow.Calculate(bars)
	require.NoError(t, err)
	fastAt := make(map[int64]float64, fr.Len())
	for i, ts := range fr.Timestamps {
		fastAt[ts.Unix()] = fr.Values[i]
	}
	slowAt := make(map[int64]float64, sr.Len())
	for i, ts := range sr.Timestamps {
		slowAt[ts.Unix()] = sr.Values[i]
	}
	for i, ts := range full.Timestamps {
		assert.InDelta(t, fastAt[ts.Unix()]-slowAt[ts.Unix()], full.MACDLine[i], 1e-9)
	}

	res, err := m.Calculate(bars)
	require.NoError(t, err)
	assert.Equal(t, "MACD", res.IndicatorName)
	assert.Equal(t, full.MACDLine, res.Values)
	assert.Len(t, full.PlotData(), 3)
}

func TestMACD_Boundary(t *testing.T) {
	m, _ := NewMACDWithParams(3, 5, 4)
	_, err := m.Calculate(bartest.RandomWalk(8, 1))
	assert.ErrorIs(t, err, core.ErrInsufficientData)
	_, err = m.Calculate(bartest.RandomWalk(9, 1))
	assert.NoError(t, err)
}
