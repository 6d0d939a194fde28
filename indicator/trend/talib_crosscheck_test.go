package trend

import (
	"testing"

	"github.com/markcheno/go-talib"
	"github.com/stretchr/testify/require"

	"github.com/evdnx/goquant/internal/bartest"
)

// TA-Lib pads the warm-up region, so output i lines up with talib index i+lookback.

func TestSimpleMovingAverage_MatchesTALib(t *testing.T) {
	bars := bartest.RandomWalk(250, 42)
	_, _, closes, _ := bartest.Series(bars)

	for _, p := range []int{2, 5, 14, 50} {
		sma, err := NewSimpleMovingAverageWithParams(p)
		require.NoError(t, err)
		res, err := sma.Calculate(bars)
		require.NoError(t, err)

		want := talib.Sma(closes, p)
		for i, v := range res.Values {
			require.InDelta(t, want[i+p-1], v, 1e-9, "period %d index %d", p, i)
		}
	}
}

func TestExponentialMovingAverage_MatchesTALib(t *testing.T) {
	bars := bartest.RandomWalk(250, 43)
	_, _, closes, _ := bartest.Series(bars)

	for _, p := range []int{2, 9, 12, 26} {
		ema, err := NewExponentialMovingAverageWithParams(p)
		require.NoError(t, err)
		res, err := ema.Calculate(bars)
		require.NoError(t, err)

		want := talib.Ema(closes, p)
		for i, v := range res.Values {
			require.InDelta(t, want[i+p-1], v, 1e-9, "period %d index %d", p, i)
		}
	}
}
