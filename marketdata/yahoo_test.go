package marketdata

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIter struct {
	bars []*finance.ChartBar
	pos  int
	err  error
}

func (f *fakeIter) Next() bool {
	if f.pos >= len(f.bars) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeIter) Bar() *finance.ChartBar { return f.bars[f.pos-1] }
func (f *fakeIter) Err() error             { return f.err }

func chartBar(ts int64, close string) *finance.ChartBar {
	c := decimal.RequireFromString(close)
	return &finance.ChartBar{
		Open:      c,
		High:      c.Add(decimal.NewFromInt(1)),
		Low:       c.Sub(decimal.NewFromInt(1)),
		Close:     c,
		AdjClose:  c,
		Volume:    1000,
		Timestamp: int(ts),
	}
}

func TestYahooSource_FetchLatest(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var got *chart.Params
	y := &YahooSource{
		now: func() time.Time { return now },
		chart: func(p *chart.Params) chartIter {
			got = p
			return &fakeIter{bars: []*finance.ChartBar{
				chartBar(now.Add(-72*time.Hour).Unix(), "100.25"),
				chartBar(now.Add(-48*time.Hour).Unix(), "101.50"),
				chartBar(now.Add(-24*time.Hour).Unix(), "99.75"),
			}}
		},
	}

	bars, err := y.FetchLatest(context.Background(), "spy", "", 2)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 101.5, bars[0].Close)
	assert.Equal(t, 98.75, bars[1].Low)
	assert.Equal(t, 1000.0, bars[1].Volume)

	require.NotNil(t, got)
	assert.Equal(t, "SPY", got.Symbol)
	assert.Equal(t, datetime.OneDay, got.Interval)
}

func TestYahooSource_Errors(t *testing.T) {
	y := &YahooSource{
		now: time.Now,
		chart: func(*chart.Params) chartIter {
			return &fakeIter{err: errors.New("remote said no")}
		},
	}
	_, err := y.FetchLatest(context.Background(), "SPY", "1d", 5)
	assert.ErrorIs(t, err, ErrNetwork)

	y.chart = func(*chart.Params) chartIter { return &fakeIter{} }
	_, err = y.FetchLatest(context.Background(), "SPY", "1d", 5)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = y.FetchLatest(context.Background(), "SPY", "7x", 5)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = y.FetchLatest(ctx, "SPY", "1d", 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLookbackStart(t *testing.T) {
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	start, err := lookbackStart(end, "1d", 100)
	require.NoError(t, err)
	assert.Equal(t, end.Add(-(150+7)*24*time.Hour), start)

	start, err = lookbackStart(end, "5m", 12)
	require.NoError(t, err)
	assert.Equal(t, end.Add(-(90*time.Minute + 7*24*time.Hour)), start)
}

func TestLookbackStart_LargeCount(t *testing.T) {
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	want := end.Add(-(maxLookback + maxLookback/2 + 7*24*time.Hour))
	for _, count := range []int{1_000_000_000, math.MaxInt} {
		start, err := lookbackStart(end, "1d", count)
		require.NoError(t, err)
		assert.True(t, start.Before(end), count)
		assert.Equal(t, want, start, count)
	}

	start, err := lookbackStart(end, "1mo", 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, want, start)
}
