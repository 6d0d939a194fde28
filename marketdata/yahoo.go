package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/evdnx/goquant/indicator/core"
)

// chartIter is the subset of *chart.Iter the source reads.
type chartIter interface {
	Next() bool
	Bar() *finance.ChartBar
	Err() error
}

// YahooSource reads bars from the Yahoo Finance chart API.
type YahooSource struct {
	chart func(*chart.Params) chartIter
	now   func() time.Time
}

// NewYahooSource creates a Yahoo Finance source.
func NewYahooSource() *YahooSource {
	return &YahooSource{
		chart: func(p *chart.Params) chartIter { return chart.Get(p) },
		now:   time.Now,
	}
}

// FetchLatest implements Source. The chart API only takes a date range, so
// the window is widened to cover non-trading periods and then trimmed to the
// last count bars.
func (y *YahooSource) FetchLatest(ctx context.Context, symbol, interval string, count int) ([]core.Bar, error) {
	sym, err := checkLatest(symbol, count)
	if err != nil {
		return nil, err
	}
	end := y.now()
	start, err := lookbackStart(end, interval, count)
	if err != nil {
		return nil, err
	}
	bars, err := y.fetch(ctx, sym, interval, start, end)
	if err != nil {
		return nil, err
	}
	return finalize(bars, count)
}

// FetchRange implements Source.
func (y *YahooSource) FetchRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]core.Bar, error) {
	sym, err := checkRange(symbol, start, end)
	if err != nil {
		return nil, err
	}
	bars, err := y.fetch(ctx, sym, interval, start, end)
	if err != nil {
		return nil, err
	}
	return finalize(inRange(bars, start, end), 0)
}

func (y *YahooSource) fetch(ctx context.Context, symbol, interval string, start, end time.Time) ([]core.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: yahooInterval(interval),
	}

	iter := y.chart(params)
	var bars []core.Bar
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := iter.Bar()
		if b == nil {
			continue
		}
		bars = append(bars, chartBarToBar(b))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to get chart for %s: %w", ErrNetwork, symbol, err)
	}
	return bars, nil
}

func chartBarToBar(b *finance.ChartBar) core.Bar {
	return core.Bar{
		Timestamp: time.Unix(int64(b.Timestamp), 0).UTC(),
		Open:      b.Open.InexactFloat64(),
		High:      b.High.InexactFloat64(),
		Low:       b.Low.InexactFloat64(),
		Close:     b.Close.InexactFloat64(),
		Volume:    float64(b.Volume),
	}
}

func yahooInterval(interval string) datetime.Interval {
	iv := strings.ToLower(strings.TrimSpace(interval))
	if iv == "" {
		return datetime.OneDay
	}
	return datetime.Interval(iv)
}

// maxLookback bounds the requested window to a century.
const maxLookback = 100 * 365 * 24 * time.Hour

// lookbackStart widens count intervals by half again plus a week so that
// weekends and holidays still leave count bars in the window. The span is
// capped at maxLookback.
func lookbackStart(end time.Time, interval string, count int) (time.Time, error) {
	if interval == "" {
		interval = "1d"
	}
	d, err := IntervalDuration(interval)
	if err != nil {
		return time.Time{}, err
	}
	span := maxLookback
	if int64(count) <= int64(maxLookback/d) {
		span = time.Duration(count) * d
	}
	span += span/2 + 7*24*time.Hour
	return end.Add(-span), nil
}
