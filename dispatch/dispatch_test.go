package dispatch

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evdnx/goquant/config"
	"github.com/evdnx/goquant/indicator"
	"github.com/evdnx/goquant/indicator/core"
	"github.com/evdnx/goquant/internal/bartest"
	"github.com/evdnx/goquant/internal/logger"
	"github.com/evdnx/goquant/internal/metrics"
	"github.com/evdnx/goquant/marketdata"
	"github.com/evdnx/goquant/suite"
)

func newTestDispatcher(t *testing.T, cfg config.IndicatorConfig, series map[string][]indicator.Bar) (*Dispatcher, *metrics.Metrics) {
	t.Helper()
	s, err := suite.NewIndicatorSuiteWithConfig(cfg)
	require.NoError(t, err)
	src := marketdata.NewStaticSource()
	for sym, bars := range series {
		require.NoError(t, src.Set(sym, bars))
	}
	m := metrics.New(nil)
	return New(s, src, WithMetrics(m), WithConfig(cfg)), m
}

func payload(t *testing.T, err error) *ErrorPayload {
	t.Helper()
	var p *ErrorPayload
	require.True(t, errors.As(err, &p), "expected *ErrorPayload, got %T", err)
	return p
}

func closes(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestListIndicators(t *testing.T) {
	d, _ := newTestDispatcher(t, config.DefaultConfig(), nil)
	infos := d.ListIndicators()
	require.Len(t, infos, len(config.DefaultIndicators()))
	assert.True(t, sort.SliceIsSorted(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name }))
	assert.Equal(t, IndicatorInfo{Name: "adx_14", DisplayName: "ADX", Type: config.TypeADX, MinDataPoints: 28}, infos[0])
}

func TestCalculate_SMA(t *testing.T) {
	d, m := newTestDispatcher(t, config.DefaultConfig(), map[string][]indicator.Bar{
		"TEST": bartest.FromCloses(closes(10)...),
	})

	resp, err := d.Calculate(context.Background(), CalculateRequest{Indicator: "sma_5", Symbol: "test", Count: 10})
	require.NoError(t, err)
	_, err = uuid.Parse(resp.RequestID)
	assert.NoError(t, err)
	assert.Equal(t, "TEST", resp.Symbol)
	assert.Equal(t, config.DefaultInterval, resp.Interval)
	require.Len(t, resp.Points, 6)
	for i, p := range resp.Points {
		assert.Equal(t, float64(i+3), p.Value)
		assert.Equal(t, bartest.Start.Add(bartest.Step*time.Duration(4+i)).Unix(), p.Timestamp)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("sma_5", metrics.OutcomeOK)))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.BarsFetched))
}

func TestCalculate_Precision(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Indicators = []config.IndicatorSpec{{Name: "sma_3", Type: config.TypeSMA, Period: 3}}
	cfg.Precision = 2
	d, _ := newTestDispatcher(t, cfg, map[string][]indicator.Bar{
		"X": bartest.FromCloses(1, 1, 2),
	})

	resp, err := d.Calculate(context.Background(), CalculateRequest{Indicator: "sma_3", Symbol: "X", Count: 3})
	require.NoError(t, err)
	require.Len(t, resp.Points, 1)
	assert.Equal(t, 1.33, resp.Points[0].Value)
}

func TestCalculate_KeepsRequestID(t *testing.T) {
	d, _ := newTestDispatcher(t, config.DefaultConfig(), map[string][]indicator.Bar{
		"TEST": bartest.RandomWalk(40, 1),
	})
	ctx := logger.WithRequestID(context.Background(), "req-1")
	resp, err := d.Calculate(ctx, CalculateRequest{Indicator: "rsi_14", Symbol: "TEST"})
	require.NoError(t, err)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Len(t, resp.Points, 40-14)
}

func TestCalculate_Errors(t *testing.T) {
	d, m := newTestDispatcher(t, config.DefaultConfig(), map[string][]indicator.Bar{
		"TEST":  bartest.RandomWalk(50, 2),
		"SHORT": bartest.FromCloses(1, 2, 3),
	})

	cases := []struct {
		name string
		req  CalculateRequest
		code string
	}{
		{"missing indicator", CalculateRequest{Symbol: "TEST"}, CodeInvalidRequest},
		{"missing symbol", CalculateRequest{Indicator: "sma_5"}, CodeInvalidRequest},
		{"unknown indicator", CalculateRequest{Indicator: "hma_9", Symbol: "TEST"}, CodeIndicatorNotFound},
		{"malformed symbol", CalculateRequest{Indicator: "sma_5", Symbol: "no symbol!"}, CodeInvalidRequest},
		{"negative count", CalculateRequest{Indicator: "sma_5", Symbol: "TEST", Count: -1}, CodeInvalidRequest},
		{"count below minimum", CalculateRequest{Indicator: "sma_5", Symbol: "TEST", Count: 4}, CodeInsufficientData},
		{"source too short", CalculateRequest{Indicator: "sma_5", Symbol: "SHORT"}, CodeInsufficientData},
		{"unknown symbol", CalculateRequest{Indicator: "sma_5", Symbol: "ETH"}, CodeDataSource},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := d.Calculate(context.Background(), tc.req)
			require.Error(t, err)
			assert.Nil(t, resp)
			p := payload(t, err)
			assert.Equal(t, tc.code, p.Code)
			assert.NotEmpty(t, p.Message)
		})
	}

	assert.Equal(t, 4.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues(CodeInvalidRequest)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues(CodeInsufficientData)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("sma_5", metrics.OutcomeError)))
}

func TestCalculate_EngineErrorKeepsCause(t *testing.T) {
	d, _ := newTestDispatcher(t, config.DefaultConfig(), map[string][]indicator.Bar{
		"SHORT": bartest.FromCloses(1, 2, 3),
	})
	_, err := d.Calculate(context.Background(), CalculateRequest{Indicator: "sma_5", Symbol: "SHORT"})
	require.Error(t, err)
	assert.ErrorIs(t, err, indicator.ErrInsufficientData)
}

func TestCalculate_SourceCancelled(t *testing.T) {
	d, _ := newTestDispatcher(t, config.DefaultConfig(), map[string][]indicator.Bar{
		"TEST": bartest.RandomWalk(50, 2),
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Calculate(ctx, CalculateRequest{Indicator: "sma_5", Symbol: "TEST"})
	require.Error(t, err)
	assert.Equal(t, CodeCancelled, payload(t, err).Code)
	assert.ErrorIs(t, err, context.Canceled)
}

// cancelAfterFetch returns the bars and then cancels the request context, so
// the calculation stage sees a done context.
type cancelAfterFetch struct {
	marketdata.Source
	cancel context.CancelFunc
}

func (c cancelAfterFetch) FetchLatest(ctx context.Context, symbol, interval string, count int) ([]indicator.Bar, error) {
	bars, err := c.Source.FetchLatest(ctx, symbol, interval, count)
	c.cancel()
	return bars, err
}

func TestSummarize_CancelledDuringCalculation(t *testing.T) {
	s, err := suite.NewIndicatorSuite()
	require.NoError(t, err)
	static := marketdata.NewStaticSource()
	require.NoError(t, static.Set("TEST", bartest.RandomWalk(300, 6)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := metrics.New(nil)
	d := New(s, cancelAfterFetch{Source: static, cancel: cancel}, WithMetrics(m))

	resp, err := d.Summarize(ctx, FetchRequest{Symbol: "TEST", Count: 300})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, CodeCancelled, payload(t, err).Code)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues(CodeCancelled)))
}

func TestCodeForIndicator(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{core.InvalidParameter("SMA", "period must be at least 1, got %d", 0), CodeInvalidParameter},
		{core.InsufficientData("SMA", 5, 3), CodeInsufficientData},
		{core.CalculationFailed("MACD", "EMA alignment", errors.New("diverged")), CodeCalculation},
		{context.Canceled, CodeCancelled},
		{context.DeadlineExceeded, CodeCancelled},
		{errors.New("boom"), CodeCalculation},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, codeForIndicator(tc.err), tc.err.Error())
	}
}

func TestCalculateBars(t *testing.T) {
	d, _ := newTestDispatcher(t, config.DefaultConfig(), nil)

	resp, err := d.CalculateBars(context.Background(), "obv", bartest.WithVolumes(bartest.FromCloses(10, 11, 10), 0, 5, 2))
	require.NoError(t, err)
	require.Len(t, resp.Points, 3)
	assert.Equal(t, []float64{0, 5, 3}, []float64{resp.Points[0].Value, resp.Points[1].Value, resp.Points[2].Value})

	_, err = d.CalculateBars(context.Background(), "nope", bartest.FromCloses(1, 2))
	assert.Equal(t, CodeIndicatorNotFound, payload(t, err).Code)

	bad := bartest.FromCloses(1, 2, 3)
	bad[1].High = 0.5
	_, err = d.CalculateBars(context.Background(), "obv", bad)
	assert.Equal(t, CodeInvalidRequest, payload(t, err).Code)
}

func TestFetch(t *testing.T) {
	bars := bartest.RandomWalk(150, 4)
	d, _ := newTestDispatcher(t, config.DefaultConfig(), map[string][]indicator.Bar{"BTC-USD": bars})

	resp, err := d.Fetch(context.Background(), FetchRequest{Symbol: "btc-usd", Interval: "1h"})
	require.NoError(t, err)
	assert.Equal(t, "BTC-USD", resp.Symbol)
	assert.Equal(t, "1h", resp.Interval)
	require.Len(t, resp.Bars, config.DefaultCount)
	last := bars[len(bars)-1]
	assert.Equal(t, BarOut{
		Timestamp: last.Timestamp.Unix(),
		Open:      last.Open,
		High:      last.High,
		Low:       last.Low,
		Close:     last.Close,
		Volume:    last.Volume,
	}, resp.Bars[len(resp.Bars)-1])

	_, err = d.Fetch(context.Background(), FetchRequest{})
	assert.Equal(t, CodeInvalidRequest, payload(t, err).Code)
	_, err = d.Fetch(context.Background(), FetchRequest{Symbol: "DOGE"})
	assert.Equal(t, CodeDataSource, payload(t, err).Code)
}

func TestSummarize(t *testing.T) {
	d, _ := newTestDispatcher(t, config.DefaultConfig(), map[string][]indicator.Bar{
		"TEST": bartest.RandomWalk(60, 9),
	})

	resp, err := d.Summarize(context.Background(), FetchRequest{Symbol: "TEST"})
	require.NoError(t, err)
	assert.Equal(t, CodeInsufficientData, resp.Failed["sma_200"])
	assert.Contains(t, resp.Latest, "rsi_14")
	assert.Contains(t, resp.Latest, "macd")
	assert.NotContains(t, resp.Latest, "sma_200")
	assert.Len(t, resp.Latest, len(config.DefaultIndicators())-len(resp.Failed))
	assert.NotEmpty(t, resp.Signal)
	assert.True(t, sort.StringsAreSorted(resp.Contributors))

	_, err = d.Summarize(context.Background(), FetchRequest{Symbol: "TEST", Count: -5})
	assert.Equal(t, CodeInvalidRequest, payload(t, err).Code)
}
