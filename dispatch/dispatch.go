// Package dispatch resolves indicator requests by logical name, fetches the
// bars they need and shapes the replies.
package dispatch

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evdnx/goquant/config"
	"github.com/evdnx/goquant/indicator"
	"github.com/evdnx/goquant/internal/logger"
	"github.com/evdnx/goquant/internal/metrics"
	"github.com/evdnx/goquant/marketdata"
	"github.com/evdnx/goquant/suite"
)

// Dispatcher is safe for concurrent use once built.
type Dispatcher struct {
	suite     *suite.IndicatorSuite
	source    marketdata.Source
	metrics   *metrics.Metrics
	log       *slog.Logger
	precision int32
	interval  string
	count     int
	now       func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithMetrics records calculations and fetches on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithConfig takes precision and request defaults from cfg.
func WithConfig(cfg config.IndicatorConfig) Option {
	return func(d *Dispatcher) {
		d.precision = int32(cfg.Precision)
		if cfg.DefaultInterval != "" {
			d.interval = cfg.DefaultInterval
		}
		if cfg.DefaultCount > 0 {
			d.count = cfg.DefaultCount
		}
	}
}

// New builds a dispatcher over a suite and a bar source.
func New(s *suite.IndicatorSuite, src marketdata.Source, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		suite:     s,
		source:    src,
		log:       logger.Discard(),
		precision: config.DefaultPrecision,
		interval:  config.DefaultInterval,
		count:     config.DefaultCount,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.metrics == nil {
		d.metrics = metrics.New(nil)
	}
	return d
}

// ListIndicators describes every registered indicator, sorted by name.
func (d *Dispatcher) ListIndicators() []IndicatorInfo {
	infos := d.suite.List()
	out := make([]IndicatorInfo, len(infos))
	for i, in := range infos {
		out[i] = IndicatorInfo(in)
	}
	return out
}

// Calculate fetches bars for req and runs the named indicator on them. The
// returned error is always an *ErrorPayload.
func (d *Dispatcher) Calculate(ctx context.Context, req CalculateRequest) (*Response, error) {
	ctx, id := d.begin(ctx)
	resp, err := d.calculate(ctx, req)
	if err != nil {
		return nil, d.fail(ctx, err, slog.String("indicator", req.Indicator), slog.String("symbol", req.Symbol))
	}
	resp.RequestID = id
	d.log.Info("indicator calculated", append(logger.Attrs(ctx),
		slog.String("indicator", resp.Indicator),
		slog.String("symbol", resp.Symbol),
		slog.Int("points", len(resp.Points)))...)
	return resp, nil
}

func (d *Dispatcher) calculate(ctx context.Context, req CalculateRequest) (*Response, *ErrorPayload) {
	name := strings.TrimSpace(req.Indicator)
	if name == "" || strings.TrimSpace(req.Symbol) == "" {
		return nil, newPayload(CodeInvalidRequest, nil, "missing required parameters: indicator, symbol")
	}
	symbol, err := marketdata.NormalizeSymbol(req.Symbol)
	if err != nil {
		return nil, newPayload(CodeInvalidRequest, err, "%v", err)
	}
	ind, ok := d.suite.Get(name)
	if !ok {
		return nil, newPayload(CodeIndicatorNotFound, nil, "indicator not found: %s", name)
	}
	interval, count, perr := d.defaults(req.Interval, req.Count)
	if perr != nil {
		return nil, perr
	}
	if need := ind.MinDataPoints(); count < need {
		return nil, newPayload(CodeInsufficientData, nil,
			"%s needs at least %d bars, request asks for %d", name, need, count)
	}

	bars, perr := d.fetch(ctx, symbol, interval, count)
	if perr != nil {
		return nil, perr
	}
	points, perr := d.run(name, ind, bars)
	if perr != nil {
		return nil, perr
	}
	return &Response{
		Indicator: name,
		Symbol:    symbol,
		Interval:  interval,
		Points:    points,
	}, nil
}

// CalculateBars runs the named indicator on bars the caller already holds.
// The returned error is always an *ErrorPayload.
func (d *Dispatcher) CalculateBars(ctx context.Context, name string, bars []indicator.Bar) (*Response, error) {
	ctx, id := d.begin(ctx)
	ind, ok := d.suite.Get(name)
	if !ok {
		return nil, d.fail(ctx, newPayload(CodeIndicatorNotFound, nil, "indicator not found: %s", name),
			slog.String("indicator", name))
	}
	if err := indicator.ValidateBars(bars); err != nil {
		return nil, d.fail(ctx, newPayload(CodeInvalidRequest, err, "%v", err), slog.String("indicator", name))
	}
	points, perr := d.run(name, ind, bars)
	if perr != nil {
		return nil, d.fail(ctx, perr, slog.String("indicator", name))
	}
	return &Response{RequestID: id, Indicator: name, Points: points}, nil
}

// Fetch returns raw bars for req. The returned error is always an
// *ErrorPayload.
func (d *Dispatcher) Fetch(ctx context.Context, req FetchRequest) (*FetchResponse, error) {
	ctx, id := d.begin(ctx)
	if strings.TrimSpace(req.Symbol) == "" {
		return nil, d.fail(ctx, newPayload(CodeInvalidRequest, nil, "missing required parameter: symbol"))
	}
	symbol, err := marketdata.NormalizeSymbol(req.Symbol)
	if err != nil {
		return nil, d.fail(ctx, newPayload(CodeInvalidRequest, err, "%v", err))
	}
	interval, count, perr := d.defaults(req.Interval, req.Count)
	if perr != nil {
		return nil, d.fail(ctx, perr, slog.String("symbol", symbol))
	}
	bars, perr := d.fetch(ctx, symbol, interval, count)
	if perr != nil {
		return nil, d.fail(ctx, perr, slog.String("symbol", req.Symbol))
	}

	out := make([]BarOut, len(bars))
	for i, b := range bars {
		out[i] = BarOut{
			Timestamp: b.Timestamp.Unix(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}
	return &FetchResponse{RequestID: id, Symbol: symbol, Interval: interval, Bars: out}, nil
}

func (d *Dispatcher) begin(ctx context.Context) (context.Context, string) {
	id := logger.RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx = logger.WithRequestID(ctx, id)
	}
	return ctx, id
}

func (d *Dispatcher) fail(ctx context.Context, p *ErrorPayload, attrs ...any) error {
	d.metrics.ObserveError(p.Code)
	args := append(logger.Attrs(ctx), slog.String("code", p.Code), slog.String("err", p.Message))
	d.log.Warn("request failed", append(args, attrs...)...)
	return p
}

func (d *Dispatcher) defaults(interval string, count int) (string, int, *ErrorPayload) {
	if interval = strings.TrimSpace(interval); interval == "" {
		interval = d.interval
	}
	if count < 0 {
		return "", 0, newPayload(CodeInvalidRequest, nil, "count must be positive, got %d", count)
	}
	if count == 0 {
		count = d.count
	}
	return interval, count, nil
}

func (d *Dispatcher) fetch(ctx context.Context, symbol, interval string, count int) ([]indicator.Bar, *ErrorPayload) {
	start := d.now()
	bars, err := d.source.FetchLatest(ctx, symbol, interval, count)
	if err != nil {
		return nil, sourceFailure(err)
	}
	d.metrics.ObserveFetch(d.now().Sub(start), len(bars))
	return bars, nil
}

func (d *Dispatcher) run(name string, ind indicator.Indicator, bars []indicator.Bar) ([]Point, *ErrorPayload) {
	start := d.now()
	res, err := ind.Calculate(bars)
	d.metrics.ObserveCalculation(name, d.now().Sub(start), err)
	if err != nil {
		return nil, newPayload(codeForIndicator(err), err, "%v", err)
	}

	points := make([]Point, len(res.Values))
	for i, v := range res.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, newPayload(CodeCalculation, nil, "%s produced a non-finite value at %s",
				name, res.Timestamps[i].UTC().Format(time.RFC3339))
		}
		points[i] = Point{
			Timestamp: res.Timestamps[i].Unix(),
			Value:     d.round(v),
		}
	}
	return points, nil
}

// round applies the configured decimal precision. v must be finite.
func (d *Dispatcher) round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(d.precision).InexactFloat64()
}
