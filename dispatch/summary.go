package dispatch

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/evdnx/goquant/internal/logger"
	"github.com/evdnx/goquant/marketdata"
)

// Summarize fetches bars once and runs every registered indicator on them.
// Indicators that fail are listed in Failed and do not vote. The returned
// error is always an *ErrorPayload.
func (d *Dispatcher) Summarize(ctx context.Context, req FetchRequest) (*SummaryResponse, error) {
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
		return nil, d.fail(ctx, perr, slog.String("symbol", symbol))
	}

	outcomes := d.suite.CalculateAll(ctx, bars)
	if err := ctx.Err(); err != nil {
		return nil, d.fail(ctx, cancelled(err), slog.String("symbol", symbol))
	}

	resp := &SummaryResponse{
		RequestID: id,
		Symbol:    symbol,
		Interval:  interval,
		Latest:    make(map[string]float64, len(outcomes)),
	}
	for name, o := range outcomes {
		d.metrics.ObserveCalculation(name, o.Elapsed, o.Err)
		if o.Err != nil {
			if resp.Failed == nil {
				resp.Failed = make(map[string]string)
			}
			resp.Failed[name] = codeForIndicator(o.Err)
			continue
		}
		if v, _, ok := o.Result.Last(); ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
			resp.Latest[name] = d.round(v)
		}
	}

	sig := d.suite.CombinedSignal(outcomes)
	resp.Signal = sig.Label
	resp.Bullish = sig.Bullish
	resp.Bearish = sig.Bearish
	resp.Contributors = sig.Contributors

	d.log.Info("summary calculated", append(logger.Attrs(ctx),
		slog.String("symbol", symbol),
		slog.String("signal", sig.Label),
		slog.Int("failed", len(resp.Failed)))...)
	return resp, nil
}
