package volatility

import (
	"github.com/evdnx/goquant/indicator/core"
)

const DefaultATRPeriod = 14

// AverageTrueRange calculates the Average True Range (ATR).
//
// The first value is the mean of the first period true ranges (bars 1..period);
// later values use Wilder's average: atr = (atr*(period-1) + tr) / period.
type AverageTrueRange struct {
	period int
}

// NewAverageTrueRange creates an ATR calculator with the default period (14).
func NewAverageTrueRange() (*AverageTrueRange, error) {
	return NewAverageTrueRangeWithParams(DefaultATRPeriod)
}

// NewAverageTrueRangeWithParams creates an ATR calculator with a custom period.
func NewAverageTrueRangeWithParams(period int) (*AverageTrueRange, error) {
	if period < 1 {
		return nil, core.InvalidParameter("ATR", "period must be at least 1, got %d", period)
	}
	return &AverageTrueRange{period: period}, nil
}

func (atr *AverageTrueRange) Name() string { return "ATR" }
func (atr *AverageTrueRange) Period() int  { return atr.period }

// MinDataPoints is period+1 because the first true range needs a previous close.
func (atr *AverageTrueRange) MinDataPoints() int { return atr.period + 1 }

// Calculate returns len(bars)-period values; the first belongs to bar period.
func (atr *AverageTrueRange) Calculate(bars []core.Bar) (core.Result, error) {
	if err := core.RequireBars(atr, bars); err != nil {
		return core.Result{}, err
	}
	p := atr.period

	tr := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		tr[i-1] = core.TrueRange(bars[i], bars[i-1])
	}

	values := make([]float64, 0, len(tr)-p+1)
	cur := core.Mean(tr[:p])
	values = append(values, cur)
	for _, v := range tr[p:] {
		cur = core.WilderAverage(cur, v, p)
		values = append(values, cur)
	}
	return core.NewResult(atr.Name(), values, core.Timestamps(bars, p))
}
