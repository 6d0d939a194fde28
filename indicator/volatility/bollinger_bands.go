package volatility

import (
	"time"

	"github.com/evdnx/goquant/indicator/core"
	"github.com/evdnx/goquant/indicator/trend"
)

const (
	DefaultBollingerPeriod     = 20
	DefaultBollingerMultiplier = 2.0
)

// BollingerBandsResult holds the three bands aligned on Timestamps.
type BollingerBandsResult struct {
	Upper      []float64
	Middle     []float64
	Lower      []float64
	Timestamps []time.Time
}

// ToResult surfaces the middle band as the primary series.
func (r BollingerBandsResult) ToResult(name string) (core.Result, error) {
	return core.NewResult(name, r.Middle, r.Timestamps)
}

// PlotData returns plot-friendly data for the three bands.
func (r BollingerBandsResult) PlotData() []core.PlotData {
	if len(r.Middle) == 0 {
		return nil
	}
	return []core.PlotData{
		core.NewPlotData("Upper Band", "line", r.Upper, r.Timestamps),
		core.NewPlotData("Middle Band", "line", r.Middle, r.Timestamps),
		core.NewPlotData("Lower Band", "line", r.Lower, r.Timestamps),
	}
}

// BollingerBands calculates upper/middle/lower bands based on a moving average
// and the population standard deviation of closing prices.
type BollingerBands struct {
	period     int
	multiplier float64
}

// NewBollingerBands creates a Bollinger Bands calculator with default settings.
func NewBollingerBands() (*BollingerBands, error) {
	return NewBollingerBandsWithParams(DefaultBollingerPeriod, DefaultBollingerMultiplier)
}

// NewBollingerBandsWithParams creates a Bollinger Bands calculator with custom
// period and multiplier.
func NewBollingerBandsWithParams(period int, multiplier float64) (*BollingerBands, error) {
	if period < 1 {
		return nil, core.InvalidParameter("BollingerBands", "period must be at least 1, got %d", period)
	}
	if !(multiplier > 0) || !core.IsFinite(multiplier) {
		return nil, core.InvalidParameter("BollingerBands", "multiplier must be positive, got %g", multiplier)
	}
	return &BollingerBands{period: period, multiplier: multiplier}, nil
}

func (b *BollingerBands) Name() string        { return "BollingerBands" }
func (b *BollingerBands) Period() int         { return b.period }
func (b *BollingerBands) Multiplier() float64 { return b.multiplier }
func (b *BollingerBands) MinDataPoints() int  { return b.period }

// Calculate returns the middle band.
func (b *BollingerBands) Calculate(bars []core.Bar) (core.Result, error) {
	full, err := b.CalculateFull(bars)
	if err != nil {
		return core.Result{}, err
	}
	return full.ToResult(b.Name())
}

// CalculateFull returns all three bands, starting at bar period-1.
func (b *BollingerBands) CalculateFull(bars []core.Bar) (BollingerBandsResult, error) {
	if err := core.RequireBars(b, bars); err != nil {
		return BollingerBandsResult{}, err
	}

	sma, err := trend.NewSimpleMovingAverageWithParams(b.period)
	if err != nil {
		return BollingerBandsResult{}, core.CalculationFailed(b.Name(), "middle band", err)
	}
	middle, err := sma.Calculate(bars)
	if err != nil {
		return BollingerBandsResult{}, core.CalculationFailed(b.Name(), "middle band", err)
	}

	closes := core.Closes(bars)
	upper := make([]float64, middle.Len())
	lower := make([]float64, middle.Len())
	for i, mean := range middle.Values {
		width := b.multiplier * core.PopulationStdDev(closes[i:i+b.period], mean)
		upper[i] = mean + width
		lower[i] = mean - width
	}
	return BollingerBandsResult{
		Upper:      upper,
		Middle:     middle.Values,
		Lower:      lower,
		Timestamps: middle.Timestamps,
	}, nil
}

// PercentB reports where price sits relative to the bands at index i
// (0 = lower band, 1 = upper band). Flat bands yield 0.5. ok is false when i
// is out of range.
func (r BollingerBandsResult) PercentB(price float64, i int) (float64, bool) {
	if !r.inRange(i) {
		return 0, false
	}
	width := r.Upper[i] - r.Lower[i]
	if width == 0 {
		return 0.5, true
	}
	return (price - r.Lower[i]) / width, true
}

// Bandwidth is (upper-lower)/middle at index i, or 0 when middle is 0. ok is
// false when i is out of range.
func (r BollingerBandsResult) Bandwidth(i int) (float64, bool) {
	if !r.inRange(i) {
		return 0, false
	}
	if r.Middle[i] == 0 {
		return 0, true
	}
	return (r.Upper[i] - r.Lower[i]) / r.Middle[i], true
}

func (r BollingerBandsResult) inRange(i int) bool {
	return i >= 0 && i < len(r.Middle) && i < len(r.Upper) && i < len(r.Lower)
}
