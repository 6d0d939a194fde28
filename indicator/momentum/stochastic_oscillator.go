package momentum

import (
	"time"

	"github.com/evdnx/goquant/indicator/core"
)

const (
	DefaultStochasticKPeriod    = 14
	DefaultStochasticDPeriod    = 3
	DefaultStochasticOverbought = 80.0
	DefaultStochasticOversold   = 20.0
)

// StochasticResult holds %K and %D trimmed to the bars where both exist.
type StochasticResult struct {
	KLine      []float64
	DLine      []float64
	Timestamps []time.Time
}

// ToResult surfaces %K as the primary series.
func (r StochasticResult) ToResult(name string) (core.Result, error) {
	return core.NewResult(name, r.KLine, r.Timestamps)
}

// PlotData returns plot-friendly data for %K and %D.
func (r StochasticResult) PlotData() []core.PlotData {
	if len(r.KLine) == 0 {
		return nil
	}
	return []core.PlotData{
		core.NewPlotData("%K", "line", r.KLine, r.Timestamps),
		core.NewPlotData("%D", "line", r.DLine, r.Timestamps),
	}
}

// StochasticOscillator implements a classic %K / %D stochastic oscillator.
// %K measures the current close relative to the recent high-low range, and
// %D is a moving average of %K.
type StochasticOscillator struct {
	kPeriod int
	dPeriod int
}

// NewStochasticOscillator builds a stochastic oscillator with 14/3 defaults.
func NewStochasticOscillator() (*StochasticOscillator, error) {
	return NewStochasticOscillatorWithParams(DefaultStochasticKPeriod, DefaultStochasticDPeriod)
}

// NewStochasticOscillatorWithParams builds a stochastic oscillator with custom
// %K and %D periods.
func NewStochasticOscillatorWithParams(kPeriod, dPeriod int) (*StochasticOscillator, error) {
	if kPeriod < 1 || dPeriod < 1 {
		return nil, core.InvalidParameter("StochasticOscillator",
			"periods must be at least 1, got %d/%d", kPeriod, dPeriod)
	}
	return &StochasticOscillator{kPeriod: kPeriod, dPeriod: dPeriod}, nil
}

func (s *StochasticOscillator) Name() string { return "StochasticOscillator" }

// Periods returns the %K and %D periods.
func (s *StochasticOscillator) Periods() (k, d int) { return s.kPeriod, s.dPeriod }

func (s *StochasticOscillator) MinDataPoints() int { return s.kPeriod + s.dPeriod }

// Calculate returns %K for every bar that also has a %D value.
func (s *StochasticOscillator) Calculate(bars []core.Bar) (core.Result, error) {
	full, err := s.CalculateFull(bars)
	if err != nil {
		return core.Result{}, err
	}
	return full.ToResult(s.Name())
}

// CalculateFull returns %K and %D aligned on the bar of each %D point.
func (s *StochasticOscillator) CalculateFull(bars []core.Bar) (StochasticResult, error) {
	if err := core.RequireBars(s, bars); err != nil {
		return StochasticResult{}, err
	}

	// k[j] belongs to bar kPeriod-1+j.
	k := make([]float64, 0, len(bars)-s.kPeriod+1)
	for end := s.kPeriod; end <= len(bars); end++ {
		k = append(k, percentK(bars[end-s.kPeriod:end]))
	}

	d := core.SimpleMovingAverage(k, s.dPeriod)
	if d == nil {
		return StochasticResult{}, core.InsufficientData(s.Name()+" %D stage", s.dPeriod, len(k))
	}

	start := s.dPeriod - 1
	return StochasticResult{
		KLine:      k[start:],
		DLine:      d,
		Timestamps: core.Timestamps(bars, s.kPeriod-1+start),
	}, nil
}

// Zone classifies a %K value against the 80/20 levels.
func (s *StochasticOscillator) Zone(value float64) string {
	switch {
	case value > DefaultStochasticOverbought:
		return ZoneOverbought
	case value < DefaultStochasticOversold:
		return ZoneOversold
	default:
		return ZoneNeutral
	}
}

func percentK(window []core.Bar) float64 {
	highest, lowest := core.HighLow(window)
	if highest == lowest {
		return 0
	}
	return 100 * (window[len(window)-1].Close - lowest) / (highest - lowest)
}
