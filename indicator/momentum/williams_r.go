package momentum

import (
	"github.com/evdnx/goquant/indicator/core"
)

const (
	DefaultWilliamsRPeriod     = 14
	DefaultWilliamsROverbought = -20.0
	DefaultWilliamsROversold   = -80.0
)

// WilliamsR reports where the close sits in the trailing high-low range,
// scaled to [-100, 0].
type WilliamsR struct {
	period int
}

// NewWilliamsR creates a Williams %R with the default 14-bar period.
func NewWilliamsR() (*WilliamsR, error) {
	return NewWilliamsRWithParams(DefaultWilliamsRPeriod)
}

// NewWilliamsRWithParams creates a Williams %R with a custom period.
func NewWilliamsRWithParams(period int) (*WilliamsR, error) {
	if period < 1 {
		return nil, core.InvalidParameter("WilliamsR", "period must be at least 1, got %d", period)
	}
	return &WilliamsR{period: period}, nil
}

func (w *WilliamsR) Name() string       { return "WilliamsR" }
func (w *WilliamsR) Period() int        { return w.period }
func (w *WilliamsR) MinDataPoints() int { return w.period }

// Calculate returns one value per full window starting at bar period-1.
// A flat window yields 0.
func (w *WilliamsR) Calculate(bars []core.Bar) (core.Result, error) {
	if err := core.RequireBars(w, bars); err != nil {
		return core.Result{}, err
	}
	out := make([]float64, 0, len(bars)-w.period+1)
	for end := w.period; end <= len(bars); end++ {
		window := bars[end-w.period : end]
		hh, ll := core.HighLow(window)
		if hh == ll {
			out = append(out, 0)
			continue
		}
		out = append(out, -100*(hh-window[len(window)-1].Close)/(hh-ll))
	}
	return core.NewResult(w.Name(), out, core.Timestamps(bars, w.period-1))
}

// Zone classifies a %R value against the -20/-80 levels.
func (w *WilliamsR) Zone(value float64) string {
	switch {
	case value > DefaultWilliamsROverbought:
		return ZoneOverbought
	case value < DefaultWilliamsROversold:
		return ZoneOversold
	default:
		return ZoneNeutral
	}
}
