package trend

import (
	"github.com/evdnx/goquant/indicator/core"
)

const DefaultEMAPeriod = 20

// ExponentialMovingAverage seeds with the SMA of the first period closes and
// then smooths with multiplier 2/(period+1).
type ExponentialMovingAverage struct {
	period int
}

// NewExponentialMovingAverage creates an EMA with the default 20-bar period.
func NewExponentialMovingAverage() (*ExponentialMovingAverage, error) {
	return NewExponentialMovingAverageWithParams(DefaultEMAPeriod)
}

// NewExponentialMovingAverageWithParams creates an EMA with a custom period.
func NewExponentialMovingAverageWithParams(period int) (*ExponentialMovingAverage, error) {
	if period < 1 {
		return nil, core.InvalidParameter("EMA", "period must be at least 1, got %d", period)
	}
	return &ExponentialMovingAverage{period: period}, nil
}

func (e *ExponentialMovingAverage) Name() string       { return "EMA" }
func (e *ExponentialMovingAverage) Period() int        { return e.period }
func (e *ExponentialMovingAverage) MinDataPoints() int { return e.period }

// Multiplier returns the smoothing factor 2/(period+1).
func (e *ExponentialMovingAverage) Multiplier() float64 {
	return core.EMASmoothingFactor(e.period)
}

// Calculate returns len(bars)-period+1 values; the first (the SMA seed)
// belongs to bar period-1.
func (e *ExponentialMovingAverage) Calculate(bars []core.Bar) (core.Result, error) {
	if err := core.RequireBars(e, bars); err != nil {
		return core.Result{}, err
	}
	values := core.ExponentialMovingAverage(core.Closes(bars), e.period)
	return core.NewResult(e.Name(), values, core.Timestamps(bars, e.period-1))
}
