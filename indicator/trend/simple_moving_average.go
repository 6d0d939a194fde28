package trend

import (
	"github.com/evdnx/goquant/indicator/core"
)

const DefaultSMAPeriod = 20

// SimpleMovingAverage is the arithmetic mean of the trailing period closes.
type SimpleMovingAverage struct {
	period int
}

// NewSimpleMovingAverage creates an SMA with the default 20-bar period.
func NewSimpleMovingAverage() (*SimpleMovingAverage, error) {
	return NewSimpleMovingAverageWithParams(DefaultSMAPeriod)
}

// NewSimpleMovingAverageWithParams creates an SMA with a custom period.
func NewSimpleMovingAverageWithParams(period int) (*SimpleMovingAverage, error) {
	if period < 1 {
		return nil, core.InvalidParameter("SMA", "period must be at least 1, got %d", period)
	}
	return &SimpleMovingAverage{period: period}, nil
}

func (s *SimpleMovingAverage) Name() string       { return "SMA" }
func (s *SimpleMovingAverage) Period() int        { return s.period }
func (s *SimpleMovingAverage) MinDataPoints() int { return s.period }

// Calculate returns len(bars)-period+1 values; the first belongs to bar period-1.
func (s *SimpleMovingAverage) Calculate(bars []core.Bar) (core.Result, error) {
	if err := core.RequireBars(s, bars); err != nil {
		return core.Result{}, err
	}
	values := core.SimpleMovingAverage(core.Closes(bars), s.period)
	return core.NewResult(s.Name(), values, core.Timestamps(bars, s.period-1))
}
