package volume

import (
	"github.com/evdnx/goquant/indicator/core"
)

// OnBalanceVolume accumulates volume by close direction: a higher close adds
// the bar's volume, a lower close subtracts it and an unchanged close carries
// the previous total. The series is seeded at 0 on the first bar.
type OnBalanceVolume struct{}

// NewOnBalanceVolume returns an OBV indicator. OBV has no parameters, so the
// error is always nil; it is returned to match the other constructors.
func NewOnBalanceVolume() (*OnBalanceVolume, error) {
	return &OnBalanceVolume{}, nil
}

func (o *OnBalanceVolume) Name() string       { return "OBV" }
func (o *OnBalanceVolume) MinDataPoints() int { return 2 }

// Calculate returns one value per bar.
func (o *OnBalanceVolume) Calculate(bars []core.Bar) (core.Result, error) {
	if err := core.RequireBars(o, bars); err != nil {
		return core.Result{}, err
	}
	values := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			values[i] = values[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			values[i] = values[i-1] - bars[i].Volume
		default:
			values[i] = values[i-1]
		}
	}
	return core.NewResult(o.Name(), values, core.Timestamps(bars, 0))
}
