package momentum

import (
	"github.com/evdnx/goquant/indicator/core"
)

const (
	DefaultRSIPeriod     = 14
	DefaultRSIOverbought = 70.0
	DefaultRSIOversold   = 30.0
)

// RelativeStrengthIndex follows J. Wilder's formulation:
//   - the first value uses simple averages of the gains and losses of the
//     first period deltas;
//   - every later value folds the single most recent gain/loss into the
//     averages with avg = (avg*(period-1) + x) / period.
//
// When the average loss is zero the RSI is pinned to 100.
type RelativeStrengthIndex struct {
	period int
}

// NewRelativeStrengthIndex creates an RSI with the default 14-bar period.
func NewRelativeStrengthIndex() (*RelativeStrengthIndex, error) {
	return NewRelativeStrengthIndexWithParams(DefaultRSIPeriod)
}

// NewRelativeStrengthIndexWithParams creates an RSI with a custom period.
func NewRelativeStrengthIndexWithParams(period int) (*RelativeStrengthIndex, error) {
	if period < 1 {
		return nil, core.InvalidParameter("RSI", "period must be at least 1, got %d", period)
	}
	return &RelativeStrengthIndex{period: period}, nil
}

func (rsi *RelativeStrengthIndex) Name() string { return "RSI" }
func (rsi *RelativeStrengthIndex) Period() int  { return rsi.period }

// MinDataPoints is period+1: the first value needs period deltas.
func (rsi *RelativeStrengthIndex) MinDataPoints() int { return rsi.period + 1 }

// Calculate returns len(bars)-period values; the first belongs to bar period.
func (rsi *RelativeStrengthIndex) Calculate(bars []core.Bar) (core.Result, error) {
	if err := core.RequireBars(rsi, bars); err != nil {
		return core.Result{}, err
	}
	p := rsi.period

	gains := make([]float64, len(bars)-1)
	losses := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		diff := bars[i].Close - bars[i-1].Close
		if diff > 0 {
			gains[i-1] = diff
		} else if diff < 0 {
			losses[i-1] = -diff
		}
	}

	values := make([]float64, 0, len(gains)-p+1)
	avgGain := core.Mean(gains[:p])
	avgLoss := core.Mean(losses[:p])
	values = append(values, rsiFromAverages(avgGain, avgLoss))
	for i := p; i < len(gains); i++ {
		avgGain = core.WilderAverage(avgGain, gains[i], p)
		avgLoss = core.WilderAverage(avgLoss, losses[i], p)
		values = append(values, rsiFromAverages(avgGain, avgLoss))
	}
	return core.NewResult(rsi.Name(), values, core.Timestamps(bars, p))
}

// Zone classifies an RSI reading against the conventional 70/30 levels.
func (rsi *RelativeStrengthIndex) Zone(value float64) string {
	switch {
	case value > DefaultRSIOverbought:
		return ZoneOverbought
	case value < DefaultRSIOversold:
		return ZoneOversold
	default:
		return ZoneNeutral
	}
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
