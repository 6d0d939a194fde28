package suite

import (
	"sort"

	"github.com/evdnx/goquant/config"
	"github.com/evdnx/goquant/indicator"
	"github.com/evdnx/goquant/indicator/momentum"
)

// Signal labels.
const (
	SignalStrongBullish = "Strong Bullish"
	SignalBullish       = "Bullish"
	SignalWeakBullish   = "Weak Bullish"
	SignalNeutral       = "Neutral"
	SignalWeakBearish   = "Weak Bearish"
	SignalBearish       = "Bearish"
	SignalStrongBearish = "Strong Bearish"
)

// Per-type vote weights. Types without an entry do not vote.
var signalWeights = map[string]float64{
	config.TypeRSI:        1.0,
	config.TypeStochastic: 1.0,
	config.TypeMACD:       1.5,
	config.TypeCCI:        0.8,
	config.TypeWilliamsR:  0.8,
}

// Summary is the combined read of the latest oscillator values.
type Summary struct {
	Label        string
	Bullish      float64
	Bearish      float64
	Contributors []string // names that voted, sorted
}

// CombinedSignal aggregates the last value of every successful oscillator
// outcome into a weighted bullish/bearish label. Oversold oscillators and a
// positive MACD line vote bullish; overbought ones and a negative MACD line
// vote bearish. At least two voters on the winning side are required before a
// directional label is emitted.
func (s *IndicatorSuite) CombinedSignal(outcomes map[string]Outcome) Summary {
	var (
		sum            Summary
		bulls, bears   int
		contributorSet []string
	)
	for name, o := range outcomes {
		if o.Err != nil {
			continue
		}
		e, ok := s.entries[name]
		if !ok {
			continue
		}
		w, ok := signalWeights[e.spec.Type]
		if !ok {
			continue
		}
		v, _, ok := o.Result.Last()
		if !ok {
			continue
		}
		switch vote(e.spec.Type, e.ind, v) {
		case 1:
			sum.Bullish += w
			bulls++
		case -1:
			sum.Bearish += w
			bears++
		default:
			continue
		}
		contributorSet = append(contributorSet, name)
	}
	sort.Strings(contributorSet)
	sum.Contributors = contributorSet

	switch {
	case sum.Bullish > sum.Bearish && bulls >= 2:
		sum.Label = grade(sum.Bullish-sum.Bearish, SignalStrongBullish, SignalBullish, SignalWeakBullish)
	case sum.Bearish > sum.Bullish && bears >= 2:
		sum.Label = grade(sum.Bearish-sum.Bullish, SignalStrongBearish, SignalBearish, SignalWeakBearish)
	default:
		sum.Label = SignalNeutral
	}
	return sum
}

func grade(edge float64, strong, normal, weak string) string {
	switch {
	case edge >= 2.5:
		return strong
	case edge >= 1.5:
		return normal
	default:
		return weak
	}
}

// zoner is implemented by oscillators that classify their own readings.
type zoner interface {
	Zone(value float64) string
}

// vote returns 1 for bullish, -1 for bearish and 0 for no opinion.
func vote(typ string, ind indicator.Indicator, v float64) int {
	if typ == config.TypeMACD {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	}
	z, ok := ind.(zoner)
	if !ok {
		return 0
	}
	switch z.Zone(v) {
	case momentum.ZoneOversold:
		return 1
	case momentum.ZoneOverbought:
		return -1
	}
	return 0
}
