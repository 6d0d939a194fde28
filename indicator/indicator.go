package indicator

import (
	"fmt"
	"time"

	"github.com/evdnx/goquant/config"
	"github.com/evdnx/goquant/indicator/core"
	"github.com/evdnx/goquant/indicator/momentum"
	"github.com/evdnx/goquant/indicator/trend"
	"github.com/evdnx/goquant/indicator/volatility"
	"github.com/evdnx/goquant/indicator/volume"
)

// ---- Shared data model ----
type (
	Indicator      = core.Indicator
	Bar            = core.Bar
	Result         = core.Result
	PlotData       = core.PlotData
	ErrorKind      = core.ErrorKind
	IndicatorError = core.IndicatorError
)

const (
	KindInvalidParameter = core.KindInvalidParameter
	KindInsufficientData = core.KindInsufficientData
	KindCalculation      = core.KindCalculation
)

var (
	ErrInvalidParameter = core.ErrInvalidParameter
	ErrInsufficientData = core.ErrInsufficientData
	ErrCalculation      = core.ErrCalculation
)

func KindOf(err error) (ErrorKind, bool) { return core.KindOf(err) }

func ValidateBars(bars []Bar) error { return core.ValidateBars(bars) }

func NewPlotData(name, plotType string, values []float64, timestamps []time.Time) PlotData {
	return core.NewPlotData(name, plotType, values, timestamps)
}

func FormatPlotDataJSON(data []PlotData) (string, error) {
	return core.FormatPlotDataJSON(data)
}

func FormatPlotDataCSV(data []PlotData) (string, error) {
	return core.FormatPlotDataCSV(data)
}

// ---- Trend indicators ----
type (
	SimpleMovingAverage      = trend.SimpleMovingAverage
	ExponentialMovingAverage = trend.ExponentialMovingAverage
	AverageDirectionalIndex  = trend.AverageDirectionalIndex
	ADXResult                = trend.ADXResult
)

func NewSimpleMovingAverage(period int) (*trend.SimpleMovingAverage, error) {
	return trend.NewSimpleMovingAverageWithParams(period)
}

func NewExponentialMovingAverage(period int) (*trend.ExponentialMovingAverage, error) {
	return trend.NewExponentialMovingAverageWithParams(period)
}

func NewAverageDirectionalIndex(period int) (*trend.AverageDirectionalIndex, error) {
	return trend.NewAverageDirectionalIndexWithParams(period)
}

// ---- Momentum indicators ----
type (
	RelativeStrengthIndex = momentum.RelativeStrengthIndex
	MACD                  = momentum.MACD
	MACDResult            = momentum.MACDResult
	CommodityChannelIndex = momentum.CommodityChannelIndex
	WilliamsR             = momentum.WilliamsR
	StochasticOscillator  = momentum.StochasticOscillator
	StochasticResult      = momentum.StochasticResult
)

func NewRelativeStrengthIndex(period int) (*momentum.RelativeStrengthIndex, error) {
	return momentum.NewRelativeStrengthIndexWithParams(period)
}

func NewMACD(fast, slow, signal int) (*momentum.MACD, error) {
	return momentum.NewMACDWithParams(fast, slow, signal)
}

func NewCommodityChannelIndex(period int) (*momentum.CommodityChannelIndex, error) {
	return momentum.NewCommodityChannelIndexWithParams(period)
}

func NewWilliamsR(period int) (*momentum.WilliamsR, error) {
	return momentum.NewWilliamsRWithParams(period)
}

func NewStochasticOscillator(kPeriod, dPeriod int) (*momentum.StochasticOscillator, error) {
	return momentum.NewStochasticOscillatorWithParams(kPeriod, dPeriod)
}

// ---- Volatility indicators ----
type (
	AverageTrueRange     = volatility.AverageTrueRange
	BollingerBands       = volatility.BollingerBands
	BollingerBandsResult = volatility.BollingerBandsResult
)

func NewAverageTrueRange(period int) (*volatility.AverageTrueRange, error) {
	return volatility.NewAverageTrueRangeWithParams(period)
}

func NewBollingerBands(period int, multiplier float64) (*volatility.BollingerBands, error) {
	return volatility.NewBollingerBandsWithParams(period, multiplier)
}

// ---- Volume indicators ----
type OnBalanceVolume = volume.OnBalanceVolume

func NewOnBalanceVolume() (*volume.OnBalanceVolume, error) {
	return volume.NewOnBalanceVolume()
}

// ---- Factory ----

// New builds the indicator described by spec. Zero-valued parameters take the
// indicator's default; an explicitly invalid one (negative period, fast >=
// slow, non-positive multiplier) fails with ErrInvalidParameter.
func New(spec IndicatorSpec) (Indicator, error) {
	switch spec.Type {
	case config.TypeSMA:
		return build(trend.NewSimpleMovingAverageWithParams(or(spec.Period, trend.DefaultSMAPeriod)))
	case config.TypeEMA:
		return build(trend.NewExponentialMovingAverageWithParams(or(spec.Period, trend.DefaultEMAPeriod)))
	case config.TypeADX:
		return build(trend.NewAverageDirectionalIndexWithParams(or(spec.Period, trend.DefaultADXPeriod)))
	case config.TypeRSI:
		return build(momentum.NewRelativeStrengthIndexWithParams(or(spec.Period, momentum.DefaultRSIPeriod)))
	case config.TypeMACD:
		return build(momentum.NewMACDWithParams(
			or(spec.FastPeriod, momentum.DefaultMACDFastPeriod),
			or(spec.SlowPeriod, momentum.DefaultMACDSlowPeriod),
			or(spec.SignalPeriod, momentum.DefaultMACDSignalPeriod),
		))
	case config.TypeCCI:
		return build(momentum.NewCommodityChannelIndexWithParams(or(spec.Period, momentum.DefaultCCIPeriod)))
	case config.TypeWilliamsR:
		return build(momentum.NewWilliamsRWithParams(or(spec.Period, momentum.DefaultWilliamsRPeriod)))
	case config.TypeStochastic:
		return build(momentum.NewStochasticOscillatorWithParams(
			or(spec.KPeriod, momentum.DefaultStochasticKPeriod),
			or(spec.DPeriod, momentum.DefaultStochasticDPeriod),
		))
	case config.TypeATR:
		return build(volatility.NewAverageTrueRangeWithParams(or(spec.Period, volatility.DefaultATRPeriod)))
	case config.TypeBollinger:
		mult := spec.StdDev
		if mult == 0 {
			mult = volatility.DefaultBollingerMultiplier
		}
		return build(volatility.NewBollingerBandsWithParams(or(spec.Period, volatility.DefaultBollingerPeriod), mult))
	case config.TypeOBV:
		return build(volume.NewOnBalanceVolume())
	default:
		return nil, core.InvalidParameter(spec.Name, "unknown indicator type %q", spec.Type)
	}
}

// MustNew is like New but panics on error. Intended for package-level tables.
func MustNew(spec IndicatorSpec) Indicator {
	ind, err := New(spec)
	if err != nil {
		panic(fmt.Sprintf("indicator %s: %v", spec.Name, err))
	}
	return ind
}

// build drops the typed nil a failed constructor returns.
func build[T Indicator](ind T, err error) (Indicator, error) {
	if err != nil {
		return nil, err
	}
	return ind, nil
}

func or(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
