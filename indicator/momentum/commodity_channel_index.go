package momentum

import (
	"github.com/evdnx/goquant/indicator/core"
)

const (
	DefaultCCIPeriod     = 20
	DefaultCCIOverbought = 100.0
	DefaultCCIOversold   = -100.0
	cciConstant          = 0.015
)

// CommodityChannelIndex implements the CCI indicator.
// It uses typical price [(H+L+C)/3], a simple moving average of typical prices,
// and the mean deviation around that average.
type CommodityChannelIndex struct {
	period int
}

// NewCommodityChannelIndex builds a CCI with the default 20-period window.
func NewCommodityChannelIndex() (*CommodityChannelIndex, error) {
	return NewCommodityChannelIndexWithParams(DefaultCCIPeriod)
}

// NewCommodityChannelIndexWithParams allows a custom period.
func NewCommodityChannelIndexWithParams(period int) (*CommodityChannelIndex, error) {
	if period < 1 {
		return nil, core.InvalidParameter("CCI", "period must be at least 1, got %d", period)
	}
	return &CommodityChannelIndex{period: period}, nil
}

func (c *CommodityChannelIndex) Name() string       { return "CCI" }
func (c *CommodityChannelIndex) Period() int        { return c.period }
func (c *CommodityChannelIndex) MinDataPoints() int { return c.period }

// Calculate returns one CCI value per full window, starting at bar period-1.
// A window with zero mean deviation yields 0.
func (c *CommodityChannelIndex) Calculate(bars []core.Bar) (core.Result, error) {
	if err := core.RequireBars(c, bars); err != nil {
		return core.Result{}, err
	}
	tp := core.TypicalPrices(bars)
	out := make([]float64, 0, len(tp)-c.period+1)
	for end := c.period; end <= len(tp); end++ {
		out = append(out, cci(tp[end-c.period:end]))
	}
	return core.NewResult(c.Name(), out, core.Timestamps(bars, c.period-1))
}

// Zone classifies a CCI value against the ±100 thresholds.
func (c *CommodityChannelIndex) Zone(value float64) string {
	switch {
	case value > DefaultCCIOverbought:
		return ZoneOverbought
	case value < DefaultCCIOversold:
		return ZoneOversold
	default:
		return ZoneNeutral
	}
}

func cci(window []float64) float64 {
	ma := core.Mean(window)
	meanDev := core.MeanAbsDeviation(window, ma)
	if meanDev == 0 {
		return 0
	}
	return (window[len(window)-1] - ma) / (cciConstant * meanDev)
}
