// Package goquant is the top-level entry point of the indicator engine. It
// re-exports the pieces most callers need so a single import covers building
// indicators, running the registered suite and serving requests.
package goquant

import (
	"github.com/evdnx/goquant/config"
	"github.com/evdnx/goquant/dispatch"
	"github.com/evdnx/goquant/indicator"
	"github.com/evdnx/goquant/marketdata"
	"github.com/evdnx/goquant/suite"
)

// ---- Data model ----
type (
	Bar       = indicator.Bar
	Result    = indicator.Result
	PlotData  = indicator.PlotData
	Indicator = indicator.Indicator
)

var (
	ErrInvalidParameter = indicator.ErrInvalidParameter
	ErrInsufficientData = indicator.ErrInsufficientData
	ErrCalculation      = indicator.ErrCalculation
)

func FormatPlotDataJSON(data []PlotData) (string, error) {
	return indicator.FormatPlotDataJSON(data)
}

func FormatPlotDataCSV(data []PlotData) (string, error) {
	return indicator.FormatPlotDataCSV(data)
}

// ---- Configuration ----
type (
	IndicatorConfig = config.IndicatorConfig
	IndicatorSpec   = config.IndicatorSpec
)

func DefaultConfig() IndicatorConfig { return config.DefaultConfig() }

func LoadConfig(path string) (IndicatorConfig, error) { return config.Load(path) }

// NewIndicator builds one indicator from its registration entry.
func NewIndicator(spec IndicatorSpec) (Indicator, error) { return indicator.New(spec) }

// ---- Suite ----
type IndicatorSuite = suite.IndicatorSuite

func NewIndicatorSuite() (*suite.IndicatorSuite, error) {
	return suite.NewIndicatorSuite()
}

func NewIndicatorSuiteWithConfig(cfg IndicatorConfig) (*suite.IndicatorSuite, error) {
	return suite.NewIndicatorSuiteWithConfig(cfg)
}

// ---- Market data and dispatch ----
type (
	Source     = marketdata.Source
	Dispatcher = dispatch.Dispatcher
)

func NewHTTPSource(baseURL string) *marketdata.HTTPSource { return marketdata.NewHTTPSource(baseURL) }

func NewYahooSource() *marketdata.YahooSource { return marketdata.NewYahooSource() }

func NewCSVSource(path string) *marketdata.CSVSource { return marketdata.NewCSVSource(path) }

// NewDispatcher serves requests against src using cfg's registration table
// and defaults.
func NewDispatcher(cfg IndicatorConfig, src Source) (*dispatch.Dispatcher, error) {
	s, err := suite.NewIndicatorSuiteWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	return dispatch.New(s, src, dispatch.WithConfig(cfg)), nil
}
