package momentum

import (
	"fmt"
	"time"

	"github.com/evdnx/goquant/indicator/core"
	"github.com/evdnx/goquant/indicator/trend"
)

const (
	DefaultMACDFastPeriod   = 12
	DefaultMACDSlowPeriod   = 26
	DefaultMACDSignalPeriod = 9
)

// MACDResult holds the MACD line (fast EMA - slow EMA), the signal line (EMA
// of the MACD line) and the histogram (MACD - signal), aligned on Timestamps.
type MACDResult struct {
	MACDLine   []float64
	SignalLine []float64
	Histogram  []float64
	Timestamps []time.Time
}

// ToResult surfaces the MACD line as the primary series.
func (r MACDResult) ToResult(name string) (core.Result, error) {
	return core.NewResult(name, r.MACDLine, r.Timestamps)
}

// PlotData returns plot-friendly data for the MACD, signal, and histogram.
func (r MACDResult) PlotData() []core.PlotData {
	if len(r.MACDLine) == 0 {
		return nil
	}
	return []core.PlotData{
		core.NewPlotData("MACD", "line", r.MACDLine, r.Timestamps),
		core.NewPlotData("Signal", "line", r.SignalLine, r.Timestamps),
		core.NewPlotData("Histogram", "bar", r.Histogram, r.Timestamps),
	}
}

// MACD implements the Moving Average Convergence Divergence indicator.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a MACD with the standard 12/26/9 periods.
func NewMACD() (*MACD, error) {
	return NewMACDWithParams(DefaultMACDFastPeriod, DefaultMACDSlowPeriod, DefaultMACDSignalPeriod)
}

// NewMACDWithParams creates a MACD with custom fast/slow/signal periods.
func NewMACDWithParams(fastPeriod, slowPeriod, signalPeriod int) (*MACD, error) {
	if fastPeriod < 1 || slowPeriod < 1 || signalPeriod < 1 {
		return nil, core.InvalidParameter("MACD", "periods must be at least 1, got %d/%d/%d",
			fastPeriod, slowPeriod, signalPeriod)
	}
	if fastPeriod >= slowPeriod {
		return nil, core.InvalidParameter("MACD", "fast period %d must be less than slow period %d",
			fastPeriod, slowPeriod)
	}
	return &MACD{
		fastPeriod:   fastPeriod,
		slowPeriod:   slowPeriod,
		signalPeriod: signalPeriod,
	}, nil
}

func (m *MACD) Name() string { return "MACD" }

// Periods returns the fast, slow and signal periods.
func (m *MACD) Periods() (fast, slow, signal int) {
	return m.fastPeriod, m.slowPeriod, m.signalPeriod
}

func (m *MACD) MinDataPoints() int { return m.slowPeriod + m.signalPeriod }

// Calculate returns the MACD line starting at the first bar with a signal value.
func (m *MACD) Calculate(bars []core.Bar) (core.Result, error) {
	full, err := m.CalculateFull(bars)
	if err != nil {
		return core.Result{}, err
	}
	return full.ToResult(m.Name())
}

// CalculateFull returns the MACD line, signal line and histogram.
func (m *MACD) CalculateFull(bars []core.Bar) (MACDResult, error) {
	if err := core.RequireBars(m, bars); err != nil {
		return MACDResult{}, err
	}

	fast, err := m.ema(m.fastPeriod, bars)
	if err != nil {
		return MACDResult{}, core.CalculationFailed(m.Name(), "fast EMA", err)
	}
	slow, err := m.ema(m.slowPeriod, bars)
	if err != nil {
		return MACDResult{}, core.CalculationFailed(m.Name(), "slow EMA", err)
	}

	// The slow EMA starts slow-fast bars after the fast one.
	offset := m.slowPeriod - m.fastPeriod
	if len(fast.Values)-offset != len(slow.Values) {
		return MACDResult{}, core.CalculationFailed(m.Name(), "EMA alignment",
			fmt.Errorf("fast series has %d points, slow has %d, offset %d",
				len(fast.Values), len(slow.Values), offset))
	}
	line := make([]float64, len(slow.Values))
	for i := range slow.Values {
		if !fast.Timestamps[i+offset].Equal(slow.Timestamps[i]) {
			return MACDResult{}, core.CalculationFailed(m.Name(), "EMA alignment",
				fmt.Errorf("timestamps diverge at index %d", i))
		}
		line[i] = fast.Values[i+offset] - slow.Values[i]
	}

	if len(line) < m.signalPeriod {
		return MACDResult{}, core.InsufficientData(m.Name()+" signal stage", m.signalPeriod, len(line))
	}
	signal := core.ExponentialMovingAverage(line, m.signalPeriod)

	start := m.signalPeriod - 1
	macdLine := line[start:]
	histogram := make([]float64, len(signal))
	for i := range signal {
		histogram[i] = macdLine[i] - signal[i]
	}
	return MACDResult{
		MACDLine:   macdLine,
		SignalLine: signal,
		Histogram:  histogram,
		Timestamps: slow.Timestamps[start:],
	}, nil
}

func (m *MACD) ema(period int, bars []core.Bar) (core.Result, error) {
	ema, err := trend.NewExponentialMovingAverageWithParams(period)
	if err != nil {
		return core.Result{}, err
	}
	return ema.Calculate(bars)
}
