package core

import (
	"errors"
	"fmt"
	"time"
)

// Bar is one interval's open/high/low/close/volume observation.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// TypicalPrice returns (high+low+close)/3.
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// Closes extracts the closing prices of bars.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// TypicalPrices extracts the typical price of every bar.
func TypicalPrices(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.TypicalPrice()
	}
	return out
}

// Timestamps returns the timestamps of bars[from:].
func Timestamps(bars []Bar, from int) []time.Time {
	if from >= len(bars) {
		return []time.Time{}
	}
	out := make([]time.Time, 0, len(bars)-from)
	for _, b := range bars[from:] {
		out = append(out, b.Timestamp)
	}
	return out
}

// ErrInvalidBars is returned by ValidateBars.
var ErrInvalidBars = errors.New("invalid bar sequence")

// ValidateBars checks what a data source must guarantee before handing bars
// to an indicator: a non-empty sequence, non-decreasing timestamps, finite
// non-negative prices, high >= low and a non-negative volume.
// Indicators themselves never call it.
func ValidateBars(bars []Bar) error {
	if len(bars) == 0 {
		return fmt.Errorf("%w: empty sequence", ErrInvalidBars)
	}
	for i, b := range bars {
		if !isNonNegativePrice(b.Open) || !isNonNegativePrice(b.High) ||
			!isNonNegativePrice(b.Low) || !isNonNegativePrice(b.Close) {
			return fmt.Errorf("%w: bar %d has an invalid price", ErrInvalidBars, i)
		}
		if b.High < b.Low {
			return fmt.Errorf("%w: bar %d has high %.4f below low %.4f", ErrInvalidBars, i, b.High, b.Low)
		}
		if !isValidVolume(b.Volume) {
			return fmt.Errorf("%w: bar %d has invalid volume %f", ErrInvalidBars, i, b.Volume)
		}
		if i > 0 && b.Timestamp.Before(bars[i-1].Timestamp) {
			return fmt.Errorf("%w: bar %d is older than bar %d", ErrInvalidBars, i, i-1)
		}
	}
	return nil
}
