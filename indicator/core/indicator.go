// Package core holds the bar and result model, the error taxonomy, the
// Indicator contract and the numeric helpers shared by every indicator.
package core

// Indicator is the capability every configured indicator instance offers.
//
// Implementations are immutable after construction and keep no state between
// calls, so one instance may be used concurrently on different bar slices.
// Calculate never modifies bars.
type Indicator interface {
	// Calculate runs the indicator over bars. It fails with
	// ErrInsufficientData when len(bars) < MinDataPoints().
	Calculate(bars []Bar) (Result, error)
	// MinDataPoints is the smallest bar count Calculate accepts.
	MinDataPoints() int
	// Name is the display name, e.g. "SMA" or "BollingerBands".
	Name() string
}

// RequireBars is the shared length check used by every Calculate method.
func RequireBars(ind Indicator, bars []Bar) error {
	if len(bars) < ind.MinDataPoints() {
		return InsufficientData(ind.Name(), ind.MinDataPoints(), len(bars))
	}
	return nil
}
