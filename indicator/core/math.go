package core

import (
	"math"
)

// -----------------------------------------------------------------------------
// Generic helpers
// -----------------------------------------------------------------------------

// KeepLast returns the last n elements of s, or all of s when it is shorter.
func KeepLast[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}

func copySlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}

// CopySlice exposes the defensive copy helper to other packages.
func CopySlice[T any](src []T) []T {
	return copySlice(src)
}

/* -------------------------------------------------------------------------
   Window statistics
--------------------------------------------------------------------------*/

// Mean returns the arithmetic mean of data, or 0 for an empty slice.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// PopulationStdDev returns the standard deviation of data around mean,
// dividing by len(data) rather than len(data)-1.
func PopulationStdDev(data []float64, mean float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range data {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(data)))
}

// MeanAbsDeviation returns the mean absolute distance of data from mean.
func MeanAbsDeviation(data []float64, mean float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var devSum float64
	for _, v := range data {
		devSum += math.Abs(v - mean)
	}
	return devSum / float64(len(data))
}

// HighLow returns the highest high and the lowest low of window.
// The window must not be empty.
func HighLow(window []Bar) (highest, lowest float64) {
	highest = window[0].High
	lowest = window[0].Low
	for _, b := range window[1:] {
		if b.High > highest {
			highest = b.High
		}
		if b.Low < lowest {
			lowest = b.Low
		}
	}
	return highest, lowest
}

// TrueRange is the largest of the current bar's range and the distances of
// its high and low from the previous close.
func TrueRange(current, previous Bar) float64 {
	highLow := current.High - current.Low
	highPrevClose := math.Abs(current.High - previous.Close)
	lowPrevClose := math.Abs(current.Low - previous.Close)
	return math.Max(highLow, math.Max(highPrevClose, lowPrevClose))
}

/* -------------------------------------------------------------------------
   Series transforms
--------------------------------------------------------------------------*/

// SimpleMovingAverage returns the mean of every trailing window of period
// values. The result has len(data)-period+1 entries; element i corresponds to
// data[i+period-1]. It returns nil when data is shorter than period.
func SimpleMovingAverage(data []float64, period int) []float64 {
	if period < 1 || len(data) < period {
		return nil
	}
	out := make([]float64, 0, len(data)-period+1)
	for i := period - 1; i < len(data); i++ {
		out = append(out, Mean(data[i-period+1:i+1]))
	}
	return out
}

// EMASmoothingFactor returns the classic 2/(n+1) EMA multiplier.
func EMASmoothingFactor(n int) float64 {
	return 2.0 / (float64(n) + 1.0)
}

// ExponentialMovingAverage seeds with the simple average of the first period
// values and then applies ema = (x-ema)*mult + ema for every later value.
// Element i of the result corresponds to data[i+period-1]. It returns nil when
// data is shorter than period.
func ExponentialMovingAverage(data []float64, period int) []float64 {
	if period < 1 || len(data) < period {
		return nil
	}
	mult := EMASmoothingFactor(period)
	out := make([]float64, 0, len(data)-period+1)
	ema := Mean(data[:period])
	out = append(out, ema)
	for _, v := range data[period:] {
		ema = (v-ema)*mult + ema
		out = append(out, ema)
	}
	return out
}

// WilderAverage applies one step of Wilder's average-style recurrence.
func WilderAverage(prev, value float64, period int) float64 {
	p := float64(period)
	return (prev*(p-1) + value) / p
}

// WilderSum applies one step of Wilder's cumulative recurrence, used when the
// smoothed series is seeded with a sum instead of a mean.
func WilderSum(prev, value float64, period int) float64 {
	return prev - prev/float64(period) + value
}

/* -------------------------------------------------------------------------
   Validation helpers
--------------------------------------------------------------------------*/

func isNonNegativePrice(price float64) bool {
	return price >= 0 && !math.IsNaN(price) && !math.IsInf(price, 0)
}

func isValidVolume(volume float64) bool {
	return volume >= 0 && !math.IsNaN(volume) && !math.IsInf(volume, 0)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool { return isFinite(v) }
