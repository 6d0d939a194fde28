// Package bartest builds deterministic bar sequences for tests.
package bartest

import (
	"math/rand"
	"time"

	"github.com/evdnx/goquant/indicator/core"
)

// Start is the timestamp of the first generated bar.
var Start = time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

// Step is the spacing between generated bars.
const Step = 24 * time.Hour

// FromCloses builds bars whose open/high/low all equal the close and whose
// volume is 100.
func FromCloses(closes ...float64) []core.Bar {
	bars := make([]core.Bar, len(closes))
	for i, c := range closes {
		bars[i] = core.Bar{
			Timestamp: Start.Add(time.Duration(i) * Step),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    100,
		}
	}
	return bars
}

// WithVolumes returns a copy of bars with the given volumes.
func WithVolumes(bars []core.Bar, volumes ...float64) []core.Bar {
	out := make([]core.Bar, len(bars))
	copy(out, bars)
	for i := range out {
		if i < len(volumes) {
			out[i].Volume = volumes[i]
		}
	}
	return out
}

// HLC builds bars from parallel high/low/close slices.
func HLC(highs, lows, closes []float64) []core.Bar {
	bars := make([]core.Bar, len(closes))
	for i := range closes {
		bars[i] = core.Bar{
			Timestamp: Start.Add(time.Duration(i) * Step),
			Open:      closes[i],
			High:      highs[i],
			Low:       lows[i],
			Close:     closes[i],
			Volume:    100,
		}
	}
	return bars
}

// RandomWalk returns n bars of a seeded random walk starting at 100.
func RandomWalk(n int, seed int64) []core.Bar {
	r := rand.New(rand.NewSource(seed))
	bars := make([]core.Bar, n)
	price := 100.0
	for i := 0; i < n; i++ {
		open := price
		price += r.NormFloat64()
		if price < 1 {
			price = 1
		}
		high := max(open, price) + r.Float64()
		low := min(open, price) - r.Float64()
		if low < 0.5 {
			low = 0.5
		}
		bars[i] = core.Bar{
			Timestamp: Start.Add(time.Duration(i) * Step),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     price,
			Volume:    1000 + float64(r.Intn(500)),
		}
	}
	return bars
}

// Series splits bars into high, low, close and volume slices.
func Series(bars []core.Bar) (highs, lows, closes, volumes []float64) {
	for _, b := range bars {
		highs = append(highs, b.High)
		lows = append(lows, b.Low)
		closes = append(closes, b.Close)
		volumes = append(volumes, b.Volume)
	}
	return highs, lows, closes, volumes
}

// TimestampSet indexes the timestamps of bars.
func TimestampSet(bars []core.Bar) map[time.Time]int {
	set := make(map[time.Time]int, len(bars))
	for i, b := range bars {
		set[b.Timestamp] = i
	}
	return set
}
