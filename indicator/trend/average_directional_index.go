package trend

import (
	"math"
	"time"

	"github.com/evdnx/goquant/indicator/core"
)

const DefaultADXPeriod = 14

// ADXResult carries the ADX line together with the directional indicators it
// was derived from. All series share Timestamps.
type ADXResult struct {
	ADX        []float64
	PlusDI     []float64
	MinusDI    []float64
	Timestamps []time.Time
}

// ToResult surfaces the ADX line as the primary series.
func (r ADXResult) ToResult(name string) (core.Result, error) {
	return core.NewResult(name, r.ADX, r.Timestamps)
}

// PlotData emits the ADX, +DI and -DI lines.
func (r ADXResult) PlotData() []core.PlotData {
	if len(r.ADX) == 0 {
		return nil
	}
	return []core.PlotData{
		core.NewPlotData("ADX", "line", r.ADX, r.Timestamps),
		core.NewPlotData("+DI", "line", r.PlusDI, r.Timestamps),
		core.NewPlotData("-DI", "line", r.MinusDI, r.Timestamps),
	}
}

// AverageDirectionalIndex measures trend strength independent of direction.
//
// True range, +DM and -DM are smoothed with Wilder's cumulative recurrence
// (seeded by the sum of the first period values) while the DX → ADX stage uses
// the average-style recurrence (seeded by the mean of the first period DX
// values). The two shapes are kept distinct on purpose.
type AverageDirectionalIndex struct {
	period int
}

// NewAverageDirectionalIndex creates an ADX with the default 14-bar period.
func NewAverageDirectionalIndex() (*AverageDirectionalIndex, error) {
	return NewAverageDirectionalIndexWithParams(DefaultADXPeriod)
}

// NewAverageDirectionalIndexWithParams creates an ADX with a custom period.
func NewAverageDirectionalIndexWithParams(period int) (*AverageDirectionalIndex, error) {
	if period < 1 {
		return nil, core.InvalidParameter("ADX", "period must be at least 1, got %d", period)
	}
	return &AverageDirectionalIndex{period: period}, nil
}

func (a *AverageDirectionalIndex) Name() string       { return "ADX" }
func (a *AverageDirectionalIndex) Period() int        { return a.period }
func (a *AverageDirectionalIndex) MinDataPoints() int { return 2 * a.period }

// Calculate returns the ADX line; the first value belongs to bar 2*period-1.
func (a *AverageDirectionalIndex) Calculate(bars []core.Bar) (core.Result, error) {
	full, err := a.CalculateFull(bars)
	if err != nil {
		return core.Result{}, err
	}
	return full.ToResult(a.Name())
}

// CalculateFull returns ADX, +DI and -DI.
func (a *AverageDirectionalIndex) CalculateFull(bars []core.Bar) (ADXResult, error) {
	if err := core.RequireBars(a, bars); err != nil {
		return ADXResult{}, err
	}
	p := a.period

	// Stage 1: raw TR / +DM / -DM, one entry per bar from bar 1.
	n := len(bars) - 1
	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < len(bars); i++ {
		cur, prev := bars[i], bars[i-1]
		tr[i-1] = core.TrueRange(cur, prev)
		plusDM[i-1], minusDM[i-1] = directionalMovement(cur, prev)
	}

	// Stage 2: cumulative Wilder smoothing. smoothed[j] belongs to bar p+j.
	sTR := smoothCumulative(tr, p)
	sPlus := smoothCumulative(plusDM, p)
	sMinus := smoothCumulative(minusDM, p)

	plusDI := make([]float64, len(sTR))
	minusDI := make([]float64, len(sTR))
	dx := make([]float64, len(sTR))
	for j := range sTR {
		if sTR[j] != 0 {
			plusDI[j] = 100 * sPlus[j] / sTR[j]
			minusDI[j] = 100 * sMinus[j] / sTR[j]
		}
		if sum := plusDI[j] + minusDI[j]; sum != 0 {
			dx[j] = 100 * math.Abs(plusDI[j]-minusDI[j]) / sum
		}
	}

	// Stage 3: average-style smoothing of DX.
	if len(dx) < p {
		return ADXResult{}, core.InsufficientData(a.Name()+" DX stage", p, len(dx))
	}
	adx := make([]float64, 0, len(dx)-p+1)
	cur := core.Mean(dx[:p])
	adx = append(adx, cur)
	for _, v := range dx[p:] {
		cur = core.WilderAverage(cur, v, p)
		adx = append(adx, cur)
	}

	// dx[j] belongs to bar p+j, so adx[0] (dx[p-1]) belongs to bar 2p-1.
	return ADXResult{
		ADX:        adx,
		PlusDI:     plusDI[p-1:],
		MinusDI:    minusDI[p-1:],
		Timestamps: core.Timestamps(bars, 2*p-1),
	}, nil
}

// directionalMovement returns +DM and -DM for cur relative to prev. At most
// one of them is non-zero.
func directionalMovement(cur, prev core.Bar) (plus, minus float64) {
	highDiff := cur.High - prev.High
	lowDiff := prev.Low - cur.Low
	if highDiff > lowDiff && highDiff > 0 {
		plus = highDiff
	}
	if lowDiff > highDiff && lowDiff > 0 {
		minus = lowDiff
	}
	return plus, minus
}

// smoothCumulative seeds with the sum of the first period raw values and then
// applies s = s - s/period + x. It returns len(raw)-period+1 values.
func smoothCumulative(raw []float64, period int) []float64 {
	if len(raw) < period {
		return nil
	}
	out := make([]float64, 0, len(raw)-period+1)
	s := 0.0
	for _, v := range raw[:period] {
		s += v
	}
	out = append(out, s)
	for _, v := range raw[period:] {
		s = core.WilderSum(s, v, period)
		out = append(out, s)
	}
	return out
}
