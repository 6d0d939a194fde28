package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Result is the primary single-series output every indicator produces.
// Values[i] was produced by the bar whose timestamp is Timestamps[i].
type Result struct {
	Values        []float64   `json:"values"`
	Timestamps    []time.Time `json:"timestamps"`
	IndicatorName string      `json:"indicator_name"`
}

// NewResult builds a Result and checks the alignment invariant. A mismatch is
// a broken invariant inside the indicator, so it surfaces as KindCalculation.
func NewResult(name string, values []float64, timestamps []time.Time) (Result, error) {
	if len(values) != len(timestamps) {
		return Result{}, CalculationFailed(name, "result alignment",
			fmt.Errorf("%d values for %d timestamps", len(values), len(timestamps)))
	}
	return Result{Values: values, Timestamps: timestamps, IndicatorName: name}, nil
}

// Len returns the number of points in the result.
func (r Result) Len() int { return len(r.Values) }

// Last returns the most recent value and its timestamp.
func (r Result) Last() (float64, time.Time, bool) {
	if len(r.Values) == 0 {
		return 0, time.Time{}, false
	}
	i := len(r.Values) - 1
	return r.Values[i], r.Timestamps[i], true
}

/* -------------------------------------------------------------------------
   Plotting utilities
--------------------------------------------------------------------------*/

type PlotData struct {
	Name      string    `json:"name"`
	X         []float64 `json:"x"`
	Y         []float64 `json:"y"`
	Type      string    `json:"type,omitempty"`
	Signal    string    `json:"signal,omitempty"`
	Timestamp []int64   `json:"timestamp,omitempty"`
}

// NewPlotData turns an aligned series into a line plot keyed by unix seconds.
func NewPlotData(name, plotType string, values []float64, timestamps []time.Time) PlotData {
	x := make([]float64, len(values))
	for i := range x {
		x[i] = float64(i)
	}
	ts := make([]int64, len(timestamps))
	for i, t := range timestamps {
		ts[i] = t.Unix()
	}
	return PlotData{
		Name:      name,
		X:         x,
		Y:         copySlice(values),
		Type:      plotType,
		Timestamp: ts,
	}
}

// PlotData returns the result as a single line series.
func (r Result) PlotData() []PlotData {
	if len(r.Values) == 0 {
		return nil
	}
	return []PlotData{NewPlotData(r.IndicatorName, "line", r.Values, r.Timestamps)}
}

func FormatPlotDataJSON(data []PlotData) (string, error) {
	if len(data) == 0 {
		return "[]", nil
	}
	for _, d := range data {
		if len(d.X) != len(d.Y) {
			return "", fmt.Errorf("mismatched X and Y lengths for %s: %d vs %d", d.Name, len(d.X), len(d.Y))
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal plot data: %w", err)
	}
	return string(b), nil
}

func FormatPlotDataCSV(data []PlotData) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	var sb strings.Builder
	sb.WriteString("Name,X,Y,Type,Signal,Timestamp\n")
	for _, d := range data {
		if len(d.X) != len(d.Y) {
			return "", fmt.Errorf("mismatched X and Y lengths for %s: %d vs %d", d.Name, len(d.X), len(d.Y))
		}
		for i := 0; i < len(d.X); i++ {
			ts := ""
			if i < len(d.Timestamp) {
				ts = fmt.Sprintf("%d", d.Timestamp[i])
			}
			fmt.Fprintf(&sb, "%s,%f,%f,%s,%s,%s\n",
				d.Name, d.X[i], d.Y[i], d.Type, d.Signal, ts)
		}
	}
	return sb.String(), nil
}
