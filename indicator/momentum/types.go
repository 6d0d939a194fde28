package momentum

import "github.com/evdnx/goquant/indicator/core"

// PlotData aliases the shared plotting structure from the core package so tests
// and consumers can keep using the short name within the momentum package.
type PlotData = core.PlotData

// Zone labels returned by the oscillators' Zone methods.
const (
	ZoneOverbought = "Overbought"
	ZoneOversold   = "Oversold"
	ZoneNeutral    = "Neutral"
)
