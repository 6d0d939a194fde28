package momentum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evdnx/goquant/indicator/core"
	"github.com/evdnx/goquant/internal/bartest"
)

func TestCommodityChannelIndex_Calculation(t *testing.T) {
	cci, err := NewCommodityChannelIndexWithParams(3)
	require.NoError(t, err)

	bars := bartest.FromCloses(1, 2, 3, 3, 3, 3)
	res, err := cci.Calculate(bars)
	require.NoError(t, err)

	require.Len(t, res.Values, 4)
	assert.True(t, approxEqual(res.Values[0], 100), "got %f", res.Values[0])
	// Flat window has zero mean deviation.
	assert.Equal(t, 0.0, res.Values[3])
	assert.Equal(t, bars[2].Timestamp, res.Timestamps[0])
}

func TestCommodityChannelIndex_Boundary(t *testing.T) {
	cci, _ := NewCommodityChannelIndexWithParams(5)
	_, err := cci.Calculate(bartest.RandomWalk(4, 2))
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	res, err := cci.Calculate(bartest.RandomWalk(5, 2))
	require.NoError(t, err)
	assert.Len(t, res.Values, 1)
}

func TestCommodityChannelIndex_InvalidPeriod(t *testing.T) {
	_, err := NewCommodityChannelIndexWithParams(-1)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	kind, ok := core.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, core.KindInvalidParameter, kind)
}

func TestCommodityChannelIndex_Zone(t *testing.T) {
	cci, _ := NewCommodityChannelIndex()
	assert.Equal(t, ZoneOverbought, cci.Zone(150))
	assert.Equal(t, ZoneOversold, cci.Zone(-150))
	assert.Equal(t, ZoneNeutral, cci.Zone(0))
}
