package zone

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/geo"
	"aerocore/internal/simclock"
)

func testCloud() *NoiseCloud {
	return &NoiseCloud{
		NameStr:    "cu1",
		CenterLat:  0,
		CenterLon:  0,
		WidthM:     2000,
		DepthM:     2000,
		HeightM:    3000,
		ThicknessM: 1000,
		Frequency:  0.001,
		Octaves:    3,
		Threshold:  -10, // effectively always above threshold, isolating the band/extent test
		TileScalar: 0,
	}
}

func TestNoiseCloudRespectsHeightBand(t *testing.T) {
	c := testCloud()
	center := geo.New(0, 0, 3000)
	require.True(t, c.Contains(center, center, 0, geo.Spherical))

	tooLow := geo.New(0, 0, 1000)
	require.False(t, c.Contains(tooLow, tooLow, 0, geo.Spherical))
}

func TestNoiseCloudRespectsExtent(t *testing.T) {
	c := testCloud()
	farPoint := geo.New(5, 5, 3000)
	require.False(t, c.Contains(farPoint, farPoint, 0, geo.Spherical))
}

func TestNoiseCloudPenetrationVariesOnlyWithWindOverTime(t *testing.T) {
	c := testCloud()
	c.WindAngularSpeedRadPerSec = 0.1

	from := geo.New(0, -0.02, 3000)
	to := geo.New(0, 0.02, 3000)

	p0 := c.PenetrationAt(from, to, 0, geo.Spherical)
	p1 := c.PenetrationAt(from, to, simclock.FromSeconds(1), geo.Spherical)

	// Both samples must be non-negative lengths bounded by the segment's
	// total length; the wind rotation may change the value but never by
	// more than the geometry allows.
	total := from.SlantRangeTo(to, false, geo.Spherical)
	require.GreaterOrEqual(t, p0, 0.0)
	require.LessOrEqual(t, p0, total+1e-6)
	require.GreaterOrEqual(t, p1, 0.0)
	require.LessOrEqual(t, p1, total+1e-6)
}
