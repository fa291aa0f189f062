package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWCSRoundTripSpherical(t *testing.T) {
	pts := []Point{
		New(0, 0, 0),
		New(45, -110, 1500),
		New(-33.5, 151.2, 200),
		New(89.9, 10, 500),
	}
	for _, p := range pts {
		wcs := p.ToWCS(Spherical)
		back := FromWCS(wcs, Spherical)
		require.InDelta(t, p.LatDeg, back.LatDeg, 1e-6)
		require.InDelta(t, p.LonDeg, back.LonDeg, 1e-6)
		require.InDelta(t, p.AltM, back.AltM, 1e-6)
	}
}

func TestWCSRoundTripWGS84(t *testing.T) {
	p := New(39.5, -104.9, 1609)
	wcs := p.ToWCS(WGS84)
	back := FromWCS(wcs, WGS84)
	require.InDelta(t, p.LatDeg, back.LatDeg, 1e-6)
	require.InDelta(t, p.LonDeg, back.LonDeg, 1e-6)
	require.InDelta(t, p.AltM, back.AltM, 1e-3)
}

func TestExtrapolateThenReverseReturnsToOrigin(t *testing.T) {
	origin := New(40.0, -110.0, 0)
	heading := 1.2 // radians
	dist := 25000.0

	moved := origin.Extrapolate(heading, dist, Spherical)
	back := moved.Extrapolate(heading+math.Pi, dist, Spherical)

	gcd := origin.GreatCircleDistance(back, Spherical)
	require.Less(t, gcd, 1e-3)
}

func TestTrueBearingToCardinal(t *testing.T) {
	p := New(0, 0, 0)
	north := New(1, 0, 0)
	east := New(0, 1, 0)

	require.InDelta(t, 0.0, p.TrueBearingTo(north), 1e-6)
	require.InDelta(t, math.Pi/2, p.TrueBearingTo(east), 1e-6)
}

func TestSlantRangeNonSphericalIsEuclidean(t *testing.T) {
	a := New(0, 0, 0)
	b := New(0, 0, 1000)
	d := a.SlantRangeTo(b, false, Spherical)
	require.InDelta(t, 1000.0, d, 1e-6)
}

func TestOffsetAtomicHeadingRotation(t *testing.T) {
	origin := New(40, -110, 1000)
	// Heading 90deg (east): +dx (forward) should become +east.
	p := origin.Offset(math.Pi/2, 100, 0, 0, Spherical)
	ned := p.ToNED(origin, Spherical)
	require.InDelta(t, 0, ned.X, 1e-3)
	require.InDelta(t, 100, ned.Y, 1e-3)
}
