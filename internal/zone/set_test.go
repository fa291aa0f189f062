package zone

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/geo"
)

func circleAt(lat, lon, radius float64) *Definition {
	return &Definition{
		Shape:      Circle,
		Frame:      Internal,
		RefLat:     lat,
		RefLon:     lon,
		MinRadiusM: 0,
		MaxRadiusM: radius,
		MinAltM:    -1e6,
		MaxAltM:    1e6,
	}
}

func TestSetUnionAndExclusionInvariant(t *testing.T) {
	s := NewSet("coverage")
	s.AddMember(circleAt(0, 0, 1000))
	s.AddMember(circleAt(0, 1, 1000))
	s.AddExclusion(circleAt(0, 0, 100))

	ref := geo.New(0, 0, 0)

	require.True(t, s.Contains(geo.New(0, 0.005, 0), ref, 0, geo.Spherical),
		"inside member 1 and outside the exclusion")
	require.False(t, s.Contains(geo.New(0, 0, 0), ref, 0, geo.Spherical),
		"inside member 1 but also inside the exclusion")
	require.True(t, s.Contains(geo.New(0, 1, 0), ref, 0, geo.Spherical),
		"inside member 2, unaffected by an exclusion scoped to member 1")
	require.False(t, s.Contains(geo.New(5, 5, 0), ref, 0, geo.Spherical),
		"outside every member")
}

func TestSetPenetrationClampedAtZero(t *testing.T) {
	s := NewSet("fully-excluded")
	s.AddMember(circleAt(0, 0, 1000))
	s.AddExclusion(circleAt(0, 0, 1000))

	ref := geo.New(0, 0, 0)
	from := geo.New(-0.01, 0, 0)
	to := geo.New(0.01, 0, 0)

	require.Equal(t, 0.0, s.Penetration(from, to, ref, 0, geo.Spherical))
}

func TestContainsGridMatchesPerPointContains(t *testing.T) {
	s := NewSet("grid")
	s.AddMember(circleAt(0, 0, 1000))

	ref := geo.New(0, 0, 0)
	points := []geo.Point{
		geo.New(0, 0, 0),
		geo.New(5, 5, 0),
		geo.New(0, 0.005, 0),
	}

	got := s.ContainsGrid(points, ref, 0, geo.Spherical)
	require.Len(t, got, len(points))
	for i, p := range points {
		require.Equal(t, s.Contains(p, ref, 0, geo.Spherical), got[i])
	}
}
