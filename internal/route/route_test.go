package route

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/geo"
	"aerocore/internal/zone"
)

func blockerZone() *zone.Definition {
	return &zone.Definition{
		NameStr: "blocker",
		Shape:   zone.Polygon,
		Frame:   zone.Internal,
		RefLat:  0.5, RefLon: 0.5,
		Points: []geo.Point{
			geo.New(0.4, 0.4, 0),
			geo.New(0.4, 0.6, 0),
			geo.New(0.6, 0.6, 0),
			geo.New(0.6, 0.4, 0),
		},
		MinAltM: -1e6, MaxAltM: 1e6,
	}
}

func TestNewFinderFiltersToInternalPolygons(t *testing.T) {
	z := blockerZone()
	nonPolygon := &zone.Definition{Shape: zone.Circle, Frame: zone.Internal, MaxRadiusM: 10}
	observerPolygon := &zone.Definition{Shape: zone.Polygon, Frame: zone.Observer, Points: z.Points}

	f := NewFinder([]*zone.Definition{z, nonPolygon, observerPolygon})
	require.Len(t, f.Zones, 1)
	require.Equal(t, "blocker", f.Zones[0].NameStr)
}

func TestNearestSafePointEscapesContainingZone(t *testing.T) {
	z := blockerZone()
	f := NewFinder([]*zone.Definition{z})

	inside := geo.New(0.5, 0.5, 100)
	safe := f.NearestSafePoint(inside)

	require.False(t, z.Contains(safe, safe, 0, geo.Spherical), "nearest safe point must lie outside the zone")
}

func TestNearestSafePointIsNoOpOutsideAnyZone(t *testing.T) {
	z := blockerZone()
	f := NewFinder([]*zone.Definition{z})

	outside := geo.New(5, 5, 0)
	safe := f.NearestSafePoint(outside)
	require.Equal(t, outside, safe)
}

func TestFindRouteAvoidsZoneInterior(t *testing.T) {
	z := blockerZone()
	f := NewFinder([]*zone.Definition{z})

	from := geo.New(0.1, 0.1, 100)
	to := geo.New(0.9, 0.9, 200)

	path := f.FindRoute(from, to)
	require.NotEmpty(t, path)

	for i := 0; i+1 < len(path); i++ {
		mid := geo.Point{
			LatDeg: (path[i].LatDeg + path[i+1].LatDeg) / 2,
			LonDeg: (path[i].LonDeg + path[i+1].LonDeg) / 2,
		}
		require.False(t, z.Contains(mid, mid, 0, geo.Spherical),
			"route segment %d must not cut through the zone interior", i)
	}
}
