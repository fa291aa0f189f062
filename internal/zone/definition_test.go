package zone

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/geo"
)

func rectangleZone() *Definition {
	return &Definition{
		NameStr: "rect",
		Shape:   Polygon,
		Frame:   Internal,
		RefLat:  0,
		RefLon:  0,
		Points: []geo.Point{
			geo.New(0, 0, 0),
			geo.New(0, 1, 0),
			geo.New(1, 1, 0),
			geo.New(1, 0, 0),
		},
		MinAltM: -1e6,
		MaxAltM: 1e6,
	}
}

func TestPointInPolygon(t *testing.T) {
	z := rectangleZone()
	ref := geo.New(0, 0, 0)

	require.True(t, z.Contains(geo.New(0.5, 0.5, 0), ref, 0, geo.Spherical), "center should be inside")
	require.False(t, z.Contains(geo.New(1.5, 0.5, 0), ref, 0, geo.Spherical), "point well outside the rectangle")
	require.True(t, z.Contains(geo.New(0, 0.5, 0), ref, 0, geo.Spherical), "point exactly on an edge is inside")
}

func TestSegmentPenetrationThroughRectangle(t *testing.T) {
	z := rectangleZone()
	ref := geo.New(0, 0, 0)

	from := geo.New(-1, 0.5, 100)
	to := geo.New(2, 0.5, 100)

	pen := z.Penetration(from, to, ref, 0, geo.Spherical)
	total := from.SlantRangeTo(to, false, geo.Spherical)

	// The rectangle spans 1 degree of latitude out of the segment's 3
	// degrees of latitude span, so penetration should be ~1/3 of the total
	// segment length (spec.md §8: "penetration ≈ 1.0 unit length" of a
	// rectangle one unit wide centered on a three-unit segment).
	require.InDelta(t, total/3, pen, total*0.02)
}

func TestPenetrationZeroWhenSegmentMissesZone(t *testing.T) {
	z := rectangleZone()
	ref := geo.New(0, 0, 0)

	from := geo.New(5, 5, 0)
	to := geo.New(6, 6, 0)

	require.Equal(t, 0.0, z.Penetration(from, to, ref, 0, geo.Spherical))
}

func TestPenetrationFullSegmentEntirelyInside(t *testing.T) {
	z := rectangleZone()
	ref := geo.New(0, 0, 0)

	from := geo.New(0.4, 0.4, 0)
	to := geo.New(0.6, 0.6, 0)
	total := from.SlantRangeTo(to, false, geo.Spherical)

	pen := z.Penetration(from, to, ref, 0, geo.Spherical)
	require.InDelta(t, total, pen, total*0.01)
}

func TestNegativeFlagInvertsContainment(t *testing.T) {
	z := rectangleZone()
	z.Negative = true
	ref := geo.New(0, 0, 0)

	require.False(t, z.Contains(geo.New(0.5, 0.5, 0), ref, 0, geo.Spherical))
	require.True(t, z.Contains(geo.New(5, 5, 0), ref, 0, geo.Spherical))
}

func TestCircleAnnulusAndAltitudeBounds(t *testing.T) {
	z := &Definition{
		NameStr:    "ring",
		Shape:      Circle,
		Frame:      Internal,
		RefLat:     0,
		RefLon:     0,
		MinRadiusM: 100,
		MaxRadiusM: 500,
		MinAltM:    0,
		MaxAltM:    1000,
	}
	ref := geo.New(0, 0, 0)

	require.False(t, z.Contains(geo.New(0, 0, 500), ref, 0, geo.Spherical), "radius 0 is inside MinRadiusM's excluded core")
	require.False(t, z.Contains(geo.New(0, 0, 2000), ref, 0, geo.Spherical), "above MaxAltM")

	inRing := geo.New(0, 0, 0).Offset(0, 200, 0, 0, geo.Spherical)
	inRing.AltM = 500
	require.True(t, z.Contains(inRing, ref, 0, geo.Spherical))
}
