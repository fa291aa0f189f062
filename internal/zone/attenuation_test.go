package zone

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/geo"
)

func TestComputeAttenuationSumsModifierTimesPenetration(t *testing.T) {
	z := rectangleZone()
	z.Modifiers = map[string]float64{"rf": 2.0}

	a := NewAttenuation([]Zone{z}, nil)

	from := geo.New(-1, 0.5, 100)
	to := geo.New(2, 0.5, 100)
	total := from.SlantRangeTo(to, false, geo.Spherical)

	got := a.ComputeAttenuation("rf", from, to, 0, false, geo.Spherical)
	want := 2.0 * (total / 3)
	require.InDelta(t, want, got, want*0.05)

	gotTwoWay := a.ComputeAttenuation("rf", from, to, 0, true, geo.Spherical)
	require.InDelta(t, 2*want, gotTwoWay, 2*want*0.05)
}

func TestComputeAttenuationUnknownCategoryIsZero(t *testing.T) {
	z := rectangleZone()
	z.Modifiers = map[string]float64{"rf": 2.0}
	a := NewAttenuation([]Zone{z}, nil)

	got := a.ComputeAttenuation("optical", geo.New(0, 0, 0), geo.New(1, 1, 0), 0, false, geo.Spherical)
	require.Equal(t, 0.0, got)
}

func TestComputeAttenuationZeroAltitudeEndpointIsRaised(t *testing.T) {
	z := rectangleZone()
	z.Shape = Sphere
	z.MinRadiusM = 0
	z.MaxRadiusM = 1
	z.Modifiers = map[string]float64{"rf": 1.0}

	a := NewAttenuation([]Zone{z}, nil)

	// Both endpoints at altitude 0 would otherwise collapse the sphere test
	// onto the ground plane; raising them to 1m keeps the query
	// well-defined instead of producing a degenerate all-or-nothing result.
	from := geo.New(0, 0, 0)
	to := geo.New(0, 0, 0)
	got := a.ComputeAttenuation("rf", from, to, 0, false, geo.Spherical)
	require.GreaterOrEqual(t, got, 0.0)
}

func TestComputeAttenuationSkipsMemberMissingCategory(t *testing.T) {
	withCat := rectangleZone()
	withCat.NameStr = "with-cat"
	withCat.Modifiers = map[string]float64{"rf": 1.0}

	withoutCat := rectangleZone()
	withoutCat.NameStr = "without-cat"
	withoutCat.Modifiers = map[string]float64{"optical": 1.0}

	a := NewAttenuation([]Zone{withCat, withoutCat}, nil)
	require.Contains(t, a.index, "rf")
	require.Len(t, a.index["rf"], 1)
}
