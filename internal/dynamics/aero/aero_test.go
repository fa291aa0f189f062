package aero

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/geo"
)

func linearCore() *AeroCore {
	c := NewAeroCore("wing", 20, 10, 2, geo.Vector3{})
	c.CL = func(alpha, beta, mach float64, rates geo.Vector3, surf map[string]float64) float64 {
		return 2 * alpha
	}
	c.CD = func(alpha, beta, mach float64, rates geo.Vector3, surf map[string]float64) float64 {
		return 0.02 + 0.1*alpha*alpha
	}
	return c
}

func TestAeroCoreForcesScaleWithDynamicPressure(t *testing.T) {
	c := linearCore()
	lift1, _, _, _ := c.Forces(0.1, 0, 0.3, geo.Vector3{}, 1000, nil)
	lift2, _, _, _ := c.Forces(0.1, 0, 0.3, geo.Vector3{}, 2000, nil)
	require.InDelta(t, lift2, 2*lift1, 1e-9)
}

func TestSumTransportsMomentToCG(t *testing.T) {
	c := linearCore()
	c.ReferencePt = geo.Vector3{X: 1}
	force, moment, clArea, cdArea, _ := Sum([]Component{c}, 0.1, 0, 0.3, geo.Vector3{}, 1000, nil, geo.Vector3{})
	require.NotZero(t, force.Z)
	require.NotZero(t, moment.Y) // arm x force introduces a pitching moment about CG
	require.NotZero(t, clArea)
	require.NotZero(t, cdArea)
}

func TestAlphaForPitchGLoadFindsRoot(t *testing.T) {
	liftAt := func(alpha float64) float64 { return 1000 * alpha }
	alpha, clamped := AlphaForPitchGLoad(liftAt, 50, -0.5, 0.5)
	require.False(t, clamped)
	require.InDelta(t, 0.05, alpha, 1e-4)
}

func TestStickForZeroPitchMomentClampsWhenAuthorityExhausted(t *testing.T) {
	pitchAt := func(stick float64) float64 { return stick + 10 } // never crosses zero in range
	stick, clamped := StickForZeroPitchMoment(pitchAt, -1, 1)
	require.True(t, clamped)
	require.Equal(t, -1.0, stick)
}
