package kinematics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/geo"
	"aerocore/internal/simclock"
)

func TestFromEulerToEulerRoundTrip(t *testing.T) {
	roll, pitch, yaw := 0.2, -0.3, 1.1
	q := FromEuler(roll, pitch, yaw)
	r, p, y := q.ToEuler()
	require.InDelta(t, roll, r, 1e-9)
	require.InDelta(t, pitch, p, 1e-9)
	require.InDelta(t, yaw, y, 1e-9)
}

func TestDCMMatchesIdentityForZeroRotation(t *testing.T) {
	dcm := Identity().DCM()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			require.InDelta(t, want, dcm.At(i, j), 1e-9)
		}
	}
}

func TestRotateVectorPreservesMagnitude(t *testing.T) {
	q := FromEuler(0.4, 0.2, -0.6)
	v := geo.Vector3{X: 1, Y: 2, Z: 3}
	rotated := q.RotateVector(v)
	require.InDelta(t, v.Magnitude(), rotated.Magnitude(), 1e-9)
}

func TestISAMatchesSeaLevel(t *testing.T) {
	a := ISA(0)
	require.InDelta(t, 288.15, a.TemperatureK, 1e-6)
	require.InDelta(t, 101325.0, a.PressurePa, 1e-3)
}

func TestRecomputeDerivedSetsAlphaFromBodyVelocity(t *testing.T) {
	s := &State{VelocityBody: geo.Vector3{X: 100, Z: 10}}
	s.RecomputeDerived(simclock.FromSeconds(0.01), geo.Spherical)
	require.InDelta(t, math.Atan2(10, 100), s.Alpha, 1e-9)
	require.Greater(t, s.TrueAirspeed, 0.0)
}

func TestApplyLoadFactorsConvertsToGUnits(t *testing.T) {
	s := &State{}
	s.ApplyLoadFactors(geo.Vector3{Z: -9.80665})
	require.InDelta(t, -1.0, s.Nz, 1e-9)
}
