package landinggear

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/geo"
)

func mainGearPoint(name string) *ReactionPoint {
	return &ReactionPoint{
		NameStr: name, IsGear: true,
		CompressionAxisBody: geo.Vector3{Z: -1},
		SpringK:             100000, DampingC: 5000,
		MaxCompressionM: 0.3,
		RollingMu:       0.02, BrakedMu: 0.4, StaticMu: 0.6, KineticMu: 0.4,
	}
}

func TestUpdateAppliesNormalForceFromPenetration(t *testing.T) {
	g := &Gear{Points: []*ReactionPoint{mainGearPoint("main")}}
	inputs := map[string]ContactInput{
		"main": {PenetrationM: 0.1, SurfaceNormalBody: geo.Vector3{Z: -1}},
	}
	force, _, crashed := g.Update(0.01, 0, geo.Vector3{Z: 1}, inputs, geo.Vector3{})
	require.False(t, crashed)
	require.InDelta(t, -10000, force.Z, 1e-6)
}

func TestOverCompressionOnNonGearPointCrashes(t *testing.T) {
	p := &ReactionPoint{NameStr: "wingtip", IsGear: false, MaxCompressionM: 0.05, SpringK: 1000}
	g := &Gear{Points: []*ReactionPoint{p}}
	inputs := map[string]ContactInput{
		"wingtip": {PenetrationM: 0.5, SurfaceNormalBody: geo.Vector3{Z: -1}},
	}
	_, _, crashed := g.Update(0.01, 10, geo.Vector3{Z: 1}, inputs, geo.Vector3{})
	require.True(t, crashed)
}

func TestSuppressCrashFlagPreventsCrashEvent(t *testing.T) {
	p := &ReactionPoint{NameStr: "wingtip", IsGear: false, MaxCompressionM: 0.05, SpringK: 1000}
	g := &Gear{Points: []*ReactionPoint{p}, SuppressCrash: true}
	inputs := map[string]ContactInput{
		"wingtip": {PenetrationM: 0.5, SurfaceNormalBody: geo.Vector3{Z: -1}},
	}
	_, _, crashed := g.Update(0.01, 10, geo.Vector3{Z: 1}, inputs, geo.Vector3{})
	require.False(t, crashed)
}

func TestAtRestStaticFrictionCancelsExternalForce(t *testing.T) {
	g := &Gear{Points: []*ReactionPoint{mainGearPoint("main")}}
	inputs := map[string]ContactInput{
		"main": {PenetrationM: 0.1, SurfaceNormalBody: geo.Vector3{Z: -1}},
	}
	force, _, _ := g.Update(0.01, 0, geo.Vector3{Z: 1}, inputs, geo.Vector3{X: 50})
	require.InDelta(t, -50, force.X, 1e-6) // the -50 static friction cancels the +50 external force
}

func TestNoseGearSteeringFollowsHandleAbsentLateralForce(t *testing.T) {
	p := &ReactionPoint{NameStr: "nose", IsGear: true, IsNoseGear: true, SteeringHandleRad: 0.2}
	g := &Gear{Points: []*ReactionPoint{p}}
	g.Update(0.01, 5, geo.Vector3{Z: 1}, map[string]ContactInput{}, geo.Vector3{})
	require.InDelta(t, 0.2, p.SteeringAngleRad, 1e-9)
}
