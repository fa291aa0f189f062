package vehicle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/dynamics/kinematics"
	"aerocore/internal/dynamics/mass"
	"aerocore/internal/dynamics/propulsion"
	"aerocore/internal/dynamics/sequencer"
	"aerocore/internal/geo"
	"aerocore/internal/simclock"
)

func constantThrust(throttle, mach, densityRatio float64) float64 { return throttle }

func newTestVehicle() *Vehicle {
	v := New("test")
	v.Body = geo.Spherical
	v.Integrator = RK4Integrator{}
	v.MassProps.SetBase(1000, geo.Vector3{}, mass.NewInertia(500, 800, 900, 0, 0, 0))
	v.Kinematics = kinematics.State{Position: geo.New(0, 0, 1000), Orientation: kinematics.Identity()}
	v.Kinematics.RecomputeDerived(simclock.FromSeconds(0.01), v.Body)
	v.Propulsion = &propulsion.System{
		Engines: []*propulsion.Engine{{NameStr: "engine1", MaxThrustN: 10000, ThrustCurve: constantThrust, Running: true, ThrottlePosition: 1}},
	}
	return v
}

func TestUpdateAdvancesVelocityFromThrust(t *testing.T) {
	v := newTestVehicle()
	v.Update(simclock.FromSeconds(1.0))

	require.Greater(t, v.Kinematics.VelocityBody.X, 0.0)
}

func TestUpdateSkipsZeroLengthStep(t *testing.T) {
	v := newTestVehicle()
	before := v.Kinematics.VelocityBody
	v.Update(simclock.Nanos(50)) // below ZeroThreshold
	require.Equal(t, before, v.Kinematics.VelocityBody)
}

func TestRecalculateMassIncludesTanksAndCaptiveSubobjects(t *testing.T) {
	v := newTestVehicle()
	v.Propulsion.Tanks = []*propulsion.FuelTank{{NameStr: "main", CurrentKg: 200, Intact: true, PositionBody: geo.Vector3{X: -1}}}

	child := New("pylon-store")
	child.MassProps.SetBase(50, geo.Vector3{}, mass.Zero())
	v.Subobjects = []*Subobject{{NameStr: "store1", Captive: true, RelativeCG: geo.Vector3{Y: 2}, Vehicle: child}}

	v.recalculateMass()
	require.InDelta(t, 1000+200+50, v.MassProps.CurrentMassKg, 1e-6)
}

func TestJettisonRemovesSubobjectAndAppliesSeparationVelocity(t *testing.T) {
	v := newTestVehicle()
	child := New("booster")
	child.MassProps.SetBase(100, geo.Vector3{}, mass.Zero())

	var released *Subobject
	v.OnSubobjectJettisoned = func(s *Subobject) { released = s }
	v.Subobjects = []*Subobject{{
		NameStr: "booster", Captive: true, Vehicle: child,
		SeparationVelocityBody: geo.Vector3{X: -5},
	}}

	ok := v.JettisonSubobject("booster")
	require.True(t, ok)
	require.Empty(t, v.Subobjects)
	require.NotNil(t, released)
	require.False(t, released.Captive)
	require.InDelta(t, -5, released.Vehicle.Kinematics.VelocityBody.X, 1e-9)

	require.False(t, v.JettisonSubobject("booster")) // already removed
}

func TestSequencerFiresThroughVehicleUpdate(t *testing.T) {
	v := newTestVehicle()
	v.Sequencers = &sequencer.Group{Sequencers: []*sequencer.Sequencer{
		{NameStr: "shutdown-below-alt", Triggers: []*sequencer.Trigger{{Kind: sequencer.TriggerAltitudeBelow, ThresholdValue: 5000}},
			Actions: []sequencer.Action{{Kind: sequencer.ActionShutdownEngine, TargetName: "engine1"}}},
	}}

	v.Update(simclock.FromSeconds(0.1))
	require.True(t, v.Sequencers.Sequencers[0].Fired())
	require.False(t, v.Propulsion.Engines[0].Running)
}
