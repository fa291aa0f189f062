package propulsion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/geo"
)

func linearCurve(throttle, mach, densityRatio float64) float64 {
	if throttle > 1 {
		return 1 + 0.5*(throttle-1) // afterburner adds up to 50% more thrust
	}
	return throttle
}

func TestSetThrottleClampsMilAndGatesAfterburner(t *testing.T) {
	s := &System{HasMILChannel: true, HasABChannel: true, Engines: []*Engine{{ThrustCurve: linearCurve}}}

	s.SetThrottle(0.5)
	require.InDelta(t, 0.5, s.Engines[0].ThrottlePosition, 1e-9)

	s.SetThrottle(1.8)
	require.InDelta(t, 1.8, s.Engines[0].ThrottlePosition, 1e-9) // mil=1, ab=0.8

	s.SetThrottle(-1)
	require.InDelta(t, 0, s.Engines[0].ThrottlePosition, 1e-9)
}

func TestEngineForceZeroWhenNotRunning(t *testing.T) {
	e := &Engine{MaxThrustN: 1000, ThrustCurve: linearCurve, ThrottlePosition: 1}
	f, fuel, _ := e.Force(0.2, 1.0)
	require.Equal(t, geo.Vector3{}, f)
	require.Zero(t, fuel)
}

func TestEngineForceAppliesVectoring(t *testing.T) {
	e := &Engine{MaxThrustN: 1000, ThrustCurve: linearCurve, ThrottlePosition: 1, Running: true, YawVectorLimitRad: 1}
	e.SetVectoring(0.3, 0)
	f, _, _ := e.Force(0.2, 1.0)
	require.NotZero(t, f.Y)
}

func TestUpdateTransfersScalesSourcesWhenOversupplied(t *testing.T) {
	src1 := &FuelTank{CurrentKg: 100, MaxDrainRateKgS: 50, Intact: true}
	src2 := &FuelTank{CurrentKg: 100, MaxDrainRateKgS: 50, Intact: true}
	target := &FuelTank{CapacityKg: 100, CurrentKg: 0, MaxFillRateKgS: 40, Intact: true}

	UpdateTransfers([]*Transfer{{SourceTanks: []*FuelTank{src1, src2}, TargetTank: target}}, 1.0)

	require.InDelta(t, 40, target.CurrentKg, 1e-9)
	require.InDelta(t, 80, src1.CurrentKg, 1e-9) // 100 - 20 (half of 40)
	require.InDelta(t, 80, src2.CurrentKg, 1e-9)
}

func TestUpdateTransfersSkipsNonIntactPath(t *testing.T) {
	src := &FuelTank{CurrentKg: 100, MaxDrainRateKgS: 50, Intact: false}
	target := &FuelTank{CapacityKg: 100, CurrentKg: 0, MaxFillRateKgS: 40, Intact: true}

	UpdateTransfers([]*Transfer{{SourceTanks: []*FuelTank{src}, TargetTank: target}}, 1.0)
	require.Zero(t, target.CurrentKg)
}

func TestSystemUpdateSkipsBurnWhenFrozen(t *testing.T) {
	tank := &FuelTank{CurrentKg: 100, Intact: true}
	s := &System{
		Engines:        []*Engine{{MaxThrustN: 1000, ThrustCurve: linearCurve, ThrottlePosition: 1, Running: true, SFCKgPerNs: 0.0001}},
		Tanks:          []*FuelTank{tank},
		FuelBurnFrozen: true,
	}
	force, _ := s.Update(1.0, 0.2, 1.0)
	require.Equal(t, geo.Vector3{}, force)
	require.InDelta(t, 100, tank.CurrentKg, 1e-9)
}

func TestIgniteAndShutdown(t *testing.T) {
	e := &Engine{}
	s := &System{Engines: []*Engine{e}}
	s.Ignite()
	require.True(t, e.Running)
	require.InDelta(t, 1.0, e.ThrottlePosition, 1e-9)

	s.Shutdown()
	require.False(t, e.Running)
	require.InDelta(t, 0.0, e.ThrottlePosition, 1e-9)
}
