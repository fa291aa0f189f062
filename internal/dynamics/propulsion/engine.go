// Package propulsion implements System and FuelTank: polymorphic thrust
// producers (Jet, Ramjet, LiquidRocket, SolidRocket), throttle-lever
// multiplexing, and the per-step fuel transfer algorithm. Each engine
// type supplies its own pluggable ThrustCurve, and fuel tanks form an
// arbitrary transfer graph rather than a fixed list.
package propulsion

import (
	"math"

	"aerocore/internal/geo"
)

// EngineType selects which thrust-producer family an Engine belongs to.
type EngineType int

const (
	Jet EngineType = iota
	Ramjet
	LiquidRocket
	SolidRocket
)

// ThrustCurve computes the thrust fraction of MaxThrustN delivered at a
// given combined throttle position (0..1 MIL, 1..2 afterburner range per
// the lever convention below), Mach number, and density ratio to sea
// level.
type ThrustCurve func(throttle, mach, densityRatio float64) float64

// Engine is one thrust producer.
type Engine struct {
	NameStr    string
	EngineType EngineType

	PositionBody geo.Vector3 // mount position in body frame (m)
	MaxThrustN   float64
	SFCKgPerNs   float64 // specific fuel consumption, kg fuel per newton-second

	ThrustCurve ThrustCurve

	YawVectorLimitRad   float64
	PitchVectorLimitRad float64
	YawVectorCmdRad     float64
	PitchVectorCmdRad   float64

	ReverserFitted        bool
	ReverserEngaged       bool
	ReverserEffectiveness float64 // fraction of thrust reversed, 0..1

	ThrottlePosition float64 // 0..2 (see lever convention above)
	Running          bool

	// PropellantMassKg tracks remaining solid-motor propellant; zero for
	// engine types that draw from the tank/transfer model instead.
	PropellantMassKg float64
}

// SetVectoring clamps and applies a thrust-vectoring command.
func (e *Engine) SetVectoring(yawRad, pitchRad float64) {
	e.YawVectorCmdRad = clampAbs(yawRad, e.YawVectorLimitRad)
	e.PitchVectorCmdRad = clampAbs(pitchRad, e.PitchVectorLimitRad)
}

func clampAbs(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

// Force evaluates this engine's current thrust vector in the body frame,
// its fuel burn rate, and (for solid motors) its propellant mass burn
// rate.
func (e *Engine) Force(mach, densityRatio float64) (forceBody geo.Vector3, fuelBurnKgS, propellantBurnKgS float64) {
	if e.ThrustCurve == nil || !e.Running {
		return geo.Vector3{}, 0, 0
	}
	magnitude := e.MaxThrustN * e.ThrustCurve(e.ThrottlePosition, mach, densityRatio)
	if e.ReverserEngaged && e.ReverserFitted {
		magnitude *= -e.ReverserEffectiveness
	}

	// Thrust nominally along +X in the engine's own frame, vectored by
	// the commanded yaw (about Z) then pitch (about Y).
	cy, sy := math.Cos(e.YawVectorCmdRad), math.Sin(e.YawVectorCmdRad)
	cp, sp := math.Cos(e.PitchVectorCmdRad), math.Sin(e.PitchVectorCmdRad)
	forceBody = geo.Vector3{
		X: magnitude * cp * cy,
		Y: magnitude * cp * sy,
		Z: -magnitude * sp,
	}

	absMagnitude := math.Abs(magnitude)
	switch e.EngineType {
	case SolidRocket:
		propellantBurnKgS = e.SFCKgPerNs * absMagnitude
	default:
		fuelBurnKgS = e.SFCKgPerNs * absMagnitude
	}
	return forceBody, fuelBurnKgS, propellantBurnKgS
}

// SumForces totals every engine's body-frame force, plus the moment that
// force produces about the body-frame origin (the Vehicle adds this as
// is; it does not shift it to MassProps.CurrentCG), plus total fuel and
// propellant burn rates.
func SumForces(engines []*Engine, mach, densityRatio float64) (totalForce, totalMoment geo.Vector3, totalFuelBurnKgS, totalPropellantBurnKgS float64) {
	for _, e := range engines {
		force, fuelBurn, propBurn := e.Force(mach, densityRatio)
		totalForce = totalForce.Add(force)
		totalMoment = totalMoment.Add(e.PositionBody.Cross(force))
		totalFuelBurnKgS += fuelBurn
		totalPropellantBurnKgS += propBurn
	}
	return totalForce, totalMoment, totalFuelBurnKgS, totalPropellantBurnKgS
}
