// Package landinggear implements spring/damper normal forces, rolling/
// braked/scuffed/static friction, nose-gear steering, and ground-crash
// detection across an arbitrary list of ReactionPoints, so fuselage and
// wing-tip crash points fall out of the same loop as the gear legs.
package landinggear

import (
	"math"

	"aerocore/internal/geo"
)

// ContactInput is the per-point terrain-contact geometry the vehicle
// layer computes each step (terrain sampling and kinematics live outside
// this package, which only knows spring/friction algebra).
type ContactInput struct {
	PenetrationM      float64     // spring-toe penetration below terrain, along CompressionAxisBody; <=0 means airborne
	PenetrationRateMS float64     // d(penetration)/dt
	SurfaceNormalBody geo.Vector3 // unit vector, body frame
	PointVelocityBody geo.Vector3 // this point's velocity (vehicle velocity + omega x r), body frame
}

// ReactionPoint is one contact point: a landing-gear leg, or a
// non-gear crash point (fuselage, wing-tip) that only ever participates
// in crash detection. A non-landing-gear reaction point that exceeds
// max compression triggers a crash event.
type ReactionPoint struct {
	NameStr             string
	IsGear              bool
	IsNoseGear          bool
	PositionBody        geo.Vector3 // r relative to CG
	CompressionAxisBody geo.Vector3
	SpringK             float64
	DampingC            float64
	MaxCompressionM     float64
	OverCompressed      bool

	RollingMu, BrakedMu, StaticMu, KineticMu float64
	BrakeCmd                                 float64 // 0..1
	SteeringHandleRad                        float64
	SteeringAngleRad                         float64
}

// Gear is the full set of reaction points plus the at-rest hysteresis
// state needed by Update's step 2.
type Gear struct {
	Points        []*ReactionPoint
	SuppressCrash bool // testing flag disabling ground-crash events

	lastSpeedMS float64
}

const atRestSpeedThresholdMS = 0.1

// Update runs a five-step algorithm for one simulation step. downBody
// is the body-frame unit vector pointing toward local "down" (used to
// find the ground plane for the static case); externalForceBody is the
// sum of every other force contribution the vehicle has accumulated
// this step.
func (g *Gear) Update(dtSec, vehicleSpeedMS float64, downBody geo.Vector3, inputs map[string]ContactInput, externalForceBody geo.Vector3) (totalForce, totalMoment geo.Vector3, crashed bool) {
	// Step 1: normal forces.
	normalForceMag := make(map[string]float64, len(g.Points))
	for _, p := range g.Points {
		in, ok := inputs[p.NameStr]
		if !ok || in.PenetrationM <= 0 {
			p.OverCompressed = false
			continue
		}
		mag := p.SpringK*in.PenetrationM + p.DampingC*in.PenetrationRateMS
		if mag < 0 {
			mag = 0
		}
		normalForceMag[p.NameStr] = mag
		force := in.SurfaceNormalBody.Scale(mag)
		totalForce = totalForce.Add(force)
		totalMoment = totalMoment.Add(p.PositionBody.Cross(force))

		p.OverCompressed = in.PenetrationM > p.MaxCompressionM
		if p.OverCompressed && !p.IsGear && !g.SuppressCrash {
			crashed = true
		}
	}

	// Step 2: at-rest test.
	atRest := vehicleSpeedMS < atRestSpeedThresholdMS && g.lastSpeedMS < atRestSpeedThresholdMS
	g.lastSpeedMS = vehicleSpeedMS

	if !atRest {
		g.applyRollingFriction(inputs, normalForceMag, &totalForce, &totalMoment)
	} else {
		g.applyStaticFriction(downBody, externalForceBody, normalForceMag, &totalForce, &totalMoment)
	}

	g.updateSteering(downBody, externalForceBody)
	return totalForce, totalMoment, crashed
}

// applyRollingFriction applies friction along the surface-plane
// projection of each point's velocity, with the coefficient selected
// by rolling/braked/scuffed state. Scuffing (a significant lateral
// velocity component) uses the static coefficient, since tires do not
// skid laterally in normal operation.
func (g *Gear) applyRollingFriction(inputs map[string]ContactInput, normalForceMag map[string]float64, totalForce, totalMoment *geo.Vector3) {
	for _, p := range g.Points {
		if !p.IsGear {
			continue
		}
		mag, ok := normalForceMag[p.NameStr]
		if !ok || mag <= 0 {
			continue
		}
		in := inputs[p.NameStr]
		planar := projectOntoPlane(in.PointVelocityBody, in.SurfaceNormalBody)
		speed := planar.Magnitude()
		if speed < 1e-9 {
			continue
		}
		dir := planar.Scale(-1 / speed)

		mu := p.RollingMu
		lateral, forward := decomposeLateralForward(planar)
		switch {
		case p.BrakeCmd > 0:
			mu = p.BrakedMu
		case math.Abs(lateral) > math.Abs(forward):
			mu = p.StaticMu
		}

		force := dir.Scale(mu * mag)
		*totalForce = totalForce.Add(force)
		*totalMoment = totalMoment.Add(p.PositionBody.Cross(force))
	}
}

// applyStaticFriction handles the at-rest case: friction opposes the
// in-plane external force up to each point's static limit; if total
// available friction can't cancel it the vehicle starts to roll and
// kinetic coefficients are used instead.
func (g *Gear) applyStaticFriction(downBody, externalForceBody geo.Vector3, normalForceMag map[string]float64, totalForce, totalMoment *geo.Vector3) {
	fPlanar := projectOntoPlane(externalForceBody, downBody)
	fMag := fPlanar.Magnitude()
	if fMag < 1e-9 {
		return
	}
	fHat := fPlanar.Scale(-1 / fMag)

	maxStatic := 0.0
	for _, p := range g.Points {
		if !p.IsGear {
			continue
		}
		if mag, ok := normalForceMag[p.NameStr]; ok {
			maxStatic += math.Abs(p.StaticMu * mag)
		}
	}

	if maxStatic < fMag {
		// Step 4 continued: breaks static friction, re-sum with
		// kinetic coefficients.
		kinetic := 0.0
		for _, p := range g.Points {
			if !p.IsGear {
				continue
			}
			if mag, ok := normalForceMag[p.NameStr]; ok {
				kinetic += math.Abs(p.KineticMu * mag)
			}
		}
		force := fHat.Scale(kinetic)
		*totalForce = totalForce.Add(force)

		if kinetic > 0 {
			scale := fMag / kinetic
			*totalMoment = geo.Vector3{X: 0, Y: totalMoment.Y * scale, Z: 0}
		} else {
			*totalMoment = geo.Vector3{}
		}
		return
	}

	// Friction exactly cancels F in the plane.
	force := fHat.Scale(fMag)
	*totalForce = totalForce.Add(force)
	*totalMoment = geo.Vector3{X: 0, Y: totalMoment.Y, Z: 0}
}

// updateSteering tracks the nose-gear control handle unless the external
// force has any in-plane lateral component (above 1e-6 N), in which case
// the effective angle follows that force's in-plane direction, clamped to
// +/-90 degrees.
func (g *Gear) updateSteering(downBody, externalForceBody geo.Vector3) {
	planar := projectOntoPlane(externalForceBody, downBody)
	lateral, forward := decomposeLateralForward(planar)
	lateralForceApplied := math.Abs(lateral) > 1e-6

	for _, p := range g.Points {
		if !p.IsNoseGear {
			continue
		}
		if !lateralForceApplied {
			p.SteeringAngleRad = p.SteeringHandleRad
			continue
		}
		angle := math.Atan2(lateral, forward)
		p.SteeringAngleRad = clampAbs(angle, math.Pi/2)
	}
}

func projectOntoPlane(v, normal geo.Vector3) geo.Vector3 {
	n := normal.Normalize()
	return v.Sub(n.Scale(v.Dot(n)))
}

// decomposeLateralForward splits a planar vector into body-Y (lateral)
// and body-X (forward) components, an approximation adequate once the
// plane has already been projected out of the vertical axis.
func decomposeLateralForward(planar geo.Vector3) (lateral, forward float64) {
	return planar.Y, planar.X
}

func clampAbs(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
