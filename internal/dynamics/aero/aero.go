// Package aero implements AeroCore and AeroMovable: per-component lift/
// drag/side-force and moment contributions that the Vehicle sums, plus
// three bounded-bisection helper queries (alpha for a target pitch
// g-load, beta for a target yaw g-load, stick-back for zero net
// pitching moment). Each component is a list of pluggable per-axis
// coefficient functions, so subobjects and movable surfaces compose the
// same way the base airframe does.
package aero

import (
	"math"

	"aerocore/internal/geo"
)

// CoefficientFn evaluates one non-dimensional aerodynamic coefficient
// given the current flight condition and every named surface deflection
// (radians), as a typed Go closure instead of an expression tree.
type CoefficientFn func(alpha, beta, mach float64, bodyRates geo.Vector3, surfaces map[string]float64) float64

func zeroFn(float64, float64, float64, geo.Vector3, map[string]float64) float64 { return 0 }

// AeroCore is the base airframe's aerodynamic contributor: reference
// geometry plus one coefficient function per force/moment axis.
// Reference area and wing area are component properties.
type AeroCore struct {
	NameStr      string
	WingAreaM2   float64
	WingSpanM    float64
	ChordM       float64
	ReferencePt  geo.Vector3 // point the moment functions are declared about

	CL, CD, CY     CoefficientFn
	ClRoll, Cm, Cn CoefficientFn
}

// NewAeroCore fills unset coefficient functions with a zero contributor
// so callers need only specify the axes they model.
func NewAeroCore(name string, wingAreaM2, wingSpanM, chordM float64, refPt geo.Vector3) *AeroCore {
	return &AeroCore{
		NameStr: name, WingAreaM2: wingAreaM2, WingSpanM: wingSpanM, ChordM: chordM, ReferencePt: refPt,
		CL: zeroFn, CD: zeroFn, CY: zeroFn, ClRoll: zeroFn, Cm: zeroFn, Cn: zeroFn,
	}
}

func (c *AeroCore) Name() string                { return c.NameStr }
func (c *AeroCore) ReferenceAreaM2() float64    { return c.WingAreaM2 }
func (c *AeroCore) ReferencePoint() geo.Vector3 { return c.ReferencePt }

// Forces evaluates this component's lift/drag/side-force magnitudes (N)
// and its moment vector about ReferencePoint (N*m) at the given flight
// condition.
func (c *AeroCore) Forces(alpha, beta, mach float64, bodyRates geo.Vector3, qbar float64, surfaces map[string]float64) (lift, drag, side float64, moment geo.Vector3) {
	qS := qbar * c.WingAreaM2
	lift = qS * c.CL(alpha, beta, mach, bodyRates, surfaces)
	drag = qS * c.CD(alpha, beta, mach, bodyRates, surfaces)
	side = qS * c.CY(alpha, beta, mach, bodyRates, surfaces)
	moment = geo.Vector3{
		X: qS * c.WingSpanM * c.ClRoll(alpha, beta, mach, bodyRates, surfaces),
		Y: qS * c.ChordM * c.Cm(alpha, beta, mach, bodyRates, surfaces),
		Z: qS * c.WingSpanM * c.Cn(alpha, beta, mach, bodyRates, surfaces),
	}
	return lift, drag, side, moment
}

// AeroMovable is a movable-surface aerodynamic contributor (flap,
// aileron, stabilator): the same per-axis evaluation as AeroCore, bound
// to the named deflection input it reacts to.
type AeroMovable struct {
	AeroCore
	SurfaceInput string // key into the `surfaces` map passed to Forces
}

// NewAeroMovable wraps an AeroCore contributor with the surface input
// name it is driven by, for documentation/lookup purposes; the
// coefficient functions themselves read surfaces[SurfaceInput] directly.
func NewAeroMovable(name, surfaceInput string, wingAreaM2, wingSpanM, chordM float64, refPt geo.Vector3) *AeroMovable {
	return &AeroMovable{AeroCore: *NewAeroCore(name, wingAreaM2, wingSpanM, chordM, refPt), SurfaceInput: surfaceInput}
}

// Component is any aero contributor the Vehicle can sum: AeroCore and
// AeroMovable both satisfy it.
type Component interface {
	Name() string
	ReferenceAreaM2() float64
	ReferencePoint() geo.Vector3
	Forces(alpha, beta, mach float64, bodyRates geo.Vector3, qbar float64, surfaces map[string]float64) (lift, drag, side float64, moment geo.Vector3)
}

// Sum accumulates every component's contribution into the vehicle's
// force and moment totals: it sums each component's force into the
// body frame (lift along -Z, drag along -X, side along +Y, the usual
// NED sign convention) and every moment, transported from each
// component's own reference point to cgBody via
// M_cg = M_ref + (ref - cg) x F.
func Sum(components []Component, alpha, beta, mach float64, bodyRates geo.Vector3, qbar float64, surfaces map[string]float64, cgBody geo.Vector3) (totalForce, totalMoment geo.Vector3, clArea, cdArea, cmArea float64) {
	for _, comp := range components {
		lift, drag, side, moment := comp.Forces(alpha, beta, mach, bodyRates, qbar, surfaces)
		force := geo.Vector3{X: -drag, Y: side, Z: -lift}
		totalForce = totalForce.Add(force)

		armToCG := comp.ReferencePoint().Sub(cgBody)
		transported := moment.Add(armToCG.Cross(force))
		totalMoment = totalMoment.Add(transported)

		if qbar > 0 {
			clArea += lift / qbar
			cdArea += drag / qbar
			cmArea += transported.Y / qbar
		}
	}
	return totalForce, totalMoment, clArea, cdArea, cmArea
}

// bisectZero runs a bounded bisection search for a zero of f over
// [lo, hi]. If f does not change sign across the bracket, control
// authority is exhausted, so it clamps to whichever endpoint is closer
// to zero and reports clamped=true.
func bisectZero(f func(float64) float64, lo, hi float64, maxIter int) (x float64, clamped bool) {
	flo, fhi := f(lo), f(hi)
	if flo == 0 {
		return lo, false
	}
	if fhi == 0 {
		return hi, false
	}
	if (flo > 0) == (fhi > 0) {
		if math.Abs(flo) <= math.Abs(fhi) {
			return lo, true
		}
		return hi, true
	}
	for i := 0; i < maxIter; i++ {
		mid := (lo + hi) / 2
		fm := f(mid)
		if fm == 0 {
			return mid, false
		}
		if (fm > 0) == (flo > 0) {
			lo, flo = mid, fm
		} else {
			hi, fhi = mid, fm
		}
	}
	return (lo + hi) / 2, false
}

// AlphaForPitchGLoad finds the alpha producing targetLiftN of lift,
// bisecting liftAt over [alphaMin, alphaMax].
func AlphaForPitchGLoad(liftAt func(alpha float64) float64, targetLiftN, alphaMin, alphaMax float64) (alpha float64, clamped bool) {
	return bisectZero(func(a float64) float64 { return liftAt(a) - targetLiftN }, alphaMin, alphaMax, 40)
}

// BetaForYawGLoad finds the beta producing targetSideN of side force.
func BetaForYawGLoad(sideAt func(beta float64) float64, targetSideN, betaMin, betaMax float64) (beta float64, clamped bool) {
	return bisectZero(func(b float64) float64 { return sideAt(b) - targetSideN }, betaMin, betaMax, 40)
}

// StickForZeroPitchMoment finds the stick-back deflection yielding net
// zero pitching moment at a fixed (alpha, Mach).
func StickForZeroPitchMoment(pitchMomentAt func(stick float64) float64, stickMin, stickMax float64) (stick float64, clamped bool) {
	return bisectZero(pitchMomentAt, stickMin, stickMax, 40)
}
