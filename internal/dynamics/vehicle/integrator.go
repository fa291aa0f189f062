// Package vehicle implements Vehicle: the top-level composition of
// FlightControlSystem, PropulsionSystem, aero, landing gear, mass
// properties, and an Integrator into one per-step update, plus subobject
// jettison.
package vehicle

import (
	"gonum.org/v1/gonum/mat"

	"aerocore/internal/dynamics/kinematics"
	"aerocore/internal/dynamics/mass"
	"aerocore/internal/geo"
	"aerocore/internal/simclock"
)

// Integrator advances a KinematicState by one step given constant body-
// frame force/moment and the vehicle's current mass properties.
type Integrator interface {
	Step(state *kinematics.State, mp mass.MassProperties, forceBody, momentBody geo.Vector3, dtNanos simclock.Nanos, body geo.CentralBody)
}

// RK4Integrator is the true RK4: the kinematic ODE (NED-frame
// displacement, body velocity, orientation quaternion, body rates) is
// integrated with four re-evaluated stages per step, holding force/moment
// constant across the substeps, with angular acceleration from the full
// Euler rigid-body rotation equation rather than a constant-angular-
// acceleration approximation.
type RK4Integrator struct{}

// phase is the integrated state vector: NED displacement from the step's
// starting position, body velocity, orientation quaternion, and body
// rates.
type phase struct {
	offsetNED geo.Vector3
	velBody   geo.Vector3
	quat      kinematics.Quaternion
	rates     geo.Vector3
}

func (p phase) add(o phase) phase {
	return phase{
		offsetNED: p.offsetNED.Add(o.offsetNED),
		velBody:   p.velBody.Add(o.velBody),
		quat:      p.quat.Add(o.quat),
		rates:     p.rates.Add(o.rates),
	}
}

func (p phase) scale(s float64) phase {
	return phase{
		offsetNED: p.offsetNED.Scale(s),
		velBody:   p.velBody.Scale(s),
		quat:      p.quat.Scale(s),
		rates:     p.rates.Scale(s),
	}
}

// Step implements the classic RK4 update k1..k4 over phase, holding
// forceBody/momentBody/mass/inertia fixed across the four stages, and
// produces new position, velocity, orientation, and body rates.
func (RK4Integrator) Step(state *kinematics.State, mp mass.MassProperties, forceBody, momentBody geo.Vector3, dtNanos simclock.Nanos, body geo.CentralBody) {
	if dtNanos.IsZero() {
		return
	}
	dt := dtNanos.Seconds()

	massKg := mp.CurrentMassKg
	if massKg <= 0 {
		massKg = 1
	}
	inertia := mp.CurrentInertia

	deriv := func(s phase) phase {
		accelBody := forceBody.Scale(1 / massKg).Sub(s.rates.Cross(s.velBody))
		return phase{
			offsetNED: s.quat.RotateVector(s.velBody),
			velBody:   accelBody,
			quat:      s.quat.Derivative(s.rates),
			rates:     angularAccel(inertia, momentBody, s.rates),
		}
	}

	s0 := phase{velBody: state.VelocityBody, quat: state.Orientation, rates: state.BodyRates}

	k1 := deriv(s0)
	k2 := deriv(s0.add(k1.scale(dt / 2)))
	k3 := deriv(s0.add(k2.scale(dt / 2)))
	k4 := deriv(s0.add(k3.scale(dt)))

	delta := k1.add(k2.scale(2)).add(k3.scale(2)).add(k4).scale(dt / 6)
	s1 := s0.add(delta)
	s1.quat = s1.quat.Normalize()

	oldWCS := state.WCS
	state.Position = geo.FromNED(s1.offsetNED, state.Position, body)
	state.WCS = state.Position.ToWCS(body)
	state.VelocityBody = s1.velBody
	state.Orientation = s1.quat
	state.BodyRates = s1.rates
	state.VelocityNED = s1.quat.RotateVector(s1.velBody)
	if dt > 0 {
		state.VelocityWCS = state.WCS.Sub(oldWCS).Scale(1 / dt)
	}
}

// angularAccel solves Euler's rigid-body rotation equation
// I * omegaDot = M - omega x (I * omega) for omegaDot via gonum's linear
// solve.
func angularAccel(inertia mass.Inertia, momentBody, rates geo.Vector3) geo.Vector3 {
	omega := mat.NewVecDense(3, []float64{rates.X, rates.Y, rates.Z})
	var iOmega mat.VecDense
	iOmega.MulVec(inertia.Matrix(), omega)

	gyroscopic := rates.Cross(geo.Vector3{X: iOmega.AtVec(0), Y: iOmega.AtVec(1), Z: iOmega.AtVec(2)})
	rhs := momentBody.Sub(gyroscopic)
	rhsVec := mat.NewVecDense(3, []float64{rhs.X, rhs.Y, rhs.Z})

	var alpha mat.VecDense
	if err := alpha.SolveVec(inertia.Matrix(), rhsVec); err != nil {
		return geo.Vector3{}
	}
	return geo.Vector3{X: alpha.AtVec(0), Y: alpha.AtVec(1), Z: alpha.AtVec(2)}
}
