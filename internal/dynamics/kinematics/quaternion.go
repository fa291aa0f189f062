// Package kinematics implements a vehicle's kinematic state: position,
// WCS/NED/body velocity, DCM + unit quaternion orientation, body rates,
// and the derived flight parameters (alpha, beta, Mach, airspeeds,
// dynamic pressure, load factors) recomputed from primitives after
// every integration step. The DCM is also exposed via
// gonum.org/v1/gonum/mat, derived fresh from the quaternion so the two
// representations stay in sync from one source of truth.
package kinematics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"aerocore/internal/geo"
)

// Quaternion is a unit rotation quaternion, body-frame-relative-to-NED
// by convention.
type Quaternion struct {
	W, X, Y, Z float64
}

// Identity is the no-rotation quaternion.
func Identity() Quaternion { return Quaternion{W: 1} }

// FromEuler builds a quaternion from roll/pitch/yaw in radians.
func FromEuler(roll, pitch, yaw float64) Quaternion {
	cr, sr := math.Cos(roll*0.5), math.Sin(roll*0.5)
	cp, sp := math.Cos(pitch*0.5), math.Sin(pitch*0.5)
	cy, sy := math.Cos(yaw*0.5), math.Sin(yaw*0.5)
	return Quaternion{
		W: cr*cp*cy + sr*sp*sy,
		X: sr*cp*cy - cr*sp*sy,
		Y: cr*sp*cy + sr*cp*sy,
		Z: cr*cp*sy - sr*sp*cy,
	}
}

// ToEuler is the inverse of FromEuler, with the gimbal-lock clamp at
// |sin(pitch)| >= 1.
func (q Quaternion) ToEuler() (roll, pitch, yaw float64) {
	sinrCosp := 2 * (q.W*q.X + q.Y*q.Z)
	cosrCosp := 1 - 2*(q.X*q.X+q.Y*q.Y)
	roll = math.Atan2(sinrCosp, cosrCosp)

	sinp := 2 * (q.W*q.Y - q.Z*q.X)
	switch {
	case sinp >= 1:
		pitch = math.Pi / 2
	case sinp <= -1:
		pitch = -math.Pi / 2
	default:
		pitch = math.Asin(sinp)
	}

	sinyCosp := 2 * (q.W*q.Z + q.X*q.Y)
	cosyCosp := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	yaw = math.Atan2(sinyCosp, cosyCosp)
	return roll, pitch, yaw
}

func (q Quaternion) Add(o Quaternion) Quaternion {
	return Quaternion{q.W + o.W, q.X + o.X, q.Y + o.Y, q.Z + o.Z}
}

func (q Quaternion) Scale(s float64) Quaternion {
	return Quaternion{q.W * s, q.X * s, q.Y * s, q.Z * s}
}

func (q Quaternion) Normalize() Quaternion {
	n := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if n == 0 {
		return Identity()
	}
	return Quaternion{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{q.W, -q.X, -q.Y, -q.Z}
}

func (q Quaternion) Multiply(o Quaternion) Quaternion {
	return Quaternion{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// RotateVector rotates v by this quaternion (v' = q v q^-1).
func (q Quaternion) RotateVector(v geo.Vector3) geo.Vector3 {
	qv := Quaternion{0, v.X, v.Y, v.Z}
	r := q.Multiply(qv).Multiply(q.Conjugate())
	return geo.Vector3{X: r.X, Y: r.Y, Z: r.Z}
}

// Derivative returns dq/dt = (1/2) q * (0, omega) for body rate omega,
// the quaternion kinematic differential equation the RK4 integrator
// steps.
func (q Quaternion) Derivative(bodyRate geo.Vector3) Quaternion {
	omega := Quaternion{0, bodyRate.X, bodyRate.Y, bodyRate.Z}
	return q.Multiply(omega).Scale(0.5)
}

// DCM returns the direction cosine matrix (body-to-NED rotation, the same
// mapping as RotateVector) this quaternion represents. The DCM and quaternion stay consistent because
// the DCM is always derived fresh from the quaternion rather than
// integrated separately.
func (q Quaternion) DCM() *mat.Dense {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	})
}
