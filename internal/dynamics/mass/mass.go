// Package mass implements additive mass/CG/inertia composition with
// parallel-axis-theorem combination, recursively folding child
// components (fuel tanks, subobjects) into a parent's current mass
// properties. Inertia math is done with gonum.org/v1/gonum/mat, since a
// 3x3 symmetric tensor sum and parallel-axis shift is exactly the kind
// of small linear algebra gonum is built for.
package mass

import (
	"gonum.org/v1/gonum/mat"

	"aerocore/internal/geo"
)

// Inertia is a 3x3 moment-of-inertia tensor about a declared point,
// represented as a symmetric gonum matrix.
type Inertia struct {
	m *mat.Dense
}

// NewInertia builds an Inertia tensor from its six independent
// components, as a full symmetric tensor so parallel-axis translation
// produces correct cross terms.
func NewInertia(ixx, iyy, izz, ixy, ixz, iyz float64) Inertia {
	m := mat.NewDense(3, 3, []float64{
		ixx, -ixy, -ixz,
		-ixy, iyy, -iyz,
		-ixz, -iyz, izz,
	})
	return Inertia{m: m}
}

// Zero is the zero inertia tensor.
func Zero() Inertia { return NewInertia(0, 0, 0, 0, 0, 0) }

// Diag returns (Ixx, Iyy, Izz) off the matrix diagonal, ignoring products.
func (i Inertia) Diag() (ixx, iyy, izz float64) {
	if i.m == nil {
		return 0, 0, 0
	}
	return i.m.At(0, 0), i.m.At(1, 1), i.m.At(2, 2)
}

// Matrix exposes the underlying gonum matrix for callers that need raw
// linear algebra (e.g. the integrator's I^-1 M angular-acceleration
// solve).
func (i Inertia) Matrix() mat.Matrix { return i.m }

// Add sums two tensors already expressed about the same point.
func (i Inertia) Add(o Inertia) Inertia {
	if i.m == nil {
		return o
	}
	if o.m == nil {
		return i
	}
	var sum mat.Dense
	sum.Add(i.m, o.m)
	return Inertia{m: &sum}
}

// ParallelAxis translates a tensor computed about a component's own CG
// to one computed about a reference point offset by d = (refPoint - CG),
// per I' = I + m(|d|^2 Id3 - d d^T), combining inertia tensors about the
// combined CG.
func ParallelAxis(i Inertia, massKg float64, d geo.Vector3) Inertia {
	if i.m == nil {
		i = Zero()
	}
	d2 := d.Dot(d)
	shift := mat.NewDense(3, 3, []float64{
		d2 - d.X*d.X, -d.X * d.Y, -d.X * d.Z,
		-d.Y * d.X, d2 - d.Y*d.Y, -d.Y * d.Z,
		-d.Z * d.X, -d.Z * d.Y, d2 - d.Z*d.Z,
	})
	shift.Scale(massKg, shift)
	var out mat.Dense
	out.Add(i.m, shift)
	return Inertia{m: &out}
}

// Component is one mass contributor: a base structure, a fuel tank, a
// subobject, anything with a mass, a CG (in the parent's reference
// frame), and an inertia tensor about its own CG.
type Component struct {
	MassKg  float64
	CG      geo.Vector3
	Inertia Inertia
}

// Combine adds an arbitrary set of components: total mass sums, CG is
// the mass-weighted average, and each component's inertia is
// parallel-axis-translated to the combined CG before summing.
func Combine(components []Component) (massKg float64, cg geo.Vector3, inertia Inertia) {
	for _, c := range components {
		massKg += c.MassKg
		cg = cg.Add(c.CG.Scale(c.MassKg))
	}
	if massKg != 0 {
		cg = cg.Scale(1 / massKg)
	}
	inertia = Zero()
	for _, c := range components {
		d := cg.Sub(c.CG)
		inertia = inertia.Add(ParallelAxis(c.Inertia, c.MassKg, d))
	}
	return massKg, cg, inertia
}

// MassProperties is a base configuration plus a current configuration
// recomputed from the base and a set of mutable children (fuel tanks,
// subobjects).
type MassProperties struct {
	BaseMassKg float64
	BaseCG     geo.Vector3
	BaseInertia Inertia

	CurrentMassKg  float64
	CurrentCG      geo.Vector3
	CurrentInertia Inertia
}

// SetBase assigns the immutable base configuration.
func (mp *MassProperties) SetBase(massKg float64, cg geo.Vector3, inertia Inertia) {
	mp.BaseMassKg, mp.BaseCG, mp.BaseInertia = massKg, cg, inertia
}

// SetCurrentToBase resets the current configuration to the base one,
// used at the start of each CalculateCurrentMassProperties pass before
// children are folded in.
func (mp *MassProperties) SetCurrentToBase() {
	mp.CurrentMassKg = mp.BaseMassKg
	mp.CurrentCG = mp.BaseCG
	mp.CurrentInertia = mp.BaseInertia
}

// CalculateCurrentMassProperties recomputes current mass/CG/inertia as
// base plus the sum over children. Fuel and propellant mass changes
// update the parent CG on the next call.
func (mp *MassProperties) CalculateCurrentMassProperties(children []Component) {
	all := append([]Component{{MassKg: mp.BaseMassKg, CG: mp.BaseCG, Inertia: mp.BaseInertia}}, children...)
	mp.CurrentMassKg, mp.CurrentCG, mp.CurrentInertia = Combine(all)
}

// AccumulateFromChild recursively folds a subobject's current mass
// properties, expressed at subObjectCG in the parent's frame, into the
// running children list.
func AccumulateFromChild(children []Component, subObjectCG geo.Vector3, sub *MassProperties) []Component {
	return append(children, Component{
		MassKg:  sub.CurrentMassKg,
		CG:      subObjectCG,
		Inertia: sub.CurrentInertia,
	})
}
