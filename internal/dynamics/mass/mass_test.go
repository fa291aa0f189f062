package mass

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/geo"
)

func TestCombineMassWeightsCG(t *testing.T) {
	a := Component{MassKg: 10, CG: geo.Vector3{X: 0}, Inertia: Zero()}
	b := Component{MassKg: 10, CG: geo.Vector3{X: 2}, Inertia: Zero()}

	totalMass, cg, _ := Combine([]Component{a, b})
	require.InDelta(t, 20, totalMass, 1e-9)
	require.InDelta(t, 1, cg.X, 1e-9)
}

func TestParallelAxisShiftsDiagonal(t *testing.T) {
	i := NewInertia(5, 5, 5, 0, 0, 0)
	shifted := ParallelAxis(i, 2, geo.Vector3{X: 1})
	ixx, iyy, izz := shifted.Diag()
	require.InDelta(t, 5, ixx, 1e-9) // offset along X doesn't add to Ixx
	require.InDelta(t, 7, iyy, 1e-9) // +m*d^2 = 2*1
	require.InDelta(t, 7, izz, 1e-9)
}

func TestCalculateCurrentMassPropertiesIncludesChildren(t *testing.T) {
	mp := &MassProperties{}
	mp.SetBase(100, geo.Vector3{X: 0}, NewInertia(50, 50, 50, 0, 0, 0))

	fuel := Component{MassKg: 20, CG: geo.Vector3{X: -1}, Inertia: Zero()}
	mp.CalculateCurrentMassProperties([]Component{fuel})

	require.InDelta(t, 120, mp.CurrentMassKg, 1e-9)
	require.InDelta(t, -1.0/6.0, mp.CurrentCG.X, 1e-6)
}

func TestAccumulateFromChildAddsSubobject(t *testing.T) {
	sub := &MassProperties{CurrentMassKg: 5, CurrentCG: geo.Vector3{}, CurrentInertia: Zero()}
	children := AccumulateFromChild(nil, geo.Vector3{X: 3}, sub)
	require.Len(t, children, 1)
	require.InDelta(t, 5, children[0].MassKg, 1e-9)
	require.InDelta(t, 3, children[0].CG.X, 1e-9)
}
