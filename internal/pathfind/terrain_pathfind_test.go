package pathfind

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/geo"
	"aerocore/internal/terrain"
)

func TestTerrainPathFinderFlagsSteepSlopeImpassable(t *testing.T) {
	g := NewGrid(0, 1, 0, 1, 0.1, 1.0, geo.Spherical)

	steepSampler := slopeSampler{slopeRad: math.Pi / 3}
	tpf := NewTerrainPathFinder(g, steepSampler, math.Pi/6)

	for _, n := range tpf.Nodes {
		require.Equal(t, Impassable, n.Weight)
	}
}

func TestTerrainPathFinderLeavesFlatTerrainPassable(t *testing.T) {
	g := NewGrid(0, 1, 0, 1, 0.1, 1.0, geo.Spherical)
	tpf := NewTerrainPathFinder(g, terrain.Flat{ElevationMSL: 100}, math.Pi/6)

	for _, n := range tpf.Nodes {
		require.NotEqual(t, Impassable, n.Weight)
		require.InDelta(t, 0, n.NormalAngle, 1e-9)
		require.Equal(t, 100.0, n.Loc.AltM)
	}
}

// slopeSampler fakes a constant-slope surface by tilting the normal a fixed
// angle off vertical.
type slopeSampler struct{ slopeRad float64 }

func (s slopeSampler) ElevationM(_, _ float64) float64 { return 0 }

func (s slopeSampler) NormalNED(_, _ float64) (north, east, down float64) {
	return math.Sin(s.slopeRad), 0, -math.Cos(s.slopeRad)
}
