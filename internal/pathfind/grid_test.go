package pathfind

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/geo"
)

func smallGrid() *Grid {
	return NewGrid(0, 1, 0, 1, 0.1, 1.0, geo.Spherical)
}

func TestNewGridDimensions(t *testing.T) {
	g := smallGrid()
	require.Equal(t, 10, g.Cols)
	require.Equal(t, 10, g.Rows)
	require.Len(t, g.Nodes, 100)
}

func TestEightConnectedNeighbors(t *testing.T) {
	g := smallGrid()
	// An interior node has all eight neighbors; a corner node has three.
	interior := g.Nodes[5*g.Cols+5]
	require.Len(t, interior.Neighbors, 8)

	corner := g.Nodes[0]
	require.Len(t, corner.Neighbors, 3)
}

func TestFindPathReachesDestination(t *testing.T) {
	g := smallGrid()
	start := geo.New(0.05, 0.05, 500)
	end := geo.New(0.95, 0.95, 500)

	path := g.FindPath(start, end)
	require.NotEmpty(t, path)
	require.Equal(t, start.AltM, path[0].AltM)
	require.Equal(t, start.AltM, path[len(path)-1].AltM, "altitude is inherited from the start point, never from the path")
}

func TestImpassableNodeNeverAppearsInPath(t *testing.T) {
	g := smallGrid()
	for col := 0; col < g.Cols; col++ {
		g.Nodes[5*g.Cols+col].Weight = Impassable
	}

	start := geo.New(0.05, 0.05, 0)
	end := geo.New(0.95, 0.95, 0)
	path := g.FindPath(start, end)

	for _, p := range path {
		for col := 0; col < g.Cols; col++ {
			blocked := g.Nodes[5*g.Cols+col]
			require.False(t, p.LatDeg == blocked.Loc.LatDeg && p.LonDeg == blocked.Loc.LonDeg)
		}
	}
}

func TestRecalculateWeightsSkipsImpassableNodes(t *testing.T) {
	g := smallGrid()
	target := g.Nodes[0]
	target.Weight = Impassable

	g.RecalculateWeights()
	require.Equal(t, Impassable, target.Weight)
}

func TestFindClosestPointOnEdgeFallsBackToInputWhenUnreachable(t *testing.T) {
	g := smallGrid()
	for _, n := range g.Nodes {
		n.Weight = Impassable
	}
	p := geo.New(0.5, 0.5, 0)
	got := g.FindClosestPointOnEdge(p)
	require.Equal(t, p, got)
}
