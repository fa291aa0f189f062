package pathfind

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/geo"
)

func TestReduceRQTPreservesFlatBoundary(t *testing.T) {
	g := NewGrid(0, 1, 0, 1, 0.1, 1.0, geo.Spherical)
	for _, n := range g.Nodes {
		n.Loc.AltM = 0 // flat terrain
	}

	rg := ReduceRQT(g, 4, 0)

	// Every corner of every 4x4 block must remain marked (spec.md §8
	// scenario 4: "given a flat-terrain square and metric=0, every corner
	// of the declared chunkSize×chunkSize blocks remains marked").
	cornerIdx := map[int]bool{}
	for r0 := 0; r0 < g.Rows-1; r0 += 4 {
		r1 := r0 + 4
		if r1 >= g.Rows {
			r1 = g.Rows - 1
		}
		for c0 := 0; c0 < g.Cols-1; c0 += 4 {
			c1 := c0 + 4
			if c1 >= g.Cols {
				c1 = g.Cols - 1
			}
			cornerIdx[r0*g.Cols+c0] = true
			cornerIdx[r0*g.Cols+c1] = true
			cornerIdx[r1*g.Cols+c0] = true
			cornerIdx[r1*g.Cols+c1] = true
		}
	}

	presentInReduced := map[int]bool{}
	for _, n := range rg.Nodes {
		presentInReduced[n.Y*g.Cols+n.X] = true
	}
	for idx := range cornerIdx {
		require.True(t, presentInReduced[idx], "corner node %d missing from RQT reduction", idx)
	}
}

func TestSaveLoadCacheRoundTrip(t *testing.T) {
	g := NewGrid(0, 1, 0, 1, 0.2, 1.0, geo.Spherical)
	rg := ReduceRQT(g, 4, 0)

	var buf bytes.Buffer
	require.NoError(t, SaveCache(&buf, rg))

	loaded, err := LoadCache(&buf)
	require.NoError(t, err)
	require.Len(t, loaded.Nodes, len(rg.Nodes))
	require.Len(t, loaded.Edges, len(rg.Edges))

	for i, n := range rg.Nodes {
		require.Equal(t, n.X, loaded.Nodes[i].X)
		require.Equal(t, n.Y, loaded.Nodes[i].Y)
		require.InDelta(t, n.Loc.LatDeg, loaded.Nodes[i].Loc.LatDeg, 1e-9)
		require.InDelta(t, n.Loc.LonDeg, loaded.Nodes[i].Loc.LonDeg, 1e-9)
	}
}

func TestTerrainCostFunction(t *testing.T) {
	target := &Node{Weight: 5}
	e := Edge{Length: 10}
	require.Equal(t, 25.0, TerrainCost(e, target))
}
