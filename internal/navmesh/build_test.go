package navmesh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/geo"
	"aerocore/internal/zone"
)

func TestBuildMeshWithNoZonesKeepsEveryCell(t *testing.T) {
	m := BuildMesh(0, 1, 0, 1, 0.5, nil, geo.Spherical)
	// A 2x2 grid of squares, two triangles each, none discarded or
	// tessellated (no zones to react to).
	require.Len(t, m.Cells, 8)
}

func TestAdjacentCellsShareTwoCollinearEndpoints(t *testing.T) {
	m := BuildMesh(0, 1, 0, 1, 0.5, nil, geo.Spherical)
	for _, c := range m.Cells {
		for side := 0; side < 3; side++ {
			nb := c.Neighbors[side]
			if nb == nil {
				continue
			}
			a, b := c.side(side)
			shared := 0
			for _, v := range nb.vertices() {
				if pointOnSegment(a, b, v) {
					shared++
				}
			}
			require.GreaterOrEqual(t, shared, 2, "neighbor must share two collinear endpoints")
		}
	}
}

func TestCellFullyInsideZoneIsDiscarded(t *testing.T) {
	z := &zone.Definition{
		NameStr: "blocker",
		Shape:   zone.Circle,
		Frame:   zone.Internal,
		RefLat:  0.25, RefLon: 0.25,
		MinRadiusM: 0, MaxRadiusM: 1e7, // large enough to cover the whole first square
		MinAltM: -1e6, MaxAltM: 1e6,
	}
	m := BuildMesh(0, 1, 0, 1, 1.0, []zone.Zone{z}, geo.Spherical)
	require.Empty(t, m.Cells, "a zone covering the entire rectangle discards every cell")
}

func TestFindPathReturnsEmptyWhenEndpointOutsideMesh(t *testing.T) {
	m := BuildMesh(0, 1, 0, 1, 0.5, nil, geo.Spherical)
	path := m.FindPath(geo.New(0.25, 0.25, 0), geo.New(10, 10, 0), geo.Spherical)
	require.Nil(t, path)
}

func TestFindPathConnectsEndpointsWithinMesh(t *testing.T) {
	m := BuildMesh(0, 1, 0, 1, 0.25, nil, geo.Spherical)
	path := m.FindPath(geo.New(0.05, 0.05, 100), geo.New(0.95, 0.95, 200), geo.Spherical)
	require.NotEmpty(t, path)
	require.InDelta(t, 100, path[0].AltM, 1e-6)
	require.InDelta(t, 200, path[len(path)-1].AltM, 1e-6)
}
