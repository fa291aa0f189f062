package pathfind

import (
	"math"

	"aerocore/internal/terrain"
)

// TerrainPathFinder is Grid plus per-node terrain sampling and RQT mesh
// reduction.
type TerrainPathFinder struct {
	*Grid
	Sampler     terrain.Sampler
	MaxSlopeRad float64
}

// NewTerrainPathFinder samples elevation at every node's centroid, stores
// it as the node's altitude, computes the surface-normal angle against
// local vertical, and flags any node whose normal exceeds maxSlopeRad as
// impassable, giving it the sentinel impassable weight.
func NewTerrainPathFinder(g *Grid, sampler terrain.Sampler, maxSlopeRad float64) *TerrainPathFinder {
	tpf := &TerrainPathFinder{Grid: g, Sampler: sampler, MaxSlopeRad: maxSlopeRad}
	tpf.resample()
	return tpf
}

// resample re-samples terrain and slope at every node; call after the
// terrain sampler's data changes.
func (t *TerrainPathFinder) resample() {
	for _, n := range t.Nodes {
		elev := t.Sampler.ElevationM(n.Loc.LatDeg, n.Loc.LonDeg)
		n.Loc.AltM = elev

		north, east, down := t.Sampler.NormalNED(n.Loc.LatDeg, n.Loc.LonDeg)
		n.NormalAngle = normalAngleFromDown(north, east, down)
		if n.NormalAngle > t.MaxSlopeRad {
			n.Weight = Impassable
		} else if n.Weight == Impassable {
			// Slope has shallowed since the last resample; only clear the
			// sentinel if nothing else (RecalculateWeights) re-applies it.
			n.Weight = n.BaseWeight
		}
	}
}

// normalAngleFromDown returns the angle in radians between a surface
// normal (expressed in NED, north/east/down) and the local up axis
// (0,0,-1), i.e. the slope; zero for a perfectly level surface.
func normalAngleFromDown(north, east, down float64) float64 {
	// The normal returned by terrain.Sampler points up (down component
	// negative for level ground); the up axis is (0,0,-1), so cos(angle)
	// is the negated, normalized down component.
	mag := math.Sqrt(north*north + east*east + down*down)
	if mag == 0 {
		return 0
	}
	cosAngleFromUp := -down / mag
	if cosAngleFromUp > 1 {
		cosAngleFromUp = 1
	}
	if cosAngleFromUp < -1 {
		cosAngleFromUp = -1
	}
	return math.Acos(cosAngleFromUp)
}
