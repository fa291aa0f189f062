// Package pathfind implements PathFinder (weighted lat/lon grid) and
// TerrainPathFinder (the same grid plus terrain slope sentinels and RQT
// mesh reduction).
package pathfind

import (
	"math"

	"aerocore/internal/geo"
)

// Impassable is the sentinel weight that excludes a node from every path.
const Impassable = math.MaxFloat64

// Node is a PathFinder grid node: integer grid coordinates, base/current
// weight, geo-location, a marked flag used by RQT reduction, and an
// undirected neighbor list. Invariant: Weight >= BaseWeight, enforced by
// RecalculateWeights.
type Node struct {
	X, Y        int
	BaseWeight  float64
	Weight      float64
	Loc         geo.Point
	Marked      bool
	Neighbors   []int // indices into the owning Grid's Nodes slice
	NetworkIdx  int   // index into Nodes; stable across RecalculateWeights, unstable across RQT reduction
	NormalAngle float64
}

// Edge is an undirected connection between two nodes, with length equal to
// the great-circle distance between endpoints.
type Edge struct {
	A, B   int
	Length float64
}
