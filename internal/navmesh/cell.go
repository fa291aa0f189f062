// Package navmesh implements a triangulated mesh over a lat/lon rectangle,
// refined against registered zones by Restricted Quadtree-style
// tessellation, with adjacency-based pathfinding and line-of-sight
// smoothing.
package navmesh

import (
	"aerocore/internal/geo"
)

// Cell is a navigation mesh triangle: three vertices, three side
// neighbors, an ID, tessellation level, pathing weight, and per-category
// modifiers. Invariant: adjacent cells share two collinear endpoints on one
// side (checked by computeAdjacency, verified by the package tests).
// Coordinates are treated as a local planar (lat,lon) frame, matching the
// scale at which this mesh operates, the same simplification the polygon
// containment in internal/zone makes for its own local frame.
type Cell struct {
	ID        int
	A, B, C   geo.Point
	Neighbors [3]*Cell // side0: A-B, side1: B-C, side2: C-A
	Level     int
	Weight    float64
	Modifiers map[string]float64
}

// Centroid returns the cell's triangle centroid.
func (c *Cell) Centroid() geo.Point {
	return geo.Point{
		LatDeg: (c.A.LatDeg + c.B.LatDeg + c.C.LatDeg) / 3,
		LonDeg: (c.A.LonDeg + c.B.LonDeg + c.C.LonDeg) / 3,
		AltM:   (c.A.AltM + c.B.AltM + c.C.AltM) / 3,
	}
}

func (c *Cell) side(i int) (geo.Point, geo.Point) {
	switch i {
	case 0:
		return c.A, c.B
	case 1:
		return c.B, c.C
	default:
		return c.C, c.A
	}
}

// vertices returns the cell's three corners in winding order.
func (c *Cell) vertices() [3]geo.Point { return [3]geo.Point{c.A, c.B, c.C} }

func sign(p1, p2, p3 geo.Point) float64 {
	return (p1.LatDeg-p3.LatDeg)*(p2.LonDeg-p3.LonDeg) - (p2.LatDeg-p3.LatDeg)*(p1.LonDeg-p3.LonDeg)
}

// containsPoint is a planar point-in-triangle test in the (lat,lon) frame.
func (c *Cell) containsPoint(p geo.Point) bool {
	d1 := sign(p, c.A, c.B)
	d2 := sign(p, c.B, c.C)
	d3 := sign(p, c.C, c.A)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

const collinearEps = 1e-9

func approxEqual(a, b geo.Point) bool {
	return abs(a.LatDeg-b.LatDeg) < 1e-7 && abs(a.LonDeg-b.LonDeg) < 1e-7
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// pointOnSegment reports whether p lies on segment a-b (within
// collinearEps), used both for "on-edge" containment tie-breaks and for
// the adjacency check ("share two collinear endpoints on one side").
func pointOnSegment(a, b, p geo.Point) bool {
	cross := (b.LatDeg-a.LatDeg)*(p.LonDeg-a.LonDeg) - (b.LonDeg-a.LonDeg)*(p.LatDeg-a.LatDeg)
	if abs(cross) > collinearEps {
		return false
	}
	dot := (p.LatDeg-a.LatDeg)*(b.LatDeg-a.LatDeg) + (p.LonDeg-a.LonDeg)*(b.LonDeg-a.LonDeg)
	if dot < 0 {
		return false
	}
	sq := (b.LatDeg-a.LatDeg)*(b.LatDeg-a.LatDeg) + (b.LonDeg-a.LonDeg)*(b.LonDeg-a.LonDeg)
	return dot <= sq
}

// Mesh owns the tessellated cell set and the adjacency graph used for
// FindPath.
type Mesh struct {
	Cells []*Cell
}
