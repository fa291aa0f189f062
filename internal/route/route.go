// Package route implements a visibility-graph router that threads a path
// between two points while avoiding a collection of polygonal zones.
package route

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/convexhull"
	"github.com/paulmach/orb/planar"

	"aerocore/internal/geo"
	"aerocore/internal/zone"
)

// nudgeDistanceM is how far NearestSafePoint pushes a projected point
// outward past a zone's hull edge.
const nudgeDistanceM = 10.0

// maxSafePointIterations bounds NearestSafePoint's projection loop against
// pathological overlapping-zone configurations that would otherwise spin
// forever.
const maxSafePointIterations = 32

// Finder routes around a set of zones: it only considers zones that are
// internally referenced, in lat/lon, with at least two vertices.
type Finder struct {
	Zones []*zone.Definition
}

// NewFinder filters zones down to the subset Finder can route around: must
// be internally referenced, lat/lon, at least two vertices.
func NewFinder(zones []*zone.Definition) *Finder {
	f := &Finder{}
	for _, z := range zones {
		if z.Shape == zone.Polygon && z.Frame == zone.Internal && len(z.Points) >= 2 {
			f.Zones = append(f.Zones, z)
		}
	}
	return f
}

func toOrb(p geo.Point) orb.Point { return orb.Point{p.LonDeg, p.LatDeg} }

func fromOrb(p orb.Point, altM float64) geo.Point { return geo.New(p[1], p[0], altM) }

func (f *Finder) zonesContaining(p geo.Point) []*zone.Definition {
	var out []*zone.Definition
	for _, z := range f.Zones {
		if z.Contains(p, p, 0, geo.Spherical) {
			out = append(out, z)
		}
	}
	return out
}

// NearestSafePoint handles an endpoint inside any zone: compute the convex
// hull of the union of zones containing it, project the endpoint to the
// nearest hull edge, nudge outward by ~10m, and iterate until no zone
// contains the projected point.
func (f *Finder) NearestSafePoint(p geo.Point) geo.Point {
	cur := p
	for i := 0; i < maxSafePointIterations; i++ {
		containing := f.zonesContaining(cur)
		if len(containing) == 0 {
			return cur
		}

		var pts []orb.Point
		for _, z := range containing {
			for _, v := range z.Points {
				pts = append(pts, toOrb(v))
			}
		}
		if len(pts) < 3 {
			return cur
		}
		hull := convexhull.New(orb.MultiPoint(pts))
		ring, ok := hull.(orb.Ring)
		if !ok || len(ring) < 2 {
			return cur
		}

		nearest, outward := nearestEdgePoint(ring, toOrb(cur))
		nudgedDeg := nudgeDistanceM / 111320.0 // approximate meters-to-degrees, consistent with the rest of the core's planar-degree approximations
		nudged := orb.Point{nearest[0] + outward[0]*nudgedDeg, nearest[1] + outward[1]*nudgedDeg}
		cur = fromOrb(nudged, p.AltM)
	}
	return cur
}

// nearestEdgePoint finds the closest point on ring to p and an outward
// unit normal at that point (pointing away from the ring's centroid).
func nearestEdgePoint(ring orb.Ring, p orb.Point) (orb.Point, orb.Point) {
	best := math.Inf(1)
	var bestPoint orb.Point
	var bestEdge [2]orb.Point

	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		proj := projectOntoSegment(a, b, p)
		d := planar.Distance(proj, p)
		if d < best {
			best = d
			bestPoint = proj
			bestEdge = [2]orb.Point{a, b}
		}
	}

	centroid := ringCentroid(ring)
	ex, ey := bestEdge[1][0]-bestEdge[0][0], bestEdge[1][1]-bestEdge[0][1]
	// Perpendicular to the edge, oriented away from the ring centroid.
	nx, ny := -ey, ex
	toCentroidX, toCentroidY := centroid[0]-bestPoint[0], centroid[1]-bestPoint[1]
	if nx*toCentroidX+ny*toCentroidY > 0 {
		nx, ny = -nx, -ny
	}
	mag := math.Hypot(nx, ny)
	if mag == 0 {
		return bestPoint, orb.Point{0, 0}
	}
	return bestPoint, orb.Point{nx / mag, ny / mag}
}

func projectOntoSegment(a, b, p orb.Point) orb.Point {
	dx, dy := b[0]-a[0], b[1]-a[1]
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / lenSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return orb.Point{a[0] + t*dx, a[1] + t*dy}
}

func ringCentroid(ring orb.Ring) orb.Point {
	var sx, sy float64
	for _, p := range ring {
		sx += p[0]
		sy += p[1]
	}
	n := float64(len(ring))
	if n == 0 {
		return orb.Point{0, 0}
	}
	return orb.Point{sx / n, sy / n}
}
