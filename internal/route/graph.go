package route

import (
	"math"

	"github.com/paulmach/orb/planar"

	"aerocore/internal/geo"
)

// visibilityGraph is the node/adjacency pair the DFS searches: its nodes
// are both safe endpoints plus every zone vertex.
type visibilityGraph struct {
	nodes []geo.Point
	adj   [][]int
}

// buildVisibilityGraph places safeFrom, safeTo, and every zone vertex as
// nodes, and includes edge (a,b) iff segment ab does not intersect any
// zone edge except at a shared endpoint where the segment exits the
// polygon.
func (f *Finder) buildVisibilityGraph(safeFrom, safeTo geo.Point) *visibilityGraph {
	nodes := []geo.Point{safeFrom, safeTo}
	for _, z := range f.Zones {
		nodes = append(nodes, z.Points...)
	}

	n := len(nodes)
	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if f.edgeValid(nodes[i], nodes[j]) {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}
	return &visibilityGraph{nodes: nodes, adj: adj}
}

// edgeValid reports whether segment a-b may be used as a visibility-graph
// edge: it must not cross any zone edge, except that it may share an
// endpoint with a zone edge if the segment exits the polygon there rather
// than entering it, as detected by exitsPolygonAt's containment probe.
func (f *Finder) edgeValid(a, b geo.Point) bool {
	for _, z := range f.Zones {
		pts := z.Points
		m := len(pts)
		for i := 0; i < m; i++ {
			c := pts[i]
			d := pts[(i+1)%m]

			shared, sharedVertex, otherEnd := sharedEndpoint(a, b, c, d)
			if shared {
				if !exitsPolygonAt(sharedVertex, otherEnd, z) {
					return false
				}
				continue
			}
			if segmentsIntersect(a, b, c, d) {
				return false
			}
		}
	}
	return true
}

func sharedEndpoint(a, b, c, d geo.Point) (shared bool, vertex, other geo.Point) {
	switch {
	case samePoint(a, c) || samePoint(a, d):
		return true, a, b
	case samePoint(b, c) || samePoint(b, d):
		return true, b, a
	default:
		return false, geo.Point{}, geo.Point{}
	}
}

func samePoint(a, b geo.Point) bool {
	return math.Abs(a.LatDeg-b.LatDeg) < 1e-9 && math.Abs(a.LonDeg-b.LonDeg) < 1e-9
}

// exitsPolygonAt tests whether the ray from vertex toward other leaves the
// polygon z rather than entering it, by sampling a point a short distance
// along that ray and checking zone containment: for a convex corner this
// reduces to exactly the inside/outside check a cross-product sign test
// would give.
func exitsPolygonAt(vertex, other geo.Point, z interface{ Contains(geo.Point, geo.Point, float64, geo.CentralBody) bool }) bool {
	const frac = 1e-4
	probe := geo.Point{
		LatDeg: vertex.LatDeg + frac*(other.LatDeg-vertex.LatDeg),
		LonDeg: vertex.LonDeg + frac*(other.LonDeg-vertex.LonDeg),
		AltM:   vertex.AltM,
	}
	return !z.Contains(probe, probe, 0, geo.Spherical)
}

func segmentsIntersect(p1, p2, p3, p4 geo.Point) bool {
	d1 := crossSign(p3, p4, p1)
	d2 := crossSign(p3, p4, p2)
	d3 := crossSign(p1, p2, p3)
	d4 := crossSign(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSeg(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSeg(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSeg(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSeg(p1, p2, p4) {
		return true
	}
	return false
}

func crossSign(a, b, c geo.Point) float64 {
	return (b.LatDeg-a.LatDeg)*(c.LonDeg-a.LonDeg) - (b.LonDeg-a.LonDeg)*(c.LatDeg-a.LatDeg)
}

func onSeg(a, b, p geo.Point) bool {
	return math.Min(a.LatDeg, b.LatDeg) <= p.LatDeg && p.LatDeg <= math.Max(a.LatDeg, b.LatDeg) &&
		math.Min(a.LonDeg, b.LonDeg) <= p.LonDeg && p.LonDeg <= math.Max(a.LonDeg, b.LonDeg)
}

// shortestPath runs a bounded DFS pruned by the best length found so far.
func (g *visibilityGraph) shortestPath(start, end int) []int {
	best := math.Inf(1)
	var bestPath []int
	visited := make([]bool, len(g.nodes))

	var dfs func(cur int, path []int, length float64)
	dfs = func(cur int, path []int, length float64) {
		if length >= best {
			return
		}
		if cur == end {
			best = length
			bestPath = append([]int(nil), path...)
			return
		}
		visited[cur] = true
		for _, next := range g.adj[cur] {
			if visited[next] {
				continue
			}
			edgeLen := planar.Distance(toOrb(g.nodes[cur]), toOrb(g.nodes[next]))
			dfs(next, append(path, next), length+edgeLen)
		}
		visited[cur] = false
	}

	visited[start] = true
	dfs(start, []int{start}, 0)
	return bestPath
}

// FindRoute computes the avoidance path from `from` to `to`. Altitude is
// linearly interpolated along the route by cumulative planar (lon, lat
// degree) distance from start to end.
func (f *Finder) FindRoute(from, to geo.Point) []geo.Point {
	safeFrom := f.NearestSafePoint(from)
	safeTo := f.NearestSafePoint(to)

	g := f.buildVisibilityGraph(safeFrom, safeTo)
	idxPath := g.shortestPath(0, 1)
	if idxPath == nil {
		return nil
	}

	waypoints := make([]geo.Point, len(idxPath))
	for i, idx := range idxPath {
		waypoints[i] = g.nodes[idx]
	}
	return interpolateRouteAltitude(waypoints, from.AltM, to.AltM)
}

func interpolateRouteAltitude(path []geo.Point, fromAlt, toAlt float64) []geo.Point {
	if len(path) == 0 {
		return path
	}
	cum := make([]float64, len(path))
	total := 0.0
	for i := 1; i < len(path); i++ {
		d := planar.Distance(toOrb(path[i-1]), toOrb(path[i]))
		total += d
		cum[i] = total
	}
	out := make([]geo.Point, len(path))
	for i, p := range path {
		frac := 0.0
		if total > 0 {
			frac = cum[i] / total
		}
		p.AltM = fromAlt + frac*(toAlt-fromAlt)
		out[i] = p
	}
	return out
}
