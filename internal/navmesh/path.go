package navmesh

import (
	"math"

	"aerocore/internal/geo"
)

// Relationship is ClassifyPathToCell's result.
type Relationship int

const (
	NoRelationship Relationship = iota
	EndingCell
	ExitingCell
)

// cellContaining returns the cell containing p, or nil.
func (m *Mesh) cellContaining(p geo.Point) *Cell {
	for _, c := range m.Cells {
		if c.containsPoint(p) {
			return c
		}
	}
	return nil
}

// ClassifyPathToCell tests each cell side: if the segment end lies in this
// cell it is EndingCell; if it crosses a side it is ExitingCell, returning
// the neighbor beyond that side and the intersection point; otherwise
// NoRelationship.
func ClassifyPathToCell(segBegin, segEnd geo.Point, cell *Cell) (Relationship, *Cell, geo.Point) {
	if cell.containsPoint(segEnd) {
		return EndingCell, nil, geo.Point{}
	}
	for i := 0; i < 3; i++ {
		a, b := cell.side(i)
		if ok, pt := segmentIntersect(segBegin, segEnd, a, b); ok {
			return ExitingCell, cell.Neighbors[i], pt
		}
	}
	return NoRelationship, nil, geo.Point{}
}

func segmentIntersect(p1, p2, p3, p4 geo.Point) (bool, geo.Point) {
	x1, y1 := p1.LatDeg, p1.LonDeg
	x2, y2 := p2.LatDeg, p2.LonDeg
	x3, y3 := p3.LatDeg, p3.LonDeg
	x4, y4 := p4.LatDeg, p4.LonDeg

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if math.Abs(denom) < 1e-15 {
		return false, geo.Point{}
	}
	tNum := (x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)
	uNum := (x1-x3)*(y1-y2) - (y1-y3)*(x1-x2)
	t := tNum / denom
	u := uNum / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return false, geo.Point{}
	}
	return true, geo.Point{
		LatDeg: x1 + t*(x2-x1),
		LonDeg: y1 + t*(y2-y1),
		AltM:   p1.AltM + t*(p2.AltM-p1.AltM),
	}
}

// dijkstraOverCentroids returns the cell-index path from start to end,
// weighting edges by great-circle distance between centroids.
func (m *Mesh) dijkstraOverCentroids(start, end int, body geo.CentralBody) []int {
	dist := make([]float64, len(m.Cells))
	prev := make([]int, len(m.Cells))
	visited := make([]bool, len(m.Cells))
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[start] = 0

	for {
		u := -1
		best := math.Inf(1)
		for i, d := range dist {
			if !visited[i] && d < best {
				best = d
				u = i
			}
		}
		if u == -1 {
			break
		}
		if u == end {
			break
		}
		visited[u] = true

		for side := 0; side < 3; side++ {
			nb := m.Cells[u].Neighbors[side]
			if nb == nil {
				continue
			}
			w := m.Cells[u].Centroid().SlantRangeTo(nb.Centroid(), true, body)
			alt := dist[u] + w
			if alt < dist[nb.ID] {
				dist[nb.ID] = alt
				prev[nb.ID] = u
			}
		}
	}

	if math.IsInf(dist[end], 1) {
		return nil
	}
	var path []int
	for at := end; at != -1; at = prev[at] {
		path = append([]int{at}, path...)
		if at == start {
			break
		}
	}
	return path
}

func sharedEdgeMidpoint(a, b *Cell) (geo.Point, bool) {
	for i := 0; i < 3; i++ {
		if a.Neighbors[i] != b {
			continue
		}
		p1, p2 := a.side(i)
		return midpoint(p1, p2), true
	}
	return geo.Point{}, false
}

// FindPath builds a route in six steps: locate endpoint cells, shortest-path
// over centroids, insert shared-edge exit points, apply line-of-sight
// smoothing, then collapse near-duplicate waypoints. Altitude is linearly
// interpolated along the route by cumulative great-circle distance from
// start to end.
func (m *Mesh) FindPath(start, end geo.Point, body geo.CentralBody) []geo.Point {
	startCell := m.cellContaining(start)
	endCell := m.cellContaining(end)
	if startCell == nil || endCell == nil {
		return nil
	}

	cellPath := m.dijkstraOverCentroids(startCell.ID, endCell.ID, body)
	if cellPath == nil {
		return nil
	}

	adjusted := []geo.Point{start}
	for i := 0; i+1 < len(cellPath); i++ {
		a, b := m.Cells[cellPath[i]], m.Cells[cellPath[i+1]]
		if mid, ok := sharedEdgeMidpoint(a, b); ok {
			adjusted = append(adjusted, mid)
		} else {
			adjusted = append(adjusted, a.Centroid())
		}
	}
	adjusted = append(adjusted, end)

	smoothed := losSmooth(adjusted, cellPath, m)
	return collapseDuplicates(interpolateAltitude(smoothed, start, end, body))
}

// losSmooth walks forward from each index, skipping waypoints whose direct
// segment from the current index stays inside the mesh: for each index, it
// walks forward until the segment no longer stays cleanly inside the mesh,
// and the farthest index whose direct segment stays inside becomes the next
// waypoint.
func losSmooth(waypoints []geo.Point, cellPath []int, m *Mesh) []geo.Point {
	if len(waypoints) < 3 {
		return waypoints
	}
	out := []geo.Point{waypoints[0]}
	i := 0
	for i < len(waypoints)-1 {
		farthest := i + 1
		for j := i + 2; j < len(waypoints); j++ {
			if segmentStaysInMesh(waypoints[i], waypoints[j], m) {
				farthest = j
			} else {
				break
			}
		}
		out = append(out, waypoints[farthest])
		i = farthest
	}
	return out
}

// segmentStaysInMesh walks ClassifyPathToCell from begin to end, nudging
// the begin point forward a small step whenever no relationship is found,
// and fails if it exits the mesh (nil neighbor) before reaching end.
func segmentStaysInMesh(begin, end geo.Point, m *Mesh) bool {
	cur := m.cellContaining(begin)
	if cur == nil {
		return false
	}
	b := begin
	for steps := 0; steps < 64; steps++ {
		rel, neighbor, pt := ClassifyPathToCell(b, end, cur)
		switch rel {
		case EndingCell:
			return true
		case ExitingCell:
			if neighbor == nil {
				return false
			}
			cur = neighbor
			b = pt
		default:
			b = nudge(b, end)
		}
	}
	return false
}

func nudge(begin, end geo.Point) geo.Point {
	const step = 1e-6
	dLat := end.LatDeg - begin.LatDeg
	dLon := end.LonDeg - begin.LonDeg
	mag := math.Hypot(dLat, dLon)
	if mag == 0 {
		return begin
	}
	return geo.Point{
		LatDeg: begin.LatDeg + step*dLat/mag,
		LonDeg: begin.LonDeg + step*dLon/mag,
		AltM:   begin.AltM,
	}
}

func interpolateAltitude(path []geo.Point, start, end geo.Point, body geo.CentralBody) []geo.Point {
	if len(path) == 0 {
		return path
	}
	total := 0.0
	cum := make([]float64, len(path))
	for i := 1; i < len(path); i++ {
		total += path[i-1].GreatCircleDistance(path[i], body)
		cum[i] = total
	}
	out := make([]geo.Point, len(path))
	for i, p := range path {
		frac := 0.0
		if total > 0 {
			frac = cum[i] / total
		}
		p.AltM = start.AltM + frac*(end.AltM-start.AltM)
		out[i] = p
	}
	return out
}

// collapseDuplicates removes consecutive waypoints whose lat, lon, and alt
// all agree to 1e-5.
func collapseDuplicates(path []geo.Point) []geo.Point {
	if len(path) == 0 {
		return path
	}
	out := []geo.Point{path[0]}
	for _, p := range path[1:] {
		last := out[len(out)-1]
		if math.Abs(p.LatDeg-last.LatDeg) < 1e-5 && math.Abs(p.LonDeg-last.LonDeg) < 1e-5 && math.Abs(p.AltM-last.AltM) < 1e-5 {
			continue
		}
		out = append(out, p)
	}
	return out
}
