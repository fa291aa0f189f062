package navmesh

import (
	"aerocore/internal/geo"
	"aerocore/internal/zone"
)

// MaxTessellationLevel is the hard cap on recursive refinement.
const MaxTessellationLevel = 5

// Polygonal is zone variants that expose their vertex list, needed here to
// detect a zone vertex falling inside a cell.
type Polygonal interface {
	Vertices() []geo.Point
}

// BuildMesh tiles [latMin,latMax]x[lonMin,lonMax] with cellSizeDeg squares,
// splits each into a right-triangle pair, and recursively tessellates each
// triangle against zones: for each cell the interaction with every zone is
// classified by counting vertices inside; 0 keeps it, 3 discards it, and
// 1, 2, or any zone vertex inside tessellates it into four sub-triangles at
// the side midpoints, inheriting orientation, up to MaxTessellationLevel.
func BuildMesh(latMin, latMax, lonMin, lonMax, cellSizeDeg float64, zones []zone.Zone, body geo.CentralBody) *Mesh {
	var raw []*Cell
	for lat := latMin; lat < latMax; lat += cellSizeDeg {
		latTop := lat + cellSizeDeg
		if latTop > latMax {
			latTop = latMax
		}
		for lon := lonMin; lon < lonMax; lon += cellSizeDeg {
			lonRight := lon + cellSizeDeg
			if lonRight > lonMax {
				lonRight = lonMax
			}
			bl := geo.New(lat, lon, 0)
			br := geo.New(lat, lonRight, 0)
			tl := geo.New(latTop, lon, 0)
			tr := geo.New(latTop, lonRight, 0)

			raw = append(raw, tessellate(&Cell{A: bl, B: br, C: tl, Level: 0}, zones, body)...)
			raw = append(raw, tessellate(&Cell{A: tr, B: tl, C: br, Level: 0}, zones, body)...)
		}
	}

	mesh := &Mesh{Cells: raw}
	renumber(mesh)
	computeAdjacency(mesh)
	return mesh
}

// tessellate classifies a single right triangle against zones and either
// keeps it, discards it, or recursively quarters it.
func tessellate(c *Cell, zones []zone.Zone, body geo.CentralBody) []*Cell {
	verts := c.vertices()
	insideCount := 0
	for _, v := range verts {
		for _, z := range zones {
			if z.Contains(v, v, 0, body) {
				insideCount++
				break
			}
		}
	}

	anyZoneVertexInside := false
	for _, z := range zones {
		poly, ok := z.(Polygonal)
		if !ok {
			continue
		}
		for _, zv := range poly.Vertices() {
			if c.containsPoint(zv) {
				anyZoneVertexInside = true
				break
			}
		}
		if anyZoneVertexInside {
			break
		}
	}

	switch {
	case insideCount == 0 && !anyZoneVertexInside:
		return []*Cell{c}
	case insideCount == 3:
		return nil
	default:
		if c.Level >= MaxTessellationLevel {
			// Out of refinement budget: keep the boundary cell rather than
			// leave a hole in the mesh.
			return []*Cell{c}
		}
		children := quarter(c)
		var out []*Cell
		for _, child := range children {
			out = append(out, tessellate(child, zones, body)...)
		}
		return out
	}
}

// quarter splits a right triangle at its three side midpoints into four
// sub-triangles, inheriting the parent's orientation.
func quarter(c *Cell) [4]*Cell {
	mAB := midpoint(c.A, c.B)
	mBC := midpoint(c.B, c.C)
	mCA := midpoint(c.C, c.A)

	level := c.Level + 1
	return [4]*Cell{
		{A: c.A, B: mAB, C: mCA, Level: level},
		{A: mAB, B: c.B, C: mBC, Level: level},
		{A: mCA, B: mBC, C: c.C, Level: level},
		{A: mBC, B: mCA, C: mAB, Level: level}, // the interior sub-triangle, orientation reversed by construction
	}
}

func midpoint(a, b geo.Point) geo.Point {
	return geo.Point{
		LatDeg: (a.LatDeg + b.LatDeg) / 2,
		LonDeg: (a.LonDeg + b.LonDeg) / 2,
		AltM:   (a.AltM + b.AltM) / 2,
	}
}

func renumber(m *Mesh) {
	for i, c := range m.Cells {
		c.ID = i
	}
}

// computeAdjacency links cells that share two collinear endpoints on one
// side: every neighbor pair in the resulting mesh shares two collinear
// endpoints.
func computeAdjacency(m *Mesh) {
	for i, ci := range m.Cells {
		for si := 0; si < 3; si++ {
			if ci.Neighbors[si] != nil {
				continue
			}
			a, b := ci.side(si)
			for j, cj := range m.Cells {
				if i == j {
					continue
				}
				for sj := 0; sj < 3; sj++ {
					if cj.Neighbors[sj] != nil {
						continue
					}
					x, y := cj.side(sj)
					if sharesCollinearEndpoints(a, b, x, y) {
						ci.Neighbors[si] = cj
						cj.Neighbors[sj] = ci
						goto nextSide
					}
				}
			}
		nextSide:
		}
	}
}

// sharesCollinearEndpoints reports whether side a-b and side x-y overlap
// along the same line, covering both the equal-level exact-match case and
// the mismatched-tessellation-level case where one side spans two or more
// of the other's.
func sharesCollinearEndpoints(a, b, x, y geo.Point) bool {
	if (approxEqual(a, x) && approxEqual(b, y)) || (approxEqual(a, y) && approxEqual(b, x)) {
		return true
	}
	return pointOnSegment(a, b, x) && pointOnSegment(a, b, y) ||
		pointOnSegment(x, y, a) && pointOnSegment(x, y, b)
}
