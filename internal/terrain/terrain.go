// Package terrain is the process-wide, read-only elevation surface that
// route finding and landing gear sample against; it is immutable after
// initialization.
package terrain

import "math"

// Sampler returns ground elevation in meters MSL at a lat/lon, and the
// outward surface normal there expressed in the local NED frame (down
// component negative for an upward-facing slope).
type Sampler interface {
	ElevationM(latDeg, lonDeg float64) float64
	NormalNED(latDeg, lonDeg float64) (north, east, down float64)
}

// Flat is a degenerate Sampler used by demos and tests: constant elevation,
// normal straight up, (0, 0, -1) in NED (a level surface has zero slope).
type Flat struct {
	ElevationMSL float64
}

func (f Flat) ElevationM(_, _ float64) float64 { return f.ElevationMSL }

func (f Flat) NormalNED(_, _ float64) (north, east, down float64) {
	return 0, 0, -1
}

// Grid is a lat/lon-indexed elevation sampler backed by a regular grid of
// posts, with bilinear interpolation between them and a central-difference
// normal estimate, held in memory instead of a file-backed tile cache.
type Grid struct {
	LatMin, LonMin   float64
	CellSizeDeg      float64
	Cols, Rows       int
	Elevations       []float64 // row-major, length Rows*Cols
}

func (g *Grid) index(row, col int) int {
	if row < 0 {
		row = 0
	}
	if row >= g.Rows {
		row = g.Rows - 1
	}
	if col < 0 {
		col = 0
	}
	if col >= g.Cols {
		col = g.Cols - 1
	}
	return row*g.Cols + col
}

func (g *Grid) cellOf(latDeg, lonDeg float64) (row, col int, fracRow, fracCol float64) {
	fr := (latDeg - g.LatMin) / g.CellSizeDeg
	fc := (lonDeg - g.LonMin) / g.CellSizeDeg
	row = int(fr)
	col = int(fc)
	fracRow = fr - float64(row)
	fracCol = fc - float64(col)
	return
}

func (g *Grid) ElevationM(latDeg, lonDeg float64) float64 {
	if len(g.Elevations) == 0 {
		return 0
	}
	row, col, fr, fc := g.cellOf(latDeg, lonDeg)
	e00 := g.Elevations[g.index(row, col)]
	e10 := g.Elevations[g.index(row+1, col)]
	e01 := g.Elevations[g.index(row, col+1)]
	e11 := g.Elevations[g.index(row+1, col+1)]
	top := e00 + fc*(e01-e00)
	bot := e10 + fc*(e11-e10)
	return top + fr*(bot-top)
}

func (g *Grid) NormalNED(latDeg, lonDeg float64) (north, east, down float64) {
	if len(g.Elevations) == 0 || g.CellSizeDeg == 0 {
		return 0, 0, -1
	}
	row, col, _, _ := g.cellOf(latDeg, lonDeg)
	step := g.CellSizeDeg * 111320.0 // approximate meters per degree, consistent with the rest of the core's planar approximations
	dzdRow := (g.Elevations[g.index(row+1, col)] - g.Elevations[g.index(row-1, col)]) / (2 * step)
	dzdCol := (g.Elevations[g.index(row, col+1)] - g.Elevations[g.index(row, col-1)]) / (2 * step)
	// Surface tangent vectors (1,0,-dzdRow) and (0,1,-dzdCol) in (north,east,down);
	// their cross product is the outward normal before renormalizing.
	nx := -dzdRow
	ny := -dzdCol
	nz := 1.0
	mag := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if mag == 0 {
		return 0, 0, -1
	}
	return nx / mag, ny / mag, -nz / mag
}
