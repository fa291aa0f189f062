package zone

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"aerocore/internal/geo"
)

// Definition is a concrete zone shape. Min/MaxRadius double as an annulus
// for Circle and as (semi-major, semi-minor) for Ellipse: MaxRadius is the
// axis aligned with the reference heading ("forward"), MinRadius the
// cross-range axis.
type Definition struct {
	NameStr string
	Shape   Shape
	Frame   ReferenceFrame

	// Internal-frame reference pose, used only when Frame == Internal.
	RefLat, RefLon    float64
	RefHeadingRad     float64

	// Polygon vertices, absolute lat/lon, clockwise as viewed from above.
	Points []geo.Point

	MinAltM, MaxAltM       float64
	MinRadiusM, MaxRadiusM float64
	MinAngleRad, MaxAngleRad float64
	HasAngleBounds         bool
	Negative               bool

	Modifiers map[string]float64
}

// Name implements Zone.
func (d *Definition) Name() string { return d.NameStr }

// Vertices exposes the polygon's vertex list (empty for non-Polygon
// shapes), letting pathfind.Grid.FindClosestValidPoint locate the
// containing zone's nearest vertex without the zone package depending on
// pathfind.
func (d *Definition) Vertices() []geo.Point {
	if d.Shape != Polygon {
		return nil
	}
	return d.Points
}

// Modifier implements Zone.
func (d *Definition) Modifier(category string) (float64, bool) {
	v, ok := d.Modifiers[category]
	return v, ok
}

// resolveReference picks the reference pose used for the local frame:
// Definition's own pose for Internal zones, the caller-supplied pose
// otherwise.
func (d *Definition) resolveReference(referenceLLA geo.Point, referenceHeadingRad float64) (geo.Point, float64) {
	if d.Frame == Internal {
		return geo.New(d.RefLat, d.RefLon, 0), d.RefHeadingRad
	}
	return referenceLLA, referenceHeadingRad
}

// local converts pointLLA into the zone's local (forward, right, down)
// tangent-plane frame relative to refLLA/refHeadingRad: an NED offset
// rotated by -heading so "forward" aligns with the reference heading. down
// is the NED down component (ref.AltM - point.AltM), used for Sphere's 3-D
// radius test; altitude-bound checks elsewhere use the point's absolute
// MSL altitude instead, since the min/max-alt bounds are absolute.
func local(pointLLA, refLLA geo.Point, refHeadingRad float64, body geo.CentralBody) (forward, right, down float64) {
	ned := pointLLA.ToNED(refLLA, body)
	c, s := math.Cos(refHeadingRad), math.Sin(refHeadingRad)
	// ned.X = north, ned.Y = east; rotate by -heading to recover the
	// (forward, right) pair Offset() originally rotated by +heading.
	forward = ned.X*c + ned.Y*s
	right = -ned.X*s + ned.Y*c
	down = ned.Z
	return
}

// containsLocal tests containment given the point already resolved into
// the zone's local frame, so Penetration can reuse it without repeatedly
// recomputing the reference transform for every quadrature sample.
// absoluteAltM is the point's true MSL altitude, used for the min/max-alt
// bound on Polygon/Circle/Ellipse: the altitude bounds are absolute, not
// reference-relative.
func (d *Definition) containsLocal(forward, right, down, absoluteAltM float64) bool {
	switch d.Shape {
	case Polygon:
		return d.polygonContainsLocal(forward, right) && absoluteAltM >= d.MinAltM && absoluteAltM <= d.MaxAltM
	case Circle:
		r := math.Hypot(forward, right)
		if r < d.MinRadiusM || r > d.MaxRadiusM {
			return false
		}
		if absoluteAltM < d.MinAltM || absoluteAltM > d.MaxAltM {
			return false
		}
		return d.angleOK(forward, right)
	case Ellipse:
		semiMajor := d.MaxRadiusM
		semiMinor := d.MinRadiusM
		if semiMajor <= 0 || semiMinor <= 0 {
			return false
		}
		v := (forward*forward)/(semiMajor*semiMajor) + (right*right)/(semiMinor*semiMinor)
		if v > 1.0 {
			return false
		}
		if absoluteAltM < d.MinAltM || absoluteAltM > d.MaxAltM {
			return false
		}
		return d.angleOK(forward, right)
	case Sphere:
		r := math.Sqrt(forward*forward + right*right + down*down)
		return r >= d.MinRadiusM && r <= d.MaxRadiusM
	default:
		return false
	}
}

func (d *Definition) angleOK(forward, right float64) bool {
	if !d.HasAngleBounds {
		return true
	}
	theta := math.Atan2(right, forward)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	lo, hi := d.MinAngleRad, d.MaxAngleRad
	if lo <= hi {
		return theta >= lo && theta <= hi
	}
	// Wrap-around sector (e.g. 350deg..10deg).
	return theta >= lo || theta <= hi
}

// polygonContainsLocal is even-odd ray casting in the local 2-D frame. A
// point exactly on an edge is treated as inside.
func (d *Definition) polygonContainsLocal(forward, right float64) bool {
	n := len(d.Points)
	if n < 3 {
		return false
	}
	localPts := make([][2]float64, n)
	ref := geo.New(d.RefLat, d.RefLon, 0)
	for i, p := range d.Points {
		f, r, _ := local(p, ref, d.RefHeadingRad, geo.Spherical)
		localPts[i] = [2]float64{f, r}
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := localPts[i][0], localPts[i][1]
		xj, yj := localPts[j][0], localPts[j][1]

		if onSegment(xi, yi, xj, yj, forward, right) {
			return true
		}

		if (yi > right) != (yj > right) {
			xIntersect := xi + (right-yi)/(yj-yi)*(xj-xi)
			if forward <= xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(x1, y1, x2, y2, px, py float64) bool {
	const eps = 1e-6
	cross := (x2-x1)*(py-y1) - (y2-y1)*(px-x1)
	if !floats.EqualWithinAbs(cross, 0, eps) {
		return false
	}
	dot := (px-x1)*(x2-x1) + (py-y1)*(y2-y1)
	if dot < 0 {
		return false
	}
	sq := (x2-x1)*(x2-x1) + (y2-y1)*(y2-y1)
	return dot <= sq
}

// Contains implements Zone.
func (d *Definition) Contains(pointLLA, referenceLLA geo.Point, referenceHeadingRad float64, body geo.CentralBody) bool {
	ref, heading := d.resolveReference(referenceLLA, referenceHeadingRad)
	forward, right, down := local(pointLLA, ref, heading, body)
	result := d.containsLocal(forward, right, down, pointLLA.AltM)
	if d.Negative {
		return !result
	}
	return result
}

// Penetration implements Zone. It scans the segment at samplesPerPenetration
// resolution for containment-boundary crossings, refines each crossing by
// bisection, and sums the 3-D length of the sub-intervals whose midpoint is
// inside the zone: the arithmetic length of the intersection of the 3-D
// segment with the volume. A segment entirely inside contributes its full
// length.
func (d *Definition) Penetration(fromLLA, toLLA, referenceLLA geo.Point, referenceHeadingRad float64, body geo.CentralBody) float64 {
	ref, heading := d.resolveReference(referenceLLA, referenceHeadingRad)
	totalLen := fromLLA.SlantRangeTo(toLLA, false, body)
	if totalLen == 0 {
		if d.containsAt(fromLLA, toLLA, 0, ref, heading, body) {
			return 0
		}
		return 0
	}

	insideAt := func(t float64) bool {
		return d.containsAt(fromLLA, toLLA, t, ref, heading, body)
	}

	crossings := findCrossings(insideAt, samplesPerPenetration, bisectionRefineSteps)

	breakpoints := append([]float64{0.0}, crossings...)
	breakpoints = append(breakpoints, 1.0)

	total := 0.0
	for i := 0; i+1 < len(breakpoints); i++ {
		t0, t1 := breakpoints[i], breakpoints[i+1]
		if t1 <= t0 {
			continue
		}
		mid := (t0 + t1) / 2
		if insideAt(mid) {
			total += (t1 - t0) * totalLen
		}
	}
	return total
}

func (d *Definition) containsAt(fromLLA, toLLA geo.Point, t float64, ref geo.Point, heading float64, body geo.CentralBody) bool {
	pt := interpLLA(fromLLA, toLLA, t)
	forward, right, down := local(pt, ref, heading, body)
	result := d.containsLocal(forward, right, down, pt.AltM)
	if d.Negative {
		return !result
	}
	return result
}

func interpLLA(a, b geo.Point, t float64) geo.Point {
	return geo.Point{
		LatDeg: a.LatDeg + t*(b.LatDeg-a.LatDeg),
		LonDeg: a.LonDeg + t*(b.LonDeg-a.LonDeg),
		AltM:   a.AltM + t*(b.AltM-a.AltM),
	}
}

// findCrossings samples f(t) across [0,1] at samples+1 points, and for
// every sign change bisects refineSteps times to localize the boundary.
func findCrossings(f func(float64) bool, samples, refineSteps int) []float64 {
	var crossings []float64
	prevT := 0.0
	prev := f(prevT)
	for i := 1; i <= samples; i++ {
		t := float64(i) / float64(samples)
		cur := f(t)
		if cur != prev {
			lo, hi := prevT, t
			loInside := prev
			for s := 0; s < refineSteps; s++ {
				mid := (lo + hi) / 2
				if f(mid) == loInside {
					lo = mid
				} else {
					hi = mid
				}
			}
			crossings = append(crossings, (lo+hi)/2)
		}
		prevT, prev = t, cur
	}
	return crossings
}

// Extrema implements Zone.
func (d *Definition) Extrema() (latMin, latMax, lonMin, lonMax float64) {
	switch d.Shape {
	case Polygon:
		latMin, lonMin = math.Inf(1), math.Inf(1)
		latMax, lonMax = math.Inf(-1), math.Inf(-1)
		for _, p := range d.Points {
			latMin = math.Min(latMin, p.LatDeg)
			latMax = math.Max(latMax, p.LatDeg)
			lonMin = math.Min(lonMin, p.LonDeg)
			lonMax = math.Max(lonMax, p.LonDeg)
		}
		return
	default:
		centerLat, centerLon := d.RefLat, d.RefLon
		radiusDeg := d.MaxRadiusM / 111320.0
		return centerLat - radiusDeg, centerLat + radiusDeg, centerLon - radiusDeg, centerLon + radiusDeg
	}
}

// Centroid implements Zone.
func (d *Definition) Centroid() geo.Point {
	if d.Shape == Polygon && len(d.Points) > 0 {
		var sumLat, sumLon, sumAlt float64
		for _, p := range d.Points {
			sumLat += p.LatDeg
			sumLon += p.LonDeg
			sumAlt += p.AltM
		}
		n := float64(len(d.Points))
		return geo.New(sumLat/n, sumLon/n, sumAlt/n)
	}
	return geo.New(d.RefLat, d.RefLon, (d.MinAltM+d.MaxAltM)/2)
}

// Area implements Zone, using the shoelace formula in the local meter
// frame for polygons and the standard ellipse/circle/annulus formulas
// otherwise.
func (d *Definition) Area() float64 {
	switch d.Shape {
	case Polygon:
		if len(d.Points) < 3 {
			return 0
		}
		ref := geo.New(d.RefLat, d.RefLon, 0)
		pts := make([][2]float64, len(d.Points))
		for i, p := range d.Points {
			f, r, _ := local(p, ref, d.RefHeadingRad, geo.Spherical)
			pts[i] = [2]float64{f, r}
		}
		sum := 0.0
		n := len(pts)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			sum += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
		}
		return math.Abs(sum) / 2
	case Circle:
		return math.Pi * (d.MaxRadiusM*d.MaxRadiusM - d.MinRadiusM*d.MinRadiusM)
	case Ellipse:
		return math.Pi * d.MaxRadiusM * d.MinRadiusM
	case Sphere:
		return 4 * math.Pi * d.MaxRadiusM * d.MaxRadiusM
	default:
		return 0
	}
}

// Export renders the zone in degree:minute:second text block form.
func (d *Definition) Export() string {
	out := fmt.Sprintf("zone %s {\n", d.NameStr)
	for _, p := range d.Points {
		out += fmt.Sprintf("  position %s %s;\n", FormatDMS(p.LatDeg, true), FormatDMS(p.LonDeg, false))
	}
	out += "}\n"
	return out
}

// FormatDMS renders a latitude or longitude in DD:MM:SS.SSh form with
// hemisphere suffix n|s|e|w.
func FormatDMS(deg float64, isLat bool) string {
	hemi := "n"
	if isLat {
		if deg < 0 {
			hemi = "s"
		}
	} else {
		hemi = "e"
		if deg < 0 {
			hemi = "w"
		}
	}
	deg = math.Abs(deg)
	d := math.Floor(deg)
	minFloat := (deg - d) * 60
	m := math.Floor(minFloat)
	s := (minFloat - m) * 60
	return fmt.Sprintf("%02d:%02d:%05.2f%s", int(d), int(m), s, hemi)
}
