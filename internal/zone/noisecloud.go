package zone

import (
	"math"

	"aerocore/internal/geo"
	"aerocore/internal/simclock"
)

// NoiseCloud is a time-varying coherent-noise volume over a rectangle,
// parameterized by frequency, octaves, threshold, height, thickness,
// tileScalar, and wind drift. It shares Zone's segment-penetration
// contract but additionally depends on simulation time: penetration is a
// continuous function of time only through the wind rotation.
type NoiseCloud struct {
	NameStr string

	CenterLat, CenterLon float64
	WidthM, DepthM        float64 // rectangle extent in the local ENU frame
	HeightM, ThicknessM   float64 // vertical band: [HeightM-Thickness/2, HeightM+Thickness/2]

	Frequency  float64
	Octaves    int
	Threshold  float64
	TileScalar float64

	WindAngularSpeedRadPerSec float64 // rotation rate of the field about the vertical axis
	WindAxisHeadingRad        float64 // heading the wind blows toward at t=0

	Modifiers map[string]float64
}

func (c *NoiseCloud) Name() string { return c.NameStr }

func (c *NoiseCloud) Modifier(category string) (float64, bool) {
	v, ok := c.Modifiers[category]
	return v, ok
}

// windAngleAt returns the field's rotation angle at time t.
func (c *NoiseCloud) windAngleAt(t simclock.Nanos) float64 {
	return c.WindAxisHeadingRad + c.WindAngularSpeedRadPerSec*t.Seconds()
}

// localAt resolves pointLLA into the cloud's local (x,y) meters, rotated by
// the wind angle at time t.
func (c *NoiseCloud) localAt(pointLLA geo.Point, t simclock.Nanos, body geo.CentralBody) (x, y float64) {
	ref := geo.New(c.CenterLat, c.CenterLon, c.HeightM)
	forward, right, _ := local(pointLLA, ref, c.windAngleAt(t), body)
	return forward, right
}

// sample evaluates the multi-octave value-noise field at (x,y), tiled by
// TileScalar, via a small hash-based value-noise implementation.
func (c *NoiseCloud) sample(x, y float64) float64 {
	if c.TileScalar > 0 {
		x = math.Mod(x, c.TileScalar)
		y = math.Mod(y, c.TileScalar)
	}
	total := 0.0
	amplitude := 1.0
	freq := c.Frequency
	norm := 0.0
	octaves := c.Octaves
	if octaves < 1 {
		octaves = 1
	}
	for o := 0; o < octaves; o++ {
		total += amplitude * valueNoise2D(x*freq, y*freq)
		norm += amplitude
		amplitude *= 0.5
		freq *= 2
	}
	if norm == 0 {
		return 0
	}
	return total / norm
}

func valueNoise2D(x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0

	v00 := hash2(x0, y0)
	v10 := hash2(x0+1, y0)
	v01 := hash2(x0, y0+1)
	v11 := hash2(x0+1, y0+1)

	sx := smoothstep(fx)
	sy := smoothstep(fy)

	a := lerp(v00, v10, sx)
	b := lerp(v01, v11, sx)
	return lerp(a, b, sy)
}

func hash2(x, y float64) float64 {
	h := math.Sin(x*127.1+y*311.7) * 43758.5453123
	return h - math.Floor(h)
}

func smoothstep(t float64) float64 { return t * t * (3 - 2*t) }
func lerp(a, b, t float64) float64 { return a + t*(b-a) }

// containsAt tests containment at a single time.
func (c *NoiseCloud) containsAt(pointLLA geo.Point, t simclock.Nanos, body geo.CentralBody) bool {
	x, y := c.localAt(pointLLA, t, body)
	if math.Abs(x) > c.WidthM/2 || math.Abs(y) > c.DepthM/2 {
		return false
	}
	lowBand := c.HeightM - c.ThicknessM/2
	highBand := c.HeightM + c.ThicknessM/2
	if pointLLA.AltM < lowBand || pointLLA.AltM > highBand {
		return false
	}
	return c.sample(x, y) >= c.Threshold
}

// Contains implements the same signature as Zone for API symmetry, sampled
// at t=0; use ContainsAt for a specific simulation time.
func (c *NoiseCloud) Contains(pointLLA, _ geo.Point, _ float64, body geo.CentralBody) bool {
	return c.containsAt(pointLLA, 0, body)
}

// ContainsAt tests containment at simulation time t.
func (c *NoiseCloud) ContainsAt(pointLLA geo.Point, t simclock.Nanos, body geo.CentralBody) bool {
	return c.containsAt(pointLLA, t, body)
}

// Penetration implements Zone at t=0; use PenetrationAt for a moving field.
func (c *NoiseCloud) Penetration(fromLLA, toLLA, _ geo.Point, _ float64, body geo.CentralBody) float64 {
	return c.PenetrationAt(fromLLA, toLLA, 0, body)
}

// PenetrationAt returns the segment's penetration length through the cloud
// at simulation time t, using the same bisection-refined scan as
// Definition.Penetration.
func (c *NoiseCloud) PenetrationAt(fromLLA, toLLA geo.Point, t simclock.Nanos, body geo.CentralBody) float64 {
	totalLen := fromLLA.SlantRangeTo(toLLA, false, body)
	if totalLen == 0 {
		return 0
	}
	insideAt := func(frac float64) bool {
		pt := interpLLA(fromLLA, toLLA, frac)
		return c.containsAt(pt, t, body)
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
		if insideAt((t0 + t1) / 2) {
			total += (t1 - t0) * totalLen
		}
	}
	return total
}

// Extrema implements Zone.
func (c *NoiseCloud) Extrema() (latMin, latMax, lonMin, lonMax float64) {
	radiusDeg := math.Max(c.WidthM, c.DepthM) / 111320.0
	return c.CenterLat - radiusDeg, c.CenterLat + radiusDeg, c.CenterLon - radiusDeg, c.CenterLon + radiusDeg
}

// Centroid implements Zone.
func (c *NoiseCloud) Centroid() geo.Point {
	return geo.New(c.CenterLat, c.CenterLon, c.HeightM)
}

// Area implements Zone.
func (c *NoiseCloud) Area() float64 {
	return c.WidthM * c.DepthM
}
