// Package geo implements GeoPoint: a lat/lon/alt value type with
// WCS/ECI/NED conversions, atomic offsets, great-circle extrapolation,
// bearing, and slant range, over a process-wide CentralBody Earth model.
package geo

import (
	"math"

	"aerocore/internal/simclock"
)

// Vector3 is a plain Cartesian triple, shared with the dynamics layer
// instead of introducing a second vector type.
type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) Add(o Vector3) Vector3      { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3      { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Scale(s float64) Vector3    { return Vector3{v.X * s, v.Y * s, v.Z * s} }
func (v Vector3) Dot(o Vector3) float64      { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vector3) Magnitude() float64         { return math.Sqrt(v.Dot(v)) }
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}
func (v Vector3) Normalize() Vector3 {
	m := v.Magnitude()
	if m == 0 {
		return Vector3{}
	}
	return v.Scale(1 / m)
}

// Point is a GeoPoint: latitude/longitude in degrees, altitude in meters
// MSL.
type Point struct {
	LatDeg float64
	LonDeg float64
	AltM   float64
}

// New builds a Point from degrees and meters.
func New(latDeg, lonDeg, altM float64) Point {
	return Point{LatDeg: latDeg, LonDeg: lonDeg, AltM: altM}
}

func (p Point) latRad() float64 { return p.LatDeg * math.Pi / 180 }
func (p Point) lonRad() float64 { return p.LonDeg * math.Pi / 180 }

// ToWCS converts to Earth-centered Earth-fixed Cartesian coordinates under
// the given central body.
func (p Point) ToWCS(body CentralBody) Vector3 {
	a := body.Radius()
	f := body.Flattening()
	e2 := f * (2 - f)

	sinLat := math.Sin(p.latRad())
	cosLat := math.Cos(p.latRad())
	sinLon := math.Sin(p.lonRad())
	cosLon := math.Cos(p.lonRad())

	n := a / math.Sqrt(1-e2*sinLat*sinLat)

	x := (n + p.AltM) * cosLat * cosLon
	y := (n + p.AltM) * cosLat * sinLon
	z := (n*(1-e2) + p.AltM) * sinLat
	return Vector3{X: x, Y: y, Z: z}
}

// FromWCS is the inverse of ToWCS. For a sphere it is closed-form; for
// WGS-84 it uses Bowring's iterative formula, which converges in a handful
// of iterations to well under 1e-6 m.
func FromWCS(v Vector3, body CentralBody) Point {
	a := body.Radius()
	f := body.Flattening()
	if f == 0 {
		r := v.Magnitude()
		if r == 0 {
			return Point{}
		}
		lat := math.Asin(clamp(v.Z/r, -1, 1))
		lon := math.Atan2(v.Y, v.X)
		return Point{LatDeg: lat * 180 / math.Pi, LonDeg: lon * 180 / math.Pi, AltM: r - a}
	}

	e2 := f * (2 - f)
	p := math.Hypot(v.X, v.Y)
	lon := math.Atan2(v.Y, v.X)
	lat := math.Atan2(v.Z, p*(1-e2))
	var n, alt float64
	for i := 0; i < 8; i++ {
		sinLat := math.Sin(lat)
		n = a / math.Sqrt(1-e2*sinLat*sinLat)
		alt = p/math.Cos(lat) - n
		lat = math.Atan2(v.Z, p*(1-e2*n/(n+alt)))
	}
	return Point{LatDeg: lat * 180 / math.Pi, LonDeg: lon * 180 / math.Pi, AltM: alt}
}

// earthRotationRadPerSec is the sidereal rotation rate used by ToECI.
const earthRotationRadPerSec = 7.292115e-5

// ToECI converts to an Earth-Centered Inertial frame at the given
// simulation time by rotating the WCS position backwards through the
// Earth's rotation angle accumulated since epoch t=0.
func (p Point) ToECI(body CentralBody, t simclock.Nanos) Vector3 {
	wcs := p.ToWCS(body)
	theta := earthRotationRadPerSec * t.Seconds()
	c, s := math.Cos(theta), math.Sin(theta)
	return Vector3{
		X: wcs.X*c - wcs.Y*s,
		Y: wcs.X*s + wcs.Y*c,
		Z: wcs.Z,
	}
}

// FromECI is the inverse of ToECI.
func FromECI(v Vector3, body CentralBody, t simclock.Nanos) Point {
	theta := earthRotationRadPerSec * t.Seconds()
	c, s := math.Cos(theta), math.Sin(-theta)
	wcs := Vector3{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
		Z: v.Z,
	}
	return FromWCS(wcs, body)
}

// ToNED returns this point's offset from ref in a local North-East-Down
// tangent plane.
func (p Point) ToNED(ref Point, body CentralBody) Vector3 {
	a := body.Radius()
	dLat := (p.latRad() - ref.latRad())
	dLon := (p.lonRad() - ref.lonRad())
	n := dLat * a
	e := dLon * a * math.Cos(ref.latRad())
	d := ref.AltM - p.AltM
	return Vector3{X: n, Y: e, Z: d}
}

// FromNED reconstructs a Point at ned relative to ref.
func FromNED(ned Vector3, ref Point, body CentralBody) Point {
	a := body.Radius()
	dLat := ned.X / a
	dLon := ned.Y / (a * math.Cos(ref.latRad()))
	return Point{
		LatDeg: ref.LatDeg + dLat*180/math.Pi,
		LonDeg: ref.LonDeg + dLon*180/math.Pi,
		AltM:   ref.AltM - ned.Z,
	}
}

// Offset applies a heading-relative delta atomically: it rotates (dx
// forward, dy right, dz down) into the NED frame by heading, then adds
// that to p's NED position relative to itself.
func (p Point) Offset(headingRad float64, dx, dy, dz float64, body CentralBody) Point {
	c, s := math.Cos(headingRad), math.Sin(headingRad)
	north := dx*c - dy*s
	east := dx*s + dy*c
	return FromNED(Vector3{X: north, Y: east, Z: dz}, p, body)
}

// Extrapolate moves distanceM along the great circle at headingRad.
func (p Point) Extrapolate(headingRad, distanceM float64, body CentralBody) Point {
	r := body.Radius()
	delta := distanceM / r

	lat1 := p.latRad()
	lon1 := p.lonRad()

	sinLat2 := math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(headingRad)
	lat2 := math.Asin(clamp(sinLat2, -1, 1))

	y := math.Sin(headingRad) * math.Sin(delta) * math.Cos(lat1)
	x := math.Cos(delta) - math.Sin(lat1)*sinLat2
	lon2 := lon1 + math.Atan2(y, x)

	return Point{LatDeg: lat2 * 180 / math.Pi, LonDeg: normalizeLonDeg(lon2 * 180 / math.Pi), AltM: p.AltM}
}

// TrueBearingTo returns the initial great-circle bearing from p to other,
// in radians, in [0, 2pi).
func (p Point) TrueBearingTo(other Point) float64 {
	lat1, lat2 := p.latRad(), other.latRad()
	dLon := other.lonRad() - p.lonRad()

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	theta := math.Atan2(y, x)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}

// SlantRangeTo returns the Euclidean WCS distance to other when
// useSpherical is false, else the great-circle surface distance plus the
// altitude delta combined as a chord-plus-altitude distance.
func (p Point) SlantRangeTo(other Point, useSpherical bool, body CentralBody) float64 {
	if !useSpherical {
		a := p.ToWCS(body)
		b := other.ToWCS(body)
		return a.Sub(b).Magnitude()
	}
	r := body.Radius()
	lat1, lon1 := p.latRad(), p.lonRad()
	lat2, lon2 := other.latRad(), other.lonRad()

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	hav := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(hav), math.Sqrt(1-hav))
	surface := r * c
	dAlt := other.AltM - p.AltM
	return math.Hypot(surface, dAlt)
}

// GreatCircleDistance is SlantRangeTo(other, true, body) restricted to the
// surface component, used by the path-finders' edge lengths.
func (p Point) GreatCircleDistance(other Point, body CentralBody) float64 {
	r := body.Radius()
	lat1, lon1 := p.latRad(), p.lonRad()
	lat2, lon2 := other.latRad(), other.lonRad()
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	hav := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(hav), math.Sqrt(1-hav))
	return r * c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func normalizeLonDeg(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
