// Package zone implements Zone, ZoneDefinition, ZoneSet, NoiseCloud, and
// ZoneAttenuation: a tagged variant plus a shared Zone capability set
// {contains, penetration, centroid, extrema}.
package zone

import (
	"aerocore/internal/geo"
)

// Zone is the capability set every variant (Definition, Reference, Set,
// NoiseCloud) implements.
type Zone interface {
	// Name identifies the zone for logging and lookup.
	Name() string
	// Contains reports whether pointLLA lies inside the zone, given the
	// reference position/heading to use for Observer-relative zones.
	Contains(pointLLA, referenceLLA geo.Point, referenceHeadingRad float64, body geo.CentralBody) bool
	// Penetration returns the length in meters of the intersection of the
	// segment fromLLA-toLLA with the zone's volume.
	Penetration(fromLLA, toLLA, referenceLLA geo.Point, referenceHeadingRad float64, body geo.CentralBody) float64
	// Extrema returns the zone's lat/lon bounding box.
	Extrema() (latMin, latMax, lonMin, lonMax float64)
	// Centroid returns the zone's approximate center.
	Centroid() geo.Point
	// Area returns the zone's approximate planar area in square meters.
	Area() float64
	// Modifier returns the attenuation modifier registered for category,
	// and whether one is registered at all.
	Modifier(category string) (float64, bool)
}

// Shape tags a Definition's geometry: Circle, Ellipse, Polygon, or Sphere.
type Shape int

const (
	Circle Shape = iota
	Ellipse
	Polygon
	Sphere
)

// ReferenceFrame tags how a Definition resolves its local frame: Observer,
// Internal{Lat,Lon,Heading}, or PlatformRef.
type ReferenceFrame int

const (
	// Observer resolves the reference position/heading from the caller's
	// Contains/Penetration arguments (e.g. a sensor platform).
	Observer ReferenceFrame = iota
	// Internal resolves the reference position/heading from the
	// Definition's own RefLat/RefLon/RefHeadingRad fields.
	Internal
	// PlatformRef resolves the reference from a named platform; this core
	// has no platform registry, so it behaves like Observer and the caller
	// is responsible for supplying that platform's current pose.
	PlatformRef
)

// samplesPerPenetration is the resolution of the adaptive containment scan
// used by Penetration (see definition.go); a boundary crossing found at
// coarse resolution is refined by bisection, so this controls how close
// together two crossings can be before one is missed, not the final
// precision of any single crossing.
const samplesPerPenetration = 64

// bisectionRefineSteps controls how tightly a detected crossing is
// localized once bracketed.
const bisectionRefineSteps = 24
