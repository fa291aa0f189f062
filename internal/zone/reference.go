package zone

import (
	"aerocore/internal/geo"
)

// Reference is a zone that translates and rotates queries into a base
// zone's frame before delegating.
type Reference struct {
	NameStr       string
	Base          Zone
	TranslationM  geo.Vector3 // forward/right/down offset applied to the base zone's reference frame
	HeadingOffset float64     // radians added to the caller-supplied reference heading
}

func (r *Reference) Name() string { return r.NameStr }

func (r *Reference) Modifier(category string) (float64, bool) { return r.Base.Modifier(category) }

func (r *Reference) transformedReference(referenceLLA geo.Point, referenceHeadingRad float64, body geo.CentralBody) (geo.Point, float64) {
	heading := referenceHeadingRad + r.HeadingOffset
	translated := referenceLLA.Offset(referenceHeadingRad, r.TranslationM.X, r.TranslationM.Y, r.TranslationM.Z, body)
	return translated, heading
}

func (r *Reference) Contains(pointLLA, referenceLLA geo.Point, referenceHeadingRad float64, body geo.CentralBody) bool {
	ref, heading := r.transformedReference(referenceLLA, referenceHeadingRad, body)
	return r.Base.Contains(pointLLA, ref, heading, body)
}

func (r *Reference) Penetration(fromLLA, toLLA, referenceLLA geo.Point, referenceHeadingRad float64, body geo.CentralBody) float64 {
	ref, heading := r.transformedReference(referenceLLA, referenceHeadingRad, body)
	return r.Base.Penetration(fromLLA, toLLA, ref, heading, body)
}

func (r *Reference) Extrema() (latMin, latMax, lonMin, lonMax float64) {
	return r.Base.Extrema()
}

func (r *Reference) Centroid() geo.Point {
	return r.Base.Centroid()
}

func (r *Reference) Area() float64 {
	return r.Base.Area()
}
