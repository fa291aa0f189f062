package zone

import (
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"

	"aerocore/internal/geo"
)

// Set is a union of member zones minus a union of exclusion zones: a point
// is inside a Set iff it is inside any member and inside no exclusion. It
// lazily builds a spatial index over member/exclusion bounding boxes on
// first query, and rebuilds it whenever geometry is mutated.
type Set struct {
	NameStr    string
	Members    []Zone
	Exclusions []Zone

	mu        sync.Mutex
	index     *rtree.Rtree
	indexDirty bool
}

// NewSet builds an empty Set; call AddMember/AddExclusion to populate it.
func NewSet(name string) *Set {
	return &Set{NameStr: name, indexDirty: true}
}

func (s *Set) Name() string { return s.NameStr }

// AddMember registers a member zone and marks the spatial index dirty.
func (s *Set) AddMember(z Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Members = append(s.Members, z)
	s.indexDirty = true
}

// AddExclusion registers an exclusion zone and marks the spatial index
// dirty.
func (s *Set) AddExclusion(z Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Exclusions = append(s.Exclusions, z)
	s.indexDirty = true
}

// rtreeItem wraps a Zone with the geom.Bounds rtree indexes on.
type rtreeItem struct {
	zone   Zone
	bounds *geom.Bounds
}

func (it *rtreeItem) Bounds() *geom.Bounds { return it.bounds }

func boundsOf(z Zone) *geom.Bounds {
	latMin, latMax, lonMin, lonMax := z.Extrema()
	return &geom.Bounds{
		Min: geom.Point{X: lonMin, Y: latMin},
		Max: geom.Point{X: lonMax, Y: latMax},
	}
}

// ensureIndex rebuilds the rtree over every member and exclusion's bounding
// box if it is missing or stale. Must be called with s.mu held.
func (s *Set) ensureIndex() {
	if !s.indexDirty && s.index != nil {
		return
	}
	tree := rtree.NewTree(25, 50)
	for _, z := range s.Members {
		tree.Insert(&rtreeItem{zone: z, bounds: boundsOf(z)})
	}
	for _, z := range s.Exclusions {
		tree.Insert(&rtreeItem{zone: z, bounds: boundsOf(z)})
	}
	s.index = tree
	s.indexDirty = false
}

// candidatesNear returns the members/exclusions whose bounding box could
// plausibly intersect the segment's bounding box, via the lazy rtree index.
func (s *Set) candidatesNear(a, b geo.Point) []Zone {
	s.mu.Lock()
	s.ensureIndex()
	idx := s.index
	s.mu.Unlock()

	segBounds := &geom.Bounds{
		Min: geom.Point{X: min2(a.LonDeg, b.LonDeg), Y: min2(a.LatDeg, b.LatDeg)},
		Max: geom.Point{X: max2(a.LonDeg, b.LonDeg), Y: max2(a.LatDeg, b.LatDeg)},
	}
	hits := idx.SearchIntersect(segBounds)
	out := make([]Zone, 0, len(hits))
	for _, h := range hits {
		if item, ok := h.(*rtreeItem); ok {
			out = append(out, item.zone)
		}
	}
	return out
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Contains implements Zone: inside any member and inside no exclusion.
func (s *Set) Contains(pointLLA, referenceLLA geo.Point, referenceHeadingRad float64, body geo.CentralBody) bool {
	insideMember := false
	for _, m := range s.Members {
		if m.Contains(pointLLA, referenceLLA, referenceHeadingRad, body) {
			insideMember = true
			break
		}
	}
	if !insideMember {
		return false
	}
	for _, x := range s.Exclusions {
		if x.Contains(pointLLA, referenceLLA, referenceHeadingRad, body) {
			return false
		}
	}
	return true
}

// Penetration implements Zone: sum of member penetration minus sum of
// exclusion penetration, clamped at zero.
func (s *Set) Penetration(fromLLA, toLLA, referenceLLA geo.Point, referenceHeadingRad float64, body geo.CentralBody) float64 {
	candidates := s.candidatesNear(fromLLA, toLLA)
	total := 0.0
	for _, z := range candidates {
		if isExclusion(s.Exclusions, z) {
			total -= z.Penetration(fromLLA, toLLA, referenceLLA, referenceHeadingRad, body)
		} else {
			total += z.Penetration(fromLLA, toLLA, referenceLLA, referenceHeadingRad, body)
		}
	}
	if total < 0 {
		return 0
	}
	return total
}

func isExclusion(exclusions []Zone, z Zone) bool {
	for _, x := range exclusions {
		if x == z {
			return true
		}
	}
	return false
}

// Extrema implements Zone: the union bounding box of every member.
func (s *Set) Extrema() (latMin, latMax, lonMin, lonMax float64) {
	first := true
	for _, m := range s.Members {
		mLatMin, mLatMax, mLonMin, mLonMax := m.Extrema()
		if first {
			latMin, latMax, lonMin, lonMax = mLatMin, mLatMax, mLonMin, mLonMax
			first = false
			continue
		}
		latMin = min2(latMin, mLatMin)
		lonMin = min2(lonMin, mLonMin)
		latMax = max2(latMax, mLatMax)
		lonMax = max2(lonMax, mLonMax)
	}
	return
}

// Centroid implements Zone: the average of member centroids.
func (s *Set) Centroid() geo.Point {
	if len(s.Members) == 0 {
		return geo.Point{}
	}
	var sumLat, sumLon, sumAlt float64
	for _, m := range s.Members {
		c := m.Centroid()
		sumLat += c.LatDeg
		sumLon += c.LonDeg
		sumAlt += c.AltM
	}
	n := float64(len(s.Members))
	return geo.New(sumLat/n, sumLon/n, sumAlt/n)
}

// Area implements Zone as the sum of member areas (an overestimate when
// members overlap, acceptable for the coarse sizing this is used for).
func (s *Set) Area() float64 {
	total := 0.0
	for _, m := range s.Members {
		total += m.Area()
	}
	return total
}

// Modifier returns the first member's modifier for category, matching the
// "a zone missing the queried category contributes zero" rule at the
// individual-zone granularity the attenuation index already operates on
// (zone.ZoneAttenuation iterates members directly, not through Set).
func (s *Set) Modifier(category string) (float64, bool) {
	for _, m := range s.Members {
		if v, ok := m.Modifier(category); ok {
			return v, ok
		}
	}
	return 0, false
}

// pointCandidates returns the members/exclusions whose bounding box covers
// p, via the lazy rtree index built once over the whole Set rather than
// rebuilt per query.
func (s *Set) pointCandidates(p geo.Point) []Zone {
	s.mu.Lock()
	s.ensureIndex()
	idx := s.index
	s.mu.Unlock()

	ptBounds := &geom.Bounds{
		Min: geom.Point{X: p.LonDeg, Y: p.LatDeg},
		Max: geom.Point{X: p.LonDeg, Y: p.LatDeg},
	}
	hits := idx.SearchIntersect(ptBounds)
	out := make([]Zone, 0, len(hits))
	for _, h := range hits {
		if item, ok := h.(*rtreeItem); ok {
			out = append(out, item.zone)
		}
	}
	return out
}

// ContainsGrid is a batch containment query across many points. It builds
// the rtree index once for the whole batch, and for each point evaluates
// Contains only against the members/exclusions whose bounding box covers
// that point instead of walking the full Members/Exclusions lists per
// point the way Contains does.
func (s *Set) ContainsGrid(points []geo.Point, referenceLLA geo.Point, referenceHeadingRad float64, body geo.CentralBody) []bool {
	out := make([]bool, len(points))
	for i, p := range points {
		insideMember := false
		excluded := false
		for _, z := range s.pointCandidates(p) {
			if isExclusion(s.Exclusions, z) {
				if z.Contains(p, referenceLLA, referenceHeadingRad, body) {
					excluded = true
					break
				}
			} else if !insideMember && z.Contains(p, referenceLLA, referenceHeadingRad, body) {
				insideMember = true
			}
		}
		out[i] = insideMember && !excluded
	}
	return out
}
