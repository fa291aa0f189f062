package zone

import (
	"github.com/samber/lo"

	"aerocore/internal/geo"
	"aerocore/internal/simclock"
)

// minEndpointAltM is the altitude a zero-altitude query endpoint is
// silently raised to before penetration is computed, to avoid a
// degenerate all-or-nothing result at ground level.
const minEndpointAltM = 1.0

// attenuationMember is anything ZoneAttenuation can index: Zone and
// NoiseCloud share Contains/Penetration/Modifier but NoiseCloud's
// penetration additionally needs simulation time, so the index stores
// each kind behind a small adapter rather than forcing NoiseCloud to
// pretend it is time-invariant.
type attenuationMember interface {
	Name() string
	Modifier(category string) (float64, bool)
	penetrationAt(fromLLA, toLLA geo.Point, t simclock.Nanos, body geo.CentralBody) float64
}

type zoneMember struct{ Zone }

func (m zoneMember) penetrationAt(fromLLA, toLLA geo.Point, _ simclock.Nanos, body geo.CentralBody) float64 {
	return m.Zone.Penetration(fromLLA, toLLA, fromLLA, 0, body)
}

type cloudMember struct{ *NoiseCloud }

func (m cloudMember) penetrationAt(fromLLA, toLLA geo.Point, t simclock.Nanos, body geo.CentralBody) float64 {
	return m.NoiseCloud.PenetrationAt(fromLLA, toLLA, t, body)
}

// Attenuation builds reverse indexes from modifier category to the ordered,
// deduplicated list of zones/noise-clouds registering that category, and
// answers cumulative attenuation queries against them: ComputeAttenuation
// sums modifier * penetration * (twoWay ? 2 : 1) over the indexed members.
type Attenuation struct {
	members []attenuationMember
	index   map[string][]attenuationMember
}

// NewAttenuation builds the reverse index over zones and clouds. Each
// category's member list is deduplicated by Name via samber/lo.
func NewAttenuation(zones []Zone, clouds []*NoiseCloud) *Attenuation {
	a := &Attenuation{index: make(map[string][]attenuationMember)}
	for _, z := range zones {
		a.members = append(a.members, zoneMember{z})
	}
	for _, c := range clouds {
		a.members = append(a.members, cloudMember{c})
	}

	byCategory := make(map[string][]attenuationMember)
	for _, m := range a.members {
		for cat := range categoriesOf(m) {
			byCategory[cat] = append(byCategory[cat], m)
		}
	}
	for cat, ms := range byCategory {
		a.index[cat] = lo.UniqBy(ms, func(m attenuationMember) string { return m.Name() })
	}
	return a
}

// categoriesOf probes a member's known modifier categories. Zone/NoiseCloud
// expose Modifiers as an unordered map with no category enumeration method,
// so the attenuation index is built from the categories actually registered
// on each member via its concrete Modifiers field.
func categoriesOf(m attenuationMember) map[string]struct{} {
	out := make(map[string]struct{})
	switch v := m.(type) {
	case zoneMember:
		switch z := v.Zone.(type) {
		case *Definition:
			for cat := range z.Modifiers {
				out[cat] = struct{}{}
			}
		case *NoiseCloud:
			for cat := range z.Modifiers {
				out[cat] = struct{}{}
			}
		case *Set:
			for _, mem := range z.Members {
				for cat := range categoriesOf(zoneMember{mem}) {
					out[cat] = struct{}{}
				}
			}
		case *Reference:
			for cat := range categoriesOf(zoneMember{z.Base}) {
				out[cat] = struct{}{}
			}
		}
	case cloudMember:
		for cat := range v.NoiseCloud.Modifiers {
			out[cat] = struct{}{}
		}
	}
	return out
}

// ComputeAttenuation returns the cumulative attenuation along the segment
// fromLLA to toLLA at simulation time t for category, zero if the category
// is unknown since an empty index is a legitimate configuration.
func (a *Attenuation) ComputeAttenuation(category string, fromLLA, toLLA geo.Point, t simclock.Nanos, twoWay bool, body geo.CentralBody) float64 {
	members, ok := a.index[category]
	if !ok {
		return 0
	}
	from, to := raiseEndpoint(fromLLA), raiseEndpoint(toLLA)

	factor := 1.0
	if twoWay {
		factor = 2.0
	}

	total := 0.0
	for _, m := range members {
		modifier, ok := m.Modifier(category)
		if !ok {
			continue
		}
		pen := m.penetrationAt(from, to, t, body)
		total += modifier * pen * factor
	}
	return total
}

func raiseEndpoint(p geo.Point) geo.Point {
	if p.AltM == 0 {
		p.AltM = minEndpointAltM
	}
	return p
}
