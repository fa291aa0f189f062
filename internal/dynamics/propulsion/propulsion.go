package propulsion

import "aerocore/internal/geo"

// milAfterburnerEpsilon is the epsilon within which the AB channel adds
// 0..1 once MIL reaches 1 - epsilon.
const milAfterburnerEpsilon = 1e-3

// System is the engine list, the fuel tank and transfer graph, and the
// single throttle lever that drives every engine.
type System struct {
	Engines   []*Engine
	Tanks     []*FuelTank
	Transfers []*Transfer

	HasMILChannel bool
	HasABChannel  bool

	ThrottleLever float64 // raw lever input, 0..2 when HasABChannel

	FuelBurnFrozen bool
}

// SetThrottle resolves the single lever into per-engine throttle
// positions: a single throttle lever multiplexes into per-engine
// throttles; if a MIL channel exists the lever is clamped 0..1 and the
// AB channel adds 0..1 only once MIL reaches 1 - epsilon.
func (s *System) SetThrottle(lever float64) {
	s.ThrottleLever = lever

	mil := lever
	ab := 0.0
	if s.HasMILChannel {
		mil = clampUnit(lever)
		if s.HasABChannel && mil >= 1-milAfterburnerEpsilon {
			ab = clampUnit(lever - 1)
		}
	}

	combined := mil + ab
	for _, e := range s.Engines {
		e.ThrottlePosition = combined
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Ignite starts every engine at full throttle.
func (s *System) Ignite() {
	for _, e := range s.Engines {
		e.Running = true
	}
	s.SetThrottle(1.0)
}

// Shutdown stops every engine.
func (s *System) Shutdown() {
	s.SetThrottle(0.0)
	for _, e := range s.Engines {
		e.Running = false
	}
}

// IgniteEngine starts the named engine at full throttle, leaving the
// others untouched: the per-engine counterpart to Ignite, driven by a
// Sequencer's ignite-engine action.
func (s *System) IgniteEngine(name string) bool {
	for _, e := range s.Engines {
		if e.NameStr == name {
			e.Running = true
			e.ThrottlePosition = 1.0
			return true
		}
	}
	return false
}

// ShutdownEngine stops the named engine, leaving the others untouched.
func (s *System) ShutdownEngine(name string) bool {
	for _, e := range s.Engines {
		if e.NameStr == name {
			e.Running = false
			e.ThrottlePosition = 0.0
			return true
		}
	}
	return false
}

// Update advances propulsion by one step: it evaluates every engine's
// thrust and fuel burn, consumes tank fuel and solid-motor propellant
// (unless FuelBurnFrozen, in which case the update returns immediately,
// advancing only the clock), and runs the fuel-transfer algorithm.
func (s *System) Update(dtSec, mach, densityRatio float64) (forceBody, momentBody geo.Vector3) {
	if s.FuelBurnFrozen {
		return geo.Vector3{}, geo.Vector3{}
	}

	force, moment, fuelBurnKgS, propBurnKgS := SumForces(s.Engines, mach, densityRatio)
	s.burnFuel(fuelBurnKgS * dtSec)
	s.burnPropellant(propBurnKgS * dtSec)
	UpdateTransfers(s.Transfers, dtSec)
	return force, moment
}

// burnFuel draws fuelKg from the tank feeding each running non-solid
// engine, proportioned by available contents across all intact tanks.
func (s *System) burnFuel(fuelKg float64) {
	if fuelKg <= 0 || len(s.Tanks) == 0 {
		return
	}
	total := 0.0
	for _, t := range s.Tanks {
		if t.Intact {
			total += t.CurrentKg
		}
	}
	if total <= 0 {
		return
	}
	for _, t := range s.Tanks {
		if !t.Intact || t.CurrentKg <= 0 {
			continue
		}
		share := fuelKg * (t.CurrentKg / total)
		if share > t.CurrentKg {
			share = t.CurrentKg
		}
		t.CurrentKg -= share
	}
}

func (s *System) burnPropellant(massKg float64) {
	if massKg <= 0 {
		return
	}
	for _, e := range s.Engines {
		if e.EngineType != SolidRocket || e.PropellantMassKg <= 0 {
			continue
		}
		e.PropellantMassKg -= massKg
		if e.PropellantMassKg < 0 {
			e.PropellantMassKg = 0
		}
	}
}
