package kinematics

import (
	"math"

	"aerocore/internal/geo"
	"aerocore/internal/simclock"
	"aerocore/internal/units"
)

// Atmosphere holds the ISA standard-atmosphere quantities a State derives
// its Mach/airspeeds/dynamic-pressure from, as its own value type so
// vehicle and aero can both read it without re-deriving it.
type Atmosphere struct {
	TemperatureK float64
	PressurePa   float64
	DensityKgM3  float64
	SoundSpeedMs float64
}

const (
	seaLevelTempK   = 288.15
	seaLevelPressPa = 101325.0
	tempLapseRateKM = 0.0065
	gasConstant     = 287.05
	gammaAir        = 1.4
	tropopauseM     = 11000.0
	tropopauseTempK = 216.65
)

// ISA computes standard-atmosphere conditions at the given altitude MSL
// (meters), clamped at sea level for negative altitudes.
func ISA(altitudeM float64) Atmosphere {
	if altitudeM < 0 {
		altitudeM = 0
	}
	var a Atmosphere
	if altitudeM <= tropopauseM {
		a.TemperatureK = seaLevelTempK - tempLapseRateKM*altitudeM
		a.PressurePa = seaLevelPressPa * math.Pow(a.TemperatureK/seaLevelTempK, units.StandardGravity/(gasConstant*tempLapseRateKM))
	} else {
		a.TemperatureK = tropopauseTempK
		p11 := seaLevelPressPa * math.Pow(tropopauseTempK/seaLevelTempK, units.StandardGravity/(gasConstant*tempLapseRateKM))
		a.PressurePa = p11 * math.Exp(-units.StandardGravity*(altitudeM-tropopauseM)/(gasConstant*tropopauseTempK))
	}
	a.DensityKgM3 = a.PressurePa / (gasConstant * a.TemperatureK)
	a.SoundSpeedMs = math.Sqrt(gammaAir * gasConstant * a.TemperatureK)
	return a
}

// State is a vehicle's kinematic state: position, WCS/NED/body velocity,
// DCM+quaternion orientation, body rates, and every flight parameter
// derived from them.
type State struct {
	Position geo.Point
	WCS      geo.Vector3

	VelocityWCS  geo.Vector3
	VelocityNED  geo.Vector3
	VelocityBody geo.Vector3 // u, v, w

	Orientation Quaternion
	BodyRates   geo.Vector3 // p, q, r

	Alpha, Beta         float64
	AlphaDot, BetaDot   float64
	Mach                float64
	TrueAirspeed        float64
	CalibratedAirspeed  float64
	IndicatedAirspeed   float64
	DynamicPressurePa   float64
	StaticPressurePa    float64
	Nx, Ny, Nz          float64

	Atmosphere Atmosphere

	lastAlpha, lastBeta float64
	haveLast            bool
}

// RollPitchYaw returns the Euler angles implied by Orientation.
func (s *State) RollPitchYaw() (roll, pitch, yaw float64) { return s.Orientation.ToEuler() }

// RecomputeDerived refreshes every derived quantity (alpha, beta,
// alphaDot, betaDot, Mach, airspeeds, dynamic pressure) from the
// primitive state; callers run this after every integration step. body
// is the CentralBody used to keep Position/WCS consistent.
func (s *State) RecomputeDerived(dtNanos simclock.Nanos, body geo.CentralBody) {
	s.WCS = s.Position.ToWCS(body)
	s.Atmosphere = ISA(s.Position.AltM)

	s.TrueAirspeed = s.VelocityBody.Magnitude()
	s.IndicatedAirspeed = s.TrueAirspeed * math.Sqrt(s.Atmosphere.DensityKgM3/1.225)
	s.CalibratedAirspeed = s.IndicatedAirspeed

	if s.Atmosphere.SoundSpeedMs > 0 {
		s.Mach = s.TrueAirspeed / s.Atmosphere.SoundSpeedMs
	}

	if s.VelocityBody.X != 0 || s.VelocityBody.Z != 0 {
		s.Alpha = math.Atan2(s.VelocityBody.Z, s.VelocityBody.X)
	}
	if s.TrueAirspeed > 0 {
		s.Beta = math.Asin(clamp(s.VelocityBody.Y/s.TrueAirspeed, -1, 1))
	}

	s.DynamicPressurePa = 0.5 * s.Atmosphere.DensityKgM3 * s.TrueAirspeed * s.TrueAirspeed
	s.StaticPressurePa = s.Atmosphere.PressurePa

	dt := dtNanos.Seconds()
	if s.haveLast && dt > 0 {
		s.AlphaDot = (s.Alpha - s.lastAlpha) / dt
		s.BetaDot = (s.Beta - s.lastBeta) / dt
	}
	s.lastAlpha, s.lastBeta = s.Alpha, s.Beta
	s.haveLast = true
}

// ApplyLoadFactors records the body-frame specific force (total
// non-gravity force / mass) as load factors Nx, Ny, Nz in units of
// standard gravity, the quantity a g-meter displays.
func (s *State) ApplyLoadFactors(specificForceBody geo.Vector3) {
	s.Nx = specificForceBody.X / units.StandardGravity
	s.Ny = specificForceBody.Y / units.StandardGravity
	s.Nz = specificForceBody.Z / units.StandardGravity
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
