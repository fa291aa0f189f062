package vehicle

import (
	"fmt"

	"github.com/google/uuid"

	"aerocore/internal/dynamics/aero"
	"aerocore/internal/dynamics/fcs"
	"aerocore/internal/dynamics/kinematics"
	"aerocore/internal/dynamics/landinggear"
	"aerocore/internal/dynamics/mass"
	"aerocore/internal/dynamics/propulsion"
	"aerocore/internal/dynamics/sequencer"
	"aerocore/internal/geo"
	"aerocore/internal/pilot"
	"aerocore/internal/pkglog"
	"aerocore/internal/simclock"
	"aerocore/internal/terrain"
	"aerocore/internal/units"
)

// Subobject is a child vehicle carried captive (driven from the parent's
// kinematics) until jettisoned, at which point it becomes an independent
// Vehicle.
type Subobject struct {
	ID      uuid.UUID
	NameStr string
	Captive bool

	// RelativeCG is this subobject's mount point in the parent's body
	// frame, used for mass accumulation while captive. Jettison adds the
	// separation velocity and rates directly, without a lever-arm
	// transform about this point.
	RelativeCG geo.Vector3

	SeparationVelocityBody geo.Vector3
	SeparationRatesBody    geo.Vector3

	Vehicle *Vehicle
}

// JettisonCallback receives ownership of a freed Subobject.
type JettisonCallback func(freed *Subobject)

// GearContactProvider computes per-reaction-point terrain contact
// geometry each step: kept as a small interface so Vehicle never depends
// on a concrete terrain representation, the same local-interface pattern
// sequencer.Effects uses to stay decoupled from its caller.
type GearContactProvider interface {
	Contacts(state kinematics.State, points []*landinggear.ReactionPoint, body geo.CentralBody) map[string]landinggear.ContactInput
}

// TerrainGearContacts is the default GearContactProvider, sampling a
// terrain.Sampler at each reaction point's projected ground position.
type TerrainGearContacts struct {
	Terrain terrain.Sampler
}

// Contacts implements GearContactProvider by projecting each reaction
// point's body-frame offset into a world position, sampling terrain
// there, and deriving penetration along the point's own compression
// axis. This is a first-order approximation (it ignores the curvature
// between CG and contact point over one step) adequate for the spring/
// damper model landinggear.Gear implements.
func (t TerrainGearContacts) Contacts(state kinematics.State, points []*landinggear.ReactionPoint, body geo.CentralBody) map[string]landinggear.ContactInput {
	out := make(map[string]landinggear.ContactInput, len(points))
	if t.Terrain == nil {
		return out
	}
	for _, p := range points {
		offsetNED := state.Orientation.RotateVector(p.PositionBody)
		pointGeo := geo.FromNED(offsetNED, state.Position, body)

		groundM := t.Terrain.ElevationM(pointGeo.LatDeg, pointGeo.LonDeg)
		penetration := groundM - pointGeo.AltM

		north, east, down := t.Terrain.NormalNED(pointGeo.LatDeg, pointGeo.LonDeg)
		normalBody := state.Orientation.Conjugate().RotateVector(geo.Vector3{X: north, Y: east, Z: down})

		pointVelocityBody := state.VelocityBody.Add(state.BodyRates.Cross(p.PositionBody))
		penetrationRate := -pointVelocityBody.Dot(normalBody)

		out[p.NameStr] = landinggear.ContactInput{
			PenetrationM:      penetration,
			PenetrationRateMS: penetrationRate,
			SurfaceNormalBody: normalBody,
			PointVelocityBody: pointVelocityBody,
		}
	}
	return out
}

// Vehicle is the top-level composition: one FlightControlSystem,
// PropulsionSystem, set of aero contributors, LandingGear, MassProperties,
// KinematicState, Sequencers, and an Integrator, stepped together every
// update.
type Vehicle struct {
	ID      uuid.UUID
	NameStr string

	Clock      simclock.Nanos
	Body       geo.CentralBody
	Integrator Integrator

	Pilot       pilot.Pilot
	FCS         *fcs.System
	Propulsion  *propulsion.System
	AeroComps   []aero.Component
	Gear        *landinggear.Gear
	GearContact GearContactProvider
	MassProps   mass.MassProperties
	Kinematics  kinematics.State
	Sequencers  *sequencer.Group

	CurrentPilotMode string

	Subobjects            []*Subobject
	OnSubobjectJettisoned JettisonCallback

	Log *pkglog.Logger
}

// New allocates a Vehicle with a fresh random ID, since identifying by
// name alone collides once multiple instances of the same airframe type
// exist in one scenario.
func New(name string) *Vehicle {
	return &Vehicle{ID: uuid.New(), NameStr: name}
}

// Update runs the ten-step per-step algorithm. dtNanos <=
// simclock.ZeroThreshold is a no-op.
func (v *Vehicle) Update(dtNanos simclock.Nanos) {
	if dtNanos.IsZero() {
		return
	}
	dtSec := dtNanos.Seconds()

	// Step 1: flight control system.
	surfaces := map[string]float64{}
	if v.FCS != nil && v.Pilot != nil {
		fc := fcs.FlightCondition{
			Mach: v.Kinematics.Mach, KTAS: v.Kinematics.TrueAirspeed * units.MsToKt,
			AlphaRad: v.Kinematics.Alpha, BetaRad: v.Kinematics.Beta,
			Nx: v.Kinematics.Nx, Ny: v.Kinematics.Ny, Nz: v.Kinematics.Nz,
			AltitudeM: v.Kinematics.Position.AltM, DynamicPressurePa: v.Kinematics.DynamicPressurePa,
		}
		v.FCS.Update(v.Pilot, fc, dtSec)
		for _, out := range v.FCS.Outputs {
			if out.Kind == fcs.KindAngle {
				surfaces[out.NameStr] = out.CurrentAngleRad
			}
		}
	}

	// Step 6 accumulator (we fold in each phase's contribution as it's
	// computed, rather than deferring to the end, since later phases
	// need the running total as their "external force").
	var totalForceBody, totalMomentBody geo.Vector3
	// Moments are summed about the body-frame origin; a shift of
	// MassProps.CurrentCG away from that origin is not applied.
	cgBody := geo.Vector3{}

	// Step 2: propulsion.
	if v.Propulsion != nil {
		const seaLevelDensityKgM3 = 1.225
		densityRatio := v.Kinematics.Atmosphere.DensityKgM3 / seaLevelDensityKgM3
		force, moment := v.Propulsion.Update(dtSec, v.Kinematics.Mach, densityRatio)
		totalForceBody = totalForceBody.Add(force)
		totalMomentBody = totalMomentBody.Add(moment)
	}

	// Step 3: aero.
	if len(v.AeroComps) > 0 {
		force, moment, _, _, _ := aero.Sum(v.AeroComps, v.Kinematics.Alpha, v.Kinematics.Beta, v.Kinematics.Mach,
			v.Kinematics.BodyRates, v.Kinematics.DynamicPressurePa, surfaces, cgBody)
		totalForceBody = totalForceBody.Add(force)
		totalMomentBody = totalMomentBody.Add(moment)
	}

	// Step 4: gravity, resolved from NED into the body frame.
	massKg := v.MassProps.CurrentMassKg
	gravityNED := geo.Vector3{Z: massKg * units.StandardGravity}
	gravityBody := v.Kinematics.Orientation.Conjugate().RotateVector(gravityNED)
	totalForceBody = totalForceBody.Add(gravityBody)

	// Step 5: landing gear, driven by the sum of every other contribution
	// as its "external force".
	if v.Gear != nil && len(v.Gear.Points) > 0 {
		downBody := v.Kinematics.Orientation.Conjugate().RotateVector(geo.Vector3{Z: 1})
		var contacts map[string]landinggear.ContactInput
		if v.GearContact != nil {
			contacts = v.GearContact.Contacts(v.Kinematics, v.Gear.Points, v.Body)
		}
		speedMS := v.Kinematics.VelocityBody.Magnitude()
		force, moment, crashed := v.Gear.Update(dtSec, speedMS, downBody, contacts, totalForceBody)
		totalForceBody = totalForceBody.Add(force)
		totalMomentBody = totalMomentBody.Add(moment)
		if crashed {
			v.Log.Warnf("vehicle %q: ground-crash event", v.NameStr)
		}
	}

	// Step 6: mass properties from the current tank/subobject children,
	// ahead of the integrator so it sees this step's mass.
	v.recalculateMass()

	// Step 7: integrate.
	if v.Integrator != nil {
		v.Integrator.Step(&v.Kinematics, v.MassProps, totalForceBody, totalMomentBody, dtNanos, v.Body)
	}

	// Step 8: recompute derived kinematics. Load factors are the
	// accelerometer-style specific force excluding gravity, so gravityBody
	// is subtracted back out of the step's total.
	v.Kinematics.RecomputeDerived(dtNanos, v.Body)
	specificForceExclGravity := totalForceBody.Sub(gravityBody).Scale(1 / maxFloat(massKg, 1))
	v.Kinematics.ApplyLoadFactors(specificForceExclGravity)

	// Step 9: sequencers, then subobjects.
	if v.Sequencers != nil {
		obs := sequencer.Observation{
			NowNs: int64(v.Clock), AltitudeM: v.Kinematics.Position.AltM, SpeedMS: v.Kinematics.TrueAirspeed,
			Nx: v.Kinematics.Nx, Ny: v.Kinematics.Ny, Nz: v.Kinematics.Nz,
			DynamicPressurePa: v.Kinematics.DynamicPressurePa, StaticPressurePa: v.Kinematics.StaticPressurePa,
			Captive: true, FiredSequencers: v.firedSequencerSet(),
		}
		for _, s := range v.Sequencers.Sequencers {
			s.Update(obs, v, v.Log)
		}
	}
	for _, sub := range v.Subobjects {
		if sub.Captive {
			sub.Vehicle.Kinematics.Position = v.Kinematics.Position
			sub.Vehicle.Kinematics.VelocityBody = v.Kinematics.VelocityBody
			sub.Vehicle.Kinematics.Orientation = v.Kinematics.Orientation
			sub.Vehicle.Kinematics.BodyRates = v.Kinematics.BodyRates
		} else {
			sub.Vehicle.Update(dtNanos)
		}
	}

	// Step 10: advance clock.
	v.Clock += dtNanos
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func (v *Vehicle) firedSequencerSet() map[string]bool {
	if v.Sequencers == nil {
		return nil
	}
	fired := make(map[string]bool, len(v.Sequencers.Sequencers))
	for _, s := range v.Sequencers.Sequencers {
		fired[s.NameStr] = s.Fired()
	}
	return fired
}

func (v *Vehicle) recalculateMass() {
	var children []mass.Component
	if v.Propulsion != nil {
		for _, t := range v.Propulsion.Tanks {
			children = append(children, mass.Component{MassKg: t.CurrentKg, CG: t.PositionBody, Inertia: mass.Zero()})
		}
		for _, e := range v.Propulsion.Engines {
			if e.PropellantMassKg > 0 {
				children = append(children, mass.Component{MassKg: e.PropellantMassKg, CG: e.PositionBody, Inertia: mass.Zero()})
			}
		}
	}
	for _, sub := range v.Subobjects {
		if sub.Captive {
			sub.Vehicle.recalculateMass()
			children = mass.AccumulateFromChild(children, sub.RelativeCG, &sub.Vehicle.MassProps)
		}
	}
	v.MassProps.CalculateCurrentMassProperties(children)
}

// Sequencer effects: Vehicle implements sequencer.Effects so its own
// Sequencers group can drive ignite/shutdown/jettison/activate/pilot-mode
// actions directly.

func (v *Vehicle) IgniteEngine(name string) {
	if v.Propulsion != nil {
		v.Propulsion.IgniteEngine(name)
	}
}

func (v *Vehicle) ShutdownEngine(name string) {
	if v.Propulsion != nil {
		v.Propulsion.ShutdownEngine(name)
	}
}

func (v *Vehicle) JettisonSubobject(name string) bool {
	_, err := v.Jettison(name)
	return err == nil
}

func (v *Vehicle) ActivateSequencer(name string) bool {
	if v.Sequencers == nil {
		return false
	}
	return v.Sequencers.Activate(name, v, v.Log)
}

func (v *Vehicle) SetPilotMode(name string) {
	v.CurrentPilotMode = name
}

// Jettison releases a subobject: remove from the parent list, mark
// non-captive, preserve WCS position/velocity, apply the configured
// separation velocity/rate, and hand ownership to OnSubobjectJettisoned.
func (v *Vehicle) Jettison(name string) (*Subobject, error) {
	for i, sub := range v.Subobjects {
		if sub.NameStr != name {
			continue
		}
		sub.Captive = false
		sub.Vehicle.Kinematics.VelocityBody = sub.Vehicle.Kinematics.VelocityBody.Add(sub.SeparationVelocityBody)
		sub.Vehicle.Kinematics.BodyRates = sub.Vehicle.Kinematics.BodyRates.Add(sub.SeparationRatesBody)
		v.Subobjects = append(v.Subobjects[:i], v.Subobjects[i+1:]...)
		if v.OnSubobjectJettisoned != nil {
			v.OnSubobjectJettisoned(sub)
		}
		return sub, nil
	}
	return nil, fmt.Errorf("vehicle %q: no such subobject %q", v.NameStr, name)
}
