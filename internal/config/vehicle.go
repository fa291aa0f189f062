// Vehicle assembly from a parsed config tree: the builder that turns the
// generic Node tree from node.go into a wired vehicle.Vehicle, rather than
// leaving callers to walk Node trees themselves.
package config

import (
	"aerocore/internal/dynamics/aero"
	"aerocore/internal/dynamics/fcs"
	"aerocore/internal/dynamics/kinematics"
	"aerocore/internal/dynamics/landinggear"
	"aerocore/internal/dynamics/mass"
	"aerocore/internal/dynamics/propulsion"
	"aerocore/internal/dynamics/sequencer"
	"aerocore/internal/dynamics/vehicle"
	"aerocore/internal/geo"
	"aerocore/internal/pilot"
	"aerocore/internal/pkglog"
)

// BuildVehicle walks the top-level blocks of root and assembles a Vehicle
// from whichever of mass_properties, propulsion_data, landing_gear, aero,
// flight_controls and sequencer are present. Every block is optional; a
// vehicle built from an empty config is a valid, inert point mass.
func BuildVehicle(root *Node, file string) (*vehicle.Vehicle, error) {
	name := "vehicle"
	if n := root.Find("vehicle"); n != nil && n.Arg(0) != "" {
		name = n.Arg(0)
	}

	v := vehicle.New(name)
	v.Body = geo.WGS84
	v.Integrator = vehicle.RK4Integrator{}
	table := pilot.NewTable()
	v.Pilot = table
	v.Log = pkglog.New("vehicle").WithVehicle(name)
	v.Kinematics.Orientation = kinematics.Identity()

	if n := root.Find("mass_properties"); n != nil {
		if err := buildMassProperties(v, n, file); err != nil {
			return nil, err
		}
	}
	if n := root.Find("propulsion_data"); n != nil {
		sys, err := buildPropulsion(n, file)
		if err != nil {
			return nil, err
		}
		v.Propulsion = sys
	}
	if n := root.Find("landing_gear"); n != nil {
		gear, err := buildLandingGear(n, file)
		if err != nil {
			return nil, err
		}
		v.Gear = gear
	}
	for _, n := range root.FindAll("aero") {
		comp, err := buildAeroComponent(n, file)
		if err != nil {
			return nil, err
		}
		v.AeroComps = append(v.AeroComps, comp)
	}
	if n := root.Find("flight_controls"); n != nil {
		sys, err := buildFCS(n, file)
		if err != nil {
			return nil, err
		}
		v.FCS = sys
		for _, out := range sys.Outputs {
			for _, in := range out.InputStreams {
				table.Register(in.InputName)
			}
		}
		v.FCS.Init(v.Pilot, v.Log)
	}
	if n := root.Find("sequencer"); n != nil {
		group, err := buildSequencerGroup(n, file)
		if err != nil {
			return nil, err
		}
		v.Sequencers = group
	}

	return v, nil
}

func vec3(n *Node, file string) (geo.Vector3, error) {
	x, err := n.Float(0, file)
	if err != nil {
		return geo.Vector3{}, err
	}
	y, err := n.Float(1, file)
	if err != nil {
		return geo.Vector3{}, err
	}
	z, err := n.Float(2, file)
	if err != nil {
		return geo.Vector3{}, err
	}
	return geo.Vector3{X: x, Y: y, Z: z}, nil
}

func buildMassProperties(v *vehicle.Vehicle, n *Node, file string) error {
	massKg, cg, inertia := 0.0, geo.Vector3{}, mass.Zero()
	if m := n.Find("mass"); m != nil {
		var err error
		if massKg, err = m.Float(0, file); err != nil {
			return err
		}
	}
	if c := n.Find("cg"); c != nil {
		var err error
		if cg, err = vec3(c, file); err != nil {
			return err
		}
	}
	if i := n.Find("inertia"); i != nil {
		vals := make([]float64, 6)
		for idx := range vals {
			var err error
			if vals[idx], err = i.Float(idx, file); err != nil {
				return err
			}
		}
		inertia = mass.NewInertia(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])
	}
	v.MassProps.SetBase(massKg, cg, inertia)
	v.MassProps.SetCurrentToBase()
	return nil
}

func buildPropulsion(n *Node, file string) (*propulsion.System, error) {
	sys := &propulsion.System{}
	if m := n.Find("mil_channel"); m != nil {
		b, err := m.Bool(0, file)
		if err != nil {
			return nil, err
		}
		sys.HasMILChannel = b
	}
	if m := n.Find("ab_channel"); m != nil {
		b, err := m.Bool(0, file)
		if err != nil {
			return nil, err
		}
		sys.HasABChannel = b
	}

	for _, en := range n.FindAll("engine") {
		eng, err := buildEngine(en, file)
		if err != nil {
			return nil, err
		}
		sys.Engines = append(sys.Engines, eng)
	}
	for _, tn := range n.FindAll("tank") {
		tank, err := buildTank(tn, file)
		if err != nil {
			return nil, err
		}
		sys.Tanks = append(sys.Tanks, tank)
	}
	return sys, nil
}

func buildEngine(n *Node, file string) (*propulsion.Engine, error) {
	eng := &propulsion.Engine{NameStr: n.Arg(0)}
	switch n.Arg(1) {
	case "ramjet":
		eng.EngineType = propulsion.Ramjet
	case "liquid_rocket":
		eng.EngineType = propulsion.LiquidRocket
	case "solid_rocket":
		eng.EngineType = propulsion.SolidRocket
	default:
		eng.EngineType = propulsion.Jet
	}
	if p := n.Find("position"); p != nil {
		pos, err := vec3(p, file)
		if err != nil {
			return nil, err
		}
		eng.PositionBody = pos
	}
	if m := n.Find("max_thrust"); m != nil {
		v, err := m.Float(0, file)
		if err != nil {
			return nil, err
		}
		eng.MaxThrustN = v
	}
	if s := n.Find("sfc"); s != nil {
		v, err := s.Float(0, file)
		if err != nil {
			return nil, err
		}
		eng.SFCKgPerNs = v
	}
	eng.ThrustCurve = func(throttle, mach, densityRatio float64) float64 {
		return throttle * densityRatio
	}
	if n.Find("running") != nil {
		eng.Running = true
	}
	return eng, nil
}

func buildTank(n *Node, file string) (*propulsion.FuelTank, error) {
	tank := &propulsion.FuelTank{NameStr: n.Arg(0), Intact: true}
	if c := n.Find("capacity"); c != nil {
		v, err := c.Float(0, file)
		if err != nil {
			return nil, err
		}
		tank.CapacityKg = v
	}
	if c := n.Find("contents"); c != nil {
		v, err := c.Float(0, file)
		if err != nil {
			return nil, err
		}
		tank.CurrentKg = v
	}
	if p := n.Find("position"); p != nil {
		pos, err := vec3(p, file)
		if err != nil {
			return nil, err
		}
		tank.PositionBody = pos
	}
	tank.MaxFillRateKgS = 1e9
	tank.MaxDrainRateKgS = 1e9
	return tank, nil
}

func buildLandingGear(n *Node, file string) (*landinggear.Gear, error) {
	gear := &landinggear.Gear{}
	for _, pn := range n.FindAll("point") {
		p := &landinggear.ReactionPoint{NameStr: pn.Arg(0)}
		switch pn.Arg(1) {
		case "gear":
			p.IsGear = true
		case "nose_gear":
			p.IsGear, p.IsNoseGear = true, true
		}
		if pos := pn.Find("position"); pos != nil {
			v, err := vec3(pos, file)
			if err != nil {
				return nil, err
			}
			p.PositionBody = v
		}
		p.CompressionAxisBody = geo.Vector3{Z: 1}
		if k := pn.Find("spring_k"); k != nil {
			v, err := k.Float(0, file)
			if err != nil {
				return nil, err
			}
			p.SpringK = v
		}
		if d := pn.Find("damping_c"); d != nil {
			v, err := d.Float(0, file)
			if err != nil {
				return nil, err
			}
			p.DampingC = v
		}
		if mc := pn.Find("max_compression"); mc != nil {
			v, err := mc.Float(0, file)
			if err != nil {
				return nil, err
			}
			p.MaxCompressionM = v
		}
		if mu := pn.Find("friction"); mu != nil {
			vals := make([]float64, 4)
			for idx := range vals {
				var err error
				if vals[idx], err = mu.Float(idx, file); err != nil {
					return nil, err
				}
			}
			p.RollingMu, p.BrakedMu, p.StaticMu, p.KineticMu = vals[0], vals[1], vals[2], vals[3]
		}
		gear.Points = append(gear.Points, p)
	}
	return gear, nil
}

// buildAeroComponent builds an AeroCore whose axis commands each give a
// base non-dimensional coefficient and an optional slope per radian of
// alpha (base + slope*alpha) rather than a curve, the simplest instance
// of aero.CoefficientFn a config block can describe without an embedded
// expression language.
func buildAeroComponent(n *Node, file string) (aero.Component, error) {
	name := n.Arg(0)
	var wingAreaM2, wingSpanM, chordM float64
	var refPt geo.Vector3
	if m := n.Find("metrics"); m != nil {
		vals := make([]float64, 3)
		for idx := range vals {
			var err error
			if vals[idx], err = m.Float(idx, file); err != nil {
				return nil, err
			}
		}
		wingAreaM2, wingSpanM, chordM = vals[0], vals[1], vals[2]
	}
	if r := n.Find("reference_point"); r != nil {
		v, err := vec3(r, file)
		if err != nil {
			return nil, err
		}
		refPt = v
	}

	comp := aero.NewAeroCore(name, wingAreaM2, wingSpanM, chordM, refPt)
	for axis, setter := range map[string]*aero.CoefficientFn{
		"cl": &comp.CL, "cd": &comp.CD, "cy": &comp.CY,
		"cl_roll": &comp.ClRoll, "cm": &comp.Cm, "cn": &comp.Cn,
	} {
		cn := n.Find(axis)
		if cn == nil {
			continue
		}
		base, err := cn.Float(0, file)
		if err != nil {
			return nil, err
		}
		slope := 0.0
		if len(cn.Args) > 1 {
			if slope, err = cn.Float(1, file); err != nil {
				return nil, err
			}
		}
		*setter = linearCoefficient(base, slope)
	}

	if surfaceInput := n.Find("surface_input"); surfaceInput != nil {
		return &aero.AeroMovable{AeroCore: *comp, SurfaceInput: surfaceInput.Arg(0)}, nil
	}
	return comp, nil
}

func linearCoefficient(base, slope float64) aero.CoefficientFn {
	return func(alpha, beta, mach float64, bodyRates geo.Vector3, surfaces map[string]float64) float64 {
		return base + slope*alpha
	}
}

func buildFCS(n *Node, file string) (*fcs.System, error) {
	sys := &fcs.System{}
	for _, on := range n.FindAll("output") {
		out, err := buildSurfaceOutput(on, file)
		if err != nil {
			return nil, err
		}
		sys.Outputs = append(sys.Outputs, out)
	}
	return sys, nil
}

func buildSurfaceOutput(n *Node, file string) (*fcs.SurfaceOutput, error) {
	out := &fcs.SurfaceOutput{NameStr: n.Arg(0), MinAngleRad: -1, MaxAngleRad: 1}
	switch n.Arg(1) {
	case "value":
		out.Kind = fcs.KindValue
	case "boolean":
		out.Kind = fcs.KindBoolean
	default:
		out.Kind = fcs.KindAngle
	}
	if r := n.Find("range"); r != nil {
		lo, err := r.Float(0, file)
		if err != nil {
			return nil, err
		}
		hi, err := r.Float(1, file)
		if err != nil {
			return nil, err
		}
		out.MinAngleRad, out.MaxAngleRad = lo, hi
	}
	if th := n.Find("threshold"); th != nil {
		v, err := th.Float(0, file)
		if err != nil {
			return nil, err
		}
		out.BooleanThreshold = v
	}
	for _, in := range n.FindAll("input") {
		stream := fcs.InputStream{InputName: in.Arg(0)}
		if g := in.Find("gain"); g != nil {
			v, err := g.Float(0, file)
			if err != nil {
				return nil, err
			}
			stream.Modifiers = append(stream.Modifiers, fcs.ScalarGain{Gain: v})
		}
		if c := in.Find("clamp"); c != nil {
			lo, err := c.Float(0, file)
			if err != nil {
				return nil, err
			}
			hi, err := c.Float(1, file)
			if err != nil {
				return nil, err
			}
			stream.Modifiers = append(stream.Modifiers, fcs.ClampGain{Min: lo, Max: hi})
		}
		out.InputStreams = append(out.InputStreams, &stream)
	}
	return out, nil
}

func buildSequencerGroup(n *Node, file string) (*sequencer.Group, error) {
	group := &sequencer.Group{}
	for _, sn := range n.FindAll("sequence") {
		seq, err := buildSequencer(sn, file)
		if err != nil {
			return nil, err
		}
		group.Sequencers = append(group.Sequencers, seq)
	}
	return group, nil
}

func buildSequencer(n *Node, file string) (*sequencer.Sequencer, error) {
	seq := &sequencer.Sequencer{NameStr: n.Arg(0)}
	for _, tn := range n.FindAll("trigger") {
		trig := sequencer.Trigger{}
		switch tn.Arg(0) {
		case "altitude_above":
			trig.Kind = sequencer.TriggerAltitudeAbove
		case "altitude_below":
			trig.Kind = sequencer.TriggerAltitudeBelow
		case "speed_above":
			trig.Kind = sequencer.TriggerSpeedAbove
		case "speed_below":
			trig.Kind = sequencer.TriggerSpeedBelow
		case "timer":
			trig.Kind = sequencer.TriggerTimer
		default:
			return nil, &UnknownCommand{File: file, Line: tn.Line, Command: tn.Arg(0)}
		}
		v, err := tn.Float(1, file)
		if err != nil {
			return nil, err
		}
		if trig.Kind == sequencer.TriggerTimer {
			trig.FireAtNs = int64(v * 1e9)
		} else {
			trig.ThresholdValue = v
		}
		seq.Triggers = append(seq.Triggers, &trig)
	}
	for _, an := range n.FindAll("action") {
		act := sequencer.Action{TargetName: an.Arg(1)}
		switch an.Arg(0) {
		case "ignite_engine":
			act.Kind = sequencer.ActionIgniteEngine
		case "shutdown_engine":
			act.Kind = sequencer.ActionShutdownEngine
		case "jettison":
			act.Kind = sequencer.ActionJettisonSubobject
		case "activate_sequencer":
			act.Kind = sequencer.ActionActivateSequencer
		case "set_pilot_mode":
			act.Kind = sequencer.ActionSetPilotMode
			act.PilotModeName = an.Arg(1)
		default:
			return nil, &UnknownCommand{File: file, Line: an.Line, Command: an.Arg(0)}
		}
		seq.Actions = append(seq.Actions, act)
	}
	return seq, nil
}
