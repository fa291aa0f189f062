// Package fcs implements named surface outputs driven by pilot input
// streams through a declared-order modifier chain, an optional
// angle-mapping curve, and an optional rate-limited actuator, resolved
// against the pilot.Pilot contract instead of a shared mutable property
// map.
package fcs

import (
	"fmt"

	"aerocore/internal/pilot"
	"aerocore/internal/pkglog"
)

// OutputKind selects how a SurfaceOutput's summed control signal is
// turned into its published value: value outputs omit the angle-map
// step, boolean outputs threshold the summed signal.
type OutputKind int

const (
	KindAngle OutputKind = iota
	KindValue
	KindBoolean
)

// InputStream is one named pilot input feeding a SurfaceOutput, plus
// the modifier chain applied to it in declared order.
type InputStream struct {
	InputName string
	Modifiers []Modifier

	handle   pilot.Handle
	resolved bool
}

// SurfaceOutput is one controlled quantity: a control surface angle, a
// scalar value, or a boolean, computed each step by summing its input
// streams.
type SurfaceOutput struct {
	NameStr string
	Kind    OutputKind

	InputStreams []*InputStream

	// AngleMapCurve is the angle-map-auto curve: if present, the summed
	// control output is looked up through it before actuation.
	AngleMapCurve Curve1D
	Actuator      *Actuator
	MinAngleRad   float64
	MaxAngleRad   float64

	BooleanThreshold float64

	CurrentAngleRad float64
	CurrentValue    float64
	CurrentBool     bool
}

// System is the full set of surface outputs, resolved against one
// Pilot.
type System struct {
	Outputs []*SurfaceOutput
}

// Init resolves every input stream's named input against p's handle
// table: walk every input stream, look up its named input in the
// active pilot's handle table, and bind, or log a warning if
// unresolved.
func (s *System) Init(p pilot.Pilot, log *pkglog.Logger) {
	for _, out := range s.Outputs {
		for _, in := range out.InputStreams {
			h, ok := p.ControlHandle(in.InputName)
			if !ok {
				log.Warnf("fcs: surface %q: unresolved input %q", out.NameStr, in.InputName)
				in.resolved = false
				continue
			}
			in.handle = h
			in.resolved = true
		}
	}
}

// Update runs the per-step algorithm for every surface output.
func (s *System) Update(p pilot.Pilot, fc FlightCondition, dtSec float64) {
	for _, out := range s.Outputs {
		controlOutput := 0.0
		for _, in := range out.InputStreams {
			if !in.resolved {
				continue
			}
			signal := p.ControlValue(in.handle)
			for _, m := range in.Modifiers {
				signal = m.Apply(signal, fc)
			}
			controlOutput += signal
		}

		switch out.Kind {
		case KindValue:
			out.CurrentValue = controlOutput
		case KindBoolean:
			out.CurrentBool = controlOutput > out.BooleanThreshold
		default:
			commandedAngle := controlOutput
			if out.AngleMapCurve != nil {
				commandedAngle = out.AngleMapCurve(controlOutput)
			}
			if out.Actuator != nil {
				commandedAngle = out.Actuator.Update(commandedAngle, dtSec)
			}
			out.CurrentAngleRad = clamp(commandedAngle, out.MinAngleRad, out.MaxAngleRad)
		}
	}
}

// Output looks up a surface output by name.
func (s *System) Output(name string) (*SurfaceOutput, error) {
	for _, out := range s.Outputs {
		if out.NameStr == name {
			return out, nil
		}
	}
	return nil, fmt.Errorf("fcs: no such surface output %q", name)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
