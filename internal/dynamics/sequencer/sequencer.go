// Package sequencer implements a once-only, event-triggered lifecycle
// state machine issuing ignite/shutdown/jettison/activate-sequencer/
// set-pilot-mode actions, driven by one Update call per step the same
// way fcs.System and propulsion.System drive their own sub-components.
package sequencer

import "aerocore/internal/pkglog"

// TriggerKind selects what observable a Trigger compares.
type TriggerKind int

const (
	TriggerTimer TriggerKind = iota
	TriggerAltitudeAbove
	TriggerAltitudeBelow
	TriggerSpeedAbove
	TriggerSpeedBelow
	TriggerNxCrossing
	TriggerNyCrossing
	TriggerNzCrossing
	TriggerDynamicPressureCrossing
	TriggerStaticPressureCrossing
	TriggerCaptiveStateChange
	TriggerSequencerFired
)

// Trigger is one armed condition within a Sequencer's trigger group: it
// samples the current observable and compares it with its threshold.
type Trigger struct {
	Kind TriggerKind

	ThresholdValue float64 // altitude/speed/Nx.../pressure threshold
	FireAtNs       int64   // for TriggerTimer
	SequencerName  string  // for TriggerSequencerFired
	WantCaptive    bool    // for TriggerCaptiveStateChange

	lastValue    float64
	haveLast     bool
	lastCaptive  bool
	haveCaptive  bool
}

// satisfied reports whether the trigger fires given the current
// observation, updating its own crossing-detection memory as it goes.
func (tr *Trigger) satisfied(obs Observation) bool {
	switch tr.Kind {
	case TriggerTimer:
		return obs.NowNs >= tr.FireAtNs
	case TriggerAltitudeAbove:
		return obs.AltitudeM > tr.ThresholdValue
	case TriggerAltitudeBelow:
		return obs.AltitudeM < tr.ThresholdValue
	case TriggerSpeedAbove:
		return obs.SpeedMS > tr.ThresholdValue
	case TriggerSpeedBelow:
		return obs.SpeedMS < tr.ThresholdValue
	case TriggerNxCrossing:
		return tr.crossing(obs.Nx)
	case TriggerNyCrossing:
		return tr.crossing(obs.Ny)
	case TriggerNzCrossing:
		return tr.crossing(obs.Nz)
	case TriggerDynamicPressureCrossing:
		return tr.crossing(obs.DynamicPressurePa)
	case TriggerStaticPressureCrossing:
		return tr.crossing(obs.StaticPressurePa)
	case TriggerCaptiveStateChange:
		changed := tr.haveCaptive && tr.lastCaptive != obs.Captive
		tr.lastCaptive, tr.haveCaptive = obs.Captive, true
		return changed
	case TriggerSequencerFired:
		return obs.FiredSequencers[tr.SequencerName]
	default:
		return false
	}
}

// crossing compares the signs of (current-threshold) and
// (last-threshold): it fires the step the sign changes, in either
// direction.
func (tr *Trigger) crossing(current float64) bool {
	defer func() { tr.lastValue, tr.haveLast = current, true }()
	if !tr.haveLast {
		return false
	}
	prevSign := sign(tr.lastValue - tr.ThresholdValue)
	curSign := sign(current - tr.ThresholdValue)
	return prevSign != curSign && curSign != 0
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// ActionKind selects what a fired Sequencer's action does.
type ActionKind int

const (
	ActionIgniteEngine ActionKind = iota
	ActionShutdownEngine
	ActionJettisonSubobject
	ActionActivateSequencer
	ActionSetPilotMode
)

// Action is one step of a fired sequencer's action list, applied
// through Effects in order.
type Action struct {
	Kind          ActionKind
	TargetName    string // engine name, subobject name, sequencer name
	PilotModeName string // for ActionSetPilotMode
}

// Effects is the vehicle-supplied side-effect surface a Sequencer's
// fired action list drives, kept as a small interface (the same
// local-interface pattern landinggear.ContactInput and
// pathfind/navmesh use) so this package never imports vehicle.
type Effects interface {
	IgniteEngine(name string)
	ShutdownEngine(name string)
	JettisonSubobject(name string) (ok bool)
	ActivateSequencer(name string) (activated bool)
	SetPilotMode(name string)
}

// Observation is the per-step snapshot of observables a Sequencer's
// triggers read.
type Observation struct {
	NowNs                          int64
	AltitudeM, SpeedMS              float64
	Nx, Ny, Nz                      float64
	DynamicPressurePa, StaticPressurePa float64
	Captive                         bool
	FiredSequencers                 map[string]bool
}

// Sequencer is a once-only event-triggered lifecycle state machine:
// (name, trigger group, action list, fired flag).
type Sequencer struct {
	NameStr  string
	Triggers []*Trigger
	Actions  []Action

	fired bool
}

// Fired reports whether this sequencer has already fired.
func (s *Sequencer) Fired() bool { return s.fired }

// Update runs the per-step algorithm: if every trigger in the group is
// satisfied, the action list runs in order and the sequencer is marked
// fired and frozen. A sequencer fires at most once; subsequent calls
// are a no-op.
func (s *Sequencer) Update(obs Observation, eff Effects, log *pkglog.Logger) {
	if s.fired {
		return
	}
	if len(s.Triggers) == 0 {
		return
	}
	for _, tr := range s.Triggers {
		if !tr.satisfied(obs) {
			return
		}
	}

	s.runActions(eff, log)
	s.fired = true
}

func (s *Sequencer) runActions(eff Effects, log *pkglog.Logger) {
	for _, a := range s.Actions {
		switch a.Kind {
		case ActionIgniteEngine:
			eff.IgniteEngine(a.TargetName)
		case ActionShutdownEngine:
			eff.ShutdownEngine(a.TargetName)
		case ActionJettisonSubobject:
			if !eff.JettisonSubobject(a.TargetName) {
				log.Warnf("sequencer %q: jettison of missing subobject %q skipped", s.NameStr, a.TargetName)
			}
		case ActionActivateSequencer:
			eff.ActivateSequencer(a.TargetName)
		case ActionSetPilotMode:
			eff.SetPilotMode(a.PilotModeName)
		}
	}
}

// PendingEventTimes returns the union of timer-trigger fire times that
// fall within [nowNs, nowNs+horizonNs), so a scheduler can avoid
// stepping over an event.
func PendingEventTimes(sequencers []*Sequencer, nowNs, horizonNs int64) []int64 {
	var times []int64
	deadline := nowNs + horizonNs
	for _, s := range sequencers {
		if s.fired {
			continue
		}
		for _, tr := range s.Triggers {
			if tr.Kind == TriggerTimer && tr.FireAtNs >= nowNs && tr.FireAtNs < deadline {
				times = append(times, tr.FireAtNs)
			}
		}
	}
	return times
}

// Group holds every sequencer in a Vehicle, providing the
// activate-by-name entry point triggers and external callers use.
type Group struct {
	Sequencers []*Sequencer
}

// Activate fires the named sequencer's action list immediately,
// bypassing its triggers (used by ActionActivateSequencer and by
// explicit pilot-mode scripting). Returns false if already fired or
// not found; idempotent on repeated calls.
func (g *Group) Activate(name string, eff Effects, log *pkglog.Logger) bool {
	for _, s := range g.Sequencers {
		if s.NameStr != name {
			continue
		}
		if s.fired {
			return false
		}
		s.runActions(eff, log)
		s.fired = true
		return true
	}
	return false
}
