package sequencer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeEffects struct {
	ignited    []string
	shutdown   []string
	jettisoned []string
	activated  []string
	pilotModes []string
	missing    map[string]bool
}

func (f *fakeEffects) IgniteEngine(name string)  { f.ignited = append(f.ignited, name) }
func (f *fakeEffects) ShutdownEngine(name string) { f.shutdown = append(f.shutdown, name) }
func (f *fakeEffects) JettisonSubobject(name string) bool {
	if f.missing[name] {
		return false
	}
	f.jettisoned = append(f.jettisoned, name)
	return true
}
func (f *fakeEffects) ActivateSequencer(name string) bool {
	f.activated = append(f.activated, name)
	return true
}
func (f *fakeEffects) SetPilotMode(name string) { f.pilotModes = append(f.pilotModes, name) }

func TestAltitudeAboveTriggerFiresIgnite(t *testing.T) {
	s := &Sequencer{
		NameStr:  "booster-ignite",
		Triggers: []*Trigger{{Kind: TriggerAltitudeAbove, ThresholdValue: 5000}},
		Actions:  []Action{{Kind: ActionIgniteEngine, TargetName: "booster"}},
	}
	eff := &fakeEffects{}

	s.Update(Observation{AltitudeM: 4000}, eff, nil)
	require.False(t, s.Fired())
	require.Empty(t, eff.ignited)

	s.Update(Observation{AltitudeM: 6000}, eff, nil)
	require.True(t, s.Fired())
	require.Equal(t, []string{"booster"}, eff.ignited)

	// Further updates are no-ops: fire-once, idempotent.
	s.Update(Observation{AltitudeM: 7000}, eff, nil)
	require.Len(t, eff.ignited, 1)
}

func TestNxCrossingRequiresPriorSample(t *testing.T) {
	tr := &Trigger{Kind: TriggerNxCrossing, ThresholdValue: 2.0}
	s := &Sequencer{NameStr: "g-trigger", Triggers: []*Trigger{tr},
		Actions: []Action{{Kind: ActionShutdownEngine, TargetName: "engine1"}}}
	eff := &fakeEffects{}

	s.Update(Observation{Nx: 1.0}, eff, nil) // first sample only seeds lastValue
	require.False(t, s.Fired())

	s.Update(Observation{Nx: 3.0}, eff, nil) // crosses 2.0
	require.True(t, s.Fired())
	require.Equal(t, []string{"engine1"}, eff.shutdown)
}

func TestJettisonOfMissingSubobjectLogsAndSkips(t *testing.T) {
	s := &Sequencer{
		NameStr:  "sep",
		Triggers: []*Trigger{{Kind: TriggerTimer, FireAtNs: 100}},
		Actions:  []Action{{Kind: ActionJettisonSubobject, TargetName: "booster-a"}},
	}
	eff := &fakeEffects{missing: map[string]bool{"booster-a": true}}

	s.Update(Observation{NowNs: 200}, eff, nil)
	require.True(t, s.Fired())
	require.Empty(t, eff.jettisoned)
}

func TestGroupActivateIsIdempotent(t *testing.T) {
	g := &Group{Sequencers: []*Sequencer{
		{NameStr: "alt2", Actions: []Action{{Kind: ActionSetPilotMode, PilotModeName: "cruise"}}},
	}}
	eff := &fakeEffects{}

	require.True(t, g.Activate("alt2", eff, nil))
	require.Equal(t, []string{"cruise"}, eff.pilotModes)

	require.False(t, g.Activate("alt2", eff, nil))
	require.Len(t, eff.pilotModes, 1)

	require.False(t, g.Activate("does-not-exist", eff, nil))
}

func TestPendingEventTimesReturnsOnlyUnfiredTimersInHorizon(t *testing.T) {
	far := &Sequencer{NameStr: "far", Triggers: []*Trigger{{Kind: TriggerTimer, FireAtNs: 10_000}}}
	near := &Sequencer{NameStr: "near", Triggers: []*Trigger{{Kind: TriggerTimer, FireAtNs: 150}}}
	g := []*Sequencer{far, near}

	times := PendingEventTimes(g, 100, 1000)
	require.Equal(t, []int64{150}, times)
}
