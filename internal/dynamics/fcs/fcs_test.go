package fcs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/pilot"
	"aerocore/internal/pkglog"
)

func TestInitResolvesHandlesAndWarnsOnMissing(t *testing.T) {
	p := pilot.NewTable()
	p.SetValue("elevator-cmd", 0.5)

	s := &System{Outputs: []*SurfaceOutput{
		{NameStr: "elevator", InputStreams: []*InputStream{
			{InputName: "elevator-cmd"},
			{InputName: "missing-cmd"},
		}, MinAngleRad: -1, MaxAngleRad: 1},
	}}
	s.Init(p, pkglog.New("fcs-test"))

	require.True(t, s.Outputs[0].InputStreams[0].resolved)
	require.False(t, s.Outputs[0].InputStreams[1].resolved)
}

func TestUpdateSumsStreamsAndClampsAngle(t *testing.T) {
	p := pilot.NewTable()
	p.SetValue("elevator-cmd", 1.0)

	s := &System{Outputs: []*SurfaceOutput{
		{
			NameStr: "elevator",
			InputStreams: []*InputStream{
				{InputName: "elevator-cmd", Modifiers: []Modifier{ScalarGain{Gain: 30}}},
			},
			MinAngleRad: -0.3, MaxAngleRad: 0.3,
		},
	}}
	s.Init(p, nil)
	s.Update(p, FlightCondition{}, 0.01)

	require.InDelta(t, 0.3, s.Outputs[0].CurrentAngleRad, 1e-9)
}

func TestUpdateAppliesGainCurveKeyedOnMach(t *testing.T) {
	p := pilot.NewTable()
	p.SetValue("aileron-cmd", 1.0)

	doubleAtHighMach := func(mach float64) float64 {
		if mach > 1 {
			return 2
		}
		return 1
	}

	s := &System{Outputs: []*SurfaceOutput{
		{
			NameStr: "aileron",
			InputStreams: []*InputStream{
				{InputName: "aileron-cmd", Modifiers: []Modifier{GainCurve{Key: KeyMach, Curve: doubleAtHighMach}}},
			},
			MinAngleRad: -10, MaxAngleRad: 10,
		},
	}}
	s.Init(p, nil)

	s.Update(p, FlightCondition{Mach: 0.5}, 0.01)
	require.InDelta(t, 1.0, s.Outputs[0].CurrentAngleRad, 1e-9)

	s.Update(p, FlightCondition{Mach: 1.5}, 0.01)
	require.InDelta(t, 2.0, s.Outputs[0].CurrentAngleRad, 1e-9)
}

func TestUpdateValueOutputOmitsAngleMap(t *testing.T) {
	p := pilot.NewTable()
	p.SetValue("throttle-cmd", 0.7)

	s := &System{Outputs: []*SurfaceOutput{
		{
			NameStr:       "throttle",
			Kind:          KindValue,
			InputStreams:  []*InputStream{{InputName: "throttle-cmd"}},
			AngleMapCurve: func(float64) float64 { return 99 }, // must be ignored for Value kind
		},
	}}
	s.Init(p, nil)
	s.Update(p, FlightCondition{}, 0.01)

	require.InDelta(t, 0.7, s.Outputs[0].CurrentValue, 1e-9)
}

func TestUpdateBooleanOutputThresholds(t *testing.T) {
	p := pilot.NewTable()
	p.SetValue("gear-handle", 1.0)

	s := &System{Outputs: []*SurfaceOutput{
		{NameStr: "gear-down", Kind: KindBoolean, BooleanThreshold: 0.5,
			InputStreams: []*InputStream{{InputName: "gear-handle"}}},
	}}
	s.Init(p, nil)
	s.Update(p, FlightCondition{}, 0.01)

	require.True(t, s.Outputs[0].CurrentBool)
}

func TestUpdatePassesThroughActuatorRateLimit(t *testing.T) {
	p := pilot.NewTable()
	p.SetValue("elevator-cmd", 1.0)

	s := &System{Outputs: []*SurfaceOutput{
		{
			NameStr:      "elevator",
			InputStreams: []*InputStream{{InputName: "elevator-cmd", Modifiers: []Modifier{ScalarGain{Gain: 1}}}},
			Actuator:     &Actuator{MaxPositiveRateRadS: 0.1, MaxNegativeRateRadS: 0.1, MinAngleRad: -1, MaxAngleRad: 1},
			MinAngleRad:  -1, MaxAngleRad: 1,
		},
	}}
	s.Init(p, nil)
	s.Update(p, FlightCondition{}, 1.0) // commanded 1.0, rate-limited to 0.1

	require.InDelta(t, 0.1, s.Outputs[0].CurrentAngleRad, 1e-9)
}

func TestOutputLooksUpByName(t *testing.T) {
	s := &System{Outputs: []*SurfaceOutput{{NameStr: "rudder"}}}
	out, err := s.Output("rudder")
	require.NoError(t, err)
	require.Equal(t, "rudder", out.NameStr)

	_, err = s.Output("nonexistent")
	require.Error(t, err)
}
