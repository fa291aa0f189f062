package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"aerocore/internal/dynamics/fcs"
	"aerocore/internal/simclock"
)

const sampleConfig = `
vehicle "test-jet";

mass_properties {
  mass 8000;
  cg 0 0 0;
  inertia 10000 40000 45000 0 0 0;
}

propulsion_data {
  mil_channel true;
  engine "engine1" jet {
    position -2 0 0;
    max_thrust 40000;
    sfc 0.00002;
    running;
  }
  tank "main" {
    capacity 2000;
    contents 1800;
    position -1 0 0;
  }
}

landing_gear {
  point "main_left" gear {
    position -1 -2 1;
    spring_k 100000;
    damping_c 5000;
    max_compression 0.3;
    friction 0.02 0.6 0.8 0.5;
  }
}

aero "airframe" {
  metrics 20 9 2.5;
  cl 0.2 5.0;
  cd 0.02 0.05;
}

flight_controls {
  output "elevator" angle {
    range -0.3 0.3;
    input "pitch-stick" {
      gain 0.3;
    }
  }
}

sequencer {
  sequence "shutdown-at-alt" {
    trigger altitude_above 100;
    action shutdown_engine "engine1";
  }
}
`

func TestBuildVehicleWiresEveryBlock(t *testing.T) {
	root, err := Parse(sampleConfig, "sample.vcfg")
	require.NoError(t, err)

	v, err := BuildVehicle(root, "sample.vcfg")
	require.NoError(t, err)

	require.Equal(t, "test-jet", v.NameStr)
	require.Equal(t, 8000.0, v.MassProps.BaseMassKg)
	require.NotNil(t, v.Propulsion)
	require.Len(t, v.Propulsion.Engines, 1)
	require.Equal(t, 40000.0, v.Propulsion.Engines[0].MaxThrustN)
	require.True(t, v.Propulsion.Engines[0].Running)
	require.Len(t, v.Propulsion.Tanks, 1)
	require.Equal(t, 1800.0, v.Propulsion.Tanks[0].CurrentKg)

	require.NotNil(t, v.Gear)
	require.Len(t, v.Gear.Points, 1)
	require.True(t, v.Gear.Points[0].IsGear)

	require.Len(t, v.AeroComps, 1)

	require.NotNil(t, v.FCS)
	out, err := v.FCS.Output("elevator")
	require.NoError(t, err)
	require.Equal(t, fcs.KindAngle, out.Kind)

	require.NotNil(t, v.Sequencers)
	require.Len(t, v.Sequencers.Sequencers, 1)

	v.Update(simclock.FromSeconds(0.02))

	require.Len(t, v.Sequencers.Sequencers, 1)
	require.Equal(t, "shutdown-at-alt", v.Sequencers.Sequencers[0].NameStr)
}
