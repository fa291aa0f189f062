package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aerocore/internal/config"
	"aerocore/internal/geo"
	"aerocore/internal/simclock"
	"aerocore/internal/units"
)

var (
	configPath string
	steps      int
	dtSeconds  float64
	latDeg     float64
	lonDeg     float64
	altFt      float64
)

var flyCmd = &cobra.Command{
	Use:   "fly",
	Short: "load a vehicle configuration and step it through the dynamics core",
	RunE:  runVehicle,
}

func init() {
	flyCmd.Flags().StringVarP(&configPath, "config", "c", "", "vehicle configuration file (required)")
	flyCmd.Flags().IntVarP(&steps, "steps", "n", 100, "number of simulation steps to run")
	flyCmd.Flags().Float64Var(&dtSeconds, "dt", 0.01, "step size in seconds")
	flyCmd.Flags().Float64Var(&latDeg, "lat", 0, "initial latitude, degrees")
	flyCmd.Flags().Float64Var(&lonDeg, "lon", 0, "initial longitude, degrees")
	flyCmd.Flags().Float64Var(&altFt, "alt-ft", 10000, "initial altitude, feet MSL")
	_ = flyCmd.MarkFlagRequired("config")
}

func runVehicle(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("aerocore: reading %s: %w", configPath, err)
	}

	root, err := config.Parse(string(src), configPath)
	if err != nil {
		return fmt.Errorf("aerocore: parsing %s: %w", configPath, err)
	}

	v, err := config.BuildVehicle(root, configPath)
	if err != nil {
		return fmt.Errorf("aerocore: building vehicle: %w", err)
	}

	v.Kinematics.Position = geo.New(latDeg, lonDeg, altFt*units.FtToM)
	v.Kinematics.RecomputeDerived(simclock.FromSeconds(dtSeconds), v.Body)

	dt := simclock.FromSeconds(dtSeconds)
	for i := 0; i < steps; i++ {
		v.Update(dt)
	}

	k := v.Kinematics
	fmt.Fprintf(cmd.OutOrStdout(),
		"%s: t=%.2fs alt=%.1fft mach=%.3f tas=%.1fkt alpha=%.2fdeg mass=%.1fkg nx=%.2f ny=%.2f nz=%.2f\n",
		v.NameStr, dtSeconds*float64(steps),
		k.Position.AltM*units.MToFt, k.Mach, k.TrueAirspeed*units.MsToKt,
		k.Alpha*units.RadToDeg, v.MassProps.CurrentMassKg, k.Nx, k.Ny, k.Nz)
	return nil
}
