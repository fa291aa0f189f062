package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aerocore",
	Short: "aerocore drives a vehicle configuration through the 6DOF dynamics core",
	Long: `aerocore loads a vehicle configuration file (mass properties,
propulsion, landing gear, aero, flight controls, sequencer) and steps the
resulting Vehicle through the simulation loop, reporting its kinematic
state. Its route and path subcommands expose the spatial-reasoning layer
(ZoneRouteFinder, PathFinder, NavigationMesh) standalone, without a vehicle.`,
}

func init() {
	rootCmd.AddCommand(flyCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(pathCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
