package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"aerocore/internal/geo"
	"aerocore/internal/route"
	"aerocore/internal/units"
	"aerocore/internal/zone"
)

var (
	routeFromLat, routeFromLon, routeFromAltFt float64
	routeToLat, routeToLon, routeToAltFt       float64
	avoidLat, avoidLon, avoidRadiusM           float64
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "find a visibility-graph route between two points, optionally around a square avoidance zone",
	RunE:  runRoute,
}

func init() {
	routeCmd.Flags().Float64Var(&routeFromLat, "from-lat", 0, "origin latitude, degrees")
	routeCmd.Flags().Float64Var(&routeFromLon, "from-lon", 0, "origin longitude, degrees")
	routeCmd.Flags().Float64Var(&routeFromAltFt, "from-alt-ft", 10000, "origin altitude, feet MSL")
	routeCmd.Flags().Float64Var(&routeToLat, "to-lat", 0, "destination latitude, degrees")
	routeCmd.Flags().Float64Var(&routeToLon, "to-lon", 0, "destination longitude, degrees")
	routeCmd.Flags().Float64Var(&routeToAltFt, "to-alt-ft", 10000, "destination altitude, feet MSL")
	routeCmd.Flags().Float64Var(&avoidLat, "avoid-lat", 0, "center latitude of a square zone to route around")
	routeCmd.Flags().Float64Var(&avoidLon, "avoid-lon", 0, "center longitude of a square zone to route around")
	routeCmd.Flags().Float64Var(&avoidRadiusM, "avoid-radius-m", 0, "half-width in meters of the avoidance zone (0 disables it)")
}

// squareZone builds a small internally-referenced polygon zone centered on
// (latDeg, lonDeg) so route.Finder (which only routes around polygon, Internal,
// >=2 vertex zones) has something to thread around.
func squareZone(latDeg, lonDeg, halfWidthM float64) *zone.Definition {
	const metersPerDegLat = 111320.0
	dLat := halfWidthM / metersPerDegLat
	dLon := halfWidthM / (metersPerDegLat * math.Cos(latDeg*units.DegToRad))
	return &zone.Definition{
		NameStr: "avoid",
		Shape:   zone.Polygon,
		Frame:   zone.Internal,
		RefLat:  latDeg,
		RefLon:  lonDeg,
		Points: []geo.Point{
			geo.New(latDeg-dLat, lonDeg-dLon, 0),
			geo.New(latDeg-dLat, lonDeg+dLon, 0),
			geo.New(latDeg+dLat, lonDeg+dLon, 0),
			geo.New(latDeg+dLat, lonDeg-dLon, 0),
		},
	}
}

func runRoute(cmd *cobra.Command, args []string) error {
	from := geo.New(routeFromLat, routeFromLon, routeFromAltFt*units.FtToM)
	to := geo.New(routeToLat, routeToLon, routeToAltFt*units.FtToM)

	var zones []*zone.Definition
	if avoidRadiusM > 0 {
		zones = append(zones, squareZone(avoidLat, avoidLon, avoidRadiusM))
	}

	finder := route.NewFinder(zones)
	path := finder.FindRoute(from, to)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "route: %d waypoint(s)\n", len(path))
	for i, p := range path {
		fmt.Fprintf(out, "  %2d: lat=%.5f lon=%.5f alt=%.1fft\n", i, p.LatDeg, p.LonDeg, p.AltM*units.MToFt)
	}
	return nil
}
