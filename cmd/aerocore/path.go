package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"aerocore/internal/geo"
	"aerocore/internal/navmesh"
	"aerocore/internal/pathfind"
	"aerocore/internal/units"
	"aerocore/internal/zone"
)

var (
	pathFromLat, pathFromLon, pathFromAltFt float64
	pathToLat, pathToLon, pathToAltFt       float64
	pathAvoidLat, pathAvoidLon              float64
	pathAvoidRadiusM                        float64
	useMesh                                 bool
	gridSizeDeg                             float64
	cellSizeDeg                             float64
	boundsPaddingDeg                        float64
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "find a path between two points over a weighted grid or navigation mesh",
	RunE:  runPath,
}

func init() {
	pathCmd.Flags().Float64Var(&pathFromLat, "from-lat", 0, "origin latitude, degrees")
	pathCmd.Flags().Float64Var(&pathFromLon, "from-lon", 0, "origin longitude, degrees")
	pathCmd.Flags().Float64Var(&pathFromAltFt, "from-alt-ft", 5000, "origin altitude, feet MSL")
	pathCmd.Flags().Float64Var(&pathToLat, "to-lat", 0, "destination latitude, degrees")
	pathCmd.Flags().Float64Var(&pathToLon, "to-lon", 0, "destination longitude, degrees")
	pathCmd.Flags().Float64Var(&pathToAltFt, "to-alt-ft", 5000, "destination altitude, feet MSL")
	pathCmd.Flags().Float64Var(&pathAvoidLat, "avoid-lat", 0, "center latitude of a circular zone to route around")
	pathCmd.Flags().Float64Var(&pathAvoidLon, "avoid-lon", 0, "center longitude of a circular zone to route around")
	pathCmd.Flags().Float64Var(&pathAvoidRadiusM, "avoid-radius-m", 0, "radius in meters of the avoidance zone (0 disables it)")
	pathCmd.Flags().BoolVar(&useMesh, "mesh", false, "use the quadtree navigation mesh instead of the weighted grid")
	pathCmd.Flags().Float64Var(&gridSizeDeg, "grid-size-deg", 0.05, "grid cell size in degrees, for the weighted-grid pathfinder")
	pathCmd.Flags().Float64Var(&cellSizeDeg, "cell-size-deg", 0.25, "root cell size in degrees, for the navigation mesh")
	pathCmd.Flags().Float64Var(&boundsPaddingDeg, "bounds-padding-deg", 0.5, "padding added around the from/to bounding box")
}

func circleZone(latDeg, lonDeg, radiusM float64) *zone.Definition {
	return &zone.Definition{
		NameStr:    "avoid",
		Shape:      zone.Circle,
		Frame:      zone.Internal,
		RefLat:     latDeg,
		RefLon:     lonDeg,
		MaxRadiusM: radiusM,
	}
}

func runPath(cmd *cobra.Command, args []string) error {
	from := geo.New(pathFromLat, pathFromLon, pathFromAltFt*units.FtToM)
	to := geo.New(pathToLat, pathToLon, pathToAltFt*units.FtToM)

	latMin := math.Min(pathFromLat, pathToLat) - boundsPaddingDeg
	latMax := math.Max(pathFromLat, pathToLat) + boundsPaddingDeg
	lonMin := math.Min(pathFromLon, pathToLon) - boundsPaddingDeg
	lonMax := math.Max(pathFromLon, pathToLon) + boundsPaddingDeg

	var zones []zone.Zone
	if pathAvoidRadiusM > 0 {
		zones = append(zones, circleZone(pathAvoidLat, pathAvoidLon, pathAvoidRadiusM))
	}

	out := cmd.OutOrStdout()
	var points []geo.Point
	if useMesh {
		mesh := navmesh.BuildMesh(latMin, latMax, lonMin, lonMax, cellSizeDeg, zones, geo.WGS84)
		points = mesh.FindPath(from, to, geo.WGS84)
		fmt.Fprintf(out, "path (navmesh): %d waypoint(s)\n", len(points))
	} else {
		grid := pathfind.NewGrid(latMin, latMax, lonMin, lonMax, gridSizeDeg, 1.0, geo.WGS84)
		for _, z := range zones {
			grid.RegisterZone(z, 1000.0)
		}
		grid.RecalculateWeights()
		points = grid.FindPath(from, to)
		fmt.Fprintf(out, "path (grid): %d waypoint(s)\n", len(points))
	}

	for i, p := range points {
		fmt.Fprintf(out, "  %2d: lat=%.5f lon=%.5f alt=%.1fft\n", i, p.LatDeg, p.LonDeg, p.AltM*units.MToFt)
	}
	return nil
}
