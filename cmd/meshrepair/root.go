package main

import (
	"github.com/spf13/cobra"

	"github.com/kestrelcad/meshrepair/version"
)

var rootCmd = &cobra.Command{
	Use:     "meshrepair",
	Short:   "Repair, inspect, and watch triangle-mesh STL files",
	Long:    `meshrepair loads binary or ASCII STL files, closes holes, snaps near-coincident vertices, fixes normals and orientation, and reports repair statistics.`,
	Version: version.GetFullVersion(),
}
