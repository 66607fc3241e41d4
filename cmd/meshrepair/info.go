package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelcad/meshrepair/pkg/analysis"
	"github.com/kestrelcad/meshrepair/pkg/meshrepair"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Display dimensions, facet count, and edge statistics for an STL file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	m, err := meshrepair.Load(filename)
	if err != nil {
		return fmt.Errorf("load %s: %w", filename, err)
	}

	result := analysis.Analyze(m)

	fmt.Println("STL File Information")
	fmt.Println("====================")
	fmt.Printf("File: %s\n", filename)
	fmt.Printf("Format: %s\n\n", m.Stats.Type)

	fmt.Println("Model Statistics:")
	fmt.Printf("  Facets: %d\n", result.FacetCount)
	fmt.Printf("  Edges: %d\n\n", result.EdgeCount)

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(analysis.Vector(result.BoundingBox.Min)))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(analysis.Vector(result.BoundingBox.Max)))
	fmt.Printf("  Center: %s\n\n", analysis.FormatVector(analysis.Vector(result.BoundingBox.Center())))

	fmt.Println("Dimensions:")
	fmt.Printf("  X: %.6f  Y: %.6f  Z: %.6f\n", result.Dimensions.X, result.Dimensions.Y, result.Dimensions.Z)
	fmt.Printf("  Diagonal: %.6f\n\n", result.BoundingBox.Diagonal())

	fmt.Println("Edge Lengths:")
	fmt.Printf("  Minimum: %.6f\n", result.MinEdgeLength)
	fmt.Printf("  Maximum: %.6f\n", result.MaxEdgeLength)
	fmt.Printf("  Average: %.6f\n", result.AvgEdgeLength)
	return nil
}
