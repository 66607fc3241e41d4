package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kestrelcad/meshrepair/pkg/config"
	"github.com/kestrelcad/meshrepair/pkg/diagnostics"
	"github.com/kestrelcad/meshrepair/pkg/mesh"
	"github.com/kestrelcad/meshrepair/pkg/meshrepair"
)

var (
	repairOutput            string
	repairASCII             bool
	repairTolerance         float32
	repairAutoTolerance     bool
	repairMaxIterations     uint32
	repairNoFillHoles       bool
	repairNoRemoveUnconn    bool
	repairVerbose           bool
	repairConfigPath        string
	repairToleranceIncrease float32
)

var repairCmd = &cobra.Command{
	Use:   "repair <file>",
	Short: "Repair a triangle mesh in place or to a new file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepair,
}

func init() {
	rootCmd.AddCommand(repairCmd)

	repairCmd.Flags().StringVarP(&repairOutput, "output", "o", "", "output path (defaults to overwriting the input)")
	repairCmd.Flags().BoolVar(&repairASCII, "ascii", false, "write ASCII instead of binary")
	repairCmd.Flags().Float32Var(&repairTolerance, "tolerance", 0, "fixed nearby-pass tolerance (overrides auto-tolerance)")
	repairCmd.Flags().BoolVar(&repairAutoTolerance, "auto-tolerance", true, "select tolerance as max(shortest_edge, bounding_diameter/500000)")
	repairCmd.Flags().Float32Var(&repairToleranceIncrease, "tolerance-increment", 1e-6, "tolerance growth per iteration when the mesh is still unconnected")
	repairCmd.Flags().Uint32Var(&repairMaxIterations, "max-iterations", 1, "maximum nearby-pass iterations")
	repairCmd.Flags().BoolVar(&repairNoFillHoles, "no-fill-holes", false, "skip hole filling")
	repairCmd.Flags().BoolVar(&repairNoRemoveUnconn, "no-remove-unconnected", false, "skip removal of unconnected facets")
	repairCmd.Flags().BoolVarP(&repairVerbose, "verbose", "v", false, "log repair diagnostics")
	repairCmd.Flags().StringVar(&repairConfigPath, "config", "", "load repair options from a YAML profile")
}

func runRepair(cmd *cobra.Command, args []string) error {
	input := args[0]

	opts := meshrepair.DefaultOptions()
	if repairConfigPath != "" {
		profile, err := config.Load(repairConfigPath)
		if err != nil {
			return err
		}
		opts = profile.Options()
	}

	if cmd.Flags().Changed("tolerance") {
		t := repairTolerance
		opts.FixedTolerance = &t
	}
	if cmd.Flags().Changed("tolerance-increment") {
		opts.ToleranceIncrement = repairToleranceIncrease
	}
	if cmd.Flags().Changed("max-iterations") {
		opts.MaxIterations = repairMaxIterations
	}
	if cmd.Flags().Changed("no-fill-holes") {
		opts.FillHoles = !repairNoFillHoles
	}
	if cmd.Flags().Changed("no-remove-unconnected") {
		opts.RemoveUnconnected = !repairNoRemoveUnconn
	}
	if cmd.Flags().Changed("verbose") {
		opts.Verbose = repairVerbose
	}

	logger := diagnostics.Nop()
	if opts.Verbose {
		logger = diagnostics.NewLogger(diagnostics.Config{Verbose: true})
	}
	opts.Logger = logger

	return runRepairOnce(input, repairOutput, repairASCII, opts)
}

func runRepairOnce(input, outputPath string, ascii bool, opts meshrepair.Options) error {
	m, err := meshrepair.Load(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	if err := meshrepair.Repair(m, opts); err != nil {
		return fmt.Errorf("repair %s: %w", input, err)
	}

	output := outputPath
	if output == "" {
		output = input
	}

	ascii = ascii || strings.HasSuffix(strings.ToLower(output), ".stl.txt")
	if ascii {
		if err := meshrepair.WriteASCII(m, output, "meshrepair"); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
	} else {
		if err := meshrepair.WriteBinary(m, output); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
	}

	printRepairSummary(input, output, m.Stats)
	return nil
}

func printRepairSummary(input, output string, s mesh.Stats) {
	fmt.Fprintf(os.Stdout, "%s -> %s\n", input, output)
	fmt.Fprintf(os.Stdout, "  facets: %d -> %d\n", s.OriginalNumFacets, s.NumberOfFacets)
	fmt.Fprintf(os.Stdout, "  degenerate removed: %d  unconnected/degenerate removed: %d  added (hole fill): %d\n",
		s.DegenerateFacets, s.FacetsRemoved, s.FacetsAdded)
	fmt.Fprintf(os.Stdout, "  edges fixed: %d  normals fixed: %d  facets reversed: %d  backwards edges seen: %d\n",
		s.EdgesFixed, s.NormalsFixed, s.FacetsReversed, s.BackwardsEdges)
	fmt.Fprintf(os.Stdout, "  parts: %d  volume: %.6f  connected(1/2/3-edge): %d/%d/%d\n",
		s.NumberOfParts, s.Volume, s.ConnectedFacets1Edge, s.ConnectedFacets2Edge, s.ConnectedFacets3Edge)
}
