// Package meshrepair is the public façade: load a mesh, repair it, write
// it back out, and read its statistics. It wires the edge hasher and
// topology repairer together into one pipeline and is the only package
// an embedding application needs to import.
package meshrepair

import "github.com/kestrelcad/meshrepair/pkg/repair"

// Options controls a single Repair call. The zero value is usable: it
// runs the exact pass and exactly one nearby pass at an auto-selected
// tolerance, silently, with hole filling, normal and orientation
// fixing, and unconnected removal all switched off. DefaultOptions
// switches those stages on.
type Options struct {
	// FixedTolerance overrides the auto-selected nearby-pass tolerance
	// (max(shortest_edge, bounding_diameter/500000)) when non-nil.
	FixedTolerance *float32
	// ToleranceIncrement is added to the tolerance between iterations
	// when the mesh is not fully connected after a pass.
	ToleranceIncrement float32
	// MaxIterations bounds how many nearby passes are attempted. Zero
	// is treated as 1.
	MaxIterations uint32

	FillHoles             bool
	CheckNormalDirections bool
	CheckNormalValues     bool
	RemoveUnconnected     bool

	// Verbose is not read by Repair; it is carried for callers that
	// build Logger from it (the CLI picks a Debug-level logger when it
	// is set).
	Verbose bool
	// Logger receives Möbius warnings (Warnf) and wholly degenerate
	// facet notices (Debugf); which of them are emitted is up to the
	// Logger. A nil Logger is silent.
	Logger repair.Logger
}

// DefaultOptions returns the profile the CLI's `repair` subcommand uses
// absent any flags: a single auto-tolerance pass with every repair
// stage enabled.
func DefaultOptions() Options {
	return Options{
		ToleranceIncrement:    1e-6,
		MaxIterations:         1,
		FillHoles:             true,
		CheckNormalDirections: true,
		CheckNormalValues:     true,
		RemoveUnconnected:     true,
	}
}
