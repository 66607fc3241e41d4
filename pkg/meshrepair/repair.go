package meshrepair

import (
	"github.com/kestrelcad/meshrepair/pkg/hashedge"
	"github.com/kestrelcad/meshrepair/pkg/mesh"
	"github.com/kestrelcad/meshrepair/pkg/repair"
	"github.com/kestrelcad/meshrepair/pkg/stl"
)

// Load reads path (binary or ASCII, auto-detected) into a fresh mesh.
func Load(path string) (*mesh.Mesh, error) {
	return stl.Load(path)
}

// LoadAll reads and merges several files into a single mesh, admesh's
// multi-file mode. The returned mesh has no adjacency yet: the first
// pass of Repair (or a direct hashedge.ExactPass call) builds it.
func LoadAll(paths []string) (*mesh.Mesh, error) {
	if len(paths) == 0 {
		return mesh.New(), nil
	}
	m, err := stl.Load(paths[0])
	if err != nil {
		return nil, err
	}
	for _, p := range paths[1:] {
		other, err := stl.Load(p)
		if err != nil {
			return nil, err
		}
		m.Merge(other)
	}
	return m, nil
}

// WriteBinary writes m to path in the binary container format.
func WriteBinary(m *mesh.Mesh, path string) error {
	return stl.SaveBinary(m, path)
}

// WriteASCII writes m to path in the ASCII container format under the
// given solid label.
func WriteASCII(m *mesh.Mesh, path, label string) error {
	return stl.SaveASCII(m, path, label)
}

// Stats returns a read-only copy of m's statistics block.
func Stats(m *mesh.Mesh) mesh.Stats {
	return m.Stats
}

// autoTolerance implements the auto rule: the larger of the shortest
// edge observed so far and the bounding diameter divided by 500000.
// The shortest edge is only known once an exact pass has run, so
// Repair always runs ExactPass before computing it.
func autoTolerance(m *mesh.Mesh) float32 {
	diag := m.BoundingBox().Diagonal()
	t := m.Stats.ShortestEdge
	if d := diag / 500000; d > t {
		t = d
	}
	if t <= 0 {
		t = 1e-6
	}
	return t
}

// Repair runs the full pipeline against m in place: exact pass, one or
// more nearby passes (growing the tolerance between iterations if the
// mesh is not yet fully connected and iterations remain), unconnected
// removal, hole filling, normal recomputation, and orientation
// reversal, finishing with volume and bounding-box statistics.
//
// The final invariant check returns a *mesh.InvariantViolation as a
// plain error rather than crashing the embedder; the mesh is left in
// the state of the last completed step.
func Repair(m *mesh.Mesh, opts Options) error {
	m.Stats.ResetCounters()

	hashedge.ExactPass(m)

	tolerance := autoTolerance(m)
	if opts.FixedTolerance != nil {
		tolerance = *opts.FixedTolerance
	}

	iterations := opts.MaxIterations
	if iterations == 0 {
		iterations = 1
	}

	snap := func(mm *mesh.Mesh, a, b hashedge.Edge) {
		repair.Snap(mm, a, b, opts.Logger)
	}

	for i := uint32(0); i < iterations; i++ {
		hashedge.NearbyPass(m, tolerance, snap)
		fullyConnected := len(m.Facets) > 0 && m.Stats.ConnectedFacets3Edge >= len(m.Facets)
		if fullyConnected || i+1 >= iterations {
			break
		}
		tolerance += opts.ToleranceIncrement
	}

	if opts.RemoveUnconnected {
		repair.RemoveUnconnected(m, opts.Logger)
	}

	if opts.FillHoles {
		repair.FillHoles(m, opts.Logger)
	}

	if opts.CheckNormalValues {
		repair.FixNormals(m)
	}
	if opts.CheckNormalDirections {
		repair.ReverseFacets(m, opts.Logger)
	}

	m.Stats.Volume = repair.Volume(m)
	m.Stats.BoundingBox = m.BoundingBox()

	if err := m.CheckInvariants(); err != nil {
		return err
	}
	return nil
}
