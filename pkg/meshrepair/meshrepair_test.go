package meshrepair

import (
	"bytes"
	"math"
	"testing"

	"github.com/kestrelcad/meshrepair/pkg/mesh"
	"github.com/kestrelcad/meshrepair/pkg/stl"
)

func unitTetrahedron(zeroNormals bool) *mesh.Mesh {
	v := [4]mesh.Vertex{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	}
	m := mesh.New()
	faces := [4][3]mesh.Vertex{
		{v[0], v[2], v[1]},
		{v[0], v[1], v[3]},
		{v[0], v[3], v[2]},
		{v[1], v[2], v[3]},
	}
	for _, f := range faces {
		facet := mesh.Facet{Vertices: f}
		if !zeroNormals {
			facet.Normal = facet.ComputedNormal()
		}
		m.AddFacet(facet)
	}
	return m
}

func unitCube() *mesh.Mesh {
	v := [8]mesh.Vertex{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	quads := [6][4]int{
		{0, 3, 2, 1}, // bottom (outward -Z)
		{4, 5, 6, 7}, // top (outward +Z)
		{0, 1, 5, 4}, // front (outward -Y)
		{1, 2, 6, 5}, // right (outward +X)
		{2, 3, 7, 6}, // back (outward +Y)
		{3, 0, 4, 7}, // left (outward -X)
	}
	m := mesh.New()
	for _, q := range quads {
		a, b, c, d := v[q[0]], v[q[1]], v[q[2]], v[q[3]]
		f1 := mesh.Facet{Vertices: [3]mesh.Vertex{a, b, c}}
		f2 := mesh.Facet{Vertices: [3]mesh.Vertex{a, c, d}}
		f1.Normal = f1.ComputedNormal()
		f2.Normal = f2.ComputedNormal()
		m.AddFacet(f1)
		m.AddFacet(f2)
	}
	return m
}

// Scenario 1: a single facet with two identical vertices.
func TestScenarioDegenerateSingleFacet(t *testing.T) {
	m := mesh.New()
	m.AddFacet(mesh.Facet{Vertices: [3]mesh.Vertex{{0, 0, 0}, {1, 0, 0}, {1, 0, 0}}})

	opts := DefaultOptions()
	if err := Repair(m, opts); err != nil {
		t.Fatalf("Repair: %v", err)
	}

	if len(m.Facets) != 0 {
		t.Fatalf("expected 0 facets after repairing a wholly degenerate mesh, got %d", len(m.Facets))
	}
	if m.Stats.DegenerateFacets != 1 {
		t.Fatalf("expected DegenerateFacets = 1, got %d", m.Stats.DegenerateFacets)
	}
	if m.Stats.FacetsRemoved != 1 {
		t.Fatalf("expected FacetsRemoved = 1, got %d", m.Stats.FacetsRemoved)
	}
}

// Scenario 2: a closed tetrahedron with all normals zeroed.
func TestScenarioZeroNormalsRecomputed(t *testing.T) {
	m := unitTetrahedron(true)

	opts := DefaultOptions()
	if err := Repair(m, opts); err != nil {
		t.Fatalf("Repair: %v", err)
	}

	if m.Stats.NormalsFixed != 4 {
		t.Fatalf("expected NormalsFixed = 4, got %d", m.Stats.NormalsFixed)
	}
	if m.Stats.NumberOfParts != 1 {
		t.Fatalf("expected NumberOfParts = 1, got %d", m.Stats.NumberOfParts)
	}
	if math.Abs(math.Abs(m.Stats.Volume)-1.0/6.0) > 1e-6 {
		t.Fatalf("expected |volume| ~= 1/6, got %v", m.Stats.Volume)
	}
}

// Scenario 3: a unit cube with one facet's winding reversed.
func TestScenarioReversedFacetOnCube(t *testing.T) {
	m := unitCube()
	// Reverse facet 0's winding and stored normal to simulate a bad
	// exporter, the way ReverseFacets is meant to detect and fix.
	m.Facets[0].Vertices[1], m.Facets[0].Vertices[2] = m.Facets[0].Vertices[2], m.Facets[0].Vertices[1]
	m.Facets[0].Normal = mesh.Vertex{
		X: -m.Facets[0].Normal.X,
		Y: -m.Facets[0].Normal.Y,
		Z: -m.Facets[0].Normal.Z,
	}

	opts := DefaultOptions()
	if err := Repair(m, opts); err != nil {
		t.Fatalf("Repair: %v", err)
	}

	if m.Stats.FacetsReversed < 1 {
		t.Fatalf("expected at least one facet to be reversed, got %d", m.Stats.FacetsReversed)
	}
	if m.Stats.ConnectedFacets3Edge != 12 {
		t.Fatalf("expected connected_facets_3_edge = 12 for a closed cube, got %d", m.Stats.ConnectedFacets3Edge)
	}
	if math.Abs(math.Abs(m.Stats.Volume)-1.0) > 1e-6 {
		t.Fatalf("expected |volume| ~= 1, got %v", m.Stats.Volume)
	}
	for i, f := range m.Facets {
		computed := f.ComputedNormal()
		if f.Normal.Dot(computed) < 1-1e-4 {
			t.Fatalf("facet %d stored normal disagrees with computed normal after repair", i)
		}
	}
	assertNeighborSymmetry(t, m)
}

// assertNeighborSymmetry checks that if facet i's slot j points at facet
// k, facet k has a slot pointing back at i with the complementary
// which_vertex_not, the same invariant pkg/hashedge's TestNeighborSymmetry
// checks right after a pass; ReverseFacets must preserve it too.
func assertNeighborSymmetry(t *testing.T, m *mesh.Mesh) {
	t.Helper()
	for i, nb := range m.Neighbors {
		for j, slot := range nb {
			if slot.None() {
				continue
			}
			k := int(slot.Facet)
			found := false
			for jp, back := range m.Neighbors[k] {
				if back.None() || int(back.Facet) != i {
					continue
				}
				found = true
				sum := (slot.VertexNot() + back.VertexNot() + 2) % 3
				if int(sum) != (j+jp)%3 {
					t.Fatalf("edge-correspondence broken for facet %d slot %d / facet %d slot %d", i, j, k, jp)
				}
			}
			if !found {
				t.Fatalf("neighbor symmetry broken: facet %d points at %d but not vice versa", i, k)
			}
		}
	}
}

// Scenario 4: a unit cube missing one triangle (a 3-edge hole).
func TestScenarioHoleFillOnCube(t *testing.T) {
	m := unitCube()
	m.Facets = m.Facets[:11]
	m.Neighbors = m.Neighbors[:11]
	m.Stats.NumberOfFacets = 11

	opts := DefaultOptions()
	if err := Repair(m, opts); err != nil {
		t.Fatalf("Repair: %v", err)
	}

	if m.Stats.FacetsAdded != 1 {
		t.Fatalf("expected FacetsAdded = 1, got %d", m.Stats.FacetsAdded)
	}
	if len(m.Facets) != 12 {
		t.Fatalf("expected 12 facets after hole fill, got %d", len(m.Facets))
	}
	for i, nb := range m.Neighbors {
		for j, slot := range nb {
			if slot.None() {
				t.Fatalf("facet %d slot %d still open after hole fill", i, j)
			}
		}
	}
}

// Scenario 4b: a unit cube missing an entire face (both adjacent
// triangles that made it up), a 4-edge hole rather than scenario 4's
// single 3-edge one. FillHoles must revisit an ear triangle it just
// added as a fresh fan-walk start to close the rest of a hole this
// size, per spec.md:194's full-closure requirement.
func TestScenarioHoleFillOnCubeMissingWholeFace(t *testing.T) {
	v := [8]mesh.Vertex{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	quads := [5][4]int{
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{1, 2, 6, 5}, // right
		{2, 3, 7, 6}, // back
		{3, 0, 4, 7}, // left (bottom omitted entirely)
	}
	m := mesh.New()
	for _, q := range quads {
		a, b, c, d := v[q[0]], v[q[1]], v[q[2]], v[q[3]]
		f1 := mesh.Facet{Vertices: [3]mesh.Vertex{a, b, c}}
		f2 := mesh.Facet{Vertices: [3]mesh.Vertex{a, c, d}}
		f1.Normal = f1.ComputedNormal()
		f2.Normal = f2.ComputedNormal()
		m.AddFacet(f1)
		m.AddFacet(f2)
	}

	opts := DefaultOptions()
	if err := Repair(m, opts); err != nil {
		t.Fatalf("Repair: %v", err)
	}

	if m.Stats.FacetsAdded < 2 {
		t.Fatalf("expected at least 2 new facets to close a 4-edge hole, got %d", m.Stats.FacetsAdded)
	}
	for i, nb := range m.Neighbors {
		for j, slot := range nb {
			if slot.None() {
				t.Fatalf("facet %d slot %d still open after hole fill on a 4-edge hole", i, j)
			}
		}
	}
}

// Scenario 5: two vertices that should coincide differ by 1e-5; repair
// with a tolerance of 1e-4 should snap them.
func TestScenarioNearbySnap(t *testing.T) {
	m := unitCube()
	// Perturb the copies of corner (1,0,0) held by the even-indexed
	// facets (4 and 6) by 1e-5 so they no longer agree exactly with the
	// other facets sharing that corner.
	target := mesh.Vertex{X: 1 + 1e-5, Y: 0, Z: 0}
	for i := range m.Facets {
		for j := range m.Facets[i].Vertices {
			if m.Facets[i].Vertices[j] == (mesh.Vertex{X: 1, Y: 0, Z: 0}) && i%2 == 0 {
				m.Facets[i].Vertices[j] = target
			}
		}
	}

	fixedTol := float32(1e-4)
	opts := DefaultOptions()
	opts.FixedTolerance = &fixedTol

	if err := Repair(m, opts); err != nil {
		t.Fatalf("Repair: %v", err)
	}

	if m.Stats.EdgesFixed < 2 {
		t.Fatalf("expected EdgesFixed >= 2, got %d", m.Stats.EdgesFixed)
	}
	for i, nb := range m.Neighbors {
		for j, slot := range nb {
			if slot.None() {
				t.Fatalf("facet %d slot %d still open after nearby-pass snap", i, j)
			}
		}
	}
}

// Scenario 6: a "solid"-prefixed header whose facet count is consistent
// with the file size must be read as binary.
func TestScenarioSolidPrefixedBinaryIsInconsistent(t *testing.T) {
	m := unitTetrahedron(false)
	m.Stats.Header = "solid deceptive-header"

	var buf bytes.Buffer
	if err := stl.WriteBinary(&buf, m); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}

	got, err := stl.Read(bytes.NewReader(buf.Bytes()), "mem")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Stats.Type != mesh.TypeInconsistent {
		t.Fatalf("expected inconsistent-header detection, got %s", got.Stats.Type)
	}
	if len(got.Facets) != 4 {
		t.Fatalf("expected 4 facets, got %d", len(got.Facets))
	}
}

func TestRepairIsIdempotentOnACleanMesh(t *testing.T) {
	m := unitTetrahedron(false)
	opts := DefaultOptions()

	if err := Repair(m, opts); err != nil {
		t.Fatalf("first Repair: %v", err)
	}
	facetsAfterFirst := len(m.Facets)

	if err := Repair(m, opts); err != nil {
		t.Fatalf("second Repair: %v", err)
	}

	if len(m.Facets) != facetsAfterFirst {
		t.Fatalf("facet count changed on second repair: %d -> %d", facetsAfterFirst, len(m.Facets))
	}
	if m.Stats.FacetsAdded != 0 || m.Stats.FacetsRemoved != 0 || m.Stats.DegenerateFacets != 0 {
		t.Fatalf("expected zero cumulative deltas on a repeat repair, got %+v", m.Stats)
	}
}
