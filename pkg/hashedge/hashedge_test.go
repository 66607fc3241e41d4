package hashedge

import (
	"testing"

	"github.com/kestrelcad/meshrepair/pkg/mesh"
)

func TestTableSizeExceedsSixNMinusOne(t *testing.T) {
	for _, n := range []int{0, 1, 100, 100000, 300000000} {
		p := TableSize(n)
		target := int64(6*n) - 1
		if int64(p) <= target && p != primes[len(primes)-1] {
			t.Fatalf("TableSize(%d) = %d, want > %d or the largest tabulated prime", n, p, target)
		}
	}
}

func TestLoadExactCanonicalizesDirection(t *testing.T) {
	a := mesh.Vertex{X: 1, Y: 0, Z: 0}
	b := mesh.Vertex{X: 0, Y: 0, Z: 0}
	var shortest float32 = 3.402823e+38

	forward := LoadExact(0, 0, a, b, &shortest)
	backward := LoadExact(1, 0, b, a, &shortest)

	if forward.Key != backward.Key {
		t.Fatalf("expected anti-parallel edges to canonicalize to the same key")
	}
	if forward.Backwards() == backward.Backwards() {
		t.Fatalf("expected exactly one of the two directions to be flagged backwards")
	}
}

func TestInsertMatchesAntiParallelEdges(t *testing.T) {
	table := NewTable(TableSize(2))

	a := mesh.Vertex{X: 0, Y: 0, Z: 0}
	b := mesh.Vertex{X: 1, Y: 0, Z: 0}
	var shortest float32 = 3.402823e+38

	e1 := LoadExact(0, 0, a, b, &shortest)
	e2 := LoadExact(1, 2, b, a, &shortest)

	matched := false
	table.Insert(e1, func(x, y Edge) { matched = true })
	table.Insert(e2, func(x, y Edge) { matched = true })

	if !matched {
		t.Fatalf("expected the two anti-parallel edges to match")
	}
}

func TestLoadNearbySkipsSameCellEdges(t *testing.T) {
	min := mesh.Vertex{}
	a := mesh.Vertex{X: 0.001, Y: 0, Z: 0}
	b := mesh.Vertex{X: 0.002, Y: 0, Z: 0}
	_, ok := LoadNearby(0, 0, a, b, min, 1.0)
	if ok {
		t.Fatalf("expected an edge with both endpoints in the same grid cell to be skipped")
	}
}

func TestExactPassRemovesDegenerateFacets(t *testing.T) {
	m := mesh.New()
	m.AddFacet(mesh.Facet{Vertices: [3]mesh.Vertex{{0, 0, 0}, {0, 0, 0}, {1, 0, 0}}})
	ExactPass(m)
	if len(m.Facets) != 0 {
		t.Fatalf("expected the degenerate facet to be removed, got %d facets", len(m.Facets))
	}
	if m.Stats.DegenerateFacets != 1 {
		t.Fatalf("expected DegenerateFacets = 1, got %d", m.Stats.DegenerateFacets)
	}
}

func tetrahedron() *mesh.Mesh {
	v := [4]mesh.Vertex{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	}
	m := mesh.New()
	m.AddFacet(mesh.Facet{Vertices: [3]mesh.Vertex{v[0], v[2], v[1]}})
	m.AddFacet(mesh.Facet{Vertices: [3]mesh.Vertex{v[0], v[1], v[3]}})
	m.AddFacet(mesh.Facet{Vertices: [3]mesh.Vertex{v[0], v[3], v[2]}})
	m.AddFacet(mesh.Facet{Vertices: [3]mesh.Vertex{v[1], v[2], v[3]}})
	return m
}

func TestExactPassOnClosedTetrahedronConnectsAllFacets(t *testing.T) {
	m := tetrahedron()
	ExactPass(m)

	if m.Stats.ConnectedFacets3Edge != 4 {
		t.Fatalf("expected connected_facets_3_edge = 4 for a closed tetrahedron, got %d", m.Stats.ConnectedFacets3Edge)
	}
	for i, nb := range m.Neighbors {
		for j, slot := range nb {
			if slot.None() {
				t.Fatalf("facet %d slot %d unexpectedly open on a closed tetrahedron", i, j)
			}
		}
	}
}

func TestNeighborSymmetry(t *testing.T) {
	m := tetrahedron()
	ExactPass(m)

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
