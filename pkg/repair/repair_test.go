package repair

import (
	"math"
	"testing"

	"github.com/kestrelcad/meshrepair/pkg/hashedge"
	"github.com/kestrelcad/meshrepair/pkg/mesh"
)

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

// tetrahedronMissingOneFacet drops the last facet, leaving a triangular
// hole of exactly three open edges.
func tetrahedronMissingOneFacet() *mesh.Mesh {
	m := tetrahedron()
	m.Facets = m.Facets[:3]
	m.Neighbors = m.Neighbors[:3]
	m.Stats.NumberOfFacets = 3
	return m
}

func TestFillHolesClosesATriangularHole(t *testing.T) {
	m := tetrahedronMissingOneFacet()
	hashedge.ExactPass(m)

	if m.Stats.ConnectedFacets3Edge == 3 {
		t.Fatalf("expected an open hole before fill")
	}

	FillHoles(m, nil)

	if len(m.Facets) != 4 {
		t.Fatalf("expected the hole to be closed with exactly one new facet, got %d facets", len(m.Facets))
	}
	if m.Stats.FacetsAdded != 1 {
		t.Fatalf("expected FacetsAdded = 1, got %d", m.Stats.FacetsAdded)
	}
}

func TestRemoveUnconnectedDropsIsolatedFacet(t *testing.T) {
	m := tetrahedron()
	hashedge.ExactPass(m)
	// Add a facet sharing no edges with anything else in the mesh.
	m.AddFacet(mesh.Facet{Vertices: [3]mesh.Vertex{{10, 10, 10}, {11, 10, 10}, {10, 11, 10}}})

	RemoveUnconnected(m, nil)

	if len(m.Facets) != 4 {
		t.Fatalf("expected the isolated facet to be removed, got %d facets", len(m.Facets))
	}
}

func TestFixNormalsRecomputesZeroNormals(t *testing.T) {
	m := tetrahedron()
	hashedge.ExactPass(m)

	FixNormals(m)

	for i, f := range m.Facets {
		if f.Normal.Length() == 0 {
			t.Fatalf("facet %d still has a zero normal after FixNormals", i)
		}
	}
	if m.Stats.NormalsFixed != 4 {
		t.Fatalf("expected NormalsFixed = 4, got %d", m.Stats.NormalsFixed)
	}
}

func TestReverseFacetsCountsOneComponent(t *testing.T) {
	m := tetrahedron()
	hashedge.ExactPass(m)

	ReverseFacets(m, nil)

	if m.Stats.NumberOfParts != 1 {
		t.Fatalf("expected a single closed tetrahedron to be one part, got %d", m.Stats.NumberOfParts)
	}
}

// offsetTetrahedron builds a tetrahedron translated by (dx, dy, dz), used
// to build meshes with more than one disjoint closed component.
func offsetTetrahedron(dx, dy, dz float32) *mesh.Mesh {
	v := [4]mesh.Vertex{
		{0 + dx, 0 + dy, 0 + dz}, {1 + dx, 0 + dy, 0 + dz}, {0 + dx, 1 + dy, 0 + dz}, {0 + dx, 0 + dy, 1 + dz},
	}
	m := mesh.New()
	m.AddFacet(mesh.Facet{Vertices: [3]mesh.Vertex{v[0], v[2], v[1]}})
	m.AddFacet(mesh.Facet{Vertices: [3]mesh.Vertex{v[0], v[1], v[3]}})
	m.AddFacet(mesh.Facet{Vertices: [3]mesh.Vertex{v[0], v[3], v[2]}})
	m.AddFacet(mesh.Facet{Vertices: [3]mesh.Vertex{v[1], v[2], v[3]}})
	return m
}

func TestReverseFacetsCountsTwoDisjointComponents(t *testing.T) {
	m := tetrahedron()
	m.Merge(offsetTetrahedron(10, 10, 10))
	hashedge.ExactPass(m)

	ReverseFacets(m, nil)

	if m.Stats.NumberOfParts != 2 {
		t.Fatalf("expected two disjoint closed tetrahedra to be two parts, got %d", m.Stats.NumberOfParts)
	}
}

func TestVolumeOfUnitTetrahedron(t *testing.T) {
	m := tetrahedron()
	hashedge.ExactPass(m)
	ReverseFacets(m, nil)

	v := Volume(m)
	const want = 1.0 / 6.0
	if math.Abs(math.Abs(v)-want) > 1e-9 {
		t.Fatalf("expected |volume| ~= %.9f, got %.9f", want, v)
	}
}
