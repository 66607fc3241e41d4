package repair

import "github.com/kestrelcad/meshrepair/pkg/mesh"

// normalTolerance is the cosine-similarity slack allowed between a
// facet's stored normal and its winding-implied normal before the
// stored normal is considered wrong and replaced.
const normalTolerance = 1e-6

// FixNormals recomputes each facet's normal from its winding order and
// replaces the stored normal whenever it is zero, missing direction, or
// disagrees with the computed normal beyond tolerance.
func FixNormals(m *mesh.Mesh) {
	for i := range m.Facets {
		computed := m.Facets[i].ComputedNormal()
		stored := m.Facets[i].Normal
		if computed == (mesh.Vertex{}) {
			// A truly degenerate winding: leave whatever was stored.
			continue
		}
		if stored.Length() == 0 || stored.Dot(computed) < 1-normalTolerance {
			m.Facets[i].Normal = computed
			m.Stats.NormalsFixed++
		}
	}
}

// ReverseFacets performs a breadth-first walk over the adjacency graph
// starting at the facet containing the lexicographically minimum
// vertex (whose winding is taken as the reference orientation). Any
// neighbor reached across an edge flagged which_vertex_not >= 3 (the
// two facets traverse their shared edge the same way, i.e. one of them
// is wound backwards relative to the other) has its winding reversed:
// two vertices swapped and its stored normal negated. The same pass
// counts connected components ("parts").
func ReverseFacets(m *mesh.Mesh, logger Logger) {
	logger = logOrNop(logger)
	n := len(m.Facets)
	visited := make([]bool, n)
	m.Stats.NumberOfParts = 0

	seed := seedOrder(m)

	for _, start := range seed {
		if visited[start] {
			continue
		}
		m.Stats.NumberOfParts++
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for j := 0; j < 3; j++ {
				slot := m.Neighbors[cur][j]
				if slot.None() {
					continue
				}
				nb := int(slot.Facet)
				backwards := slot.Backwards()
				if backwards {
					m.Stats.BackwardsEdges++
				}
				if visited[nb] {
					continue
				}
				visited[nb] = true
				if backwards {
					reverseFacet(m, nb)
				}
				queue = append(queue, nb)
			}
		}
	}
}

// seedOrder returns facet indices ordered so that the facet containing
// the lexicographically minimum vertex across the whole mesh is first;
// every other facet is listed once so every component still gets a BFS
// root (array order, except that facet 0 takes the seed's old place).
func seedOrder(m *mesh.Mesh) []int {
	order := make([]int, len(m.Facets))
	for i := range order {
		order[i] = i
	}
	if len(order) == 0 {
		return order
	}
	minFacet := 0
	minVertex := m.Facets[0].Vertices[0]
	for i, f := range m.Facets {
		for _, v := range f.Vertices {
			if v.Less(minVertex) {
				minVertex = v
				minFacet = i
			}
		}
	}
	order[0], order[minFacet] = order[minFacet], order[0]
	return order
}

// reverseFacet swaps two of a facet's vertices (reversing its winding),
// negates its stored normal, and remaps its own and its neighbors'
// which_vertex_not entries so the adjacency stays consistent under the
// new winding.
func reverseFacet(m *mesh.Mesh, facet int) {
	f := &m.Facets[facet]
	f.Vertices[1], f.Vertices[2] = f.Vertices[2], f.Vertices[1]
	f.Normal = mesh.Vertex{X: -f.Normal.X, Y: -f.Normal.Y, Z: -f.Normal.Z}

	old := m.Neighbors[facet]
	// Under vertex swap (1 <-> 2), edge slot 0 (v0->v1) becomes v0->v2
	// (old slot 2 reversed), slot 1 (v1->v2) becomes v2->v1 (old slot 1
	// reversed), slot 2 (v2->v0) becomes v1->v0 (old slot 0 reversed).
	remap := [3]int{2, 1, 0}
	var updated mesh.Neighbors
	for j := 0; j < 3; j++ {
		src := old[remap[j]]
		updated[j] = src
		if src.None() {
			continue
		}
		// The far facet's back-reference names *our* vertex opposite the
		// shared edge, which now sits at index (j+2)%3 after the swap;
		// its orientation-mismatch bit also flips because our own
		// direction across that edge just flipped.
		nb := int(src.Facet)
		back := (src.VertexNot() + 1) % 3
		theirSlot := m.Neighbors[nb][back]
		newVnot := uint8((j + 2) % 3)
		if !theirSlot.Backwards() {
			newVnot += 3
		}
		theirSlot.WhichVertexNot = newVnot
		m.Neighbors[nb][back] = theirSlot
		if updated[j].Backwards() {
			updated[j].WhichVertexNot -= 3
		} else {
			updated[j].WhichVertexNot += 3
		}
	}
	m.Neighbors[facet] = updated
	m.Stats.FacetsReversed++
}

// Volume returns the signed volume of the mesh, the sum over facets of
// (v0 . (v1 x v2)) / 6. For a closed, consistently outward-oriented
// mesh this is non-negative.
func Volume(m *mesh.Mesh) float64 {
	var total float64
	for _, f := range m.Facets {
		total += f.SignedVolumeContribution()
	}
	return total
}
