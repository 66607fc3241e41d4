package mesh

// FacetSize is the on-disk size in bytes of one binary facet record:
// 12 for the normal, 36 for the three vertices, 2 for the attribute.
const FacetSize = 50

// NoNeighbor is the sentinel neighbor-facet index meaning "open edge".
const NoNeighbor = -1

// Facet is a triangle: a stored normal, three vertices in winding order,
// and an opaque attribute preserved verbatim through round-trips.
type Facet struct {
	Normal    Vertex
	Vertices  [3]Vertex
	Attribute [2]byte
}

// Degenerate reports whether any two of the facet's three vertices are
// bitwise equal (after negative-zero normalization).
func (f Facet) Degenerate() bool {
	return f.Vertices[0].Equal(f.Vertices[1]) ||
		f.Vertices[1].Equal(f.Vertices[2]) ||
		f.Vertices[0].Equal(f.Vertices[2])
}

// ComputedNormal returns the normal implied by the facet's winding order,
// (v1-v0) x (v2-v0), normalized.
func (f Facet) ComputedNormal() Vertex {
	e1 := f.Vertices[1].Sub(f.Vertices[0])
	e2 := f.Vertices[2].Sub(f.Vertices[0])
	return e1.Cross(e2).Normalize()
}

// SignedVolumeContribution returns this facet's contribution to the
// signed volume of a closed mesh: (v0 . (v1 x v2)) / 6.
func (f Facet) SignedVolumeContribution() float64 {
	v0, v1, v2 := f.Vertices[0], f.Vertices[1], f.Vertices[2]
	cross := v1.Cross(v2)
	return float64(v0.Dot(cross)) / 6.0
}

// NeighborSlot describes the adjacency across one edge of a facet: the
// edge from vertex j to vertex (j+1)%3.
type NeighborSlot struct {
	// Facet is the neighboring facet index, or NoNeighbor for an open edge.
	Facet int32
	// WhichVertexNot is the neighbor's vertex opposite the shared edge,
	// in 0..5. Values >= 3 mark that both facets traverse the shared
	// edge in the same direction (a local orientation mismatch).
	WhichVertexNot uint8
}

// None reports whether this slot describes an open (unconnected) edge.
func (n NeighborSlot) None() bool {
	return n.Facet == NoNeighbor
}

// Backwards reports whether the pair meeting at this edge is oriented
// inconsistently (the WhichVertexNot >= 3 marker).
func (n NeighborSlot) Backwards() bool {
	return n.WhichVertexNot >= 3
}

// VertexNot returns which_vertex_not with the orientation bit stripped,
// always in 0..2.
func (n NeighborSlot) VertexNot() uint8 {
	return n.WhichVertexNot % 3
}

// Neighbors is the per-facet set of three adjacency slots.
type Neighbors [3]NeighborSlot

// ConnectedCount reports how many of the three slots are connected
// (non-open) edges.
func (n Neighbors) ConnectedCount() int {
	c := 0
	for _, s := range n {
		if !s.None() {
			c++
		}
	}
	return c
}
