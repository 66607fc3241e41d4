package mesh

// growthBlock is the amortized allocation granularity for the facet and
// neighbor arrays, mirroring admesh's manual block-256 reallocation.
const growthBlock = 256

// InvariantViolation is raised when a repair pass detects state that
// should be structurally impossible (facet and neighbor arrays of
// different lengths, an out-of-range neighbor index or vertex-not, a
// self-referencing neighbor). It signals a
// bug in the core rather than a problem with the input mesh.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return "mesh: invariant violation: " + e.Reason
}

// Mesh is a dynamically grown array of facets, a parallel array of
// neighbor records, and a statistics block. The two arrays are always
// the same length outside of the brief window in which a facet is being
// appended or removed.
type Mesh struct {
	Facets    []Facet
	Neighbors []Neighbors
	Stats     Stats
}

// New builds an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// NewFromFacets builds a mesh from a caller-supplied facet slice. Every
// facet starts with no neighbors; a hashing pass is required before any
// adjacency-dependent operation is safe to run.
func NewFromFacets(facets []Facet) *Mesh {
	m := &Mesh{
		Facets:    append([]Facet(nil), facets...),
		Neighbors: make([]Neighbors, len(facets)),
	}
	for i := range m.Neighbors {
		m.Neighbors[i] = Neighbors{
			{Facet: NoNeighbor}, {Facet: NoNeighbor}, {Facet: NoNeighbor},
		}
	}
	m.Stats.NumberOfFacets = len(facets)
	m.Stats.OriginalNumFacets = len(facets)
	return m
}

// grownCapacity rounds n up to the next multiple of growthBlock, matching
// the source's manual block reallocation policy.
func grownCapacity(n int) int {
	if n <= 0 {
		return growthBlock
	}
	blocks := (n + growthBlock - 1) / growthBlock
	return blocks * growthBlock
}

// AddFacet appends a facet with no neighbors, growing both parallel
// arrays in blocks of growthBlock when their capacity is exhausted. It
// returns the new facet's index.
func (m *Mesh) AddFacet(f Facet) int {
	if len(m.Facets) == cap(m.Facets) {
		newCap := grownCapacity(len(m.Facets) + 1)
		grown := make([]Facet, len(m.Facets), newCap)
		copy(grown, m.Facets)
		m.Facets = grown
		grownN := make([]Neighbors, len(m.Neighbors), newCap)
		copy(grownN, m.Neighbors)
		m.Neighbors = grownN
	}
	m.Facets = append(m.Facets, f)
	m.Neighbors = append(m.Neighbors, Neighbors{
		{Facet: NoNeighbor}, {Facet: NoNeighbor}, {Facet: NoNeighbor},
	})
	m.Stats.NumberOfFacets = len(m.Facets)
	return len(m.Facets) - 1
}

// RemoveFacet deletes facet i by swapping the last facet into its slot
// and shrinking by one. Callers must not retain facet indices across
// this call: the facet that used to be at len-1 is now at i, and every
// neighbor entry pointing at len-1 anywhere in the mesh must be
// re-pointed to i by the caller (pkg/repair's removeFacet does this
// right after calling RemoveFacet).
func (m *Mesh) RemoveFacet(i int) {
	last := len(m.Facets) - 1
	if i != last {
		m.Facets[i] = m.Facets[last]
		m.Neighbors[i] = m.Neighbors[last]
	}
	m.Facets = m.Facets[:last]
	m.Neighbors = m.Neighbors[:last]
	m.Stats.NumberOfFacets = len(m.Facets)
}

// Merge appends other's facets onto m. Neighbor adjacency is not
// carried over: two independently loaded meshes have no shared edges
// by construction, so the merged mesh must be re-hashed from scratch
// before any adjacency-dependent pass runs (admesh's multi-file CLI
// mode does the same, deferring stl_check_facets_exact until after
// every input has been read).
func (m *Mesh) Merge(other *Mesh) {
	for _, f := range other.Facets {
		m.AddFacet(f)
	}
	m.Stats.OriginalNumFacets = len(m.Facets)
}

// CheckInvariants verifies the neighbor-array invariants that must
// always hold: no self-neighbors, no out-of-range indices, and
// which_vertex_not always fits in 0..5.
func (m *Mesh) CheckInvariants() error {
	n := len(m.Facets)
	if len(m.Neighbors) != n {
		return &InvariantViolation{Reason: "facet and neighbor arrays have different lengths"}
	}
	for i, nb := range m.Neighbors {
		for j, slot := range nb {
			if slot.None() {
				continue
			}
			if int(slot.Facet) == i {
				return &InvariantViolation{Reason: "facet is its own neighbor"}
			}
			if slot.Facet < 0 || int(slot.Facet) >= n {
				return &InvariantViolation{Reason: "neighbor index out of range"}
			}
			if slot.WhichVertexNot > 5 {
				return &InvariantViolation{Reason: "which_vertex_not out of range"}
			}
			_ = j
		}
	}
	return nil
}

// BoundingBox recomputes the axis-aligned bounding box of every vertex
// currently in the mesh.
func (m *Mesh) BoundingBox() BoundingBox {
	box := EmptyBoundingBox()
	for _, f := range m.Facets {
		box.Extend(f.Vertices[0])
		box.Extend(f.Vertices[1])
		box.Extend(f.Vertices[2])
	}
	return box
}
