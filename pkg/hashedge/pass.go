package hashedge

import "github.com/kestrelcad/meshrepair/pkg/mesh"

// SnapFunc is the topology repairer's vertex-snap action, invoked once
// per match found during the nearby pass. It receives the mesh and the
// two matched edges and is responsible for pulling the near-coincident
// endpoints onto a common position via a fan walk.
type SnapFunc func(m *mesh.Mesh, a, b Edge)

// recordNeighbors implements the Edge Hasher's neighbor-recording step,
// shared by the exact and nearby passes: it wires the two matched edges'
// facets together, tags orientation mismatches, and updates the
// connectivity histograms exactly the way admesh's stl_record_neighbors
// does (each facet's edges progressively promote it through the
// 1-edge/2-edge/3-edge connected buckets as they connect; the buckets
// are connection *events*, not a final classification).
func recordNeighbors(m *mesh.Mesh, a, b Edge) {
	fa, fb := a.Facet, b.Facet
	ea, eb := int(a.Slot), int(b.Slot)

	m.Neighbors[fa][ea%3] = mesh.NeighborSlot{
		Facet:          int32(fb),
		WhichVertexNot: uint8((eb + 2) % 3),
	}
	m.Neighbors[fb][eb%3] = mesh.NeighborSlot{
		Facet:          int32(fa),
		WhichVertexNot: uint8((ea + 2) % 3),
	}

	if (ea < 3 && eb < 3) || (ea > 2 && eb > 2) {
		m.Neighbors[fa][ea%3].WhichVertexNot += 3
		m.Neighbors[fb][eb%3].WhichVertexNot += 3
	}

	m.Stats.ConnectedEdges += 2
	bumpConnectedHistogram(m, fa)
	bumpConnectedHistogram(m, fb)
}

func bumpConnectedHistogram(m *mesh.Mesh, facet int) {
	open := 0
	for _, s := range m.Neighbors[facet] {
		if s.None() {
			open++
		}
	}
	switch open {
	case 2:
		m.Stats.ConnectedFacets1Edge++
	case 1:
		m.Stats.ConnectedFacets2Edge++
	case 0:
		m.Stats.ConnectedFacets3Edge++
	}
}

// removeDegenerateFacets strips facets with two or three coincident
// vertices before any hash table is built, since removal invalidates
// facet indices that a hash table would otherwise reference. Iteration
// uses an index that does not advance on removal, matching swap-with-last
// semantics.
func removeDegenerateFacets(m *mesh.Mesh) {
	for i := 0; i < len(m.Facets); {
		if m.Facets[i].Degenerate() {
			m.RemoveFacet(i)
			m.Stats.FacetsRemoved++
			m.Stats.DegenerateFacets++
		} else {
			i++
		}
	}
}

// ExactPass builds the neighbor array by pairing each directed edge
// with its anti-parallel partner, matched only when all six floats of
// both edges are bytewise equal. It first removes degenerate facets,
// then clears every neighbor slot and rebuilds the neighbor array and
// the connectivity histograms from scratch.
func ExactPass(m *mesh.Mesh) {
	removeDegenerateFacets(m)

	for i := range m.Neighbors {
		m.Neighbors[i] = mesh.Neighbors{
			{Facet: mesh.NoNeighbor}, {Facet: mesh.NoNeighbor}, {Facet: mesh.NoNeighbor},
		}
	}
	m.Stats.ConnectedEdges = 0
	m.Stats.ConnectedFacets1Edge = 0
	m.Stats.ConnectedFacets2Edge = 0
	m.Stats.ConnectedFacets3Edge = 0

	table := NewTable(TableSize(len(m.Facets)))
	shortest := m.Stats.ShortestEdge
	if shortest == 0 {
		shortest = 3.402823e+38
	}
	for i, f := range m.Facets {
		for j := 0; j < 3; j++ {
			e := LoadExact(i, j, f.Vertices[j], f.Vertices[(j+1)%3], &shortest)
			table.Insert(e, func(a, b Edge) { recordNeighbors(m, a, b) })
		}
	}
	m.Stats.ShortestEdge = shortest
	m.Stats.Collisions += table.Collisions()

	m.Stats.InitFacets1Edge = m.Stats.ConnectedFacets1Edge
	m.Stats.InitFacets2Edge = m.Stats.ConnectedFacets2Edge
	m.Stats.InitFacets3Edge = m.Stats.ConnectedFacets3Edge
}

// NearbyPass re-examines every edge that is still unconnected after the
// exact pass, matching endpoints within tolerance of each other via a
// bounding-box-relative integer grid. Each match both records a
// neighbor relation (as the exact pass does) and invokes snap, which
// pulls the two near-coincident endpoints onto a shared position;
// EdgesFixed is incremented by 2 per such call, one for each endpoint.
func NearbyPass(m *mesh.Mesh, tolerance float32, snap SnapFunc) {
	bboxMin := m.BoundingBox().Min
	table := NewTable(TableSize(len(m.Facets)))
	for i := range m.Facets {
		for j := 0; j < 3; j++ {
			if !m.Neighbors[i][j].None() {
				continue
			}
			f := m.Facets[i]
			e, ok := LoadNearby(i, j, f.Vertices[j], f.Vertices[(j+1)%3], bboxMin, tolerance)
			if !ok {
				continue
			}
			table.Insert(e, func(a, b Edge) {
				recordNeighbors(m, a, b)
				if snap != nil {
					snap(m, a, b)
				}
				m.Stats.EdgesFixed += 2
			})
		}
	}
	m.Stats.Collisions += table.Collisions()
}
