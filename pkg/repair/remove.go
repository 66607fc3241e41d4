package repair

import "github.com/kestrelcad/meshrepair/pkg/mesh"

// removeFacet deletes facet i by swap-with-last, decrementing the
// connectivity histograms for the facet being removed and re-pointing
// whichever facet used to sit at the old last index (its neighbors now
// point at len-1, but the facet itself just moved to i).
func removeFacet(m *mesh.Mesh, i int) {
	open := 0
	for _, s := range m.Neighbors[i] {
		if s.None() {
			open++
		}
	}
	switch open {
	case 2:
		m.Stats.ConnectedFacets1Edge--
	case 1:
		m.Stats.ConnectedFacets2Edge--
		m.Stats.ConnectedFacets1Edge--
	case 0:
		m.Stats.ConnectedFacets3Edge--
		m.Stats.ConnectedFacets2Edge--
		m.Stats.ConnectedFacets1Edge--
	}

	last := len(m.Facets) - 1
	var movedNeighbors mesh.Neighbors
	if i != last {
		movedNeighbors = m.Neighbors[last]
	}

	m.RemoveFacet(i)
	m.Stats.FacetsRemoved++

	if i == last {
		return
	}
	for k := 0; k < 3; k++ {
		nb := movedNeighbors[k]
		if nb.None() {
			continue
		}
		// The facet that used to reference `last` now must reference i.
		back := (nb.VertexNot() + 1) % 3
		other := int(nb.Facet)
		if int(m.Neighbors[other][back].Facet) == last {
			m.Neighbors[other][back].Facet = int32(i)
		}
	}
}

// updateConnectsRemove1 decrements the connectivity histogram for facet
// facetNum when one of its edges is about to go from connected to open;
// callers invoke it before clearing that neighbor slot, mirroring
// admesh's stl_update_connects_remove_1.
func updateConnectsRemove1(m *mesh.Mesh, facetNum int) {
	open := 0
	for _, s := range m.Neighbors[facetNum] {
		if s.None() {
			open++
		}
	}
	switch open {
	case 0:
		m.Stats.ConnectedFacets3Edge--
	case 1:
		m.Stats.ConnectedFacets2Edge--
	case 2:
		m.Stats.ConnectedFacets1Edge--
	}
}

// removeDegenerate handles a facet with exactly two coincident vertices
// (three-equal is handled as a plain removeFacet): it stitches the
// facet's two "good" neighbors to each other across the collapsed edge,
// severs the third neighbor's back-reference, then compacts the facet
// out.
func removeDegenerate(m *mesh.Mesh, facet int, logger Logger) {
	logger = logOrNop(logger)
	v := m.Facets[facet].Vertices

	var edge1, edge2, edge3 int
	switch {
	case v[0].Equal(v[1]) && v[1].Equal(v[2]):
		logger.Debugf("removing wholly degenerate facet %d", facet)
		removeFacet(m, facet)
		return
	case v[0].Equal(v[1]):
		edge1, edge2, edge3 = 1, 2, 0
	case v[1].Equal(v[2]):
		edge1, edge2, edge3 = 0, 2, 1
	case v[2].Equal(v[0]):
		edge1, edge2, edge3 = 0, 1, 2
	default:
		return
	}

	neighbor1 := m.Neighbors[facet][edge1].Facet
	neighbor2 := m.Neighbors[facet][edge2].Facet

	if neighbor1 == mesh.NoNeighbor && neighbor2 != mesh.NoNeighbor {
		updateConnectsRemove1(m, int(neighbor2))
	}
	if neighbor2 == mesh.NoNeighbor && neighbor1 != mesh.NoNeighbor {
		updateConnectsRemove1(m, int(neighbor1))
	}

	neighbor3 := m.Neighbors[facet][edge3].Facet
	vnot1 := m.Neighbors[facet][edge1].WhichVertexNot
	vnot2 := m.Neighbors[facet][edge2].WhichVertexNot
	vnot3 := m.Neighbors[facet][edge3].WhichVertexNot

	if neighbor1 >= 0 {
		m.Neighbors[neighbor1][(vnot1+1)%3] = mesh.NeighborSlot{Facet: neighbor2, WhichVertexNot: vnot2}
	}
	if neighbor2 >= 0 {
		m.Neighbors[neighbor2][(vnot2+1)%3] = mesh.NeighborSlot{Facet: neighbor1, WhichVertexNot: vnot1}
	}

	if neighbor3 >= 0 {
		updateConnectsRemove1(m, int(neighbor3))
		m.Neighbors[neighbor3][(vnot3+1)%3] = mesh.NeighborSlot{Facet: mesh.NoNeighbor}
	}

	removeFacet(m, facet)
}

// RemoveUnconnected strips degenerate facets created by the nearby
// pass's vertex snapping, then, if the mesh is not fully connected,
// strips facets with all three edges open (useless, possibly garbage
// geometry). Both cases increment facets_removed.
func RemoveUnconnected(m *mesh.Mesh, logger Logger) {
	for i := 0; i < len(m.Facets); {
		v := m.Facets[i].Vertices
		if v[0].Equal(v[1]) || v[0].Equal(v[2]) || v[1].Equal(v[2]) {
			removeDegenerate(m, i, logger)
			continue
		}
		i++
	}

	if m.Stats.ConnectedFacets1Edge >= len(m.Facets) {
		return
	}
	for i := 0; i < len(m.Facets); {
		nb := m.Neighbors[i]
		if nb[0].None() && nb[1].None() && nb[2].None() {
			removeFacet(m, i)
			continue
		}
		i++
	}
}
