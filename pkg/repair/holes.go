package repair

import (
	"github.com/kestrelcad/meshrepair/pkg/hashedge"
	"github.com/kestrelcad/meshrepair/pkg/mesh"
)

// FillHoles walks every open-edge boundary loop and closes it with fan
// triangles. It first re-hashes every still-unconnected edge exactly
// (so the loops it walks reflect the mesh as it stood after the nearby
// pass), then, for each facet and each of its open edges, walks the fan
// until it finds the loop's next open edge and emits a triangle whose
// third vertex is that edge's far endpoint. New facets get a zero
// normal (recomputed later), no neighbors initially, and are re-hashed
// immediately so later iterations in the same call see the new
// adjacency.
func FillHoles(m *mesh.Mesh, logger Logger) {
	logger = logOrNop(logger)
	table := hashedge.NewTable(hashedge.TableSize(len(m.Facets)))
	rehash := func(facet int) {
		f := m.Facets[facet]
		for k := 0; k < 3; k++ {
			if !m.Neighbors[facet][k].None() {
				continue
			}
			var shortest float32 = 3.402823e+38
			e := hashedge.LoadExact(facet, k, f.Vertices[k], f.Vertices[(k+1)%3], &shortest)
			table.Insert(e, func(a, b hashedge.Edge) {
				recordNeighborsFor(m, a, b)
			})
		}
	}
	for i := range m.Facets {
		rehash(i)
	}

	// The facet count grows as holes are filled; re-read len(m.Facets)
	// every iteration, matching admesh's own `i < stl->stats.number_of_facets`
	// loop condition, which is re-evaluated each pass through the for
	// statement and mutated by stl_add_facet inside the body. This lets
	// an ear triangle just added to close part of a larger hole be
	// revisited later in the same loop as a normal starting point for
	// whatever open edges it still has.
	for i := 0; i < len(m.Facets); i++ {
		facet := m.Facets[i]
		initialNeighbors := m.Neighbors[i]

		for j := 0; j < 3; j++ {
			if !m.Neighbors[i][j].None() {
				continue
			}

			var newFacet mesh.Facet
			newFacet.Vertices[0] = facet.Vertices[j]
			newFacet.Vertices[1] = facet.Vertices[(j+1)%3]

			direction := 0
			if initialNeighbors[(j+2)%3].None() {
				direction = 1
			}

			facetNum := i
			vnot := (j + 2) % 3
			firstFacet := i
			mobius := false

			for {
				var pivotVertex, nextEdge int
				if vnot > 2 {
					if direction == 0 {
						pivotVertex = (vnot + 2) % 3
						nextEdge = pivotVertex
						direction = 1
					} else {
						pivotVertex = (vnot + 1) % 3
						nextEdge = vnot % 3
						direction = 0
					}
				} else {
					if direction == 0 {
						pivotVertex = (vnot + 1) % 3
						nextEdge = vnot
					} else {
						pivotVertex = (vnot + 2) % 3
						nextEdge = pivotVertex
					}
				}

				nextFacet := m.Neighbors[facetNum][nextEdge].Facet

				if nextFacet == mesh.NoNeighbor {
					newFacet.Vertices[2] = m.Facets[facetNum].Vertices[vnot%3]
					addFacet(m, newFacet, table)
					break
				}

				vnot = int(m.Neighbors[facetNum][nextEdge].WhichVertexNot)
				facetNum = int(nextFacet)

				if facetNum == firstFacet {
					logger.Warnf("hole fill: returned to facet %d without finding an open edge, abandoning this hole", firstFacet)
					mobius = true
					break
				}
			}
			if mobius {
				continue
			}
		}
	}
}

// recordNeighborsFor mirrors hashedge's own recordNeighbors so the hole
// filler can drive the same auxiliary table without exporting the
// unexported histogram-updating helper across the package boundary.
func recordNeighborsFor(m *mesh.Mesh, a, b hashedge.Edge) {
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
}

// addFacet appends a new triangle (block-256 growth via mesh.AddFacet),
// counts it, and re-hashes its three edges into table so the next
// iteration of FillHoles's outer loop sees the fresh adjacency.
func addFacet(m *mesh.Mesh, f mesh.Facet, table *hashedge.Table) {
	f.Normal = mesh.Vertex{}
	idx := m.AddFacet(f)
	m.Stats.FacetsAdded++
	added := m.Facets[idx]
	for k := 0; k < 3; k++ {
		var shortest float32 = 3.402823e+38
		e := hashedge.LoadExact(idx, k, added.Vertices[k], added.Vertices[(k+1)%3], &shortest)
		table.Insert(e, func(a, b hashedge.Edge) {
			recordNeighborsFor(m, a, b)
		})
	}
}
