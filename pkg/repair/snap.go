// Package repair implements the Topology Repairer and the Normal &
// Orientation Fixer: vertex snapping, hole filling, degenerate and
// unconnected facet removal, normal recomputation, and BFS-based facet
// reversal for a globally consistent outward orientation.
package repair

import (
	"github.com/kestrelcad/meshrepair/pkg/hashedge"
	"github.com/kestrelcad/meshrepair/pkg/mesh"
)

// Logger receives the repairer's non-fatal diagnostics: Möbius
// abandonments (Warnf) and wholly degenerate facet removals (Debugf).
// The CLI passes a *zap.SugaredLogger; the zero value (nil) is silent.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}

func logOrNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}

// pairEndpoints returns, for a raw edge slot (0..5), the two vertex
// indices of the edge in the direction the key was actually loaded:
// v1 is the "from" endpoint, v2 the "to" endpoint.
func pairEndpoints(slot uint8) (v1, v2 int) {
	if slot < 3 {
		return int(slot), int(slot+1) % 3
	}
	s := int(slot) % 3
	return (s + 1) % 3, s
}

// Snap is the SnapFunc the hash edger's nearby pass invokes on every
// tolerance match. It decides, for each of the two shared endpoints,
// which side to move: a free corner (both adjacent edges still open) is
// preferred since moving it disturbs no already-connected geometry;
// otherwise the first facet's vertex is moved onto the second's.
func Snap(m *mesh.Mesh, edgeA, edgeB hashedge.Edge, logger Logger) {
	logger = logOrNop(logger)
	v1a, v2a := pairEndpoints(edgeA.Slot)
	v1b, v2b := pairEndpoints(edgeB.Slot)

	fa, fb := edgeA.Facet, edgeB.Facet

	facet1, vertex1, newVertex1, ok1 := whichVertexToChange(m, fa, v1a, fb, v1b)
	facet2, vertex2, newVertex2, ok2 := whichVertexToChange(m, fa, v2a, fb, v2b)

	if ok1 {
		vnot1 := int(edgeA.Slot+2) % 3
		if facet1 != fa {
			vnot1 = int(edgeB.Slot+2) % 3
		}
		if (vnot1+2)%3 == vertex1 {
			vnot1 += 3
		}
		changeVertices(m, facet1, vnot1, newVertex1, logger)
	}
	if ok2 {
		vnot2 := int(edgeA.Slot+2) % 3
		if facet2 != fa {
			vnot2 = int(edgeB.Slot+2) % 3
		}
		if (vnot2+2)%3 == vertex2 {
			vnot2 += 3
		}
		changeVertices(m, facet2, vnot2, newVertex2, logger)
	}
}

// whichVertexToChange decides which of two candidate vertices (facet a's
// va, facet b's vb) should be overwritten, preferring a free corner
// (both of its adjacent edges still open) as the cheap side to move.
// ok is false when the two vertices already coincide.
func whichVertexToChange(m *mesh.Mesh, a, va, b, vb int) (facet, vertex int, newVertex mesh.Vertex, ok bool) {
	if m.Facets[a].Vertices[va].Equal(m.Facets[b].Vertices[vb]) {
		return 0, 0, mesh.Vertex{}, false
	}
	if m.Neighbors[a][va].None() && m.Neighbors[a][(va+2)%3].None() {
		return a, va, m.Facets[b].Vertices[vb], true
	}
	if m.Neighbors[b][vb].None() && m.Neighbors[b][(vb+2)%3].None() {
		return b, vb, m.Facets[a].Vertices[va], true
	}
	return a, va, m.Facets[b].Vertices[vb], true
}

// changeVertices is the coordinate-propagation fan walk: starting at
// facet with its pivot vertex slot vnot (>= 3 meaning the walk begins
// against the canonical direction), it overwrites the pivot vertex with
// newVertex at every visited facet, then pivots to the next edge around
// the same physical corner and hops across it, alternating direction as
// the >=3/< 3 encoding dictates. It stops at an open edge or aborts with
// a Möbius diagnostic if it returns to the starting facet first.
func changeVertices(m *mesh.Mesh, facetNum, vnot int, newVertex mesh.Vertex, logger Logger) {
	firstFacet := facetNum
	direction := 0

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

		m.Facets[facetNum].Vertices[pivotVertex] = newVertex

		slot := m.Neighbors[facetNum][nextEdge]
		vnot = int(slot.WhichVertexNot)
		facetNum = int(slot.Facet)

		if slot.None() {
			return
		}
		if facetNum == firstFacet {
			// Möbius/self-intersecting configuration: abandon this snap,
			// leaving the mesh in the state of the last completed step.
			logger.Warnf("vertex snap: returned to facet %d without finding an open edge, skipping", firstFacet)
			return
		}
	}
}
