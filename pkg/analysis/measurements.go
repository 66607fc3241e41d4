// Package analysis formats a repaired (or unrepaired) mesh's geometry
// and statistics for human consumption: bounding box, dimensions, and
// edge-length distribution, as consumed by the `info` command.
package analysis

import (
	"fmt"
	"sort"

	"github.com/kestrelcad/meshrepair/pkg/mesh"
)

// EdgeInfo describes one directed edge of one facet, independent of
// whether it is currently connected.
type EdgeInfo struct {
	Start, End Vector
	Length     float32
	FacetIndex int
}

// Vector is a display-formatted copy of mesh.Vertex; kept distinct from
// the repair core's type so analysis never accidentally mutates a
// mesh's own vertex data through a shared value.
type Vector struct {
	X, Y, Z float32
}

func fromVertex(v mesh.Vertex) Vector { return Vector{v.X, v.Y, v.Z} }

// Result collects the measurements the `info` command reports.
type Result struct {
	BoundingBox   mesh.BoundingBox
	Dimensions    Vector
	Volume        float64
	FacetCount    int
	EdgeCount     int
	MinEdgeLength float32
	MaxEdgeLength float32
	AvgEdgeLength float32
	AllEdges      []EdgeInfo
}

// Analyze computes bounding box, edge-length distribution, and volume
// for m as it currently stands (repaired or not).
func Analyze(m *mesh.Mesh) Result {
	box := m.BoundingBox()
	result := Result{
		BoundingBox: box,
		Dimensions:  fromVertex(box.Size()),
		FacetCount:  len(m.Facets),
		Volume:      m.Stats.Volume,
	}

	var minLen, maxLen, total float32
	minLen = 3.402823e+38

	for i, f := range m.Facets {
		edges := [3][2]mesh.Vertex{
			{f.Vertices[0], f.Vertices[1]},
			{f.Vertices[1], f.Vertices[2]},
			{f.Vertices[2], f.Vertices[0]},
		}
		for _, e := range edges {
			length := e[0].Sub(e[1]).Length()
			result.AllEdges = append(result.AllEdges, EdgeInfo{
				Start:      fromVertex(e[0]),
				End:        fromVertex(e[1]),
				Length:     length,
				FacetIndex: i,
			})
			total += length
			if length < minLen {
				minLen = length
			}
			if length > maxLen {
				maxLen = length
			}
		}
	}

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLen
		result.MaxEdgeLength = maxLen
		result.AvgEdgeLength = total / float32(result.EdgeCount)
	}
	return result
}

// LongestEdges returns the n longest edges, n capped to the available
// count.
func LongestEdges(r Result, n int) []EdgeInfo {
	edges := append([]EdgeInfo(nil), r.AllEdges...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].Length > edges[j].Length })
	if n > len(edges) {
		n = len(edges)
	}
	return edges[:n]
}

// FormatVector renders a vector with fixed precision for terminal
// output.
func FormatVector(v Vector) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
