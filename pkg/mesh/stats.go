package mesh

// Type flags the on-disk format a mesh was loaded from.
type Type int

const (
	// TypeBinary means the file was decoded as the binary container.
	TypeBinary Type = iota
	// TypeASCII means the file was decoded as the ASCII container.
	TypeASCII
	// TypeInconsistent means the file's header spelled "solid" but its
	// facet count was consistent with a binary body, so it was decoded
	// as binary anyway.
	TypeInconsistent
)

func (t Type) String() string {
	switch t {
	case TypeBinary:
		return "binary"
	case TypeASCII:
		return "ascii"
	case TypeInconsistent:
		return "ascii-header-binary-body"
	default:
		return "unknown"
	}
}

// BoundingBox is an axis-aligned box over a mesh's vertices.
type BoundingBox struct {
	Min, Max Vertex
}

// Extend grows the box, if necessary, to include p.
func (b *BoundingBox) Extend(p Vertex) {
	b.Min = Vertex{minf(b.Min.X, p.X), minf(b.Min.Y, p.Y), minf(b.Min.Z, p.Z)}
	b.Max = Vertex{maxf(b.Max.X, p.X), maxf(b.Max.Y, p.Y), maxf(b.Max.Z, p.Z)}
}

// Size returns the box's dimensions.
func (b BoundingBox) Size() Vertex {
	return b.Max.Sub(b.Min)
}

// Center returns the box's midpoint.
func (b BoundingBox) Center() Vertex {
	return Vertex{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
}

// Diagonal returns the length of the box's diagonal.
func (b BoundingBox) Diagonal() float32 {
	return b.Size().Length()
}

// EmptyBoundingBox returns a box primed so the first Extend call sets it.
func EmptyBoundingBox() BoundingBox {
	const inf = float32(3.402823e+38)
	return BoundingBox{
		Min: Vertex{inf, inf, inf},
		Max: Vertex{-inf, -inf, -inf},
	}
}

// Stats is the read-only statistics block maintained across a mesh's
// lifetime: format metadata, cumulative repair counters, and the
// geometric measurements the repair passes compute along the way.
type Stats struct {
	Type   Type
	Header string

	OriginalNumFacets int
	NumberOfFacets    int

	// Connectivity histograms, updated live as repair proceeds.
	ConnectedFacets1Edge int
	ConnectedFacets2Edge int
	ConnectedFacets3Edge int

	// Snapshots of the same histograms taken right after the exact pass,
	// before any nearby-pass snapping or hole filling has run.
	InitFacets1Edge int
	InitFacets2Edge int
	InitFacets3Edge int

	ConnectedEdges int

	NumberOfParts int
	Volume        float64
	BoundingBox   BoundingBox
	ShortestEdge  float32

	DegenerateFacets int
	EdgesFixed       int
	FacetsRemoved    int
	FacetsAdded      int
	FacetsReversed   int
	BackwardsEdges   int
	NormalsFixed     int

	Collisions int
}

// ResetCounters zeroes every cumulative-since-load counter, leaving format
// metadata and geometric measurements untouched. Used to make repair
// idempotent when called a second time on an already-clean mesh.
func (s *Stats) ResetCounters() {
	s.DegenerateFacets = 0
	s.EdgesFixed = 0
	s.FacetsRemoved = 0
	s.FacetsAdded = 0
	s.FacetsReversed = 0
	s.BackwardsEdges = 0
	s.NormalsFixed = 0
	s.Collisions = 0
}
