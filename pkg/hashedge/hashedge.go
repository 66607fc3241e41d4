// Package hashedge builds the facet adjacency graph of a mesh by pairing
// each directed edge of a triangle with its anti-parallel partner on a
// neighboring facet, using an open-addressed chained hash table keyed by
// either an exact vertex match or a tolerance-quantized grid cell.
package hashedge

import (
	"math"

	"github.com/kestrelcad/meshrepair/pkg/mesh"
)

// primes is the tabulated set of hash-table sizes: the smallest prime
// strictly greater than 6*N-1 is chosen for N facets, aiming for roughly
// a 50% load factor across the 3*N edges that will be inserted (of which
// about half are matched and removed again in flight).
var primes = []uint32{
	98317, 196613, 393241, 786433, 1572869, 3145739, 6291469,
	12582917, 25165843, 50331653, 100663319, 201326611,
	402653189, 805306457, 1610612741,
}

// TableSize returns the smallest tabulated prime strictly greater than
// 6*n-1, or the largest tabulated prime if 6*n-1 exceeds it.
func TableSize(n int) uint32 {
	target := int64(6*n) - 1
	for _, p := range primes {
		if int64(p) > target {
			return p
		}
	}
	return primes[len(primes)-1]
}

// Key is the 24-byte packed representation of two canonically ordered
// edge endpoints: either six float32 vertex components (exact pass) or
// six int32 grid coordinates (nearby pass), compared bytewise.
type Key [24]byte

// Edge is one directed edge of a facet, keyed for hash-table matching.
type Edge struct {
	Key   Key
	Facet int
	// Slot is the owning facet's edge index in 0..5: values >= 3 mean
	// the edge's natural direction (vertex[j] -> vertex[j+1]) was
	// reversed to canonicalize the key.
	Slot uint8
}

// Backwards reports whether this edge was loaded in reverse to
// canonicalize its key.
func (e Edge) Backwards() bool { return e.Slot >= 3 }

// EdgeIndex returns the owning facet's edge index with the orientation
// bit stripped, always in 0..2.
func (e Edge) EdgeIndex() uint8 { return e.Slot % 3 }

type node struct {
	edge Edge
	next *node
}

// Table is a scoped, short-lived hash table over edges. It must be
// discarded (simply dropped) before any subsequent pass mutates facet
// indices, since its entries reference them by position.
type Table struct {
	buckets    []*node
	collisions int
}

// NewTable allocates a table with the given number of buckets.
func NewTable(size uint32) *Table {
	return &Table{buckets: make([]*node, size)}
}

func (t *Table) index(k Key) uint64 {
	// FNV-1a over the 24 key bytes.
	var h uint64 = 14695981039346656037
	for _, b := range k {
		h ^= uint64(b)
		h *= 1099511628211
	}
	return h % uint64(len(t.buckets))
}

// MatchFunc is invoked when two edges with byte-equal keys, belonging to
// different facets, are found. The first match wins; later edges with
// the same key against an already-matched edge are inserted normally.
type MatchFunc func(a, b Edge)

// Insert adds edge e to the table. If a chain entry with a byte-equal
// key and a different facet already exists, it is removed from the
// chain, onMatch is invoked with (existing, e), and e itself is not
// inserted. Otherwise e is pushed onto the front of its bucket's chain.
func (t *Table) Insert(e Edge, onMatch MatchFunc) {
	idx := t.index(e.Key)
	var prev *node
	cur := t.buckets[idx]
	for cur != nil {
		if cur.edge.Key == e.Key && cur.edge.Facet != e.Facet {
			if prev == nil {
				t.buckets[idx] = cur.next
			} else {
				prev.next = cur.next
			}
			onMatch(cur.edge, e)
			return
		}
		prev = cur
		cur = cur.next
	}
	if t.buckets[idx] != nil {
		t.collisions++
	}
	newNode := &node{edge: e}
	newNode.next = t.buckets[idx]
	t.buckets[idx] = newNode
}

// Collisions returns the number of chain insertions that landed on an
// already-occupied bucket.
func (t *Table) Collisions() int { return t.collisions }

func normalizeZero32(f float32) float32 {
	if math.Float32bits(f) == 0x80000000 {
		return 0
	}
	return f
}

func putFloat(k *Key, offset int, v mesh.Vertex) {
	put := func(off int, f float32) {
		bits := math.Float32bits(normalizeZero32(f))
		k[off] = byte(bits)
		k[off+1] = byte(bits >> 8)
		k[off+2] = byte(bits >> 16)
		k[off+3] = byte(bits >> 24)
	}
	put(offset, v.X)
	put(offset+4, v.Y)
	put(offset+8, v.Z)
}

// LoadExact builds the exact-match key for the directed edge a->b of
// facet i, edge slot j, updating shortestEdge with the Chebyshev
// distance between the two endpoints as it goes.
func LoadExact(facet, j int, a, b mesh.Vertex, shortestEdge *float32) Edge {
	d := a.ChebyshevDistance(b)
	if d < *shortestEdge {
		*shortestEdge = d
	}
	e := Edge{Facet: facet, Slot: uint8(j)}
	if a.Less(b) {
		putFloat(&e.Key, 0, a)
		putFloat(&e.Key, 12, b)
	} else {
		putFloat(&e.Key, 0, b)
		putFloat(&e.Key, 12, a)
		e.Slot += 3
	}
	return e
}

func putCell(k *Key, offset int, c [3]int32) {
	put := func(off int, v int32) {
		u := uint32(v)
		k[off] = byte(u)
		k[off+1] = byte(u >> 8)
		k[off+2] = byte(u >> 16)
		k[off+3] = byte(u >> 24)
	}
	put(offset, c[0])
	put(offset+4, c[1])
	put(offset+8, c[2])
}

func cellLess(a, b [3]int32) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

func quantize(v, min mesh.Vertex, tolerance float32) [3]int32 {
	return [3]int32{
		int32(math.Floor(float64((v.X - min.X) / tolerance))),
		int32(math.Floor(float64((v.Y - min.Y) / tolerance))),
		int32(math.Floor(float64((v.Z - min.Z) / tolerance))),
	}
}

// LoadNearby builds the tolerance-quantized key for edge a->b of facet
// i, edge slot j, given the mesh's bounding-box minimum and a tolerance.
// It reports ok=false when both endpoints quantize into the same cell:
// the edge is below the tolerance's resolution and should be skipped.
func LoadNearby(facet, j int, a, b, bboxMin mesh.Vertex, tolerance float32) (edge Edge, ok bool) {
	ca := quantize(a, bboxMin, tolerance)
	cb := quantize(b, bboxMin, tolerance)
	if ca == cb {
		return Edge{}, false
	}
	e := Edge{Facet: facet, Slot: uint8(j)}
	if cellLess(ca, cb) {
		putCell(&e.Key, 0, ca)
		putCell(&e.Key, 12, cb)
	} else {
		putCell(&e.Key, 0, cb)
		putCell(&e.Key, 12, ca)
		e.Slot += 3
	}
	return e, true
}
