package mesh

import "math"

// Vertex is an ordered triple of 32-bit floats, matching the on-disk
// precision of the triangle-mesh container. Equality and ordering are
// defined bitwise/lexicographically once negative zero has been folded
// to positive zero, so two geometrically identical vertices always
// compare equal regardless of which sign of zero produced them.
type Vertex struct {
	X, Y, Z float32
}

// NewVertex builds a Vertex from three components.
func NewVertex(x, y, z float32) Vertex {
	return Vertex{X: x, Y: y, Z: z}
}

// NormalizeZero folds -0 to +0 on every component. Two vertices that are
// equal after this normalization are considered the same point.
func (v Vertex) NormalizeZero() Vertex {
	return Vertex{
		X: normalizeZero(v.X),
		Y: normalizeZero(v.Y),
		Z: normalizeZero(v.Z),
	}
}

func normalizeZero(f float32) float32 {
	if math.Float32bits(f) == 0x80000000 {
		return 0
	}
	return f
}

// Equal reports bitwise equality after negative-zero normalization.
func (v Vertex) Equal(other Vertex) bool {
	a, b := v.NormalizeZero(), other.NormalizeZero()
	return a.X == b.X && a.Y == b.Y && a.Z == b.Z
}

// Less orders two vertices lexicographically on X, then Y, then Z.
func (v Vertex) Less(other Vertex) bool {
	if v.X != other.X {
		return v.X < other.X
	}
	if v.Y != other.Y {
		return v.Y < other.Y
	}
	return v.Z < other.Z
}

// Add returns the component-wise sum.
func (v Vertex) Add(other Vertex) Vertex {
	return Vertex{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns the component-wise difference.
func (v Vertex) Sub(other Vertex) Vertex {
	return Vertex{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Cross returns the cross product v x other.
func (v Vertex) Cross(other Vertex) Vertex {
	return Vertex{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Dot returns the dot product of v and other.
func (v Vertex) Dot(other Vertex) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Length returns the Euclidean length of v.
func (v Vertex) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns a unit vector in the direction of v, or the zero
// vector if v itself is zero.
func (v Vertex) Normalize() Vertex {
	l := v.Length()
	if l == 0 {
		return Vertex{}
	}
	return Vertex{v.X / l, v.Y / l, v.Z / l}
}

// ChebyshevDistance returns max(|dx|, |dy|, |dz|) between v and other,
// used by the edge hasher to track the shortest edge seen.
func (v Vertex) ChebyshevDistance(other Vertex) float32 {
	d := v.Sub(other)
	return maxf(absf(d.X), maxf(absf(d.Y), absf(d.Z)))
}

func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
