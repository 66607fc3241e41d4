package stl

import (
	"io"
	"math"

	"github.com/kestrelcad/meshrepair/pkg/mesh"
)

const (
	headerSize     = 80
	facetRecordLen = 50
)

// confirmBinarySize reports whether a "solid"-prefixed file is in fact
// binary: its declared facet count must exactly account for the whole
// file size.
func confirmBinarySize(count uint32, fileSize int64) bool {
	return int64(headerSize+4)+int64(count)*facetRecordLen == fileSize
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func leFloat(b []byte) float32 {
	return math.Float32frombits(le32(b))
}

func putLEFloat(b []byte, f float32) {
	putLE32(b, math.Float32bits(f))
}

// decodeFacet unpacks one 50-byte on-disk record: 12 bytes normal, 36
// bytes of three vertices, 2 bytes of opaque attribute. On-disk floats
// are always little-endian regardless of host byte order; decoding via
// explicit per-byte assembly (rather than a raw struct cast) is what
// makes this codec endian-portable without a separate quad-swap step.
func decodeFacet(rec []byte) mesh.Facet {
	var f mesh.Facet
	f.Normal = mesh.Vertex{X: leFloat(rec[0:4]), Y: leFloat(rec[4:8]), Z: leFloat(rec[8:12])}
	for i := 0; i < 3; i++ {
		off := 12 + i*12
		f.Vertices[i] = mesh.Vertex{
			X: leFloat(rec[off : off+4]),
			Y: leFloat(rec[off+4 : off+8]),
			Z: leFloat(rec[off+8 : off+12]),
		}
	}
	f.Attribute[0] = rec[48]
	f.Attribute[1] = rec[49]
	return f
}

func encodeFacet(rec []byte, f mesh.Facet) {
	putLEFloat(rec[0:4], f.Normal.X)
	putLEFloat(rec[4:8], f.Normal.Y)
	putLEFloat(rec[8:12], f.Normal.Z)
	for i := 0; i < 3; i++ {
		off := 12 + i*12
		putLEFloat(rec[off:off+4], f.Vertices[i].X)
		putLEFloat(rec[off+4:off+8], f.Vertices[i].Y)
		putLEFloat(rec[off+8:off+12], f.Vertices[i].Z)
	}
	rec[48] = f.Attribute[0]
	rec[49] = f.Attribute[1]
}

// readBinary decodes the header, facet count, and every facet record
// from r, whose total length is fileSize. sniffType is the mesh.Type
// the caller's sniffing rule determined this file to be — TypeBinary
// for an ordinary binary file, TypeInconsistent for one that opened
// with a "solid" prefix (making it look ASCII) but whose declared
// facet count exactly accounts for the binary file size.
func readBinary(r io.Reader, fileSize int64, path string, sniffType mesh.Type) (*mesh.Mesh, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, &TruncatedFile{Path: path, Err: err}
	}

	countBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, countBuf); err != nil {
		return nil, &TruncatedFile{Path: path, Err: err}
	}
	count := le32(countBuf)

	m := mesh.New()
	m.Stats.Type = sniffType
	m.Stats.Header = string(header)

	rec := make([]byte, facetRecordLen)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, &TruncatedFile{Path: path, Err: err}
		}
		m.AddFacet(decodeFacet(rec))
	}
	m.Stats.OriginalNumFacets = len(m.Facets)
	m.Stats.NumberOfFacets = len(m.Facets)
	return m, nil
}

// WriteBinary emits m in the on-disk binary format bit-exact with what
// readBinary would produce from it: the stored header verbatim (padded
// or truncated to 80 bytes), the little-endian facet count, and each
// facet's 50-byte record with its attribute passed through unchanged.
func WriteBinary(w io.Writer, m *mesh.Mesh) error {
	header := make([]byte, headerSize)
	copy(header, m.Stats.Header)
	if _, err := w.Write(header); err != nil {
		return err
	}

	countBuf := make([]byte, 4)
	putLE32(countBuf, uint32(len(m.Facets)))
	if _, err := w.Write(countBuf); err != nil {
		return err
	}

	rec := make([]byte, facetRecordLen)
	for _, f := range m.Facets {
		encodeFacet(rec, f)
		if _, err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
