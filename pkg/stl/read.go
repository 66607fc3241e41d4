package stl

import (
	"bytes"
	"io"
	"os"

	"github.com/kestrelcad/meshrepair/pkg/mesh"
)

// Read applies the format-sniffing rule to r (which must support
// Seek so the codec can rewind after peeking) and dispatches to the
// binary or ASCII reader. path is used only for error messages.
func Read(r io.ReadSeeker, path string) (*mesh.Mesh, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, &IoError{Op: "seek", Path: path, Err: err}
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, &IoError{Op: "seek", Path: path, Err: err}
	}

	peek := make([]byte, headerSize+4)
	n, err := io.ReadFull(r, peek)
	if err != nil && err != io.ErrUnexpectedEOF {
		if size == 0 {
			m := mesh.New()
			m.Stats.Type = mesh.TypeBinary
			return m, nil
		}
		return nil, &TruncatedFile{Path: path, Err: err}
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, &IoError{Op: "seek", Path: path, Err: err}
	}

	looksASCII := n >= 5 && bytes.EqualFold(peek[:5], []byte("solid"))
	sniffType := mesh.TypeBinary
	if looksASCII && n >= headerSize+4 {
		count := le32(peek[headerSize : headerSize+4])
		if confirmBinarySize(count, size) {
			looksASCII = false
			sniffType = mesh.TypeInconsistent
		}
	}

	if looksASCII {
		return readASCII(r, path)
	}
	return readBinary(r, size, path, sniffType)
}

// Load opens path and reads it into a *mesh.Mesh via Read.
func Load(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IoError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	return Read(f, path)
}

// SaveBinary writes m to path in the binary format.
func SaveBinary(m *mesh.Mesh, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &IoError{Op: "create", Path: path, Err: err}
	}
	defer f.Close()
	if err := WriteBinary(f, m); err != nil {
		return &IoError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// SaveASCII writes m to path in the ASCII format under the given solid
// label.
func SaveASCII(m *mesh.Mesh, path, label string) error {
	f, err := os.Create(path)
	if err != nil {
		return &IoError{Op: "create", Path: path, Err: err}
	}
	defer f.Close()
	if err := WriteASCII(f, m, label); err != nil {
		return &IoError{Op: "write", Path: path, Err: err}
	}
	return nil
}
