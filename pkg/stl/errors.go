// Package stl implements the binary and ASCII triangle-mesh container
// formats: format sniffing, reading into a *mesh.Mesh, and writing a
// mesh back out bit-exact (binary) or in admesh's `% .8E` ASCII style.
package stl

import "fmt"

// IoError wraps a filesystem-level failure encountered while reading or
// writing a mesh file.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("stl: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// FormatError describes an ill-formed input file: where the parser had
// reached and what it expected to find there. The ASCII reader stores
// the 1-based line number of the offending line in Offset, not a byte
// offset.
type FormatError struct {
	Offset   int64
	Expected string
	Path     string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("stl: %s: malformed at offset %d, expected %s", e.Path, e.Offset, e.Expected)
}

// TruncatedFile means the declared facet count and the file size
// disagree (binary), or the stream ended before a facet or token was
// complete (ASCII).
type TruncatedFile struct {
	Path string
	Err  error
}

func (e *TruncatedFile) Error() string {
	return fmt.Sprintf("stl: %s: truncated file: %v", e.Path, e.Err)
}

func (e *TruncatedFile) Unwrap() error { return e.Err }
