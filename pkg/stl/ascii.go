package stl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kestrelcad/meshrepair/pkg/mesh"
)

// readASCII parses the canonical `solid`/`facet normal`/`outer
// loop`/`vertex`/`endloop`/`endfacet`/`endsolid` token stream. Keywords
// are matched case-insensitively; the solid's name is read but not
// otherwise used. A missing or zero normal is accepted as-is and left
// for the Normal & Orientation Fixer to recompute.
func readASCII(r io.Reader, path string) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	m := mesh.New()
	m.Stats.Type = mesh.TypeASCII

	var lineNo int64
	var header string
	haveHeader := false

	var facet mesh.Facet
	var vertexCount int
	inFacet := false
	inLoop := false

	parseFloats := func(fields []string) ([3]float32, error) {
		var v [3]float32
		for i := 0; i < 3; i++ {
			f, err := strconv.ParseFloat(fields[i], 32)
			if err != nil {
				return v, &FormatError{Offset: lineNo, Expected: "numeric coordinate", Path: path}
			}
			v[i] = float32(f)
		}
		return v, nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		keyword := strings.ToLower(fields[0])

		switch keyword {
		case "solid":
			if !haveHeader {
				header = strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
				haveHeader = true
			}
		case "facet":
			if len(fields) < 2 || strings.ToLower(fields[1]) != "normal" || (len(fields) > 2 && len(fields) < 5) {
				return nil, &FormatError{Offset: lineNo, Expected: "facet normal nx ny nz", Path: path}
			}
			facet = mesh.Facet{}
			if len(fields) >= 5 {
				v, err := parseFloats(fields[2:5])
				if err != nil {
					return nil, err
				}
				facet.Normal = mesh.Vertex{X: v[0], Y: v[1], Z: v[2]}
			}
			inFacet = true
			vertexCount = 0
		case "outer":
			if !inFacet {
				return nil, &FormatError{Offset: lineNo, Expected: "facet normal before outer loop", Path: path}
			}
			inLoop = true
		case "vertex":
			if !inLoop || vertexCount >= 3 || len(fields) < 4 {
				return nil, &FormatError{Offset: lineNo, Expected: "vertex x y z", Path: path}
			}
			v, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, err
			}
			facet.Vertices[vertexCount] = mesh.Vertex{X: v[0], Y: v[1], Z: v[2]}
			vertexCount++
		case "endloop":
			if !inLoop || vertexCount != 3 {
				return nil, &FormatError{Offset: lineNo, Expected: "three vertices before endloop", Path: path}
			}
			inLoop = false
		case "endfacet":
			if !inFacet {
				return nil, &FormatError{Offset: lineNo, Expected: "facet before endfacet", Path: path}
			}
			m.AddFacet(facet)
			inFacet = false
		case "endsolid":
			// Terminal keyword; trailing content after it is ignored.
		default:
			return nil, &FormatError{Offset: lineNo, Expected: "a recognized STL keyword", Path: path}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &TruncatedFile{Path: path, Err: err}
	}
	if inFacet {
		return nil, &TruncatedFile{Path: path, Err: fmt.Errorf("facet never closed with endfacet")}
	}

	m.Stats.Header = header
	m.Stats.OriginalNumFacets = len(m.Facets)
	m.Stats.NumberOfFacets = len(m.Facets)
	return m, nil
}

// WriteASCII emits m in the canonical ASCII layout, with all nine
// coordinates of each facet formatted `% .8E`, matching the precision
// Slic3r-style consumers expect on read-back.
func WriteASCII(w io.Writer, m *mesh.Mesh, label string) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "solid %s\n", label); err != nil {
		return err
	}
	for _, f := range m.Facets {
		if _, err := fmt.Fprintf(bw, "  facet normal % .8E % .8E % .8E\n", f.Normal.X, f.Normal.Y, f.Normal.Z); err != nil {
			return err
		}
		if _, err := fmt.Fprint(bw, "    outer loop\n"); err != nil {
			return err
		}
		for _, v := range f.Vertices {
			if _, err := fmt.Fprintf(bw, "      vertex % .8E % .8E % .8E\n", v.X, v.Y, v.Z); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(bw, "    endloop\n  endfacet\n"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "endsolid %s\n", label); err != nil {
		return err
	}
	return bw.Flush()
}
