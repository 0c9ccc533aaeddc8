package ply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/tilekit/lodtree/pkg/mesh"
)

// Encode writes a mesh as PLY in the given format. Normals, colors and
// texture coordinates are emitted only when the mesh carries a full
// per-vertex array for them.
func Encode(w io.Writer, m *mesh.Mesh, format Format) error {
	switch format {
	case FormatASCII, FormatBinaryLE:
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	hasNormals := len(m.Normals()) == m.VertexCount() && m.VertexCount() > 0
	hasColors := len(m.Colors()) == m.VertexCount() && m.VertexCount() > 0
	hasTexCoords := len(m.TexCoords()) == m.VertexCount() && m.VertexCount() > 0

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "ply")
	fmt.Fprintf(bw, "format %s 1.0\n", format)
	fmt.Fprintf(bw, "element vertex %d\n", m.VertexCount())
	fmt.Fprintln(bw, "property float x")
	fmt.Fprintln(bw, "property float y")
	fmt.Fprintln(bw, "property float z")
	if hasNormals {
		fmt.Fprintln(bw, "property float nx")
		fmt.Fprintln(bw, "property float ny")
		fmt.Fprintln(bw, "property float nz")
	}
	if hasColors {
		fmt.Fprintln(bw, "property uchar red")
		fmt.Fprintln(bw, "property uchar green")
		fmt.Fprintln(bw, "property uchar blue")
		fmt.Fprintln(bw, "property uchar alpha")
	}
	if hasTexCoords {
		fmt.Fprintln(bw, "property float u")
		fmt.Fprintln(bw, "property float v")
	}
	fmt.Fprintf(bw, "element face %d\n", m.TriangleCount())
	fmt.Fprintln(bw, "property list uchar int vertex_indices")
	fmt.Fprintln(bw, "end_header")

	var err error
	if format == FormatASCII {
		err = encodeBodyASCII(bw, m, hasNormals, hasColors, hasTexCoords)
	} else {
		err = encodeBodyBinary(bw, m, hasNormals, hasColors, hasTexCoords)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

// WriteFile writes a mesh to disk as PLY.
func WriteFile(path string, m *mesh.Mesh, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, m, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeBodyASCII(w io.Writer, m *mesh.Mesh, normals, colors, texCoords bool) error {
	for i, p := range m.Positions() {
		fmt.Fprintf(w, "%g %g %g", p.X, p.Y, p.Z)
		if normals {
			n := m.Normals()[i]
			fmt.Fprintf(w, " %g %g %g", n.X, n.Y, n.Z)
		}
		if colors {
			c := m.Colors()[i]
			fmt.Fprintf(w, " %d %d %d %d", c[0], c[1], c[2], c[3])
		}
		if texCoords {
			uv := m.TexCoords()[i]
			fmt.Fprintf(w, " %g %g", uv[0], uv[1])
		}
		fmt.Fprintln(w)
	}
	indices := m.Indices()
	for t := 0; t < m.TriangleCount(); t++ {
		if _, err := fmt.Fprintf(w, "3 %d %d %d\n", indices[t*3], indices[t*3+1], indices[t*3+2]); err != nil {
			return err
		}
	}
	return nil
}

func encodeBodyBinary(w io.Writer, m *mesh.Mesh, normals, colors, texCoords bool) error {
	writeF32 := func(v float32) error {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		_, err := w.Write(buf[:])
		return err
	}
	for i, p := range m.Positions() {
		for _, v := range []float32{p.X, p.Y, p.Z} {
			if err := writeF32(v); err != nil {
				return err
			}
		}
		if normals {
			n := m.Normals()[i]
			for _, v := range []float32{n.X, n.Y, n.Z} {
				if err := writeF32(v); err != nil {
					return err
				}
			}
		}
		if colors {
			c := m.Colors()[i]
			if _, err := w.Write(c[:]); err != nil {
				return err
			}
		}
		if texCoords {
			uv := m.TexCoords()[i]
			if err := writeF32(uv[0]); err != nil {
				return err
			}
			if err := writeF32(uv[1]); err != nil {
				return err
			}
		}
	}
	indices := m.Indices()
	var idx [4]byte
	for t := 0; t < m.TriangleCount(); t++ {
		if _, err := w.Write([]byte{3}); err != nil {
			return err
		}
		for k := 0; k < 3; k++ {
			binary.LittleEndian.PutUint32(idx[:], indices[t*3+k])
			if _, err := w.Write(idx[:]); err != nil {
				return err
			}
		}
	}
	return nil
}
