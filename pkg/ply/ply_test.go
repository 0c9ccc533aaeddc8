package ply

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tilekit/lodtree/pkg/geom"
	"github.com/tilekit/lodtree/pkg/mesh"
)

const asciiQuad = `ply
format ascii 1.0
comment made by hand
element vertex 4
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
element face 1
property list uchar int vertex_indices
end_header
0 0 0 255 0 0
1 0 0 0 255 0
1 1 0 0 0 255
0 1 0 255 255 255
4 0 1 2 3
`

func TestDecodeASCII(t *testing.T) {
	m, err := Decode(strings.NewReader(asciiQuad))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.VertexCount() != 4 {
		t.Errorf("vertex count = %d, want 4", m.VertexCount())
	}
	// The quad face must be fan-triangulated into two triangles.
	if m.TriangleCount() != 2 {
		t.Fatalf("triangle count = %d, want 2", m.TriangleCount())
	}
	want := []uint32{0, 1, 2, 0, 2, 3}
	for i, idx := range m.Indices() {
		if idx != want[i] {
			t.Fatalf("indices = %v, want %v", m.Indices(), want)
		}
	}
	if len(m.Colors()) != 4 {
		t.Fatalf("colors = %d, want 4", len(m.Colors()))
	}
	// No alpha property declared, so alpha defaults to opaque.
	if m.Colors()[0] != [4]uint8{255, 0, 0, 255} {
		t.Errorf("color[0] = %v", m.Colors()[0])
	}
	if m.Positions()[2] != (geom.Vec3{X: 1, Y: 1, Z: 0}) {
		t.Errorf("position[2] = %v", m.Positions()[2])
	}
}

func TestDecodeMetadata(t *testing.T) {
	md, err := DecodeMetadata(strings.NewReader(asciiQuad))
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	if md.Format != FormatASCII {
		t.Errorf("format = %s, want ascii", md.Format)
	}
	if md.VertexCount != 4 || md.FaceCount != 1 {
		t.Errorf("counts = %d/%d, want 4/1", md.VertexCount, md.FaceCount)
	}
	if !md.HasColors || md.HasNormals || md.HasTexCoords {
		t.Errorf("attribute flags = %+v", md)
	}
}

func TestDecodeInvalidHeader(t *testing.T) {
	if _, err := Decode(strings.NewReader("not a ply\n")); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("error = %v, want ErrInvalidHeader", err)
	}
}

func TestDecodeBigEndianUnsupported(t *testing.T) {
	src := "ply\nformat binary_big_endian 1.0\nelement vertex 1\nproperty float x\nproperty float y\nproperty float z\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n"
	if _, err := Decode(strings.NewReader(src)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeTruncatedVertices(t *testing.T) {
	src := "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n"
	if _, err := Decode(strings.NewReader(src)); !errors.Is(err, ErrTruncatedData) {
		t.Errorf("error = %v, want ErrTruncatedData", err)
	}
}

func TestDecodeEmpty(t *testing.T) {
	src := "ply\nformat ascii 1.0\nelement vertex 0\nelement face 0\nend_header\n"
	if _, err := Decode(strings.NewReader(src)); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("error = %v, want ErrEmptyMesh", err)
	}
}

func testMesh() *mesh.Mesh {
	return mesh.New(mesh.Attributes{
		Positions: []geom.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0.5},
			{X: 0, Y: 1, Z: -0.25},
		},
		Normals: []geom.Vec3{
			{Z: 1}, {Z: 1}, {Z: 1},
		},
		Colors: [][4]uint8{
			{255, 0, 0, 255}, {0, 255, 0, 128}, {0, 0, 255, 255},
		},
	}, []uint32{0, 1, 2})
}

func TestEncodeDecodeASCII(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testMesh(), FormatASCII); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	m, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Fatalf("counts = %d/%d, want 3/1", m.VertexCount(), m.TriangleCount())
	}
	if m.Positions()[1] != (geom.Vec3{X: 1, Y: 0, Z: 0.5}) {
		t.Errorf("position[1] = %v", m.Positions()[1])
	}
	if m.Normals()[0] != (geom.Vec3{Z: 1}) {
		t.Errorf("normal[0] = %v", m.Normals()[0])
	}
	if m.Colors()[1] != [4]uint8{0, 255, 0, 128} {
		t.Errorf("color[1] = %v", m.Colors()[1])
	}
}

func TestEncodeDecodeBinary(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testMesh(), FormatBinaryLE); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	md, err := DecodeMetadata(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	if md.Format != FormatBinaryLE {
		t.Errorf("format = %s, want binary_little_endian", md.Format)
	}

	m, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Fatalf("counts = %d/%d, want 3/1", m.VertexCount(), m.TriangleCount())
	}
	if m.Positions()[2] != (geom.Vec3{X: 0, Y: 1, Z: -0.25}) {
		t.Errorf("position[2] = %v", m.Positions()[2])
	}
	if m.Colors()[0] != [4]uint8{255, 0, 0, 255} {
		t.Errorf("color[0] = %v", m.Colors()[0])
	}
}

func TestWriteReadFile(t *testing.T) {
	path := t.TempDir() + "/mesh.ply"
	if err := WriteFile(path, testMesh(), FormatASCII); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if m.TriangleCount() != 1 {
		t.Errorf("triangle count = %d, want 1", m.TriangleCount())
	}
	md, err := ReadFileMetadata(path)
	if err != nil {
		t.Fatalf("ReadFileMetadata: %v", err)
	}
	if !md.HasNormals || !md.HasColors {
		t.Errorf("metadata flags = %+v", md)
	}
}
