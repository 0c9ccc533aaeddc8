// Package ply reads and writes Stanford PLY meshes, in ASCII and
// little-endian binary form.
package ply

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tilekit/lodtree/pkg/geom"
	"github.com/tilekit/lodtree/pkg/mesh"
)

// PLY format errors.
var (
	ErrInvalidHeader     = errors.New("invalid PLY header: expected 'ply'")
	ErrUnsupportedFormat = errors.New("unsupported PLY format")
	ErrTruncatedData     = errors.New("truncated PLY data")
	ErrEmptyMesh         = errors.New("PLY file contains no geometry")
)

// Format identifies the PLY body encoding.
type Format string

const (
	FormatASCII    Format = "ascii"
	FormatBinaryLE Format = "binary_little_endian"
	FormatBinaryBE Format = "binary_big_endian"
)

// Metadata describes a PLY file without loading its geometry.
type Metadata struct {
	Format       Format
	VertexCount  int
	FaceCount    int
	HasNormals   bool
	HasColors    bool
	HasTexCoords bool
}

// property is one per-vertex scalar in declaration order.
type property struct {
	name string
	typ  string
}

// header is the fully parsed PLY preamble.
type header struct {
	Metadata
	vertexProps []property
	faceCount   string // list count type, e.g. "uchar"
	faceIndex   string // list element type, e.g. "int"
}

var typeSizes = map[string]int{
	"char": 1, "int8": 1, "uchar": 1, "uint8": 1,
	"short": 2, "int16": 2, "ushort": 2, "uint16": 2,
	"int": 4, "int32": 4, "uint": 4, "uint32": 4,
	"float": 4, "float32": 4,
	"double": 8, "float64": 8,
}

// DecodeMetadata parses only the header.
func DecodeMetadata(r io.Reader) (Metadata, error) {
	h, err := parseHeader(bufio.NewReader(r))
	if err != nil {
		return Metadata{}, err
	}
	return h.Metadata, nil
}

// Decode parses a full PLY mesh. Faces with more than three vertices
// are fan-triangulated.
func Decode(r io.Reader) (*mesh.Mesh, error) {
	br := bufio.NewReader(r)
	h, err := parseHeader(br)
	if err != nil {
		return nil, err
	}
	if h.VertexCount == 0 || h.FaceCount == 0 {
		return nil, ErrEmptyMesh
	}

	var attrs mesh.Attributes
	var indices []uint32
	switch h.Format {
	case FormatASCII:
		attrs, err = readVerticesASCII(br, h)
		if err != nil {
			return nil, err
		}
		indices, err = readFacesASCII(br, h)
	case FormatBinaryLE:
		attrs, err = readVerticesBinary(br, h)
		if err != nil {
			return nil, err
		}
		indices, err = readFacesBinary(br, h)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, h.Format)
	}
	if err != nil {
		return nil, err
	}
	return mesh.New(attrs, indices), nil
}

// ReadFile loads a PLY mesh from disk.
func ReadFile(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// ReadFileMetadata probes a PLY file on disk without loading geometry.
func ReadFileMetadata(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()
	return DecodeMetadata(f)
}

func parseHeader(br *bufio.Reader) (*header, error) {
	line, err := readLine(br)
	if err != nil || line != "ply" {
		return nil, ErrInvalidHeader
	}

	h := &header{faceCount: "uchar", faceIndex: "int"}
	inVertexElement := false
	for {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("%w: header not terminated", ErrTruncatedData)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return nil, ErrInvalidHeader
			}
			h.Format = Format(fields[1])
		case "comment", "obj_info":
		case "element":
			if len(fields) < 3 {
				return nil, ErrInvalidHeader
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("%w: bad element count %q", ErrInvalidHeader, fields[2])
			}
			switch fields[1] {
			case "vertex":
				h.VertexCount = count
				inVertexElement = true
			case "face":
				h.FaceCount = count
				inVertexElement = false
			default:
				inVertexElement = false
			}
		case "property":
			if len(fields) >= 5 && fields[1] == "list" {
				h.faceCount = fields[2]
				h.faceIndex = fields[3]
				continue
			}
			if len(fields) < 3 || !inVertexElement {
				continue
			}
			typ, name := fields[1], fields[2]
			h.vertexProps = append(h.vertexProps, property{name: name, typ: typ})
			switch name {
			case "nx", "ny", "nz":
				h.HasNormals = true
			case "red", "green", "blue", "alpha":
				h.HasColors = true
			case "u", "v", "s", "t":
				h.HasTexCoords = true
			}
		case "end_header":
			if h.Format == "" {
				return nil, ErrInvalidHeader
			}
			return h, nil
		}
	}
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// vertexAccum collects one vertex worth of scalars by property name.
type vertexAccum struct {
	pos   geom.Vec3
	norm  geom.Vec3
	color [4]uint8
	uv    [2]float32
}

func (v *vertexAccum) set(name string, value float64) {
	switch name {
	case "x":
		v.pos.X = float32(value)
	case "y":
		v.pos.Y = float32(value)
	case "z":
		v.pos.Z = float32(value)
	case "nx":
		v.norm.X = float32(value)
	case "ny":
		v.norm.Y = float32(value)
	case "nz":
		v.norm.Z = float32(value)
	case "red":
		v.color[0] = uint8(value)
	case "green":
		v.color[1] = uint8(value)
	case "blue":
		v.color[2] = uint8(value)
	case "alpha":
		v.color[3] = uint8(value)
	case "u", "s":
		v.uv[0] = float32(value)
	case "v", "t":
		v.uv[1] = float32(value)
	}
}

func appendVertex(attrs *mesh.Attributes, h *header, v vertexAccum, sawAlpha bool) {
	attrs.Positions = append(attrs.Positions, v.pos)
	if h.HasNormals {
		attrs.Normals = append(attrs.Normals, v.norm)
	}
	if h.HasColors {
		if !sawAlpha {
			v.color[3] = 255
		}
		attrs.Colors = append(attrs.Colors, v.color)
	}
	if h.HasTexCoords {
		attrs.TexCoords = append(attrs.TexCoords, v.uv)
	}
}

func hasProp(h *header, name string) bool {
	for _, p := range h.vertexProps {
		if p.name == name {
			return true
		}
	}
	return false
}

func readVerticesASCII(br *bufio.Reader, h *header) (mesh.Attributes, error) {
	var attrs mesh.Attributes
	attrs.Positions = make([]geom.Vec3, 0, h.VertexCount)
	sawAlpha := hasProp(h, "alpha")
	for i := 0; i < h.VertexCount; i++ {
		line, err := readLine(br)
		if err != nil {
			return attrs, fmt.Errorf("%w: vertex %d", ErrTruncatedData, i)
		}
		fields := strings.Fields(line)
		if len(fields) < len(h.vertexProps) {
			return attrs, fmt.Errorf("%w: vertex %d has %d values, want %d",
				ErrTruncatedData, i, len(fields), len(h.vertexProps))
		}
		var v vertexAccum
		for j, p := range h.vertexProps {
			value, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return attrs, fmt.Errorf("%w: vertex %d field %s", ErrTruncatedData, i, p.name)
			}
			v.set(p.name, value)
		}
		appendVertex(&attrs, h, v, sawAlpha)
	}
	return attrs, nil
}

func readFacesASCII(br *bufio.Reader, h *header) ([]uint32, error) {
	indices := make([]uint32, 0, h.FaceCount*3)
	for i := 0; i < h.FaceCount; i++ {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("%w: face %d", ErrTruncatedData, i)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: face %d", ErrTruncatedData, i)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || len(fields) < 1+n {
			return nil, fmt.Errorf("%w: face %d", ErrTruncatedData, i)
		}
		face := make([]uint32, n)
		for j := 0; j < n; j++ {
			idx, err := strconv.ParseUint(fields[1+j], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: face %d index %d", ErrTruncatedData, i, j)
			}
			face[j] = uint32(idx)
		}
		indices = appendTriangulated(indices, face)
	}
	return indices, nil
}

// appendTriangulated fan-triangulates a polygon around its first vertex.
func appendTriangulated(indices []uint32, face []uint32) []uint32 {
	for j := 1; j+1 < len(face); j++ {
		indices = append(indices, face[0], face[j], face[j+1])
	}
	return indices
}

func readScalar(br *bufio.Reader, typ string) (float64, error) {
	size, ok := typeSizes[typ]
	if !ok {
		return 0, fmt.Errorf("%w: property type %s", ErrUnsupportedFormat, typ)
	}
	var buf [8]byte
	if _, err := io.ReadFull(br, buf[:size]); err != nil {
		return 0, ErrTruncatedData
	}
	switch typ {
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	case "short", "int16":
		return float64(int16(binary.LittleEndian.Uint16(buf[:2]))), nil
	case "ushort", "uint16":
		return float64(binary.LittleEndian.Uint16(buf[:2])), nil
	case "int", "int32":
		return float64(int32(binary.LittleEndian.Uint32(buf[:4]))), nil
	case "uint", "uint32":
		return float64(binary.LittleEndian.Uint32(buf[:4])), nil
	case "float", "float32":
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[:4]))), nil
	default: // double, float64
		return math.Float64frombits(binary.LittleEndian.Uint64(buf[:8])), nil
	}
}

func readVerticesBinary(br *bufio.Reader, h *header) (mesh.Attributes, error) {
	var attrs mesh.Attributes
	attrs.Positions = make([]geom.Vec3, 0, h.VertexCount)
	sawAlpha := hasProp(h, "alpha")
	for i := 0; i < h.VertexCount; i++ {
		var v vertexAccum
		for _, p := range h.vertexProps {
			value, err := readScalar(br, p.typ)
			if err != nil {
				return attrs, fmt.Errorf("%w: vertex %d", err, i)
			}
			v.set(p.name, value)
		}
		appendVertex(&attrs, h, v, sawAlpha)
	}
	return attrs, nil
}

func readFacesBinary(br *bufio.Reader, h *header) ([]uint32, error) {
	indices := make([]uint32, 0, h.FaceCount*3)
	for i := 0; i < h.FaceCount; i++ {
		count, err := readScalar(br, h.faceCount)
		if err != nil {
			return nil, fmt.Errorf("%w: face %d", err, i)
		}
		n := int(count)
		face := make([]uint32, n)
		for j := 0; j < n; j++ {
			idx, err := readScalar(br, h.faceIndex)
			if err != nil {
				return nil, fmt.Errorf("%w: face %d index %d", err, i, j)
			}
			face[j] = uint32(idx)
		}
		indices = appendTriangulated(indices, face)
	}
	return indices, nil
}
