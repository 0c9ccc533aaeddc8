package lod

import (
	"fmt"

	"github.com/tilekit/lodtree/pkg/geo"
	"github.com/tilekit/lodtree/pkg/geom"
	"github.com/tilekit/lodtree/pkg/mesh"
)

// Simplifier reduces a triangle index stream over a flat position buffer.
// It receives positions as x,y,z triplets with the given float stride,
// the current indices, the desired index count and an error tolerance,
// and returns a reduced index stream still addressing the ORIGINAL
// vertex buffer. It may stop short of the target when topology does not
// allow further reduction.
type Simplifier interface {
	Reduce(positions []float32, stride int, indices []uint32, targetIndexCount int, targetError float64) ([]uint32, error)
}

// Strategy decides how aggressively each level of a hierarchy is
// simplified and when a tile is subdivided further. Implementations are
// stateless and safe for concurrent use.
type Strategy interface {
	// TargetTriangleCount returns the triangle budget for a mesh stored
	// at the given level. Level 0 is the root, higher levels are finer.
	TargetTriangleCount(m *mesh.Mesh, level int) int

	// Simplify produces the mesh stored at the given level.
	Simplify(m *mesh.Mesh, level int, s Simplifier) (*mesh.Mesh, error)

	// ComputeError returns the geometric error of the simplified mesh
	// relative to the original it was derived from.
	ComputeError(original, simplified *mesh.Mesh) float64

	// ShouldSubdivideRegion reports whether a geographic tile at the
	// given level should be split into quadrants.
	ShouldSubdivideRegion(m *mesh.Mesh, region geo.BBox, level int) bool

	// ShouldSubdivideBox reports whether a Euclidean tile at the given
	// level should be split into octants.
	ShouldSubdivideBox(m *mesh.Mesh, box geom.Box, level int) bool
}

// flattenPositions lays the mesh positions out as the x,y,z triplet
// buffer simplifiers consume.
func flattenPositions(m *mesh.Mesh) []float32 {
	positions := m.Positions()
	flat := make([]float32, 0, len(positions)*3)
	for _, p := range positions {
		flat = append(flat, p.X, p.Y, p.Z)
	}
	return flat
}

// reduceMesh runs the simplifier toward targetTriangles and compacts the
// surviving vertices. Meshes already at or below the target are returned
// unchanged.
func reduceMesh(s Simplifier, m *mesh.Mesh, targetTriangles int, tolerance float64) (*mesh.Mesh, error) {
	if m.TriangleCount() <= targetTriangles {
		return m, nil
	}
	reduced, err := s.Reduce(flattenPositions(m), 3, m.Indices(), targetTriangles*3, tolerance)
	if err != nil {
		return nil, &ProcessingError{Op: "simplify", Err: err}
	}
	return compactSurvivors(m, reduced), nil
}

// compactSurvivors rebuilds a mesh from a reduced index stream that
// still addresses the original vertex buffer. Surviving vertices are
// kept in order of first appearance in the stream. Optional attributes
// are carried over at their original length; only positions are
// filtered down to the survivors.
func compactSurvivors(m *mesh.Mesh, reduced []uint32) *mesh.Mesh {
	positions := m.Positions()
	remap := make(map[uint32]uint32, len(reduced))
	compact := make([]geom.Vec3, 0, len(reduced))
	indices := make([]uint32, len(reduced))
	for i, old := range reduced {
		idx, ok := remap[old]
		if !ok {
			idx = uint32(len(compact))
			compact = append(compact, positions[old])
			remap[old] = idx
		}
		indices[i] = idx
	}
	attrs := mesh.Attributes{
		Positions: compact,
		Normals:   m.Normals(),
		TexCoords: m.TexCoords(),
		Colors:    m.Colors(),
	}
	return mesh.New(attrs, indices)
}

// triangleVertices returns the three corner positions of triangle t, or
// ok=false when an index is out of range.
func triangleVertices(m *mesh.Mesh, t int) (a, b, c geom.Vec3, ok bool) {
	indices := m.Indices()
	positions := m.Positions()
	n := uint32(len(positions))
	i0, i1, i2 := indices[t*3], indices[t*3+1], indices[t*3+2]
	if i0 >= n || i1 >= n || i2 >= n {
		return geom.Vec3{}, geom.Vec3{}, geom.Vec3{}, false
	}
	return positions[i0], positions[i1], positions[i2], true
}

// strategyName is used in log fields and error messages.
func strategyName(s Strategy) string {
	switch s.(type) {
	case *TriangleCountStrategy:
		return "triangle-count"
	case *ScreenSpaceErrorStrategy:
		return "screen-space-error"
	case *VolumeBasedStrategy:
		return "volume-based"
	default:
		return fmt.Sprintf("%T", s)
	}
}
