package lod

import (
	"math"

	"github.com/tilekit/lodtree/pkg/geo"
	"github.com/tilekit/lodtree/pkg/geom"
	"github.com/tilekit/lodtree/pkg/mesh"
)

const (
	// triangleCountFloor is the minimum triangle budget per tile.
	triangleCountFloor = 100

	// triangleCountMaxLevel caps subdivision depth regardless of the
	// build's configured maximum.
	triangleCountMaxLevel = 8

	// triangleCountTolerance is the relative error given to the
	// simplifier.
	triangleCountTolerance = 0.01
)

// TriangleCountStrategy halves the triangle budget geometrically per
// level and subdivides any tile still over its per-tile limit.
type TriangleCountStrategy struct {
	// MaxTrianglesPerTile is the subdivision trigger; tiles above it
	// split until the level cap.
	MaxTrianglesPerTile int

	// ReductionRatio is the per-level budget multiplier in (0,1).
	ReductionRatio float64
}

// NewTriangleCountStrategy returns the strategy with default limits.
func NewTriangleCountStrategy() *TriangleCountStrategy {
	return &TriangleCountStrategy{
		MaxTrianglesPerTile: 50000,
		ReductionRatio:      0.5,
	}
}

func (s *TriangleCountStrategy) TargetTriangleCount(m *mesh.Mesh, level int) int {
	target := int(float64(m.TriangleCount()) * math.Pow(s.ReductionRatio, float64(level)))
	return max(target, triangleCountFloor)
}

func (s *TriangleCountStrategy) Simplify(m *mesh.Mesh, level int, simp Simplifier) (*mesh.Mesh, error) {
	if m.Empty() {
		return nil, &ProcessingError{Op: "simplify", Err: ErrEmptyMesh}
	}
	return reduceMesh(simp, m, s.TargetTriangleCount(m, level), triangleCountTolerance)
}

// ComputeError reports how much of the original triangle count was
// removed, as a percentage.
func (s *TriangleCountStrategy) ComputeError(original, simplified *mesh.Mesh) float64 {
	if original.TriangleCount() == 0 {
		return 0
	}
	ratio := 1 - float64(simplified.TriangleCount())/float64(original.TriangleCount())
	return ratio * 100
}

func (s *TriangleCountStrategy) ShouldSubdivideRegion(m *mesh.Mesh, region geo.BBox, level int) bool {
	return m.TriangleCount() > s.MaxTrianglesPerTile && level < triangleCountMaxLevel
}

func (s *TriangleCountStrategy) ShouldSubdivideBox(m *mesh.Mesh, box geom.Box, level int) bool {
	return m.TriangleCount() > s.MaxTrianglesPerTile && level < triangleCountMaxLevel
}
