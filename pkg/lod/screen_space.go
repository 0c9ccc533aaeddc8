package lod

import (
	"math"

	"github.com/tilekit/lodtree/pkg/geo"
	"github.com/tilekit/lodtree/pkg/geom"
	"github.com/tilekit/lodtree/pkg/mesh"
)

const (
	// screenSpaceFloor is the minimum triangle budget per tile.
	screenSpaceFloor = 50

	// screenSpaceMaxLevel caps subdivision depth.
	screenSpaceMaxLevel = 10

	// screenSpaceMinRegionDeg stops geographic subdivision below this
	// region extent in degrees, roughly one kilometer.
	screenSpaceMinRegionDeg = 0.01

	// screenSpaceMinExtent stops Euclidean subdivision below this
	// extent in mesh units.
	screenSpaceMinExtent = 1.0
)

// ScreenSpaceErrorStrategy drives simplification by an error tolerance
// derived from the mesh's bounding-box diagonal instead of a fixed
// triangle budget.
type ScreenSpaceErrorStrategy struct {
	// MaxError is the maximum tolerated screen-space error in pixels.
	MaxError float64
}

// NewScreenSpaceErrorStrategy returns the strategy with the common
// 16-pixel error budget.
func NewScreenSpaceErrorStrategy() *ScreenSpaceErrorStrategy {
	return &ScreenSpaceErrorStrategy{MaxError: 16.0}
}

func (s *ScreenSpaceErrorStrategy) TargetTriangleCount(m *mesh.Mesh, level int) int {
	target := int(float64(m.TriangleCount()) / math.Pow(2, float64(level)))
	return max(target, screenSpaceFloor)
}

// Simplify reduces toward the per-level budget under an error tolerance
// scaled by the bounding-box diagonal, so the same pixel budget means
// the same relative fidelity at any mesh scale.
func (s *ScreenSpaceErrorStrategy) Simplify(m *mesh.Mesh, level int, simp Simplifier) (*mesh.Mesh, error) {
	if m.Empty() {
		return nil, &ProcessingError{Op: "simplify", Err: ErrEmptyMesh}
	}
	size := m.BoundingBox().Size()
	diagonal := math.Sqrt(float64(size.X*size.X + size.Y*size.Y + size.Z*size.Z))
	tolerance := s.MaxError * diagonal / 1000
	return reduceMesh(simp, m, s.TargetTriangleCount(m, level), tolerance)
}

// ComputeError is the largest absolute bounding-box extent change,
// scaled by the configured error budget.
func (s *ScreenSpaceErrorStrategy) ComputeError(original, simplified *mesh.Mesh) float64 {
	if original.TriangleCount() == 0 {
		return 0
	}
	osz := original.BoundingBox().Size()
	ssz := simplified.BoundingBox().Size()
	maxDiff := math.Abs(float64(osz.X - ssz.X))
	maxDiff = math.Max(maxDiff, math.Abs(float64(osz.Y-ssz.Y)))
	maxDiff = math.Max(maxDiff, math.Abs(float64(osz.Z-ssz.Z)))
	return maxDiff * s.MaxError
}

func (s *ScreenSpaceErrorStrategy) ShouldSubdivideRegion(m *mesh.Mesh, region geo.BBox, level int) bool {
	return math.Max(region.Width(), region.Height()) > screenSpaceMinRegionDeg && level < screenSpaceMaxLevel
}

func (s *ScreenSpaceErrorStrategy) ShouldSubdivideBox(m *mesh.Mesh, box geom.Box, level int) bool {
	return float64(box.MaxExtent()) > screenSpaceMinExtent && level < screenSpaceMaxLevel
}
