package lod

import (
	"math"

	"github.com/tilekit/lodtree/pkg/geo"
	"github.com/tilekit/lodtree/pkg/geom"
	"github.com/tilekit/lodtree/pkg/mesh"
)

const (
	// volumeFloor is the minimum triangle budget per tile.
	volumeFloor = 10

	// volumeMaxLevel caps subdivision depth.
	volumeMaxLevel = 8

	// volumeTolerance is the relative error given to the simplifier on
	// the budget-driven path.
	volumeTolerance = 0.01
)

// VolumeBasedStrategy subdivides dense Euclidean regions by bounding
// volume and optionally drops triangles below a minimum area instead of
// running the simplifier. Geographic regions are never subdivided;
// volume has no meaning on a lon/lat rectangle.
type VolumeBasedStrategy struct {
	// VolumeThreshold is the bound volume below which subdivision
	// stops.
	VolumeThreshold float64

	// ReductionRatio is the per-level budget multiplier in (0,1).
	ReductionRatio float64

	// AreaThreshold, when positive, switches Simplify to the filtering
	// path: triangles with area below it are dropped outright.
	AreaThreshold float32
}

// NewVolumeBasedStrategy returns the strategy with default limits and
// the filtering path disabled.
func NewVolumeBasedStrategy() *VolumeBasedStrategy {
	return &VolumeBasedStrategy{
		VolumeThreshold: 0.001,
		ReductionRatio:  0.5,
	}
}

func (s *VolumeBasedStrategy) TargetTriangleCount(m *mesh.Mesh, level int) int {
	target := int(float64(m.TriangleCount()) * math.Pow(s.ReductionRatio, float64(level)))
	return max(target, volumeFloor)
}

// Simplify either filters out triangles below AreaThreshold or, when no
// threshold is set, reduces toward the per-level budget. Filtering that
// leaves no triangles at all is a failure, not an empty mesh.
func (s *VolumeBasedStrategy) Simplify(m *mesh.Mesh, level int, simp Simplifier) (*mesh.Mesh, error) {
	if m.Empty() {
		return nil, &ProcessingError{Op: "simplify", Err: ErrEmptyMesh}
	}
	if s.AreaThreshold <= 0 {
		return reduceMesh(simp, m, s.TargetTriangleCount(m, level), volumeTolerance)
	}

	indices := m.Indices()
	filtered := make([]uint32, 0, len(indices))
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c, ok := triangleVertices(m, t)
		if !ok {
			continue
		}
		if geom.TriangleArea(a, b, c) >= s.AreaThreshold {
			filtered = append(filtered, indices[t*3], indices[t*3+1], indices[t*3+2])
		}
	}
	if len(filtered) == 0 {
		return nil, &ProcessingError{Op: "simplify", Err: ErrEmptyResult}
	}
	return compactSurvivors(m, filtered), nil
}

// ComputeError is the relative bounding-box volume change as a
// percentage.
func (s *VolumeBasedStrategy) ComputeError(original, simplified *mesh.Mesh) float64 {
	originalVolume := float64(original.BoundingBox().Volume())
	simplifiedVolume := float64(simplified.BoundingBox().Volume())
	if originalVolume == 0 {
		return 0
	}
	return math.Abs(originalVolume-simplifiedVolume) / originalVolume * 100
}

func (s *VolumeBasedStrategy) ShouldSubdivideRegion(m *mesh.Mesh, region geo.BBox, level int) bool {
	return false
}

func (s *VolumeBasedStrategy) ShouldSubdivideBox(m *mesh.Mesh, box geom.Box, level int) bool {
	return float64(box.Volume()) > s.VolumeThreshold && level < volumeMaxLevel
}
