package mesh

import "github.com/tilekit/lodtree/pkg/geom"

// Stats summarizes a mesh.
type Stats struct {
	VertexCount   int
	TriangleCount int
	Bounds        geom.Box
	SurfaceArea   float32
}

// ComputeStats returns counts, bounds and total surface area. Triangles
// referencing vertices out of range are skipped.
func ComputeStats(m *Mesh) Stats {
	if m.Empty() {
		return Stats{}
	}

	stats := Stats{
		VertexCount:   m.VertexCount(),
		TriangleCount: m.TriangleCount(),
		Bounds:        m.BoundingBox(),
	}

	vertCount := uint32(m.VertexCount())
	for t := 0; t < m.TriangleCount(); t++ {
		i0, i1, i2 := m.indices[t*3], m.indices[t*3+1], m.indices[t*3+2]
		if i0 >= vertCount || i1 >= vertCount || i2 >= vertCount {
			continue
		}
		a, b, c := m.Triangle(t)
		stats.SurfaceArea += geom.TriangleArea(a, b, c)
	}
	return stats
}
