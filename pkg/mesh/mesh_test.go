package mesh

import (
	"testing"

	"github.com/tilekit/lodtree/pkg/geom"
)

// quad returns a 4-vertex, 2-triangle mesh in the XY plane.
func quad() *Mesh {
	return New(Attributes{
		Positions: []geom.Vec3{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
		},
		Normals: []geom.Vec3{
			{Z: 1}, {Z: 1}, {Z: 1}, {Z: 1},
		},
	}, []uint32{0, 1, 2, 0, 2, 3})
}

func TestMeshCounts(t *testing.T) {
	m := quad()
	if m.VertexCount() != 4 {
		t.Errorf("VertexCount() = %d, want 4", m.VertexCount())
	}
	if m.TriangleCount() != 2 {
		t.Errorf("TriangleCount() = %d, want 2", m.TriangleCount())
	}
	if m.Empty() {
		t.Error("quad mesh reported empty")
	}
}

func TestMeshEmpty(t *testing.T) {
	if !(&Mesh{}).Empty() {
		t.Error("zero mesh must be empty")
	}
	noIndices := New(Attributes{Positions: []geom.Vec3{{}}}, nil)
	if !noIndices.Empty() {
		t.Error("mesh without indices must be empty")
	}
	noVerts := New(Attributes{}, []uint32{0, 1, 2})
	if !noVerts.Empty() {
		t.Error("mesh without positions must be empty")
	}
}

func TestMeshTriangle(t *testing.T) {
	m := quad()
	a, b, c := m.Triangle(1)
	if a != (geom.Vec3{X: 0, Y: 0}) || b != (geom.Vec3{X: 1, Y: 1}) || c != (geom.Vec3{X: 0, Y: 1}) {
		t.Errorf("Triangle(1) = %v %v %v", a, b, c)
	}
}

func TestMeshBoundingBox(t *testing.T) {
	m := quad()
	want := geom.NewBox(geom.Vec3{}, geom.Vec3{X: 1, Y: 1})
	if got := m.BoundingBox(); got != want {
		t.Errorf("BoundingBox() = %+v, want %+v", got, want)
	}
}

func TestMeshWithIndices(t *testing.T) {
	m := quad()
	m2 := m.WithIndices([]uint32{0, 1, 2})

	if m2.TriangleCount() != 1 {
		t.Errorf("derived mesh has %d triangles, want 1", m2.TriangleCount())
	}
	if m.TriangleCount() != 2 {
		t.Error("WithIndices must not mutate the receiver")
	}
	if m2.VertexCount() != m.VertexCount() {
		t.Error("derived mesh must share the receiver's vertices")
	}
}

func TestComputeStats(t *testing.T) {
	m := quad()
	stats := ComputeStats(m)

	if stats.VertexCount != 4 || stats.TriangleCount != 2 {
		t.Errorf("stats counts = %d/%d, want 4/2", stats.VertexCount, stats.TriangleCount)
	}
	if stats.SurfaceArea < 0.999 || stats.SurfaceArea > 1.001 {
		t.Errorf("SurfaceArea = %v, want 1.0", stats.SurfaceArea)
	}

	if got := ComputeStats(&Mesh{}); got != (Stats{}) {
		t.Errorf("stats of empty mesh = %+v, want zero", got)
	}
}
