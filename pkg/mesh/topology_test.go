package mesh

import (
	"testing"

	"github.com/tilekit/lodtree/pkg/geom"
)

func TestSubsetEmpty(t *testing.T) {
	m := quad()
	if !m.Subset(nil).Empty() {
		t.Error("Subset(nil) must be empty")
	}
	if !m.Subset([]uint32{}).Empty() {
		t.Error("Subset([]) must be empty")
	}
}

func TestSubsetAllTriangles(t *testing.T) {
	m := quad()
	sub := m.Subset([]uint32{0, 1})

	if sub.TriangleCount() != m.TriangleCount() {
		t.Errorf("TriangleCount() = %d, want %d", sub.TriangleCount(), m.TriangleCount())
	}
	if sub.VertexCount() != m.VertexCount() {
		t.Errorf("VertexCount() = %d, want %d", sub.VertexCount(), m.VertexCount())
	}
	if len(sub.Normals()) != len(m.Normals()) {
		t.Errorf("normals not carried: %d, want %d", len(sub.Normals()), len(m.Normals()))
	}
}

func TestSubsetRemapAscending(t *testing.T) {
	// Triangle 1 references vertices 0, 2, 3. The remap must be in
	// ascending original order, not order of first appearance, so the
	// new index stream references positions 0, 2, 3 as 0, 1, 2.
	m := New(Attributes{Positions: []geom.Vec3{
		{X: 10}, {X: 11}, {X: 12}, {X: 13},
	}}, []uint32{0, 1, 2, 3, 2, 0})

	sub := m.Subset([]uint32{1})

	if sub.VertexCount() != 3 {
		t.Fatalf("VertexCount() = %d, want 3", sub.VertexCount())
	}
	wantPos := []geom.Vec3{{X: 10}, {X: 12}, {X: 13}}
	for i, want := range wantPos {
		if sub.Positions()[i] != want {
			t.Errorf("position %d = %v, want %v (ascending original order)", i, sub.Positions()[i], want)
		}
	}
	wantIdx := []uint32{2, 1, 0} // old 3,2,0 -> new 2,1,0
	for i, want := range wantIdx {
		if sub.Indices()[i] != want {
			t.Errorf("index %d = %d, want %d", i, sub.Indices()[i], want)
		}
	}
}

func TestSubsetDropsOutOfRange(t *testing.T) {
	m := quad()
	sub := m.Subset([]uint32{0, 99})

	if sub.TriangleCount() != 1 {
		t.Errorf("out-of-range triangle index must be dropped silently, got %d triangles", sub.TriangleCount())
	}

	// A triangle referencing a vertex out of range is dropped as well.
	bad := New(Attributes{Positions: []geom.Vec3{{}, {X: 1}, {Y: 1}}}, []uint32{0, 1, 7})
	if got := bad.Subset([]uint32{0}); !got.Empty() {
		t.Errorf("triangle with out-of-range vertex must be dropped, got %d triangles", got.TriangleCount())
	}
}

func TestMergeEmpty(t *testing.T) {
	if !Merge(nil).Empty() {
		t.Error("Merge(nil) must be empty")
	}
	if !Merge([]*Mesh{}).Empty() {
		t.Error("Merge([]) must be empty")
	}
}

func TestMergeSingle(t *testing.T) {
	m := quad()
	if got := Merge([]*Mesh{m}); got != m {
		t.Error("Merge of a single mesh must return it unchanged")
	}
}

func TestMergeOffsets(t *testing.T) {
	m1 := quad()
	m2 := New(Attributes{Positions: []geom.Vec3{
		{X: 5}, {X: 6}, {X: 5, Y: 1},
	}}, []uint32{0, 1, 2})

	merged := Merge([]*Mesh{m1, m2})

	if merged.TriangleCount() != m1.TriangleCount()+m2.TriangleCount() {
		t.Errorf("TriangleCount() = %d, want %d", merged.TriangleCount(), m1.TriangleCount()+m2.TriangleCount())
	}
	if merged.VertexCount() != m1.VertexCount()+m2.VertexCount() {
		t.Errorf("VertexCount() = %d, want %d", merged.VertexCount(), m1.VertexCount()+m2.VertexCount())
	}

	// Every index contributed by m2 is offset by exactly m1.VertexCount().
	offset := uint32(m1.VertexCount())
	tail := merged.Indices()[len(m1.Indices()):]
	for i, idx := range tail {
		if idx != m2.Indices()[i]+offset {
			t.Errorf("m2 index %d = %d, want %d", i, idx, m2.Indices()[i]+offset)
		}
	}

	// Optional attributes are copied verbatim: m1 has normals, m2 does
	// not, and the merge does not reconcile the difference.
	if len(merged.Normals()) != len(m1.Normals()) {
		t.Errorf("merged normals length = %d, want %d (unreconciled)", len(merged.Normals()), len(m1.Normals()))
	}
}
