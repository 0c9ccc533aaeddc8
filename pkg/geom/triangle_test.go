package geom

import "testing"

func TestTriangleBounds(t *testing.T) {
	b := TriangleBounds(Vec3{0, 0, 0}, Vec3{2, 0, 1}, Vec3{1, 3, -1})
	want := NewBox(Vec3{0, 0, -1}, Vec3{2, 3, 1})
	if b != want {
		t.Errorf("TriangleBounds() = %+v, want %+v", b, want)
	}
}

func TestTriangleArea(t *testing.T) {
	got := TriangleArea(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 1, 0})
	if got != 0.5 {
		t.Errorf("TriangleArea() = %v, want 0.5", got)
	}
}

func TestOverlapsTriangle(t *testing.T) {
	box := NewBox(Vec3{0, 0, 0}, Vec3{1, 1, 1})

	// Vertex inside.
	if !box.OverlapsTriangle(Vec3{0.5, 0.5, 0.5}, Vec3{5, 5, 5}, Vec3{6, 5, 5}) {
		t.Error("triangle with a vertex inside must overlap")
	}

	// No vertex inside, but the triangle straddles the box.
	if !box.OverlapsTriangle(Vec3{-1, 0.5, 0.5}, Vec3{2, 0.5, 0.5}, Vec3{0.5, 2, 0.5}) {
		t.Error("straddling triangle must overlap")
	}

	// Fully outside.
	if box.OverlapsTriangle(Vec3{5, 5, 5}, Vec3{6, 5, 5}, Vec3{5, 6, 5}) {
		t.Error("distant triangle must not overlap")
	}
}
