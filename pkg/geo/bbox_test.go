package geo

import (
	"testing"

	"github.com/tilekit/lodtree/pkg/geom"
)

func TestBBoxSubdivide(t *testing.T) {
	parent := NewBBox(100, 30, 120, 50)
	children := parent.Subdivide()

	if len(children) != 4 {
		t.Fatalf("Subdivide() returned %d children, want 4", len(children))
	}

	if children[SW] != NewBBox(100, 30, 110, 40) {
		t.Errorf("SW child = %+v, want (100,30,110,40)", children[SW])
	}
	if children[SE] != NewBBox(110, 30, 120, 40) {
		t.Errorf("SE child = %+v, want (110,30,120,40)", children[SE])
	}
	if children[NW] != NewBBox(100, 40, 110, 50) {
		t.Errorf("NW child = %+v, want (100,40,110,50)", children[NW])
	}
	if children[NE] != NewBBox(110, 40, 120, 50) {
		t.Errorf("NE child = %+v, want (110,40,120,50)", children[NE])
	}

	for i, c := range children {
		if c.Width() != parent.Width()/2 || c.Height() != parent.Height()/2 {
			t.Errorf("child %d is %vx%v, want exactly half the parent each way", i, c.Width(), c.Height())
		}
	}
}

func TestBBoxContainsBoundary(t *testing.T) {
	b := NewBBox(10, 20, 30, 40)

	if !b.Contains(10, 20) || !b.Contains(30, 40) {
		t.Error("boundary coordinates must count as contained")
	}
	if b.Contains(9.999, 30) {
		t.Error("exterior coordinate reported as contained")
	}
}

func TestBBoxIntersects(t *testing.T) {
	a := NewBBox(0, 0, 10, 10)

	if !a.Intersects(NewBBox(10, 0, 20, 10)) {
		t.Error("regions touching at an edge must intersect")
	}
	if a.Intersects(NewBBox(11, 0, 20, 10)) {
		t.Error("disjoint regions must not intersect")
	}
}

func TestBBoxIntersectionUnion(t *testing.T) {
	a := NewBBox(0, 0, 10, 10)
	b := NewBBox(5, 5, 15, 15)

	i := a.Intersection(b)
	if i != NewBBox(5, 5, 10, 10) {
		t.Errorf("Intersection() = %+v, want (5,5,10,10)", i)
	}

	u := a.Union(b)
	if u != NewBBox(0, 0, 15, 15) {
		t.Errorf("Union() = %+v, want (0,0,15,15)", u)
	}

	disjoint := a.Intersection(NewBBox(20, 20, 30, 30))
	if !disjoint.Empty() {
		t.Errorf("intersection of disjoint regions = %+v, want empty", disjoint)
	}
}

func TestBBoxEmpty(t *testing.T) {
	if NewBBox(0, 0, 10, 10).Empty() {
		t.Error("valid region reported empty")
	}
	if !NewBBox(10, 0, 10, 10).Empty() {
		t.Error("zero-width region must be empty")
	}
	if !(BBox{}).Empty() {
		t.Error("zero value must be empty")
	}
}

func TestBBoxOverlapsTriangle(t *testing.T) {
	b := NewBBox(0, 0, 10, 10)

	// Vertex inside.
	if !b.OverlapsTriangle(geom.Vec3{X: 5, Y: 5}, geom.Vec3{X: 50, Y: 50}, geom.Vec3{X: 60, Y: 50}) {
		t.Error("triangle with a vertex inside must overlap")
	}
	// Straddling, no vertex inside.
	if !b.OverlapsTriangle(geom.Vec3{X: -5, Y: 5}, geom.Vec3{X: 15, Y: 5}, geom.Vec3{X: 5, Y: 15}) {
		t.Error("straddling triangle must overlap")
	}
	// Outside.
	if b.OverlapsTriangle(geom.Vec3{X: 50, Y: 50}, geom.Vec3{X: 60, Y: 50}, geom.Vec3{X: 50, Y: 60}) {
		t.Error("distant triangle must not overlap")
	}
}

func TestFromBox(t *testing.T) {
	if got, ok := FromBox(geom.NewBox(geom.Vec3{X: 100, Y: 30}, geom.Vec3{X: 120, Y: 50, Z: 5})); !ok || got != NewBBox(100, 30, 120, 50) {
		t.Errorf("FromBox() = %+v, %v; want (100,30,120,50), true", got, ok)
	}
	if _, ok := FromBox(geom.NewBox(geom.Vec3{X: -500, Y: 0}, geom.Vec3{X: 500, Y: 10, Z: 1})); ok {
		t.Error("FromBox() must reject extents outside WGS84 degrees")
	}
}
