package geom

// TriangleBounds returns the axis-aligned bounding box of a triangle.
func TriangleBounds(a, b, c Vec3) Box {
	return Box{
		Min: a.Min(b).Min(c),
		Max: a.Max(b).Max(c),
	}
}

// TriangleArea returns the area of the triangle a-b-c.
func TriangleArea(a, b, c Vec3) float32 {
	return b.Sub(a).Cross(c.Sub(a)).Length() * 0.5
}

// OverlapsTriangle is a conservative triangle/box intersection test:
// true when any triangle vertex lies inside the box or the triangle's
// bounding box overlaps the box. The vertex test is subsumed by the
// bounding-box test, so a single box/box check suffices. The test can
// report true for triangles that merely pass near a corner; spatial
// filtering relies on this over-approximation to never lose a triangle.
func (bx Box) OverlapsTriangle(a, b, c Vec3) bool {
	return bx.Intersects(TriangleBounds(a, b, c))
}
