package geom

// Box is an axis-aligned bounding box in Euclidean space.
// A box is empty when min >= max on any axis. Boxes are immutable values;
// every operation returns a new Box.
type Box struct {
	Min, Max Vec3
}

// NewBox returns the box spanning min..max.
func NewBox(min, max Vec3) Box {
	return Box{Min: min, Max: max}
}

// BoxOf returns the axis-aligned bounding box of a point set.
// The zero Box is returned for an empty set.
func BoxOf(points []Vec3) Box {
	if len(points) == 0 {
		return Box{}
	}
	b := Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Size returns the extent along each axis.
func (b Box) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint.
func (b Box) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Volume returns the enclosed volume.
func (b Box) Volume() float32 {
	s := b.Size()
	return s.X * s.Y * s.Z
}

// MaxExtent returns the largest axis extent.
func (b Box) MaxExtent() float32 {
	s := b.Size()
	return max(s.X, s.Y, s.Z)
}

// Empty reports whether the box encloses no volume (min >= max on any axis).
func (b Box) Empty() bool {
	return b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y || b.Min.Z >= b.Max.Z
}

// Contains reports whether p lies inside the box. Boundary points count
// as contained.
func (b Box) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersects reports whether the two boxes overlap. Boxes touching at a
// single coordinate count as intersecting.
func (b Box) Intersects(other Box) bool {
	return !(b.Max.X < other.Min.X || b.Min.X > other.Max.X ||
		b.Max.Y < other.Min.Y || b.Min.Y > other.Max.Y ||
		b.Max.Z < other.Min.Z || b.Min.Z > other.Max.Z)
}

// Intersection returns the overlapping region. The result may be empty;
// callers must check Empty().
func (b Box) Intersection(other Box) Box {
	return Box{
		Min: b.Min.Max(other.Min),
		Max: b.Max.Min(other.Max),
	}
}

// Union returns the smallest box enclosing both.
func (b Box) Union(other Box) Box {
	return Box{
		Min: b.Min.Min(other.Min),
		Max: b.Max.Max(other.Max),
	}
}

// Subdivide splits the box at the midpoint of every axis into 8 equal
// octants. Octant i has the high half of the X axis when bit 0 of i is
// set, of the Y axis for bit 1, and of the Z axis for bit 2. The order
// depends only on geometry; downstream consumers rely on it for
// deterministic node numbering.
func (b Box) Subdivide() []Box {
	c := b.Center()
	children := make([]Box, 8)
	for i := range children {
		child := Box{Min: b.Min, Max: c}
		if i&1 != 0 {
			child.Min.X, child.Max.X = c.X, b.Max.X
		}
		if i&2 != 0 {
			child.Min.Y, child.Max.Y = c.Y, b.Max.Y
		}
		if i&4 != 0 {
			child.Min.Z, child.Max.Z = c.Z, b.Max.Z
		}
		children[i] = child
	}
	return children
}
