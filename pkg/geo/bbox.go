// Package geo provides WGS84 geographic primitives: longitude/latitude
// bounding boxes with quadtree subdivision, and point helpers.
package geo

import "github.com/tilekit/lodtree/pkg/geom"

// Subdivision child order.
const (
	SW = 0
	SE = 1
	NW = 2
	NE = 3
)

// BBox is an axis-aligned region in WGS84 longitude/latitude degrees.
// A region is empty when min >= max on either axis. Regions are immutable
// values; every operation returns a new BBox.
type BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// NewBBox returns the region spanning the given corners.
func NewBBox(minLon, minLat, maxLon, maxLat float64) BBox {
	return BBox{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat}
}

// Width returns the longitude span in degrees.
func (b BBox) Width() float64 { return b.MaxLon - b.MinLon }

// Height returns the latitude span in degrees.
func (b BBox) Height() float64 { return b.MaxLat - b.MinLat }

// Center returns the midpoint (lon, lat).
func (b BBox) Center() (lon, lat float64) {
	return (b.MinLon + b.MaxLon) * 0.5, (b.MinLat + b.MaxLat) * 0.5
}

// Empty reports whether the region encloses no area.
func (b BBox) Empty() bool {
	return b.MinLon >= b.MaxLon || b.MinLat >= b.MaxLat
}

// Contains reports whether the coordinate lies inside the region.
// Boundary coordinates count as contained.
func (b BBox) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon &&
		lat >= b.MinLat && lat <= b.MaxLat
}

// Intersects reports whether the two regions overlap. Regions touching
// at a single coordinate count as intersecting.
func (b BBox) Intersects(other BBox) bool {
	return !(b.MaxLon < other.MinLon || b.MinLon > other.MaxLon ||
		b.MaxLat < other.MinLat || b.MinLat > other.MaxLat)
}

// Intersection returns the overlapping region. The result may be empty;
// callers must check Empty().
func (b BBox) Intersection(other BBox) BBox {
	return BBox{
		MinLon: max(b.MinLon, other.MinLon),
		MinLat: max(b.MinLat, other.MinLat),
		MaxLon: min(b.MaxLon, other.MaxLon),
		MaxLat: min(b.MaxLat, other.MaxLat),
	}
}

// Union returns the smallest region enclosing both.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		MinLon: min(b.MinLon, other.MinLon),
		MinLat: min(b.MinLat, other.MinLat),
		MaxLon: max(b.MaxLon, other.MaxLon),
		MaxLat: max(b.MaxLat, other.MaxLat),
	}
}

// Subdivide splits the region at the midpoint of both axes into 4 equal
// quadrants in SW, SE, NW, NE order. The order depends only on geometry;
// downstream consumers rely on it for deterministic node numbering.
func (b BBox) Subdivide() []BBox {
	midLon, midLat := b.Center()
	return []BBox{
		{b.MinLon, b.MinLat, midLon, midLat}, // SW
		{midLon, b.MinLat, b.MaxLon, midLat}, // SE
		{b.MinLon, midLat, midLon, b.MaxLat}, // NW
		{midLon, midLat, b.MaxLon, b.MaxLat}, // NE
	}
}

// OverlapsTriangle is the geographic counterpart of the conservative
// Euclidean triangle/box test: vertex X is read as longitude and Y as
// latitude, and the triangle overlaps when any vertex is contained or
// its 2D bounding box intersects the region.
func (b BBox) OverlapsTriangle(p0, p1, p2 geom.Vec3) bool {
	tri := BBox{
		MinLon: float64(min(p0.X, p1.X, p2.X)),
		MinLat: float64(min(p0.Y, p1.Y, p2.Y)),
		MaxLon: float64(max(p0.X, p1.X, p2.X)),
		MaxLat: float64(max(p0.Y, p1.Y, p2.Y)),
	}
	return b.Intersects(tri)
}

// FromBox interprets a Euclidean bounding box as a geographic region
// (X as longitude, Y as latitude). It reports false when the extents
// cannot be WGS84 degrees.
func FromBox(box geom.Box) (BBox, bool) {
	b := BBox{
		MinLon: float64(box.Min.X),
		MinLat: float64(box.Min.Y),
		MaxLon: float64(box.Max.X),
		MaxLat: float64(box.Max.Y),
	}
	if b.MinLon < -180 || b.MaxLon > 180 || b.MinLat < -90 || b.MaxLat > 90 {
		return BBox{}, false
	}
	return b, true
}
