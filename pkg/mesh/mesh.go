// Package mesh provides an immutable triangle-mesh value type with the
// topology operations (subset, merge) used by LOD hierarchy construction.
package mesh

import "github.com/tilekit/lodtree/pkg/geom"

// Attributes holds per-vertex attribute arrays. Positions are mandatory;
// the other arrays are either empty or carry one entry per vertex.
type Attributes struct {
	Positions []geom.Vec3
	Normals   []geom.Vec3
	TexCoords [][2]float32
	Colors    [][4]uint8
}

// Mesh is an immutable indexed triangle mesh. Every consecutive triple
// in the index list is one triangle referencing positions by index.
// All transforms return a new Mesh; no in-place mutation exists.
type Mesh struct {
	attrs   Attributes
	indices []uint32
}

// New constructs a mesh from vertex attributes and a flat triangle-index
// list. The inputs are retained, not copied; callers hand over ownership.
func New(attrs Attributes, indices []uint32) *Mesh {
	return &Mesh{attrs: attrs, indices: indices}
}

// Positions returns the vertex positions. The slice is shared with the
// mesh and must not be modified.
func (m *Mesh) Positions() []geom.Vec3 { return m.attrs.Positions }

// Normals returns the per-vertex normals, if any.
func (m *Mesh) Normals() []geom.Vec3 { return m.attrs.Normals }

// TexCoords returns the per-vertex texture coordinates, if any.
func (m *Mesh) TexCoords() [][2]float32 { return m.attrs.TexCoords }

// Colors returns the per-vertex RGBA colors, if any.
func (m *Mesh) Colors() [][4]uint8 { return m.attrs.Colors }

// Indices returns the flat triangle-index list. The slice is shared with
// the mesh and must not be modified.
func (m *Mesh) Indices() []uint32 { return m.indices }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.attrs.Positions) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.indices) / 3 }

// Empty reports whether the mesh has no vertices or no triangles.
func (m *Mesh) Empty() bool {
	return len(m.attrs.Positions) == 0 || len(m.indices) == 0
}

// Triangle returns the vertex positions of triangle i. The caller must
// ensure i < TriangleCount() and that the triangle's indices are in
// range.
func (m *Mesh) Triangle(i int) (a, b, c geom.Vec3) {
	p := m.attrs.Positions
	return p[m.indices[i*3]], p[m.indices[i*3+1]], p[m.indices[i*3+2]]
}

// WithAttributes returns a new mesh sharing this mesh's indices.
func (m *Mesh) WithAttributes(attrs Attributes) *Mesh {
	return &Mesh{attrs: attrs, indices: m.indices}
}

// WithIndices returns a new mesh sharing this mesh's attributes.
func (m *Mesh) WithIndices(indices []uint32) *Mesh {
	return &Mesh{attrs: m.attrs, indices: indices}
}

// BoundingBox returns the axis-aligned bounding box of the vertex
// positions. The zero box is returned for a mesh without vertices.
func (m *Mesh) BoundingBox() geom.Box {
	return geom.BoxOf(m.attrs.Positions)
}
