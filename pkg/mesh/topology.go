package mesh

import (
	"sort"

	"github.com/tilekit/lodtree/pkg/geom"
)

// Subset extracts the triangles named by triangleIndices into a new
// mesh. Referenced vertices are remapped to a dense 0..k-1 range in
// ascending original-index order, which keeps output numbering
// reproducible. Triangle indices out of range, and triangles referencing
// vertices out of range, are silently dropped.
func (m *Mesh) Subset(triangleIndices []uint32) *Mesh {
	if len(triangleIndices) == 0 || len(m.indices) == 0 {
		return &Mesh{}
	}

	triCount := uint32(m.TriangleCount())
	vertCount := uint32(m.VertexCount())

	used := make(map[uint32]struct{})
	for _, t := range triangleIndices {
		if t >= triCount {
			continue
		}
		for k := uint32(0); k < 3; k++ {
			if v := m.indices[t*3+k]; v < vertCount {
				used[v] = struct{}{}
			}
		}
	}

	// Dense remap in ascending original-index order.
	ordered := make([]uint32, 0, len(used))
	for v := range used {
		ordered = append(ordered, v)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	remap := make(map[uint32]uint32, len(ordered))
	attrs := Attributes{Positions: make([]geom.Vec3, 0, len(ordered))}
	for newIdx, oldIdx := range ordered {
		remap[oldIdx] = uint32(newIdx)
		attrs.Positions = append(attrs.Positions, m.attrs.Positions[oldIdx])
		if int(oldIdx) < len(m.attrs.Normals) {
			attrs.Normals = append(attrs.Normals, m.attrs.Normals[oldIdx])
		}
		if int(oldIdx) < len(m.attrs.TexCoords) {
			attrs.TexCoords = append(attrs.TexCoords, m.attrs.TexCoords[oldIdx])
		}
		if int(oldIdx) < len(m.attrs.Colors) {
			attrs.Colors = append(attrs.Colors, m.attrs.Colors[oldIdx])
		}
	}

	indices := make([]uint32, 0, len(triangleIndices)*3)
	for _, t := range triangleIndices {
		if t >= triCount {
			continue
		}
		i0, ok0 := remap[m.indices[t*3]]
		i1, ok1 := remap[m.indices[t*3+1]]
		i2, ok2 := remap[m.indices[t*3+2]]
		if ok0 && ok1 && ok2 {
			indices = append(indices, i0, i1, i2)
		}
	}

	return &Mesh{attrs: attrs, indices: indices}
}

// Merge concatenates the inputs into a single mesh, offsetting each
// input's triangle indices by the cumulative vertex count of preceding
// inputs. Optional attributes are copied verbatim per input; differing
// presence across inputs is not reconciled, so attribute arrays of the
// result can be shorter than its vertex count.
func Merge(meshes []*Mesh) *Mesh {
	if len(meshes) == 0 {
		return &Mesh{}
	}
	if len(meshes) == 1 {
		return meshes[0]
	}

	var totalVerts, totalIndices int
	for _, m := range meshes {
		totalVerts += m.VertexCount()
		totalIndices += len(m.indices)
	}

	attrs := Attributes{Positions: make([]geom.Vec3, 0, totalVerts)}
	indices := make([]uint32, 0, totalIndices)

	var offset uint32
	for _, m := range meshes {
		attrs.Positions = append(attrs.Positions, m.attrs.Positions...)
		attrs.Normals = append(attrs.Normals, m.attrs.Normals...)
		attrs.TexCoords = append(attrs.TexCoords, m.attrs.TexCoords...)
		attrs.Colors = append(attrs.Colors, m.attrs.Colors...)

		for _, idx := range m.indices {
			indices = append(indices, idx+offset)
		}
		offset += uint32(m.VertexCount())
	}

	return &Mesh{attrs: attrs, indices: indices}
}
