package lod

import (
	"github.com/tilekit/lodtree/pkg/geom"
	"github.com/tilekit/lodtree/pkg/mesh"
)

// OctreeConfig bounds octree construction.
type OctreeConfig struct {
	// MaxTrianglesPerNode stops subdivision once a node holds this many
	// triangles or fewer.
	MaxTrianglesPerNode int `yaml:"max_triangles_per_node"`

	// MaxDepth stops subdivision at this depth.
	MaxDepth int `yaml:"max_depth"`

	// MinNodeSize stops subdivision once a node's volume drops below
	// MinNodeSize cubed.
	MinNodeSize float64 `yaml:"min_node_size"`
}

// DefaultOctreeConfig returns the limits used when none are configured.
func DefaultOctreeConfig() OctreeConfig {
	return OctreeConfig{
		MaxTrianglesPerNode: 1000,
		MaxDepth:            8,
		MinNodeSize:         0.001,
	}
}

// OctreeNode is one cell of a triangle octree. Triangles live only at
// leaves; an internal node's Triangles slice is empty. A triangle whose
// bounding box straddles a split plane is assigned to every child it
// overlaps, so the leaves form a covering of the triangle set, not a
// partition.
type OctreeNode struct {
	Bounds    geom.Box
	Triangles []uint32
	Children  [8]*OctreeNode
	Depth     int
}

// IsLeaf reports whether the node has no children.
func (n *OctreeNode) IsLeaf() bool {
	for _, c := range n.Children {
		if c != nil {
			return false
		}
	}
	return true
}

// WalkOctree visits every node depth-first, parent before children,
// children in octant order.
func WalkOctree(root *OctreeNode, visit func(*OctreeNode)) {
	if root == nil {
		return
	}
	visit(root)
	for _, child := range root.Children {
		WalkOctree(child, visit)
	}
}

// BuildOctree partitions the mesh's triangles into an octree rooted at
// the mesh's bounding box. A node becomes a leaf when it holds no more
// than MaxTrianglesPerNode triangles, reaches MaxDepth, or its volume
// falls below MinNodeSize cubed. Returns ErrEmptyMesh for a mesh with
// no geometry and ErrDegenerateBound when the bounding box has no
// volume on some axis.
func BuildOctree(m *mesh.Mesh, cfg OctreeConfig) (*OctreeNode, error) {
	if m.Empty() {
		return nil, ErrEmptyMesh
	}
	bounds := m.BoundingBox()
	if bounds.Empty() {
		return nil, ErrDegenerateBound
	}

	root := &OctreeNode{Bounds: bounds, Depth: 0}
	root.Triangles = make([]uint32, 0, m.TriangleCount())
	for t := 0; t < m.TriangleCount(); t++ {
		root.Triangles = append(root.Triangles, uint32(t))
	}
	subdivideOctreeNode(root, m, cfg)
	return root, nil
}

func subdivideOctreeNode(node *OctreeNode, m *mesh.Mesh, cfg OctreeConfig) {
	minVolume := cfg.MinNodeSize * cfg.MinNodeSize * cfg.MinNodeSize
	if len(node.Triangles) <= cfg.MaxTrianglesPerNode ||
		node.Depth >= cfg.MaxDepth ||
		float64(node.Bounds.Volume()) < minVolume {
		return
	}

	childBounds := node.Bounds.Subdivide()
	hasChildren := false
	for octant := 0; octant < 8; octant++ {
		var childTriangles []uint32
		for _, t := range node.Triangles {
			a, b, c, ok := triangleVertices(m, int(t))
			if !ok {
				continue
			}
			if childBounds[octant].OverlapsTriangle(a, b, c) {
				childTriangles = append(childTriangles, t)
			}
		}
		if len(childTriangles) == 0 {
			continue
		}
		child := &OctreeNode{
			Bounds:    childBounds[octant],
			Triangles: childTriangles,
			Depth:     node.Depth + 1,
		}
		node.Children[octant] = child
		hasChildren = true
		subdivideOctreeNode(child, m, cfg)
	}

	// Triangles live only at leaves.
	if hasChildren {
		node.Triangles = nil
	}
}

// LeafTriangles collects the triangle indices of every leaf under the
// node, in traversal order. Triangles assigned to several leaves appear
// once per leaf.
func LeafTriangles(root *OctreeNode) []uint32 {
	var out []uint32
	WalkOctree(root, func(n *OctreeNode) {
		if n.IsLeaf() {
			out = append(out, n.Triangles...)
		}
	})
	return out
}

// OctreeStats aggregates one traversal of an octree.
type OctreeStats struct {
	TotalNodes     int
	LeafNodes      int
	TotalTriangles int
	MaxDepth       int
	NodesPerLevel  []int
}

// ComputeOctreeStats traverses the octree once and returns its
// aggregate statistics. TotalTriangles counts leaf assignments, so it
// can exceed the mesh's triangle count when triangles straddle split
// planes.
func ComputeOctreeStats(root *OctreeNode) OctreeStats {
	var stats OctreeStats
	WalkOctree(root, func(n *OctreeNode) {
		stats.TotalNodes++
		if n.IsLeaf() {
			stats.LeafNodes++
		}
		stats.TotalTriangles += len(n.Triangles)
		stats.MaxDepth = max(stats.MaxDepth, n.Depth)
		for len(stats.NodesPerLevel) <= n.Depth {
			stats.NodesPerLevel = append(stats.NodesPerLevel, 0)
		}
		stats.NodesPerLevel[n.Depth]++
	})
	return stats
}
