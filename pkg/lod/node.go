// Package lod builds multi-resolution level-of-detail hierarchies from
// triangle meshes, in two coordinate domains: geographic WGS84 regions
// split by quadtree, and Euclidean bounds split by octree. The hierarchy
// builder, the intermediate octree partitioner, and the pluggable
// simplification strategies live here.
package lod

import (
	"github.com/tilekit/lodtree/pkg/geo"
	"github.com/tilekit/lodtree/pkg/geom"
	"github.com/tilekit/lodtree/pkg/mesh"
)

// Bound is the capability a coordinate space must provide so the generic
// builder can split it: deterministic midpoint subdivision, emptiness,
// and the conservative triangle-overlap test used for spatial filtering.
type Bound[B any] interface {
	Subdivide() []B
	Empty() bool
	OverlapsTriangle(a, b, c geom.Vec3) bool
}

// Node is one tile of a LOD hierarchy. Nodes are read-only after
// construction: each parent exclusively owns its children, and children
// are stored in the exact order Subdivide produced their bounds, which
// consumers rely on for deterministic tile numbering.
type Node[B Bound[B]] struct {
	Bound          B
	Mesh           *mesh.Mesh
	GeometricError float64
	Level          int
	Children       []*Node[B]
}

// GeoNode is a node of a geographic (WGS84 quadtree) hierarchy.
type GeoNode = Node[geo.BBox]

// GeometricNode is a node of a Euclidean (octree) hierarchy.
type GeometricNode = Node[geom.Box]

// IsLeaf reports whether the node has no children.
func (n *Node[B]) IsLeaf() bool { return len(n.Children) == 0 }

// Walk visits every node exactly once, depth-first, parent before
// children, children in stored order.
func Walk[B Bound[B]](root *Node[B], visit func(*Node[B])) {
	if root == nil {
		return
	}
	visit(root)
	for _, child := range root.Children {
		Walk(child, visit)
	}
}

// TreeStats aggregates one full traversal of a hierarchy.
type TreeStats struct {
	TotalNodes        int
	LeafNodes         int
	TotalTriangles    int
	MaxDepth          int
	TrianglesPerLevel []int
}

// CollectStats traverses the hierarchy once and returns its aggregate
// statistics.
func CollectStats[B Bound[B]](root *Node[B]) TreeStats {
	var stats TreeStats
	Walk(root, func(n *Node[B]) {
		stats.TotalNodes++
		if n.IsLeaf() {
			stats.LeafNodes++
		}
		var triangles int
		if n.Mesh != nil {
			triangles = n.Mesh.TriangleCount()
		}
		stats.TotalTriangles += triangles
		stats.MaxDepth = max(stats.MaxDepth, n.Level)
		for len(stats.TrianglesPerLevel) <= n.Level {
			stats.TrianglesPerLevel = append(stats.TrianglesPerLevel, 0)
		}
		stats.TrianglesPerLevel[n.Level] += triangles
	})
	return stats
}
