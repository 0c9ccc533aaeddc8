package lod

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/tilekit/lodtree/pkg/geo"
	"github.com/tilekit/lodtree/pkg/geom"
	"github.com/tilekit/lodtree/pkg/mesh"
)

// Config controls hierarchy construction.
type Config struct {
	// Strategy decides simplification targets and subdivision. Required
	// for the per-level build modes, unused by the octree-derived mode.
	Strategy Strategy

	// Simplifier performs the actual decimation. Required alongside
	// Strategy.
	Simplifier Simplifier

	// MaxLevels is the deepest level the per-level modes may create.
	// Zero builds a single-leaf tree. Strategies carry their own depth
	// caps on top of this one.
	MaxLevels int

	// UseOctree switches BuildGeometric to the octree-derived mode.
	UseOctree bool

	// Octree bounds the partitioner in octree-derived mode.
	Octree OctreeConfig

	// Parallel builds sibling subtrees concurrently. Output is
	// identical to the sequential build.
	Parallel bool

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

func (c *Config) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

func (c *Config) validate() error {
	if c.MaxLevels < 0 {
		return &ConfigError{Err: errors.New("max levels must not be negative")}
	}
	if c.Strategy == nil {
		return &ConfigError{Err: ErrNoStrategy}
	}
	if c.Simplifier == nil {
		return &ConfigError{Err: ErrNoSimplifier}
	}
	return nil
}

// BuildGeo builds a geographic hierarchy by recursive quadtree
// subdivision of the root region. The root holds the full input mesh at
// level 0 with geometric error 0.
func BuildGeo(ctx context.Context, m *mesh.Mesh, region geo.BBox, cfg Config) (*GeoNode, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if m.Empty() {
		return nil, &ProcessingError{Op: "build", Err: ErrEmptyMesh}
	}
	if region.Empty() {
		return nil, &ProcessingError{Op: "build", Err: ErrDegenerateBound}
	}

	cfg.logger().Info("building geographic hierarchy",
		zap.String("strategy", strategyName(cfg.Strategy)),
		zap.Int("max_levels", cfg.MaxLevels),
		zap.Int("triangles", m.TriangleCount()))

	root := &GeoNode{Bound: region, Mesh: m, Level: 0}
	split := cfg.Strategy.ShouldSubdivideRegion
	if err := grow(ctx, root, &cfg, split); err != nil {
		return nil, err
	}
	return root, nil
}

// BuildGeometric builds a Euclidean hierarchy. With UseOctree unset it
// recursively subdivides the root box into octants, asking the strategy
// at each level; with UseOctree set it delegates to BuildFromOctree and
// the given box is ignored in favor of the mesh's own bounds.
func BuildGeometric(ctx context.Context, m *mesh.Mesh, box geom.Box, cfg Config) (*GeometricNode, error) {
	if cfg.UseOctree {
		return BuildFromOctree(ctx, m, cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if m.Empty() {
		return nil, &ProcessingError{Op: "build", Err: ErrEmptyMesh}
	}
	if box.Empty() {
		return nil, &ProcessingError{Op: "build", Err: ErrDegenerateBound}
	}

	cfg.logger().Info("building geometric hierarchy",
		zap.String("strategy", strategyName(cfg.Strategy)),
		zap.Int("max_levels", cfg.MaxLevels),
		zap.Int("triangles", m.TriangleCount()))

	root := &GeometricNode{Bound: box, Mesh: m, Level: 0}
	split := cfg.Strategy.ShouldSubdivideBox
	if err := grow(ctx, root, &cfg, split); err != nil {
		return nil, err
	}
	return root, nil
}

// grow recursively expands a node. Children are created in Subdivide
// order; cancellation is observed between sibling builds, never inside
// the mesh algebra.
func grow[B Bound[B]](ctx context.Context, node *Node[B], cfg *Config, split func(*mesh.Mesh, B, int) bool) error {
	if node.Level >= cfg.MaxLevels {
		return nil
	}
	if !split(node.Mesh, node.Bound, node.Level) {
		return nil
	}
	subBounds := node.Bound.Subdivide()
	if cfg.Parallel {
		return growParallel(ctx, node, subBounds, cfg, split)
	}
	for _, sub := range subBounds {
		if err := ctx.Err(); err != nil {
			return err
		}
		child, err := buildChild(ctx, node.Mesh, sub, node.Level+1, cfg, split)
		if err != nil {
			return err
		}
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return nil
}

// growParallel builds each sibling subtree in its own goroutine. Results
// are collected per slot so child order stays identical to the
// sequential build, and the reported error is the first one in child
// order.
func growParallel[B Bound[B]](ctx context.Context, node *Node[B], subBounds []B, cfg *Config, split func(*mesh.Mesh, B, int) bool) error {
	children := make([]*Node[B], len(subBounds))
	errs := make([]error, len(subBounds))
	var wg sync.WaitGroup
	for i, sub := range subBounds {
		i, sub := i, sub
		wg.Add(1)
		go func() {
			defer wg.Done()
			children[i], errs[i] = buildChild(ctx, node.Mesh, sub, node.Level+1, cfg, split)
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	for _, child := range children {
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return nil
}

// buildChild filters the parent mesh to the sub-bound, simplifies the
// result for the child's level, and recurses. An empty sub-mesh yields
// no child and no error.
func buildChild[B Bound[B]](ctx context.Context, parent *mesh.Mesh, sub B, level int, cfg *Config, split func(*mesh.Mesh, B, int) bool) (*Node[B], error) {
	if sub.Empty() {
		return nil, &ProcessingError{Op: "subdivide", Err: ErrDegenerateBound}
	}
	subMesh := filterMesh(parent, sub)
	if subMesh.Empty() {
		return nil, nil
	}
	simplified, err := cfg.Strategy.Simplify(subMesh, level, cfg.Simplifier)
	if err != nil {
		return nil, err
	}
	child := &Node[B]{
		Bound:          sub,
		Mesh:           simplified,
		GeometricError: cfg.Strategy.ComputeError(subMesh, simplified),
		Level:          level,
	}
	if err := grow(ctx, child, cfg, split); err != nil {
		return nil, err
	}
	return child, nil
}

// filterMesh extracts the triangles overlapping the bound, using the
// same conservative intersection test as the octree. A triangle
// straddling a boundary lands in every sub-mesh it overlaps.
func filterMesh[B Bound[B]](m *mesh.Mesh, bound B) *mesh.Mesh {
	var triangles []uint32
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c, ok := triangleVertices(m, t)
		if !ok {
			continue
		}
		if bound.OverlapsTriangle(a, b, c) {
			triangles = append(triangles, uint32(t))
		}
	}
	return m.Subset(triangles)
}

// BuildFromOctree builds a Euclidean hierarchy from the octree
// partition of the mesh. Octree leaves become LOD leaves holding their
// exact triangle subsets; internal octree nodes become LOD nodes whose
// mesh is the unsimplified union of all descendant leaves. Tree depth
// is the octree's depth and every node's geometric error is 0; the
// configured strategy and simplifier are not consulted.
func BuildFromOctree(ctx context.Context, m *mesh.Mesh, cfg Config) (*GeometricNode, error) {
	if cfg.MaxLevels < 0 {
		return nil, &ConfigError{Err: errors.New("max levels must not be negative")}
	}
	if m.Empty() {
		return nil, &ProcessingError{Op: "build", Err: ErrEmptyMesh}
	}

	octree, err := BuildOctree(m, cfg.Octree)
	if err != nil {
		return nil, &ProcessingError{Op: "partition", Err: err}
	}

	cfg.logger().Info("building octree-derived hierarchy",
		zap.Int("triangles", m.TriangleCount()),
		zap.Int("octree_max_depth", cfg.Octree.MaxDepth))

	return lodFromOctree(ctx, m, octree, 0)
}

func lodFromOctree(ctx context.Context, m *mesh.Mesh, oct *OctreeNode, level int) (*GeometricNode, error) {
	node := &GeometricNode{Bound: oct.Bounds, Level: level}
	if oct.IsLeaf() {
		if len(oct.Triangles) > 0 {
			node.Mesh = m.Subset(oct.Triangles)
		}
		return node, nil
	}

	if union := LeafTriangles(oct); len(union) > 0 {
		node.Mesh = m.Subset(union)
	}
	for _, child := range oct.Children {
		if child == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		childNode, err := lodFromOctree(ctx, m, child, level+1)
		if err != nil {
			return nil, err
		}
		if childNode.Mesh != nil && !childNode.Mesh.Empty() {
			node.Children = append(node.Children, childNode)
		}
	}
	return node, nil
}
