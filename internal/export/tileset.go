// Package export writes LOD hierarchies as 3D Tiles tilesets: one
// tileset.json plus one PLY content file per tile that carries
// geometry.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/tilekit/lodtree/pkg/geo"
	"github.com/tilekit/lodtree/pkg/geom"
	"github.com/tilekit/lodtree/pkg/lod"
	"github.com/tilekit/lodtree/pkg/mesh"
	"github.com/tilekit/lodtree/pkg/ply"
)

// defaultRootError is used for the tileset-level geometric error when
// the root node reports none.
const defaultRootError = 100.0

// Tileset is the top-level tileset.json document.
type Tileset struct {
	Asset          Asset   `json:"asset"`
	GeometricError float64 `json:"geometricError"`
	Root           *Tile   `json:"root"`
}

// Asset identifies the tileset format version and producer.
type Asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator"`
	Copyright string `json:"copyright,omitempty"`
}

// Tile is one node of the tileset tree.
type Tile struct {
	BoundingVolume BoundingVolume `json:"boundingVolume"`
	GeometricError float64        `json:"geometricError"`
	Refine         string         `json:"refine,omitempty"`
	Content        *Content       `json:"content,omitempty"`
	Children       []*Tile        `json:"children,omitempty"`
}

// BoundingVolume holds exactly one of the 3D Tiles volume kinds: a
// geographic region (west, south, east, north in radians plus height
// range in meters) or an oriented box (center plus three half-axes).
type BoundingVolume struct {
	Region []float64 `json:"region,omitempty"`
	Box    []float64 `json:"box,omitempty"`
}

// Content points at a tile's geometry file, relative to the tileset
// root.
type Content struct {
	URI string `json:"uri"`
}

// Exporter writes tilesets to a directory.
type Exporter struct {
	// Dir is the output directory; it is created if missing.
	Dir string

	// Format is the PLY encoding of content files.
	Format ply.Format

	// Copyright, when set, is recorded in the tileset asset.
	Copyright string

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

func (e *Exporter) logger() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return zap.NewNop()
}

// ExportGeo writes a geographic hierarchy as a tileset.
func (e *Exporter) ExportGeo(root *lod.GeoNode) error {
	return exportTree(e, root, regionVolume)
}

// ExportGeometric writes a Euclidean hierarchy as a tileset.
func (e *Exporter) ExportGeometric(root *lod.GeometricNode) error {
	return exportTree(e, root, boxVolume)
}

func exportTree[B lod.Bound[B]](e *Exporter, root *lod.Node[B], volume func(B, *mesh.Mesh) BoundingVolume) error {
	if err := os.MkdirAll(filepath.Join(e.Dir, "content"), 0755); err != nil {
		return err
	}

	rootTile, tiles, err := buildTile(e, root, "0", volume)
	if err != nil {
		return err
	}
	ts := Tileset{
		Asset: Asset{
			Version:   "1.1",
			Generator: "lodtree",
			Copyright: e.Copyright,
		},
		GeometricError: rootError(root),
		Root:           rootTile,
	}

	data, err := json.MarshalIndent(&ts, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(e.Dir, "tileset.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	e.logger().Info("tileset written",
		zap.String("path", path),
		zap.Int("tiles", tiles))
	return nil
}

func rootError[B lod.Bound[B]](root *lod.Node[B]) float64 {
	if root.GeometricError > 0 {
		return root.GeometricError
	}
	return defaultRootError
}

// buildTile converts one node and its subtree. The path encodes the
// node's position in the tree (child indices joined by underscores), so
// content names are stable across runs.
func buildTile[B lod.Bound[B]](e *Exporter, n *lod.Node[B], path string, volume func(B, *mesh.Mesh) BoundingVolume) (*Tile, int, error) {
	tile := &Tile{
		BoundingVolume: volume(n.Bound, n.Mesh),
		GeometricError: n.GeometricError,
		Refine:         "REPLACE",
	}
	tiles := 1

	if n.Mesh != nil && !n.Mesh.Empty() {
		uri := fmt.Sprintf("content/tile_%s.ply", path)
		if err := ply.WriteFile(filepath.Join(e.Dir, uri), n.Mesh, e.Format); err != nil {
			return nil, 0, fmt.Errorf("writing %s: %w", uri, err)
		}
		tile.Content = &Content{URI: uri}
	}

	for i, child := range n.Children {
		childTile, childCount, err := buildTile(e, child, fmt.Sprintf("%s_%d", path, i), volume)
		if err != nil {
			return nil, 0, err
		}
		tile.Children = append(tile.Children, childTile)
		tiles += childCount
	}
	return tile, tiles, nil
}

// regionVolume builds a geographic bounding volume. Heights come from
// the node mesh's z range; a node without geometry gets a flat range.
func regionVolume(b geo.BBox, m *mesh.Mesh) BoundingVolume {
	west, south, east, north := b.ToRadians()
	var minH, maxH float64
	if m != nil && !m.Empty() {
		bx := m.BoundingBox()
		minH, maxH = float64(bx.Min.Z), float64(bx.Max.Z)
	}
	return BoundingVolume{Region: []float64{west, south, east, north, minH, maxH}}
}

// boxVolume builds an axis-aligned 3D Tiles box: center followed by the
// three half-axis vectors.
func boxVolume(b geom.Box, _ *mesh.Mesh) BoundingVolume {
	center := b.Center()
	half := b.Size().Scale(0.5)
	return BoundingVolume{Box: []float64{
		float64(center.X), float64(center.Y), float64(center.Z),
		float64(half.X), 0, 0,
		0, float64(half.Y), 0,
		0, 0, float64(half.Z),
	}}
}
