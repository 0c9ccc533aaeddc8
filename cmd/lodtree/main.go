// lodtree builds 3D Tiles LOD hierarchies from PLY meshes.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/tilekit/lodtree/internal/config"
	"github.com/tilekit/lodtree/internal/export"
	"github.com/tilekit/lodtree/internal/logger"
	"github.com/tilekit/lodtree/pkg/geo"
	"github.com/tilekit/lodtree/pkg/lod"
	"github.com/tilekit/lodtree/pkg/mesh"
	"github.com/tilekit/lodtree/pkg/ply"
	"github.com/tilekit/lodtree/pkg/simplify"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		cmdBuild(args)
	case "inspect":
		cmdInspect(args)
	case "stats":
		cmdStats(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`lodtree - LOD hierarchy and 3D Tiles generator

Usage:
  lodtree <command> [options]

Commands:
  build [options]      Build a tileset from a PLY mesh
  stats [options]      Build a hierarchy and print statistics only
  inspect <file.ply>   Show PLY metadata and mesh statistics

Options (build, stats):
  -config <path>       Config file (default ./lodtree.yaml)
  -input <file.ply>    Input mesh
  -output <dir>        Output tileset directory
  -mode <mode>         auto, geographic or geometric
  -strategy <name>     triangle-count, screen-space-error or volume-based
  -max-levels <n>      Maximum LOD depth
  -octree              Use octree-derived hierarchy
  -parallel            Build sibling subtrees concurrently
  -debug               Enable debug logging

Examples:
  lodtree build -input city.ply -output tiles
  lodtree stats -input terrain.ply -strategy screen-space-error
  lodtree inspect city.ply`)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func loadConfig(name string, args []string) *config.Config {
	flags, err := config.ParseFlags(name, args)
	if err != nil {
		os.Exit(1)
	}
	cfg, err := config.Load(flags)
	if err != nil {
		fatal(err)
	}
	if cfg.Input.Path == "" {
		fatal(fmt.Errorf("no input mesh: set -input or input.path in the config"))
	}
	return cfg
}

// result carries whichever hierarchy kind the build produced.
type result struct {
	geoRoot  *lod.GeoNode
	geomRoot *lod.GeometricNode
}

func (r result) stats() lod.TreeStats {
	if r.geoRoot != nil {
		return lod.CollectStats(r.geoRoot)
	}
	return lod.CollectStats(r.geomRoot)
}

func buildHierarchy(cfg *config.Config, m *mesh.Mesh, log *zap.Logger) (result, error) {
	strategy, err := cfg.Strategy()
	if err != nil {
		return result{}, err
	}
	buildCfg := lod.Config{
		Strategy:   strategy,
		Simplifier: simplify.NewGridClusterer(),
		MaxLevels:  cfg.Lod.MaxLevels,
		UseOctree:  cfg.Lod.UseOctree,
		Octree:     cfg.Octree,
		Parallel:   cfg.Lod.Parallel,
		Logger:     log,
	}

	box := m.BoundingBox()
	region, geographic := geo.FromBox(box)
	switch cfg.Input.Mode {
	case config.ModeGeographic:
		if !geographic {
			return result{}, fmt.Errorf("mesh bounds do not fit lon/lat ranges")
		}
	case config.ModeGeometric:
		geographic = false
	}

	ctx := context.Background()
	if geographic {
		log.Info("geographic mode",
			zap.Float64("west", region.MinLon), zap.Float64("south", region.MinLat),
			zap.Float64("east", region.MaxLon), zap.Float64("north", region.MaxLat))
		root, err := lod.BuildGeo(ctx, m, region, buildCfg)
		if err != nil {
			return result{}, err
		}
		return result{geoRoot: root}, nil
	}

	log.Info("geometric mode", zap.Bool("octree", cfg.Lod.UseOctree))
	root, err := lod.BuildGeometric(ctx, m, box, buildCfg)
	if err != nil {
		return result{}, err
	}
	return result{geomRoot: root}, nil
}

func contentFormat(cfg *config.Config) ply.Format {
	if cfg.Output.ContentFormat == "ascii" {
		return ply.FormatASCII
	}
	return ply.FormatBinaryLE
}

func cmdBuild(args []string) {
	cfg := loadConfig("lodtree build", args)
	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer log.Sync()

	m, err := ply.ReadFile(cfg.Input.Path)
	if err != nil {
		fatal(err)
	}
	log.Info("mesh loaded",
		zap.String("path", cfg.Input.Path),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()))

	res, err := buildHierarchy(cfg, m, log)
	if err != nil {
		fatal(err)
	}

	exporter := &export.Exporter{
		Dir:    cfg.Output.Dir,
		Format: contentFormat(cfg),
		Logger: log,
	}
	if res.geoRoot != nil {
		err = exporter.ExportGeo(res.geoRoot)
	} else {
		err = exporter.ExportGeometric(res.geomRoot)
	}
	if err != nil {
		fatal(err)
	}

	printTreeStats(res.stats())
	fmt.Printf("Tileset written to %s\n", cfg.Output.Dir)
}

func cmdStats(args []string) {
	cfg := loadConfig("lodtree stats", args)
	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer log.Sync()

	m, err := ply.ReadFile(cfg.Input.Path)
	if err != nil {
		fatal(err)
	}
	res, err := buildHierarchy(cfg, m, log)
	if err != nil {
		fatal(err)
	}
	printTreeStats(res.stats())
}

func cmdInspect(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: lodtree inspect <file.ply>")
		os.Exit(1)
	}
	path := args[0]

	md, err := ply.ReadFileMetadata(path)
	if err != nil {
		fatal(err)
	}
	m, err := ply.ReadFile(path)
	if err != nil {
		fatal(err)
	}
	stats := mesh.ComputeStats(m)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Format", string(md.Format)})
	table.Append([]string{"Vertices", strconv.Itoa(stats.VertexCount)})
	table.Append([]string{"Triangles", strconv.Itoa(stats.TriangleCount)})
	table.Append([]string{"Normals", yesNo(md.HasNormals)})
	table.Append([]string{"Colors", yesNo(md.HasColors)})
	table.Append([]string{"Tex coords", yesNo(md.HasTexCoords)})
	table.Append([]string{"Bounds min", fmt.Sprintf("(%.3f, %.3f, %.3f)",
		stats.Bounds.Min.X, stats.Bounds.Min.Y, stats.Bounds.Min.Z)})
	table.Append([]string{"Bounds max", fmt.Sprintf("(%.3f, %.3f, %.3f)",
		stats.Bounds.Max.X, stats.Bounds.Max.Y, stats.Bounds.Max.Z)})
	table.Append([]string{"Surface area", fmt.Sprintf("%.3f", stats.SurfaceArea)})
	if region, ok := geo.FromBox(stats.Bounds); ok {
		table.Append([]string{"Geographic", fmt.Sprintf("(%.5f, %.5f) - (%.5f, %.5f)",
			region.MinLon, region.MinLat, region.MaxLon, region.MaxLat)})
		table.Append([]string{"Area", fmt.Sprintf("%.1f m2", geo.AreaSquareMeters(region))})
	}
	table.Render()
}

func printTreeStats(stats lod.TreeStats) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Total nodes", strconv.Itoa(stats.TotalNodes)})
	table.Append([]string{"Leaf nodes", strconv.Itoa(stats.LeafNodes)})
	table.Append([]string{"Total triangles", strconv.Itoa(stats.TotalTriangles)})
	table.Append([]string{"Max depth", strconv.Itoa(stats.MaxDepth)})
	table.Render()

	levels := tablewriter.NewWriter(os.Stdout)
	levels.SetAlignment(tablewriter.ALIGN_LEFT)
	levels.SetAutoFormatHeaders(false)
	levels.SetHeader([]string{"Level", "Triangles"})
	for level, count := range stats.TrianglesPerLevel {
		levels.Append([]string{strconv.Itoa(level), strconv.Itoa(count)})
	}
	levels.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
