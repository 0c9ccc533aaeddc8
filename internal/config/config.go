// Package config handles lodtree configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/tilekit/lodtree/pkg/lod"
)

// Strategy names accepted in configuration.
const (
	StrategyTriangleCount    = "triangle-count"
	StrategyScreenSpaceError = "screen-space-error"
	StrategyVolumeBased      = "volume-based"
)

// Input modes.
const (
	ModeAuto       = "auto"
	ModeGeographic = "geographic"
	ModeGeometric  = "geometric"
)

// Config holds all lodtree settings.
type Config struct {
	Input   InputConfig      `yaml:"input"`
	Output  OutputConfig     `yaml:"output"`
	Lod     LodConfig        `yaml:"lod"`
	Octree  lod.OctreeConfig `yaml:"octree"`
	Logging LoggingConfig    `yaml:"logging"`
}

// InputConfig holds source mesh settings.
type InputConfig struct {
	Path string `yaml:"path"`
	// Mode selects the coordinate space: auto, geographic or geometric.
	// Auto treats vertices whose x/y fit lon/lat ranges as geographic.
	Mode string `yaml:"mode"`
}

// OutputConfig holds tileset output settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
	// ContentFormat is the PLY encoding of per-tile content files:
	// ascii or binary.
	ContentFormat string `yaml:"content_format"`
}

// LodConfig holds hierarchy construction settings.
type LodConfig struct {
	Strategy  string `yaml:"strategy"`
	MaxLevels int    `yaml:"max_levels"`
	UseOctree bool   `yaml:"use_octree"`
	Parallel  bool   `yaml:"parallel"`

	MaxTrianglesPerTile int     `yaml:"max_triangles_per_tile"`
	ReductionRatio      float64 `yaml:"reduction_ratio"`
	MaxScreenSpaceError float64 `yaml:"max_screen_space_error"`
	VolumeThreshold     float64 `yaml:"volume_threshold"`
	AreaThreshold       float64 `yaml:"area_threshold"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Mode: ModeAuto,
		},
		Output: OutputConfig{
			Dir:           "tiles",
			ContentFormat: "binary",
		},
		Lod: LodConfig{
			Strategy:            StrategyTriangleCount,
			MaxLevels:           8,
			UseOctree:           true,
			MaxTrianglesPerTile: 50000,
			ReductionRatio:      0.5,
			MaxScreenSpaceError: 16.0,
			VolumeThreshold:     0.001,
		},
		Octree:  lod.DefaultOctreeConfig(),
		Logging: LoggingConfig{Level: "info"},
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Lod.Strategy {
	case StrategyTriangleCount, StrategyScreenSpaceError, StrategyVolumeBased:
	default:
		return fmt.Errorf("unknown strategy %q", c.Lod.Strategy)
	}
	switch c.Input.Mode {
	case ModeAuto, ModeGeographic, ModeGeometric:
	default:
		return fmt.Errorf("unknown input mode %q", c.Input.Mode)
	}
	switch c.Output.ContentFormat {
	case "ascii", "binary":
	default:
		return fmt.Errorf("unknown content format %q", c.Output.ContentFormat)
	}
	if c.Lod.MaxLevels < 0 {
		return errors.New("lod.max_levels must not be negative")
	}
	if c.Lod.ReductionRatio <= 0 || c.Lod.ReductionRatio >= 1 {
		return errors.New("lod.reduction_ratio must be in (0,1)")
	}
	return nil
}

// Strategy builds the configured simplification strategy.
func (c *Config) Strategy() (lod.Strategy, error) {
	switch c.Lod.Strategy {
	case StrategyTriangleCount:
		s := lod.NewTriangleCountStrategy()
		s.MaxTrianglesPerTile = c.Lod.MaxTrianglesPerTile
		s.ReductionRatio = c.Lod.ReductionRatio
		return s, nil
	case StrategyScreenSpaceError:
		s := lod.NewScreenSpaceErrorStrategy()
		s.MaxError = c.Lod.MaxScreenSpaceError
		return s, nil
	case StrategyVolumeBased:
		s := lod.NewVolumeBasedStrategy()
		s.VolumeThreshold = c.Lod.VolumeThreshold
		s.ReductionRatio = c.Lod.ReductionRatio
		s.AreaThreshold = float32(c.Lod.AreaThreshold)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", c.Lod.Strategy)
	}
}
