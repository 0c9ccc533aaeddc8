package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tilekit/lodtree/pkg/lod"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown strategy", func(c *Config) { c.Lod.Strategy = "fancy" }},
		{"unknown mode", func(c *Config) { c.Input.Mode = "polar" }},
		{"unknown content format", func(c *Config) { c.Output.ContentFormat = "obj" }},
		{"negative levels", func(c *Config) { c.Lod.MaxLevels = -1 }},
		{"ratio too large", func(c *Config) { c.Lod.ReductionRatio = 1.5 }},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}

func TestStrategyConstruction(t *testing.T) {
	cfg := Default()
	cfg.Lod.Strategy = StrategyScreenSpaceError
	cfg.Lod.MaxScreenSpaceError = 8
	s, err := cfg.Strategy()
	if err != nil {
		t.Fatalf("Strategy: %v", err)
	}
	sse, ok := s.(*lod.ScreenSpaceErrorStrategy)
	if !ok {
		t.Fatalf("strategy type = %T", s)
	}
	if sse.MaxError != 8 {
		t.Errorf("MaxError = %v, want 8", sse.MaxError)
	}
}

func TestLoadFileAndFlagPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lodtree.yaml")
	body := "lod:\n  strategy: screen-space-error\n  max_levels: 3\nlogging:\n  level: warn\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	flags, err := ParseFlags("test", []string{"-config", path, "-max-levels", "5"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// File overrides defaults, flags override the file.
	if cfg.Lod.Strategy != StrategyScreenSpaceError {
		t.Errorf("strategy = %q", cfg.Lod.Strategy)
	}
	if cfg.Lod.MaxLevels != 5 {
		t.Errorf("max levels = %d, want flag value 5", cfg.Lod.MaxLevels)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Logging.Level)
	}
	// Untouched values keep their defaults.
	if cfg.Lod.ReductionRatio != 0.5 {
		t.Errorf("reduction ratio = %v, want default 0.5", cfg.Lod.ReductionRatio)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "lodtree.yaml")

	cfg := Default()
	cfg.Lod.MaxLevels = 6
	cfg.Octree.MaxDepth = 5
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Lod.MaxLevels != 6 {
		t.Errorf("max levels = %d, want 6", loaded.Lod.MaxLevels)
	}
	if loaded.Octree.MaxDepth != 5 {
		t.Errorf("octree max depth = %d, want 5", loaded.Octree.MaxDepth)
	}
}
