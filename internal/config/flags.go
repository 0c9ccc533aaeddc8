package config

import "flag"

// Flags holds parsed CLI overrides. Only values the user actually set
// override file or default configuration.
type Flags struct {
	ConfigPath string

	input     string
	output    string
	mode      string
	strategy  string
	maxLevels int
	octree    bool
	parallel  bool
	debug     bool

	set map[string]bool
}

// ParseFlags parses the given arguments into CLI overrides.
func ParseFlags(name string, args []string) (*Flags, error) {
	f := &Flags{set: make(map[string]bool)}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.StringVar(&f.input, "input", "", "Input PLY mesh")
	fs.StringVar(&f.output, "output", "", "Output tileset directory")
	fs.StringVar(&f.mode, "mode", "", "Coordinate mode: auto, geographic or geometric")
	fs.StringVar(&f.strategy, "strategy", "", "Simplification strategy")
	fs.IntVar(&f.maxLevels, "max-levels", 0, "Maximum LOD depth")
	fs.BoolVar(&f.octree, "octree", false, "Use octree-derived hierarchy")
	fs.BoolVar(&f.parallel, "parallel", false, "Build sibling subtrees concurrently")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// apply copies the flags the user set onto the config.
func (f *Flags) apply(cfg *Config) {
	if f.set["input"] {
		cfg.Input.Path = f.input
	}
	if f.set["output"] {
		cfg.Output.Dir = f.output
	}
	if f.set["mode"] {
		cfg.Input.Mode = f.mode
	}
	if f.set["strategy"] {
		cfg.Lod.Strategy = f.strategy
	}
	if f.set["max-levels"] {
		cfg.Lod.MaxLevels = f.maxLevels
	}
	if f.set["octree"] {
		cfg.Lod.UseOctree = f.octree
	}
	if f.set["parallel"] {
		cfg.Lod.Parallel = f.parallel
	}
	if f.debug {
		cfg.Logging.Level = "debug"
	}
}
