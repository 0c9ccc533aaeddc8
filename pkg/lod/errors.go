package lod

import (
	"errors"
	"fmt"
)

// Sentinel errors for hierarchy construction.
var (
	ErrNoStrategy      = errors.New("no simplification strategy configured")
	ErrNoSimplifier    = errors.New("no mesh simplifier injected")
	ErrEmptyMesh       = errors.New("input mesh is empty")
	ErrDegenerateBound = errors.New("degenerate bound")
	ErrEmptyResult     = errors.New("simplification removed all triangles")
)

// ConfigError reports an invalid build configuration. It is detected
// before any recursion begins.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("lod config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ProcessingError reports a failure during hierarchy construction: the
// injected simplifier failed, or a subdivision step produced a
// degenerate bound. The first processing error found during the
// depth-first build aborts the whole build.
type ProcessingError struct {
	Op  string
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("lod %s: %v", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
