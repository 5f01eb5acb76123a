package workspace

import (
	"errors"
	"fmt"
)

// ErrNoRoot is returned when a workspace is opened without a root directory.
var ErrNoRoot = errors.New("workspace has no root")

// ConfigError reports a configuration source that could not be read.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration in %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// LoadError reports a source file the workspace could not load.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
