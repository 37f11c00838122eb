// SPDX-License-Identifier: MIT

// Package config holds the run parameters of the hpccg driver: problem
// extents, process layout, solver limits and output. A YAML file supplies
// them, command-line flags override it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/hpccg/cg"
	"github.com/katalvlaran/hpccg/stencil"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full run configuration.
type Config struct {
	Grid   GridConfig   `yaml:"grid"`
	Ranks  int          `yaml:"ranks"`
	Solver SolverConfig `yaml:"solver"`
	Output OutputConfig `yaml:"output"`
}

// GridConfig is the per-rank subdomain and the stencil shape.
type GridConfig struct {
	Nx      int `yaml:"nx"`
	Ny      int `yaml:"ny"`
	Nz      int `yaml:"nz"`
	Stencil int `yaml:"stencil"` // 27 or 7 points
}

// SolverConfig bounds the CG iteration and sets its parallelism.
type SolverConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
	Workers       int     `yaml:"workers"`
	Overlap       bool    `yaml:"overlap"`
}

// OutputConfig selects where the summary goes and what else is logged.
type OutputConfig struct {
	Path    string `yaml:"path"` // empty: stdout
	Verbose bool   `yaml:"verbose"`
	Metrics bool   `yaml:"metrics"`
}

// Default returns the configuration of a plain single-rank 5×5×5 run.
func Default() Config {
	return Config{
		Grid:  GridConfig{Nx: 5, Ny: 5, Nz: 5, Stencil: 27},
		Ranks: 1,
		Solver: SolverConfig{
			MaxIterations: cg.DefaultMaxIterations,
			Tolerance:     cg.DefaultTolerance,
			Workers:       1,
		},
	}
}

// Load reads a YAML file over Default. Unknown keys are rejected; keys the
// file omits keep their defaults. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// StencilKind maps the configured point count to a stencil.Kind.
func (c Config) StencilKind() (stencil.Kind, error) {
	switch c.Grid.Stencil {
	case 27:
		return stencil.Stencil27, nil
	case 7:
		return stencil.Stencil7, nil
	default:
		return 0, fmt.Errorf("grid.stencil=%d (want 27 or 7): %w", c.Grid.Stencil, ErrInvalid)
	}
}

// Validate checks every field for a usable value.
func (c Config) Validate() error {
	if c.Grid.Nx < 1 || c.Grid.Ny < 1 || c.Grid.Nz < 1 {
		return fmt.Errorf("grid %dx%dx%d: extents must be >= 1: %w", c.Grid.Nx, c.Grid.Ny, c.Grid.Nz, ErrInvalid)
	}
	if _, err := c.StencilKind(); err != nil {
		return err
	}
	if c.Ranks < 1 {
		return fmt.Errorf("ranks=%d: must be >= 1: %w", c.Ranks, ErrInvalid)
	}
	if c.Solver.MaxIterations < 1 {
		return fmt.Errorf("solver.max_iterations=%d: must be >= 1: %w", c.Solver.MaxIterations, ErrInvalid)
	}
	if t := c.Solver.Tolerance; t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("solver.tolerance=%v: must be finite and >= 0: %w", t, ErrInvalid)
	}
	if c.Solver.Workers < 1 {
		return fmt.Errorf("solver.workers=%d: must be >= 1: %w", c.Solver.Workers, ErrInvalid)
	}

	return nil
}
