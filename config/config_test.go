package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hpccg/config"
	"github.com/katalvlaran/hpccg/stencil"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hpccg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.GridConfig{Nx: 5, Ny: 5, Nz: 5, Stencil: 27}, cfg.Grid)
	assert.Equal(t, 1, cfg.Ranks)
	assert.Equal(t, 150, cfg.Solver.MaxIterations)
	assert.Zero(t, cfg.Solver.Tolerance)

	kind, err := cfg.StencilKind()
	require.NoError(t, err)
	assert.Equal(t, stencil.Stencil27, kind)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
grid:
  nx: 8
  stencil: 7
ranks: 4
solver:
  tolerance: 1.0e-9
  overlap: true
output:
  metrics: true
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, config.GridConfig{Nx: 8, Ny: 5, Nz: 5, Stencil: 7}, cfg.Grid)
	assert.Equal(t, 4, cfg.Ranks)
	assert.Equal(t, config.SolverConfig{MaxIterations: 150, Tolerance: 1e-9, Workers: 1, Overlap: true}, cfg.Solver)
	assert.Equal(t, config.OutputConfig{Metrics: true}, cfg.Output)

	kind, err := cfg.StencilKind()
	require.NoError(t, err)
	assert.Equal(t, stencil.Stencil7, kind)
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := config.Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Load(writeFile(t, "grid:\n  nw: 3\n"))
	require.Error(t, err, "unknown key")

	_, err = config.Load(writeFile(t, "ranks: [1, 2]\n"))
	require.Error(t, err, "wrong type")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*config.Config){
		"zero extent":    func(c *config.Config) { c.Grid.Ny = 0 },
		"stencil":        func(c *config.Config) { c.Grid.Stencil = 19 },
		"ranks":          func(c *config.Config) { c.Ranks = 0 },
		"max iterations": func(c *config.Config) { c.Solver.MaxIterations = 0 },
		"negative tol":   func(c *config.Config) { c.Solver.Tolerance = -1 },
		"workers":        func(c *config.Config) { c.Solver.Workers = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
		})
	}
}
