package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/hpccg/config"
	"github.com/katalvlaran/hpccg/report"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func nopLogger(bool) (*zap.Logger, error) { return zap.NewNop(), nil }

func decode(t *testing.T, data []byte) report.Summary {
	t.Helper()
	var s report.Summary
	require.NoError(t, yaml.Unmarshal(data, &s))

	return s
}

func TestRun_SingleRank(t *testing.T) {
	cfg := config.Default()
	cfg.Grid = config.GridConfig{Nx: 4, Ny: 4, Nz: 4, Stencil: 27}
	cfg.Solver.Tolerance = 1e-10

	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, zap.NewNop(), &buf))

	s := decode(t, buf.Bytes())
	assert.Equal(t, report.Application, s.Application)
	assert.Equal(t, 1, s.Parallelism.Ranks)
	assert.Equal(t, report.Dimensions{Nx: 4, Ny: 4, Nz: 4}, s.Dimensions)
	assert.Positive(t, s.Iterations)
	assert.LessOrEqual(t, s.FinalResidual, 1e-10)
	assert.Less(t, s.DiffFromExact, 1e-8)
	assert.Nil(t, s.Transport)
}

func TestRun_MultiRankToFile(t *testing.T) {
	cfg := config.Default()
	cfg.Grid = config.GridConfig{Nx: 4, Ny: 3, Nz: 2, Stencil: 7}
	cfg.Ranks = 3
	cfg.Solver = config.SolverConfig{MaxIterations: 100, Tolerance: 1e-10, Workers: 2, Overlap: true}
	cfg.Output.Metrics = true
	cfg.Output.Path = filepath.Join(t.TempDir(), "summary.yaml")

	core, logs := observer.New(zapcore.DebugLevel)
	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, zap.New(core), &stdout))
	assert.Zero(t, stdout.Len())

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	s := decode(t, data)
	assert.Equal(t, report.Parallelism{Ranks: 3, Workers: 2, Overlap: true}, s.Parallelism)
	assert.Less(t, s.DiffFromExact, 1e-8)
	assert.Equal(t, int64(2*s.Iterations*7*4*3*2*3), s.Flops.SPARSEMV)

	require.NotNil(t, s.Transport)
	assert.Positive(t, s.Transport.Messages)
	assert.Positive(t, s.Transport.Collectives)
	assert.Equal(t, 3, logs.FilterMessage("Metric").Len())
	assert.Equal(t, 1, logs.FilterMessage("Starting").Len())
}

func TestRootCmd(t *testing.T) {
	cmd := newRootCmd(nopLogger)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--ranks", "2", "--max-iter", "5", "--ny", "2", "3", "3", "2"})
	require.NoError(t, cmd.Execute())

	s := decode(t, buf.Bytes())
	assert.Equal(t, report.Dimensions{Nx: 3, Ny: 2, Nz: 2}, s.Dimensions)
	assert.Equal(t, 2, s.Parallelism.Ranks)
	assert.Positive(t, s.Iterations)
	assert.Less(t, s.Iterations, 5)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid: {nx: 2, ny: 2, nz: 2}\nranks: 2\nsolver: {tolerance: 1.0e-12}\n"), 0o644))

	cmd := newRootCmd(nopLogger)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--config", path, "--nz", "3"})
	require.NoError(t, cmd.Execute())

	s := decode(t, buf.Bytes())
	assert.Equal(t, report.Dimensions{Nx: 2, Ny: 2, Nz: 3}, s.Dimensions)
	assert.Equal(t, 2, s.Parallelism.Ranks)
}

func TestRootCmd_Errors(t *testing.T) {
	cases := map[string][]string{
		"two positionals": {"3", "3"},
		"non-numeric":     {"3", "x", "3"},
		"zero ranks":      {"--ranks", "0"},
		"bad stencil":     {"--stencil", "9"},
		"missing config":  {"--config", filepath.Join(t.TempDir(), "none.yaml")},
		"negative extent": {"--nx", "-1"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			cmd := newRootCmd(nopLogger)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(args)
			require.Error(t, cmd.Execute())
		})
	}
	cmd := newRootCmd(nopLogger)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--ranks", "0"})
	require.ErrorIs(t, cmd.Execute(), config.ErrInvalid)
}
