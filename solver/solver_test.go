package solver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "solver.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
binary: /opt/fd/fast-downward.py
search: "astar(lmcut())"
timeout: 2m
plan_file: plan.out
`), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "/opt/fd/fast-downward.py", cfg.GetBinary())
		assert.Equal(t, "astar(lmcut())", cfg.GetSearch())
		assert.Equal(t, 2*time.Minute, cfg.GetTimeout())
		assert.Equal(t, "plan.out", cfg.GetPlanFile())
	})

	t.Run("empty config falls back to defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "solver.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultBinary, cfg.GetBinary())
		assert.Equal(t, DefaultSearch, cfg.GetSearch())
		assert.Equal(t, DefaultPlanFile, cfg.GetPlanFile())
		assert.Equal(t, 60*time.Second, cfg.GetTimeout())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "solver.yaml")
		require.NoError(t, os.WriteFile(path, []byte("binary: [\n"), 0o644))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("nil config accessors", func(t *testing.T) {
		var cfg *Config
		assert.Equal(t, DefaultBinary, cfg.GetBinary())
		assert.Equal(t, 60*time.Second, cfg.GetTimeout())
	})

	t.Run("invalid timeout falls back", func(t *testing.T) {
		cfg := &Config{Timeout: "soon"}
		assert.Equal(t, 60*time.Second, cfg.GetTimeout())
	})
}

// fakePlanner writes a shell script standing in for the planner binary
// and returns a config pointing at it.
func fakePlanner(t *testing.T, script string) (*Config, string) {
	t.Helper()
	workDir := t.TempDir()
	binary := filepath.Join(workDir, "fake-planner.sh")
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\n"+script), 0o755))
	return &Config{Binary: binary, Timeout: "5s"}, workDir
}

func TestSolve(t *testing.T) {
	t.Run("returns the plan artifact", func(t *testing.T) {
		cfg, workDir := fakePlanner(t, `printf '(up pt1pt1 pt0pt0 0 1)\n' > sas_plan`)
		s := New(cfg, nil)

		planText, err := s.Solve(context.Background(), workDir, "domain.pddl", "problem.pddl")
		require.NoError(t, err)
		assert.Contains(t, string(planText), "(up pt1pt1 pt0pt0 0 1)")
	})

	t.Run("passes the search strategy", func(t *testing.T) {
		cfg, workDir := fakePlanner(t, `printf '%s\n' "$@" > sas_plan`)
		cfg.Search = "astar(blind())"
		s := New(cfg, nil)

		planText, err := s.Solve(context.Background(), workDir, "d.pddl", "p.pddl")
		require.NoError(t, err)
		assert.Contains(t, string(planText), "astar(blind())")
		assert.Contains(t, string(planText), "d.pddl")
	})

	t.Run("unsolvable exit code maps to ErrNoPlan", func(t *testing.T) {
		cfg, workDir := fakePlanner(t, `exit 12`)
		s := New(cfg, nil)

		_, err := s.Solve(context.Background(), workDir, "d.pddl", "p.pddl")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoPlan), "got %v", err)
	})

	t.Run("clean exit without artifact maps to ErrNoPlan", func(t *testing.T) {
		cfg, workDir := fakePlanner(t, `exit 0`)
		s := New(cfg, nil)

		_, err := s.Solve(context.Background(), workDir, "d.pddl", "p.pddl")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoPlan), "got %v", err)
	})

	t.Run("unexpected exit code is a tooling failure", func(t *testing.T) {
		cfg, workDir := fakePlanner(t, `echo "translator crashed" >&2; exit 30`)
		s := New(cfg, nil)

		_, err := s.Solve(context.Background(), workDir, "d.pddl", "p.pddl")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrNoPlan))
		assert.Contains(t, err.Error(), "exited with code 30")
		assert.Contains(t, err.Error(), "translator crashed")
	})

	t.Run("missing binary is a tooling failure", func(t *testing.T) {
		s := New(&Config{Binary: "definitely-not-a-planner"}, nil)

		_, err := s.Solve(context.Background(), t.TempDir(), "d.pddl", "p.pddl")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrNoPlan))
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("timeout", func(t *testing.T) {
		cfg, workDir := fakePlanner(t, `sleep 5`)
		cfg.Timeout = "100ms"
		s := New(cfg, nil)

		_, err := s.Solve(context.Background(), workDir, "d.pddl", "p.pddl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out")
	})
}
