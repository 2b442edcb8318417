// Package solver invokes the external classical planner and retrieves its
// plan artifact.
//
// The planner is a black box: it receives domain and problem files, runs
// its own search, and leaves an ordered action list in a plan artifact.
// This package distinguishes "the problem has no plan" from "the tooling
// failed" so callers can react differently — an infeasible encoding is a
// planning outcome, a missing binary is an operational fault. The solver
// never retries: the encoding is deterministic, so re-running the same
// invocation reproduces the same outcome.
package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// ErrNoPlan reports that the planner terminated cleanly without finding a
// plan: the problem instance is infeasible within its horizon.
var ErrNoPlan = errors.New("solver: no plan found")

// Fast Downward exit codes that prove unsolvability rather than signal a
// tool fault.
var unsolvableExitCodes = map[int]bool{
	11: true, // search found the task unsolvable
	12: true, // search exhausted without a plan
}

// Solver runs the external planner over written encoding artifacts.
type Solver struct {
	cfg    *Config
	logger *slog.Logger
}

// New creates a Solver with the given configuration. A nil config uses
// the Fast Downward defaults; a nil logger falls back to slog.Default.
func New(cfg *Config, logger *slog.Logger) *Solver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Solver{cfg: cfg, logger: logger}
}

// Solve runs the planner on the domain and problem files (paths relative
// to workDir) and returns the raw plan artifact bytes.
//
// Errors:
//   - ErrNoPlan (wrapped) when the planner proves the problem unsolvable
//     or terminates cleanly without producing the plan artifact;
//   - any other error is a tooling failure: binary not found, timeout,
//     or an unexpected exit status, with the planner's stderr attached.
func (s *Solver) Solve(ctx context.Context, workDir, domainFile, problemFile string) ([]byte, error) {
	binary, err := exec.LookPath(s.cfg.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("solver: planner binary %q not found: %w", s.cfg.GetBinary(), err)
	}

	timeout := s.cfg.GetTimeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, domainFile, problemFile, "--search", s.cfg.GetSearch())
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	s.logger.Debug("invoking planner",
		"binary", binary,
		"domain", domainFile,
		"problem", problemFile,
		"timeout", timeout)

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if runErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("solver: planner timed out after %v", timeout)
		}

		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			code := exitErr.ExitCode()
			if unsolvableExitCodes[code] {
				s.logger.Info("planner proved the problem unsolvable",
					"exit_code", code,
					"duration", elapsed)
				return nil, fmt.Errorf("planner exit code %d: %w", code, ErrNoPlan)
			}
			return nil, fmt.Errorf("solver: planner exited with code %d: %s", code, stderr.String())
		}

		return nil, fmt.Errorf("solver: running planner: %w", runErr)
	}

	planPath := filepath.Join(workDir, s.cfg.GetPlanFile())
	planText, err := os.ReadFile(planPath)
	if err != nil {
		if os.IsNotExist(err) {
			// A clean exit without the artifact still means no plan.
			return nil, fmt.Errorf("planner left no %s: %w", s.cfg.GetPlanFile(), ErrNoPlan)
		}
		return nil, fmt.Errorf("solver: reading plan artifact: %w", err)
	}

	s.logger.Debug("planner finished",
		"duration", elapsed,
		"plan_bytes", len(planText))

	return planText, nil
}
