package plankit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridway-ai/plankit/cache"
	"github.com/gridway-ai/plankit/encode"
	"github.com/gridway-ai/plankit/pddl"
	"github.com/gridway-ai/plankit/plan"
	"github.com/gridway-ai/plankit/snapshot"
	"github.com/gridway-ai/plankit/solver"
)

// Artifact file names inside an episode working directory.
const (
	domainFileName  = "domain.pddl"
	problemFileName = "problem.pddl"
)

// Runner executes the external planner over encoding artifacts written to
// a working directory and returns the raw plan text. solver.Solver is the
// production implementation; tests substitute stubs.
type Runner interface {
	Solve(ctx context.Context, workDir, domainFile, problemFile string) ([]byte, error)
}

// Planner turns simulation snapshots into environment action sequences by
// encoding, invoking the external planner, and translating the plan back.
//
// A Planner is safe for concurrent use: every Plan call derives its own
// immutable model from the snapshot and works in an isolated episode
// directory.
type Planner struct {
	logger        *slog.Logger
	tracer        trace.Tracer
	runner        Runner
	cache         cache.Cache
	workDir       string
	keepArtifacts bool
	metrics       *plannerMetrics
}

// Episode is the outcome of one planning episode.
type Episode struct {
	// ID is the unique episode identifier, also the name of its working
	// directory.
	ID string

	// Digest is the snapshot digest the episode was planned for.
	Digest string

	// Horizon is the number of future instants the encoding modeled.
	Horizon int

	// Actions is the translated action sequence, one per control step.
	Actions []plan.Action

	// Cached reports whether the actions were served from the plan cache
	// without invoking the external planner.
	Cached bool

	// SolveDuration is the external planner's wall-clock time; zero for
	// cached episodes.
	SolveDuration time.Duration
}

// New creates a Planner. With no options it logs through slog.Default,
// traces and measures through the global OpenTelemetry providers, runs
// Fast Downward with default settings, keeps no cache, and works under
// the OS temp directory.
func New(opts ...Option) (*Planner, error) {
	cfg := &plannerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.GetTracerProvider().Tracer("plankit")
	}
	if cfg.meter == nil {
		cfg.meter = otel.GetMeterProvider().Meter("plankit")
	}
	if cfg.runner == nil {
		cfg.runner = solver.New(nil, cfg.logger)
	}
	if cfg.workDir == "" {
		cfg.workDir = os.TempDir()
	}

	metrics, err := newPlannerMetrics(cfg.meter)
	if err != nil {
		return nil, NewInternalError("plankit.New", err)
	}

	return &Planner{
		logger:        cfg.logger,
		tracer:        cfg.tracer,
		runner:        cfg.runner,
		cache:         cfg.cache,
		workDir:       cfg.workDir,
		keepArtifacts: cfg.keepArtifacts,
		metrics:       metrics,
	}, nil
}

// Plan runs one full planning episode over the snapshot: validate,
// encode, invoke the external planner, and translate the plan into
// environment actions.
//
// Error kinds, checkable with errors.Is:
//   - ErrSnapshotInvalid for structural snapshot defects;
//   - ErrNoPlanFound when the problem is infeasible within its horizon;
//   - ErrSolverFailed for planner tooling faults;
//   - ErrPlanSyntax for unparseable plan artifacts.
//
// Plan never retries: the encoding is deterministic given the snapshot,
// so retrying transient external failures is the caller's decision.
func (p *Planner) Plan(ctx context.Context, snap *snapshot.Snapshot) (*Episode, error) {
	const op = "Planner.Plan"

	ctx, span := p.tracer.Start(ctx, "plankit.Plan")
	defer span.End()

	if err := snap.Validate(); err != nil {
		return nil, NewValidationError(op, fmt.Errorf("%w: %w", ErrSnapshotInvalid, err))
	}

	episode := &Episode{
		ID:      "episode-" + uuid.NewString(),
		Digest:  snap.Digest(),
		Horizon: snap.Horizon(),
	}
	span.SetAttributes(
		attribute.String("plankit.episode_id", episode.ID),
		attribute.Int("plankit.horizon", episode.Horizon),
		attribute.Int("plankit.cars", len(snap.Cars)),
	)
	logger := p.logger.With("episode_id", episode.ID, "digest", episode.Digest[:12])

	if actions, ok := p.cachedPlan(ctx, episode.Digest, logger); ok {
		episode.Actions = actions
		episode.Cached = true
		p.metrics.recordEpisode(ctx, episode)
		return episode, nil
	}

	dir, err := p.writeArtifacts(ctx, snap, episode.ID)
	if err != nil {
		return nil, err
	}
	if !p.keepArtifacts {
		defer func() {
			if rmErr := os.RemoveAll(dir); rmErr != nil {
				logger.Warn("failed to remove episode directory", "dir", dir, "error", rmErr)
			}
		}()
	}

	solveStart := time.Now()
	planText, err := p.solve(ctx, dir)
	episode.SolveDuration = time.Since(solveStart)
	if err != nil {
		return nil, err
	}

	actions, err := p.translate(ctx, planText, snap)
	if err != nil {
		return nil, err
	}
	episode.Actions = actions

	if p.cache != nil {
		if err := p.cache.Put(ctx, episode.Digest, actions); err != nil {
			logger.Warn("failed to cache plan", "error", err)
		}
	}

	logger.Info("episode planned",
		"actions", len(actions),
		"horizon", episode.Horizon,
		"solve_duration", episode.SolveDuration)
	p.metrics.recordEpisode(ctx, episode)

	return episode, nil
}

// cachedPlan looks the digest up in the plan cache. Cache faults degrade
// to a miss: the planner is the source of truth, the cache only an
// optimization.
func (p *Planner) cachedPlan(ctx context.Context, digest string, logger *slog.Logger) ([]plan.Action, bool) {
	if p.cache == nil {
		return nil, false
	}

	actions, err := p.cache.Get(ctx, digest)
	if err == nil {
		logger.Debug("plan served from cache", "actions", len(actions))
		return actions, true
	}
	if !errors.Is(err, cache.ErrNotFound) {
		logger.Warn("plan cache lookup failed", "error", err)
	}
	return nil, false
}

// writeArtifacts encodes the snapshot and writes the domain and problem
// files into a fresh episode directory.
func (p *Planner) writeArtifacts(ctx context.Context, snap *snapshot.Snapshot, episodeID string) (string, error) {
	const op = "Planner.writeArtifacts"

	_, span := p.tracer.Start(ctx, "plankit.encode")
	defer span.End()

	domain, problem, err := encode.Build(snap)
	if err != nil {
		return "", NewEncodingError(op, err)
	}

	dir := filepath.Join(p.workDir, episodeID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", NewInternalError(op, fmt.Errorf("creating episode directory: %w", err))
	}

	if err := writeDocument(filepath.Join(dir, domainFileName), func(f *os.File) error {
		return pddl.WriteDomain(f, domain)
	}); err != nil {
		return "", NewEncodingError(op, err)
	}
	if err := writeDocument(filepath.Join(dir, problemFileName), func(f *os.File) error {
		return pddl.WriteProblem(f, problem)
	}); err != nil {
		return "", NewEncodingError(op, err)
	}

	return dir, nil
}

func writeDocument(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// solve invokes the external planner and classifies its failure modes.
func (p *Planner) solve(ctx context.Context, dir string) ([]byte, error) {
	const op = "Planner.solve"

	ctx, span := p.tracer.Start(ctx, "plankit.solve")
	defer span.End()

	planText, err := p.runner.Solve(ctx, dir, domainFileName, problemFileName)
	if err != nil {
		if errors.Is(err, solver.ErrNoPlan) {
			return nil, NewNoPlanError(op, fmt.Errorf("%w: %w", ErrNoPlanFound, err))
		}
		return nil, NewSolverError(op, fmt.Errorf("%w: %w", ErrSolverFailed, err))
	}
	return planText, nil
}

// translate parses the plan artifact and maps it to environment actions.
func (p *Planner) translate(ctx context.Context, planText []byte, snap *snapshot.Snapshot) ([]plan.Action, error) {
	const op = "Planner.translate"

	_, span := p.tracer.Start(ctx, "plankit.translate")
	defer span.End()

	steps, err := plan.Parse(bytes.NewReader(planText))
	if err != nil {
		return nil, NewParseError(op, fmt.Errorf("%w: %w", ErrPlanSyntax, err))
	}
	return plan.Translate(steps, snap.Agent.MinSpeed()), nil
}
