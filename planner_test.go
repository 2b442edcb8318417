package plankit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/gridway-ai/plankit/cache"
	"github.com/gridway-ai/plankit/grid"
	"github.com/gridway-ai/plankit/plan"
	"github.com/gridway-ai/plankit/snapshot"
	"github.com/gridway-ai/plankit/solver"
)

// stubRunner substitutes the external planner with canned output.
type stubRunner struct {
	planText []byte
	err      error

	mu      sync.Mutex
	calls   int
	lastDir string
}

func (r *stubRunner) Solve(_ context.Context, workDir, _, _ string) ([]byte, error) {
	r.mu.Lock()
	r.calls++
	r.lastDir = workDir
	r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	return r.planText, nil
}

func (r *stubRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// crossingSnapshot is a small 5x3 grid with one slow car between the
// agent and the finish.
func crossingSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Width: 5,
		Lanes: 3,
		Agent: snapshot.Agent{
			Cell:       grid.Cell{X: 0, Y: 0},
			SpeedRange: [2]int{1, 3},
		},
		Cars: []snapshot.Car{
			{ID: 1, Cell: grid.Cell{X: 3, Y: 1}, Speed: -1},
		},
		Finish: grid.Cell{X: 4, Y: 1},
	}
}

func TestPlanEndToEnd(t *testing.T) {
	runner := &stubRunner{
		planText: []byte("(forward pt0pt0 pt3pt0 0 1 -3)\n; cost = 1 (unit cost)\n"),
	}
	planner, err := New(
		WithRunner(runner),
		WithWorkDir(t.TempDir()),
	)
	require.NoError(t, err)

	snap := crossingSnapshot()
	episode, err := planner.Plan(context.Background(), snap)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(episode.ID, "episode-"))
	assert.Equal(t, snap.Digest(), episode.Digest)
	assert.Equal(t, 6, episode.Horizon)
	assert.False(t, episode.Cached)
	assert.Equal(t, 1, runner.callCount())

	require.Len(t, episode.Actions, 1)
	assert.Equal(t, plan.Action{Kind: plan.Forward, Speed: 3}, episode.Actions[0])
}

func TestPlanWritesArtifacts(t *testing.T) {
	runner := &stubRunner{planText: []byte("(up pt4pt1 pt3pt0 0 1)\n")}
	workDir := t.TempDir()
	planner, err := New(
		WithRunner(runner),
		WithWorkDir(workDir),
		WithKeepArtifacts(),
	)
	require.NoError(t, err)

	episode, err := planner.Plan(context.Background(), crossingSnapshot())
	require.NoError(t, err)

	dir := filepath.Join(workDir, episode.ID)
	assert.Equal(t, dir, runner.lastDir)

	domainText, err := os.ReadFile(filepath.Join(dir, "domain.pddl"))
	require.NoError(t, err)
	assert.Contains(t, string(domainText), "(define (domain grid_world)")

	problemText, err := os.ReadFile(filepath.Join(dir, "problem.pddl"))
	require.NoError(t, err)
	problem := string(problemText)

	// The car at (3,1) drifting left blocks (3,1) now and (2,1) next.
	assert.Contains(t, problem, "(blocked pt3pt1 0)")
	assert.Contains(t, problem, "(blocked pt2pt1 1)")
	// The goal accepts the finish cell at any instant.
	assert.Contains(t, problem, "(at pt4pt1 0 agent1)")
	assert.Contains(t, problem, "(at pt4pt1 5 agent1)")
}

func TestPlanCleansArtifactsByDefault(t *testing.T) {
	runner := &stubRunner{planText: []byte("(forward pt0pt0 pt3pt0 0 1 -3)\n")}
	workDir := t.TempDir()
	planner, err := New(
		WithRunner(runner),
		WithWorkDir(workDir),
	)
	require.NoError(t, err)

	episode, err := planner.Plan(context.Background(), crossingSnapshot())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(workDir, episode.ID))
	assert.True(t, os.IsNotExist(err))
}

func TestPlanInvalidSnapshot(t *testing.T) {
	planner, err := New(WithRunner(&stubRunner{}))
	require.NoError(t, err)

	snap := crossingSnapshot()
	snap.Agent.Cell = grid.Cell{X: 99, Y: 0}

	_, err = planner.Plan(context.Background(), snap)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSnapshotInvalid)

	var pkErr *Error
	require.ErrorAs(t, err, &pkErr)
	assert.Equal(t, KindValidation, pkErr.Kind)
}

func TestPlanNoPlanFound(t *testing.T) {
	runner := &stubRunner{err: solver.ErrNoPlan}
	planner, err := New(WithRunner(runner), WithWorkDir(t.TempDir()))
	require.NoError(t, err)

	_, err = planner.Plan(context.Background(), crossingSnapshot())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPlanFound)
	assert.NotErrorIs(t, err, ErrSolverFailed)
}

func TestPlanSolverFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("planner binary exploded")}
	planner, err := New(WithRunner(runner), WithWorkDir(t.TempDir()))
	require.NoError(t, err)

	_, err = planner.Plan(context.Background(), crossingSnapshot())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSolverFailed)
	assert.NotErrorIs(t, err, ErrNoPlanFound)
}

func TestPlanMalformedPlanText(t *testing.T) {
	runner := &stubRunner{planText: []byte("(warp somewhere)\n")}
	planner, err := New(WithRunner(runner), WithWorkDir(t.TempDir()))
	require.NoError(t, err)

	_, err = planner.Plan(context.Background(), crossingSnapshot())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlanSyntax)
}

func TestPlanCacheRoundTrip(t *testing.T) {
	runner := &stubRunner{planText: []byte("(forward pt0pt0 pt3pt0 0 1 -3)\n")}
	planner, err := New(
		WithRunner(runner),
		WithWorkDir(t.TempDir()),
		WithCache(cache.NewMemory()),
	)
	require.NoError(t, err)

	snap := crossingSnapshot()

	first, err := planner.Plan(context.Background(), snap)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, runner.callCount())

	second, err := planner.Plan(context.Background(), snap)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Actions, second.Actions)
	assert.Equal(t, 1, runner.callCount(), "cached episode must not invoke the planner")
}

func TestPlanEmitsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	runner := &stubRunner{planText: []byte("(forward pt0pt0 pt3pt0 0 1 -3)\n")}
	planner, err := New(
		WithRunner(runner),
		WithWorkDir(t.TempDir()),
		WithTracer(tp.Tracer("plankit-test")),
	)
	require.NoError(t, err)

	_, err = planner.Plan(context.Background(), crossingSnapshot())
	require.NoError(t, err)

	names := make([]string, 0, 4)
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	assert.Contains(t, names, "plankit.Plan")
	assert.Contains(t, names, "plankit.encode")
	assert.Contains(t, names, "plankit.solve")
	assert.Contains(t, names, "plankit.translate")
}
