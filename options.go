package plankit

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridway-ai/plankit/cache"
)

// Option configures a Planner.
type Option func(*plannerConfig)

// plannerConfig holds configuration for a Planner instance.
type plannerConfig struct {
	logger        *slog.Logger
	tracer        trace.Tracer
	meter         metric.Meter
	runner        Runner
	cache         cache.Cache
	workDir       string
	keepArtifacts bool
}

// WithLogger sets a custom structured logger.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *plannerConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer so the encode, solve and
// translate phases of each episode appear as spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *plannerConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter for episode metrics (episode
// counter, solver duration, cache hits).
func WithMeter(meter metric.Meter) Option {
	return func(c *plannerConfig) {
		c.meter = meter
	}
}

// WithRunner sets the external planner runner. If not provided, a
// solver.Solver with Fast Downward defaults is used.
func WithRunner(runner Runner) Option {
	return func(c *plannerConfig) {
		c.runner = runner
	}
}

// WithCache sets a plan cache keyed by snapshot digest. Without a cache
// every Plan call invokes the external planner.
func WithCache(pc cache.Cache) Option {
	return func(c *plannerConfig) {
		c.cache = pc
	}
}

// WithWorkDir sets the directory under which per-episode working
// directories are created. Defaults to the OS temp directory. Each
// episode gets its own subdirectory, so parallel episodes never share
// artifacts.
func WithWorkDir(dir string) Option {
	return func(c *plannerConfig) {
		c.workDir = dir
	}
}

// WithKeepArtifacts disables the cleanup of episode working directories,
// leaving the domain, problem and plan files on disk for inspection.
func WithKeepArtifacts() Option {
	return func(c *plannerConfig) {
		c.keepArtifacts = true
	}
}
