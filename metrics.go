package plankit

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// plannerMetrics holds the planner's OpenTelemetry instruments.
type plannerMetrics struct {
	episodes      metric.Int64Counter
	cacheHits     metric.Int64Counter
	actions       metric.Int64Histogram
	solveDuration metric.Float64Histogram
}

func newPlannerMetrics(meter metric.Meter) (*plannerMetrics, error) {
	episodes, err := meter.Int64Counter("plankit.episodes",
		metric.WithDescription("Completed planning episodes"),
		metric.WithUnit("{episode}"))
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter("plankit.cache.hits",
		metric.WithDescription("Episodes served from the plan cache"),
		metric.WithUnit("{episode}"))
	if err != nil {
		return nil, err
	}

	actions, err := meter.Int64Histogram("plankit.plan.actions",
		metric.WithDescription("Actions per translated plan"),
		metric.WithUnit("{action}"))
	if err != nil {
		return nil, err
	}

	solveDuration, err := meter.Float64Histogram("plankit.solve.duration",
		metric.WithDescription("External planner wall-clock time"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &plannerMetrics{
		episodes:      episodes,
		cacheHits:     cacheHits,
		actions:       actions,
		solveDuration: solveDuration,
	}, nil
}

func (m *plannerMetrics) recordEpisode(ctx context.Context, episode *Episode) {
	cached := attribute.Bool("plankit.cached", episode.Cached)

	m.episodes.Add(ctx, 1, metric.WithAttributes(cached))
	m.actions.Record(ctx, int64(len(episode.Actions)), metric.WithAttributes(cached))

	if episode.Cached {
		m.cacheHits.Add(ctx, 1)
		return
	}
	m.solveDuration.Record(ctx, episode.SolveDuration.Seconds())
}
