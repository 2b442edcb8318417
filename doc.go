// Package plankit plans safe crossings for an agent in a grid-driving
// simulation by reducing each decision step to classical planning.
//
// PlanKit takes a snapshot of the environment, unrolls the deterministic
// motion of every car over a bounded horizon into a time-expanded PDDL
// encoding, invokes an external classical planner (Fast Downward) over
// the encoding, and translates the resulting plan back into the action
// vocabulary the environment accepts.
//
// # Core Concepts
//
// The library is organized around several key concepts:
//
//   - Snapshot: an instantaneous description of the grid, the agent, and
//     every car with its lane, column, and signed speed
//   - Horizon: the number of future instants the encoding models, derived
//     from the grid width and the agent's minimum forward speed
//   - Occupancy timeline: the per-instant set of blocked cells obtained by
//     projecting car motion forward, including the cells fast cars sweep
//     through between instants
//   - Episode: one full planning round, from snapshot to translated actions
//
// # Pipeline
//
// A planning episode flows through dedicated packages:
//
//   - snapshot validates and fingerprints the environment description
//   - motion projects car positions to future instants
//   - occupancy builds the blocked/free timeline from those projections
//   - transition enumerates the agent's feasible moves per instant
//   - encode assembles the PDDL domain and problem via the pddl package
//   - solver runs Fast Downward over the written artifacts
//   - plan parses the solver output and maps it to environment actions
//
// # Getting Started
//
// Create a Planner and feed it snapshots:
//
//	import (
//		"github.com/gridway-ai/plankit"
//		"github.com/gridway-ai/plankit/snapshot"
//	)
//
//	planner, err := plankit.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	episode, err := planner.Plan(ctx, &snapshot.Snapshot{
//		Width:  10,
//		Lanes:  4,
//		Agent:  snapshot.Agent{Cell: grid.Cell{X: 0, Y: 0}, SpeedRange: [2]int{1, 3}},
//		Cars:   cars,
//		Finish: grid.Cell{X: 9, Y: 3},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, action := range episode.Actions {
//		env.Step(action)
//	}
//
// # Caching
//
// The encoding is a pure function of the snapshot, so identical snapshots
// always yield the same plan. Supply a cache to skip the solver on repeat
// states:
//
//	rdb, err := cache.NewRedis(cache.RedisOptions{URL: "redis://localhost:6379"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	planner, err := plankit.New(plankit.WithCache(rdb))
//
// # Error Handling
//
// Plan reports failures through sentinel errors checkable with errors.Is:
// ErrSnapshotInvalid for malformed input, ErrNoPlanFound when the problem
// is infeasible within its horizon, ErrSolverFailed for planner tooling
// faults, and ErrPlanSyntax for unparseable plan artifacts. ErrNoPlanFound
// is an ordinary outcome, not a fault: the caller typically falls back to
// a default action and replans on the next snapshot.
//
// # Observability
//
// The planner traces each episode phase and records episode counters and
// solve-duration histograms through OpenTelemetry. Pass WithTracer and
// WithMeter to bind specific providers; the globals are used otherwise.
package plankit
