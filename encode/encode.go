// Package encode assembles a simulation snapshot into the planner's
// domain and problem documents.
//
// The domain is fixed for every episode: the type hierarchy, predicate
// vocabulary and the three action schemas never depend on the snapshot.
// The problem carries everything episode-specific: the object universe,
// the occupancy and transition facts derived from the snapshot, and the
// time-disjunctive goal. The action preconditions and the emitted facts
// are two halves of one contract; changing either side alone breaks the
// encoding.
package encode

import (
	"fmt"
	"strconv"

	"github.com/gridway-ai/plankit/occupancy"
	"github.com/gridway-ai/plankit/pddl"
	"github.com/gridway-ai/plankit/snapshot"
	"github.com/gridway-ai/plankit/transition"
)

const (
	// DomainName names the emitted planning domain.
	DomainName = "grid_world"

	// ProblemName names the emitted problem instance.
	ProblemName = "crossing"

	// AgentObject is the symbolic object representing the agent.
	AgentObject = "agent1"
)

// Build derives the complete encoding for one snapshot. The snapshot is
// validated first; any structural defect is fatal and nothing is emitted.
func Build(snap *snapshot.Snapshot) (*pddl.Domain, *pddl.Problem, error) {
	if err := snap.Validate(); err != nil {
		return nil, nil, fmt.Errorf("encode: invalid snapshot: %w", err)
	}

	tl := occupancy.Build(snap)
	return Domain(), problem(snap, tl), nil
}

// Domain returns the fixed domain document.
func Domain() *pddl.Domain {
	cellVar := func(name string) pddl.Param { return pddl.Param{Name: name, Type: "gridcell"} }
	timeVar := func(name string) pddl.Param { return pddl.Param{Name: name, Type: "time"} }

	moveParams := []pddl.Param{cellVar("pt1"), cellVar("pt2"), timeVar("t1"), timeVar("t2")}
	forwardParams := append(append([]pddl.Param{}, moveParams...), pddl.Param{Name: "s", Type: "speed"})

	// Each action requires the agent's occupancy fact, the matching
	// successor fact, an unblocked destination, and instant adjacency;
	// the effect asserts the new occupancy fact.
	precondition := func(successor pddl.Atom) pddl.Expr {
		return pddl.And{Exprs: []pddl.Expr{
			pddl.Atom{Name: "at", Args: []string{"?pt1", "?t1", AgentObject}},
			successor,
			pddl.Not{Expr: pddl.Atom{Name: "blocked", Args: []string{"?pt2", "?t2"}}},
			pddl.Atom{Name: "next_instant", Args: []string{"?t1", "?t2"}},
		}}
	}
	effect := pddl.Atom{Name: "at", Args: []string{"?pt2", "?t2", AgentObject}}

	return &pddl.Domain{
		Name:         DomainName,
		Requirements: []string{":strips", ":typing"},
		Types: []pddl.Type{
			{Name: "car"},
			{Name: "agent", Parent: "car"},
			{Name: "gridcell"},
			{Name: "time"},
			{Name: "speed"},
		},
		Predicates: []pddl.Predicate{
			{Name: "at", Params: []pddl.Param{cellVar("pt1"), timeVar("t"), {Name: "car", Type: "car"}}},
			{Name: "up_next", Params: []pddl.Param{cellVar("pt1"), cellVar("pt2"), timeVar("t")}},
			{Name: "down_next", Params: []pddl.Param{cellVar("pt1"), cellVar("pt2"), timeVar("t")}},
			{Name: "forward_next", Params: []pddl.Param{cellVar("pt1"), cellVar("pt2"), timeVar("t"), {Name: "s", Type: "speed"}}},
			{Name: "next_instant", Params: []pddl.Param{timeVar("t1"), timeVar("t2")}},
			{Name: "blocked", Params: []pddl.Param{cellVar("pt1"), timeVar("t")}},
		},
		Actions: []pddl.Action{
			{
				Name:         "UP",
				Params:       moveParams,
				Precondition: precondition(pddl.Atom{Name: "up_next", Args: []string{"?pt1", "?pt2", "?t2"}}),
				Effect:       effect,
			},
			{
				Name:         "DOWN",
				Params:       moveParams,
				Precondition: precondition(pddl.Atom{Name: "down_next", Args: []string{"?pt1", "?pt2", "?t2"}}),
				Effect:       effect,
			},
			{
				Name:         "FORWARD",
				Params:       forwardParams,
				Precondition: precondition(pddl.Atom{Name: "forward_next", Args: []string{"?pt1", "?pt2", "?t2", "?s"}}),
				Effect:       effect,
			},
		},
	}
}

// speedObject renders a forward magnitude as its (negative, leftward)
// speed object name.
func speedObject(s int) string {
	return strconv.Itoa(-s)
}

func problem(snap *snapshot.Snapshot, tl *occupancy.Timeline) *pddl.Problem {
	horizon := tl.Horizon()

	instants := make([]string, 0, horizon+1)
	for t := 0; t <= horizon; t++ {
		instants = append(instants, strconv.Itoa(t))
	}

	speeds := make([]string, 0, len(snap.Agent.Speeds()))
	for _, s := range snap.Agent.Speeds() {
		speeds = append(speeds, speedObject(s))
	}

	cars := make([]string, 0, len(snap.Cars))
	for _, car := range snap.Cars {
		cars = append(cars, car.Name())
	}

	cells := make([]string, 0, tl.Index().Size())
	for _, c := range tl.Index().Cells() {
		cells = append(cells, c.Name())
	}

	objects := []pddl.ObjectGroup{
		{Type: "agent", Names: []string{AgentObject}},
	}
	if len(cars) > 0 {
		objects = append(objects, pddl.ObjectGroup{Type: "car", Names: cars})
	}
	objects = append(objects,
		pddl.ObjectGroup{Type: "time", Names: instants},
		pddl.ObjectGroup{Type: "speed", Names: speeds},
		pddl.ObjectGroup{Type: "gridcell", Names: cells},
	)

	return &pddl.Problem{
		Name:    ProblemName,
		Domain:  DomainName,
		Objects: objects,
		Init:    initFacts(snap, tl),
		Goal:    goal(snap, horizon),
	}
}

// initFacts lists every initial fact in deterministic order: per instant
// the occupant and blocked facts, then the explicit not-blocked facts for
// free cells (from instant 1 on, so the planner never has to prove a
// negative), then the agent's starting fact, the transition relation, and
// instant adjacency.
func initFacts(snap *snapshot.Snapshot, tl *occupancy.Timeline) []pddl.Expr {
	var facts []pddl.Expr

	for t := 0; t <= tl.Horizon(); t++ {
		instant := strconv.Itoa(t)

		for _, o := range tl.Occupants(t) {
			facts = append(facts, pddl.Atom{Name: "at", Args: []string{o.Cell.Name(), instant, o.Car.Name()}})
		}
		for _, c := range tl.BlockedCells(t) {
			facts = append(facts, pddl.Atom{Name: "blocked", Args: []string{c.Name(), instant}})
		}
		if t >= 1 {
			for _, c := range tl.FreeCells(t) {
				facts = append(facts, pddl.Not{Expr: pddl.Atom{Name: "blocked", Args: []string{c.Name(), instant}}})
			}
		}
	}

	facts = append(facts, pddl.Atom{Name: "at", Args: []string{snap.Agent.Cell.Name(), "0", AgentObject}})

	for _, f := range transition.Facts(tl, snap.Agent) {
		instant := strconv.Itoa(f.Instant)
		switch f.Move {
		case transition.MoveUp:
			facts = append(facts, pddl.Atom{Name: "up_next", Args: []string{f.From.Name(), f.To.Name(), instant}})
		case transition.MoveDown:
			facts = append(facts, pddl.Atom{Name: "down_next", Args: []string{f.From.Name(), f.To.Name(), instant}})
		case transition.MoveForward:
			facts = append(facts, pddl.Atom{Name: "forward_next", Args: []string{f.From.Name(), f.To.Name(), instant, speedObject(f.Speed)}})
		}
	}

	for t := 0; t < tl.Horizon(); t++ {
		facts = append(facts, pddl.Atom{Name: "next_instant", Args: []string{strconv.Itoa(t), strconv.Itoa(t + 1)}})
	}

	return facts
}

// goal builds the time-disjunctive goal: the agent succeeds by occupying
// the finish cell at any instant in [0, horizon). The relaxation lets the
// planner take the earliest feasible arrival instead of matching an exact
// final instant.
func goal(snap *snapshot.Snapshot, horizon int) pddl.Expr {
	finish := snap.Finish.Name()
	disjuncts := make([]pddl.Expr, 0, horizon)
	for t := 0; t < horizon; t++ {
		disjuncts = append(disjuncts, pddl.Atom{
			Name: "at",
			Args: []string{finish, strconv.Itoa(t), AgentObject},
		})
	}
	return pddl.Or{Exprs: disjuncts}
}
