// Package plan parses the external planner's plan artifact and translates
// it into environment-native actions.
//
// A plan is an ordered sequence of lines, each a parenthesized action
// instantiation such as
//
//	(up pt3pt2 pt2pt1 0 1)
//	(forward pt4pt1 pt1pt1 1 2 -3)
//
// Lines starting with anything other than '(' are planner commentary and
// are ignored. A '('-prefixed line that matches no known action shape is
// a fatal parse error: the plan file comes from a trusted tool, so a
// mismatch means the encoding and the parser disagree, not dirty input.
package plan

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/gridway-ai/plankit/grid"
)

// Kind is an environment-native action shape.
type Kind int

const (
	// LateralUp changes toward lane 0 while advancing one column.
	LateralUp Kind = iota

	// LateralDown changes toward the last lane while advancing one column.
	LateralDown

	// Forward advances within the lane at a chosen speed magnitude.
	Forward
)

// String returns the action kind's plan-file spelling.
func (k Kind) String() string {
	switch k {
	case LateralUp:
		return "up"
	case LateralDown:
		return "down"
	case Forward:
		return "forward"
	default:
		return "unknown"
	}
}

// Step is one parsed plan line with named fields.
type Step struct {
	Kind Kind
	From grid.Cell
	To   grid.Cell

	// FromInstant and ToInstant are the bound time parameters.
	FromInstant int
	ToInstant   int

	// Speed is the forward magnitude; zero for lateral steps.
	Speed int
}

// Action is the environment-native token fed to the simulation, one per
// control step.
type Action struct {
	Kind Kind `json:"kind"`

	// Speed is the forward magnitude; zero for lateral actions.
	Speed int `json:"speed,omitempty"`
}

// stepPattern names every field of an action line instead of slicing the
// line positionally. Planners print action names in lower case; the match
// is case-insensitive to stay robust against the domain's upper-case
// schema names. The trailing speed group only appears on forward lines.
var stepPattern = regexp.MustCompile(
	`(?i)^\((?P<action>up|down|forward)\s+(?P<from>\S+)\s+(?P<to>\S+)\s+(?P<t1>\d+)\s+(?P<t2>\d+)(?:\s+(?P<speed>-?\d+))?\s*\)\s*$`,
)

// Parse reads a plan artifact and returns its steps in plan order.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || line[0] != '(' {
			continue
		}

		step, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("plan: line %d: %w", lineNo, err)
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("plan: reading plan: %w", err)
	}

	return steps, nil
}

func parseLine(line string) (Step, error) {
	m := stepPattern.FindStringSubmatch(line)
	if m == nil {
		return Step{}, fmt.Errorf("unrecognized action line %q", line)
	}
	field := func(name string) string {
		return m[stepPattern.SubexpIndex(name)]
	}

	var step Step
	switch strings.ToLower(field("action")) {
	case "up":
		step.Kind = LateralUp
	case "down":
		step.Kind = LateralDown
	case "forward":
		step.Kind = Forward
	}

	var err error
	if step.From, err = grid.ParseCell(field("from")); err != nil {
		return Step{}, fmt.Errorf("action line %q: %w", line, err)
	}
	if step.To, err = grid.ParseCell(field("to")); err != nil {
		return Step{}, fmt.Errorf("action line %q: %w", line, err)
	}

	// The pattern guarantees the instants are digit runs.
	step.FromInstant, _ = strconv.Atoi(field("t1"))
	step.ToInstant, _ = strconv.Atoi(field("t2"))

	if step.Kind == Forward {
		raw := field("speed")
		if raw == "" {
			return Step{}, fmt.Errorf("forward action line %q is missing its speed", line)
		}
		s, err := strconv.Atoi(raw)
		if err != nil {
			return Step{}, fmt.Errorf("action line %q: bad speed %q", line, raw)
		}
		if s < 0 {
			s = -s
		}
		step.Speed = s
	}

	return step, nil
}

// Translate maps plan steps to environment actions in plan order.
//
// A lateral step whose endpoints stay in the same lane is the blocked
// diagonal degraded to a pure horizontal move; its real effect is a
// minimum-speed forward step, and translating it as a lateral would make
// the environment change lanes where the plan did not. A lateral whose
// endpoints differ in lane is genuine, including the left-boundary case
// where only the lane changes. minForward is the agent's smallest allowed
// forward magnitude.
func Translate(steps []Step, minForward int) []Action {
	actions := make([]Action, 0, len(steps))
	for _, step := range steps {
		switch step.Kind {
		case LateralUp, LateralDown:
			if step.From.Y == step.To.Y {
				actions = append(actions, Action{Kind: Forward, Speed: minForward})
			} else {
				actions = append(actions, Action{Kind: step.Kind})
			}
		case Forward:
			actions = append(actions, Action{Kind: Forward, Speed: step.Speed})
		}
	}
	return actions
}
