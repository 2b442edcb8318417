// Package transition precomputes the agent's move outcomes for every
// cell, instant, and move kind.
//
// The resulting facts are the symbolic physics table the planner reasons
// over. The relation is total: every (cell, move, instant) combination
// resolves to exactly one destination cell, whether or not the agent
// could plausibly reach that cell. A lateral move whose diagonal
// destination is blocked degrades to a same-lane horizontal step instead
// of being omitted, so the planner always has a defined transition per
// cell and instant. Forward moves are purely arithmetic here; the action
// precondition in the encoding keeps the planner away from blocked
// forward destinations.
package transition

import (
	"github.com/gridway-ai/plankit/grid"
	"github.com/gridway-ai/plankit/occupancy"
	"github.com/gridway-ai/plankit/snapshot"
)

// Move is one of the three agent move kinds.
type Move int

const (
	// MoveUp shifts the agent one column toward the left edge and one
	// lane toward lane 0.
	MoveUp Move = iota

	// MoveDown shifts the agent one column toward the left edge and one
	// lane toward the last lane.
	MoveDown

	// MoveForward shifts the agent toward the left edge at a chosen
	// speed magnitude within its own lane.
	MoveForward
)

// String returns the move's name as it appears in the encoding.
func (m Move) String() string {
	switch m {
	case MoveUp:
		return "up"
	case MoveDown:
		return "down"
	case MoveForward:
		return "forward"
	default:
		return "unknown"
	}
}

// Fact records the destination of one move from one cell at one instant.
type Fact struct {
	Move    Move
	From    grid.Cell
	To      grid.Cell
	Instant int

	// Speed is the forward magnitude; zero for lateral moves.
	Speed int
}

// NextUp resolves a lateral-up move from c arriving at instant t. The
// column shifts one step left unless already at the left boundary; the
// lane shifts toward lane 0 unless already there. If the shifted cell is
// not free at t the lane component degrades back to c's lane.
func NextUp(tl *occupancy.Timeline, c grid.Cell, t int) grid.Cell {
	x := c.X
	if x > 0 {
		x--
	}
	y := c.Y
	if y > 0 {
		y--
	}
	if tl.Blocked(grid.Cell{X: x, Y: y}, t) {
		y = c.Y
	}
	return grid.Cell{X: x, Y: y}
}

// NextDown mirrors NextUp toward the last lane.
func NextDown(tl *occupancy.Timeline, c grid.Cell, t int) grid.Cell {
	x := c.X
	if x > 0 {
		x--
	}
	y := c.Y
	if y < tl.Index().Lanes()-1 {
		y++
	}
	if tl.Blocked(grid.Cell{X: x, Y: y}, t) {
		y = c.Y
	}
	return grid.Cell{X: x, Y: y}
}

// NextForward resolves a forward move of magnitude s from c. The left
// boundary is a sink: the column never goes below zero. Occupancy is not
// consulted; the encoding's action precondition rejects blocked forward
// destinations instead.
func NextForward(c grid.Cell, s int) grid.Cell {
	x := c.X - s
	if x < 0 {
		x = 0
	}
	return grid.Cell{X: x, Y: c.Y}
}

// Facts enumerates the full transition relation over every cell, every
// arrival instant in [1, horizon], and every move kind, in deterministic
// order: instants ascending, cells in grid order, up/down/forward per
// cell with forward speeds ascending.
func Facts(tl *occupancy.Timeline, agent snapshot.Agent) []Fact {
	cells := tl.Index().Cells()
	speeds := agent.Speeds()
	perCell := 2 + len(speeds)

	facts := make([]Fact, 0, tl.Horizon()*len(cells)*perCell)
	for t := 1; t <= tl.Horizon(); t++ {
		for _, c := range cells {
			facts = append(facts,
				Fact{Move: MoveUp, From: c, To: NextUp(tl, c, t), Instant: t},
				Fact{Move: MoveDown, From: c, To: NextDown(tl, c, t), Instant: t},
			)
			for _, s := range speeds {
				facts = append(facts, Fact{
					Move:    MoveForward,
					From:    c,
					To:      NextForward(c, s),
					Instant: t,
					Speed:   s,
				})
			}
		}
	}
	return facts
}
