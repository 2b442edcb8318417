// Package occupancy derives, from a single snapshot, which grid cells are
// blocked at each instant of the planning horizon.
//
// The timeline is the symbolic future the planner reasons over: every
// obstacle trajectory is projected forward, the cells it occupies or
// sweeps through are marked blocked per instant, and every remaining cell
// is free by complement. Blocked and free cells partition the full cell
// set at every instant.
package occupancy

import (
	"github.com/gridway-ai/plankit/grid"
	"github.com/gridway-ai/plankit/motion"
	"github.com/gridway-ai/plankit/snapshot"
)

// Occupant records that a specific car sits on a cell at some instant.
// Swept-through cells are blocked without an occupant record.
type Occupant struct {
	Cell grid.Cell
	Car  snapshot.Car
}

// Timeline maps each instant in [0, Horizon()] to the set of blocked
// cells. It is immutable after Build.
type Timeline struct {
	index   *grid.Index
	horizon int

	blocked   []map[grid.Cell]struct{}
	occupants [][]Occupant
}

// Build projects every car over the snapshot's horizon and records the
// resulting occupancy. The snapshot is expected to be validated.
//
// Rules, per instant:
//
//   - Instant 0: every car's current cell is blocked, except the agent's
//     starting cell, which stays free. The agent is never its own
//     obstacle, even in the degenerate case where a car nominally shares
//     its start cell.
//   - Instant t >= 1: each car's projected cell is blocked and recorded
//     as an occupant, and a car faster than one cell per instant also
//     blocks every cell it sweeps through between its instant-(t-1) and
//     instant-t positions, departure cell included, honoring wraparound
//     direction.
//
// Cars are processed in snapshot order and the first writer wins per
// instant and cell: two trajectories crossing the same cell at the same
// instant yield a single blocking record. That is an accepted
// approximation of the simultaneous occupancy, not an error.
func Build(snap *snapshot.Snapshot) *Timeline {
	horizon := snap.Horizon()
	tl := &Timeline{
		index:     snap.Index(),
		horizon:   horizon,
		blocked:   make([]map[grid.Cell]struct{}, horizon+1),
		occupants: make([][]Occupant, horizon+1),
	}
	for t := 0; t <= horizon; t++ {
		tl.blocked[t] = make(map[grid.Cell]struct{})
	}

	for _, car := range snap.Cars {
		if car.Cell != snap.Agent.Cell {
			tl.claim(0, car.Cell, car)
		}
	}

	for t := 1; t <= horizon; t++ {
		for _, car := range snap.Cars {
			cur := motion.Project(car, t, snap.Width)
			tl.claim(t, cur, car)

			if car.Magnitude() > 1 {
				prev := motion.Project(car, t-1, snap.Width)
				for _, x := range sweptColumns(cur.X, prev.X, snap.Width) {
					tl.block(t, grid.Cell{X: x, Y: car.Cell.Y})
				}
			}
		}
	}

	return tl
}

// sweptColumns lists the columns a car passed through moving leftward from
// prev to cur in one instant, excluding cur (claimed separately) and
// including prev. A wrapped move covers both fragments of the row. When
// prev == cur the shift was a whole number of laps and the car is treated
// as stationary for sweep purposes.
func sweptColumns(cur, prev, width int) []int {
	var cols []int
	switch {
	case cur < prev:
		for x := cur + 1; x <= prev; x++ {
			cols = append(cols, x)
		}
	case cur > prev: // wrapped past the left edge
		for x := 0; x <= prev; x++ {
			cols = append(cols, x)
		}
		for x := cur + 1; x < width; x++ {
			cols = append(cols, x)
		}
	}
	return cols
}

// claim marks a cell blocked with an occupant record, unless an earlier
// car already claimed it at this instant.
func (tl *Timeline) claim(t int, c grid.Cell, car snapshot.Car) {
	if _, taken := tl.blocked[t][c]; taken {
		return
	}
	tl.blocked[t][c] = struct{}{}
	tl.occupants[t] = append(tl.occupants[t], Occupant{Cell: c, Car: car})
}

// block marks a swept cell blocked without an occupant record.
func (tl *Timeline) block(t int, c grid.Cell) {
	tl.blocked[t][c] = struct{}{}
}

// Horizon returns the last modeled instant.
func (tl *Timeline) Horizon() int { return tl.horizon }

// Index returns the cell lookup table the timeline was built over.
func (tl *Timeline) Index() *grid.Index { return tl.index }

// Blocked reports whether the cell is occupied or swept at instant t.
func (tl *Timeline) Blocked(c grid.Cell, t int) bool {
	_, ok := tl.blocked[t][c]
	return ok
}

// Free reports whether the cell is unoccupied at instant t.
func (tl *Timeline) Free(c grid.Cell, t int) bool {
	return !tl.Blocked(c, t)
}

// BlockedCells lists the blocked cells at instant t in grid order.
func (tl *Timeline) BlockedCells(t int) []grid.Cell {
	var cells []grid.Cell
	for _, c := range tl.index.Cells() {
		if tl.Blocked(c, t) {
			cells = append(cells, c)
		}
	}
	return cells
}

// FreeCells lists the free cells at instant t in grid order.
func (tl *Timeline) FreeCells(t int) []grid.Cell {
	var cells []grid.Cell
	for _, c := range tl.index.Cells() {
		if tl.Free(c, t) {
			cells = append(cells, c)
		}
	}
	return cells
}

// Occupants lists the (cell, car) records for instant t in the order the
// cells were claimed.
func (tl *Timeline) Occupants(t int) []Occupant {
	return tl.occupants[t]
}
