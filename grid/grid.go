// Package grid enumerates and names the cells of a rectangular grid world.
//
// Cells are addressed by integer coordinates: X is the column (0 at the
// left edge, the agent's destination side), Y is the lane (0 is the top
// lane). Every cell carries a deterministic symbolic name of the form
// "pt<X>pt<Y>" so the same cell is always referenced by the same object
// in the planning encoding.
package grid

import (
	"fmt"
	"regexp"
	"strconv"
)

// Cell identifies a single grid location.
type Cell struct {
	// X is the column index in [0, width).
	X int

	// Y is the lane index in [0, lanes).
	Y int
}

// Name returns the deterministic symbolic name for the cell, e.g. "pt3pt1"
// for (3, 1). The name is stable across episodes and invertible via
// ParseCell.
func (c Cell) Name() string {
	return fmt.Sprintf("pt%dpt%d", c.X, c.Y)
}

// String implements fmt.Stringer using the symbolic name.
func (c Cell) String() string {
	return c.Name()
}

var cellNamePattern = regexp.MustCompile(`^pt(\d+)pt(\d+)$`)

// ParseCell inverts Name, recovering the cell coordinates from a symbolic
// name. It returns an error for anything that does not match the
// "pt<X>pt<Y>" shape.
func ParseCell(name string) (Cell, error) {
	m := cellNamePattern.FindStringSubmatch(name)
	if m == nil {
		return Cell{}, fmt.Errorf("grid: malformed cell name %q", name)
	}

	// The pattern guarantees both captures are decimal digit runs.
	x, err := strconv.Atoi(m[1])
	if err != nil {
		return Cell{}, fmt.Errorf("grid: malformed cell name %q: %w", name, err)
	}
	y, err := strconv.Atoi(m[2])
	if err != nil {
		return Cell{}, fmt.Errorf("grid: malformed cell name %q: %w", name, err)
	}

	return Cell{X: x, Y: y}, nil
}

// Index is a pure lookup table over the cells of a width x lanes grid.
// Dimensions must be positive; callers are expected to validate snapshot
// dimensions before constructing an Index.
type Index struct {
	width int
	lanes int
}

// NewIndex creates an Index for a grid of the given dimensions.
func NewIndex(width, lanes int) *Index {
	return &Index{width: width, lanes: lanes}
}

// Width returns the number of columns.
func (ix *Index) Width() int { return ix.width }

// Lanes returns the number of lanes.
func (ix *Index) Lanes() int { return ix.lanes }

// Size returns the total number of cells.
func (ix *Index) Size() int { return ix.width * ix.lanes }

// Contains reports whether the cell lies inside the grid bounds.
func (ix *Index) Contains(c Cell) bool {
	return c.X >= 0 && c.X < ix.width && c.Y >= 0 && c.Y < ix.lanes
}

// Cells enumerates every grid cell in deterministic column-major order:
// (0,0), (0,1), ... (0,lanes-1), (1,0), ... All emitted encodings and
// derived fact listings follow this order.
func (ix *Index) Cells() []Cell {
	cells := make([]Cell, 0, ix.Size())
	for x := 0; x < ix.width; x++ {
		for y := 0; y < ix.lanes; y++ {
			cells = append(cells, Cell{X: x, Y: y})
		}
	}
	return cells
}
