// Package motion projects obstacle trajectories over the planning horizon.
package motion

import (
	"github.com/gridway-ai/plankit/grid"
	"github.com/gridway-ai/plankit/snapshot"
)

// Project returns the cell a car occupies at instant t on a grid of the
// given width. Cars move leftward at constant speed within a fixed lane
// and wrap around at the left edge, so
//
//	x(t) = wrap(x(0) - |speed|*t, width)
//
// with a modulo reduction that is well-defined for any nonnegative t; the
// result never carries a negative-modulo artifact. Project is total for
// t >= 0 and a zero-speed car is a fixed point.
func Project(car snapshot.Car, t, width int) grid.Cell {
	shift := (car.Magnitude() * t) % width
	x := car.Cell.X - shift
	if x < 0 {
		x += width
	}
	return grid.Cell{X: x, Y: car.Cell.Y}
}
