// Package snapshot holds the read-only simulation state a planning
// episode is derived from.
//
// A Snapshot captures one frame of the grid-world simulation: the grid
// dimensions, the agent's current cell and allowed speed range, every
// obstacle car with its constant speed, and the finish cell. Nothing in
// this package mutates a snapshot after construction; the entire derived
// planning model (occupancy timeline, transition facts, encoding) is
// rebuilt from a fresh snapshot each episode and discarded afterwards.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/gridway-ai/plankit/grid"
)

// Car is one obstacle in the grid. Cars move horizontally at a constant
// signed speed; only negative (leftward) speeds occur in this domain, and
// the lane never changes for a car's lifetime.
type Car struct {
	// ID distinguishes cars in the encoding ("car<ID>").
	ID int

	// Cell is the car's position at instant 0.
	Cell grid.Cell

	// Speed is cells per instant; the sign carries the direction.
	Speed int
}

// Magnitude returns the absolute speed in cells per instant.
func (c Car) Magnitude() int {
	if c.Speed < 0 {
		return -c.Speed
	}
	return c.Speed
}

// Name returns the symbolic object name used for the car in the encoding.
func (c Car) Name() string {
	return fmt.Sprintf("car%d", c.ID)
}

// Agent describes the controlled vehicle at instant 0.
type Agent struct {
	// Cell is the agent's current position.
	Cell grid.Cell

	// SpeedRange is the inclusive range of allowed forward speed
	// magnitudes, e.g. [1, 3] allows forward moves of 1, 2 or 3 cells.
	SpeedRange [2]int
}

// MinSpeed returns the smallest allowed forward magnitude.
func (a Agent) MinSpeed() int { return a.SpeedRange[0] }

// MaxSpeed returns the largest allowed forward magnitude.
func (a Agent) MaxSpeed() int { return a.SpeedRange[1] }

// Speeds enumerates every allowed forward magnitude in increasing order.
func (a Agent) Speeds() []int {
	speeds := make([]int, 0, a.MaxSpeed()-a.MinSpeed()+1)
	for s := a.MinSpeed(); s <= a.MaxSpeed(); s++ {
		speeds = append(speeds, s)
	}
	return speeds
}

// Snapshot is one frame of the simulation, sufficient to derive a full
// planning encoding.
type Snapshot struct {
	// Width is the number of grid columns.
	Width int

	// Lanes is the number of grid lanes.
	Lanes int

	// Agent is the controlled vehicle.
	Agent Agent

	// Cars are the obstacle vehicles.
	Cars []Car

	// Finish is the goal cell.
	Finish grid.Cell
}

// Index returns a cell lookup table for the snapshot's grid dimensions.
func (s *Snapshot) Index() *grid.Index {
	return grid.NewIndex(s.Width, s.Lanes)
}

// Horizon returns the number of future instants the encoding models:
// ceil(width / minimum agent speed magnitude) + 1, enough for the
// slowest allowed forward motion to traverse the grid. Instants range
// over [0, Horizon()].
func (s *Snapshot) Horizon() int {
	m := s.Agent.MinSpeed()
	return (s.Width+m-1)/m + 1
}

// Validate checks the snapshot for structural defects. Any defect is
// fatal for the episode: coordinates are never silently clamped.
func (s *Snapshot) Validate() error {
	if s.Width < 1 || s.Lanes < 1 {
		return fmt.Errorf("grid dimensions %dx%d must be positive", s.Width, s.Lanes)
	}

	ix := s.Index()
	if !ix.Contains(s.Agent.Cell) {
		return fmt.Errorf("agent cell %s outside %dx%d grid", s.Agent.Cell, s.Width, s.Lanes)
	}
	if !ix.Contains(s.Finish) {
		return fmt.Errorf("finish cell %s outside %dx%d grid", s.Finish, s.Width, s.Lanes)
	}
	if s.Agent.MinSpeed() < 1 || s.Agent.MaxSpeed() < s.Agent.MinSpeed() {
		return fmt.Errorf("agent speed range [%d, %d] invalid", s.Agent.MinSpeed(), s.Agent.MaxSpeed())
	}

	for _, car := range s.Cars {
		if !ix.Contains(car.Cell) {
			return fmt.Errorf("car%d cell %s outside %dx%d grid", car.ID, car.Cell, s.Width, s.Lanes)
		}
	}

	return nil
}

// Digest returns a hex-encoded SHA-256 over a canonical rendering of the
// snapshot. The planning encoding is deterministic given the snapshot, so
// the digest is a stable cache key: equal snapshots always plan to the
// same action sequence.
func (s *Snapshot) Digest() string {
	h := sha256.New()
	fmt.Fprintf(h, "grid:%dx%d\n", s.Width, s.Lanes)
	fmt.Fprintf(h, "agent:%s:%d..%d\n", s.Agent.Cell, s.Agent.MinSpeed(), s.Agent.MaxSpeed())
	fmt.Fprintf(h, "finish:%s\n", s.Finish)
	for _, car := range s.Cars {
		fmt.Fprintf(h, "car:%d:%s:%d\n", car.ID, car.Cell, car.Speed)
	}
	return hex.EncodeToString(h.Sum(nil))
}
