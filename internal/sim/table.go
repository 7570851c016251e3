package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrBallOutside is returned when a configured initial position is not
	// strictly inside the table boundary.
	ErrBallOutside = errors.New("initial ball position outside table boundary")

	// ErrNoBalls is returned when a simulation is built with an empty ball list.
	ErrNoBalls = errors.New("simulation requires at least one ball")

	// ErrBadGeometry is returned by table constructors for degenerate shapes.
	ErrBadGeometry = errors.New("invalid table geometry")
)

// Table is the geometric contract a concrete shape implements. The stepping
// loop is shape-independent; only boundary detection and reflection belong
// to the variant.
type Table interface {
	// Contains reports whether p lies strictly inside the table interior.
	Contains(p Vec2) bool

	// Step is called after the ball's position has already been advanced by
	// dt under its pre-step velocity. If the new position left the interior,
	// the variant finds the earliest crossing in [0, dt], moves the ball
	// back onto the boundary and reflects its velocity specularly
	// (v' = v - 2(v·n)n). Balls still inside are left untouched.
	Step(b *Ball, dt float64)

	// Outline describes the table geometry for the rendering side. The
	// physics never reads it.
	Outline() Outline
}

// Shape is one drawable element of a table outline.
type Shape struct {
	Kind     string  `json:"kind"` // "circle" or "polygon"
	Center   Vec2    `json:"center,omitempty"`
	Radius   float64 `json:"radius,omitempty"`
	Vertices []Vec2  `json:"vertices,omitempty"`
}

// Outline is the presentation descriptor a renderer consumes: the outer
// boundary plus any interior obstacles.
type Outline struct {
	Boundary  Shape   `json:"boundary"`
	Obstacles []Shape `json:"obstacles,omitempty"`
}

// Simulation owns the ball list and a concrete table and provides the
// shape-independent stepping loop. It holds no timers; the caller drives it
// one tick at a time.
type Simulation struct {
	table Table
	balls []*Ball
}

// NewSimulation validates that every ball starts strictly inside the table.
// A position on or beyond the boundary is a configuration error, fatal to
// the run, rather than something to discover as a spurious first-tick
// collision.
func NewSimulation(table Table, balls []*Ball) (*Simulation, error) {
	if len(balls) == 0 {
		return nil, ErrNoBalls
	}
	for i, b := range balls {
		if !table.Contains(b.Position) {
			return nil, fmt.Errorf("ball %d at (%g, %g): %w", i+1, b.Position.X, b.Position.Y, ErrBallOutside)
		}
	}
	return &Simulation{table: table, balls: balls}, nil
}

// StepAll advances every ball by dt and then lets the table correct it
// against the boundary. The ordering is load-bearing: Step always observes
// the post-integration, possibly out-of-bounds position.
func (s *Simulation) StepAll(dt float64) {
	for _, b := range s.balls {
		b.Position = b.Position.Plus(b.Velocity.Times(dt))
		s.table.Step(b, dt)
	}
}

// Balls exposes the owned ball list for the rendering side to read between
// ticks. Callers must not mutate ball state while a tick is running.
func (s *Simulation) Balls() []*Ball {
	return s.balls
}

// Table returns the table the simulation steps against.
func (s *Simulation) Table() Table {
	return s.table
}
