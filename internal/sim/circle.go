package sim

import (
	"fmt"
	"math"
)

// CircleTable is a circular billiard table. The boundary test is exact
// (distance from center vs. radius) and the crossing time has a closed-form
// quadratic solution; bisection only runs if the quadratic degenerates.
type CircleTable struct {
	center Vec2
	radius float64
}

func NewCircleTable(center Vec2, radius float64) (*CircleTable, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("circle radius %g: %w", radius, ErrBadGeometry)
	}
	return &CircleTable{center: center, radius: radius}, nil
}

func (t *CircleTable) Contains(p Vec2) bool {
	return p.Minus(t.center).MagnitudeSquared() < t.radius*t.radius
}

func (t *CircleTable) Outline() Outline {
	return Outline{Boundary: Shape{Kind: "circle", Center: t.center, Radius: t.radius}}
}

// Step corrects a ball whose integrated position left the disk: it finds the
// crossing time within [0, dt], snaps the ball onto the boundary at the
// crossing point, and reflects the velocity across the radial normal.
func (t *CircleTable) Step(b *Ball, dt float64) {
	if t.Contains(b.Position) {
		return
	}

	start := b.Position.Minus(b.Velocity.Times(dt))
	hit, ok := circleCrossing(start, b.Velocity, t.center, t.radius, dt)
	if !ok {
		hit, ok = bisectCrossing(func(tt float64) bool {
			return t.Contains(start.Plus(b.Velocity.Times(tt)))
		}, dt, b.Speed())
	}
	if !ok {
		// Approximate fallback: no time correction, reflect at the nearest
		// boundary point.
		n := b.Position.Minus(t.center).Normalize()
		if n.IsZero() {
			return
		}
		b.Position = t.center.Plus(n.Times(t.radius))
		b.Velocity = b.Velocity.Reflect(n)
		return
	}

	contact := start.Plus(b.Velocity.Times(hit))
	n := contact.Minus(t.center).Normalize()
	b.Position = t.center.Plus(n.Times(t.radius))
	b.Velocity = b.Velocity.Reflect(n)
}

// circleCrossing solves |start + vel*t - center|^2 = radius^2 and returns the
// smallest root in [0, dt]. From inside that is the exit time; from outside,
// the entry time.
func circleCrossing(start, vel, center Vec2, radius, dt float64) (float64, bool) {
	a := vel.MagnitudeSquared()
	if a == 0 {
		return 0, false
	}
	d := start.Minus(center)
	bq := 2 * d.Dot(vel)
	cq := d.MagnitudeSquared() - radius*radius

	disc := bq*bq - 4*a*cq
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)

	t1 := (-bq - sq) / (2 * a)
	t2 := (-bq + sq) / (2 * a)
	if t1 >= 0 && t1 <= dt {
		return t1, true
	}
	if t2 >= 0 && t2 <= dt {
		return t2, true
	}
	return 0, false
}
