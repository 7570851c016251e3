package sim

import (
	"fmt"
	"math"
)

// Scatterer is a circular obstacle inside a Lorentz table.
type Scatterer struct {
	Center Vec2    `json:"center"`
	Radius float64 `json:"radius"`
}

// LorentzTable is a Sinai-style billiard: a circular outer wall with circular
// scatterers inside it. A ball bounces off whichever boundary — wall or
// scatterer — its path reaches first.
type LorentzTable struct {
	outer      *CircleTable
	scatterers []Scatterer
}

func NewLorentzTable(center Vec2, radius float64, scatterers []Scatterer) (*LorentzTable, error) {
	outer, err := NewCircleTable(center, radius)
	if err != nil {
		return nil, err
	}
	for i, s := range scatterers {
		if s.Radius <= 0 {
			return nil, fmt.Errorf("scatterer %d radius %g: %w", i, s.Radius, ErrBadGeometry)
		}
		if s.Center.Minus(center).Magnitude()+s.Radius >= radius {
			return nil, fmt.Errorf("scatterer %d extends beyond outer wall: %w", i, ErrBadGeometry)
		}
	}
	return &LorentzTable{outer: outer, scatterers: scatterers}, nil
}

func (t *LorentzTable) Contains(p Vec2) bool {
	if !t.outer.Contains(p) {
		return false
	}
	for _, s := range t.scatterers {
		if p.Minus(s.Center).MagnitudeSquared() <= s.Radius*s.Radius {
			return false
		}
	}
	return true
}

func (t *LorentzTable) Outline() Outline {
	out := t.outer.Outline()
	for _, s := range t.scatterers {
		out.Obstacles = append(out.Obstacles, Shape{Kind: "circle", Center: s.Center, Radius: s.Radius})
	}
	return out
}

// Step resolves the earliest crossing in [0, dt] among the outer wall and
// every scatterer, snaps the ball onto that boundary, and reflects across
// its radial normal.
func (t *LorentzTable) Step(b *Ball, dt float64) {
	if t.Contains(b.Position) {
		return
	}

	start := b.Position.Minus(b.Velocity.Times(dt))

	best := math.Inf(1)
	var center Vec2
	var radius float64
	if hit, ok := circleCrossing(start, b.Velocity, t.outer.center, t.outer.radius, dt); ok {
		best, center, radius = hit, t.outer.center, t.outer.radius
	}
	for _, s := range t.scatterers {
		if hit, ok := circleCrossing(start, b.Velocity, s.Center, s.Radius, dt); ok && hit < best {
			best, center, radius = hit, s.Center, s.Radius
		}
	}

	if math.IsInf(best, 1) {
		hit, ok := bisectCrossing(func(tt float64) bool {
			return t.Contains(start.Plus(b.Velocity.Times(tt)))
		}, dt, b.Speed())
		if !ok {
			// No time correction: reflect at the nearest boundary.
			n := t.nearestBoundaryNormal(b.Position)
			if !n.IsZero() {
				b.Velocity = b.Velocity.Reflect(n)
			}
			return
		}
		contact := start.Plus(b.Velocity.Times(hit))
		center, radius = t.nearestBoundary(contact)
		best = hit
	}

	contact := start.Plus(b.Velocity.Times(best))
	n := contact.Minus(center).Normalize()
	b.Position = center.Plus(n.Times(radius))
	b.Velocity = b.Velocity.Reflect(n)
}

// nearestBoundary returns the circle (wall or scatterer) whose rim is
// closest to p.
func (t *LorentzTable) nearestBoundary(p Vec2) (Vec2, float64) {
	center, radius := t.outer.center, t.outer.radius
	bestDist := math.Abs(t.outer.radius - p.Minus(t.outer.center).Magnitude())
	for _, s := range t.scatterers {
		if d := math.Abs(p.Minus(s.Center).Magnitude() - s.Radius); d < bestDist {
			bestDist = d
			center, radius = s.Center, s.Radius
		}
	}
	return center, radius
}

func (t *LorentzTable) nearestBoundaryNormal(p Vec2) Vec2 {
	center, _ := t.nearestBoundary(p)
	return p.Minus(center).Normalize()
}
