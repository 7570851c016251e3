package sim

import (
	"fmt"
	"math"
)

// cornerSlack is the window, as a fraction of the tick, within which two edge
// crossings count as simultaneous. A hit inside the window reflects across
// the averaged normal of the contributing edges.
const cornerSlack = 1e-9

// contactNudge pushes a corrected position just inside the boundary so the
// point-in-polygon test is unambiguous on the next tick.
const contactNudge = 1e-9

type polyEdge struct {
	p1, p2 Vec2
	normal Vec2 // unit inward normal
}

// PolygonTable is a billiard table bounded by a simple polygon. Vertices may
// be given in either winding order; the constructor normalizes to
// counter-clockwise so every edge's left normal points into the interior.
type PolygonTable struct {
	vertices []Vec2
	edges    []polyEdge
}

func NewPolygonTable(vertices []Vec2) (*PolygonTable, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d: %w", len(vertices), ErrBadGeometry)
	}

	area := 0.0
	for i := range vertices {
		j := (i + 1) % len(vertices)
		area += vertices[i].Cross(vertices[j])
	}
	if area == 0 {
		return nil, fmt.Errorf("polygon has zero area: %w", ErrBadGeometry)
	}

	vs := make([]Vec2, len(vertices))
	copy(vs, vertices)
	if area < 0 {
		for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
			vs[i], vs[j] = vs[j], vs[i]
		}
	}

	edges := make([]polyEdge, len(vs))
	for i := range vs {
		j := (i + 1) % len(vs)
		dir := vs[j].Minus(vs[i])
		if dir.IsZero() {
			return nil, fmt.Errorf("polygon has repeated vertex %d: %w", i, ErrBadGeometry)
		}
		edges[i] = polyEdge{p1: vs[i], p2: vs[j], normal: dir.Normalize().LeftNormal()}
	}

	return &PolygonTable{vertices: vs, edges: edges}, nil
}

// NewRectangleTable builds an axis-aligned rectangular table centered on the
// origin.
func NewRectangleTable(width, height float64) (*PolygonTable, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("rectangle %gx%g: %w", width, height, ErrBadGeometry)
	}
	w, h := width/2, height/2
	return NewPolygonTable([]Vec2{{-w, -h}, {w, -h}, {w, h}, {-w, h}})
}

// Contains is a crossing-number point-in-polygon test. Points exactly on an
// edge are not guaranteed a stable answer, which is why boundary contacts
// are nudged inward after reflection.
func (t *PolygonTable) Contains(p Vec2) bool {
	inside := false
	n := len(t.vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := t.vertices[i], t.vertices[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xCross := vj.X + (p.Y-vj.Y)*(vi.X-vj.X)/(vi.Y-vj.Y)
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

func (t *PolygonTable) Outline() Outline {
	vs := make([]Vec2, len(t.vertices))
	copy(vs, t.vertices)
	return Outline{Boundary: Shape{Kind: "polygon", Vertices: vs}}
}

// Step finds the earliest edge crossed by the ball's path over dt, places the
// ball just inside the crossing point, and reflects. A corner hit — two
// edges crossed at the same fraction of the tick — reflects across the
// averaged normal of the contributing edges.
func (t *PolygonTable) Step(b *Ball, dt float64) {
	if t.Contains(b.Position) {
		return
	}

	start := b.Position.Minus(b.Velocity.Times(dt))
	delta := b.Velocity.Times(dt)

	best := math.Inf(1)
	var normals []Vec2
	for _, e := range t.edges {
		u, ok := segmentCrossing(start, delta, e)
		if !ok {
			continue
		}
		if u < best-cornerSlack {
			best = u
			normals = normals[:0]
			normals = append(normals, e.normal)
		} else if u <= best+cornerSlack {
			normals = append(normals, e.normal)
		}
	}

	if len(normals) == 0 {
		// Closed-form sweep missed (grazing pass near a corner): root-find
		// the crossing time along the path instead.
		u, ok := bisectCrossing(func(tt float64) bool {
			return t.Contains(start.Plus(b.Velocity.Times(tt)))
		}, dt, b.Speed())
		if ok {
			contact := start.Plus(b.Velocity.Times(u))
			n := t.nearestEdgeNormal(contact)
			b.Position = contact.Plus(n.Times(contactNudge))
			b.Velocity = b.Velocity.Reflect(n)
			return
		}
		// No time correction: reflect in place and let the next tick bring
		// the ball back inside.
		b.Velocity = b.Velocity.Reflect(t.nearestEdgeNormal(b.Position))
		return
	}

	n := averageNormal(normals)
	contact := start.Plus(delta.Times(best))
	b.Position = contact.Plus(n.Times(contactNudge))
	b.Velocity = b.Velocity.Reflect(n)
}

// segmentCrossing intersects the motion segment start→start+delta with an
// edge and returns the fraction of the motion at which it crosses.
func segmentCrossing(start, delta Vec2, e polyEdge) (float64, bool) {
	edgeDelta := e.p2.Minus(e.p1)
	denom := delta.Cross(edgeDelta)
	if denom == 0 {
		return 0, false // parallel
	}
	toEdge := e.p1.Minus(start)
	u := toEdge.Cross(edgeDelta) / denom
	s := toEdge.Cross(delta) / denom
	if u < 0 || u > 1 || s < -cornerSlack || s > 1+cornerSlack {
		return 0, false
	}
	return u, true
}

// averageNormal combines the normals of simultaneously crossed edges. If
// they cancel exactly (opposing edges of a degenerate slit), the first one
// wins.
func averageNormal(normals []Vec2) Vec2 {
	sum := Vec2{}
	for _, n := range normals {
		sum = sum.Plus(n)
	}
	if sum.IsZero() {
		return normals[0]
	}
	return sum.Normalize()
}

func (t *PolygonTable) nearestEdgeNormal(p Vec2) Vec2 {
	bestDist := math.Inf(1)
	n := t.edges[0].normal
	for _, e := range t.edges {
		if d := distanceToSegment(p, e.p1, e.p2); d < bestDist {
			bestDist = d
			n = e.normal
		}
	}
	return n
}

func distanceToSegment(p, a, b Vec2) float64 {
	ab := b.Minus(a)
	tt := p.Minus(a).Dot(ab) / ab.MagnitudeSquared()
	if tt < 0 {
		tt = 0
	} else if tt > 1 {
		tt = 1
	}
	return p.Minus(a.Plus(ab.Times(tt))).Magnitude()
}
