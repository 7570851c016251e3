package sim

import (
	"math"
	"testing"
)

func TestVec2Arithmetic(t *testing.T) {
	a := NewVec2(3, 4)
	b := NewVec2(-1, 2)

	if got := a.Plus(b); got != (Vec2{2, 6}) {
		t.Errorf("Plus = %+v, want {2 6}", got)
	}
	if got := a.Minus(b); got != (Vec2{4, 2}) {
		t.Errorf("Minus = %+v, want {4 2}", got)
	}
	if got := a.Dot(b); got != 5 {
		t.Errorf("Dot = %g, want 5", got)
	}
	if got := a.Magnitude(); got != 5 {
		t.Errorf("Magnitude = %g, want 5", got)
	}
	if got := a.Cross(b); got != 10 {
		t.Errorf("Cross = %g, want 10", got)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	if got := (Vec2{}).Normalize(); !got.IsZero() {
		t.Errorf("Normalize of zero = %+v, want zero", got)
	}
}

func TestReflectPreservesSpeed(t *testing.T) {
	v := NewVec2(3.7, -2.1)
	n := NewVec2(1, 1).Normalize()

	r := v.Reflect(n)
	if diff := math.Abs(r.Magnitude() - v.Magnitude()); diff > 1e-12 {
		t.Errorf("speed changed by %g under reflection", diff)
	}

	// Reflecting twice across the same normal restores the vector.
	rr := r.Reflect(n)
	if math.Abs(rr.X-v.X) > 1e-12 || math.Abs(rr.Y-v.Y) > 1e-12 {
		t.Errorf("double reflection = %+v, want %+v", rr, v)
	}
}

func TestReflectHeadOn(t *testing.T) {
	v := NewVec2(3, 0)
	got := v.Reflect(NewVec2(1, 0))
	if got != (Vec2{-3, 0}) {
		t.Errorf("Reflect = %+v, want {-3 0}", got)
	}
}

func TestLeftNormalPerpendicular(t *testing.T) {
	v := NewVec2(2, 5)
	if got := v.Dot(v.LeftNormal()); got != 0 {
		t.Errorf("LeftNormal not perpendicular, dot = %g", got)
	}
}
