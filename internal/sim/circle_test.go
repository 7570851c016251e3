package sim

import (
	"math"
	"testing"
)

func mustCircle(t *testing.T, center Vec2, radius float64) *CircleTable {
	t.Helper()
	table, err := NewCircleTable(center, radius)
	if err != nil {
		t.Fatalf("NewCircleTable: %v", err)
	}
	return table
}

func TestCircleRejectsBadRadius(t *testing.T) {
	if _, err := NewCircleTable(NewVec2(0, 0), 0); err == nil {
		t.Error("expected error for zero radius")
	}
	if _, err := NewCircleTable(NewVec2(0, 0), -3); err == nil {
		t.Error("expected error for negative radius")
	}
}

func TestCircleWallReflection(t *testing.T) {
	// Radius 10, ball at (9,0) moving (3,0), dt=1: integrated position
	// (12,0) is outside; the corrected result is (10,0) with velocity
	// (-3,0).
	table := mustCircle(t, NewVec2(0, 0), 10)
	ball := &Ball{Position: NewVec2(9, 0), Velocity: NewVec2(3, 0)}
	s, err := NewSimulation(table, []*Ball{ball})
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}

	s.StepAll(1)

	if math.Abs(ball.Position.X-10) > 1e-9 || math.Abs(ball.Position.Y) > 1e-9 {
		t.Errorf("position = %+v, want (10, 0)", ball.Position)
	}
	if math.Abs(ball.Velocity.X+3) > 1e-9 || math.Abs(ball.Velocity.Y) > 1e-9 {
		t.Errorf("velocity = %+v, want (-3, 0)", ball.Velocity)
	}
}

func TestCircleNoOpTickIsExact(t *testing.T) {
	table := mustCircle(t, NewVec2(0, 0), 100)
	ball := &Ball{Position: NewVec2(1, 2), Velocity: NewVec2(3, -4)}
	s, _ := NewSimulation(table, []*Ball{ball})

	s.StepAll(0.25)

	want := NewVec2(1+3*0.25, 2-4*0.25)
	if ball.Position != want {
		t.Errorf("position = %+v, want exactly %+v", ball.Position, want)
	}
	if ball.Velocity != (Vec2{3, -4}) {
		t.Errorf("velocity = %+v, want unchanged", ball.Velocity)
	}
}

func TestCircleSpeedConservation(t *testing.T) {
	table := mustCircle(t, NewVec2(0, 0), 10)
	ball := &Ball{Position: NewVec2(3, 4), Velocity: NewVec2(2.5, -1.3)}
	s, _ := NewSimulation(table, []*Ball{ball})

	speed0 := ball.Speed()
	for i := 0; i < 10000; i++ {
		s.StepAll(0.1)
	}
	if diff := math.Abs(ball.Speed() - speed0); diff > 1e-9 {
		t.Errorf("speed drifted by %g after 10000 ticks", diff)
	}
}

func TestCircleContainment(t *testing.T) {
	table := mustCircle(t, NewVec2(0, 0), 10)
	ball := &Ball{Position: NewVec2(-2, 7), Velocity: NewVec2(4.1, 3.3)}
	s, _ := NewSimulation(table, []*Ball{ball})

	for i := 0; i < 5000; i++ {
		s.StepAll(0.05)
		if d := ball.Position.Magnitude(); d > 10+1e-9 {
			t.Fatalf("tick %d: ball escaped to distance %g", i, d)
		}
	}
}

func TestCircleOffCenter(t *testing.T) {
	table := mustCircle(t, NewVec2(50, -20), 5)
	ball := &Ball{Position: NewVec2(54, -20), Velocity: NewVec2(2, 0)}
	s, _ := NewSimulation(table, []*Ball{ball})

	s.StepAll(1)

	if math.Abs(ball.Position.X-55) > 1e-9 || math.Abs(ball.Position.Y+20) > 1e-9 {
		t.Errorf("position = %+v, want (55, -20)", ball.Position)
	}
	if math.Abs(ball.Velocity.X+2) > 1e-9 {
		t.Errorf("velocity = %+v, want (-2, 0)", ball.Velocity)
	}
}

func TestCircleCrossingSolvesExit(t *testing.T) {
	hit, ok := circleCrossing(NewVec2(9, 0), NewVec2(3, 0), NewVec2(0, 0), 10, 1)
	if !ok {
		t.Fatal("expected a crossing")
	}
	if math.Abs(hit-1.0/3.0) > 1e-12 {
		t.Errorf("crossing time = %g, want 1/3", hit)
	}
}

func TestCircleCrossingStationaryBall(t *testing.T) {
	if _, ok := circleCrossing(NewVec2(9, 0), Vec2{}, NewVec2(0, 0), 10, 1); ok {
		t.Error("stationary ball should have no crossing")
	}
}

func TestCircleOutline(t *testing.T) {
	table := mustCircle(t, NewVec2(1, 2), 7)
	out := table.Outline()
	if out.Boundary.Kind != "circle" || out.Boundary.Radius != 7 || out.Boundary.Center != (Vec2{1, 2}) {
		t.Errorf("unexpected outline %+v", out)
	}
}
