package sim

import (
	"math"
	"testing"
)

func mustLorentz(t *testing.T) *LorentzTable {
	t.Helper()
	table, err := NewLorentzTable(NewVec2(0, 0), 10, []Scatterer{{Center: NewVec2(0, 0), Radius: 2}})
	if err != nil {
		t.Fatalf("NewLorentzTable: %v", err)
	}
	return table
}

func TestLorentzRejectsBadScatterers(t *testing.T) {
	if _, err := NewLorentzTable(NewVec2(0, 0), 10, []Scatterer{{Center: NewVec2(0, 0), Radius: 0}}); err == nil {
		t.Error("expected error for zero-radius scatterer")
	}
	if _, err := NewLorentzTable(NewVec2(0, 0), 10, []Scatterer{{Center: NewVec2(9, 0), Radius: 3}}); err == nil {
		t.Error("expected error for scatterer crossing the outer wall")
	}
}

func TestLorentzContains(t *testing.T) {
	table := mustLorentz(t)
	if table.Contains(NewVec2(1, 0)) {
		t.Error("point inside scatterer must not be contained")
	}
	if !table.Contains(NewVec2(5, 0)) {
		t.Error("annulus point must be contained")
	}
	if table.Contains(NewVec2(11, 0)) {
		t.Error("point beyond outer wall must not be contained")
	}
}

func TestLorentzScattererReflection(t *testing.T) {
	table := mustLorentz(t)
	ball := &Ball{Position: NewVec2(4, 0), Velocity: NewVec2(-3, 0)}
	s, err := NewSimulation(table, []*Ball{ball})
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}

	s.StepAll(1)

	if math.Abs(ball.Position.X-2) > 1e-9 || math.Abs(ball.Position.Y) > 1e-9 {
		t.Errorf("position = %+v, want (2, 0)", ball.Position)
	}
	if math.Abs(ball.Velocity.X-3) > 1e-9 || math.Abs(ball.Velocity.Y) > 1e-9 {
		t.Errorf("velocity = %+v, want (3, 0)", ball.Velocity)
	}
}

func TestLorentzOuterWallReflection(t *testing.T) {
	table := mustLorentz(t)
	ball := &Ball{Position: NewVec2(9, 0), Velocity: NewVec2(3, 0)}
	s, _ := NewSimulation(table, []*Ball{ball})

	s.StepAll(1)

	if math.Abs(ball.Position.X-10) > 1e-9 {
		t.Errorf("position = %+v, want (10, 0)", ball.Position)
	}
	if math.Abs(ball.Velocity.X+3) > 1e-9 {
		t.Errorf("velocity = %+v, want (-3, 0)", ball.Velocity)
	}
}

func TestLorentzEarliestBoundaryWins(t *testing.T) {
	// Path crosses the scatterer before it would reach the outer wall.
	table := mustLorentz(t)
	ball := &Ball{Position: NewVec2(6, 0), Velocity: NewVec2(-20, 0)}
	s, _ := NewSimulation(table, []*Ball{ball})

	s.StepAll(1)

	// Reflected off the scatterer rim at (2, 0), not the far wall.
	if ball.Velocity.X <= 0 {
		t.Errorf("velocity = %+v, want reflected to +x off the scatterer", ball.Velocity)
	}
}

func TestLorentzSpeedConservationAndContainment(t *testing.T) {
	table := mustLorentz(t)
	ball := &Ball{Position: NewVec2(5, 3), Velocity: NewVec2(2.1, -3.4)}
	s, _ := NewSimulation(table, []*Ball{ball})

	speed0 := ball.Speed()
	for i := 0; i < 10000; i++ {
		s.StepAll(0.05)
		if d := ball.Position.Magnitude(); d > 10+1e-9 {
			t.Fatalf("tick %d: escaped outer wall to %g", i, d)
		}
		if d := ball.Position.Magnitude(); d < 2-1e-9 {
			t.Fatalf("tick %d: penetrated scatterer to %g", i, d)
		}
	}
	if diff := math.Abs(ball.Speed() - speed0); diff > 1e-9 {
		t.Errorf("speed drifted by %g", diff)
	}
}

func TestLorentzOutline(t *testing.T) {
	table := mustLorentz(t)
	out := table.Outline()
	if out.Boundary.Kind != "circle" || len(out.Obstacles) != 1 {
		t.Errorf("unexpected outline %+v", out)
	}
	if out.Obstacles[0].Radius != 2 {
		t.Errorf("obstacle radius = %g, want 2", out.Obstacles[0].Radius)
	}
}
