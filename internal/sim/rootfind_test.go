package sim

import (
	"math"
	"testing"
)

func TestBisectCrossingConverges(t *testing.T) {
	// Path leaves the region x < 10 at t = 0.35.
	inside := func(tt float64) bool { return 2+tt*(8/0.35) < 10 }

	hit, ok := bisectCrossing(inside, 1, 8/0.35)
	if !ok {
		t.Fatal("expected convergence")
	}
	if math.Abs(hit-0.35) > 1e-9 {
		t.Errorf("crossing time = %g, want 0.35", hit)
	}
}

func TestBisectCrossingRequiresBracket(t *testing.T) {
	always := func(float64) bool { return true }
	if _, ok := bisectCrossing(always, 1, 1); ok {
		t.Error("no crossing should be found when the path stays inside")
	}

	never := func(float64) bool { return false }
	if _, ok := bisectCrossing(never, 1, 1); ok {
		t.Error("no crossing should be found when the start is already outside")
	}

	if _, ok := bisectCrossing(always, 0, 1); ok {
		t.Error("zero dt cannot bracket a crossing")
	}
}

func TestBisectCrossingHighSpeedTolerance(t *testing.T) {
	// At speed 1e6 the time tolerance shrinks so the position error stays
	// bounded.
	speed := 1e6
	crossing := 0.123456789
	inside := func(tt float64) bool { return tt < crossing }

	hit, ok := bisectCrossing(inside, 1, speed)
	if !ok {
		t.Fatal("expected convergence")
	}
	if posErr := math.Abs(hit-crossing) * speed; posErr > 1e-6 {
		t.Errorf("position error %g exceeds tolerance", posErr)
	}
}
