package sim

const (
	// crossingTol is the position tolerance for boundary crossing searches.
	crossingTol = 1e-9

	// maxBisectIterations bounds the bisection loop. 64 halvings of any
	// practical dt land far below crossingTol; hitting the cap means the
	// inside predicate is misbehaving and the caller must fall back to
	// reflection without time correction.
	maxBisectIterations = 64
)

// bisectCrossing searches [0, dt] for the first boundary crossing time of a
// straight-line path. inside reports whether the path point at time t is
// still in the interior; it must hold at t=0 and fail at t=dt. speed scales
// the time tolerance so convergence is measured in position units.
//
// Returns the crossing time and whether the search converged.
func bisectCrossing(inside func(t float64) bool, dt, speed float64) (float64, bool) {
	if dt <= 0 || !inside(0) || inside(dt) {
		return 0, false
	}

	tol := crossingTol
	if speed > 1 {
		tol = crossingTol / speed
	}

	lo, hi := 0.0, dt
	for i := 0; i < maxBisectIterations; i++ {
		mid := 0.5 * (lo + hi)
		if inside(mid) {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < tol {
			return hi, true
		}
	}
	return hi, false
}
