package physics

// SolverSettings are the stabilization parameters shared by contacts and joints.
type SolverSettings struct {
	Baumgarte            float32 // fraction of positional error corrected per step
	PenetrationSlop      float32 // penetration tolerated without correction
	RestitutionThreshold float32 // closing speed below which contacts don't bounce
}

// combineFriction is the geometric mean, so one frictionless body makes the
// contact frictionless.
func combineFriction(a, b float32) float32 {
	return sqrtf(clamp(a, 0, 1) * clamp(b, 0, 1))
}

// combineRestitution averages the two bounciness values.
func combineRestitution(a, b float32) float32 {
	return (clamp(a, 0, 1) + clamp(b, 0, 1)) * 0.5
}

// solve runs PreSolve once over every constraint, then iterations passes of
// ApplyImpulse in the same order.
func solve(constraints []Constraint, bodies *Bodies, dt float32, iterations int) {
	for _, c := range constraints {
		c.PreSolve(bodies, dt)
	}
	if iterations < 1 {
		iterations = 1
	}
	for i := 0; i < iterations; i++ {
		for _, c := range constraints {
			c.ApplyImpulse(bodies)
		}
	}
}
