package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// SpringConstraint is a damped spring between two anchors, solved as a soft
// distance constraint so stiff springs stay stable at the fixed timestep.
type SpringConstraint struct {
	anchorPair
	RestLength float32
	Stiffness  float32 // N/m
	Damping    float32 // N·s/m

	rA, rB  rl.Vector3
	axis    rl.Vector3
	mass    float32
	bias    float32
	gamma   float32
	impulse float32
}

// NewSpringConstraint joins world-space anchors on a and b. A negative rest
// length uses the anchors' current separation.
func NewSpringConstraint(a, b *Body, anchorA, anchorB rl.Vector3, restLength, stiffness, damping float32) *SpringConstraint {
	if restLength < 0 {
		restLength = rl.Vector3Distance(anchorA, anchorB)
	}
	return &SpringConstraint{
		anchorPair: newAnchorPair(a, b, anchorA, anchorB),
		RestLength: restLength,
		Stiffness:  stiffness,
		Damping:    damping,
	}
}

func (c *SpringConstraint) PreSolve(bodies *Bodies, dt float32) {
	c.mass = 0
	c.impulse = 0
	a, b, ok := bodies.resolvePair(c.BodyA, c.BodyB)
	if !ok || dt <= 0 {
		return
	}
	wakeJoined(a, b)
	soft := c.Damping + dt*c.Stiffness
	if soft <= 0 {
		return
	}

	c.rA, c.rB = c.leverArms(a, b)
	d := rl.Vector3Subtract(rl.Vector3Add(b.position, c.rB), rl.Vector3Add(a.position, c.rA))
	dist := rl.Vector3Length(d)
	c.axis = normalizeOr(d, rl.Vector3{Y: 1})

	k := pointInvMass(a, b, c.rA, c.rB, c.axis)
	if k <= 0 {
		return
	}

	c.gamma = 1 / (dt * soft)
	beta := dt * c.Stiffness / soft
	c.bias = (dist - c.RestLength) * beta / dt
	c.mass = 1 / (k + c.gamma)
}

func (c *SpringConstraint) ApplyImpulse(bodies *Bodies) {
	if c.mass == 0 {
		return
	}
	a, b, ok := bodies.resolvePair(c.BodyA, c.BodyB)
	if !ok {
		return
	}
	vn := dot(relativeVelocity(a, b, c.rA, c.rB), c.axis)
	lambda := -c.mass * (vn + c.bias + c.gamma*c.impulse)
	c.impulse += lambda
	applyPairImpulse(a, b, c.rA, c.rB, rl.Vector3Scale(c.axis, lambda))
}
