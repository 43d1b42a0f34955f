package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// DefaultJointBaumgarte is the drift correction factor given to new joints.
const DefaultJointBaumgarte = 0.2

// DistanceConstraint keeps two anchor points a fixed distance apart.
type DistanceConstraint struct {
	anchorPair
	Length    float32
	Baumgarte float32

	rA, rB rl.Vector3
	axis   rl.Vector3
	mass   float32
	bias   float32
}

// NewDistanceConstraint joins world-space anchors on a and b. A negative
// length uses the anchors' current separation.
func NewDistanceConstraint(a, b *Body, anchorA, anchorB rl.Vector3, length float32) *DistanceConstraint {
	if length < 0 {
		length = rl.Vector3Distance(anchorA, anchorB)
	}
	return &DistanceConstraint{
		anchorPair: newAnchorPair(a, b, anchorA, anchorB),
		Length:     length,
		Baumgarte:  DefaultJointBaumgarte,
	}
}

func (c *DistanceConstraint) PreSolve(bodies *Bodies, dt float32) {
	a, b, ok := bodies.resolvePair(c.BodyA, c.BodyB)
	if !ok || dt <= 0 {
		c.mass = 0
		return
	}
	wakeJoined(a, b)
	c.rA, c.rB = c.leverArms(a, b)
	d := rl.Vector3Subtract(rl.Vector3Add(b.position, c.rB), rl.Vector3Add(a.position, c.rA))
	dist := rl.Vector3Length(d)
	c.axis = normalizeOr(d, rl.Vector3{Y: 1})

	c.mass = inverseOrZero(pointInvMass(a, b, c.rA, c.rB, c.axis))
	c.bias = c.Baumgarte / dt * (dist - c.Length)
}

func (c *DistanceConstraint) ApplyImpulse(bodies *Bodies) {
	if c.mass == 0 {
		return
	}
	a, b, ok := bodies.resolvePair(c.BodyA, c.BodyB)
	if !ok {
		return
	}
	vn := dot(relativeVelocity(a, b, c.rA, c.rB), c.axis)
	lambda := -c.mass * (vn + c.bias)
	applyPairImpulse(a, b, c.rA, c.rB, rl.Vector3Scale(c.axis, lambda))
}
