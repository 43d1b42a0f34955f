package physics

import rl "github.com/gen2brain/raylib-go/raylib"

var worldAxes = [3]rl.Vector3{{X: 1}, {Y: 1}, {Z: 1}}

// WeldConstraint locks two bodies together: the anchors coincide and the
// relative orientation stays what it was when the weld was made.
type WeldConstraint struct {
	anchorPair
	Baumgarte float32

	relative rl.Quaternion // conj(qA)·qB at creation

	rA, rB      rl.Vector3
	linearMass  [3]float32
	linearBias  [3]float32
	angularMass [3]float32
	angularBias [3]float32
}

// NewWeldConstraint welds a and b at a shared world-space anchor.
func NewWeldConstraint(a, b *Body, anchor rl.Vector3) *WeldConstraint {
	return &WeldConstraint{
		anchorPair: newAnchorPair(a, b, anchor, anchor),
		Baumgarte:  DefaultJointBaumgarte,
		relative:   rl.QuaternionMultiply(conjugate(a.orientation), b.orientation),
	}
}

func (c *WeldConstraint) PreSolve(bodies *Bodies, dt float32) {
	c.linearMass = [3]float32{}
	c.angularMass = [3]float32{}
	a, b, ok := bodies.resolvePair(c.BodyA, c.BodyB)
	if !ok || dt <= 0 {
		return
	}
	wakeJoined(a, b)
	c.rA, c.rB = c.leverArms(a, b)
	gap := rl.Vector3Subtract(rl.Vector3Add(b.position, c.rB), rl.Vector3Add(a.position, c.rA))
	twist := c.angularError(a, b)

	for i, axis := range worldAxes {
		c.linearMass[i] = inverseOrZero(pointInvMass(a, b, c.rA, c.rB, axis))
		c.linearBias[i] = c.Baumgarte / dt * dot(gap, axis)
		c.angularMass[i] = inverseOrZero(angularInvMass(a, b, axis))
		c.angularBias[i] = c.Baumgarte / dt * dot(twist, axis)
	}
}

// angularError is the small-angle rotation vector taking B's current
// orientation to the welded one.
func (c *WeldConstraint) angularError(a, b *Body) rl.Vector3 {
	target := rl.QuaternionMultiply(a.orientation, c.relative)
	e := rl.QuaternionMultiply(b.orientation, conjugate(target))
	if e.W < 0 {
		e = rl.Quaternion{X: -e.X, Y: -e.Y, Z: -e.Z, W: -e.W}
	}
	return rl.Vector3{X: 2 * e.X, Y: 2 * e.Y, Z: 2 * e.Z}
}

func (c *WeldConstraint) ApplyImpulse(bodies *Bodies) {
	a, b, ok := bodies.resolvePair(c.BodyA, c.BodyB)
	if !ok {
		return
	}

	for i, axis := range worldAxes {
		if c.linearMass[i] == 0 {
			continue
		}
		vn := dot(relativeVelocity(a, b, c.rA, c.rB), axis)
		lambda := -c.linearMass[i] * (vn + c.linearBias[i])
		applyPairImpulse(a, b, c.rA, c.rB, rl.Vector3Scale(axis, lambda))
	}

	for i, axis := range worldAxes {
		if c.angularMass[i] == 0 {
			continue
		}
		wn := dot(rl.Vector3Subtract(b.AngularVelocity, a.AngularVelocity), axis)
		lambda := -c.angularMass[i] * (wn + c.angularBias[i])
		p := rl.Vector3Scale(axis, lambda)
		a.ApplyAngularImpulse(rl.Vector3Negate(p))
		b.ApplyAngularImpulse(p)
	}
}
