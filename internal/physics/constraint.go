package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// Constraint is anything the solver iterates: contact manifolds and joints.
// PreSolve runs once per step before any ApplyImpulse call. Implementations
// skip themselves when one of their body handles no longer resolves.
type Constraint interface {
	PreSolve(bodies *Bodies, dt float32)
	ApplyImpulse(bodies *Bodies)
}

// Anchored is implemented by constraints that can report their world
// anchor points for debug drawing.
type Anchored interface {
	Anchors(bodies *Bodies) (a, b rl.Vector3, ok bool)
}

// anchorPair holds two body handles and body-local anchor offsets.
type anchorPair struct {
	BodyA, BodyB               BodyID
	LocalAnchorA, LocalAnchorB rl.Vector3
}

func newAnchorPair(a, b *Body, worldA, worldB rl.Vector3) anchorPair {
	return anchorPair{
		BodyA:        a.id,
		BodyB:        b.id,
		LocalAnchorA: toBodyLocal(a, worldA),
		LocalAnchorB: toBodyLocal(b, worldB),
	}
}

// leverArms returns the world-space offsets of the anchors from each center.
func (p anchorPair) leverArms(a, b *Body) (rl.Vector3, rl.Vector3) {
	return rl.Vector3RotateByQuaternion(p.LocalAnchorA, a.orientation),
		rl.Vector3RotateByQuaternion(p.LocalAnchorB, b.orientation)
}

func (p anchorPair) Anchors(bodies *Bodies) (rl.Vector3, rl.Vector3, bool) {
	a, b, ok := bodies.resolvePair(p.BodyA, p.BodyB)
	if !ok {
		return rl.Vector3{}, rl.Vector3{}, false
	}
	rA, rB := p.leverArms(a, b)
	return rl.Vector3Add(a.position, rA), rl.Vector3Add(b.position, rB), true
}

// wakeJoined wakes the sleeping side of a joint whose other side is moving.
// An awake side that is already settling (its sleep timer running) leaves
// the sleeper alone, so a joined pair can still fall asleep together.
func wakeJoined(a, b *Body) {
	switch {
	case a.AtRest && movingAwake(b):
		a.Wake()
	case b.AtRest && movingAwake(a):
		b.Wake()
	}
}

func movingAwake(b *Body) bool {
	return !b.AtRest && !b.IsStatic() && b.sleepTimer == 0
}

func toBodyLocal(b *Body, world rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3Subtract(world, b.position), conjugate(b.orientation))
}

// relativeVelocity is the velocity of B's point rB relative to A's point rA.
func relativeVelocity(a, b *Body, rA, rB rl.Vector3) rl.Vector3 {
	return rl.Vector3Subtract(b.VelocityAt(rB), a.VelocityAt(rA))
}

// pointInvMass is the inverse effective mass of a point row along axis.
func pointInvMass(a, b *Body, rA, rB, axis rl.Vector3) float32 {
	k := a.solverInverseMass() + b.solverInverseMass()
	raxn := cross(rA, axis)
	rbxn := cross(rB, axis)
	k += dot(raxn, a.solverInverseInertia(raxn))
	k += dot(rbxn, b.solverInverseInertia(rbxn))
	return k
}

// angularInvMass is the inverse effective mass of an angular row along axis.
func angularInvMass(a, b *Body, axis rl.Vector3) float32 {
	return dot(axis, a.solverInverseInertia(axis)) + dot(axis, b.solverInverseInertia(axis))
}

// applyPairImpulse applies p to B at rB and -p to A at rA.
func applyPairImpulse(a, b *Body, rA, rB, p rl.Vector3) {
	a.ApplyImpulseAt(rl.Vector3Negate(p), rA)
	b.ApplyImpulseAt(p, rB)
}

func inverseOrZero(k float32) float32 {
	if k <= 0 {
		return 0
	}
	return 1 / k
}
