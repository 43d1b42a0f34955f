package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Sleep thresholds
const (
	SleepVelocityThreshold = 0.3 // units/sec - below this, a body might sleep
	SleepAngularThreshold  = 0.2 // rad/sec - below this, a body might sleep
	SleepTimeThreshold     = 0.3 // seconds of low velocity before sleeping
)

// CollisionListener lets gameplay code observe a body's collisions. Returning
// false vetoes the physical response for that pair; the other body's listener
// is still notified.
type CollisionListener interface {
	OnCollision(self, other *Body) bool
}

// CollisionFunc adapts a plain function to CollisionListener.
type CollisionFunc func(self, other *Body) bool

func (f CollisionFunc) OnCollision(self, other *Body) bool {
	return f(self, other)
}

// Body is a rigid body. Position and orientation go through setters so the
// cached world transform and bounds stay in sync.
type Body struct {
	Name string
	id   BodyID

	position    rl.Vector3
	orientation rl.Quaternion

	// Velocities written directly are ignored while AtRest is set; use
	// SetLinearVelocity and SetAngularVelocity to wake the body as well.
	LinearVelocity  rl.Vector3
	AngularVelocity rl.Vector3 // radians per second
	force           rl.Vector3
	torque          rl.Vector3

	inverseMass     float32
	localInvInertia rl.Matrix

	Elasticity     float32 // 0 = no bounce, 1 = perfect bounce
	Friction       float32 // 0 = ice, 1 = grippy
	LinearDamping  float32 // fraction of velocity kept per 1/60s
	AngularDamping float32
	UseGravity     bool

	// GravityTarget, when it resolves, pulls the body toward that body
	// instead of along the engine's gravity vector. It is a weak handle.
	GravityTarget BodyID

	AtRest     bool
	CanSleep   bool
	sleepTimer float32

	Listener CollisionListener

	shapes []CollisionShape

	transform      rl.Matrix
	transformDirty bool
	bounds         AABB
	boundsDirty    bool
}

func NewBody(name string) *Body {
	return &Body{
		Name:           name,
		orientation:    rl.QuaternionIdentity(),
		inverseMass:    1,
		Elasticity:     0.5,
		Friction:       0.1,
		LinearDamping:  0.999,
		AngularDamping: 0.98,
		UseGravity:     true,
		CanSleep:       true,
		transformDirty: true,
		boundsDirty:    true,
	}
}

// ID is the handle assigned by the engine, zero until registered.
func (b *Body) ID() BodyID { return b.id }

func (b *Body) Position() rl.Vector3 { return b.position }

func (b *Body) SetPosition(p rl.Vector3) {
	b.position = p
	b.invalidate()
}

func (b *Body) Orientation() rl.Quaternion { return b.orientation }

func (b *Body) SetOrientation(q rl.Quaternion) {
	b.orientation = rl.QuaternionNormalize(q)
	b.invalidate()
}

func (b *Body) invalidate() {
	b.transformDirty = true
	b.boundsDirty = true
}

// AddShape attaches a shape; the body owns it from now on.
func (b *Body) AddShape(s CollisionShape) {
	b.shapes = append(b.shapes, s)
	b.updateInertia()
	b.boundsDirty = true
}

func (b *Body) Shapes() []CollisionShape { return b.shapes }

func (b *Body) InverseMass() float32 { return b.inverseMass }

// SetMass sets the mass; zero or negative makes the body static.
func (b *Body) SetMass(mass float32) {
	if mass <= 0 {
		b.SetInverseMass(0)
		return
	}
	b.SetInverseMass(1 / mass)
}

func (b *Body) SetInverseMass(inv float32) {
	if inv < 0 {
		inv = 0
	}
	b.inverseMass = inv
	b.updateInertia()
}

// IsStatic reports infinite mass.
func (b *Body) IsStatic() bool { return b.inverseMass == 0 }

// updateInertia takes the tensor of the first shape; compound bodies are
// approximated by their primary volume.
func (b *Body) updateInertia() {
	if len(b.shapes) == 0 || b.inverseMass == 0 {
		b.localInvInertia = diagonalMatrix(0, 0, 0)
		return
	}
	b.localInvInertia = b.shapes[0].InverseInertia(b.inverseMass)
}

// LocalInverseInertia returns the body-space inverse inertia tensor.
func (b *Body) LocalInverseInertia() rl.Matrix { return b.localInvInertia }

// ApplyInverseInertia multiplies a world-space vector by the world inverse inertia.
func (b *Body) ApplyInverseInertia(v rl.Vector3) rl.Vector3 {
	local := rl.Vector3RotateByQuaternion(v, conjugate(b.orientation))
	return rl.Vector3RotateByQuaternion(mulTensor(b.localInvInertia, local), b.orientation)
}

// solverInverseMass treats resting bodies as immovable. Joints wake their
// sleeping side first, see wakeJoined.
func (b *Body) solverInverseMass() float32 {
	if b.AtRest {
		return 0
	}
	return b.inverseMass
}

func (b *Body) solverInverseInertia(v rl.Vector3) rl.Vector3 {
	if b.AtRest {
		return rl.Vector3Zero()
	}
	return b.ApplyInverseInertia(v)
}

func (b *Body) AddForce(f rl.Vector3) {
	b.force = rl.Vector3Add(b.force, f)
}

// AddForceAtPoint applies a force at a world-space point, adding torque.
func (b *Body) AddForceAtPoint(f, point rl.Vector3) {
	b.force = rl.Vector3Add(b.force, f)
	b.torque = rl.Vector3Add(b.torque, cross(rl.Vector3Subtract(point, b.position), f))
}

func (b *Body) AddTorque(t rl.Vector3) {
	b.torque = rl.Vector3Add(b.torque, t)
}

func (b *Body) ClearForces() {
	b.force = rl.Vector3Zero()
	b.torque = rl.Vector3Zero()
}

func (b *Body) Force() rl.Vector3  { return b.force }
func (b *Body) Torque() rl.Vector3 { return b.torque }

func (b *Body) ApplyLinearImpulse(impulse rl.Vector3) {
	b.LinearVelocity = rl.Vector3Add(b.LinearVelocity, rl.Vector3Scale(impulse, b.solverInverseMass()))
}

func (b *Body) ApplyAngularImpulse(impulse rl.Vector3) {
	b.AngularVelocity = rl.Vector3Add(b.AngularVelocity, b.solverInverseInertia(impulse))
}

// ApplyImpulseAt applies an impulse at offset rel from the center of mass.
func (b *Body) ApplyImpulseAt(impulse, rel rl.Vector3) {
	b.ApplyLinearImpulse(impulse)
	b.ApplyAngularImpulse(cross(rel, impulse))
}

// VelocityAt returns the velocity of the point at offset rel from the center.
func (b *Body) VelocityAt(rel rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(b.LinearVelocity, cross(b.AngularVelocity, rel))
}

// GetWorldSpaceTransform returns the rotation-then-translation matrix used
// by renderers, laid out for rl.Vector3Transform: columns M0-M2, M4-M6 and
// M8-M10 are the rotated basis vectors, M12-M14 the position.
func (b *Body) GetWorldSpaceTransform() rl.Matrix {
	if b.transformDirty {
		x := rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, b.orientation)
		y := rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, b.orientation)
		z := rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, b.orientation)
		p := b.position
		b.transform = rl.Matrix{
			M0: x.X, M4: y.X, M8: z.X, M12: p.X,
			M1: x.Y, M5: y.Y, M9: z.Y, M13: p.Y,
			M2: x.Z, M6: y.Z, M10: z.Z, M14: p.Z,
			M15: 1,
		}
		b.transformDirty = false
	}
	return b.transform
}

// WorldBounds returns the union of all shapes' bounds in world space.
func (b *Body) WorldBounds() AABB {
	if b.boundsDirty {
		box := emptyAABB()
		for _, s := range b.shapes {
			box = box.Union(s.LocalBounds().Transformed(b.position, b.orientation))
		}
		if len(b.shapes) == 0 {
			box = AABB{Min: b.position, Max: b.position}
		}
		b.bounds = box
		b.boundsDirty = false
	}
	return b.bounds
}

// SetLinearVelocity sets the velocity and wakes the body.
func (b *Body) SetLinearVelocity(v rl.Vector3) {
	b.LinearVelocity = v
	b.Wake()
}

// SetAngularVelocity sets the spin in radians per second and wakes the body.
func (b *Body) SetAngularVelocity(w rl.Vector3) {
	b.AngularVelocity = w
	b.Wake()
}

// Wake forces the body out of its rest state
func (b *Body) Wake() {
	b.AtRest = false
	b.sleepTimer = 0
}

// TrySleep puts the body to rest after it has been slow for long enough.
func (b *Body) TrySleep(deltaTime float32) {
	if !b.CanSleep || b.AtRest || b.IsStatic() {
		return
	}

	speed := rl.Vector3Length(b.LinearVelocity)
	angSpeed := rl.Vector3Length(b.AngularVelocity)

	if speed < SleepVelocityThreshold && angSpeed < SleepAngularThreshold {
		b.sleepTimer += deltaTime
		if b.sleepTimer >= SleepTimeThreshold {
			b.AtRest = true
			b.LinearVelocity = rl.Vector3Zero()
			b.AngularVelocity = rl.Vector3Zero()
		}
	} else {
		b.sleepTimer = 0
	}
}
