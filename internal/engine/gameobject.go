package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"rigid3d/internal/physics"
)

type Transform struct {
	Position rl.Vector3
	Rotation rl.Vector3 // Euler angles in degrees
	Matrix   rl.Matrix  // world transform of the body, refreshed by SyncTransform
}

// GameObject wraps one physics body for gameplay code. The engine owns the
// body; the object only holds its handle.
type GameObject struct {
	UID       uint64
	Name      string
	Tags      []string
	Body      physics.BodyID
	Transform Transform
	Active    bool
	Scene     *Scene

	OnCollisionEnter EventWithArg[*GameObject]
	OnCollisionExit  EventWithArg[*GameObject]

	components []Component
	started    bool
}

// BodyDef describes the body NewPhysicsObject creates. Mass 0 makes a
// static body; nil Elasticity or Friction keep the body defaults.
type BodyDef struct {
	Shapes          []physics.CollisionShape
	Position        rl.Vector3
	Rotation        rl.Vector3 // Euler angles in degrees
	Velocity        rl.Vector3
	AngularVelocity rl.Vector3
	Mass            float32
	Elasticity      *float32
	Friction        *float32
	NoGravity       bool
	GravityTarget   physics.BodyID
	Listener        physics.CollisionListener
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		Name:       name,
		Active:     true,
		Transform:  Transform{Matrix: rl.MatrixIdentity()},
		components: make([]Component, 0),
	}
}

// NewPhysicsObject builds a body from def, registers it with eng and returns
// an object bound to it.
func NewPhysicsObject(eng *physics.Engine, name string, def BodyDef) (*GameObject, error) {
	b := physics.NewBody(name)
	cfg := eng.Config()
	b.LinearDamping = cfg.LinearDamping
	b.AngularDamping = cfg.AngularDamping
	b.CanSleep = cfg.Sleep

	b.SetPosition(def.Position)
	b.SetOrientation(EulerToQuaternion(def.Rotation))
	for _, s := range def.Shapes {
		b.AddShape(s)
	}
	b.SetMass(def.Mass)
	b.LinearVelocity = def.Velocity
	b.AngularVelocity = def.AngularVelocity
	if def.Elasticity != nil {
		b.Elasticity = *def.Elasticity
	}
	if def.Friction != nil {
		b.Friction = *def.Friction
	}
	b.UseGravity = !def.NoGravity
	b.GravityTarget = def.GravityTarget
	b.Listener = def.Listener

	id, err := eng.AddBody(b)
	if err != nil {
		return nil, err
	}

	g := NewGameObject(name)
	g.Body = id
	g.SyncTransform(eng)
	return g, nil
}

// PhysicsBody resolves the object's body, nil once it has been removed.
func (g *GameObject) PhysicsBody(eng *physics.Engine) *physics.Body {
	return eng.Body(g.Body)
}

// SyncTransform copies the body's pose into Transform. It reports false when
// the body no longer exists.
func (g *GameObject) SyncTransform(eng *physics.Engine) bool {
	b := eng.Body(g.Body)
	if b == nil {
		return false
	}
	g.Transform.Position = b.Position()
	g.Transform.Rotation = QuaternionToEuler(b.Orientation())
	g.Transform.Matrix = b.GetWorldSpaceTransform()
	return true
}

func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	g.components = append(g.components, c)
}

// GetComponent returns the first component of type T
func GetComponent[T Component](g *GameObject) T {
	var zero T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

func (g *GameObject) Components() []Component {
	return g.components
}

func (g *GameObject) Start() {
	if g.started {
		return
	}
	for _, c := range g.components {
		c.Start()
	}
	g.started = true
}

func (g *GameObject) Update(deltaTime float32) {
	if !g.Active {
		return
	}
	for _, c := range g.components {
		c.Update(deltaTime)
	}
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// collisionEnter fires the event, then any CollisionHandler components.
func (g *GameObject) collisionEnter(other *GameObject) {
	g.OnCollisionEnter.Invoke(other)
	for _, c := range g.components {
		if h, ok := c.(CollisionHandler); ok {
			h.OnCollisionEnter(other)
		}
	}
}

func (g *GameObject) collisionExit(other *GameObject) {
	g.OnCollisionExit.Invoke(other)
	for _, c := range g.components {
		if h, ok := c.(CollisionHandler); ok {
			h.OnCollisionExit(other)
		}
	}
}

// EulerToQuaternion converts degrees, applied X then Y then Z.
func EulerToQuaternion(deg rl.Vector3) rl.Quaternion {
	return rl.QuaternionFromEuler(deg.X*rl.Deg2rad, deg.Y*rl.Deg2rad, deg.Z*rl.Deg2rad)
}

// QuaternionToEuler is the inverse of EulerToQuaternion, in degrees.
func QuaternionToEuler(q rl.Quaternion) rl.Vector3 {
	e := rl.QuaternionToEuler(q)
	return rl.Vector3{X: e.X * rl.Rad2deg, Y: e.Y * rl.Rad2deg, Z: e.Z * rl.Rad2deg}
}

