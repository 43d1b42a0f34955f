package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// ContactMergeDistance is how close two contacts of one manifold may be
// before they are treated as the same point.
const ContactMergeDistance = 0.2

// ContactPoint is one point of contact between the two bodies of a manifold.
type ContactPoint struct {
	Point       rl.Vector3 // world position when generated
	RelA        rl.Vector3 // offset from body A's center
	RelB        rl.Vector3 // offset from body B's center
	Normal      rl.Vector3 // from A towards B
	Penetration float32

	// Accumulated impulses, reset every step.
	NormalImpulse  float32
	TangentImpulse [2]float32

	tangents    [2]rl.Vector3
	normalMass  float32
	tangentMass [2]float32
	bias        float32
}

// Manifold is the contact set of one colliding pair for the current step.
type Manifold struct {
	BodyA, BodyB BodyID
	Contacts     []ContactPoint

	friction    float32
	restitution float32
	settings    SolverSettings
}

// NewManifold creates an empty manifold, combining the bodies' materials.
func NewManifold(a, b *Body, settings SolverSettings) *Manifold {
	return &Manifold{
		BodyA:       a.id,
		BodyB:       b.id,
		friction:    combineFriction(a.Friction, b.Friction),
		restitution: combineRestitution(a.Elasticity, b.Elasticity),
		settings:    settings,
	}
}

// AddContact inserts c unless an existing contact lies within
// ContactMergeDistance, in which case the deeper of the two is kept.
func (m *Manifold) AddContact(c ContactPoint) {
	const mergeSq = ContactMergeDistance * ContactMergeDistance
	for i := range m.Contacts {
		existing := &m.Contacts[i]
		if rl.Vector3LengthSqr(rl.Vector3Subtract(existing.RelA, c.RelA)) < mergeSq {
			if c.Penetration > existing.Penetration {
				*existing = c
			}
			return
		}
	}
	m.Contacts = append(m.Contacts, c)
}

// Friction returns the combined friction coefficient.
func (m *Manifold) Friction() float32 { return m.friction }

// Restitution returns the combined restitution coefficient.
func (m *Manifold) Restitution() float32 { return m.restitution }

func (m *Manifold) PreSolve(bodies *Bodies, dt float32) {
	a, b, ok := bodies.resolvePair(m.BodyA, m.BodyB)
	if !ok || dt <= 0 {
		return
	}

	for i := range m.Contacts {
		c := &m.Contacts[i]
		c.NormalImpulse = 0
		c.TangentImpulse = [2]float32{}

		c.normalMass = inverseOrZero(pointInvMass(a, b, c.RelA, c.RelB, c.Normal))
		c.tangents[0], c.tangents[1] = tangentBasis(c.Normal)
		for k := range c.tangents {
			c.tangentMass[k] = inverseOrZero(pointInvMass(a, b, c.RelA, c.RelB, c.tangents[k]))
		}

		baumgarte := m.settings.Baumgarte / dt * maxf(c.Penetration-m.settings.PenetrationSlop, 0)

		var bounce float32
		vn := dot(relativeVelocity(a, b, c.RelA, c.RelB), c.Normal)
		if -vn > m.settings.RestitutionThreshold {
			bounce = -vn * m.restitution
		}
		c.bias = maxf(baumgarte, bounce)
	}
}

func (m *Manifold) ApplyImpulse(bodies *Bodies) {
	a, b, ok := bodies.resolvePair(m.BodyA, m.BodyB)
	if !ok {
		return
	}

	for i := range m.Contacts {
		c := &m.Contacts[i]

		// Normal: push apart, never pull.
		vn := dot(relativeVelocity(a, b, c.RelA, c.RelB), c.Normal)
		lambda := c.normalMass * (c.bias - vn)
		old := c.NormalImpulse
		c.NormalImpulse = maxf(old+lambda, 0)
		applyPairImpulse(a, b, c.RelA, c.RelB, rl.Vector3Scale(c.Normal, c.NormalImpulse-old))

		// Friction, bounded by the current normal impulse.
		limit := m.friction * c.NormalImpulse
		for k, t := range c.tangents {
			vt := dot(relativeVelocity(a, b, c.RelA, c.RelB), t)
			lambda := -vt * c.tangentMass[k]
			old := c.TangentImpulse[k]
			c.TangentImpulse[k] = clamp(old+lambda, -limit, limit)
			applyPairImpulse(a, b, c.RelA, c.RelB, rl.Vector3Scale(t, c.TangentImpulse[k]-old))
		}
	}
}
