package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestCombineFriction(t *testing.T) {
	cases := []struct {
		name string
		a, b float32
		want float32
	}{
		{"equal", 0.5, 0.5, 0.5},
		{"geometric_mean", 0.25, 1, 0.5},
		{"one_frictionless", 0, 0.9, 0},
		{"clamped", 2, 1, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := combineFriction(c.a, c.b); !near(got, c.want, 1e-5) {
				t.Errorf("Expected %v, got %v", c.want, got)
			}
			if got := combineFriction(c.b, c.a); !near(got, c.want, 1e-5) {
				t.Errorf("Expected symmetric result %v, got %v", c.want, got)
			}
		})
	}
}

func TestCombineRestitution(t *testing.T) {
	cases := []struct {
		name string
		a, b float32
		want float32
	}{
		{"average", 0.2, 0.6, 0.4},
		{"dead", 0, 0, 0},
		{"clamped", -1, 3, 0.5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := combineRestitution(c.a, c.b); !near(got, c.want, 1e-5) {
				t.Errorf("Expected %v, got %v", c.want, got)
			}
		})
	}
}

func manifoldPair() (*Body, *Body) {
	a := NewBody("a")
	a.AddShape(unitBox())
	a.Friction, a.Elasticity = 0.25, 0.2
	b := NewBody("b")
	b.AddShape(unitBox())
	b.SetPosition(rl.Vector3{Y: 1.9})
	b.Friction, b.Elasticity = 1, 0.6
	return a, b
}

func TestNewManifoldCombinesMaterials(t *testing.T) {
	a, b := manifoldPair()
	m := NewManifold(a, b, DefaultConfig().Solver)
	if !near(m.Friction(), 0.5, 1e-5) {
		t.Errorf("Expected friction 0.5, got %v", m.Friction())
	}
	if !near(m.Restitution(), 0.4, 1e-5) {
		t.Errorf("Expected restitution 0.4, got %v", m.Restitution())
	}
}

func TestManifoldAddContactMerges(t *testing.T) {
	a, b := manifoldPair()
	m := NewManifold(a, b, DefaultConfig().Solver)

	m.AddContact(ContactPoint{RelA: rl.Vector3{X: 1}, Penetration: 0.05})
	m.AddContact(ContactPoint{RelA: rl.Vector3{X: 1.1}, Penetration: 0.08})
	m.AddContact(ContactPoint{RelA: rl.Vector3{X: 0.95}, Penetration: 0.01})
	m.AddContact(ContactPoint{RelA: rl.Vector3{X: -1}, Penetration: 0.02})

	if len(m.Contacts) != 2 {
		t.Fatalf("Expected 2 contacts after merging, got %d", len(m.Contacts))
	}
	if m.Contacts[0].Penetration != 0.08 {
		t.Errorf("Expected the deeper contact kept, got %v", m.Contacts[0].Penetration)
	}
	if m.Contacts[0].RelA.X != 1.1 {
		t.Errorf("Expected the deeper contact's position, got %v", m.Contacts[0].RelA)
	}
}

func TestManifoldAddContactIdempotent(t *testing.T) {
	a, b := manifoldPair()
	m := NewManifold(a, b, DefaultConfig().Solver)
	c := ContactPoint{RelA: rl.Vector3{Z: 0.5}, Penetration: 0.1}
	for i := 0; i < 3; i++ {
		m.AddContact(c)
	}
	if len(m.Contacts) != 1 {
		t.Errorf("Expected 1 contact, got %d", len(m.Contacts))
	}
}

func TestManifoldStopsApproach(t *testing.T) {
	a, b := manifoldPair()
	a.SetMass(0)
	b.LinearVelocity = rl.Vector3{Y: -3}

	s, ok, _ := testPair(a, b)
	if !ok {
		t.Fatal("Expected the boxes to overlap")
	}
	m := NewManifold(a, b, DefaultConfig().Solver)
	s.GenerateContacts(m)

	var bodies Bodies
	bodies.insert(a)
	bodies.insert(b)
	m.BodyA, m.BodyB = a.ID(), b.ID()
	solve([]Constraint{m}, &bodies, 1.0/60, 8)

	// Restitution 0.4 above the threshold: the box bounces up.
	if b.LinearVelocity.Y <= 0 {
		t.Errorf("Expected the approach reversed, got vy=%v", b.LinearVelocity.Y)
	}
	if a.LinearVelocity != (rl.Vector3{}) {
		t.Errorf("Expected the static body untouched, got %v", a.LinearVelocity)
	}
}
