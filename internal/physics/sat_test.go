package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func bodyWith(name string, s CollisionShape, pos rl.Vector3) *Body {
	b := NewBody(name)
	b.AddShape(s)
	b.SetPosition(pos)
	return b
}

// testPair runs the narrowphase on the first shapes of a and b.
func testPair(a, b *Body) (*SAT, bool, CollisionData) {
	s := &SAT{}
	s.BeginPair(a, a.shapes[0], b, b.shapes[0])
	ok, data := s.AreColliding()
	return s, ok, data
}

func unitBox() *Cuboid {
	return NewCuboid(rl.Vector3{X: 1, Y: 1, Z: 1})
}

func TestSATBoxes(t *testing.T) {
	rot45 := rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, rl.Pi/4)

	cases := []struct {
		name    string
		pos     rl.Vector3
		rot     rl.Quaternion
		want    bool
		pen     float32
		normalX float32
	}{
		{"disjoint", rl.Vector3{X: 3}, rl.QuaternionIdentity(), false, 0, 0},
		{"touching", rl.Vector3{X: 2}, rl.QuaternionIdentity(), false, 0, 0},
		{"overlap_right", rl.Vector3{X: 1.5}, rl.QuaternionIdentity(), true, 0.5, 1},
		{"overlap_left", rl.Vector3{X: -1.8}, rl.QuaternionIdentity(), true, 0.2, -1},
		{"rotated_overlap", rl.Vector3{X: 2.3}, rot45, true, 2.414214 - 2.3, 1},
		{"rotated_disjoint", rl.Vector3{X: 2.5}, rot45, false, 0, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := bodyWith("a", unitBox(), rl.Vector3{})
			b := bodyWith("b", unitBox(), c.pos)
			b.SetOrientation(c.rot)

			_, ok, data := testPair(a, b)
			if ok != c.want {
				t.Fatalf("Expected colliding=%v, got %v", c.want, ok)
			}
			if !ok {
				return
			}
			if !near(data.Penetration, c.pen, 1e-3) {
				t.Errorf("Expected penetration %v, got %v", c.pen, data.Penetration)
			}
			if !near(data.Normal.X, c.normalX, 1e-3) {
				t.Errorf("Expected normal x %v, got %v", c.normalX, data.Normal)
			}
		})
	}
}

func TestSATSpherePenetration(t *testing.T) {
	cases := []struct {
		name   string
		r1, r2 float32
		offset rl.Vector3
	}{
		{"along_x", 1, 1, rl.Vector3{X: 1.5}},
		{"diagonal", 0.5, 1, rl.Vector3{X: 0.6, Y: 0.6, Z: 0.3}},
		{"small_overlap", 2, 0.25, rl.Vector3{Y: -2.2}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := bodyWith("a", NewSphere(c.r1), rl.Vector3{X: 4})
			b := bodyWith("b", NewSphere(c.r2), rl.Vector3Add(rl.Vector3{X: 4}, c.offset))

			_, ok, data := testPair(a, b)
			if !ok {
				t.Fatal("Expected spheres to collide")
			}
			d := rl.Vector3Length(c.offset)
			if want := c.r1 + c.r2 - d; !near(data.Penetration, want, 1e-4) {
				t.Errorf("Expected penetration %v, got %v", want, data.Penetration)
			}
			if want := rl.Vector3Normalize(c.offset); !nearVec(data.Normal, want, 1e-4) {
				t.Errorf("Expected normal %v, got %v", want, data.Normal)
			}
		})
	}
}

func TestSATSeparatedSpheres(t *testing.T) {
	a := bodyWith("a", NewSphere(1), rl.Vector3{})
	b := bodyWith("b", NewSphere(1), rl.Vector3{Y: 2.5})
	if _, ok, _ := testPair(a, b); ok {
		t.Error("Expected separated spheres not to collide")
	}
}

func TestSATConcentricSpheres(t *testing.T) {
	a := bodyWith("a", NewSphere(1), rl.Vector3{})
	b := bodyWith("b", NewSphere(0.5), rl.Vector3{})
	_, ok, data := testPair(a, b)
	if !ok {
		t.Fatal("Expected concentric spheres to collide")
	}
	if !near(data.Penetration, 1.5, 1e-4) {
		t.Errorf("Expected penetration 1.5, got %v", data.Penetration)
	}
}

func TestSATSphereBox(t *testing.T) {
	box := bodyWith("box", unitBox(), rl.Vector3{})
	ball := bodyWith("ball", NewSphere(1), rl.Vector3{X: 1.8})

	s, ok, data := testPair(box, ball)
	if !ok {
		t.Fatal("Expected sphere and box to collide")
	}
	if !near(data.Penetration, 0.2, 1e-4) {
		t.Errorf("Expected penetration 0.2, got %v", data.Penetration)
	}
	if !nearVec(data.Normal, rl.Vector3{X: 1}, 1e-4) {
		t.Errorf("Expected normal +X, got %v", data.Normal)
	}

	m := NewManifold(box, ball, DefaultConfig().Solver)
	s.GenerateContacts(m)
	if len(m.Contacts) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(m.Contacts))
	}
	if !nearVec(m.Contacts[0].Point, rl.Vector3{X: 0.9}, 1e-4) {
		t.Errorf("Expected contact at (0.9,0,0), got %v", m.Contacts[0].Point)
	}
}

func TestSATSphereOffBoxCorner(t *testing.T) {
	box := bodyWith("box", unitBox(), rl.Vector3{})
	// Within reach of every face plane but not of the corner itself.
	ball := bodyWith("ball", NewSphere(0.5), rl.Vector3{X: 1.4, Y: 1.4, Z: 1.4})
	if _, ok, _ := testPair(box, ball); ok {
		t.Error("Expected the edge axis to separate the sphere from the corner")
	}
}

func TestSATBoxOnPlaneContacts(t *testing.T) {
	cases := []struct {
		name       string
		planeFirst bool
	}{
		{"plane_a", true},
		{"plane_b", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ground := bodyWith("ground", NewPlane(rl.Vector3{Y: 1}), rl.Vector3{})
			ground.SetMass(0)
			box := bodyWith("box", NewCuboid(rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}), rl.Vector3{Y: 0.45})

			a, b := box, ground
			wantNormal := rl.Vector3{Y: -1}
			if c.planeFirst {
				a, b = ground, box
				wantNormal = rl.Vector3{Y: 1}
			}

			s, ok, data := testPair(a, b)
			if !ok {
				t.Fatal("Expected box and plane to collide")
			}
			if !near(data.Penetration, 0.05, 1e-4) {
				t.Errorf("Expected penetration 0.05, got %v", data.Penetration)
			}
			if !nearVec(data.Normal, wantNormal, 1e-4) {
				t.Errorf("Expected normal %v, got %v", wantNormal, data.Normal)
			}

			m := NewManifold(a, b, DefaultConfig().Solver)
			s.GenerateContacts(m)
			if len(m.Contacts) != 4 {
				t.Fatalf("Expected 4 contacts, got %d", len(m.Contacts))
			}
			for _, cp := range m.Contacts {
				if !near(cp.Point.Y, -0.025, 1e-4) {
					t.Errorf("Expected contact midway at y=-0.025, got %v", cp.Point)
				}
				if !near(cp.Penetration, 0.05, 1e-4) {
					t.Errorf("Expected contact depth 0.05, got %v", cp.Penetration)
				}
			}
		})
	}
}

func TestSATBoxStackContacts(t *testing.T) {
	lower := bodyWith("lower", unitBox(), rl.Vector3{})
	upper := bodyWith("upper", NewCuboid(rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}), rl.Vector3{Y: 1.45})

	s, ok, data := testPair(lower, upper)
	if !ok {
		t.Fatal("Expected stacked boxes to collide")
	}
	if !nearVec(data.Normal, rl.Vector3{Y: 1}, 1e-4) {
		t.Errorf("Expected normal +Y, got %v", data.Normal)
	}

	m := NewManifold(lower, upper, DefaultConfig().Solver)
	s.GenerateContacts(m)
	if len(m.Contacts) != 4 {
		t.Fatalf("Expected the small box's 4 corners, got %d contacts", len(m.Contacts))
	}
	for _, cp := range m.Contacts {
		if absf(cp.Point.X) > 0.5+1e-4 || absf(cp.Point.Z) > 0.5+1e-4 {
			t.Errorf("contact %v lies outside the upper box footprint", cp.Point)
		}
	}
}

func TestSATPlanePlaneUnsupported(t *testing.T) {
	a := bodyWith("a", NewPlane(rl.Vector3{Y: 1}), rl.Vector3{})
	b := bodyWith("b", NewPlane(rl.Vector3{Y: -1}), rl.Vector3{})
	s, ok, _ := testPair(a, b)
	if ok {
		t.Error("Expected plane-plane to report not colliding")
	}
	// A second attempt must not log again.
	s.BeginPair(a, a.shapes[0], b, b.shapes[0])
	if ok, _ := s.AreColliding(); ok {
		t.Error("Expected plane-plane to report not colliding")
	}
	if len(s.reported) != 1 {
		t.Errorf("Expected one reported kind pair, got %d", len(s.reported))
	}
}

func TestSATAddAxisDedupes(t *testing.T) {
	s := &SAT{}
	s.addAxis(rl.Vector3{X: 2}, false)
	s.addAxis(rl.Vector3{X: -1}, false)
	s.addAxis(rl.Vector3{}, false)
	s.addAxis(rl.Vector3{Y: 1e-9}, false)
	s.addAxis(rl.Vector3{Y: 3}, true)

	if len(s.axes) != 2 {
		t.Fatalf("Expected 2 axes, got %d", len(s.axes))
	}
	if !s.edgeAxis[1] || s.edgeAxis[0] {
		t.Errorf("Expected edge flags [false true], got %v", s.edgeAxis)
	}
	for _, a := range s.axes {
		if !near(rl.Vector3Length(a), 1, 1e-5) {
			t.Errorf("Expected unit axis, got %v", a)
		}
	}
}

func TestClipPolygon(t *testing.T) {
	square := []rl.Vector3{
		{X: -1, Z: -1}, {X: 1, Z: -1}, {X: 1, Z: 1}, {X: -1, Z: 1},
	}

	cases := []struct {
		name  string
		plane ClipPlane
		want  int
		maxX  float32
	}{
		{"half", ClipPlane{Normal: rl.Vector3{X: 1}, D: 0}, 4, 0},
		{"all_behind", ClipPlane{Normal: rl.Vector3{X: 1}, D: 5}, 4, 1},
		{"all_in_front", ClipPlane{Normal: rl.Vector3{X: 1}, D: -5}, 0, 0},
		{"corner", ClipPlane{Normal: rl.Vector3Normalize(rl.Vector3{X: 1, Z: 1}), D: 0}, 3, 1},
		{"edge_on_plane", ClipPlane{Normal: rl.Vector3{X: 1}, D: 1}, 4, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := clipPolygon(square, c.plane)
			if len(got) != c.want {
				t.Fatalf("Expected %d points, got %d: %v", c.want, len(got), got)
			}
			for i, p := range got {
				for _, q := range got[i+1:] {
					if rl.Vector3Distance(p, q) < 1e-5 {
						t.Errorf("duplicate point %v in %v", p, got)
					}
				}
				if c.plane.Distance(p) > 1e-5 {
					t.Errorf("point %v left in front of the plane", p)
				}
				if p.X > c.maxX+1e-5 {
					t.Errorf("Expected x <= %v, got %v", c.maxX, p.X)
				}
			}
		})
	}
}

func TestClipSinglePoint(t *testing.T) {
	plane := ClipPlane{Normal: rl.Vector3{Y: 1}}
	if got := clipPolygon([]rl.Vector3{{Y: -1}}, plane); len(got) != 1 {
		t.Errorf("Expected the point behind the plane kept, got %v", got)
	}
	if got := clipPolygon([]rl.Vector3{{Y: 1}}, plane); len(got) != 0 {
		t.Errorf("Expected the point in front dropped, got %v", got)
	}
}
