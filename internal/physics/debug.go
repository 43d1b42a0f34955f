package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// DebugFlags select what Engine.DebugDraw shows.
type DebugFlags struct {
	CollisionVolumes bool
	CollisionNormals bool
	Manifolds        bool
	Constraints      bool
	BoundingBoxes    bool
	BroadphasePairs  bool
}

// Any reports whether at least one flag is set.
func (f DebugFlags) Any() bool {
	return f.CollisionVolumes || f.CollisionNormals || f.Manifolds ||
		f.Constraints || f.BoundingBoxes || f.BroadphasePairs
}

// DebugDrawer receives world-space primitives from DebugDraw.
type DebugDrawer interface {
	Line(a, b rl.Vector3, color rl.Color)
	Point(p rl.Vector3, color rl.Color)
}

const (
	debugNormalLength = 0.5
	debugSphereRings  = 16
	debugPlaneSize    = 10
)

// DebugDraw sends the enabled overlays to d. It only reads engine state.
func (e *Engine) DebugDraw(d DebugDrawer) {
	f := e.Debug
	if !f.Any() {
		return
	}

	for _, b := range e.bodies.All() {
		if f.CollisionVolumes {
			color := rl.Green
			if b.AtRest {
				color = rl.Gray
			}
			for _, s := range b.shapes {
				drawShape(d, b, s, color)
			}
		}
		if f.BoundingBoxes && len(b.shapes) > 0 {
			drawBox(d, b.WorldBounds(), rl.Yellow)
		}
	}

	if f.BroadphasePairs {
		for _, p := range e.pairs {
			d.Line(p.A.position, p.B.position, rl.Orange)
		}
	}

	for _, m := range e.manifolds {
		for _, c := range m.Contacts {
			if f.Manifolds {
				d.Point(c.Point, rl.Red)
			}
			if f.CollisionNormals {
				d.Line(c.Point, rl.Vector3Add(c.Point, rl.Vector3Scale(c.Normal, debugNormalLength)), rl.Blue)
			}
		}
	}

	if f.Constraints {
		for _, c := range e.constraints {
			if an, ok := c.(Anchored); ok {
				if a, b, ok := an.Anchors(&e.bodies); ok {
					d.Line(a, b, rl.Purple)
					d.Point(a, rl.Purple)
					d.Point(b, rl.Purple)
				}
			}
		}
	}
}

func drawShape(d DebugDrawer, b *Body, s CollisionShape, color rl.Color) {
	switch shape := s.(type) {
	case *Sphere:
		drawSphere(d, shape.Center(b), shape.Radius, color)
	case *Plane:
		n := shape.WorldNormal(b)
		c := shape.Center(b)
		t1, t2 := tangentBasis(n)
		for i := -debugPlaneSize; i <= debugPlaneSize; i += 2 {
			off := float32(i)
			d.Line(
				rl.Vector3Add(c, rl.Vector3Add(rl.Vector3Scale(t1, off), rl.Vector3Scale(t2, -debugPlaneSize))),
				rl.Vector3Add(c, rl.Vector3Add(rl.Vector3Scale(t1, off), rl.Vector3Scale(t2, debugPlaneSize))),
				color)
			d.Line(
				rl.Vector3Add(c, rl.Vector3Add(rl.Vector3Scale(t2, off), rl.Vector3Scale(t1, -debugPlaneSize))),
				rl.Vector3Add(c, rl.Vector3Add(rl.Vector3Scale(t2, off), rl.Vector3Scale(t1, debugPlaneSize))),
				color)
		}
	default:
		for _, e := range s.Edges(b) {
			d.Line(e.A, e.B, color)
		}
	}
}

// drawSphere draws three great circles.
func drawSphere(d DebugDrawer, c rl.Vector3, r float32, color rl.Color) {
	for _, axis := range worldAxes {
		t1, t2 := tangentBasis(axis)
		prev := rl.Vector3Add(c, rl.Vector3Scale(t1, r))
		for i := 1; i <= debugSphereRings; i++ {
			angle := float32(i) * 2 * rl.Pi / debugSphereRings
			sin, cos := sinCos(angle)
			p := rl.Vector3Add(c, rl.Vector3Add(rl.Vector3Scale(t1, r*cos), rl.Vector3Scale(t2, r*sin)))
			d.Line(prev, p, color)
			prev = p
		}
	}
}

func drawBox(d DebugDrawer, box AABB, color rl.Color) {
	c := box.Corners()
	// Corner i has bit 0 = X max, bit 1 = Y max, bit 2 = Z max.
	for i := 0; i < 8; i++ {
		for _, bit := range []int{1, 2, 4} {
			if i&bit == 0 {
				d.Line(c[i], c[i|bit], color)
			}
		}
	}
}

// FacePolygons returns the world-space boundary of every face of a
// polyhedral shape along with the face's outward normal. Spheres and planes
// have none.
func FacePolygons(b *Body, s CollisionShape) ([][]rl.Vector3, []rl.Vector3) {
	hb, ok := s.(hullBacked)
	if !ok {
		return nil, nil
	}
	base, h := hb.geometry()
	polys := make([][]rl.Vector3, 0, len(h.Faces))
	normals := make([]rl.Vector3, 0, len(h.Faces))
	for _, f := range h.Faces {
		poly := make([]rl.Vector3, len(f.Vertices))
		for i, v := range f.Vertices {
			poly[i] = base.toWorldPoint(b, h.Vertices[v].Pos)
		}
		polys = append(polys, poly)
		normals = append(normals, base.toWorldDir(b, f.Normal))
	}
	return polys, normals
}
