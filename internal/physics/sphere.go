package physics

import rl "github.com/gen2brain/raylib-go/raylib"

type Sphere struct {
	shapeBase
	Radius float32
}

func NewSphere(radius float32) *Sphere {
	return &Sphere{shapeBase: newShapeBase(), Radius: radius}
}

func (s *Sphere) Kind() ShapeKind { return ShapeSphere }

// CollisionAxes is empty: curvature gives infinitely many face normals, so
// the narrowphase derives the one axis it needs from the other shape.
func (s *Sphere) CollisionAxes(b *Body) []rl.Vector3 { return nil }

func (s *Sphere) Edges(b *Body) []Segment { return nil }

func (s *Sphere) SupportExtent(b *Body, axis rl.Vector3) (rl.Vector3, rl.Vector3) {
	c := s.Center(b)
	n := normalizeOr(axis, rl.Vector3{Y: 1})
	return rl.Vector3Subtract(c, rl.Vector3Scale(n, s.Radius)), rl.Vector3Add(c, rl.Vector3Scale(n, s.Radius))
}

// IncidentFace degenerates to the single surface point along axis.
func (s *Sphere) IncidentFace(b *Body, axis rl.Vector3) Face {
	n := normalizeOr(axis, rl.Vector3{Y: 1})
	p := rl.Vector3Add(s.Center(b), rl.Vector3Scale(n, s.Radius))
	return Face{
		Polygon: []rl.Vector3{p},
		Normal:  n,
		Plane:   newClipPlane(n, p),
	}
}

// InverseInertia uses the solid sphere tensor I = 2/5·m·r².
func (s *Sphere) InverseInertia(inverseMass float32) rl.Matrix {
	if s.Radius <= 0 {
		return diagonalMatrix(0, 0, 0)
	}
	i := 2.5 * inverseMass / (s.Radius * s.Radius)
	return diagonalMatrix(i, i, i)
}

func (s *Sphere) LocalBounds() AABB {
	return NewAABBFromCenter(s.Offset, rl.Vector3{X: s.Radius, Y: s.Radius, Z: s.Radius})
}
