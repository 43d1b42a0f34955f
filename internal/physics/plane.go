package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// planeExtent stands in for infinity when a plane has to report points or bounds.
// Bodies farther than this from the plane origin along its surface fall
// outside its bounding box and are never paired with it. Finite bounds keep
// AABB arithmetic free of Inf and keep the octree root a usable size.
const planeExtent = float32(1000)

// planeThickness is how far below the surface the plane's bounding box reaches.
const planeThickness = float32(1)

// Plane is the solid half-space behind a surface through the shape origin.
// It is unbounded for axis tests and has no edges. Broadphase only sees a
// planeExtent square around its origin, so place the plane body near the
// play area.
type Plane struct {
	shapeBase
	Normal rl.Vector3 // shape-local outward normal
}

func NewPlane(normal rl.Vector3) *Plane {
	return &Plane{shapeBase: newShapeBase(), Normal: normalizeOr(normal, rl.Vector3{Y: 1})}
}

func (p *Plane) Kind() ShapeKind { return ShapePlane }

// WorldNormal returns the outward surface normal in world space.
func (p *Plane) WorldNormal(b *Body) rl.Vector3 {
	return p.toWorldDir(b, p.Normal)
}

func (p *Plane) CollisionAxes(b *Body) []rl.Vector3 { return nil }

func (p *Plane) Edges(b *Body) []Segment { return nil }

// SupportExtent treats the half-space as infinite except at its surface.
func (p *Plane) SupportExtent(b *Body, axis rl.Vector3) (rl.Vector3, rl.Vector3) {
	n := p.WorldNormal(b)
	c := p.Center(b)
	a := normalizeOr(axis, n)
	far := rl.Vector3Scale(a, planeExtent)

	t := dot(a, n)
	switch {
	case t > 1-axisParallelEpsilon:
		return rl.Vector3Subtract(c, far), c
	case t < -(1 - axisParallelEpsilon):
		return c, rl.Vector3Add(c, far)
	}
	return rl.Vector3Subtract(c, far), rl.Vector3Add(c, far)
}

// IncidentFace returns a large square on the surface with no side planes, so
// clipping against it only trims by the surface itself.
func (p *Plane) IncidentFace(b *Body, axis rl.Vector3) Face {
	n := p.WorldNormal(b)
	c := p.Center(b)
	t1, t2 := tangentBasis(n)
	t1 = rl.Vector3Scale(t1, planeExtent)
	t2 = rl.Vector3Scale(t2, planeExtent)
	return Face{
		Polygon: []rl.Vector3{
			rl.Vector3Add(rl.Vector3Add(c, t1), t2),
			rl.Vector3Subtract(rl.Vector3Add(c, t1), t2),
			rl.Vector3Subtract(rl.Vector3Subtract(c, t1), t2),
			rl.Vector3Add(rl.Vector3Subtract(c, t1), t2),
		},
		Normal: n,
		Plane:  newClipPlane(n, c),
	}
}

// InverseInertia is zero: planes never rotate.
func (p *Plane) InverseInertia(inverseMass float32) rl.Matrix {
	return diagonalMatrix(0, 0, 0)
}

func (p *Plane) LocalBounds() AABB {
	t1, t2 := tangentBasis(p.Normal)
	box := emptyAABB()
	for _, s1 := range []float32{-planeExtent, planeExtent} {
		for _, s2 := range []float32{-planeExtent, planeExtent} {
			corner := rl.Vector3Add(rl.Vector3Scale(t1, s1), rl.Vector3Scale(t2, s2))
			box = box.Expand(corner)
			box = box.Expand(rl.Vector3Subtract(corner, rl.Vector3Scale(p.Normal, planeThickness)))
		}
	}
	return box.Transformed(p.Offset, p.Orientation)
}
