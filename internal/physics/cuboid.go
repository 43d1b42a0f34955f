package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// Cuboid is a box described by its half extents. Its geometry is a box Hull.
type Cuboid struct {
	shapeBase
	HalfExtents rl.Vector3
	hull        *Hull
}

func NewCuboid(halfExtents rl.Vector3) *Cuboid {
	return &Cuboid{
		shapeBase:   newShapeBase(),
		HalfExtents: halfExtents,
		hull:        NewBoxHull(halfExtents),
	}
}

func (c *Cuboid) Kind() ShapeKind { return ShapeCuboid }

// Hull exposes the cuboid's geometry.
func (c *Cuboid) Hull() *Hull { return c.hull }

func (c *Cuboid) CollisionAxes(b *Body) []rl.Vector3 {
	// Opposite faces share an axis; three are enough.
	return []rl.Vector3{
		c.toWorldDir(b, rl.Vector3{X: 1}),
		c.toWorldDir(b, rl.Vector3{Y: 1}),
		c.toWorldDir(b, rl.Vector3{Z: 1}),
	}
}

func (c *Cuboid) Edges(b *Body) []Segment {
	return hullEdges(&c.shapeBase, c.hull, b)
}

func (c *Cuboid) SupportExtent(b *Body, axis rl.Vector3) (rl.Vector3, rl.Vector3) {
	return hullSupport(&c.shapeBase, c.hull, b, axis)
}

func (c *Cuboid) IncidentFace(b *Body, axis rl.Vector3) Face {
	return hullFace(&c.shapeBase, c.hull, b, axis)
}

func (c *Cuboid) InverseInertia(inverseMass float32) rl.Matrix {
	return boxInverseInertia(c.HalfExtents, inverseMass)
}

func (c *Cuboid) LocalBounds() AABB {
	return NewAABBFromCenter(rl.Vector3Zero(), c.HalfExtents).Transformed(c.Offset, c.Orientation)
}
