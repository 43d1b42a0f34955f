package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// AABB is an axis-aligned bounding box in whatever space its producer works in.
type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// NewAABBFromCenter creates an AABB from a center point and half extents.
func NewAABBFromCenter(center, halfExtents rl.Vector3) AABB {
	return AABB{
		Min: rl.Vector3Subtract(center, halfExtents),
		Max: rl.Vector3Add(center, halfExtents),
	}
}

// emptyAABB is inverted so that the first Expand call sets both corners.
func emptyAABB() AABB {
	return AABB{
		Min: rl.Vector3{X: maxFloat, Y: maxFloat, Z: maxFloat},
		Max: rl.Vector3{X: -maxFloat, Y: -maxFloat, Z: -maxFloat},
	}
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Expand grows the box to contain p.
func (a AABB) Expand(p rl.Vector3) AABB {
	return AABB{
		Min: rl.Vector3{X: minf(a.Min.X, p.X), Y: minf(a.Min.Y, p.Y), Z: minf(a.Min.Z, p.Z)},
		Max: rl.Vector3{X: maxf(a.Max.X, p.X), Y: maxf(a.Max.Y, p.Y), Z: maxf(a.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return a.Expand(b.Min).Expand(b.Max)
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

func (a AABB) HalfExtents() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Subtract(a.Max, a.Min), 0.5)
}

// Corners returns the eight corners of the box.
func (a AABB) Corners() [8]rl.Vector3 {
	return [8]rl.Vector3{
		{X: a.Min.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Max.Z},
	}
}

// Transformed returns the world-space box enclosing this local box after
// rotation by q and translation by pos.
func (a AABB) Transformed(pos rl.Vector3, q rl.Quaternion) AABB {
	out := emptyAABB()
	for _, c := range a.Corners() {
		out = out.Expand(rl.Vector3Add(pos, rl.Vector3RotateByQuaternion(c, q)))
	}
	return out
}

// AxisRange returns the box's interval along a world axis (0=X, 1=Y, 2=Z).
func (a AABB) AxisRange(axis Axis) (lo, hi float32) {
	return component(a.Min, axis), component(a.Max, axis)
}

// BoundingBox converts to raylib's type for drawing.
func (a AABB) BoundingBox() rl.BoundingBox {
	return rl.NewBoundingBox(a.Min, a.Max)
}
