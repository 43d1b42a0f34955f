package physics

import rl "github.com/gen2brain/raylib-go/raylib"

type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeCuboid
	ShapePlane
	ShapeHull
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeCuboid:
		return "cuboid"
	case ShapePlane:
		return "plane"
	case ShapeHull:
		return "hull"
	}
	return "unknown"
}

// Segment is a world-space edge.
type Segment struct {
	A, B rl.Vector3
}

// ClipPlane is the half-space dot(Normal, x) <= D.
type ClipPlane struct {
	Normal rl.Vector3
	D      float32
}

func newClipPlane(normal, point rl.Vector3) ClipPlane {
	return ClipPlane{Normal: normal, D: dot(normal, point)}
}

// Distance is positive in front of the plane.
func (p ClipPlane) Distance(x rl.Vector3) float32 {
	return dot(p.Normal, x) - p.D
}

// Face is a world-space contact feature: the boundary polygon, its normal,
// the planes of the neighbouring faces and the face's own plane.
type Face struct {
	Polygon    []rl.Vector3
	Normal     rl.Vector3
	ClipPlanes []ClipPlane
	Plane      ClipPlane
}

// CollisionShape is the capability set every collision volume exposes to the
// narrowphase. All methods take the owning body and answer in world space.
type CollisionShape interface {
	Kind() ShapeKind
	// CollisionAxes returns candidate separating axes. Spheres and planes
	// return none and are special-cased by the narrowphase.
	CollisionAxes(b *Body) []rl.Vector3
	// Edges returns world-space edges; empty for spheres and planes.
	Edges(b *Body) []Segment
	// SupportExtent returns the points with minimum and maximum projection onto axis.
	SupportExtent(b *Body, axis rl.Vector3) (min, max rl.Vector3)
	// IncidentFace returns the face whose normal is closest to parallel with axis.
	IncidentFace(b *Body, axis rl.Vector3) Face
	// InverseInertia returns the body-space inverse inertia tensor.
	InverseInertia(inverseMass float32) rl.Matrix
	// LocalBounds is the shape's bounding box in body space.
	LocalBounds() AABB
	// Center returns the world-space origin of the shape.
	Center(b *Body) rl.Vector3
}

// shapeBase holds the local transform shared by all shapes.
type shapeBase struct {
	Offset      rl.Vector3
	Orientation rl.Quaternion
}

func newShapeBase() shapeBase {
	return shapeBase{Orientation: rl.QuaternionIdentity()}
}

// SetLocalTransform places the shape relative to its body.
func (s *shapeBase) SetLocalTransform(offset rl.Vector3, orientation rl.Quaternion) {
	s.Offset = offset
	s.Orientation = rl.QuaternionNormalize(orientation)
}

func (s *shapeBase) Center(b *Body) rl.Vector3 {
	return rl.Vector3Add(b.position, rl.Vector3RotateByQuaternion(s.Offset, b.orientation))
}

// worldRotation is body orientation composed with the local orientation.
func (s *shapeBase) worldRotation(b *Body) rl.Quaternion {
	return rl.QuaternionMultiply(b.orientation, s.Orientation)
}

func (s *shapeBase) toWorldPoint(b *Body, p rl.Vector3) rl.Vector3 {
	local := rl.Vector3Add(s.Offset, rl.Vector3RotateByQuaternion(p, s.Orientation))
	return rl.Vector3Add(b.position, rl.Vector3RotateByQuaternion(local, b.orientation))
}

func (s *shapeBase) toWorldDir(b *Body, d rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(d, s.worldRotation(b))
}

func (s *shapeBase) toLocalDir(b *Body, d rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(d, conjugate(s.worldRotation(b)))
}
