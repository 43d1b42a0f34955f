package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// HullShape is an arbitrary convex polyhedron.
type HullShape struct {
	shapeBase
	Hull *Hull
}

func NewHullShape(h *Hull) *HullShape {
	return &HullShape{shapeBase: newShapeBase(), Hull: h}
}

func (s *HullShape) Kind() ShapeKind { return ShapeHull }

func (s *HullShape) CollisionAxes(b *Body) []rl.Vector3 {
	return hullAxes(&s.shapeBase, s.Hull, b)
}

func (s *HullShape) Edges(b *Body) []Segment {
	return hullEdges(&s.shapeBase, s.Hull, b)
}

func (s *HullShape) SupportExtent(b *Body, axis rl.Vector3) (rl.Vector3, rl.Vector3) {
	return hullSupport(&s.shapeBase, s.Hull, b, axis)
}

func (s *HullShape) IncidentFace(b *Body, axis rl.Vector3) Face {
	return hullFace(&s.shapeBase, s.Hull, b, axis)
}

func (s *HullShape) InverseInertia(inverseMass float32) rl.Matrix {
	return boxInverseInertia(s.Hull.Bounds().HalfExtents(), inverseMass)
}

func (s *HullShape) LocalBounds() AABB {
	return s.Hull.Bounds().Transformed(s.Offset, s.Orientation)
}

// The helpers below are shared by every hull-backed shape.

func hullAxes(base *shapeBase, h *Hull, b *Body) []rl.Vector3 {
	axes := make([]rl.Vector3, len(h.Faces))
	for i, f := range h.Faces {
		axes[i] = base.toWorldDir(b, f.Normal)
	}
	return axes
}

func hullEdges(base *shapeBase, h *Hull, b *Body) []Segment {
	edges := make([]Segment, len(h.Edges))
	for i, e := range h.Edges {
		edges[i] = Segment{
			A: base.toWorldPoint(b, h.Vertices[e.V0].Pos),
			B: base.toWorldPoint(b, h.Vertices[e.V1].Pos),
		}
	}
	return edges
}

func hullSupport(base *shapeBase, h *Hull, b *Body, axis rl.Vector3) (rl.Vector3, rl.Vector3) {
	local := base.toLocalDir(b, axis)
	minIdx, maxIdx := h.MinMaxVertices(local)
	return base.toWorldPoint(b, h.Vertices[minIdx].Pos), base.toWorldPoint(b, h.Vertices[maxIdx].Pos)
}

func hullFace(base *shapeBase, h *Hull, b *Body, axis rl.Vector3) Face {
	idx := h.BestFace(base.toLocalDir(b, axis))
	if idx < 0 {
		return Face{}
	}
	face := h.Faces[idx]

	out := Face{
		Polygon: make([]rl.Vector3, len(face.Vertices)),
		Normal:  base.toWorldDir(b, face.Normal),
	}
	for i, v := range face.Vertices {
		out.Polygon[i] = base.toWorldPoint(b, h.Vertices[v].Pos)
	}
	out.Plane = newClipPlane(out.Normal, out.Polygon[0])

	for _, adj := range h.AdjacentFaces(idx) {
		af := h.Faces[adj]
		n := base.toWorldDir(b, af.Normal)
		p := base.toWorldPoint(b, h.Vertices[af.Vertices[0]].Pos)
		out.ClipPlanes = append(out.ClipPlanes, newClipPlane(n, p))
	}
	return out
}

// boxInverseInertia approximates a solid box with the given half extents.
func boxInverseInertia(half rl.Vector3, inverseMass float32) rl.Matrix {
	w, h, d := 2*half.X, 2*half.Y, 2*half.Z
	inv := func(a, b float32) float32 {
		s := a*a + b*b
		if s <= 0 {
			return 0
		}
		return 12 * inverseMass / s
	}
	return diagonalMatrix(inv(h, d), inv(w, d), inv(w, h))
}
