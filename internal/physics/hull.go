package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// HullVertex is a hull corner plus the faces and edges touching it.
type HullVertex struct {
	Pos   rl.Vector3
	Faces []int
	Edges []int
}

// HullEdge joins two vertices and borders at most two faces.
type HullEdge struct {
	V0, V1 int
	Faces  []int
}

// HullFace is a planar boundary polygon with an outward normal. Vertices are
// ordered around the boundary; Edges[i] joins Vertices[i] and Vertices[i+1].
type HullFace struct {
	Normal   rl.Vector3
	Vertices []int
	Edges    []int
}

// Hull is a convex polyhedron with full vertex/edge/face adjacency. It is
// built once with AddVertex/AddFace and only read afterwards.
type Hull struct {
	Vertices []HullVertex
	Edges    []HullEdge
	Faces    []HullFace
}

// AddVertex appends a vertex and returns its index.
func (h *Hull) AddVertex(p rl.Vector3) int {
	h.Vertices = append(h.Vertices, HullVertex{Pos: p})
	return len(h.Vertices) - 1
}

// AddFace appends a face over the given vertex indices, creating or linking
// the boundary edges so adjacency stays complete.
func (h *Hull) AddFace(normal rl.Vector3, indices []int) int {
	faceIdx := len(h.Faces)
	face := HullFace{
		Normal:   rl.Vector3Normalize(normal),
		Vertices: append([]int(nil), indices...),
		Edges:    make([]int, 0, len(indices)),
	}

	for i, v0 := range indices {
		v1 := indices[(i+1)%len(indices)]
		e := h.findEdge(v0, v1)
		if e < 0 {
			e = len(h.Edges)
			h.Edges = append(h.Edges, HullEdge{V0: v0, V1: v1})
			h.Vertices[v0].Edges = append(h.Vertices[v0].Edges, e)
			h.Vertices[v1].Edges = append(h.Vertices[v1].Edges, e)
		}
		h.Edges[e].Faces = append(h.Edges[e].Faces, faceIdx)
		face.Edges = append(face.Edges, e)
		h.Vertices[v0].Faces = append(h.Vertices[v0].Faces, faceIdx)
	}

	h.Faces = append(h.Faces, face)
	return faceIdx
}

func (h *Hull) findEdge(v0, v1 int) int {
	for _, e := range h.Vertices[v0].Edges {
		edge := h.Edges[e]
		if (edge.V0 == v0 && edge.V1 == v1) || (edge.V0 == v1 && edge.V1 == v0) {
			return e
		}
	}
	return -1
}

// MinMaxVertices returns the indices of the vertices with the smallest and
// largest projection onto axis.
func (h *Hull) MinMaxVertices(axis rl.Vector3) (minIdx, maxIdx int) {
	minProj, maxProj := maxFloat, -maxFloat
	for i, v := range h.Vertices {
		p := dot(v.Pos, axis)
		if p < minProj {
			minProj, minIdx = p, i
		}
		if p > maxProj {
			maxProj, maxIdx = p, i
		}
	}
	return minIdx, maxIdx
}

// BestFace returns the face whose normal is most parallel to axis. Only the
// faces around the support vertex are examined.
func (h *Hull) BestFace(axis rl.Vector3) int {
	if len(h.Faces) == 0 {
		return -1
	}
	_, support := h.MinMaxVertices(axis)
	best, bestDot := -1, -maxFloat
	for _, f := range h.Vertices[support].Faces {
		if d := dot(h.Faces[f].Normal, axis); d > bestDot {
			best, bestDot = f, d
		}
	}
	if best < 0 {
		// Vertex with no faces; fall back to a full scan.
		for f := range h.Faces {
			if d := dot(h.Faces[f].Normal, axis); d > bestDot {
				best, bestDot = f, d
			}
		}
	}
	return best
}

// AdjacentFaces returns the faces sharing an edge with face.
func (h *Hull) AdjacentFaces(face int) []int {
	out := make([]int, 0, len(h.Faces[face].Edges))
	for _, e := range h.Faces[face].Edges {
		for _, f := range h.Edges[e].Faces {
			if f != face {
				out = append(out, f)
			}
		}
	}
	return out
}

// Bounds returns the local bounding box of all vertices.
func (h *Hull) Bounds() AABB {
	box := emptyAABB()
	for _, v := range h.Vertices {
		box = box.Expand(v.Pos)
	}
	return box
}

// NewBoxHull builds an axis-aligned box centered on the origin.
func NewBoxHull(half rl.Vector3) *Hull {
	h := &Hull{}
	for i := 0; i < 8; i++ {
		p := rl.Vector3{X: -half.X, Y: -half.Y, Z: -half.Z}
		if i&1 != 0 {
			p.X = half.X
		}
		if i&2 != 0 {
			p.Y = half.Y
		}
		if i&4 != 0 {
			p.Z = half.Z
		}
		h.AddVertex(p)
	}

	// Counter-clockwise when viewed from outside.
	h.AddFace(rl.Vector3{X: -1}, []int{0, 4, 6, 2})
	h.AddFace(rl.Vector3{X: 1}, []int{1, 3, 7, 5})
	h.AddFace(rl.Vector3{Y: -1}, []int{0, 1, 5, 4})
	h.AddFace(rl.Vector3{Y: 1}, []int{2, 6, 7, 3})
	h.AddFace(rl.Vector3{Z: -1}, []int{0, 2, 3, 1})
	h.AddFace(rl.Vector3{Z: 1}, []int{4, 5, 7, 6})
	return h
}
