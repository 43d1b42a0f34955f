package physics

import (
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	// axisEpsilonSq rejects candidate axes too short to normalize.
	axisEpsilonSq = 1e-12
	// axisParallelEpsilon rejects axes nearly parallel to one already gathered.
	axisParallelEpsilon = 1e-6
	// edgeAxisBias makes an edge-edge axis win only when clearly shallower
	// than the best face axis, which keeps resting contacts on faces.
	edgeAxisBias = 1e-3
)

// CollisionData describes the minimum-penetration axis of a colliding pair.
type CollisionData struct {
	Normal      rl.Vector3 // unit, points from A towards B
	Penetration float32    // overlap along Normal, >= 0
	PointA      rl.Vector3 // deepest support point of A along Normal
	PointB      rl.Vector3 // deepest support point of B along -Normal
}

// SAT is the separating axis narrowphase. One value is reused for every
// shape pair of a step; BeginPair resets its scratch state.
type SAT struct {
	bodyA, bodyB   *Body
	shapeA, shapeB CollisionShape

	axes      []rl.Vector3
	edgeAxis  []bool
	data      CollisionData
	colliding bool

	reported map[[2]ShapeKind]bool
}

// BeginPair prepares the narrowphase for one shape pair.
func (s *SAT) BeginPair(a *Body, shapeA CollisionShape, b *Body, shapeB CollisionShape) {
	s.bodyA, s.bodyB = a, b
	s.shapeA, s.shapeB = shapeA, shapeB
	s.axes = s.axes[:0]
	s.edgeAxis = s.edgeAxis[:0]
	s.data = CollisionData{}
	s.colliding = false
}

// AreColliding tests every candidate axis and reports the shallowest overlap.
// It returns false as soon as one axis separates the shapes.
func (s *SAT) AreColliding() (bool, CollisionData) {
	kindA, kindB := s.shapeA.Kind(), s.shapeB.Kind()
	if kindA == ShapePlane && kindB == ShapePlane {
		s.reportUnsupported(kindA, kindB)
		return false, CollisionData{}
	}

	s.gatherAxes()
	if len(s.axes) == 0 {
		return false, CollisionData{}
	}

	best := CollisionData{Penetration: maxFloat}
	found := false
	for i, axis := range s.axes {
		minA, maxA := s.shapeA.SupportExtent(s.bodyA, axis)
		minB, maxB := s.shapeB.SupportExtent(s.bodyB, axis)
		loA, hiA := dot(minA, axis), dot(maxA, axis)
		loB, hiB := dot(minB, axis), dot(maxB, axis)

		if hiA <= loB || hiB <= loA {
			return false, CollisionData{}
		}

		// B ahead of A along axis, or behind it.
		forward := hiA - loB
		backward := hiB - loA
		cand := CollisionData{Normal: axis, Penetration: forward, PointA: maxA, PointB: minB}
		if backward < forward {
			cand = CollisionData{Normal: rl.Vector3Negate(axis), Penetration: backward, PointA: minA, PointB: maxB}
		}

		limit := best.Penetration
		if s.edgeAxis[i] && found {
			limit -= edgeAxisBias
		}
		if !found || cand.Penetration < limit {
			best = cand
			found = true
		}
	}

	s.data = best
	s.colliding = true
	return true, best
}

// gatherAxes collects face normals, edge-edge cross products and the sphere
// and plane special-case axes.
func (s *SAT) gatherAxes() {
	a, b := s.bodyA, s.bodyB
	sa, sb := s.shapeA, s.shapeB

	for _, axis := range sa.CollisionAxes(a) {
		s.addAxis(axis, false)
	}
	for _, axis := range sb.CollisionAxes(b) {
		s.addAxis(axis, false)
	}

	if p, ok := sa.(*Plane); ok {
		s.addAxis(p.WorldNormal(a), false)
	}
	if p, ok := sb.(*Plane); ok {
		s.addAxis(p.WorldNormal(b), false)
	}

	sphereA, sphereB := sa.Kind() == ShapeSphere, sb.Kind() == ShapeSphere
	switch {
	case sphereA && sphereB:
		s.addAxis(rl.Vector3Subtract(sb.Center(b), sa.Center(a)), false)
		if len(s.axes) == 0 {
			// Concentric spheres; any direction separates them equally.
			s.addAxis(rl.Vector3{Y: 1}, false)
		}
	case sphereA:
		s.addSphereAxis(sa.Center(a), sb.Edges(b))
	case sphereB:
		s.addSphereAxis(sb.Center(b), sa.Edges(a))
	default:
		edgesA := edgeDirections(sa.Edges(a))
		edgesB := edgeDirections(sb.Edges(b))
		for _, ea := range edgesA {
			for _, eb := range edgesB {
				s.addAxis(cross(ea, eb), true)
			}
		}
	}
}

// addSphereAxis adds the direction from a sphere center to the closest point
// on the other shape's edges.
func (s *SAT) addSphereAxis(center rl.Vector3, edges []Segment) {
	if len(edges) == 0 {
		return
	}
	bestDist := maxFloat
	var closest rl.Vector3
	for _, e := range edges {
		p := closestPointOnSegment(center, e.A, e.B)
		d := rl.Vector3LengthSqr(rl.Vector3Subtract(p, center))
		if d < bestDist {
			bestDist, closest = d, p
		}
	}
	s.addAxis(rl.Vector3Subtract(closest, center), false)
}

// addAxis normalizes and dedupes a candidate axis. Opposite directions count
// as the same axis.
func (s *SAT) addAxis(axis rl.Vector3, fromEdges bool) {
	lenSq := dot(axis, axis)
	if lenSq < axisEpsilonSq {
		return
	}
	n := rl.Vector3Scale(axis, 1/sqrtf(lenSq))
	for _, existing := range s.axes {
		if absf(dot(existing, n)) > 1-axisParallelEpsilon {
			return
		}
	}
	s.axes = append(s.axes, n)
	s.edgeAxis = append(s.edgeAxis, fromEdges)
}

// edgeDirections returns the unique unit directions among edges.
func edgeDirections(edges []Segment) []rl.Vector3 {
	out := make([]rl.Vector3, 0, len(edges))
	for _, e := range edges {
		d := rl.Vector3Subtract(e.B, e.A)
		lenSq := dot(d, d)
		if lenSq < axisEpsilonSq {
			continue
		}
		d = rl.Vector3Scale(d, 1/sqrtf(lenSq))
		dup := false
		for _, o := range out {
			if absf(dot(o, d)) > 1-axisParallelEpsilon {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, d)
		}
	}
	return out
}

func (s *SAT) reportUnsupported(a, b ShapeKind) {
	key := [2]ShapeKind{a, b}
	if s.reported[key] {
		return
	}
	if s.reported == nil {
		s.reported = make(map[[2]ShapeKind]bool)
	}
	s.reported[key] = true
	log.Printf("Physics: unsupported shape pair %s vs %s, treating as not colliding", a, b)
}

// GenerateContacts fills m with the contact points of the pair last tested
// by AreColliding. It does nothing when the pair was not colliding.
func (s *SAT) GenerateContacts(m *Manifold) {
	if !s.colliding {
		return
	}
	n := s.data.Normal
	pen := s.data.Penetration

	switch {
	case s.shapeA.Kind() == ShapeSphere:
		sph := s.shapeA.(*Sphere)
		surface := rl.Vector3Add(sph.Center(s.bodyA), rl.Vector3Scale(n, sph.Radius))
		s.addContact(m, rl.Vector3Subtract(surface, rl.Vector3Scale(n, pen*0.5)), pen)
		return
	case s.shapeB.Kind() == ShapeSphere:
		sph := s.shapeB.(*Sphere)
		surface := rl.Vector3Subtract(sph.Center(s.bodyB), rl.Vector3Scale(n, sph.Radius))
		s.addContact(m, rl.Vector3Add(surface, rl.Vector3Scale(n, pen*0.5)), pen)
		return
	}

	faceA := s.shapeA.IncidentFace(s.bodyA, n)
	faceB := s.shapeB.IncidentFace(s.bodyB, rl.Vector3Negate(n))

	// The face most aligned with the axis is the reference; planes always are.
	refIsA := absf(dot(faceA.Normal, n)) >= absf(dot(faceB.Normal, n))
	switch {
	case s.shapeA.Kind() == ShapePlane:
		refIsA = true
	case s.shapeB.Kind() == ShapePlane:
		refIsA = false
	}
	ref, inc := faceA, faceB
	if !refIsA {
		ref, inc = faceB, faceA
	}

	emitted := 0
	if len(inc.Polygon) > 1 && len(ref.Polygon) > 1 {
		for _, p := range clipToFace(inc.Polygon, ref) {
			depth := -ref.Plane.Distance(p)
			// Midway between the incident point and its projection on the reference face.
			mid := rl.Vector3Add(p, rl.Vector3Scale(ref.Normal, depth*0.5))
			s.addContact(m, mid, depth)
			emitted++
		}
	}

	if emitted == 0 {
		s.addContact(m, s.fallbackPoint(), pen)
	}
}

// fallbackPoint estimates a single contact from the best-axis support points.
func (s *SAT) fallbackPoint() rl.Vector3 {
	n := s.data.Normal
	half := s.data.Penetration * 0.5
	switch {
	case s.shapeA.Kind() == ShapePlane:
		return rl.Vector3Add(s.data.PointB, rl.Vector3Scale(n, half))
	case s.shapeB.Kind() == ShapePlane:
		return rl.Vector3Subtract(s.data.PointA, rl.Vector3Scale(n, half))
	}
	return rl.Vector3Lerp(s.data.PointA, s.data.PointB, 0.5)
}

func (s *SAT) addContact(m *Manifold, point rl.Vector3, depth float32) {
	m.AddContact(ContactPoint{
		Point:       point,
		RelA:        rl.Vector3Subtract(point, s.bodyA.position),
		RelB:        rl.Vector3Subtract(point, s.bodyB.position),
		Normal:      s.data.Normal,
		Penetration: depth,
	})
}
