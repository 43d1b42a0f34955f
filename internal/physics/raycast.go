package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

type RaycastHit struct {
	Body     BodyID
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// Raycast checks every shape of every body and returns the closest hit
func (e *Engine) Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	direction = normalizeOr(direction, rl.Vector3{})
	if direction == (rl.Vector3{}) {
		return RaycastHit{}, false
	}
	var closestHit RaycastHit
	closestHit.Distance = maxDistance
	hit := false

	for _, b := range e.bodies.All() {
		for _, s := range b.shapes {
			var hitInfo RaycastHit
			var ok bool
			switch shape := s.(type) {
			case *Sphere:
				hitInfo, ok = raycastSphere(origin, direction, shape.Center(b), shape.Radius, maxDistance)
			case *Plane:
				hitInfo, ok = raycastPlane(origin, direction, shape.Center(b), shape.WorldNormal(b), maxDistance)
			case hullBacked:
				base, h := shape.geometry()
				hitInfo, ok = raycastHull(origin, direction, base, h, b, maxDistance)
			}
			if ok && hitInfo.Distance < closestHit.Distance {
				closestHit = hitInfo
				closestHit.Body = b.id
				hit = true
			}
		}
	}

	return closestHit, hit
}

// hullBacked is implemented by shapes whose geometry is a Hull.
type hullBacked interface {
	geometry() (*shapeBase, *Hull)
}

func (c *Cuboid) geometry() (*shapeBase, *Hull)    { return &c.shapeBase, c.hull }
func (s *HullShape) geometry() (*shapeBase, *Hull) { return &s.shapeBase, s.Hull }

// raycastHull clips the ray against every face plane of a convex hull.
func raycastHull(origin, direction rl.Vector3, base *shapeBase, h *Hull, b *Body, maxDistance float32) (RaycastHit, bool) {
	tmin, tmax := float32(-1e30), float32(1e30)
	var enterNormal, exitNormal rl.Vector3

	for _, f := range h.Faces {
		if len(f.Vertices) == 0 {
			continue
		}
		n := base.toWorldDir(b, f.Normal)
		plane := newClipPlane(n, base.toWorldPoint(b, h.Vertices[f.Vertices[0]].Pos))
		denom := dot(n, direction)
		dist := plane.Distance(origin)

		if denom == 0 {
			// Parallel to this face: outside it means a miss.
			if dist > 0 {
				return RaycastHit{}, false
			}
			continue
		}
		t := -dist / denom
		if denom < 0 {
			if t > tmin {
				tmin, enterNormal = t, n
			}
		} else if t < tmax {
			tmax, exitNormal = t, n
		}
		if tmin > tmax {
			return RaycastHit{}, false
		}
	}

	if tmax < 0 || tmin > maxDistance {
		return RaycastHit{}, false
	}

	// Starting inside the hull reports the exit point.
	t, normal := tmin, enterNormal
	if t < 0 {
		t, normal = tmax, exitNormal
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}

func raycastSphere(origin, direction, center rl.Vector3, radius, maxDistance float32) (RaycastHit, bool) {
	oc := rl.Vector3Subtract(origin, center)
	a := rl.Vector3DotProduct(direction, direction)
	b := 2.0 * rl.Vector3DotProduct(oc, direction)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return RaycastHit{}, false
	}

	t := (-b - sqrtf(discriminant)) / (2 * a)
	if t < 0 {
		t = (-b + sqrtf(discriminant)) / (2 * a)
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := rl.Vector3Normalize(rl.Vector3Subtract(point, center))

	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}

// raycastPlane hits the surface from the front only.
func raycastPlane(origin, direction, point, normal rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	denom := dot(normal, direction)
	if denom >= 0 {
		return RaycastHit{}, false
	}
	t := dot(rl.Vector3Subtract(point, origin), normal) / denom
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}
	hitPoint := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	return RaycastHit{Point: hitPoint, Normal: normal, Distance: t}, true
}
