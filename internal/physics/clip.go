package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// clipPolygon trims poly to the half-space behind plane (Sutherland-Hodgman).
// Single points and segments are handled by the same loop.
func clipPolygon(poly []rl.Vector3, plane ClipPlane) []rl.Vector3 {
	if len(poly) == 0 {
		return nil
	}
	if len(poly) == 1 {
		if plane.Distance(poly[0]) <= 0 {
			return poly
		}
		return nil
	}

	out := make([]rl.Vector3, 0, len(poly)+1)
	prev := poly[len(poly)-1]
	prevDist := plane.Distance(prev)
	for _, cur := range poly {
		curDist := plane.Distance(cur)
		// A vertex on the plane is kept once; only strict crossings add a point.
		if curDist <= 0 {
			if prevDist > 0 && curDist < 0 {
				out = append(out, intersectEdge(prev, cur, prevDist, curDist))
			}
			out = append(out, cur)
		} else if prevDist < 0 {
			out = append(out, intersectEdge(prev, cur, prevDist, curDist))
		}
		prev, prevDist = cur, curDist
	}
	return out
}

// intersectEdge returns where segment a-b crosses the plane, given the
// signed distances of both endpoints.
func intersectEdge(a, b rl.Vector3, da, db float32) rl.Vector3 {
	t := da / (da - db)
	return rl.Vector3Lerp(a, b, t)
}

// clipToFace clips an incident polygon against the reference face's side
// planes and then against the face itself, keeping only penetrating points.
func clipToFace(incident []rl.Vector3, ref Face) []rl.Vector3 {
	poly := incident
	for _, p := range ref.ClipPlanes {
		poly = clipPolygon(poly, p)
		if len(poly) == 0 {
			return nil
		}
	}

	out := make([]rl.Vector3, 0, len(poly))
	for _, v := range poly {
		if ref.Plane.Distance(v) <= 0 {
			out = append(out, v)
		}
	}
	return out
}
