// Package debugdraw renders physics bodies and the engine's debug overlay
// with raylib. Everything here must be called between BeginMode3D and
// EndMode3D.
package debugdraw

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"rigid3d/internal/physics"
)

// Raylib implements physics.DebugDrawer.
type Raylib struct {
	PointRadius float32
}

func New() *Raylib {
	return &Raylib{PointRadius: 0.05}
}

func (r *Raylib) Line(a, b rl.Vector3, color rl.Color) {
	rl.DrawLine3D(a, b, color)
}

func (r *Raylib) Point(p rl.Vector3, color rl.Color) {
	rl.DrawSphere(p, r.PointRadius, color)
}

// lightDir is the fixed direction faces are shaded against.
var lightDir = rl.Vector3Normalize(rl.Vector3{X: 0.4, Y: 1, Z: 0.25})

// groundSize is the side length drawn for planes.
const groundSize = 40

// DrawBody draws every shape of b as solid geometry.
func DrawBody(b *physics.Body, color rl.Color) {
	for _, s := range b.Shapes() {
		switch shape := s.(type) {
		case *physics.Sphere:
			rl.DrawSphere(shape.Center(b), shape.Radius, color)
		case *physics.Plane:
			drawPlane(shape.Center(b), shape.WorldNormal(b), color)
		default:
			polys, normals := physics.FacePolygons(b, s)
			for i, poly := range polys {
				drawFace(poly, normals[i], shade(color, normals[i]))
			}
		}
	}
}

// drawPlane only has a solid form for planes facing straight up; tilted
// planes are left to the debug overlay.
func drawPlane(center, normal rl.Vector3, color rl.Color) {
	if normal.Y < 0.999 {
		return
	}
	rl.DrawPlane(center, rl.Vector2{X: groundSize, Y: groundSize}, color)
}

// drawFace fans the polygon into triangles wound counter-clockwise around
// normal, which is the side raylib treats as front.
func drawFace(poly []rl.Vector3, normal rl.Vector3, color rl.Color) {
	for i := 1; i+1 < len(poly); i++ {
		a, b, c := poly[0], poly[i], poly[i+1]
		n := rl.Vector3CrossProduct(rl.Vector3Subtract(b, a), rl.Vector3Subtract(c, a))
		if rl.Vector3DotProduct(n, normal) < 0 {
			b, c = c, b
		}
		rl.DrawTriangle3D(a, b, c, color)
	}
}

// shade darkens faces turned away from the light.
func shade(color rl.Color, normal rl.Vector3) rl.Color {
	k := 0.45 + 0.55*max(rl.Vector3DotProduct(normal, lightDir), 0)
	return rl.NewColor(
		uint8(float32(color.R)*k),
		uint8(float32(color.G)*k),
		uint8(float32(color.B)*k),
		color.A,
	)
}
