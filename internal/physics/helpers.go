package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const maxFloat = float32(math.MaxFloat32)

// Axis selects a world axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// Unit returns the world unit vector for the axis.
func (a Axis) Unit() rl.Vector3 {
	switch a {
	case AxisY:
		return rl.Vector3{Y: 1}
	case AxisZ:
		return rl.Vector3{Z: 1}
	}
	return rl.Vector3{X: 1}
}

func component(v rl.Vector3, axis Axis) float32 {
	switch axis {
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	}
	return v.X
}

// cross computes the cross product of two vectors
func cross(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func dot(a, b rl.Vector3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// clamp restricts a value to a range
func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func sqrtf(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// normalizeOr returns v normalized, or fallback when v is (nearly) zero length.
func normalizeOr(v, fallback rl.Vector3) rl.Vector3 {
	lenSq := dot(v, v)
	if lenSq < axisEpsilonSq {
		return fallback
	}
	return rl.Vector3Scale(v, 1/sqrtf(lenSq))
}

// conjugate is the inverse of a unit quaternion.
func conjugate(q rl.Quaternion) rl.Quaternion {
	return rl.Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// integrateOrientation advances q by angular velocity w over dt (first order).
func integrateOrientation(q rl.Quaternion, w rl.Vector3, dt float32) rl.Quaternion {
	half := dt * 0.5
	spin := rl.Quaternion{X: w.X * half, Y: w.Y * half, Z: w.Z * half, W: 0}
	dq := rl.QuaternionMultiply(spin, q)
	return rl.QuaternionNormalize(rl.Quaternion{
		X: q.X + dq.X,
		Y: q.Y + dq.Y,
		Z: q.Z + dq.Z,
		W: q.W + dq.W,
	})
}

// tangentBasis returns two unit vectors perpendicular to n and to each other.
func tangentBasis(n rl.Vector3) (rl.Vector3, rl.Vector3) {
	var t1 rl.Vector3
	if absf(n.X) >= 0.57735 {
		t1 = rl.Vector3{X: n.Y, Y: -n.X, Z: 0}
	} else {
		t1 = rl.Vector3{X: 0, Y: n.Z, Z: -n.Y}
	}
	t1 = rl.Vector3Normalize(t1)
	return t1, cross(n, t1)
}

// closestPointOnSegment clamps the projection of p onto segment ab.
func closestPointOnSegment(p, a, b rl.Vector3) rl.Vector3 {
	ab := rl.Vector3Subtract(b, a)
	lenSq := dot(ab, ab)
	if lenSq < axisEpsilonSq {
		return a
	}
	t := clamp(dot(rl.Vector3Subtract(p, a), ab)/lenSq, 0, 1)
	return rl.Vector3Add(a, rl.Vector3Scale(ab, t))
}

// diagonalMatrix builds an rl.Matrix holding a diagonal 3x3 tensor.
func diagonalMatrix(x, y, z float32) rl.Matrix {
	return rl.Matrix{M0: x, M5: y, M10: z, M15: 1}
}

// mulTensor multiplies the upper-left 3x3 of m by v, ignoring translation.
func mulTensor(m rl.Matrix, v rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: m.M0*v.X + m.M4*v.Y + m.M8*v.Z,
		Y: m.M1*v.X + m.M5*v.Y + m.M9*v.Z,
		Z: m.M2*v.X + m.M6*v.Y + m.M10*v.Z,
	}
}

func sinCos(angle float32) (float32, float32) {
	s, c := math.Sincos(float64(angle))
	return float32(s), float32(c)
}
