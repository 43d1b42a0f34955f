package engine

import (
	"errors"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"rigid3d/internal/physics"
)

// Shape types accepted in a scene file.
const (
	ShapeSphere = "sphere"
	ShapeCuboid = "cuboid"
	ShapePlane  = "plane"
	ShapeHull   = "hull"
)

// Constraint types accepted in a scene file.
const (
	ConstraintDistance = "distance"
	ConstraintSpring   = "spring"
	ConstraintWeld     = "weld"
)

type SceneFile struct {
	Name        string           `yaml:"name"`
	Objects     []ObjectSpec     `yaml:"objects"`
	Constraints []ConstraintSpec `yaml:"constraints"`
}

type ObjectSpec struct {
	Name            string      `yaml:"name"`
	Tags            []string    `yaml:"tags"`
	Shapes          []ShapeSpec `yaml:"shapes"`
	Position        [3]float32  `yaml:"position,flow"`
	Rotation        [3]float32  `yaml:"rotation,flow"` // degrees
	Velocity        [3]float32  `yaml:"velocity,flow"`
	AngularVelocity [3]float32  `yaml:"angular_velocity,flow"`
	Mass            float32     `yaml:"mass"` // 0 = static
	Elasticity      *float32    `yaml:"elasticity"`
	Friction        *float32    `yaml:"friction"`
	Gravity         *bool       `yaml:"gravity"`
	GravityTarget   string      `yaml:"gravity_target"`
}

type ShapeSpec struct {
	Type        string       `yaml:"type"`
	Radius      float32      `yaml:"radius"`
	HalfExtents [3]float32   `yaml:"half_extents,flow"`
	Normal      [3]float32   `yaml:"normal,flow"`
	Vertices    [][3]float32 `yaml:"vertices"`
	Faces       [][]int      `yaml:"faces"`
	Offset      [3]float32   `yaml:"offset,flow"`
	Rotation    [3]float32   `yaml:"rotation,flow"` // degrees
}

// ConstraintSpec joins two named objects. Anchors are world points and
// default to each body's position; a missing length keeps the current
// distance.
type ConstraintSpec struct {
	Type      string      `yaml:"type"`
	A         string      `yaml:"a"`
	B         string      `yaml:"b"`
	AnchorA   *[3]float32 `yaml:"anchor_a,flow"`
	AnchorB   *[3]float32 `yaml:"anchor_b,flow"`
	Length    *float32    `yaml:"length"`
	Stiffness float32     `yaml:"stiffness"`
	Damping   float32     `yaml:"damping"`
}

func LoadSceneFile(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	sf, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return sf, nil
}

// ParseScene decodes and checks a scene. Shape geometry and references
// between objects are validated here so Build only fails on engine errors.
func ParseScene(data []byte) (*SceneFile, error) {
	var sf SceneFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if err := sf.Validate(); err != nil {
		return nil, err
	}
	return &sf, nil
}

func (sf *SceneFile) Validate() error {
	names := make(map[string]bool, len(sf.Objects))
	for i, o := range sf.Objects {
		if o.Name == "" {
			return fmt.Errorf("objects[%d]: name is required", i)
		}
		if names[o.Name] {
			return fmt.Errorf("objects[%d]: duplicate name %q", i, o.Name)
		}
		names[o.Name] = true
		if o.Mass < 0 {
			return fmt.Errorf("object %q: mass must not be negative, got %v", o.Name, o.Mass)
		}
		if len(o.Shapes) == 0 {
			return fmt.Errorf("object %q: at least one shape is required", o.Name)
		}
		for j, s := range o.Shapes {
			if err := s.validate(); err != nil {
				return fmt.Errorf("object %q: shapes[%d]: %w", o.Name, j, err)
			}
		}
	}
	for _, o := range sf.Objects {
		if o.GravityTarget != "" && !names[o.GravityTarget] {
			return fmt.Errorf("object %q: unknown gravity_target %q", o.Name, o.GravityTarget)
		}
	}

	for i, c := range sf.Constraints {
		switch c.Type {
		case ConstraintDistance, ConstraintWeld:
		case ConstraintSpring:
			if c.Stiffness <= 0 {
				return fmt.Errorf("constraints[%d]: spring stiffness must be positive, got %v", i, c.Stiffness)
			}
		default:
			return fmt.Errorf("constraints[%d]: unknown type %q", i, c.Type)
		}
		if !names[c.A] || !names[c.B] {
			return fmt.Errorf("constraints[%d]: unknown object %q or %q", i, c.A, c.B)
		}
		if c.A == c.B {
			return fmt.Errorf("constraints[%d]: %q cannot be joined to itself", i, c.A)
		}
	}
	return nil
}

func (s ShapeSpec) validate() error {
	switch s.Type {
	case ShapeSphere:
		if s.Radius <= 0 {
			return fmt.Errorf("sphere radius must be positive, got %v", s.Radius)
		}
	case ShapeCuboid:
		if s.HalfExtents[0] <= 0 || s.HalfExtents[1] <= 0 || s.HalfExtents[2] <= 0 {
			return fmt.Errorf("cuboid half_extents must be positive, got %v", s.HalfExtents)
		}
	case ShapePlane:
		if s.Normal == [3]float32{} {
			return errors.New("plane normal must not be zero")
		}
	case ShapeHull:
		if len(s.Vertices) < 4 || len(s.Faces) < 4 {
			return fmt.Errorf("hull needs at least 4 vertices and 4 faces, got %d and %d", len(s.Vertices), len(s.Faces))
		}
		for i, f := range s.Faces {
			if len(f) < 3 {
				return fmt.Errorf("hull faces[%d] has %d vertices", i, len(f))
			}
			for _, v := range f {
				if v < 0 || v >= len(s.Vertices) {
					return fmt.Errorf("hull faces[%d] references vertex %d", i, v)
				}
			}
		}
	default:
		return fmt.Errorf("unknown shape type %q", s.Type)
	}
	return nil
}

// Build creates every object and constraint in eng and returns the scene
// that owns them.
func (sf *SceneFile) Build(eng *physics.Engine) (*Scene, error) {
	scene := NewScene(sf.Name, eng)

	for _, o := range sf.Objects {
		def := BodyDef{
			Position:        vec3(o.Position),
			Rotation:        vec3(o.Rotation),
			Velocity:        vec3(o.Velocity),
			AngularVelocity: vec3(o.AngularVelocity),
			Mass:            o.Mass,
			Elasticity:      o.Elasticity,
			Friction:        o.Friction,
			NoGravity:       o.Gravity != nil && !*o.Gravity,
		}
		for _, s := range o.Shapes {
			def.Shapes = append(def.Shapes, s.build())
		}
		obj, err := NewPhysicsObject(eng, o.Name, def)
		if err != nil {
			return nil, fmt.Errorf("scene: object %q: %w", o.Name, err)
		}
		obj.Tags = o.Tags
		scene.AddGameObject(obj)
	}

	// Gravity targets may point forward in the file.
	for _, o := range sf.Objects {
		if o.GravityTarget == "" {
			continue
		}
		obj := scene.FindByName(o.Name)
		target := scene.FindByName(o.GravityTarget)
		obj.PhysicsBody(eng).GravityTarget = target.Body
	}

	for i, c := range sf.Constraints {
		a := scene.FindByName(c.A).PhysicsBody(eng)
		b := scene.FindByName(c.B).PhysicsBody(eng)
		if err := eng.AddConstraint(c.build(a, b)); err != nil {
			return nil, fmt.Errorf("scene: constraints[%d]: %w", i, err)
		}
	}
	return scene, nil
}

func (s ShapeSpec) build() physics.CollisionShape {
	var shape physics.CollisionShape
	switch s.Type {
	case ShapeSphere:
		shape = physics.NewSphere(s.Radius)
	case ShapeCuboid:
		shape = physics.NewCuboid(vec3(s.HalfExtents))
	case ShapePlane:
		shape = physics.NewPlane(vec3(s.Normal))
	case ShapeHull:
		shape = physics.NewHullShape(buildHull(s.Vertices, s.Faces))
	}
	if t, ok := shape.(interface {
		SetLocalTransform(offset rl.Vector3, orientation rl.Quaternion)
	}); ok && (s.Offset != [3]float32{} || s.Rotation != [3]float32{}) {
		t.SetLocalTransform(vec3(s.Offset), EulerToQuaternion(vec3(s.Rotation)))
	}
	return shape
}

// buildHull computes each face normal from its first three vertices and
// flips it to point away from the vertex centroid, so face winding in the
// file does not matter.
func buildHull(vertices [][3]float32, faces [][]int) *physics.Hull {
	h := &physics.Hull{}
	var centroid rl.Vector3
	for _, v := range vertices {
		p := vec3(v)
		h.AddVertex(p)
		centroid = rl.Vector3Add(centroid, p)
	}
	centroid = rl.Vector3Scale(centroid, 1/float32(len(vertices)))

	for _, f := range faces {
		p0, p1, p2 := vec3(vertices[f[0]]), vec3(vertices[f[1]]), vec3(vertices[f[2]])
		n := rl.Vector3CrossProduct(rl.Vector3Subtract(p1, p0), rl.Vector3Subtract(p2, p0))
		indices := f
		if rl.Vector3DotProduct(n, rl.Vector3Subtract(p0, centroid)) < 0 {
			n = rl.Vector3Negate(n)
			indices = reversed(f)
		}
		h.AddFace(n, indices)
	}
	return h
}

func reversed(f []int) []int {
	out := make([]int, len(f))
	for i, v := range f {
		out[len(f)-1-i] = v
	}
	return out
}

func (c ConstraintSpec) build(a, b *physics.Body) physics.Constraint {
	anchorA, anchorB := a.Position(), b.Position()
	if c.AnchorA != nil {
		anchorA = vec3(*c.AnchorA)
	}
	if c.AnchorB != nil {
		anchorB = vec3(*c.AnchorB)
	}
	length := float32(-1)
	if c.Length != nil {
		length = *c.Length
	}

	switch c.Type {
	case ConstraintSpring:
		return physics.NewSpringConstraint(a, b, anchorA, anchorB, length, c.Stiffness, c.Damping)
	case ConstraintWeld:
		return physics.NewWeldConstraint(a, b, anchorA)
	}
	return physics.NewDistanceConstraint(a, b, anchorA, anchorB, length)
}

func vec3(v [3]float32) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}
