// Package config loads the engine's YAML tuning file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"rigid3d/internal/physics"
)

// DefaultPath is where tools look for the config, relative to the working directory.
const DefaultPath = "config/physics.yaml"

// Broadphase kinds accepted in broadphase.kind and broadphase.octree.leaf.
const (
	BroadphaseBruteForce   = "brute_force"
	BroadphaseSortAndSweep = "sort_and_sweep"
	BroadphaseOctree       = "octree"
	BroadphaseGPU          = "gpu"
)

type Config struct {
	Physics    PhysicsSpec    `yaml:"physics"`
	Broadphase BroadphaseSpec `yaml:"broadphase"`
	Debug      DebugSpec      `yaml:"debug"`
}

type PhysicsSpec struct {
	Timestep             float32    `yaml:"timestep"`
	MaxSubsteps          int        `yaml:"max_substeps"`
	SolverIterations     int        `yaml:"solver_iterations"`
	Gravity              [3]float32 `yaml:"gravity,flow"`
	Baumgarte            float32    `yaml:"baumgarte"`
	PenetrationSlop      float32    `yaml:"penetration_slop"`
	RestitutionThreshold float32    `yaml:"restitution_threshold"`
	LinearDamping        float32    `yaml:"linear_damping"`
	AngularDamping       float32    `yaml:"angular_damping"`
	Sleep                bool       `yaml:"sleep"`
}

type BroadphaseSpec struct {
	Kind          string     `yaml:"kind"`
	Axis          string     `yaml:"axis"`
	Octree        OctreeSpec `yaml:"octree"`
	GPUMaxObjects uint32     `yaml:"gpu_max_objects"`
}

type OctreeSpec struct {
	MaxObjects int    `yaml:"max_objects"`
	MaxDepth   int    `yaml:"max_depth"`
	Leaf       string `yaml:"leaf"`
}

type DebugSpec struct {
	CollisionVolumes bool `yaml:"collision_volumes"`
	CollisionNormals bool `yaml:"collision_normals"`
	Manifolds        bool `yaml:"manifolds"`
	Constraints      bool `yaml:"constraints"`
	BoundingBoxes    bool `yaml:"bounding_boxes"`
	BroadphasePairs  bool `yaml:"broadphase_pairs"`
}

// Default mirrors physics.DefaultConfig with sort-and-sweep on X and all
// debug overlays off.
func Default() Config {
	p := physics.DefaultConfig()
	return Config{
		Physics: PhysicsSpec{
			Timestep:             p.Timestep,
			MaxSubsteps:          p.MaxSubsteps,
			SolverIterations:     p.SolverIterations,
			Gravity:              [3]float32{p.Gravity.X, p.Gravity.Y, p.Gravity.Z},
			Baumgarte:            p.Solver.Baumgarte,
			PenetrationSlop:      p.Solver.PenetrationSlop,
			RestitutionThreshold: p.Solver.RestitutionThreshold,
			LinearDamping:        p.LinearDamping,
			AngularDamping:       p.AngularDamping,
			Sleep:                p.Sleep,
		},
		Broadphase: BroadphaseSpec{
			Kind: BroadphaseSortAndSweep,
			Axis: "x",
			Octree: OctreeSpec{
				MaxObjects: 8,
				MaxDepth:   6,
				Leaf:       BroadphaseSortAndSweep,
			},
			GPUMaxObjects: 50000,
		},
	}
}

// Load reads and validates the config at path. A missing file yields
// Default() and no error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default(), so omitted keys keep their defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: save %s: %w", path, err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: save %s: %w", path, err)
	}
	return nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	p := c.Physics
	switch {
	case p.Timestep <= 0 || p.Timestep > 0.1:
		return fmt.Errorf("physics.timestep must be in (0, 0.1], got %v", p.Timestep)
	case p.MaxSubsteps < 1:
		return fmt.Errorf("physics.max_substeps must be at least 1, got %d", p.MaxSubsteps)
	case p.SolverIterations < 1:
		return fmt.Errorf("physics.solver_iterations must be at least 1, got %d", p.SolverIterations)
	case p.Baumgarte <= 0 || p.Baumgarte > 1:
		return fmt.Errorf("physics.baumgarte must be in (0, 1], got %v", p.Baumgarte)
	case p.PenetrationSlop < 0:
		return fmt.Errorf("physics.penetration_slop must not be negative, got %v", p.PenetrationSlop)
	case p.RestitutionThreshold < 0:
		return fmt.Errorf("physics.restitution_threshold must not be negative, got %v", p.RestitutionThreshold)
	case p.LinearDamping <= 0 || p.LinearDamping > 1:
		return fmt.Errorf("physics.linear_damping must be in (0, 1], got %v", p.LinearDamping)
	case p.AngularDamping <= 0 || p.AngularDamping > 1:
		return fmt.Errorf("physics.angular_damping must be in (0, 1], got %v", p.AngularDamping)
	}

	b := c.Broadphase
	switch b.Kind {
	case BroadphaseBruteForce, BroadphaseSortAndSweep, BroadphaseGPU:
	case BroadphaseOctree:
		if b.Octree.MaxObjects < 1 {
			return fmt.Errorf("broadphase.octree.max_objects must be at least 1, got %d", b.Octree.MaxObjects)
		}
		if b.Octree.MaxDepth < 1 {
			return fmt.Errorf("broadphase.octree.max_depth must be at least 1, got %d", b.Octree.MaxDepth)
		}
		if b.Octree.Leaf != BroadphaseBruteForce && b.Octree.Leaf != BroadphaseSortAndSweep {
			return fmt.Errorf("broadphase.octree.leaf must be %s or %s, got %q", BroadphaseBruteForce, BroadphaseSortAndSweep, b.Octree.Leaf)
		}
	default:
		return fmt.Errorf("broadphase.kind %q is not one of %s, %s, %s, %s", b.Kind,
			BroadphaseBruteForce, BroadphaseSortAndSweep, BroadphaseOctree, BroadphaseGPU)
	}
	if _, err := ParseAxis(b.Axis); err != nil {
		return fmt.Errorf("broadphase.axis: %w", err)
	}
	if b.Kind == BroadphaseGPU && b.GPUMaxObjects == 0 {
		return errors.New("broadphase.gpu_max_objects must be positive")
	}
	return nil
}

// ParseAxis accepts x, y or z in any case.
func ParseAxis(s string) (physics.Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return physics.AxisX, nil
	case "y":
		return physics.AxisY, nil
	case "z":
		return physics.AxisZ, nil
	}
	return physics.AxisX, fmt.Errorf("unknown axis %q", s)
}

// EngineConfig converts the physics section.
func (c Config) EngineConfig() physics.Config {
	p := c.Physics
	return physics.Config{
		Timestep:         p.Timestep,
		MaxSubsteps:      p.MaxSubsteps,
		SolverIterations: p.SolverIterations,
		Gravity:          rl.Vector3{X: p.Gravity[0], Y: p.Gravity[1], Z: p.Gravity[2]},
		Solver: physics.SolverSettings{
			Baumgarte:            p.Baumgarte,
			PenetrationSlop:      p.PenetrationSlop,
			RestitutionThreshold: p.RestitutionThreshold,
		},
		LinearDamping:  p.LinearDamping,
		AngularDamping: p.AngularDamping,
		Sleep:          p.Sleep,
	}
}

// NewBroadphase builds the configured strategy. The gpu kind always
// succeeds and falls back to sort-and-sweep when no adapter is usable.
func (c Config) NewBroadphase() (physics.Broadphase, error) {
	b := c.Broadphase
	axis, err := ParseAxis(b.Axis)
	if err != nil {
		return nil, fmt.Errorf("config: broadphase.axis: %w", err)
	}

	switch b.Kind {
	case BroadphaseBruteForce:
		return physics.BruteForce{}, nil
	case BroadphaseSortAndSweep:
		return physics.NewSortAndSweep(axis), nil
	case BroadphaseOctree:
		var leaf physics.Broadphase = physics.BruteForce{}
		if b.Octree.Leaf == BroadphaseSortAndSweep {
			leaf = physics.NewSortAndSweep(axis)
		}
		return physics.NewOctree(b.Octree.MaxObjects, b.Octree.MaxDepth, leaf), nil
	case BroadphaseGPU:
		g := physics.NewGPUBroadphase(b.GPUMaxObjects)
		g.Fallback = physics.NewSortAndSweep(axis)
		return g, nil
	}
	return nil, fmt.Errorf("config: unknown broadphase kind %q", b.Kind)
}

// DebugFlags converts the debug section.
func (c Config) DebugFlags() physics.DebugFlags {
	d := c.Debug
	return physics.DebugFlags{
		CollisionVolumes: d.CollisionVolumes,
		CollisionNormals: d.CollisionNormals,
		Manifolds:        d.Manifolds,
		Constraints:      d.Constraints,
		BoundingBoxes:    d.BoundingBoxes,
		BroadphasePairs:  d.BroadphasePairs,
	}
}
