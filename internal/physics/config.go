package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// Config holds the engine's tuning. Zero values are replaced by defaults in
// NewEngine, so a partially filled Config is fine.
type Config struct {
	Timestep         float32 // seconds per fixed step
	MaxSubsteps      int     // steps allowed per Update call
	SolverIterations int
	Gravity          rl.Vector3

	Solver SolverSettings

	// Defaults applied to bodies created through the game-object layer.
	LinearDamping  float32
	AngularDamping float32

	Sleep bool
}

func DefaultConfig() Config {
	return Config{
		Timestep:         1.0 / 60.0,
		MaxSubsteps:      5,
		SolverIterations: 8,
		Gravity:          rl.Vector3{X: 0, Y: -9.81, Z: 0},
		Solver: SolverSettings{
			Baumgarte:            0.2,
			PenetrationSlop:      0.01,
			RestitutionThreshold: 1.0,
		},
		LinearDamping:  0.999,
		AngularDamping: 0.98,
		Sleep:          true,
	}
}

// withDefaults fills unset numeric fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Timestep <= 0 {
		c.Timestep = d.Timestep
	}
	if c.MaxSubsteps <= 0 {
		c.MaxSubsteps = d.MaxSubsteps
	}
	if c.SolverIterations <= 0 {
		c.SolverIterations = d.SolverIterations
	}
	if c.Solver.Baumgarte <= 0 {
		c.Solver.Baumgarte = d.Solver.Baumgarte
	}
	if c.Solver.PenetrationSlop < 0 {
		c.Solver.PenetrationSlop = d.Solver.PenetrationSlop
	}
	if c.Solver.RestitutionThreshold < 0 {
		c.Solver.RestitutionThreshold = d.Solver.RestitutionThreshold
	}
	if c.LinearDamping <= 0 {
		c.LinearDamping = d.LinearDamping
	}
	if c.AngularDamping <= 0 {
		c.AngularDamping = d.AngularDamping
	}
	return c
}
