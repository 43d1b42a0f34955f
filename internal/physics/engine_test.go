package physics

import (
	"errors"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type recordingObserver struct {
	enters, exits []PairKey
	onEnter       func(a, b *Body)
}

func (o *recordingObserver) CollisionEnter(a, b *Body) {
	o.enters = append(o.enters, makePairKey(a.ID(), b.ID()))
	if o.onEnter != nil {
		o.onEnter(a, b)
	}
}

func (o *recordingObserver) CollisionExit(a, b *Body) {
	o.exits = append(o.exits, makePairKey(a.ID(), b.ID()))
}

// groundAndBall builds a static ground plane with a dead ball above it.
func groundAndBall(t *testing.T, cfg Config, height float32) (*Engine, *Body, *Body) {
	t.Helper()
	eng := NewEngine(cfg)

	ground := NewBody("ground")
	ground.AddShape(NewPlane(rl.Vector3{Y: 1}))
	ground.SetMass(0)
	ground.Elasticity = 0
	if _, err := eng.AddBody(ground); err != nil {
		t.Fatalf("AddBody: %v", err)
	}

	ball := NewBody("ball")
	ball.AddShape(NewSphere(0.5))
	ball.SetPosition(rl.Vector3{Y: height})
	ball.Elasticity = 0
	if _, err := eng.AddBody(ball); err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	return eng, ground, ball
}

func runSteps(t *testing.T, eng *Engine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := eng.StepPhysics(); err != nil {
			t.Fatalf("StepPhysics: %v", err)
		}
	}
}

func TestUpdateFixedTimestep(t *testing.T) {
	cases := []struct {
		name       string
		deltas     []float32
		wantSteps  int
		fellBehind bool
	}{
		{"too_short", []float32{0.01}, 0, false},
		{"accumulates", []float32{0.01, 0.01}, 1, false},
		{"two_steps", []float32{0.035}, 2, false},
		{"capped", []float32{1}, 5, true},
		{"negative_ignored", []float32{-1}, 0, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			eng := NewEngine(DefaultConfig())
			var report StepReport
			steps := 0
			for _, dt := range c.deltas {
				report = eng.Update(dt)
				steps += report.Steps
			}
			if steps != c.wantSteps {
				t.Errorf("Expected %d steps, got %d", c.wantSteps, steps)
			}
			if report.FellBehind != c.fellBehind {
				t.Errorf("Expected FellBehind=%v, got %v", c.fellBehind, report.FellBehind)
			}
		})
	}
}

func TestUpdateDropsOwedTime(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	report := eng.Update(1)
	if want := float32(1 - 5.0/60); !near(report.Dropped, want, 1e-4) {
		t.Errorf("Expected %v dropped, got %v", want, report.Dropped)
	}
	// Nothing is carried over.
	if next := eng.Update(0.001); next.Steps != 0 {
		t.Errorf("Expected no catch-up steps, got %d", next.Steps)
	}
}

func TestPause(t *testing.T) {
	eng, _, ball := groundAndBall(t, DefaultConfig(), 5)
	eng.SetPaused(true)
	if !eng.Paused() {
		t.Fatal("Expected engine paused")
	}
	if report := eng.Update(0.5); report.Steps != 0 {
		t.Errorf("Expected no steps while paused, got %d", report.Steps)
	}
	if ball.Position().Y != 5 {
		t.Errorf("Expected the ball not to move, got y=%v", ball.Position().Y)
	}

	// Single stepping still works.
	runSteps(t, eng, 1)
	if ball.Position().Y >= 5 {
		t.Errorf("Expected StepPhysics to advance a paused engine, got y=%v", ball.Position().Y)
	}
}

func TestSphereComesToRestOnPlane(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sleep = false
	eng, _, ball := groundAndBall(t, cfg, 3)
	runSteps(t, eng, 300)

	slop := cfg.Solver.PenetrationSlop
	if y := ball.Position().Y; y < 0.5-slop-0.02 || y > 0.5+0.02 {
		t.Errorf("Expected the ball resting at y=0.5, got %v", y)
	}
	if v := rl.Vector3Length(ball.LinearVelocity); v > 0.05 {
		t.Errorf("Expected the ball still, got speed %v", v)
	}
	if len(eng.Manifolds()) != 1 {
		t.Errorf("Expected one manifold, got %d", len(eng.Manifolds()))
	}
}

func TestBodyFallsAsleep(t *testing.T) {
	eng, _, ball := groundAndBall(t, DefaultConfig(), 0.6)
	runSteps(t, eng, 180)
	if !ball.AtRest {
		t.Fatalf("Expected the ball asleep, velocity %v", ball.LinearVelocity)
	}

	ball.AddForce(rl.Vector3{X: 100})
	runSteps(t, eng, 1)
	if ball.AtRest {
		t.Error("Expected a force to wake the ball")
	}
}

func TestCollisionEnterExit(t *testing.T) {
	eng, ground, ball := groundAndBall(t, DefaultConfig(), 0.6)
	obs := &recordingObserver{}
	eng.AddObserver(obs)

	runSteps(t, eng, 60)
	if len(obs.enters) != 1 {
		t.Fatalf("Expected 1 enter, got %d", len(obs.enters))
	}
	if obs.enters[0] != makePairKey(ground.ID(), ball.ID()) {
		t.Errorf("Expected the ground-ball pair, got %v", obs.enters[0])
	}
	if len(obs.exits) != 0 {
		t.Errorf("Expected no exits while resting, got %d", len(obs.exits))
	}

	ball.SetPosition(rl.Vector3{Y: 10})
	ball.Wake()
	runSteps(t, eng, 1)
	if len(obs.exits) != 1 {
		t.Errorf("Expected 1 exit after lifting the ball, got %d", len(obs.exits))
	}
}

func TestRemovedBodyFiresNoExit(t *testing.T) {
	eng, _, ball := groundAndBall(t, DefaultConfig(), 0.6)
	obs := &recordingObserver{}
	eng.AddObserver(obs)
	runSteps(t, eng, 10)

	if err := eng.RemoveBody(ball.ID()); err != nil {
		t.Fatalf("RemoveBody: %v", err)
	}
	runSteps(t, eng, 5)
	if len(obs.exits) != 0 {
		t.Errorf("Expected no exit for a removed body, got %d", len(obs.exits))
	}
}

func TestListenerVeto(t *testing.T) {
	eng, _, ball := groundAndBall(t, DefaultConfig(), 1)
	calls := 0
	ball.Listener = CollisionFunc(func(self, other *Body) bool {
		calls++
		if self != ball || other.Name != "ground" {
			t.Errorf("Expected self=ball other=ground, got %s %s", self.Name, other.Name)
		}
		return false
	})
	obs := &recordingObserver{}
	eng.AddObserver(obs)

	runSteps(t, eng, 90)
	if ball.Position().Y > -1 {
		t.Errorf("Expected the ball to fall through, got y=%v", ball.Position().Y)
	}
	if calls == 0 {
		t.Error("Expected the listener to be called")
	}
	// The contact still counts as touching.
	if len(obs.enters) != 1 {
		t.Errorf("Expected 1 enter despite the veto, got %d", len(obs.enters))
	}
}

func TestStaleHandles(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	b := NewBody("first")
	id, _ := eng.AddBody(b)
	if eng.Body(id) != b {
		t.Fatal("Expected the handle to resolve")
	}
	if err := eng.RemoveBody(id); err != nil {
		t.Fatalf("RemoveBody: %v", err)
	}
	if eng.Body(id) != nil {
		t.Error("Expected a removed handle not to resolve")
	}
	if err := eng.RemoveBody(id); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("Expected ErrUnknownBody, got %v", err)
	}

	reused, _ := eng.AddBody(NewBody("second"))
	if eng.Body(id) != nil {
		t.Error("Expected the old handle to stay stale after slot reuse")
	}
	if eng.Body(reused).Name != "second" {
		t.Errorf("Expected the new handle to resolve, got %v", eng.Body(reused))
	}
	if eng.Body(BodyID{}) != nil {
		t.Error("Expected the zero handle not to resolve")
	}
	if eng.Bodies().Len() != 1 {
		t.Errorf("Expected 1 live body, got %d", eng.Bodies().Len())
	}
}

func TestMutationDuringStep(t *testing.T) {
	eng, _, ball := groundAndBall(t, DefaultConfig(), 0.45)
	var errs []error
	obs := &recordingObserver{onEnter: func(a, b *Body) {
		_, err := eng.AddBody(NewBody("late"))
		errs = append(errs, err)
		errs = append(errs, eng.RemoveBody(ball.ID()))
		errs = append(errs, eng.AddConstraint(NewDistanceConstraint(a, b, a.Position(), b.Position(), -1)))
		errs = append(errs, eng.SetConfig(DefaultConfig()))
		errs = append(errs, eng.StepPhysics())
	}}
	eng.AddObserver(obs)
	runSteps(t, eng, 1)

	if len(errs) != 5 {
		t.Fatalf("Expected the observer to run once, got %d results", len(errs))
	}
	for i, err := range errs {
		if !errors.Is(err, ErrStepInProgress) {
			t.Errorf("mutation %d: Expected ErrStepInProgress, got %v", i, err)
		}
	}
	if eng.Body(ball.ID()) == nil || eng.Bodies().Len() != 2 {
		t.Error("Expected the bodies unchanged")
	}
}

func TestGravityTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sleep = false
	eng := NewEngine(cfg)
	planet := addBall(t, eng, "planet", rl.Vector3{}, 0)
	moon := addBall(t, eng, "moon", rl.Vector3{X: 5}, 1)
	moon.GravityTarget = planet.ID()

	runSteps(t, eng, 10)
	if moon.LinearVelocity.X >= 0 {
		t.Errorf("Expected the moon pulled towards the planet, got %v", moon.LinearVelocity)
	}
	if !near(moon.LinearVelocity.Y, 0, 1e-4) {
		t.Errorf("Expected no downward pull, got %v", moon.LinearVelocity)
	}

	// A stale target falls back to the engine's gravity.
	if err := eng.RemoveBody(planet.ID()); err != nil {
		t.Fatalf("RemoveBody: %v", err)
	}
	runSteps(t, eng, 10)
	if moon.LinearVelocity.Y >= 0 {
		t.Errorf("Expected global gravity after the target is gone, got %v", moon.LinearVelocity)
	}
}

func TestStaticPairsSkipped(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	for i := 0; i < 2; i++ {
		b := NewBody("wall")
		b.AddShape(unitBox())
		b.SetMass(0)
		b.SetPosition(rl.Vector3{X: float32(i)})
		eng.AddBody(b)
	}
	runSteps(t, eng, 1)
	if len(eng.Manifolds()) != 0 {
		t.Errorf("Expected no manifolds between static bodies, got %d", len(eng.Manifolds()))
	}
}

func TestRaycast(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	add := func(name string, s CollisionShape, pos rl.Vector3) BodyID {
		b := NewBody(name)
		b.AddShape(s)
		b.SetPosition(pos)
		id, _ := eng.AddBody(b)
		return id
	}
	sphere := add("sphere", NewSphere(1), rl.Vector3{Z: -5})
	box := add("box", unitBox(), rl.Vector3{X: 5})
	ground := add("ground", NewPlane(rl.Vector3{Y: 1}), rl.Vector3{Y: -2})

	cases := []struct {
		name       string
		dir        rl.Vector3
		maxDist    float32
		wantHit    bool
		wantBody   BodyID
		wantDist   float32
		wantNormal rl.Vector3
	}{
		{"sphere", rl.Vector3{Z: -1}, 100, true, sphere, 4, rl.Vector3{Z: 1}},
		{"box", rl.Vector3{X: 2}, 100, true, box, 4, rl.Vector3{X: -1}},
		{"plane", rl.Vector3{Y: -1}, 100, true, ground, 2, rl.Vector3{Y: 1}},
		{"out_of_range", rl.Vector3{Z: -1}, 3, false, BodyID{}, 0, rl.Vector3{}},
		{"plane_from_behind", rl.Vector3{Y: 1}, 100, false, BodyID{}, 0, rl.Vector3{}},
		{"zero_direction", rl.Vector3{}, 100, false, BodyID{}, 0, rl.Vector3{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hit, ok := eng.Raycast(rl.Vector3{}, c.dir, c.maxDist)
			if ok != c.wantHit {
				t.Fatalf("Expected hit=%v, got %v", c.wantHit, ok)
			}
			if !ok {
				return
			}
			if hit.Body != c.wantBody {
				t.Errorf("Expected body %v, got %v", c.wantBody, hit.Body)
			}
			if !near(hit.Distance, c.wantDist, 1e-4) {
				t.Errorf("Expected distance %v, got %v", c.wantDist, hit.Distance)
			}
			if !nearVec(hit.Normal, c.wantNormal, 1e-4) {
				t.Errorf("Expected normal %v, got %v", c.wantNormal, hit.Normal)
			}
		})
	}
}

func TestRaycastClosestWins(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	for _, z := range []float32{-10, -4, -7} {
		b := NewBody("ball")
		b.AddShape(NewSphere(1))
		b.SetPosition(rl.Vector3{Z: z})
		eng.AddBody(b)
	}
	hit, ok := eng.Raycast(rl.Vector3{}, rl.Vector3{Z: -1}, 100)
	if !ok || !near(hit.Distance, 3, 1e-4) {
		t.Errorf("Expected the nearest ball at 3, got %v %v", hit.Distance, ok)
	}
}

func TestSetConfig(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	if err := eng.SetConfig(Config{Timestep: 0.05}); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	cfg := eng.Config()
	if cfg.Timestep != 0.05 {
		t.Errorf("Expected timestep 0.05, got %v", cfg.Timestep)
	}
	if cfg.MaxSubsteps != DefaultConfig().MaxSubsteps {
		t.Errorf("Expected unset fields defaulted, got MaxSubsteps %d", cfg.MaxSubsteps)
	}
	if report := eng.Update(0.1); report.Steps != 2 {
		t.Errorf("Expected 2 steps at the new timestep, got %d", report.Steps)
	}
}

func TestRemoveConstraint(t *testing.T) {
	eng := weightless()
	a := addBall(t, eng, "a", rl.Vector3{}, 1)
	b := addBall(t, eng, "b", rl.Vector3{X: 1}, 1)
	c := NewDistanceConstraint(a, b, a.Position(), b.Position(), -1)
	eng.AddConstraint(c)

	if err := eng.RemoveConstraint(c); err != nil {
		t.Fatalf("RemoveConstraint: %v", err)
	}
	if len(eng.Constraints()) != 0 {
		t.Errorf("Expected no constraints, got %d", len(eng.Constraints()))
	}
	if err := eng.RemoveConstraint(c); !errors.Is(err, ErrUnknownConstraint) {
		t.Errorf("Expected ErrUnknownConstraint, got %v", err)
	}
}

func TestSetBroadphaseNilFallsBack(t *testing.T) {
	eng := NewEngine(DefaultConfig())
	if err := eng.SetBroadphase(nil); err != nil {
		t.Fatalf("SetBroadphase: %v", err)
	}
	if eng.Broadphase().Name() != "sort_and_sweep" {
		t.Errorf("Expected sort_and_sweep, got %s", eng.Broadphase().Name())
	}
}

func TestSphereRestingOnPlaneOneStep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sleep = false
	slop := cfg.Solver.PenetrationSlop
	eng, _, ball := groundAndBall(t, cfg, 0.5-slop/2)
	runSteps(t, eng, 1)

	if y := ball.Position().Y; y < 0.5-slop-0.01 || y > 0.5+0.01 {
		t.Errorf("Expected the ball to stay at y=0.5, got %v", y)
	}
	if v := rl.Vector3Length(ball.LinearVelocity); v > 0.01 {
		t.Errorf("Expected the ball still, got speed %v", v)
	}
}

func TestRemovingSupportWakesBody(t *testing.T) {
	eng, ground, ball := groundAndBall(t, DefaultConfig(), 0.6)
	runSteps(t, eng, 180)
	if !ball.AtRest {
		t.Fatalf("Expected the ball asleep, velocity %v", ball.LinearVelocity)
	}
	rested := ball.Position().Y

	if err := eng.RemoveBody(ground.ID()); err != nil {
		t.Fatalf("RemoveBody: %v", err)
	}
	if ball.AtRest {
		t.Fatal("Expected removing the ground to wake the ball")
	}
	runSteps(t, eng, 60)
	if y := ball.Position().Y; y >= rested-1 {
		t.Errorf("Expected the ball to fall, got y=%v from %v", y, rested)
	}
}

func TestVelocitySettersWake(t *testing.T) {
	cases := []struct {
		name  string
		set   func(b *Body)
		moved func(b *Body) bool
	}{
		{"linear", func(b *Body) { b.SetLinearVelocity(rl.Vector3{X: 3}) },
			func(b *Body) bool { return b.Position().X > 0 }},
		{"angular", func(b *Body) { b.SetAngularVelocity(rl.Vector3{Y: 2}) },
			func(b *Body) bool { return !near(b.Orientation().W, 1, 1e-6) }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			eng, _, ball := groundAndBall(t, DefaultConfig(), 0.6)
			runSteps(t, eng, 180)
			if !ball.AtRest {
				t.Fatalf("Expected the ball asleep, velocity %v", ball.LinearVelocity)
			}
			c.set(ball)
			if ball.AtRest {
				t.Fatal("Expected the setter to wake the ball")
			}
			runSteps(t, eng, 1)
			if !c.moved(ball) {
				t.Error("Expected the ball to move after one step")
			}
		})
	}
}
