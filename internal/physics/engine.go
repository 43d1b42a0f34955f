package physics

import (
	"log"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CollisionObserver is told when two bodies start and stop touching.
// Events fire after the step that detected the change, in pair order.
type CollisionObserver interface {
	CollisionEnter(a, b *Body)
	CollisionExit(a, b *Body)
}

// StepReport describes what one Update call did.
type StepReport struct {
	Steps      int     // fixed steps run
	FellBehind bool    // the substep cap was hit
	Dropped    float32 // seconds of simulation thrown away
}

// Engine owns bodies, constraints and the per-step manifolds, and advances
// them at a fixed timestep.
type Engine struct {
	cfg        Config
	bodies     Bodies
	broadphase Broadphase
	sat        SAT

	constraints []Constraint
	manifolds   []*Manifold
	pairs       []CollisionPair

	observers []CollisionObserver

	// Touching pairs of the previous and current step, in detection order.
	activeContacts  map[PairKey]bool
	currentContacts map[PairKey]bool
	activeOrder     []PairKey
	currentOrder    []PairKey

	Debug DebugFlags

	paused      bool
	stepping    bool
	accumulator float32
	lastLogTime time.Time
}

// NewEngine creates an engine using sort-and-sweep on X until SetBroadphase
// is called.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:             cfg.withDefaults(),
		broadphase:      NewSortAndSweep(AxisX),
		activeContacts:  make(map[PairKey]bool),
		currentContacts: make(map[PairKey]bool),
	}
}

func (e *Engine) Config() Config { return e.cfg }

// SetConfig swaps tuning between steps. Accumulated time is kept.
func (e *Engine) SetConfig(cfg Config) error {
	if e.stepping {
		return ErrStepInProgress
	}
	e.cfg = cfg.withDefaults()
	return nil
}

func (e *Engine) Broadphase() Broadphase { return e.broadphase }

func (e *Engine) SetBroadphase(bp Broadphase) error {
	if e.stepping {
		return ErrStepInProgress
	}
	if bp == nil {
		bp = NewSortAndSweep(AxisX)
	}
	if old, ok := e.broadphase.(*GPUBroadphase); ok && old != bp {
		old.Release()
	}
	e.broadphase = bp
	log.Printf("Physics: broad-phase set to %s", bp.Name())
	return nil
}

// Bodies exposes the arena for handle lookups.
func (e *Engine) Bodies() *Bodies { return &e.bodies }

// Body resolves a handle, nil if it is stale.
func (e *Engine) Body(id BodyID) *Body { return e.bodies.Get(id) }

// AddBody registers b and returns its handle.
func (e *Engine) AddBody(b *Body) (BodyID, error) {
	if e.stepping {
		return BodyID{}, ErrStepInProgress
	}
	return e.bodies.insert(b), nil
}

// RemoveBody unregisters a body. Constraints and gravity targets that refer
// to it stop resolving and are skipped from then on.
func (e *Engine) RemoveBody(id BodyID) error {
	if e.stepping {
		return ErrStepInProgress
	}
	b, ok := e.bodies.remove(id)
	if !ok {
		return ErrUnknownBody
	}
	b.shapes = nil
	e.forgetContacts(id)
	return nil
}

// forgetContacts drops a removed body's pairs without firing exit events
// and wakes whatever was touching it, since it may have lost its support.
func (e *Engine) forgetContacts(id BodyID) {
	kept := e.activeOrder[:0]
	for _, k := range e.activeOrder {
		if k.Lo == id || k.Hi == id {
			delete(e.activeContacts, k)
			other := k.Lo
			if other == id {
				other = k.Hi
			}
			if b := e.bodies.Get(other); b != nil {
				b.Wake()
			}
			continue
		}
		kept = append(kept, k)
	}
	e.activeOrder = kept
}

func (e *Engine) AddConstraint(c Constraint) error {
	if e.stepping {
		return ErrStepInProgress
	}
	e.constraints = append(e.constraints, c)
	return nil
}

func (e *Engine) RemoveConstraint(c Constraint) error {
	if e.stepping {
		return ErrStepInProgress
	}
	for i, existing := range e.constraints {
		if existing == c {
			e.constraints = append(e.constraints[:i], e.constraints[i+1:]...)
			return nil
		}
	}
	return ErrUnknownConstraint
}

func (e *Engine) Constraints() []Constraint { return e.constraints }

// Manifolds returns the contact manifolds built by the last step.
func (e *Engine) Manifolds() []*Manifold { return e.manifolds }

// Pairs returns the deduplicated broad-phase pairs of the last step.
func (e *Engine) Pairs() []CollisionPair { return e.pairs }

func (e *Engine) AddObserver(o CollisionObserver) {
	e.observers = append(e.observers, o)
}

func (e *Engine) SetPaused(paused bool) { e.paused = paused }

func (e *Engine) Paused() bool { return e.paused }

// Update advances the simulation by deltaTime in fixed steps. At most
// MaxSubsteps steps run per call; if time is still owed after that, it is
// dropped rather than carried into the next call.
func (e *Engine) Update(deltaTime float32) StepReport {
	var report StepReport
	if e.paused || e.stepping || deltaTime <= 0 {
		return report
	}

	e.accumulator += deltaTime
	for e.accumulator >= e.cfg.Timestep && report.Steps < e.cfg.MaxSubsteps {
		e.step()
		e.accumulator -= e.cfg.Timestep
		report.Steps++
	}

	if e.accumulator >= e.cfg.Timestep {
		report.FellBehind = true
		report.Dropped = e.accumulator
		e.accumulator = 0
		if time.Since(e.lastLogTime) >= time.Second {
			e.lastLogTime = time.Now()
			log.Printf("Physics: falling behind real time, dropped %.1fms after %d steps", report.Dropped*1000, report.Steps)
		}
	}
	return report
}

// StepPhysics runs exactly one fixed step, ignoring pause and the accumulator.
func (e *Engine) StepPhysics() error {
	if e.stepping {
		return ErrStepInProgress
	}
	e.step()
	return nil
}

func (e *Engine) step() {
	e.stepping = true
	defer func() { e.stepping = false }()

	dt := e.cfg.Timestep
	bodies := e.bodies.All()

	// 1. Forces and gravity into velocity
	for _, b := range bodies {
		e.integrateForces(b, dt)
	}

	// 2. Rebuild manifolds from scratch
	e.manifolds = e.manifolds[:0]
	e.pairs = dedupePairs(e.broadphase.FindPairs(bodies))
	for _, pair := range e.pairs {
		if m := e.narrowphase(pair.A, pair.B); m != nil {
			e.manifolds = append(e.manifolds, m)
		}
	}

	// 3. Solve contacts, then joints
	solvables := make([]Constraint, 0, len(e.manifolds)+len(e.constraints))
	for _, m := range e.manifolds {
		solvables = append(solvables, m)
	}
	solvables = append(solvables, e.constraints...)
	solve(solvables, &e.bodies, dt, e.cfg.SolverIterations)

	// 4. Velocity into position
	for _, b := range bodies {
		e.integrateVelocity(b, dt)
	}

	// 5. Enter/exit events
	e.dispatchCollisionEvents()
}

func (e *Engine) integrateForces(b *Body, dt float32) {
	if b.IsStatic() {
		b.ClearForces()
		return
	}
	if b.AtRest {
		if b.force != (rl.Vector3{}) || b.torque != (rl.Vector3{}) {
			b.Wake()
		} else {
			return
		}
	}

	accel := rl.Vector3Scale(b.force, b.inverseMass)
	if b.UseGravity {
		accel = rl.Vector3Add(accel, e.gravityFor(b))
	}
	b.LinearVelocity = rl.Vector3Add(b.LinearVelocity, rl.Vector3Scale(accel, dt))
	b.AngularVelocity = rl.Vector3Add(b.AngularVelocity, rl.Vector3Scale(b.ApplyInverseInertia(b.torque), dt))
	b.ClearForces()
}

// gravityFor pulls towards the body's gravity target when it resolves, at
// the strength of the global gravity.
func (e *Engine) gravityFor(b *Body) rl.Vector3 {
	target := e.bodies.Get(b.GravityTarget)
	if target == nil || target == b {
		return e.cfg.Gravity
	}
	dir := rl.Vector3Subtract(target.position, b.position)
	if dot(dir, dir) < axisEpsilonSq {
		return rl.Vector3Zero()
	}
	return rl.Vector3Scale(rl.Vector3Normalize(dir), rl.Vector3Length(e.cfg.Gravity))
}

func (e *Engine) integrateVelocity(b *Body, dt float32) {
	if b.IsStatic() || b.AtRest {
		return
	}

	b.SetPosition(rl.Vector3Add(b.position, rl.Vector3Scale(b.LinearVelocity, dt)))
	b.SetOrientation(integrateOrientation(b.orientation, b.AngularVelocity, dt))

	// Damping factors are per 1/60s so behaviour doesn't depend on the timestep.
	b.LinearVelocity = rl.Vector3Scale(b.LinearVelocity, dampingFactor(b.LinearDamping, dt))
	b.AngularVelocity = rl.Vector3Scale(b.AngularVelocity, dampingFactor(b.AngularDamping, dt))

	if e.cfg.Sleep {
		b.TrySleep(dt)
	}
}

func dampingFactor(damping, dt float32) float32 {
	return clamp(1-(1-damping)*dt*60, 0, 1)
}

// narrowphase tests every shape pair of two bodies and returns their
// manifold, or nil when they don't touch or a listener vetoes the response.
func (e *Engine) narrowphase(a, b *Body) *Manifold {
	if a.IsStatic() && b.IsStatic() {
		return nil
	}

	var m *Manifold
	notified, accepted := false, true
	for _, sa := range a.shapes {
		for _, sb := range b.shapes {
			e.sat.BeginPair(a, sa, b, sb)
			colliding, _ := e.sat.AreColliding()
			if !colliding {
				continue
			}
			if !notified {
				notified = true
				accepted = e.notifyListeners(a, b)
				e.recordContact(a, b)
			}
			if !accepted {
				return nil
			}
			if m == nil {
				m = NewManifold(a, b, e.cfg.Solver)
			}
			e.sat.GenerateContacts(m)
		}
	}
	return m
}

// notifyListeners asks both bodies; either can veto, both always hear about it.
func (e *Engine) notifyListeners(a, b *Body) bool {
	okA, okB := true, true
	if a.Listener != nil {
		okA = a.Listener.OnCollision(a, b)
	}
	if b.Listener != nil {
		okB = b.Listener.OnCollision(b, a)
	}
	return okA && okB
}

// recordContact marks a pair as touching this step and wakes sleepers that
// were hit hard enough.
func (e *Engine) recordContact(a, b *Body) {
	key := makePairKey(a.id, b.id)
	if !e.currentContacts[key] {
		e.currentContacts[key] = true
		e.currentOrder = append(e.currentOrder, key)
	}

	if !a.AtRest && !b.AtRest {
		return
	}
	// Micro-collisions must not wake settled stacks.
	relSpeed := rl.Vector3Length(rl.Vector3Subtract(a.LinearVelocity, b.LinearVelocity))
	if relSpeed > SleepVelocityThreshold*2 {
		if !a.IsStatic() {
			a.Wake()
		}
		if !b.IsStatic() {
			b.Wake()
		}
	}
}

// dispatchCollisionEvents compares this step's contacts with the last and
// notifies observers, then swaps the sets.
func (e *Engine) dispatchCollisionEvents() {
	if len(e.observers) > 0 {
		for _, k := range e.currentOrder {
			if !e.activeContacts[k] {
				e.notify(k, true)
			}
		}
		for _, k := range e.activeOrder {
			if !e.currentContacts[k] {
				e.notify(k, false)
			}
		}
	}

	e.activeContacts, e.currentContacts = e.currentContacts, e.activeContacts
	e.activeOrder, e.currentOrder = e.currentOrder, e.activeOrder[:0]
	clear(e.currentContacts)
}

func (e *Engine) notify(k PairKey, enter bool) {
	a, b, ok := e.bodies.resolvePair(k.Lo, k.Hi)
	if !ok {
		return
	}
	for _, o := range e.observers {
		if enter {
			o.CollisionEnter(a, b)
		} else {
			o.CollisionExit(a, b)
		}
	}
}

// Release frees resources held by the broad-phase.
func (e *Engine) Release() {
	if g, ok := e.broadphase.(*GPUBroadphase); ok {
		g.Release()
	}
}
