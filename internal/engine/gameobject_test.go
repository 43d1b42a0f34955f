package engine

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"rigid3d/internal/physics"
)

func newTestEngine() *physics.Engine {
	return physics.NewEngine(physics.DefaultConfig())
}

func TestNewGameObject(t *testing.T) {
	obj := NewGameObject("TestObject")

	if obj.Name != "TestObject" {
		t.Errorf("Expected name 'TestObject', got '%s'", obj.Name)
	}
	if !obj.Active {
		t.Error("new objects should be active")
	}
	if !obj.Body.IsZero() {
		t.Errorf("Expected no body, got %v", obj.Body)
	}
	if obj.components == nil {
		t.Error("components slice should be initialized")
	}
}

func TestGameObjectHasTag(t *testing.T) {
	obj := NewGameObject("Test")
	obj.Tags = []string{"enemy", "ai", "dangerous"}

	if !obj.HasTag("enemy") {
		t.Error("HasTag should return true for existing tag")
	}
	if obj.HasTag("player") {
		t.Error("HasTag should return false for non-existent tag")
	}

	obj2 := NewGameObject("Test2")
	if obj2.HasTag("anything") {
		t.Error("HasTag should return false when Tags is nil/empty")
	}
}

func TestNewPhysicsObjectRegistersBody(t *testing.T) {
	eng := newTestEngine()
	friction := float32(0.7)

	obj, err := NewPhysicsObject(eng, "crate", BodyDef{
		Shapes:   []physics.CollisionShape{physics.NewCuboid(rl.Vector3{X: 1, Y: 1, Z: 1})},
		Position: rl.Vector3{X: 1, Y: 2, Z: 3},
		Velocity: rl.Vector3{X: 4},
		Mass:     2,
		Friction: &friction,
	})
	if err != nil {
		t.Fatalf("NewPhysicsObject failed: %v", err)
	}

	b := obj.PhysicsBody(eng)
	if b == nil {
		t.Fatal("expected the body to be registered")
	}
	if b.Name != "crate" {
		t.Errorf("Expected body name crate, got %s", b.Name)
	}
	if b.InverseMass() != 0.5 {
		t.Errorf("Expected inverse mass 0.5, got %v", b.InverseMass())
	}
	if b.Friction != 0.7 {
		t.Errorf("Expected friction 0.7, got %v", b.Friction)
	}
	if b.Elasticity != physics.NewBody("").Elasticity {
		t.Errorf("Expected default elasticity, got %v", b.Elasticity)
	}
	if b.LinearVelocity.X != 4 {
		t.Errorf("Expected velocity 4, got %v", b.LinearVelocity.X)
	}
	if obj.Transform.Position != (rl.Vector3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Expected transform synced from body, got %v", obj.Transform.Position)
	}
}

func TestNewPhysicsObjectStaticWhenMassless(t *testing.T) {
	eng := newTestEngine()
	obj, err := NewPhysicsObject(eng, "ground", BodyDef{
		Shapes: []physics.CollisionShape{physics.NewPlane(rl.Vector3{Y: 1})},
	})
	if err != nil {
		t.Fatalf("NewPhysicsObject failed: %v", err)
	}
	if !obj.PhysicsBody(eng).IsStatic() {
		t.Error("Expected a massless body to be static")
	}
}

func TestSyncTransformFollowsBody(t *testing.T) {
	eng := newTestEngine()
	obj, err := NewPhysicsObject(eng, "ball", BodyDef{
		Shapes:    []physics.CollisionShape{physics.NewSphere(0.5)},
		Mass:      1,
		NoGravity: true,
		Rotation:  rl.Vector3{Y: 60},
	})
	if err != nil {
		t.Fatalf("NewPhysicsObject failed: %v", err)
	}

	if d := obj.Transform.Rotation.Y - 60; d > 0.01 || d < -0.01 {
		t.Errorf("Expected yaw 60, got %v", obj.Transform.Rotation.Y)
	}

	obj.PhysicsBody(eng).SetPosition(rl.Vector3{X: 5})
	if !obj.SyncTransform(eng) {
		t.Fatal("expected SyncTransform to find the body")
	}
	if obj.Transform.Position.X != 5 {
		t.Errorf("Expected x 5, got %v", obj.Transform.Position.X)
	}
	if obj.Transform.Matrix.M12 != 5 {
		t.Errorf("Expected matrix translation 5, got %v", obj.Transform.Matrix.M12)
	}

	// Yaw 60 about +Y carries +X to (cos 60, 0, -sin 60).
	p := rl.Vector3Transform(rl.Vector3{X: 1}, obj.Transform.Matrix)
	want := rl.Vector3{X: 5.5, Y: 0, Z: -0.8660254}
	if rl.Vector3Distance(p, want) > 1e-3 {
		t.Errorf("Expected the matrix to rotate +X to %v, got %v", want, p)
	}

	if err := eng.RemoveBody(obj.Body); err != nil {
		t.Fatalf("RemoveBody failed: %v", err)
	}
	if obj.SyncTransform(eng) {
		t.Error("expected SyncTransform to report a removed body")
	}
}

func TestEulerRoundTrip(t *testing.T) {
	cases := []rl.Vector3{
		{},
		{X: 30},
		{Y: -45},
		{Z: 60},
		{X: 10, Y: 20, Z: 30},
	}

	for _, c := range cases {
		got := QuaternionToEuler(EulerToQuaternion(c))
		if rl.Vector3Distance(got, c) > 0.01 {
			t.Errorf("Expected %v, got %v", c, got)
		}
	}
}

func TestGameObjectAddComponent(t *testing.T) {
	obj := NewGameObject("Test")
	comp := &BaseComponent{}

	obj.AddComponent(comp)

	if len(obj.components) != 1 {
		t.Errorf("Expected 1 component, got %d", len(obj.components))
	}
	if comp.gameObject != obj {
		t.Error("Component.gameObject should be set")
	}
	if GetComponent[*BaseComponent](obj) != comp {
		t.Error("GetComponent failed to find component")
	}
	if GetComponent[*ContactCounter](obj) != nil {
		t.Error("GetComponent should return nil for a missing type")
	}
}

func TestGameObjectStartCalledOnce(t *testing.T) {
	obj := NewGameObject("Test")

	obj.Start()
	if !obj.started {
		t.Error("started flag should be true after Start()")
	}
	obj.Start()
}

func TestCollisionEventsReachComponents(t *testing.T) {
	a := NewGameObject("A")
	b := NewGameObject("B")
	counter := &ContactCounter{}
	a.AddComponent(counter)

	var entered *GameObject
	a.OnCollisionEnter.AddListener(func(other *GameObject) { entered = other })

	a.collisionEnter(b)
	if entered != b {
		t.Errorf("Expected enter with B, got %v", entered)
	}
	if counter.Touching != 1 || counter.Total != 1 {
		t.Errorf("Expected 1 touching / 1 total, got %d / %d", counter.Touching, counter.Total)
	}

	a.collisionExit(b)
	a.collisionExit(b)
	if counter.Touching != 0 {
		t.Errorf("Expected 0 touching, got %d", counter.Touching)
	}
}

func TestEventWithArg(t *testing.T) {
	var e EventWithArg[int]
	sum := 0
	e.AddListener(func(v int) { sum += v })
	e.AddListener(func(v int) { sum += v * 10 })
	e.AddListener(nil)

	if e.GetListenerCount() != 2 {
		t.Errorf("Expected 2 listeners, got %d", e.GetListenerCount())
	}
	e.Invoke(2)
	if sum != 22 {
		t.Errorf("Expected 22, got %d", sum)
	}

	e.RemoveAllListeners()
	e.Invoke(2)
	if sum != 22 {
		t.Errorf("Expected no calls after RemoveAllListeners, got %d", sum)
	}
}
