// Package game is the interactive sandbox: it runs a scene file in a raylib
// window with live config reload and debug toggles.
package game

import (
	"fmt"
	"log"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"rigid3d/internal/camera"
	"rigid3d/internal/config"
	"rigid3d/internal/debugdraw"
	"rigid3d/internal/engine"
	"rigid3d/internal/physics"
)

const (
	shootCooldown = 0.15
	shootSpeed    = 30
	shootRadius   = 0.4
	pickDistance  = 100
)

type Game struct {
	ScenePath  string
	ConfigPath string

	Config  config.Config
	Physics *physics.Engine
	Scene   *engine.Scene
	Camera  *camera.FlyCamera
	Drawer  *debugdraw.Raylib
	watcher *config.Watcher

	ShowUI    bool
	TimeScale float32

	shotCounter  int
	lastShotTime float64
	lastReport   physics.StepReport
	picked       physics.RaycastHit
	hasPick      bool

	// Debug timing (ms)
	updateMs float64
	drawMs   float64
}

func New(scenePath, configPath string) *Game {
	return &Game{
		ScenePath:  scenePath,
		ConfigPath: configPath,
		Camera:     camera.New(rl.Vector3{X: 12, Y: 8, Z: 12}),
		Drawer:     debugdraw.New(),
		ShowUI:     true,
		TimeScale:  1,
	}
}

// Load reads the config and scene and starts watching the config file.
func (g *Game) Load() error {
	cfg, err := config.Load(g.ConfigPath)
	if err != nil {
		return err
	}
	g.Config = cfg
	if err := g.loadScene(); err != nil {
		return err
	}

	w, err := config.NewWatcher(g.ConfigPath)
	if err != nil {
		log.Printf("Config: not watching %s: %v", g.ConfigPath, err)
		return nil
	}
	g.watcher = w
	return nil
}

// loadScene builds a fresh engine and scene, replacing the current ones.
func (g *Game) loadScene() error {
	sf, err := engine.LoadSceneFile(g.ScenePath)
	if err != nil {
		return err
	}

	eng := physics.NewEngine(g.Config.EngineConfig())
	bp, err := g.Config.NewBroadphase()
	if err != nil {
		return err
	}
	if err := eng.SetBroadphase(bp); err != nil {
		return err
	}
	eng.Debug = g.Config.DebugFlags()

	scene, err := sf.Build(eng)
	if err != nil {
		eng.Release()
		return err
	}
	for _, obj := range scene.GameObjects {
		obj.AddComponent(&engine.ContactCounter{})
	}
	scene.Start()

	if g.Physics != nil {
		eng.SetPaused(g.Physics.Paused())
		g.Physics.Release()
	}
	g.Physics = eng
	g.Scene = scene
	log.Printf("Scene: loaded %q with %d objects", scene.Name, len(scene.GameObjects))
	return nil
}

// applyConfig swaps in a reloaded config between frames.
func (g *Game) applyConfig(cfg config.Config) {
	if err := g.Physics.SetConfig(cfg.EngineConfig()); err != nil {
		log.Printf("Config: %v", err)
		return
	}
	if cfg.Broadphase != g.Config.Broadphase {
		bp, err := cfg.NewBroadphase()
		if err != nil {
			log.Printf("Config: %v", err)
			return
		}
		if err := g.Physics.SetBroadphase(bp); err != nil {
			log.Printf("Config: %v", err)
			return
		}
	}
	g.Physics.Debug = cfg.DebugFlags()
	g.Config = cfg
	log.Printf("Config: reloaded %s", g.ConfigPath)
}

func (g *Game) Run() error {
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "rigid3d sandbox")
	defer rl.CloseWindow()

	rl.SetTargetFPS(120)
	initRayguiStyle()

	if err := g.Load(); err != nil {
		return err
	}
	defer g.Close()
	g.Camera.LookAt(rl.Vector3{})

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.Physics != nil {
		g.Physics.Release()
	}
}

func (g *Game) pollConfig() {
	if g.watcher == nil {
		return
	}
	select {
	case cfg, ok := <-g.watcher.Updates:
		if ok {
			g.applyConfig(cfg)
		}
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Printf("Config: reload failed: %v", err)
		}
	default:
	}
}

func (g *Game) Update() {
	updateStart := time.Now()
	deltaTime := rl.GetFrameTime()

	g.pollConfig()
	g.Camera.Update(deltaTime)
	g.handleInput()

	g.lastReport = g.Scene.Update(deltaTime * g.TimeScale)

	g.picked, g.hasPick = g.Physics.Raycast(g.Camera.Position, g.Camera.Forward(), pickDistance)

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyF1) {
		g.ShowUI = !g.ShowUI
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.Physics.SetPaused(!g.Physics.Paused())
	}
	if rl.IsKeyPressed(rl.KeyN) && g.Physics.Paused() {
		if err := g.Physics.StepPhysics(); err != nil {
			log.Printf("Physics: %v", err)
		}
		for _, obj := range g.Scene.GameObjects {
			obj.SyncTransform(g.Physics)
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := g.loadScene(); err != nil {
			log.Printf("Scene: reload failed: %v", err)
		}
	}

	if rl.IsKeyDown(rl.KeySpace) && rl.GetTime()-g.lastShotTime >= shootCooldown {
		g.ShootSphere()
		g.lastShotTime = rl.GetTime()
	}
}

// ShootSphere launches a ball from the camera along the view direction.
func (g *Game) ShootSphere() {
	g.shotCounter++
	lookDir := g.Camera.Forward()
	elasticity := float32(0.6)

	obj, err := engine.NewPhysicsObject(g.Physics, fmt.Sprintf("Shot_%d", g.shotCounter), engine.BodyDef{
		Shapes:     []physics.CollisionShape{physics.NewSphere(shootRadius)},
		Position:   rl.Vector3Add(g.Camera.Position, rl.Vector3Scale(lookDir, 2)),
		Velocity:   rl.Vector3Scale(lookDir, shootSpeed),
		Mass:       1,
		Elasticity: &elasticity,
	})
	if err != nil {
		log.Printf("Physics: shoot: %v", err)
		return
	}
	obj.Tags = []string{"shot"}
	obj.AddComponent(&engine.ContactCounter{})
	obj.Start()
	g.Scene.AddGameObject(obj)
}

func (g *Game) Draw() {
	cam := g.Camera.GetRaylibCamera()

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

	drawStart := time.Now()
	rl.BeginMode3D(cam)
	for _, obj := range g.Scene.GameObjects {
		b := obj.PhysicsBody(g.Physics)
		if b == nil {
			continue
		}
		debugdraw.DrawBody(b, g.colorFor(obj, b))
	}
	g.Physics.DebugDraw(g.Drawer)
	if g.hasPick {
		g.Drawer.Point(g.picked.Point, rl.Yellow)
		g.Drawer.Line(g.picked.Point, rl.Vector3Add(g.picked.Point, g.picked.Normal), rl.Yellow)
	}
	rl.EndMode3D()
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.DrawUI()
	rl.EndDrawing()
}

func (g *Game) colorFor(obj *engine.GameObject, b *physics.Body) rl.Color {
	switch {
	case b.IsStatic():
		return rl.NewColor(70, 70, 85, 255)
	case b.AtRest:
		return rl.NewColor(110, 110, 130, 255)
	case obj.HasTag("shot"):
		return rl.Orange
	}
	if c := engine.GetComponent[*engine.ContactCounter](obj); c != nil && c.Touching > 0 {
		return colorAccentLight
	}
	return colorAccent
}
