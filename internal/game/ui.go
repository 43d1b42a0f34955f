package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme colors - indigo on a dark background
var (
	colorBgDark        = rl.NewColor(10, 10, 15, 255)
	colorBgPanel       = rl.NewColor(18, 18, 24, 230)
	colorBgElement     = rl.NewColor(28, 28, 38, 255)
	colorBgHover       = rl.NewColor(38, 38, 52, 255)
	colorAccent        = rl.NewColor(108, 99, 255, 255)
	colorAccentLight   = rl.NewColor(167, 139, 250, 255)
	colorTextPrimary   = rl.NewColor(255, 255, 255, 255)
	colorTextSecondary = rl.NewColor(200, 200, 208, 255)
	colorTextMuted     = rl.NewColor(119, 119, 119, 255)
)

const (
	panelX     = 10
	panelWidth = 230
	rowHeight  = 22
)

func initRayguiStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

func (g *Game) DrawUI() {
	rl.DrawFPS(int32(rl.GetScreenWidth())-100, 10)
	if !g.ShowUI {
		rl.DrawText("F1 for controls", 10, 10, 16, colorTextMuted)
		return
	}

	rl.DrawRectangle(panelX-5, 5, panelWidth+10, 470, colorBgPanel)
	y := float32(12)
	label := func(text string, color rl.Color) {
		rl.DrawText(text, panelX, int32(y), 16, color)
		y += rowHeight
	}
	check := func(text string, value bool) bool {
		v := gui.CheckBox(rl.Rectangle{X: panelX, Y: y, Width: 16, Height: 16}, text, value)
		y += rowHeight
		return v
	}

	label(fmt.Sprintf("Scene: %s", g.Scene.Name), colorTextPrimary)
	label(fmt.Sprintf("Bodies: %d  Pairs: %d  Manifolds: %d",
		g.Physics.Bodies().Len(), len(g.Physics.Pairs()), len(g.Physics.Manifolds())), colorTextSecondary)
	label(fmt.Sprintf("Broad-phase: %s", g.Physics.Broadphase().Name()), colorTextSecondary)

	paused := check("Paused (P, N steps)", g.Physics.Paused())
	if paused != g.Physics.Paused() {
		g.Physics.SetPaused(paused)
	}

	y += 4
	label("Debug draw", colorTextPrimary)
	d := &g.Physics.Debug
	d.CollisionVolumes = check("Collision volumes", d.CollisionVolumes)
	d.CollisionNormals = check("Contact normals", d.CollisionNormals)
	d.Manifolds = check("Contact points", d.Manifolds)
	d.Constraints = check("Constraints", d.Constraints)
	d.BoundingBoxes = check("Bounding boxes", d.BoundingBoxes)
	d.BroadphasePairs = check("Broad-phase pairs", d.BroadphasePairs)

	y += 4
	label("Time scale", colorTextPrimary)
	g.TimeScale = gui.Slider(rl.Rectangle{X: panelX, Y: y, Width: panelWidth - 50, Height: 16},
		"", fmt.Sprintf("%.2f", g.TimeScale), g.TimeScale, 0.05, 2)
	y += rowHeight

	y += 4
	label(fmt.Sprintf("Update: %.2f ms  Draw: %.2f ms", g.updateMs, g.drawMs), rl.Green)
	if g.lastReport.FellBehind {
		label(fmt.Sprintf("Behind: dropped %.1f ms", g.lastReport.Dropped*1000), rl.Red)
	} else {
		label(fmt.Sprintf("Steps this frame: %d", g.lastReport.Steps), rl.Green)
	}
	if g.hasPick {
		name := "?"
		if obj := g.Scene.FindByBody(g.picked.Body); obj != nil {
			name = obj.Name
		}
		label(fmt.Sprintf("Looking at: %s (%.1fm)", name, g.picked.Distance), rl.Yellow)
	}

	y += 4
	label("WASD/QE move, RMB look", colorTextMuted)
	label("Space shoot, R reload scene", colorTextMuted)
}
