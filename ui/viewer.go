package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warren/camera"
	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/game"
	"github.com/pthm-cable/warren/telemetry"
)

// maxTicksPerFrame bounds catch-up after a slow frame.
const maxTicksPerFrame = 64

const controlsLegend = "Space pause | N step | ,/. speed | arrows pan | wheel zoom | Home reset | click pin | Tab overlays"

// Viewer draws an engine's grid and drives its ticks from the frame clock.
type Viewer struct {
	engine *game.Engine
	cfg    *config.Config

	cam      *camera.Camera
	cellSize float32 // World pixels per cell
	screenW  float32
	screenH  float32

	overlays  *OverlayRegistry
	controls  *ControlsPanel
	playback  *PlaybackControls
	hud       *HUD
	perf      *PerfPanel
	inspector *Inspector
	window    *WindowStatsPanel

	state       PlaybackState
	accumulator float32

	hover    components.Position
	hovering bool
	pinned   bool
	pin      components.Position

	lastStats telemetry.WindowStats
	hasStats  bool
}

// NewViewer creates a viewer for engine. The raylib window must already be open.
func NewViewer(engine *game.Engine, cfg *config.Config) *Viewer {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	cellSize := float32(cfg.Screen.CellSize)
	if cellSize <= 0 {
		cellSize = 16
	}
	grid := engine.Grid()

	v := &Viewer{
		engine:    engine,
		cfg:       cfg,
		cam:       camera.New(w, h, float32(grid.Width())*cellSize, float32(grid.Height())*cellSize),
		cellSize:  cellSize,
		screenW:   w,
		screenH:   h,
		overlays:  NewOverlayRegistry(),
		controls:  NewControlsPanel(10, 100, 220),
		playback:  NewPlaybackControls(w-390, 10),
		hud:       NewHUD(),
		perf:      NewPerfPanel(int32(w)-300, 50),
		inspector: NewInspector(int32(w)-250, 50, 240, cfg),
		window:    NewWindowStatsPanel(10, 100, 220),
		state:     PlaybackState{Speed: 1},
	}
	v.overlays.SetEnabled(OverlayGridLines, true)
	return v
}

// RecordStats keeps the latest telemetry window for display.
func (v *Viewer) RecordStats(stats telemetry.WindowStats) {
	v.lastStats = stats
	v.hasStats = true
}

// Update handles input and runs the ticks due after dt seconds. Returns the number of ticks run.
func (v *Viewer) Update(dt float32) int {
	v.handleInput()

	n := v.dueTicks(dt)
	for range n {
		v.engine.Update()
	}
	return n
}

// dueTicks advances the tick clock by dt seconds of wall time.
func (v *Viewer) dueTicks(dt float32) int {
	if v.state.Paused {
		v.accumulator = 0
		if v.state.Step {
			v.state.Step = false
			return 1
		}
		return 0
	}

	interval := float32(v.cfg.Derived.TickSeconds)
	v.accumulator += dt * v.state.Speed
	n := int(v.accumulator / interval)
	v.accumulator -= float32(n) * interval
	if n > maxTicksPerFrame {
		n = maxTicksPerFrame
		v.accumulator = 0
	}
	return n
}

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeySpace) {
		v.state.Paused = !v.state.Paused
	}
	if rl.IsKeyPressed(rl.KeyN) {
		v.state.Paused = true
		v.state.Step = true
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		v.state.Speed = max(v.state.Speed/2, MinSpeed)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.state.Speed = min(v.state.Speed*2, MaxSpeed)
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	v.overlays.HandleInput()

	v.handleCameraInput()

	mouse := rl.GetMousePosition()
	v.hover, v.hovering = v.cellAt(mouse.X, mouse.Y)
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && mouse.Y > 40 {
		switch {
		case v.hovering && (!v.pinned || v.pin != v.hover):
			v.pinned, v.pin = true, v.hover
		default:
			v.pinned = false
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW, v.screenH = w, h
	v.cam.Resize(w, h)
	v.playback.SetPosition(w-390, 10)
	v.perf.SetPosition(int32(w)-300, 50)
	v.inspector.SetPosition(int32(w)-250, 50)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	panSpeed := float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}

// cellAt maps a screen point to the grid cell under it.
func (v *Viewer) cellAt(sx, sy float32) (components.Position, bool) {
	wx, wy := v.cam.ScreenToWorld(sx, sy)
	p := components.Position{
		X: int(math.Floor(float64(wx / v.cellSize))),
		Y: int(math.Floor(float64(wy / v.cellSize))),
	}
	return p, v.engine.Grid().InBounds(p)
}

// cellRect returns the screen rectangle of a cell.
func (v *Viewer) cellRect(p components.Position) rl.Rectangle {
	sx, sy := v.cam.WorldToScreen(float32(p.X)*v.cellSize, float32(p.Y)*v.cellSize)
	size := v.cellSize * v.cam.Zoom
	return rl.Rectangle{X: sx, Y: sy, Width: size, Height: size}
}

// cellCenter returns the screen centre of a cell.
func (v *Viewer) cellCenter(p components.Position) rl.Vector2 {
	r := v.cellRect(p)
	return rl.Vector2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Draw renders the grid, overlays and panels.
func (v *Viewer) Draw() {
	v.engine.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(v.hud.renderer.Theme.Background)

	v.drawCells()
	v.drawOverlays()
	v.drawSelection()

	census := v.engine.Census()
	grid := v.engine.Grid()
	v.hud.Draw(HUDData{
		Title:  "Warren",
		Census: census,
		Cells:  grid.Width() * grid.Height(),
		Speed:  v.state.Speed,
		FPS:    rl.GetFPS(),
		Paused: v.state.Paused,
	})
	v.hud.DrawControls(int32(v.screenH), controlsLegend)
	v.playback.Draw(&v.state)

	y := v.controls.Draw(v.overlays)
	if v.hasStats {
		v.window.SetPosition(10, y+10)
		v.window.Draw(v.lastStats)
	}

	if pos, ok := v.inspected(); ok {
		v.inspector.Draw(pos, v.engine.CellInfo(pos), v.pinned)
	} else if v.overlays.IsEnabled(OverlayPerf) {
		v.perf.Draw(v.engine.PerfStats())
	}

	rl.EndDrawing()
}

// inspected returns the cell shown in the inspector: the pinned one, else the hovered one.
func (v *Viewer) inspected() (components.Position, bool) {
	if v.pinned {
		return v.pin, true
	}
	return v.hover, v.hovering
}

// drawCells fills every visible occupied cell with its dominant kind's colour.
func (v *Viewer) drawCells() {
	grid := v.engine.Grid()
	shade := v.overlays.IsEnabled(OverlayHpShading)
	gridLines := v.overlays.IsEnabled(OverlayGridLines) && v.cellSize*v.cam.Zoom >= 4
	theme := v.hud.renderer.Theme

	for pos, cell := range grid.All() {
		if !v.cam.IsVisible(float32(pos.X)*v.cellSize, float32(pos.Y)*v.cellSize, v.cellSize) {
			continue
		}
		rect := v.cellRect(pos)
		if gridLines {
			rl.DrawRectangleLinesEx(rect, 1, theme.GridLine)
		}
		if len(cell) == 0 {
			continue
		}

		kind := v.engine.DominantKind(pos)
		color := KindColor(kind)
		if shade {
			color = rl.Fade(color, 0.25+0.75*v.hpRatio(pos, kind))
		}
		rl.DrawRectangleRec(inset(rect, 1), color)
	}
}

// hpRatio returns the best Hp fraction among the cell's occupants of kind.
func (v *Viewer) hpRatio(pos components.Position, kind components.Kind) float32 {
	limit := float32(components.GrassTender)
	switch kind {
	case components.KindRabbit:
		limit = float32(v.cfg.Rabbit.MaxHp)
	case components.KindFox:
		limit = float32(v.cfg.Fox.MaxHp)
	}
	if limit <= 0 {
		return 1
	}

	best := float32(0)
	for _, info := range v.engine.CellInfo(pos) {
		if info.Kind == kind {
			best = max(best, float32(info.Hp)/limit)
		}
	}
	return min(best, 1)
}

// drawOverlays renders the debug overlays that sit on top of the cells.
func (v *Viewer) drawOverlays() {
	counts := v.overlays.IsEnabled(OverlayCounts) && v.cellSize*v.cam.Zoom >= 14
	pairs := v.overlays.IsEnabled(OverlayPairs)
	if !counts && !pairs {
		return
	}

	for pos, cell := range v.engine.Grid().All() {
		if len(cell) == 0 {
			continue
		}
		if counts {
			r := v.cellRect(pos)
			fontSize := int32(r.Height * 0.6)
			rl.DrawText(fmt.Sprintf("%d", len(cell)), int32(r.X+2), int32(r.Y+1), fontSize, rl.Black)
		}
		if !pairs {
			continue
		}
		for _, info := range v.engine.CellInfo(pos) {
			if !info.Paired || !info.Originator {
				continue
			}
			if partner, ok := v.engine.Describe(info.Partner); ok {
				rl.DrawLineEx(v.cellCenter(pos), v.cellCenter(partner.Pos), 2, rl.Magenta)
			}
		}
	}
}

// drawSelection outlines the hovered and pinned cells.
func (v *Viewer) drawSelection() {
	theme := v.hud.renderer.Theme
	if v.hovering {
		rl.DrawRectangleLinesEx(v.cellRect(v.hover), 1, theme.Highlight)
	}
	if v.pinned {
		rl.DrawRectangleLinesEx(v.cellRect(v.pin), 2, rl.Yellow)
	}
}

func inset(r rl.Rectangle, by float32) rl.Rectangle {
	if r.Width <= 2*by+1 {
		return r
	}
	return rl.Rectangle{X: r.X + by, Y: r.Y + by, Width: r.Width - 2*by, Height: r.Height - 2*by}
}
