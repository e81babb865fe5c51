package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warren/telemetry"
)

// ControlsPanel renders the overlay toggle list.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1 // +1 for category header
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight + int32(len(categories))*4

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}

		y += 4 // Gap between categories
	}

	return c.y + panelHeight
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// Speed limits for the playback slider, as multiples of the configured tick rate.
const (
	MinSpeed = 0.25
	MaxSpeed = 16
)

// PlaybackState is what the playback controls edit.
type PlaybackState struct {
	Paused bool
	Step   bool    // One tick requested while paused
	Speed  float32 // Multiplier of the configured tick rate
}

// PlaybackControls draws the raygui pause/step/speed strip.
type PlaybackControls struct {
	x, y float32
}

// NewPlaybackControls creates the controls with their top-left corner at (x, y).
func NewPlaybackControls(x, y float32) *PlaybackControls {
	return &PlaybackControls{x: x, y: y}
}

// SetPosition updates the strip position.
func (p *PlaybackControls) SetPosition(x, y float32) {
	p.x, p.y = x, y
}

// Draw renders the controls and applies clicks to state.
func (p *PlaybackControls) Draw(state *PlaybackState) {
	label := "Pause"
	if state.Paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: p.x, Y: p.y, Width: 80, Height: 24}, label) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.Rectangle{X: p.x + 90, Y: p.y, Width: 60, Height: 24}, "Step") {
		state.Paused = true
		state.Step = true
	}
	state.Speed = gui.SliderBar(
		rl.Rectangle{X: p.x + 210, Y: p.y + 2, Width: 160, Height: 20},
		"Speed", fmt.Sprintf("%.2fx", state.Speed),
		state.Speed, MinSpeed, MaxSpeed,
	)
}

// WindowStatsPanel shows the most recent telemetry window.
type WindowStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewWindowStatsPanel creates a new window stats panel.
func NewWindowStatsPanel(x, y, width int32) *WindowStatsPanel {
	return &WindowStatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (w *WindowStatsPanel) SetPosition(x, y int32) {
	w.x, w.y = x, y
}

// Draw renders the window stats panel and returns the Y below it.
func (w *WindowStatsPanel) Draw(stats telemetry.WindowStats) int32 {
	r := w.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	panelHeight := lineHeight*7 + padding*2 + 2
	r.DrawPanel(w.x, w.y, w.width, panelHeight)

	y := w.y + padding
	rl.DrawText(fmt.Sprintf("Window to tick %d", stats.WindowEndTick), w.x+padding, y, 14, rl.White)
	y += lineHeight + 2

	y = r.DrawLabelValue(w.x+padding, y, "Births", fmt.Sprintf("R %d  F %d", stats.RabbitBirths, stats.FoxBirths))
	y = r.DrawLabelValue(w.x+padding, y, "Deaths", fmt.Sprintf("R %d  F %d", stats.RabbitDeaths, stats.FoxDeaths))
	y = r.DrawLabelValue(w.x+padding, y, "Grazed", fmt.Sprintf("%d", stats.Grazed))
	y = r.DrawLabelValue(w.x+padding, y, "Eaten", fmt.Sprintf("%d", stats.RabbitsEaten))
	y = r.DrawLabelValue(w.x+padding, y, "Pairs", fmt.Sprintf("R %d  F %d", stats.RabbitPairs, stats.FoxPairs))
	y = r.DrawLabelValue(w.x+padding, y, "Hp mean", fmt.Sprintf("R %.1f  F %.1f", stats.RabbitHpMean, stats.FoxHpMean))

	return y
}
