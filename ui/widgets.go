package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warren/game"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a bar of current out of max with a fixed fill colour.
func (r *Renderer) DrawBar(x, y int32, label string, current, limit float32, width int32) int32 {
	return r.drawBar(x, y, label, current, limit, width, func(float32) rl.Color { return r.Theme.BarFill })
}

// DrawHpBar draws a bar coloured by how full it is.
func (r *Renderer) DrawHpBar(x, y int32, label string, current, limit float32, width int32) int32 {
	return r.drawBar(x, y, label, current, limit, width, func(ratio float32) rl.Color {
		switch {
		case ratio < 0.3:
			return r.Theme.BarFillLow
		case ratio < 0.6:
			return r.Theme.BarFillMedium
		}
		return r.Theme.BarFillHigh
	})
}

func (r *Renderer) drawBar(x, y int32, label string, current, limit float32, width int32, fill func(float32) rl.Color) int32 {
	ratio := float32(0)
	if limit > 0 {
		ratio = min(max(current/limit, 0), 1)
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), r.Theme.BarHeight, fill(ratio))
	rl.DrawText(fmt.Sprintf("%.0f/%.0f", current, limit), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawColorSwatch draws a color swatch.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, color rl.Color) int32 {
	swatchSize := int32(12)
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, swatchSize, swatchSize, color)
	return y + r.Theme.LineHeight
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, info game.SimInfo, width int32) int32 {
	switch fd.Widget {
	case WidgetText:
		var text string
		if fd.TextGetter != nil {
			text = fd.TextGetter(info)
		} else if fd.Getter != nil {
			text = fmt.Sprintf(fd.Format, fd.Getter(info))
		}
		return r.DrawLabelValue(x, y, fd.Label, text)

	case WidgetBar, WidgetHpBar:
		var current, maximum float32 = 0, 1
		if fd.Getter != nil {
			current = fd.Getter(info)
		}
		if fd.MaxGetter != nil {
			maximum = fd.MaxGetter(info)
		}
		if fd.Widget == WidgetHpBar {
			return r.DrawHpBar(x, y, fd.Label, current, maximum, width)
		}
		return r.DrawBar(x, y, fd.Label, current, maximum, width)

	case WidgetColorSwatch:
		color := fd.Color
		if fd.ColorGetter != nil {
			color = fd.ColorGetter(info)
		}
		return r.DrawColorSwatch(x, y, fd.Label, color)

	case WidgetSection:
		return r.DrawSectionHeader(x, y, fd.Label)

	case WidgetSpacer:
		return y + 6
	}

	return y
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, info game.SimInfo, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(info) {
		return y
	}

	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}

	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(info) {
			continue
		}
		y = r.DrawField(x, y, fd, info, width)
	}

	return y + 4 // Small gap after section
}

// SectionHeight returns the height DrawSection would use for info.
func (r *Renderer) SectionHeight(sd SectionDescriptor, info game.SimInfo) int32 {
	if sd.Visible != nil && !sd.Visible(info) {
		return 0
	}
	h := int32(4)
	if sd.Title != "" {
		h += r.Theme.LineHeight
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(info) {
			continue
		}
		switch fd.Widget {
		case WidgetBar, WidgetHpBar:
			h += r.Theme.LineHeight + 2
		case WidgetSpacer:
			h += 6
		default:
			h += r.Theme.LineHeight
		}
	}
	return h
}
