// Package ui provides a descriptor-driven raylib viewer for the simulation.
// Instead of hard-coding field layouts, inspector panels are defined through
// descriptors that read from game.SimInfo.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/game"
)

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text
	WidgetBar                           // Bar of Getter/MaxGetter
	WidgetHpBar                         // Bar with low/medium/high colour thresholds
	WidgetColorSwatch                   // Color preview square
	WidgetSection                       // Section header
	WidgetSpacer                        // Vertical spacing
)

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID          string                      // Unique identifier for the field
	Label       string                      // Display label
	Widget      WidgetType                  // How to render
	Format      string                      // Printf format for numeric text (e.g., "%.0f")
	Color       rl.Color                    // Optional color override
	Visible     func(game.SimInfo) bool     // Optional visibility check (nil = always visible)
	Getter      func(game.SimInfo) float32  // Value extractor (for numeric fields)
	MaxGetter   func(game.SimInfo) float32  // Bar maximum (nil = 1)
	TextGetter  func(game.SimInfo) string   // Value extractor (for text fields)
	ColorGetter func(game.SimInfo) rl.Color // Color extractor (for color swatches)
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID      string                  // Unique identifier
	Title   string                  // Section header text
	Fields  []FieldDescriptor       // Fields in this section
	Visible func(game.SimInfo) bool // Optional visibility check for entire section
}

// Theme holds UI styling constants.
type Theme struct {
	Background     rl.Color
	GridLine       rl.Color
	Highlight      rl.Color
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:     rl.Color{R: 18, G: 16, B: 12, A: 255},
		GridLine:       rl.Color{R: 45, G: 42, B: 36, A: 255},
		Highlight:      rl.Color{R: 255, G: 255, B: 255, A: 200},
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.LightGray,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium:  rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     80,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// KindColor returns the fill colour of a cell whose dominant kind is k.
func KindColor(k components.Kind) rl.Color {
	if k == components.KindAny {
		return rl.Blank
	}
	c := k.Color()
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}
