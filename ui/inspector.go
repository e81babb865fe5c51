package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/game"
)

// maxListed caps how many occupants the inspector lists for one cell.
const maxListed = 4

// Inspector renders the hovered or pinned cell and its occupants.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
	sections []SectionDescriptor
}

// NewInspector creates a new inspector panel. Bar maxima come from cfg.
func NewInspector(x, y, width int32, cfg *config.Config) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		sections: simSections(cfg),
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the panel for the occupants of pos and returns the Y below it.
func (ins *Inspector) Draw(pos components.Position, infos []game.SimInfo, pinned bool) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	listed := infos[:min(len(infos), maxListed)]
	panelHeight := padding*2 + r.Theme.LineHeight + 6
	for _, info := range listed {
		panelHeight += r.Theme.LineHeight + 4
		for _, sd := range ins.sections {
			panelHeight += r.SectionHeight(sd, info)
		}
	}
	if len(infos) > len(listed) {
		panelHeight += r.Theme.LineHeight
	}

	r.DrawPanel(ins.x, ins.y, ins.width, panelHeight)

	x := ins.x + padding
	y := ins.y + padding

	title := fmt.Sprintf("Cell (%d, %d): %d", pos.X, pos.Y, len(infos))
	if pinned {
		title += " [pinned]"
	}
	rl.DrawText(title, x, y, 16, rl.White)
	y += r.Theme.LineHeight + 6

	for _, info := range listed {
		rl.DrawRectangle(x, y+2, 10, 10, KindColor(info.Kind))
		rl.DrawText(fmt.Sprintf("%s #%d", info.Kind, info.Entity.ID()), x+16, y, r.Theme.HeaderFontSize, rl.White)
		y += r.Theme.LineHeight + 4

		for _, sd := range ins.sections {
			y = r.DrawSection(x, y, sd, info, contentWidth)
		}
	}
	if n := len(infos) - len(listed); n > 0 {
		rl.DrawText(fmt.Sprintf("+%d more", n), x, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += r.Theme.LineHeight
	}

	return ins.y + panelHeight
}

// simSections turns the component field metadata into inspector sections.
func simSections(cfg *config.Config) []SectionDescriptor {
	isAnimal := func(info game.SimInfo) bool {
		return info.Kind == components.KindRabbit || info.Kind == components.KindFox
	}
	isGrass := func(info game.SimInfo) bool {
		return info.Kind == components.KindGrass
	}
	maxHp := func(info game.SimInfo) float32 {
		switch info.Kind {
		case components.KindRabbit:
			return float32(cfg.Rabbit.MaxHp)
		case components.KindFox:
			return float32(cfg.Fox.MaxHp)
		}
		return float32(components.GrassTender)
	}

	return []SectionDescriptor{
		{ID: "stats", Fields: fieldsFrom(components.SimFieldDescriptors(), maxHp)},
		{ID: "lifecycle", Title: "Lifecycle", Fields: fieldsFrom(components.LifecycleFieldDescriptors(), nil), Visible: isAnimal},
		{ID: "grass", Title: "Grass", Fields: fieldsFrom(components.GrassFieldDescriptors(), nil), Visible: isGrass},
	}
}

func fieldsFrom(descs []components.FieldDescriptor, maxGetter func(game.SimInfo) float32) []FieldDescriptor {
	fields := make([]FieldDescriptor, 0, len(descs))
	for _, d := range descs {
		id, format := d.ID, d.Format
		fd := FieldDescriptor{ID: id, Label: d.Label, Widget: WidgetText}
		if d.IsBar {
			fd.Widget = WidgetHpBar
			fd.Getter = func(info game.SimInfo) float32 { return float32(info.Hp) }
			fd.MaxGetter = maxGetter
			if maxGetter == nil {
				fd.MaxGetter = func(game.SimInfo) float32 { return d.Max }
			}
		} else {
			fd.TextGetter = func(info game.SimInfo) string { return fmt.Sprintf(format, fieldValue(info, id)) }
		}
		fields = append(fields, fd)
	}
	return fields
}

// fieldValue resolves a component field ID against a SimInfo.
func fieldValue(info game.SimInfo, id string) any {
	switch id {
	case "hp":
		return info.Hp
	case "age":
		return info.Age
	case "invincibility":
		return info.Invincibility
	case "mating_cooldown":
		return info.MatingCooldown
	case "paired":
		return info.Paired
	case "state":
		return info.GrassState
	case "offspring":
		return info.Offspring
	}
	return nil
}
