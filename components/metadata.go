package components

// DisplayColor is an RGB colour used when rendering a kind.
type DisplayColor struct {
	R, G, B uint8
}

// DefaultColor is used for kinds without a dedicated colour.
var DefaultColor = DisplayColor{R: 253, G: 221, B: 0}

// Color returns the render colour of the kind.
func (k Kind) Color() DisplayColor {
	switch k {
	case KindGrass:
		return DisplayColor{R: 76, G: 175, B: 80}
	case KindRabbit:
		return DisplayColor{R: 230, G: 230, B: 230}
	case KindFox:
		return DisplayColor{R: 230, G: 110, B: 30}
	}
	return DefaultColor
}

// FieldDescriptor describes an entity field for UI display.
type FieldDescriptor struct {
	ID     string  // Unique identifier
	Label  string  // Display name
	Format string  // Printf format (e.g., "%d")
	Max    float32 // Bar maximum (ignored unless IsBar)
	IsBar  bool    // True to render as progress bar
	Group  string  // Logical grouping
}

// SimFieldDescriptors returns metadata for fields every entity has.
func SimFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "hp", Label: "Hp", Format: "%d", IsBar: true, Group: "stats"},
		{ID: "age", Label: "Age", Format: "%d", Group: "stats"},
	}
}

// LifecycleFieldDescriptors returns metadata for animal lifecycle fields.
func LifecycleFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "invincibility", Label: "Invincible", Format: "%d", Group: "lifecycle"},
		{ID: "mating_cooldown", Label: "Cooldown", Format: "%d", Group: "lifecycle"},
		{ID: "paired", Label: "Paired", Format: "%t", Group: "mating"},
	}
}

// GrassFieldDescriptors returns metadata for grass fields.
func GrassFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "state", Label: "State", Format: "%s", Group: "grass"},
		{ID: "offspring", Label: "Offspring", Format: "%d", Group: "grass"},
	}
}
