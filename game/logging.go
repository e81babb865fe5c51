package game

import (
	"context"
	"log/slog"
)

// LogValue implements slog.LogValuer for structured logging.
func (c Census) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", int(c.Tick)),
		slog.Int("grass", c.Grass),
		slog.Int("rabbits", c.Rabbits),
		slog.Int("foxes", c.Foxes),
		slog.Int("occupied", c.Occupied),
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s SimInfo) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Uint64("entity", uint64(s.Entity.ID())),
		slog.String("kind", s.Kind.String()),
		slog.String("pos", s.Pos.String()),
		slog.Int("hp", s.Hp),
		slog.Int("age", s.Age),
	}
	if s.Kind.IsAnimal() {
		attrs = append(attrs,
			slog.Int("invincibility", s.Invincibility),
			slog.Int("mating_cooldown", s.MatingCooldown),
			slog.Bool("paired", s.Paired),
		)
	} else {
		attrs = append(attrs,
			slog.String("state", s.GrassState.String()),
			slog.Int("offspring", s.Offspring),
		)
	}
	return slog.GroupValue(attrs...)
}

// LogWorldState logs the census and, at debug level, every entity.
func (e *Engine) LogWorldState() {
	e.logger.Info("world", "census", e.Census())

	if !e.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for pos := range e.grid.All() {
		for _, info := range e.CellInfo(pos) {
			e.logger.Debug("sim", "sim", info)
		}
	}
}
