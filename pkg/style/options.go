package style

import (
	"go.uber.org/zap"
)

// EngineOptions configures engine construction.
type EngineOptions struct {
	// Logger receives compile and resolution warnings at WARN level.
	// Defaults to a no-op logger.
	Logger *zap.Logger

	// Palettes adds or overrides named color scale presets on top of the
	// built-ins. Keys are case-insensitive scale names; values are ordered
	// hex color stops. Useful for product palettes and for test isolation.
	Palettes map[string][]string
}

// DefaultEngineOptions returns default options.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		Logger: zap.NewNop(),
	}
}
