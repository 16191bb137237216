package engine

import (
	"fmt"
)

// GameConfig represents a game configuration loaded from JSON or YAML
type GameConfig struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Width       int    `json:"width" yaml:"width"`
	Height      int    `json:"height" yaml:"height"`

	// MaxGenerations ends the game without a winner once reached; 0 disables the limit
	MaxGenerations int `json:"max_generations" yaml:"max_generations"`

	// Seed makes every session of this config replay the same computer moves; 0 means random
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// Workers is the number of goroutines used per generation; 0 means one
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// Cells is an optional preloaded starting layout
	Cells []CellPlacement `json:"cells,omitempty" yaml:"cells,omitempty"`

	// LayoutFile names an "x y state" file, relative to the config directory,
	// whose cells are appended to Cells when the config is loaded
	LayoutFile string `json:"layout_file,omitempty" yaml:"layout_file,omitempty"`
}

// DefaultConfig returns the classic 50x50 game
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:           "classic",
		Description:    "Classic 50x50 battlefield",
		Width:          DefaultGridSize,
		Height:         DefaultGridSize,
		MaxGenerations: DefaultMaxGenerations,
	}
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	// Base blocks and the computer's interior sampling need room
	if config.Width < MinGridSize || config.Width > MaxGridSize {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Width)
	}
	if config.Height < MinGridSize || config.Height > MaxGridSize {
		return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Height)
	}

	if config.MaxGenerations < 0 {
		return fmt.Errorf("config validation: max_generations must not be negative, got %d", config.MaxGenerations)
	}
	if config.Workers < 0 || config.Workers > MaxWorkers {
		return fmt.Errorf("config validation: workers must be between 0 and %d, got %d", MaxWorkers, config.Workers)
	}

	for i, cell := range config.Cells {
		if cell.X < 0 || cell.X >= config.Width || cell.Y < 0 || cell.Y >= config.Height {
			return fmt.Errorf("config validation: cell %d at (%d, %d) is outside the %dx%d grid",
				i+1, cell.X, cell.Y, config.Width, config.Height)
		}
		if !cell.State.Valid() {
			return fmt.Errorf("config validation: cell %d at (%d, %d) has an invalid state", i+1, cell.X, cell.Y)
		}
	}

	return nil
}
