package engine

import (
	"strings"
	"testing"
)

func createValidConfig() *GameConfig {
	return &GameConfig{
		Name:           "Test Config",
		Description:    "A valid test configuration",
		Width:          20,
		Height:         20,
		MaxGenerations: 100,
	}
}

func TestValidateGameConfig_ValidConfig(t *testing.T) {
	config := createValidConfig()
	if err := ValidateGameConfig(config); err != nil {
		t.Errorf("Expected valid config to pass validation, got: %v", err)
	}
}

func TestValidateGameConfig_DefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if err := ValidateGameConfig(config); err != nil {
		t.Fatalf("Expected default config to be valid, got: %v", err)
	}
	if config.Width != 50 || config.Height != 50 {
		t.Errorf("Expected default 50x50 grid, got %dx%d", config.Width, config.Height)
	}
}

func TestValidateGameConfig_Nil(t *testing.T) {
	if err := ValidateGameConfig(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestValidateGameConfig_MissingName(t *testing.T) {
	config := createValidConfig()
	config.Name = ""
	err := ValidateGameConfig(config)
	if err == nil {
		t.Fatal("Expected error for missing name")
	}
	if !strings.Contains(err.Error(), "name is required") {
		t.Errorf("Expected name validation error, got: %v", err)
	}
}

func TestValidateGameConfig_InvalidDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		expectedError string
	}{
		{"width too small", 4, 20, "width must be between"},
		{"width too large", 501, 20, "width must be between"},
		{"height too small", 20, 2, "height must be between"},
		{"height too large", 20, 1000, "height must be between"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := createValidConfig()
			config.Width = test.width
			config.Height = test.height
			err := ValidateGameConfig(config)
			if err == nil {
				t.Fatalf("Expected error for %dx%d grid", test.width, test.height)
			}
			if !strings.Contains(err.Error(), test.expectedError) {
				t.Errorf("Expected error containing '%s', got: %v", test.expectedError, err)
			}
		})
	}
}

func TestValidateGameConfig_GenerationsAndWorkers(t *testing.T) {
	tests := []struct {
		name           string
		maxGenerations int
		workers        int
		expectedError  string
	}{
		{"negative generations", -1, 0, "max_generations must not be negative"},
		{"negative workers", 10, -2, "workers must be between"},
		{"too many workers", 10, 65, "workers must be between"},
		{"unlimited generations", 0, 4, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := createValidConfig()
			config.MaxGenerations = test.maxGenerations
			config.Workers = test.workers
			err := ValidateGameConfig(config)
			if test.expectedError == "" {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), test.expectedError) {
				t.Errorf("Expected error containing '%s', got: %v", test.expectedError, err)
			}
		})
	}
}

func TestValidateGameConfig_Cells(t *testing.T) {
	t.Run("cell outside grid", func(t *testing.T) {
		config := createValidConfig()
		config.Cells = []CellPlacement{{X: 20, Y: 3, State: ArmyOf(Player)}}
		err := ValidateGameConfig(config)
		if err == nil || !strings.Contains(err.Error(), "outside the 20x20 grid") {
			t.Errorf("Expected out of grid error, got: %v", err)
		}
	})

	t.Run("invalid state", func(t *testing.T) {
		config := createValidConfig()
		config.Cells = []CellPlacement{{X: 1, Y: 1, State: CellState{Kind: Army}}}
		err := ValidateGameConfig(config)
		if err == nil || !strings.Contains(err.Error(), "invalid state") {
			t.Errorf("Expected invalid state error, got: %v", err)
		}
	})

	t.Run("valid cells", func(t *testing.T) {
		config := createValidConfig()
		config.Cells = []CellPlacement{
			{X: 0, Y: 0, State: ArmyOf(Player)},
			{X: 19, Y: 19, State: BaseOf(Computer)},
		}
		if err := ValidateGameConfig(config); err != nil {
			t.Errorf("Expected valid cells, got: %v", err)
		}
	})
}
