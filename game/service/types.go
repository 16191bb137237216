package service

import (
	"time"

	"github.com/wricardo/artofwar/game/engine"
)

// Event types carried by GameEvent
const (
	EventBasePlaced         = "base_placed"
	EventComputerBasePlaced = "computer_base_placed"
	EventArmyPlaced         = "army_placed"
	EventComputerArmyPlaced = "computer_army_placed"
	EventGeneration         = "generation"
	EventVictory            = "victory"
	EventDefeat             = "defeat"
	EventGenerationLimit    = "generation_limit"
	EventReset              = "reset"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Seed           int64              `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// PlacementResult contains the result of a base or army placement
type PlacementResult struct {
	Player    engine.Position   `json:"player"`
	Computer  engine.Position   `json:"computer"`
	Fallback  bool              `json:"fallback,omitempty"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// StepBatchResult contains the result of advancing several generations
type StepBatchResult struct {
	Requested        int                  `json:"requested"`
	Executed         int                  `json:"executed"`
	Truncated        bool                 `json:"truncated,omitempty"`
	Limit            int                  `json:"limit,omitempty"`
	StartGeneration  int                  `json:"start_generation"`
	EndGeneration    int                  `json:"end_generation"`
	PopulationBefore int                  `json:"population_before"`
	PopulationAfter  int                  `json:"population_after"`
	Bases            engine.FactionCounts `json:"bases"`
	Outcome          *engine.Outcome      `json:"outcome,omitempty"`
	StoppedReason    string               `json:"stopped_reason,omitempty"`
	GameState        *engine.GameState    `json:"game_state"`
	Events           []GameEvent          `json:"events"`
}

// CellInfo describes one cell of a session's grid
type CellInfo struct {
	X      int              `json:"x"`
	Y      int              `json:"y"`
	State  engine.CellState `json:"state"`
	Code   int              `json:"code"`
	Symbol string           `json:"symbol"`

	// Neighbour counts the next transition of this cell depends on
	Army1         int              `json:"army1_neighbors"`
	Army2         int              `json:"army2_neighbors"`
	AdjacentBase1 bool             `json:"adjacent_base1"`
	AdjacentBase2 bool             `json:"adjacent_base2"`
	Next          engine.CellState `json:"next"`

	// Legality of placements centered on this cell
	BaseLegal bool `json:"base_legal"`
	ArmyLegal bool `json:"army_legal"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type       string          `json:"type"`
	Message    string          `json:"message"`
	Timestamp  time.Time       `json:"timestamp"`
	Position   engine.Position `json:"position,omitempty"`
	Generation int             `json:"generation,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename       string `json:"filename"`
	ConfigID       string `json:"config_id"` // The identifier to use for session creation
	Name           string `json:"name"`      // Display name
	Description    string `json:"description"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	MaxGenerations int    `json:"max_generations"`
	Cells          int    `json:"cells"`
}
