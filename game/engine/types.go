package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

// Faction identifies one of the two sides
type Faction int

const (
	// NoFaction is used for outcomes without a winner
	NoFaction Faction = 0
	// Player is faction 1, driven by external input
	Player Faction = 1
	// Computer is faction 2, driven by the placement heuristics
	Computer Faction = 2
)

// Validation and rule constants
const (
	MinGridSize = 5
	MaxGridSize = 500
	MaxWorkers  = 64

	DefaultGridSize       = 50
	DefaultMaxGenerations = 50000

	// MinBaseSeparation is the radius around the player base the computer base may not touch
	MinBaseSeparation = 15
	// ArmyExclusionRadius is the radius around any base where army moves are rejected
	ArmyExclusionRadius = 5
	// MaxBaseAttempts caps rejection sampling of the computer base
	MaxBaseAttempts = 500

	// BlockSize is the side of base and army blocks
	BlockSize = 3
)

var (
	ErrOutOfBounds       = errors.New("coordinates out of bounds")
	ErrIllegalPlacement  = errors.New("illegal placement")
	ErrGameOver          = errors.New("game is over")
	ErrBaseNotPlaced     = errors.New("player base has not been placed")
	ErrBaseAlreadyPlaced = errors.New("player base already placed")
)

// Opponent returns the other faction
func (f Faction) Opponent() Faction {
	switch f {
	case Player:
		return Computer
	case Computer:
		return Player
	}
	return NoFaction
}

// Valid reports whether f is one of the two playing factions
func (f Faction) Valid() bool {
	return f == Player || f == Computer
}

func (f Faction) String() string {
	switch f {
	case Player:
		return "player"
	case Computer:
		return "computer"
	}
	return "none"
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// OutcomeReason explains why a game ended
type OutcomeReason string

const (
	ReasonBaseDestroyed   OutcomeReason = "base_destroyed"
	ReasonGenerationLimit OutcomeReason = "generation_limit"
)

// Outcome is the terminal result of a game. Winner is NoFaction when the
// generation limit was reached first.
type Outcome struct {
	Winner     Faction       `json:"winner"`
	Reason     OutcomeReason `json:"reason"`
	Generation int           `json:"generation"`
}

// FactionCounts holds a per-faction cell count
type FactionCounts struct {
	Player   int `json:"player"`
	Computer int `json:"computer"`
}

// Of returns the count for faction f
func (c FactionCounts) Of(f Faction) int {
	if f == Player {
		return c.Player
	}
	if f == Computer {
		return c.Computer
	}
	return 0
}

// StepResult reports one generation transition
type StepResult struct {
	Generation int           `json:"generation"`
	Bases      FactionCounts `json:"bases"`
	Population int           `json:"population"`
	Outcome    *Outcome      `json:"outcome,omitempty"`
}

// PlacementResult reports what a player placement changed on the grid
type PlacementResult struct {
	Player   Position `json:"player"`
	Computer Position `json:"computer"`
	// Fallback is set when the computer base came from the deterministic search
	Fallback bool `json:"fallback,omitempty"`
}

// CellPlacement is one entry of a preloaded cell list
type CellPlacement struct {
	X     int       `json:"x" yaml:"x"`
	Y     int       `json:"y" yaml:"y"`
	State CellState `json:"state" yaml:"state"`
}

// Phase is the lifecycle stage of a game
type Phase string

const (
	PhaseAwaitingBase Phase = "awaiting_base"
	PhaseInProgress   Phase = "in_progress"
	PhaseFinished     Phase = "finished"
)

// MoveHistoryEntry represents a single placement in the game history
type MoveHistoryEntry struct {
	Action     string   `json:"action"`
	Faction    Faction  `json:"faction"`
	Position   Position `json:"position"`
	Generation int      `json:"generation"`
	Timestamp  int64    `json:"timestamp"`
	MoveNumber int      `json:"move_number"`
}

// Move history actions
const (
	ActionBase = "base"
	ActionArmy = "army"
)

// GameState is a JSON-friendly snapshot of a game
type GameState struct {
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Grid        [][]CellState      `json:"grid"`
	Generation  int                `json:"generation"`
	Phase       Phase              `json:"phase"`
	Bases       FactionCounts      `json:"bases"`
	Armies      FactionCounts      `json:"armies"`
	Outcome     *Outcome           `json:"outcome,omitempty"`
	GameOver    bool               `json:"game_over"`
	ConfigName  string             `json:"config_name"`
	Message     string             `json:"message"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`
}
