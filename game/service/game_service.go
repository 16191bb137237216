package service

import (
	"context"
	"time"

	"github.com/wricardo/artofwar/game/engine"
)

// MaxStepsPerCall bounds the generations a single Step call may advance
const MaxStepsPerCall = 1000

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	PlaceBase(ctx context.Context, sessionID string, x, y int) (*PlacementResult, error)
	PlaceArmy(ctx context.Context, sessionID string, x, y int) (*PlacementResult, error)
	Step(ctx context.Context, sessionID string, count int) (*StepBatchResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)
	LoadCells(ctx context.Context, sessionID string, cells []engine.CellPlacement) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetCell(ctx context.Context, sessionID string, x, y int) (*CellInfo, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session. Seed is the computer's
// random seed; replaying it with the same player input replays the game.
type Session struct {
	ID             string
	Game           *engine.Game
	Config         *engine.GameConfig
	Seed           int64
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// NewGame builds a fresh game for the session's config and seed
func (s *Session) NewGame() (*engine.Game, error) {
	return engine.NewGame(s.Config, engine.NewRandom(s.Seed))
}
