package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/artofwar/game/engine"
)

var (
	ErrInvalidStepCount = errors.New("step count must be at least 1")
)

// Stop reasons reported by StepBatchResult
const (
	StopGameOver  = "game_over"
	StopCancelled = "cancelled"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. A nil logger discards logs.
func NewGameService(sessions SessionManager, configs ConfigManager, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		Seed:           sess.Seed,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Game.GetState(),
		GameConfig:     sess.Config,
	}
}

// getSession looks up a session and marks it accessed. Callers hold mu for
// writing, since sessionInfo reads the access time under the read lock.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// PlaceBase plants the player's base and the computer's answer
func (s *gameServiceImpl) PlaceBase(ctx context.Context, sessionID string, x, y int) (*PlacementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	placement, err := sess.Game.PlacePlayerBase(x, y)
	if err != nil {
		return nil, fmt.Errorf("place base: %w", err)
	}

	computerMsg := fmt.Sprintf("Computer base planted at %s", placement.Computer)
	if placement.Fallback {
		computerMsg += " (no position honoured the separation rule)"
		s.logger.Warn("computer base placed by fallback",
			zap.String("session_id", sess.ID),
			zap.Stringer("player", placement.Player),
			zap.Stringer("computer", placement.Computer))
	}

	now := time.Now()
	state := sess.Game.GetState()
	return &PlacementResult{
		Player:    placement.Player,
		Computer:  placement.Computer,
		Fallback:  placement.Fallback,
		GameState: state,
		Message:   state.Message,
		Events: []GameEvent{
			{Type: EventBasePlaced, Message: fmt.Sprintf("Base planted at %s", placement.Player), Timestamp: now, Position: placement.Player},
			{Type: EventComputerBasePlaced, Message: computerMsg, Timestamp: now, Position: placement.Computer},
		},
	}, nil
}

// PlaceArmy plants a player army block and the computer's mirrored block
func (s *gameServiceImpl) PlaceArmy(ctx context.Context, sessionID string, x, y int) (*PlacementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	placement, err := sess.Game.PlacePlayerMove(x, y)
	if err != nil {
		return nil, fmt.Errorf("place army: %w", err)
	}

	now := time.Now()
	state := sess.Game.GetState()
	return &PlacementResult{
		Player:    placement.Player,
		Computer:  placement.Computer,
		GameState: state,
		Message:   state.Message,
		Events: []GameEvent{
			{Type: EventArmyPlaced, Message: fmt.Sprintf("Army placed at %s", placement.Player), Timestamp: now, Position: placement.Player},
			{Type: EventComputerArmyPlaced, Message: fmt.Sprintf("Computer army placed at %s", placement.Computer), Timestamp: now, Position: placement.Computer},
		},
	}, nil
}

// Step advances a session by up to count generations. It stops early when
// the game ends or ctx is cancelled; a cancelled batch still returns the
// generations already computed.
func (s *gameServiceImpl) Step(ctx context.Context, sessionID string, count int) (*StepBatchResult, error) {
	if count < 1 {
		return nil, ErrInvalidStepCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	game := sess.Game
	if game.IsGameOver() {
		return nil, fmt.Errorf("step: %w", engine.ErrGameOver)
	}

	result := &StepBatchResult{
		Requested:        count,
		StartGeneration:  game.Generation(),
		PopulationBefore: game.Grid().Population(),
		Events:           []GameEvent{},
	}
	if count > MaxStepsPerCall {
		count = MaxStepsPerCall
		result.Truncated = true
		result.Limit = MaxStepsPerCall
	}

	for result.Executed < count {
		if err := ctx.Err(); err != nil {
			result.StoppedReason = StopCancelled
			break
		}

		step, err := game.Step()
		if err != nil {
			if result.Executed == 0 {
				return nil, fmt.Errorf("step: %w", err)
			}
			break
		}
		result.Executed++
		result.Bases = step.Bases

		if step.Outcome != nil {
			result.Outcome = step.Outcome
			result.StoppedReason = StopGameOver
			break
		}
	}

	now := time.Now()
	result.EndGeneration = game.Generation() - 1
	result.PopulationAfter = game.Grid().Population()
	result.GameState = game.GetState()
	result.Events = append(result.Events, GameEvent{
		Type:       EventGeneration,
		Message:    fmt.Sprintf("Advanced %d generation(s) to generation %d", result.Executed, result.EndGeneration),
		Timestamp:  now,
		Generation: result.EndGeneration,
	})
	if result.Outcome != nil {
		result.Events = append(result.Events, outcomeEvent(result.Outcome, now))
		s.logger.Info("game over",
			zap.String("session_id", sess.ID),
			zap.Int("winner", int(result.Outcome.Winner)),
			zap.String("reason", string(result.Outcome.Reason)),
			zap.Int("generation", result.Outcome.Generation))
	}

	return result, nil
}

func outcomeEvent(outcome *engine.Outcome, now time.Time) GameEvent {
	event := GameEvent{Timestamp: now, Generation: outcome.Generation}
	switch outcome.Winner {
	case engine.Player:
		event.Type = EventVictory
		event.Message = "The winner is the player!"
	case engine.Computer:
		event.Type = EventDefeat
		event.Message = "The winner is the computer!"
	default:
		event.Type = EventGenerationLimit
		event.Message = fmt.Sprintf("Generation limit reached at generation %d", outcome.Generation)
	}
	return event
}

// Reset rebuilds the session's game from its config and seed
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	game, err := sess.NewGame()
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	sess.Game = game

	s.logger.Info("session reset", zap.String("session_id", sess.ID), zap.Int64("seed", sess.Seed))
	return game.GetState(), nil
}

// LoadCells writes a parsed cell list onto the session's grid
func (s *gameServiceImpl) LoadCells(ctx context.Context, sessionID string, cells []engine.CellPlacement) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Game.LoadCells(cells); err != nil {
		return nil, fmt.Errorf("load cells: %w", err)
	}
	return sess.Game.GetState(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Game.GetState(), nil
}

// GetCell describes one cell, its neighbourhood and the placements it allows
func (s *gameServiceImpl) GetCell(ctx context.Context, sessionID string, x, y int) (*CellInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	game := sess.Game
	state, err := game.CellAt(x, y)
	if err != nil {
		return nil, fmt.Errorf("get cell: %w", err)
	}
	n, err := game.Grid().NeighborsAt(x, y)
	if err != nil {
		return nil, fmt.Errorf("get cell: %w", err)
	}

	return &CellInfo{
		X:             x,
		Y:             y,
		State:         state,
		Code:          state.Code(),
		Symbol:        string(state.Symbol()),
		Army1:         n.Army1,
		Army2:         n.Army2,
		AdjacentBase1: n.AdjacentBase1,
		AdjacentBase2: n.AdjacentBase2,
		Next:          engine.Transition(state, n),
		BaseLegal:     game.CheckBase(x, y) == nil,
		ArmyLegal:     game.CheckArmy(x, y) == nil,
	}, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Game.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
