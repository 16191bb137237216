package engine

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Placement
	PlacePlayerBase(x, y int) (*PlacementResult, error)
	PlacePlayerMove(x, y int) (*PlacementResult, error)
	LoadCells(cells []CellPlacement) error
	CheckBase(x, y int) error
	CheckArmy(x, y int) error

	// Generations
	Step() (*StepResult, error)
	Generation() int
	Outcome() *Outcome
	Phase() Phase
	IsGameOver() bool

	// Inspection
	CellAt(x, y int) (CellState, error)
	GetState() *GameState
	GetConfig() *GameConfig
	GetMoveHistory() []MoveHistoryEntry
}

// Game is one match between the player and the computer. It is not safe for
// concurrent use; callers serialize placements and steps.
type Game struct {
	config  *GameConfig
	grid    *Grid
	placer  *Placer
	workers int

	generation int
	started    bool
	outcome    *Outcome
	message    string

	playerBase   *Position
	computerBase *Position
	history      []MoveHistoryEntry
}

var _ Engine = (*Game)(nil)

// NewGame creates a game from config, drawing computer placements from rng.
// Cells listed in the config are preloaded.
func NewGame(config *GameConfig, rng Random) (*Game, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRandom(NewSeed())
	}

	grid := NewGrid(config.Width, config.Height)
	game := &Game{
		config:     config,
		grid:       grid,
		placer:     NewPlacer(grid, rng),
		workers:    max(config.Workers, 1),
		generation: 1,
		message:    "Select a cell for your base (not on the outer border)",
	}

	if len(config.Cells) > 0 {
		if err := game.LoadCells(config.Cells); err != nil {
			return nil, errors.Wrap(err, "preload cells")
		}
	}

	return game, nil
}

// PlacePlayerBase plants the player's base centered on (x, y) and then the
// computer's base at a legal distance from it
func (g *Game) PlacePlayerBase(x, y int) (*PlacementResult, error) {
	if g.outcome != nil {
		return nil, ErrGameOver
	}
	if g.started {
		return nil, ErrBaseAlreadyPlaced
	}
	if err := g.placer.ValidateBaseCenter(x, y); err != nil {
		return nil, err
	}

	g.placer.PlantBaseBlock(x, y, Player)
	computer, fallback := g.placer.PlaceComputerBase()

	player := Position{X: x, Y: y}
	g.playerBase, g.computerBase = &player, &computer
	g.started = true
	g.addMoveToHistory(ActionBase, Player, player)
	g.addMoveToHistory(ActionBase, Computer, computer)
	g.message = fmt.Sprintf("Bases planted: player at %s, computer at %s", player, computer)

	return &PlacementResult{Player: player, Computer: computer, Fallback: fallback}, nil
}

// PlacePlayerMove plants a 3x3 player army block centered on (x, y) and the
// computer's mirrored block
func (g *Game) PlacePlayerMove(x, y int) (*PlacementResult, error) {
	if g.outcome != nil {
		return nil, ErrGameOver
	}
	if !g.started {
		return nil, ErrBaseNotPlaced
	}

	_, computer, err := g.placer.PlaceArmyMove(x, y)
	if err != nil {
		return nil, err
	}

	player := Position{X: x, Y: y}
	g.addMoveToHistory(ActionArmy, Player, player)
	g.addMoveToHistory(ActionArmy, Computer, computer)
	g.message = fmt.Sprintf("Army placed at %s, computer answered at %s", player, computer)

	return &PlacementResult{Player: player, Computer: computer}, nil
}

// LoadCells writes an already-parsed list of cells onto the current
// generation. The whole list is rejected if any entry is out of bounds or
// invalid. Loading a player base cell counts as placing the player base.
func (g *Game) LoadCells(cells []CellPlacement) error {
	if g.outcome != nil {
		return ErrGameOver
	}
	for i, c := range cells {
		if !g.grid.InBounds(c.X, c.Y) {
			return errors.Wrapf(ErrOutOfBounds, "cell %d at (%d,%d)", i+1, c.X, c.Y)
		}
		if !c.State.Valid() {
			return errors.Wrapf(ErrIllegalPlacement, "cell %d at (%d,%d) has an invalid state", i+1, c.X, c.Y)
		}
	}

	for _, c := range cells {
		g.grid.put(c.X, c.Y, c.State)
	}

	if !g.started && g.grid.Count(BaseOf(Player)) > 0 {
		g.started = true
		g.message = "Layout loaded with a player base"
	}
	return nil
}

// Step advances the game by one generation
func (g *Game) Step() (*StepResult, error) {
	if g.outcome != nil {
		return nil, ErrGameOver
	}
	if !g.started {
		return nil, ErrBaseNotPlaced
	}

	bases, outcome := Advance(g.grid, g.workers)
	result := &StepResult{
		Generation: g.generation,
		Bases:      bases,
		Population: g.grid.Population(),
	}

	switch {
	case outcome != nil:
		outcome.Generation = g.generation
		g.finish(outcome)
	case g.config.MaxGenerations > 0 && g.generation >= g.config.MaxGenerations:
		g.finish(&Outcome{Winner: NoFaction, Reason: ReasonGenerationLimit, Generation: g.generation})
	default:
		g.message = fmt.Sprintf("Generation %d", g.generation)
	}

	result.Outcome = g.Outcome()
	g.generation++
	return result, nil
}

func (g *Game) finish(outcome *Outcome) {
	g.outcome = outcome
	switch outcome.Winner {
	case Player:
		g.message = "The winner is the player!"
	case Computer:
		g.message = "The winner is the computer!"
	default:
		g.message = fmt.Sprintf("Generation limit of %d reached without a winner", outcome.Generation)
	}
}

// CheckBase reports whether a player base centered on (x, y) would be legal
// now, without placing it
func (g *Game) CheckBase(x, y int) error {
	if g.outcome != nil {
		return ErrGameOver
	}
	if g.started {
		return ErrBaseAlreadyPlaced
	}
	return g.placer.ValidateBaseCenter(x, y)
}

// CheckArmy reports whether a player army move centered on (x, y) would be
// legal now, without placing it
func (g *Game) CheckArmy(x, y int) error {
	if g.outcome != nil {
		return ErrGameOver
	}
	if !g.started {
		return ErrBaseNotPlaced
	}
	return g.placer.ValidateArmyMove(x, y)
}

// Generation returns the index of the next generation to compute, starting at 1
func (g *Game) Generation() int { return g.generation }

// Outcome returns a copy of the terminal outcome, or nil while the game runs
func (g *Game) Outcome() *Outcome {
	if g.outcome == nil {
		return nil
	}
	out := *g.outcome
	return &out
}

// Phase returns the lifecycle stage of the game
func (g *Game) Phase() Phase {
	switch {
	case g.outcome != nil:
		return PhaseFinished
	case g.started:
		return PhaseInProgress
	}
	return PhaseAwaitingBase
}

// IsGameOver returns whether the game has a terminal outcome
func (g *Game) IsGameOver() bool { return g.outcome != nil }

// CellAt returns the current state of a cell
func (g *Game) CellAt(x, y int) (CellState, error) { return g.grid.Get(x, y) }

// Grid exposes the board for read-only inspection
func (g *Game) Grid() *Grid { return g.grid }

// GetConfig returns the configuration the game was created with
func (g *Game) GetConfig() *GameConfig { return g.config }

// PlayerBase returns the center the player chose, if any
func (g *Game) PlayerBase() (Position, bool) {
	if g.playerBase == nil {
		return Position{}, false
	}
	return *g.playerBase, true
}

// ComputerBase returns the center the computer's base was planted at, if any
func (g *Game) ComputerBase() (Position, bool) {
	if g.computerBase == nil {
		return Position{}, false
	}
	return *g.computerBase, true
}

// GetMoveHistory returns a copy of the placement history
func (g *Game) GetMoveHistory() []MoveHistoryEntry {
	history := make([]MoveHistoryEntry, len(g.history))
	copy(history, g.history)
	return history
}

// GetState returns a snapshot of the game
func (g *Game) GetState() *GameState {
	return &GameState{
		Width:      g.grid.Width(),
		Height:     g.grid.Height(),
		Grid:       g.grid.Rows(),
		Generation: g.generation,
		Phase:      g.Phase(),
		Bases: FactionCounts{
			Player:   g.grid.Count(BaseOf(Player)),
			Computer: g.grid.Count(BaseOf(Computer)),
		},
		Armies: FactionCounts{
			Player:   g.grid.Count(ArmyOf(Player)),
			Computer: g.grid.Count(ArmyOf(Computer)),
		},
		Outcome:     g.Outcome(),
		GameOver:    g.outcome != nil,
		ConfigName:  g.config.Name,
		Message:     g.message,
		MoveHistory: g.GetMoveHistory(),
		TotalMoves:  len(g.history),
	}
}

// addMoveToHistory records a placement
func (g *Game) addMoveToHistory(action string, faction Faction, pos Position) {
	g.history = append(g.history, MoveHistoryEntry{
		Action:     action,
		Faction:    faction,
		Position:   pos,
		Generation: g.generation,
		Timestamp:  time.Now().Unix(),
		MoveNumber: len(g.history) + 1,
	})
}
