package strategy

import (
	"math"

	"go.uber.org/zap"

	"github.com/wricardo/artofwar/game/engine"
)

// Strategy picks the player's moves from a board snapshot. It only needs
// the grid, so it works the same against an in-process game or a remote one.
type Strategy interface {
	BaseMove(state *engine.GameState) engine.Position
	NextMove(state *engine.GameState) (engine.Position, bool)
	Reset()
}

// revisitPenalty is added to a center's score for every earlier move there
const revisitPenalty = 2

// Systematic plants the base in the player's quarter of the board and then
// marches armies toward the closest enemy base cell, spreading out over
// centers it has already used.
type Systematic struct {
	radius int
	rng    engine.Random
	logger *zap.Logger

	// Jitter adds a random [0, Jitter] to every candidate's score so
	// repeated attempts on the same seed try different lines
	Jitter int

	used map[engine.Position]int
}

var _ Strategy = (*Systematic)(nil)

// NewSystematic creates a strategy using the standard exclusion radius.
// rng may be nil when Jitter stays zero.
func NewSystematic(rng engine.Random, logger *zap.Logger) *Systematic {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Systematic{
		radius: engine.ArmyExclusionRadius,
		rng:    rng,
		logger: logger,
		used:   make(map[engine.Position]int),
	}
}

// Reset forgets the moves made during the previous attempt
func (s *Systematic) Reset() {
	s.used = make(map[engine.Position]int)
}

// BaseMove returns the player's base center: a quarter of the way into the
// board, kept off the border.
func (s *Systematic) BaseMove(state *engine.GameState) engine.Position {
	return BaseCenter(state.Width, state.Height)
}

// BaseCenter returns the interior point a quarter of the way into a board
// of the given size
func BaseCenter(width, height int) engine.Position {
	return engine.Position{
		X: clamp(width/4, 1, width-2),
		Y: clamp(height/4, 1, height-2),
	}
}

// NextMove returns the legal army center with the lowest score, where the
// score is the distance to the nearest enemy base cell plus a penalty for
// earlier moves there. It reports false when the enemy has no base cells
// left or no center is legal.
func (s *Systematic) NextMove(state *engine.GameState) (engine.Position, bool) {
	targets := BaseCells(state.Grid, engine.Computer)
	if len(targets) == 0 {
		return engine.Position{}, false
	}

	best, bestScore, found := engine.Position{}, math.MaxInt, false
	for y := range state.Grid {
		for x := range state.Grid[y] {
			if !LegalArmyCenter(state.Grid, x, y, s.radius) {
				continue
			}
			pos := engine.Position{X: x, Y: y}
			score := nearest(pos, targets) + revisitPenalty*s.used[pos]
			if s.Jitter > 0 && s.rng != nil {
				score += s.rng.IntN(s.Jitter + 1)
			}
			if score < bestScore {
				best, bestScore, found = pos, score, true
			}
		}
	}
	if !found {
		s.logger.Debug("no legal army center", zap.Int("generation", state.Generation))
		return engine.Position{}, false
	}

	s.used[best]++
	s.logger.Debug("army move planned",
		zap.Stringer("position", best),
		zap.Int("score", bestScore))
	return best, true
}

// LegalArmyCenter reports whether an army move centered on (x, y) would be
// accepted on grid: the center must be on the board and no base cell of
// either faction may lie within radius of it.
func LegalArmyCenter(grid [][]engine.CellState, x, y, radius int) bool {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return false
	}
	for yy := max(y-radius, 0); yy <= min(y+radius, len(grid)-1); yy++ {
		row := grid[yy]
		for xx := max(x-radius, 0); xx <= min(x+radius, len(row)-1); xx++ {
			if row[xx].Kind == engine.Base {
				return false
			}
		}
	}
	return true
}

// BaseCells returns the positions of the faction's base cells in row-major order
func BaseCells(grid [][]engine.CellState, faction engine.Faction) []engine.Position {
	var cells []engine.Position
	for y, row := range grid {
		for x, cell := range row {
			if cell.IsBase(faction) {
				cells = append(cells, engine.Position{X: x, Y: y})
			}
		}
	}
	return cells
}

func nearest(pos engine.Position, targets []engine.Position) int {
	best := math.MaxInt
	for _, t := range targets {
		best = min(best, engine.Chebyshev(pos, t))
	}
	return best
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
