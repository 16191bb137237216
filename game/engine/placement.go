package engine

import (
	"github.com/pkg/errors"
)

// Placer enforces placement legality and plants base and army blocks on a grid
type Placer struct {
	grid *Grid
	rng  Random

	MinSeparation   int
	ExclusionRadius int
	MaxAttempts     int
}

// NewPlacer creates a placer with the standard rule constants
func NewPlacer(grid *Grid, rng Random) *Placer {
	return &Placer{
		grid:            grid,
		rng:             rng,
		MinSeparation:   MinBaseSeparation,
		ExclusionRadius: ArmyExclusionRadius,
		MaxAttempts:     MaxBaseAttempts,
	}
}

// ValidateBaseCenter rejects centers on the outer border of the grid
func (p *Placer) ValidateBaseCenter(x, y int) error {
	w, h := p.grid.Width(), p.grid.Height()
	if !p.grid.InBounds(x, y) {
		return errors.Wrapf(ErrIllegalPlacement, "base center (%d,%d) is outside the grid", x, y)
	}
	if x == 0 || y == 0 || x == w-1 || y == h-1 {
		return errors.Wrapf(ErrIllegalPlacement, "base center (%d,%d) is on the border", x, y)
	}
	return nil
}

// PlantBaseBlock writes the 3x3 base pattern around (cx, cy): the four cells
// orthogonally adjacent to the center become Base(faction), the center and the
// four corners become Army(faction).
func (p *Placer) PlantBaseBlock(cx, cy int, faction Faction) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := cx+dx, cy+dy
			if !p.grid.InBounds(x, y) {
				continue
			}
			if (dx == 0) != (dy == 0) {
				p.grid.put(x, y, BaseOf(faction))
			} else {
				p.grid.put(x, y, ArmyOf(faction))
			}
		}
	}
}

// PlaceComputerBase samples interior centers until one has no player base
// cell within MinSeparation, then plants the computer base there. After
// MaxAttempts rejected draws it falls back to a deterministic search; the
// second return value reports whether that happened.
func (p *Placer) PlaceComputerBase() (Position, bool) {
	w, h := p.grid.Width(), p.grid.Height()
	playerBase := BaseOf(Player)

	var candidate Position
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		candidate = Position{
			X: intBetween(p.rng, 1, w-2),
			Y: intBetween(p.rng, 1, h-2),
		}
		if p.grid.CountWithinRadius(candidate.X, candidate.Y, playerBase, p.MinSeparation) == 0 {
			p.PlantBaseBlock(candidate.X, candidate.Y, Computer)
			return candidate, false
		}
	}

	center := p.fallbackBaseCenter(candidate)
	p.PlantBaseBlock(center.X, center.Y, Computer)
	return center, true
}

// fallbackBaseCenter picks the interior center with the fewest player base
// cells inside the separation radius, preferring the one closest to origin,
// then the lowest row, then the lowest column. A legal center always wins
// when one exists.
func (p *Placer) fallbackBaseCenter(origin Position) Position {
	w, h := p.grid.Width(), p.grid.Height()
	playerBase := BaseOf(Player)

	best := Position{X: min(1, w-1), Y: min(1, h-1)}
	bestCount, bestDist := -1, 0
	for y := 1; y <= h-2; y++ {
		for x := 1; x <= w-2; x++ {
			pos := Position{X: x, Y: y}
			count := p.grid.CountWithinRadius(x, y, playerBase, p.MinSeparation)
			dist := Chebyshev(origin, pos)
			if bestCount == -1 || count < bestCount || (count == bestCount && dist < bestDist) {
				best, bestCount, bestDist = pos, count, dist
			}
		}
	}
	return best
}

// ValidateArmyMove rejects moves within ExclusionRadius of any base cell
func (p *Placer) ValidateArmyMove(x, y int) error {
	if !p.grid.InBounds(x, y) {
		return errors.Wrapf(ErrIllegalPlacement, "army move (%d,%d) is outside the grid", x, y)
	}
	for _, f := range []Faction{Player, Computer} {
		if n := p.grid.CountWithinRadius(x, y, BaseOf(f), p.ExclusionRadius); n != 0 {
			return errors.Wrapf(ErrIllegalPlacement, "army move (%d,%d) is within %d cells of a %s base",
				x, y, p.ExclusionRadius, f)
		}
	}
	return nil
}

// PlaceArmyMove plants the player's 3x3 army block centered on (x, y) and
// mirrors it with a computer block at a random top-left corner. The computer
// block is not checked against the base exclusion radius. It returns the
// top-left corners of both blocks.
func (p *Placer) PlaceArmyMove(x, y int) (Position, Position, error) {
	if err := p.ValidateArmyMove(x, y); err != nil {
		return Position{}, Position{}, err
	}
	playerCorner := p.PlantArmyBlock(x-1, y-1, Player)

	w, h := p.grid.Width(), p.grid.Height()
	computerCorner := p.PlantArmyBlock(intBetween(p.rng, 0, w-2), intBetween(p.rng, 0, h-2), Computer)
	return playerCorner, computerCorner, nil
}

// PlantArmyBlock fills a 3x3 block of Army(faction) with its top-left corner
// at (startX, startY), clamped to the grid. It returns the clamped corner.
func (p *Placer) PlantArmyBlock(startX, startY int, faction Faction) Position {
	startX, startY = max(startX, 0), max(startY, 0)
	endX := min(startX+BlockSize, p.grid.Width())
	endY := min(startY+BlockSize, p.grid.Height())
	for y := startY; y < endY; y++ {
		for x := startX; x < endX; x++ {
			p.grid.put(x, y, ArmyOf(faction))
		}
	}
	return Position{X: startX, Y: startY}
}
