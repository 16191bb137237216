package engine

import (
	"github.com/pkg/errors"
)

// CountExcludingSelf counts cells equal to state among the up to eight
// neighbours of (x, y). The cell itself is never counted.
func (g *Grid) CountExcludingSelf(x, y int, state CellState) int {
	count := g.CountWithinRadius(x, y, state, 1)
	if g.InBounds(x, y) && g.at(x, y) == state {
		count--
	}
	return count
}

// CountWithinRadius counts cells equal to state whose Chebyshev distance to
// (x, y) is at most radius, including (x, y) itself. The square is clamped to
// the grid.
func (g *Grid) CountWithinRadius(x, y int, state CellState, radius int) int {
	if radius < 0 {
		return 0
	}
	minX := max(0, x-radius)
	maxX := min(g.width-1, x+radius)
	minY := max(0, y-radius)
	maxY := min(g.height-1, y+radius)

	count := 0
	for ny := minY; ny <= maxY; ny++ {
		row := g.current[ny*g.width : (ny+1)*g.width]
		for nx := minX; nx <= maxX; nx++ {
			if row[nx] == state {
				count++
			}
		}
	}
	return count
}

// HasExactlyOneAdjacentBase reports whether exactly one Base(faction) cell
// lies within radius 1 of (x, y), the cell itself included.
func (g *Grid) HasExactlyOneAdjacentBase(x, y int, faction Faction) bool {
	return g.CountWithinRadius(x, y, BaseOf(faction), 1) == 1
}

// NeighborsAt returns the neighbour counts of an in-bounds cell
func (g *Grid) NeighborsAt(x, y int) (Neighbors, error) {
	if !g.InBounds(x, y) {
		return Neighbors{}, errors.Wrapf(ErrOutOfBounds, "neighbors of (%d,%d)", x, y)
	}
	return g.neighbors(x, y), nil
}

// neighbors gathers everything Transition needs for one cell
func (g *Grid) neighbors(x, y int) Neighbors {
	return Neighbors{
		Army1:         g.CountExcludingSelf(x, y, ArmyOf(Player)),
		Army2:         g.CountExcludingSelf(x, y, ArmyOf(Computer)),
		AdjacentBase1: g.HasExactlyOneAdjacentBase(x, y, Player),
		AdjacentBase2: g.HasExactlyOneAdjacentBase(x, y, Computer),
	}
}

// Chebyshev returns the square-neighbourhood distance between two positions
func Chebyshev(a, b Position) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
