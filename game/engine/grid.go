package engine

import (
	"github.com/pkg/errors"
)

// Grid holds the double-buffered cell states of a game board. All reads used
// for transitions and placement legality go against current; next is only
// written by Advance and becomes current on Swap.
type Grid struct {
	width   int
	height  int
	current []CellState
	next    []CellState
}

// NewGrid creates a grid with every cell empty
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		width:   width,
		height:  height,
		current: make([]CellState, width*height),
		next:    make([]CellState, width*height),
	}
}

// Width returns the number of columns
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) addresses a cell of the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns the current state of a cell
func (g *Grid) Get(x, y int) (CellState, error) {
	if !g.InBounds(x, y) {
		return CellState{}, errors.Wrapf(ErrOutOfBounds, "get (%d,%d) on %dx%d grid", x, y, g.width, g.height)
	}
	return g.current[g.index(x, y)], nil
}

// Set writes a cell of the current generation
func (g *Grid) Set(x, y int, state CellState) error {
	if !g.InBounds(x, y) {
		return errors.Wrapf(ErrOutOfBounds, "set (%d,%d) on %dx%d grid", x, y, g.width, g.height)
	}
	g.current[g.index(x, y)] = state
	return nil
}

// Swap makes the next generation current. The old current buffer is reused
// as scratch space for the following step.
func (g *Grid) Swap() {
	g.current, g.next = g.next, g.current
}

// Clear empties both buffers
func (g *Grid) Clear() {
	for i := range g.current {
		g.current[i] = CellState{}
		g.next[i] = CellState{}
	}
}

// Count returns how many cells of the current generation equal state
func (g *Grid) Count(state CellState) int {
	count := 0
	for _, c := range g.current {
		if c == state {
			count++
		}
	}
	return count
}

// Population returns the number of non-empty cells
func (g *Grid) Population() int {
	count := 0
	for _, c := range g.current {
		if !c.IsEmpty() {
			count++
		}
	}
	return count
}

// Rows returns a copy of the current generation as rows indexed [y][x]
func (g *Grid) Rows() [][]CellState {
	rows := make([][]CellState, g.height)
	for y := range rows {
		rows[y] = make([]CellState, g.width)
		copy(rows[y], g.current[y*g.width:(y+1)*g.width])
	}
	return rows
}

// String renders the current generation as an ASCII board, one row per line
func (g *Grid) String() string {
	buf := make([]byte, 0, (g.width+1)*g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			buf = append(buf, g.at(x, y).Symbol())
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

func (g *Grid) index(x, y int) int { return y*g.width + x }

// at reads current without bounds checks; callers clamp first
func (g *Grid) at(x, y int) CellState { return g.current[g.index(x, y)] }

func (g *Grid) put(x, y int, state CellState) { g.current[g.index(x, y)] = state }
