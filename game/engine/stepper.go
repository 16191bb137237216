package engine

import (
	"golang.org/x/sync/errgroup"
)

// Advance computes the next generation of grid from its current snapshot and
// swaps it in. Rows are split across up to workers goroutines; every worker
// reads only the current buffer and writes only its own rows of next, so the
// result does not depend on the worker count.
//
// The returned counts are the Base cells of the pre-step snapshot. The
// outcome is non-nil when either faction had no base cell left; its
// Generation field is left for the caller to fill.
func Advance(grid *Grid, workers int) (FactionCounts, *Outcome) {
	var (
		eg            errgroup.Group
		height        = grid.Height()
		numWorkers    = min(max(workers, 1), max(height, 1))
		rowsPerWorker = (height + numWorkers - 1) / numWorkers
		counts        = make([]FactionCounts, numWorkers)
	)

	for i := range numWorkers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, height)
		)
		if startRow >= height {
			break
		}

		eg.Go(func() error {
			counts[i] = grid.stepRows(startRow, endRow)
			return nil
		})
	}
	// workers never fail
	_ = eg.Wait()

	var bases FactionCounts
	for _, c := range counts {
		bases.Player += c.Player
		bases.Computer += c.Computer
	}

	grid.Swap()

	if winner, over := Winner(bases); over {
		return bases, &Outcome{Winner: winner, Reason: ReasonBaseDestroyed}
	}
	return bases, nil
}

// stepRows writes next for rows [startRow, endRow) and counts the base cells
// it saw in current
func (g *Grid) stepRows(startRow, endRow int) FactionCounts {
	var bases FactionCounts
	for y := startRow; y < endRow; y++ {
		for x := 0; x < g.width; x++ {
			cell := g.at(x, y)
			switch {
			case cell.IsBase(Player):
				bases.Player++
			case cell.IsBase(Computer):
				bases.Computer++
			}
			g.next[g.index(x, y)] = Transition(cell, g.neighbors(x, y))
		}
	}
	return bases
}
