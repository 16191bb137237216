package engine

import (
	"testing"
)

func randomGrid(width, height int, seed int64) *Grid {
	grid := NewGrid(width, height)
	rng := NewRandom(seed)
	states := []CellState{EmptyCell(), EmptyCell(), ArmyOf(Player), ArmyOf(Computer), BaseOf(Player), BaseOf(Computer)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grid.put(x, y, states[rng.IntN(len(states))])
		}
	}
	return grid
}

func TestAdvance_EmptyGridStaysEmpty(t *testing.T) {
	grid := NewGrid(10, 10)
	bases, outcome := Advance(grid, 4)

	if grid.Population() != 0 {
		t.Errorf("Expected empty grid to stay empty, got\n%s", grid)
	}
	if bases != (FactionCounts{}) {
		t.Errorf("Expected no bases, got %+v", bases)
	}
	if outcome == nil || outcome.Winner != Computer || outcome.Reason != ReasonBaseDestroyed {
		t.Errorf("Expected faction 2 to win an empty board, got %+v", outcome)
	}
}

func TestAdvance_WorkerCountDoesNotChangeResult(t *testing.T) {
	for _, workers := range []int{0, 2, 3, 7, 64} {
		single := randomGrid(37, 23, 7)
		sharded := randomGrid(37, 23, 7)

		for gen := 0; gen < 5; gen++ {
			b1, o1 := Advance(single, 1)
			b2, o2 := Advance(sharded, workers)
			if b1 != b2 {
				t.Fatalf("workers=%d gen=%d: base counts differ %+v vs %+v", workers, gen, b1, b2)
			}
			if (o1 == nil) != (o2 == nil) {
				t.Fatalf("workers=%d gen=%d: outcomes differ", workers, gen)
			}
			if single.String() != sharded.String() {
				t.Fatalf("workers=%d gen=%d: grids differ", workers, gen)
			}
		}
	}
}

func TestAdvance_ReadsOnlyTheSnapshot(t *testing.T) {
	// a horizontal line of three army1 cells: every cell has too few
	// friendly neighbours, while the cells above and below the middle are
	// born from exactly three
	grid := NewGrid(5, 5)
	grid.put(1, 2, ArmyOf(Player))
	grid.put(2, 2, ArmyOf(Player))
	grid.put(3, 2, ArmyOf(Player))
	grid.put(0, 0, BaseOf(Player))
	grid.put(4, 4, BaseOf(Computer))

	Advance(grid, 2)

	for _, pos := range []Position{{1, 2}, {2, 2}, {3, 2}} {
		if !grid.at(pos.X, pos.Y).IsEmpty() {
			t.Errorf("%s: expected army to starve", pos)
		}
	}
	for _, pos := range []Position{{2, 1}, {2, 3}} {
		if grid.at(pos.X, pos.Y) != ArmyOf(Player) {
			t.Errorf("%s: expected army1 birth", pos)
		}
	}
}

func TestAdvance_BaseFallsToThreeEnemies(t *testing.T) {
	build := func(enemies int) *Grid {
		grid := NewGrid(10, 10)
		grid.put(5, 5, BaseOf(Player))
		grid.put(9, 9, BaseOf(Computer))
		around := []Position{{4, 4}, {5, 4}, {6, 4}}
		for _, pos := range around[:enemies] {
			grid.put(pos.X, pos.Y, ArmyOf(Computer))
		}
		return grid
	}

	survivor := build(2)
	if _, outcome := Advance(survivor, 1); outcome != nil {
		t.Fatalf("Expected no outcome, got %+v", outcome)
	}
	if survivor.at(5, 5) != BaseOf(Player) {
		t.Error("Base1 with two enemy neighbours should survive")
	}

	fallen := build(3)
	bases, outcome := Advance(fallen, 1)
	if outcome != nil {
		t.Fatalf("Win check uses the pre-step snapshot, got %+v", outcome)
	}
	if bases.Player != 1 {
		t.Errorf("Expected pre-step player base count 1, got %d", bases.Player)
	}
	if !fallen.at(5, 5).IsEmpty() {
		t.Error("Base1 with three enemy neighbours should fall")
	}

	_, outcome = Advance(fallen, 1)
	if outcome == nil || outcome.Winner != Computer {
		t.Errorf("Expected faction 2 to win once base1 is gone, got %+v", outcome)
	}
}

func TestAdvance_PlayerWins(t *testing.T) {
	grid := NewGrid(8, 8)
	grid.put(3, 3, BaseOf(Player))

	_, outcome := Advance(grid, 1)
	if outcome == nil || outcome.Winner != Player {
		t.Errorf("Expected faction 1 to win with only base1 cells, got %+v", outcome)
	}
}
