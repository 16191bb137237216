package engine

import (
	"encoding/json"
	"testing"
)

func TestCellState_Codes(t *testing.T) {
	tests := []struct {
		state CellState
		code  int
		name  string
	}{
		{EmptyCell(), 0, "empty"},
		{ArmyOf(Player), 1, "army1"},
		{ArmyOf(Computer), 2, "army2"},
		{BaseOf(Player), 3, "base1"},
		{BaseOf(Computer), 4, "base2"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.state.Code(); got != test.code {
				t.Errorf("Expected code %d, got %d", test.code, got)
			}
			if got := test.state.String(); got != test.name {
				t.Errorf("Expected name %s, got %s", test.name, got)
			}
			back, err := CellStateFromCode(test.code)
			if err != nil {
				t.Fatalf("CellStateFromCode(%d) failed: %v", test.code, err)
			}
			if back != test.state {
				t.Errorf("Expected %v from code %d, got %v", test.state, test.code, back)
			}
		})
	}

	if _, err := CellStateFromCode(5); err == nil {
		t.Error("Expected error for unknown code 5")
	}
}

func TestCellState_Valid(t *testing.T) {
	if !EmptyCell().Valid() {
		t.Error("Empty cell should be valid")
	}
	if (CellState{Kind: Empty, Faction: Player}).Valid() {
		t.Error("Empty cell with a faction should be invalid")
	}
	if (CellState{Kind: Base, Faction: 3}).Valid() {
		t.Error("Base of unknown faction should be invalid")
	}
	if (CellState{Kind: 7, Faction: Player}).Valid() {
		t.Error("Unknown kind should be invalid")
	}
}

func TestCellState_TextForms(t *testing.T) {
	var grid [][]CellState
	if err := json.Unmarshal([]byte(`[["empty","army1","4"],["base1","army2","0"]]`), &grid); err != nil {
		t.Fatalf("Failed to unmarshal grid: %v", err)
	}

	expected := [][]CellState{
		{EmptyCell(), ArmyOf(Player), BaseOf(Computer)},
		{BaseOf(Player), ArmyOf(Computer), EmptyCell()},
	}
	for y := range expected {
		for x := range expected[y] {
			if grid[y][x] != expected[y][x] {
				t.Errorf("cell (%d,%d): expected %v, got %v", x, y, expected[y][x], grid[y][x])
			}
		}
	}

	data, err := json.Marshal(CellPlacement{X: 2, Y: 3, State: BaseOf(Player)})
	if err != nil {
		t.Fatalf("Failed to marshal placement: %v", err)
	}
	if string(data) != `{"x":2,"y":3,"state":"base1"}` {
		t.Errorf("Unexpected placement JSON: %s", data)
	}

	var numeric CellPlacement
	if err := json.Unmarshal([]byte(`{"x":1,"y":1,"state":2}`), &numeric); err != nil {
		t.Fatalf("Failed to unmarshal numeric state: %v", err)
	}
	if numeric.State != ArmyOf(Computer) {
		t.Errorf("Expected army2 from code 2, got %v", numeric.State)
	}

	var bad CellState
	if err := json.Unmarshal([]byte(`7`), &bad); err == nil {
		t.Error("Expected error for unknown state code")
	}
	if err := bad.UnmarshalText([]byte("castle")); err == nil {
		t.Error("Expected error for unknown state name")
	}
}

func TestFaction_Opponent(t *testing.T) {
	if Player.Opponent() != Computer || Computer.Opponent() != Player {
		t.Error("Player and Computer should be opponents")
	}
	if NoFaction.Opponent() != NoFaction {
		t.Error("NoFaction has no opponent")
	}
}
