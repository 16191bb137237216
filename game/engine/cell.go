package engine

import (
	"strconv"

	"github.com/pkg/errors"
)

// CellKind is the tag of a CellState
type CellKind uint8

const (
	Empty CellKind = iota
	Army
	Base
)

// CellState is the content of one grid cell. The zero value is an empty cell.
// Faction is NoFaction exactly when Kind is Empty.
type CellState struct {
	Kind    CellKind
	Faction Faction
}

// EmptyCell returns the empty state
func EmptyCell() CellState { return CellState{} }

// ArmyOf returns an army cell owned by f
func ArmyOf(f Faction) CellState { return CellState{Kind: Army, Faction: f} }

// BaseOf returns a base cell owned by f
func BaseOf(f Faction) CellState { return CellState{Kind: Base, Faction: f} }

// IsEmpty reports whether the cell is empty
func (c CellState) IsEmpty() bool { return c.Kind == Empty }

// IsArmy reports whether the cell is an army cell of faction f
func (c CellState) IsArmy(f Faction) bool { return c.Kind == Army && c.Faction == f }

// IsBase reports whether the cell is a base cell of faction f
func (c CellState) IsBase(f Faction) bool { return c.Kind == Base && c.Faction == f }

// Valid reports whether the state is one of the five defined states
func (c CellState) Valid() bool {
	switch c.Kind {
	case Empty:
		return c.Faction == NoFaction
	case Army, Base:
		return c.Faction.Valid()
	}
	return false
}

// Code returns the numeric code used by the "x y state" text format:
// 0 empty, 1/2 army of faction 1/2, 3/4 base of faction 1/2.
func (c CellState) Code() int {
	switch c.Kind {
	case Army:
		return int(c.Faction)
	case Base:
		return int(c.Faction) + 2
	}
	return 0
}

// CellStateFromCode is the inverse of Code
func CellStateFromCode(code int) (CellState, error) {
	switch code {
	case 0:
		return EmptyCell(), nil
	case 1, 2:
		return ArmyOf(Faction(code)), nil
	case 3, 4:
		return BaseOf(Faction(code - 2)), nil
	}
	return CellState{}, errors.Errorf("unknown cell state code %d", code)
}

func (c CellState) String() string {
	switch {
	case c.IsArmy(Player):
		return "army1"
	case c.IsArmy(Computer):
		return "army2"
	case c.IsBase(Player):
		return "base1"
	case c.IsBase(Computer):
		return "base2"
	}
	return "empty"
}

// Symbol returns the single character used in ASCII boards
func (c CellState) Symbol() byte {
	switch {
	case c.IsArmy(Player):
		return 'a'
	case c.IsArmy(Computer):
		return 'A'
	case c.IsBase(Player):
		return 'b'
	case c.IsBase(Computer):
		return 'B'
	}
	return '.'
}

// MarshalText implements encoding.TextMarshaler
func (c CellState) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts both the names produced by String and numeric codes
func (c *CellState) UnmarshalText(text []byte) error {
	s := string(text)
	switch s {
	case "empty", "":
		*c = EmptyCell()
	case "army1":
		*c = ArmyOf(Player)
	case "army2":
		*c = ArmyOf(Computer)
	case "base1":
		*c = BaseOf(Player)
	case "base2":
		*c = BaseOf(Computer)
	default:
		code, err := strconv.Atoi(s)
		if err != nil {
			return errors.Errorf("unknown cell state %q", s)
		}
		state, err := CellStateFromCode(code)
		if err != nil {
			return err
		}
		*c = state
	}
	return nil
}

// UnmarshalJSON accepts bare numeric codes as well as quoted names, so
// {"state": 3} and {"state": "base1"} decode to the same cell.
func (c *CellState) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if s, err := strconv.Unquote(string(data)); err == nil {
		return c.UnmarshalText([]byte(s))
	}
	return c.UnmarshalText(data)
}
