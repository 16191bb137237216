package engine

// Neighbors carries the neighbour counts a cell transition depends on.
// Army counts exclude the cell itself; the adjacent-base flags follow
// HasExactlyOneAdjacentBase.
type Neighbors struct {
	Army1         int
	Army2         int
	AdjacentBase1 bool
	AdjacentBase2 bool
}

// Army returns the army neighbour count of faction f
func (n Neighbors) Army(f Faction) int {
	if f == Player {
		return n.Army1
	}
	return n.Army2
}

/*
Transition applies the Art of War rules to one cell.

Army cells starve with two or fewer friendly neighbours, die of overcrowding
with six or more, and are overwhelmed by more than two enemy neighbours. Base
cells only fall to three or more enemy army neighbours. Empty cells are born
into faction 1 first, then faction 2: three friendly army neighbours, or a
single adjacent friendly base with no enemy army around.
*/
func Transition(cell CellState, n Neighbors) CellState {
	switch cell.Kind {
	case Army:
		own := n.Army(cell.Faction)
		enemy := n.Army(cell.Faction.Opponent())
		if own <= 2 || own >= 6 {
			return EmptyCell()
		}
		if enemy > 2 {
			return EmptyCell()
		}
		return cell

	case Base:
		if n.Army(cell.Faction.Opponent()) >= 3 {
			return EmptyCell()
		}
		return cell
	}

	if n.Army1 == 3 || (n.AdjacentBase1 && n.Army2 == 0) {
		return ArmyOf(Player)
	}
	if n.Army2 == 3 || (n.AdjacentBase2 && n.Army1 == 0) {
		return ArmyOf(Computer)
	}
	return EmptyCell()
}

// Winner applies the win check to the base counts of a pre-step snapshot.
// Faction 1 is checked first, so a board without any base goes to faction 2.
func Winner(bases FactionCounts) (Faction, bool) {
	if bases.Player == 0 {
		return Computer, true
	}
	if bases.Computer == 0 {
		return Player, true
	}
	return NoFaction, false
}
