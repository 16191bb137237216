package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/artofwar/game/engine"
	"github.com/wricardo/artofwar/game/service"
)

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nSeed: %d\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Seed,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatOutcome(outcome *engine.Outcome) string {
	switch {
	case outcome == nil:
		return ""
	case outcome.Reason == engine.ReasonGenerationLimit:
		return fmt.Sprintf("⏱ DRAW: generation limit reached at generation %d", outcome.Generation)
	case outcome.Winner == engine.Player:
		return fmt.Sprintf("🎉 VICTORY! Enemy bases destroyed at generation %d", outcome.Generation)
	default:
		return fmt.Sprintf("💀 DEFEAT: your bases fell at generation %d", outcome.Generation)
	}
}

// formatBoard renders the grid with a column ruler every 10 cells and row
// numbers on the left.
func formatBoard(grid [][]engine.CellState) string {
	if len(grid) == 0 {
		return ""
	}
	width := len(grid[0])

	var b strings.Builder
	b.WriteString("    ")
	for x := 0; x < width; x++ {
		if x%10 == 0 {
			b.WriteByte(byte('0' + (x/10)%10))
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString("\n    ")
	for x := 0; x < width; x++ {
		b.WriteByte(byte('0' + x%10))
	}
	b.WriteByte('\n')

	for y, row := range grid {
		fmt.Fprintf(&b, "%3d ", y)
		for _, cell := range row {
			b.WriteByte(cell.Symbol())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Generation: %d | Phase: %s | Board: %dx%d\n",
		state.Generation, state.Phase, state.Width, state.Height)
	fmt.Fprintf(&result, "Your bases: %d, armies: %d | Computer bases: %d, armies: %d\n\n",
		state.Bases.Player, state.Armies.Player, state.Bases.Computer, state.Armies.Computer)

	result.WriteString(formatBoard(state.Grid))

	if line := formatOutcome(state.Outcome); line != "" {
		result.WriteString("\n" + line)
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}

	return result.String()
}

func formatPlacementResult(result *service.PlacementResult) string {
	var b strings.Builder
	b.WriteString(result.Message)
	if result.Fallback {
		b.WriteString("\nNote: the computer could not find a base position far enough away and used the best available spot.")
	}
	for _, event := range result.Events {
		fmt.Fprintf(&b, "\n- %s", event.Message)
	}
	if result.GameState != nil {
		fmt.Fprintf(&b, "\n\nBases: you %d, computer %d | Armies: you %d, computer %d",
			result.GameState.Bases.Player, result.GameState.Bases.Computer,
			result.GameState.Armies.Player, result.GameState.Armies.Computer)
	}
	return b.String()
}

func formatStepResult(result *service.StepBatchResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Advanced %d/%d generation(s): %d -> %d\n",
		result.Executed, result.Requested, result.StartGeneration, result.EndGeneration)
	if result.Truncated {
		fmt.Fprintf(&b, "Request capped at %d generations per call\n", result.Limit)
	}
	fmt.Fprintf(&b, "Population: %d -> %d\n", result.PopulationBefore, result.PopulationAfter)

	if result.StoppedReason == service.StopCancelled {
		b.WriteString("Stopped early: request cancelled\n")
	}
	if line := formatOutcome(result.Outcome); line != "" {
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Placement History (Page %d/%d), Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		fmt.Fprintf(&b, "%d. %s %s at %s (generation %d)\n",
			move.MoveNumber, move.Faction, move.Action, move.Position, move.Generation)
	}

	return b.String()
}

func formatCellInfo(cell *service.CellInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Cell (%d, %d): %s [%s, code %d]\n", cell.X, cell.Y, cell.State, cell.Symbol, cell.Code)
	fmt.Fprintf(&b, "Neighbours: %d of your armies, %d computer armies\n", cell.Army1, cell.Army2)
	fmt.Fprintf(&b, "Next to exactly one of your bases: %v, one computer base: %v\n", cell.AdjacentBase1, cell.AdjacentBase2)
	fmt.Fprintf(&b, "Next generation: %s\n", cell.Next)
	fmt.Fprintf(&b, "Legal base center: %v | Legal army center: %v", cell.BaseLegal, cell.ArmyLegal)

	return b.String()
}
