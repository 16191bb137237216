package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/artofwar/game/engine"
	"github.com/wricardo/artofwar/game/service"
)

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080/"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ok":
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "abc12345"})
		case "/echo":
			body, _ := io.ReadAll(r.Body)
			json.NewEncoder(w).Encode(map[string]string{
				"content_type": r.Header.Get("Content-Type"),
				"body":         string(body),
			})
		case "/conflict":
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "player base already placed"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	t.Run("decodes result", func(t *testing.T) {
		var response map[string]interface{}
		if err := client.apiCall(ctx, "GET", "/ok", nil, &response); err != nil {
			t.Fatalf("apiCall failed: %v", err)
		}
		if response["id"] != "abc12345" {
			t.Errorf("Expected id abc12345, got %v", response["id"])
		}
	})

	t.Run("string bodies are sent as text", func(t *testing.T) {
		var response map[string]string
		if err := client.apiCall(ctx, "PUT", "/echo", "1 2 3\n", &response); err != nil {
			t.Fatalf("apiCall failed: %v", err)
		}
		if response["content_type"] != "text/plain" || response["body"] != "1 2 3\n" {
			t.Errorf("Unexpected echo %v", response)
		}
	})

	t.Run("structured API error", func(t *testing.T) {
		err := client.apiCall(ctx, "POST", "/conflict", map[string]int{"x": 1}, nil)
		if err == nil || err.Error() != "player base already placed" {
			t.Errorf("Expected API error message, got %v", err)
		}
	})

	t.Run("plain HTTP error", func(t *testing.T) {
		if err := client.apiCall(ctx, "GET", "/boom", nil, nil); err == nil {
			t.Error("Expected error for HTTP 500 response")
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		unreachable := NewClient("http://127.0.0.1:1")
		if err := unreachable.apiCall(ctx, "GET", "/api", nil, nil); err == nil {
			t.Error("Expected error for unreachable server")
		}
	})
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)

		resp := service.SessionInfo{
			ID:         "test1234",
			ConfigName: body["config_id"],
			Seed:       42,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), callTool("create_session", map[string]interface{}{
		"config_id": "skirmish",
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"test1234", "skirmish", "Seed: 42"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_placeAndStep(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasSuffix(r.URL.Path, "/army"):
			var body map[string]int
			json.NewDecoder(r.Body).Decode(&body)
			if body["x"] != 25 || body["y"] != 30 {
				t.Errorf("Expected army at (25,30), got %v", body)
			}
			json.NewEncoder(w).Encode(service.PlacementResult{
				Player:    engine.Position{X: 25, Y: 30},
				Computer:  engine.Position{X: 3, Y: 7},
				Message:   "Army placed at (25,30), computer answered at (3,7)",
				GameState: &engine.GameState{Bases: engine.FactionCounts{Player: 4, Computer: 4}},
			})
		case strings.HasSuffix(r.URL.Path, "/step"):
			var body map[string]int
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(service.StepBatchResult{
				Requested:     body["count"],
				Executed:      2,
				EndGeneration: 9,
				Outcome:       &engine.Outcome{Winner: engine.Player, Reason: engine.ReasonBaseDestroyed, Generation: 9},
				StoppedReason: service.StopGameOver,
				GameState:     &engine.GameState{Width: 2, Height: 1, Grid: [][]engine.CellState{{engine.BaseOf(engine.Player), engine.EmptyCell()}}},
			})
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	result, err := client.handlePlaceArmy(ctx, callTool("place_army", map[string]interface{}{
		"session_id": "s1", "x": float64(25), "y": float64(30),
	}))
	if err != nil {
		t.Fatalf("place_army failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "computer answered at (3,7)") {
		t.Errorf("Unexpected place_army text: %s", text)
	}

	result, err = client.handleStep(ctx, callTool("step", map[string]interface{}{
		"session_id": "s1", "count": float64(5),
	}))
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	text := resultText(t, result)
	for _, want := range []string{"Advanced 2/5", "VICTORY", "  0 b."} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in step output, got: %s", want, text)
		}
	}

	expected := []string{"POST /api/sessions/s1/army", "POST /api/sessions/s1/step"}
	if strings.Join(paths, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected calls %v, got %v", expected, paths)
	}
}

func TestClient_placeRejectsBadCoordinates(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	result, err := client.handlePlaceBase(context.Background(), callTool("place_base", map[string]interface{}{
		"session_id": "s1", "x": "ten",
	}))
	if err != nil {
		t.Fatalf("Unexpected protocol error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected a tool error for missing coordinates")
	}
}

func TestFormatBoard(t *testing.T) {
	grid := make([][]engine.CellState, 2)
	for y := range grid {
		grid[y] = make([]engine.CellState, 12)
	}
	grid[0][0] = engine.ArmyOf(engine.Player)
	grid[1][11] = engine.BaseOf(engine.Computer)

	board := formatBoard(grid)
	lines := strings.Split(strings.TrimRight(board, "\n"), "\n")
	expected := []string{
		"    0         1 ",
		"    012345678901",
		"  0 a...........",
		"  1 ...........B",
	}
	if len(lines) != len(expected) {
		t.Fatalf("Expected %d lines, got %d:\n%s", len(expected), len(lines), board)
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("line %d: expected %q, got %q", i, expected[i], lines[i])
		}
	}
}

func TestFormatGameState(t *testing.T) {
	state := &engine.GameState{
		Width:      3,
		Height:     1,
		Grid:       [][]engine.CellState{{engine.ArmyOf(engine.Computer), engine.EmptyCell(), engine.BaseOf(engine.Player)}},
		Generation: 14,
		Phase:      engine.PhaseFinished,
		Bases:      engine.FactionCounts{Player: 1},
		Armies:     engine.FactionCounts{Computer: 1},
		Outcome:    &engine.Outcome{Winner: engine.NoFaction, Reason: engine.ReasonGenerationLimit, Generation: 14},
		Message:    "Generation limit reached",
	}

	text := formatGameState(state)
	for _, want := range []string{"Generation: 14", "Your bases: 1", "  0 A.b", "DRAW", "Message: Generation limit reached"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in state, got:\n%s", want, text)
		}
	}

	if formatGameState(nil) != "No game state available" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestFormatOutcome(t *testing.T) {
	tests := []struct {
		outcome *engine.Outcome
		want    string
	}{
		{nil, ""},
		{&engine.Outcome{Winner: engine.Player, Reason: engine.ReasonBaseDestroyed}, "VICTORY"},
		{&engine.Outcome{Winner: engine.Computer, Reason: engine.ReasonBaseDestroyed}, "DEFEAT"},
		{&engine.Outcome{Reason: engine.ReasonGenerationLimit}, "DRAW"},
	}

	for _, tt := range tests {
		got := formatOutcome(tt.outcome)
		if tt.want == "" && got != "" {
			t.Errorf("Expected empty outcome line, got %q", got)
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("Expected %q in %q", tt.want, got)
		}
	}
}

func TestFormatHistoryAndCell(t *testing.T) {
	history := &service.HistoryResponse{
		Moves: []engine.MoveHistoryEntry{
			{Action: engine.ActionBase, Faction: engine.Player, Position: engine.Position{X: 10, Y: 10}, MoveNumber: 1},
			{Action: engine.ActionBase, Faction: engine.Computer, Position: engine.Position{X: 40, Y: 33}, MoveNumber: 2},
		},
		TotalMoves: 2,
		Page:       1,
		TotalPages: 1,
	}
	text := formatHistory(history)
	if !strings.Contains(text, "2. computer "+engine.ActionBase+" at (40,33)") {
		t.Errorf("Unexpected history:\n%s", text)
	}

	cell := formatCellInfo(&service.CellInfo{
		X: 10, Y: 9, State: engine.BaseOf(engine.Player), Symbol: "b", Code: 3,
		Army1: 3, Next: engine.BaseOf(engine.Player),
	})
	for _, want := range []string{"Cell (10, 9): base1", "3 of your armies", "Legal army center: false"} {
		if !strings.Contains(cell, want) {
			t.Errorf("Expected %q in cell description, got:\n%s", want, cell)
		}
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callTool("game_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	expectedContent := []string{
		"Art of War - Rules",
		"OBJECTIVE:",
		"BOARD LEGEND:",
		"SETUP:",
		"EACH GENERATION",
		"END OF GAME:",
		"within 15 cells",
	}

	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions, got: %s", content, text)
		}
	}
}

func TestClient_listSessions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": 1,
			"sessions": []service.SessionInfo{{
				ID:         "abcd1234",
				ConfigName: "classic",
				CreatedAt:  time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
				GameState:  &engine.GameState{Phase: engine.PhaseInProgress, Generation: 17},
			}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleListSessions(context.Background(), callTool("list_sessions", nil))
	if err != nil {
		t.Fatalf("list_sessions failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "abcd1234 (Config: classic, Phase: in_progress, Generation: 17") {
		t.Errorf("Unexpected session listing: %s", text)
	}
}
