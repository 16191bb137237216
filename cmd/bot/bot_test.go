package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/wricardo/artofwar/api"
	"github.com/wricardo/artofwar/game/config"
	"github.com/wricardo/artofwar/game/engine"
	"github.com/wricardo/artofwar/game/service"
	"github.com/wricardo/artofwar/game/session"
	"github.com/wricardo/artofwar/game/strategy"
)

func startServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	small := `{"name": "Small", "width": 30, "height": 30, "max_generations": 30, "seed": 3}`
	if err := os.WriteFile(filepath.Join(dir, "small.json"), []byte(small), 0644); err != nil {
		t.Fatal(err)
	}

	configs, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("config.NewManager failed: %v", err)
	}
	gameService := service.NewGameService(session.NewManager(nil), configs, nil)

	server := httptest.NewServer(api.NewServer(gameService, nil, nil))
	t.Cleanup(server.Close)
	return server
}

func TestClient(t *testing.T) {
	server := startServer(t)
	client := NewClient(server.URL + "/")
	ctx := context.Background()

	info, err := client.CreateSession(ctx, "small")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if client.SessionID() != info.ID || info.ID == "" {
		t.Fatalf("Expected client bound to %q, got %q", info.ID, client.SessionID())
	}

	state, err := client.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if state.Phase != engine.PhaseAwaitingBase {
		t.Errorf("Expected phase %s, got %s", engine.PhaseAwaitingBase, state.Phase)
	}
	if state.Width != 30 || len(state.Grid) != 30 {
		t.Errorf("Expected a 30x30 board, got %dx%d", state.Width, len(state.Grid))
	}

	var apiErr *APIError
	if _, err := client.Step(ctx, 1); !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Errorf("Step before base: expected 409, got %v", err)
	}
	if _, err := client.PlaceBase(ctx, engine.Position{X: 0, Y: 5}); !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Errorf("Border base: expected 400, got %v", err)
	}

	placed, err := client.PlaceBase(ctx, engine.Position{X: 7, Y: 7})
	if err != nil {
		t.Fatalf("PlaceBase failed: %v", err)
	}
	if placed.GameState == nil || placed.GameState.Bases.Player != 4 {
		t.Errorf("Expected 4 player base cells, got %+v", placed.GameState)
	}

	stepped, err := client.Step(ctx, 3)
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if stepped.Executed < 1 {
		t.Errorf("Expected at least one generation, got %d", stepped.Executed)
	}

	reset, err := client.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if reset.Phase != engine.PhaseAwaitingBase || reset.Generation != 1 {
		t.Errorf("Expected a fresh game after reset, got phase %s generation %d", reset.Phase, reset.Generation)
	}

	client.UseSession("deadbeef")
	if _, err := client.GetState(ctx); !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("Unknown session: expected 404, got %v", err)
	}
}

func TestClientErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.UseSession("abc")

	_, err := client.GetState(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected an APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Message != "upstream exploded" {
		t.Errorf("Unexpected error: %+v", apiErr)
	}
}

func TestPlay(t *testing.T) {
	t.Run("plays attempts until a win or the limit", func(t *testing.T) {
		server := startServer(t)
		client := NewClient(server.URL)
		ctx := context.Background()

		if _, err := client.CreateSession(ctx, "small"); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}

		s := strategy.NewSystematic(engine.NewRandom(1), nil)
		s.Jitter = 2
		results, err := Play(ctx, client, s, PlayOptions{Attempts: 2, Rounds: 3, StepsPerRound: 5}, nil)
		if err != nil {
			t.Fatalf("Play failed: %v", err)
		}

		if len(results) < 1 || len(results) > 2 {
			t.Fatalf("Expected 1 or 2 attempts, got %d", len(results))
		}
		if len(results) == 1 && !results[0].Won() {
			t.Error("Expected a second attempt after a first attempt without a win")
		}
		for i, r := range results {
			if r.Attempt != i+1 {
				t.Errorf("Result %d: expected attempt %d, got %d", i, i+1, r.Attempt)
			}
			if r.ArmyMoves > 3 {
				t.Errorf("Result %d: expected at most 3 army moves, got %d", i, r.ArmyMoves)
			}
			if r.Generation < 2 {
				t.Errorf("Result %d: expected the game to advance, got generation %d", i, r.Generation)
			}
		}

		state, err := client.GetState(ctx)
		if err != nil {
			t.Fatalf("GetState failed: %v", err)
		}
		if state.Phase == engine.PhaseAwaitingBase {
			t.Error("Expected the last attempt to have placed a base")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results, err := Play(ctx, NewClient("http://127.0.0.1:0"), strategy.NewSystematic(nil, nil), PlayOptions{Attempts: 3, Rounds: 1, StepsPerRound: 1}, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
		if len(results) != 0 {
			t.Errorf("Expected no results, got %d", len(results))
		}
	})
}
