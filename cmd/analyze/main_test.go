package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/artofwar/game/engine"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// Two complete base blocks: player centered on (5,5), computer on (24,24)
const twoBases = `{
	"name": "Two Bases",
	"width": 30,
	"height": 30,
	"max_generations": 20,
	"cells": [
		{"x": 4, "y": 4, "state": 1}, {"x": 5, "y": 4, "state": 3}, {"x": 6, "y": 4, "state": 1},
		{"x": 4, "y": 5, "state": 3}, {"x": 5, "y": 5, "state": 1}, {"x": 6, "y": 5, "state": 3},
		{"x": 4, "y": 6, "state": 1}, {"x": 5, "y": 6, "state": 3}, {"x": 6, "y": 6, "state": 1},
		{"x": 23, "y": 23, "state": 2}, {"x": 24, "y": 23, "state": 4}, {"x": 25, "y": 23, "state": 2},
		{"x": 23, "y": 24, "state": 4}, {"x": 24, "y": 24, "state": 2}, {"x": 25, "y": 24, "state": 4},
		{"x": 23, "y": 25, "state": 2}, {"x": 24, "y": 25, "state": 4}, {"x": 25, "y": 25, "state": 2}
	]
}`

func TestBaseCenters(t *testing.T) {
	cfg := &engine.GameConfig{
		Name:   "t",
		Width:  10,
		Height: 10,
		Cells: []engine.CellPlacement{
			{X: 3, Y: 2, State: engine.BaseOf(engine.Player)},
			{X: 2, Y: 3, State: engine.BaseOf(engine.Player)},
			{X: 4, Y: 3, State: engine.BaseOf(engine.Player)},
			{X: 3, Y: 4, State: engine.BaseOf(engine.Player)},
			// Three sides only
			{X: 7, Y: 6, State: engine.BaseOf(engine.Computer)},
			{X: 6, Y: 7, State: engine.BaseOf(engine.Computer)},
			{X: 8, Y: 7, State: engine.BaseOf(engine.Computer)},
		},
	}

	centers := baseCenters(cfg)
	if got := centers[engine.Player]; len(got) != 1 || got[0] != (engine.Position{X: 3, Y: 3}) {
		t.Errorf("Expected one player block at (3,3), got %v", got)
	}
	if got := centers[engine.Computer]; len(got) != 0 {
		t.Errorf("Expected no complete computer block, got %v", got)
	}
}

func TestAnalyzeConfig(t *testing.T) {
	t.Run("preloaded bases", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "two.json", twoBases)

		a, err := analyzeConfig(context.Background(), path, 10)
		if err != nil {
			t.Fatalf("analyzeConfig failed: %v", err)
		}
		if a.File != "two.json" {
			t.Errorf("Expected file two.json, got %s", a.File)
		}
		if a.Summary.Cells != 18 || a.Summary.Bases.Player != 4 || a.Summary.Bases.Computer != 4 {
			t.Errorf("Unexpected summary: %+v", a.Summary)
		}
		if got := a.BaseCenters[engine.Computer]; len(got) != 1 || got[0] != (engine.Position{X: 24, Y: 24}) {
			t.Errorf("Expected the computer block at (24,24), got %v", got)
		}
		if a.Projection.ArmyMoves != 0 {
			t.Errorf("Expected an idle projection, got %d army moves", a.Projection.ArmyMoves)
		}
		if a.Projection.Rounds > 10 {
			t.Errorf("Expected at most 10 generations, got %d", a.Projection.Rounds)
		}
	})

	t.Run("empty board gets a placed base", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "empty.yaml", "name: Empty\nwidth: 40\nheight: 40\n")

		a, err := analyzeConfig(context.Background(), path, 3)
		if err != nil {
			t.Fatalf("analyzeConfig failed: %v", err)
		}
		if a.Projection.Base != (engine.Position{X: 10, Y: 10}) {
			t.Errorf("Expected the base at (10,10), got %s", a.Projection.Base)
		}
		if a.Population == 0 {
			t.Error("Expected a populated board after placing bases")
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "bad.json", `{"name": "bad", "width": 2, "height": 2}`)
		if _, err := analyzeConfig(context.Background(), path, 3); err == nil {
			t.Error("Expected an error for an invalid config")
		}
	})
}

func TestPrintAnalysis(t *testing.T) {
	path := writeFile(t, t.TempDir(), "two.json", twoBases)
	a, err := analyzeConfig(context.Background(), path, 5)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	printAnalysis(&out, a, 5)
	text := out.String()

	for _, want := range []string{
		"Name: Two Bases",
		"Board: 30 x 30",
		"Generation limit: 20",
		"player armies 5, bases 4",
		"Complete player base blocks: [(5,5)]",
		"Complete computer base blocks: [(24,24)]",
		"from the preloaded bases",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "two.json", twoBases)
	writeFile(t, dir, "broken.json", `{"name": ""}`)

	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out
	if err := cmd.Run(context.Background(), []string{"analyze", "--config-dir", dir, "--generations", "2"}); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "=== Analyzing broken.json ===") || !strings.Contains(text, "Error:") {
		t.Errorf("Expected the broken config to be reported:\n%s", text)
	}
	if !strings.Contains(text, "=== Analyzing two.json ===") {
		t.Errorf("Expected two.json to be analyzed:\n%s", text)
	}
	if strings.Index(text, "broken.json") > strings.Index(text, "two.json") {
		t.Error("Expected configs in name order")
	}
}
