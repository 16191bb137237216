// Command analyze prints quick, human-readable heuristics about the
// configuration files in a configs directory. It summarizes board size and
// preloaded cells, finds complete base blocks, and projects each board
// forward with no army moves to show whether the bases survive on their own.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/artofwar/game/config"
	"github.com/wricardo/artofwar/game/engine"
	"github.com/wricardo/artofwar/game/layout"
	"github.com/wricardo/artofwar/game/strategy"
)

// projectionSeed seeds computer placements for configs without a seed, so
// repeated runs print the same projection
const projectionSeed = 1

// Analysis is the result of analyzing one config file
type Analysis struct {
	File        string
	Config      *engine.GameConfig
	Summary     layout.Summary
	BaseCenters map[engine.Faction][]engine.Position

	Projection *strategy.Report
	Population int
}

// idle places the base like the systematic strategy and never moves an army
type idle struct{}

func (idle) BaseMove(state *engine.GameState) engine.Position {
	return strategy.BaseCenter(state.Width, state.Height)
}

func (idle) NextMove(*engine.GameState) (engine.Position, bool) { return engine.Position{}, false }

func (idle) Reset() {}

// analyzeConfig reads path and projects it generations forward
func analyzeConfig(ctx context.Context, path string, generations int) (*Analysis, error) {
	cfg, err := config.ReadFile(path)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		File:        filepath.Base(path),
		Config:      cfg,
		Summary:     layout.Summarize(cfg.Cells),
		BaseCenters: baseCenters(cfg),
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = projectionSeed
	}
	game, err := engine.NewGame(cfg, engine.NewRandom(seed))
	if err != nil {
		return nil, err
	}
	a.Projection, err = strategy.Run(ctx, game, idle{}, strategy.Options{Rounds: generations, StepsPerRound: 1}, nil)
	if err != nil {
		return nil, err
	}
	a.Population = game.Grid().Population()

	return a, nil
}

// baseCenters finds complete base blocks among the preloaded cells: centers
// whose four orthogonal neighbours are base cells of one faction
func baseCenters(cfg *engine.GameConfig) map[engine.Faction][]engine.Position {
	grid := engine.NewGrid(cfg.Width, cfg.Height)
	for _, c := range cfg.Cells {
		grid.Set(c.X, c.Y, c.State)
	}

	centers := make(map[engine.Faction][]engine.Position)
	for y := 1; y < cfg.Height-1; y++ {
		for x := 1; x < cfg.Width-1; x++ {
			for _, f := range []engine.Faction{engine.Player, engine.Computer} {
				base := engine.BaseOf(f)
				if isBase(grid, x-1, y, base) && isBase(grid, x+1, y, base) &&
					isBase(grid, x, y-1, base) && isBase(grid, x, y+1, base) {
					centers[f] = append(centers[f], engine.Position{X: x, Y: y})
				}
			}
		}
	}
	return centers
}

func isBase(grid *engine.Grid, x, y int, base engine.CellState) bool {
	cell, err := grid.Get(x, y)
	return err == nil && cell == base
}

func printAnalysis(w io.Writer, a *Analysis, generations int) {
	cfg := a.Config
	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	fmt.Fprintf(w, "Board: %d x %d\n", cfg.Width, cfg.Height)
	if cfg.MaxGenerations > 0 {
		fmt.Fprintf(w, "Generation limit: %d\n", cfg.MaxGenerations)
	}
	fmt.Fprintf(w, "Preloaded cells: %d (player armies %d, bases %d | computer armies %d, bases %d)\n",
		a.Summary.Cells, a.Summary.Armies.Player, a.Summary.Bases.Player, a.Summary.Armies.Computer, a.Summary.Bases.Computer)

	for _, f := range []engine.Faction{engine.Player, engine.Computer} {
		if centers := a.BaseCenters[f]; len(centers) > 0 {
			fmt.Fprintf(w, "Complete %s base blocks: %v\n", f, centers)
		}
	}

	p := a.Projection
	if a.Summary.Bases.Player > 0 {
		fmt.Fprintf(w, "Idle projection (%d generations) from the preloaded bases\n", generations)
	} else {
		fmt.Fprintf(w, "Idle projection (%d generations): player base %s, computer base %s\n", generations, p.Base, p.Computer)
	}

	switch o := p.Outcome; {
	case o == nil:
		fmt.Fprintf(w, "✅ Both sides still have bases at generation %d (population %d)\n", p.Generation, a.Population)
	case o.Reason == engine.ReasonGenerationLimit:
		fmt.Fprintf(w, "✅ Generation limit reached at %d without a winner\n", o.Generation)
	case o.Winner == engine.Player:
		fmt.Fprintf(w, "⚠️  Computer bases fall without any army move (generation %d)\n", o.Generation)
	default:
		fmt.Fprintf(w, "⚠️  Player bases fall without any army move (generation %d)\n", o.Generation)
	}
}

// configPaths returns the explicit paths, or every config in dir
func configPaths(dir string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	paths, err := configPaths(cmd.String("config-dir"), cmd.Args().Slice())
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	generations := int(cmd.Int("generations"))
	for _, path := range paths {
		fmt.Fprintf(out, "\n=== Analyzing %s ===\n", filepath.Base(path))

		a, err := analyzeConfig(ctx, path, generations)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		printAnalysis(out, a, generations)
	}
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "summarize game configurations and project their boards forward",
		ArgsUsage: "[config files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory to scan when no files are given", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.IntFlag{Name: "generations", Value: 100, Usage: "generations to project each board"},
		},
		Action: run,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
