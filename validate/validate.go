// Command validate checks the game configurations in a config directory.
// For every JSON or YAML file it checks:
//   - that the file parses and passes engine validation, including its
//     layout_file and every preloaded cell
//   - that a preloaded computer base comes with a player base
//   - how far apart preloaded bases are compared to the base separation rule
//   - whether the board is large enough for the computer to place its base
//     without the fallback search
//   - duplicate coordinates in the preloaded cells
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/artofwar/game/config"
	"github.com/wricardo/artofwar/game/engine"
	"github.com/wricardo/artofwar/game/layout"
)

// ValidationResult captures the outcome of validating a single file.
// Errors make the file invalid; Warnings and Info are reported either way.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// validateConfig loads and checks a single configuration file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	cfg, err := config.ReadFile(filePath)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	checkBases(cfg, &result)
	checkBoardSize(cfg, &result)
	checkDuplicates(cfg.Cells, &result)

	summary := layout.Summarize(cfg.Cells)
	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", cfg.Name),
		fmt.Sprintf("✓ Board: %dx%d", cfg.Width, cfg.Height),
		fmt.Sprintf("✓ Generation limit: %s", generationLimit(cfg.MaxGenerations)),
		fmt.Sprintf("✓ Preloaded cells: %d (armies %d/%d, bases %d/%d)",
			summary.Cells, summary.Armies.Player, summary.Armies.Computer, summary.Bases.Player, summary.Bases.Computer),
	)
	if cfg.Seed != 0 {
		result.Info = append(result.Info, fmt.Sprintf("✓ Seed: %d", cfg.Seed))
	}

	return result
}

func generationLimit(n int) string {
	if n == 0 {
		return "none"
	}
	return fmt.Sprint(n)
}

// checkBases validates preloaded base cells. A computer base without a
// player base would leave the game waiting for a base placement that
// plants a second computer base.
func checkBases(cfg *engine.GameConfig, result *ValidationResult) {
	var player, computer []engine.Position
	for _, c := range cfg.Cells {
		switch {
		case c.State.IsBase(engine.Player):
			player = append(player, engine.Position{X: c.X, Y: c.Y})
		case c.State.IsBase(engine.Computer):
			computer = append(computer, engine.Position{X: c.X, Y: c.Y})
		}
	}

	if len(computer) > 0 && len(player) == 0 {
		result.fail("Computer base cells are preloaded without a player base")
		return
	}
	if len(player) == 0 || len(computer) == 0 {
		return
	}

	closest := -1
	for _, p := range player {
		for _, c := range computer {
			if d := engine.Chebyshev(p, c); closest == -1 || d < closest {
				closest = d
			}
		}
	}
	if closest <= engine.MinBaseSeparation {
		result.warn("Preloaded bases are %d cells apart; placed bases must be more than %d apart", closest, engine.MinBaseSeparation)
	}
}

// checkBoardSize warns when no two interior centers are far enough apart,
// so the computer base always comes from the fallback search. Player base
// cells sit one step from their center.
func checkBoardSize(cfg *engine.GameConfig, result *ValidationResult) {
	span := max(cfg.Width, cfg.Height) - 3
	if span <= engine.MinBaseSeparation+1 {
		result.warn("Board is too small for the %d-cell base separation; the computer base will use fallback placement",
			engine.MinBaseSeparation)
	}
}

func checkDuplicates(cells []engine.CellPlacement, result *ValidationResult) {
	seen := make(map[engine.Position]int, len(cells))
	for _, c := range cells {
		seen[engine.Position{X: c.X, Y: c.Y}]++
	}

	var dups []string
	for pos, n := range seen {
		if n > 1 {
			dups = append(dups, pos.String())
		}
	}
	if len(dups) == 0 {
		return
	}
	sort.Strings(dups)
	result.warn("%d coordinates are listed more than once; the last entry wins: %s", len(dups), strings.Join(dups, " "))
}

// configFiles lists the config files in dir in name order
func configFiles(dir string) ([]string, error) {
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

// report prints a result and reports whether it was valid
func report(w io.Writer, result ValidationResult) bool {
	fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

	if result.Valid {
		fmt.Fprintln(w, "✅ VALID")
		for _, info := range result.Info {
			fmt.Fprintln(w, "  "+info)
		}
	} else {
		fmt.Fprintln(w, "❌ INVALID")
		for _, err := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+err)
		}
	}
	for _, warning := range result.Warnings {
		fmt.Fprintln(w, "  ⚠️  "+warning)
	}
	return result.Valid
}

func run(ctx context.Context, cmd *cli.Command) error {
	files, err := configFiles(cmd.String("config-dir"))
	if err != nil {
		return fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no configuration files in %s", cmd.String("config-dir"))
	}

	out := cmd.Root().Writer
	allValid := true
	for _, file := range files {
		if !report(out, validateConfig(file)) {
			allValid = false
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		return errors.New("❌ Some configurations have errors")
	}
	fmt.Fprintln(out, "✅ All configurations are valid!")
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "check the game configurations in a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "directory containing game configurations", Sources: cli.EnvVars("CONFIG_DIR")},
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
