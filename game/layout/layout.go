// Package layout reads and writes starting layouts in the "x y state" text
// format. Each non-comment line holds one or more whitespace separated
// triples; state is the numeric cell code (0 empty, 1/2 army, 3/4 base).
// A line may instead be a rectangle directive:
//
//	block startX startY columns rows state
//
// which expands to every cell of the rectangle, up to engine.MaxGridSize on
// each side. Text after '#' is ignored.
package layout

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/wricardo/artofwar/game/engine"
)

// ErrSyntax is returned for malformed layout lines
var ErrSyntax = errors.New("layout syntax error")

// Parse reads a layout from r. Cells are returned in file order; later
// entries for the same position overwrite earlier ones when loaded.
func Parse(r io.Reader) ([]engine.CellPlacement, error) {
	var cells []engine.CellPlacement

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "block" {
			block, err := parseBlock(fields[1:])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			cells = append(cells, block...)
			continue
		}

		if len(fields)%3 != 0 {
			return nil, errors.Wrapf(ErrSyntax, "line %d: expected \"x y state\" triples, got %d fields", lineNo, len(fields))
		}
		for i := 0; i < len(fields); i += 3 {
			cell, err := parseTriple(fields[i : i+3])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			cells = append(cells, cell)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read layout")
	}

	return cells, nil
}

// ParseFile reads a layout file
func ParseFile(path string) ([]engine.CellPlacement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open layout %s", path)
	}
	defer f.Close()

	cells, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse layout %s", path)
	}
	return cells, nil
}

func parseTriple(fields []string) (engine.CellPlacement, error) {
	nums, err := atoiAll(fields)
	if err != nil {
		return engine.CellPlacement{}, err
	}
	state, err := engine.CellStateFromCode(nums[2])
	if err != nil {
		return engine.CellPlacement{}, errors.Wrapf(ErrSyntax, "%v", err)
	}
	if nums[0] < 0 || nums[1] < 0 {
		return engine.CellPlacement{}, errors.Wrapf(ErrSyntax, "negative coordinate (%d,%d)", nums[0], nums[1])
	}
	return engine.CellPlacement{X: nums[0], Y: nums[1], State: state}, nil
}

func parseBlock(fields []string) ([]engine.CellPlacement, error) {
	if len(fields) != 5 {
		return nil, errors.Wrapf(ErrSyntax, "block needs startX startY columns rows state, got %d fields", len(fields))
	}
	nums, err := atoiAll(fields)
	if err != nil {
		return nil, err
	}
	startX, startY, cols, rows := max(nums[0], 0), max(nums[1], 0), nums[2], nums[3]
	if cols <= 0 || rows <= 0 {
		return nil, errors.Wrapf(ErrSyntax, "block size %dx%d must be positive", cols, rows)
	}
	if cols > engine.MaxGridSize || rows > engine.MaxGridSize || startX >= engine.MaxGridSize || startY >= engine.MaxGridSize {
		return nil, errors.Wrapf(ErrSyntax, "block %dx%d at (%d,%d) exceeds the %d-cell board limit",
			cols, rows, startX, startY, engine.MaxGridSize)
	}
	state, err := engine.CellStateFromCode(nums[4])
	if err != nil {
		return nil, errors.Wrapf(ErrSyntax, "%v", err)
	}

	cells := make([]engine.CellPlacement, 0, cols*rows)
	for y := startY; y < startY+rows; y++ {
		for x := startX; x < startX+cols; x++ {
			cells = append(cells, engine.CellPlacement{X: x, Y: y, State: state})
		}
	}
	return cells, nil
}

func atoiAll(fields []string) ([]int, error) {
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(ErrSyntax, "%q is not an integer", f)
		}
		nums[i] = n
	}
	return nums, nil
}

// Clip drops the cells that fall outside a width x height grid, so that a
// block directive running past the edge is cut like a planted block.
func Clip(cells []engine.CellPlacement, width, height int) []engine.CellPlacement {
	clipped := cells[:0:0]
	for _, c := range cells {
		if c.X < width && c.Y < height {
			clipped = append(clipped, c)
		}
	}
	return clipped
}

// Format writes cells in the "x y state" format, one triple per line
func Format(w io.Writer, cells []engine.CellPlacement) error {
	bw := bufio.NewWriter(w)
	for _, c := range cells {
		bw.WriteString(strconv.Itoa(c.X))
		bw.WriteByte(' ')
		bw.WriteString(strconv.Itoa(c.Y))
		bw.WriteByte(' ')
		bw.WriteString(strconv.Itoa(c.State.Code()))
		bw.WriteByte('\n')
	}
	return errors.Wrap(bw.Flush(), "write layout")
}

// Snapshot returns the non-empty cells of grid in row-major order
func Snapshot(grid *engine.Grid) []engine.CellPlacement {
	var cells []engine.CellPlacement
	for y, row := range grid.Rows() {
		for x, state := range row {
			if !state.IsEmpty() {
				cells = append(cells, engine.CellPlacement{X: x, Y: y, State: state})
			}
		}
	}
	return cells
}

// Summary counts the cells of a layout by state
type Summary struct {
	Cells  int
	Armies engine.FactionCounts
	Bases  engine.FactionCounts
	Empty  int
	MaxX   int
	MaxY   int
}

// Summarize counts cells per state and the extent of a layout
func Summarize(cells []engine.CellPlacement) Summary {
	var s Summary
	for _, c := range cells {
		s.Cells++
		s.MaxX = max(s.MaxX, c.X)
		s.MaxY = max(s.MaxY, c.Y)
		switch c.State.Kind {
		case engine.Army:
			add(&s.Armies, c.State.Faction)
		case engine.Base:
			add(&s.Bases, c.State.Faction)
		default:
			s.Empty++
		}
	}
	return s
}

func add(counts *engine.FactionCounts, f engine.Faction) {
	if f == engine.Player {
		counts.Player++
	} else {
		counts.Computer++
	}
}
