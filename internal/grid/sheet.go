package grid

import (
	"sort"

	"fortio.org/log"

	"formulagrid/internal/calc"
)

// Sheet holds cells keyed by 0-based (row, col) and recalculates them.
type Sheet struct {
	cells map[[2]int]*Cell
}

func NewSheet() *Sheet {
	return &Sheet{cells: map[[2]int]*Cell{}}
}

// Set stores text in the cell named by label and recalculates the sheet.
// Empty text clears the cell. Returns false when label is not a cell name.
func (s *Sheet) Set(label, text string) bool {
	r, c, ok := ParseCellRef(label)
	if !ok {
		return false
	}
	s.SetAt(r, c, text)
	return true
}

// SetAt is Set addressed by position.
func (s *Sheet) SetAt(row, col int, text string) {
	s.put(row, col, text)
	s.Recalculate()
}

// put stores text without recalculating; loaders call it for every cell and
// recalculate once at the end.
func (s *Sheet) put(row, col int, text string) {
	key := [2]int{row, col}
	if text == "" {
		delete(s.cells, key)
		return
	}
	s.cells[key] = newCell(text)
}

// Load replaces the sheet contents with texts keyed by label.
// Keys that are not cell names are skipped and returned.
func (s *Sheet) Load(texts map[string]string) []string {
	s.cells = map[[2]int]*Cell{}
	var skipped []string
	for label, text := range texts {
		r, c, ok := ParseCellRef(label)
		if !ok {
			skipped = append(skipped, label)
			continue
		}
		s.put(r, c, text)
	}
	s.Recalculate()
	sort.Strings(skipped)
	return skipped
}

// Texts returns the raw text of every cell keyed by its canonical label.
func (s *Sheet) Texts() map[string]string {
	out := make(map[string]string, len(s.cells))
	for k, cell := range s.cells {
		out[ColRowToName(k[1], k[0])] = cell.Text
	}
	return out
}

func (s *Sheet) Clear(label string) {
	s.Set(label, "")
}

// Get returns the cell named by label, or nil.
func (s *Sheet) Get(label string) *Cell {
	r, c, ok := ParseCellRef(label)
	if !ok {
		return nil
	}
	return s.At(r, c)
}

func (s *Sheet) At(row, col int) *Cell {
	return s.cells[[2]int{row, col}]
}

func (s *Sheet) Len() int {
	return len(s.cells)
}

// Labels returns the names of all non-empty cells in row-major order.
func (s *Sheet) Labels() []string {
	keys := s.keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = ColRowToName(k[1], k[0])
	}
	return out
}

// Extent returns the highest used row and column, or -1, -1 for an empty sheet.
func (s *Sheet) Extent() (int, int) {
	maxR, maxC := -1, -1
	for k := range s.cells {
		if k[0] > maxR {
			maxR = k[0]
		}
		if k[1] > maxC {
			maxC = k[1]
		}
	}
	return maxR, maxC
}

func (s *Sheet) keys() [][2]int {
	keys := make([][2]int, 0, len(s.cells))
	for k := range s.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	return keys
}

// LookupCell implements calc.CellStore.
func (s *Sheet) LookupCell(label string) calc.Cell {
	cell := s.Get(label)
	if cell == nil {
		// a typed nil *Cell would not compare equal to nil
		return nil
	}
	return cell
}

func (s *Sheet) IsValidCellLabel(label string) bool {
	if !calc.IsValidCellLabel(label) {
		return false
	}
	_, _, ok := ParseCellRef(label)
	return ok
}

// Recalculate evaluates every cell in row-major order and repeats the sweep until
// nothing changes. References are not ordered, so a chain of n cells may take n
// sweeps; cycles never settle and stop after len(cells)+1 sweeps.
func (s *Sheet) Recalculate() int {
	keys := s.keys()
	limit := len(keys) + 1
	sweeps := 0
	for sweeps < limit {
		sweeps++
		changed := false
		for _, k := range keys {
			if s.cells[k].evaluate(s) {
				changed = true
			}
		}
		if !changed {
			return sweeps
		}
	}
	log.LogVf("recalculate: no fixed point after %d sweeps", sweeps)
	return sweeps
}

// Display returns the text shown for the cell: the label text, the computed
// value, or the error code when evaluation failed.
func (s *Sheet) Display(label string) string {
	cell := s.Get(label)
	if cell == nil {
		return ""
	}
	return cell.Display()
}

// Display renders a single cell.
func (c *Cell) Display() string {
	if c.IsLabel() {
		return c.Text
	}
	if c.err != "" {
		return c.err
	}
	return FormatValue(c.value)
}

// Preview evaluates text as if it were typed into a cell, without storing it.
func (s *Sheet) Preview(text string) (float64, error) {
	return calc.Eval(calc.Tokenize(text), s)
}

// Remap moves every cell to the position returned by fn, dropping cells for
// which fn returns false, then recalculates. Formula texts are kept as written.
func (s *Sheet) Remap(fn func(row, col int) (int, int, bool)) {
	moved := make(map[[2]int]*Cell, len(s.cells))
	for k, cell := range s.cells {
		r, c, keep := fn(k[0], k[1])
		if !keep || r < 0 || c < 0 {
			continue
		}
		// fresh cells so no evaluator keeps a result from the old layout
		moved[[2]int{r, c}] = newCell(cell.Text)
	}
	s.cells = moved
	s.Recalculate()
}
