package grid

import (
	"strconv"
	"strings"

	"formulagrid/internal/calc"
)

// Cell represents a single cell content: the raw text typed by the user and the
// last value computed from it.
type Cell struct {
	Text string

	formula calc.Formula
	eval    *calc.Evaluator
	value   float64
	err     string
}

// newCell parses text. "=..." is a formula, a plain number is a one-token formula
// and anything else is a label with no formula at all.
func newCell(text string) *Cell {
	c := &Cell{Text: text}
	switch {
	case strings.HasPrefix(text, "="):
		c.formula = calc.Tokenize(text)
	default:
		if v, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			c.formula = calc.Formula{calc.Num(v)}
			c.value = v
		}
	}
	return c
}

func (c *Cell) Formula() calc.Formula {
	return c.formula
}

func (c *Cell) Value() float64 {
	return c.value
}

func (c *Cell) Error() string {
	return c.err
}

func (c *Cell) IsFormula() bool {
	return strings.HasPrefix(c.Text, "=")
}

// IsLabel reports whether the cell only holds text to display.
func (c *Cell) IsLabel() bool {
	return !c.IsFormula() && len(c.formula) == 0
}

// evaluate recomputes the cell against store and reports whether its value or
// error changed. The cell keeps its own evaluator so a formula that stops
// producing a value still shows the last one it had.
func (c *Cell) evaluate(store calc.CellStore) bool {
	if c.IsLabel() {
		return false
	}
	if c.eval == nil {
		c.eval = calc.NewEvaluator(store)
	}

	c.eval.Evaluate(c.formula)
	value, err := c.eval.Result(), c.eval.ErrorMessage()

	changed := err != c.err || !sameValue(value, c.value)
	c.value, c.err = value, err
	return changed
}

func sameValue(a, b float64) bool {
	return a == b || (a != a && b != b)
}
