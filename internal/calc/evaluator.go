package calc

import (
	"math"

	"fortio.org/log"
)

// Evaluator validates and reduces formulas against one cell store. The error is
// reset on every Evaluate call; the result survives a call that cannot produce a
// new one. An Evaluator is not safe for concurrent use.
type Evaluator struct {
	cells  CellStore
	result float64
	err    error
}

func NewEvaluator(cells CellStore) *Evaluator {
	return &Evaluator{cells: cells}
}

// Eval evaluates f with a fresh evaluator and returns its result and error.
func Eval(f Formula, cells CellStore) (float64, error) {
	e := NewEvaluator(cells)
	e.Evaluate(f)
	return e.Result(), e.Err()
}

// Evaluate never fails: problems are recorded and the last one recorded wins.
// f itself is left untouched.
func (e *Evaluator) Evaluate(f Formula) {
	e.err = nil

	valid := e.Validate(f)
	if len(valid) == 0 {
		return
	}

	e.result = e.reduce(buffer(valid.Clone()))
	log.LogVf("evaluate %q = %v (err: %v)", f.String(), e.result, e.err)
}

func (e *Evaluator) Result() float64 {
	return e.result
}

// Err returns the error recorded by the last Evaluate call, nil on success.
func (e *Evaluator) Err() error {
	return e.err
}

// ErrorMessage is Err as display text; empty means success.
func (e *Evaluator) ErrorMessage() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

// reduce collapses b to one number. Each pass owns the buffer until it hands it
// on to the next one.
func (e *Evaluator) reduce(b buffer) float64 {
	b = e.resolveBrackets(b)
	b = e.dereferenceCells(b)
	b = e.foldProducts(b)
	b = e.foldSums(b)

	if len(b) > 1 {
		e.err = ErrInvalidFormula
		return e.result
	}
	if len(b) == 1 && b[0].numeric() {
		return b[0].Value
	}
	return 0
}

// resolveBrackets replaces every outermost (...) group by its value, right to
// left. Once a group is evaluated while an error is pending the pass gives up and
// leaves the remaining groups in place.
func (e *Evaluator) resolveBrackets(b buffer) buffer {
	depth, end := 0, -1
	for i := len(b) - 1; i >= 0; i-- {
		switch b[i].Kind {
		case RightParen:
			depth++
			if depth == 1 {
				end = i
			}
		case LeftParen:
			depth--
			if depth != 0 {
				continue
			}
			inner := append(buffer(nil), b[i+1:end]...)
			v := e.reduce(inner)
			if e.err != nil {
				return b
			}
			b = b.replace(i, end-i+1, Num(v))
		}
	}
	return b
}

func (e *Evaluator) dereferenceCells(b buffer) buffer {
	for i := len(b) - 1; i >= 0; i-- {
		if !e.isCellReference(b[i]) {
			continue
		}
		v, err := cellValue(e.cells, b[i].Text)
		if err != nil {
			e.err = err
		}
		b[i] = Num(v)
	}
	return b
}

// foldProducts turns a / b into a * (1/b), then folds the products. Dividing by
// zero is recorded but the infinite reciprocal still takes part in the folding.
func (e *Evaluator) foldProducts(b buffer) buffer {
	for i := len(b) - 1; i >= 0; i-- {
		if i >= len(b) || !b[i].is(Operator, "/") {
			continue
		}
		right := b.at(i + 1).number()
		if right == 0 {
			e.result = math.Inf(1)
			e.err = ErrDivideByZero
		}
		b[i] = Op("*")
		b = b.replace(i+1, 1, Num(1/right))
	}

	for i := len(b) - 1; i >= 0; i-- {
		if i >= len(b) || !b[i].is(Operator, "*") {
			continue
		}
		product := b.at(i-1).number() * b.at(i+1).number()
		b = b.replace(i-1, 3, Num(product))
	}
	return b
}

// foldSums resolves unary minus, rewrites a - b as a + (-b) and folds the sums.
func (e *Evaluator) foldSums(b buffer) buffer {
	for i := len(b) - 1; i >= 0; i-- {
		if i >= len(b) || !b[i].is(Operator, "-") {
			continue
		}
		right := b.at(i + 1).number()
		if i == 0 || !b[i-1].numeric() {
			b = b.replace(i, 2, Num(-right))
			continue
		}
		b[i] = Op("+")
		b = b.replace(i+1, 1, Num(-right))
	}

	for i := len(b) - 1; i >= 0; i-- {
		if i >= len(b) || !b[i].is(Operator, "+") {
			continue
		}
		sum := b.at(i-1).number() + b.at(i+1).number()
		b = b.replace(i-1, 3, Num(sum))
	}
	return b
}
