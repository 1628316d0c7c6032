package calc

import "fortio.org/log"

type state uint8

const (
	stateInitial  state = iota // expecting an operand, a unary minus or "("
	stateMinus                 // just read a unary minus
	stateValue                 // an operand or a closing ")" was completed
	stateOperator              // just read a binary operator
)

func (s state) String() string {
	switch s {
	case stateInitial:
		return "initial"
	case stateMinus:
		return "minus"
	case stateValue:
		return "value"
	default:
		return "operator"
	}
}

// transition returns the state reached by consuming t, or false when t cannot
// follow the current state.
func (e *Evaluator) transition(s state, t Token) (state, bool) {
	operand := t.numeric() || e.isCellReference(t)
	open := t.Kind == LeftParen

	switch s {
	case stateInitial:
		switch {
		case operand:
			return stateValue, true
		case t.is(Operator, "-"):
			return stateMinus, true
		case open:
			return stateInitial, true
		}
	case stateMinus:
		switch {
		case operand:
			return stateValue, true
		case open:
			return stateInitial, true
		}
	case stateValue:
		switch {
		case operand, open:
			// two operands with nothing in between
			return s, false
		case t.Kind == RightParen:
			return stateValue, true
		default:
			return stateOperator, true
		}
	case stateOperator:
		switch {
		case operand:
			return stateValue, true
		case open:
			return stateInitial, true
		}
	}
	return s, false
}

// Validate returns the longest prefix of f that is a usable expression. When the
// prefix is shorter than f the reason is recorded as the evaluator's error.
//
// The prefix always ends at the last operand or ")" consumed at depth zero and it
// is never empty for a non-empty input, even when the very first token is wrong.
func (e *Evaluator) Validate(f Formula) Formula {
	if len(f) == 0 {
		e.err = ErrEmptyFormula
		return Formula{}
	}

	lastValid := 0
	truncated := func(err error) Formula {
		e.err = err
		log.LogVf("validate %q: %v, keeping %d of %d tokens", f.String(), err, lastValid+1, len(f))
		return f[:lastValid+1]
	}

	s := stateInitial
	depth := 0
	for i, t := range f {
		switch t.Kind {
		case LeftParen:
			depth++
		case RightParen:
			depth--
		}
		if depth < 0 {
			return truncated(ErrMissingParentheses)
		}

		next, ok := e.transition(s, t)
		if !ok {
			return truncated(ErrInvalidOperator)
		}
		s = next
		if s == stateValue && depth == 0 {
			lastValid = i
		}
	}

	if depth != 0 {
		return truncated(ErrMissingParentheses)
	}
	if s == stateOperator || s == stateMinus {
		return truncated(ErrIncompleteFormula)
	}
	return f[:lastValid+1]
}

func (e *Evaluator) isCellReference(t Token) bool {
	if t.Kind != CellReference {
		return false
	}
	if e.cells == nil {
		return IsValidCellLabel(t.Text)
	}
	return e.cells.IsValidCellLabel(t.Text)
}
