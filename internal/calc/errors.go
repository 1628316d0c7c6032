package calc

import "errors"

// Error codes recorded by the evaluator. They are shown to the user as-is, so the
// text doubles as the cell's error code.
var (
	ErrEmptyFormula       = errors.New("#EMPTY!")
	ErrMissingParentheses = errors.New("#PAREN!")
	ErrInvalidOperator    = errors.New("#OP!")
	ErrIncompleteFormula  = errors.New("#PARTIAL!")
	ErrDivideByZero       = errors.New("#DIV/0!")
	ErrInvalidCell        = errors.New("#REF!")
	ErrInvalidFormula     = errors.New("#ERR!")
)

// cellError carries an error reported by a referenced cell. The message is kept
// verbatim so the referencing cell shows the same code.
type cellError struct {
	msg string
}

func (e *cellError) Error() string {
	return e.msg
}

// errorFromMessage maps a stored error message back to its sentinel when it is one
// of ours, so errors.Is keeps working across cells.
func errorFromMessage(msg string) error {
	for _, known := range []error{
		ErrEmptyFormula, ErrMissingParentheses, ErrInvalidOperator, ErrIncompleteFormula,
		ErrDivideByZero, ErrInvalidCell, ErrInvalidFormula,
	} {
		if known.Error() == msg {
			return known
		}
	}
	return &cellError{msg: msg}
}
