package calc

import "regexp"

// Cell is the read view of a sheet cell the evaluator needs.
type Cell interface {
	Formula() Formula
	Value() float64
	Error() string
}

// CellStore resolves cell labels. Lookups are read-only; the evaluator never
// writes back into the store.
type CellStore interface {
	LookupCell(label string) Cell
	IsValidCellLabel(label string) bool
}

var cellLabel = regexp.MustCompile(`^[A-Z]+[0-9]+$`)

// IsValidCellLabel is the default label syntax: column letters followed by row digits.
func IsValidCellLabel(label string) bool {
	return cellLabel.MatchString(label)
}

// cellValue applies the resolution policy for a referenced cell: a stored error
// (other than an empty formula) is passed on, an empty formula is an invalid
// reference, anything else yields the stored value.
func cellValue(cells CellStore, label string) (float64, error) {
	var cell Cell
	if cells != nil {
		cell = cells.LookupCell(label)
	}
	if cell == nil {
		return 0, ErrInvalidCell
	}

	msg := cell.Error()
	if msg != "" && msg != ErrEmptyFormula.Error() {
		return 0, errorFromMessage(msg)
	}

	if len(cell.Formula()) == 0 {
		return 0, ErrInvalidCell
	}

	return cell.Value(), nil
}
