package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ColToName: 0 -> A, 25 -> Z, 26 -> AA and so on
func ColToName(col int) string {
	if col < 0 {
		return "?"
	}
	result := ""
	n := col + 1
	for n > 0 {
		n--
		result = string(rune('A'+(n%26))) + result
		n /= 26
	}
	return result
}

// ColRowToName builds cell name from 0-based col,row -> e.g., col 0,row0 -> "A1"
func ColRowToName(col, row int) string {
	return fmt.Sprintf("%s%d", ColToName(col), row+1)
}

// ParseCellRef parses names like A1, AA10 returning 0-based (row, col)
// Accepts sheet prefixes like Sheet!A1 and removes $ signs.
func ParseCellRef(name string) (int, int, bool) {
	name = strings.TrimSpace(name)
	if idx := strings.LastIndex(name, "!"); idx != -1 {
		name = strings.TrimSpace(name[idx+1:])
	}
	name = strings.ReplaceAll(name, "$", "")
	if name == "" {
		return 0, 0, false
	}

	i := 0
	for i < len(name) && isLetter(name[i]) {
		i++
	}
	if i == 0 || i >= len(name) {
		return 0, 0, false
	}
	colPart := strings.ToUpper(name[:i])
	rowPart := name[i:]
	for j := 0; j < len(rowPart); j++ {
		if !isDigit(rowPart[j]) {
			return 0, 0, false
		}
	}
	col := 0
	for j := 0; j < len(colPart); j++ {
		col = col*26 + int(colPart[j]-'A') + 1
	}
	col = col - 1
	rowNum, err := strconv.Atoi(rowPart)
	if err != nil {
		return 0, 0, false
	}
	row := rowNum - 1
	if row < 0 || col < 0 {
		return 0, 0, false
	}
	return row, col, true
}

// Canonical returns the upper-case A1 form of a label, or false if it is not one.
func Canonical(label string) (string, bool) {
	r, c, ok := ParseCellRef(label)
	if !ok {
		return "", false
	}
	return ColRowToName(c, r), true
}

// FormatValue renders a computed number the way the grid shows it: whole numbers
// without decimals, everything else with up to six.
func FormatValue(val float64) string {
	switch {
	case math.IsNaN(val):
		return "NaN"
	case math.IsInf(val, 1):
		return "Infinity"
	case math.IsInf(val, -1):
		return "-Infinity"
	}
	if r := math.Round(val); math.Abs(val-r) < 1e-9 {
		if r == 0 {
			r = 0 // drop the sign of -0
		}
		return fmt.Sprintf("%.0f", r)
	}
	s := strconv.FormatFloat(val, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
func isDigit(b byte) bool {
	return (b >= '0' && b <= '9')
}
