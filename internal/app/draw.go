package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"formulagrid/internal/calc"
	"formulagrid/internal/grid"
)

var (
	headerStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	activeStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	selectedStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
	errorStyle    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	statusStyle   = tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
)

const helpText = "\n i / Enter - edit \n Shift/Alt+Enter - newline \n Del - clear cell \n : - command \n = - formula with preview \n" +
	" Ctrl←/Ctrl→ - col width \n Ctrl↑/Ctrl↓ - row height \n F2/F3 - add row/col \n F4/F5 - delete row/col \n" +
	" PgUp/PgDn/Home/End - scroll \n :w [file] [csv|xlsx|grid] \n :o file [csv|xlsx|grid] \n :goto A1 | :cw N | :rh N | :q \n "

func (a *App) Draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()

	a.drawHeader(s, w)
	a.drawRows(s, w, h)
	a.drawStatus(s, w, h)

	if a.HelpVisible {
		a.drawHelpPopup(s, helpText)
	}
	a.drawCursor(s, w, h)

	s.Show()
}

func (a *App) drawHeader(s tcell.Screen, w int) {
	x := a.LeftGutter
	for c := a.ViewCol; c < len(a.ColWidths) && x < w; c++ {
		wc := a.ColWidths[c]
		style := headerStyle
		if c == a.CurCol {
			style = activeStyle
			a.fill(s, x, 0, wc, 1, style)
		}
		a.printPadded(s, x, 0, grid.ColToName(c), style, wc)
		x += wc
	}
}

func (a *App) drawRows(s tcell.Screen, w, h int) {
	bottom := h - a.StatusLines
	y := 1
	for r := a.ViewRow; r < len(a.RowHeights) && y < bottom; r++ {
		gutter := headerStyle
		if r == a.CurRow {
			gutter = activeStyle
			a.fill(s, 0, y, a.LeftGutter-1, 1, gutter)
		}
		a.printTextFixedWidth(s, 0, y, fmt.Sprintf("%d", r+1), gutter, a.LeftGutter-1)

		hh := a.RowHeights[r]
		x := a.LeftGutter
		for c := a.ViewCol; c < len(a.ColWidths) && x < w; c++ {
			wc := a.ColWidths[c]
			text, style := a.cellText(r, c)
			if r == a.CurRow && c == a.CurCol {
				style = selectedStyle
			}

			a.fill(s, x, y, wc, hh, style)
			for dy, line := range a.splitLines(text, hh) {
				a.printPadded(s, x, y+dy, line, style, wc)
			}
			x += wc
		}
		y += hh
	}
}

// cellText returns what a cell shows and how; the cell being edited shows the
// input buffer.
func (a *App) cellText(r, c int) (string, tcell.Style) {
	if a.Mode == ModeInsert && r == a.CurRow && c == a.CurCol {
		return a.InputBuf, tcell.StyleDefault
	}
	cell := a.Sheet.At(r, c)
	if cell == nil {
		return "", tcell.StyleDefault
	}
	if cell.Error() != "" {
		return cell.Display(), errorStyle
	}
	return cell.Display(), tcell.StyleDefault
}

func (a *App) drawStatus(s tcell.Screen, w, h int) {
	y := max(0, h-a.StatusLines)

	left := fmt.Sprintf("Mode:%s  Cell:%s  cw=%d rh=%d  View:%s",
		a.Mode, a.CurrentLabel(), a.colWidth(a.CurCol), a.rowHeight(a.CurRow),
		grid.ColRowToName(a.ViewCol, a.ViewRow))
	if a.FileName != "" {
		left += "  File:" + a.FileName
	}
	a.printTextFixedWidth(s, 0, y, left, statusStyle, w)
	a.printTextFixedWidth(s, 0, y+1, a.statusDetail(), statusStyle, w)
}

// statusDetail is the second status line: the live value while editing, the
// last command outcome, or the text and error of the current cell.
func (a *App) statusDetail() string {
	switch {
	case a.Mode == ModeInsert:
		return "EDIT: " + a.InputBuf + "   " + a.previewText(a.InputBuf)
	case a.Message != "":
		return a.Message
	}
	cell := a.currentCell()
	if cell == nil {
		return ""
	}
	if cell.Error() != "" {
		return fmt.Sprintf("%s  %s  (%s)", cell.Text, cell.Error(), grid.FormatValue(cell.Value()))
	}
	return cell.Text
}

// previewText evaluates a half-typed formula against the sheet without storing
// it. Text that is not a formula has nothing to preview.
func (a *App) previewText(text string) string {
	if !strings.HasPrefix(text, "=") {
		return ""
	}
	v, err := a.Sheet.Preview(text)
	if err != nil {
		if errors.Is(err, calc.ErrEmptyFormula) {
			return ""
		}
		return fmt.Sprintf("= %s  %v", grid.FormatValue(v), err)
	}
	return "= " + grid.FormatValue(v)
}

// drawCursor places the edit caret at the end of the input in the current cell.
func (a *App) drawCursor(s tcell.Screen, w, h int) {
	if a.Mode != ModeInsert || a.CurCol < a.ViewCol || a.CurRow < a.ViewRow {
		s.HideCursor()
		return
	}

	cellX := a.LeftGutter
	for c := a.ViewCol; c < a.CurCol && c < len(a.ColWidths); c++ {
		cellX += a.ColWidths[c]
	}
	cellY := 1
	for r := a.ViewRow; r < a.CurRow && r < len(a.RowHeights); r++ {
		cellY += a.RowHeights[r]
	}

	lines := strings.Split(a.InputBuf, "\n")
	last := lines[len(lines)-1]
	innerW := max(1, a.colWidth(a.CurCol)-2*a.CellPadding)
	cx := cellX + a.CellPadding + min(runeLen(last), innerW-1)
	cy := cellY + min(len(lines)-1, a.rowHeight(a.CurRow)-1)

	if cx >= w || cy >= h-a.StatusLines {
		s.HideCursor()
		return
	}
	s.SetContent(cx, cy, '▏', nil, tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorLightGray))
}

func (a *App) colWidth(c int) int {
	if c >= 0 && c < len(a.ColWidths) {
		return a.ColWidths[c]
	}
	return a.DefaultWidth
}

func (a *App) rowHeight(r int) int {
	if r >= 0 && r < len(a.RowHeights) {
		return a.RowHeights[r]
	}
	return a.DefaultHeight
}

// ----------------------------- Text helpers -----------------------------

func (a *App) fill(s tcell.Screen, x, y, w, h int, style tcell.Style) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			s.SetContent(x+dx, y+dy, ' ', nil, style)
		}
	}
}

// printPadded prints text inside a cell of width wc, honoring CellPadding.
func (a *App) printPadded(s tcell.Screen, x, y int, text string, style tcell.Style, wc int) {
	inner := wc - 2*a.CellPadding
	if inner <= 0 {
		a.printTextFixedWidth(s, x, y, text, style, wc)
		return
	}
	a.printTextFixedWidth(s, x+a.CellPadding, y, text, style, inner)
}

func (a *App) printTextFixedWidth(s tcell.Screen, x, y int, str string, style tcell.Style, width int) {
	runes := []rune(str)
	for i := 0; i < width; i++ {
		ch := ' '
		if i < len(runes) {
			ch = runes[i]
		}
		if x+i >= 0 && y >= 0 {
			s.SetContent(x+i, y, ch, nil, style)
		}
	}
}

func (a *App) splitLines(text string, maxLines int) []string {
	if maxLines <= 0 {
		return nil
	}
	out := make([]string, maxLines)
	copy(out, strings.Split(text, "\n"))
	return out
}

func (a *App) drawHelpPopup(s tcell.Screen, help string) {
	w, h := s.Size()
	if w < 10 || h < 5 {
		return
	}

	const padding = 2
	innerW := min(50, w-6-padding*2)
	if innerW < 10 {
		return
	}
	lines := wrapText(help, innerW)
	if maxLines := h - 4 - padding*2; len(lines) > maxLines {
		lines = lines[:max(0, maxLines)]
	}

	pw := innerW + padding*2
	ph := max(3, len(lines)) + padding*2
	left := (w - pw) / 2
	top := (h - ph) / 2

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDefault)
	a.fill(s, left, top, pw, ph, style)
	drawBorder(s, left, top, pw, ph, style)

	for i, ln := range lines {
		a.printTextFixedWidth(s, left+padding, top+padding+i, ln, style, innerW)
	}
}

func drawBorder(s tcell.Screen, left, top, w, h int, style tcell.Style) {
	for x := left + 1; x < left+w-1; x++ {
		s.SetContent(x, top, tcell.RuneHLine, nil, style)
		s.SetContent(x, top+h-1, tcell.RuneHLine, nil, style)
	}
	for y := top + 1; y < top+h-1; y++ {
		s.SetContent(left, y, tcell.RuneVLine, nil, style)
		s.SetContent(left+w-1, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(left, top, tcell.RuneULCorner, nil, style)
	s.SetContent(left+w-1, top, tcell.RuneURCorner, nil, style)
	s.SetContent(left, top+h-1, tcell.RuneLLCorner, nil, style)
	s.SetContent(left+w-1, top+h-1, tcell.RuneLRCorner, nil, style)
}

// wrapText wraps each line of s to at most width runes, splitting words that
// are longer than a line.
func wrapText(s string, width int) []string {
	if width <= 2 {
		return []string{s}
	}

	var result []string
	for _, para := range strings.Split(s, "\n") {
		cur := ""
		for _, word := range strings.Fields(para) {
			for runeLen(word) > width {
				if cur != "" {
					result = append(result, cur)
					cur = ""
				}
				r := []rune(word)
				result = append(result, string(r[:width]))
				word = string(r[width:])
			}
			switch {
			case cur == "":
				cur = word
			case runeLen(cur)+1+runeLen(word) <= width:
				cur += " " + word
			default:
				result = append(result, cur)
				cur = word
			}
		}
		result = append(result, cur)
	}
	return result
}

func runeLen(s string) int {
	return len([]rune(s))
}

// ----------------------------- Viewport -----------------------------

// ComputeVisible returns how many rows and columns fit on screen from the view
// origin, at least one of each.
func (a *App) ComputeVisible(s tcell.Screen) (visibleRows, visibleCols int) {
	w, h := s.Size()
	usableW := max(1, w-a.LeftGutter)
	usableH := max(1, h-a.StatusLines-1)
	return max(1, fitting(a.RowHeights[min(a.ViewRow, len(a.RowHeights)):], usableH)),
		max(1, fitting(a.ColWidths[min(a.ViewCol, len(a.ColWidths)):], usableW))
}

func fitting(sizes []int, room int) int {
	n, sum := 0, 0
	for _, size := range sizes {
		if sum+size > room {
			break
		}
		sum += size
		n++
	}
	return n
}

func (a *App) EnsureCursorVisible(s tcell.Screen) {
	if s == nil {
		return
	}
	rows, cols := a.ComputeVisible(s)

	if a.CurCol < a.ViewCol {
		a.ViewCol = a.CurCol
	} else if a.CurCol >= a.ViewCol+cols {
		a.ViewCol = a.CurCol - cols + 1
	}
	a.ViewCol = min(max(a.ViewCol, 0), max(0, len(a.ColWidths)-1))

	if a.CurRow < a.ViewRow {
		a.ViewRow = a.CurRow
	} else if a.CurRow >= a.ViewRow+rows {
		a.ViewRow = a.CurRow - rows + 1
	}
	a.ViewRow = min(max(a.ViewRow, 0), max(0, len(a.RowHeights)-1))
}
