package app

import (
	"github.com/gdamore/tcell/v2"

	"formulagrid/internal/config"
	"formulagrid/internal/grid"
)

// editor modes
const (
	ModeNormal = "normal"
	ModeInsert = "insert"
)

type App struct {
	// layout
	LeftGutter    int
	StatusLines   int
	DefaultWidth  int
	DefaultHeight int
	CellPadding   int

	// grid data
	ColWidths  []int
	RowHeights []int
	Sheet      *grid.Sheet
	FileName   string

	// cursor / view
	CurRow  int
	CurCol  int
	ViewRow int
	ViewCol int

	// UI state
	Mode     string
	InputBuf string
	Message  string
	Quit     bool

	// editing behavior options
	EnterStartsEdit     bool
	PrintableStartsEdit bool
	MoveAfterEnter      bool
	SelectAllOnEdit     bool
	ReplaceOnNextRune   bool

	HelpVisible bool
}

func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	l, e := cfg.Layout, cfg.Editing
	a := &App{
		LeftGutter:          l.LeftGutter,
		StatusLines:         l.StatusLines,
		DefaultWidth:        l.DefaultWidth,
		DefaultHeight:       l.DefaultHeight,
		CellPadding:         l.CellPadding,
		Sheet:               grid.NewSheet(),
		Mode:                ModeNormal,
		EnterStartsEdit:     e.EnterStartsEdit,
		PrintableStartsEdit: e.PrintableStartsEdit,
		MoveAfterEnter:      e.MoveAfterEnter,
		SelectAllOnEdit:     e.SelectAllOnEdit,
	}
	a.EnsureColExists(l.InitialCols - 1)
	a.EnsureRowExists(l.InitialRows - 1)
	return a
}

// CurrentLabel is the A1 name of the cell under the cursor.
func (a *App) CurrentLabel() string {
	return grid.ColRowToName(a.CurCol, a.CurRow)
}

func (a *App) currentCell() *grid.Cell {
	return a.Sheet.At(a.CurRow, a.CurCol)
}

// SetCellValue stores text in the current cell; empty text clears it.
func (a *App) SetCellValue(text string) {
	a.EnsureColExists(a.CurCol)
	a.EnsureRowExists(a.CurRow)
	a.Sheet.SetAt(a.CurRow, a.CurCol, text)
}

// ----------------------------- Events / Input -----------------------------

func (a *App) HandleKeyEvent(s tcell.Screen, ev *tcell.EventKey) {
	if a.Mode == ModeInsert {
		a.handleInsertKey(ev)
		return
	}

	if a.HelpVisible {
		if ev.Key() == tcell.KeyEsc || ev.Rune() == '?' {
			a.HelpVisible = false
		}
		return
	}

	a.Message = ""
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0
	switch ev.Key() {
	case tcell.KeyCtrlC:
		a.Quit = true
	case tcell.KeyUp:
		if ctrl {
			a.resizeRow(-1)
		} else if a.CurRow > 0 {
			a.CurRow--
		}
	case tcell.KeyDown:
		if ctrl {
			a.resizeRow(1)
		} else {
			a.CurRow++
			a.EnsureRowExists(a.CurRow)
		}
	case tcell.KeyLeft:
		if ctrl {
			a.resizeCol(-1)
		} else if a.CurCol > 0 {
			a.CurCol--
		}
	case tcell.KeyRight:
		if ctrl {
			a.resizeCol(1)
		} else {
			a.CurCol++
			a.EnsureColExists(a.CurCol)
		}
	case tcell.KeyPgUp:
		vr, _ := a.ComputeVisible(s)
		a.ViewRow = max(0, a.ViewRow-vr)
	case tcell.KeyPgDn:
		vr, _ := a.ComputeVisible(s)
		a.ViewRow = min(a.ViewRow+vr, max(0, len(a.RowHeights)-1))
	case tcell.KeyHome:
		a.ViewRow, a.ViewCol = 0, 0
	case tcell.KeyEnd:
		a.ViewRow = max(0, len(a.RowHeights)-1)
		a.ViewCol = max(0, len(a.ColWidths)-1)
	case tcell.KeyDelete:
		a.SetCellValue("")
	case tcell.KeyF2:
		a.InsertRow(a.CurRow + 1)
	case tcell.KeyF3:
		a.InsertCol(a.CurCol + 1)
	case tcell.KeyF4:
		a.DeleteRow(a.CurRow)
	case tcell.KeyF5:
		a.DeleteCol(a.CurCol)
	case tcell.KeyEnter:
		if a.EnterStartsEdit {
			a.startEdit()
		}
	case tcell.KeyRune:
		a.handleNormalRune(s, ev.Rune())
	}
}

func (a *App) handleNormalRune(s tcell.Screen, r rune) {
	switch r {
	case 'q':
		a.Quit = true
	case 'i':
		a.startEdit()
	case ':':
		if command, ok := a.PopupInput(s, ":", "", nil); ok {
			a.ExecuteCommand(command)
		}
	case '=':
		if value, ok := a.PopupInput(s, "", "=", a.previewText); ok {
			a.SetCellValue(value)
		}
	case '?':
		a.HelpVisible = true
	default:
		if a.PrintableStartsEdit {
			a.Mode = ModeInsert
			a.InputBuf = string(r)
			a.ReplaceOnNextRune = false
		}
	}
}

func (a *App) startEdit() {
	a.Mode = ModeInsert
	a.InputBuf = ""
	if cell := a.currentCell(); cell != nil {
		a.InputBuf = cell.Text
	}
	a.ReplaceOnNextRune = a.SelectAllOnEdit
}

func (a *App) handleInsertKey(ev *tcell.EventKey) {
	mod := ev.Modifiers()
	switch ev.Key() {
	case tcell.KeyEsc:
		a.Mode = ModeNormal
		a.InputBuf = ""
		a.ReplaceOnNextRune = false
	case tcell.KeyEnter:
		if mod&(tcell.ModShift|tcell.ModAlt) != 0 {
			a.InputBuf += "\n"
			return
		}
		a.SetCellValue(a.InputBuf)
		a.Mode = ModeNormal
		a.InputBuf = ""
		a.ReplaceOnNextRune = false
		if mod&tcell.ModCtrl == 0 && a.MoveAfterEnter {
			a.CurRow++
			a.EnsureRowExists(a.CurRow)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if runes := []rune(a.InputBuf); len(runes) > 0 {
			a.InputBuf = string(runes[:len(runes)-1])
		}
		a.ReplaceOnNextRune = false
	case tcell.KeyRune:
		if a.ReplaceOnNextRune {
			a.InputBuf = string(ev.Rune())
			a.ReplaceOnNextRune = false
		} else {
			a.InputBuf += string(ev.Rune())
		}
	}
}

// ----------------------------- Rows / Columns -----------------------------

func (a *App) EnsureColExists(idx int) {
	for len(a.ColWidths) <= idx {
		a.ColWidths = append(a.ColWidths, a.DefaultWidth)
	}
}

func (a *App) EnsureRowExists(idx int) {
	for len(a.RowHeights) <= idx {
		a.RowHeights = append(a.RowHeights, a.DefaultHeight)
	}
}

func (a *App) resizeRow(delta int) {
	if a.CurRow < len(a.RowHeights) {
		a.RowHeights[a.CurRow] = max(1, a.RowHeights[a.CurRow]+delta)
	}
}

func (a *App) resizeCol(delta int) {
	if a.CurCol < len(a.ColWidths) {
		a.ColWidths[a.CurCol] = max(4, a.ColWidths[a.CurCol]+delta)
	}
}

// InsertRow adds an empty row at idx and moves the cells below it down.
func (a *App) InsertRow(idx int) {
	idx = min(max(idx, 0), len(a.RowHeights))
	a.RowHeights = append(a.RowHeights[:idx], append([]int{a.DefaultHeight}, a.RowHeights[idx:]...)...)
	a.Sheet.Remap(func(row, col int) (int, int, bool) {
		if row >= idx {
			row++
		}
		return row, col, true
	})
}

// InsertCol adds an empty column at idx and moves the cells right of it.
func (a *App) InsertCol(idx int) {
	idx = min(max(idx, 0), len(a.ColWidths))
	a.ColWidths = append(a.ColWidths[:idx], append([]int{a.DefaultWidth}, a.ColWidths[idx:]...)...)
	a.Sheet.Remap(func(row, col int) (int, int, bool) {
		if col >= idx {
			col++
		}
		return row, col, true
	})
}

func (a *App) DeleteRow(idx int) {
	if idx < 0 || idx >= len(a.RowHeights) {
		return
	}
	a.RowHeights = append(a.RowHeights[:idx], a.RowHeights[idx+1:]...)
	a.Sheet.Remap(func(row, col int) (int, int, bool) {
		switch {
		case row == idx:
			return 0, 0, false
		case row > idx:
			row--
		}
		return row, col, true
	})
	a.CurRow = min(a.CurRow, max(0, len(a.RowHeights)-1))
}

func (a *App) DeleteCol(idx int) {
	if idx < 0 || idx >= len(a.ColWidths) {
		return
	}
	a.ColWidths = append(a.ColWidths[:idx], a.ColWidths[idx+1:]...)
	a.Sheet.Remap(func(row, col int) (int, int, bool) {
		switch {
		case col == idx:
			return 0, 0, false
		case col > idx:
			col--
		}
		return row, col, true
	})
	a.CurCol = min(a.CurCol, max(0, len(a.ColWidths)-1))
}

// fitSheet grows the layout so every stored cell has a row and a column.
func (a *App) fitSheet() {
	maxR, maxC := a.Sheet.Extent()
	a.EnsureRowExists(maxR)
	a.EnsureColExists(maxC)
}
