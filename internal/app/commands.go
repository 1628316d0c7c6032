package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/log"

	"formulagrid/internal/grid"
	"formulagrid/internal/storage"
)

// file formats understood by :w and :o
const (
	FormatCSV      = "csv"
	FormatXLSX     = "xlsx"
	FormatDocument = "grid"
)

// FormatFor picks the file format from an explicit name or the file extension.
// Anything unknown is the native document format.
func FormatFor(filename, explicit string) string {
	switch strings.ToLower(explicit) {
	case FormatCSV, FormatXLSX, FormatDocument:
		return strings.ToLower(explicit)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	}
	return FormatDocument
}

// withExt adds the extension of format when filename has none.
func withExt(filename, format string) string {
	if filepath.Ext(filename) == "" {
		return filename + "." + format
	}
	return filename
}

// ExecuteCommand runs a ":" command. The outcome is left in Message.
func (a *App) ExecuteCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	var err error
	switch parts[0] {
	case "q", "quit":
		a.Quit = true
	case "cw":
		err = a.setAll(parts, 4, a.ColWidths)
	case "rh":
		err = a.setAll(parts, 1, a.RowHeights)
	case "goto":
		if len(parts) < 2 {
			err = errors.New("usage: goto A1")
			break
		}
		err = a.Goto(parts[1])
	case "w":
		err = a.Save(arg(parts, 1), arg(parts, 2))
	case "o":
		err = a.Open(arg(parts, 1), arg(parts, 2))
	default:
		err = fmt.Errorf("unknown command %q", parts[0])
	}

	if err != nil {
		log.Warnf("command %q: %v", cmd, err)
		a.Message = "error: " + err.Error()
	}
}

func arg(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

func (a *App) setAll(parts []string, least int, sizes []int) error {
	if len(parts) < 2 {
		return fmt.Errorf("usage: %s N", parts[0])
	}
	v, err := strconv.Atoi(parts[1])
	if err != nil || v < least {
		return fmt.Errorf("%s: want a number >= %d, got %q", parts[0], least, parts[1])
	}
	for i := range sizes {
		sizes[i] = v
	}
	return nil
}

// Goto moves the cursor to the named cell.
func (a *App) Goto(label string) error {
	r, c, ok := grid.ParseCellRef(label)
	if !ok {
		return fmt.Errorf("%q is not a cell", label)
	}
	a.EnsureRowExists(r)
	a.EnsureColExists(c)
	a.CurRow, a.CurCol = r, c
	return nil
}

// Save writes the sheet; an empty filename reuses the last one.
func (a *App) Save(filename, format string) error {
	if filename == "" {
		filename = a.FileName
	}
	if filename == "" {
		return errors.New("no file name")
	}
	format = FormatFor(filename, format)
	filename = withExt(filename, format)

	var err error
	switch format {
	case FormatCSV:
		err = storage.SaveCSV(a.Sheet, filename)
	case FormatXLSX:
		err = storage.ExportXLSX(a.Sheet, filename)
	default:
		err = storage.SaveDocument(storage.NewDocument(a.Sheet, a.ColWidths, a.RowHeights), filename)
	}
	if err != nil {
		return err
	}

	a.FileName = filename
	a.Message = fmt.Sprintf("wrote %d cells to %s", a.Sheet.Len(), filename)
	log.Infof("%s", a.Message)
	return nil
}

// Open replaces the sheet with the contents of filename and resets the view.
func (a *App) Open(filename, format string) error {
	if filename == "" {
		return errors.New("no file name")
	}
	format = FormatFor(filename, format)
	filename = withExt(filename, format)

	var (
		sheet *grid.Sheet
		err   error
	)
	switch format {
	case FormatCSV:
		sheet, err = storage.LoadCSV(filename)
	case FormatXLSX:
		sheet, err = storage.ImportXLSX(filename)
	default:
		var doc *storage.Document
		if doc, err = storage.LoadDocument(filename); err == nil {
			sheet = doc.Sheet()
			if len(doc.ColWidths) > 0 {
				a.ColWidths = doc.ColWidths
			}
			if len(doc.RowHeights) > 0 {
				a.RowHeights = doc.RowHeights
			}
		}
	}
	if err != nil {
		return err
	}

	a.Sheet = sheet
	a.fitSheet()
	a.FileName = filename
	a.CurRow, a.CurCol, a.ViewRow, a.ViewCol = 0, 0, 0, 0
	a.Message = fmt.Sprintf("read %d cells from %s", sheet.Len(), filename)
	log.Infof("%s", a.Message)
	return nil
}
