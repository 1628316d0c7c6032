package storage

import (
	"fmt"
	"strings"

	"fortio.org/log"
	"github.com/xuri/excelize/v2"

	"formulagrid/internal/grid"
)

// XLSXSheetName is the worksheet written by ExportXLSX.
const XLSXSheetName = "Sheet1"

// ExportXLSX writes the sheet as a workbook: formula cells as formulas with their
// computed value cached, numbers as numbers and everything else as strings.
func ExportXLSX(sheet *grid.Sheet, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, label := range sheet.Labels() {
		if err := exportCell(f, label, sheet.Get(label)); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("error saving workbook: %w", err)
	}
	return nil
}

func exportCell(f *excelize.File, label string, cell *grid.Cell) error {
	switch {
	case cell.IsLabel():
		return f.SetCellValue(XLSXSheetName, label, cell.Text)
	case !cell.IsFormula():
		return f.SetCellValue(XLSXSheetName, label, cell.Value())
	}

	if err := f.SetCellValue(XLSXSheetName, label, cell.Display()); err != nil {
		return err
	}
	return f.SetCellFormula(XLSXSheetName, label, strings.TrimPrefix(cell.Text, "="))
}

// ImportXLSX reads the first worksheet of a workbook into a new sheet. Formulas
// are read back as "=..." text and evaluated by the grid, not taken from the
// cached values.
func ImportXLSX(filename string) (*grid.Sheet, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", filename)
	}
	name := names[0]

	maxCol, maxRow, err := bounds(f, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	texts := map[string]string{}
	for r := 1; r <= maxRow; r++ {
		for c := 1; c <= maxCol; c++ {
			label, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return nil, err
			}
			if formula, _ := f.GetCellFormula(name, label); formula != "" {
				texts[label] = "=" + formula
				continue
			}
			if val, _ := f.GetCellValue(name, label); val != "" {
				texts[label] = val
			}
		}
	}

	sheet := grid.NewSheet()
	sheet.Load(texts)
	log.LogVf("imported %d cells from %s!%s", sheet.Len(), filename, name)
	return sheet, nil
}

// bounds returns the 1-based extent of a worksheet from its stored dimension and
// from the rows that carry values, whichever is larger.
func bounds(f *excelize.File, name string) (int, int, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return 0, 0, err
	}
	maxCol, maxRow := 0, len(rows)
	for _, row := range rows {
		maxCol = max(maxCol, len(row))
	}

	if dim, derr := f.GetSheetDimension(name); derr == nil && dim != "" {
		parts := strings.Split(dim, ":")
		if x, y, cerr := excelize.CellNameToCoordinates(parts[len(parts)-1]); cerr == nil {
			maxCol, maxRow = max(maxCol, x), max(maxRow, y)
		}
	}
	return maxCol, maxRow, nil
}
