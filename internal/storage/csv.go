package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"

	"formulagrid/internal/grid"
)

// SaveCSV writes the raw text of every cell; formulas keep their leading "=".
func SaveCSV(sheet *grid.Sheet, filename string) error {
	maxR, maxC := sheet.Extent()

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	if maxR < 0 || maxC < 0 {
		return nil
	}

	out := make([][]string, maxR+1)
	for r := 0; r <= maxR; r++ {
		row := make([]string, maxC+1)
		for c := 0; c <= maxC; c++ {
			if cell := sheet.At(r, c); cell != nil {
				row[c] = cell.Text
			}
		}
		out[r] = row
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(out); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

// LoadCSV reads a CSV file into a new, recalculated sheet.
func LoadCSV(filename string) (*grid.Sheet, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}

	texts := map[string]string{}
	for rIdx, row := range records {
		for cIdx, val := range row {
			if val != "" {
				texts[grid.ColRowToName(cIdx, rIdx)] = val
			}
		}
	}

	sheet := grid.NewSheet()
	sheet.Load(texts)
	return sheet, nil
}
