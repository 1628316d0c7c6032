package storage

import (
	"fmt"
	"os"

	json "github.com/bytedance/sonic"

	"formulagrid/internal/grid"
)

// Document is the native file format: cell texts plus the layout of the grid.
type Document struct {
	Cells      map[string]string `json:"cells"`
	ColWidths  []int             `json:"col_widths,omitempty"`
	RowHeights []int             `json:"row_heights,omitempty"`
}

func NewDocument(sheet *grid.Sheet, colWidths, rowHeights []int) *Document {
	return &Document{
		Cells:      sheet.Texts(),
		ColWidths:  append([]int(nil), colWidths...),
		RowHeights: append([]int(nil), rowHeights...),
	}
}

// Sheet builds a recalculated sheet from the document cells.
func (d *Document) Sheet() *grid.Sheet {
	sheet := grid.NewSheet()
	sheet.Load(d.Cells)
	return sheet
}

func SaveDocument(doc *Document, filename string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}
	return os.WriteFile(filename, data, 0o644)
}

func LoadDocument(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%s: error decoding document: %w", filename, err)
	}
	if doc.Cells == nil {
		doc.Cells = map[string]string{}
	}
	return doc, nil
}
