package api

import (
	"errors"
	"fmt"
	"sync"

	"formulagrid/internal/grid"
	"formulagrid/internal/storage"
)

// Cell is the API view of a cell: the text as written, what it evaluates to and
// the error code if evaluation failed.
type Cell struct {
	Value  string `json:"value"`
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

type CellList map[string]*Cell

type SheetService interface {
	SetCell(sheetID, cellID, value string) (*Cell, error)
	GetCell(sheetID, cellID string) (*Cell, error)
	GetCellList(sheetID string) (CellList, error)
	Sheets() ([]string, error)
}

// StoreService evaluates sheets kept in a BoltStore. Every call loads the whole
// sheet and recalculates it, so results always reflect the stored texts.
type StoreService struct {
	store *storage.BoltStore
	mu    sync.Mutex
}

func NewStoreService(store *storage.BoltStore) *StoreService {
	return &StoreService{store: store}
}

func (s *StoreService) load(sheetID string) (*grid.Sheet, error) {
	texts, err := s.store.Texts(sheetID)
	if err != nil {
		return nil, err
	}
	sheet := grid.NewSheet()
	sheet.Load(texts)
	return sheet, nil
}

func (s *StoreService) SetCell(sheetID, cellID, value string) (*Cell, error) {
	label, ok := grid.Canonical(cellID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", cellID, storage.ErrInvalidLabel)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, err := s.load(sheetID)
	if errors.Is(err, storage.ErrSheetNotFound) {
		sheet, err = grid.NewSheet(), nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.PutCell(sheetID, label, value); err != nil {
		return nil, err
	}
	sheet.Set(label, value)

	if cell := sheet.Get(label); cell != nil {
		return toCell(cell), nil
	}
	return &Cell{}, nil
}

func (s *StoreService) GetCell(sheetID, cellID string) (*Cell, error) {
	label, ok := grid.Canonical(cellID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", cellID, storage.ErrCellNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, err := s.load(sheetID)
	if err != nil {
		return nil, err
	}
	cell := sheet.Get(label)
	if cell == nil {
		return nil, fmt.Errorf("%s: %w", cellID, storage.ErrCellNotFound)
	}
	return toCell(cell), nil
}

func (s *StoreService) GetCellList(sheetID string) (CellList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, err := s.load(sheetID)
	if err != nil {
		return nil, err
	}

	list := CellList{}
	for _, label := range sheet.Labels() {
		list[label] = toCell(sheet.Get(label))
	}
	return list, nil
}

func (s *StoreService) Sheets() ([]string, error) {
	return s.store.Sheets()
}

func toCell(c *grid.Cell) *Cell {
	out := &Cell{Value: c.Text, Error: c.Error()}
	if c.IsLabel() {
		out.Result = c.Text
	} else {
		out.Result = grid.FormatValue(c.Value())
	}
	return out
}
