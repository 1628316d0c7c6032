package storage

import (
	"errors"
	"fmt"
	"strings"

	"go.etcd.io/bbolt"

	"formulagrid/internal/grid"
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrCellNotFound  = errors.New("cell not found")
	ErrInvalidLabel  = errors.New("invalid cell label")
)

// BoltStore keeps sheets in a bbolt database, one bucket per sheet holding the
// raw text of each cell under its canonical label. Sheet ids are case-insensitive.
type BoltStore struct {
	db *bbolt.DB
}

func OpenBolt(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Path() string {
	return s.db.Path()
}

func sheetKey(sheetID string) []byte {
	return []byte(strings.ToLower(sheetID))
}

func cellKey(label string) ([]byte, error) {
	canonical, ok := grid.Canonical(label)
	if !ok {
		return nil, fmt.Errorf("%s: %w", label, ErrInvalidLabel)
	}
	return []byte(canonical), nil
}

// PutCell stores text for the cell, creating the sheet if needed. Empty text
// deletes the cell.
func (s *BoltStore) PutCell(sheetID, label, text string) error {
	if text == "" {
		err := s.DeleteCell(sheetID, label)
		if errors.Is(err, ErrSheetNotFound) || errors.Is(err, ErrCellNotFound) {
			return nil
		}
		return err
	}

	key, err := cellKey(label)
	if err != nil {
		return err
	}

	return s.db.Batch(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(sheetKey(sheetID))
		if err != nil {
			return err
		}
		return bucket.Put(key, []byte(text))
	})
}

func (s *BoltStore) GetCell(sheetID, label string) (text string, err error) {
	key, err := cellKey(label)
	if err != nil {
		return "", err
	}

	err = s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(sheetKey(sheetID))
		if bucket == nil {
			return fmt.Errorf("%s: %w", sheetID, ErrSheetNotFound)
		}
		value := bucket.Get(key)
		if value == nil {
			return fmt.Errorf("%s: %w", label, ErrCellNotFound)
		}
		text = string(value)
		return nil
	})
	return
}

func (s *BoltStore) DeleteCell(sheetID, label string) error {
	key, err := cellKey(label)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(sheetKey(sheetID))
		if bucket == nil {
			return fmt.Errorf("%s: %w", sheetID, ErrSheetNotFound)
		}
		if bucket.Get(key) == nil {
			return fmt.Errorf("%s: %w", label, ErrCellNotFound)
		}
		return bucket.Delete(key)
	})
}

// Texts returns the raw text of every cell of a sheet keyed by label.
func (s *BoltStore) Texts(sheetID string) (map[string]string, error) {
	texts := map[string]string{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(sheetKey(sheetID))
		if bucket == nil {
			return fmt.Errorf("%s: %w", sheetID, ErrSheetNotFound)
		}

		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			texts[string(k)] = string(v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return texts, nil
}

// LoadSheet reads a whole sheet and recalculates it.
func (s *BoltStore) LoadSheet(sheetID string) (*grid.Sheet, error) {
	texts, err := s.Texts(sheetID)
	if err != nil {
		return nil, err
	}
	sheet := grid.NewSheet()
	sheet.Load(texts)
	return sheet, nil
}

// SaveSheet replaces the stored sheet with the contents of sheet.
func (s *BoltStore) SaveSheet(sheetID string, sheet *grid.Sheet) error {
	name := sheetKey(sheetID)
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(name) != nil {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		bucket, err := tx.CreateBucket(name)
		if err != nil {
			return err
		}
		for label, text := range sheet.Texts() {
			if err := bucket.Put([]byte(label), []byte(text)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Sheets lists the stored sheet ids in key order.
func (s *BoltStore) Sheets() ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			ids = append(ids, string(name))
			return nil
		})
	})
	return ids, err
}
