package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"fortio.org/log"
	"gopkg.in/yaml.v3"
)

// DatabaseEnv overrides the database path from the file.
const DatabaseEnv = "GRID_DATABASE"

type Layout struct {
	LeftGutter    int `yaml:"left_gutter"`
	StatusLines   int `yaml:"status_lines"`
	DefaultWidth  int `yaml:"default_width"`
	DefaultHeight int `yaml:"default_height"`
	CellPadding   int `yaml:"cell_padding"`
	InitialCols   int `yaml:"initial_cols"`
	InitialRows   int `yaml:"initial_rows"`
}

type Editing struct {
	EnterStartsEdit     bool `yaml:"enter_starts_edit"`
	PrintableStartsEdit bool `yaml:"printable_starts_edit"`
	MoveAfterEnter      bool `yaml:"move_after_enter"`
	SelectAllOnEdit     bool `yaml:"select_all_on_edit"`
}

type Config struct {
	Layout   Layout  `yaml:"layout"`
	Editing  Editing `yaml:"editing"`
	Database string  `yaml:"database"`
	Listen   string  `yaml:"listen"`
	LogLevel string  `yaml:"log_level"`
	LogFile  string  `yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		Layout: Layout{
			LeftGutter:    4,
			StatusLines:   2,
			DefaultWidth:  16,
			DefaultHeight: 1,
			CellPadding:   1,
			InitialCols:   8,
			InitialRows:   8,
		},
		Editing: Editing{
			EnterStartsEdit: true,
			MoveAfterEnter:  true,
			SelectAllOnEdit: true,
		},
		Database: "grid.db",
		Listen:   ":8080",
		LogLevel: "info",
	}
}

// Load reads path over the defaults. A missing file is not an error; an empty
// path skips the file entirely. The environment is applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.LogVf("config %s not found, using defaults", path)
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	if db := os.Getenv(DatabaseEnv); db != "" {
		cfg.Database = db
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects layouts the grid cannot draw.
func (c *Config) Validate() error {
	l := c.Layout
	switch {
	case l.DefaultWidth < 4:
		return fmt.Errorf("default_width must be at least 4, got %d", l.DefaultWidth)
	case l.DefaultHeight < 1:
		return fmt.Errorf("default_height must be at least 1, got %d", l.DefaultHeight)
	case l.CellPadding < 0 || l.LeftGutter < 0:
		return errors.New("cell_padding and left_gutter must not be negative")
	case l.StatusLines < 2:
		return fmt.Errorf("status_lines must be at least 2, got %d", l.StatusLines)
	}
	return nil
}

// ApplyLogging sets the log level and, when a log file is configured, sends the
// log there. The returned function closes the file.
func (c *Config) ApplyLogging() (func(), error) {
	if c.LogLevel != "" {
		if err := log.SetLogLevelStr(c.LogLevel); err != nil {
			return nil, err
		}
	}
	if c.LogFile == "" {
		return func() {}, nil
	}

	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}
