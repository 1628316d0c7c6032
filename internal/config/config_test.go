package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "grid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults_without_file", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("missing_file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("overrides", func(t *testing.T) {
		path := writeConfig(t, `
layout:
  default_width: 10
editing:
  move_after_enter: false
database: /tmp/sheets.db
log_level: debug
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 10, cfg.Layout.DefaultWidth)
		assert.Equal(t, 4, cfg.Layout.LeftGutter)
		assert.False(t, cfg.Editing.MoveAfterEnter)
		assert.True(t, cfg.Editing.EnterStartsEdit)
		assert.Equal(t, "/tmp/sheets.db", cfg.Database)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, ":8080", cfg.Listen)
	})

	t.Run("env_wins", func(t *testing.T) {
		t.Setenv(DatabaseEnv, "/var/lib/grid.db")
		path := writeConfig(t, "database: other.db\n")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/grid.db", cfg.Database)
	})

	t.Run("invalid_yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "layout: [1, 2"))
		assert.Error(t, err)
	})

	t.Run("invalid_layout", func(t *testing.T) {
		_, err := Load(writeConfig(t, "layout:\n  default_width: 2\n"))
		assert.ErrorContains(t, err, "default_width")
	})
}

func TestApplyLogging(t *testing.T) {
	cfg := Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "grid.log")

	done, err := cfg.ApplyLogging()
	require.NoError(t, err)
	done()

	_, err = os.Stat(cfg.LogFile)
	assert.NoError(t, err)

	cfg.LogLevel = "loud"
	_, err = cfg.ApplyLogging()
	assert.Error(t, err)
}
