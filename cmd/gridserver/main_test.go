package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleExitError(t *testing.T) {
	var out bytes.Buffer

	assert.Equal(t, 0, HandleExitError(&out, nil))
	assert.Empty(t, out.String())

	assert.Equal(t, ExitCodeMainError, HandleExitError(&out, errors.New("boom")))
	assert.Equal(t, "boom\n", out.String())
}

func TestRunApp_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.yaml")
	assert.NoError(t, writeFile(path, "layout:\n  default_width: 1\n"))

	assert.Error(t, RunApp(path))
}

func writeFile(path, body string) error {
	return os.WriteFile(path, []byte(body), 0o644)
}
