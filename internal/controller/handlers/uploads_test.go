package handlers

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")

	require.NoError(t, writeFile(path, strings.NewReader("hello")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(raw))
}

func TestWriteFileRemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.bin")
	readErr := errors.New("connection reset")
	src := io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(readErr))

	err := writeFile(path, src)
	assert.ErrorIs(t, err, readErr)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "partial file must be removed")
}

func TestWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "file.bin")
	assert.Error(t, writeFile(path, strings.NewReader("x")))
}
