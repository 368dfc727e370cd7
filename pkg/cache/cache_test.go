package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestWriteReadJSON_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "widget.json")
	in := widget{Name: "gear", Count: 3}

	require.NoError(t, WriteJSON(path, in))
	assert.True(t, Exists(path))

	out, err := ReadJSON[widget](path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteReadGzipJSON_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "widget.json.gz")
	in := widget{Name: "bolt", Count: 7}

	require.NoError(t, WriteGzipJSON(path, in))

	out, err := ReadGzipJSON[widget](path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestExists_FalseForMissingOrDirectory(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(filepath.Join(dir, "missing.json")))
	assert.False(t, Exists(dir))
}

func TestReadJSON_MissingFileErrors(t *testing.T) {
	_, err := ReadJSON[widget](filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
