package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInputFile(t *testing.T) {
	assert.True(t, IsInputFile("a/widgets.json"))
	assert.True(t, IsInputFile("b.YAML"))
	assert.True(t, IsInputFile("c.yml"))
	assert.False(t, IsInputFile("d.txt"))
	assert.False(t, IsInputFile("json"))
}

func TestFindInputFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.json", "notes.txt", "nested/c.yml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	}

	files, err := FindInputFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "nested", "c.yml"),
	}, files)

	_, err = FindInputFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte("{}"), 0o644))
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))

	inputs, err := ExpandInputs([]string{"explicit.txt", dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"explicit.txt", filepath.Join(dir, "a.json")}, inputs)

	_, err = ExpandInputs([]string{empty})
	assert.ErrorContains(t, err, "no input files found")
}
