package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/typegraph/internal/loader"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "widgets.json", widgetInput)
	writeFile(t, dir, "gadgets.yaml", gadgetInput)

	stdout, _, err := execute(t, dir, "generate", "widgets.json", "gadgets.yaml", "-o", "out", "--name", "Demo", "--version", "2.0.0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Generated 2 resource type(s)")
	assert.Contains(t, stdout, filepath.Join("out", "index.json"))
	assert.Contains(t, stdout, filepath.Join("out", "types.json"))

	l, err := loader.NewDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	c, err := l.LoadCatalog()
	require.NoError(t, err)

	assert.Equal(t, []string{"Test.Provider/gadgets@v1", "Test.Provider/widgets@2024-01-01"}, c.Index.ResourceNames())
	assert.Equal(t, "Demo", c.Index.Settings.Name)
	assert.Equal(t, "2.0.0", c.Index.Settings.Version)
	assert.False(t, c.Index.Settings.IsSingleton)

	// widgets: name, id, tags item, tags, basic, premium, tier union, body, resource.
	assert.Equal(t, 8, c.Index.Resources["Test.Provider/widgets@2024-01-01"].Index)
	assert.Equal(t, 11, c.Index.Resources["Test.Provider/gadgets@v1"].Index)
}

func TestGenerate_ConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "widgets.json", widgetInput)
	writeFile(t, dir, "typegraph.yml", `
output:
  dir: dist
  compress: true
settings:
  name: FromConfig
  singleton: true
`)

	_, _, err := execute(t, dir, "generate", "widgets.json")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "dist", "index.json.gz"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "dist", "types.json.gz"))
	require.NoError(t, err)

	l, err := loader.NewDir(filepath.Join(dir, "dist"))
	require.NoError(t, err)
	index, err := l.LoadTypeIndex()
	require.NoError(t, err)
	assert.Equal(t, "FromConfig", index.Settings.Name)
	assert.Equal(t, "0.0.1", index.Settings.Version)
	assert.True(t, index.Settings.IsSingleton)
}

func TestGenerate_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "widgets.json", widgetInput)
	writeFile(t, dir, "bad.json", `{"type": "A/b", "version": "v1", "schema": {"type": "null"}}`)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no inputs", []string{"generate"}, "requires at least 1 arg"},
		{"missing file", []string{"generate", "nope.json"}, "failed to read nope.json"},
		{"duplicate resource", []string{"generate", "widgets.json", "widgets.json"}, "already defined in widgets.json"},
		{"unsupported schema", []string{"generate", "bad.json"}, `unsupported schema type "null"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, dir, tt.args...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	_, err := os.Stat(filepath.Join(dir, "output"))
	assert.True(t, os.IsNotExist(err), "failed runs must not write a catalog")
}

func TestGenerate_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "schemas/widgets.json", widgetInput)
	writeFile(t, dir, "schemas/more/gadgets.yaml", gadgetInput)
	writeFile(t, dir, "schemas/README.md", "# not an input")

	stdout, _, err := execute(t, dir, "generate", "schemas")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 2 resource type(s)")

	l, err := loader.NewDir(filepath.Join(dir, "output"))
	require.NoError(t, err)
	index, err := l.LoadTypeIndex()
	require.NoError(t, err)
	// schemas/more/gadgets.yaml sorts before schemas/widgets.json.
	assert.Equal(t, 2, index.Resources["Test.Provider/gadgets@v1"].Index)
}
