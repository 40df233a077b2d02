package commands

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/typegraph/internal/catalog"
	"github.com/conduit-lang/typegraph/internal/schema"
	"github.com/conduit-lang/typegraph/internal/types"
)

const widgetName = "Test.Provider/widgets@2024-01-01"

// generated writes widgets.json and gadgets.yaml into a fresh directory and
// generates a catalog from them into <dir>/out.
func generated(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "widgets.json", widgetInput)
	writeFile(t, dir, "gadgets.yaml", gadgetInput)
	_, _, err := execute(t, dir, "generate", "widgets.json", "gadgets.yaml", "-o", "out")
	require.NoError(t, err)
	return dir
}

func TestList(t *testing.T) {
	dir := generated(t)

	stdout, _, err := execute(t, dir, "list", "--catalog", "out")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Name:      Testing\n")
	assert.Contains(t, stdout, "Version:   0.0.1\n")
	assert.Contains(t, stdout, "RESOURCE TYPE")
	assert.Contains(t, stdout, "Test.Provider/gadgets@v1          types.json  #/11\n")
	assert.Contains(t, stdout, widgetName+"  types.json  #/8\n")
	assert.Less(t, strings.Index(stdout, "gadgets"), strings.Index(stdout, "widgets"), "rows are sorted")

	stdout, _, err = execute(t, dir, "list", "--catalog", "out", "--prefix", "Test.Provider/w")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "gadgets")
	assert.Contains(t, stdout, widgetName)

	stdout, _, err = execute(t, dir, "list", "--catalog", "out", "--prefix", "Nothing")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No resource types found.")
}

func TestList_CatalogFromConfig(t *testing.T) {
	dir := generated(t)
	writeFile(t, dir, "typegraph.yml", "catalog:\n  dir: out\n")

	stdout, _, err := execute(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, widgetName)
}

func TestList_MissingCatalog(t *testing.T) {
	_, _, err := execute(t, t.TempDir(), "list", "--catalog", "missing")
	assert.Error(t, err)
}

func TestProperties(t *testing.T) {
	dir := generated(t)

	stdout, _, err := execute(t, dir, "properties", widgetName, "--catalog", "out")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Resource type: "+widgetName)
	assert.Contains(t, stdout, "Scopes:        Unknown")
	assert.Contains(t, stdout, "Body:          Widget (#/7)")

	lines := strings.Split(stdout, "\n")
	var rows []string
	for _, line := range lines {
		if strings.HasPrefix(line, "name ") || strings.HasPrefix(line, "id ") ||
			strings.HasPrefix(line, "tags ") || strings.HasPrefix(line, "tier ") {
			rows = append(rows, strings.Join(strings.Fields(line), " "))
		}
	}
	assert.Equal(t, []string{
		"name string Required display name",
		"id string ReadOnly",
		"tags string[] None",
		"tier 'basic' | 'premium' None",
	}, rows)
}

func TestProperties_NotFound(t *testing.T) {
	dir := generated(t)

	_, stderr, err := execute(t, dir, "properties", "Test.Provider/wigets@2024-01-01", "--catalog", "out")
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrResourceNotFound))
	assert.Contains(t, stderr, "RESOURCE TYPE NOT FOUND")
	assert.Contains(t, stderr, "Did you mean: "+widgetName+"?")
}

func TestDescribeType(t *testing.T) {
	f := types.NewFactory(nil)
	str := f.Create(func() types.Type { return &types.StringType{} })
	secret := f.Create(func() types.Type { return &types.StringType{Sensitive: true} })
	arr := f.Create(func() types.Type { return &types.ArrayType{ItemType: str} })
	self := f.Create(func() types.Type { return &types.ArrayType{ItemType: 3} })
	integer := f.Create(func() types.Type { return &types.IntegerType{} })
	union := f.Create(func() types.Type { return &types.UnionType{Elements: []types.Reference{integer, arr}} })
	nodes := f.Types()

	assert.Equal(t, "string", describeType(nodes, str, 0))
	assert.Equal(t, "string (secure)", describeType(nodes, secret, 0))
	assert.Equal(t, "string[]", describeType(nodes, arr, 0))
	assert.Equal(t, "...[][][][][]", describeType(nodes, self, 0))
	assert.Equal(t, "int | string[]", describeType(nodes, union, 0))
	assert.Equal(t, "<dangling #/42>", describeType(nodes, 42, 0))
}

// partialCatalog writes a catalog where one resource body cannot be projected.
func partialCatalog(t *testing.T) string {
	t.Helper()

	f := types.NewFactory(nil)
	str := f.Create(func() types.Type { return &types.StringType{} })
	body := f.Create(func() types.Type {
		return &types.ObjectType{Name: "Good", Properties: []types.ObjectProperty{
			{Name: "a", Type: str, Flags: types.PropertyRequired},
		}}
	})
	good := &types.ResourceType{Name: "A/good@v1", Body: body}
	f.Create(func() types.Type { return good })
	disc := f.Create(func() types.Type {
		return &types.DiscriminatedObjectType{Name: "Bad", Discriminator: "kind"}
	})
	bad := &types.ResourceType{Name: "A/bad@v1", Body: disc}
	f.Create(func() types.Type { return bad })

	c, err := catalog.FromFactory(f, []*types.ResourceType{good, bad}, &catalog.TypeSettings{Name: "T", Version: "1"})
	require.NoError(t, err)
	files, err := catalog.Serialize(c)
	require.NoError(t, err)

	dir := t.TempDir()
	_, err = catalog.WriteFiles(filepath.Join(dir, "out"), files, false)
	require.NoError(t, err)
	return dir
}

func TestProperties_DiscriminatedBody(t *testing.T) {
	dir := partialCatalog(t)

	stdout, _, err := execute(t, dir, "properties", "A/bad@v1", "--catalog", "out")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Discriminator: kind")
}
