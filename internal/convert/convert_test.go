package convert

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/typegraph/internal/schema"
	"github.com/conduit-lang/typegraph/internal/types"
)

const widgetInput = `{
  "type": "Test.Provider/widgets",
  "version": "2024-01-01",
  "schema": {
    "embedded": {
      "type": "object",
      "title": "Widget",
      "required": ["name", "size"],
      "properties": {
        "name": {"type": "string", "description": "display name", "maxLength": 64},
        "size": {"type": "integer", "minimum": 1},
        "id": {"type": "string", "readOnly": true},
        "tags": {"type": "array", "items": {"type": "string"}},
        "enabled": {"type": "boolean"},
        "tier": {"type": "string", "enum": ["basic", "premium"]}
      }
    }
  }
}`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(widgetInput))
	require.NoError(t, err)

	assert.Equal(t, "Test.Provider/widgets", doc.Type)
	assert.Equal(t, "2024-01-01", doc.Version)
	assert.Equal(t, "Test.Provider/widgets@2024-01-01", doc.ResourceName())
	assert.Equal(t, "object", scalarString(lookup(doc.Schema, "type")))
}

func TestParseDocument_YAML(t *testing.T) {
	doc, err := ParseDocument([]byte(`
type: Test.Provider/gadgets
version: "2024-02-02"
schema:
  type: object
  properties:
    b:
      type: string
    a:
      type: boolean
`))
	require.NoError(t, err)
	assert.Equal(t, "Test.Provider/gadgets@2024-02-02", doc.ResourceName())

	f := types.NewFactory(nil)
	res, err := New(f).ConvertDocument(doc)
	require.NoError(t, err)

	body, err := f.Type(res.Body)
	require.NoError(t, err)
	obj := body.(*types.ObjectType)
	assert.Equal(t, "object", obj.Name, "untitled objects get a default name")
	require.Len(t, obj.Properties, 2)
	assert.Equal(t, "b", obj.Properties[0].Name, "property order follows the input")
	assert.Equal(t, "a", obj.Properties[1].Name)
}

func TestParseDocument_Errors(t *testing.T) {
	tests := map[string]string{
		"not an object":   `[1, 2]`,
		"missing type":    `{"version": "v1", "schema": {}}`,
		"missing version": `{"type": "A/b", "schema": {}}`,
		"missing schema":  `{"type": "A/b", "version": "v1"}`,
		"invalid syntax":  `{"type": `,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDocument([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestConvertDocument_CreatesChildrenFirst(t *testing.T) {
	doc, err := ParseDocument([]byte(widgetInput))
	require.NoError(t, err)

	f := types.NewFactory(nil)
	res, err := New(f).ConvertDocument(doc)
	require.NoError(t, err)

	nodes := f.Types()
	kinds := make([]types.Kind, len(nodes))
	for i, n := range nodes {
		kinds[i] = n.Kind()
	}
	assert.Equal(t, []types.Kind{
		types.KindString,        // name
		types.KindInteger,       // size
		types.KindString,        // id
		types.KindString,        // tags items
		types.KindArray,         // tags
		types.KindBoolean,       // enabled
		types.KindStringLiteral, // basic
		types.KindStringLiteral, // premium
		types.KindUnion,         // tier
		types.KindObject,        // body
		types.KindResource,
	}, kinds)

	idx, err := f.GetIndex(res)
	require.NoError(t, err)
	assert.Equal(t, len(nodes)-1, idx)
	assert.Equal(t, types.Reference(9), res.Body)
	assert.Equal(t, types.ScopeUnknown, res.ScopeType)

	obj := nodes[res.Body].(*types.ObjectType)
	assert.Equal(t, "Widget", obj.Name)

	name, ok := obj.Property("name")
	require.True(t, ok)
	assert.Equal(t, types.PropertyRequired, name.Flags)
	assert.Equal(t, "display name", name.Description)
	require.NotNil(t, nodes[name.Type].(*types.StringType).MaxLength)
	assert.Equal(t, int64(64), *nodes[name.Type].(*types.StringType).MaxLength)

	id, ok := obj.Property("id")
	require.True(t, ok)
	assert.Equal(t, types.PropertyReadOnly, id.Flags)

	size, ok := obj.Property("size")
	require.True(t, ok)
	require.NotNil(t, nodes[size.Type].(*types.IntegerType).MinValue)
	assert.Equal(t, int64(1), *nodes[size.Type].(*types.IntegerType).MinValue)
}

func TestConvert_ProjectsBack(t *testing.T) {
	doc, err := ParseDocument([]byte(widgetInput))
	require.NoError(t, err)

	f := types.NewFactory(nil)
	res, err := New(f).ConvertDocument(doc)
	require.NoError(t, err)

	idx, err := f.GetIndex(res)
	require.NoError(t, err)

	s, err := schema.ProjectResource(f.Types(), types.Reference(idx))
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"size": {"type": "number"},
			"tags": {"type": "array", "items": {"type": "string"}},
			"enabled": {"type": "boolean"},
			"tier": {"type": "string"}
		},
		"required": ["name", "size"]
	}`, string(data))
}

func TestConvert_AdditionalProperties(t *testing.T) {
	m, err := ParseSchema([]byte(`{
		"type": "object",
		"properties": {
			"labels": {"type": "object", "additionalProperties": {"type": "string"}},
			"extra": {"type": "object", "additionalProperties": true}
		}
	}`))
	require.NoError(t, err)

	f := types.NewFactory(nil)
	ref, err := New(f).Convert(m)
	require.NoError(t, err)

	root, err := f.Type(ref)
	require.NoError(t, err)
	obj := root.(*types.ObjectType)

	labels, _ := obj.Property("labels")
	labelsNode, err := f.Type(labels.Type)
	require.NoError(t, err)
	require.NotNil(t, labelsNode.(*types.ObjectType).AdditionalProperties)
	valueNode, err := f.Type(*labelsNode.(*types.ObjectType).AdditionalProperties)
	require.NoError(t, err)
	assert.Equal(t, types.KindString, valueNode.Kind())

	extra, _ := obj.Property("extra")
	extraNode, err := f.Type(extra.Type)
	require.NoError(t, err)
	anyNode, err := f.Type(*extraNode.(*types.ObjectType).AdditionalProperties)
	require.NoError(t, err)
	assert.Equal(t, types.KindAny, anyNode.Kind())
}

func TestConvert_Unsupported(t *testing.T) {
	m, err := ParseSchema([]byte(`{"type": "object", "properties": {"when": {"type": "null"}}}`))
	require.NoError(t, err)

	_, err = New(types.NewFactory(nil)).Convert(m)
	var unsupported *UnsupportedSchemaError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "null", unsupported.Type)
	assert.Equal(t, "#/properties/when", unsupported.Path)

	m, err = ParseSchema([]byte(`{"description": "no type"}`))
	require.NoError(t, err)
	_, err = New(types.NewFactory(nil)).Convert(m)
	assert.True(t, errors.As(err, &unsupported))

	m, err = ParseSchema([]byte(`{"type": "array"}`))
	require.NoError(t, err)
	_, err = New(types.NewFactory(nil)).Convert(m)
	assert.ErrorContains(t, err, "no items")
}

func TestConvert_SingleValueEnum(t *testing.T) {
	m, err := ParseSchema([]byte(`{"enum": ["only"]}`))
	require.NoError(t, err)

	f := types.NewFactory(nil)
	ref, err := New(f).Convert(m)
	require.NoError(t, err)

	node, err := f.Type(ref)
	require.NoError(t, err)
	assert.Equal(t, &types.StringLiteralType{Value: "only"}, node)
	assert.Equal(t, 1, f.Len())
}
