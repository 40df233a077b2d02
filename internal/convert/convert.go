// Package convert builds type graphs from JSON Schema documents.
//
// Input is decoded with ordered maps so that properties are converted, and
// therefore numbered, in the order they appear in the source document.
package convert

import (
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/conduit-lang/typegraph/internal/types"
)

// defaultObjectName names objects without a title.
const defaultObjectName = "object"

// UnsupportedSchemaError is returned for schema constructs the converter cannot express.
type UnsupportedSchemaError struct {
	Type string
	Path string
}

func (e *UnsupportedSchemaError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("unsupported schema at %s: missing type", e.Path)
	}
	return fmt.Sprintf("unsupported schema type %q at %s", e.Type, e.Path)
}

// Document is one generator input: a resource type, its API version and its body schema.
type Document struct {
	Type    string
	Version string
	Schema  yaml.MapSlice
}

// ResourceName returns the index key of the document's resource ("type@version").
func (d *Document) ResourceName() string {
	return d.Type + "@" + d.Version
}

// ParseDocument decodes a JSON or YAML generator input of the form
// {type, version, schema: {embedded: <JSON Schema>}}.
func ParseDocument(data []byte) (*Document, error) {
	root, err := decode(data)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Type:    scalarString(lookup(root, "type")),
		Version: scalarString(lookup(root, "version")),
	}
	if doc.Type == "" {
		return nil, fmt.Errorf("input is missing \"type\"")
	}
	if doc.Version == "" {
		return nil, fmt.Errorf("input is missing \"version\"")
	}

	wrapper, ok := lookup(root, "schema").(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("input is missing \"schema\"")
	}
	if embedded, ok := lookup(wrapper, "embedded").(yaml.MapSlice); ok {
		doc.Schema = embedded
	} else {
		doc.Schema = wrapper
	}
	return doc, nil
}

// ParseSchema decodes a bare JSON Schema document.
func ParseSchema(data []byte) (yaml.MapSlice, error) {
	return decode(data)
}

func decode(data []byte) (yaml.MapSlice, error) {
	var root interface{}
	if err := yaml.UnmarshalWithOptions(data, &root, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	m, ok := root.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("input must be an object, got %T", root)
	}
	return m, nil
}

// Converter turns schemas into nodes of a factory.
type Converter struct {
	factory *types.Factory
}

// New creates a converter that allocates into f.
func New(f *types.Factory) *Converter {
	return &Converter{factory: f}
}

// ConvertDocument converts the document's body and wraps it in a resource node.
func (c *Converter) ConvertDocument(doc *Document) (*types.ResourceType, error) {
	body, err := c.Convert(doc.Schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.ResourceName(), err)
	}

	res := &types.ResourceType{
		Name:      doc.ResourceName(),
		ScopeType: types.ScopeUnknown,
		Body:      body,
		Flags:     types.ResourceNone,
	}
	c.factory.Create(func() types.Type { return res })
	return res, nil
}

// Convert creates nodes for schema and everything nested in it, children
// first, and returns the reference of the root node.
func (c *Converter) Convert(schema yaml.MapSlice) (types.Reference, error) {
	return c.convert(schema, "#")
}

func (c *Converter) convert(schema yaml.MapSlice, path string) (types.Reference, error) {
	typeName := scalarString(lookup(schema, "type"))
	if typeName == "" {
		switch {
		case lookup(schema, "properties") != nil:
			typeName = "object"
		case lookup(schema, "enum") != nil:
			typeName = "string"
		}
	}
	description := scalarString(lookup(schema, "description"))

	switch typeName {
	case "object":
		return c.convertObject(schema, path, description)
	case "array":
		items, ok := lookup(schema, "items").(yaml.MapSlice)
		if !ok {
			return 0, fmt.Errorf("array at %s has no items schema", path)
		}
		itemRef, err := c.convert(items, path+"/items")
		if err != nil {
			return 0, err
		}
		return c.factory.Create(func() types.Type {
			return &types.ArrayType{
				ItemType:    itemRef,
				MinLength:   intValue(lookup(schema, "minItems")),
				MaxLength:   intValue(lookup(schema, "maxItems")),
				Description: description,
			}
		}), nil
	case "integer", "number":
		return c.factory.Create(func() types.Type {
			return &types.IntegerType{
				MinValue:    intValue(lookup(schema, "minimum")),
				MaxValue:    intValue(lookup(schema, "maximum")),
				Description: description,
			}
		}), nil
	case "string":
		if enum, ok := lookup(schema, "enum").([]interface{}); ok && len(enum) > 0 {
			return c.convertEnum(enum, description), nil
		}
		return c.factory.Create(func() types.Type {
			return &types.StringType{
				MinLength:   intValue(lookup(schema, "minLength")),
				MaxLength:   intValue(lookup(schema, "maxLength")),
				Pattern:     scalarString(lookup(schema, "pattern")),
				Sensitive:   scalarString(lookup(schema, "format")) == "password",
				Description: description,
			}
		}), nil
	case "boolean":
		return c.factory.Create(func() types.Type {
			return &types.BooleanType{Description: description}
		}), nil
	default:
		return 0, &UnsupportedSchemaError{Type: typeName, Path: path}
	}
}

func (c *Converter) convertObject(schema yaml.MapSlice, path, description string) (types.Reference, error) {
	name := scalarString(lookup(schema, "title"))
	if name == "" {
		name = defaultObjectName
	}

	required := make(map[string]bool)
	if list, ok := lookup(schema, "required").([]interface{}); ok {
		for _, item := range list {
			required[scalarString(item)] = true
		}
	}

	var props []types.ObjectProperty
	if properties, ok := lookup(schema, "properties").(yaml.MapSlice); ok {
		for _, item := range properties {
			propName := scalarString(item.Key)
			propSchema, ok := item.Value.(yaml.MapSlice)
			if !ok {
				return 0, fmt.Errorf("property %q at %s is not a schema", propName, path)
			}

			ref, err := c.convert(propSchema, path+"/properties/"+propName)
			if err != nil {
				return 0, err
			}

			flags := types.PropertyNone
			if required[propName] {
				flags |= types.PropertyRequired
			}
			if boolValue(lookup(propSchema, "readOnly")) {
				flags |= types.PropertyReadOnly
			}
			if boolValue(lookup(propSchema, "writeOnly")) {
				flags |= types.PropertyWriteOnly
			}

			props = append(props, types.ObjectProperty{
				Name:        propName,
				Type:        ref,
				Flags:       flags,
				Description: scalarString(lookup(propSchema, "description")),
			})
		}
	}

	var additional *types.Reference
	switch v := lookup(schema, "additionalProperties").(type) {
	case yaml.MapSlice:
		ref, err := c.convert(v, path+"/additionalProperties")
		if err != nil {
			return 0, err
		}
		additional = &ref
	case bool:
		if v {
			ref := c.factory.Create(func() types.Type { return &types.AnyType{} })
			additional = &ref
		}
	}

	return c.factory.Create(func() types.Type {
		return &types.ObjectType{
			Name:                 name,
			Properties:           props,
			AdditionalProperties: additional,
			Description:          description,
		}
	}), nil
}

func (c *Converter) convertEnum(values []interface{}, description string) types.Reference {
	members := make([]types.Reference, 0, len(values))
	for _, v := range values {
		value := scalarString(v)
		members = append(members, c.factory.Create(func() types.Type {
			return &types.StringLiteralType{Value: value}
		}))
	}
	if len(members) == 1 {
		return members[0]
	}
	return c.factory.Create(func() types.Type {
		return &types.UnionType{Elements: members, Description: description}
	})
}

func lookup(m yaml.MapSlice, key string) interface{} {
	for _, item := range m {
		if k, ok := item.Key.(string); ok && k == key {
			return item.Value
		}
	}
	return nil
}

func scalarString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case time.Time:
		return s.Format("2006-01-02")
	default:
		return fmt.Sprint(s)
	}
}

func boolValue(v interface{}) bool {
	b, ok := v.(bool)
	return ok && b
}

func intValue(v interface{}) *int64 {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case uint64:
		if x > math.MaxInt64 {
			return nil
		}
		n = int64(x)
	case float64:
		if x != math.Trunc(x) {
			return nil
		}
		n = int64(x)
	default:
		return nil
	}
	return &n
}
