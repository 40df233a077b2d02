package catalog

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/conduit-lang/typegraph/internal/types"
	"github.com/conduit-lang/typegraph/internal/util/orderedjson"
)

const kindKey = "$type"

type propertyRecord struct {
	Type        *types.Reference    `json:"type"`
	Flags       types.PropertyFlags `json:"flags"`
	Description string              `json:"description,omitempty"`
}

type nodeRecord struct {
	Kind                 types.Kind          `json:"$type"`
	Description          string              `json:"description,omitempty"`
	Name                 string              `json:"name,omitempty"`
	Value                *string             `json:"value,omitempty"`
	Sensitive            bool                `json:"sensitive,omitempty"`
	MinLength            *int64              `json:"minLength,omitempty"`
	MaxLength            *int64              `json:"maxLength,omitempty"`
	Pattern              string              `json:"pattern,omitempty"`
	MinValue             *int64              `json:"minValue,omitempty"`
	MaxValue             *int64              `json:"maxValue,omitempty"`
	ItemType             *types.Reference    `json:"itemType,omitempty"`
	Properties           orderedjson.Object  `json:"properties,omitempty"`
	AdditionalProperties *types.Reference    `json:"additionalProperties,omitempty"`
	Discriminator        string              `json:"discriminator,omitempty"`
	BaseProperties       orderedjson.Object  `json:"baseProperties,omitempty"`
	Elements             json.RawMessage     `json:"elements,omitempty"`
	ScopeType            types.ScopeType     `json:"scopeType,omitempty"`
	ReadOnlyScopes       *types.ScopeType    `json:"readOnlyScopes,omitempty"`
	Body                 *types.Reference    `json:"body,omitempty"`
	Flags                types.ResourceFlags `json:"flags,omitempty"`
}

// encodeNode writes a node as an ordered record: the kind tag first, then the
// kind-specific fields in a fixed order.
func encodeNode(node types.Type) (orderedjson.Object, error) {
	var obj orderedjson.Object
	add := func(key string, v interface{}) {
		_ = obj.Add(key, v)
	}
	add(kindKey, node.Kind())

	var description string
	switch t := node.(type) {
	case *types.AnyType:
		description = t.Description
	case *types.NullType:
		description = t.Description
	case *types.BooleanType:
		description = t.Description
	case *types.IntegerType:
		if t.MinValue != nil {
			add("minValue", *t.MinValue)
		}
		if t.MaxValue != nil {
			add("maxValue", *t.MaxValue)
		}
		description = t.Description
	case *types.StringType:
		if t.Sensitive {
			add("sensitive", true)
		}
		if t.MinLength != nil {
			add("minLength", *t.MinLength)
		}
		if t.MaxLength != nil {
			add("maxLength", *t.MaxLength)
		}
		if t.Pattern != "" {
			add("pattern", t.Pattern)
		}
		description = t.Description
	case *types.StringLiteralType:
		add("value", t.Value)
		description = t.Description
	case *types.ArrayType:
		add("itemType", t.ItemType)
		if t.MinLength != nil {
			add("minLength", *t.MinLength)
		}
		if t.MaxLength != nil {
			add("maxLength", *t.MaxLength)
		}
		description = t.Description
	case *types.ObjectType:
		add("name", t.Name)
		props, err := encodeProperties(t.Properties)
		if err != nil {
			return nil, err
		}
		add("properties", props)
		if t.AdditionalProperties != nil {
			add("additionalProperties", *t.AdditionalProperties)
		}
		if t.Sensitive {
			add("sensitive", true)
		}
		description = t.Description
	case *types.DiscriminatedObjectType:
		add("name", t.Name)
		add("discriminator", t.Discriminator)
		props, err := encodeProperties(t.BaseProperties)
		if err != nil {
			return nil, err
		}
		add("baseProperties", props)
		elements := orderedjson.Object{}
		for _, e := range t.Elements {
			if _, dup := elements.Get(e.Value); dup {
				return nil, fmt.Errorf("duplicate discriminator value %q", e.Value)
			}
			_ = elements.Add(e.Value, e.Type)
		}
		add("elements", elements)
		description = t.Description
	case *types.UnionType:
		elements := t.Elements
		if elements == nil {
			elements = []types.Reference{}
		}
		add("elements", elements)
		description = t.Description
	case *types.ResourceType:
		add("name", t.Name)
		add("scopeType", t.ScopeType)
		if t.ReadOnlyScopes != nil {
			add("readOnlyScopes", *t.ReadOnlyScopes)
		}
		add("body", t.Body)
		add("flags", t.Flags)
		description = t.Description
	default:
		return nil, fmt.Errorf("unsupported type node %T", node)
	}

	if description != "" {
		add("description", description)
	}
	return obj, nil
}

func encodeProperties(props []types.ObjectProperty) (orderedjson.Object, error) {
	obj := orderedjson.Object{}
	for _, p := range props {
		if _, dup := obj.Get(p.Name); dup {
			return nil, fmt.Errorf("duplicate property %q", p.Name)
		}
		ref := p.Type
		if err := obj.Add(p.Name, propertyRecord{Type: &ref, Flags: p.Flags, Description: p.Description}); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// decodeNode turns one record back into a node. The error carries only the
// reason; the caller attaches document and offset.
func decodeNode(raw json.RawMessage) (types.Type, error) {
	var rec nodeRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		var dup *orderedjson.DuplicateKeyError
		if errors.As(err, &dup) {
			return nil, fmt.Errorf("duplicate property %q", dup.Key)
		}
		return nil, err
	}

	switch rec.Kind {
	case types.KindAny:
		return &types.AnyType{Description: rec.Description}, nil
	case types.KindNull:
		return &types.NullType{Description: rec.Description}, nil
	case types.KindBoolean:
		return &types.BooleanType{Description: rec.Description}, nil
	case types.KindInteger:
		return &types.IntegerType{MinValue: rec.MinValue, MaxValue: rec.MaxValue, Description: rec.Description}, nil
	case types.KindString:
		return &types.StringType{
			Sensitive:   rec.Sensitive,
			MinLength:   rec.MinLength,
			MaxLength:   rec.MaxLength,
			Pattern:     rec.Pattern,
			Description: rec.Description,
		}, nil
	case types.KindStringLiteral:
		if rec.Value == nil {
			return nil, errors.New("StringLiteralType missing value")
		}
		return &types.StringLiteralType{Value: *rec.Value, Description: rec.Description}, nil
	case types.KindArray:
		if rec.ItemType == nil {
			return nil, errors.New("ArrayType missing itemType")
		}
		return &types.ArrayType{
			ItemType:    *rec.ItemType,
			MinLength:   rec.MinLength,
			MaxLength:   rec.MaxLength,
			Description: rec.Description,
		}, nil
	case types.KindObject:
		props, err := decodeProperties(rec.Properties)
		if err != nil {
			return nil, err
		}
		return &types.ObjectType{
			Name:                 rec.Name,
			Properties:           props,
			AdditionalProperties: rec.AdditionalProperties,
			Sensitive:            rec.Sensitive,
			Description:          rec.Description,
		}, nil
	case types.KindDiscriminatedObject:
		props, err := decodeProperties(rec.BaseProperties)
		if err != nil {
			return nil, err
		}
		var elements orderedjson.Object
		if len(rec.Elements) > 0 {
			if err := json.Unmarshal(rec.Elements, &elements); err != nil {
				return nil, fmt.Errorf("invalid elements: %w", err)
			}
		}
		var variants []types.DiscriminatedElement
		for _, m := range elements {
			var ref types.Reference
			if err := json.Unmarshal(m.Value, &ref); err != nil {
				return nil, fmt.Errorf("invalid element %q: %w", m.Key, err)
			}
			variants = append(variants, types.DiscriminatedElement{Value: m.Key, Type: ref})
		}
		return &types.DiscriminatedObjectType{
			Name:           rec.Name,
			Discriminator:  rec.Discriminator,
			BaseProperties: props,
			Elements:       variants,
			Description:    rec.Description,
		}, nil
	case types.KindUnion:
		var elements []types.Reference
		if len(rec.Elements) > 0 {
			if err := json.Unmarshal(rec.Elements, &elements); err != nil {
				return nil, fmt.Errorf("invalid elements: %w", err)
			}
		}
		if len(elements) == 0 {
			elements = nil
		}
		return &types.UnionType{Elements: elements, Description: rec.Description}, nil
	case types.KindResource:
		if rec.Body == nil {
			return nil, errors.New("ResourceType missing body")
		}
		return &types.ResourceType{
			Name:           rec.Name,
			ScopeType:      rec.ScopeType,
			ReadOnlyScopes: rec.ReadOnlyScopes,
			Body:           *rec.Body,
			Flags:          rec.Flags,
			Description:    rec.Description,
		}, nil
	case "":
		return nil, errors.New("missing $type tag")
	default:
		return nil, fmt.Errorf("unknown kind tag %q", rec.Kind)
	}
}

func decodeProperties(obj orderedjson.Object) ([]types.ObjectProperty, error) {
	if len(obj) == 0 {
		return nil, nil
	}
	props := make([]types.ObjectProperty, 0, len(obj))
	for _, m := range obj {
		var rec propertyRecord
		if err := json.Unmarshal(m.Value, &rec); err != nil {
			return nil, fmt.Errorf("invalid property %q: %w", m.Key, err)
		}
		if rec.Type == nil {
			return nil, fmt.Errorf("property %q missing type", m.Key)
		}
		props = append(props, types.ObjectProperty{
			Name:        m.Key,
			Type:        *rec.Type,
			Flags:       rec.Flags,
			Description: rec.Description,
		})
	}
	return props, nil
}
