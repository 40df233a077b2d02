// Package schema projects a type graph into JSON Schema documents.
package schema

import (
	"encoding/json"

	"github.com/conduit-lang/typegraph/internal/util/orderedjson"
)

// Schema is a JSON Schema fragment. Properties keep the order of the source
// object. Properties and Required are emitted (possibly empty) whenever they
// are non-nil; a bounded cycle placeholder leaves both nil.
type Schema struct {
	Type                 string
	Description          string
	Items                *Schema
	Properties           []Property
	Required             []string
	AdditionalProperties *Schema
}

// Property is one named member of an object schema.
type Property struct {
	Name   string
	Schema *Schema
}

// Property returns the schema of the named property.
func (s *Schema) Property(name string) (*Schema, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// MarshalJSON writes the fragment with a fixed key order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	var obj orderedjson.Object
	if err := obj.Add("type", s.Type); err != nil {
		return nil, err
	}
	if s.Description != "" {
		if err := obj.Add("description", s.Description); err != nil {
			return nil, err
		}
	}
	if s.Items != nil {
		if err := obj.Add("items", s.Items); err != nil {
			return nil, err
		}
	}
	if s.Properties != nil {
		props := orderedjson.Object{}
		for _, p := range s.Properties {
			if err := props.Add(p.Name, p.Schema); err != nil {
				return nil, err
			}
		}
		if err := obj.Add("properties", props); err != nil {
			return nil, err
		}
	}
	if s.Required != nil {
		if err := obj.Add("required", s.Required); err != nil {
			return nil, err
		}
	}
	if s.AdditionalProperties != nil {
		if err := obj.Add("additionalProperties", s.AdditionalProperties); err != nil {
			return nil, err
		}
	}
	return obj.MarshalJSON()
}

// JSON renders the schema as indented JSON.
func (s *Schema) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
