package schema

import (
	"fmt"

	"github.com/conduit-lang/typegraph/internal/types"
)

const (
	jsonString  = "string"
	jsonNumber  = "number"
	jsonBoolean = "boolean"
	jsonArray   = "array"
	jsonObject  = "object"
)

// Option configures a Projector.
type Option func(*Projector)

// WithDescriptions copies type and property descriptions into the output.
func WithDescriptions() Option {
	return func(p *Projector) {
		p.descriptions = true
	}
}

// WithMaxDepth fails projection when schemas nest deeper than n levels. Zero disables the limit.
func WithMaxDepth(n int) Option {
	return func(p *Projector) {
		p.maxDepth = n
	}
}

// Projector converts nodes of one sequence into JSON Schema.
// It holds no per-call state and may be shared between goroutines.
type Projector struct {
	nodes        []types.Type
	descriptions bool
	maxDepth     int
}

// NewProjector creates a projector over nodes.
func NewProjector(nodes []types.Type, opts ...Option) *Projector {
	p := &Projector{nodes: nodes}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Project is shorthand for NewProjector(nodes, opts...).Project(ref).
func Project(nodes []types.Type, ref types.Reference, opts ...Option) (*Schema, error) {
	return NewProjector(nodes, opts...).Project(ref)
}

// ProjectResource resolves ref to a ResourceType and projects its body.
func ProjectResource(nodes []types.Type, ref types.Reference, opts ...Option) (*Schema, error) {
	node, ok := types.Resolve(nodes, ref)
	if !ok {
		return nil, &DanglingReferenceError{Ref: ref, Len: len(nodes), Path: "#"}
	}
	res, ok := node.(*types.ResourceType)
	if !ok {
		return nil, &UnsupportedShapeError{Shape: string(node.Kind()) + " (expected ResourceType)", Ref: ref, Path: "#"}
	}
	return NewProjector(nodes, opts...).Project(res.Body)
}

// Project converts the node at ref, and everything reachable from it, into a schema.
//
// References already being expanded on the current path are cut short with a
// bare {"type": "object"} or {"type": "array"}; the same reference reached
// again through an unrelated branch is expanded in full.
func (p *Projector) Project(ref types.Reference) (*Schema, error) {
	w := &walker{
		Projector: p,
		visiting:  make(map[types.Reference]bool),
	}
	return w.project(ref, "#", 0)
}

type walker struct {
	*Projector
	visiting map[types.Reference]bool
}

func (w *walker) resolve(ref types.Reference, path string) (types.Type, error) {
	node, ok := types.Resolve(w.nodes, ref)
	if !ok {
		return nil, &DanglingReferenceError{Ref: ref, Len: len(w.nodes), Path: path}
	}
	return node, nil
}

func (w *walker) project(ref types.Reference, path string, depth int) (*Schema, error) {
	if w.maxDepth > 0 && depth > w.maxDepth {
		return nil, &DepthExceededError{MaxDepth: w.maxDepth, Path: path}
	}

	node, err := w.resolve(ref, path)
	if err != nil {
		return nil, err
	}

	switch t := node.(type) {
	case *types.StringType:
		return w.leaf(jsonString, t.Description), nil
	case *types.StringLiteralType:
		return w.leaf(jsonString, t.Description), nil
	case *types.UnionType:
		// Unions of scalars collapse to string; unions of objects are polymorphic.
		for _, member := range t.Elements {
			m, err := w.resolve(member, path)
			if err != nil {
				return nil, err
			}
			if k := m.Kind(); k == types.KindObject || k == types.KindDiscriminatedObject {
				return nil, &UnsupportedShapeError{
					Shape: fmt.Sprintf("%s of %s", types.KindUnion, k),
					Ref:   ref,
					Path:  path,
				}
			}
		}
		return w.leaf(jsonString, t.Description), nil
	case *types.IntegerType:
		return w.leaf(jsonNumber, t.Description), nil
	case *types.BooleanType:
		return w.leaf(jsonBoolean, t.Description), nil
	case *types.ArrayType:
		if w.visiting[ref] {
			return &Schema{Type: jsonArray}, nil
		}
		w.visiting[ref] = true
		defer delete(w.visiting, ref)

		items, err := w.project(t.ItemType, path+"/items", depth+1)
		if err != nil {
			return nil, err
		}
		s := w.leaf(jsonArray, t.Description)
		s.Items = items
		return s, nil
	case *types.ObjectType:
		if w.visiting[ref] {
			return &Schema{Type: jsonObject}, nil
		}
		w.visiting[ref] = true
		defer delete(w.visiting, ref)

		return w.object(t, path, depth)
	default:
		return nil, &UnsupportedShapeError{Shape: string(node.Kind()), Ref: ref, Path: path}
	}
}

func (w *walker) object(t *types.ObjectType, path string, depth int) (*Schema, error) {
	s := w.leaf(jsonObject, t.Description)
	s.Properties = make([]Property, 0, len(t.Properties))
	s.Required = []string{}

	for _, prop := range t.Properties {
		// Read-only properties are output-only and never part of an input schema.
		if prop.Flags.Has(types.PropertyReadOnly) {
			continue
		}

		child, err := w.project(prop.Type, path+"/properties/"+prop.Name, depth+1)
		if err != nil {
			return nil, err
		}
		if w.descriptions && prop.Description != "" {
			child.Description = prop.Description
		}
		s.Properties = append(s.Properties, Property{Name: prop.Name, Schema: child})

		if prop.Flags.Has(types.PropertyRequired) {
			s.Required = append(s.Required, prop.Name)
		}
	}

	if t.AdditionalProperties != nil {
		node, err := w.resolve(*t.AdditionalProperties, path+"/additionalProperties")
		if err != nil {
			return nil, err
		}
		// Any additional value is what JSON Schema assumes when the keyword is absent.
		if node.Kind() == types.KindAny {
			return s, nil
		}
		additional, err := w.project(*t.AdditionalProperties, path+"/additionalProperties", depth+1)
		if err != nil {
			return nil, err
		}
		s.AdditionalProperties = additional
	}
	return s, nil
}

func (w *walker) leaf(jsonType, description string) *Schema {
	s := &Schema{Type: jsonType}
	if w.descriptions {
		s.Description = description
	}
	return s
}
