// Package types defines the structural type graph: immutable type nodes that
// refer to each other through integer References into a single node sequence.
package types

// Kind identifies the concrete shape of a Type. The value doubles as the
// "$type" tag in serialized types documents.
type Kind string

const (
	KindAny                 Kind = "AnyType"
	KindNull                Kind = "NullType"
	KindBoolean             Kind = "BooleanType"
	KindInteger             Kind = "IntegerType"
	KindString              Kind = "StringType"
	KindStringLiteral       Kind = "StringLiteralType"
	KindArray               Kind = "ArrayType"
	KindObject              Kind = "ObjectType"
	KindDiscriminatedObject Kind = "DiscriminatedObjectType"
	KindUnion               Kind = "UnionType"
	KindResource            Kind = "ResourceType"
)

// Kinds lists every known kind.
var Kinds = []Kind{
	KindAny,
	KindNull,
	KindBoolean,
	KindInteger,
	KindString,
	KindStringLiteral,
	KindArray,
	KindObject,
	KindDiscriminatedObject,
	KindUnion,
	KindResource,
}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Type is one node of the type graph.
// Only pointer types implement it; a node's identity is its address.
type Type interface {
	// Kind returns the node's tag
	Kind() Kind

	// References returns every Reference embedded in the node, in a stable order
	References() []Reference
}

// AnyType accepts any value.
type AnyType struct {
	Description string
}

func (t *AnyType) Kind() Kind              { return KindAny }
func (t *AnyType) References() []Reference { return nil }

// NullType is the type of the null literal.
type NullType struct {
	Description string
}

func (t *NullType) Kind() Kind              { return KindNull }
func (t *NullType) References() []Reference { return nil }

// BooleanType is the boolean primitive.
type BooleanType struct {
	Description string
}

func (t *BooleanType) Kind() Kind              { return KindBoolean }
func (t *BooleanType) References() []Reference { return nil }

// IntegerType is the integer primitive with optional inclusive bounds.
type IntegerType struct {
	MinValue    *int64
	MaxValue    *int64
	Description string
}

func (t *IntegerType) Kind() Kind              { return KindInteger }
func (t *IntegerType) References() []Reference { return nil }

// StringType is the string primitive with optional constraints.
type StringType struct {
	Sensitive   bool
	MinLength   *int64
	MaxLength   *int64
	Pattern     string
	Description string
}

func (t *StringType) Kind() Kind              { return KindString }
func (t *StringType) References() []Reference { return nil }

// StringLiteralType is a single permitted string value.
type StringLiteralType struct {
	Value       string
	Description string
}

func (t *StringLiteralType) Kind() Kind              { return KindStringLiteral }
func (t *StringLiteralType) References() []Reference { return nil }

// ArrayType is a homogeneous list.
type ArrayType struct {
	ItemType    Reference
	MinLength   *int64
	MaxLength   *int64
	Description string
}

func (t *ArrayType) Kind() Kind              { return KindArray }
func (t *ArrayType) References() []Reference { return []Reference{t.ItemType} }

// ObjectProperty is one named member of an object.
type ObjectProperty struct {
	Name        string
	Type        Reference
	Flags       PropertyFlags
	Description string
}

// ObjectType is a named record. Properties keep declaration order.
type ObjectType struct {
	Name                 string
	Properties           []ObjectProperty
	AdditionalProperties *Reference
	Sensitive            bool
	Description          string
}

func (t *ObjectType) Kind() Kind { return KindObject }

func (t *ObjectType) References() []Reference {
	refs := make([]Reference, 0, len(t.Properties)+1)
	for _, p := range t.Properties {
		refs = append(refs, p.Type)
	}
	if t.AdditionalProperties != nil {
		refs = append(refs, *t.AdditionalProperties)
	}
	return refs
}

// Property looks up a property by exact name.
func (t *ObjectType) Property(name string) (ObjectProperty, bool) {
	for _, p := range t.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return ObjectProperty{}, false
}

// DiscriminatedElement maps one discriminator value to its variant object.
type DiscriminatedElement struct {
	Value string
	Type  Reference
}

// DiscriminatedObjectType is a polymorphic object selected by a discriminator property.
type DiscriminatedObjectType struct {
	Name           string
	Discriminator  string
	BaseProperties []ObjectProperty
	Elements       []DiscriminatedElement
	Description    string
}

func (t *DiscriminatedObjectType) Kind() Kind { return KindDiscriminatedObject }

func (t *DiscriminatedObjectType) References() []Reference {
	refs := make([]Reference, 0, len(t.BaseProperties)+len(t.Elements))
	for _, p := range t.BaseProperties {
		refs = append(refs, p.Type)
	}
	for _, e := range t.Elements {
		refs = append(refs, e.Type)
	}
	return refs
}

// UnionType permits any one of its elements.
type UnionType struct {
	Elements    []Reference
	Description string
}

func (t *UnionType) Kind() Kind { return KindUnion }

func (t *UnionType) References() []Reference {
	refs := make([]Reference, len(t.Elements))
	copy(refs, t.Elements)
	return refs
}

// ResourceType names a deployable resource ("Provider/type@version") and points at its body.
type ResourceType struct {
	Name           string
	ScopeType      ScopeType
	ReadOnlyScopes *ScopeType
	Body           Reference
	Flags          ResourceFlags
	Description    string
}

func (t *ResourceType) Kind() Kind              { return KindResource }
func (t *ResourceType) References() []Reference { return []Reference{t.Body} }
