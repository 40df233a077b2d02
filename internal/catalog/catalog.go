// Package catalog persists a type graph as a pair of documents: an index
// document mapping resource identifiers to cross-file references, and one or
// more types documents holding the flat node sequence.
package catalog

import (
	"sort"

	"github.com/conduit-lang/typegraph/internal/types"
)

const (
	// IndexFileName is the logical name of the index document.
	IndexFileName = "index.json"
	// DefaultTypesFileName is the logical name used for a single types document.
	DefaultTypesFileName = "types.json"
)

// TypeSettings is per-catalog metadata, attached once when the catalog is built.
type TypeSettings struct {
	Name              string
	Version           string
	IsSingleton       bool
	ConfigurationType *types.CrossFileReference
}

// TypeIndex maps exact resource identifiers ("Provider/type@version") to the node describing them.
type TypeIndex struct {
	Resources map[string]types.CrossFileReference
	Settings  *TypeSettings
}

// ResourceNames returns the index keys in sorted order.
func (idx *TypeIndex) ResourceNames() []string {
	names := make([]string, 0, len(idx.Resources))
	for name := range idx.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog is a decoded index document together with the types documents it refers to.
type Catalog struct {
	Index *TypeIndex
	Files map[string][]types.Type
}

// FromFactory builds a single-file catalog from a factory's nodes. Each
// resource node is indexed under its own name.
func FromFactory(f *types.Factory, resources []*types.ResourceType, settings *TypeSettings) (*Catalog, error) {
	index := &TypeIndex{
		Resources: make(map[string]types.CrossFileReference, len(resources)),
		Settings:  settings,
	}
	for _, res := range resources {
		idx, err := f.GetIndex(res)
		if err != nil {
			return nil, err
		}
		if _, dup := index.Resources[res.Name]; dup {
			return nil, &MalformedCatalogError{
				Document: IndexFileName,
				Offset:   idx,
				Key:      res.Name,
				Reason:   "duplicate resource type",
			}
		}
		index.Resources[res.Name] = types.CrossFileReference{File: DefaultTypesFileName, Index: idx}
	}

	return &Catalog{
		Index: index,
		Files: map[string][]types.Type{DefaultTypesFileName: f.Types()},
	}, nil
}

// Validate checks that every reference in the catalog resolves.
func (c *Catalog) Validate() error {
	if c.Index == nil {
		return &MalformedCatalogError{Document: IndexFileName, Offset: -1, Reason: "missing index"}
	}

	for file, nodes := range c.Files {
		if err := validateNodes(file, nodes); err != nil {
			return err
		}
	}

	for _, name := range c.Index.ResourceNames() {
		ref := c.Index.Resources[name]
		if err := c.checkCrossFile(name, ref); err != nil {
			return err
		}
		if node, _ := types.Resolve(c.Files[ref.File], ref.Ref()); node.Kind() != types.KindResource {
			return &MalformedCatalogError{
				Document: ref.File,
				Offset:   ref.Index,
				Key:      name,
				Reason:   "index entry does not point at a ResourceType",
			}
		}
	}

	if s := c.Index.Settings; s != nil && s.ConfigurationType != nil {
		if err := c.checkCrossFile("settings.configurationType", *s.ConfigurationType); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) checkCrossFile(key string, ref types.CrossFileReference) error {
	nodes, ok := c.Files[ref.File]
	if !ok {
		return &MalformedCatalogError{
			Document: IndexFileName,
			Offset:   ref.Index,
			Key:      key,
			Reason:   "types document " + ref.File + " not present",
		}
	}
	if !ref.Ref().InRange(len(nodes)) {
		return &MalformedCatalogError{
			Document: ref.File,
			Offset:   ref.Index,
			Key:      key,
			Reason:   "reference out of range",
		}
	}
	return nil
}

func validateNodes(document string, nodes []types.Type) error {
	for i, node := range nodes {
		if node == nil {
			return &MalformedCatalogError{Document: document, Offset: i, Reason: "nil type"}
		}
		for _, ref := range node.References() {
			if !ref.InRange(len(nodes)) {
				return &MalformedCatalogError{
					Document: document,
					Offset:   i,
					Reason:   "reference " + ref.String() + " out of range",
				}
			}
		}
	}
	return nil
}
