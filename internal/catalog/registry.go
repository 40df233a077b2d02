package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/conduit-lang/typegraph/internal/types"
)

// Registry holds types documents that have already been loaded, so that
// cross-file references can be resolved without any I/O. It is safe for
// concurrent use; registered node slices must not be modified afterwards.
type Registry struct {
	mu    sync.RWMutex
	files map[string][]types.Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{files: make(map[string][]types.Type)}
}

// Register adds (or replaces) the nodes of a types document.
func (r *Registry) Register(file string, nodes []types.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[file] = nodes
}

// RegisterCatalog registers every types document of c.
func (r *Registry) RegisterCatalog(c *Catalog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for file, nodes := range c.Files {
		r.files[file] = nodes
	}
}

// Nodes returns the node sequence of a registered document.
func (r *Registry) Nodes(file string) ([]types.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	nodes, ok := r.files[file]
	return nodes, ok
}

// Loaded reports whether file has been registered.
func (r *Registry) Loaded(file string) bool {
	_, ok := r.Nodes(file)
	return ok
}

// Files returns the registered document names, sorted.
func (r *Registry) Files() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.files))
	for name := range r.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the node ref points at.
func (r *Registry) Resolve(ref types.CrossFileReference) (types.Type, error) {
	nodes, ok := r.Nodes(ref.File)
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref.File, ErrFileNotLoaded)
	}
	node, ok := types.Resolve(nodes, ref.Ref())
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref.File, &types.ReferenceOutOfRangeError{Ref: ref.Ref(), Len: len(nodes)})
	}
	return node, nil
}

// ResolveResource resolves ref and checks that it names a resource type.
// It also returns the node sequence the resource's body refers into.
func (r *Registry) ResolveResource(ref types.CrossFileReference) (*types.ResourceType, []types.Type, error) {
	node, err := r.Resolve(ref)
	if err != nil {
		return nil, nil, err
	}
	res, ok := node.(*types.ResourceType)
	if !ok {
		return nil, nil, fmt.Errorf("%s is a %s, not a ResourceType", ref, node.Kind())
	}
	nodes, _ := r.Nodes(ref.File)
	return res, nodes, nil
}
