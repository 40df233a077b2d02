// Package loader opens catalog documents from a file system and turns them
// into type graphs. It is the I/O side of the catalog: it reads, decompresses
// and decodes files, then hands the decoded nodes out to resolvers.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/conduit-lang/typegraph/internal/catalog"
	"github.com/conduit-lang/typegraph/internal/types"
)

// DefaultCacheSize is the number of decoded types documents kept in memory.
const DefaultCacheSize = 32

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for load events.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithCacheSize bounds the number of cached types documents.
func WithCacheSize(size int) Option {
	return func(l *Loader) {
		l.cacheSize = size
	}
}

// Loader reads a catalog from a file system. Documents may be stored plain
// or gzipped, either under their logical name or with a ".gz" suffix.
// It is safe for concurrent use.
type Loader struct {
	fsys      fs.FS
	logger    *zap.Logger
	cacheSize int
	cache     *lru.Cache
	group     singleflight.Group

	indexOnce sync.Once
	index     *catalog.TypeIndex
	indexErr  error
}

// New creates a loader over fsys.
func New(fsys fs.FS, opts ...Option) (*Loader, error) {
	l := &Loader{
		fsys:      fsys,
		logger:    zap.NewNop(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(l)
	}

	cache, err := lru.New(l.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create types cache: %w", err)
	}
	l.cache = cache
	return l, nil
}

// NewDir creates a loader over a directory on disk.
func NewDir(dir string, opts ...Option) (*Loader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog path %s is not a directory", dir)
	}
	return New(os.DirFS(dir), opts...)
}

// ReadFile returns the raw (decompressed) bytes of a document.
func (l *Loader) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		data, err = fs.ReadFile(l.fsys, name+catalog.CompressedSuffix)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if catalog.IsCompressed(data) {
		data, err = catalog.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
	}
	return data, nil
}

// LoadTypeIndex reads and decodes the index document once.
func (l *Loader) LoadTypeIndex() (*catalog.TypeIndex, error) {
	l.indexOnce.Do(func() {
		data, err := l.ReadFile(catalog.IndexFileName)
		if err != nil {
			l.indexErr = err
			return
		}
		l.index, l.indexErr = catalog.DeserializeIndex(data)
		if l.indexErr == nil {
			l.logger.Debug("loaded type index", zap.Int("resources", len(l.index.Resources)))
		}
	})
	return l.index, l.indexErr
}

// LoadTypes returns the decoded nodes of a types document.
// Concurrent requests for the same document share a single decode.
func (l *Loader) LoadTypes(file string) ([]types.Type, error) {
	if cached, ok := l.cache.Get(file); ok {
		l.logger.Debug("types cache hit", zap.String("file", file))
		return cached.([]types.Type), nil
	}

	v, err, _ := l.group.Do(file, func() (interface{}, error) {
		data, err := l.ReadFile(file)
		if err != nil {
			return nil, err
		}
		nodes, err := catalog.DeserializeTypesFile(file, data)
		if err != nil {
			return nil, err
		}
		l.cache.Add(file, nodes)
		l.logger.Debug("loaded types document", zap.String("file", file), zap.Int("types", len(nodes)))
		return nodes, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]types.Type), nil
}

// LoadType resolves a single cross-file reference, loading its document if needed.
func (l *Loader) LoadType(ref types.CrossFileReference) (types.Type, error) {
	nodes, err := l.LoadTypes(ref.File)
	if err != nil {
		return nil, err
	}
	node, ok := types.Resolve(nodes, ref.Ref())
	if !ok {
		return nil, &catalog.MalformedCatalogError{
			Document: ref.File,
			Offset:   ref.Index,
			Reason:   "reference out of range",
		}
	}
	return node, nil
}

// ResolveResource loads the resource type ref points at together with the
// node sequence its body refers into.
func (l *Loader) ResolveResource(ref types.CrossFileReference) (*types.ResourceType, []types.Type, error) {
	node, err := l.LoadType(ref)
	if err != nil {
		return nil, nil, err
	}
	res, ok := node.(*types.ResourceType)
	if !ok {
		return nil, nil, fmt.Errorf("%s is a %s, not a ResourceType", ref, node.Kind())
	}
	nodes, err := l.LoadTypes(ref.File)
	if err != nil {
		return nil, nil, err
	}
	return res, nodes, nil
}

// LoadResource looks a resource identifier up in the index and loads it.
func (l *Loader) LoadResource(name string) (*types.ResourceType, []types.Type, error) {
	index, err := l.LoadTypeIndex()
	if err != nil {
		return nil, nil, err
	}
	ref, ok := index.Resources[name]
	if !ok {
		return nil, nil, fmt.Errorf("resource type %q not found in index", name)
	}
	return l.ResolveResource(ref)
}

// Populate loads the named types documents into reg. Without names it loads
// every document the index refers to.
func (l *Loader) Populate(reg *catalog.Registry, files ...string) error {
	if len(files) == 0 {
		index, err := l.LoadTypeIndex()
		if err != nil {
			return err
		}
		files = referencedFiles(index)
	}

	for _, file := range files {
		nodes, err := l.LoadTypes(file)
		if err != nil {
			return err
		}
		reg.Register(file, nodes)
	}
	return nil
}

// LoadCatalog reads the index and every types document it refers to, and
// validates the result as a whole.
func (l *Loader) LoadCatalog() (*catalog.Catalog, error) {
	index, err := l.LoadTypeIndex()
	if err != nil {
		return nil, err
	}

	c := &catalog.Catalog{Index: index, Files: make(map[string][]types.Type)}
	for _, file := range referencedFiles(index) {
		nodes, err := l.LoadTypes(file)
		if err != nil {
			return nil, err
		}
		c.Files[file] = nodes
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func referencedFiles(index *catalog.TypeIndex) []string {
	seen := make(map[string]bool)
	for _, ref := range index.Resources {
		seen[ref.File] = true
	}
	if s := index.Settings; s != nil && s.ConfigurationType != nil {
		seen[s.ConfigurationType.File] = true
	}

	files := make([]string, 0, len(seen))
	for file := range seen {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}
