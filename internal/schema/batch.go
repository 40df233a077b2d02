package schema

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/conduit-lang/typegraph/internal/catalog"
	"github.com/conduit-lang/typegraph/internal/types"
)

// DefaultConcurrency is used when Batch.Concurrency is not positive.
const DefaultConcurrency = 4

// ResourceResolver finds a resource node and the sequence its body lives in.
// *catalog.Registry and *loader.Loader both satisfy it.
type ResourceResolver interface {
	ResolveResource(ref types.CrossFileReference) (*types.ResourceType, []types.Type, error)
}

// Batch projects many resource types in parallel. A failure in one resource
// never stops its siblings: every failure is reported as a *ResourceError
// inside the returned *multierror.Error, alongside the successful results.
type Batch struct {
	Resolver    ResourceResolver
	Concurrency int
	Options     []Option
	Logger      *zap.Logger
}

// Run projects the named resources from index; no names means every resource.
// Cancellation is only observed between resources.
func (b *Batch) Run(ctx context.Context, index *catalog.TypeIndex, names []string) (map[string]*Schema, error) {
	if len(names) == 0 {
		names = index.ResourceNames()
	}

	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := b.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var (
		mu      sync.Mutex
		results = make(map[string]*Schema, len(names))
		errs    = make([]error, len(names))
	)

	g := new(errgroup.Group)
	g.SetLimit(limit)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = &ResourceError{Name: name, Err: err}
				return nil
			}

			s, err := b.project(index, name)
			if err != nil {
				logger.Debug("resource projection failed", zap.String("resource", name), zap.Error(err))
				errs[i] = &ResourceError{Name: name, Err: err}
				return nil
			}

			mu.Lock()
			results[name] = s
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var (
		merr   *multierror.Error
		failed int
	)
	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
			failed++
		}
	}

	logger.Debug("batch projection finished",
		zap.Int("requested", len(names)),
		zap.Int("projected", len(results)),
		zap.Int("failed", failed))

	return results, merr.ErrorOrNil()
}

func (b *Batch) project(index *catalog.TypeIndex, name string) (*Schema, error) {
	ref, ok := index.Resources[name]
	if !ok {
		return nil, ErrResourceNotFound
	}
	res, nodes, err := b.Resolver.ResolveResource(ref)
	if err != nil {
		return nil, err
	}
	return NewProjector(nodes, b.Options...).Project(res.Body)
}
