package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/typegraph/internal/catalog"
	"github.com/conduit-lang/typegraph/internal/cli/ui"
	"github.com/conduit-lang/typegraph/internal/loader"
	"github.com/conduit-lang/typegraph/internal/schema"
)

// openCatalog returns a loader for dir, or for catalog.dir when dir is empty.
func (a *app) openCatalog(dir string) (*loader.Loader, error) {
	if dir == "" {
		dir = a.cfg.Catalog.Dir
	}
	return loader.NewDir(dir, loader.WithLogger(a.logger))
}

// lookupResources checks that every name is in the index. The first
// missing name is passed to report along with suggestions.
func (a *app) lookupResources(index *catalog.TypeIndex, names []string, report func(string)) error {
	for _, name := range names {
		if _, ok := index.Resources[name]; ok {
			continue
		}
		report(ui.ResourceNotFoundError(name, ui.FindSimilar(name, index.ResourceNames(), nil), a.noColor))
		return fmt.Errorf("%w: %s", schema.ErrResourceNotFound, name)
	}
	return nil
}

// completeResourceNames completes resource type arguments from the index in catalog.dir.
func (a *app) completeResourceNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if a.cfg == nil {
		if err := a.setup(cmd); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
	}
	dir, _ := cmd.Flags().GetString("catalog")
	l, err := a.openCatalog(dir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	index, err := l.LoadTypeIndex()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, name := range index.ResourceNames() {
		if strings.HasPrefix(name, toComplete) && !slices.Contains(args, name) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
