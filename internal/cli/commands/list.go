package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/typegraph/internal/cli/ui"
)

func newListCommand(a *app) *cobra.Command {
	var (
		catalogDir string
		prefix     string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the resource types in a catalog",
		Long: `List the resource types in a catalog.

Reads index.json (or index.json.gz) from the catalog directory and prints
each resource type with the document and node it refers to.`,
		Example: `  # List every resource type
  typegraph list

  # Only resource types of one provider
  typegraph list --catalog dist --prefix Foo.Bar/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.openCatalog(catalogDir)
			if err != nil {
				return err
			}
			index, err := l.LoadTypeIndex()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if s := index.Settings; s != nil {
				kv := ui.NewKeyValueTable(out, a.noColor)
				kv.AddRow("Name", s.Name)
				kv.AddRow("Version", s.Version)
				kv.AddRow("Singleton", fmt.Sprint(s.IsSingleton))
				if s.ConfigurationType != nil {
					kv.AddRow("Configuration", s.ConfigurationType.String())
				}
				kv.Render()
				fmt.Fprintln(out)
			}

			table := ui.NewTable(out, []string{"RESOURCE TYPE", "FILE", "REF"}, &ui.TableOptions{NoColor: a.noColor})
			for _, name := range index.ResourceNames() {
				if !strings.HasPrefix(name, prefix) {
					continue
				}
				ref := index.Resources[name]
				table.AddRow(name, ref.File, ref.Ref().String())
			}
			if table.Len() == 0 {
				fmt.Fprintln(out, "No resource types found.")
				return nil
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogDir, "catalog", "", "Catalog directory (default from catalog.dir)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Only list resource types starting with this prefix")

	return cmd
}
