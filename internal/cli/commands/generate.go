package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/typegraph/internal/catalog"
	"github.com/conduit-lang/typegraph/internal/cli/ui"
	"github.com/conduit-lang/typegraph/internal/convert"
	"github.com/conduit-lang/typegraph/internal/types"
	"github.com/conduit-lang/typegraph/internal/utils"
)

type generateOptions struct {
	output    string
	name      string
	version   string
	singleton bool
	compress  bool
}

func newGenerateCommand(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:     "generate <input>...",
		Aliases: []string{"g"},
		Short:   "Convert resource schemas into a type catalog",
		Long: `Convert resource schemas into a type catalog.

Each input is a JSON or YAML file, or a directory searched recursively for
.json, .yaml and .yml files. Every file has the form

  type: Foo.Bar/widgets
  version: "2024-01-01"
  schema:
    embedded: <JSON Schema of the resource body>

All inputs share one set of type nodes and produce a single types.json and
index.json in the output directory. Nodes are numbered in input order.`,
		Example: `  # Generate a catalog into ./output
  typegraph generate widgets.json gadgets.yaml

  # Write gzipped documents to a custom directory
  typegraph generate -o dist --compress schemas/*.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("output") {
				opts.output = a.cfg.Output.Dir
			}
			if !flags.Changed("name") {
				opts.name = a.cfg.Settings.Name
			}
			if !flags.Changed("version") {
				opts.version = a.cfg.Settings.Version
			}
			if !flags.Changed("singleton") {
				opts.singleton = a.cfg.Settings.Singleton
			}
			if !flags.Changed("compress") {
				opts.compress = a.cfg.Output.Compress
			}
			return runGenerate(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (default from output.dir)")
	cmd.Flags().StringVar(&opts.name, "name", "", "Catalog name written to the index settings")
	cmd.Flags().StringVar(&opts.version, "version", "", "Catalog version written to the index settings")
	cmd.Flags().BoolVar(&opts.singleton, "singleton", false, "Mark the catalog as a singleton")
	cmd.Flags().BoolVar(&opts.compress, "compress", false, "Gzip the written documents")

	return cmd
}

func runGenerate(cmd *cobra.Command, a *app, opts *generateOptions, args []string) error {
	inputs, err := utils.ExpandInputs(args)
	if err != nil {
		return err
	}

	factory := types.NewFactory(nil)
	converter := convert.New(factory)

	var resources []*types.ResourceType
	seen := make(map[string]string, len(inputs))
	for _, input := range inputs {
		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", input, err)
		}

		doc, err := convert.ParseDocument(data)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		if prev, dup := seen[doc.ResourceName()]; dup {
			return fmt.Errorf("%s: resource type %s is already defined in %s", input, doc.ResourceName(), prev)
		}
		seen[doc.ResourceName()] = input

		before := factory.Len()
		res, err := converter.ConvertDocument(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		resources = append(resources, res)

		a.logger.Debug("converted input",
			zap.String("file", input),
			zap.String("resource", res.Name),
			zap.Int("nodes", factory.Len()-before))
	}

	c, err := catalog.FromFactory(factory, resources, &catalog.TypeSettings{
		Name:        opts.name,
		Version:     opts.version,
		IsSingleton: opts.singleton,
	})
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	files, err := catalog.Serialize(c)
	if err != nil {
		return err
	}
	paths, err := catalog.WriteFiles(opts.output, files, opts.compress)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ui.WriteSuccess(out, fmt.Sprintf("Generated %d resource type(s), %d node(s)", len(resources), factory.Len()), a.noColor)
	for _, p := range paths {
		fmt.Fprintf(out, "  %s\n", p)
	}
	return nil
}
