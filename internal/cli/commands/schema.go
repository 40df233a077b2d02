package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/typegraph/internal/cli/ui"
	"github.com/conduit-lang/typegraph/internal/schema"
	"github.com/conduit-lang/typegraph/internal/util/orderedjson"
)

type schemaOptions struct {
	catalogDir   string
	all          bool
	format       string
	descriptions bool
	maxDepth     int
	concurrency  int
}

func newSchemaCommand(a *app) *cobra.Command {
	opts := &schemaOptions{}

	cmd := &cobra.Command{
		Use:   "schema [<resource-type>...]",
		Short: "Print the JSON Schema of resource types",
		Long: `Print the JSON Schema of resource types.

With a single resource type the schema of its body is printed. With several
resource types, or --all, the output is an object keyed by resource type.
Resource types that cannot be projected are reported on stderr; the others
are still printed.`,
		Example: `  # One resource body
  typegraph schema Foo.Bar/widgets@2024-01-01

  # Every resource type as YAML, with property descriptions
  typegraph schema --all --format yaml --descriptions`,
		ValidArgsFunction: a.completeResourceNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !opts.all {
				return fmt.Errorf("specify at least one resource type or --all")
			}
			if len(args) > 0 && opts.all {
				return fmt.Errorf("--all cannot be combined with resource type arguments")
			}
			if opts.format != "json" && opts.format != "yaml" {
				return fmt.Errorf("unknown format %q (want json or yaml)", opts.format)
			}

			flags := cmd.Flags()
			if !flags.Changed("descriptions") {
				opts.descriptions = a.cfg.Schema.Descriptions
			}
			if !flags.Changed("max-depth") {
				opts.maxDepth = a.cfg.Schema.MaxDepth
			}
			if !flags.Changed("concurrency") {
				opts.concurrency = a.cfg.Schema.Concurrency
			}
			return runSchema(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.catalogDir, "catalog", "", "Catalog directory (default from catalog.dir)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Project every resource type in the catalog")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Output format: json or yaml")
	cmd.Flags().BoolVar(&opts.descriptions, "descriptions", false, "Include descriptions")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "Maximum nesting depth, 0 for unbounded")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "Resource types projected in parallel")

	return cmd
}

func runSchema(cmd *cobra.Command, a *app, opts *schemaOptions, names []string) error {
	l, err := a.openCatalog(opts.catalogDir)
	if err != nil {
		return err
	}
	index, err := l.LoadTypeIndex()
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	report := func(msg string) { fmt.Fprint(errOut, msg) }
	if err := a.lookupResources(index, names, report); err != nil {
		return err
	}

	var projOpts []schema.Option
	if opts.descriptions {
		projOpts = append(projOpts, schema.WithDescriptions())
	}
	if opts.maxDepth > 0 {
		projOpts = append(projOpts, schema.WithMaxDepth(opts.maxDepth))
	}

	batch := &schema.Batch{
		Resolver:    l,
		Concurrency: opts.concurrency,
		Options:     projOpts,
		Logger:      a.logger,
	}
	results, batchErr := batch.Run(cmd.Context(), index, names)

	var data []byte
	if len(names) == 1 {
		if s, ok := results[names[0]]; ok {
			if data, err = s.JSON(); err != nil {
				return err
			}
		}
	} else if data, err = marshalResults(results); err != nil {
		return err
	}

	if data != nil {
		if opts.format == "yaml" {
			if data, err = yaml.JSONToYAML(data); err != nil {
				return fmt.Errorf("failed to convert schema to YAML: %w", err)
			}
		} else {
			data = append(data, '\n')
		}
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	}

	if batchErr != nil {
		var merr *multierror.Error
		failures := []string{batchErr.Error()}
		if errors.As(batchErr, &merr) {
			failures = failures[:0]
			for _, e := range merr.Errors {
				failures = append(failures, e.Error())
			}
		}
		report(ui.ProjectionErrors(failures, a.noColor))
		return fmt.Errorf("%d of %d resource type(s) could not be projected", len(failures), len(results)+len(failures))
	}
	return nil
}

// marshalResults renders results as an indented JSON object with keys in
// sorted order.
func marshalResults(results map[string]*schema.Schema) ([]byte, error) {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	obj := make(orderedjson.Object, 0, len(names))
	for _, name := range names {
		if err := obj.Add(name, results[name]); err != nil {
			return nil, err
		}
	}

	compact, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
