package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/typegraph/internal/cli/ui"
	"github.com/conduit-lang/typegraph/internal/types"
)

// maxDescribeDepth bounds describeType on self-referencing arrays and unions.
const maxDescribeDepth = 4

func newPropertiesCommand(a *app) *cobra.Command {
	var catalogDir string

	cmd := &cobra.Command{
		Use:     "properties <resource-type>",
		Aliases: []string{"props"},
		Short:   "Show the top-level properties of a resource type",
		Long: `Show the top-level properties of a resource type.

Each property of the resource body is listed with a short description of its
type and its flags.`,
		Example: `  typegraph properties Foo.Bar/widgets@2024-01-01`,
		Args:    cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return a.completeResourceNames(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.openCatalog(catalogDir)
			if err != nil {
				return err
			}
			index, err := l.LoadTypeIndex()
			if err != nil {
				return err
			}

			name := args[0]
			report := func(msg string) { fmt.Fprint(cmd.ErrOrStderr(), msg) }
			if err := a.lookupResources(index, []string{name}, report); err != nil {
				return err
			}

			res, nodes, err := l.ResolveResource(index.Resources[name])
			if err != nil {
				return err
			}
			body, ok := types.Resolve(nodes, res.Body)
			if !ok {
				return &types.ReferenceOutOfRangeError{Ref: res.Body, Len: len(nodes)}
			}

			var props []types.ObjectProperty
			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), a.noColor)
			kv.AddRow("Resource type", res.Name)
			kv.AddRow("Scopes", res.ScopeType.String())
			if res.Flags != types.ResourceNone {
				kv.AddRow("Flags", res.Flags.String())
			}
			switch b := body.(type) {
			case *types.ObjectType:
				kv.AddRow("Body", fmt.Sprintf("%s (%s)", b.Name, res.Body))
				props = b.Properties
			case *types.DiscriminatedObjectType:
				kv.AddRow("Body", fmt.Sprintf("%s (%s)", b.Name, res.Body))
				kv.AddRow("Discriminator", b.Discriminator)
				props = b.BaseProperties
			default:
				return fmt.Errorf("body of %s is a %s, not an object", name, body.Kind())
			}
			kv.Render()
			fmt.Fprintln(cmd.OutOrStdout())

			table := ui.NewTable(cmd.OutOrStdout(), []string{"NAME", "TYPE", "FLAGS", "DESCRIPTION"}, &ui.TableOptions{NoColor: a.noColor})
			for _, p := range props {
				table.AddRow(p.Name, describeType(nodes, p.Type, 0), p.Flags.String(), p.Description)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogDir, "catalog", "", "Catalog directory (default from catalog.dir)")

	return cmd
}

// describeType renders a one-line summary of the node ref points at, e.g.
// "string[]" or "'basic' | 'premium'".
func describeType(nodes []types.Type, ref types.Reference, depth int) string {
	node, ok := types.Resolve(nodes, ref)
	if !ok {
		return "<dangling " + ref.String() + ">"
	}
	if depth > maxDescribeDepth {
		return "..."
	}

	switch t := node.(type) {
	case *types.AnyType:
		return "any"
	case *types.NullType:
		return "null"
	case *types.BooleanType:
		return "bool"
	case *types.IntegerType:
		return "int"
	case *types.StringType:
		if t.Sensitive {
			return "string (secure)"
		}
		return "string"
	case *types.StringLiteralType:
		return "'" + t.Value + "'"
	case *types.ArrayType:
		return describeType(nodes, t.ItemType, depth+1) + "[]"
	case *types.ObjectType:
		return t.Name
	case *types.DiscriminatedObjectType:
		return t.Name
	case *types.UnionType:
		parts := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			parts[i] = describeType(nodes, e, depth+1)
		}
		return strings.Join(parts, " | ")
	case *types.ResourceType:
		return t.Name
	default:
		return string(node.Kind())
	}
}
