package commands

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/typegraph/internal/cli/config"
	"github.com/conduit-lang/typegraph/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// app carries what every subcommand needs once flags and configuration
// have been read.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	logLevel string
	noColor  bool
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "typegraph",
		Short: "Build, inspect and project resource type catalogs",
		Long: color.CyanString(`typegraph - resource type catalogs

typegraph converts JSON Schema descriptions of resource types into a
catalog of type graph nodes, and projects catalog entries back into JSON
Schema.

Commands:
  • generate    convert schemas into types.json and index.json
  • list        list the resource types in a catalog
  • properties  show the top-level properties of a resource type
  • schema      print the JSON Schema of resource types`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error or off (overrides log.level)")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newGenerateCommand(a))
	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newPropertiesCommand(a))
	rootCmd.AddCommand(newSchemaCommand(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	logger, err := logging.NewWriter(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return err
	}
	if cfg.File != "" {
		logger.Debug("configuration loaded", zap.String("file", cfg.File))
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the typegraph version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			titleColor := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()
			for _, line := range [][2]string{
				{"typegraph version: ", Version},
				{"Git commit: ", GitCommit},
				{"Build date: ", BuildDate},
				{"Go version: ", goVer},
			} {
				titleColor.Fprint(out, line[0])
				fmt.Fprintln(out, line[1])
			}
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
