// Package commands implements the CLI commands for the kiln build orchestrator.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/adapters/config"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/build"
	"go.trai.ch/kiln/internal/core/domain"
)

// CLI represents the command line interface for kiln.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Configure(s app.Settings)
	Build(ctx context.Context, opts app.BuildOptions) error
	BuildEngine(ctx context.Context, mode domain.BuildMode) error
	BuildParsers(ctx context.Context, inplace bool) error
	BuildExt(ctx context.Context, inplace bool) error
	BuildMeta(ctx context.Context, opts app.MetaOptions) error
	Develop(ctx context.Context) error
	CacheKey(ctx context.Context) (string, error)
	Status(ctx context.Context, w io.Writer) error
	Watch(ctx context.Context, opts app.WatchOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "kiln",
		Short:         "Build orchestrator for the engine, grammars and native extensions of a project",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	pf := rootCmd.PersistentFlags()
	pf.StringP("project", "C", ".", "Project root directory")
	pf.StringP("manifest", "f", domain.ManifestFileName, "Project manifest, relative to the project root")
	pf.Bool("debug", false, "Build extensions unoptimized with tracing enabled (KILN_DEBUG)")
	pf.Bool("json", false, "Emit log records as JSON")
	pf.IntP("jobs", "j", 0, "Worker count of parallel steps (0: host parallelism minus one)")
	pf.BoolP("verbose", "v", false, "Stream the output of every external tool")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRunE = c.configure

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newBuildEngineCmd())
	rootCmd.AddCommand(c.newBuildParsersCmd())
	rootCmd.AddCommand(c.newBuildExtCmd())
	rootCmd.AddCommand(c.newBuildMetaCmd())
	rootCmd.AddCommand(c.newDevelopCmd())
	rootCmd.AddCommand(c.newCacheKeyCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// configure layers the settings of this invocation and hands them to the app.
func (c *CLI) configure(cmd *cobra.Command, _ []string) error {
	dir, _ := cmd.Flags().GetString("project")

	s, err := config.LoadSettings(dir, cmd.Flags())
	if err != nil {
		return err
	}

	c.app.Configure(app.Settings{
		Project:  s.Project,
		Manifest: s.Manifest,
		Debug:    s.Debug,
		JSON:     s.JSON,
		Verbose:  s.Verbose,
		Jobs:     s.Jobs,
	})
	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
