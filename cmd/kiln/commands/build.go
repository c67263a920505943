package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the engine, grammars and extensions",
		Long: "Build rebuilds the embedded engine when its source stamp moved, compiles every grammar\n" +
			"and builds the native extensions. With --tool-path the generated config module is written too.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Build(cmd.Context(), app.BuildOptions{Meta: metaOptions(cmd)})
		},
	}
	addMetaFlags(cmd)
	return cmd
}

func (c *CLI) newBuildEngineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-engine",
		Short: "Build the embedded engine regardless of its stamp",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configure, _ := cmd.Flags().GetBool("configure")
			contrib, _ := cmd.Flags().GetBool("build-contrib")
			fresh, _ := cmd.Flags().GetBool("fresh-build")

			return c.app.BuildEngine(cmd.Context(), domain.BuildMode{
				Force:     true,
				Fresh:     fresh,
				Configure: configure,
				Contrib:   contrib,
			})
		},
	}
	cmd.Flags().Bool("configure", false, "Run the configure step")
	cmd.Flags().Bool("build-contrib", false, "Build and install the contrib components")
	cmd.Flags().Bool("fresh-build", false, "Remove the previous build directory first")
	return cmd
}

func (c *CLI) newBuildParsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-parsers",
		Short: "Compile the grammar parse tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inplace, _ := cmd.Flags().GetBool("inplace")
			return c.app.BuildParsers(cmd.Context(), inplace)
		},
	}
	cmd.Flags().BoolP("inplace", "i", false, "Also copy the artifacts into the source tree")
	return cmd
}

func (c *CLI) newBuildExtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-ext",
		Short: "Build the native extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inplace, _ := cmd.Flags().GetBool("inplace")
			return c.app.BuildExt(cmd.Context(), inplace)
		},
	}
	cmd.Flags().BoolP("inplace", "i", false, "Place the extensions in the source tree only")
	return cmd
}

func (c *CLI) newBuildMetaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-meta",
		Short: "Write the generated config module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.BuildMeta(cmd.Context(), metaOptions(cmd))
		},
	}
	addMetaFlags(cmd)
	_ = cmd.MarkFlagRequired("tool-path")
	return cmd
}

func addMetaFlags(cmd *cobra.Command) {
	cmd.Flags().String("tool-path", "", "Path of the engine config tool recorded in the config module")
	cmd.Flags().String("runstate-dir", "", "Runtime state directory recorded in the config module")
	cmd.Flags().String("shared-dir", "", "Shared data directory recorded in the config module")
	cmd.Flags().String("version-suffix", "", "Dot-separated local version suffix")
}

func metaOptions(cmd *cobra.Command) app.MetaOptions {
	toolPath, _ := cmd.Flags().GetString("tool-path")
	runstateDir, _ := cmd.Flags().GetString("runstate-dir")
	sharedDir, _ := cmd.Flags().GetString("shared-dir")
	suffix, _ := cmd.Flags().GetString("version-suffix")

	return app.MetaOptions{
		ToolPath:      toolPath,
		RunstateDir:   runstateDir,
		SharedDir:     sharedDir,
		VersionSuffix: suffix,
	}
}
