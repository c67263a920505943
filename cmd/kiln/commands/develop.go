package commands

import "github.com/spf13/cobra"

func (c *CLI) newDevelopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "develop",
		Short: "Prepare the checkout for development",
		Long: "Develop installs the development CLI, builds the extensions in place, mirrors the\n" +
			"grammars into the source tree and builds the embedded engine.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Develop(cmd.Context())
		},
	}
}
