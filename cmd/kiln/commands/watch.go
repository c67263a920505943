package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompile the grammars whenever their sources change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inplace, _ := cmd.Flags().GetBool("inplace")
			return c.app.Watch(cmd.Context(), app.WatchOptions{Inplace: inplace})
		},
	}
	cmd.Flags().BoolP("inplace", "i", false, "Also copy the artifacts into the source tree")
	return cmd
}
