package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCacheKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cache-key",
		Short: "Print the build cache key",
		Long:  "Print \"<grammar fingerprint>-<engine revision>\" for external CI caches.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := c.app.CacheKey(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
			return err
		},
	}
}
