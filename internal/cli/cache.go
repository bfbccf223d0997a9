package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var errCacheDisabled = errors.New("cache is disabled (cache.enabled = false)")

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the translation cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache size",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if app.Cache == nil {
				return errCacheDisabled
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cacheSummary(cmd.Context(), app))
			return nil
		},
	})
	cmd.AddCommand(newCachePurgeCmd())
	return cmd
}

func newCachePurgeCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove expired entries (or all with --all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if app.Cache == nil {
				return errCacheDisabled
			}
			cutoff := time.Time{}
			if !all {
				ttl := app.Cfg.GetDuration("cache.ttl")
				if ttl <= 0 {
					return errors.New("cache.ttl does not expire entries; use --all")
				}
				cutoff = time.Now().Add(-ttl)
			}
			n, err := app.Cache.Purge(cmd.Context(), cutoff)
			if err != nil {
				return fmt.Errorf("purge cache: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "remove every entry")
	return cmd
}
