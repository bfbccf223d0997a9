package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/hinglish/internal/daemon"
)

func newDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the background translation service",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Starting hinglish daemon on %s...\n", app.Cfg.GetString("http_addr"))
			return daemon.Run(cmd.Context(), app)
		},
	}
	return cmd
}
