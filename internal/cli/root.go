package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/hinglish/internal/config"
	"github.com/mithrel/hinglish/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// Execute is the entrypoint: it builds the root cobra.Command and runs it
// with ctx, which commands such as the daemon watch for shutdown.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "hinglish",
		Short:         "Translate coding problems into Hinglish and friends",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, map[string]string{
				"lang":     "target_language",
				"sanitize": "render.sanitize",
				"style":    "render.style",
			})
			if err := config.CheckConfigValidity(v); err != nil {
				return err
			}
			app, err := wire.BuildApp(cmd.Context(), v)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, app))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
				return app.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (toml|yaml)")

	cmd.AddCommand(newTranslateCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newViewCmd())
	cmd.AddCommand(newKeyCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newDaemonCmd())
	cmd.AddCommand(newCacheCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newConfigCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}
