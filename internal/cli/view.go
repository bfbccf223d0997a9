package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mithrel/hinglish/internal/config"
	"github.com/mithrel/hinglish/internal/present/tui"
	"github.com/mithrel/hinglish/pkg/api"
)

func newViewCmd() *cobra.Command {
	var viaDaemon, noCache bool
	cmd := &cobra.Command{
		Use:   "view [file|url|-]",
		Short: "Browse a problem and toggle its translation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			src, err := readSource(cmd.Context(), cmd, app, firstArg(args))
			if err != nil {
				return err
			}
			lang, err := config.ResolveLanguage(app.Cfg.GetString("target_language"))
			if err != nil {
				return err
			}
			req := api.Request{Action: api.ActionTranslate, Text: src.Text, Language: lang, NoCache: noCache}
			return tui.Run(cmd.Context(), tui.Options{
				Title:    src.Name,
				Language: lang,
				Original: src.Text,
				Style:    app.Cfg.GetString("render.style"),
				Translate: func(ctx context.Context) api.Response {
					return send(ctx, app, req, viaDaemon)
				},
			})
		},
	}
	cmd.Flags().String("lang", "", "target language (overrides target_language)")
	cmd.Flags().String("style", "", "glamour style for the translation")
	cmd.Flags().BoolVar(&viaDaemon, "daemon", false, "relay through a running daemon")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the translation cache")
	registerLanguageCompletion(cmd)
	return cmd
}
