package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/hinglish/internal/present"
	"github.com/mithrel/hinglish/internal/render"
	"github.com/mithrel/hinglish/pkg/api"
)

func newRenderCmd() *cobra.Command {
	var terminal bool
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render model Markdown to HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			_, data, err := readLocal(cmd, firstArg(args))
			if err != nil {
				return err
			}
			md := string(data)
			if terminal {
				return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
					return present.RenderResult(w, api.Response{Result: md}, present.Options{
						Mode:  present.ModeTerminal,
						Style: app.Cfg.GetString("render.style"),
						Width: render.DefaultWidth,
					})
				})
			}
			resp := app.Translator.Handle(cmd.Context(), api.Request{Action: api.ActionRender, Text: md})
			return present.RenderResult(cmd.OutOrStdout(), resp, present.Options{Mode: present.ModeHTML})
		},
	}
	cmd.Flags().Bool("sanitize", false, "sanitize the HTML with bluemonday")
	cmd.Flags().BoolVar(&terminal, "terminal", false, "render for the terminal instead of HTML")
	cmd.Flags().String("style", "", "glamour style for --terminal")
	return cmd
}
