package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/mithrel/hinglish/internal/present"
	"github.com/mithrel/hinglish/internal/render"
	"github.com/mithrel/hinglish/pkg/api"
)

func newTranslateCmd() *cobra.Command {
	var (
		formatName string
		out        string
		open       bool
		noCache    bool
		viaDaemon  bool
		jsonIndent bool
	)
	cmd := &cobra.Command{
		Use:   "translate [file|url|-]",
		Short: "Translate a problem description",
		Long: `Translate a problem description into the target language.

The input is a file, an http(s) URL or stdin. HTML pages are searched for the
problem container using extract.selectors; anything else is sent as-is.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, ok := present.ParseMode(formatName)
			if !ok {
				return fmt.Errorf("unknown format %q (want one of %s)", formatName, strings.Join(present.Modes, ", "))
			}
			if open {
				mode = present.ModePage
			}

			src, err := readSource(cmd.Context(), cmd, app, firstArg(args))
			if err != nil {
				return err
			}
			req := api.Request{Action: api.ActionTranslate, Text: src.Text, NoCache: noCache}
			if cmd.Flags().Changed("lang") {
				req.Language = app.Cfg.GetString("target_language")
			}
			resp := send(cmd.Context(), app, req, viaDaemon)
			if api.IsNotice(resp.Result) {
				return reportNotice(cmd.ErrOrStderr(), resp.Result)
			}

			opts := present.Options{
				Mode:       mode,
				JSONIndent: jsonIndent,
				Style:      app.Cfg.GetString("render.style"),
				Width:      render.DefaultWidth,
				Title:      src.Name,
			}
			if open {
				return openInBrowser(cmd, resp, opts, out)
			}
			return writeResult(cmd, resp, opts, out)
		},
	}
	cmd.Flags().String("lang", "", "target language (overrides target_language)")
	cmd.Flags().StringVar(&formatName, "format", "html", "output format: "+strings.Join(present.Modes, "|"))
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&open, "open", false, "write an HTML page and open it in the browser")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the translation cache")
	cmd.Flags().BoolVar(&viaDaemon, "daemon", false, "relay through a running daemon")
	cmd.Flags().BoolVar(&jsonIndent, "indent", true, "indent JSON output")
	cmd.Flags().String("style", "", "glamour style for terminal output")
	cmd.Flags().Bool("sanitize", false, "sanitize rendered HTML")
	registerLanguageCompletion(cmd)
	registerFormatCompletion(cmd)
	return cmd
}

func writeResult(cmd *cobra.Command, resp api.Response, opts present.Options, out string) error {
	if out != "" {
		f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		if err := present.RenderResult(f, resp, opts); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}
	if opts.Mode != present.ModeTerminal {
		return present.RenderResult(cmd.OutOrStdout(), resp, opts)
	}
	return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
		return present.RenderResult(w, resp, opts)
	})
}

// openInBrowser writes the translation as a standalone page, to out or a
// temporary file, and opens it.
func openInBrowser(cmd *cobra.Command, resp api.Response, opts present.Options, out string) error {
	var f *os.File
	var err error
	if out != "" {
		f, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	} else {
		f, err = os.CreateTemp("", "hinglish-*.html")
	}
	if err != nil {
		return err
	}
	if err := present.RenderResult(f, resp, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	path, _ := filepath.Abs(f.Name())
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return browser.OpenFile(path)
}
