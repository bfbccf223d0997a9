package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mithrel/hinglish/internal/config"
	"github.com/mithrel/hinglish/internal/ipc"
	"github.com/mithrel/hinglish/internal/keys"
	"github.com/mithrel/hinglish/internal/wire"
)

const pingTimeout = 500 * time.Millisecond

var (
	fieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Width(10)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show key, language, model, cache and daemon state",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			writeStatus(cmd.Context(), cmd.OutOrStdout(), app)
			return nil
		},
	}
}

func writeStatus(ctx context.Context, w io.Writer, app *wire.App) {
	row := func(name, value string) {
		_, _ = fmt.Fprintln(w, fieldStyle.Render(name)+" "+value)
	}

	provider := app.Cfg.GetString("keys.provider")
	if secret, err := app.Keys.Get(keys.APIKeyName); err == nil {
		row("API key", okStyle.Render("set")+" "+keys.Mask(secret)+" ("+provider+")")
	} else {
		row("API key", badStyle.Render("missing")+` run "hinglish key set" (`+provider+")")
	}
	lang, err := config.ResolveLanguage(app.Cfg.GetString("target_language"))
	if err != nil {
		lang = badStyle.Render(err.Error())
	}
	row("Language", lang)
	row("Model", app.Gemini.Model())
	row("Cache", cacheSummary(ctx, app))

	sock, err := ipc.SocketPath()
	if err != nil {
		row("Daemon", badStyle.Render(err.Error()))
		return
	}
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if ipc.Ping(pctx, sock) {
		row("Daemon", okStyle.Render("running")+" "+sock+", http://"+app.Cfg.GetString("http_addr"))
	} else {
		row("Daemon", "not running")
	}
}

func cacheSummary(ctx context.Context, app *wire.App) string {
	if app.Cache == nil {
		return "disabled"
	}
	st, err := app.Cache.Stats(ctx)
	if err != nil {
		return badStyle.Render(err.Error())
	}
	parts := []string{fmt.Sprintf("%d entries", st.Entries), humanBytes(st.Bytes)}
	if st.Entries > 0 {
		parts = append(parts, "newest "+st.Newest.Local().Format(time.DateTime))
	}
	return strings.Join(parts, ", ") + " (" + config.ResolveCachePath(app.Cfg) + ")"
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
