package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mithrel/hinglish/internal/ipc"
	"github.com/mithrel/hinglish/internal/page"
	"github.com/mithrel/hinglish/internal/wire"
	"github.com/mithrel/hinglish/pkg/api"
)

// source is a problem read from a file, a URL or stdin.
type source struct {
	Name string
	Text string // what is sent for translation
	HTML string // original problem markup, empty for plain input
}

func isURL(arg string) bool {
	return strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://")
}

// readRaw returns the bytes behind arg: a fetched page for URLs, otherwise
// a file or stdin.
func readRaw(ctx context.Context, cmd *cobra.Command, app *wire.App, arg string) (string, []byte, error) {
	if isURL(arg) {
		data, err := app.Fetcher.Fetch(ctx, arg)
		return arg, data, err
	}
	return readLocal(cmd, arg)
}

// readLocal reads stdin for "" or "-", otherwise the named file.
func readLocal(cmd *cobra.Command, arg string) (string, []byte, error) {
	if arg == "" || arg == "-" {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), page.MaxPageSize+1))
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		if len(data) > page.MaxPageSize {
			return "", nil, fmt.Errorf("stdin larger than %d bytes", page.MaxPageSize)
		}
		return "stdin", data, nil
	}
	fi, err := os.Stat(arg)
	if err != nil {
		return "", nil, err
	}
	if fi.Size() > page.MaxPageSize {
		return "", nil, fmt.Errorf("%s larger than %d bytes", arg, page.MaxPageSize)
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", nil, err
	}
	if !utf8.Valid(data) {
		data, err = page.Decode(data, "")
	}
	return arg, data, err
}

// readSource reads arg and, for HTML pages, extracts the problem
// description using the configured selectors.
func readSource(ctx context.Context, cmd *cobra.Command, app *wire.App, arg string) (source, error) {
	name, data, err := readRaw(ctx, cmd, app, arg)
	if err != nil {
		return source{}, err
	}
	if !page.IsHTML(data) {
		return source{Name: name, Text: strings.TrimSpace(string(data))}, nil
	}
	p, err := page.Extract(bytes.NewReader(data), app.Cfg.GetStringSlice("extract.selectors"), app.Cfg.GetInt("extract.min_text"))
	if errors.Is(err, page.ErrNotFound) {
		return source{}, fmt.Errorf("%s: %w (tried %s)", name, err, strings.Join(app.Cfg.GetStringSlice("extract.selectors"), ", "))
	}
	if err != nil {
		return source{}, err
	}
	app.Log.Debug("problem located", zap.String("source", name), zap.String("selector", p.Selector), zap.Int("chars", len(p.Text)))
	return source{Name: name, Text: p.Text, HTML: p.HTML}, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// send asks the daemon when viaDaemon is set, otherwise the in-process
// service. Transport failures come back as (Error) results.
func send(ctx context.Context, app *wire.App, req api.Request, viaDaemon bool) api.Response {
	if !viaDaemon {
		return app.Translator.Handle(ctx, req)
	}
	sock, err := ipc.SocketPath()
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Daemon socket: %v.", err))
	}
	resp, err := ipc.Request(ctx, sock, req)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Daemon not reachable at %s. Start it with \"hinglish daemon\".", sock))
	}
	return resp
}
