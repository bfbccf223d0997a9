// Package present writes translation results in the selected output mode.
package present

import (
	"io"

	"github.com/mithrel/hinglish/internal/present/format"
	"github.com/mithrel/hinglish/internal/render"
	"github.com/mithrel/hinglish/pkg/api"
)

type Mode int

const (
	ModeHTML Mode = iota
	ModeMarkdown
	ModeTerminal
	ModeJSON
	ModePage
)

// Modes lists the accepted --format values.
var Modes = []string{"html", "markdown", "terminal", "json", "page"}

type Options struct {
	Mode       Mode
	JSONIndent bool
	Style      string // glamour style for ModeTerminal
	Width      int
	Title      string // document title for ModePage
}

// ParseMode parses a string like "html", "markdown", "terminal", "json", "page".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "html":
		return ModeHTML, true
	case "markdown", "md":
		return ModeMarkdown, true
	case "terminal":
		return ModeTerminal, true
	case "json":
		return ModeJSON, true
	case "page":
		return ModePage, true
	default:
		return ModeHTML, false
	}
}

// RenderResult writes a successful reply according to options.
func RenderResult(w io.Writer, resp api.Response, opts Options) error {
	fragment := resp.HTML
	if fragment == "" {
		fragment = render.Markdown(resp.Result)
	}
	switch opts.Mode {
	case ModeMarkdown:
		return format.WriteMarkdown(w, resp.Result)
	case ModeTerminal:
		return format.WriteTerminal(w, resp.Result, opts.Style, opts.Width)
	case ModeJSON:
		return format.WriteJSONResponse(w, resp, opts.JSONIndent)
	case ModePage:
		return format.WriteDocument(w, opts.Title, fragment)
	default:
		return format.WriteHTML(w, fragment)
	}
}
