package format

import (
	"io"
	"strings"

	"github.com/mithrel/hinglish/internal/render"
)

// WriteTerminal renders md for a terminal using glamour.
func WriteTerminal(w io.Writer, md, style string, width int) error {
	out, err := render.Terminal(md, style, width)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// WriteMarkdown writes md as-is, newline terminated.
func WriteMarkdown(w io.Writer, md string) error {
	if !strings.HasSuffix(md, "\n") {
		md += "\n"
	}
	_, err := io.WriteString(w, md)
	return err
}
