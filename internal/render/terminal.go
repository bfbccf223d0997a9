package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	DefaultStyle = "dracula"
	DefaultWidth = 80
)

// Terminal renders Markdown for display in a terminal using glamour.
func Terminal(md, style string, width int) (string, error) {
	if strings.TrimSpace(style) == "" {
		style = DefaultStyle
	}
	if width <= 0 {
		width = DefaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(strings.ReplaceAll(md, "\r\n", "\n"))
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
