package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/hinglish/pkg/api"
)

// ErrReported is returned after a failure has already been shown to the
// user; main exits non-zero without printing it again.
var ErrReported = errors.New("already reported")

var (
	errorBanner = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)
	infoBanner = errorBanner.
			Foreground(lipgloss.Color("214")).
			BorderForeground(lipgloss.Color("214"))
)

// reportNotice prints an (Error)/[Info] result as a banner.
func reportNotice(w io.Writer, result string) error {
	style := infoBanner
	if api.IsError(result) {
		style = errorBanner
	}
	_, _ = fmt.Fprintln(w, style.Render(result))
	return ErrReported
}
