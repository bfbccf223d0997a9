package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/hinglish/pkg/api"
)

// translateResultMsg conveys the reply to a translation request.
type translateResultMsg struct {
	resp api.Response
	dur  time.Duration
}

// translateCmd runs translate off the UI goroutine.
func translateCmd(ctx context.Context, translate Translator) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		if translate == nil {
			return translateResultMsg{resp: api.ErrorResult("No translator configured.")}
		}
		resp := translate(ctx)
		return translateResultMsg{resp: resp, dur: time.Since(start)}
	}
}
