// Package tui is the interactive terminal viewer for a problem and its
// translation.
package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/hinglish/internal/page"
	"github.com/mithrel/hinglish/internal/render"
	"github.com/mithrel/hinglish/pkg/api"
)

// Translator requests the translation of the problem being viewed.
type Translator func(ctx context.Context) api.Response

type Options struct {
	Title     string
	Language  string
	Original  string // plain text of the problem
	Style     string // glamour style for the translation
	Translate Translator
}

// Run shows the viewer until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type model struct {
	ctx    context.Context
	opts   Options
	toggle *page.Toggle
	pane   *pane

	width, height int

	translated   string // raw Markdown reply
	notice       string
	loading      bool
	cached       bool
	lastDuration time.Duration
}

func newModel(ctx context.Context, opts Options) *model {
	m := &model{
		ctx:    ctx,
		opts:   opts,
		toggle: page.NewToggle(opts.Original, opts.Language),
		pane:   newPane(0, 0),
	}
	m.refresh()
	return m
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		m.pane.resizeForTerm(x.Width, x.Height)
		m.refresh()
		return m, nil
	case translateResultMsg:
		m.loading = false
		m.lastDuration = x.dur
		if api.IsNotice(x.resp.Result) {
			m.notice = x.resp.Result
			m.refresh()
			return m, nil
		}
		m.notice = ""
		m.cached = x.resp.Cached
		m.translated = x.resp.Result
		m.toggle.SetTranslation(x.resp.Result)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch x.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "t":
			return m, m.flip()
		}
	}
	return m, m.pane.update(msg)
}

// flip shows the other side, requesting the translation the first time.
func (m *model) flip() tea.Cmd {
	if m.loading {
		return nil
	}
	if !m.toggle.HasTranslation() {
		m.loading = true
		m.notice = ""
		return translateCmd(m.ctx, m.opts.Translate)
	}
	m.toggle.Flip()
	m.refresh()
	return nil
}

func (m *model) refresh() {
	w := m.pane.innerWidth()
	if m.toggle.Showing() {
		out, err := render.Terminal(m.translated, m.opts.Style, w)
		if err != nil {
			out = m.translated
		}
		m.pane.setContent(out)
		return
	}
	body := lipgloss.NewStyle().Width(w).Render(m.opts.Original)
	if m.notice != "" {
		body = noticeStyle.Width(w).Render(m.notice) + "\n\n" + body
	}
	m.pane.setContent(body)
}

func (m *model) label() string {
	_, label := m.toggle.Current()
	return label
}

func (m *model) renderFooter() string {
	left := labelStyle.Render("t: "+m.label()) + hintStyle.Render(" • ↑/↓ scroll • q quit")

	var right string
	switch {
	case m.loading:
		right = "Translating…"
	case m.notice != "":
		right = noticeStyle.Render("failed")
	case m.toggle.Showing() && m.cached:
		right = "cached"
	case m.toggle.Showing() && m.lastDuration > 0:
		right = m.lastDuration.Round(time.Millisecond).String()
	}
	if m.opts.Title != "" {
		if right != "" {
			right += " • "
		}
		right += m.opts.Title
	}

	space := m.pane.width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		space = 1
	}
	return left + strings.Repeat(" ", space) + right
}

func (m *model) View() string {
	return m.pane.view() + "\n" + m.renderFooter()
}
