package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"
)

// pane is the bordered, scrollable area showing either side of a problem.
type pane struct {
	vp      viewport.Model
	width   int
	height  int
	padX    int
	padY    int
	box     lipglossv2.Style
	content string
}

func newPane(termW, termH int) *pane {
	p := &pane{padX: 2, padY: 1}
	p.resizeForTerm(termW, termH)
	return p
}

// resizeForTerm sizes the pane to the terminal, leaving one row for the
// status line.
func (p *pane) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := termW
	if termW > 100 {
		w = int(float64(termW) * 0.8)
	}
	h := termH - 1
	if h < 8 {
		h = 8
	}
	p.width, p.height = w, h
	p.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(p.padY, p.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := w - 2 - p.padX*2 // borders + padding
	innerH := h - 2 - p.padY*2
	if innerW < 10 {
		innerW = 10
	}
	if innerH < 3 {
		innerH = 3
	}
	if p.vp.Width == 0 {
		p.vp = viewport.New(innerW, innerH)
	} else {
		p.vp.Width = innerW
		p.vp.Height = innerH
	}
	p.vp.SetContent(p.content)
}

// innerWidth is the text width available inside borders and padding.
func (p *pane) innerWidth() int { return p.vp.Width }

func (p *pane) setContent(s string) {
	p.content = s
	p.vp.SetContent(s)
	p.vp.GotoTop()
}

func (p *pane) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

func (p *pane) view() string { return p.box.Render(p.vp.View()) }
