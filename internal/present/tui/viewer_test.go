package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/hinglish/pkg/api"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(reply api.Response) (*model, *int) {
	calls := 0
	m := newModel(context.Background(), Options{
		Language: "Hinglish",
		Original: "Given an array of integers nums, return indices.",
		Style:    "ascii",
		Translate: func(context.Context) api.Response {
			calls++
			return reply
		},
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, &calls
}

// press sends key to m and runs any command it returns, feeding the
// resulting message back like the program loop would.
func press(t *testing.T, m *model, key string) {
	t.Helper()
	_, cmd := m.Update(keyMsg(key))
	if cmd == nil {
		return
	}
	msg := cmd()
	if _, ok := msg.(translateResultMsg); ok {
		m.Update(msg)
	}
}

func TestViewerTranslatesOnceThenToggles(t *testing.T) {
	m, calls := newTestModel(api.Response{Result: "Ek **array** diya hai."})
	assert.Equal(t, "Convert to Hinglish", m.label())
	assert.Contains(t, m.View(), "Given an array")

	press(t, m, "t")
	require.Equal(t, 1, *calls)
	assert.True(t, m.toggle.Showing())
	assert.Equal(t, "Show Original English", m.label())
	assert.Contains(t, m.View(), "array")

	press(t, m, "t")
	assert.False(t, m.toggle.Showing())
	assert.Equal(t, "Convert to Hinglish", m.label())

	press(t, m, "t")
	assert.True(t, m.toggle.Showing())
	assert.Equal(t, 1, *calls, "translation is reused")
}

func TestViewerNoticeKeepsOriginal(t *testing.T) {
	m, calls := newTestModel(api.ErrorResult("Unknown error."))

	press(t, m, "t")
	assert.Equal(t, 1, *calls)
	assert.False(t, m.toggle.Showing())
	assert.Equal(t, "(Error) Unknown error.", m.notice)
	assert.Contains(t, m.View(), "Given an array")
	assert.Contains(t, m.renderFooter(), "failed")

	press(t, m, "t")
	assert.Equal(t, 2, *calls, "a failed translation is retried")
}

func TestViewerIgnoresToggleWhileLoading(t *testing.T) {
	m, _ := newTestModel(api.Response{Result: "x"})
	_, cmd := m.Update(keyMsg("t"))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Contains(t, m.renderFooter(), "Translating")

	_, again := m.Update(keyMsg("t"))
	assert.Nil(t, again)
}

func TestViewerCachedFooter(t *testing.T) {
	m, _ := newTestModel(api.Response{Result: "x"})
	m.Update(translateResultMsg{resp: api.Response{Result: "cached reply", Cached: true}, dur: time.Millisecond})
	assert.Contains(t, m.renderFooter(), "cached")
}

func TestViewerQuit(t *testing.T) {
	m, _ := newTestModel(api.Response{})
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestPaneResize(t *testing.T) {
	p := newPane(0, 0)
	assert.Equal(t, 80, p.width)
	p.resizeForTerm(200, 50)
	assert.Equal(t, 160, p.width)
	assert.Equal(t, 49, p.height)
	assert.Equal(t, 160-2-4, p.innerWidth())
}
