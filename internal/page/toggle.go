package page

import (
	"html"
	"strings"
	"sync"
)

const (
	// OutputID is the id of the wrapper around a shown translation.
	OutputID = "hinglish-translation-output"
	// ErrorClass marks the banner shown above the original on failure.
	ErrorClass = "error-div"

	showOriginalLabel = "Show Original English"
	errorStyle        = "padding: 5px; color: red; border: 1px solid red; margin-top: 10px; margin-bottom: 10px; font-weight: bold; border-radius: 4px;"
)

// ConvertLabel is the toggle label while the original is shown.
func ConvertLabel(language string) string {
	return "Convert to " + language
}

// Wrap puts translated HTML into the output container.
func Wrap(translated string) string {
	return `<div id="` + OutputID + `" class="text-sm pb-10">` + translated + `</div>`
}

// ErrorBanner renders msg, escaped, as the red error banner.
func ErrorBanner(msg string) string {
	return `<div class="` + ErrorClass + `" style="` + errorStyle + `">` + html.EscapeString(msg) + `</div>`
}

// WithError is what a failed translation leaves behind: the original
// content with the banner prepended.
func WithError(original, msg string) string {
	return ErrorBanner(msg) + original
}

// Toggle switches a problem between its original and translated HTML. The
// translation is fetched once and kept. It is safe for concurrent use.
type Toggle struct {
	mu         sync.Mutex
	language   string
	original   string
	translated string
	showing    bool
}

func NewToggle(original, language string) *Toggle {
	if strings.TrimSpace(language) == "" {
		language = "Hinglish"
	}
	return &Toggle{original: original, language: language}
}

// HasTranslation reports whether a translation has been stored.
func (t *Toggle) HasTranslation() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.translated != ""
}

// SetTranslation stores the rendered translation and shows it.
func (t *Toggle) SetTranslation(translatedHTML string) (string, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.translated = translatedHTML
	t.showing = translatedHTML != ""
	return t.current()
}

// Showing reports whether the translation is currently shown.
func (t *Toggle) Showing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.showing
}

// Flip switches sides and returns the HTML to show and the new label.
// Without a stored translation it stays on the original.
func (t *Toggle) Flip() (string, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.translated != "" {
		t.showing = !t.showing
	}
	return t.current()
}

// Current returns the HTML shown now and the matching label.
func (t *Toggle) Current() (string, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current()
}

func (t *Toggle) current() (string, string) {
	if t.showing {
		return Wrap(t.translated), showOriginalLabel
	}
	return t.original, ConvertLabel(t.language)
}
