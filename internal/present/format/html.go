package format

import (
	"io"
	"strings"

	"github.com/mithrel/hinglish/internal/page"
)

// WriteHTML writes a rendered fragment.
func WriteHTML(w io.Writer, fragment string) error {
	if !strings.HasSuffix(fragment, "\n") {
		fragment += "\n"
	}
	_, err := io.WriteString(w, fragment)
	return err
}

// WriteDocument writes the fragment, inside the translation container, as a
// standalone page.
func WriteDocument(w io.Writer, title, fragment string) error {
	_, err := io.WriteString(w, page.Document(title, page.Wrap(fragment)))
	return err
}
