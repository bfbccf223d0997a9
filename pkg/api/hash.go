package api

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// TranslationKey identifies one translation of a source text.
type TranslationKey struct {
	Model    string
	Language string
	Text     string
}

// Hash returns a deterministic BLAKE3 hash of the key. Language is
// case-insensitive; surrounding whitespace of the text is ignored.
func (k TranslationKey) Hash() string {
	h := blake3.New()

	h.Write([]byte(k.Model))
	h.Write([]byte{0})

	h.Write([]byte(strings.ToLower(strings.TrimSpace(k.Language))))
	h.Write([]byte{0})

	h.Write([]byte(strings.TrimSpace(k.Text)))

	return hex.EncodeToString(h.Sum(nil))
}
