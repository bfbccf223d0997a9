package config

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultLanguage is used when no preference has been saved.
const DefaultLanguage = "Hinglish"

// KnownLanguages are the mixed-language targets the prompt has been tuned for.
var KnownLanguages = []string{
	"Hinglish",
	"Tanglish",
	"Banglish",
	"Manglish",
	"Kanglish",
	"Punglish",
	"Marathlish",
	"Gujlish",
}

// ResolveLanguage maps user input onto a known language name, ignoring case.
// Empty input yields DefaultLanguage. Unknown names fail with the closest
// known names as suggestions.
func ResolveLanguage(in string) (string, error) {
	q := strings.TrimSpace(in)
	if q == "" {
		return DefaultLanguage, nil
	}
	for _, l := range KnownLanguages {
		if strings.EqualFold(l, q) {
			return l, nil
		}
	}
	matches := fuzzy.Find(strings.ToLower(q), lowerLanguages())
	if len(matches) == 0 {
		return "", fmt.Errorf("unknown language %q (known: %s)", q, strings.Join(KnownLanguages, ", "))
	}
	suggest := make([]string, 0, 3)
	for i, m := range matches {
		if i == 3 {
			break
		}
		suggest = append(suggest, KnownLanguages[m.Index])
	}
	return "", fmt.Errorf("unknown language %q (did you mean %s?)", q, strings.Join(suggest, ", "))
}

func lowerLanguages() []string {
	out := make([]string, len(KnownLanguages))
	for i, l := range KnownLanguages {
		out[i] = strings.ToLower(l)
	}
	return out
}
