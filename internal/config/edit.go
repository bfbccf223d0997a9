package config

import (
	"strings"
)

// SetOption writes key = value into existing TOML text. A dotted key lands
// in its [section], which is appended when missing. An existing assignment
// is replaced in place; the rest of the file is left as written.
func SetOption(existing, key string, value any) string {
	section, name, dotted := strings.Cut(key, ".")
	if !dotted {
		section, name = "", key
	}
	assign := name + " = " + tomlValue(value)

	var lines []string
	if existing != "" {
		lines = strings.Split(existing, "\n")
	}
	out := make([]string, 0, len(lines)+3)
	current := ""
	firstHeader, sectionStart := -1, -1

	for i, line := range lines {
		trim := strings.TrimSpace(line)
		if isSectionHeader(trim) {
			current = strings.TrimSpace(trim[1 : len(trim)-1])
			if firstHeader < 0 {
				firstHeader = i
			}
			if current == section {
				sectionStart = i + 1
			}
			out = append(out, line)
			continue
		}
		if current == section {
			if k, ok := parseTOMLKey(line); ok && k == name {
				indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
				out = append(out, indent+assign)
				out = append(out, lines[i+1:]...)
				return strings.Join(out, "\n")
			}
		}
		out = append(out, line)
	}

	// Top-level keys must precede the first table header.
	at := sectionStart
	if section == "" {
		at = firstHeader
	}
	if at >= 0 {
		out = append(out[:at], append([]string{assign}, out[at:]...)...)
		return strings.Join(out, "\n")
	}
	if section != "" {
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, "["+section+"]")
	}
	out = append(out, assign)
	return strings.Join(out, "\n")
}
