package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	var b strings.Builder
	b.WriteString("# hinglish configuration (TOML)\n")

	top, sections, order := groupOptions(GetConfigOptions())
	for _, o := range top {
		writeTOMLOption(&b, o.Key, o.Default, o.Comment)
	}
	for _, section := range order {
		b.WriteString("[" + section + "]\n")
		for _, o := range sections[section] {
			writeTOMLOption(&b, o.Key, o.Default, o.Comment)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// groupOptions splits dotted keys into their TOML sections, keeping the
// declaration order of both sections and keys.
func groupOptions(opts []ConfigOption) (top []ConfigOption, sections map[string][]ConfigOption, order []string) {
	sections = make(map[string][]ConfigOption)
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, seen := sections[section]; !seen {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

// UpdateTOML merges defaults into an existing TOML string and comments out unknown keys.
func UpdateTOML(existing string) (string, bool) {
	lines := strings.Split(existing, "\n")
	opts := GetConfigOptions()

	known := make(map[string]bool, len(opts))
	for _, o := range opts {
		known[o.Key] = true
	}

	existingKeys := make(map[string]bool)
	currentSection := ""
	out := make([]string, 0, len(lines))
	changed := false

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") || strings.HasPrefix(trim, ";") {
			out = append(out, line)
			continue
		}
		if isSectionHeader(trim) {
			currentSection = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		fullKey := key
		if currentSection != "" {
			fullKey = currentSection + "." + key
		}
		existingKeys[fullKey] = true
		if !known[fullKey] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+"# OUTDATED: option removed from config schema")
			out = append(out, indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
			continue
		}
		out = append(out, line)
	}

	missing := make([]ConfigOption, 0)
	for _, o := range opts {
		if !existingKeys[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	top, sections, order := groupOptions(missing)
	out = append(out, "", "# Added by config update")
	for _, o := range top {
		writeTOMLOptionLines(&out, o.Key, o.Default, o.Comment)
	}
	for _, section := range order {
		out = append(out, "["+section+"]")
		for _, o := range sections[section] {
			writeTOMLOptionLines(&out, o.Key, o.Default, o.Comment)
		}
	}
	return strings.Join(out, "\n"), true
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") {
		return "", false
	}
	if strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func isSectionHeader(line string) bool {
	return strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]")
}

// tomlValue formats a Go default as a TOML literal. Durations are written as
// strings so viper can parse them back with GetDuration.
func tomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case time.Duration:
		return strconv.Quote(v.String())
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool, int, int64:
		return fmt.Sprintf("%v", v)
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	}
	return strconv.Quote(fmt.Sprint(value))
}

func writeTOMLOption(b *strings.Builder, key string, value any, comment string) {
	if comment != "" {
		b.WriteString("# " + comment + "\n")
	}
	b.WriteString(key + " = " + tomlValue(value) + "\n\n")
}

func writeTOMLOptionLines(lines *[]string, key string, value any, comment string) {
	if comment != "" {
		*lines = append(*lines, "# "+comment)
	}
	*lines = append(*lines, key+" = "+tomlValue(value), "")
}
