package render

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

type blockKind int

const (
	proseBlock blockKind = iota
	codeBlock
	listBlock
	constraintsBlock
	headingBlock
	tableBlock
	markupBlock
)

var (
	blockSplitRe    = regexp.MustCompile(`\n[ \t]*\n`)
	codePrefixRe    = regexp.MustCompile(`^<pre[\s>]`)
	listPrefixRe    = regexp.MustCompile(`^(<(ul|ol)[\s>]|(\d+\.|[*+-])\s)`)
	headingPrefixRe = regexp.MustCompile(`^#{1,6} `)
	markupPrefixRe  = regexp.MustCompile(`^<(p|blockquote|table|div|h[1-6])[\s>]`)

	ulItemRe     = regexp.MustCompile(`(?m)^[*+-][ \t]+(.*)$`)
	olItemRe     = regexp.MustCompile(`(?m)^\d+\.[ \t]+(.*)$`)
	tableRuleRe  = regexp.MustCompile(`^:?-+:?$`)
	headingRes   = headingRules()
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	linkRe       = mustLookaround(`(?<!!)\[([^\]]+)\]\(([^)\s]+)\)`)
	imageStyle   = "max-width: 100%; height: auto;"
	attrReplacer = strings.NewReplacer(`"`, "&quot;")
)

// headingRules returns the h6..h1 patterns, most specific first.
func headingRules() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, 6)
	for level := 6; level >= 1; level-- {
		out = append(out, regexp.MustCompile(`(?m)^`+strings.Repeat("#", level)+` (.*)$`))
	}
	return out
}

type block struct {
	kind blockKind
	text string
}

// splitBlocks cuts s on blank lines and classifies every non-empty block.
func splitBlocks(s string) []block {
	parts := blockSplitRe.Split(s, -1)
	out := make([]block, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t == "" {
			continue
		}
		out = append(out, block{kind: classify(t), text: t})
	}
	return out
}

func classify(t string) blockKind {
	switch {
	case strings.HasPrefix(t, fenceMark), codePrefixRe.MatchString(t):
		return codeBlock
	case listPrefixRe.MatchString(t):
		return listBlock
	case strings.HasPrefix(t, "Constraints:"):
		return constraintsBlock
	case headingPrefixRe.MatchString(t):
		return headingBlock
	case isTableLine(firstLine(t)):
		return tableBlock
	case markupPrefixRe.MatchString(t):
		return markupBlock
	}
	return proseBlock
}

// render applies the line-scoped rules to the block body. Only prose is
// wrapped in a paragraph; every other kind already carries its own structure.
// Literal <pre> blocks skip the line rules.
func (b block) render() string {
	body := b.text
	if b.kind != codeBlock || strings.HasPrefix(body, fenceMark) {
		body = renderLines(body)
	}
	if b.kind == proseBlock {
		return "<p>" + body + "</p>"
	}
	return body
}

func renderLines(s string) string {
	s = ulItemRe.ReplaceAllString(s, "<ul><li>$1</li></ul>")
	s = olItemRe.ReplaceAllString(s, "<ol><li>$1</li></ol>")
	for i, re := range headingRes {
		level := string(rune('6' - i))
		s = re.ReplaceAllString(s, "<h"+level+">$1</h"+level+">")
	}
	s = renderLinks(s)
	s = imageRe.ReplaceAllStringFunc(s, func(m string) string {
		g := imageRe.FindStringSubmatch(m)
		return `<img src="` + attrReplacer.Replace(g[2]) + `" alt="` + attrReplacer.Replace(g[1]) + `" style="` + imageStyle + `">`
	})
	return renderTables(s)
}

func renderLinks(s string) string {
	out, err := linkRe.ReplaceFunc(s, func(m regexp2.Match) string {
		text := m.GroupByNumber(1).String()
		href := attrReplacer.Replace(m.GroupByNumber(2).String())
		return `<a href="` + href + `" target="_blank" rel="noopener noreferrer">` + text + `</a>`
	}, -1, -1)
	if err != nil {
		return s
	}
	return out
}

// renderTables converts every run of pipe-delimited lines into a table.
// Rows whose cell count differs from the header are dropped.
func renderTables(s string) string {
	if !strings.Contains(s, "|") {
		return s
	}
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); {
		if !isTableLine(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}
		j := i
		for j < len(lines) && isTableLine(lines[j]) {
			j++
		}
		out = append(out, buildTable(lines[i:j]))
		i = j
	}
	return strings.Join(out, "\n")
}

func buildTable(lines []string) string {
	header := tableCells(lines[0])
	var b strings.Builder
	b.WriteString("<table><thead><tr>")
	for _, c := range header {
		b.WriteString("<th>" + c + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, line := range lines[1:] {
		cells := tableCells(line)
		if len(cells) != len(header) || isRuleRow(cells) {
			continue
		}
		b.WriteString("<tr>")
		for _, c := range cells {
			b.WriteString("<td>" + c + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

func tableCells(line string) []string {
	parts := strings.Split(strings.TrimSpace(line), "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := strings.TrimSpace(p); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// isRuleRow reports the |---|:---:| divider under a header.
func isRuleRow(cells []string) bool {
	for _, c := range cells {
		if !tableRuleRe.MatchString(c) {
			return false
		}
	}
	return len(cells) > 0
}

func isTableLine(line string) bool {
	t := strings.TrimSpace(line)
	return len(t) >= 2 && t[0] == '|' && t[len(t)-1] == '|'
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
