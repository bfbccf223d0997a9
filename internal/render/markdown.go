// Package render turns the Markdown dialect returned by the language model
// into HTML fragments, and into styled terminal output for the CLI.
package render

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Code that has already been emitted as HTML is parked behind these marks
// until the end of the pipeline so later rules cannot reach into it.
const (
	fenceMark = "\uE000"
	spanMark  = "\uE001"
	markEnd   = "\uE002"
)

// markStripper drops mark runes from the input so only stashed chunks carry
// them.
var markStripper = strings.NewReplacer(fenceMark, "", spanMark, "", markEnd, "")

// lookaroundTimeout bounds the regexp2 rules; a rule that times out leaves
// its input unchanged.
const lookaroundTimeout = 2 * time.Second

var (
	fenceRe     = regexp.MustCompile("```([\\s\\S]*?)```")
	codeSpanRe  = regexp.MustCompile("`([^`]+)`")
	boldStarRe  = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderRe = regexp.MustCompile(`__(.+?)__`)
	quoteRe     = regexp.MustCompile(`(?m)^> (.*)$`)
	blankRunRe  = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)
	ulMergeRe   = regexp.MustCompile(`</ul>\s*<ul>`)
	olMergeRe   = regexp.MustCompile(`</ol>\s*<ol>`)
	stashRe     = regexp.MustCompile("[" + fenceMark + spanMark + `](\d+)` + markEnd)

	emStarRe  = mustLookaround(`(?<!\*)\*(?![\s*])(.+?)(?<![\s*])\*(?!\*)`)
	emUnderRe = mustLookaround(`(?<![_\w])_(?![\s_])(.+?)(?<![\s_])_(?![_\w])`)

	// sameTagGapRes removes whitespace between a closing tag and a reopening
	// of the same block tag.
	sameTagGapRes = func() map[string]*regexp.Regexp {
		tags := []string{"h1", "h2", "h3", "h4", "h5", "h6", "p", "ul", "ol", "li", "pre", "blockquote"}
		out := make(map[string]*regexp.Regexp, len(tags))
		for _, t := range tags {
			out[t] = regexp.MustCompile(`</` + t + `>\s+<` + t + `>`)
		}
		return out
	}()
)

func mustLookaround(expr string) *regexp2.Regexp {
	re := regexp2.MustCompile(expr, regexp2.None)
	re.MatchTimeout = lookaroundTimeout
	return re
}

// Markdown renders s to an HTML fragment. Literal HTML already present in s
// passes through untouched. Empty input yields an empty string.
//
// Markdown is a pure function of its input and is safe for concurrent use.
func Markdown(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = markStripper.Replace(s)

	var st stash
	s = fenceRe.ReplaceAllStringFunc(s, func(m string) string {
		return st.put(fenceMark, "<pre><code>"+m[3:len(m)-3]+"</code></pre>")
	})
	s = codeSpanRe.ReplaceAllStringFunc(s, func(m string) string {
		return st.put(spanMark, "<code>"+m[1:len(m)-1]+"</code>")
	})

	s = emphasize(s)
	s = quoteRe.ReplaceAllString(s, "<blockquote>$1</blockquote>")
	s = blankRunRe.ReplaceAllString(s, "\n\n")

	var b strings.Builder
	for _, blk := range splitBlocks(s) {
		b.WriteString(blk.render())
	}
	out := b.String()

	out = ulMergeRe.ReplaceAllString(out, "")
	out = olMergeRe.ReplaceAllString(out, "")
	out = st.restore(out)
	return collapseGaps(out)
}

func emphasize(s string) string {
	s = boldStarRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = boldUnderRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = replaceLookaround(emStarRe, s, "<em>$1</em>")
	return replaceLookaround(emUnderRe, s, "<em>$1</em>")
}

func replaceLookaround(re *regexp2.Regexp, s, repl string) string {
	out, err := re.Replace(s, repl, -1, -1)
	if err != nil {
		return s
	}
	return out
}

func collapseGaps(s string) string {
	for tag, re := range sameTagGapRes {
		s = re.ReplaceAllString(s, "</"+tag+"><"+tag+">")
	}
	return s
}

// stash holds HTML chunks that must survive the pipeline verbatim.
type stash struct {
	chunks []string
}

func (st *stash) put(mark, html string) string {
	st.chunks = append(st.chunks, html)
	return mark + strconv.Itoa(len(st.chunks)-1) + markEnd
}

func (st *stash) restore(s string) string {
	if len(st.chunks) == 0 {
		return s
	}
	return stashRe.ReplaceAllStringFunc(s, func(m string) string {
		idx, err := strconv.Atoi(stashRe.FindStringSubmatch(m)[1])
		if err != nil || idx < 0 || idx >= len(st.chunks) {
			return m
		}
		return st.chunks[idx]
	})
}
