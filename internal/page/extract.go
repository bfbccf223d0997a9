package page

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"golang.org/x/net/html"
)

// ErrNotFound is returned when no selector matches a large enough container.
var ErrNotFound = errors.New("problem description not found")

// injectedSelector matches nodes added by an earlier translation.
const injectedSelector = "#" + OutputID + ", ." + ErrorClass

// Problem is the located problem description.
type Problem struct {
	Selector string
	HTML     string // inner HTML with injected nodes removed
	Text     string // block-aware text, as a browser's innerText
}

// Extract returns the first container matched by selectors, in order,
// whose text is longer than minText characters.
func Extract(r io.Reader, selectors []string, minText int) (Problem, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Problem{}, fmt.Errorf("parse page: %w", err)
	}
	sels := lo.Uniq(lo.Compact(lo.Map(selectors, func(s string, _ int) string {
		return strings.TrimSpace(s)
	})))
	for _, sel := range sels {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		clean := el.Clone()
		clean.Find(injectedSelector).Remove()

		text := InnerText(clean)
		if utf8.RuneCountInString(text) <= minText {
			continue
		}
		inner, err := clean.Html()
		if err != nil {
			return Problem{}, fmt.Errorf("serialize %s: %w", sel, err)
		}
		return Problem{Selector: sel, HTML: strings.TrimSpace(inner), Text: text}, nil
	}
	return Problem{}, ErrNotFound
}

var blockTags = lo.SliceToMap([]string{
	"address", "article", "aside", "blockquote", "dd", "div", "dl", "dt",
	"figcaption", "figure", "footer", "h1", "h2", "h3", "h4", "h5", "h6",
	"header", "hr", "li", "main", "nav", "ol", "p", "pre", "section",
	"table", "tbody", "thead", "tfoot", "tr", "ul",
}, func(t string) (string, struct{}) { return t, struct{}{} })

var (
	spaceRunRe = regexp.MustCompile(`[ \t\r\n\f]+`)
	blankRe    = regexp.MustCompile(`\n{3,}`)
)

// InnerText approximates HTMLElement.innerText: whitespace collapses outside
// <pre>, block elements and <br> break lines, table cells are tab separated.
func InnerText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeText(&b, c, false)
		}
	}
	lines := strings.Split(blankRe.ReplaceAllString(b.String(), "\n\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func writeText(b *strings.Builder, n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			b.WriteString(n.Data)
			return
		}
		t := spaceRunRe.ReplaceAllString(n.Data, " ")
		if t == " " && endsWithBreak(b) {
			return
		}
		if strings.HasPrefix(t, " ") && endsWithBreak(b) {
			t = t[1:]
		}
		b.WriteString(t)
		return
	case html.ElementNode:
	default:
		return
	}

	tag := n.Data
	switch tag {
	case "script", "style", "noscript", "template":
		return
	case "br":
		b.WriteString("\n")
		return
	case "td", "th":
		if prevElement(n) != nil {
			b.WriteString("\t")
		}
	}
	_, block := blockTags[tag]
	if block {
		newline(b)
	}
	inPre := pre || tag == "pre"
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c, inPre)
	}
	if block {
		newline(b)
		if tag == "p" {
			b.WriteString("\n")
		}
	}
}

func endsWithBreak(b *strings.Builder) bool {
	s := b.String()
	return s == "" || strings.HasSuffix(s, "\n")
}

func newline(b *strings.Builder) {
	if !endsWithBreak(b) {
		b.WriteString("\n")
	}
}

func prevElement(n *html.Node) *html.Node {
	for p := n.PrevSibling; p != nil; p = p.PrevSibling {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}
