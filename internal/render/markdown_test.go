package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Empty", "", ""},
		{"WhitespaceOnly", "  \n\t\n ", ""},
		{"PlainText", "hello world", "<p>hello world</p>"},
		{"Paragraphs", "first para\n\n\n\nsecond", "<p>first para</p><p>second</p>"},
		{"CRLF", "Header\r\n\r\nBody", "<p>Header</p><p>Body</p>"},
		{"FencedCode", "```a*b*c```", "<pre><code>a*b*c</code></pre>"},
		{
			"FencedCodeKeepsInterior",
			"```\nx = *y*\n# not heading\n- not list\n```",
			"<pre><code>\nx = *y*\n# not heading\n- not list\n</code></pre>",
		},
		{"UnterminatedFence", "```abc", "<p>```abc</p>"},
		{"InlineCode", "use `a*b*` here", "<p>use <code>a*b*</code> here</p>"},
		{"AdjacentCodeSpansKeepSpace", "`a` `b`", "<p><code>a</code> <code>b</code></p>"},
		{"LiteralPreSkipsLineRulesOnly", "<pre>a*b*c\n- x</pre>", "<pre>a<em>b</em>c\n- x</pre>"},
		{"Bold", "**bold** and __also__", "<p><strong>bold</strong> and <strong>also</strong></p>"},
		{"Italic", "*it* and _it_", "<p><em>it</em> and <em>it</em></p>"},
		{"ArithmeticStars", "2 * 3 * 4", "<p>2 * 3 * 4</p>"},
		{"SnakeCase", "max_value_sum stays", "<p>max_value_sum stays</p>"},
		{"Blockquote", "> quoted", "<blockquote>quoted</blockquote>"},
		{
			"BlockquoteLinesStaySeparate",
			"> a\n> b",
			"<blockquote>a</blockquote><blockquote>b</blockquote>",
		},
		{"UnorderedList", "- x\n- y", "<ul><li>x</li><li>y</li></ul>"},
		{"StarList", "* x\n+ y", "<ul><li>x</li><li>y</li></ul>"},
		{"OrderedList", "1. one\n2. two", "<ol><li>one</li><li>two</li></ol>"},
		{"Constraints", "Constraints:\n- 1 <= n", "Constraints:\n<ul><li>1 <= n</li></ul>"},
		{"H1", "# A", "<h1>A</h1>"},
		{"H3", "### C", "<h3>C</h3>"},
		{"H6", "###### Z", "<h6>Z</h6>"},
		{
			"Link",
			"[t](http://e)",
			`<p><a href="http://e" target="_blank" rel="noopener noreferrer">t</a></p>`,
		},
		{
			"Image",
			"![a](http://i)",
			`<p><img src="http://i" alt="a" style="max-width: 100%; height: auto;"></p>`,
		},
		{
			"TableMismatchedRowDropped",
			"| A | B |\n| 1 |",
			"<table><thead><tr><th>A</th><th>B</th></tr></thead><tbody></tbody></table>",
		},
		{
			"TableWithDivider",
			"| A | B |\n|---|:---:|\n| 1 | 2 |",
			"<table><thead><tr><th>A</th><th>B</th></tr></thead><tbody><tr><td>1</td><td>2</td></tr></tbody></table>",
		},
		{"InlineHTML", "<b>keep</b> this", "<p><b>keep</b> this</p>"},
		{
			"ExistingTable",
			"<table><tr><td>1</td></tr></table>",
			"<table><tr><td>1</td></tr></table>",
		},
		{
			"Document",
			"# Title\n\nSome **bold** text.\n\n- a\n- b\n\n```go\nfmt.Println()\n```",
			"<h1>Title</h1><p>Some <strong>bold</strong> text.</p><ul><li>a</li><li>b</li></ul><pre><code>go\nfmt.Println()\n</code></pre>",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Markdown(tc.in)); diff != "" {
				t.Errorf("Markdown(%q) (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestMarkdownNoSyntaxIsSingleParagraph(t *testing.T) {
	inputs := []string{
		"Given an array of integers nums, return the answer.",
		"Two numbers add up to target, and you may not use the same element twice.",
		"Line one\nline two",
	}
	for _, in := range inputs {
		assert.Equal(t, "<p>"+in+"</p>", Markdown(in))
	}
}

func TestMarkdownRewrapIsNoop(t *testing.T) {
	inputs := []string{
		"hello\n\nworld",
		"- x\n- y",
		"###### Z",
		"```x = 1```",
		"1. one\n2. two",
		"> quoted",
	}
	for _, in := range inputs {
		once := Markdown(in)
		assert.Equal(t, once, Markdown(once), "input %q", in)
	}
}

func TestMarkdownTableBody(t *testing.T) {
	out := Markdown("| A | B |\n| 1 |\n| 3 | 4 |")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find("thead th").Length())
	rows := doc.Find("tbody tr")
	require.Equal(t, 1, rows.Length())
	assert.Equal(t, "3", rows.Find("td").First().Text())
}

func TestMarkdownLinkAndImageAttributes(t *testing.T) {
	out := Markdown("See [t](http://e) and ![a](http://i)")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)

	a := doc.Find("a")
	require.Equal(t, 1, a.Length())
	href, _ := a.Attr("href")
	target, _ := a.Attr("target")
	rel, _ := a.Attr("rel")
	assert.Equal(t, "http://e", href)
	assert.Equal(t, "_blank", target)
	assert.Equal(t, "noopener noreferrer", rel)
	assert.Equal(t, "t", a.Text())

	img := doc.Find("img")
	require.Equal(t, 1, img.Length())
	src, _ := img.Attr("src")
	alt, _ := img.Attr("alt")
	assert.Equal(t, "http://i", src)
	assert.Equal(t, "a", alt)
}

func TestMarkdownQuotesInURLAreEscaped(t *testing.T) {
	out := Markdown(`[x](http://e/"y)`)
	assert.Contains(t, out, `href="http://e/&quot;y"`)
}

func TestMarkdownIgnoresMarkRunesInInput(t *testing.T) {
	in := "`x`\n\n\uE0010\uE002 tail"
	assert.Equal(t, "<p><code>x</code></p><p>0 tail</p>", Markdown(in))

	assert.Equal(t, "<p>0 fence</p>", Markdown("\uE0000\uE002 fence"))
}

func TestMarkdownConcurrent(t *testing.T) {
	in := "# T\n\n**a** _b_ `c`\n\n- d\n- e\n\n| A |\n| 1 |"
	want := Markdown(in)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, Markdown(in))
		}()
	}
	wg.Wait()
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want blockKind
	}{
		{fenceMark + "0" + markEnd, codeBlock},
		{"<pre>x</pre>", codeBlock},
		{"<ul><li>x</li></ul>", listBlock},
		{"3. third", listBlock},
		{"- dash", listBlock},
		{"Constraints:", constraintsBlock},
		{"## Example", headingBlock},
		{"| a |", tableBlock},
		{"<p>done</p>", markupBlock},
		{"<h2>x</h2>", markupBlock},
		{"plain words", proseBlock},
		{"#hashtag", proseBlock},
		{"-1 is negative", proseBlock},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, classify(tc.in), "classify(%q)", tc.in)
	}
}
