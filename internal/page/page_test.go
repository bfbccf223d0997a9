package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var selectors = []string{".content__u3I1.question-content__JfgR", ".description__2b0c", ".elfjS", ".question-description"}

const problemPage = `<!DOCTYPE html><html><body>
<div class="elfjS">short</div>
<div class="question-description">
  <div class="error-div">(Error) old</div>
  <p>Given an array of integers <code>nums</code> and an integer <code>target</code>, return indices.</p>
  <ul><li>Only one valid answer exists.</li><li>You may not use the same element twice.</li></ul>
  <pre>Input: nums = [2,7]
Output: [0,1]</pre>
  <table><tr><th>a</th><th>b</th></tr></table>
</div>
</body></html>`

func TestExtract(t *testing.T) {
	p, err := Extract(strings.NewReader(problemPage), selectors, 50)
	require.NoError(t, err)
	assert.Equal(t, ".question-description", p.Selector)
	assert.NotContains(t, p.HTML, "error-div")
	assert.Contains(t, p.HTML, "<code>nums</code>")

	want := "Given an array of integers nums and an integer target, return indices.\n\n" +
		"Only one valid answer exists.\nYou may not use the same element twice.\n" +
		"Input: nums = [2,7]\nOutput: [0,1]\n" +
		"a\tb"
	assert.Equal(t, want, p.Text)
}

func TestExtractFirstQualifyingSelectorWins(t *testing.T) {
	page := `<div class="elfjS">` + strings.Repeat("x", 60) + `</div><div class="question-description">` + strings.Repeat("y", 60) + `</div>`
	p, err := Extract(strings.NewReader(page), selectors, 50)
	require.NoError(t, err)
	assert.Equal(t, ".elfjS", p.Selector)
}

func TestExtractNotFound(t *testing.T) {
	_, err := Extract(strings.NewReader(`<div class="elfjS">tiny</div>`), selectors, 50)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Extract(strings.NewReader(`<p>nothing here</p>`), nil, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExtractIgnoresPreviousTranslation(t *testing.T) {
	page := `<div class="elfjS">` + Wrap(strings.Repeat("z", 80)) + `</div>`
	_, err := Extract(strings.NewReader(page), selectors, 50)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggle(t *testing.T) {
	tg := NewToggle("<p>orig</p>", "Tanglish")
	html, label := tg.Current()
	assert.Equal(t, "<p>orig</p>", html)
	assert.Equal(t, "Convert to Tanglish", label)

	// Nothing to flip to yet.
	_, label = tg.Flip()
	assert.Equal(t, "Convert to Tanglish", label)
	assert.False(t, tg.Showing())

	html, label = tg.SetTranslation("<p>anuvad</p>")
	assert.Equal(t, `<div id="hinglish-translation-output" class="text-sm pb-10"><p>anuvad</p></div>`, html)
	assert.Equal(t, "Show Original English", label)
	assert.True(t, tg.Showing())
	assert.True(t, tg.HasTranslation())

	html, label = tg.Flip()
	assert.Equal(t, "<p>orig</p>", html)
	assert.Equal(t, "Convert to Tanglish", label)

	_, label = tg.Flip()
	assert.Equal(t, "Show Original English", label)
}

func TestErrorBanner(t *testing.T) {
	out := WithError("<p>orig</p>", `(Error) API Error (500): <bad> & "x"`)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	banner := doc.Find(".error-div")
	require.Equal(t, 1, banner.Length())
	assert.Equal(t, `(Error) API Error (500): <bad> & "x"`, banner.Text())
	assert.Equal(t, 0, banner.Find("bad").Length())
	assert.True(t, strings.HasSuffix(out, "<p>orig</p>"))
}

func TestSanitize(t *testing.T) {
	in := Wrap(`<p onclick="x()">hi</p><script>alert(1)</script>` +
		`<a href="http://e" target="_blank" rel="noopener noreferrer">t</a>` +
		`<a href="javascript:alert(1)">bad</a>` +
		`<img src="http://i" alt="a" style="max-width: 100%; height: auto;">`)
	out := Sanitize(in)

	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, `id="hinglish-translation-output"`)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	a := doc.Find(`a[href="http://e"]`)
	require.Equal(t, 1, a.Length())
	target, _ := a.Attr("target")
	assert.Equal(t, "_blank", target)
	style, _ := doc.Find("img").Attr("style")
	assert.Contains(t, style, "max-width")
}

func TestIsHTML(t *testing.T) {
	assert.True(t, IsHTML([]byte(problemPage)))
	assert.True(t, IsHTML([]byte("<html><body><p>x</p></body></html>")))
	assert.False(t, IsHTML([]byte("# Two Sum\n\nGiven an array **nums**.")))
}

func TestDecode(t *testing.T) {
	latin1 := []byte("caf\xe9 cr\xe8me br\xfbl\xe9e, na\xefve r\xe9sum\xe9 d\xe9j\xe0 vu fa\xe7ade")
	out, err := Decode(latin1, "text/html; charset=iso-8859-1")
	require.NoError(t, err)
	assert.Contains(t, string(out), "café crème")

	out, err = Decode([]byte("plain ascii text"), "")
	require.NoError(t, err)
	assert.Equal(t, "plain ascii text", string(out))
}

func TestFetch(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(problemPage))
	}))
	defer srv.Close()

	data, err := NewFetcher(nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, string(data), "question-description")
	assert.EqualValues(t, 2, calls.Load())
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	_, err := NewFetcher(nil).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestDocument(t *testing.T) {
	out := Document("Two <Sum>", "<p>x</p>")
	assert.Contains(t, out, "<title>Two &lt;Sum&gt;</title>")
	assert.Contains(t, out, "<p>x</p>\n</body>")
}
