package page

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Sanitize strips scripts, event handlers and unsafe URLs from rendered HTML
// while keeping what the renderer and Wrap emit.
func Sanitize(s string) string {
	policyOnce.Do(func() { policy = newPolicy() })
	return policy.Sanitize(s)
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("rel").Matching(regexp.MustCompile(`^noopener noreferrer$`)).OnElements("a")
	p.AllowAttrs("id").Matching(regexp.MustCompile(`^` + OutputID + `$`)).OnElements("div")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w\s-]+$`)).OnElements("div")
	p.AllowStyles("max-width", "height").OnElements("img")
	p.AllowStyles("padding", "color", "border", "margin-top", "margin-bottom", "font-weight", "border-radius").OnElements("div")
	return p
}
