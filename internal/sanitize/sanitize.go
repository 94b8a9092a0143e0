// Package sanitize cleans user-supplied text before it is stored. Long
// descriptions come from a rich text editor and keep a small set of
// formatting tags; every other field is reduced to plain text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = newRichPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

func newRichPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "strong", "em", "u", "s",
		"h1", "h2", "h3",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	return p
}

// RichText keeps basic formatting and links and strips everything else,
// including scripts, styles and event handler attributes.
func RichText(s string) string {
	return strings.TrimSpace(richPolicy.Sanitize(s))
}

// PlainText removes all markup. Entities are decoded again since the result
// is served as JSON text, not HTML.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(s)))
}
