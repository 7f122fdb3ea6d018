// Package markdown renders user-authored Markdown into sanitized HTML.
package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	renderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	policy = buildPolicy()
)

// buildPolicy allows the elements user content may carry and strips
// everything else, including scripts and event-handler attributes.
func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowElements("p", "br", "strong", "em", "u", "s", "del", "ins")
	p.AllowElements("ul", "ol", "li")
	p.AllowElements("blockquote", "pre", "code", "hr")
	p.AllowElements("table", "thead", "tbody", "tr", "th", "td")
	p.AllowElements("figure", "figcaption")

	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("class", "id").OnElements("span", "div")
	p.AllowElements("span", "div")

	p.AllowStandardURLs()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	return p
}

// Sanitize strips disallowed HTML from text without rendering Markdown.
// Used for fields stored as HTML fragments, like profile bios.
func Sanitize(text string) string {
	return policy.Sanitize(text)
}

// RenderSafe converts Markdown source to sanitized HTML. On a render error
// the raw source is sanitized and returned as-is.
func RenderSafe(source string) string {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(source), &buf); err != nil {
		return policy.Sanitize(source)
	}
	return string(policy.SanitizeBytes(buf.Bytes()))
}
