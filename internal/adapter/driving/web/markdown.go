package web

import (
	"bytes"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Annotations come from a remote model, so raw HTML in them is dropped by
// goldmark (no WithUnsafe) and the rendered output is sanitized again. Links
// open in a new tab without passing on the referrer.
var (
	annotationMarkdown = goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))
	annotationPolicy   = newAnnotationPolicy()
)

func newAnnotationPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// RenderMarkdown converts an annotation to sanitized HTML. Empty input
// renders as an empty string, and text that fails to convert is shown
// escaped.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := annotationMarkdown.Convert([]byte(src), &buf); err != nil {
		return html.EscapeString(src)
	}
	return annotationPolicy.Sanitize(buf.String())
}
