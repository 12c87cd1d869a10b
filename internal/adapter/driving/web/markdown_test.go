package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown_EmptyInput(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}

func TestRenderMarkdown_PlainText(t *testing.T) {
	result := RenderMarkdown("hello world")
	assert.Contains(t, result, "hello world")
}

func TestRenderMarkdown_Bold(t *testing.T) {
	result := RenderMarkdown("**bold text**")
	assert.Contains(t, result, "<strong>bold text</strong>")
}

func TestRenderMarkdown_SuggestedActions(t *testing.T) {
	result := RenderMarkdown("This is a WiFi network.\n\n* Connect to it\n* Save the password")
	assert.Contains(t, result, "<ul>")
	assert.Contains(t, result, "<li>Connect to it</li>")
}

func TestRenderMarkdown_Link(t *testing.T) {
	result := RenderMarkdown("[click](https://example.com)")
	assert.Contains(t, result, `<a href="https://example.com"`)
	assert.Contains(t, result, "click</a>")
}

func TestRenderMarkdown_SanitizesScript(t *testing.T) {
	result := RenderMarkdown(`<script>alert("xss")</script>`)
	assert.NotContains(t, result, "<script>")
}

func TestRenderMarkdown_GFMStrikethrough(t *testing.T) {
	result := RenderMarkdown("~~deleted~~")
	assert.Contains(t, result, "<del>deleted</del>")
}

func TestRenderMarkdown_SanitizesJavascriptLinks(t *testing.T) {
	result := RenderMarkdown("[site](javascript:alert(1))")
	assert.NotContains(t, result, "javascript:")
}

func TestRenderMarkdown_DropsRawHTML(t *testing.T) {
	result := RenderMarkdown(`<img src="x" onerror="alert(1)">plain`)
	assert.NotContains(t, result, "<img")
	assert.NotContains(t, result, "onerror")
}

func TestRenderMarkdown_LinksOpenInNewTab(t *testing.T) {
	result := RenderMarkdown("see https://example.com")
	assert.Contains(t, result, `href="https://example.com"`)
	assert.Contains(t, result, `target="_blank"`)
}
