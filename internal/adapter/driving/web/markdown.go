package web

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
}

// RenderMessage converts a user-facing message to sanitized HTML. Backend
// messages quote parameter names in backticks, e.g. "Invalid `password` param",
// which render as inline code. Returns empty string for blank input.
func RenderMessage(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(msg), &buf); err != nil {
		return htmlSanitizer.Sanitize(msg)
	}

	return strings.TrimSpace(htmlSanitizer.Sanitize(buf.String()))
}
