package web

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
)

// Fact text is short user input: render inline markup (emphasis, code,
// :emoji: shortcodes, autolinks) but never raw HTML.
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.Linkify,
		extension.Strikethrough,
		emoji.New(emoji.WithRenderingMethod(emoji.Unicode)),
	),
)

func renderFactText(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	out := strings.TrimSpace(b.String())
	// A single paragraph is unwrapped so the text flows inline with the source link.
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	// goldmark output is trusted only because raw HTML is disabled (no html.WithUnsafe).
	return template.HTML(out)
}
