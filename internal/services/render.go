// File: internal/services/render.go
package services

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MarkdownRenderer converts assistant reply markdown into HTML for the
// read endpoint. Rendering happens server-side so every polling client
// sees the same output.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// Render returns the HTML for the given markdown, or the empty string
// when conversion fails. A render failure never fails a read.
func (r *MarkdownRenderer) Render(text string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return ""
	}
	return buf.String()
}
