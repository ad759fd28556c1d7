package render

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown converts markdown text to HTML. The engine is configured for
// GitHub-flavored syntax, smart punctuation, and goldmark's language-prefixed
// code-block classes.
type Markdown struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewMarkdown creates a markdown converter. When sanitize is true the output
// passes through a UGC policy; leave it off for trusted site content so raw
// HTML in the source survives conversion.
func NewMarkdown(sanitize bool) *Markdown {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	var sanitizer *bluemonday.Policy
	if sanitize {
		sanitizer = bluemonday.UGCPolicy()
		sanitizer.AllowAttrs("class").
			Matching(regexp.MustCompile(`^language-[a-zA-Z0-9+-]+$`)).
			OnElements("code")
	}

	return &Markdown{
		md:        md,
		sanitizer: sanitizer,
	}
}

// Convert renders markdown text to HTML.
func (m *Markdown) Convert(text string) (string, error) {
	var buf bytes.Buffer

	err := m.md.Convert([]byte(normalizeHeadings(text)), &buf)
	if err != nil {
		return "", err
	}

	if m.sanitizer != nil {
		return string(m.sanitizer.SanitizeBytes(buf.Bytes())), nil
	}

	return buf.String(), nil
}

// normalizeHeadings strips leading spaces and tabs from heading lines so
// headings indented inside nested structures still render as headings.
func normalizeHeadings(text string) string {
	if !strings.Contains(text, "#") {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed != line && strings.HasPrefix(trimmed, "#") {
			lines[i] = trimmed
		}
	}

	return strings.Join(lines, "\n")
}
