// Package render converts mixed markdown/component content into HTML.
// Markdown spans go through goldmark; component tags dispatch to the tag
// registry or, for block forms, the structured-document renderer. Failures
// are isolated per segment: the worst outcome of a render pass is a document
// with inline error placeholders, never a failed page.
package render

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BeamLabEU/phoenix-kit-sub002/internal/markup"
)

// Error placeholders emitted in place of failed segments.
const (
	documentErrorHTML = `<div class="render-error">document rendering error</div>`
	markdownErrorHTML = `<div class="render-error">rendering error</div>`
)

// Renderer walks mixed content and emits HTML in original segment order.
type Renderer struct {
	md         *Markdown
	registry   *Registry
	structured *Structured
	logger     *slog.Logger
}

// NewRenderer wires a mixed-content renderer from its collaborators.
func NewRenderer(md *Markdown, registry *Registry, structured *Structured, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Renderer{
		md:         md,
		registry:   registry,
		structured: structured,
		logger:     logger,
	}
}

// Markdown converts plain markdown text to HTML.
func (r *Renderer) Markdown(text string) (string, error) {
	return r.md.Convert(text)
}

// Post renders a post body. Fully structured documents delegate wholesale to
// the structured renderer; content without component tags goes straight
// through the markdown engine; everything else is walked segment by segment.
// Post never fails: every external-call error becomes an inline placeholder.
func (r *Renderer) Post(content string) string {
	trimmed := strings.TrimSpace(content)

	if strings.HasPrefix(trimmed, markup.DocumentMarker) {
		out, err := r.structured.Render(trimmed)
		if err != nil {
			r.logger.Warn("structured document failed to render", "error", err)
			return documentErrorHTML
		}

		return out
	}

	if !markup.HasComponent(content) {
		out, err := r.md.Convert(content)
		if err != nil {
			r.logger.Warn("markdown conversion failed", "error", err)
			return markdownErrorHTML
		}

		return out
	}

	var b strings.Builder

	cursor := 0
	for {
		seg, ok := markup.Next(content, cursor)
		if !ok {
			break
		}

		r.writeMarkdown(&b, content[cursor:seg.Start])
		r.writeSegment(&b, content, seg)

		cursor = seg.Start + seg.Length
	}

	r.writeMarkdown(&b, content[cursor:])

	return b.String()
}

// writeSegment renders one component occurrence, isolating any failure to a
// placeholder for that segment only.
func (r *Renderer) writeSegment(b *strings.Builder, content string, seg markup.Segment) {
	switch seg.Kind {
	case markup.KindSelfClosing:
		out, known, err := r.registry.Render(seg.Tag, markup.ParseAttrs(seg.RawAttrs))
		if !known {
			r.logger.Warn("unknown component tag", "tag", seg.Tag)
			return
		}

		if err != nil {
			r.logger.Warn("component failed to render", "tag", seg.Tag, "error", err)
			b.WriteString(segmentErrorHTML(seg.Tag))
			return
		}

		b.WriteString(out)
	case markup.KindBlock:
		fragment := content[seg.Start : seg.Start+seg.Length]

		out, err := r.structured.Render(fragment)
		if err != nil {
			r.logger.Warn("block component failed to render", "tag", seg.Tag, "error", err)
			b.WriteString(segmentErrorHTML(seg.Tag))
			return
		}

		b.WriteString(out)
	}
}

func (r *Renderer) writeMarkdown(b *strings.Builder, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	out, err := r.md.Convert(text)
	if err != nil {
		r.logger.Warn("markdown conversion failed", "error", err)
		b.WriteString(markdownErrorHTML)
		return
	}

	b.WriteString(out)
}

func segmentErrorHTML(tag string) string {
	return fmt.Sprintf(`<div class="render-error">%s rendering error</div>`, strings.ToLower(tag))
}
