package render

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BeamLabEU/phoenix-kit-sub002/internal/markup"
)

// Structured renders a fully structured component fragment: a <Document>
// wrapper or a single block tag, containing nested component tags and
// interleaved markdown text.
type Structured struct {
	registry *Registry
	md       *Markdown
	logger   *slog.Logger
}

// NewStructured creates a structured-document renderer sharing the mixed
// renderer's registry and markdown engine.
func NewStructured(registry *Registry, md *Markdown, logger *slog.Logger) *Structured {
	if logger == nil {
		logger = slog.Default()
	}

	return &Structured{
		registry: registry,
		md:       md,
		logger:   logger,
	}
}

// Render converts a component fragment to HTML. The fragment must begin with
// a component tag; a <Document> wrapper is unwrapped rather than emitted.
func (s *Structured) Render(fragment string) (string, error) {
	trimmed := strings.TrimSpace(fragment)
	if trimmed == "" {
		return "", fmt.Errorf("empty fragment")
	}

	seg, ok := markup.Next(trimmed, 0)
	if !ok || seg.Start != 0 {
		return "", fmt.Errorf("fragment has no opening component tag")
	}

	if seg.Tag == "Document" && seg.Kind == markup.KindBlock {
		return s.renderParts(seg.Body)
	}

	return s.renderParts(trimmed)
}

// renderParts walks content left to right, rendering text spans as markdown,
// self-closing tags through the registry, and block tags as sections
// wrapping their recursively rendered bodies.
func (s *Structured) renderParts(content string) (string, error) {
	var b strings.Builder

	cursor := 0
	for {
		seg, ok := markup.Next(content, cursor)
		if !ok {
			break
		}

		err := s.renderText(&b, content[cursor:seg.Start])
		if err != nil {
			return "", err
		}

		switch seg.Kind {
		case markup.KindSelfClosing:
			out, known, err := s.registry.Render(seg.Tag, markup.ParseAttrs(seg.RawAttrs))
			if err != nil {
				return "", fmt.Errorf("component %s: %w", seg.Tag, err)
			}

			if !known {
				s.logger.Warn("unknown component tag in document", "tag", seg.Tag)
			} else {
				b.WriteString(out)
			}
		case markup.KindBlock:
			inner, err := s.renderParts(seg.Body)
			if err != nil {
				return "", err
			}

			fmt.Fprintf(&b, `<section class="doc-section doc-%s">%s</section>`,
				strings.ToLower(seg.Tag), inner)
		}

		cursor = seg.Start + seg.Length
	}

	err := s.renderText(&b, content[cursor:])
	if err != nil {
		return "", err
	}

	return b.String(), nil
}

func (s *Structured) renderText(b *strings.Builder, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	out, err := s.md.Convert(text)
	if err != nil {
		return fmt.Errorf("markdown conversion: %w", err)
	}

	b.WriteString(out)

	return nil
}
