// Package markup locates embedded component tags inside mixed
// markdown/component content. Component tags start with an uppercase letter
// and appear either self-closing (<Image src="a.png" />) or in block form
// (<Gallery>...</Gallery>).
package markup

import (
	"regexp"
	"strings"
)

// Kind distinguishes the two component tag forms.
type Kind int

const (
	// KindSelfClosing is a tag with no body, e.g. <Tag attr="v" />.
	KindSelfClosing Kind = iota
	// KindBlock is a tag with a body and a matching closing tag.
	KindBlock
)

// DocumentMarker starts a fully structured document; content beginning with
// it bypasses the mixed renderer entirely.
const DocumentMarker = "<Document"

// Segment is one component occurrence inside a content string.
type Segment struct {
	Kind     Kind
	Tag      string
	RawAttrs string

	// Start and Length span the full matched fragment, including the
	// opening and (for blocks) closing tag.
	Start  int
	Length int

	// Body is the inner text of a block segment, empty for self-closing.
	Body string
}

var (
	selfClosingRe = regexp.MustCompile(`<([A-Z][A-Za-z0-9]*)((?:[^<>"']|"[^"]*"|'[^']*')*?)/>`)
	openTagRe     = regexp.MustCompile(`<([A-Z][A-Za-z0-9]*)((?:[^<>"']|"[^"]*"|'[^']*')*?)>`)
	attrRe        = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_-]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	componentRe   = regexp.MustCompile(`<[A-Z]`)
)

// HasComponent reports whether content contains any component tag marker.
func HasComponent(content string) bool {
	return componentRe.MatchString(content)
}

// Next returns the nearest component occurrence at or after the cursor, or
// false when no more exist.
//
// When both a self-closing and a block match lie ahead, the self-closing
// match wins if it starts at or before the block match's start offset. The
// comparison looks at start offsets only; a self-closing tag contained in a
// later-starting block's body still wins. Component authors rely on this
// ordering, so it is preserved as-is.
func Next(content string, from int) (Segment, bool) {
	if from < 0 {
		from = 0
	}
	if from >= len(content) {
		return Segment{}, false
	}

	rest := content[from:]

	self, selfOK := nextSelfClosing(rest)
	block, blockOK := nextBlock(rest)

	switch {
	case !selfOK && !blockOK:
		return Segment{}, false
	case selfOK && (!blockOK || self.Start <= block.Start):
		self.Start += from
		return self, true
	default:
		block.Start += from
		return block, true
	}
}

// nextSelfClosing finds the first self-closing tag in content.
func nextSelfClosing(content string) (Segment, bool) {
	m := selfClosingRe.FindStringSubmatchIndex(content)
	if m == nil {
		return Segment{}, false
	}

	return Segment{
		Kind:     KindSelfClosing,
		Tag:      content[m[2]:m[3]],
		RawAttrs: strings.TrimSpace(content[m[4]:m[5]]),
		Start:    m[0],
		Length:   m[1] - m[0],
	}, true
}

// nextBlock finds the first opening tag that has a matching closing tag.
// Opening tags whose attribute text ends in "/" are self-closing and skipped.
func nextBlock(content string) (Segment, bool) {
	offset := 0

	for offset < len(content) {
		m := openTagRe.FindStringSubmatchIndex(content[offset:])
		if m == nil {
			return Segment{}, false
		}

		tag := content[offset+m[2] : offset+m[3]]
		rawAttrs := content[offset+m[4] : offset+m[5]]
		openStart := offset + m[0]
		openEnd := offset + m[1]

		if strings.HasSuffix(strings.TrimSpace(rawAttrs), "/") {
			offset = openEnd
			continue
		}

		closing := "</" + tag + ">"
		closeIdx := strings.Index(content[openEnd:], closing)
		if closeIdx < 0 {
			offset = openEnd
			continue
		}

		bodyEnd := openEnd + closeIdx

		return Segment{
			Kind:     KindBlock,
			Tag:      tag,
			RawAttrs: strings.TrimSpace(rawAttrs),
			Start:    openStart,
			Length:   bodyEnd + len(closing) - openStart,
			Body:     content[openEnd:bodyEnd],
		}, true
	}

	return Segment{}, false
}

// ParseAttrs extracts key="value" and key='value' pairs from a raw
// attribute string. The last occurrence wins on duplicate keys.
func ParseAttrs(rawAttrs string) map[string]string {
	attrs := make(map[string]string)

	for _, m := range attrRe.FindAllStringSubmatch(rawAttrs, -1) {
		value := m[2]
		if value == "" && m[3] != "" {
			value = m[3]
		}

		attrs[m[1]] = value
	}

	return attrs
}
