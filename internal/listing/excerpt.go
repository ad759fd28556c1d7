package listing

import (
	"regexp"
	"strings"
)

// maxExcerptLength caps excerpts after markdown stripping.
const maxExcerptLength = 300

var (
	moreMarkerRe = regexp.MustCompile(`<!--\s*more\s*-->`)
	mdLinkRe     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdImageRe    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	mdPunctRe    = regexp.MustCompile("[*_`~#>]")
)

// Excerpt derives a listing excerpt. An explicit description wins; otherwise
// the text before a manual more-marker, else the first paragraph that is not
// a heading. The result is stripped of markdown punctuation, whitespace
// collapsed, and truncated.
func Excerpt(description, body string) string {
	if strings.TrimSpace(description) != "" {
		return clean(description)
	}

	if loc := moreMarkerRe.FindStringIndex(body); loc != nil {
		return clean(body[:loc[0]])
	}

	for _, paragraph := range strings.Split(body, "\n\n") {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		return clean(trimmed)
	}

	return ""
}

// clean strips residual markdown punctuation, collapses whitespace, and
// truncates to the maximum excerpt length.
func clean(text string) string {
	text = mdImageRe.ReplaceAllString(text, "")
	text = mdLinkRe.ReplaceAllString(text, "$1")
	text = mdPunctRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) > maxExcerptLength {
		return string(runes[:maxExcerptLength])
	}

	return text
}
