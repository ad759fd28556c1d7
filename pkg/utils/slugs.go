package utils

import (
	"regexp"
	"strings"
	"time"
)

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)
	trimHyphensRegex     = regexp.MustCompile(`^-+|-+$`)
)

// ToKebabCase converts a string to kebab case.
func ToKebabCase(str string) string {
	str = strings.ToLower(str)

	str = nonAlphanumericRegex.ReplaceAllString(str, "-")

	str = trimHyphensRegex.ReplaceAllString(str, "")

	return str
}

// timestampIDLayout is the directory-name prefix used by timestamp-ordered
// collections, e.g. "20240131093000-release-notes".
const timestampIDLayout = "20060102150405"

// ParseTimestampID splits a timestamp-prefixed item identifier into its
// date and slug parts. The boolean is false when the identifier does not
// carry a valid timestamp prefix.
func ParseTimestampID(id string) (time.Time, string, bool) {
	if len(id) < len(timestampIDLayout)+2 || id[len(timestampIDLayout)] != '-' {
		return time.Time{}, "", false
	}

	ts, err := time.Parse(timestampIDLayout, id[:len(timestampIDLayout)])
	if err != nil {
		return time.Time{}, "", false
	}

	return ts, id[len(timestampIDLayout)+1:], true
}
