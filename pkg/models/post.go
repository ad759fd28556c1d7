package models

import "time"

// Publication states a post (or one of its language/version variants) can be in.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Post is the projection of one content item that the rendering and caching
// layers operate on. The content store owns the canonical files; a Post
// carries a single language variant's body plus the shared metadata.
type Post struct {
	Collection  string
	ID          string
	Path        string
	Language    string
	Body        string
	Title       string
	Description string
	Status      string
	Version     string

	// Languages and Versions map each known variant to its own status.
	// They always contain at least the post's own language/version.
	Languages map[string]string
	Versions  map[string]string

	UpdatedAt time.Time

	// Date is derived from the item path in timestamp-ordered collections
	// and is the zero value otherwise.
	Date time.Time

	LegacyLayout bool
}

// Published reports whether the post's own status allows public rendering.
func (p *Post) Published() bool {
	return p.Status == StatusPublished
}

// ValidStatus reports whether s is one of the known publication states.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusPublished || s == StatusArchived
}
