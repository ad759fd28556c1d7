package models

import "time"

// ListingRecord is the per-item projection stored in a listing snapshot.
// Records are created during a regenerate scan and superseded wholesale by
// the next one; they are never mutated in place.
type ListingRecord struct {
	ID       string `json:"id"       yaml:"id"`
	Path     string `json:"path"     yaml:"path"`
	Title    string `json:"title"    yaml:"title"`
	Status   string `json:"status"   yaml:"status"`
	Language string `json:"language" yaml:"language"`
	Version  string `json:"version"  yaml:"version"`
	Excerpt  string `json:"excerpt"  yaml:"excerpt"`

	// Date is set for timestamp-ordered collections and omitted otherwise.
	Date time.Time `json:"date,omitempty" yaml:"date,omitempty"`

	Languages map[string]string `json:"languages" yaml:"languages"`
	Versions  map[string]string `json:"versions"  yaml:"versions"`

	LegacyLayout bool `json:"legacyLayout" yaml:"legacy_layout"`
}

// ListingSnapshot is one generation's full listing result for a collection.
// The same logical snapshot exists in two physical forms: a YAML document in
// the file tier and a native value in the process-wide memory tier.
type ListingSnapshot struct {
	GeneratedAt time.Time       `json:"generatedAt" yaml:"generated_at"`
	PostCount   int             `json:"postCount"   yaml:"post_count"`
	Posts       []ListingRecord `json:"posts"       yaml:"posts"`
}
