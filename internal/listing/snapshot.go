package listing

import (
	"time"

	"github.com/BeamLabEU/phoenix-kit-sub002/pkg/models"
)

// Snapshot projects a batch of posts into one listing snapshot. Every record
// shares a single generation timestamp.
func Snapshot(posts []*models.Post) *models.ListingSnapshot {
	records := make([]models.ListingRecord, 0, len(posts))
	for _, post := range posts {
		records = append(records, record(post))
	}

	return &models.ListingSnapshot{
		GeneratedAt: time.Now().UTC(),
		PostCount:   len(records),
		Posts:       records,
	}
}

// record projects one post into its listing form. Maps are copied so a
// snapshot never aliases the post's own state, with explicit defaults for
// absent fields.
func record(post *models.Post) models.ListingRecord {
	languages := copyStatusMap(post.Languages, post.Language, post.Status)
	versions := copyStatusMap(post.Versions, post.Version, post.Status)

	return models.ListingRecord{
		ID:           post.ID,
		Path:         post.Path,
		Title:        post.Title,
		Status:       post.Status,
		Language:     post.Language,
		Version:      post.Version,
		Excerpt:      Excerpt(post.Description, post.Body),
		Date:         post.Date,
		Languages:    languages,
		Versions:     versions,
		LegacyLayout: post.LegacyLayout,
	}
}

func copyStatusMap(m map[string]string, defaultKey, defaultStatus string) map[string]string {
	if len(m) == 0 {
		return map[string]string{defaultKey: defaultStatus}
	}

	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}
