package rendercache

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/BeamLabEU/phoenix-kit-sub002/pkg/models"
)

// SchemaVersion is bumped when the rendered output format changes, retiring
// every existing cache entry at once.
const SchemaVersion = "v1"

// Key addresses one rendered HTML entry. The hash covers the raw body plus a
// canonical serialization of the metadata, so any content or metadata change
// produces a new key: stale entries are simply never looked up again.
type Key struct {
	Collection string
	ID         string
	Language   string
	Hash       string
}

// String returns the wire form of the key.
func (k Key) String() string {
	return strings.Join([]string{SchemaVersion, k.Collection, k.ID, k.Language, k.Hash}, ":")
}

// CollectionPrefix returns the key prefix shared by every entry of a
// collection, used for bulk clears.
func CollectionPrefix(collection string) string {
	return SchemaVersion + ":" + collection + ":"
}

// ComputeKey derives the cache key for a post.
func ComputeKey(post *models.Post) Key {
	h := blake3.New()

	_, _ = h.WriteString(post.Body)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(canonicalMetadata(post))

	return Key{
		Collection: post.Collection,
		ID:         post.ID,
		Language:   post.Language,
		Hash:       fmt.Sprintf("%x", h.Sum(nil)),
	}
}

// canonicalMetadata serializes post metadata with a fixed field order and
// sorted map keys, so equal metadata always hashes identically.
func canonicalMetadata(post *models.Post) string {
	var b strings.Builder

	fmt.Fprintf(&b, "title=%s\n", post.Title)
	fmt.Fprintf(&b, "description=%s\n", post.Description)
	fmt.Fprintf(&b, "status=%s\n", post.Status)
	fmt.Fprintf(&b, "updated_at=%s\n", post.UpdatedAt.UTC().Format(time.RFC3339Nano))
	fmt.Fprintf(&b, "version=%s\n", post.Version)
	fmt.Fprintf(&b, "legacy_layout=%t\n", post.LegacyLayout)

	writeSortedMap(&b, "languages", post.Languages)
	writeSortedMap(&b, "versions", post.Versions)

	return b.String()
}

func writeSortedMap(b *strings.Builder, field string, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(b, "%s.%s=%s\n", field, k, m[k])
	}
}
