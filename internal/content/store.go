// Package content implements the file-based content store. Collections are
// directories under a content root; items are directories holding one
// markdown file per language with YAML front matter. The store owns the
// canonical data; every cache layer above it is rederivable from here.
package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BeamLabEU/phoenix-kit-sub002/pkg/models"
	"github.com/BeamLabEU/phoenix-kit-sub002/pkg/utils"
)

// Mode selects a collection's listing strategy.
type Mode string

const (
	// ModeSlug orders items by their slug, ascending.
	ModeSlug Mode = "slug"
	// ModeTimestamp orders items by their timestamp prefix, newest first.
	ModeTimestamp Mode = "timestamp"
)

// CacheDirName is the reserved directory under the content root that holds
// listing cache files. It is never scanned as a collection.
const CacheDirName = "_cache"

// DefaultLanguage is the language variant loaded when none is requested.
const DefaultLanguage = "en"

// ErrNotFound is returned when an item or language variant does not exist.
var ErrNotFound = errors.New("content: item not found")

// Store reads content items from the filesystem.
type Store struct {
	root string
}

// NewStore creates a store rooted at the given directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the content root directory.
func (s *Store) Root() string {
	return s.root
}

// Collections lists the collection directories under the root, excluding
// the reserved cache directory and hidden entries.
func (s *Store) Collections() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read content root: %w", err)
	}

	var collections []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || name == CacheDirName || strings.HasPrefix(name, ".") {
			continue
		}

		collections = append(collections, name)
	}

	sort.Strings(collections)

	return collections, nil
}

// ListItems scans one collection and returns its items ordered by the given
// mode. Items that fail to parse are skipped rather than failing the scan.
func (s *Store) ListItems(ctx context.Context, collection string, mode Mode) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, collection)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}

	posts := make([]*models.Post, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		post, err := s.loadItem(collection, entry.Name(), "")
		if err != nil {
			continue
		}

		posts = append(posts, post)
	}

	sortPosts(posts, mode)

	return posts, nil
}

// GetItem loads one language variant of an item. An empty language loads the
// default variant, falling back to the lexically first one available.
func (s *Store) GetItem(ctx context.Context, collection, id, language string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.loadItem(collection, id, language)
}

func (s *Store) loadItem(collection, id, language string) (*models.Post, error) {
	itemDir := filepath.Join(s.root, collection, id)

	language, err := s.resolveLanguage(itemDir, language)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(filepath.Join(itemDir, language+".md"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to read item %s/%s: %w", collection, id, err)
	}

	meta, body, err := parseFrontMatter(string(raw))
	if err != nil {
		return nil, fmt.Errorf("item %s/%s: %w", collection, id, err)
	}

	post := &models.Post{
		Collection:   collection,
		ID:           id,
		Path:         collection + "/" + id,
		Language:     language,
		Body:         body,
		Title:        meta.Title,
		Description:  meta.Description,
		Status:       meta.Status,
		Version:      meta.Version,
		Languages:    meta.Languages,
		Versions:     meta.Versions,
		UpdatedAt:    meta.UpdatedAt,
		LegacyLayout: meta.LegacyLayout,
	}

	applyDefaults(post)

	if date, _, ok := utils.ParseTimestampID(id); ok {
		post.Date = date
	}

	return post, nil
}

// resolveLanguage picks the language file to load. An explicit request must
// exist; otherwise the default language is preferred, then the lexically
// first variant.
func (s *Store) resolveLanguage(itemDir, language string) (string, error) {
	if language != "" {
		return language, nil
	}

	if _, err := os.Stat(filepath.Join(itemDir, DefaultLanguage+".md")); err == nil {
		return DefaultLanguage, nil
	}

	entries, err := os.ReadDir(itemDir)
	if err != nil {
		return "", ErrNotFound
	}

	var languages []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}

		languages = append(languages, strings.TrimSuffix(name, ".md"))
	}

	if len(languages) == 0 {
		return "", ErrNotFound
	}

	sort.Strings(languages)

	return languages[0], nil
}

func sortPosts(posts []*models.Post, mode Mode) {
	if mode == ModeTimestamp {
		sort.Slice(posts, func(i, j int) bool {
			if !posts[i].Date.Equal(posts[j].Date) {
				return posts[i].Date.After(posts[j].Date)
			}

			return posts[i].ID < posts[j].ID
		})

		return
	}

	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
}

// frontMatter is the YAML header of a content file.
type frontMatter struct {
	Title        string            `yaml:"title"`
	Description  string            `yaml:"description"`
	Status       string            `yaml:"status"`
	UpdatedAt    time.Time         `yaml:"updated_at"`
	Version      string            `yaml:"version"`
	Languages    map[string]string `yaml:"languages"`
	Versions     map[string]string `yaml:"versions"`
	LegacyLayout bool              `yaml:"legacy_layout"`
}

const frontMatterDelimiter = "---"

// parseFrontMatter splits a raw content file into its YAML header and body.
// Files without a header are all body.
func parseFrontMatter(raw string) (frontMatter, string, error) {
	var meta frontMatter

	trimmed := strings.TrimLeft(raw, "\n")
	if !strings.HasPrefix(trimmed, frontMatterDelimiter+"\n") {
		return meta, raw, nil
	}

	rest := trimmed[len(frontMatterDelimiter)+1:]

	end := strings.Index(rest, "\n"+frontMatterDelimiter)
	if end < 0 {
		return meta, "", fmt.Errorf("unterminated front matter")
	}

	header := rest[:end]
	body := rest[end+len(frontMatterDelimiter)+1:]
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimPrefix(body, "\n")

	err := yaml.Unmarshal([]byte(header), &meta)
	if err != nil {
		return meta, "", fmt.Errorf("invalid front matter: %w", err)
	}

	return meta, body, nil
}

// applyDefaults fills absent metadata: status defaults to draft, version to
// "1", and the variant maps to the post's own language/version and status.
func applyDefaults(post *models.Post) {
	if post.Status == "" {
		post.Status = models.StatusDraft
	}

	if post.Version == "" {
		post.Version = "1"
	}

	if len(post.Languages) == 0 {
		post.Languages = map[string]string{post.Language: post.Status}
	}

	if len(post.Versions) == 0 {
		post.Versions = map[string]string{post.Version: post.Status}
	}
}
