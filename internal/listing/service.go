// Package listing maintains the dual-tier listing cache: a durable YAML file
// per collection under the content root's cache directory, and a volatile
// process-wide memory tier. Both tiers are rederivable from the content
// store at any time, so concurrent regenerations race safely under
// last-writer-wins semantics.
package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"gopkg.in/yaml.v3"

	"github.com/BeamLabEU/phoenix-kit-sub002/internal/content"
	"github.com/BeamLabEU/phoenix-kit-sub002/pkg/models"
)

// Sentinel outcomes. A cache miss is normal control flow, not a failure.
var (
	ErrCacheMiss = errors.New("listing: cache miss")
	ErrNotFound  = errors.New("listing: record not found")
	ErrNoFile    = errors.New("listing: no cache file")
)

// Settings keys. Both tiers default to enabled; collection mode defaults to
// slug ordering.
const (
	SettingFileTier   = "listing_file_cache_enabled"
	SettingMemoryTier = "listing_memory_cache_enabled"

	settingModePrefix = "collection_mode."
)

const listingFileSuffix = ".listing.yaml"

// ContentStore scans the source of truth.
type ContentStore interface {
	ListItems(ctx context.Context, collection string, mode content.Mode) ([]*models.Post, error)
}

// Settings reads tier toggles and collection modes.
type Settings interface {
	GetBool(ctx context.Context, key string, def bool) bool
	GetString(ctx context.Context, key string, def string) string
}

// Notifier receives advisory cache-change events.
type Notifier interface {
	Notify(collection string)
}

// Service is the dual-tier listing cache.
type Service struct {
	store    ContentStore
	settings Settings
	notifier Notifier
	root     string
	logger   *slog.Logger

	// memory is the process-wide tier; meta holds the companion entries
	// recording when memory was loaded and which file generation it
	// reflects. Entries never expire; they are replaced or erased.
	memory *ttlcache.Cache[string, *models.ListingSnapshot]
	meta   *ttlcache.Cache[string, time.Time]

	// Seams for fault-injection tests.
	readFile func(name string) ([]byte, error)
	rename   func(oldpath, newpath string) error
}

// NewService wires a listing cache rooted at the content root.
func NewService(store ContentStore, settings Settings, notifier Notifier, root string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	memory := ttlcache.New[string, *models.ListingSnapshot]()
	go memory.Start()

	meta := ttlcache.New[string, time.Time]()
	go meta.Start()

	return &Service{
		store:    store,
		settings: settings,
		notifier: notifier,
		root:     root,
		logger:   logger,
		memory:   memory,
		meta:     meta,
		readFile: os.ReadFile,
		rename:   os.Rename,
	}
}

func memoryKey(collection string) string     { return "listing:" + collection }
func loadedAtKey(collection string) string   { return "listing:loaded_at:" + collection }
func generationKey(collection string) string { return "listing:file_generation:" + collection }

// FilePath returns the file-tier path for a collection.
func (s *Service) FilePath(collection string) string {
	return filepath.Join(s.root, content.CacheDirName, collection+listingFileSuffix)
}

// Regenerate rescans a collection and rewrites the enabled tiers. With both
// tiers disabled it is a no-op success. Concurrent regenerations are not
// serialized: each write is individually atomic and last writer wins.
func (s *Service) Regenerate(ctx context.Context, collection string) error {
	fileTier := s.settings.GetBool(ctx, SettingFileTier, true)
	memoryTier := s.settings.GetBool(ctx, SettingMemoryTier, true)

	if !fileTier && !memoryTier {
		return nil
	}

	mode := content.Mode(s.settings.GetString(ctx, settingModePrefix+collection, string(content.ModeSlug)))

	posts, err := s.store.ListItems(ctx, collection, mode)
	if err != nil {
		return fmt.Errorf("listing scan failed for %s: %w", collection, err)
	}

	snapshot := Snapshot(posts)

	// File first, then memory: a reader observing memory sees a value at
	// least as new as what lands in the file.
	if fileTier {
		err = s.writeSnapshot(collection, snapshot)
		if err != nil {
			return err
		}
	}

	if memoryTier {
		s.storeInMemory(collection, snapshot)
	}

	if s.notifier != nil {
		s.notifier.Notify(collection)
	}

	s.logger.Info("listing regenerated",
		"collection", collection, "posts", snapshot.PostCount,
		"file_tier", fileTier, "memory_tier", memoryTier)

	return nil
}

// Read returns the current snapshot for a collection, preferring the memory
// tier. A memory miss falls through to the file tier (populating memory as a
// side effect) only when the file tier is enabled; with only memory enabled,
// an absent entry is a miss.
func (s *Service) Read(ctx context.Context, collection string) (*models.ListingSnapshot, error) {
	fileTier := s.settings.GetBool(ctx, SettingFileTier, true)
	memoryTier := s.settings.GetBool(ctx, SettingMemoryTier, true)

	if !fileTier && !memoryTier {
		return nil, ErrCacheMiss
	}

	if memoryTier {
		if item := s.memory.Get(memoryKey(collection)); item != nil {
			return item.Value(), nil
		}

		if !fileTier {
			return nil, ErrCacheMiss
		}

		snapshot, err := s.loadSnapshot(collection)
		if err != nil {
			s.logger.Debug("listing file load failed", "collection", collection, "error", err)
			return nil, ErrCacheMiss
		}

		s.storeInMemory(collection, snapshot)

		return snapshot, nil
	}

	snapshot, err := s.loadSnapshot(collection)
	if err != nil {
		s.logger.Debug("listing file load failed", "collection", collection, "error", err)
		return nil, ErrCacheMiss
	}

	return snapshot, nil
}

// Invalidate erases a collection from both tiers. Deletion is idempotent:
// absent entries and a missing file both count as success.
func (s *Service) Invalidate(_ context.Context, collection string) error {
	s.memory.Delete(memoryKey(collection))
	s.meta.Delete(loadedAtKey(collection))
	s.meta.Delete(generationKey(collection))

	err := os.Remove(s.FilePath(collection))
	if err != nil && !os.IsNotExist(err) {
		s.logger.Warn("listing file removal failed", "collection", collection, "error", err)
	}

	return nil
}

// LoadIntoMemory populates the memory tier from the file tier without
// rewriting the file. ErrNoFile is returned distinctly so callers can decide
// to trigger a full regenerate instead.
func (s *Service) LoadIntoMemory(ctx context.Context, collection string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot, err := s.loadSnapshot(collection)
	if err != nil {
		return err
	}

	s.storeInMemory(collection, snapshot)

	return nil
}

// FindByID looks up one record in the current snapshot. A cache miss from
// Read propagates verbatim.
func (s *Service) FindByID(ctx context.Context, collection, id string) (*models.ListingRecord, error) {
	snapshot, err := s.Read(ctx, collection)
	if err != nil {
		return nil, err
	}

	for i := range snapshot.Posts {
		if snapshot.Posts[i].ID == id {
			return &snapshot.Posts[i], nil
		}
	}

	return nil, ErrNotFound
}

// FindByPath looks up the first record whose path contains the fragment.
func (s *Service) FindByPath(ctx context.Context, collection, fragment string) (*models.ListingRecord, error) {
	snapshot, err := s.Read(ctx, collection)
	if err != nil {
		return nil, err
	}

	for i := range snapshot.Posts {
		if strings.Contains(snapshot.Posts[i].Path, fragment) {
			return &snapshot.Posts[i], nil
		}
	}

	return nil, ErrNotFound
}

// Close stops the memory tier.
func (s *Service) Close() {
	s.memory.Stop()
	s.meta.Stop()
}

func (s *Service) storeInMemory(collection string, snapshot *models.ListingSnapshot) {
	s.memory.Set(memoryKey(collection), snapshot, ttlcache.NoTTL)
	s.meta.Set(loadedAtKey(collection), time.Now().UTC(), ttlcache.NoTTL)
	s.meta.Set(generationKey(collection), snapshot.GeneratedAt, ttlcache.NoTTL)
}

// writeSnapshot serializes a snapshot and writes it atomically: the document
// lands in a uniquely-suffixed temp file that is renamed over the target, so
// readers never observe a partial file. The temp file is removed when the
// rename fails.
func (s *Service) writeSnapshot(collection string, snapshot *models.ListingSnapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize listing for %s: %w", collection, err)
	}

	dir := filepath.Join(s.root, content.CacheDirName)

	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+collection+listingFileSuffix+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp listing file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	_, err = tmpFile.Write(data)
	if err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write listing file: %w", err)
	}

	err = tmpFile.Close()
	if err != nil {
		return fmt.Errorf("failed to close temp listing file: %w", err)
	}

	err = s.rename(tmpPath, s.FilePath(collection))
	if err != nil {
		return fmt.Errorf("failed to publish listing file: %w", err)
	}

	success = true

	return nil
}

// loadSnapshot reads and parses the file tier. A missing file is ErrNoFile;
// unreadable or malformed content is reported as its own error.
func (s *Service) loadSnapshot(collection string) (*models.ListingSnapshot, error) {
	data, err := s.readFile(s.FilePath(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoFile
		}

		return nil, fmt.Errorf("failed to read listing file for %s: %w", collection, err)
	}

	snapshot := new(models.ListingSnapshot)

	err = yaml.Unmarshal(data, snapshot)
	if err != nil {
		return nil, fmt.Errorf("malformed listing file for %s: %w", collection, err)
	}

	return snapshot, nil
}
