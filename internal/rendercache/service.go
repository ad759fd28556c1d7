// Package rendercache wraps the mixed-content renderer with a cache-aside
// layer keyed by content hash. The cache backend is never a correctness
// dependency: any backend failure degrades to a direct render.
package rendercache

import (
	"context"
	"log/slog"

	"github.com/BeamLabEU/phoenix-kit-sub002/internal/kvstore"
	"github.com/BeamLabEU/phoenix-kit-sub002/pkg/models"
)

// Namespace is the cache-backend namespace holding rendered HTML.
const Namespace = "render"

// Settings toggles. Caching applies only when both the global toggle and the
// per-collection toggle are enabled; both default to enabled.
const (
	SettingCacheEnabled           = "render_cache_enabled"
	settingCollectionTogglePrefix = "render_cache_enabled."
)

// Settings reads boolean toggles from the settings store.
type Settings interface {
	GetBool(ctx context.Context, key string, def bool) bool
}

// PostRenderer renders a post body to HTML.
type PostRenderer interface {
	Post(content string) string
}

// Service is the render cache.
type Service struct {
	store    kvstore.Store
	settings Settings
	renderer PostRenderer
	logger   *slog.Logger
}

// NewService wires a render cache from its collaborators.
func NewService(store kvstore.Store, settings Settings, renderer PostRenderer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:    store,
		settings: settings,
		renderer: renderer,
		logger:   logger,
	}
}

// RenderPost returns the rendered HTML for a post, serving from cache when
// the post is published and caching is enabled. Drafts and archived posts
// are always rendered directly so previews can never leak stale output.
func (s *Service) RenderPost(ctx context.Context, post *models.Post) string {
	if !s.cacheable(ctx, post) {
		return s.renderer.Post(post.Body)
	}

	key := ComputeKey(post).String()

	val, found, err := s.store.Get(ctx, Namespace, key)
	if err != nil {
		// Backend unavailability is a miss, never a failure.
		s.logger.Debug("render cache get failed", "key", key, "error", err)
	} else if found {
		return val
	}

	html := s.renderer.Post(post.Body)

	err = s.store.Put(ctx, Namespace, key, html)
	if err != nil {
		s.logger.Warn("render cache put failed", "key", key, "error", err)
	}

	return html
}

// cacheable reports whether a post's rendered output may be cached.
func (s *Service) cacheable(ctx context.Context, post *models.Post) bool {
	if !post.Published() {
		return false
	}

	if !s.settings.GetBool(ctx, SettingCacheEnabled, true) {
		return false
	}

	return s.settings.GetBool(ctx, settingCollectionTogglePrefix+post.Collection, true)
}

// ClearAll empties the render namespace, returning how many entries were
// removed. Backend errors collapse into a no-op success.
func (s *Service) ClearAll(ctx context.Context) int {
	count, err := s.store.Clear(ctx, Namespace)
	if err != nil {
		s.logger.Warn("render cache clear failed", "error", err)
		return 0
	}

	s.logger.Info("render cache cleared", "entries", count)

	return count
}

// ClearCollection removes every entry for one collection, returning the
// count. Backend errors collapse into a no-op success.
func (s *Service) ClearCollection(ctx context.Context, collection string) int {
	count, err := s.store.ClearPrefix(ctx, Namespace, CollectionPrefix(collection))
	if err != nil {
		s.logger.Warn("render cache prefix clear failed", "collection", collection, "error", err)
		return 0
	}

	s.logger.Info("render cache collection cleared", "collection", collection, "entries", count)

	return count
}

// Invalidate is advisory only: the content hash in the key already makes
// stale entries unreachable once content changes. It exists for operational
// visibility.
func (s *Service) Invalidate(post *models.Post) {
	s.logger.Info("render cache invalidation requested",
		"collection", post.Collection, "id", post.ID, "key", ComputeKey(post).String())
}
