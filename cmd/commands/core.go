package commands

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/BeamLabEU/phoenix-kit-sub002/internal/content"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/kvstore"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/listing"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/notify"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/render"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/rendercache"
)

// defaultBoltPath is the bbolt file used when BOLT_PATH is unset.
const defaultBoltPath = "cache.db"

// core bundles the domain services every command operates on.
type core struct {
	Content     *content.Store
	Store       kvstore.Store
	Renderer    *render.Renderer
	RenderCache *rendercache.Service
	Listing     *listing.Service
	Hub         *notify.Hub
}

// buildCore wires the content store, cache backend, renderer, and both cache
// services from the environment configuration.
func buildCore(state *cliState) (*core, error) {
	store, err := openCacheBackend(&state.Config)
	if err != nil {
		return nil, err
	}

	contentStore := content.NewStore(state.Config.ContentDir)

	md := render.NewMarkdown(state.Config.Production)
	registry := render.NewRegistry()
	structured := render.NewStructured(registry, md, slog.Default())
	renderer := render.NewRenderer(md, registry, structured, slog.Default())

	hub := notify.NewHub()

	return &core{
		Content:     contentStore,
		Store:       store,
		Renderer:    renderer,
		RenderCache: rendercache.NewService(store, state.DB, renderer, slog.Default()),
		Listing:     listing.NewService(contentStore, state.DB, hub, state.Config.ContentDir, slog.Default()),
		Hub:         hub,
	}, nil
}

// Close releases the cache backend and the listing memory tier.
func (c *core) Close() error {
	c.Listing.Close()

	return c.Store.Close()
}

// openCacheBackend selects the render-cache backend: bbolt by default, Redis
// or in-process memory when configured.
func openCacheBackend(cfg *config) (kvstore.Store, error) {
	switch cfg.CacheBackend {
	case "", "bolt":
		path := cfg.BoltPath
		if path == "" {
			path = defaultBoltPath
		}

		store, err := kvstore.NewBoltStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt cache at %s: %w", path, err)
		}

		return store, nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("CACHE_BACKEND=redis requires REDIS_ADDR")
		}

		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})

		return kvstore.NewRedisStore(client, "")
	case "memory":
		return kvstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown CACHE_BACKEND %q (want bolt, redis, or memory)", cfg.CacheBackend)
	}
}
