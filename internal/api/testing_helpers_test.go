package api

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/BeamLabEU/phoenix-kit-sub002/internal/content"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/db"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/kvstore"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/listing"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/notify"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/render"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/rendercache"
)

// newTestDB creates a new DB instance with a temporary file-based database.
func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	dir := t.TempDir()
	mainDBFile := filepath.Join(dir, "test_main.db")
	logDBFile := filepath.Join(dir, "test_log.db")

	database, err := db.New(mainDBFile, logDBFile)
	require.NoError(t, err, "Failed to create new test DB")
	require.NotNil(t, database, "DB object should not be nil")

	require.NoError(t, database.Seed(context.Background()), "Failed to seed database")

	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// writePost writes one content item under the root.
func writePost(t *testing.T, root, collection, id, body string) {
	t.Helper()

	dir := filepath.Join(root, collection, id)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.md"), []byte(body), 0o644))
}

// newTestServer wires a full server against a temp content root.
func newTestServer(t *testing.T, database *db.DB, contentRoot string) *Server {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	contentStore := content.NewStore(contentRoot)

	md := render.NewMarkdown(false)
	registry := render.NewRegistry()
	renderer := render.NewRenderer(md, registry, render.NewStructured(registry, md, logger), logger)

	renderCache := rendercache.NewService(kvstore.NewMemoryStore(), database, renderer, logger)

	hub := notify.NewHub()

	listingService := listing.NewService(contentStore, database, hub, contentRoot, logger)
	t.Cleanup(listingService.Close)

	server, err := NewServer(ServerConfig{
		Database:    database,
		Content:     contentStore,
		RenderCache: renderCache,
		Listing:     listingService,
		Renderer:    renderer,
		Hub:         hub,
		JwtSecret:   "test-secret",
		AppName:     "Test PostKit",
		Port:        DefaultPort,
	})
	require.NoError(t, err, "Failed to create new test server")
	require.NotNil(t, server, "Server object should not be nil")

	return server
}

// contextWithClaims simulates an authenticated request context.
func contextWithClaims(subject string) context.Context {
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": float64(time.Now().Add(time.Hour).Unix()),
	}

	return context.WithValue(context.Background(), claimsContextKey, claims)
}
