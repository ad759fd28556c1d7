package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSetting_UpsertAndRead(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SetSetting(ctx, "render_cache_enabled", "true"))
	assert.Equal(t, "true", db.GetString(ctx, "render_cache_enabled", "false"))

	require.NoError(t, db.SetSetting(ctx, "render_cache_enabled", "false"))
	assert.Equal(t, "false", db.GetString(ctx, "render_cache_enabled", "true"))
}

func TestGetString_DefaultWhenAbsent(t *testing.T) {
	db := newTestDB(t)

	assert.Equal(t, "slug", db.GetString(context.Background(), "collection_mode.blog", "slug"))
}

func TestGetString_ServesFromCache(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SetSetting(ctx, "theme", "dark"))
	assert.Equal(t, "dark", db.GetString(ctx, "theme", ""))

	// Writing behind the cache's back is not observed until eviction.
	_, err := db.NewUpdate().
		Table("settings").
		Set("value = ?", "light").
		Where("key = ?", "theme").
		Exec(ctx)
	require.NoError(t, err)

	assert.Equal(t, "dark", db.GetString(ctx, "theme", ""))

	db.settingCache.Delete("theme")
	assert.Equal(t, "light", db.GetString(ctx, "theme", ""))
}

func TestGetBool(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	assert.True(t, db.GetBool(ctx, "missing", true))
	assert.False(t, db.GetBool(ctx, "missing", false))

	require.NoError(t, db.SetSetting(ctx, "listing_file_cache_enabled", "false"))
	assert.False(t, db.GetBool(ctx, "listing_file_cache_enabled", true))

	require.NoError(t, db.SetSetting(ctx, "listing_file_cache_enabled", "garbage"))
	assert.True(t, db.GetBool(ctx, "listing_file_cache_enabled", true))
}

func TestDeleteSetting(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SetSetting(ctx, "render_cache_enabled.blog", "false"))
	assert.False(t, db.GetBool(ctx, "render_cache_enabled.blog", true))

	require.NoError(t, db.DeleteSetting(ctx, "render_cache_enabled.blog"))

	// Deletion evicts the cache entry too, so the default applies at once.
	assert.True(t, db.GetBool(ctx, "render_cache_enabled.blog", true))

	_, err := db.GetSetting(ctx, "render_cache_enabled.blog")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestListSettings(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SetSetting(ctx, "zeta", "1"))
	require.NoError(t, db.SetSetting(ctx, "alpha", "2"))

	settings, err := db.ListSettings(ctx)
	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.Equal(t, "alpha", settings[0].Key)
	assert.Equal(t, "zeta", settings[1].Key)
}

func TestCreateLogEntry_NonBlocking(t *testing.T) {
	db := newTestDB(t)

	// Filling past the channel buffer must never block the caller.
	for range 300 {
		require.NoError(t, db.CreateLogEntry(context.Background(), "INFO", "TEST", "msg", ""))
	}
}
