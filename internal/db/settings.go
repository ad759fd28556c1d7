package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/BeamLabEU/phoenix-kit-sub002/pkg/models"
)

// GetSetting fetches a single setting row, bypassing the cache.
func (d *DB) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	setting := new(models.Setting)

	err := d.NewSelect().Model(setting).Where("key = ?", key).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return setting, nil
}

// GetString returns a setting value through the read cache, or the default
// when the key is absent. Lookup failures fall back to the default too: a
// broken settings store must never take reads down with it.
func (d *DB) GetString(ctx context.Context, key string, def string) string {
	if item := d.settingCache.Get(key); item != nil {
		return item.Value()
	}

	setting, err := d.GetSetting(ctx, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			_ = d.CreateLogEntry(ctx, models.LevelWarning, "SETTINGS",
				"Setting lookup failed", key)
		}

		return def
	}

	d.settingCache.Set(key, setting.Value, ttlcache.DefaultTTL)

	return setting.Value
}

// GetBool returns a boolean setting. Unparseable values count as absent.
func (d *DB) GetBool(ctx context.Context, key string, def bool) bool {
	raw := d.GetString(ctx, key, strconv.FormatBool(def))

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}

	return value
}

// SetSetting upserts a setting and evicts its cache entry so the next read
// observes the new value.
func (d *DB) SetSetting(ctx context.Context, key, value string) error {
	setting := &models.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	_, err := d.NewInsert().
		Model(setting).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}

	d.settingCache.Delete(key)

	return nil
}

// DeleteSetting removes a setting row, reverting reads to the default.
func (d *DB) DeleteSetting(ctx context.Context, key string) error {
	_, err := d.NewDelete().
		Model((*models.Setting)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}

	d.settingCache.Delete(key)

	return nil
}

// ListSettings returns all settings ordered by key.
func (d *DB) ListSettings(ctx context.Context) ([]*models.Setting, error) {
	var settings []*models.Setting

	err := d.NewSelect().Model(&settings).Order("key ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return settings, nil
}
