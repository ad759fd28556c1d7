package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/uptrace/bun"

	"github.com/BeamLabEU/phoenix-kit-sub002/internal/listing"
	"github.com/BeamLabEU/phoenix-kit-sub002/internal/rendercache"
	"github.com/BeamLabEU/phoenix-kit-sub002/pkg/models"
)

// defaultSettings are the rows written on first boot. Every cache tier starts
// enabled; per-collection overrides are added by operators at runtime.
func defaultSettings() []*models.Setting {
	return []*models.Setting{
		{Key: rendercache.SettingCacheEnabled, Value: "true"},
		{Key: listing.SettingFileTier, Value: "true"},
		{Key: listing.SettingMemoryTier, Value: "true"},
	}
}

// IsSeeded checks if the database has already been populated.
func (d *DB) IsSeeded(ctx context.Context) (bool, error) {
	return d.NewSelect().Model((*models.Setting)(nil)).Exists(ctx)
}

// Seed writes the default settings rows on a fresh database. A database that
// already holds any setting is left untouched.
func (d *DB) Seed(ctx context.Context) error {
	seeded, err := d.IsSeeded(ctx)
	if err != nil {
		return fmt.Errorf("failed to check seed status: %w", err)
	}

	if seeded {
		return nil
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func(tx bun.Tx) {
		err := tx.Rollback()
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Println(err)
		}
	}(tx)

	now := time.Now()

	for _, setting := range defaultSettings() {
		setting.UpdatedAt = now

		_, err = tx.NewInsert().Model(setting).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", setting.Key, err)
		}
	}

	return tx.Commit()
}
