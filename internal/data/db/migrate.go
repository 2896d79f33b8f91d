package db

import (
	"fmt"

	types "github.com/GyasiAmosKwadwo/elevation-church/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	// Explicit join rows so replace-set writes and the many2many preloads share one table.
	if err := db.SetupJoinTable(&types.Series{}, "Thoughts", &types.SeriesThought{}); err != nil {
		return fmt.Errorf("setup series_thoughts: %w", err)
	}
	if err := db.SetupJoinTable(&types.Devotion{}, "Reflection", &types.DevotionReflection{}); err != nil {
		return fmt.Errorf("setup devotion_reflections: %w", err)
	}

	if err := db.AutoMigrate(
		// =========================
		// Staff accounts + sessions
		// =========================
		&types.User{},
		&types.UserToken{},

		// =========================
		// Sermons and what owns them
		// =========================
		&types.Resource{},
		&types.Series{},
		&types.Sermon{},

		// =========================
		// Devotional content
		// =========================
		&types.Reflection{},
		&types.Devotion{},
		&types.SeriesThought{},
		&types.DevotionReflection{},

		// =========================
		// Notices
		// =========================
		&types.Event{},
		&types.PrayerRequest{},
		&types.Announcement{},
		&types.LiveStream{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if db.Dialector.Name() != DriverPostgres {
		return nil
	}

	// Case-insensitive search over the sermon listing.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_sermon_title_lower
		ON sermon (lower(title));
	`).Error; err != nil {
		return fmt.Errorf("create idx_sermon_title_lower: %w", err)
	}

	// Series detail orders sermons by (date, id).
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_sermon_series_date_id
		ON sermon (series_id, date, id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_sermon_series_date_id: %w", err)
	}

	return nil
}
