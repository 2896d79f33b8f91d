package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/GyasiAmosKwadwo/elevation-church/internal/domain"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/normalization"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string, staff, superuser bool) *types.User {
	tb.Helper()
	u := &types.User{
		ID:          uuid.New(),
		Username:    username,
		Email:       username + "@example.com",
		Password:    "pw",
		IsStaff:     staff,
		IsSuperuser: superuser,
		IsActive:    true,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedResource(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Resource {
	tb.Helper()
	r := &types.Resource{ID: uuid.New(), Name: name, Price: normalization.Price(1999)}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed resource: %v", err)
	}
	return r
}

func SeedSeries(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Series {
	tb.Helper()
	s := &types.Series{ID: uuid.New(), Title: title}
	if err := tx.WithContext(ctx).Omit("Thoughts").Create(s).Error; err != nil {
		tb.Fatalf("seed series: %v", err)
	}
	return s
}

// SeedSermon pins the sermon's date so ordering tests are deterministic.
func SeedSermon(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, seriesID, resourceID *uuid.UUID, date time.Time) *types.Sermon {
	tb.Helper()
	s := &types.Sermon{
		ID:          uuid.New(),
		Title:       title,
		VideoLink:   "https://www.youtube.com/watch?v=sjkrrmBnpGE&t=11s",
		PodcastLink: "https://www.youtube.com/watch?v=sjkrrmBnpGE&t=11s",
		Preacher:    "Pastor Obed Agyiri",
		SeriesID:    seriesID,
		ResourceID:  resourceID,
		Date:        date,
	}
	if err := tx.WithContext(ctx).Omit("Resource", "Series").Create(s).Error; err != nil {
		tb.Fatalf("seed sermon: %v", err)
	}
	return s
}

func SeedReflection(tb testing.TB, ctx context.Context, tx *gorm.DB, content string, devotionID *uuid.UUID, createdAt time.Time) *types.Reflection {
	tb.Helper()
	r := &types.Reflection{ID: uuid.New(), Author: "member", Content: content, DevotionID: devotionID, CreatedAt: createdAt}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed reflection: %v", err)
	}
	return r
}

func SeedDevotion(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Devotion {
	tb.Helper()
	d := &types.Devotion{ID: uuid.New(), Title: title, BibleVerse: []byte(`{"reference":"","verse_content":""}`)}
	if err := tx.WithContext(ctx).Omit("Reflection").Create(d).Error; err != nil {
		tb.Fatalf("seed devotion: %v", err)
	}
	return d
}
