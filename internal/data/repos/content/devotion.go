package content

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/GyasiAmosKwadwo/elevation-church/internal/domain"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/listing"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/pkg/dbctx"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
)

type DevotionRepo interface {
	Repo[types.Devotion]
	ReplaceReflections(dbc dbctx.Context, devotionID uuid.UUID, reflectionIDs []uuid.UUID) error
}

type devotionRepo struct {
	*store[types.Devotion]
}

func NewDevotionRepo(db *gorm.DB, baseLog *logger.Logger, rules listing.Entity) DevotionRepo {
	return &devotionRepo{store: newStore[types.Devotion](db, baseLog, "DevotionRepo", "devotion", rules, "Reflection")}
}

func (r *devotionRepo) ReplaceReflections(dbc dbctx.Context, devotionID uuid.UUID, reflectionIDs []uuid.UUID) error {
	rows := make([]types.DevotionReflection, 0, len(reflectionIDs))
	seen := map[uuid.UUID]bool{}
	for _, id := range reflectionIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, types.DevotionReflection{DevotionID: devotionID, ReflectionID: id})
	}
	if err := replaceJoinRows(dbc.DB(r.db), "devotion_id", devotionID, rows); err != nil {
		return fmt.Errorf("replace devotion reflections: %w", err)
	}
	return nil
}

// Delete unlinks the devotion's reflections (join rows and back-references) before
// removing it. The reflections themselves survive.
func (r *devotionRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	transaction := dbc.DB(r.db)
	if err := transaction.Where("devotion_id = ?", id).Delete(&types.DevotionReflection{}).Error; err != nil {
		return false, fmt.Errorf("clear devotion reflections: %w", err)
	}
	if err := transaction.Model(&types.Reflection{}).
		Where("devotion_id = ?", id).
		Update("devotion_id", nil).Error; err != nil {
		return false, fmt.Errorf("detach reflections: %w", err)
	}
	return r.store.Delete(dbc, id)
}

type ReflectionRepo interface {
	Repo[types.Reflection]
	// ListByDevotion returns reflections pointing back at a devotion, newest first.
	ListByDevotion(dbc dbctx.Context, devotionID uuid.UUID) ([]*types.Reflection, error)
	// ExistingIDs returns the subset of ids that exist.
	ExistingIDs(dbc dbctx.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

type reflectionRepo struct {
	*store[types.Reflection]
}

func NewReflectionRepo(db *gorm.DB, baseLog *logger.Logger, rules listing.Entity) ReflectionRepo {
	return &reflectionRepo{store: newStore[types.Reflection](db, baseLog, "ReflectionRepo", "reflection", rules)}
}

func (r *reflectionRepo) ListByDevotion(dbc dbctx.Context, devotionID uuid.UUID) ([]*types.Reflection, error) {
	var results []*types.Reflection
	if err := dbc.DB(r.db).
		Where("devotion_id = ?", devotionID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("list reflections for devotion: %w", err)
	}
	return results, nil
}

func (r *reflectionRepo) ExistingIDs(dbc dbctx.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.Reflection{}).
		Where("id IN ?", ids).
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Delete drops the reflection's links from series and devotions first.
func (r *reflectionRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	transaction := dbc.DB(r.db)
	if err := transaction.Where("reflection_id = ?", id).Delete(&types.SeriesThought{}).Error; err != nil {
		return false, fmt.Errorf("unlink series thoughts: %w", err)
	}
	if err := transaction.Where("reflection_id = ?", id).Delete(&types.DevotionReflection{}).Error; err != nil {
		return false, fmt.Errorf("unlink devotion reflections: %w", err)
	}
	return r.store.Delete(dbc, id)
}
