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

type SeriesRepo interface {
	Repo[types.Series]
	// DeleteSeriesCascade removes a series, its thought links and every sermon in it.
	DeleteSeriesCascade(dbc dbctx.Context, id uuid.UUID) (bool, error)
	ReplaceThoughts(dbc dbctx.Context, seriesID uuid.UUID, reflectionIDs []uuid.UUID) error
	// Thoughts returns each series' linked reflections, oldest first.
	Thoughts(dbc dbctx.Context, seriesIDs ...uuid.UUID) (map[uuid.UUID][]*types.Reflection, error)
}

type seriesRepo struct {
	*store[types.Series]
}

func NewSeriesRepo(db *gorm.DB, baseLog *logger.Logger, rules listing.Entity) SeriesRepo {
	return &seriesRepo{store: newStore[types.Series](db, baseLog, "SeriesRepo", "series", rules)}
}

func (r *seriesRepo) DeleteSeriesCascade(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	transaction := dbc.DB(r.db)
	res := transaction.Where("series_id = ?", id).Delete(&types.Sermon{})
	if res.Error != nil {
		return false, fmt.Errorf("cascade sermons of series: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		r.log.Debug("cascaded sermons", "series_id", id, "count", res.RowsAffected)
	}
	if err := transaction.Where("series_id = ?", id).Delete(&types.SeriesThought{}).Error; err != nil {
		return false, fmt.Errorf("clear series thoughts: %w", err)
	}
	return r.store.Delete(dbc, id)
}

func (r *seriesRepo) ReplaceThoughts(dbc dbctx.Context, seriesID uuid.UUID, reflectionIDs []uuid.UUID) error {
	rows := make([]types.SeriesThought, 0, len(reflectionIDs))
	seen := map[uuid.UUID]bool{}
	for _, id := range reflectionIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, types.SeriesThought{SeriesID: seriesID, ReflectionID: id})
	}
	if err := replaceJoinRows(dbc.DB(r.db), "series_id", seriesID, rows); err != nil {
		return fmt.Errorf("replace series thoughts: %w", err)
	}
	return nil
}

type thoughtRow struct {
	types.Reflection
	SeriesID uuid.UUID `gorm:"column:link_series_id"`
}

func (r *seriesRepo) Thoughts(dbc dbctx.Context, seriesIDs ...uuid.UUID) (map[uuid.UUID][]*types.Reflection, error) {
	out := make(map[uuid.UUID][]*types.Reflection, len(seriesIDs))
	if len(seriesIDs) == 0 {
		return out, nil
	}
	var rows []thoughtRow
	if err := dbc.DB(r.db).
		Table("reflection").
		Select("reflection.*, series_thoughts.series_id AS link_series_id").
		Joins("JOIN series_thoughts ON series_thoughts.reflection_id = reflection.id").
		Where("series_thoughts.series_id IN ?", seriesIDs).
		Order("reflection.created_at ASC").
		Order("reflection.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load series thoughts: %w", err)
	}
	for i := range rows {
		ref := rows[i].Reflection
		out[rows[i].SeriesID] = append(out[rows[i].SeriesID], &ref)
	}
	return out, nil
}
