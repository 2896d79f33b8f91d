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

type SermonRepo interface {
	Repo[types.Sermon]
	// ListBySeries returns the sermons of the given series by date, then id.
	ListBySeries(dbc dbctx.Context, seriesIDs ...uuid.UUID) ([]*types.Sermon, error)
}

type sermonRepo struct {
	*store[types.Sermon]
}

func NewSermonRepo(db *gorm.DB, baseLog *logger.Logger, rules listing.Entity) SermonRepo {
	return &sermonRepo{store: newStore[types.Sermon](db, baseLog, "SermonRepo", "sermon", rules, "Resource")}
}

func (r *sermonRepo) ListBySeries(dbc dbctx.Context, seriesIDs ...uuid.UUID) ([]*types.Sermon, error) {
	var results []*types.Sermon
	if len(seriesIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("series_id IN ?", seriesIDs).
		Order("date ASC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("list sermons for series: %w", err)
	}
	return results, nil
}

type ResourceRepo interface {
	Repo[types.Resource]
	// DeleteResourceCascade removes a resource and every sermon that references it.
	DeleteResourceCascade(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type resourceRepo struct {
	*store[types.Resource]
}

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger, rules listing.Entity) ResourceRepo {
	return &resourceRepo{store: newStore[types.Resource](db, baseLog, "ResourceRepo", "resource", rules)}
}

func (r *resourceRepo) DeleteResourceCascade(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	transaction := dbc.DB(r.db)
	res := transaction.Where("resource_id = ?", id).Delete(&types.Sermon{})
	if res.Error != nil {
		return false, fmt.Errorf("cascade sermons of resource: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		r.log.Debug("cascaded sermons", "resource_id", id, "count", res.RowsAffected)
	}
	return r.store.Delete(dbc, id)
}
