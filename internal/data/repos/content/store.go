package content

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/listing"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/pkg/dbctx"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
)

// Repo is the CRUD surface every content table shares.
type Repo[T any] interface {
	Create(dbc dbctx.Context, rec *T) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*T, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*T, error)
	Update(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
	List(dbc dbctx.Context, q ListQuery) (*Page[T], error)
}

type store[T any] struct {
	db      *gorm.DB
	log     *logger.Logger
	table   string
	listing listing.Entity
	preload []string
}

func newStore[T any](db *gorm.DB, baseLog *logger.Logger, repoName, table string, rules listing.Entity, preload ...string) *store[T] {
	return &store[T]{
		db:      db,
		log:     baseLog.With("repo", repoName),
		table:   table,
		listing: rules,
		preload: preload,
	}
}

func (s *store[T]) withPreloads(q *gorm.DB) *gorm.DB {
	for _, p := range s.preload {
		q = q.Preload(p)
	}
	return q
}

func (s *store[T]) Create(dbc dbctx.Context, rec *T) error {
	if rec == nil {
		return errors.New("nil record")
	}
	return dbc.DB(s.db).Omit(clause.Associations).Create(rec).Error
}

// GetByID returns gorm.ErrRecordNotFound when the row is missing.
func (s *store[T]) GetByID(dbc dbctx.Context, id uuid.UUID) (*T, error) {
	var out T
	if err := s.withPreloads(dbc.DB(s.db)).
		Where(s.table+".id = ?", id).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *store[T]) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*T, error) {
	var results []*T
	if len(ids) == 0 {
		return results, nil
	}
	if err := s.withPreloads(dbc.DB(s.db)).
		Where(s.table+".id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Update writes only the given columns. Missing rows surface as gorm.ErrRecordNotFound.
func (s *store[T]) Update(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error {
	transaction := dbc.DB(s.db)
	if len(fields) == 0 {
		var count int64
		if err := transaction.Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}
	res := transaction.Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update %s: %w", s.table, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *store[T]) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	res := dbc.DB(s.db).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return false, fmt.Errorf("delete %s: %w", s.table, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// replaceJoinRows swaps the whole join set of one owner. Concurrent edits are
// last-writer-wins.
func replaceJoinRows[J any](transaction *gorm.DB, ownerColumn string, ownerID uuid.UUID, rows []J) error {
	if err := transaction.Where(ownerColumn+" = ?", ownerID).Delete(new(J)).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
