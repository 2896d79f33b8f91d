package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/repos"
	types "github.com/GyasiAmosKwadwo/elevation-church/internal/domain"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/domain/content"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/normalization"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/pkg/dbctx"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/cache"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/media"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/views"
)

type SeriesInput struct {
	Title       *string               `json:"title" form:"title"`
	Description *string               `json:"description" form:"description"`
	Likes       *int                  `json:"likes" form:"likes"`
	Thoughts    *normalization.IDList `json:"thoughts" form:"thoughts"`
	Image       *Upload               `json:"-" form:"-"`

	image *Image
}

type SeriesService interface {
	List(ctx context.Context, params ListParams) (*Page[views.Series], error)
	Get(ctx context.Context, id uuid.UUID) (*views.Series, error)
	Create(ctx context.Context, in *SeriesInput) (*views.Series, error)
	Update(ctx context.Context, id uuid.UUID, in *SeriesInput, partial bool) (*views.Series, error)
	// Delete removes the series together with its sermons.
	Delete(ctx context.Context, id uuid.UUID) error
}

type seriesService struct {
	db             *gorm.DB
	log            *logger.Logger
	seriesRepo     repos.SeriesRepo
	sermonRepo     repos.SermonRepo
	reflectionRepo repos.ReflectionRepo
	artwork        ArtworkService
	cache          cache.Cache
}

func NewSeriesService(
	db *gorm.DB,
	baseLog *logger.Logger,
	seriesRepo repos.SeriesRepo,
	sermonRepo repos.SermonRepo,
	reflectionRepo repos.ReflectionRepo,
	artwork ArtworkService,
	c cache.Cache,
) SeriesService {
	return &seriesService{
		db:             db,
		log:            baseLog.With("service", "SeriesService"),
		seriesRepo:     seriesRepo,
		sermonRepo:     sermonRepo,
		reflectionRepo: reflectionRepo,
		artwork:        artwork,
		cache:          c,
	}
}

type seriesRelations struct {
	sermons  map[uuid.UUID][]*types.Sermon
	thoughts map[uuid.UUID][]*types.Reflection
}

// related loads the sermons and thoughts of every series concurrently.
func (s *seriesService) related(dbc dbctx.Context, ids ...uuid.UUID) (*seriesRelations, error) {
	out := &seriesRelations{sermons: map[uuid.UUID][]*types.Sermon{}}
	if len(ids) == 0 {
		out.thoughts = map[uuid.UUID][]*types.Reflection{}
		return out, nil
	}
	g, gctx := errgroup.WithContext(dbc.Ctx)
	gdbc := dbctx.Context{Ctx: gctx, Tx: dbc.Tx}
	g.Go(func() error {
		sermons, err := s.sermonRepo.ListBySeries(gdbc, ids...)
		if err != nil {
			return err
		}
		for _, sm := range sermons {
			out.sermons[*sm.SeriesID] = append(out.sermons[*sm.SeriesID], sm)
		}
		return nil
	})
	g.Go(func() error {
		thoughts, err := s.seriesRepo.Thoughts(gdbc, ids...)
		if err != nil {
			return err
		}
		out.thoughts = thoughts
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load series relations: %w", err)
	}
	return out, nil
}

func (s *seriesService) view(sr *types.Series, rel *seriesRelations) views.Series {
	return views.NewSeries(sr, s.artwork.URL(sr.Image), rel.sermons[sr.ID], rel.thoughts[sr.ID])
}

func (s *seriesService) List(ctx context.Context, params ListParams) (*Page[views.Series], error) {
	dbc := dbctx.New(ctx)
	page, err := s.seriesRepo.List(dbc, params.query())
	if err != nil {
		return nil, listErr(err)
	}
	ids := make([]uuid.UUID, 0, len(page.Items))
	for _, sr := range page.Items {
		ids = append(ids, sr.ID)
	}
	rel, err := s.related(dbc, ids...)
	if err != nil {
		return nil, err
	}
	items := make([]views.Series, 0, len(page.Items))
	for _, sr := range page.Items {
		items = append(items, s.view(sr, rel))
	}
	return newPage(page, items), nil
}

func (s *seriesService) Get(ctx context.Context, id uuid.UUID) (*views.Series, error) {
	return s.render(dbctx.New(ctx), id)
}

func (s *seriesService) render(dbc dbctx.Context, id uuid.UUID) (*views.Series, error) {
	sr, err := s.seriesRepo.GetByID(dbc, id)
	if err != nil {
		return nil, notFound(err, "series")
	}
	// A transaction is a single connection; concurrent reads only outside one.
	if dbc.Tx != nil {
		sermons, err := s.sermonRepo.ListBySeries(dbc, id)
		if err != nil {
			return nil, err
		}
		thoughts, err := s.seriesRepo.Thoughts(dbc, id)
		if err != nil {
			return nil, err
		}
		out := views.NewSeries(sr, s.artwork.URL(sr.Image), sermons, thoughts[id])
		return &out, nil
	}
	rel, err := s.related(dbc, id)
	if err != nil {
		return nil, err
	}
	out := s.view(sr, rel)
	return &out, nil
}

func (s *seriesService) validate(dbc dbctx.Context, in *SeriesInput, partial bool) (*SeriesInput, error) {
	errs := fieldErrs{}
	out := &SeriesInput{
		Title:       errs.text("title", in.Title, 200, true, partial),
		Description: errs.text("description", in.Description, 700, false, partial),
		Likes:       errs.count("likes", in.Likes),
		Thoughts:    in.Thoughts,
		Image:       in.Image,
	}
	if in.Thoughts != nil {
		errs.add(in.Thoughts.Check("thoughts"))
		if len(in.Thoughts.IDs) > 0 {
			existing, err := s.reflectionRepo.ExistingIDs(dbc, in.Thoughts.IDs)
			if err != nil {
				return nil, err
			}
			errs.refs("thoughts", in.Thoughts.IDs, existing)
		}
	}
	if in.Image != nil {
		img, err := s.artwork.Process("image", in.Image)
		errs.add(err)
		out.image = img
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *seriesService) Create(ctx context.Context, in *SeriesInput) (*views.Series, error) {
	var (
		out      *views.Series
		imageKey string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		v, err := s.validate(dbc, in, false)
		if err != nil {
			return err
		}
		rec := &types.Series{
			ID:          uuid.New(),
			Title:       *v.Title,
			Description: deref(v.Description, ""),
			Likes:       deref(v.Likes, 0),
		}
		imageKey, err = s.artwork.Save(ctx, media.CategorySeriesImage, rec.ID, rec.Title, v.image)
		if err != nil {
			return err
		}
		rec.Image = imageKey
		if err := s.seriesRepo.Create(dbc, rec); err != nil {
			return fmt.Errorf("create series: %w", err)
		}
		if v.Thoughts != nil {
			if err := s.seriesRepo.ReplaceThoughts(dbc, rec.ID, v.Thoughts.IDs); err != nil {
				return err
			}
		}
		out, err = s.render(dbc, rec.ID)
		return err
	})
	if err != nil {
		s.artwork.Remove(ctx, imageKey)
		return nil, err
	}
	invalidate(ctx, s.cache, content.EntitySeries)
	return out, nil
}

func (s *seriesService) Update(ctx context.Context, id uuid.UUID, in *SeriesInput, partial bool) (*views.Series, error) {
	var (
		out            *views.Series
		newKey, oldKey string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := s.seriesRepo.GetByID(dbc, id)
		if err != nil {
			return notFound(err, "series")
		}
		v, err := s.validate(dbc, in, partial)
		if err != nil {
			return err
		}
		cols := map[string]any{}
		setText(cols, "title", v.Title)
		setText(cols, "description", v.Description)
		if v.Likes != nil {
			cols["likes"] = *v.Likes
		}
		if v.image != nil {
			newKey, err = s.artwork.Save(ctx, media.CategorySeriesImage, id, current.Title, v.image)
			if err != nil {
				return err
			}
			oldKey = current.Image
			cols["image"] = newKey
		}
		if err := s.seriesRepo.Update(dbc, id, cols); err != nil {
			return notFound(err, "series")
		}
		if v.Thoughts != nil {
			if err := s.seriesRepo.ReplaceThoughts(dbc, id, v.Thoughts.IDs); err != nil {
				return err
			}
		}
		out, err = s.render(dbc, id)
		return err
	})
	if err != nil {
		s.artwork.Remove(ctx, newKey)
		return nil, err
	}
	s.artwork.Remove(ctx, oldKey)
	invalidate(ctx, s.cache, content.EntitySeries)
	return out, nil
}

func (s *seriesService) Delete(ctx context.Context, id uuid.UUID) error {
	var image string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := s.seriesRepo.GetByID(dbc, id)
		if err != nil {
			return notFound(err, "series")
		}
		image = current.Image
		deleted, err := s.seriesRepo.DeleteSeriesCascade(dbc, id)
		if err != nil {
			return err
		}
		if !deleted {
			return notFound(gorm.ErrRecordNotFound, "series")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.artwork.Remove(ctx, image)
	invalidate(ctx, s.cache, content.EntitySeries)
	return nil
}
