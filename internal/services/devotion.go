package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
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

type DevotionInput struct {
	Title      *string                   `json:"title" form:"title"`
	BibleVerse *normalization.VerseInput `json:"bible_verse" form:"bible_verse"`
	Content    *string                   `json:"content" form:"content"`
	Reflection *normalization.IDList     `json:"reflection" form:"reflection"`
	Thumbnail  *Upload                   `json:"-" form:"-"`
	thumbnail  *Image
}

type DevotionService interface {
	List(ctx context.Context, params ListParams) (*Page[views.Devotion], error)
	Get(ctx context.Context, id uuid.UUID) (*views.Devotion, error)
	Create(ctx context.Context, in *DevotionInput) (*views.Devotion, error)
	Update(ctx context.Context, id uuid.UUID, in *DevotionInput, partial bool) (*views.Devotion, error)
	// Delete detaches reflections that point at the devotion before removing it.
	Delete(ctx context.Context, id uuid.UUID) error
}

type devotionService struct {
	db             *gorm.DB
	log            *logger.Logger
	devotionRepo   repos.DevotionRepo
	reflectionRepo repos.ReflectionRepo
	artwork        ArtworkService
	cache          cache.Cache
}

func NewDevotionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	devotionRepo repos.DevotionRepo,
	reflectionRepo repos.ReflectionRepo,
	artwork ArtworkService,
	c cache.Cache,
) DevotionService {
	return &devotionService{
		db:             db,
		log:            baseLog.With("service", "DevotionService"),
		devotionRepo:   devotionRepo,
		reflectionRepo: reflectionRepo,
		artwork:        artwork,
		cache:          c,
	}
}

func (s *devotionService) view(dbc dbctx.Context, d *types.Devotion) (views.Devotion, error) {
	backRefs, err := s.reflectionRepo.ListByDevotion(dbc, d.ID)
	if err != nil {
		return views.Devotion{}, err
	}
	return views.NewDevotion(d, s.artwork.URL(d.Thumbnail), backRefs), nil
}

func (s *devotionService) List(ctx context.Context, params ListParams) (*Page[views.Devotion], error) {
	dbc := dbctx.New(ctx)
	page, err := s.devotionRepo.List(dbc, params.query())
	if err != nil {
		return nil, listErr(err)
	}
	items := make([]views.Devotion, 0, len(page.Items))
	for _, d := range page.Items {
		v, err := s.view(dbc, d)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return newPage(page, items), nil
}

func (s *devotionService) Get(ctx context.Context, id uuid.UUID) (*views.Devotion, error) {
	return s.render(dbctx.New(ctx), id)
}

func (s *devotionService) render(dbc dbctx.Context, id uuid.UUID) (*views.Devotion, error) {
	d, err := s.devotionRepo.GetByID(dbc, id)
	if err != nil {
		return nil, notFound(err, "devotion")
	}
	out, err := s.view(dbc, d)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *devotionService) validate(dbc dbctx.Context, in *DevotionInput, partial bool) (*DevotionInput, error) {
	errs := fieldErrs{}
	out := &DevotionInput{
		Title:      errs.text("title", in.Title, 200, true, partial),
		BibleVerse: in.BibleVerse,
		Content:    errs.text("content", in.Content, 0, false, partial),
		Reflection: in.Reflection,
	}
	if in.Reflection != nil {
		errs.add(in.Reflection.Check("reflection"))
		if len(in.Reflection.IDs) > 0 {
			existing, err := s.reflectionRepo.ExistingIDs(dbc, in.Reflection.IDs)
			if err != nil {
				return nil, err
			}
			errs.refs("reflection", in.Reflection.IDs, existing)
		}
	}
	if in.Thumbnail != nil {
		img, err := s.artwork.Process("thumbnail", in.Thumbnail)
		errs.add(err)
		out.thumbnail = img
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *devotionService) Create(ctx context.Context, in *DevotionInput) (*views.Devotion, error) {
	var (
		out      *views.Devotion
		thumbKey string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		v, err := s.validate(dbc, in, false)
		if err != nil {
			return err
		}
		verse := normalization.VerseInput{}
		if v.BibleVerse != nil {
			verse = *v.BibleVerse
		}
		rec := &types.Devotion{
			ID:         uuid.New(),
			Title:      *v.Title,
			BibleVerse: verse.JSON(),
			Content:    deref(v.Content, ""),
		}
		thumbKey, err = s.artwork.Save(ctx, media.CategoryDevotionThumbnail, rec.ID, rec.Title, v.thumbnail)
		if err != nil {
			return err
		}
		rec.Thumbnail = thumbKey
		if err := s.devotionRepo.Create(dbc, rec); err != nil {
			return fmt.Errorf("create devotion: %w", err)
		}
		if v.Reflection != nil {
			if err := s.devotionRepo.ReplaceReflections(dbc, rec.ID, v.Reflection.IDs); err != nil {
				return err
			}
		}
		out, err = s.render(dbc, rec.ID)
		return err
	})
	if err != nil {
		s.artwork.Remove(ctx, thumbKey)
		return nil, err
	}
	invalidate(ctx, s.cache, content.EntityDevotion)
	return out, nil
}

func (s *devotionService) Update(ctx context.Context, id uuid.UUID, in *DevotionInput, partial bool) (*views.Devotion, error) {
	var (
		out            *views.Devotion
		newKey, oldKey string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := s.devotionRepo.GetByID(dbc, id)
		if err != nil {
			return notFound(err, "devotion")
		}
		v, err := s.validate(dbc, in, partial)
		if err != nil {
			return err
		}
		cols := map[string]any{}
		setText(cols, "title", v.Title)
		setText(cols, "content", v.Content)
		if v.BibleVerse != nil {
			cols["bible_verse"] = v.BibleVerse.JSON()
		}
		if v.thumbnail != nil {
			newKey, err = s.artwork.Save(ctx, media.CategoryDevotionThumbnail, id, current.Title, v.thumbnail)
			if err != nil {
				return err
			}
			oldKey = current.Thumbnail
			cols["thumbnail"] = newKey
		}
		if err := s.devotionRepo.Update(dbc, id, cols); err != nil {
			return notFound(err, "devotion")
		}
		if v.Reflection != nil {
			if err := s.devotionRepo.ReplaceReflections(dbc, id, v.Reflection.IDs); err != nil {
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
	invalidate(ctx, s.cache, content.EntityDevotion)
	return out, nil
}

func (s *devotionService) Delete(ctx context.Context, id uuid.UUID) error {
	var thumb string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := s.devotionRepo.GetByID(dbc, id)
		if err != nil {
			return notFound(err, "devotion")
		}
		thumb = current.Thumbnail
		_, err = s.devotionRepo.Delete(dbc, id)
		return err
	})
	if err != nil {
		return err
	}
	s.artwork.Remove(ctx, thumb)
	invalidate(ctx, s.cache, content.EntityDevotion)
	return nil
}

type ReflectionInput struct {
	Author   *string                  `json:"author" form:"author"`
	Content  *string                  `json:"content" form:"content"`
	Likes    *int                     `json:"likes" form:"likes"`
	Comments *string                  `json:"comments" form:"comments"`
	Devotion normalization.OptionalID `json:"devotion" form:"devotion"`
}

type ReflectionService interface {
	List(ctx context.Context, params ListParams) (*Page[views.Reflection], error)
	Get(ctx context.Context, id uuid.UUID) (*views.Reflection, error)
	// ListByDevotion returns the reflections pointing at a devotion, newest first.
	ListByDevotion(ctx context.Context, devotionID uuid.UUID) ([]views.Reflection, error)
	Create(ctx context.Context, in *ReflectionInput) (*views.Reflection, error)
	Update(ctx context.Context, id uuid.UUID, in *ReflectionInput, partial bool) (*views.Reflection, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type reflectionService struct {
	db             *gorm.DB
	log            *logger.Logger
	reflectionRepo repos.ReflectionRepo
	devotionRepo   repos.DevotionRepo
	cache          cache.Cache
}

func NewReflectionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	reflectionRepo repos.ReflectionRepo,
	devotionRepo repos.DevotionRepo,
	c cache.Cache,
) ReflectionService {
	return &reflectionService{
		db:             db,
		log:            baseLog.With("service", "ReflectionService"),
		reflectionRepo: reflectionRepo,
		devotionRepo:   devotionRepo,
		cache:          c,
	}
}

func (s *reflectionService) List(ctx context.Context, params ListParams) (*Page[views.Reflection], error) {
	page, err := s.reflectionRepo.List(dbctx.New(ctx), params.query())
	if err != nil {
		return nil, listErr(err)
	}
	return newPage(page, views.NewReflections(page.Items)), nil
}

func (s *reflectionService) Get(ctx context.Context, id uuid.UUID) (*views.Reflection, error) {
	r, err := s.reflectionRepo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, notFound(err, "reflection")
	}
	out := views.NewReflection(r)
	return &out, nil
}

func (s *reflectionService) ListByDevotion(ctx context.Context, devotionID uuid.UUID) ([]views.Reflection, error) {
	dbc := dbctx.New(ctx)
	if _, err := s.devotionRepo.GetByID(dbc, devotionID); err != nil {
		return nil, notFound(err, "devotion")
	}
	rs, err := s.reflectionRepo.ListByDevotion(dbc, devotionID)
	if err != nil {
		return nil, err
	}
	return views.NewReflections(rs), nil
}

func (s *reflectionService) validate(dbc dbctx.Context, in *ReflectionInput, partial bool) (*ReflectionInput, error) {
	errs := fieldErrs{}
	out := &ReflectionInput{
		Author:   errs.text("author", in.Author, 100, false, partial),
		Content:  errs.text("content", in.Content, 0, true, partial),
		Likes:    errs.count("likes", in.Likes),
		Comments: errs.text("comments", in.Comments, 0, false, partial),
		Devotion: in.Devotion,
	}
	errs.add(in.Devotion.Check("devotion"))
	if err := errs.ref("devotion", in.Devotion.Value, func(id uuid.UUID) error {
		_, err := s.devotionRepo.GetByID(dbc, id)
		return err
	}); err != nil {
		return nil, err
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *reflectionService) Create(ctx context.Context, in *ReflectionInput) (*views.Reflection, error) {
	var out *views.Reflection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		v, err := s.validate(dbc, in, false)
		if err != nil {
			return err
		}
		rec := &types.Reflection{
			Author:     deref(v.Author, ""),
			Content:    *v.Content,
			Likes:      deref(v.Likes, 0),
			Comments:   deref(v.Comments, ""),
			DevotionID: v.Devotion.Value,
		}
		if err := s.reflectionRepo.Create(dbc, rec); err != nil {
			return fmt.Errorf("create reflection: %w", err)
		}
		view := views.NewReflection(rec)
		out = &view
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, content.EntityReflection)
	return out, nil
}

func (s *reflectionService) Update(ctx context.Context, id uuid.UUID, in *ReflectionInput, partial bool) (*views.Reflection, error) {
	var out *views.Reflection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.reflectionRepo.GetByID(dbc, id); err != nil {
			return notFound(err, "reflection")
		}
		v, err := s.validate(dbc, in, partial)
		if err != nil {
			return err
		}
		cols := map[string]any{}
		setText(cols, "author", v.Author)
		setText(cols, "content", v.Content)
		setText(cols, "comments", v.Comments)
		if v.Likes != nil {
			cols["likes"] = *v.Likes
		}
		if v.Devotion.Set {
			cols["devotion_id"] = v.Devotion.Value
		}
		if err := s.reflectionRepo.Update(dbc, id, cols); err != nil {
			return notFound(err, "reflection")
		}
		r, err := s.reflectionRepo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		view := views.NewReflection(r)
		out = &view
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, content.EntityReflection)
	return out, nil
}

func (s *reflectionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteByID(ctx, s.db, "reflection", s.reflectionRepo.Delete, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, content.EntityReflection)
	return nil
}
