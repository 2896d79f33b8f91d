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
	"github.com/GyasiAmosKwadwo/elevation-church/internal/relations"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/views"
)

// SermonInput carries the writable sermon fields. The creation date is
// server-assigned and never read from input.
type SermonInput struct {
	Title       *string                  `json:"title" form:"title"`
	Description *string                  `json:"description" form:"description"`
	VideoLink   *string                  `json:"video_link" form:"video_link"`
	Preacher    *string                  `json:"preacher" form:"preacher"`
	PodcastLink *string                  `json:"podcast_link" form:"podcast_link"`
	Resource    normalization.OptionalID `json:"resource" form:"resource"`
	Series      normalization.OptionalID `json:"series" form:"series"`
	Likes       *int                     `json:"likes" form:"likes"`
	Comments    *string                  `json:"comments" form:"comments"`
}

type SermonService interface {
	List(ctx context.Context, params ListParams) (*Page[views.Sermon], error)
	Get(ctx context.Context, id uuid.UUID) (*views.Sermon, error)
	Create(ctx context.Context, in *SermonInput) (*views.Sermon, error)
	Update(ctx context.Context, id uuid.UUID, in *SermonInput, partial bool) (*views.Sermon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type sermonService struct {
	db           *gorm.DB
	log          *logger.Logger
	sermonRepo   repos.SermonRepo
	resourceRepo repos.ResourceRepo
	seriesRepo   repos.SeriesRepo
	cache        cache.Cache
	links        relations.Linker
}

func NewSermonService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sermonRepo repos.SermonRepo,
	resourceRepo repos.ResourceRepo,
	seriesRepo repos.SeriesRepo,
	c cache.Cache,
	links relations.Linker,
) SermonService {
	return &sermonService{
		db:           db,
		log:          baseLog.With("service", "SermonService"),
		sermonRepo:   sermonRepo,
		resourceRepo: resourceRepo,
		seriesRepo:   seriesRepo,
		cache:        c,
		links:        links,
	}
}

func (s *sermonService) List(ctx context.Context, params ListParams) (*Page[views.Sermon], error) {
	dbc := dbctx.New(ctx)
	page, err := s.sermonRepo.List(dbc, params.query())
	if err != nil {
		return nil, listErr(err)
	}
	siblings, err := s.siblingsFor(dbc, page.Items...)
	if err != nil {
		return nil, err
	}
	items := make([]views.Sermon, 0, len(page.Items))
	for _, sm := range page.Items {
		items = append(items, views.NewSermon(sm, siblingsOf(siblings, sm), s.links))
	}
	return newPage(page, items), nil
}

func (s *sermonService) Get(ctx context.Context, id uuid.UUID) (*views.Sermon, error) {
	return s.render(dbctx.New(ctx), id)
}

func (s *sermonService) render(dbc dbctx.Context, id uuid.UUID) (*views.Sermon, error) {
	sm, err := s.sermonRepo.GetByID(dbc, id)
	if err != nil {
		return nil, notFound(err, "sermon")
	}
	siblings, err := s.siblingsFor(dbc, sm)
	if err != nil {
		return nil, err
	}
	out := views.NewSermon(sm, siblingsOf(siblings, sm), s.links)
	return &out, nil
}

// siblingsFor loads every series touched by the given sermons in one query,
// grouped by series.
func (s *sermonService) siblingsFor(dbc dbctx.Context, sermons ...*types.Sermon) (map[uuid.UUID][]*types.Sermon, error) {
	var ids []uuid.UUID
	seen := map[uuid.UUID]bool{}
	for _, sm := range sermons {
		if sm.SeriesID != nil && !seen[*sm.SeriesID] {
			seen[*sm.SeriesID] = true
			ids = append(ids, *sm.SeriesID)
		}
	}
	out := map[uuid.UUID][]*types.Sermon{}
	if len(ids) == 0 {
		return out, nil
	}
	all, err := s.sermonRepo.ListBySeries(dbc, ids...)
	if err != nil {
		return nil, err
	}
	for _, sm := range all {
		out[*sm.SeriesID] = append(out[*sm.SeriesID], sm)
	}
	for k, v := range out {
		out[k] = relations.OrderSermons(v)
	}
	return out, nil
}

func siblingsOf(groups map[uuid.UUID][]*types.Sermon, sm *types.Sermon) []*types.Sermon {
	if sm.SeriesID == nil {
		return nil
	}
	return groups[*sm.SeriesID]
}

func (s *sermonService) validate(dbc dbctx.Context, in *SermonInput, partial bool) (*SermonInput, error) {
	errs := fieldErrs{}
	out := &SermonInput{
		Title:       errs.text("title", in.Title, 200, true, partial),
		Description: errs.text("description", in.Description, 700, false, partial),
		VideoLink:   errs.link("video_link", in.VideoLink, 200, false, partial),
		Preacher:    errs.text("preacher", in.Preacher, 100, false, partial),
		PodcastLink: errs.link("podcast_link", in.PodcastLink, 200, false, partial),
		Resource:    in.Resource,
		Series:      in.Series,
		Likes:       errs.count("likes", in.Likes),
		Comments:    errs.text("comments", in.Comments, 0, false, partial),
	}
	errs.add(in.Resource.Check("resource"))
	errs.add(in.Series.Check("series"))
	if err := errs.ref("resource", in.Resource.Value, func(id uuid.UUID) error {
		_, err := s.resourceRepo.GetByID(dbc, id)
		return err
	}); err != nil {
		return nil, err
	}
	if err := errs.ref("series", in.Series.Value, func(id uuid.UUID) error {
		_, err := s.seriesRepo.GetByID(dbc, id)
		return err
	}); err != nil {
		return nil, err
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *sermonService) Create(ctx context.Context, in *SermonInput) (*views.Sermon, error) {
	var out *views.Sermon
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		v, err := s.validate(dbc, in, false)
		if err != nil {
			return err
		}
		rec := &types.Sermon{
			Title:       deref(v.Title, ""),
			Description: deref(v.Description, ""),
			VideoLink:   orDefault(v.VideoLink, content.DefaultVideoLink),
			Preacher:    orDefault(v.Preacher, content.DefaultPreacher),
			PodcastLink: orDefault(v.PodcastLink, content.DefaultVideoLink),
			ResourceID:  v.Resource.Value,
			SeriesID:    v.Series.Value,
			Likes:       deref(v.Likes, 0),
			Comments:    deref(v.Comments, ""),
		}
		if err := s.sermonRepo.Create(dbc, rec); err != nil {
			return fmt.Errorf("create sermon: %w", err)
		}
		out, err = s.render(dbc, rec.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, content.EntitySermon)
	return out, nil
}

func (s *sermonService) Update(ctx context.Context, id uuid.UUID, in *SermonInput, partial bool) (*views.Sermon, error) {
	var out *views.Sermon
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.sermonRepo.GetByID(dbc, id); err != nil {
			return notFound(err, "sermon")
		}
		v, err := s.validate(dbc, in, partial)
		if err != nil {
			return err
		}
		cols := map[string]any{}
		setText(cols, "title", v.Title)
		setText(cols, "description", v.Description)
		setText(cols, "video_link", v.VideoLink)
		setText(cols, "preacher", v.Preacher)
		setText(cols, "podcast_link", v.PodcastLink)
		setText(cols, "comments", v.Comments)
		if v.Likes != nil {
			cols["likes"] = *v.Likes
		}
		if v.Resource.Set {
			cols["resource_id"] = v.Resource.Value
		}
		if v.Series.Set {
			cols["series_id"] = v.Series.Value
		}
		if err := s.sermonRepo.Update(dbc, id, cols); err != nil {
			return notFound(err, "sermon")
		}
		out, err = s.render(dbc, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, content.EntitySermon)
	return out, nil
}

func (s *sermonService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteByID(ctx, s.db, "sermon", s.sermonRepo.Delete, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, content.EntitySermon)
	return nil
}

// ResourceInput carries the writable resource fields.
type ResourceInput struct {
	Name         *string              `json:"name" form:"name"`
	PurchaseLink *string              `json:"purchase_link" form:"purchase_link"`
	Price        *normalization.Price `json:"price" form:"price"`
}

type ResourceService interface {
	List(ctx context.Context, params ListParams) (*Page[views.Resource], error)
	Get(ctx context.Context, id uuid.UUID) (*views.Resource, error)
	Create(ctx context.Context, in *ResourceInput) (*views.Resource, error)
	Update(ctx context.Context, id uuid.UUID, in *ResourceInput, partial bool) (*views.Resource, error)
	// Delete removes the resource and every sermon that references it.
	Delete(ctx context.Context, id uuid.UUID) error
}

type resourceService struct {
	db           *gorm.DB
	log          *logger.Logger
	resourceRepo repos.ResourceRepo
	cache        cache.Cache
}

func NewResourceService(db *gorm.DB, baseLog *logger.Logger, resourceRepo repos.ResourceRepo, c cache.Cache) ResourceService {
	return &resourceService{
		db:           db,
		log:          baseLog.With("service", "ResourceService"),
		resourceRepo: resourceRepo,
		cache:        c,
	}
}

func (s *resourceService) List(ctx context.Context, params ListParams) (*Page[views.Resource], error) {
	page, err := s.resourceRepo.List(dbctx.New(ctx), params.query())
	if err != nil {
		return nil, listErr(err)
	}
	items := make([]views.Resource, 0, len(page.Items))
	for _, r := range page.Items {
		items = append(items, *views.NewResource(r))
	}
	return newPage(page, items), nil
}

func (s *resourceService) Get(ctx context.Context, id uuid.UUID) (*views.Resource, error) {
	r, err := s.resourceRepo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, notFound(err, "resource")
	}
	return views.NewResource(r), nil
}

func validateResource(in *ResourceInput, partial bool) (*ResourceInput, error) {
	errs := fieldErrs{}
	out := &ResourceInput{
		Name:         errs.text("name", in.Name, 300, true, partial),
		PurchaseLink: errs.link("purchase_link", in.PurchaseLink, 200, true, partial),
		Price:        in.Price,
	}
	if in.Price == nil && !partial {
		errs.set("price", msgRequired)
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *resourceService) Create(ctx context.Context, in *ResourceInput) (*views.Resource, error) {
	v, err := validateResource(in, false)
	if err != nil {
		return nil, err
	}
	rec := &types.Resource{Name: *v.Name, PurchaseLink: *v.PurchaseLink, Price: *v.Price}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.resourceRepo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, rec); err != nil {
			return fmt.Errorf("create resource: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, content.EntityResource)
	return views.NewResource(rec), nil
}

func (s *resourceService) Update(ctx context.Context, id uuid.UUID, in *ResourceInput, partial bool) (*views.Resource, error) {
	v, err := validateResource(in, partial)
	if err != nil {
		return nil, err
	}
	var out *views.Resource
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		cols := map[string]any{}
		setText(cols, "name", v.Name)
		setText(cols, "purchase_link", v.PurchaseLink)
		if v.Price != nil {
			cols["price"] = *v.Price
		}
		if err := s.resourceRepo.Update(dbc, id, cols); err != nil {
			return notFound(err, "resource")
		}
		r, err := s.resourceRepo.GetByID(dbc, id)
		if err != nil {
			return notFound(err, "resource")
		}
		out = views.NewResource(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, content.EntityResource)
	return out, nil
}

func (s *resourceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteByID(ctx, s.db, "resource", s.resourceRepo.DeleteResourceCascade, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, content.EntityResource)
	return nil
}

func setText(cols map[string]any, column string, v *string) {
	if v != nil {
		cols[column] = *v
	}
}

// orDefault applies a model default when the value is missing or blank.
func orDefault(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}
