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
	"github.com/GyasiAmosKwadwo/elevation-church/internal/views"
)

// deleteByID runs a plain delete in its own transaction and maps a missing
// row to a 404.
func deleteByID(ctx context.Context, db *gorm.DB, what string, del func(dbctx.Context, uuid.UUID) (bool, error), id uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := del(dbctx.Context{Ctx: ctx, Tx: tx}, id)
		if err != nil {
			return err
		}
		if !deleted {
			return notFound(gorm.ErrRecordNotFound, what)
		}
		return nil
	})
}

type PrayerRequestInput struct {
	Name    *string `json:"name" form:"name"`
	Subject *string `json:"subject" form:"subject"`
}

// PrayerRequestService has no update: requests are submitted and later removed.
type PrayerRequestService interface {
	List(ctx context.Context, params ListParams) (*Page[views.PrayerRequest], error)
	Get(ctx context.Context, id uuid.UUID) (*views.PrayerRequest, error)
	Create(ctx context.Context, in *PrayerRequestInput) (*views.PrayerRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type prayerRequestService struct {
	db    *gorm.DB
	log   *logger.Logger
	repo  repos.PrayerRequestRepo
	cache cache.Cache
}

func NewPrayerRequestService(db *gorm.DB, baseLog *logger.Logger, repo repos.PrayerRequestRepo, c cache.Cache) PrayerRequestService {
	return &prayerRequestService{db: db, log: baseLog.With("service", "PrayerRequestService"), repo: repo, cache: c}
}

func (s *prayerRequestService) List(ctx context.Context, params ListParams) (*Page[views.PrayerRequest], error) {
	page, err := s.repo.List(dbctx.New(ctx), params.query())
	if err != nil {
		return nil, listErr(err)
	}
	items := make([]views.PrayerRequest, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, views.NewPrayerRequest(p))
	}
	return newPage(page, items), nil
}

func (s *prayerRequestService) Get(ctx context.Context, id uuid.UUID) (*views.PrayerRequest, error) {
	p, err := s.repo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, notFound(err, "prayer request")
	}
	out := views.NewPrayerRequest(p)
	return &out, nil
}

func (s *prayerRequestService) Create(ctx context.Context, in *PrayerRequestInput) (*views.PrayerRequest, error) {
	errs := fieldErrs{}
	name := errs.text("name", in.Name, 100, true, false)
	subject := errs.text("subject", in.Subject, 0, true, false)
	if err := errs.err(); err != nil {
		return nil, err
	}
	rec := &types.PrayerRequest{Name: *name, Subject: *subject}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, rec); err != nil {
			return fmt.Errorf("create prayer request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Prayer request received", "prayer_request_id", rec.ID)
	invalidate(ctx, s.cache, content.EntityPrayerRequest)
	out := views.NewPrayerRequest(rec)
	return &out, nil
}

func (s *prayerRequestService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteByID(ctx, s.db, "prayer request", s.repo.Delete, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, content.EntityPrayerRequest)
	return nil
}

type AnnouncementInput struct {
	Title   *string `json:"title" form:"title"`
	Content *string `json:"content" form:"content"`
}

type AnnouncementService interface {
	List(ctx context.Context, params ListParams) (*Page[views.Announcement], error)
	Get(ctx context.Context, id uuid.UUID) (*views.Announcement, error)
	Create(ctx context.Context, in *AnnouncementInput) (*views.Announcement, error)
	Update(ctx context.Context, id uuid.UUID, in *AnnouncementInput, partial bool) (*views.Announcement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type announcementService struct {
	db    *gorm.DB
	log   *logger.Logger
	repo  repos.AnnouncementRepo
	cache cache.Cache
}

func NewAnnouncementService(db *gorm.DB, baseLog *logger.Logger, repo repos.AnnouncementRepo, c cache.Cache) AnnouncementService {
	return &announcementService{db: db, log: baseLog.With("service", "AnnouncementService"), repo: repo, cache: c}
}

func (s *announcementService) List(ctx context.Context, params ListParams) (*Page[views.Announcement], error) {
	page, err := s.repo.List(dbctx.New(ctx), params.query())
	if err != nil {
		return nil, listErr(err)
	}
	items := make([]views.Announcement, 0, len(page.Items))
	for _, a := range page.Items {
		items = append(items, views.NewAnnouncement(a))
	}
	return newPage(page, items), nil
}

func (s *announcementService) Get(ctx context.Context, id uuid.UUID) (*views.Announcement, error) {
	a, err := s.repo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, notFound(err, "announcement")
	}
	out := views.NewAnnouncement(a)
	return &out, nil
}

func validateAnnouncement(in *AnnouncementInput, partial bool) (*AnnouncementInput, error) {
	errs := fieldErrs{}
	out := &AnnouncementInput{
		Title:   errs.text("title", in.Title, 200, true, partial),
		Content: errs.text("content", in.Content, 0, true, partial),
	}
	return out, errs.err()
}

func (s *announcementService) Create(ctx context.Context, in *AnnouncementInput) (*views.Announcement, error) {
	v, err := validateAnnouncement(in, false)
	if err != nil {
		return nil, err
	}
	rec := &types.Announcement{Title: *v.Title, Content: *v.Content}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, rec); err != nil {
			return fmt.Errorf("create announcement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, content.EntityAnnouncement)
	out := views.NewAnnouncement(rec)
	return &out, nil
}

func (s *announcementService) Update(ctx context.Context, id uuid.UUID, in *AnnouncementInput, partial bool) (*views.Announcement, error) {
	v, err := validateAnnouncement(in, partial)
	if err != nil {
		return nil, err
	}
	var out views.Announcement
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		cols := map[string]any{}
		setText(cols, "title", v.Title)
		setText(cols, "content", v.Content)
		if err := s.repo.Update(dbc, id, cols); err != nil {
			return notFound(err, "announcement")
		}
		a, err := s.repo.GetByID(dbc, id)
		if err != nil {
			return notFound(err, "announcement")
		}
		out = views.NewAnnouncement(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, content.EntityAnnouncement)
	return &out, nil
}

func (s *announcementService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteByID(ctx, s.db, "announcement", s.repo.Delete, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, content.EntityAnnouncement)
	return nil
}

type LiveStreamInput struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
	StreamLink  *string `json:"stream_link" form:"stream_link"`
	Status      *string `json:"status" form:"status"`
	Reactions   *int    `json:"reactions" form:"reactions"`
	Comments    *string `json:"comments" form:"comments"`
}

type LiveStreamService interface {
	List(ctx context.Context, params ListParams) (*Page[views.LiveStream], error)
	Get(ctx context.Context, id uuid.UUID) (*views.LiveStream, error)
	Create(ctx context.Context, in *LiveStreamInput) (*views.LiveStream, error)
	Update(ctx context.Context, id uuid.UUID, in *LiveStreamInput, partial bool) (*views.LiveStream, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type liveStreamService struct {
	db    *gorm.DB
	log   *logger.Logger
	repo  repos.LiveStreamRepo
	cache cache.Cache
}

func NewLiveStreamService(db *gorm.DB, baseLog *logger.Logger, repo repos.LiveStreamRepo, c cache.Cache) LiveStreamService {
	return &liveStreamService{db: db, log: baseLog.With("service", "LiveStreamService"), repo: repo, cache: c}
}

func (s *liveStreamService) List(ctx context.Context, params ListParams) (*Page[views.LiveStream], error) {
	page, err := s.repo.List(dbctx.New(ctx), params.query())
	if err != nil {
		return nil, listErr(err)
	}
	items := make([]views.LiveStream, 0, len(page.Items))
	for _, l := range page.Items {
		items = append(items, views.NewLiveStream(l))
	}
	return newPage(page, items), nil
}

func (s *liveStreamService) Get(ctx context.Context, id uuid.UUID) (*views.LiveStream, error) {
	l, err := s.repo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, notFound(err, "live stream")
	}
	out := views.NewLiveStream(l)
	return &out, nil
}

func validateLiveStream(in *LiveStreamInput, partial bool) (*LiveStreamInput, error) {
	errs := fieldErrs{}
	out := &LiveStreamInput{
		Title:       errs.text("title", in.Title, 200, true, partial),
		Description: errs.text("description", in.Description, 0, false, partial),
		StreamLink:  errs.link("stream_link", in.StreamLink, 200, true, partial),
		Reactions:   errs.count("reactions", in.Reactions),
		Comments:    errs.text("comments", in.Comments, 0, false, partial),
	}
	if in.Status != nil {
		status, err := normalization.StreamStatus(*in.Status)
		errs.add(err)
		out.Status = &status
	}
	return out, errs.err()
}

func (s *liveStreamService) Create(ctx context.Context, in *LiveStreamInput) (*views.LiveStream, error) {
	v, err := validateLiveStream(in, false)
	if err != nil {
		return nil, err
	}
	rec := &types.LiveStream{
		Title:       *v.Title,
		Description: deref(v.Description, ""),
		StreamLink:  *v.StreamLink,
		Status:      deref(v.Status, normalization.StreamUpcoming),
		Reactions:   deref(v.Reactions, 0),
		Comments:    deref(v.Comments, ""),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, rec); err != nil {
			return fmt.Errorf("create live stream: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, content.EntityLiveStream)
	out := views.NewLiveStream(rec)
	return &out, nil
}

func (s *liveStreamService) Update(ctx context.Context, id uuid.UUID, in *LiveStreamInput, partial bool) (*views.LiveStream, error) {
	v, err := validateLiveStream(in, partial)
	if err != nil {
		return nil, err
	}
	var out views.LiveStream
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		cols := map[string]any{}
		setText(cols, "title", v.Title)
		setText(cols, "description", v.Description)
		setText(cols, "stream_link", v.StreamLink)
		setText(cols, "status", v.Status)
		setText(cols, "comments", v.Comments)
		if v.Reactions != nil {
			cols["reactions"] = *v.Reactions
		}
		if err := s.repo.Update(dbc, id, cols); err != nil {
			return notFound(err, "live stream")
		}
		l, err := s.repo.GetByID(dbc, id)
		if err != nil {
			return notFound(err, "live stream")
		}
		out = views.NewLiveStream(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, content.EntityLiveStream)
	return &out, nil
}

func (s *liveStreamService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := deleteByID(ctx, s.db, "live stream", s.repo.Delete, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache, content.EntityLiveStream)
	return nil
}
