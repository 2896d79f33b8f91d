package services

import (
	"context"
	"fmt"
	"time"

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

// EventInput carries the writable event fields. Date and times accept an
// empty value to clear them.
type EventInput struct {
	Name        *string `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
	Location    *string `json:"location" form:"location"`
	Date        *string `json:"date" form:"date"`
	Days        *int    `json:"days" form:"days"`
	StartTime   *string `json:"start_time" form:"start_time"`
	EndTime     *string `json:"end_time" form:"end_time"`
	Flyer       *Upload `json:"-" form:"-"`
	flyer       *Image
	date        *normalization.Date
	startTime   *normalization.TimeOfDay
	endTime     *normalization.TimeOfDay
}

type EventService interface {
	List(ctx context.Context, params ListParams) (*Page[views.Event], error)
	Get(ctx context.Context, id uuid.UUID) (*views.Event, error)
	Create(ctx context.Context, in *EventInput) (*views.Event, error)
	Update(ctx context.Context, id uuid.UUID, in *EventInput, partial bool) (*views.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventService struct {
	db        *gorm.DB
	log       *logger.Logger
	eventRepo repos.EventRepo
	artwork   ArtworkService
	cache     cache.Cache
	now       Clock
}

func NewEventService(db *gorm.DB, baseLog *logger.Logger, eventRepo repos.EventRepo, artwork ArtworkService, c cache.Cache, now Clock) EventService {
	if now == nil {
		now = SystemClock
	}
	return &eventService{
		db:        db,
		log:       baseLog.With("service", "EventService"),
		eventRepo: eventRepo,
		artwork:   artwork,
		cache:     c,
		now:       now,
	}
}

func (s *eventService) view(e *types.Event) views.Event {
	return views.NewEvent(e, s.artwork.URL(e.Flyer), s.now())
}

func (s *eventService) List(ctx context.Context, params ListParams) (*Page[views.Event], error) {
	page, err := s.eventRepo.List(dbctx.New(ctx), params.query())
	if err != nil {
		return nil, listErr(err)
	}
	items := make([]views.Event, 0, len(page.Items))
	for _, e := range page.Items {
		items = append(items, s.view(e))
	}
	return newPage(page, items), nil
}

func (s *eventService) Get(ctx context.Context, id uuid.UUID) (*views.Event, error) {
	e, err := s.eventRepo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, notFound(err, "event")
	}
	out := s.view(e)
	return &out, nil
}

func (s *eventService) validate(in *EventInput, partial bool) (*EventInput, error) {
	errs := fieldErrs{}
	out := &EventInput{
		Name:        errs.text("name", in.Name, 200, false, partial),
		Description: errs.text("description", in.Description, 0, false, partial),
		Location:    errs.text("location", in.Location, 200, false, partial),
		Days:        in.Days,
	}
	if in.Days != nil {
		if _, err := normalization.Days("days", *in.Days); err != nil {
			errs.add(err)
		}
	}
	if in.Date != nil {
		out.Date = in.Date
		out.date = &normalization.Date{}
		if *in.Date != "" {
			d, err := normalization.ParseDate("date", *in.Date)
			errs.add(err)
			out.date = &d
		}
	}
	out.StartTime, out.startTime = parseTime(errs, "start_time", in.StartTime)
	out.EndTime, out.endTime = parseTime(errs, "end_time", in.EndTime)
	if in.Flyer != nil {
		img, err := s.artwork.Process("flyer", in.Flyer)
		errs.add(err)
		out.flyer = img
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseTime(errs fieldErrs, field string, in *string) (*string, *normalization.TimeOfDay) {
	if in == nil {
		return nil, nil
	}
	if *in == "" {
		empty := normalization.TimeOfDay("")
		return in, &empty
	}
	t, err := normalization.ParseTimeOfDay(field, *in)
	if err != nil {
		errs.add(err)
		return nil, nil
	}
	return in, &t
}

func timeColumn(t *normalization.TimeOfDay) *string {
	if t == nil || *t == "" {
		return nil
	}
	s := string(*t)
	return &s
}

func (s *eventService) Create(ctx context.Context, in *EventInput) (*views.Event, error) {
	v, err := s.validate(in, false)
	if err != nil {
		return nil, err
	}
	rec := &types.Event{
		ID:          uuid.New(),
		Name:        orDefault(v.Name, content.DefaultEventName),
		Description: deref(v.Description, ""),
		Location:    deref(v.Location, ""),
		Days:        deref(v.Days, 1),
		StartTime:   timeColumn(v.startTime),
		EndTime:     timeColumn(v.endTime),
	}
	if v.date != nil {
		rec.Date = v.date.Ptr()
	}
	rec.Flyer, err = s.artwork.Save(ctx, media.CategoryEventFlyer, rec.ID, rec.Name, v.flyer)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.eventRepo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, rec); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		return nil
	})
	if err != nil {
		s.artwork.Remove(ctx, rec.Flyer)
		return nil, err
	}
	invalidate(ctx, s.cache, content.EntityEvent)
	out := s.view(rec)
	return &out, nil
}

func (s *eventService) Update(ctx context.Context, id uuid.UUID, in *EventInput, partial bool) (*views.Event, error) {
	v, err := s.validate(in, partial)
	if err != nil {
		return nil, err
	}
	var (
		out            *views.Event
		newKey, oldKey string
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := s.eventRepo.GetByID(dbc, id)
		if err != nil {
			return notFound(err, "event")
		}
		cols := map[string]any{}
		if v.Name != nil {
			cols["name"] = orDefault(v.Name, content.DefaultEventName)
		}
		setText(cols, "description", v.Description)
		setText(cols, "location", v.Location)
		if v.Days != nil {
			cols["days"] = *v.Days
		}
		if v.date != nil {
			var d *time.Time
			if !v.date.IsZero() {
				d = v.date.Ptr()
			}
			cols["date"] = d
		}
		if v.startTime != nil {
			cols["start_time"] = timeColumn(v.startTime)
		}
		if v.endTime != nil {
			cols["end_time"] = timeColumn(v.endTime)
		}
		if v.flyer != nil {
			newKey, err = s.artwork.Save(ctx, media.CategoryEventFlyer, id, current.Name, v.flyer)
			if err != nil {
				return err
			}
			oldKey = current.Flyer
			cols["flyer"] = newKey
		}
		if err := s.eventRepo.Update(dbc, id, cols); err != nil {
			return notFound(err, "event")
		}
		e, err := s.eventRepo.GetByID(dbc, id)
		if err != nil {
			return notFound(err, "event")
		}
		view := s.view(e)
		out = &view
		return nil
	})
	if err != nil {
		s.artwork.Remove(ctx, newKey)
		return nil, err
	}
	s.artwork.Remove(ctx, oldKey)
	invalidate(ctx, s.cache, content.EntityEvent)
	return out, nil
}

func (s *eventService) Delete(ctx context.Context, id uuid.UUID) error {
	var flyer string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := s.eventRepo.GetByID(dbc, id)
		if err != nil {
			return notFound(err, "event")
		}
		flyer = current.Flyer
		_, err = s.eventRepo.Delete(dbc, id)
		return err
	})
	if err != nil {
		return err
	}
	s.artwork.Remove(ctx, flyer)
	invalidate(ctx, s.cache, content.EntityEvent)
	return nil
}
