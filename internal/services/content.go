package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/repos"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/repos/content"
	domain "github.com/GyasiAmosKwadwo/elevation-church/internal/domain/content"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/normalization"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/apierr"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/cache"
)

// ListParams is the parsed query string of a collection request.
type ListParams struct {
	Page     int
	Search   string
	Ordering string
	Filters  map[string]string
}

func (p ListParams) query() repos.ListQuery {
	return repos.ListQuery{Page: p.Page, Search: p.Search, Ordering: p.Ordering, Filters: p.Filters}
}

// Page is one page of rendered results.
type Page[V any] struct {
	Items       []V
	Count       int64
	Page        int
	PageSize    int
	HasNext     bool
	HasPrevious bool
}

func newPage[T any, V any](p *content.Page[T], items []V) *Page[V] {
	if items == nil {
		items = []V{}
	}
	return &Page[V]{
		Items:       items,
		Count:       p.Count,
		Page:        p.Page,
		PageSize:    p.PageSize,
		HasNext:     p.HasNext(),
		HasPrevious: p.HasPrevious(),
	}
}

// invalidates lists the cache namespaces whose rendered output embeds an
// entity, the entity itself included.
var invalidates = map[string][]string{
	domain.EntitySermon:        {domain.EntitySermon, domain.EntitySeries},
	domain.EntityResource:      {domain.EntityResource, domain.EntitySermon, domain.EntitySeries},
	domain.EntitySeries:        {domain.EntitySeries, domain.EntitySermon},
	domain.EntityReflection:    {domain.EntityReflection, domain.EntityDevotion, domain.EntitySeries},
	domain.EntityDevotion:      {domain.EntityDevotion, domain.EntityReflection},
	domain.EntityEvent:         {domain.EntityEvent},
	domain.EntityPrayerRequest: {domain.EntityPrayerRequest},
	domain.EntityAnnouncement:  {domain.EntityAnnouncement},
	domain.EntityLiveStream:    {domain.EntityLiveStream},
}

func invalidate(ctx context.Context, c cache.Cache, entity string) {
	if c == nil {
		return
	}
	c.Invalidate(ctx, invalidates[entity]...)
}

// Clock returns "today" for derived date fields.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now() }

// fieldErrs collects per-field validation messages.
type fieldErrs map[string][]string

func (f fieldErrs) add(err error) {
	if err == nil {
		return
	}
	var fe *normalization.FieldError
	if errors.As(err, &fe) {
		f[fe.Field] = append(f[fe.Field], fe.Message())
		return
	}
	f["non_field_errors"] = append(f["non_field_errors"], err.Error())
}

func (f fieldErrs) set(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f fieldErrs) err() error {
	if len(f) == 0 {
		return nil
	}
	return apierr.ValidationFields(f)
}

const (
	msgRequired = "this field is required"
	msgBlank    = "this field may not be blank"
)

// text normalizes an optional string field. On create (partial == false) a
// required field must be present and non-blank.
func (f fieldErrs) text(field string, in *string, maxLen int, required, partial bool) *string {
	if in == nil {
		if required && !partial {
			f.set(field, msgRequired)
		}
		return nil
	}
	var (
		out string
		err error
	)
	if required {
		out, err = normalization.RequiredText(field, *in, maxLen)
	} else {
		out, err = normalization.Text(field, *in, maxLen)
	}
	if err != nil {
		f.add(err)
		return nil
	}
	return &out
}

func (f fieldErrs) link(field string, in *string, maxLen int, required, partial bool) *string {
	out := f.text(field, in, maxLen, required, partial)
	if out == nil || *out == "" {
		return out
	}
	v, err := normalization.Link(field, *out, maxLen)
	if err != nil {
		f.add(err)
		return nil
	}
	return &v
}

func (f fieldErrs) count(field string, in *int) *int {
	if in == nil {
		return nil
	}
	if *in < 0 {
		f.set(field, "ensure this value is greater than or equal to 0")
		return nil
	}
	return in
}

// ref records a missing referenced row as a field error. Other lookup
// failures are returned.
func (f fieldErrs) ref(field string, id *uuid.UUID, lookup func(uuid.UUID) error) error {
	if id == nil {
		return nil
	}
	err := lookup(*id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		f.set(field, missingRef(*id))
		return nil
	}
	return err
}

// refs checks a set of ids against the ids that exist.
func (f fieldErrs) refs(field string, want []uuid.UUID, existing []uuid.UUID) {
	have := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		have[id] = true
	}
	for _, id := range want {
		if !have[id] {
			f.set(field, missingRef(id))
		}
	}
}

func missingRef(id uuid.UUID) string {
	return fmt.Sprintf(`invalid pk "%s" - object does not exist`, id)
}

// notFound maps a missing row to a 404 and wraps anything else.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(what)
	}
	return err
}

func listErr(err error) error {
	if errors.Is(err, content.ErrInvalidPage) {
		return apierr.InvalidPage()
	}
	return err
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
