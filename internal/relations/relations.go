// Package relations orders child collections and finds siblings within them.
// Everything here is a pure function over records that are already loaded.
package relations

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/GyasiAmosKwadwo/elevation-church/internal/domain"
)

// OrderSermons sorts by date ascending. Equal dates fall back to the id's string
// form so the order is stable across queries.
func OrderSermons(sermons []*types.Sermon) []*types.Sermon {
	out := make([]*types.Sermon, 0, len(sermons))
	for _, s := range sermons {
		if s != nil {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return before(out[i].Date, out[i].ID, out[j].Date, out[j].ID)
	})
	return out
}

func before(ti time.Time, idi uuid.UUID, tj time.Time, idj uuid.UUID) bool {
	if !ti.Equal(tj) {
		return ti.Before(tj)
	}
	return idi.String() < idj.String()
}

// Siblings returns the ids immediately before and after id in ordered.
// Either is nil at the ends of the list or when id is not in it.
func Siblings(ordered []*types.Sermon, id uuid.UUID) (prev, next *uuid.UUID) {
	for i, s := range ordered {
		if s.ID != id {
			continue
		}
		if i > 0 {
			p := ordered[i-1].ID
			prev = &p
		}
		if i+1 < len(ordered) {
			n := ordered[i+1].ID
			next = &n
		}
		return prev, next
	}
	return nil, nil
}

// DevotionReflections keeps the reflections whose back-reference points at
// devotionID, newest first.
func DevotionReflections(all []*types.Reflection, devotionID uuid.UUID) []*types.Reflection {
	out := make([]*types.Reflection, 0, len(all))
	for _, r := range all {
		if r != nil && r.DevotionID != nil && *r.DevotionID == devotionID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Linker renders sermon locators against a public base URL.
type Linker struct {
	base string
}

func NewLinker(base string) Linker {
	return Linker{base: strings.TrimRight(base, "/")}
}

// Sermon returns {base}/api/sermons/{id}/, or nil for a nil id.
func (l Linker) Sermon(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := l.base + "/api/sermons/" + id.String() + "/"
	return &s
}
