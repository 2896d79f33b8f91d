package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/repos/testutil"
	types "github.com/GyasiAmosKwadwo/elevation-church/internal/domain"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/listing"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/pkg/dbctx"
)

func rules(t *testing.T, entity string) listing.Entity {
	t.Helper()
	cfg, err := listing.Default()
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	return cfg.For(entity)
}

func TestListBySeriesOrdersByDateThenID(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSermonRepo(db, testutil.Logger(t), rules(t, "sermons"))

	series := testutil.SeedSeries(t, ctx, db, "Faith")
	base := time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC)
	late := testutil.SeedSermon(t, ctx, db, "late", &series.ID, nil, base.Add(48*time.Hour))
	a := testutil.SeedSermon(t, ctx, db, "tie-a", &series.ID, nil, base)
	b := testutil.SeedSermon(t, ctx, db, "tie-b", &series.ID, nil, base)
	testutil.SeedSermon(t, ctx, db, "other", nil, nil, base)

	got, err := repo.ListBySeries(dbctx.New(ctx), series.ID)
	if err != nil {
		t.Fatalf("ListBySeries: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 sermons, got %d", len(got))
	}
	first, second := a, b
	if b.ID.String() < a.ID.String() {
		first, second = b, a
	}
	if got[0].ID != first.ID || got[1].ID != second.ID || got[2].ID != late.ID {
		t.Fatalf("unexpected order: %s %s %s", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestDeleteResourceCascade(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewResourceRepo(db, testutil.Logger(t), rules(t, "resources"))

	res := testutil.SeedResource(t, ctx, db, "Workbook")
	owned := testutil.SeedSermon(t, ctx, db, "owned", nil, &res.ID, time.Now())
	free := testutil.SeedSermon(t, ctx, db, "free", nil, nil, time.Now())

	deleted, err := repo.DeleteResourceCascade(dbctx.New(ctx), res.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteResourceCascade: deleted=%v err=%v", deleted, err)
	}
	var count int64
	db.Model(&types.Sermon{}).Where("id = ?", owned.ID).Count(&count)
	if count != 0 {
		t.Fatalf("owned sermon should be gone")
	}
	db.Model(&types.Sermon{}).Where("id = ?", free.ID).Count(&count)
	if count != 1 {
		t.Fatalf("unrelated sermon should survive")
	}
	if deleted, _ := repo.DeleteResourceCascade(dbctx.New(ctx), res.ID); deleted {
		t.Fatalf("second delete should report nothing deleted")
	}
}

func TestDeleteSeriesCascadeAndThoughts(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSeriesRepo(db, testutil.Logger(t), rules(t, "series"))
	dbc := dbctx.New(ctx)

	series := testutil.SeedSeries(t, ctx, db, "Hope")
	r1 := testutil.SeedReflection(t, ctx, db, "one", nil, time.Now())
	r2 := testutil.SeedReflection(t, ctx, db, "two", nil, time.Now().Add(time.Minute))
	testutil.SeedSermon(t, ctx, db, "in series", &series.ID, nil, time.Now())

	if err := repo.ReplaceThoughts(dbc, series.ID, []uuid.UUID{r1.ID, r2.ID, r1.ID}); err != nil {
		t.Fatalf("ReplaceThoughts: %v", err)
	}
	thoughts, err := repo.Thoughts(dbc, series.ID)
	if err != nil || len(thoughts[series.ID]) != 2 {
		t.Fatalf("Thoughts: len=%d err=%v", len(thoughts[series.ID]), err)
	}
	if err := repo.ReplaceThoughts(dbc, series.ID, []uuid.UUID{r2.ID}); err != nil {
		t.Fatalf("ReplaceThoughts: %v", err)
	}
	thoughts, _ = repo.Thoughts(dbc, series.ID)
	if len(thoughts[series.ID]) != 1 || thoughts[series.ID][0].ID != r2.ID {
		t.Fatalf("replace-set should leave only r2: %+v", thoughts)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := repo.DeleteSeriesCascade(dbc.WithTx(tx), series.ID)
		return err
	})
	if err != nil {
		t.Fatalf("DeleteSeriesCascade: %v", err)
	}
	var sermons, links, reflections int64
	db.Model(&types.Sermon{}).Where("series_id = ?", series.ID).Count(&sermons)
	db.Model(&types.SeriesThought{}).Where("series_id = ?", series.ID).Count(&links)
	db.Model(&types.Reflection{}).Count(&reflections)
	if sermons != 0 || links != 0 || reflections != 2 {
		t.Fatalf("sermons=%d links=%d reflections=%d", sermons, links, reflections)
	}
}

func TestDevotionDeleteDetachesReflections(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	devotions := NewDevotionRepo(db, testutil.Logger(t), rules(t, "devotions"))
	reflections := NewReflectionRepo(db, testutil.Logger(t), rules(t, "reflections"))
	dbc := dbctx.New(ctx)

	d := testutil.SeedDevotion(t, ctx, db, "Morning")
	older := testutil.SeedReflection(t, ctx, db, "older", &d.ID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := testutil.SeedReflection(t, ctx, db, "newer", &d.ID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	if err := devotions.ReplaceReflections(dbc, d.ID, []uuid.UUID{older.ID}); err != nil {
		t.Fatalf("ReplaceReflections: %v", err)
	}

	loaded, err := devotions.GetByID(dbc, d.ID)
	if err != nil || len(loaded.Reflection) != 1 {
		t.Fatalf("GetByID: %+v err=%v", loaded, err)
	}
	back, err := reflections.ListByDevotion(dbc, d.ID)
	if err != nil || len(back) != 2 || back[0].ID != newer.ID {
		t.Fatalf("ListByDevotion should be newest first: %+v err=%v", back, err)
	}

	if ok, err := devotions.Delete(dbc, d.ID); err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	got, err := reflections.GetByID(dbc, older.ID)
	if err != nil {
		t.Fatalf("reflection should survive: %v", err)
	}
	if got.DevotionID != nil {
		t.Fatalf("back-reference should be cleared")
	}
	if _, err := devotions.GetByID(dbc, d.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReflectionDeleteUnlinks(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	series := NewSeriesRepo(db, testutil.Logger(t), rules(t, "series"))
	reflections := NewReflectionRepo(db, testutil.Logger(t), rules(t, "reflections"))
	dbc := dbctx.New(ctx)

	s := testutil.SeedSeries(t, ctx, db, "Grace")
	r := testutil.SeedReflection(t, ctx, db, "thought", nil, time.Now())
	if err := series.ReplaceThoughts(dbc, s.ID, []uuid.UUID{r.ID}); err != nil {
		t.Fatalf("ReplaceThoughts: %v", err)
	}
	if ok, err := reflections.Delete(dbc, r.ID); err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	thoughts, _ := series.Thoughts(dbc, s.ID)
	if len(thoughts[s.ID]) != 0 {
		t.Fatalf("expected no thoughts left")
	}
	ids, err := reflections.ExistingIDs(dbc, []uuid.UUID{r.ID, uuid.New()})
	if err != nil || len(ids) != 0 {
		t.Fatalf("ExistingIDs: %v err=%v", ids, err)
	}
}

func TestListSearchFilterPaginate(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSermonRepo(db, testutil.Logger(t), listing.Entity{
		PageSize:       2,
		Ordering:       []string{"-date"},
		OrderingFields: []string{"title", "date"},
		Search:         []string{"title", "series.title"},
		Filters:        map[string]string{"series__title": "series.title", "series": "series_id"},
		Joins:          []string{"LEFT JOIN series ON series.id = sermon.series_id"},
	})
	dbc := dbctx.New(ctx)

	faith := testutil.SeedSeries(t, ctx, db, "Faith Walk")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	testutil.SeedSermon(t, ctx, db, "Alpha", &faith.ID, nil, base)
	testutil.SeedSermon(t, ctx, db, "Bravo", &faith.ID, nil, base.Add(time.Hour))
	testutil.SeedSermon(t, ctx, db, "Charlie", nil, nil, base.Add(2*time.Hour))

	page, err := repo.List(dbc, ListQuery{Page: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Count != 3 || len(page.Items) != 2 || !page.HasNext() || page.HasPrevious() {
		t.Fatalf("unexpected first page: count=%d items=%d", page.Count, len(page.Items))
	}
	if page.Items[0].Title != "Charlie" {
		t.Fatalf("default ordering should be newest first, got %s", page.Items[0].Title)
	}

	page, err = repo.List(dbc, ListQuery{Page: 2})
	if err != nil || len(page.Items) != 1 || page.HasNext() {
		t.Fatalf("second page: %+v err=%v", page, err)
	}
	if _, err := repo.List(dbc, ListQuery{Page: 3}); !errors.Is(err, ErrInvalidPage) {
		t.Fatalf("expected ErrInvalidPage, got %v", err)
	}

	page, err = repo.List(dbc, ListQuery{Search: "faith", Ordering: "title"})
	if err != nil || page.Count != 2 || page.Items[0].Title != "Alpha" {
		t.Fatalf("search by series title: %+v err=%v", page, err)
	}

	page, err = repo.List(dbc, ListQuery{Filters: map[string]string{"series__title": "Faith Walk"}, Ordering: "-title,bogus"})
	if err != nil || page.Count != 2 || page.Items[0].Title != "Bravo" {
		t.Fatalf("filter by series title: %+v err=%v", page, err)
	}

	page, err = repo.List(dbc, ListQuery{Filters: map[string]string{"series": "not-a-uuid"}})
	if err != nil || page.Count != 0 {
		t.Fatalf("malformed id filter should match nothing: %+v err=%v", page, err)
	}
}

func TestListSearchTreatsWildcardsLiterally(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSermonRepo(db, testutil.Logger(t), listing.Entity{
		PageSize: 10,
		Ordering: []string{"-date"},
		Search:   []string{"title"},
	})
	dbc := dbctx.New(ctx)

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	testutil.SeedSermon(t, ctx, db, "Alpha", nil, nil, base)
	testutil.SeedSermon(t, ctx, db, "Bravo", nil, nil, base.Add(time.Hour))
	testutil.SeedSermon(t, ctx, db, "100% Grace", nil, nil, base.Add(2*time.Hour))
	testutil.SeedSermon(t, ctx, db, `A_B\C`, nil, nil, base.Add(3*time.Hour))

	cases := map[string]int64{
		"%":    1,
		"_":    1,
		`\`:    1,
		"100%": 1,
		"a_b":  1,
		"zz%":  0,
	}
	for search, want := range cases {
		page, err := repo.List(dbc, ListQuery{Search: search})
		if err != nil {
			t.Fatalf("List(%q): %v", search, err)
		}
		if page.Count != want {
			t.Fatalf("search %q: want=%d got=%d", search, want, page.Count)
		}
	}
}

func TestUpdateWritesOnlyGivenColumns(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSermonRepo(db, testutil.Logger(t), rules(t, "sermons"))
	dbc := dbctx.New(ctx)

	date := time.Date(2023, 12, 24, 9, 0, 0, 0, time.UTC)
	s := testutil.SeedSermon(t, ctx, db, "Advent", nil, nil, date)
	if err := repo.Update(dbc, s.ID, map[string]any{"title": "Advent II"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(dbc, s.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Advent II" || !got.Date.Equal(date) || got.Preacher != s.Preacher {
		t.Fatalf("unexpected row: %+v", got)
	}
	if err := repo.Update(dbc, uuid.New(), map[string]any{"title": "x"}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
