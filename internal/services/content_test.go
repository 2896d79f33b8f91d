package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/repos/testutil"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/domain/content"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/normalization"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/apierr"
)

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected api error, got %v", err)
	}
	if ae.Status != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d (%v)", ae.Status, err)
	}
	if len(ae.Fields[field]) == 0 {
		t.Fatalf("expected message for %q, got %v", field, ae.Fields)
	}
}

func TestSermonCreateAppliesDefaults(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	got, err := h.sermons.Create(ctx, &SermonInput{Title: strp("  Grace  ")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Title != "Grace" {
		t.Fatalf("title not trimmed: %q", got.Title)
	}
	if got.Preacher != content.DefaultPreacher || got.VideoLink != content.DefaultVideoLink {
		t.Fatalf("defaults not applied: %+v", got.SermonSummary)
	}
	if got.VideoID == nil || *got.VideoID != "sjkrrmBnpGE" {
		t.Fatalf("video id: %v", got.VideoID)
	}
	if got.Date.IsZero() {
		t.Fatalf("date should be server assigned")
	}
}

func TestSermonCreateRequiresTitle(t *testing.T) {
	h := newHarness(t)
	_, err := h.sermons.Create(context.Background(), &SermonInput{Preacher: strp("Someone")})
	requireFieldError(t, err, "title")
}

func TestSermonPatchKeepsDate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	date := time.Date(2023, 3, 5, 10, 0, 0, 0, time.UTC)
	sm := testutil.SeedSermon(t, ctx, h.db, "Hope", nil, nil, date)

	var in SermonInput
	if err := json.Unmarshal([]byte(`{"title":"Hope Renewed","date":"2030-01-01T00:00:00Z"}`), &in); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := h.sermons.Update(ctx, sm.ID, &in, true)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Hope Renewed" {
		t.Fatalf("title: %q", got.Title)
	}
	if !got.Date.Equal(date) {
		t.Fatalf("date changed: %v", got.Date)
	}
	if got.Preacher != sm.Preacher {
		t.Fatalf("partial update touched preacher: %q", got.Preacher)
	}
}

func TestSermonRejectsUnknownReferences(t *testing.T) {
	h := newHarness(t)
	var in SermonInput
	body := `{"title":"x","series":"` + uuid.NewString() + `","resource":"not-a-uuid"}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("decode: %v", err)
	}
	_, err := h.sermons.Create(context.Background(), &in)
	requireFieldError(t, err, "series")
	requireFieldError(t, err, "resource")
}

func TestSermonSiblingLinks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sr := testutil.SeedSeries(t, ctx, h.db, "Acts")
	base := time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC)
	first := testutil.SeedSermon(t, ctx, h.db, "one", &sr.ID, nil, base)
	second := testutil.SeedSermon(t, ctx, h.db, "two", &sr.ID, nil, base.Add(24*time.Hour))

	got, err := h.sermons.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PreviousSermon != nil {
		t.Fatalf("first sermon has no previous: %v", *got.PreviousSermon)
	}
	if got.NextSermon == nil || !strings.HasSuffix(*got.NextSermon, "/api/sermons/"+second.ID.String()+"/") {
		t.Fatalf("next link: %v", got.NextSermon)
	}
}

func TestResourceDeleteCascadesAndInvalidates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	res := testutil.SeedResource(t, ctx, h.db, "Workbook")
	sm := testutil.SeedSermon(t, ctx, h.db, "owned", nil, &res.ID, time.Now())

	if err := h.resources.Delete(ctx, res.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := h.sermons.Get(ctx, sm.ID); !apierr.IsNotFound(err) {
		t.Fatalf("sermon should be gone, got %v", err)
	}
	want := []string{content.EntityResource, content.EntitySeries, content.EntitySermon}
	got := h.cache.namespaces()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("invalidated: want=%v got=%v", want, got)
	}
	if err := h.resources.Delete(ctx, res.ID); !apierr.IsNotFound(err) {
		t.Fatalf("second delete should 404, got %v", err)
	}
}

func TestResourceRequiresPrice(t *testing.T) {
	h := newHarness(t)
	_, err := h.resources.Create(context.Background(), &ResourceInput{
		Name:         strp("Workbook"),
		PurchaseLink: strp("https://shop.example.com/workbook"),
	})
	requireFieldError(t, err, "price")

	price := normalization.Price(1250)
	got, err := h.resources.Create(context.Background(), &ResourceInput{
		Name:         strp("Workbook"),
		PurchaseLink: strp("https://shop.example.com/workbook"),
		Price:        &price,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Price.String() != "12.50" {
		t.Fatalf("price: %s", got.Price)
	}
}

func TestSeriesCreateRendersPlaceholderAndThoughts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	thought := testutil.SeedReflection(t, ctx, h.db, "a thought", nil, time.Now())

	got, err := h.series.Create(ctx, &SeriesInput{
		Title:    strp("Faith Walk"),
		Thoughts: &normalization.IDList{IDs: []uuid.UUID{thought.ID}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(got.Image, "/media/series_images/"+got.ID.String()+"/") {
		t.Fatalf("image url: %q", got.Image)
	}
	if len(got.Thoughts) != 1 || got.Thoughts[0].ID != thought.ID {
		t.Fatalf("thoughts: %+v", got.Thoughts)
	}
	if got.Sermons == nil {
		t.Fatalf("sermons should render as an empty list")
	}

	if err := h.series.Delete(ctx, got.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := h.series.Get(ctx, got.ID); !apierr.IsNotFound(err) {
		t.Fatalf("series should be gone, got %v", err)
	}
}

func TestSeriesRejectsMissingThought(t *testing.T) {
	h := newHarness(t)
	_, err := h.series.Create(context.Background(), &SeriesInput{
		Title:    strp("Faith Walk"),
		Thoughts: &normalization.IDList{IDs: []uuid.UUID{uuid.New()}},
	})
	requireFieldError(t, err, "thoughts")
}

func TestEventDerivesEndDateAndStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	got, err := h.events.Create(ctx, &EventInput{
		Name:      strp("Camp Meeting"),
		Date:      strp("2024-06-14"),
		Days:      intp(3),
		StartTime: strp("09:30"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.EndDate == nil || *got.EndDate != "2024-06-16" {
		t.Fatalf("end date: %v", got.EndDate)
	}
	if got.Status != normalization.EventOngoing {
		t.Fatalf("status: %q", got.Status)
	}

	cleared, err := h.events.Update(ctx, got.ID, &EventInput{Date: strp("")}, true)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if cleared.Date != nil || cleared.Status != normalization.EventUpcoming {
		t.Fatalf("cleared event: date=%v status=%q", cleared.Date, cleared.Status)
	}
}

func TestEventRejectsBadInput(t *testing.T) {
	h := newHarness(t)
	_, err := h.events.Create(context.Background(), &EventInput{
		Date: strp("14/06/2024"),
		Days: intp(0),
	})
	requireFieldError(t, err, "date")
	requireFieldError(t, err, "days")
}

func TestDevotionBackReferences(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	dev, err := h.devotions.Create(ctx, &DevotionInput{
		Title:      strp("Morning"),
		BibleVerse: &normalization.VerseInput{Reference: "Ps 23:1", VerseContent: "The Lord is my shepherd"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	older := testutil.SeedReflection(t, ctx, h.db, "older", &dev.ID, time.Now().Add(-time.Hour))
	newer := testutil.SeedReflection(t, ctx, h.db, "newer", &dev.ID, time.Now())

	got, err := h.devotions.Get(ctx, dev.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.BibleVerse.Reference != "Ps 23:1" {
		t.Fatalf("verse: %+v", got.BibleVerse)
	}
	if len(got.Reflections) != 2 || got.Reflections[0].ID != newer.ID || got.Reflections[1].ID != older.ID {
		t.Fatalf("back references out of order: %+v", got.Reflections)
	}

	list, err := h.reflections.ListByDevotion(ctx, dev.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListByDevotion: %v %d", err, len(list))
	}
	if _, err := h.reflections.ListByDevotion(ctx, uuid.New()); !apierr.IsNotFound(err) {
		t.Fatalf("missing devotion should 404, got %v", err)
	}
}

func TestReflectionWriteInvalidatesDependents(t *testing.T) {
	h := newHarness(t)
	if _, err := h.reflections.Create(context.Background(), &ReflectionInput{Content: strp("amen")}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got := strings.Join(h.cache.namespaces(), ",")
	if got != "devotions,reflections,series" {
		t.Fatalf("invalidated: %s", got)
	}
}

func TestPrayerRequestValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.prayers.Create(ctx, &PrayerRequestInput{Name: strp("  ")})
	requireFieldError(t, err, "name")
	requireFieldError(t, err, "subject")

	got, err := h.prayers.Create(ctx, &PrayerRequestInput{Name: strp("Ama"), Subject: strp("Healing")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Name != "Ama" {
		t.Fatalf("name: %q", got.Name)
	}
}

func TestLiveStreamStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.streams.Create(ctx, &LiveStreamInput{
		Title:      strp("Sunday"),
		StreamLink: strp("https://youtube.com/live/abc"),
		Status:     strp("paused"),
	})
	requireFieldError(t, err, "status")

	got, err := h.streams.Create(ctx, &LiveStreamInput{
		Title:      strp("Sunday"),
		StreamLink: strp("https://youtube.com/live/abc"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Status != "upcoming" {
		t.Fatalf("default status: %q", got.Status)
	}
}

func TestPageOutOfRange(t *testing.T) {
	h := newHarness(t)
	_, err := h.announce.List(context.Background(), ListParams{Page: 5})
	ae, ok := apierr.As(err)
	if !ok || ae.Code != apierr.CodeInvalidPage {
		t.Fatalf("expected invalid page, got %v", err)
	}
}
