package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/repos"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/repos/testutil"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/listing"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/media"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/relations"
)

// recordingCache captures invalidated namespaces.
type recordingCache struct {
	mu          sync.Mutex
	invalidated map[string]int
}

func (c *recordingCache) Get(context.Context, string, string) ([]byte, bool) { return nil, false }
func (c *recordingCache) Set(context.Context, string, string, []byte)        {}
func (c *recordingCache) Enabled() bool                                      { return true }
func (c *recordingCache) Ping(context.Context) error                         { return nil }
func (c *recordingCache) Close() error                                       { return nil }

func (c *recordingCache) Invalidate(_ context.Context, namespaces ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.invalidated == nil {
		c.invalidated = map[string]int{}
	}
	for _, ns := range namespaces {
		c.invalidated[ns]++
	}
}

func (c *recordingCache) namespaces() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.invalidated))
	for ns := range c.invalidated {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

type harness struct {
	db    *gorm.DB
	log   *logger.Logger
	store media.Store
	cache *recordingCache
	today time.Time

	art         ArtworkService
	sermons     SermonService
	resources   ResourceService
	series      SeriesService
	events      EventService
	devotions   DevotionService
	reflections ReflectionService
	prayers     PrayerRequestService
	announce    AnnouncementService
	streams     LiveStreamService
	staff       StaffService
	auth        AuthService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	cfg, err := listing.Default()
	if err != nil {
		t.Fatalf("listing.Default: %v", err)
	}
	store, err := media.NewLocalStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	art, err := NewArtworkService(log, store, "")
	if err != nil {
		t.Fatalf("NewArtworkService: %v", err)
	}
	h := &harness{
		db:    db,
		log:   log,
		store: store,
		cache: &recordingCache{},
		today: time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC),
		art:   art,
	}
	clock := func() time.Time { return h.today }

	sermonRepo := repos.NewSermonRepo(db, log, cfg)
	resourceRepo := repos.NewResourceRepo(db, log, cfg)
	seriesRepo := repos.NewSeriesRepo(db, log, cfg)
	reflectionRepo := repos.NewReflectionRepo(db, log, cfg)
	devotionRepo := repos.NewDevotionRepo(db, log, cfg)
	userRepo := repos.NewUserRepo(db, log)

	h.sermons = NewSermonService(db, log, sermonRepo, resourceRepo, seriesRepo, h.cache, relations.NewLinker("http://testserver"))
	h.resources = NewResourceService(db, log, resourceRepo, h.cache)
	h.series = NewSeriesService(db, log, seriesRepo, sermonRepo, reflectionRepo, art, h.cache)
	h.events = NewEventService(db, log, repos.NewEventRepo(db, log, cfg), art, h.cache, clock)
	h.devotions = NewDevotionService(db, log, devotionRepo, reflectionRepo, art, h.cache)
	h.reflections = NewReflectionService(db, log, reflectionRepo, devotionRepo, h.cache)
	h.prayers = NewPrayerRequestService(db, log, repos.NewPrayerRequestRepo(db, log, cfg), h.cache)
	h.announce = NewAnnouncementService(db, log, repos.NewAnnouncementRepo(db, log, cfg), h.cache)
	h.streams = NewLiveStreamService(db, log, repos.NewLiveStreamRepo(db, log, cfg), h.cache)
	h.staff = NewStaffService(db, log, userRepo)
	h.auth = NewAuthService(db, log, userRepo, repos.NewUserTokenRepo(db, log), "test-secret", 15*time.Minute, 24*time.Hour)
	return h
}

func newHarnessLogger(t *testing.T) *logger.Logger { return testutil.Logger(t) }

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }
