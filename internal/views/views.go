// Package views shapes stored records into wire representations. Nested records
// are embedded one level deep and never re-embed their parent.
package views

import (
	"time"

	"github.com/google/uuid"

	types "github.com/GyasiAmosKwadwo/elevation-church/internal/domain"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/normalization"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/relations"
)

type Resource struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	PurchaseLink string              `json:"purchase_link"`
	Price        normalization.Price `json:"price"`
}

func NewResource(r *types.Resource) *Resource {
	if r == nil {
		return nil
	}
	return &Resource{ID: r.ID, Name: r.Name, PurchaseLink: r.PurchaseLink, Price: r.Price}
}

// SermonSummary is a sermon as embedded in its series: no nested objects.
type SermonSummary struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Preacher    string     `json:"preacher"`
	VideoLink   string     `json:"video_link"`
	VideoID     *string    `json:"video_id"`
	PodcastLink string     `json:"podcast_link"`
	Likes       int        `json:"likes"`
	Comments    string     `json:"comments"`
	Series      *uuid.UUID `json:"series"`
	Date        time.Time  `json:"date"`
}

type Sermon struct {
	SermonSummary
	Resource       *Resource `json:"resource"`
	NextSermon     *string   `json:"next_sermon"`
	PreviousSermon *string   `json:"previous_sermon"`
}

func NewSermonSummary(s *types.Sermon) SermonSummary {
	return SermonSummary{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Preacher:    s.Preacher,
		VideoLink:   s.VideoLink,
		VideoID:     normalization.YouTubeID(s.VideoLink),
		PodcastLink: s.PodcastLink,
		Likes:       s.Likes,
		Comments:    s.Comments,
		Series:      s.SeriesID,
		Date:        s.Date,
	}
}

// NewSermon assembles a sermon. siblings is the sermon's series in order, or nil
// when it has no series.
func NewSermon(s *types.Sermon, siblings []*types.Sermon, links relations.Linker) Sermon {
	prev, next := relations.Siblings(siblings, s.ID)
	return Sermon{
		SermonSummary:  NewSermonSummary(s),
		Resource:       NewResource(s.Resource),
		NextSermon:     links.Sermon(next),
		PreviousSermon: links.Sermon(prev),
	}
}

type Reflection struct {
	ID        uuid.UUID  `json:"id"`
	Author    string     `json:"author"`
	Content   string     `json:"content"`
	Likes     int        `json:"likes"`
	Comments  string     `json:"comments"`
	Devotion  *uuid.UUID `json:"devotion"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewReflection(r *types.Reflection) Reflection {
	return Reflection{
		ID:        r.ID,
		Author:    r.Author,
		Content:   r.Content,
		Likes:     r.Likes,
		Comments:  r.Comments,
		Devotion:  r.DevotionID,
		CreatedAt: r.CreatedAt,
	}
}

func NewReflections[T *types.Reflection | types.Reflection](in []T) []Reflection {
	out := make([]Reflection, 0, len(in))
	for _, r := range in {
		switch v := any(r).(type) {
		case *types.Reflection:
			if v != nil {
				out = append(out, NewReflection(v))
			}
		case types.Reflection:
			out = append(out, NewReflection(&v))
		}
	}
	return out
}

type Series struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Likes       int             `json:"likes"`
	Date        time.Time       `json:"date"`
	Sermons     []SermonSummary `json:"sermons"`
	Thoughts    []Reflection    `json:"thoughts"`
}

// NewSeries embeds sermons in series order and the linked thoughts. image is the
// resolved public URL.
func NewSeries(s *types.Series, image string, sermons []*types.Sermon, thoughts []*types.Reflection) Series {
	ordered := relations.OrderSermons(sermons)
	summaries := make([]SermonSummary, 0, len(ordered))
	for _, sm := range ordered {
		summaries = append(summaries, NewSermonSummary(sm))
	}
	return Series{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Image:       image,
		Likes:       s.Likes,
		Date:        s.Date,
		Sermons:     summaries,
		Thoughts:    NewReflections(thoughts),
	}
}

type Event struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Flyer       string    `json:"flyer"`
	Location    string    `json:"location"`
	Date        *string   `json:"date"`
	EndDate     *string   `json:"end_date"`
	Days        int       `json:"days"`
	StartTime   *string   `json:"start_time"`
	EndTime     *string   `json:"end_time"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEvent derives end_date and status; today is injected so callers control the clock.
func NewEvent(e *types.Event, flyer string, today time.Time) Event {
	days := e.Days
	end := normalization.EndDate(e.Date, &days)
	return Event{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Flyer:       flyer,
		Location:    e.Location,
		Date:        normalization.FormatDate(e.Date),
		EndDate:     normalization.FormatDate(end),
		Days:        e.Days,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Status:      normalization.EventStatus(e.Date, end, today),
		CreatedAt:   e.CreatedAt,
	}
}

type Devotion struct {
	ID          uuid.UUID                `json:"id"`
	Title       string                   `json:"title"`
	BibleVerse  normalization.BibleVerse `json:"bible_verse"`
	Content     string                   `json:"content"`
	Thumbnail   string                   `json:"thumbnail"`
	Reflection  []Reflection             `json:"reflection"`
	Reflections []Reflection             `json:"reflections"`
	CreatedAt   time.Time                `json:"created_at"`
}

// NewDevotion embeds the linked reflection set and the reflections that point
// back at the devotion, newest first.
func NewDevotion(d *types.Devotion, thumbnail string, backRefs []*types.Reflection) Devotion {
	return Devotion{
		ID:          d.ID,
		Title:       d.Title,
		BibleVerse:  normalization.ReadVerse(d.BibleVerse),
		Content:     d.Content,
		Thumbnail:   thumbnail,
		Reflection:  NewReflections(d.Reflection),
		Reflections: NewReflections(relations.DevotionReflections(backRefs, d.ID)),
		CreatedAt:   d.CreatedAt,
	}
}

type PrayerRequest struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPrayerRequest(p *types.PrayerRequest) PrayerRequest {
	return PrayerRequest{ID: p.ID, Name: p.Name, Subject: p.Subject, CreatedAt: p.CreatedAt}
}

type Announcement struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAnnouncement(a *types.Announcement) Announcement {
	return Announcement{ID: a.ID, Title: a.Title, Content: a.Content, CreatedAt: a.CreatedAt}
}

type LiveStream struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StreamLink  string    `json:"stream_link"`
	Status      string    `json:"status"`
	Reactions   int       `json:"reactions"`
	Comments    string    `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewLiveStream(l *types.LiveStream) LiveStream {
	return LiveStream{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		StreamLink:  l.StreamLink,
		Status:      l.Status,
		Reactions:   l.Reactions,
		Comments:    l.Comments,
		CreatedAt:   l.CreatedAt,
	}
}

// Staff never carries the password hash.
type Staff struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	DateJoined  time.Time `json:"date_joined"`
}

func NewStaff(u *types.User) Staff {
	return Staff{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		DateJoined:  u.DateJoined,
	}
}
