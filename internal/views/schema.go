package views

import "github.com/GyasiAmosKwadwo/elevation-church/internal/domain/content"

// Schema partitions an entity's visible fields. Writes bind only Writable;
// anything else a client sends is dropped without error.
type Schema struct {
	Writable []string
	ReadOnly []string
}

func (s Schema) Fields() []string {
	out := make([]string, 0, len(s.Writable)+len(s.ReadOnly))
	out = append(out, s.Writable...)
	return append(out, s.ReadOnly...)
}

func (s Schema) IsWritable(field string) bool {
	for _, f := range s.Writable {
		if f == field {
			return true
		}
	}
	return false
}

var Schemas = map[string]Schema{
	content.EntitySermon: {
		Writable: []string{"title", "description", "preacher", "video_link", "podcast_link", "series", "resource", "likes", "comments"},
		ReadOnly: []string{"id", "date", "video_id", "next_sermon", "previous_sermon"},
	},
	content.EntityResource: {
		Writable: []string{"name", "purchase_link", "price"},
		ReadOnly: []string{"id"},
	},
	content.EntitySeries: {
		Writable: []string{"title", "description", "image", "likes", "thoughts"},
		ReadOnly: []string{"id", "date", "sermons"},
	},
	content.EntityEvent: {
		Writable: []string{"name", "description", "flyer", "location", "date", "days", "start_time", "end_time"},
		ReadOnly: []string{"id", "end_date", "status", "created_at"},
	},
	content.EntityDevotion: {
		Writable: []string{"title", "bible_verse", "content", "thumbnail", "reflection"},
		ReadOnly: []string{"id", "reflections", "created_at"},
	},
	content.EntityReflection: {
		Writable: []string{"author", "content", "likes", "comments", "devotion"},
		ReadOnly: []string{"id", "created_at"},
	},
	content.EntityPrayerRequest: {
		Writable: []string{"name", "subject"},
		ReadOnly: []string{"id", "created_at"},
	},
	content.EntityAnnouncement: {
		Writable: []string{"title", "content"},
		ReadOnly: []string{"id", "created_at"},
	},
	content.EntityLiveStream: {
		Writable: []string{"title", "description", "stream_link", "status", "reactions", "comments"},
		ReadOnly: []string{"id", "created_at"},
	},
	content.EntityStaff: {
		Writable: []string{"username", "email", "password", "is_superuser"},
		ReadOnly: []string{"id", "is_staff", "date_joined"},
	},
}
