package listing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCoversEveryCollection(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	for _, name := range []string{"sermons", "resources", "series", "events", "devotions", "reflections", "prayer-requests", "announcements", "live-streams"} {
		e, ok := cfg.Entities[name]
		if !ok {
			t.Fatalf("missing listing for %s", name)
		}
		if e.PageSize != 10 {
			t.Fatalf("%s page size = %d", name, e.PageSize)
		}
	}
	if got := cfg.For("sermons").Filters["series__title"]; got != "series.title" {
		t.Fatalf("unexpected sermon filter: %q", got)
	}
}

func TestLoadOverridesSingleEntity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listing.yaml")
	body := "entities:\n  sermons:\n    page_size: 3\n    ordering: [date]\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.For("sermons").PageSize != 3 {
		t.Fatalf("override not applied")
	}
	if cfg.For("resources").Ordering[0] != "name" {
		t.Fatalf("other entities should keep defaults")
	}
}

func TestParseRejectsInjectedColumns(t *testing.T) {
	body := []byte("entities:\n  sermons:\n    search: [\"title; DROP TABLE sermon\"]\n")
	if _, err := Parse(body); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestForUnknownEntity(t *testing.T) {
	var cfg *Config
	if got := cfg.For("nope").PageSize; got != DefaultPageSize {
		t.Fatalf("page size = %d", got)
	}
}
