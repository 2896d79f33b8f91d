package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
)

func TestLocalStorePutURLDelete(t *testing.T) {
	dir := t.TempDir()
	st, err := NewLocalStore(dir, "http://localhost:8000/media/")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	key := Key(CategorySeriesImage, "abc.png")
	if err := st.Put(context.Background(), key, strings.NewReader("png-bytes")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "series_images", "abc.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "png-bytes" {
		t.Fatalf("unexpected content %q", got)
	}
	if u := st.URL(key); u != "http://localhost:8000/media/series_images/abc.png" {
		t.Fatalf("unexpected url %q", u)
	}
	if err := st.Delete(context.Background(), key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "series_images", "abc.png")); !os.IsNotExist(err) {
		t.Fatalf("expected file gone, stat err=%v", err)
	}
	if err := st.Delete(context.Background(), key); err != nil {
		t.Fatalf("second Delete should be a no-op: %v", err)
	}
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	st, err := NewLocalStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	for _, key := range []string{"", "../etc/passwd", "series_images/../../x"} {
		if err := st.Put(context.Background(), key, strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestURLPassesThroughAbsoluteLinks(t *testing.T) {
	st, err := NewLocalStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	if u := st.URL("https://cdn.example.org/a.png"); u != "https://cdn.example.org/a.png" {
		t.Fatalf("unexpected url %q", u)
	}
	if u := st.URL("series_images/default_profile.jpg"); u != "/media/series_images/default_profile.jpg" {
		t.Fatalf("unexpected default url %q", u)
	}
	if u := st.URL(""); u != "" {
		t.Fatalf("empty key should give empty url, got %q", u)
	}
}

func TestPublicURLs(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"gcs default", gcsPublicURL(ModeGCS, "church", "", "", "", "a/b.png"), "https://storage.googleapis.com/church/a/b.png"},
		{"gcs cdn", gcsPublicURL(ModeGCS, "church", "cdn.test", "", "", "a/b.png"), "https://cdn.test/a/b.png"},
		{"gcs emulator", gcsPublicURL(ModeGCSEmulator, "church", "", "", "http://localhost:4443", "a/b.png"), "http://localhost:4443/storage/v1/b/church/o/a%2Fb.png?alt=media"},
		{"s3 aws", s3PublicURL("church", "eu-west-1", "", "", "a.png"), "https://church.s3.eu-west-1.amazonaws.com/a.png"},
		{"s3 minio", s3PublicURL("church", "us-east-1", "http://minio:9000", "", "a.png"), "http://minio:9000/church/a.png"},
		{"s3 public base", s3PublicURL("church", "us-east-1", "http://minio:9000", "https://media.test", "a.png"), "https://media.test/a.png"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, tc.got, tc.want)
		}
	}
}

func TestContentTypeForKey(t *testing.T) {
	if ct := ContentTypeForKey("x/Y.JPEG"); ct != "image/jpeg" {
		t.Fatalf("jpeg: %q", ct)
	}
	if ct := ContentTypeForKey("x/y.png?v=2"); ct != "image/png" {
		t.Fatalf("png: %q", ct)
	}
	if ct := ContentTypeForKey("x/y.bin"); ct != "" {
		t.Fatalf("unknown: %q", ct)
	}
}

func TestNewRejectsUnknownMode(t *testing.T) {
	if _, err := New(context.Background(), Config{Mode: "ftp"}, logger.Nop()); err == nil {
		t.Fatalf("expected error")
	}
	st, err := New(context.Background(), Config{Dir: t.TempDir()}, logger.Nop())
	if err != nil {
		t.Fatalf("default mode: %v", err)
	}
	if st.Mode() != ModeLocal {
		t.Fatalf("expected local mode, got %s", st.Mode())
	}
}
