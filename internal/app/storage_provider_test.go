package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/observability"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/media"
)

func bootstrapCode(t *testing.T, err error) MediaBootstrapErrorCode {
	t.Helper()
	var got *MediaBootstrapError
	if !errors.As(err, &got) {
		t.Fatalf("expected MediaBootstrapError, got=%T (%v)", err, err)
	}
	return got.Code
}

func TestCheckMediaConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  media.Config
		want MediaBootstrapErrorCode
	}{
		{name: "local default", cfg: media.Config{}},
		{name: "gcs with bucket", cfg: media.Config{Mode: media.ModeGCS, Bucket: "church-media"}},
		{name: "s3 with bucket", cfg: media.Config{Mode: "S3", Bucket: "church-media"}},
		{name: "unknown mode", cfg: media.Config{Mode: "ftp"}, want: MediaBootstrapErrorInvalidMode},
		{name: "gcs without bucket", cfg: media.Config{Mode: media.ModeGCS}, want: MediaBootstrapErrorMissingBucket},
		{name: "emulator without host", cfg: media.Config{Mode: media.ModeGCSEmulator, Bucket: "b"}, want: MediaBootstrapErrorMissingEmulatorHost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkMediaConfig(tc.cfg)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if got := bootstrapCode(t, err); got != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got)
			}
		})
	}
}

func TestResolveMediaStoreConnectFailure(t *testing.T) {
	orig := newMediaStore
	t.Cleanup(func() { newMediaStore = orig })
	cause := errors.New("dial tcp: connection refused")
	newMediaStore = func(context.Context, media.Config, *logger.Logger) (media.Store, error) {
		return nil, cause
	}

	m := observability.New()
	_, err := resolveMediaStore(context.Background(), logger.Nop(), media.Config{Mode: media.ModeS3, Bucket: "b"}, m)
	if got := bootstrapCode(t, err); got != MediaBootstrapErrorConnectFailed {
		t.Fatalf("code: want=%q got=%q", MediaBootstrapErrorConnectFailed, got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be wrapped, got=%v", err)
	}
	if !strings.Contains(prometheusText(t, m), `ecc_media_operations_total{op="bootstrap",status="error"} 1`) {
		t.Fatalf("bootstrap failure not counted")
	}
}

func TestResolveMediaStoreInstrumentsLocalStore(t *testing.T) {
	m := observability.New()
	dir := t.TempDir()
	store, err := resolveMediaStore(context.Background(), logger.Nop(), media.Config{Mode: media.ModeLocal, Dir: dir, PublicBaseURL: "/media"}, m)
	if err != nil {
		t.Fatalf("resolveMediaStore: %v", err)
	}
	if err := store.Put(context.Background(), "series_images/a.png", bytes.NewReader([]byte("png"))); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(context.Background(), "series_images/a.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, ok := localDir(store); !ok || got == "" {
		t.Fatalf("localDir should see through the wrapper: %q %v", got, ok)
	}
	if store.URL("series_images/a.png") != "/media/series_images/a.png" {
		t.Fatalf("unexpected url: %s", store.URL("series_images/a.png"))
	}

	text := prometheusText(t, m)
	for _, want := range []string{
		`ecc_media_operations_total{op="bootstrap",status="ok"} 1`,
		`ecc_media_operations_total{op="put",status="ok"} 1`,
		`ecc_media_operations_total{op="delete",status="ok"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
}

func prometheusText(t *testing.T, m *observability.Metrics) string {
	t.Helper()
	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	return buf.String()
}
