package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type gcsStore struct {
	client       *storage.Client
	mode         Mode
	bucket       string
	cdnDomain    string
	emulatorHost string
	publicBase   string
}

func NewGCSStore(ctx context.Context, cfg Config) (Store, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("missing MEDIA_BUCKET")
	}
	mode := cfg.Mode
	if mode == "" {
		mode = ModeGCS
	}
	emulator := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")

	var opts []option.ClientOption
	switch mode {
	case ModeGCSEmulator:
		if emulator == "" {
			return nil, errors.New("missing STORAGE_EMULATOR_HOST for gcs_emulator mode")
		}
		_ = os.Setenv("STORAGE_EMULATOR_HOST", emulator)
		opts = append(opts, option.WithoutAuthentication())
	default:
		opts = append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &gcsStore{
		client:       client,
		mode:         mode,
		bucket:       bucket,
		cdnDomain:    strings.TrimSpace(cfg.CDNDomain),
		emulatorHost: emulator,
		publicBase:   strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"),
	}, nil
}

// ClientOptionsFromEnv reads service account credentials as inline JSON or a
// file path.
func ClientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (s *gcsStore) Mode() Mode { return s.mode }

func (s *gcsStore) Put(ctx context.Context, key string, r io.Reader) error {
	key = normalizeKey(key)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if ct := ContentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (s *gcsStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := s.client.Bucket(s.bucket).Object(normalizeKey(key)).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

func (s *gcsStore) URL(key string) string {
	if IsAbsoluteURL(key) {
		return strings.TrimSpace(key)
	}
	key = normalizeKey(key)
	if key == "" {
		return ""
	}
	return gcsPublicURL(s.mode, s.bucket, s.cdnDomain, s.publicBase, s.emulatorHost, key)
}

func gcsPublicURL(mode Mode, bucket, cdnDomain, publicBase, emulatorHost, key string) string {
	if cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", cdnDomain, key)
	}
	if mode == ModeGCSEmulator {
		base := publicBase
		if base == "" {
			base = emulatorHost
		}
		if base != "" {
			return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(bucket), url.PathEscape(key))
		}
	}
	if publicBase != "" {
		return fmt.Sprintf("%s/%s/%s", publicBase, bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}
