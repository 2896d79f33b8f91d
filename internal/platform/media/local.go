package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type localStore struct {
	dir     string
	baseURL string
}

// NewLocalStore writes objects below dir and serves them from baseURL.
func NewLocalStore(dir, baseURL string) (Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultLocalDir
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultLocalBase
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &localStore{dir: dir, baseURL: baseURL}, nil
}

func (s *localStore) Mode() Mode { return ModeLocal }

// Dir is the root directory served under the public base URL.
func (s *localStore) Dir() string { return s.dir }

func (s *localStore) path(key string) (string, error) {
	key = normalizeKey(key)
	if key == "" {
		return "", errors.New("empty media key")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid media key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}

func (s *localStore) Put(ctx context.Context, key string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write media: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close media: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("move media into place: %w", err)
	}
	return nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	dst, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}

func (s *localStore) URL(key string) string {
	if IsAbsoluteURL(key) {
		return strings.TrimSpace(key)
	}
	key = normalizeKey(key)
	if key == "" {
		return ""
	}
	return s.baseURL + "/" + key
}

// LocalDir returns the directory backing st when st is a local store.
func LocalDir(st Store) (string, bool) {
	ls, ok := st.(*localStore)
	if !ok {
		return "", false
	}
	return ls.dir, true
}
