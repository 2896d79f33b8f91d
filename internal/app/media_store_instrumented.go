package app

import (
	"context"
	"io"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/observability"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/media"
)

// instrumentedMediaStore counts put and delete outcomes. It is a separate type
// from the inner store, so callers that need the local directory unwrap it
// through LocalDir.
type instrumentedMediaStore struct {
	inner   media.Store
	metrics *observability.Metrics
}

func instrumentMediaStore(inner media.Store, metrics *observability.Metrics) media.Store {
	if inner == nil || metrics == nil {
		return inner
	}
	return &instrumentedMediaStore{inner: inner, metrics: metrics}
}

func (s *instrumentedMediaStore) Put(ctx context.Context, key string, r io.Reader) error {
	err := s.inner.Put(ctx, key, r)
	s.metrics.IncMedia("put", err)
	return err
}

func (s *instrumentedMediaStore) Delete(ctx context.Context, key string) error {
	err := s.inner.Delete(ctx, key)
	s.metrics.IncMedia("delete", err)
	return err
}

func (s *instrumentedMediaStore) URL(key string) string { return s.inner.URL(key) }

func (s *instrumentedMediaStore) Mode() media.Mode { return s.inner.Mode() }

// localDir unwraps the instrumented store for media.LocalDir.
func localDir(st media.Store) (string, bool) {
	if in, ok := st.(*instrumentedMediaStore); ok {
		st = in.inner
	}
	return media.LocalDir(st)
}
