package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/http/response"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/observability"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/cache"
)

const headerCache = "X-Cache"

type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache serves public GET responses from the cache namespace of one
// collection. Only 200 responses are stored; the key is the full request URI.
// Without a public base URL, pagination links carry the request origin, so the
// origin becomes part of the key.
// It must run after authorization so that denied callers never reach it.
func ResponseCache(c cache.Cache, m *observability.Metrics, namespace, baseURL string) gin.HandlerFunc {
	if c == nil || !c.Enabled() {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodGet {
			ctx.Next()
			return
		}
		key := ctx.Request.URL.RequestURI()
		if baseURL == "" {
			key = response.RequestOrigin(ctx.Request) + key
		}
		if body, ok := c.Get(ctx.Request.Context(), namespace, key); ok {
			m.ObserveCacheLookup(namespace, true)
			ctx.Header(headerCache, "HIT")
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
			ctx.Abort()
			return
		}
		m.ObserveCacheLookup(namespace, false)
		ctx.Header(headerCache, "MISS")
		w := &capturingWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = w
		ctx.Next()
		if w.Status() == http.StatusOK && w.body.Len() > 0 {
			c.Set(ctx.Request.Context(), namespace, key, w.body.Bytes())
		}
	}
}
