package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/http/response"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/observability"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/apierr"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/ctxutil"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/policy"
)

type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (m *mapCache) Get(_ context.Context, ns, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[ns+"|"+key]
	return v, ok
}

func (m *mapCache) Set(_ context.Context, ns, key string, val []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = map[string][]byte{}
	}
	m.entries[ns+"|"+key] = append([]byte(nil), val...)
}

func (m *mapCache) Invalidate(context.Context, ...string) {}
func (m *mapCache) Enabled() bool                         { return true }
func (m *mapCache) Ping(context.Context) error            { return nil }
func (m *mapCache) Close() error                          { return nil }

func TestResponseCacheServesSecondRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	calls := 0
	r := gin.New()
	r.GET("/api/sermons/", ResponseCache(&mapCache{}, nil, "sermons", ""), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"count": 0})
	})

	for i, want := range []string{"MISS", "HIT"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sermons/?page=1", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
		if got := rec.Header().Get(headerCache); got != want {
			t.Fatalf("request %d: X-Cache want=%s got=%s", i, want, got)
		}
		if rec.Body.String() != `{"count":0}` {
			t.Fatalf("request %d: body %q", i, rec.Body.String())
		}
	}
	if calls != 1 {
		t.Fatalf("handler calls: want=1 got=%d", calls)
	}
}

func TestResponseCacheKeysOnOriginWithoutBaseURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		baseURL   string
		wantCalls int
		wantCache string
	}{
		{baseURL: "", wantCalls: 2, wantCache: "MISS"},
		{baseURL: "https://api.example.org", wantCalls: 1, wantCache: "HIT"},
	}
	for _, tc := range cases {
		calls := 0
		r := gin.New()
		r.GET("/api/sermons/", ResponseCache(&mapCache{}, nil, "sermons", tc.baseURL), func(c *gin.Context) {
			calls++
			c.JSON(http.StatusOK, gin.H{"next": "http://" + c.Request.Host + "/api/sermons/?page=2"})
		})

		first := httptest.NewRequest(http.MethodGet, "/api/sermons/?page=1", nil)
		first.Host = "one.example.org"
		r.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodGet, "/api/sermons/?page=1", nil)
		second.Host = "two.example.org"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, second)

		if calls != tc.wantCalls {
			t.Fatalf("base %q: handler calls want=%d got=%d", tc.baseURL, tc.wantCalls, calls)
		}
		if got := rec.Header().Get(headerCache); got != tc.wantCache {
			t.Fatalf("base %q: X-Cache want=%s got=%s", tc.baseURL, tc.wantCache, got)
		}
	}
}

func TestAuthorizeMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := policy.NewDefaultEngine()
	self := uuid.New()

	withActor := func(rd *ctxutil.RequestData) gin.HandlerFunc {
		return func(c *gin.Context) {
			if rd != nil {
				c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
			}
			c.Next()
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	cases := []struct {
		name   string
		actor  *ctxutil.RequestData
		method string
		path   string
		want   int
	}{
		{"anonymous prayer create", nil, http.MethodPost, "/api/prayer-requests/create/", http.StatusNoContent},
		{"anonymous prayer list", nil, http.MethodGet, "/api/prayer-requests/", http.StatusUnauthorized},
		{"member prayer list", &ctxutil.RequestData{UserID: uuid.New()}, http.MethodGet, "/api/prayer-requests/", http.StatusForbidden},
		{"staff self delete", &ctxutil.RequestData{UserID: self, IsStaff: true, IsSuperuser: true}, http.MethodDelete, "/api/admins/" + self.String() + "/delete/", http.StatusBadRequest},
		{"superuser delete other", &ctxutil.RequestData{UserID: self, IsStaff: true, IsSuperuser: true}, http.MethodDelete, "/api/admins/" + uuid.NewString() + "/delete/", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(withActor(tc.actor))
			r.GET("/api/prayer-requests/", Authorize(engine, logger.Nop(), "prayer-requests", policy.OpList), ok)
			r.POST("/api/prayer-requests/create/", Authorize(engine, logger.Nop(), "prayer-requests", policy.OpCreate), ok)
			r.DELETE("/api/admins/:id/delete/", Authorize(engine, logger.Nop(), "admins", policy.OpDelete), ok)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			if rec.Code != tc.want {
				t.Fatalf("status: want=%d got=%d body=%s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, "req-123")
	req.Header.Set(headerTraceID, "trace.abc_1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if seen == nil || seen.RequestID != "req-123" || seen.TraceID != "trace.abc_1" {
		t.Fatalf("client ids not kept: %+v", seen)
	}
	if rec.Header().Get(headerRequestID) != "req-123" {
		t.Fatalf("request id header: %q", rec.Header().Get(headerRequestID))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, "bad id\r\nx")
	req.Header.Set(headerTraceID, strings.Repeat("a", 65))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if _, err := uuid.Parse(seen.RequestID); err != nil {
		t.Fatalf("unsafe request id should be replaced, got %q", seen.RequestID)
	}
	if _, err := uuid.Parse(seen.TraceID); err != nil {
		t.Fatalf("oversized trace id should be replaced, got %q", seen.TraceID)
	}
}

func TestMetricsLabelsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/sermons/:id/", func(c *gin.Context) {
		response.RespondAPIError(c, nil, apierr.NotFound("sermon"))
	})

	for _, path := range []string{"/api/sermons/a/", "/api/sermons/b/", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`ecc_api_requests_total{method="GET",route="/api/sermons/:id/",status="404"} 2`,
		`ecc_api_requests_total{method="GET",route="unmatched",status="404"} 1`,
		`ecc_api_errors_total{code="not_found"} 2`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in:\n%s", want, out)
		}
	}
}
