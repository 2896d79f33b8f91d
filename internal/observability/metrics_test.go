package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWritePrometheus(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/api/sermons/", 200, 30*time.Millisecond)
	m.ObserveAPI("GET", "/api/sermons/", 200, 2*time.Second)
	m.ObserveCacheLookup("sermons", true)
	m.IncWrite("events", "create")
	m.IncMedia("put", errors.New("boom"))

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`ecc_api_requests_total{method="GET",route="/api/sermons/",status="200"} 2`,
		`ecc_api_request_duration_seconds_bucket{method="GET",route="/api/sermons/",le="0.05"} 1`,
		`ecc_api_request_duration_seconds_bucket{method="GET",route="/api/sermons/",le="+Inf"} 2`,
		`ecc_api_request_duration_seconds_count{method="GET",route="/api/sermons/"} 2`,
		`ecc_response_cache_lookups_total{collection="sermons",result="hit"} 1`,
		`ecc_content_writes_total{collection="events",op="create"} 1`,
		`ecc_media_operations_total{op="put",status="error"} 1`,
		"# TYPE ecc_api_inflight_requests gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", 200, time.Millisecond)
	m.APIInflightInc()
	m.IncWrite("sermons", "delete")
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil write: %v", err)
	}
}

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" x-api-key = abc , broken, =v, k= ")
	if len(got) != 1 || got["x-api-key"] != "abc" {
		t.Fatalf("headers: %v", got)
	}
	if parseHeaders("") != nil {
		t.Fatalf("empty input should yield nil")
	}
}

func TestSampleRatioClamped(t *testing.T) {
	t.Setenv("OTEL_SAMPLER_RATIO", "7")
	if got := otelSampleRatio(); got != 1 {
		t.Fatalf("ratio: %v", got)
	}
	t.Setenv("OTEL_SAMPLER_RATIO", "nope")
	if got := otelSampleRatio(); got != 0.1 {
		t.Fatalf("fallback ratio: %v", got)
	}
}
